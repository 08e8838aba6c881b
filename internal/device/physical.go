package device

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	powerAdapterPattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)W.*?(\d+(?:\.\d+)?)[vV].*?(\d+(?:\.\d+)?)A`)
	firstIntegerPattern = regexp.MustCompile(`\d+`)
	oculinkPattern      = regexp.MustCompile(`(\d+)x?\s*(OCuLink\s*\d+\.\d+)`)

	ErrNoWattage    = errors.New("no wattage found")
	ErrTooManyPorts = fmt.Errorf("more than %d ports", MaxOCuLinkPorts)
)

// MaxOCuLinkPorts bounds the port count accepted from a form, since each port becomes its own entry
const MaxOCuLinkPorts = 8

// ParseDimensions parses "W x D x H" in millimetres. The second return value is false if the text does not contain
// exactly three numbers
func ParseDimensions(text string) (*Dimensions, bool) {
	parts := strings.Split(text, "x")
	if len(parts) != 3 {
		return nil, false
	}

	var values [3]float64
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, false
		}
		values[i] = v
	}

	return &Dimensions{Width: values[0], Depth: values[1], Height: values[2]}, true
}

// ParsePower parses adapter descriptions such as "65W, 20V, 3.25A". When the voltage and current cannot be found,
// the first integer in the text is taken as the wattage and DCInput is left empty
func ParsePower(text string) (*Power, error) {
	if m := powerAdapterPattern.FindStringSubmatch(text); m != nil {
		wattage, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return nil, err
		}
		return &Power{
			AdapterWattage: wattage,
			DCInput:        fmt.Sprintf("%sV/%sA", m[2], m[3]),
		}, nil
	}

	digits := firstIntegerPattern.FindString(text)
	if digits == "" {
		return nil, ErrNoWattage
	}
	wattage, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return nil, err
	}
	return &Power{AdapterWattage: wattage}, nil
}

// ParseOCuLink parses text such as "2x OCuLink 2.0" into one entry per port. Returns nil if the text does not
// describe any OCuLink port, and ErrTooManyPorts if the count is above MaxOCuLinkPorts
func ParseOCuLink(text string) ([]OCuLinkPort, error) {
	m := oculinkPattern.FindStringSubmatch(text)
	if m == nil {
		return nil, nil
	}
	count, err := strconv.Atoi(m[1])
	if errors.Is(err, strconv.ErrRange) || count > MaxOCuLinkPorts {
		return nil, fmt.Errorf("%w: %s", ErrTooManyPorts, m[1])
	} else if err != nil {
		return nil, err
	}

	var ports []OCuLinkPort
	for range count {
		ports = append(ports, OCuLinkPort{Version: m[2]})
	}
	return ports, nil
}
