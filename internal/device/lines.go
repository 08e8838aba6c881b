package device

import (
	"strconv"
	"strings"
)

// entry is one "Key: Value, Key: Value" line from a form section. Keys are lowercased
type entry map[string]string

func (e entry) stringValue(key string) (string, bool) {
	v, ok := e[key]
	return v, ok
}

func (e entry) intValue(key string) (int, bool, error) {
	v, ok := e[key]
	if !ok {
		return 0, false, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, true, err
	}
	return n, true, nil
}

func (e entry) floatValue(key string) (float64, bool, error) {
	v, ok := e[key]
	if !ok {
		return 0, false, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, true, err
	}
	return f, true, nil
}

// lineParser selects the lines of a section that describe one sub-record each
type lineParser struct {
	// markers are the prefixes a line must start with, after an optional "- " list marker. No markers means every
	// non-empty line is considered
	markers []string
	// required keys must all be present for an entry to be returned
	required []string
}

var (
	typeLines  = lineParser{markers: []string{"Type:"}, required: []string{"type"}}
	countLines = lineParser{markers: []string{"Count:"}, required: []string{"count"}}
)

func (lp lineParser) requiring(keys ...string) lineParser {
	lp.required = append(append([]string(nil), lp.required...), keys...)
	return lp
}

// parse returns the entries in text, in input order
func (lp lineParser) parse(text string) []entry {
	var entries []entry
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "- ")
		if line == "" || !lp.matches(line) {
			continue
		}

		e := parseEntry(line)
		if !lp.complete(e) {
			continue
		}
		entries = append(entries, e)
	}
	return entries
}

func (lp lineParser) matches(line string) bool {
	if len(lp.markers) == 0 {
		return true
	}
	for _, m := range lp.markers {
		if strings.HasPrefix(line, m) {
			return true
		}
	}
	return false
}

func (lp lineParser) complete(e entry) bool {
	for _, key := range lp.required {
		if _, ok := e[key]; !ok {
			return false
		}
	}
	return true
}

// parseEntry splits a line on commas into key/value pairs. Parts without a colon are ignored
func parseEntry(line string) entry {
	e := entry{}
	for _, part := range strings.Split(line, ",") {
		part = strings.TrimSpace(part)
		key, value, found := strings.Cut(part, ":")
		if !found {
			continue
		}
		e[strings.ToLower(strings.TrimSpace(key))] = strings.TrimSpace(value)
	}
	return e
}
