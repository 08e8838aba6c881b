// Package issueform extracts field values from the body of a "new device" GitHub issue form.
package issueform

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyBody       = errors.New("issue body is empty")
	ErrMissingIdentity = errors.New("device ID or brand not found in issue body")
)

// ValidationError reports an issue body that cannot be processed at all
type ValidationError struct {
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Reason == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%v: %s", e.Err, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

const (
	headingPrefix = "### "
	noResponse    = "_No response_"
)

// Field keys produced by Extract
const (
	KeyID                = "id"
	KeyBrand             = "brand"
	KeyModel             = "model"
	KeyReleaseDate       = "release_date"
	KeyCPUBrand          = "cpu_brand"
	KeyCPUModel          = "cpu_model"
	KeyCPUTDP            = "cpu_tdp"
	KeyCPUCores          = "cpu_cores"
	KeyCPUThreads        = "cpu_threads"
	KeyBaseClock         = "base_clock"
	KeyBoostClock        = "boost_clock"
	KeyCPUArchitecture   = "cpu_architecture"
	KeyCPUSocketType     = "cpu_socket_type"
	KeyCPUCoreConfig     = "cpu_core_config"
	KeyGPUModels         = "gpu_models"
	KeyMemoryType        = "memory_type"
	KeyMemoryModuleType  = "memory_module_type"
	KeyMemorySlots       = "memory_slots"
	KeyMemoryMax         = "memory_max"
	KeyMemorySpeed       = "memory_speed"
	KeyStorageDetails    = "storage_details"
	KeyWiFiStandard      = "wifi_standard"
	KeyWiFiChipset       = "wifi_chipset"
	KeyBluetoothVersion  = "bluetooth_version"
	KeyEthernetPorts     = "ethernet_ports"
	KeyPCIeSlots         = "pcie_slots"
	KeyOCuLinkPorts      = "oculink_ports"
	KeySIMSlots          = "sim_slots"
	KeyMPCIeSlots        = "mpcie_slots"
	KeyUSBPorts          = "usb_ports"
	KeyDisplayPorts      = "display_ports"
	KeyAudioJacks        = "audio_jacks"
	KeySDCardReader      = "sd_card_reader"
	KeyMicroSDCardReader = "micro_sd_card_reader"
	KeySerialPorts       = "serial_ports"
	KeyIRReceiver        = "ir_receiver"
	KeyDimensions        = "dimensions"
	KeyPowerAdapter      = "power_adapter"
	KeyAdditionalInfo    = "additional_info"
)

// headingKeys maps the form's section headings to field keys. Headings not listed here are ignored
var headingKeys = map[string]string{
	"Device ID":                    KeyID,
	"Brand":                        KeyBrand,
	"Model":                        KeyModel,
	"Release Date":                 KeyReleaseDate,
	"CPU Brand":                    KeyCPUBrand,
	"CPU Model":                    KeyCPUModel,
	"CPU TDP (Watts)":              KeyCPUTDP,
	"CPU Cores":                    KeyCPUCores,
	"CPU Threads":                  KeyCPUThreads,
	"Base Clock (GHz)":             KeyBaseClock,
	"Boost Clock (GHz)":            KeyBoostClock,
	"CPU Architecture":             KeyCPUArchitecture,
	"CPU Socket Type":              KeyCPUSocketType,
	"Core Configuration":           KeyCPUCoreConfig,
	"GPU Models":                   KeyGPUModels,
	"Memory Type":                  KeyMemoryType,
	"Memory Module Type":           KeyMemoryModuleType,
	"Memory Slots":                 KeyMemorySlots,
	"Maximum Memory Capacity (GB)": KeyMemoryMax,
	"Memory Speed (MT/s)":          KeyMemorySpeed,
	"Storage Details":              KeyStorageDetails,
	"WiFi Standard":                KeyWiFiStandard,
	"WiFi Chipset":                 KeyWiFiChipset,
	"Bluetooth Version":            KeyBluetoothVersion,
	"Ethernet Ports":               KeyEthernetPorts,
	"PCIe Slots":                   KeyPCIeSlots,
	"OCuLink Ports":                KeyOCuLinkPorts,
	"SIM Card Slots":               KeySIMSlots,
	"mPCIe Slots":                  KeyMPCIeSlots,
	"USB Ports":                    KeyUSBPorts,
	"Display Ports":                KeyDisplayPorts,
	"Audio Jacks":                  KeyAudioJacks,
	"SD Card Reader":               KeySDCardReader,
	"Micro SD Card Reader":         KeyMicroSDCardReader,
	"Serial Ports":                 KeySerialPorts,
	"IR Receiver":                  KeyIRReceiver,
	"Dimensions (mm)":              KeyDimensions,
	"Power Adapter":                KeyPowerAdapter,
	"Additional Information":       KeyAdditionalInfo,
}

// KeyForHeading returns the field key for a form heading, and whether the heading is known
func KeyForHeading(heading string) (string, bool) {
	key, ok := headingKeys[heading]
	return key, ok
}

// Fields holds the raw, trimmed value of every answered form section, keyed by field key. Unanswered sections are
// absent rather than empty
type Fields map[string]string

// Get returns the value for key and whether it was present
func (f Fields) Get(key string) (string, bool) {
	v, ok := f[key]
	return v, ok
}

// Has returns true if the field was answered
func (f Fields) Has(key string) bool {
	_, ok := f[key]
	return ok
}

// Extract parses an issue form body into Fields
func Extract(body string) (Fields, error) {
	if strings.TrimSpace(body) == "" {
		return nil, &ValidationError{Err: ErrEmptyBody}
	}

	fields := Fields{}

	var (
		currentHeading string
		haveHeading    bool
		currentLines   []string
	)

	flush := func() {
		if !haveHeading || len(currentLines) == 0 {
			return
		}
		if key, ok := headingKeys[currentHeading]; ok {
			fields[key] = strings.TrimSpace(strings.Join(currentLines, "\n"))
		}
	}

	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)

		if skipLine(line) {
			continue
		}

		if strings.HasPrefix(line, headingPrefix) {
			flush()
			currentHeading = strings.TrimPrefix(line, headingPrefix)
			haveHeading = true
			currentLines = nil
			continue
		}

		if haveHeading {
			currentLines = append(currentLines, line)
		}
	}
	flush()

	return fields, nil
}

func skipLine(line string) bool {
	switch line {
	case "", noResponse, "Description", "Submission Confirmation":
		return true
	}
	return isCheckbox(line)
}

func isCheckbox(line string) bool {
	return strings.HasPrefix(line, "- [x]") || strings.HasPrefix(line, "- [X]") || strings.HasPrefix(line, "- [ ]")
}
