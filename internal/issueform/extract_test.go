package issueform

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func readIssue(t *testing.T) string {
	data, err := os.ReadFile("testdata/new_device_issue.md")
	require.NoError(t, err)
	return string(data)
}

func TestExtract_FullForm(t *testing.T) {
	fields, err := Extract(readIssue(t))
	require.NoError(t, err)

	expected := Fields{
		KeyID:                "UM790-Pro",
		KeyBrand:             "Minisforum",
		KeyModel:             "UM790 Pro",
		KeyReleaseDate:       "2023-06",
		KeyCPUBrand:          "AMD",
		KeyCPUModel:          "Ryzen 9 7940HS",
		KeyCPUTDP:            "54",
		KeyCPUCores:          "8",
		KeyCPUThreads:        "16",
		KeyBaseClock:         "4.0",
		KeyBoostClock:        "5.2",
		KeyCPUArchitecture:   "Zen 4",
		KeyCPUSocketType:     "None",
		KeyGPUModels:         "Type: Integrated, Model: Radeon 780M, VRAM: Shared",
		KeyMemoryType:        "DDR5",
		KeyMemoryModuleType:  "SODIMM",
		KeyMemorySlots:       "2",
		KeyMemoryMax:         "64",
		KeyMemorySpeed:       "5600",
		KeyStorageDetails:    "Type: M.2, Form Factor: 2280, Interface: PCIe 4.0 x4\nType: M.2, Form Factor: 2280, Interface: PCIe 4.0 x4",
		KeyWiFiStandard:      "Wi-Fi 6E",
		KeyWiFiChipset:       "AMD RZ616",
		KeyBluetoothVersion:  "5.2",
		KeyEthernetPorts:     "Type: 2.5GbE, Chipset: Intel I226-V, Interface: RJ45",
		KeyUSBPorts:          "Type: USB-A, Speed: 10Gbps, Count: 2\nType: USB-A, Speed: 480Mbps, Count: 2\nType: USB4, Speed: 40Gbps, Count: 2, Alt Mode: DisplayPort 1.4, Max Resolution: 8K@60Hz",
		KeyDisplayPorts:      "Type: HDMI, Count: 2, Version: 2.1, Max Resolution: 8K@60Hz",
		KeyAudioJacks:        "1",
		KeySDCardReader:      "No",
		KeyMicroSDCardReader: "None",
		KeyIRReceiver:        "None",
		KeyDimensions:        "130 x 126 x 52.3",
		KeyPowerAdapter:      "120W, 19V, 6.32A",
		KeyAdditionalInfo:    "Dual fan cooling.\nBarebone and 32GB/1TB configurations.",
	}
	require.Equal(t, expected, fields)
}

func TestExtract_KeysMatchPresentHeadings(t *testing.T) {
	body := ""
	for heading := range headingKeys {
		body += "### " + heading + "\n\nvalue\n\n"
	}

	fields, err := Extract(body)
	require.NoError(t, err)
	require.Len(t, fields, len(headingKeys))
	for heading, key := range headingKeys {
		require.True(t, fields.Has(key), "missing key %s for heading %q", key, heading)
	}
}

func TestExtract_EmptyBody(t *testing.T) {
	_, err := Extract("")
	require.ErrorIs(t, err, ErrEmptyBody)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestExtract_WhitespaceBody(t *testing.T) {
	_, err := Extract("  \n\t\n")
	require.ErrorIs(t, err, ErrEmptyBody)
}

func TestExtract_UnknownHeadingIgnored(t *testing.T) {
	body := "### Favourite Colour\n\nBlue\n\n### Brand\n\nBeelink\n"

	fields, err := Extract(body)
	require.NoError(t, err)
	require.Equal(t, Fields{KeyBrand: "Beelink"}, fields)
}

func TestExtract_NoResponseOmitsField(t *testing.T) {
	body := "### Serial Ports\n\n_No response_\n\n### Brand\n\nGMKtec\n"

	fields, err := Extract(body)
	require.NoError(t, err)
	require.False(t, fields.Has(KeySerialPorts))
	require.Equal(t, "GMKtec", fields[KeyBrand])
}

func TestExtract_CheckboxLinesSkipped(t *testing.T) {
	body := "### Additional Information\n\n- [x] confirmed\n- [ ] not confirmed\nReal note\n"

	fields, err := Extract(body)
	require.NoError(t, err)
	require.Equal(t, "Real note", fields[KeyAdditionalInfo])
}

func TestExtract_LinesBeforeFirstHeadingIgnored(t *testing.T) {
	body := "preamble text\n### Model\n\nEQ12\n"

	fields, err := Extract(body)
	require.NoError(t, err)
	require.Equal(t, Fields{KeyModel: "EQ12"}, fields)
}

func TestExtract_CRLF(t *testing.T) {
	body := "### Brand\r\n\r\nBeelink\r\n### Model\r\n\r\nSER8\r\n"

	fields, err := Extract(body)
	require.NoError(t, err)
	require.Equal(t, Fields{KeyBrand: "Beelink", KeyModel: "SER8"}, fields)
}

func TestKeyForHeading(t *testing.T) {
	key, ok := KeyForHeading("Maximum Memory Capacity (GB)")
	require.True(t, ok)
	require.Equal(t, KeyMemoryMax, key)

	_, ok = KeyForHeading("Nope")
	require.False(t, ok)
}
