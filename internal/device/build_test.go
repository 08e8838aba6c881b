package device

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/minipcdb/device-intake/internal/issueform"
)

func ptr[T any](v T) *T {
	return &v
}

func baseFields() issueform.Fields {
	return issueform.Fields{
		issueform.KeyID:               "SER8",
		issueform.KeyBrand:            "Beelink",
		issueform.KeyModel:            "SER8",
		issueform.KeyReleaseDate:      "2024-03",
		issueform.KeyCPUBrand:         "AMD",
		issueform.KeyCPUModel:         "Ryzen 7 8845HS",
		issueform.KeyCPUTDP:           "54",
		issueform.KeyCPUCores:         "8",
		issueform.KeyCPUThreads:       "16",
		issueform.KeyBaseClock:        "3.8",
		issueform.KeyCPUArchitecture:  "Zen 4",
		issueform.KeyMemorySlots:      "2",
		issueform.KeyMemoryType:       "DDR5",
		issueform.KeyMemorySpeed:      "5600",
		issueform.KeyMemoryModuleType: "SODIMM",
		issueform.KeyMemoryMax:        "256",
	}
}

func build(t *testing.T, extra issueform.Fields) *Record {
	fields := baseFields()
	for k, v := range extra {
		fields[k] = v
	}
	rec, err := Build(fields)
	require.NoError(t, err)
	return rec
}

func TestBuild_Minimal(t *testing.T) {
	rec := build(t, nil)

	expected := &Record{
		ID:          "beelink-ser8",
		Brand:       "Beelink",
		Model:       "SER8",
		ReleaseDate: "2024-03",
		CPU: CPU{
			Brand:        "AMD",
			Model:        "Ryzen 7 8845HS",
			TDP:          54,
			Cores:        8,
			Threads:      16,
			BaseClock:    3.8,
			Architecture: "Zen 4",
		},
		Memory: Memory{Slots: 2, Type: "DDR5", Speed: 5600, ModuleType: "SODIMM", MaxCapacity: 256},
		Networking: Networking{
			Ethernet: []Ethernet{},
			WiFi:     WiFi{Standard: "None", Chipset: "None", Bluetooth: "None"},
		},
	}
	require.Equal(t, expected, rec)
}

func TestBuild_FullForm(t *testing.T) {
	body, err := os.ReadFile("../issueform/testdata/new_device_issue.md")
	require.NoError(t, err)
	fields, err := issueform.Extract(string(body))
	require.NoError(t, err)

	rec, err := Build(fields)
	require.NoError(t, err)

	expected := &Record{
		ID:          "minisforum-um790-pro",
		Brand:       "Minisforum",
		Model:       "UM790 Pro",
		ReleaseDate: "2023-06",
		CPU: CPU{
			Brand:        "AMD",
			Model:        "Ryzen 9 7940HS",
			TDP:          54,
			Cores:        8,
			Threads:      16,
			BaseClock:    4.0,
			Architecture: "Zen 4",
			BoostClock:   ptr(5.2),
		},
		GPU:    []GPU{{Type: "Integrated", Model: "Radeon 780M", VRAM: "Shared"}},
		Memory: Memory{Slots: 2, Type: "DDR5", Speed: 5600, ModuleType: "SODIMM", MaxCapacity: 64},
		Storage: []Storage{
			{Type: "M.2", FormFactor: "2280", Interface: "PCIe 4.0 x4"},
			{Type: "M.2", FormFactor: "2280", Interface: "PCIe 4.0 x4"},
		},
		Networking: Networking{
			Ethernet: []Ethernet{{Ports: 1, Speed: "2.5GbE", Chipset: "Intel I226-V", Interface: "RJ45"}},
			WiFi:     WiFi{Standard: "WiFi 6E", Chipset: "AMD RZ616", Bluetooth: "5.2"},
		},
		Ports: Ports{
			USBA: []USBPort{
				{Type: "USB-A", Speed: "10Gbps", Count: ptr(2)},
				{Type: "USB-A", Speed: "480Mbps", Count: ptr(2)},
			},
			USBC: []USBPort{
				{Type: "USB4", Speed: "40Gbps", Count: ptr(2), AltMode: "DisplayPort 1.4", MaxResolution: "8K@60Hz"},
			},
			HDMI:         &DisplayOutput{Type: "HDMI", Count: ptr(2), Version: "2.1", MaxResolution: "8K@60Hz"},
			AudioJack:    ptr(1),
			SDCardReader: ptr(false),
		},
		Dimensions: &Dimensions{Width: 130, Depth: 126, Height: 52.3},
		Power:      &Power{AdapterWattage: 120, DCInput: "19V/6.32A"},
	}
	require.Equal(t, expected, rec)
}

func TestBuild_MissingRequiredField(t *testing.T) {
	fields := baseFields()
	delete(fields, issueform.KeyCPUCores)

	_, err := Build(fields)
	require.ErrorIs(t, err, ErrMissingField)

	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	require.Equal(t, issueform.KeyCPUCores, fieldErr.Field)
}

func TestBuild_MalformedRequiredNumber(t *testing.T) {
	fields := baseFields()
	fields[issueform.KeyMemorySlots] = "two"

	_, err := Build(fields)
	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	require.Equal(t, issueform.KeyMemorySlots, fieldErr.Field)
	require.Equal(t, "two", fieldErr.Value)
}

func TestBuild_IntelModelNormalized(t *testing.T) {
	rec := build(t, issueform.Fields{
		issueform.KeyCPUBrand: "Intel",
		issueform.KeyCPUModel: "i7-1360P",
	})
	require.Equal(t, "Core i7-1360P", rec.CPU.Model)
}

func TestBuild_SocketAndBoost(t *testing.T) {
	rec := build(t, issueform.Fields{
		issueform.KeyCPUSocketType: "AM5",
		issueform.KeyBoostClock:    "5.1",
	})
	require.Equal(t, &Socket{Type: "AM5", SupportsCPUSwap: false}, rec.CPU.Socket)
	require.Equal(t, ptr(5.1), rec.CPU.BoostClock)
}

func TestBuild_SentinelsOmitted(t *testing.T) {
	rec := build(t, issueform.Fields{
		issueform.KeyCPUSocketType: "None",
		issueform.KeyBoostClock:    "No response",
		issueform.KeyAudioJacks:    "None",
		issueform.KeyIRReceiver:    "None",
		issueform.KeySerialPorts:   "No response",
		issueform.KeyWiFiChipset:   "No response",
	})
	require.Nil(t, rec.CPU.Socket)
	require.Nil(t, rec.CPU.BoostClock)
	require.Nil(t, rec.Ports.AudioJack)
	require.Nil(t, rec.Ports.IRReceiver)
	require.Nil(t, rec.Ports.Serial)
	require.Equal(t, "None", rec.Networking.WiFi.Chipset)
}

func TestBuild_CoreConfig(t *testing.T) {
	rec := build(t, issueform.Fields{
		issueform.KeyCPUCoreConfig: "Type: P-Core, Count: 4, Boost Clock: 5.0\nType: E-Core, Count: 8, Boost Clock: 3.7",
	})
	require.Equal(t, &CoreConfig{Types: []CoreType{
		{Type: "P-Core", Count: 4, BoostClock: 5.0},
		{Type: "E-Core", Count: 8, BoostClock: 3.7},
	}}, rec.CPU.CoreConfig)
}

func TestBuild_CoreConfigLineMissingBoostDropped(t *testing.T) {
	rec := build(t, issueform.Fields{
		issueform.KeyCPUCoreConfig: "Type: P-Core, Count: 4, Boost Clock: 5.0\nType: E-Core, Count: 8",
	})
	require.Equal(t, &CoreConfig{Types: []CoreType{{Type: "P-Core", Count: 4, BoostClock: 5.0}}}, rec.CPU.CoreConfig)
}

func TestBuild_CoreConfigAllLinesDropped(t *testing.T) {
	rec := build(t, issueform.Fields{
		issueform.KeyCPUCoreConfig: "Type: E-Core, Count: 8\nType: P-Core, Count: many, Boost Clock: 5.0",
	})
	require.Nil(t, rec.CPU.CoreConfig)
}

func TestBuild_USBBucketing(t *testing.T) {
	rec := build(t, issueform.Fields{
		issueform.KeyUSBPorts: "Type: USB-A, Speed: 5Gbps, Count: 2\nType: USB-C, Speed: 10Gbps, Count: 1",
	})
	require.Equal(t, []USBPort{{Type: "USB-A", Speed: "5Gbps", Count: ptr(2)}}, rec.Ports.USBA)
	require.Equal(t, []USBPort{{Type: "USB-C", Speed: "10Gbps", Count: ptr(1)}}, rec.Ports.USBC)
}

func TestBuild_USBThunderbolt(t *testing.T) {
	rec := build(t, issueform.Fields{
		issueform.KeyUSBPorts: "Type: USB Type-C, Speed: 40Gbps, Count: 1, Thunderbolt: 4",
	})
	require.Empty(t, rec.Ports.USBA)
	require.Equal(t, []USBPort{{Type: "USB Type-C", Speed: "40Gbps", Count: ptr(1), ThunderboltVersion: "4"}}, rec.Ports.USBC)
}

func TestBuild_USBMalformedCount(t *testing.T) {
	fields := baseFields()
	fields[issueform.KeyUSBPorts] = "Type: USB-A, Count: lots"

	_, err := Build(fields)
	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	require.Equal(t, issueform.KeyUSBPorts, fieldErr.Field)
}

func TestBuild_DisplayKeepsFirstOfEachKind(t *testing.T) {
	rec := build(t, issueform.Fields{
		issueform.KeyDisplayPorts: "Type: HDMI, Count: 1, Version: 2.0\n" +
			"Type: DisplayPort, Count: 1, Version: 1.4\n" +
			"Type: HDMI, Count: 1, Version: 2.1\n" +
			"Type: VGA, Count: 1",
	})
	require.Equal(t, &DisplayOutput{Type: "HDMI", Count: ptr(1), Version: "2.0"}, rec.Ports.HDMI)
	require.Equal(t, &DisplayOutput{Type: "DisplayPort", Count: ptr(1), Version: "1.4"}, rec.Ports.DisplayPort)
}

func TestBuild_CardReadersAndIR(t *testing.T) {
	rec := build(t, issueform.Fields{
		issueform.KeySDCardReader:      "Yes",
		issueform.KeyMicroSDCardReader: "No",
		issueform.KeyIRReceiver:        "Yes",
		issueform.KeyAudioJacks:        "2",
	})
	require.Equal(t, ptr(true), rec.Ports.SDCardReader)
	require.Equal(t, ptr(false), rec.Ports.MicroSDCardReader)
	require.Equal(t, ptr(true), rec.Ports.IRReceiver)
	require.Equal(t, ptr(2), rec.Ports.AudioJack)
}

func TestBuild_SerialFirstLineWins(t *testing.T) {
	rec := build(t, issueform.Fields{
		issueform.KeySerialPorts: "- Count: 1, Type: RS232\n- Count: 2, Type: RS485",
	})
	require.Equal(t, &SerialPort{Count: 1, Type: "RS232"}, rec.Ports.Serial)
}

func TestBuild_SerialIncompleteLineSkipped(t *testing.T) {
	rec := build(t, issueform.Fields{
		issueform.KeySerialPorts: "Count: 1\nCount: 2, Type: RS485",
	})
	require.Equal(t, &SerialPort{Count: 2, Type: "RS485"}, rec.Ports.Serial)
}

func TestBuild_Storage(t *testing.T) {
	rec := build(t, issueform.Fields{
		issueform.KeyStorageDetails: "Type: M.2, Form Factor: 2280, Interface: PCIe 4.0 x4, Alt Interface: SATA\n" +
			"Type: SATA, Form Factor: 2.5\"\n" +
			"Some note without a marker",
	})
	require.Equal(t, []Storage{
		{Type: "M.2", FormFactor: "2280", Interface: "PCIe 4.0 x4", AltInterface: "SATA"},
		{Type: "SATA", FormFactor: "2.5\"", Interface: "SATA"},
	}, rec.Storage)
}

func TestBuild_Networking(t *testing.T) {
	rec := build(t, issueform.Fields{
		issueform.KeyEthernetPorts:    "Type: 2.5GbE, Chipset: Intel I226-V, Interface: RJ45\nType: 10GbE, Chipset: Intel X710, Interface: SFP+, Count: 2",
		issueform.KeyWiFiStandard:     "Wi-Fi 7",
		issueform.KeyBluetoothVersion: "5.4",
	})
	require.Equal(t, Networking{
		Ethernet: []Ethernet{
			{Ports: 1, Speed: "2.5GbE", Chipset: "Intel I226-V", Interface: "RJ45"},
			{Ports: 2, Speed: "10GbE", Chipset: "Intel X710", Interface: "SFP+"},
		},
		WiFi: WiFi{Standard: "WiFi 7", Chipset: "None", Bluetooth: "5.4"},
	}, rec.Networking)
}

func TestBuild_Expansion(t *testing.T) {
	rec := build(t, issueform.Fields{
		issueform.KeySIMSlots:     "- Type: Nano SIM, Count: 1\n- Type: eSIM",
		issueform.KeyMPCIeSlots:   "- Count: 1, Type: Full size, Note: 4G modem",
		issueform.KeyPCIeSlots:    "- Type: x4 PCIe 4.0, Form Factor: Low profile\n- Type: x1",
		issueform.KeyOCuLinkPorts: "1x OCuLink 2.0",
	})
	require.Equal(t, &Expansion{
		SIMSlots:   []SIMSlot{{Type: "Nano SIM", Count: 1}},
		MPCIeSlots: []MPCIeSlot{{Count: 1, Type: "Full size", Note: "4G modem"}},
		PCIeSlots: []PCIeSlot{
			{Type: "x4 PCIe 4.0", Version: "4.0", FormFactor: "Low profile"},
			{Type: "x1", Version: "3.0"},
		},
		OCuLinkPorts: []OCuLinkPort{{Version: "OCuLink 2.0"}},
	}, rec.Expansion)
}

func TestBuild_ExpansionAbsentWhenEmpty(t *testing.T) {
	rec := build(t, issueform.Fields{
		issueform.KeyPCIeSlots:    "No response",
		issueform.KeyOCuLinkPorts: "none planned",
	})
	require.Nil(t, rec.Expansion)
}

func TestBuild_OCuLinkCountTooLarge(t *testing.T) {
	fields := baseFields()
	fields[issueform.KeyOCuLinkPorts] = "99999999999999x OCuLink 2.0"

	_, err := Build(fields)
	require.ErrorIs(t, err, ErrTooManyPorts)

	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	require.Equal(t, issueform.KeyOCuLinkPorts, fieldErr.Field)
}

func TestBuild_MalformedDimensionsOmitted(t *testing.T) {
	rec := build(t, issueform.Fields{issueform.KeyDimensions: "about 12cm square"})
	require.Nil(t, rec.Dimensions)
}

func TestBuild_PowerWithoutDigitsFails(t *testing.T) {
	fields := baseFields()
	fields[issueform.KeyPowerAdapter] = "USB-C PD"

	_, err := Build(fields)
	require.ErrorIs(t, err, ErrNoWattage)
}

func TestNormalizeCPUModel(t *testing.T) {
	require.Equal(t, "Core i7-1360P", NormalizeCPUModel("Intel", "i7-1360P"))
	require.Equal(t, "Core i7-1360P", NormalizeCPUModel("Intel", "Core i7-1360P"))
	require.Equal(t, "N100", NormalizeCPUModel("Intel", "N100"))
	require.Equal(t, "i7-1360P", NormalizeCPUModel("AMD", "i7-1360P"))
	require.Equal(t, "", NormalizeCPUModel("Intel", ""))
}
