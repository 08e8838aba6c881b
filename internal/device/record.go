// Package device builds structured device records from extracted issue form fields and reads and writes them as
// YAML.
package device

// Record is a single device entry in the data repository. Field order matches the order keys are written in.
// Optional sections are pointers or omitempty slices so that absent data never appears in the output
type Record struct {
	ID          string      `yaml:"id"`
	Brand       string      `yaml:"brand"`
	Model       string      `yaml:"model"`
	ReleaseDate string      `yaml:"release_date"`
	CPU         CPU         `yaml:"cpu"`
	GPU         []GPU       `yaml:"gpu,omitempty"`
	Memory      Memory      `yaml:"memory"`
	Storage     []Storage   `yaml:"storage,omitempty"`
	Networking  Networking  `yaml:"networking"`
	Ports       Ports       `yaml:"ports"`
	Expansion   *Expansion  `yaml:"expansion,omitempty"`
	Dimensions  *Dimensions `yaml:"dimensions,omitempty"`
	Power       *Power      `yaml:"power,omitempty"`
}

type CPU struct {
	Brand        string      `yaml:"brand"`
	Model        string      `yaml:"model"`
	TDP          float64     `yaml:"tdp"`
	Cores        int         `yaml:"cores"`
	Threads      int         `yaml:"threads"`
	BaseClock    float64     `yaml:"base_clock"`
	Architecture string      `yaml:"architecture"`
	BoostClock   *float64    `yaml:"boost_clock,omitempty"`
	Socket       *Socket     `yaml:"socket,omitempty"`
	CoreConfig   *CoreConfig `yaml:"core_config,omitempty"`
}

type Socket struct {
	Type            string `yaml:"type"`
	SupportsCPUSwap bool   `yaml:"supports_cpu_swap"`
}

// CoreConfig describes hybrid CPUs with more than one kind of core
type CoreConfig struct {
	Types []CoreType `yaml:"types"`
}

type CoreType struct {
	Type       string  `yaml:"type"`
	Count      int     `yaml:"count"`
	BoostClock float64 `yaml:"boost_clock"`
}

type GPU struct {
	Type  string `yaml:"type,omitempty"`
	Model string `yaml:"model,omitempty"`
	VRAM  string `yaml:"vram,omitempty"`
}

type Memory struct {
	Slots       int     `yaml:"slots"`
	Type        string  `yaml:"type"`
	Speed       float64 `yaml:"speed"`
	ModuleType  string  `yaml:"module_type"`
	MaxCapacity int     `yaml:"max_capacity"`
}

type Storage struct {
	Type         string `yaml:"type"`
	FormFactor   string `yaml:"form_factor,omitempty"`
	Interface    string `yaml:"interface,omitempty"`
	AltInterface string `yaml:"alt_interface,omitempty"`
}

type Networking struct {
	Ethernet []Ethernet `yaml:"ethernet"`
	WiFi     WiFi       `yaml:"wifi"`
}

type Ethernet struct {
	Ports     int    `yaml:"ports"`
	Speed     string `yaml:"speed,omitempty"`
	Chipset   string `yaml:"chipset,omitempty"`
	Interface string `yaml:"interface,omitempty"`
}

type WiFi struct {
	Standard  string `yaml:"standard"`
	Chipset   string `yaml:"chipset"`
	Bluetooth string `yaml:"bluetooth"`
}

type Ports struct {
	USBA              []USBPort      `yaml:"usb_a,omitempty"`
	USBC              []USBPort      `yaml:"usb_c,omitempty"`
	HDMI              *DisplayOutput `yaml:"hdmi,omitempty"`
	DisplayPort       *DisplayOutput `yaml:"displayport,omitempty"`
	AudioJack         *int           `yaml:"audio_jack,omitempty"`
	SDCardReader      *bool          `yaml:"sd_card_reader,omitempty"`
	MicroSDCardReader *bool          `yaml:"micro_sd_card_reader,omitempty"`
	IRReceiver        *bool          `yaml:"ir_receiver,omitempty"`
	Serial            *SerialPort    `yaml:"serial,omitempty"`
}

type USBPort struct {
	Type               string `yaml:"type,omitempty"`
	Speed              string `yaml:"speed,omitempty"`
	Count              *int   `yaml:"count,omitempty"`
	AltMode            string `yaml:"alt_mode,omitempty"`
	MaxResolution      string `yaml:"max_resolution,omitempty"`
	ThunderboltVersion string `yaml:"thunderbolt_version,omitempty"`
	// ThunderboltCompatible is only set in hand-maintained files
	ThunderboltCompatible *bool `yaml:"thunderbolt_compatible,omitempty"`
}

type DisplayOutput struct {
	Type          string `yaml:"type,omitempty"`
	Count         *int   `yaml:"count,omitempty"`
	Version       string `yaml:"version,omitempty"`
	FormFactor    string `yaml:"form_factor,omitempty"`
	MaxResolution string `yaml:"max_resolution,omitempty"`
}

type SerialPort struct {
	Count int    `yaml:"count"`
	Type  string `yaml:"type"`
}

type Expansion struct {
	SIMSlots     []SIMSlot     `yaml:"sim_slots,omitempty"`
	MPCIeSlots   []MPCIeSlot   `yaml:"mpcie_slots,omitempty"`
	PCIeSlots    []PCIeSlot    `yaml:"pcie_slots,omitempty"`
	OCuLinkPorts []OCuLinkPort `yaml:"oculink_ports,omitempty"`
}

// IsEmpty returns true if no expansion feature is present
func (e Expansion) IsEmpty() bool {
	return len(e.SIMSlots) == 0 && len(e.MPCIeSlots) == 0 && len(e.PCIeSlots) == 0 && len(e.OCuLinkPorts) == 0
}

type SIMSlot struct {
	Type  string `yaml:"type"`
	Count int    `yaml:"count"`
}

type MPCIeSlot struct {
	Count int    `yaml:"count"`
	Type  string `yaml:"type"`
	Note  string `yaml:"note,omitempty"`
}

type PCIeSlot struct {
	Type       string `yaml:"type"`
	Version    string `yaml:"version"`
	FormFactor string `yaml:"form_factor,omitempty"`
}

// OCuLinkPort is one physical port. Multi-port devices list one entry per port
type OCuLinkPort struct {
	Version string `yaml:"version"`
}

// Dimensions are in millimetres
type Dimensions struct {
	Width  float64 `yaml:"width"`
	Depth  float64 `yaml:"depth"`
	Height float64 `yaml:"height"`
}

type Power struct {
	AdapterWattage float64 `yaml:"adapter_wattage"`
	DCInput        string  `yaml:"dc_input,omitempty"`
}
