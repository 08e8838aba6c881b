package device

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

var (
	knownCPUBrands         = []string{"Intel", "AMD", "ARM", "Qualcomm", "Apple"}
	knownMemoryTypes       = []string{"DDR3", "DDR3L", "DDR4", "DDR5", "LPDDR4", "LPDDR4X", "LPDDR5", "LPDDR5X"}
	knownMemoryModuleTypes = []string{"SODIMM", "DIMM", "Soldered", "SO-DIMM"}
	knownStorageTypes      = []string{"M.2", "SATA", "NVMe", `2.5"`, "mSATA", "eMMC", "microSD", "U.2"}
	knownWiFiStandards     = []string{"WiFi 4", "WiFi 5", "WiFi 6", "WiFi 6E", "WiFi 7", "None"}
	knownEthernetSpeeds    = []string{"100Mbps", "1GbE", "2.5GbE", "5GbE", "10GbE"}
	knownEthernetIfaces    = []string{"RJ45", "SFP", "SFP+", "SFP28", "10GBASE-T"}
	knownPCIeTypes         = []string{"x1", "x4", "x8", "x16", "Mini PCIe", "M.2"}
	knownPCIeVersions      = []string{"PCIe 2.0", "PCIe 3.0", "PCIe 4.0", "PCIe 5.0", "2.0", "3.0", "4.0", "5.0"}
	knownCPUSockets        = []string{"AM4", "AM5", "LGA 1700", "LGA 1200", "LGA 1151", "SP3", "sTRX4", "sWRX8"}
	knownOCuLinkVersions   = []string{"OCuLink 1.0", "OCuLink 2.0"}
	knownGPUTypes          = []string{"Integrated", "Discrete"}

	releaseYearPattern = regexp.MustCompile(`^[0-9]{4}$`)
	whitespacePattern  = regexp.MustCompile(`\s+`)
)

// Issue is a problem found in a device record. Critical issues make the record unusable; the rest are values
// a reviewer should double check
type Issue struct {
	Path     string
	Message  string
	Critical bool
}

func (i Issue) String() string {
	level := "warning"
	if i.Critical {
		level = "error"
	}
	return fmt.Sprintf("%s: %s: %s", level, i.Path, i.Message)
}

// HasCritical returns true if any of the issues is critical
func HasCritical(issues []Issue) bool {
	return slices.ContainsFunc(issues, func(i Issue) bool { return i.Critical })
}

type validator struct {
	issues []Issue
}

func (v *validator) critical(path, format string, args ...any) {
	v.issues = append(v.issues, Issue{Path: path, Message: fmt.Sprintf(format, args...), Critical: true})
}

func (v *validator) warn(path, format string, args ...any) {
	v.issues = append(v.issues, Issue{Path: path, Message: fmt.Sprintf(format, args...)})
}

func (v *validator) requireString(path, value string) {
	if value == "" {
		v.critical(path, "missing required field")
	}
}

// requirePositive reports zero and negative values. Numbers absent from a file decode as zero, so both cases land
// here
func (v *validator) requirePositive(path string, value float64) {
	if value <= 0 {
		v.critical(path, "must be a positive number")
	}
}

func (v *validator) known(path, value string, vocabulary []string) {
	if value != "" && !slices.Contains(vocabulary, value) {
		v.warn(path, "unrecognised value '%s'", value)
	}
}

// Validate checks a record for missing required fields, impossible values and unrecognised values
func Validate(rec *Record) []Issue {
	v := &validator{}

	v.requireString("id", rec.ID)
	v.requireString("brand", rec.Brand)
	v.requireString("model", rec.Model)
	v.requireString("release_date", rec.ReleaseDate)
	if rec.ReleaseDate != "" && !releaseYearPattern.MatchString(rec.ReleaseDate) {
		v.warn("release_date", "'%s' is not a 4-digit year", rec.ReleaseDate)
	}
	if rec.ID != "" && rec.Brand != "" {
		prefix := whitespacePattern.ReplaceAllString(strings.ToLower(rec.Brand), "-")
		if !strings.HasPrefix(rec.ID, prefix) {
			v.warn("id", "should start with '%s-'", prefix)
		}
	}

	v.validateCPU(rec.CPU)
	v.validateGPUs(rec.GPU)
	v.validateMemory(rec.Memory)
	v.validateStorage(rec.Storage)
	v.validateNetworking(rec.Networking)
	v.validatePorts(rec.Ports)
	if rec.Expansion != nil {
		v.validateExpansion(*rec.Expansion)
	}

	if rec.Power != nil {
		v.requirePositive("power.adapter_wattage", rec.Power.AdapterWattage)
	}

	return v.issues
}

func (v *validator) validateCPU(cpu CPU) {
	v.requireString("cpu.brand", cpu.Brand)
	v.requireString("cpu.model", cpu.Model)
	v.requireString("cpu.architecture", cpu.Architecture)
	v.requirePositive("cpu.tdp", cpu.TDP)
	v.known("cpu.brand", cpu.Brand, knownCPUBrands)

	// Machines sold without a CPU only need to name the socket
	if cpu.Socket != nil && cpu.Socket.SupportsCPUSwap {
		v.requireString("cpu.socket.type", cpu.Socket.Type)
	} else {
		v.requirePositive("cpu.cores", float64(cpu.Cores))
		v.requirePositive("cpu.threads", float64(cpu.Threads))
		v.requirePositive("cpu.base_clock", cpu.BaseClock)
		if cpu.BoostClock != nil {
			v.requirePositive("cpu.boost_clock", *cpu.BoostClock)
		}
	}

	if cpu.Threads < cpu.Cores {
		v.critical("cpu.threads", "fewer threads (%d) than cores (%d)", cpu.Threads, cpu.Cores)
	}
	if cpu.BoostClock != nil && cpu.BaseClock > *cpu.BoostClock {
		v.critical("cpu.boost_clock", "boost clock %g is below base clock %g", *cpu.BoostClock, cpu.BaseClock)
	}
	if cpu.Socket != nil {
		v.known("cpu.socket.type", cpu.Socket.Type, knownCPUSockets)
	}
}

func (v *validator) validateGPUs(gpus []GPU) {
	for i, gpu := range gpus {
		path := fmt.Sprintf("gpu[%d]", i)
		if gpu.Model == "" || gpu.Type == "" {
			v.critical(path, "missing model or type")
		}
		if gpu.Type != "" && !slices.Contains(knownGPUTypes, gpu.Type) {
			v.critical(path+".type", "'%s' is neither Integrated nor Discrete", gpu.Type)
		}
		if gpu.Type == "Discrete" && gpu.VRAM == "" {
			v.critical(path+".vram", "discrete GPU must specify VRAM")
		}
	}
}

func (v *validator) validateMemory(mem Memory) {
	v.requireString("memory.type", mem.Type)
	v.requirePositive("memory.speed", mem.Speed)
	v.requirePositive("memory.max_capacity", float64(mem.MaxCapacity))
	if mem.Slots < 0 {
		v.critical("memory.slots", "must not be negative")
	}
	if mem.ModuleType == "" {
		v.warn("memory.module_type", "missing module type (SODIMM/DIMM)")
	}
	v.known("memory.type", mem.Type, knownMemoryTypes)
	v.known("memory.module_type", mem.ModuleType, knownMemoryModuleTypes)
	if mem.ModuleType == "Soldered" && mem.Slots > 0 {
		v.warn("memory.slots", "soldered memory should have 0 slots, got %d", mem.Slots)
	}
}

func (v *validator) validateStorage(storage []Storage) {
	if len(storage) == 0 {
		v.critical("storage", "no storage listed")
	}
	for i, s := range storage {
		path := fmt.Sprintf("storage[%d]", i)
		v.requireString(path+".type", s.Type)
		v.requireString(path+".form_factor", s.FormFactor)
		v.requireString(path+".interface", s.Interface)
		v.known(path+".type", s.Type, knownStorageTypes)
	}
}

func (v *validator) validateNetworking(n Networking) {
	for i, eth := range n.Ethernet {
		path := fmt.Sprintf("networking.ethernet[%d]", i)
		v.requireString(path+".speed", eth.Speed)
		v.requireString(path+".chipset", eth.Chipset)
		v.requireString(path+".interface", eth.Interface)
		if eth.Ports <= 0 {
			v.critical(path+".ports", "must be a positive number")
		}
		v.known(path+".speed", eth.Speed, knownEthernetSpeeds)
		v.known(path+".interface", eth.Interface, knownEthernetIfaces)
	}
	v.requireString("networking.wifi.standard", n.WiFi.Standard)
	v.requireString("networking.wifi.chipset", n.WiFi.Chipset)
	v.requireString("networking.wifi.bluetooth", n.WiFi.Bluetooth)
	v.known("networking.wifi.standard", n.WiFi.Standard, knownWiFiStandards)
}

func (v *validator) validatePorts(p Ports) {
	for i, port := range p.USBC {
		if port.ThunderboltCompatible != nil && *port.ThunderboltCompatible && port.ThunderboltVersion == "" {
			v.critical(fmt.Sprintf("ports.usb_c[%d]", i), "Thunderbolt port must specify thunderbolt_version")
		}
	}
}

func (v *validator) validateExpansion(x Expansion) {
	for i, slot := range x.PCIeSlots {
		path := fmt.Sprintf("expansion.pcie_slots[%d]", i)
		v.known(path+".type", slot.Type, knownPCIeTypes)
		v.known(path+".version", slot.Version, knownPCIeVersions)
	}
	for i, port := range x.OCuLinkPorts {
		path := fmt.Sprintf("expansion.oculink_ports[%d].version", i)
		v.requireString(path, port.Version)
		v.known(path, port.Version, knownOCuLinkVersions)
	}
}
