package device

import (
	"github.com/minipcdb/device-intake/internal/issueform"
)

var coreConfigLines = lineParser{required: []string{"type", "count", "boost clock"}}

func (b *builder) buildCPU() CPU {
	brand := b.requireString(issueform.KeyCPUBrand)
	cpu := CPU{
		Brand:        brand,
		Model:        NormalizeCPUModel(brand, b.requireString(issueform.KeyCPUModel)),
		TDP:          b.requireFloat(issueform.KeyCPUTDP),
		Cores:        b.requireInt(issueform.KeyCPUCores),
		Threads:      b.requireInt(issueform.KeyCPUThreads),
		BaseClock:    b.requireFloat(issueform.KeyBaseClock),
		Architecture: b.requireString(issueform.KeyCPUArchitecture),
	}

	if v, ok := b.optional(issueform.KeyBoostClock); ok {
		boost := b.parseFloat(issueform.KeyBoostClock, v)
		cpu.BoostClock = &boost
	}

	if v, ok := b.optional(issueform.KeyCPUSocketType); ok {
		cpu.Socket = &Socket{Type: v, SupportsCPUSwap: false}
	}

	if v, ok := b.optional(issueform.KeyCPUCoreConfig); ok {
		cpu.CoreConfig = ParseCoreConfig(v)
	}

	return cpu
}

// ParseCoreConfig parses "Type: P-Core, Count: 4, Boost Clock: 5.0" lines. Lines that lack any of the three values,
// or whose count or clock is not numeric, are skipped. Returns nil if no line is usable
func ParseCoreConfig(text string) *CoreConfig {
	var types []CoreType
	for _, e := range coreConfigLines.parse(text) {
		count, _, err := e.intValue("count")
		if err != nil {
			continue
		}
		boost, _, err := e.floatValue("boost clock")
		if err != nil {
			continue
		}
		coreType, _ := e.stringValue("type")
		types = append(types, CoreType{Type: coreType, Count: count, BoostClock: boost})
	}

	if len(types) == 0 {
		return nil
	}
	return &CoreConfig{Types: types}
}
