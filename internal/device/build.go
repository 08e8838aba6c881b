package device

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/minipcdb/device-intake/internal/issueform"
)

const noneValue = "None"

// builder accumulates the first error encountered while reading fields so that section code can read fields
// without checking an error after every call
type builder struct {
	fields issueform.Fields
	err    error
}

// Build converts extracted form fields into a device record. Missing or malformed required fields produce a
// *FieldError; malformed optional sections are either dropped or reported, matching how each section is parsed
func Build(fields issueform.Fields) (*Record, error) {
	b := &builder{fields: fields}

	brand := b.requireString(issueform.KeyBrand)
	deviceID := b.requireString(issueform.KeyID)

	rec := &Record{
		ID:          fmt.Sprintf("%s-%s", strings.ToLower(brand), strings.ToLower(deviceID)),
		Brand:       brand,
		Model:       b.requireString(issueform.KeyModel),
		ReleaseDate: b.requireString(issueform.KeyReleaseDate),
	}

	rec.CPU = b.buildCPU()
	rec.GPU = b.buildGPUs()
	rec.Memory = b.buildMemory()
	rec.Storage = b.buildStorage()
	rec.Networking = b.buildNetworking()
	rec.Ports = b.buildPorts()
	rec.Expansion = b.buildExpansion()
	rec.Dimensions = b.buildDimensions()
	rec.Power = b.buildPower()

	if b.err != nil {
		return nil, b.err
	}
	return rec, nil
}

func (b *builder) fail(field, value string, err error) {
	if b.err == nil {
		b.err = &FieldError{Field: field, Value: value, Err: err}
	}
}

func (b *builder) requireString(key string) string {
	v, ok := b.fields.Get(key)
	if !ok || v == "" {
		b.fail(key, "", ErrMissingField)
		return ""
	}
	return v
}

func (b *builder) requireInt(key string) int {
	v := b.requireString(key)
	if v == "" {
		return 0
	}
	return b.parseInt(key, v)
}

func (b *builder) requireFloat(key string) float64 {
	v := b.requireString(key)
	if v == "" {
		return 0
	}
	return b.parseFloat(key, v)
}

func (b *builder) parseInt(key, v string) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		b.fail(key, v, err)
	}
	return n
}

func (b *builder) parseFloat(key, v string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		b.fail(key, v, err)
	}
	return f
}

// optional returns the value of an optional field, treating sentinel values as absent
func (b *builder) optional(key string) (string, bool) {
	v, ok := b.fields.Get(key)
	if !ok || isSentinel(v) {
		return "", false
	}
	return v, true
}

// entryInt reads an integer sub-field of an entry, recording an error against the section field if it is malformed
func (b *builder) entryInt(field string, e entry, key string) (int, bool) {
	n, ok, err := e.intValue(key)
	if err != nil {
		b.fail(field, e[key], fmt.Errorf("%s: %w", key, err))
		return 0, false
	}
	return n, ok
}

func (b *builder) buildMemory() Memory {
	return Memory{
		Slots:       b.requireInt(issueform.KeyMemorySlots),
		Type:        b.requireString(issueform.KeyMemoryType),
		Speed:       b.requireFloat(issueform.KeyMemorySpeed),
		ModuleType:  b.requireString(issueform.KeyMemoryModuleType),
		MaxCapacity: b.requireInt(issueform.KeyMemoryMax),
	}
}

func (b *builder) buildDimensions() *Dimensions {
	v, ok := b.fields.Get(issueform.KeyDimensions)
	if !ok {
		return nil
	}
	// Malformed dimensions are dropped rather than reported
	d, ok := ParseDimensions(v)
	if !ok {
		return nil
	}
	return d
}

func (b *builder) buildPower() *Power {
	v, ok := b.optional(issueform.KeyPowerAdapter)
	if !ok {
		return nil
	}
	p, err := ParsePower(v)
	if err != nil {
		b.fail(issueform.KeyPowerAdapter, v, err)
		return nil
	}
	return p
}
