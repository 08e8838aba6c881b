package device

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName returns the path of the record's file relative to the devices directory, e.g. "beelink/ser8.yaml"
func FileName(rec *Record) string {
	brand := strings.ToLower(rec.Brand)
	name := strings.TrimPrefix(rec.ID, brand+"-")
	return filepath.Join(brand, name+".yaml")
}

// Marshal encodes a record as block-style YAML with keys in declaration order
func Marshal(rec *Record) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(rec); err != nil {
		return nil, fmt.Errorf("failed to encode device record: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode device record: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile writes the record below outputDir, creating the brand directory if needed, and returns the path written
func WriteFile(rec *Record, outputDir string) (string, error) {
	data, err := Marshal(rec)
	if err != nil {
		return "", err
	}

	path := filepath.Join(outputDir, FileName(rec))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// LoadFile reads a device record from a YAML file
func LoadFile(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var rec Record
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return &rec, nil
}
