package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/minipcdb/device-intake/internal/device"
)

const sampleIssue = "../../../internal/issueform/testdata/new_device_issue.md"

func TestProcessFile(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer

	err := processFile(&out, sampleIssue, dir)
	require.NoError(t, err)

	path := strings.TrimSpace(out.String())
	require.Equal(t, filepath.Join(dir, "minisforum", "um790-pro.yaml"), path)

	rec, err := device.LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, "Minisforum", rec.Brand)
}

func TestProcessFile_MissingInput(t *testing.T) {
	err := processFile(&bytes.Buffer{}, filepath.Join(t.TempDir(), "missing.md"), t.TempDir())
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestProcessFile_InvalidIssue(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "issue.md")
	require.NoError(t, os.WriteFile(input, []byte("### Device ID\n\nser8\n"), 0o644))

	var out bytes.Buffer
	err := processFile(&out, input, filepath.Join(dir, "devices"))
	require.Error(t, err)
	require.Empty(t, out.String())
	require.NoDirExists(t, filepath.Join(dir, "devices"))
}
