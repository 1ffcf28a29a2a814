package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRun(t *testing.T) {
	p := filepath.Join(t.TempDir(), "in.hex")
	require.NoError(t, os.WriteFile(p, []byte("52 01 07\n40 03 61 62 63\n"), 0600))

	buf := &bytes.Buffer{}
	err := run(&flags{Hex: true, Input: p, Mode: modeDescriptors}, zap.NewNop(), buf)
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "|- stream_identifier (0x52) length 1\n")
	assert.Contains(t, buf.String(), "|- network_name (0x40) length 3\n")

	// Loop
	require.NoError(t, os.WriteFile(p, []byte("f003520107"), 0600))
	buf.Reset()
	assert.NoError(t, run(&flags{Hex: true, Input: p, Mode: modeLoop}, zap.NewNop(), buf))
	assert.Contains(t, buf.String(), "stream_identifier")

	// Invalid
	assert.Error(t, run(&flags{Hex: true, Input: p, Mode: "invalid"}, zap.NewNop(), buf))
	require.NoError(t, os.WriteFile(p, []byte("zz"), 0600))
	assert.Error(t, run(&flags{Hex: true, Input: p, Mode: modeLoop}, zap.NewNop(), buf))
	assert.Error(t, run(&flags{Hex: true, Input: p, Mode: modeNIT}, zap.NewNop(), buf))
}

func TestExecuteWritesProfileOnFailure(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "in.hex")
	require.NoError(t, os.WriteFile(p, []byte("zz"), 0600))

	assert.Equal(t, 1, execute([]string{"-x", "-i", p, "-cp", "-pp", dir}))
	_, err := os.Stat(filepath.Join(dir, "cpu.pprof"))
	assert.NoError(t, err)
}
