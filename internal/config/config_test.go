package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Storage = StorageConfig{Driver: "postgres", URL: "postgres://localhost/tally"}
	cfg.Instruments = []InstrumentConfig{
		{Name: "Everyday", ID: "6a3d1a2e-0000-0000-0000-000000000001", Format: "anz"},
	}

	path := filepath.Join(t.TempDir(), "tally.yaml")
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, cfg.Storage.Driver, got.Storage.Driver)
	assert.Equal(t, cfg.Storage.URL, got.Storage.URL)
	assert.Equal(t, cfg.Logging.Level, got.Logging.Level)
	require.Len(t, got.Instruments, 1)
	assert.Equal(t, "Everyday", got.Instruments[0].Name)
	assert.Equal(t, "anz", got.Instruments[0].Format)
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Empty(t, cfg.Instruments)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestYAMLFormat(t *testing.T) {
	cfg := Default()
	path := filepath.Join(t.TempDir(), "tally.yaml")
	require.NoError(t, Save(path, cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "driver: memory")
	assert.Contains(t, contents, "level: info")
}
