package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(t.TempDir()))

	assert.Equal(t, "info", viper.GetString("logLevel"))
	assert.Equal(t, "ibug68", viper.GetString("landmarkType"))
	assert.Equal(t, "file", viper.GetString("storage.backend"))
	assert.Equal(t, 500*time.Millisecond, WatchDebounce())

	vp := Viewport()
	assert.Equal(t, 2.0, vp.DragThreshold)
	assert.Equal(t, 0.1, vp.PlaneOffset)
	assert.Equal(t, 0.01, vp.LandmarkScale)
	assert.Equal(t, 1024, vp.Width)
	assert.Equal(t, 768, vp.Height)
	assert.True(t, vp.AutoSnapshot)

	assert.False(t, Broadcast().Enabled)
}

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := `{
		"logLevel": "debug",
		"viewport": { "dragThreshold": 4 },
		"storage": { "backend": "sqlite", "sqlitePath": "/tmp/lm.db" }
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "landmarker.json"), []byte(cfg), 0644))

	require.NoError(t, Load(dir))

	assert.Equal(t, "debug", GetString("logLevel"))
	assert.Equal(t, 4.0, Viewport().DragThreshold)
	assert.Equal(t, 0.1, Viewport().PlaneOffset)
	assert.Equal(t, StorageConfig{Backend: "sqlite", Dir: "", SQLitePath: "/tmp/lm.db"}, Storage())
}

func TestLoad_InvalidFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "landmarker.json"), []byte(`{`), 0644))

	err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoad_Environment(t *testing.T) {
	t.Cleanup(viper.Reset)
	t.Setenv("LANDMARKER_LANDMARKTYPE", "custom")
	t.Setenv("LANDMARKER_BROADCAST_ENABLED", "true")

	require.NoError(t, Load(t.TempDir()))

	assert.Equal(t, "custom", GetString("landmarkType"))
	assert.True(t, Broadcast().Enabled)
}
