// Package config holds the viper backed application settings.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ConfigName is the base name of the optional settings file
const ConfigName = "landmarker"

// ViewportConfig tunes the mouse interaction in the viewport
type ViewportConfig struct {
	DragThreshold float64 `mapstructure:"dragThreshold"`
	PlaneOffset   float64 `mapstructure:"planeOffset"`
	LandmarkScale float64 `mapstructure:"landmarkScale"`
	Width         int     `mapstructure:"width"`
	Height        int     `mapstructure:"height"`
	AutoSnapshot  bool    `mapstructure:"autoSnapshot"`
}

// StorageConfig selects where landmark sets are persisted
type StorageConfig struct {
	Backend    string `mapstructure:"backend"`
	Dir        string `mapstructure:"dir"`
	SQLitePath string `mapstructure:"sqlitePath"`
}

// BroadcastConfig controls the websocket event feed
type BroadcastConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
}

// SetDefaults registers the default value of every key
func SetDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("landmarkType", "ibug68")

	viper.SetDefault("viewport.dragThreshold", 2.0)
	viper.SetDefault("viewport.planeOffset", 0.1)
	viper.SetDefault("viewport.landmarkScale", 0.01)
	viper.SetDefault("viewport.width", 1024)
	viper.SetDefault("viewport.height", 768)
	viper.SetDefault("viewport.autoSnapshot", true)

	viper.SetDefault("storage.backend", "file")
	viper.SetDefault("storage.dir", "")
	viper.SetDefault("storage.sqlitePath", "landmarks.db")

	viper.SetDefault("broadcast.enabled", false)
	viper.SetDefault("broadcast.address", "localhost:8765")

	viper.SetDefault("watch.debounce", "500ms")
}

// Load sets default values, binds LANDMARKER_* environment variables and
// reads landmarker.{yaml,json} from configDir if present. A missing file
// is not an error.
func Load(configDir string) error {
	SetDefaults()

	viper.SetEnvPrefix("LANDMARKER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName(ConfigName)
	if configDir != "" {
		viper.AddConfigPath(configDir)
	}
	viper.AddConfigPath("$HOME/.config/landmarker")

	err := viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}

	return nil
}

// Viewport returns the viewport settings
func Viewport() ViewportConfig {
	return ViewportConfig{
		DragThreshold: viper.GetFloat64("viewport.dragThreshold"),
		PlaneOffset:   viper.GetFloat64("viewport.planeOffset"),
		LandmarkScale: viper.GetFloat64("viewport.landmarkScale"),
		Width:         viper.GetInt("viewport.width"),
		Height:        viper.GetInt("viewport.height"),
		AutoSnapshot:  viper.GetBool("viewport.autoSnapshot"),
	}
}

// Storage returns the persistence settings
func Storage() StorageConfig {
	return StorageConfig{
		Backend:    viper.GetString("storage.backend"),
		Dir:        viper.GetString("storage.dir"),
		SQLitePath: viper.GetString("storage.sqlitePath"),
	}
}

// Broadcast returns the websocket feed settings
func Broadcast() BroadcastConfig {
	return BroadcastConfig{
		Enabled: viper.GetBool("broadcast.enabled"),
		Address: viper.GetString("broadcast.address"),
	}
}

// WatchDebounce returns how long file changes settle before a reload
func WatchDebounce() time.Duration {
	return viper.GetDuration("watch.debounce")
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}
