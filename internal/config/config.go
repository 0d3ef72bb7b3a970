// file: internal/config/config.go
// version: 1.3.0
// guid: 7b8c9d0e-1f2a-3b4c-5d6e-7f8a9b0c1d2e

package config

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"
)

var (
	// ErrNegativeDelay rejects a quiescence delay below zero.
	ErrNegativeDelay = errors.New("delay must not be negative")

	// ErrVolumeRange rejects a volume outside [0, 1].
	ErrVolumeRange = errors.New("volume must be between 0 and 1")
)

// Config holds application configuration
type Config struct {
	ExcludedFiles   []string
	ExcludedFolders []string
	SoundFiles      map[string]string // sound id -> file path
	DefaultSound    string
	DefaultDelay    int // seconds
	DefaultVolume   float64
}

var AppConfig Config

// Default returns the built-in configuration, the same set of values
// written to a fresh config file.
func Default() Config {
	return Config{
		ExcludedFiles: []string{
			"debug.log", ".DS_Store", "Thumbs.db",
			"*.tmp", "*.temp", "*.swp", "*.lock",
		},
		ExcludedFolders: []string{
			"node_modules", ".git", "__pycache__", "logs",
			"tmp", "temp", "cache", "dist", "build",
		},
		SoundFiles: map[string]string{
			"jobs-done": "sounds/jobs-done.mp3",
			"dolphin":   "sounds/dolphin.mp3",
			"wow":       "sounds/wow.mp3",
		},
		DefaultSound:  "jobs-done",
		DefaultDelay:  60,
		DefaultVolume: 0.5,
	}
}

// InitConfig populates AppConfig from viper, falling back to the
// built-in defaults for anything the config file does not set.
// Relative sound file paths are resolved against the directory of the
// config file in use.
func InitConfig() {
	def := Default()

	viper.SetDefault("excluded_files", def.ExcludedFiles)
	viper.SetDefault("excluded_folders", def.ExcludedFolders)
	viper.SetDefault("sound_files", def.SoundFiles)
	viper.SetDefault("settings.default_sound", def.DefaultSound)
	viper.SetDefault("settings.default_delay", def.DefaultDelay)
	viper.SetDefault("settings.default_volume", def.DefaultVolume)

	AppConfig = Config{
		ExcludedFiles:   viper.GetStringSlice("excluded_files"),
		ExcludedFolders: viper.GetStringSlice("excluded_folders"),
		SoundFiles:      viper.GetStringMapString("sound_files"),
		DefaultSound:    viper.GetString("settings.default_sound"),
		DefaultDelay:    viper.GetInt("settings.default_delay"),
		DefaultVolume:   viper.GetFloat64("settings.default_volume"),
	}

	if cfgPath := viper.ConfigFileUsed(); cfgPath != "" {
		baseDir := filepath.Dir(cfgPath)
		for id, path := range AppConfig.SoundFiles {
			if !filepath.IsAbs(path) {
				AppConfig.SoundFiles[id] = filepath.Join(baseDir, path)
			}
		}
	}
}

// Validate checks the configuration before a watch may start.
func (c *Config) Validate() error {
	if c.DefaultDelay < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeDelay, c.DefaultDelay)
	}
	if c.DefaultVolume < 0 || c.DefaultVolume > 1 {
		return fmt.Errorf("%w: %g", ErrVolumeRange, c.DefaultVolume)
	}
	if _, ok := c.SoundFiles[c.DefaultSound]; !ok {
		return fmt.Errorf("sound %q is not configured", c.DefaultSound)
	}
	return nil
}
