// file: internal/config/config_test.go
// version: 1.2.0
// guid: 1a2b3c4d-5e6f-7a8b-9c0d-1e2f3a4b5c6d

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitConfigDefaults(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	InitConfig()

	assert.Equal(t, "jobs-done", AppConfig.DefaultSound)
	assert.Equal(t, 60, AppConfig.DefaultDelay)
	assert.Equal(t, 0.5, AppConfig.DefaultVolume)
	assert.Contains(t, AppConfig.ExcludedFiles, "*.tmp")
	assert.Contains(t, AppConfig.ExcludedFolders, "node_modules")
	assert.Contains(t, AppConfig.SoundFiles, "jobs-done")
}

func TestInitConfigOverrides(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	viper.Set("settings.default_sound", "wow")
	viper.Set("settings.default_delay", 5)
	viper.Set("settings.default_volume", 0.9)
	viper.Set("excluded_files", []string{"only.log"})

	InitConfig()

	assert.Equal(t, "wow", AppConfig.DefaultSound)
	assert.Equal(t, 5, AppConfig.DefaultDelay)
	assert.Equal(t, 0.9, AppConfig.DefaultVolume)
	assert.Equal(t, []string{"only.log"}, AppConfig.ExcludedFiles)
}

func TestInitConfigResolvesSoundPaths(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.json")
	cfgJSON := `{"sound_files": {"rel": "sounds/ding.mp3", "abs": "/opt/sounds/ding.mp3"}}`
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfgJSON), 0o644))

	viper.SetConfigFile(cfgPath)
	require.NoError(t, viper.ReadInConfig())

	InitConfig()

	require.Contains(t, AppConfig.SoundFiles, "rel")
	assert.Equal(t, filepath.Join(dir, "sounds", "ding.mp3"), AppConfig.SoundFiles["rel"])
	assert.Equal(t, "/opt/sounds/ding.mp3", AppConfig.SoundFiles["abs"])
}

func TestValidate(t *testing.T) {
	base := Default()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"defaults are valid", func(c *Config) {}, nil},
		{"negative delay", func(c *Config) { c.DefaultDelay = -1 }, ErrNegativeDelay},
		{"zero delay is valid", func(c *Config) { c.DefaultDelay = 0 }, nil},
		{"volume too high", func(c *Config) { c.DefaultVolume = 1.5 }, ErrVolumeRange},
		{"volume negative", func(c *Config) { c.DefaultVolume = -0.1 }, ErrVolumeRange},
		{"volume bounds are inclusive", func(c *Config) { c.DefaultVolume = 1.0 }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateUnknownSound(t *testing.T) {
	cfg := Default()
	cfg.DefaultSound = "airhorn"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "airhorn")
}
