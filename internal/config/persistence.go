// file: internal/config/persistence.go
// version: 1.7.0
// guid: 9c8d7e6f-5a4b-3c2d-1e0f-9a8b7c6d5e4f

package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// EnsureConfigFile writes a default config file at path when none
// exists yet, so a first run leaves the user something to edit. An
// existing file is never touched.
func EnsureConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat config file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	def := Default()
	fileConfig := map[string]any{
		"excluded_files":   def.ExcludedFiles,
		"excluded_folders": def.ExcludedFolders,
		"sound_files":      def.SoundFiles,
		"settings": map[string]any{
			"default_sound":  def.DefaultSound,
			"default_delay":  def.DefaultDelay,
			"default_volume": def.DefaultVolume,
		},
	}

	data, err := json.MarshalIndent(fileConfig, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode default config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	log.Printf("[INFO] config: created default configuration at %s", path)
	return nil
}
