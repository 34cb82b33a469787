package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"countdown/internal/core/model"
	"countdown/internal/platform"
	"gopkg.in/yaml.v3"
)

const configFileName = "config.yaml"

type yamlSettings struct {
	DefaultMinutes *int     `yaml:"default_minutes"`
	DefaultSeconds *int     `yaml:"default_seconds"`
	Presets        []int    `yaml:"presets"`
	Volume         *float64 `yaml:"volume"`
	WindowWidth    float32  `yaml:"window_width"`
	WindowHeight   float32  `yaml:"window_height"`
}

// DefaultConfigPath returns the location of config.yaml for appName.
func DefaultConfigPath(appName string) (string, error) {
	configDir, err := platform.ConfigDir(appName)
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, configFileName), nil
}

// LoadSettings reads settings from a YAML file.
// If the file does not exist, default settings are returned.
func LoadSettings(configPath string) (model.Settings, error) {
	settings := model.DefaultSettings()

	rawData, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read config file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse config yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings.Normalize(), nil
}

func applyYamlSettings(settings *model.Settings, fileData yamlSettings) {
	if fileData.DefaultMinutes != nil && *fileData.DefaultMinutes >= 0 && *fileData.DefaultMinutes <= model.MaxMinutes {
		settings.DefaultMinutes = *fileData.DefaultMinutes
	}
	if fileData.DefaultSeconds != nil && *fileData.DefaultSeconds >= 0 && *fileData.DefaultSeconds <= model.MaxSeconds {
		settings.DefaultSeconds = *fileData.DefaultSeconds
	}
	if len(fileData.Presets) > 0 {
		settings.Presets = fileData.Presets
	}
	if fileData.Volume != nil && *fileData.Volume >= 0 && *fileData.Volume <= 1 {
		settings.Volume = *fileData.Volume
	}
	if fileData.WindowWidth > 0 && fileData.WindowHeight > 0 {
		settings.WindowWidth = fileData.WindowWidth
		settings.WindowHeight = fileData.WindowHeight
	}
}
