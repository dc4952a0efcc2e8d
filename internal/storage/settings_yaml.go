package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"problemtimer/internal/platform"
	"problemtimer/internal/ui/preferences"

	"gopkg.in/yaml.v3"
)

const settingsFileName = "settings.yaml"

type yamlSettings struct {
	TotalMinutes int      `yaml:"total_minutes"`
	Problems     int      `yaml:"problems"`
	Voice        string   `yaml:"voice"`
	SpeechRate   *float64 `yaml:"speech_rate,omitempty"`
	SpeechPitch  *float64 `yaml:"speech_pitch,omitempty"`
	SpeechVolume *float64 `yaml:"speech_volume,omitempty"`
}

// SettingsPath returns the location of the settings file for appName.
func SettingsPath(appName string) (string, error) {
	configDir, err := platform.NewService().GetConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, settingsFileName), nil
}

// LoadSettings reads user preferences from YAML.
// If the config file does not exist, default settings are returned.
func LoadSettings(appName string) (preferences.Settings, error) {
	configPath, err := SettingsPath(appName)
	if err != nil {
		return preferences.DefaultSettings(), err
	}
	return LoadSettingsFile(configPath)
}

// SaveSettings writes user preferences to YAML.
func SaveSettings(appName string, settings preferences.Settings) error {
	configPath, err := SettingsPath(appName)
	if err != nil {
		return err
	}
	return SaveSettingsFile(configPath, settings)
}

// LoadSettingsFile reads preferences from configPath.
func LoadSettingsFile(configPath string) (preferences.Settings, error) {
	settings := preferences.DefaultSettings()

	rawData, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// SaveSettingsFile writes preferences to configPath, creating its directory.
func SaveSettingsFile(configPath string, settings preferences.Settings) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	fileData := yamlSettings{
		TotalMinutes: settings.TotalMinutes,
		Problems:     settings.Problems,
		Voice:        settings.VoiceName,
		SpeechRate:   &settings.SpeechRate,
		SpeechPitch:  &settings.SpeechPitch,
		SpeechVolume: &settings.SpeechVolume,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(configPath, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	if fileData.TotalMinutes > 0 {
		settings.TotalMinutes = fileData.TotalMinutes
	}
	if fileData.Problems > 0 {
		settings.Problems = fileData.Problems
	}
	if fileData.Voice != "" {
		settings.VoiceName = fileData.Voice
	}

	if rate := fileData.SpeechRate; rate != nil && *rate >= 0.1 && *rate <= 10 {
		settings.SpeechRate = *rate
	}
	if pitch := fileData.SpeechPitch; pitch != nil && *pitch >= 0 && *pitch <= 2 {
		settings.SpeechPitch = *pitch
	}
	if volume := fileData.SpeechVolume; volume != nil && *volume >= 0 && *volume <= 1 {
		settings.SpeechVolume = *volume
	}
}
