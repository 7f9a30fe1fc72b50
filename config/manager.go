package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cbstart/config/models"
	"cbstart/config/settings"
)

// Sentinel errors for config loading failures.
var (
	// ErrMissing indicates one or more required config files are absent.
	ErrMissing = errors.New("config file missing")
	// ErrParse indicates a config file exists but could not be decoded.
	ErrParse = errors.New("config parse error")
)

const (
	// KeyFileName holds the API key entries
	KeyFileName = "config.json"
	// ModelFileName holds the model list
	ModelFileName = "models.json"
	// SettingsFileName holds quick-start defaults
	SettingsFileName = "settings.json"
)

// Manager reads the launcher's config directory. The launch path only ever
// reads; the defaults command is the single writer and goes through the
// settings package.
type Manager struct {
	configDir string
}

// NewManager creates a Manager rooted at the unified config directory
func NewManager() (*Manager, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}

	// Check XDG_CONFIG_HOME environment variable for custom config location
	xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfigHome == "" {
		xdgConfigHome = filepath.Join(homeDir, ".config")
	}

	return &Manager{
		configDir: filepath.Join(xdgConfigHome, "cbstart"),
	}, nil
}

// NewManagerAt creates a Manager rooted at an explicit directory. Used by
// tests and by callers that already resolved the location.
func NewManagerAt(dir string) *Manager {
	return &Manager{configDir: dir}
}

// ConfigDir returns the config directory path
func (cm *Manager) ConfigDir() string {
	return cm.configDir
}

// KeyFilePath returns the path to config.json
func (cm *Manager) KeyFilePath() string {
	return filepath.Join(cm.configDir, KeyFileName)
}

// ModelFilePath returns the path to models.json
func (cm *Manager) ModelFilePath() string {
	return filepath.Join(cm.configDir, ModelFileName)
}

// SettingsFilePath returns the path to settings.json
func (cm *Manager) SettingsFilePath() string {
	return filepath.Join(cm.configDir, SettingsFileName)
}

// Validate checks that all three config files exist. Missing paths are
// reported together so the user can fix them in one pass. Runs before any
// parsing is attempted.
func (cm *Manager) Validate() error {
	var missing []string
	for _, path := range []string{cm.KeyFilePath(), cm.ModelFilePath(), cm.SettingsFilePath()} {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			missing = append(missing, path)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissing, strings.Join(missing, ", "))
	}
	return nil
}

// readFile reads a config file while holding a shared lock, so a concurrent
// defaults write never produces a torn read.
func (cm *Manager) readFile(path string) ([]byte, error) {
	file, err := os.OpenFile(path, os.O_RDONLY, 0600)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrMissing, path)
		}
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	if err := lockFileShared(file); err != nil {
		return nil, fmt.Errorf("failed to lock config file: %w", err)
	}
	defer func() {
		if err := unlockFile(file); err != nil {
			fmt.Fprintf(os.Stderr, "⚠️  Failed to unlock file: %v\n", err)
		}
	}()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return data, nil
}

// LoadAPIKeys parses config.json and returns the API key entries
func (cm *Manager) LoadAPIKeys() ([]models.APIKey, error) {
	data, err := cm.readFile(cm.KeyFilePath())
	if err != nil {
		return nil, err
	}

	var keyFile models.KeyFile
	if err := json.Unmarshal(data, &keyFile); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParse, cm.KeyFilePath(), err)
	}
	return keyFile.APIKeys, nil
}

// LoadModels parses models.json and returns the model entries
func (cm *Manager) LoadModels() ([]models.Model, error) {
	data, err := cm.readFile(cm.ModelFilePath())
	if err != nil {
		return nil, err
	}

	var modelFile models.ModelFile
	if err := json.Unmarshal(data, &modelFile); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParse, cm.ModelFilePath(), err)
	}
	return modelFile.Data, nil
}

// LoadSettings parses settings.json. Absent fields decode to zero values;
// an empty file is treated as zero settings.
func (cm *Manager) LoadSettings() (models.Settings, error) {
	var settings models.Settings

	data, err := cm.readFile(cm.SettingsFilePath())
	if err != nil {
		return settings, err
	}

	if len(data) == 0 {
		return settings, nil
	}

	if err := json.Unmarshal(data, &settings); err != nil {
		return settings, fmt.Errorf("%w: %s: %v", ErrParse, cm.SettingsFilePath(), err)
	}
	return settings, nil
}

// UpdateSettings applies a partial settings update while holding an
// exclusive lock, so two concurrent writers cannot lose each other's
// fields. The lock lives on a sidecar file because the settings file
// itself is replaced by rename on every write.
func (cm *Manager) UpdateSettings(upd settings.Update) error {
	if err := os.MkdirAll(cm.configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	lock, err := os.OpenFile(cm.SettingsFilePath()+".lock", os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return fmt.Errorf("failed to open settings lock file: %w", err)
	}
	defer lock.Close()

	if err := lockFileExclusive(lock); err != nil {
		return fmt.Errorf("failed to lock settings file: %w", err)
	}
	defer func() {
		if err := unlockFile(lock); err != nil {
			fmt.Fprintf(os.Stderr, "⚠️  Failed to unlock file: %v\n", err)
		}
	}()

	return settings.WriteFile(cm.SettingsFilePath(), upd)
}

// FindAPIKey returns the first entry matching name. Names are assumed
// unique; first match wins.
func FindAPIKey(keys []models.APIKey, name string) *models.APIKey {
	for i := range keys {
		if keys[i].Name == name {
			return &keys[i]
		}
	}
	return nil
}
