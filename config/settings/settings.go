// Package settings performs surgical updates of settings.json, preserving
// fields this tool does not own.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"cbstart/config/storage"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// managed lists the settings.json fields this tool owns. Everything else in
// the document must survive an update untouched.
var managed = []string{"quickStart", "defaultApiKey", "defaultModel", "alwaysResume"}

// Update describes a partial settings change. Nil fields are left alone.
type Update struct {
	QuickStart    *bool
	DefaultAPIKey *string
	DefaultModel  *string
	AlwaysResume  *bool
}

// IsEmpty reports whether the update changes nothing
func (u Update) IsEmpty() bool {
	return u.QuickStart == nil && u.DefaultAPIKey == nil && u.DefaultModel == nil && u.AlwaysResume == nil
}

// Apply applies the update to the original settings document and returns
// the new content. Only managed fields may change.
func Apply(originalContent string, upd Update) (string, error) {
	if !gjson.Valid(originalContent) {
		return "", fmt.Errorf("invalid JSON content")
	}

	updated := originalContent
	var err error

	if upd.QuickStart != nil {
		if updated, err = sjson.Set(updated, "quickStart", *upd.QuickStart); err != nil {
			return "", fmt.Errorf("failed to set quickStart: %w", err)
		}
	}
	if upd.DefaultAPIKey != nil {
		if updated, err = sjson.Set(updated, "defaultApiKey", *upd.DefaultAPIKey); err != nil {
			return "", fmt.Errorf("failed to set defaultApiKey: %w", err)
		}
	}
	if upd.DefaultModel != nil {
		if updated, err = sjson.Set(updated, "defaultModel", *upd.DefaultModel); err != nil {
			return "", fmt.Errorf("failed to set defaultModel: %w", err)
		}
	}
	if upd.AlwaysResume != nil {
		if updated, err = sjson.Set(updated, "alwaysResume", *upd.AlwaysResume); err != nil {
			return "", fmt.Errorf("failed to set alwaysResume: %w", err)
		}
	}

	// Validate the update to ensure unmanaged fields survived unchanged
	if err := validateUpdate(originalContent, updated); err != nil {
		return "", fmt.Errorf("update validation failed: %w", err)
	}

	return updated, nil
}

// WriteFile applies the update to the settings file on disk with an atomic
// write and a backup of the previous content. A missing file is treated as
// an empty document. WriteFile itself takes no lock; concurrent writers
// must serialize through Manager.UpdateSettings.
func WriteFile(path string, upd Update) error {
	original := "{}"
	if storage.FileExists(path) {
		data, err := readAll(path)
		if err != nil {
			return err
		}
		if len(strings.TrimSpace(data)) > 0 {
			original = data
		}
	}

	updated, err := Apply(original, upd)
	if err != nil {
		return err
	}

	if err := storage.AtomicFileUpdate(path, updated, true); err != nil {
		// Attempt to restore from backup if the update fails
		restoreErr := storage.NewBackupManager(storage.DefaultBackupRetention).RestoreFromLatestBackup(path)
		if restoreErr != nil {
			return fmt.Errorf("failed to write settings file and restore from backup: update error=%v, restore error=%v", err, restoreErr)
		}
		return fmt.Errorf("failed to write settings file but restored from backup: %v", err)
	}

	return nil
}

// validateUpdate validates that only managed fields have changed
func validateUpdate(originalContent, updatedContent string) error {
	if !json.Valid([]byte(originalContent)) {
		return fmt.Errorf("original JSON is invalid")
	}
	if !json.Valid([]byte(updatedContent)) {
		return fmt.Errorf("updated JSON is invalid")
	}

	var original, updated map[string]interface{}
	if err := json.Unmarshal([]byte(originalContent), &original); err != nil {
		return fmt.Errorf("failed to parse original JSON: %w", err)
	}
	if err := json.Unmarshal([]byte(updatedContent), &updated); err != nil {
		return fmt.Errorf("failed to parse updated JSON: %w", err)
	}

	for key, originalVal := range original {
		if isManaged(key) {
			continue
		}
		updatedVal, exists := updated[key]
		if !exists {
			return fmt.Errorf("unmanaged field '%s' was deleted", key)
		}
		if fmt.Sprintf("%v", originalVal) != fmt.Sprintf("%v", updatedVal) {
			return fmt.Errorf("unmanaged field '%s' was modified", key)
		}
	}

	for key := range updated {
		if isManaged(key) {
			continue
		}
		if _, exists := original[key]; !exists {
			return fmt.Errorf("unmanaged field '%s' was added", key)
		}
	}

	return nil
}

func readAll(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read settings file: %w", err)
	}
	return string(data), nil
}

func isManaged(key string) bool {
	for _, m := range managed {
		if key == m {
			return true
		}
	}
	return false
}
