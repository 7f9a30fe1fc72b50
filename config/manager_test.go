package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"cbstart/config/models"
	"cbstart/config/settings"
)

// setupTestConfig creates a Manager rooted at a temporary directory with
// all three config files written.
func setupTestConfig(t *testing.T) *Manager {
	t.Helper()
	dir := t.TempDir()

	writeTestFile(t, dir, KeyFileName, `{"apiKeys": [
		{"name": "work", "description": "company account", "key": "sk-work123456", "baseURL": "https://api.work.example.com"},
		{"name": "personal", "key": "sk-personal1234", "baseURL": "https://api.personal.example.com"}
	]}`)
	writeTestFile(t, dir, ModelFileName, `{"data": [{"id": "gpt-4"}, {"id": "gpt-4o-mini"}]}`)
	writeTestFile(t, dir, SettingsFileName, `{"quickStart": true, "defaultApiKey": "work", "defaultModel": "gpt-4"}`)

	return NewManagerAt(dir)
}

func writeTestFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
}

func TestValidate(t *testing.T) {
	t.Run("all files present", func(t *testing.T) {
		cm := setupTestConfig(t)
		if err := cm.Validate(); err != nil {
			t.Errorf("Validate() unexpected error: %v", err)
		}
	})

	t.Run("missing file reported", func(t *testing.T) {
		cm := setupTestConfig(t)
		os.Remove(cm.ModelFilePath())

		err := cm.Validate()
		if !errors.Is(err, ErrMissing) {
			t.Fatalf("Validate() error = %v, want ErrMissing", err)
		}
		if !strings.Contains(err.Error(), ModelFileName) {
			t.Errorf("Validate() error should name the missing file, got: %v", err)
		}
	})

	t.Run("all missing files reported together", func(t *testing.T) {
		cm := NewManagerAt(t.TempDir())

		err := cm.Validate()
		if !errors.Is(err, ErrMissing) {
			t.Fatalf("Validate() error = %v, want ErrMissing", err)
		}
		for _, name := range []string{KeyFileName, ModelFileName, SettingsFileName} {
			if !strings.Contains(err.Error(), name) {
				t.Errorf("Validate() error should list %s, got: %v", name, err)
			}
		}
	})

	t.Run("does not parse file contents", func(t *testing.T) {
		// Validate runs before any parsing: malformed JSON must not fail
		// the existence check
		dir := t.TempDir()
		writeTestFile(t, dir, KeyFileName, `{not json`)
		writeTestFile(t, dir, ModelFileName, `also not json`)
		writeTestFile(t, dir, SettingsFileName, ``)

		cm := NewManagerAt(dir)
		if err := cm.Validate(); err != nil {
			t.Errorf("Validate() should only check existence, got: %v", err)
		}
	})
}

func TestLoadAPIKeys(t *testing.T) {
	t.Run("loads entries", func(t *testing.T) {
		cm := setupTestConfig(t)
		keys, err := cm.LoadAPIKeys()
		if err != nil {
			t.Fatalf("LoadAPIKeys() error: %v", err)
		}
		if len(keys) != 2 {
			t.Fatalf("LoadAPIKeys() = %d entries, want 2", len(keys))
		}
		if keys[0].Name != "work" || keys[0].Description != "company account" {
			t.Errorf("unexpected first entry: %+v", keys[0])
		}
		if keys[1].Description != "" {
			t.Errorf("description should be empty, got %q", keys[1].Description)
		}
	})

	t.Run("malformed JSON returns ErrParse", func(t *testing.T) {
		cm := setupTestConfig(t)
		writeTestFile(t, cm.ConfigDir(), KeyFileName, `{broken`)

		_, err := cm.LoadAPIKeys()
		if !errors.Is(err, ErrParse) {
			t.Errorf("LoadAPIKeys() error = %v, want ErrParse", err)
		}
	})

	t.Run("missing file returns ErrMissing", func(t *testing.T) {
		cm := NewManagerAt(t.TempDir())
		_, err := cm.LoadAPIKeys()
		if !errors.Is(err, ErrMissing) {
			t.Errorf("LoadAPIKeys() error = %v, want ErrMissing", err)
		}
	})
}

func TestLoadModels(t *testing.T) {
	cm := setupTestConfig(t)

	modelList, err := cm.LoadModels()
	if err != nil {
		t.Fatalf("LoadModels() error: %v", err)
	}
	if len(modelList) != 2 {
		t.Fatalf("LoadModels() = %d entries, want 2", len(modelList))
	}
	if modelList[0].ID != "gpt-4" {
		t.Errorf("first model = %q, want %q", modelList[0].ID, "gpt-4")
	}

	writeTestFile(t, cm.ConfigDir(), ModelFileName, `[]broken`)
	if _, err := cm.LoadModels(); !errors.Is(err, ErrParse) {
		t.Errorf("LoadModels() error = %v, want ErrParse", err)
	}
}

func TestLoadSettings(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    models.Settings
		wantErr bool
	}{
		{
			name:    "full settings",
			content: `{"quickStart": true, "defaultApiKey": "work", "defaultModel": "gpt-4", "alwaysResume": true}`,
			want:    models.Settings{QuickStart: true, DefaultAPIKey: "work", DefaultModel: "gpt-4", AlwaysResume: true},
		},
		{
			name:    "absent fields default to zero values",
			content: `{}`,
			want:    models.Settings{},
		},
		{
			name:    "empty file treated as zero settings",
			content: ``,
			want:    models.Settings{},
		},
		{
			name:    "unknown fields ignored",
			content: `{"quickStart": false, "theme": "dark"}`,
			want:    models.Settings{},
		},
		{
			name:    "malformed JSON",
			content: `{"quickStart": }`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeTestFile(t, dir, SettingsFileName, tt.content)
			cm := NewManagerAt(dir)

			got, err := cm.LoadSettings()
			if tt.wantErr {
				if !errors.Is(err, ErrParse) {
					t.Errorf("LoadSettings() error = %v, want ErrParse", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadSettings() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("LoadSettings() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFindAPIKey(t *testing.T) {
	keys := []models.APIKey{
		{Name: "a", Key: "sk-1"},
		{Name: "b", Key: "sk-2"},
		{Name: "a", Key: "sk-3"},
	}

	t.Run("first match wins", func(t *testing.T) {
		got := FindAPIKey(keys, "a")
		if got == nil || got.Key != "sk-1" {
			t.Errorf("FindAPIKey() = %+v, want the first 'a' entry", got)
		}
	})

	t.Run("not found", func(t *testing.T) {
		if got := FindAPIKey(keys, "missing"); got != nil {
			t.Errorf("FindAPIKey() = %+v, want nil", got)
		}
	})

	t.Run("empty list", func(t *testing.T) {
		if got := FindAPIKey(nil, "a"); got != nil {
			t.Errorf("FindAPIKey() = %+v, want nil", got)
		}
	})
}

func TestNewManagerRespectsXDGConfigHome(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	cm, err := NewManager()
	if err != nil {
		t.Fatalf("NewManager() error: %v", err)
	}

	want := filepath.Join(dir, "cbstart")
	if cm.ConfigDir() != want {
		t.Errorf("ConfigDir() = %q, want %q", cm.ConfigDir(), want)
	}
}

func TestUpdateSettingsPersistsFields(t *testing.T) {
	cm := NewManagerAt(filepath.Join(t.TempDir(), "cbstart"))

	quick := true
	model := "gpt-4"
	err := cm.UpdateSettings(settings.Update{QuickStart: &quick, DefaultModel: &model})
	if err != nil {
		t.Fatalf("UpdateSettings() error: %v", err)
	}

	got, err := cm.LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings() error: %v", err)
	}
	if !got.QuickStart {
		t.Error("quickStart was not persisted")
	}
	if got.DefaultModel != model {
		t.Errorf("defaultModel = %q, want %q", got.DefaultModel, model)
	}
}

// Two writers updating disjoint fields must both land: the exclusive lock
// serializes the read-apply-rename sequence, so neither write can start
// from a snapshot the other is about to replace.
func TestUpdateSettingsConcurrentWritersKeepAllFields(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, SettingsFileName, `{"theme": "dark"}`)
	cm := NewManagerAt(dir)

	key := "work"
	model := "gpt-4"

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		errs <- cm.UpdateSettings(settings.Update{DefaultAPIKey: &key})
	}()
	go func() {
		defer wg.Done()
		errs <- cm.UpdateSettings(settings.Update{DefaultModel: &model})
	}()
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("UpdateSettings() error: %v", err)
		}
	}

	got, err := cm.LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings() error: %v", err)
	}
	if got.DefaultAPIKey != key {
		t.Errorf("defaultApiKey = %q, want %q", got.DefaultAPIKey, key)
	}
	if got.DefaultModel != model {
		t.Errorf("defaultModel = %q, want %q", got.DefaultModel, model)
	}

	data, err := os.ReadFile(cm.SettingsFilePath())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"theme"`) {
		t.Error("unmanaged field was dropped by concurrent updates")
	}
}
