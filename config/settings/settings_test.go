package settings

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tidwall/gjson"
)

func boolPtr(b bool) *bool    { return &b }
func strPtr(s string) *string { return &s }

func TestApply(t *testing.T) {
	t.Run("sets managed fields", func(t *testing.T) {
		original := `{"quickStart": false, "defaultApiKey": "old"}`
		updated, err := Apply(original, Update{
			QuickStart:    boolPtr(true),
			DefaultAPIKey: strPtr("work"),
			DefaultModel:  strPtr("gpt-4"),
		})
		if err != nil {
			t.Fatalf("Apply() error: %v", err)
		}

		if !gjson.Get(updated, "quickStart").Bool() {
			t.Error("quickStart should be true")
		}
		if got := gjson.Get(updated, "defaultApiKey").String(); got != "work" {
			t.Errorf("defaultApiKey = %q, want %q", got, "work")
		}
		if got := gjson.Get(updated, "defaultModel").String(); got != "gpt-4" {
			t.Errorf("defaultModel = %q, want %q", got, "gpt-4")
		}
	})

	t.Run("nil fields left alone", func(t *testing.T) {
		original := `{"defaultApiKey": "keep", "defaultModel": "keep-model"}`
		updated, err := Apply(original, Update{AlwaysResume: boolPtr(true)})
		if err != nil {
			t.Fatalf("Apply() error: %v", err)
		}

		if got := gjson.Get(updated, "defaultApiKey").String(); got != "keep" {
			t.Errorf("defaultApiKey = %q, want %q", got, "keep")
		}
		if got := gjson.Get(updated, "defaultModel").String(); got != "keep-model" {
			t.Errorf("defaultModel = %q, want %q", got, "keep-model")
		}
		if !gjson.Get(updated, "alwaysResume").Bool() {
			t.Error("alwaysResume should be true")
		}
	})

	t.Run("unmanaged fields preserved verbatim", func(t *testing.T) {
		original := `{"theme": "dark", "nested": {"a": 1}, "quickStart": false}`
		updated, err := Apply(original, Update{QuickStart: boolPtr(true)})
		if err != nil {
			t.Fatalf("Apply() error: %v", err)
		}

		if got := gjson.Get(updated, "theme").String(); got != "dark" {
			t.Errorf("theme = %q, want %q", got, "dark")
		}
		if got := gjson.Get(updated, "nested.a").Int(); got != 1 {
			t.Errorf("nested.a = %d, want 1", got)
		}
	})

	t.Run("invalid JSON rejected", func(t *testing.T) {
		if _, err := Apply(`{broken`, Update{QuickStart: boolPtr(true)}); err == nil {
			t.Error("Apply() should fail on invalid JSON")
		}
	})
}

func TestWriteFile(t *testing.T) {
	t.Run("creates file when absent", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "settings.json")

		err := WriteFile(path, Update{
			QuickStart:    boolPtr(true),
			DefaultAPIKey: strPtr("work"),
		})
		if err != nil {
			t.Fatalf("WriteFile() error: %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("Failed to read settings file: %v", err)
		}
		if !gjson.GetBytes(data, "quickStart").Bool() {
			t.Error("quickStart should be true")
		}
	})

	t.Run("keeps backup of previous content", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "settings.json")
		if err := os.WriteFile(path, []byte(`{"defaultModel": "old"}`), 0600); err != nil {
			t.Fatal(err)
		}

		if err := WriteFile(path, Update{DefaultModel: strPtr("new")}); err != nil {
			t.Fatalf("WriteFile() error: %v", err)
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatal(err)
		}
		foundBackup := false
		for _, e := range entries {
			if strings.Contains(e.Name(), ".backup-") {
				foundBackup = true
			}
		}
		if !foundBackup {
			t.Error("WriteFile() should keep a backup of the previous content")
		}

		data, _ := os.ReadFile(path)
		if got := gjson.GetBytes(data, "defaultModel").String(); got != "new" {
			t.Errorf("defaultModel = %q, want %q", got, "new")
		}
	})
}

func TestUpdateIsEmpty(t *testing.T) {
	if !(Update{}).IsEmpty() {
		t.Error("zero Update should be empty")
	}
	if (Update{QuickStart: boolPtr(false)}).IsEmpty() {
		t.Error("Update with a field set should not be empty")
	}
}
