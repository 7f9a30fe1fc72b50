package selector

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeFzfStub installs a fake fuzzy finder that runs the given shell body
// and returns its path.
func writeFzfStub(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FzfBinary)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFzfPickReturnsMatchedOption(t *testing.T) {
	stdinFile := filepath.Join(t.TempDir(), "stdin.txt")
	stub := writeFzfStub(t, fmt.Sprintf("cat > %s\nprintf 'work - company account\\n'\n", stdinFile))

	opts := []Option{
		{Name: "work", Description: "company account"},
		{Name: "personal", Description: "private account"},
	}

	f := &Fzf{binary: stub}
	chosen, err := f.Pick("Select API key", opts)
	if err != nil {
		t.Fatalf("Pick() error: %v", err)
	}
	if chosen == nil {
		t.Fatal("Pick() returned nil option")
	}
	if chosen.Name != "work" || chosen.Description != "company account" {
		t.Errorf("Pick() = %+v, want the work entry", chosen)
	}

	// Every option line must have been piped to the finder
	piped, err := os.ReadFile(stdinFile)
	if err != nil {
		t.Fatal(err)
	}
	for _, opt := range opts {
		if !strings.Contains(string(piped), opt.Line()) {
			t.Errorf("finder stdin missing line %q, got %q", opt.Line(), piped)
		}
	}
}

func TestFzfPickCancelled(t *testing.T) {
	stub := writeFzfStub(t, "cat > /dev/null\nexit 130\n")

	f := &Fzf{binary: stub}
	chosen, err := f.Pick("Select API key", keyOptions())
	if err != nil {
		t.Fatalf("Pick() error: %v, want nil on cancel", err)
	}
	if chosen != nil {
		t.Errorf("Pick() = %+v, want nil on cancel", chosen)
	}
}

func TestFzfPickEmptyOutput(t *testing.T) {
	stub := writeFzfStub(t, "cat > /dev/null\nexit 0\n")

	f := &Fzf{binary: stub}
	chosen, err := f.Pick("Select API key", keyOptions())
	if err != nil {
		t.Fatalf("Pick() error: %v", err)
	}
	if chosen != nil {
		t.Errorf("Pick() = %+v, want nil for empty output", chosen)
	}
}

func TestFzfPickUnknownLine(t *testing.T) {
	stub := writeFzfStub(t, "cat > /dev/null\nprintf 'ghost - never configured\\n'\n")

	f := &Fzf{binary: stub}
	_, err := f.Pick("Select API key", keyOptions())
	if !errors.Is(err, ErrNameLookup) {
		t.Errorf("Pick() error = %v, want ErrNameLookup", err)
	}
}

func TestFzfPickNoChoices(t *testing.T) {
	f := NewFzf()
	_, err := f.Pick("Select API key", nil)
	if !errors.Is(err, ErrNoChoices) {
		t.Errorf("Pick() error = %v, want ErrNoChoices", err)
	}
}

func TestHasFzf(t *testing.T) {
	stub := writeFzfStub(t, "exit 0\n")

	t.Setenv("PATH", filepath.Dir(stub))
	if !HasFzf() {
		t.Error("HasFzf() = false with the finder on PATH")
	}

	t.Setenv("PATH", t.TempDir())
	if HasFzf() {
		t.Error("HasFzf() = true with an empty PATH")
	}
}
