package services

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/nofilamer/RAG-with-CSV-PDF-DOCS/internal/models"
)

func TestSettings_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")

	saved := models.Settings{
		SourceType:     models.SourcePDF,
		Limit:          8,
		MetadataFilter: map[string]any{models.MetaCategory: "Shipping"},
		Temperature:    0.7,
		Model:          "gpt-4o-mini",
		Provider:       "openai",
		SystemPrompt:   "You are terse.",
		SaveResults:    true,
		OutputFile:     "out.json",
	}
	if err := SaveSettings(path, saved); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := LoadSettings(path, models.DefaultSettings())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	// Save-targeting fields are per-invocation and never persisted.
	if loaded.SaveResults || loaded.OutputFile != "" {
		t.Fatalf("save-targeting fields leaked through persistence: %+v", loaded)
	}

	want := saved
	want.SaveResults = false
	want.OutputFile = ""
	if !reflect.DeepEqual(loaded, want) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", loaded, want)
	}
}

func TestLoadSettings_MissingFileReturnsDefaults(t *testing.T) {
	loaded, err := LoadSettings(filepath.Join(t.TempDir(), "nope.json"), models.DefaultSettings())
	if err != nil {
		t.Fatalf("missing file must not be an error: %v", err)
	}
	if !reflect.DeepEqual(loaded, models.DefaultSettings()) {
		t.Fatalf("expected defaults, got %+v", loaded)
	}
}

func TestLoadSettings_SeedsConfiguredDefaults(t *testing.T) {
	dir := t.TempDir()
	defaults := models.DefaultSettings()
	defaults.Model = "gpt-4o-mini"
	defaults.Provider = "gemini"

	// Missing file: the deployment-configured defaults come through intact.
	loaded, err := LoadSettings(filepath.Join(dir, "nope.json"), defaults)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Model != "gpt-4o-mini" || loaded.Provider != "gemini" {
		t.Fatalf("configured defaults lost: %+v", loaded)
	}

	// A persisted file still wins over the configured defaults.
	path := filepath.Join(dir, "settings.json")
	if err := os.WriteFile(path, []byte(`{"model": "gpt-4o", "limit": 5}`), 0o644); err != nil {
		t.Fatal(err)
	}
	loaded, err = LoadSettings(path, defaults)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Model != "gpt-4o" {
		t.Fatalf("persisted model overridden by defaults: %q", loaded.Model)
	}
	if loaded.Provider != "gemini" {
		t.Fatalf("unpersisted field lost its configured default: %q", loaded.Provider)
	}
}

func TestLoadSettings_IgnoresUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	payload := `{"limit": 3, "provider": "gemini", "theme": "dark", "legacy_flag": true}`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadSettings(path, models.DefaultSettings())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Limit != 3 || loaded.Provider != "gemini" {
		t.Fatalf("known keys not applied: %+v", loaded)
	}
	// Untouched keys keep their defaults.
	if loaded.Model != models.DefaultSettings().Model {
		t.Fatalf("model default lost: %q", loaded.Model)
	}
}

func TestLoadSettings_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSettings(path, models.DefaultSettings()); err == nil {
		t.Fatal("expected an error for a corrupt settings file")
	}
}

func TestLoadSettings_NonPositiveLimitFixedUp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte(`{"limit": 0}`), 0o644); err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadSettings(path, models.DefaultSettings())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Limit != models.DefaultSettings().Limit {
		t.Fatalf("non-positive limit not fixed up: %d", loaded.Limit)
	}
}
