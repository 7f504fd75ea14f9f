package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/nofilamer/RAG-with-CSV-PDF-DOCS/internal/models"
)

// LoadSettings reads persisted settings from path, on top of the given
// defaults (which carry deployment-configured values like the completion
// model). A missing file is not an error: the defaults are returned. Unknown
// keys in the file are ignored, and the save-targeting fields (SaveResults,
// OutputFile) are never read from disk.
func LoadSettings(path string, defaults models.Settings) (models.Settings, error) {
	settings := defaults

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings %s: %w", path, err)
	}

	if err := json.Unmarshal(data, &settings); err != nil {
		return defaults, fmt.Errorf("parse settings %s: %w", path, err)
	}
	if settings.Limit <= 0 {
		settings.Limit = models.DefaultSettings().Limit
	}
	return settings, nil
}

// SaveSettings writes settings to path. The save-targeting fields are
// excluded by the Settings JSON encoding itself.
func SaveSettings(path string, settings models.Settings) error {
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write settings %s: %w", path, err)
	}
	return nil
}
