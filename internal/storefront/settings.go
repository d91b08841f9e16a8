package storefront

import (
	"encoding/json"
	"os"
)

// Settings persists the destination WhatsApp number in a local settings
// file, the equivalent of the browser's local storage. A build-time
// default applies when no number has been saved.
type Settings struct {
	path     string
	fallback string
}

type settingsFile struct {
	WhatsAppNumber string `json:"whatsapp_number"`
}

// NewSettings creates a settings store backed by the given file
func NewSettings(path, fallback string) *Settings {
	return &Settings{path: path, fallback: fallback}
}

// WhatsAppNumber resolves the destination number: stored value first,
// then the build-time default. May be empty when neither is set.
func (s *Settings) WhatsAppNumber() string {
	data, err := os.ReadFile(s.path)
	if err == nil {
		var f settingsFile
		if json.Unmarshal(data, &f) == nil && f.WhatsAppNumber != "" {
			return f.WhatsAppNumber
		}
	}
	return s.fallback
}

// SetWhatsAppNumber saves the number to the settings file
func (s *Settings) SetWhatsAppNumber(number string) error {
	data, err := json.MarshalIndent(settingsFile{WhatsAppNumber: number}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}
