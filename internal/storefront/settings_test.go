package storefront

import (
	"path/filepath"
	"testing"
)

func TestSettingsFallback(t *testing.T) {
	s := NewSettings(filepath.Join(t.TempDir(), "settings.json"), "03001234567")
	if got := s.WhatsAppNumber(); got != "03001234567" {
		t.Errorf("expected build-time default, got %q", got)
	}
}

func TestSettingsStoredNumberWins(t *testing.T) {
	s := NewSettings(filepath.Join(t.TempDir(), "settings.json"), "03001234567")

	if err := s.SetWhatsAppNumber("03119998877"); err != nil {
		t.Fatalf("failed to save: %v", err)
	}
	if got := s.WhatsAppNumber(); got != "03119998877" {
		t.Errorf("expected stored number, got %q", got)
	}
}

func TestSettingsEmptyEverywhere(t *testing.T) {
	s := NewSettings(filepath.Join(t.TempDir(), "settings.json"), "")
	if got := s.WhatsAppNumber(); got != "" {
		t.Errorf("expected empty number, got %q", got)
	}
}
