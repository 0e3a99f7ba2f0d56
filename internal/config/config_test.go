package config

import (
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFileReturnsDefaults(t *testing.T) {
	got, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	want := DefaultConfig()
	if got != want {
		t.Errorf("exp defaults %+v, got %+v", want, got)
	}
}

func TestSaveThenLoadConfigRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.toml")
	want := DefaultConfig()
	want.Tempo.ThresholdMultiplier = 3.5
	want.RateLimitRPS = 42

	if err := SaveConfig(path, want); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got != want {
		t.Errorf("exp %+v, got %+v", want, got)
	}
}

func TestTempoConfigToParams(t *testing.T) {
	c := DefaultConfig().Tempo
	p := c.ToParams()
	if p.MinWindow != c.MinWindow || p.UnstableScale != c.UnstableScale {
		t.Errorf("ToParams did not preserve fields: %+v -> %+v", c, p)
	}
}
