// Package config loads the scoring service's runtime configuration: tempo
// analysis parameters and the HTTP front end's operational limits. It
// favors a TOML file with documented defaults over environment-variable
// sprawl, per spec.md's "avoid reflection-based keyword argument handling"
// design note.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/orangishcat/note/internal/scoring"
)

// TempoConfig mirrors scoring.TempoParams with TOML struct tags.
type TempoConfig struct {
	MinWindow           int     `toml:"min_window"`
	WindowDivisor       int     `toml:"window_divisor"`
	ThresholdMultiplier float64 `toml:"threshold_multiplier"`
	MinSeparationFloor  int     `toml:"min_separation_floor"`
	UnstableScale       float64 `toml:"unstable_scale"`
}

// ToParams converts to the scoring package's native parameter struct.
func (c TempoConfig) ToParams() scoring.TempoParams {
	return scoring.TempoParams{
		MinWindow:           c.MinWindow,
		WindowDivisor:       c.WindowDivisor,
		ThresholdMultiplier: c.ThresholdMultiplier,
		MinSeparationFloor:  c.MinSeparationFloor,
		UnstableScale:       c.UnstableScale,
	}
}

// Config is the scoring service's full runtime configuration.
type Config struct {
	Tempo TempoConfig `toml:"tempo"`

	ListenAddr     string `toml:"listen_addr"`
	TLSCertEnv     string `toml:"tls_cert_env"`
	TLSKeyEnv      string `toml:"tls_key_env"`
	RateLimitRPS   int    `toml:"rate_limit_rps"`
	RateLimitBurst int    `toml:"rate_limit_burst"`

	StorageBucket  string `toml:"storage_bucket"`
	TranscriberURL string `toml:"transcriber_url"`
}

// DefaultConfig returns the service's standard configuration.
func DefaultConfig() Config {
	return Config{
		Tempo: TempoConfig{
			MinWindow:           3,
			WindowDivisor:       20,
			ThresholdMultiplier: 2,
			MinSeparationFloor:  5,
			UnstableScale:       1e4,
		},
		ListenAddr:     ":8080",
		TLSCertEnv:     "NOTE_TLS_CERT",
		TLSKeyEnv:      "NOTE_TLS_KEY",
		RateLimitRPS:   5,
		RateLimitBurst: 10,
		StorageBucket:  "note-recordings",
		TranscriberURL: "http://localhost:9090/transcribe",
	}
}

// GetConfigPath returns the default config file location: the current
// directory first, then $HOME/.config/note/config.toml.
func GetConfigPath() string {
	if _, err := os.Stat("./note.toml"); err == nil {
		return "./note.toml"
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "./note.toml"
	}
	return filepath.Join(home, ".config", "note", "config.toml")
}

// LoadConfig reads path as TOML, falling back to DefaultConfig if the file
// does not exist.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return DefaultConfig(), fmt.Errorf("config: reading %s: %w", path, err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, &config); err != nil {
		return DefaultConfig(), fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return config, nil
}

// SaveConfig writes config to path as TOML, creating parent directories as
// needed.
func SaveConfig(path string, config Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("config: creating %s: %w", dir, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("config: creating %s: %w", path, err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(config); err != nil {
		return fmt.Errorf("config: writing %s: %w", path, err)
	}
	return nil
}

// LoadDotEnv loads a .env file into the process environment when debug is
// true, the way the original deployment gated local-only secrets behind a
// DEBUG flag. It is a no-op, not an error, when the file is absent.
func LoadDotEnv(debug bool) error {
	if !debug {
		return nil
	}
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("config: loading .env: %w", err)
	}
	return nil
}
