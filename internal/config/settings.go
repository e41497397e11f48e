package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Settings holds user preferences that apply to every plan.
type Settings struct {
	Display    DisplaySettings    `toml:"display"`
	History    HistorySettings    `toml:"history"`
	Server     ServerSettings     `toml:"server"`
	Simulation SimulationSettings `toml:"simulation"`
}

// DisplaySettings controls report rendering.
type DisplaySettings struct {
	CurrencySymbol string `toml:"currency_symbol"`
	CurrencyCode   string `toml:"currency_code"`
	DefaultFormat  string `toml:"default_format"`
}

// HistorySettings controls the run history database.
type HistorySettings struct {
	Enabled bool   `toml:"enabled"`
	DBPath  string `toml:"db_path,omitempty"`
}

// ServerSettings configures `dcaplan serve`.
type ServerSettings struct {
	Addr            string   `toml:"addr"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
}

// SimulationSettings holds Monte Carlo defaults.
type SimulationSettings struct {
	Runs             int     `toml:"runs"`
	DeviationPercent float64 `toml:"deviation_percent"`
}

// Duration is a time.Duration written as a string ("10s") in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// DefaultSettings returns the default settings.
func DefaultSettings() Settings {
	return Settings{
		Display: DisplaySettings{
			CurrencySymbol: "฿",
			CurrencyCode:   "THB",
			DefaultFormat:  "console",
		},
		Server: ServerSettings{
			Addr:            ":8080",
			ShutdownTimeout: Duration{10 * time.Second},
		},
		Simulation: SimulationSettings{
			Runs:             1000,
			DeviationPercent: 20,
		},
	}
}

// SettingsDir returns the XDG-compliant config directory.
func SettingsDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "dcaplan")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "dcaplan")
}

// SettingsPath returns the full path to the settings file.
func SettingsPath() string {
	return filepath.Join(SettingsDir(), "settings.toml")
}

// HistoryPath returns the history database path, defaulting next to the settings file.
func (s Settings) HistoryPath() string {
	if s.History.DBPath != "" {
		return s.History.DBPath
	}
	return filepath.Join(SettingsDir(), "history.db")
}

// LoadSettings reads the settings file, returning defaults if it doesn't exist.
func LoadSettings() (Settings, error) {
	return LoadSettingsFrom(SettingsPath())
}

// LoadSettingsFrom reads settings from path. Keys absent from the file keep their defaults.
func LoadSettingsFrom(path string) (Settings, error) {
	cfg := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading settings: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing settings: %w", err)
	}

	return cfg, nil
}

// SaveSettings writes the settings to disk.
func SaveSettings(cfg Settings) error {
	return SaveSettingsTo(SettingsPath(), cfg)
}

// SaveSettingsTo writes the settings to path.
func SaveSettingsTo(path string, cfg Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating settings dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating settings file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}
