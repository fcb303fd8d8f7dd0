// Package config persists the operator's server settings between runs.
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/leandrodaf/vpadserver/sdk/contracts"
)

// OutputConfig selects a MIDI output by name, falling back to its index.
type OutputConfig struct {
	PortName  string `json:"portName,omitempty"`
	PortIndex int    `json:"portIndex"`
}

// Config is the main configuration structure
type Config struct {
	ListenAddress string        `json:"listenAddress"`
	DAW           string        `json:"daw"`
	Instrument    OutputConfig  `json:"instrument"`
	Control       *OutputConfig `json:"control,omitempty"` // nil shares the instrument output
	Debug         bool          `json:"debug,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		ListenAddress: contracts.DefaultListenAddress,
		DAW:           "default",
	}
}

// Dir returns the config directory path
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "vpadserver"), nil
}

// Path returns the full path to config.json
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from the default path, or returns defaults if there is none.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFile(path)
}

// LoadFile reads the config at path. Missing fields keep their defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to the default path
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return c.SaveFile(path)
}

// SaveFile writes the config to path, creating its directory.
func (c *Config) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
