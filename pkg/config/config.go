package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/harrisonrobin/harvestboard/pkg/model"
)

const (
	xdgAppName = "harvestboard"
	configFile = "config.json"

	BackendHTTP   = "http"
	BackendSheets = "sheets"

	defaultSheetName = "Sheet1"
)

type Config struct {
	// Backend selects the read/write boundary: "http" or "sheets".
	Backend string `json:"backend"`

	// http backend: CSV export URL and row-update API base URL.
	SourceURL    string `json:"source_url,omitempty"`
	WriteBaseURL string `json:"write_base_url,omitempty"`

	// OAuth sends the cached Google token with http backend requests, for
	// private sheet exports.
	OAuth bool `json:"oauth,omitempty"`

	// sheets backend.
	SpreadsheetID string `json:"spreadsheet_id,omitempty"`
	SheetName     string `json:"sheet_name,omitempty"`

	// KeyColumn is the column whose value identifies a row for write-back.
	KeyColumn string `json:"key_column"`
}

// Default returns a config with every default filled in.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Backend == "" {
		c.Backend = BackendHTTP
	}
	if c.KeyColumn == "" {
		c.KeyColumn = model.ColUID
	}
	if c.SheetName == "" {
		c.SheetName = defaultSheetName
	}
}

// Validate reports the first missing input for the selected backend.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendHTTP:
		if c.SourceURL == "" {
			return errors.New("source_url is not set")
		}
		if c.WriteBaseURL == "" {
			return errors.New("write_base_url is not set")
		}
	case BackendSheets:
		if c.SpreadsheetID == "" {
			return errors.New("spreadsheet_id is not set")
		}
	default:
		return fmt.Errorf("unknown backend %q. Expected '%s' or '%s'", c.Backend, BackendHTTP, BackendSheets)
	}
	if c.KeyColumn == "" {
		return errors.New("key_column is not set")
	}
	return nil
}

func GetConfigPath() (string, error) {
	xdgHome, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(xdgHome, ".config", xdgAppName, configFile), nil
}

// Load reads the config file, returning defaults when it does not exist.
func Load() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	defer f.Close()

	var cfg Config
	if err := json.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func Save(cfg *Config) error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}
	return SaveFile(path, cfg)
}

func SaveFile(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to open config file for writing: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	return encoder.Encode(cfg)
}

// Set assigns a config value by its JSON key.
func (c *Config) Set(key, value string) error {
	switch key {
	case "backend":
		c.Backend = value
	case "source_url":
		c.SourceURL = value
	case "write_base_url":
		c.WriteBaseURL = value
	case "oauth":
		c.OAuth = value == "true" || value == "1" || value == "yes"
	case "spreadsheet_id":
		c.SpreadsheetID = value
	case "sheet_name":
		c.SheetName = value
	case "key_column":
		c.KeyColumn = value
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}
