package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/trackinventory/internal/client/credentials"
	"github.com/spf13/pflag"
)

// Config holds runtime settings for the trackinventory CLI.
//
// Units: all durations are time.Duration. PageSize applies to the mobile
// catalogue lists, VehiclePageSize to the vehicle lists.
type Config struct {
	ServerURL       string
	RequestTimeout  time.Duration
	StoreBackend    string
	DataDir         string
	PageSize        int
	VehiclePageSize int
	LoginAttempts   int
	LoginBaseDelay  time.Duration
	OTPWindow       time.Duration
	ResponseCache   bool
	LogLevel        string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.RequestTimeout = 15 * time.Second
	c.StoreBackend = credentials.BackendSQLite
	c.DataDir = defaultDataDir()
	c.PageSize = 10
	c.VehiclePageSize = 100
	c.LoginAttempts = 3
	c.LoginBaseDelay = time.Second
	c.OTPWindow = 120 * time.Second
	c.ResponseCache = true
	c.LogLevel = "info"
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "trackinventory")
	}
	return ".trackinventory"
}

// Validate reports settings the client cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.ServerURL == "" {
		errs = append(errs, errors.New("server url is required"))
	}
	switch c.StoreBackend {
	case credentials.BackendSQLite, credentials.BackendBolt, credentials.BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown store backend %q", c.StoreBackend))
	}
	if c.PageSize < 1 || c.VehiclePageSize < 1 {
		errs = append(errs, errors.New("page sizes must be positive"))
	}
	if c.LoginAttempts < 1 {
		errs = append(errs, errors.New("login attempts must be at least 1"))
	}
	if c.LoginBaseDelay < 0 || c.OTPWindow < 0 || c.RequestTimeout < 0 {
		errs = append(errs, errors.New("durations must not be negative"))
	}
	return errors.Join(errs...)
}

// Load constructs a Config, applies defaults, then overlays values from the
// JSON file named by --config (if any) and explicitly set flags in fs.
func Load(fs *pflag.FlagSet) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	path, err := fs.GetString(FlagConfig)
	if err != nil {
		return nil, err
	}
	if err := parseJson(cfg, path); err != nil {
		return nil, err
	}
	if err := applyFlags(cfg, fs); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
