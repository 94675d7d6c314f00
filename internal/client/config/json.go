package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/trackinventory/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields distinguish an omitted key from a zero value.
type JsonConfig struct {
	ServerURL       *string         `json:"server_url"`
	RequestTimeout  *timex.Duration `json:"request_timeout"`
	StoreBackend    *string         `json:"store_backend"`
	DataDir         *string         `json:"data_dir"`
	PageSize        *int            `json:"page_size"`
	VehiclePageSize *int            `json:"vehicle_page_size"`
	LoginAttempts   *int            `json:"login_attempts"`
	LoginBaseDelay  *timex.Duration `json:"login_base_delay"`
	OTPWindow       *timex.Duration `json:"otp_window"`
	ResponseCache   *bool           `json:"response_cache"`
	LogLevel        *string         `json:"log_level"`
}

// parseJson overlays cfg with the keys present in the JSON file at path.
// An empty path loads nothing.
func parseJson(cfg *Config, path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config[%s]: %w", path, err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("failed to parse config[%s]: %w", path, err)
	}

	setString(&cfg.ServerURL, jc.ServerURL)
	setDuration(&cfg.RequestTimeout, jc.RequestTimeout)
	setString(&cfg.StoreBackend, jc.StoreBackend)
	setString(&cfg.DataDir, jc.DataDir)
	setInt(&cfg.PageSize, jc.PageSize)
	setInt(&cfg.VehiclePageSize, jc.VehiclePageSize)
	setInt(&cfg.LoginAttempts, jc.LoginAttempts)
	setDuration(&cfg.LoginBaseDelay, jc.LoginBaseDelay)
	setDuration(&cfg.OTPWindow, jc.OTPWindow)
	if jc.ResponseCache != nil {
		cfg.ResponseCache = *jc.ResponseCache
	}
	setString(&cfg.LogLevel, jc.LogLevel)
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *timex.Duration) {
	if v != nil {
		*dst = v.Duration
	}
}
