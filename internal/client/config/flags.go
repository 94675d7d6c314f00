package config

import (
	"github.com/spf13/pflag"
)

// Flag names.
const (
	FlagConfig          = "config"
	FlagServer          = "server"
	FlagTimeout         = "timeout"
	FlagStore           = "store"
	FlagDataDir         = "data-dir"
	FlagPageSize        = "page-size"
	FlagVehiclePageSize = "vehicle-page-size"
	FlagLoginAttempts   = "login-attempts"
	FlagLoginDelay      = "login-delay"
	FlagOTPWindow       = "otp-window"
	FlagCache           = "cache"
	FlagLogLevel        = "log-level"
)

// RegisterFlags adds the configuration flags to fs. Defaults shown in help
// are the built-in defaults; only flags the user sets override the JSON file.
func RegisterFlags(fs *pflag.FlagSet) {
	var d Config
	d.LoadDefaults()

	fs.StringP(FlagConfig, "c", "", "path to a JSON configuration file")
	fs.StringP(FlagServer, "s", d.ServerURL, "base URL of the inventory backend")
	fs.Duration(FlagTimeout, d.RequestTimeout, "per-request timeout")
	fs.String(FlagStore, d.StoreBackend, "credential store backend (sqlite|bbolt|memory)")
	fs.String(FlagDataDir, d.DataDir, "directory for the credential store")
	fs.Int(FlagPageSize, d.PageSize, "page size of product lists")
	fs.Int(FlagVehiclePageSize, d.VehiclePageSize, "page size of vehicle lists")
	fs.Int(FlagLoginAttempts, d.LoginAttempts, "maximum login attempts")
	fs.Duration(FlagLoginDelay, d.LoginBaseDelay, "base delay between login attempts")
	fs.Duration(FlagOTPWindow, d.OTPWindow, "time before a verification code can be resent")
	fs.Bool(FlagCache, d.ResponseCache, "cache GET responses for the session")
	fs.String(FlagLogLevel, d.LogLevel, "log level (debug|info|warn|error)")
}

// applyFlags copies explicitly set flags into cfg.
func applyFlags(cfg *Config, fs *pflag.FlagSet) error {
	var err error
	set := func(name string, apply func() error) {
		if err == nil && fs.Changed(name) {
			err = apply()
		}
	}

	set(FlagServer, func() (e error) { cfg.ServerURL, e = fs.GetString(FlagServer); return })
	set(FlagTimeout, func() (e error) { cfg.RequestTimeout, e = fs.GetDuration(FlagTimeout); return })
	set(FlagStore, func() (e error) { cfg.StoreBackend, e = fs.GetString(FlagStore); return })
	set(FlagDataDir, func() (e error) { cfg.DataDir, e = fs.GetString(FlagDataDir); return })
	set(FlagPageSize, func() (e error) { cfg.PageSize, e = fs.GetInt(FlagPageSize); return })
	set(FlagVehiclePageSize, func() (e error) { cfg.VehiclePageSize, e = fs.GetInt(FlagVehiclePageSize); return })
	set(FlagLoginAttempts, func() (e error) { cfg.LoginAttempts, e = fs.GetInt(FlagLoginAttempts); return })
	set(FlagLoginDelay, func() (e error) { cfg.LoginBaseDelay, e = fs.GetDuration(FlagLoginDelay); return })
	set(FlagOTPWindow, func() (e error) { cfg.OTPWindow, e = fs.GetDuration(FlagOTPWindow); return })
	set(FlagCache, func() (e error) { cfg.ResponseCache, e = fs.GetBool(FlagCache); return })
	set(FlagLogLevel, func() (e error) { cfg.LogLevel, e = fs.GetString(FlagLogLevel); return })

	return err
}
