// Package config loads runtime configuration for the trackinventory CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via --config / -c.
//  3. Command-line flags registered by RegisterFlags, which override earlier
//     values when they are set explicitly.
//
// # JSON schema
//
// Durations use timex.Duration, so values can be either strings like "3s" or
// integer nanoseconds. Omitted keys keep their earlier value:
//
//	{
//	  "server_url": "http://127.0.0.1:8080",
//	  "request_timeout": "15s",
//	  "store_backend": "sqlite",
//	  "data_dir": "/home/me/.config/trackinventory",
//	  "page_size": 10,
//	  "vehicle_page_size": 100,
//	  "login_attempts": 3,
//	  "login_base_delay": "1s",
//	  "otp_window": "2m",
//	  "response_cache": true,
//	  "log_level": "info"
//	}
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
