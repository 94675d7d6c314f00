// Package common defines shared constants and sentinel errors used across
// client layers of trackinventory. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Transport-level errors: no response was received.
	ErrNetwork = errors.New("network error")

	// Auth errors. Both 401 variants also match ErrAuth.
	ErrAuth               = errors.New("authentication error")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionExpired     = errors.New("session expired")

	// Server-explained rejection of a structurally invalid request (400-class).
	ErrValidation = errors.New("validation error")

	// 5xx or any other unexpected status code.
	ErrServer = errors.New("server error")

	// Malformed JSON body or malformed token segment.
	ErrDecode = errors.New("decode error")

	// Secure-store operation failure.
	ErrStorage = errors.New("storage error")

	// Local short-circuit: no access token present, no call attempted.
	ErrUnauthenticated = errors.New("unauthenticated")
)
