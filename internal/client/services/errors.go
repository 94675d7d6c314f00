package services

import "errors"

var (
	// ErrVerificationPending is returned while a verify or resend call for
	// the same flow is still running.
	ErrVerificationPending = errors.New("verification already in progress")
	ErrAlreadyVerified     = errors.New("code already verified")
	// ErrResendRequired is returned by Verify after a rejected code; a new
	// code has to be requested first.
	ErrResendRequired    = errors.New("code was rejected, request a new one")
	ErrResendUnavailable = errors.New("resend is not available yet")
	ErrInvalidCode       = errors.New("code must be 6 digits")
)
