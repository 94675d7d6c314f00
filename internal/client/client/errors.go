package client

import (
	"errors"

	"github.com/dmitrijs2005/trackinventory/internal/common"
)

// APIError is a classified failure of a remote call.
type APIError struct {
	// Kind is one of the sentinels in package common.
	Kind error
	// Status is the HTTP status, or 0 when no response was received.
	Status int
	// Message is safe to show to the user; for 4xx it is the server's text.
	Message string
	// Err is the underlying cause, if any.
	Err error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Kind != nil {
		return e.Kind.Error()
	}
	return "request failed"
}

func (e *APIError) Unwrap() []error {
	errs := make([]error, 0, 3)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if errors.Is(e.Kind, common.ErrInvalidCredentials) || errors.Is(e.Kind, common.ErrSessionExpired) {
		errs = append(errs, common.ErrAuth)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// Status returns the HTTP status carried by err, or 0.
func Status(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}
