package models

import "time"

// LoginSource identifies this client to the login endpoint.
const LoginSource = "2"

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Source   string `json:"source"`
}

// LoginResponse is the raw login payload. Any field may be missing.
type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	UserToken   string `json:"userToken"`
	UserID      Flex   `json:"userId"`
}

// Session is a login result augmented with values derived from the token.
type Session struct {
	AccessToken string
	UserToken   string
	UserID      string
	// FirstLogin is the advisory claim from the access token, "True" or
	// "False" unless the backend issues something else.
	FirstLogin string
	// ExpiresAt is zero when the token carries no readable exp.
	ExpiresAt time.Time
}

// IsFirstLogin reports whether the advisory flag is set.
func (s *Session) IsFirstLogin() bool {
	return s.FirstLogin == "True" || s.FirstLogin == "true"
}

type SignUpRequest struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type ChangePasswordRequest struct {
	Password    string `json:"password"`
	NewPassword string `json:"newPassword"`
}

type ResetPasswordRequest struct {
	Password string `json:"password"`
}
