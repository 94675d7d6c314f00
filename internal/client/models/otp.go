package models

// ForgotPasswordType selects the password-reset flow on the forgot endpoint.
const ForgotPasswordType = "1"

type ForgotPasswordRequest struct {
	Destination string `json:"destination"`
	Type        string `json:"type"`
}

type VerifyOTPRequest struct {
	Destination string `json:"destination"`
	IsEmail     bool   `json:"isEmail"`
	Code        string `json:"code"`
}

// VerifyOTPResponse may legitimately come back without a token.
type VerifyOTPResponse struct {
	AccessToken string `json:"accessToken,omitempty"`
	Message     string `json:"message,omitempty"`
}

type ResendOTPRequest struct {
	Destination string `json:"destination"`
}
