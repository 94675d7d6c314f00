// Package common contains shared constants and sentinel errors used across
// trackinventory client components.
package common

// Outbound request headers.
const (
	AuthorizationHeaderName = "Authorization"
	RequestIDHeaderName     = "X-Request-Id"
	BearerPrefix            = "Bearer "
)

// Credential store keys. Each key names one independently stored secret.
const (
	KeyAccessToken     = "accessToken"
	KeyUserToken       = "userToken"
	KeyUserID          = "userId"
	KeyFirstLogin      = "firstLogin"
	KeyUserDetails     = "userDetails"
	KeyBusinessDetails = "businessDetails"
	KeyServiceName     = "serviceName"
)

// FirstLoginDefault is the advisory first-login flag used when the session
// token carries no readable claim.
const FirstLoginDefault = "False"
