package client

import (
	"context"
	"net/url"

	"github.com/dmitrijs2005/trackinventory/internal/client/models"
)

// TokenSource supplies the stored access token. credentials.Store
// satisfies it.
type TokenSource interface {
	Get(ctx context.Context, key string) (string, bool)
}

// Request describes one remote call.
type Request struct {
	Method string
	// Path is relative to the base URL and already escaped, e.g.
	// "/items/list".
	Path  string
	Query url.Values
	// Body is encoded as JSON when non-nil.
	Body any
	// Anonymous requests are sent without a token and never fail with
	// ErrUnauthenticated.
	Anonymous bool
	// Unauthorized is the kind reported for a 401. It defaults to
	// common.ErrSessionExpired.
	Unauthorized error
}

// Doer issues a request and decodes a 2xx JSON body into out (which may be
// nil).
type Doer interface {
	Do(ctx context.Context, req Request, out any) error
}

// Client is the typed surface of the backend used by the services.
type Client interface {
	Doer

	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	ForgotPassword(ctx context.Context, destination string) error
	VerifyOTP(ctx context.Context, req models.VerifyOTPRequest) (*models.VerifyOTPResponse, error)
	ResendOTP(ctx context.Context, destination string) error
	SignUp(ctx context.Context, req models.SignUpRequest) error
	ResetPassword(ctx context.Context, password string) error
	ChangePassword(ctx context.Context, oldPassword, newPassword string) error

	UserDetails(ctx context.Context) (*models.UserDetails, error)
	SaveBusinessDetails(ctx context.Context, d models.BusinessDetails) (*models.BusinessDetailsResponse, error)
	Categories(ctx context.Context) ([]models.Category, error)

	ProductStats(ctx context.Context) (models.Stats, error)
	Product(ctx context.Context, id string) (*models.Product, error)
	Vehicle(ctx context.Context, id string) (*models.Vehicle, error)

	// ResetCache drops cached responses.
	ResetCache()
}
