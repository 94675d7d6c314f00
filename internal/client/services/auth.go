package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/trackinventory/internal/client/auth"
	"github.com/dmitrijs2005/trackinventory/internal/client/client"
	"github.com/dmitrijs2005/trackinventory/internal/client/credentials"
	"github.com/dmitrijs2005/trackinventory/internal/client/models"
	"github.com/dmitrijs2005/trackinventory/internal/common"
	"github.com/dmitrijs2005/trackinventory/internal/logging"
	"github.com/dmitrijs2005/trackinventory/internal/retryx"
	"golang.org/x/text/unicode/norm"
)

// AuthService defines session operations for the CLI.
//
// Contract:
//   - Login: authenticate with bounded retry, persist the session, return it.
//   - Logout: erase every session key (best effort) and drop cached responses.
//   - IsAuthenticated: whether an access token is stored.
//   - ForgotPassword/ResetPassword: the OTP-assisted password reset.
//   - ChangePassword: change the password of the logged-in user.
//   - SignUp: create an account; the caller continues with verification.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*models.Session, error)
	Logout(ctx context.Context) []string
	IsAuthenticated(ctx context.Context) bool
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, password string) error
	ChangePassword(ctx context.Context, oldPassword, newPassword string) error
	SignUp(ctx context.Context, req models.SignUpRequest) error
}

// LoginPolicy bounds the login retry loop.
type LoginPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// DefaultLoginPolicy is three attempts, waiting 1s then 2s.
var DefaultLoginPolicy = LoginPolicy{MaxAttempts: 3, BaseDelay: time.Second}

type authService struct {
	client client.Client
	store  credentials.Store
	policy LoginPolicy
	log    logging.Logger
}

// NewAuthService constructs an AuthService bound to the given API client and
// credential store.
func NewAuthService(c client.Client, store credentials.Store, policy LoginPolicy, log logging.Logger) AuthService {
	return &authService{client: c, store: store, policy: policy, log: log.With("service", "auth")}
}

// normalizeEmail trims and NFKC-normalises an address so visually identical
// input from different keyboards compares equal on the server.
func normalizeEmail(email string) string {
	return norm.NFKC.String(strings.TrimSpace(email))
}

// retryableLogin reports whether a failed login attempt may be repeated.
// Rejections (invalid credentials, validation) are final.
func retryableLogin(err error) bool {
	return errors.Is(err, common.ErrNetwork) ||
		errors.Is(err, common.ErrServer) ||
		errors.Is(err, common.ErrDecode)
}

func (a *authService) Login(ctx context.Context, email, password string) (*models.Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, &client.APIError{Kind: common.ErrValidation, Message: "email and password are required"}
	}

	policy := retryx.Policy{
		MaxAttempts: a.policy.MaxAttempts,
		BaseDelay:   a.policy.BaseDelay,
		Retryable:   retryableLogin,
		OnRetry: func(attempt int, delay time.Duration, err error) {
			a.log.Warn(ctx, "login attempt failed, retrying", "attempt", attempt, "delay", delay, "error", err)
		},
	}

	var resp *models.LoginResponse
	err := policy.Do(ctx, func(ctx context.Context, attempt int) error {
		var err error
		resp, err = a.client.Login(ctx, models.LoginRequest{Email: email, Password: password, Source: models.LoginSource})
		return err
	})
	if err != nil {
		a.log.Error(ctx, "login failed", "error", err)
		return nil, err
	}

	return a.establish(ctx, resp), nil
}

// establish turns a login response into a stored session. Missing fields and
// unreadable claims only produce warnings.
func (a *authService) establish(ctx context.Context, resp *models.LoginResponse) *models.Session {
	s := &models.Session{
		AccessToken: resp.AccessToken,
		UserToken:   resp.UserToken,
		UserID:      resp.UserID.String(),
		FirstLogin:  common.FirstLoginDefault,
	}

	for name, v := range map[string]string{
		common.KeyAccessToken: s.AccessToken,
		common.KeyUserToken:   s.UserToken,
		common.KeyUserID:      s.UserID,
	} {
		if v == "" {
			a.log.Warn(ctx, "login response missing field", "field", name)
		}
	}

	if s.AccessToken != "" {
		if _, err := auth.DecodeClaims(s.AccessToken); err != nil {
			a.log.Warn(ctx, "could not read token claims", "token", common.TokenPrefix(s.AccessToken), "error", err)
		}
		s.FirstLogin = auth.FirstLogin(s.AccessToken)
		if exp, ok := auth.ExpiresAt(s.AccessToken); ok {
			s.ExpiresAt = exp
		}
	}

	// responses cached under a previous token must not leak into this session
	a.client.ResetCache()

	values := map[string]string{common.KeyFirstLogin: s.FirstLogin}
	if s.AccessToken != "" {
		values[common.KeyAccessToken] = s.AccessToken
	}
	if s.UserToken != "" {
		values[common.KeyUserToken] = s.UserToken
	}
	if s.UserID != "" {
		values[common.KeyUserID] = s.UserID
	}
	if failed := credentials.SetAll(ctx, a.store, values, a.log); len(failed) > 0 {
		a.log.Error(ctx, "session partially persisted", "failed_keys", failed)
	}

	a.log.Info(ctx, "login succeeded", "user_id", s.UserID, "first_login", s.FirstLogin, "token", common.TokenPrefix(s.AccessToken))
	return s
}

func (a *authService) Logout(ctx context.Context) []string {
	failed := credentials.DeleteAll(ctx, a.store, credentials.SessionKeys, a.log)
	a.client.ResetCache()
	if len(failed) > 0 {
		a.log.Warn(ctx, "logout left keys behind", "failed_keys", failed)
	} else {
		a.log.Info(ctx, "logged out")
	}
	return failed
}

func (a *authService) IsAuthenticated(ctx context.Context) bool {
	tok, ok := a.store.Get(ctx, common.KeyAccessToken)
	return ok && tok != ""
}

func (a *authService) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return &client.APIError{Kind: common.ErrValidation, Message: "email is required"}
	}
	return a.client.ForgotPassword(ctx, email)
}

func (a *authService) ResetPassword(ctx context.Context, password string) error {
	if password == "" {
		return &client.APIError{Kind: common.ErrValidation, Message: "password is required"}
	}
	return a.client.ResetPassword(ctx, password)
}

func (a *authService) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return &client.APIError{Kind: common.ErrValidation, Message: "old and new password are required"}
	}
	return a.client.ChangePassword(ctx, oldPassword, newPassword)
}

func (a *authService) SignUp(ctx context.Context, req models.SignUpRequest) error {
	req.Email = normalizeEmail(req.Email)
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	if req.Email == "" || req.Password == "" {
		return &client.APIError{Kind: common.ErrValidation, Message: "email and password are required"}
	}
	return a.client.SignUp(ctx, req)
}
