package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/trackinventory/internal/client/client"
	"github.com/dmitrijs2005/trackinventory/internal/client/credentials"
	"github.com/dmitrijs2005/trackinventory/internal/client/models"
	"github.com/dmitrijs2005/trackinventory/internal/common"
	"github.com/dmitrijs2005/trackinventory/internal/logging"
)

// DefaultOTPWindow is how long a freshly sent code blocks resending.
const DefaultOTPWindow = 120 * time.Second

const otpLength = 6

type VerificationState int

const (
	AwaitingInput VerificationState = iota
	Submitted
	Verified
	Rejected
)

func (s VerificationState) String() string {
	switch s {
	case AwaitingInput:
		return "awaiting input"
	case Submitted:
		return "submitted"
	case Verified:
		return "verified"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// VerificationFlow drives the exchange of a one-time code for a session
// token for one destination.
//
// The validity window is advisory: it only gates Resend. Expiry of the code
// itself is enforced by the server.
type VerificationFlow struct {
	client      client.Client
	store       credentials.Store
	log         logging.Logger
	destination string
	window      time.Duration
	now         func() time.Time

	mu       sync.Mutex
	state    VerificationState
	code     string
	deadline time.Time
	busy     bool
}

type VerificationOption func(*VerificationFlow)

func WithOTPWindow(d time.Duration) VerificationOption {
	return func(f *VerificationFlow) { f.window = d }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) VerificationOption {
	return func(f *VerificationFlow) { f.now = now }
}

func WithVerificationLogger(l logging.Logger) VerificationOption {
	return func(f *VerificationFlow) { f.log = l }
}

// NewVerificationFlow starts a flow for a code that has just been sent to
// destination: the state is AwaitingInput and the window is running.
func NewVerificationFlow(c client.Client, store credentials.Store, destination string, opts ...VerificationOption) *VerificationFlow {
	f := &VerificationFlow{
		client:      c,
		store:       store,
		log:         logging.Nop(),
		destination: strings.TrimSpace(destination),
		window:      DefaultOTPWindow,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.log = f.log.With("flow", "otp")
	f.deadline = f.now().Add(f.window)
	return f
}

func (f *VerificationFlow) Destination() string { return f.destination }

func (f *VerificationFlow) State() VerificationState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Code returns the partially entered code.
func (f *VerificationFlow) Code() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.code
}

// Remaining is the time left before Resend becomes available.
func (f *VerificationFlow) Remaining() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.remaining()
}

func (f *VerificationFlow) remaining() time.Duration {
	return max(f.deadline.Sub(f.now()), 0)
}

func (f *VerificationFlow) CanResend() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.canResend()
}

func (f *VerificationFlow) canResend() bool {
	return f.state != Verified && !f.busy && f.remaining() == 0
}

// Enter records partial input. It is ignored outside AwaitingInput.
func (f *VerificationFlow) Enter(code string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == AwaitingInput && !f.busy {
		f.code = normalizeCode(code)
	}
}

func normalizeCode(code string) string {
	return strings.Join(strings.Fields(code), "")
}

func validCode(code string) bool {
	if len(code) != otpLength {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Verify submits code, or the entered code when code is empty. A rejection
// by the server moves the flow to Rejected; transport failures return it to
// AwaitingInput. On success the issued access token, if any, is stored.
func (f *VerificationFlow) Verify(ctx context.Context, code string) error {
	f.mu.Lock()
	if err := f.checkVerify(); err != nil {
		f.mu.Unlock()
		return err
	}
	if code == "" {
		code = f.code
	}
	code = normalizeCode(code)
	if !validCode(code) {
		f.mu.Unlock()
		return ErrInvalidCode
	}
	f.code = code
	f.state = Submitted
	f.busy = true
	f.mu.Unlock()

	resp, err := f.client.VerifyOTP(ctx, models.VerifyOTPRequest{
		Destination: f.destination,
		IsEmail:     strings.Contains(f.destination, "@"),
		Code:        code,
	})

	f.mu.Lock()
	defer f.mu.Unlock()
	f.busy = false

	if err != nil {
		if errors.Is(err, common.ErrValidation) || errors.Is(err, common.ErrAuth) {
			f.state = Rejected
			f.log.Info(ctx, "code rejected", "error", err)
		} else {
			f.state = AwaitingInput
			f.log.Warn(ctx, "verification call failed", "error", err)
		}
		return err
	}

	f.state = Verified
	if resp.AccessToken == "" {
		f.log.Warn(ctx, "verification succeeded without access token")
		return nil
	}
	if err := f.store.Set(ctx, common.KeyAccessToken, resp.AccessToken); err != nil {
		f.log.Error(ctx, "failed to store access token", "error", err)
		return err
	}
	f.client.ResetCache()
	f.log.Info(ctx, "verified", "token", common.TokenPrefix(resp.AccessToken))
	return nil
}

func (f *VerificationFlow) checkVerify() error {
	if f.busy {
		return ErrVerificationPending
	}
	switch f.state {
	case Verified:
		return ErrAlreadyVerified
	case Rejected:
		return ErrResendRequired
	case Submitted:
		return ErrVerificationPending
	}
	return nil
}

// Resend asks for a new code once the window has expired. On success the
// window restarts, the entered code is cleared and the flow is back in
// AwaitingInput.
func (f *VerificationFlow) Resend(ctx context.Context) error {
	f.mu.Lock()
	switch {
	case f.busy:
		f.mu.Unlock()
		return ErrVerificationPending
	case f.state == Verified:
		f.mu.Unlock()
		return ErrAlreadyVerified
	case !f.canResend():
		f.mu.Unlock()
		return ErrResendUnavailable
	}
	f.busy = true
	f.mu.Unlock()

	err := f.client.ResendOTP(ctx, f.destination)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.busy = false
	if err != nil {
		f.log.Warn(ctx, "resend failed", "error", err)
		return err
	}

	f.state = AwaitingInput
	f.code = ""
	f.deadline = f.now().Add(f.window)
	f.log.Info(ctx, "code resent", "window", f.window)
	return nil
}
