package services

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/trackinventory/internal/client/client"
	"github.com/dmitrijs2005/trackinventory/internal/client/credentials"
	"github.com/dmitrijs2005/trackinventory/internal/client/models"
	"github.com/dmitrijs2005/trackinventory/internal/common"
	"github.com/dmitrijs2005/trackinventory/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newFlow(c *fakeClient, store credentials.Store) (*VerificationFlow, *fakeClock, *bytes.Buffer) {
	clk := &fakeClock{now: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	var buf bytes.Buffer
	f := NewVerificationFlow(c, store, " ann@example.com ",
		WithClock(clk.Now),
		WithVerificationLogger(logging.New("debug", &buf)),
	)
	return f, clk, &buf
}

func TestVerificationState_String(t *testing.T) {
	assert.Equal(t, "awaiting input", AwaitingInput.String())
	assert.Equal(t, "submitted", Submitted.String())
	assert.Equal(t, "verified", Verified.String())
	assert.Equal(t, "rejected", Rejected.String())
	assert.Equal(t, "unknown", VerificationState(99).String())
}

func TestVerify_StoresToken(t *testing.T) {
	ctx := context.Background()
	c := &fakeClient{VerifyFn: func(models.VerifyOTPRequest) (*models.VerifyOTPResponse, error) {
		return &models.VerifyOTPResponse{AccessToken: "otp-token"}, nil
	}}
	store := credentials.NewMemoryStore(logging.Nop())
	f, _, _ := newFlow(c, store)

	require.Equal(t, AwaitingInput, f.State())
	f.Enter("12 34 56")
	assert.Equal(t, "123456", f.Code())

	require.NoError(t, f.Verify(ctx, ""))
	assert.Equal(t, Verified, f.State())
	assert.Equal(t, models.VerifyOTPRequest{Destination: "ann@example.com", IsEmail: true, Code: "123456"}, c.LastVerify)

	tok, ok := store.Get(ctx, common.KeyAccessToken)
	require.True(t, ok)
	assert.Equal(t, "otp-token", tok)
	assert.Equal(t, 1, c.CacheResets)

	assert.ErrorIs(t, f.Verify(ctx, "123456"), ErrAlreadyVerified)
	assert.ErrorIs(t, f.Resend(ctx), ErrAlreadyVerified)
	assert.Equal(t, 1, c.count("VerifyOTP"))
}

func TestVerify_PhoneDestination(t *testing.T) {
	c := &fakeClient{}
	f := NewVerificationFlow(c, credentials.NewMemoryStore(logging.Nop()), "+15550100")
	require.NoError(t, f.Verify(context.Background(), "000000"))
	assert.False(t, c.LastVerify.IsEmail)
}

func TestVerify_MissingTokenIsNotFatal(t *testing.T) {
	ctx := context.Background()
	store := credentials.NewMemoryStore(logging.Nop())
	c := &fakeClient{}
	f, _, buf := newFlow(c, store)

	require.NoError(t, f.Verify(ctx, "111111"))
	assert.Zero(t, c.CacheResets)
	assert.Equal(t, Verified, f.State())
	assert.Contains(t, buf.String(), "without access token")
	_, ok := store.Get(ctx, common.KeyAccessToken)
	assert.False(t, ok)
}

func TestVerify_InvalidCodeLeavesStateUnchanged(t *testing.T) {
	c := &fakeClient{}
	f, _, _ := newFlow(c, credentials.NewMemoryStore(logging.Nop()))

	for _, code := range []string{"", "123", "1234567", "12a456"} {
		assert.ErrorIs(t, f.Verify(context.Background(), code), ErrInvalidCode, code)
		assert.Equal(t, AwaitingInput, f.State())
	}
	assert.Zero(t, c.count("VerifyOTP"))
}

func TestVerify_RejectedRequiresResend(t *testing.T) {
	ctx := context.Background()
	c := &fakeClient{VerifyFn: func(models.VerifyOTPRequest) (*models.VerifyOTPResponse, error) {
		return nil, &client.APIError{Kind: common.ErrValidation, Status: 400, Message: "Invalid OTP"}
	}}
	f, clk, _ := newFlow(c, credentials.NewMemoryStore(logging.Nop()))
	f.Enter("123456")

	err := f.Verify(ctx, "")
	require.Error(t, err)
	assert.Equal(t, "Invalid OTP", err.Error())
	assert.Equal(t, Rejected, f.State())

	assert.ErrorIs(t, f.Verify(ctx, "654321"), ErrResendRequired)

	// the window is still running
	assert.False(t, f.CanResend())
	assert.ErrorIs(t, f.Resend(ctx), ErrResendUnavailable)

	clk.Advance(DefaultOTPWindow)
	assert.True(t, f.CanResend())
	require.NoError(t, f.Resend(ctx))
	assert.Equal(t, AwaitingInput, f.State())
	assert.Empty(t, f.Code())
	assert.Equal(t, DefaultOTPWindow, f.Remaining())

	c.VerifyFn = nil
	require.NoError(t, f.Verify(ctx, "654321"))
	assert.Equal(t, Verified, f.State())
}

func TestVerify_UnauthorizedIsRejection(t *testing.T) {
	c := &fakeClient{VerifyFn: func(models.VerifyOTPRequest) (*models.VerifyOTPResponse, error) {
		return nil, &client.APIError{Kind: common.ErrInvalidCredentials, Status: 401}
	}}
	f, _, _ := newFlow(c, credentials.NewMemoryStore(logging.Nop()))
	require.Error(t, f.Verify(context.Background(), "123456"))
	assert.Equal(t, Rejected, f.State())
}

func TestVerify_NetworkFailureAllowsRetry(t *testing.T) {
	c := &fakeClient{VerifyFn: func(models.VerifyOTPRequest) (*models.VerifyOTPResponse, error) {
		return nil, networkErr()
	}}
	f, _, _ := newFlow(c, credentials.NewMemoryStore(logging.Nop()))

	assert.ErrorIs(t, f.Verify(context.Background(), "123456"), common.ErrNetwork)
	assert.Equal(t, AwaitingInput, f.State())
	assert.Equal(t, "123456", f.Code())

	c.VerifyFn = nil
	require.NoError(t, f.Verify(context.Background(), ""))
}

func TestVerify_SecondCallWhileSubmitted(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	c := &fakeClient{VerifyFn: func(models.VerifyOTPRequest) (*models.VerifyOTPResponse, error) {
		close(started)
		<-release
		return &models.VerifyOTPResponse{AccessToken: "t"}, nil
	}}
	f, _, _ := newFlow(c, credentials.NewMemoryStore(logging.Nop()))

	done := make(chan error, 1)
	go func() { done <- f.Verify(context.Background(), "123456") }()
	<-started

	assert.Equal(t, Submitted, f.State())
	assert.ErrorIs(t, f.Verify(context.Background(), "123456"), ErrVerificationPending)
	assert.ErrorIs(t, f.Resend(context.Background()), ErrVerificationPending)
	f.Enter("999999")
	assert.Equal(t, "123456", f.Code())

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, c.count("VerifyOTP"))
}

func TestVerify_StorageFailureIsReported(t *testing.T) {
	c := &fakeClient{VerifyFn: func(models.VerifyOTPRequest) (*models.VerifyOTPResponse, error) {
		return &models.VerifyOTPResponse{AccessToken: "t"}, nil
	}}
	store := &brokenStore{Store: credentials.NewMemoryStore(logging.Nop()), fail: map[string]bool{common.KeyAccessToken: true}}
	f, _, _ := newFlow(c, store)

	assert.ErrorIs(t, f.Verify(context.Background(), "123456"), common.ErrStorage)
	assert.Equal(t, Verified, f.State())
}

func TestResend_Window(t *testing.T) {
	ctx := context.Background()
	c := &fakeClient{}
	f, clk, _ := newFlow(c, credentials.NewMemoryStore(logging.Nop()))

	assert.Equal(t, 120*time.Second, f.Remaining())
	clk.Advance(100 * time.Second)
	assert.Equal(t, 20*time.Second, f.Remaining())
	assert.ErrorIs(t, f.Resend(ctx), ErrResendUnavailable)
	assert.Zero(t, c.count("ResendOTP"))

	clk.Advance(30 * time.Second)
	assert.Zero(t, f.Remaining())
	f.Enter("12")
	require.NoError(t, f.Resend(ctx))
	assert.Empty(t, f.Code())
	assert.Equal(t, 120*time.Second, f.Remaining())
	assert.Equal(t, 1, c.count("ResendOTP"))
}

func TestResend_FailureKeepsWindowExpired(t *testing.T) {
	c := &fakeClient{ResendErr: networkErr()}
	f, clk, _ := newFlow(c, credentials.NewMemoryStore(logging.Nop()))
	clk.Advance(DefaultOTPWindow)

	assert.ErrorIs(t, f.Resend(context.Background()), common.ErrNetwork)
	assert.True(t, f.CanResend())
}

func TestWithOTPWindow(t *testing.T) {
	f := NewVerificationFlow(&fakeClient{}, credentials.NewMemoryStore(logging.Nop()), "a@b.c", WithOTPWindow(0))
	assert.True(t, f.CanResend())
	assert.Equal(t, "a@b.c", f.Destination())
}
