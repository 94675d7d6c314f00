package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/trackinventory/internal/client/models"
	"github.com/dmitrijs2005/trackinventory/internal/client/services"
	"github.com/dmitrijs2005/trackinventory/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

var errNoVerification = errors.New("no verification in progress, use forgot or signup first")

// readSecret prompts for a password and returns it as a string; the raw
// bytes are wiped.
func (a *App) readSecret(prompt string) (string, error) {
	pw, err := getPassword(prompt, a.out)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(pw)
	return string(pw), nil
}

// Login prompts for credentials, authenticates with retry and starts a
// session for the stored service type.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := a.readSecret("Enter password")
	if err != nil {
		return err
	}

	s, err := a.auth.Login(ctx, email, password)
	if err != nil {
		return err
	}

	a.userName = email
	a.startSession(ctx)
	if s.IsFirstLogin() {
		fmt.Fprintln(a.out, "Welcome! This is your first login.")
	} else {
		fmt.Fprintln(a.out, "Login successful")
	}
	return nil
}

// SignUp creates an account and starts verification of the email address.
func (a *App) SignUp(ctx context.Context) error {
	first, err := getSimpleText(a.reader, "First name", a.out)
	if err != nil {
		return err
	}
	last, err := getSimpleText(a.reader, "Last name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := a.readSecret("Choose password")
	if err != nil {
		return err
	}

	if err := a.auth.SignUp(ctx, models.SignUpRequest{FirstName: first, LastName: last, Email: email, Password: password}); err != nil {
		return err
	}
	a.startVerification(email)
	fmt.Fprintln(a.out, "Account created. Enter the code sent to", email, "with: verify <code>")
	return nil
}

// Forgot requests a reset code and starts verification.
func (a *App) Forgot(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	if err := a.auth.ForgotPassword(ctx, email); err != nil {
		return err
	}
	a.startVerification(email)
	fmt.Fprintln(a.out, "Code sent to", email, "- enter it with: verify <code>")
	return nil
}

func (a *App) startVerification(destination string) {
	a.flow = services.NewVerificationFlow(a.api, a.store, destination,
		services.WithOTPWindow(a.config.OTPWindow),
		services.WithVerificationLogger(a.log),
	)
}

// Verify submits code, prompting for it when empty.
func (a *App) Verify(ctx context.Context, code string) error {
	if a.flow == nil {
		return errNoVerification
	}
	if code == "" {
		var err error
		code, err = getSimpleText(a.reader, "Enter the 6-digit code", a.out)
		if err != nil {
			return err
		}
	}

	err := a.flow.Verify(ctx, code)
	switch {
	case err == nil:
		fmt.Fprintln(a.out, "Verified")
		return nil
	case a.flow.State() == services.Rejected:
		fmt.Fprintf(a.out, "Code rejected; resend available in %s\n", a.flow.Remaining().Round(time.Second))
	}
	return err
}

func (a *App) Resend(ctx context.Context) error {
	if a.flow == nil {
		return errNoVerification
	}
	if err := a.flow.Resend(ctx); err != nil {
		if errors.Is(err, services.ErrResendUnavailable) {
			return fmt.Errorf("%w: wait %s", err, a.flow.Remaining().Round(time.Second))
		}
		return err
	}
	fmt.Fprintln(a.out, "A new code was sent to", a.flow.Destination())
	return nil
}

// Reset sets a new password with the token issued by verification.
func (a *App) Reset(ctx context.Context) error {
	if a.flow == nil || a.flow.State() != services.Verified {
		return errors.New("verify the reset code first")
	}
	password, err := a.readSecret("New password")
	if err != nil {
		return err
	}
	if err := a.auth.ResetPassword(ctx, password); err != nil {
		return err
	}
	a.flow = nil
	// the reset token is not a session
	a.auth.Logout(ctx)
	fmt.Fprintln(a.out, "Password changed, please log in")
	return nil
}

func (a *App) ChangePassword(ctx context.Context) error {
	oldPassword, err := a.readSecret("Current password")
	if err != nil {
		return err
	}
	newPassword, err := a.readSecret("New password")
	if err != nil {
		return err
	}
	if err := a.auth.ChangePassword(ctx, oldPassword, newPassword); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Password changed")
	return nil
}

// Logout erases the session. Keys that could not be removed are reported
// but do not fail the command.
func (a *App) Logout(ctx context.Context) error {
	failed := a.auth.Logout(ctx)
	a.endSession()
	if len(failed) > 0 {
		fmt.Fprintln(a.out, "Logged out; could not remove:", failed)
		return nil
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
