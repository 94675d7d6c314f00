// Package cli provides the interactive trackinventory command-line client.
//
// It wires configuration, the credential store, the HTTP API client and the
// application services into a small REPL. Typical flow: log in (or go
// through forgot/verify/reset), browse purchases, sales or inventory page by
// page, and log out.
//
// Key features:
//   - Login / Logout with bounded retry and best-effort credential cleanup
//   - Password reset through a one-time code (forgot, verify, resend, reset)
//   - Paginated lists with "more", "refresh" and a "days" window
//   - Dashboard stats and profile
//
// The REPL is started via App.Run(ctx, in), which blocks until the user
// exits. See App and runREPL for details.
package cli
