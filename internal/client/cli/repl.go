package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	SignUp(ctx context.Context) error
	Forgot(ctx context.Context) error
	Verify(ctx context.Context, code string) error
	Resend(ctx context.Context) error
	Reset(ctx context.Context) error
	ChangePassword(ctx context.Context) error
	List(ctx context.Context, list string) error
	More(ctx context.Context) error
	Refresh(ctx context.Context) error
	Days(ctx context.Context, arg string) error
	Show(ctx context.Context, id string) error
	Stats(ctx context.Context) error
	Profile(ctx context.Context) error
	Business(ctx context.Context) error
	Logout(ctx context.Context) error
}

const (
	helpLoggedOut = "Available commands: login, signup, forgot, verify [code], resend, reset, exit"
	helpLoggedIn  = "Available commands: purchases, sales, inventory, more, refresh, days <n|all>, show <id>, stats, profile, business, passwd, logout, exit"
)

// runREPL starts a simple read–eval–print loop for the trackinventory CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help            - show available commands
//	  - login           - authenticate
//	  - signup          - create an account, then verify the emailed code
//	  - forgot          - request a password reset code
//	  - verify [code]   - submit the code (prompts when omitted)
//	  - resend          - request a new code once the window has passed
//	  - reset           - set a new password after verification
//	  - exit | quit     - leave the program
//
//	Logged in:
//	  - purchases | sales | inventory - show the first page of a list
//	  - more            - load the next page of the current list
//	  - refresh         - reload the current list
//	  - days <n|all>    - restrict the current list to the last n days
//	  - show <id>       - details of one product or vehicle
//	  - stats           - dashboard counters
//	  - profile         - user details
//	  - business        - register business details and pick the catalogue
//	  - passwd          - change password
//	  - logout          - log out
//
// Errors returned by command handlers are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("ti %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]
		arg := ""
		if len(args) > 0 {
			arg = args[0]
		}

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}

		case "login":
			err = a.Login(ctx)
		case "signup":
			err = a.SignUp(ctx)
		case "forgot":
			err = a.Forgot(ctx)
		case "verify":
			err = a.Verify(ctx, strings.Join(args, ""))
		case "resend":
			err = a.Resend(ctx)
		case "reset":
			err = a.Reset(ctx)
		case "passwd":
			err = a.ChangePassword(ctx)

		case "purchases", "sales", "inventory":
			err = a.List(ctx, cmd)
		case "more":
			err = a.More(ctx)
		case "refresh":
			err = a.Refresh(ctx)
		case "days":
			if arg == "" {
				printlnFn("Usage: days <n|all>")
				continue
			}
			err = a.Days(ctx, arg)
		case "show":
			if arg == "" {
				printlnFn("Usage: show <id>")
				continue
			}
			err = a.Show(ctx, arg)
		case "stats":
			err = a.Stats(ctx)
		case "profile":
			err = a.Profile(ctx)
		case "business":
			err = a.Business(ctx)

		case "logout":
			err = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err)
		}
	}
}
