package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/trackinventory/internal/client/client"
	"github.com/dmitrijs2005/trackinventory/internal/client/config"
	"github.com/dmitrijs2005/trackinventory/internal/client/credentials"
	"github.com/dmitrijs2005/trackinventory/internal/client/models"
	"github.com/dmitrijs2005/trackinventory/internal/client/pagination"
	"github.com/dmitrijs2005/trackinventory/internal/client/services"
	"github.com/dmitrijs2005/trackinventory/internal/logging"
)

type App struct {
	config  *config.Config
	log     logging.Logger
	store   credentials.Backend
	api     client.Client
	auth    services.AuthService
	account services.AccountService
	// inventory is built once per session, after the service type is known.
	inventory services.InventoryService
	flow      *services.VerificationFlow

	current     *pagination.Fetcher[models.Item]
	currentName string
	userName    string

	reader *bufio.Reader
	out    io.Writer
}

// NewApp opens the credential store and an HTTP client for c.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	store, err := credentials.Open(ctx, c.StoreBackend, c.DataDir, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open credential store: %w", err)
	}

	opts := []client.Option{client.WithTimeout(c.RequestTimeout), client.WithLogger(log)}
	if c.ResponseCache {
		opts = append(opts, client.WithResponseCache(client.NewSessionCache()))
	}
	api, err := client.NewHTTPClient(c.ServerURL, store, opts...)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return newApp(ctx, c, store, api, log), nil
}

func newApp(ctx context.Context, c *config.Config, store credentials.Backend, api client.Client, log logging.Logger) *App {
	a := &App{
		config:  c,
		log:     log,
		store:   store,
		api:     api,
		auth:    services.NewAuthService(api, store, services.LoginPolicy{MaxAttempts: c.LoginAttempts, BaseDelay: c.LoginBaseDelay}, log),
		account: services.NewAccountService(api, store, log),
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}
	if a.auth.IsAuthenticated(ctx) {
		a.startSession(ctx)
	}
	return a
}

// startSession resolves the service type and builds the list fetchers.
func (a *App) startSession(ctx context.Context) {
	st := services.ResolveServiceType(ctx, a.store)
	a.inventory = services.NewInventoryService(a.api, services.InventoryConfig{
		ServiceType:     st,
		PageSize:        a.config.PageSize,
		VehiclePageSize: a.config.VehiclePageSize,
	}, a.log)
	a.current, a.currentName = nil, ""
}

func (a *App) endSession() {
	a.inventory = nil
	a.current, a.currentName = nil, ""
	a.userName = ""
}

// Run starts the REPL on in and closes the store when it returns.
func (a *App) Run(ctx context.Context, in io.Reader) error {
	defer func() {
		if err := a.store.Close(); err != nil {
			a.log.Error(ctx, "failed to close credential store", "error", err)
		}
	}()

	printlnFn("Welcome to trackinventory CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, bufio.NewScanner(in))
	return nil
}

func (a *App) isLoggedIn() bool {
	return a.inventory != nil
}

func (a *App) getStatus() string {
	s := ""
	if a.userName != "" {
		s = a.userName + " "
	}
	if a.inventory != nil {
		s += string(a.inventory.ServiceType())
	}
	if a.currentName != "" {
		s += "/" + a.currentName
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}
