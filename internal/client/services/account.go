package services

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/dmitrijs2005/trackinventory/internal/client/client"
	"github.com/dmitrijs2005/trackinventory/internal/client/credentials"
	"github.com/dmitrijs2005/trackinventory/internal/client/models"
	"github.com/dmitrijs2005/trackinventory/internal/common"
	"github.com/dmitrijs2005/trackinventory/internal/logging"
)

// AccountService covers onboarding and profile reads.
type AccountService interface {
	// SaveBusinessDetails registers the business and persists the service
	// type the backend assigned to it.
	SaveBusinessDetails(ctx context.Context, d models.BusinessDetails) (models.ServiceType, error)
	// UserDetails fetches the profile and caches it in the store.
	UserDetails(ctx context.Context) (*models.UserDetails, error)
	Categories(ctx context.Context) ([]models.Category, error)
}

type accountService struct {
	client client.Client
	store  credentials.Store
	log    logging.Logger
}

func NewAccountService(c client.Client, store credentials.Store, log logging.Logger) AccountService {
	return &accountService{client: c, store: store, log: log.With("service", "account")}
}

func (a *accountService) SaveBusinessDetails(ctx context.Context, d models.BusinessDetails) (models.ServiceType, error) {
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return "", &client.APIError{Kind: common.ErrValidation, Message: "business name is required"}
	}

	resp, err := a.client.SaveBusinessDetails(ctx, d)
	if err != nil {
		return "", err
	}

	st := models.ParseServiceType(resp.ServiceName)
	if err := a.store.Set(ctx, common.KeyServiceName, string(st)); err != nil {
		return "", err
	}
	a.cacheJSON(ctx, common.KeyBusinessDetails, d)

	a.log.Info(ctx, "business details saved", "service", string(st))
	return st, nil
}

func (a *accountService) UserDetails(ctx context.Context) (*models.UserDetails, error) {
	u, err := a.client.UserDetails(ctx)
	if err != nil {
		return nil, err
	}
	a.cacheJSON(ctx, common.KeyUserDetails, u)
	return u, nil
}

func (a *accountService) Categories(ctx context.Context) ([]models.Category, error) {
	return a.client.Categories(ctx)
}

// cacheJSON stores v under key. Failures are logged only.
func (a *accountService) cacheJSON(ctx context.Context, key string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		a.log.Warn(ctx, "failed to encode cached value", "key", key, "error", err)
		return
	}
	if err := a.store.Set(ctx, key, string(b)); err != nil {
		a.log.Warn(ctx, "failed to cache value", "key", key, "error", err)
	}
}

// ResolveServiceType reads the stored service type once at session start.
// A missing value means Mobile.
func ResolveServiceType(ctx context.Context, store credentials.Store) models.ServiceType {
	v, _ := store.Get(ctx, common.KeyServiceName)
	return models.ParseServiceType(v)
}
