package services

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/trackinventory/internal/client/client"
	"github.com/dmitrijs2005/trackinventory/internal/client/credentials"
	"github.com/dmitrijs2005/trackinventory/internal/client/models"
	"github.com/dmitrijs2005/trackinventory/internal/common"
)

// ---- fake client ----

// fakeClient implements client.Client for service unit tests. Each field
// named *Fn overrides one call; unset calls succeed with zero values.
type fakeClient struct {
	mu    sync.Mutex
	calls map[string]int

	LoginFn     func(n int, req models.LoginRequest) (*models.LoginResponse, error)
	VerifyFn    func(req models.VerifyOTPRequest) (*models.VerifyOTPResponse, error)
	ResendErr   error
	ForgotErr   error
	SignUpErr   error
	ResetErr    error
	ChangeErr   error
	DoFn        func(req client.Request, out any) error
	UserRet     *models.UserDetails
	BusinessRet *models.BusinessDetailsResponse
	BusinessErr error
	Cats        []models.Category
	StatsRet    models.Stats
	ProductRet  *models.Product
	VehicleRet  *models.Vehicle

	LastLogin    models.LoginRequest
	LastVerify   models.VerifyOTPRequest
	LastSignUp   models.SignUpRequest
	LastBusiness models.BusinessDetails
	LastChange   [2]string
	CacheResets  int
}

var _ client.Client = (*fakeClient)(nil)

func (f *fakeClient) hit(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[name]++
	return f.calls[name]
}

func (f *fakeClient) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeClient) Do(_ context.Context, req client.Request, out any) error {
	f.hit("Do")
	if f.DoFn != nil {
		return f.DoFn(req, out)
	}
	return nil
}

func (f *fakeClient) Login(_ context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	n := f.hit("Login")
	f.mu.Lock()
	f.LastLogin = req
	f.mu.Unlock()
	if f.LoginFn != nil {
		return f.LoginFn(n, req)
	}
	return &models.LoginResponse{}, nil
}

func (f *fakeClient) ForgotPassword(context.Context, string) error {
	f.hit("ForgotPassword")
	return f.ForgotErr
}

func (f *fakeClient) VerifyOTP(_ context.Context, req models.VerifyOTPRequest) (*models.VerifyOTPResponse, error) {
	f.hit("VerifyOTP")
	f.mu.Lock()
	f.LastVerify = req
	f.mu.Unlock()
	if f.VerifyFn != nil {
		return f.VerifyFn(req)
	}
	return &models.VerifyOTPResponse{}, nil
}

func (f *fakeClient) ResendOTP(context.Context, string) error {
	f.hit("ResendOTP")
	return f.ResendErr
}

func (f *fakeClient) SignUp(_ context.Context, req models.SignUpRequest) error {
	f.hit("SignUp")
	f.LastSignUp = req
	return f.SignUpErr
}

func (f *fakeClient) ResetPassword(context.Context, string) error {
	f.hit("ResetPassword")
	return f.ResetErr
}

func (f *fakeClient) ChangePassword(_ context.Context, oldPassword, newPassword string) error {
	f.hit("ChangePassword")
	f.LastChange = [2]string{oldPassword, newPassword}
	return f.ChangeErr
}

func (f *fakeClient) UserDetails(context.Context) (*models.UserDetails, error) {
	f.hit("UserDetails")
	if f.UserRet == nil {
		return nil, &client.APIError{Kind: common.ErrServer, Status: 500}
	}
	return f.UserRet, nil
}

func (f *fakeClient) SaveBusinessDetails(_ context.Context, d models.BusinessDetails) (*models.BusinessDetailsResponse, error) {
	f.hit("SaveBusinessDetails")
	f.LastBusiness = d
	if f.BusinessErr != nil {
		return nil, f.BusinessErr
	}
	if f.BusinessRet == nil {
		return &models.BusinessDetailsResponse{}, nil
	}
	return f.BusinessRet, nil
}

func (f *fakeClient) Categories(context.Context) ([]models.Category, error) {
	f.hit("Categories")
	return f.Cats, nil
}

func (f *fakeClient) ProductStats(context.Context) (models.Stats, error) {
	f.hit("ProductStats")
	return f.StatsRet, nil
}

func (f *fakeClient) Product(context.Context, string) (*models.Product, error) {
	f.hit("Product")
	return f.ProductRet, nil
}

func (f *fakeClient) Vehicle(context.Context, string) (*models.Vehicle, error) {
	f.hit("Vehicle")
	if f.VehicleRet == nil {
		return nil, &client.APIError{Kind: common.ErrServer, Status: 404}
	}
	cp := *f.VehicleRet
	return &cp, nil
}

func (f *fakeClient) ResetCache() {
	f.mu.Lock()
	f.CacheResets++
	f.mu.Unlock()
}

// ---- fake stores ----

// brokenStore fails Set and Delete for the listed keys.
type brokenStore struct {
	credentials.Store
	fail map[string]bool
}

var errLocked = errors.New("keychain locked")

func (b *brokenStore) Set(ctx context.Context, key, value string) error {
	if b.fail[key] {
		return errors.Join(common.ErrStorage, errLocked)
	}
	return b.Store.Set(ctx, key, value)
}

func (b *brokenStore) Delete(ctx context.Context, key string) error {
	if b.fail[key] {
		return errors.Join(common.ErrStorage, errLocked)
	}
	return b.Store.Delete(ctx, key)
}
