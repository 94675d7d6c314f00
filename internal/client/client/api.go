package client

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/trackinventory/internal/client/models"
	"github.com/dmitrijs2005/trackinventory/internal/common"
)

// Endpoint paths.
const (
	PathLogin          = "/auth/login"
	PathForgot         = "/auth/forgot"
	PathVerifyOTP      = "/auth/otp/verify"
	PathResendOTP      = "/auth/otp/resend"
	PathSignUp         = "/auth/signup"
	PathResetPassword  = "/auth/reset"
	PathChangePassword = "/user/password"
	PathUserDetails    = "/user/details"
	PathBusiness       = "/user/business"
	PathServices       = "/services"
	PathItemStats      = "/items/stats"
	PathItemList       = "/items/list"
	PathItems          = "/items/"
	PathVehicleList    = "/vehicles/list"
	PathVehicles       = "/vehicles/"
)

func (c *HTTPClient) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if req.Source == "" {
		req.Source = models.LoginSource
	}
	var resp models.LoginResponse
	err := c.Do(ctx, Request{
		Method:       http.MethodPost,
		Path:         PathLogin,
		Body:         req,
		Anonymous:    true,
		Unauthorized: common.ErrInvalidCredentials,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ForgotPassword asks the backend to send a reset code. The endpoint answers
// with a bare JSON boolean; false means the destination was refused.
func (c *HTTPClient) ForgotPassword(ctx context.Context, destination string) error {
	var ok bool
	err := c.Do(ctx, Request{
		Method:    http.MethodPost,
		Path:      PathForgot,
		Body:      models.ForgotPasswordRequest{Destination: destination, Type: models.ForgotPasswordType},
		Anonymous: true,
	}, &ok)
	if err != nil {
		return err
	}
	if !ok {
		return &APIError{Kind: common.ErrValidation, Status: http.StatusOK, Message: "failed to send reset code"}
	}
	return nil
}

func (c *HTTPClient) VerifyOTP(ctx context.Context, req models.VerifyOTPRequest) (*models.VerifyOTPResponse, error) {
	var resp models.VerifyOTPResponse
	err := c.Do(ctx, Request{
		Method:       http.MethodPost,
		Path:         PathVerifyOTP,
		Body:         req,
		Anonymous:    true,
		Unauthorized: common.ErrInvalidCredentials,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) ResendOTP(ctx context.Context, destination string) error {
	return c.Do(ctx, Request{
		Method:    http.MethodPost,
		Path:      PathResendOTP,
		Body:      models.ResendOTPRequest{Destination: destination},
		Anonymous: true,
	}, nil)
}

func (c *HTTPClient) SignUp(ctx context.Context, req models.SignUpRequest) error {
	if req.ID == "" {
		req.ID = models.NewRecordID
	}
	return c.Do(ctx, Request{
		Method:    http.MethodPost,
		Path:      PathSignUp,
		Body:      req,
		Anonymous: true,
	}, nil)
}

// ResetPassword uses the token issued by OTP verification.
func (c *HTTPClient) ResetPassword(ctx context.Context, password string) error {
	return c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   PathResetPassword,
		Body:   models.ResetPasswordRequest{Password: password},
	}, nil)
}

func (c *HTTPClient) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	return c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   PathChangePassword,
		Body:   models.ChangePasswordRequest{Password: oldPassword, NewPassword: newPassword},
		// the old password is what is being checked here
		Unauthorized: common.ErrInvalidCredentials,
	}, nil)
}

func (c *HTTPClient) UserDetails(ctx context.Context) (*models.UserDetails, error) {
	var resp models.UserDetails
	if err := c.Do(ctx, Request{Method: http.MethodGet, Path: PathUserDetails}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) SaveBusinessDetails(ctx context.Context, d models.BusinessDetails) (*models.BusinessDetailsResponse, error) {
	if d.ID == "" {
		d.ID = models.NewRecordID
	}
	var resp models.BusinessDetailsResponse
	if err := c.Do(ctx, Request{Method: http.MethodPost, Path: PathBusiness, Body: d}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) Categories(ctx context.Context) ([]models.Category, error) {
	var resp []models.Category
	if err := c.Do(ctx, Request{Method: http.MethodGet, Path: PathServices}, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *HTTPClient) ProductStats(ctx context.Context) (models.Stats, error) {
	resp := models.Stats{}
	if err := c.Do(ctx, Request{Method: http.MethodGet, Path: PathItemStats}, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *HTTPClient) Product(ctx context.Context, id string) (*models.Product, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	var resp models.Product
	if err := c.Do(ctx, Request{Method: http.MethodGet, Path: PathItems + url.PathEscape(id)}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) Vehicle(ctx context.Context, id string) (*models.Vehicle, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	var resp models.Vehicle
	if err := c.Do(ctx, Request{Method: http.MethodGet, Path: PathVehicles + url.PathEscape(id)}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func checkID(id string) error {
	if strings.TrimSpace(id) == "" {
		return &APIError{Kind: common.ErrValidation, Message: "id is required"}
	}
	return nil
}
