package fakeapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/trackinventory/internal/client/models"
	"github.com/dmitrijs2005/trackinventory/internal/common"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/crypto/bcrypt"
)

type ctxKey struct{}

type messageResponse struct {
	Message string `json:"message"`
}

type listRequest struct {
	Type string `json:"type"`
	Skip int    `json:"skip"`
	Take int    `json:"take"`
	Days *int   `json:"days,omitempty"`
}

type productList struct {
	Products   []models.Product `json:"products"`
	TotalCount int              `json:"totalCount"`
}

type vehicleList struct {
	Vehicles   []models.Vehicle `json:"vehicles"`
	TotalCount int              `json:"totalCount"`
}

var categories = []models.Category{
	{ID: CategoryMobile, Name: "Mobile shop"},
	{ID: CategoryVehicle, Name: "Vehicle dealer"},
}

// Handler returns the router serving every backend endpoint.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Post("/auth/login", s.login)
	r.Post("/auth/forgot", s.forgot)
	r.Post("/auth/otp/verify", s.verifyOTP)
	r.Post("/auth/otp/resend", s.resendOTP)
	r.Post("/auth/signup", s.signUp)

	r.Group(func(r chi.Router) {
		r.Use(s.requireToken)
		r.Post("/auth/reset", s.resetPassword)
		r.Post("/user/password", s.changePassword)
		r.Get("/user/details", s.userDetails)
		r.Post("/user/business", s.saveBusiness)
		r.Get("/services", s.services)
		r.Get("/items/stats", s.itemStats)
		r.Post("/items/list", s.itemList)
		r.Get("/items/{id}", s.item)
		r.Get("/vehicles/list", s.vehicleList)
		r.Get("/vehicles/{id}", s.vehicleByID)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageResponse{Message: msg})
}

func readJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return false
	}
	return true
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"request_id", r.Header.Get(common.RequestIDHeaderName),
			"took", time.Since(start),
		)
	})
}

func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok, ok := strings.CutPrefix(r.Header.Get(common.AuthorizationHeaderName), common.BearerPrefix)
		if !ok || tok == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		id, err := GetUserIDFromToken(tok, s.secret)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "session expired")
			return
		}
		u, ok := s.userByID(id)
		if !ok {
			writeError(w, http.StatusUnauthorized, "session expired")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, u)))
	})
}

func currentUser(r *http.Request) *user {
	u, _ := r.Context().Value(ctxKey{}).(*user)
	return u
}

func (s *Server) token(u *user) (string, error) {
	s.mu.Lock()
	first := "False"
	if u.firstLogin {
		first = "True"
	}
	s.mu.Unlock()
	return GenerateToken(u.id, first, s.secret, s.tokenTTL)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !readJSON(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}
	u, ok := s.userByEmail(req.Email)
	if !ok || !s.checkPassword(u, req.Password) {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	tok, err := s.token(u)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}
	userToken, err := common.MakeRandHexString(16)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}
	s.mu.Lock()
	u.firstLogin = false
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"accessToken": tok,
		"userToken":   userToken,
		"userId":      u.id,
	})
}

func (s *Server) forgot(w http.ResponseWriter, r *http.Request) {
	var req models.ForgotPasswordRequest
	if !readJSON(w, r, &req) {
		return
	}
	if _, ok := s.userByEmail(req.Destination); !ok {
		writeJSON(w, http.StatusOK, false)
		return
	}
	if _, err := s.issueOTP(req.Destination); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to issue code")
		return
	}
	writeJSON(w, http.StatusOK, true)
}

func (s *Server) verifyOTP(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyOTPRequest
	if !readJSON(w, r, &req) {
		return
	}
	if !s.consumeOTP(req.Destination, req.Code) {
		writeError(w, http.StatusBadRequest, "Invalid OTP")
		return
	}
	u, ok := s.userByEmail(req.Destination)
	if !ok {
		writeJSON(w, http.StatusOK, messageResponse{Message: "verified"})
		return
	}
	tok, err := s.token(u)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}
	writeJSON(w, http.StatusOK, models.VerifyOTPResponse{AccessToken: tok, Message: "verified"})
}

func (s *Server) resendOTP(w http.ResponseWriter, r *http.Request) {
	var req models.ResendOTPRequest
	if !readJSON(w, r, &req) {
		return
	}
	if _, ok := s.userByEmail(req.Destination); !ok {
		writeError(w, http.StatusBadRequest, "unknown destination")
		return
	}
	if _, err := s.issueOTP(req.Destination); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to issue code")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "code sent"})
}

func (s *Server) signUp(w http.ResponseWriter, r *http.Request) {
	var req models.SignUpRequest
	if !readJSON(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}
	if _, ok := s.userByEmail(req.Email); ok {
		writeError(w, http.StatusBadRequest, "email already registered")
		return
	}
	if _, err := s.addUser(req.Email, req.Password, req.FirstName, req.LastName); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if _, err := s.issueOTP(req.Email); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to issue code")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "verification code sent"})
}

func (s *Server) checkPassword(u *user, password string) bool {
	s.mu.Lock()
	hash := u.hash
	s.mu.Unlock()
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}

func (s *Server) setPassword(u *user, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return err
	}
	s.mu.Lock()
	u.hash = hash
	s.mu.Unlock()
	return nil
}

func (s *Server) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest
	if !readJSON(w, r, &req) {
		return
	}
	if req.Password == "" {
		writeError(w, http.StatusBadRequest, "password is required")
		return
	}
	if err := s.setPassword(currentUser(r), req.Password); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "password reset"})
}

func (s *Server) changePassword(w http.ResponseWriter, r *http.Request) {
	var req models.ChangePasswordRequest
	if !readJSON(w, r, &req) {
		return
	}
	u := currentUser(r)
	if !s.checkPassword(u, req.Password) {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if req.NewPassword == "" {
		writeError(w, http.StatusBadRequest, "new password is required")
		return
	}
	if err := s.setPassword(u, req.NewPassword); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "password changed"})
}

func (s *Server) userDetails(w http.ResponseWriter, r *http.Request) {
	u := currentUser(r)
	s.mu.Lock()
	d := models.UserDetails{
		ID:           models.Flex(u.id),
		FirstName:    u.firstName,
		LastName:     u.lastName,
		Email:        u.email,
		BusinessName: u.business,
		ServiceName:  string(u.service),
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) saveBusiness(w http.ResponseWriter, r *http.Request) {
	var req models.BusinessDetails
	if !readJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "business name is required")
		return
	}
	service := models.ServiceMobile
	if req.CategoryID.String() == CategoryVehicle {
		service = models.ServiceVehicle
	}
	u := currentUser(r)
	s.mu.Lock()
	u.business = req.Name
	u.service = service
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, models.BusinessDetailsResponse{ServiceName: string(service), Message: "saved"})
}

func (s *Server) services(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, categories)
}

func (s *Server) itemStats(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Cache-Control", "private, max-age=60")
	writeJSON(w, http.StatusOK, s.stats())
}

func (s *Server) countList(path string) {
	s.mu.Lock()
	s.listHits[path]++
	s.mu.Unlock()
}

func (s *Server) itemList(w http.ResponseWriter, r *http.Request) {
	var req listRequest
	if !readJSON(w, r, &req) {
		return
	}
	if req.Take <= 0 {
		writeError(w, http.StatusBadRequest, "take must be positive")
		return
	}
	s.countList(r.URL.Path)
	items, total := s.listProducts(req.Type, req.Skip, req.Take, req.Days)
	writeJSON(w, http.StatusOK, productList{Products: items, TotalCount: total})
}

func intParam(r *http.Request, name string) (int, bool, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(v)
	return n, true, err
}

func (s *Server) vehicleList(w http.ResponseWriter, r *http.Request) {
	skip, _, err := intParam(r, "skip")
	if err != nil {
		writeError(w, http.StatusBadRequest, "skip must be a number")
		return
	}
	take, _, err := intParam(r, "take")
	if err != nil || take <= 0 {
		writeError(w, http.StatusBadRequest, "take must be positive")
		return
	}
	var days *int
	if d, ok, err := intParam(r, "days"); err != nil {
		writeError(w, http.StatusBadRequest, "days must be a number")
		return
	} else if ok {
		days = &d
	}
	s.countList(r.URL.Path)
	items, total := s.listVehicles(r.URL.Query().Get("type"), skip, take, days)
	writeJSON(w, http.StatusOK, vehicleList{Vehicles: items, TotalCount: total})
}

func (s *Server) item(w http.ResponseWriter, r *http.Request) {
	p, ok := s.product(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) vehicleByID(w http.ResponseWriter, r *http.Request) {
	v, ok := s.vehicle(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "vehicle not found")
		return
	}
	writeJSON(w, http.StatusOK, v)
}
