package fakeapi

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/trackinventory/internal/client/models"
	"github.com/dmitrijs2005/trackinventory/internal/logging"
	"golang.org/x/crypto/bcrypt"
)

// Demo account seeded by New unless WithoutDemoUser is given.
const (
	DemoEmail    = "demo@example.com"
	DemoPassword = "demo-password"
)

const (
	defaultTokenTTL = time.Hour
	otpDigits       = 6
)

// Category ids offered by /services. Registering a business under
// CategoryVehicle switches it to the vehicle catalogue.
const (
	CategoryMobile  = "1"
	CategoryVehicle = "2"
)

type user struct {
	id         string
	firstName  string
	lastName   string
	email      string
	hash       []byte
	firstLogin bool
	service    models.ServiceType
	business   string
}

// Server holds the fake backend state. It is safe for concurrent use.
type Server struct {
	secret   []byte
	tokenTTL time.Duration
	log      logging.Logger
	now      func() time.Time

	mu       sync.Mutex
	nextID   int
	users    map[string]*user // by email
	otps     map[string]string
	products map[string][]models.Product
	vehicles map[string][]models.Vehicle
	listHits map[string]int
}

type Option func(*Server)

func WithSecret(secret []byte) Option {
	return func(s *Server) { s.secret = secret }
}

func WithTokenTTL(d time.Duration) Option {
	return func(s *Server) { s.tokenTTL = d }
}

func WithLogger(l logging.Logger) Option {
	return func(s *Server) { s.log = l }
}

// WithClock replaces time.Now for the days filter.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// WithProducts replaces the seeded products of one list type.
func WithProducts(listType string, items ...models.Product) Option {
	return func(s *Server) { s.products[listType] = items }
}

// WithVehicles replaces the seeded vehicles of one list type.
func WithVehicles(listType string, items ...models.Vehicle) Option {
	return func(s *Server) { s.vehicles[listType] = items }
}

func New(opts ...Option) (*Server, error) {
	s := &Server{
		tokenTTL: defaultTokenTTL,
		log:      logging.Nop(),
		now:      time.Now,
		users:    map[string]*user{},
		otps:     map[string]string{},
		products: map[string][]models.Product{},
		vehicles: map[string][]models.Vehicle{},
		listHits: map[string]int{},
	}
	s.seedCatalogue(time.Now())
	for _, opt := range opts {
		opt(s)
	}
	if len(s.secret) == 0 {
		s.secret = make([]byte, 32)
		if _, err := rand.Read(s.secret); err != nil {
			return nil, fmt.Errorf("failed to generate signing key: %w", err)
		}
	}
	if _, err := s.addUser(DemoEmail, DemoPassword, "Demo", "User"); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Server) addUser(email, password, first, last string) (*user, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	u := &user{
		id:         strconv.Itoa(s.nextID),
		firstName:  first,
		lastName:   last,
		email:      strings.ToLower(email),
		hash:       hash,
		firstLogin: true,
		service:    models.ServiceMobile,
	}
	s.users[u.email] = u
	return u, nil
}

func (s *Server) userByEmail(email string) (*user, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[strings.ToLower(strings.TrimSpace(email))]
	return u, ok
}

func (s *Server) userByID(id string) (*user, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.id == id {
			return u, true
		}
	}
	return nil, false
}

// OTP returns the code currently outstanding for destination, if any.
func (s *Server) OTP(destination string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	code, ok := s.otps[strings.ToLower(destination)]
	return code, ok
}

// ListCalls reports how many list requests were served for a path.
func (s *Server) ListCalls(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listHits[path]
}

func (s *Server) issueOTP(destination string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	code := fmt.Sprintf("%0*d", otpDigits, n.Int64())
	s.mu.Lock()
	s.otps[strings.ToLower(destination)] = code
	s.mu.Unlock()
	return code, nil
}

// consumeOTP checks and removes the code for destination.
func (s *Server) consumeOTP(destination, code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(destination)
	want, ok := s.otps[key]
	if !ok || want != code {
		return false
	}
	delete(s.otps, key)
	return true
}
