package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"mini_one/internal/api"
	"mini_one/internal/app/service"
	"mini_one/internal/common/security"
	"mini_one/internal/platform/config"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"golang.org/x/crypto/bcrypt"
)

const TestCookieName = "mini_one_token"

// TestConfig returns a configuration suitable for testing
func TestConfig() *config.Config {
	return &config.Config{
		APIPort:         "0",
		Env:             config.EnvTest,
		JWTKey:          []byte("test-jwt-secret-key-for-testing-only"),
		JWTExp:          7 * 24 * time.Hour,
		CookieName:      TestCookieName,
		BcryptCost:      bcrypt.MinCost, // below MinBcryptCost; tests skip Load/validate
		RateLimitMax:    10000,
		RateLimitWindow: 15 * time.Minute,
		LogLevel:        "debug",
	}
}

// Services bundles the services wired to in-memory repositories.
type Services struct {
	Config   *config.Config
	Users    *MemoryUserRepository
	Messages *MemoryMessageRepository
	Tokens   *security.TokenCodec
	Accounts *service.AccountService
	Board    *service.MessageService
	Log      *logrus.Logger
	LogHook  *test.Hook
}

func NewServices(t *testing.T, cfg *config.Config) *Services {
	t.Helper()

	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	hasher, err := security.NewHasher(cfg.BcryptCost)
	if err != nil {
		t.Fatalf("failed to create hasher: %v", err)
	}
	tokens := security.NewTokenCodec(cfg.JWTKey, cfg.JWTExp)

	users := NewMemoryUserRepository()
	messages := NewMemoryMessageRepository(users)

	return &Services{
		Config:   cfg,
		Users:    users,
		Messages: messages,
		Tokens:   tokens,
		Accounts: service.NewAccountService(users, tokens, hasher, log),
		Board:    service.NewMessageService(messages, log),
		Log:      log,
		LogHook:  hook,
	}
}

// MemoryCounter is an in-process HitCounter. Windows never expire.
type MemoryCounter struct {
	mu   sync.Mutex
	hits map[string]int64
	Err  error
}

func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{hits: make(map[string]int64)}
}

func (c *MemoryCounter) Hit(ctx context.Context, key string, window time.Duration) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return 0, c.Err
	}
	c.hits[key]++
	return c.hits[key], nil
}

// TestServer holds all components for integration testing
type TestServer struct {
	*Services
	Server  *httptest.Server
	Counter *MemoryCounter
}

// NewTestServer serves the full router over in-memory stores.
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()
	return NewTestServerWithConfig(t, TestConfig())
}

func NewTestServerWithConfig(t *testing.T, cfg *config.Config) *TestServer {
	t.Helper()

	services := NewServices(t, cfg)
	counter := NewMemoryCounter()
	router := api.NewRouter(api.Dependencies{
		Config:         cfg,
		Log:            services.Log,
		Tokens:         services.Tokens,
		AccountService: services.Accounts,
		MessageService: services.Board,
		RateCounter:    counter,
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &TestServer{Services: services, Server: server, Counter: counter}
}

// RequestOption decorates an outgoing test request.
type RequestOption func(*http.Request)

func WithCookie(token string) RequestOption {
	return func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: TestCookieName, Value: token})
	}
}

func WithBearer(token string) RequestOption {
	return func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	}
}

func WithHeader(key, value string) RequestOption {
	return func(r *http.Request) {
		r.Header.Set(key, value)
	}
}

// Do sends a request to the test server. A non-nil body is JSON-encoded
// unless it is already a string or []byte.
func (ts *TestServer) Do(t *testing.T, method, path string, body interface{}, opts ...RequestOption) *http.Response {
	t.Helper()

	var raw []byte
	switch b := body.(type) {
	case nil:
	case string:
		raw = []byte(b)
	case []byte:
		raw = b
	default:
		var err error
		if raw, err = json.Marshal(b); err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
	}

	req, err := http.NewRequest(method, ts.Server.URL+path, bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, opt := range opts {
		opt(req)
	}

	resp, err := ts.Server.Client().Do(req)
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

// AuthCookie returns the token cookie set by resp, or nil.
func AuthCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == TestCookieName {
			return c
		}
	}
	return nil
}
