package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"gorm.io/gorm"

	"github.com/DevByte-Community/Community-API-Backend-sub000/internal/app"
	"github.com/DevByte-Community/Community-API-Backend-sub000/internal/config"
	"github.com/DevByte-Community/Community-API-Backend-sub000/internal/infrastructure/database"
	"github.com/DevByte-Community/Community-API-Backend-sub000/internal/mocks"
)

const (
	RootEmail    = "root@community.test"
	RootPassword = "root-password-1"
)

// TestSuite holds the infrastructure of one end-to-end test: an in-memory
// sqlite database, a miniredis server and the fully wired container.
type TestSuite struct {
	Config    *config.Config
	DB        *gorm.DB
	Redis     *redis.Client
	Mini      *miniredis.Miniredis
	Mailer    *mocks.MockNotificationService
	LogHook   *test.Hook
	Container *app.Container
}

// SuiteOption tweaks the configuration before the container is built
type SuiteOption func(*config.Config)

// WithCookies turns on cookie transport for tokens
func WithCookies() SuiteOption {
	return func(c *config.Config) { c.Cookie.Enabled = true }
}

// WithoutResetTicket lets a password reset go through on the OTP alone
func WithoutResetTicket() SuiteOption {
	return func(c *config.Config) { c.OTP.RequireResetTicket = false }
}

// TestConfig returns the configuration every suite starts from
func TestConfig() *config.Config {
	cfg := config.Default()
	cfg.App.Env = "test"
	cfg.App.GinMode = gin.TestMode
	cfg.Database.Driver = database.DriverSQLite
	cfg.Database.DSN = ":memory:"
	cfg.JWT.AccessSecret = "e2e-access-secret"
	cfg.JWT.RefreshSecret = "e2e-refresh-secret"
	cfg.Casbin.ModelPath = ""
	cfg.Root = config.RootConfig{Email: RootEmail, Password: RootPassword, Fullname: "Root"}
	return cfg
}

// NewTestSuite builds a fresh, isolated environment and seeds the ROOT account
func NewTestSuite(t *testing.T, opts ...SuiteOption) *TestSuite {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := TestConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("invalid test config: %v", err)
	}

	db, err := database.Open(cfg.Database.Driver, cfg.Database.DSN, false)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	mailer := mocks.NewMockNotificationService()

	c, err := app.NewContainerWith(cfg, log, db, rdb, app.WithNotifier(mailer))
	if err != nil {
		t.Fatalf("failed to build container: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	if err := c.SeedRoot(context.Background()); err != nil {
		t.Fatalf("failed to seed root: %v", err)
	}

	return &TestSuite{
		Config:    cfg,
		DB:        db,
		Redis:     rdb,
		Mini:      mr,
		Mailer:    mailer,
		LogHook:   hook,
		Container: c,
	}
}

// TestServer wraps the HTTP test server with E2E testing capabilities
type TestServer struct {
	Server *httptest.Server
	Suite  *TestSuite
	Client *http.Client
	t      *testing.T
}

// NewTestServer starts the real router over the suite's container
func NewTestServer(t *testing.T, suite *TestSuite) *TestServer {
	t.Helper()

	server := httptest.NewServer(suite.Container.Router())
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("failed to create cookie jar: %v", err)
	}

	return &TestServer{
		Server: server,
		Suite:  suite,
		Client: &http.Client{Timeout: 10 * time.Second, Jar: jar},
		t:      t,
	}
}

// URL returns the full URL for a given path
func (ts *TestServer) URL(path string) string {
	return ts.Server.URL + path
}

// Response is a decoded JSON response
type Response struct {
	Status  int
	Body    map[string]interface{}
	Cookies []*http.Cookie
}

// Message returns the message field of the body
func (r *Response) Message() string {
	s, _ := r.Body["message"].(string)
	return s
}

// String returns a top-level string field of the body
func (r *Response) String(key string) string {
	s, _ := r.Body[key].(string)
	return s
}

// User returns the user object of the body
func (r *Response) User() map[string]interface{} {
	u, _ := r.Body["user"].(map[string]interface{})
	return u
}

// Do sends a request with an optional JSON body and bearer token
func (ts *TestServer) Do(method, path string, body interface{}, token string) *Response {
	ts.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			ts.t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, ts.URL(path), reader)
	if err != nil {
		ts.t.Fatalf("failed to build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Client.Do(req)
	if err != nil {
		ts.t.Fatalf("request %s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()

	out := &Response{Status: resp.StatusCode, Cookies: resp.Cookies()}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		ts.t.Fatalf("failed to read body: %v", err)
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out.Body); err != nil {
			ts.t.Fatalf("non-JSON response from %s %s: %s", method, path, raw)
		}
	}
	return out
}

// Post is Do with POST
func (ts *TestServer) Post(path string, body interface{}, token string) *Response {
	ts.t.Helper()
	return ts.Do(http.MethodPost, path, body, token)
}

// Get is Do with GET
func (ts *TestServer) Get(path, token string) *Response {
	ts.t.Helper()
	return ts.Do(http.MethodGet, path, nil, token)
}
