package web

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Olprog59/go-contenthub/internal/app"
	"github.com/Olprog59/go-contenthub/internal/config"
	"github.com/Olprog59/go-contenthub/internal/domain"
	"github.com/Olprog59/go-contenthub/internal/metrics"
	"github.com/Olprog59/go-contenthub/internal/repository"
	"github.com/Olprog59/go-contenthub/internal/service"
	"github.com/Olprog59/go-contenthub/internal/ui"
)

const testPassword = "S3cure-Passw0rd"

func testMetrics(t *testing.T) *metrics.Metrics {
	t.Helper()
	return metrics.NewMetrics(prometheus.NewRegistry())
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Environment: "development",
		Database: config.DatabaseConfig{
			Type:           "sqlite",
			DSN:            filepath.Join(t.TempDir(), "web.db"),
			MigrationsPath: filepath.Dir(repository.SQLiteMigrationsDir()),
		},
		Auth: config.AuthConfig{
			JWTSecret:            "test-secret-must-be-at-least-32-characters-long",
			AccessTokenDuration:  time.Minute,
			RefreshTokenDuration: time.Hour,
			CookiePath:           "/",
		},
		Security: config.SecurityConfig{
			BcryptCost:        bcrypt.MinCost,
			MaxFailedAttempts: 5,
			LockoutDuration:   time.Minute,
		},
		Blog:       config.ListConfig{PageSize: 8},
		Flashcards: config.ListConfig{PageSize: 8},
		Site:       config.SiteConfig{Name: "Content Hub", TailwindVersion: "3.4", HTMXVersion: "2.0.4"},
	}
}

// testEnv is a full router over a temporary SQLite database
type testEnv struct {
	t         *testing.T
	container *app.Container
	handler   *Handler
	mux       http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithConfig(t, testConfig(t))
}

func newTestEnvWithConfig(t *testing.T, cfg *config.Config) *testEnv {
	t.Helper()

	container, err := app.NewContainer(cfg, prometheus.NewRegistry())
	require.NoError(t, err)
	t.Cleanup(func() { container.Close() })

	views, err := ui.NewRenderer(ui.DefaultStyles())
	require.NoError(t, err)

	h := NewHandler(container, views)
	return &testEnv{
		t:         t,
		container: container,
		handler:   h,
		mux:       NewMux(t.Context(), h, cfg, container),
	}
}

func (e *testEnv) createUser(username string, role domain.UserRole) *domain.User {
	e.t.Helper()
	ctx := e.t.Context()

	user, err := e.container.UserSvc.CreateUser(ctx, service.NewUser{
		Email:    username + "@example.com",
		Username: username,
		Password: testPassword,
	})
	require.NoError(e.t, err)

	if role != "" && role != domain.RoleUser {
		require.NoError(e.t, e.container.UserSvc.UpdateUserRole(ctx, user.ID, role))
	}
	return user
}

// client keeps cookies between requests and echoes the CSRF cookie in its header
type client struct {
	env     *testEnv
	cookies map[string]*http.Cookie
}

func (e *testEnv) client() *client {
	return &client{env: e, cookies: map[string]*http.Cookie{}}
}

// browse opens a page, which issues the CSRF cookie HTMX requests echo back
func (e *testEnv) browse(path string) *client {
	e.t.Helper()
	c := e.client()
	rec := c.do(http.MethodGet, path, nil)
	require.Equal(e.t, http.StatusOK, rec.Code, rec.Body.String())
	require.Contains(e.t, c.cookies, csrfTokenCookie)
	return c
}

// login signs the user in through the API
func (e *testEnv) login(username string) *client {
	e.t.Helper()
	c := e.client()
	rec := c.do(http.MethodPost, "/api/login", map[string]string{
		"email":    username + "@example.com",
		"password": testPassword,
	})
	require.Equal(e.t, http.StatusOK, rec.Code, rec.Body.String())
	return c
}

type header struct{ key, value string }

// do sends body as a form for url.Values, as JSON otherwise
func (c *client) do(method, target string, body any, headers ...header) *httptest.ResponseRecorder {
	c.env.t.Helper()

	var reader io.Reader
	contentType := ""
	switch b := body.(type) {
	case nil:
	case url.Values:
		reader = strings.NewReader(b.Encode())
		contentType = "application/x-www-form-urlencoded"
	default:
		raw, err := json.Marshal(b)
		require.NoError(c.env.t, err)
		reader = bytes.NewReader(raw)
		contentType = "application/json"
	}

	req := httptest.NewRequest(method, target, reader)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}
	if csrf, ok := c.cookies[csrfTokenCookie]; ok {
		req.Header.Set(csrfHeader, csrf.Value)
	}
	for _, h := range headers {
		req.Header.Set(h.key, h.value)
	}

	rec := httptest.NewRecorder()
	c.env.mux.ServeHTTP(rec, req)

	for _, cookie := range rec.Result().Cookies() {
		if cookie.MaxAge < 0 || cookie.Value == "" {
			delete(c.cookies, cookie.Name)
			continue
		}
		c.cookies[cookie.Name] = cookie
	}
	return rec
}

func htmx() header {
	return header{HTMXRequestHeader, "true"}
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}
