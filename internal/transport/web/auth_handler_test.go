package web

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Olprog59/go-contenthub/internal/domain"
	"github.com/Olprog59/go-contenthub/internal/dto"
)

func TestRegister(t *testing.T) {
	env := newTestEnv(t)
	c := env.client()

	rec := c.do(http.MethodPost, "/api/register", map[string]string{
		"email":    "Alice@Example.COM",
		"username": "alice",
		"password": testPassword,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	user := decode[dto.UserResponse](t, rec)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "Alice@example.com", user.Email)
	assert.Equal(t, string(domain.RoleUser), user.Role)
	assert.Contains(t, user.Groups, "Basic User")
	assert.NotEmpty(t, user.Profile)
}

func TestRegister_Rejected(t *testing.T) {
	env := newTestEnv(t)
	env.createUser("taken", "")

	tests := []struct {
		name      string
		body      map[string]string
		wantCode  int
		wantField string
	}{
		{
			name:      "missing email",
			body:      map[string]string{"username": "bob", "password": testPassword},
			wantCode:  http.StatusBadRequest,
			wantField: "email",
		},
		{
			name:      "invalid username",
			body:      map[string]string{"email": "bob@example.com", "username": "bob smith", "password": testPassword},
			wantCode:  http.StatusBadRequest,
			wantField: "username",
		},
		{
			name:      "email already used",
			body:      map[string]string{"email": "taken@example.com", "username": "bob", "password": testPassword},
			wantCode:  http.StatusConflict,
			wantField: "email",
		},
		{
			name:      "username already used",
			body:      map[string]string{"email": "bob@example.com", "username": "taken", "password": testPassword},
			wantCode:  http.StatusConflict,
			wantField: "username",
		},
		{
			name:      "password equal to username",
			body:      map[string]string{"email": "bob@example.com", "username": "bob", "password": "bob"},
			wantCode:  http.StatusBadRequest,
			wantField: "password",
		},
		{
			name:      "reserved username",
			body:      map[string]string{"email": "root@example.com", "username": "admin", "password": testPassword},
			wantCode:  http.StatusBadRequest,
			wantField: "username",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.client().do(http.MethodPost, "/api/register", tt.body)
			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())

			body := decode[map[string]any](t, rec)
			assert.Equal(t, tt.wantField, body["field"])
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestRegister_InvalidBody(t *testing.T) {
	env := newTestEnv(t)

	rec := env.client().do(http.MethodPost, "/api/register", "not an object")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid request body")
}

func TestLoginMeRefreshLogout(t *testing.T) {
	env := newTestEnv(t)
	env.createUser("carol", "")
	c := env.login("carol")

	require.Contains(t, c.cookies, accessTokenCookie)
	require.Contains(t, c.cookies, refreshTokenCookie)
	require.Contains(t, c.cookies, csrfTokenCookie)
	assert.True(t, c.cookies[accessTokenCookie].HttpOnly)
	assert.False(t, c.cookies[csrfTokenCookie].HttpOnly)

	rec := c.do(http.MethodGet, "/api/me", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "carol", decode[dto.UserResponse](t, rec).Username)

	oldRefresh := c.cookies[refreshTokenCookie].Value
	rec = c.do(http.MethodPost, "/api/refresh", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEqual(t, oldRefresh, c.cookies[refreshTokenCookie].Value)

	rec = c.do(http.MethodPost, "/api/logout", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotContains(t, c.cookies, accessTokenCookie)

	rec = c.do(http.MethodGet, "/api/me", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogin_Failures(t *testing.T) {
	env := newTestEnv(t)
	env.createUser("dave", "")

	rec := env.client().do(http.MethodPost, "/api/login", map[string]string{
		"email":    "dave@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.client().do(http.MethodPost, "/api/login", map[string]string{"email": "dave@example.com"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "password", decode[map[string]any](t, rec)["field"])
}

func TestRefresh_RequiresCSRF(t *testing.T) {
	env := newTestEnv(t)
	env.createUser("erin", "")
	c := env.login("erin")
	delete(c.cookies, csrfTokenCookie)

	rec := c.do(http.MethodPost, "/api/refresh", nil)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRefresh_ReusedTokenRejected(t *testing.T) {
	env := newTestEnv(t)
	env.createUser("frank", "")
	c := env.login("frank")

	stale := *c.cookies[refreshTokenCookie]
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/api/refresh", nil).Code)

	c.cookies[refreshTokenCookie] = &stale
	rec := c.do(http.MethodPost, "/api/refresh", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t)
	env.createUser("grace", "")
	c := env.login("grace")

	rec := c.do(http.MethodPost, "/api/me/password", map[string]string{
		"current_password": "not-it",
		"new_password":     "An0ther-Passw0rd",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = c.do(http.MethodPost, "/api/me/password", map[string]string{
		"current_password": testPassword,
		"new_password":     "An0ther-Passw0rd",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotContains(t, c.cookies, accessTokenCookie)

	rec = env.client().do(http.MethodPost, "/api/login", map[string]string{
		"email":    "grace@example.com",
		"password": "An0ther-Passw0rd",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}
