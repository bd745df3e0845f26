package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Olprog59/go-contenthub/internal/config"
	"github.com/Olprog59/go-contenthub/internal/domain"
	"github.com/Olprog59/go-contenthub/internal/mocks"
	"github.com/Olprog59/go-contenthub/internal/repository"
)

const testJWTSecret = "test-secret-key-for-testing-purposes-only"

func testConfig() *config.Config {
	return &config.Config{
		Security: config.SecurityConfig{
			BcryptCost:        bcrypt.MinCost, // Use minimum cost for faster tests
			MaxFailedAttempts: 3,
			LockoutDuration:   15 * time.Minute,
		},
		Auth: config.AuthConfig{
			JWTSecret:            testJWTSecret,
			AccessTokenDuration:  15 * time.Minute,
			RefreshTokenDuration: 30 * 24 * time.Hour,
		},
		Blog:       config.ListConfig{PageSize: DefaultPageSize},
		Flashcards: config.ListConfig{PageSize: DefaultPageSize},
	}
}

type testEnv struct {
	db      *sql.DB
	adapter *repository.Adapter
	conf    *config.Config
	metrics *mocks.MockMetrics
	users   *UserService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	adapter, conn := repository.NewTestAdapter(t)
	conf := testConfig()
	metrics := mocks.NewMockMetrics()
	return &testEnv{
		db:      conn,
		adapter: adapter,
		conf:    conf,
		metrics: metrics,
		users: NewUserService(conn, adapter.UserRepository(), adapter.ProfileRepository(),
			adapter.RefreshTokenStore(), conf, metrics),
	}
}

func (e *testEnv) createUser(t *testing.T, username, email, password string) *domain.User {
	t.Helper()
	user, err := e.users.CreateUser(context.Background(), NewUser{Email: email, Username: username, Password: password})
	if err != nil {
		t.Fatalf("Failed to create test user %s: %v", username, err)
	}
	return user
}
