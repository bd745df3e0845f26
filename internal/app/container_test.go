package app_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Olprog59/go-contenthub/internal/app"
	"github.com/Olprog59/go-contenthub/internal/config"
	"github.com/Olprog59/go-contenthub/internal/repository"
	"github.com/Olprog59/go-contenthub/internal/service"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Database: config.DatabaseConfig{
			Type:           "sqlite",
			DSN:            filepath.Join(t.TempDir(), "app.db"),
			MigrationsPath: filepath.Dir(repository.SQLiteMigrationsDir()),
		},
		Auth: config.AuthConfig{
			JWTSecret:            "test-secret-must-be-at-least-32-characters-long",
			AccessTokenDuration:  time.Minute,
			RefreshTokenDuration: time.Hour,
		},
		Security: config.SecurityConfig{
			BcryptCost:        bcrypt.MinCost,
			MaxFailedAttempts: 5,
			LockoutDuration:   time.Minute,
		},
		Backup: config.BackupConfig{
			Path:          filepath.Join(t.TempDir(), "backups"),
			RetentionDays: 7,
		},
	}
}

func newContainer(t *testing.T, cfg *config.Config) *app.Container {
	t.Helper()
	container, err := app.NewContainer(cfg, prometheus.NewRegistry())
	require.NoError(t, err)
	t.Cleanup(func() { container.Close() })
	return container
}

func TestNewContainer(t *testing.T) {
	cfg := testConfig(t)
	container := newContainer(t, cfg)

	assert.NotNil(t, container.DB)
	assert.NotNil(t, container.UserRepo)
	assert.NotNil(t, container.ProfileRepo)
	assert.NotNil(t, container.RefreshTokenStore)
	assert.NotNil(t, container.BlogRepo)
	assert.NotNil(t, container.FlashcardRepo)
	assert.NotNil(t, container.UserSvc)
	assert.NotNil(t, container.AuthSvc)
	assert.NotNil(t, container.PasswordSvc)
	assert.NotNil(t, container.BlogSvc)
	assert.NotNil(t, container.FlashcardSvc)
	assert.Same(t, cfg, container.Config)
	assert.NotNil(t, container.Metrics)

	require.NoError(t, container.DB.Ping())
	assert.Equal(t, filepath.Join(cfg.Database.MigrationsPath, "sqlite"), container.MigrationsDir())

	// The schema is in place and the services work end to end
	user, err := container.UserSvc.CreateUser(t.Context(), service.NewUser{
		Email:    "ada@example.com",
		Username: "ada",
		Password: "analytical-engine",
	})
	require.NoError(t, err)

	profile, err := container.UserSvc.GetProfile(t.Context(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada", profile.Username)
}

func TestNewContainer_MigrationsAreIdempotent(t *testing.T) {
	cfg := testConfig(t)

	first, err := app.NewContainer(cfg, prometheus.NewRegistry())
	require.NoError(t, err)
	require.NoError(t, first.Close())

	newContainer(t, cfg)
}

func TestNewContainer_UnknownDatabaseType(t *testing.T) {
	cfg := testConfig(t)
	cfg.Database.Type = "oracle"

	_, err := app.NewContainer(cfg, prometheus.NewRegistry())
	assert.Error(t, err)
}
