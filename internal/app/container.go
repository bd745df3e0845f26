package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/source/file" // Required for file-based migrations
	"github.com/prometheus/client_golang/prometheus"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/lib/pq"              // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver

	"github.com/Olprog59/go-contenthub/internal/config"
	"github.com/Olprog59/go-contenthub/internal/logging"
	"github.com/Olprog59/go-contenthub/internal/metrics"
	"github.com/Olprog59/go-contenthub/internal/ports"
	"github.com/Olprog59/go-contenthub/internal/repository"
	"github.com/Olprog59/go-contenthub/internal/repository/db"
	"github.com/Olprog59/go-contenthub/internal/service"
)

const connectTimeout = 10 * time.Second

// Container holds application dependencies / Contient les dépendances de l'application
type Container struct {
	DB                *sql.DB
	Config            *config.Config
	Metrics           *metrics.Metrics
	UserRepo          ports.UserRepository
	ProfileRepo       ports.ProfileRepository
	RefreshTokenStore ports.RefreshTokenStore
	BlogRepo          ports.BlogRepository
	FlashcardRepo     ports.FlashcardRepository
	UserSvc           *service.UserService
	AuthSvc           *service.AuthService
	PasswordSvc       *service.PasswordService
	BlogSvc           *service.BlogService
	FlashcardSvc      *service.FlashcardService
	driver            db.Driver
	log               *slog.Logger
	ctxCancel         context.CancelFunc
}

// NewContainer initializes application container.
// A nil registerer uses the Prometheus default registry.
// Initialise le conteneur de l'application.
func NewContainer(cfg *config.Config, reg prometheus.Registerer) (*Container, error) {
	c := &Container{
		Config:  cfg,
		Metrics: metrics.NewMetrics(reg),
		log:     logging.Module("app"),
	}

	if err := c.initDatabase(); err != nil {
		return nil, fmt.Errorf("database init: %w", err)
	}

	if err := c.runMigrations(); err != nil {
		c.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	c.initRepositories()
	c.initServices()
	c.startBackgroundTasks()
	c.updateDatabaseMetrics()

	return c, nil
}

func (c *Container) dbType() db.DatabaseType {
	if c.Config.Database.Type == "" {
		return db.SQLite
	}
	return db.ParseDatabaseType(strings.ToLower(c.Config.Database.Type))
}

// initDatabase opens the configured database / Ouvre la base configurée
func (c *Container) initDatabase() error {
	driver, err := db.LookupDriver(c.dbType())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	conn, err := driver.Open(ctx, db.DatabaseConfig{
		Type:         driver.Type,
		DSN:          c.Config.Database.DSN,
		MaxOpenConns: c.Config.Database.MaxOpenConns,
		MaxIdleConns: c.Config.Database.MaxIdleConns,
	})
	if err != nil {
		return err
	}

	c.DB = conn
	c.driver = driver
	return nil
}

// MigrationsDir returns the per-driver migrations directory / Retourne le répertoire de migrations du driver
func (c *Container) MigrationsDir() string {
	return filepath.Join(c.Config.Database.MigrationsPath, string(c.dbType()))
}

// runMigrations applies pending migrations / Applique les migrations en attente
func (c *Container) runMigrations() error {
	instance, err := c.driver.MigrationDriver(c.DB)
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+filepath.ToSlash(c.MigrationsDir()), c.driver.MigrateName, instance)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	c.log.Info("applying database migrations", "type", c.driver.Type, "dir", c.MigrationsDir())
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}

	version, dirty, _ := m.Version()
	c.log.Info("database migrations applied", "version", version, "dirty", dirty)
	return nil
}

// initRepositories initializes repositories / Initialise les repositories
func (c *Container) initRepositories() {
	adapter := repository.NewAdapter(c.DB, string(c.dbType()))

	c.UserRepo = adapter.UserRepository()
	c.ProfileRepo = adapter.ProfileRepository()
	c.RefreshTokenStore = adapter.RefreshTokenStore()
	c.BlogRepo = adapter.BlogRepository()
	c.FlashcardRepo = adapter.FlashcardRepository()

	c.log.Info("repositories initialized", "type", c.dbType())
}

// initServices initializes application services / Initialise les services applicatifs
func (c *Container) initServices() {
	c.UserSvc = service.NewUserService(c.DB, c.UserRepo, c.ProfileRepo, c.RefreshTokenStore, c.Config, c.Metrics)
	c.AuthSvc = service.NewAuthService(c.UserRepo, c.RefreshTokenStore, c.Config, c.DB, c.Metrics)
	c.PasswordSvc = service.NewPasswordService(c.UserRepo, c.RefreshTokenStore, c.Config)
	c.BlogSvc = service.NewBlogService(c.BlogRepo, c.Config, c.Metrics)
	c.FlashcardSvc = service.NewFlashcardService(c.FlashcardRepo, c.Config, c.Metrics)
}

// startBackgroundTasks runs the token purge and the optional backup / Lance la purge des tokens et le backup optionnel
func (c *Container) startBackgroundTasks() {
	ctx, cancel := context.WithCancel(context.Background())
	c.ctxCancel = cancel

	go func() {
		c.Metrics.SetBackgroundTaskStatus("token_purge", true)
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.purgeExpiredTokens(ctx)
			case <-ctx.Done():
				c.Metrics.SetBackgroundTaskStatus("token_purge", false)
				c.log.Info("purge goroutine stopped")
				return
			}
		}
	}()

	if c.Config.Backup.Enabled {
		if c.dbType() != db.SQLite {
			c.log.Warn("automatic backup only supports sqlite, skipping", "type", c.dbType())
			return
		}
		c.startBackupRoutine(ctx)
	}
}

func (c *Container) purgeExpiredTokens(ctx context.Context) {
	n, err := c.RefreshTokenStore.PurgeExpired(ctx, time.Now())
	if err != nil {
		c.log.Error("refresh token purge failed", "err", err)
		return
	}
	c.log.Info("expired refresh tokens purged", "count", n)
}

// updateDatabaseMetrics updates database metrics / Met à jour les métriques de la BD
func (c *Container) updateDatabaseMetrics() {
	c.Metrics.UpdateDatabaseConnections(c.DB.Stats().OpenConnections)
}

// startBackupRoutine starts automatic backup routine / Démarre la routine de backup automatique
func (c *Container) startBackupRoutine(ctx context.Context) {
	go func() {
		c.Metrics.SetBackgroundTaskStatus("database_backup", true)
		ticker := time.NewTicker(c.Config.Backup.Interval)
		defer ticker.Stop()

		c.log.Info("automatic database backup enabled",
			"interval", c.Config.Backup.Interval,
			"retention_days", c.Config.Backup.RetentionDays,
		)

		for {
			select {
			case <-ticker.C:
				if _, err := c.PerformBackup(ctx); err != nil {
					c.log.Error("backup failed", "err", err)
				}
				if _, err := c.CleanOldBackups(); err != nil {
					c.log.Error("backup cleanup failed", "err", err)
				}
			case <-ctx.Done():
				c.Metrics.SetBackgroundTaskStatus("database_backup", false)
				c.log.Info("backup goroutine stopped")
				return
			}
		}
	}()
}

// PerformBackup writes a timestamped copy of the SQLite database and returns its path.
// Crée une copie horodatée de la base SQLite et retourne son chemin.
func (c *Container) PerformBackup(ctx context.Context) (string, error) {
	if err := os.MkdirAll(c.Config.Backup.Path, 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	dbName, _, _ := strings.Cut(c.Config.Database.DSN, "?")
	dbName = strings.TrimPrefix(dbName, "file:")
	if dbName == "" || dbName == ":memory:" {
		return "", errors.New("cannot backup in-memory database")
	}

	backupPath := filepath.Join(c.Config.Backup.Path, BackupFilename(dbName, time.Now()))

	// VACUUM INTO needs SQLite 3.27.0+
	query := fmt.Sprintf("VACUUM INTO '%s'", strings.ReplaceAll(backupPath, "'", "''"))
	if _, err := c.DB.ExecContext(ctx, query); err != nil {
		return "", fmt.Errorf("backup execution failed: %w", err)
	}

	c.log.Info("database backup created", "path", backupPath)
	return backupPath, nil
}

// BackupFilename names a backup of dbPath taken at t / Nomme un backup de dbPath pris à t
func BackupFilename(dbPath string, t time.Time) string {
	return fmt.Sprintf("%s.backup-%s.db", filepath.Base(dbPath), t.Format("20060102-150405"))
}

func isBackupFile(name string) bool {
	return strings.Contains(name, ".backup-") && strings.HasSuffix(name, ".db")
}

// CleanOldBackups removes backups older than the retention and returns how many went.
// Supprime les backups plus anciens que la rétention.
func (c *Container) CleanOldBackups() (int, error) {
	if c.Config.Backup.RetentionDays <= 0 {
		return 0, nil
	}

	cutoff := time.Now().AddDate(0, 0, -c.Config.Backup.RetentionDays)

	entries, err := os.ReadDir(c.Config.Backup.Path)
	if err != nil {
		return 0, fmt.Errorf("failed to read backup directory: %w", err)
	}

	deleted := 0
	for _, entry := range entries {
		if entry.IsDir() || !isBackupFile(entry.Name()) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			c.log.Warn("failed to stat backup", "file", entry.Name(), "err", err)
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}

		if err := os.Remove(filepath.Join(c.Config.Backup.Path, entry.Name())); err != nil {
			c.log.Warn("failed to delete old backup", "file", entry.Name(), "err", err)
			continue
		}
		deleted++
		c.log.Info("deleted old backup", "file", entry.Name(), "age_days", int(time.Since(info.ModTime()).Hours()/24))
	}

	return deleted, nil
}

// Close performs graceful shutdown / Effectue un arrêt gracieux
func (c *Container) Close() error {
	if c.ctxCancel != nil {
		c.ctxCancel()
	}
	if c.DB != nil {
		c.log.Info("closing database")
		return c.DB.Close()
	}
	return nil
}
