// Package config provides application configuration management using Viper.
// It supports loading configuration from YAML files and environment variables,
// with built-in validation for production and development environments.
// The package follows a hierarchical configuration structure with support for
// multiple database types (SQLite, MySQL, PostgreSQL), authentication settings,
// security policies, CORS, rate limiting, logging, and the content apps
// (blog, flashcards, site chrome).
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Config holds all application configuration / Contient toute la configuration de l'application
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Environment string            `mapstructure:"environment"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Backup      BackupConfig      `mapstructure:"backup"`
	Auth        AuthConfig        `mapstructure:"auth"`
	Security    SecurityConfig    `mapstructure:"security"`
	Cors        CorsConfig        `mapstructure:"cors"`
	RateLimiter RateLimiterConfig `mapstructure:"rate_limiter"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Blog        ListConfig        `mapstructure:"blog"`
	Flashcards  ListConfig        `mapstructure:"flashcards"`
	Site        SiteConfig        `mapstructure:"site"`
}

// ServerConfig holds server configuration / Configuration serveur
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// DatabaseConfig holds database-specific configuration / Configuration de la base de données
type DatabaseConfig struct {
	Type           string `mapstructure:"type"`            // Database type: "sqlite", "mysql", or "postgres"
	DSN            string `mapstructure:"dsn"`             // Data Source Name for connecting to the database
	MigrationsPath string `mapstructure:"migrations_path"` // Base directory of migrations, one subdirectory per type
	MaxOpenConns   int    `mapstructure:"max_open_conns"`  // Maximum number of open connections (default: 25)
	MaxIdleConns   int    `mapstructure:"max_idle_conns"`  // Maximum number of idle connections (default: 5)
}

// BackupConfig holds database backup configuration / Configuration des sauvegardes de la base de données
type BackupConfig struct {
	Enabled       bool          `mapstructure:"enabled"`        // Enable automatic backups / Active les sauvegardes automatiques
	Interval      time.Duration `mapstructure:"interval"`       // Backup interval (default: 24h) / Intervalle de sauvegarde
	Path          string        `mapstructure:"path"`           // Directory to store backups / Répertoire de stockage
	RetentionDays int           `mapstructure:"retention_days"` // Number of days to keep backups / Nombre de jours de rétention
}

// AuthConfig holds JWT and cookie configuration / Configuration JWT et cookies
type AuthConfig struct {
	JWTSecret            string        `mapstructure:"jwt_secret"`
	AccessTokenDuration  time.Duration `mapstructure:"access_token_duration"`
	RefreshTokenDuration time.Duration `mapstructure:"refresh_token_duration"`
	CookieDomain         string        `mapstructure:"cookie_domain"`
	CookiePath           string        `mapstructure:"cookie_path"`
	CookieSecure         bool          `mapstructure:"cookie_secure"`
}

// SecurityConfig holds security settings / Paramètres de sécurité
type SecurityConfig struct {
	MaxFailedAttempts int           `mapstructure:"max_failed_attempts"`
	LockoutDuration   time.Duration `mapstructure:"lockout_duration"`
	BcryptCost        int           `mapstructure:"bcrypt_cost"`
	TrustedProxies    []string      `mapstructure:"trusted_proxies"`
}

// CorsConfig holds CORS configuration / Configuration CORS
type CorsConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// RateLimiterConfig holds rate limiter configuration / Configuration limiteur de débit
type RateLimiterConfig struct {
	RPS     float64 `mapstructure:"rps"`
	Burst   int     `mapstructure:"burst"`
	Enabled bool    `mapstructure:"enabled"`
}

// ListConfig holds paginated list settings / Paramètres des listes paginées
type ListConfig struct {
	PageSize int `mapstructure:"page_size"`
}

// SiteConfig holds page chrome settings / Paramètres d'habillage des pages
type SiteConfig struct {
	Name            string `mapstructure:"name"`
	TailwindVersion string `mapstructure:"tailwind_version"`
	HTMXVersion     string `mapstructure:"htmx_version"`
}

// LoggingConfig holds logging configuration / Configuration logging
type LoggingConfig struct {
	Level         string            `mapstructure:"level"`
	Format        string            `mapstructure:"format"`
	LokiEnabled   bool              `mapstructure:"loki_enabled"`
	LokiURL       string            `mapstructure:"loki_url"`
	LokiLabels    map[string]string `mapstructure:"loki_labels"`
	LokiBatchSize int               `mapstructure:"loki_batch_size"`
}

// IsProduction checks if environment is production / Vérifie si l'environnement est production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// IsDevelopment checks if environment is development / Vérifie si l'environnement est development
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// defaults are applied before the config file and the environment
var defaults = map[string]any{
	"server.port":          "8080",
	"server.read_timeout":  "10s",
	"server.write_timeout": "10s",
	"server.idle_timeout":  "120s",
	"environment":          "development",

	"database.type":            "sqlite",
	"database.dsn":             "data.db",
	"database.migrations_path": "migrations",

	"auth.jwt_secret":             defaultJWTSecret,
	"auth.access_token_duration":  "15m",
	"auth.refresh_token_duration": "720h",
	"auth.cookie_domain":          "localhost",
	"auth.cookie_path":            "/",
	"auth.cookie_secure":          false,

	"security.max_failed_attempts": 5,
	"security.lockout_duration":    "15m",
	"security.bcrypt_cost":         12,
	"security.trusted_proxies":     []string{},
	"cors.allowed_origins":         []string{"http://localhost:8080"},

	"rate_limiter.rps":     10,
	"rate_limiter.burst":   20,
	"rate_limiter.enabled": true,

	"blog.page_size":        8,
	"flashcards.page_size":  8,
	"site.name":             "Content Hub",
	"site.tailwind_version": "3.4",
	"site.htmx_version":     "2.0.4",

	"backup.enabled":        false,
	"backup.interval":       "24h",
	"backup.path":           "./backups",
	"backup.retention_days": 7,

	"logging.level":           "info",
	"logging.format":          "text",
	"logging.loki_enabled":    false,
	"logging.loki_url":        "http://localhost:3100",
	"logging.loki_labels":     map[string]string{"app": "go-contenthub"},
	"logging.loki_batch_size": 10,
}

const defaultJWTSecret = "change-me-content-hub-secret"

// LoadConfig reads config.yaml from the working directory (or the file named by
// APP_CONFIG_FILE), then APP_* environment variables, then validates.
// Charge la configuration puis la valide.
func LoadConfig() (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if file := os.Getenv("APP_CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("auth.jwt_secret", "JWT_SECRET")
	_ = v.BindEnv("database.dsn", "DATABASE_DSN")

	var cfg Config
	err := v.Unmarshal(&cfg, func(c *mapstructure.DecoderConfig) {
		c.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	})
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if cfg.Logging.LokiLabels["environment"] == "" {
		if cfg.Logging.LokiLabels == nil {
			cfg.Logging.LokiLabels = map[string]string{}
		}
		cfg.Logging.LokiLabels["environment"] = cfg.Environment
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every invalid setting at once / Signale tous les paramètres invalides
func (c *Config) Validate() error {
	var errs []error
	check := func(failed bool, msg string) {
		if failed {
			errs = append(errs, errors.New(msg))
		}
	}

	check(c.Server.Port == "", "server.port is required")

	dbType := strings.ToLower(c.Database.Type)
	check(!slices.Contains([]string{"", "sqlite", "mysql", "postgres", "postgresql"}, dbType),
		"database.type must be one of: sqlite, mysql, postgres")

	check(c.Auth.JWTSecret == "", "auth.jwt_secret is required")
	check(c.Auth.AccessTokenDuration <= 0, "auth.access_token_duration must be positive")
	check(c.Auth.RefreshTokenDuration <= 0, "auth.refresh_token_duration must be positive")

	if c.RateLimiter.Enabled {
		check(c.RateLimiter.RPS <= 0, "rate_limiter.rps must be positive when enabled")
		check(c.RateLimiter.Burst <= 0, "rate_limiter.burst must be positive when enabled")
	}

	// zero page sizes fall back to the service default
	check(c.Blog.PageSize < 0, "blog.page_size must not be negative")
	check(c.Flashcards.PageSize < 0, "flashcards.page_size must not be negative")

	check(c.Backup.Enabled && c.Backup.Interval <= 0, "backup.interval must be positive when enabled")

	if c.IsProduction() {
		check(c.Database.DSN == "", "database.dsn is required in production")
		check(len(c.Auth.JWTSecret) < 32, "auth.jwt_secret must be at least 32 chars in production")
		check(c.Auth.JWTSecret == defaultJWTSecret, "auth.jwt_secret cannot use the default value in production, set JWT_SECRET")
		check(!c.Auth.CookieSecure, "auth.cookie_secure must be true in production")
	}

	return errors.Join(errs...)
}
