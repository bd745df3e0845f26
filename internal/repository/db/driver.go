package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	migratepostgres "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
)

// DatabaseConfig holds database connection config / Contient la config de connexion BD
type DatabaseConfig struct {
	Type         DatabaseType
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
}

const (
	defaultMaxOpenConns = 25
	defaultMaxIdleConns = 5
)

// Driver describes how to open and migrate one database type.
// Décrit comment ouvrir et migrer un type de base.
type Driver struct {
	Type DatabaseType
	// SQLName is the database/sql driver name
	SQLName string
	// MigrateName is the golang-migrate database name
	MigrateName string

	dsn     func(string) string
	setup   []string
	migrate func(*sql.DB) (database.Driver, error)
}

var drivers = map[DatabaseType]Driver{
	SQLite: {
		Type:        SQLite,
		SQLName:     "sqlite",
		MigrateName: "sqlite3",
		dsn:         SQLiteDSN,
		// database-wide settings; per-connection pragmas live in the DSN
		setup: []string{
			"PRAGMA journal_mode=WAL",
			"PRAGMA synchronous=NORMAL",
			"PRAGMA trusted_schema=OFF",
		},
		migrate: func(conn *sql.DB) (database.Driver, error) {
			return migratesqlite.WithInstance(conn, &migratesqlite.Config{})
		},
	},
	MySQL: {
		Type:        MySQL,
		SQLName:     "mysql",
		MigrateName: "mysql",
		dsn: withParams(map[string]string{
			"parseTime": "true",
			"sql_mode":  "'TRADITIONAL,NO_AUTO_VALUE_ON_ZERO'",
		}),
		migrate: func(conn *sql.DB) (database.Driver, error) {
			return migratemysql.WithInstance(conn, &migratemysql.Config{})
		},
	},
	PostgreSQL: {
		Type:        PostgreSQL,
		SQLName:     "postgres",
		MigrateName: "postgres",
		dsn:         postgresDSN,
		migrate: func(conn *sql.DB) (database.Driver, error) {
			return migratepostgres.WithInstance(conn, &migratepostgres.Config{})
		},
	},
}

// LookupDriver returns the driver of t / Retourne le driver de t
func LookupDriver(t DatabaseType) (Driver, error) {
	d, ok := drivers[t]
	if !ok {
		return Driver{}, fmt.Errorf("unsupported database type: %q", t)
	}
	return d, nil
}

// Open connects, sizes the pool, applies the setup statements and pings.
// Ouvre la connexion, dimensionne le pool et vérifie la connexion.
func (d Driver) Open(ctx context.Context, cfg DatabaseConfig) (*sql.DB, error) {
	conn, err := sql.Open(d.SQLName, d.dsn(cfg.DSN))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d.Type, err)
	}

	conn.SetMaxOpenConns(orDefault(cfg.MaxOpenConns, defaultMaxOpenConns))
	conn.SetMaxIdleConns(orDefault(cfg.MaxIdleConns, defaultMaxIdleConns))

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping %s: %w", d.Type, err)
	}

	for _, stmt := range d.setup {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			slog.Warn("database setup statement failed", "module", "db", "stmt", stmt, "err", err)
		}
	}

	slog.Info("database connected", "module", "db", "type", d.Type)
	return conn, nil
}

// MigrationDriver wraps conn for golang-migrate / Enveloppe conn pour golang-migrate
func (d Driver) MigrationDriver(conn *sql.DB) (database.Driver, error) {
	drv, err := d.migrate(conn)
	if err != nil {
		return nil, fmt.Errorf("%s migration driver: %w", d.Type, err)
	}
	return drv, nil
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// withParams adds query parameters the DSN does not set yet
func withParams(params map[string]string) func(string) string {
	return func(dsn string) string {
		base, query, _ := strings.Cut(dsn, "?")
		values, err := url.ParseQuery(query)
		if err != nil {
			return dsn
		}
		for k, v := range params {
			if !values.Has(k) {
				values.Set(k, v)
			}
		}
		return base + "?" + values.Encode()
	}
}

// postgresDSN pins the session time zone for both lib/pq DSN forms
func postgresDSN(dsn string) string {
	if strings.Contains(dsn, "://") {
		return withParams(map[string]string{"timezone": "UTC"})(dsn)
	}
	if strings.Contains(strings.ToLower(dsn), "timezone=") {
		return dsn
	}
	return strings.TrimSpace(dsn + " timezone=UTC")
}

// SQLiteDSN appends per-connection pragmas the pool cannot set with Exec.
// Ajoute les pragmas par connexion que le pool ne peut pas fixer via Exec.
func SQLiteDSN(dsn string) string {
	if strings.Contains(dsn, "_pragma=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}
