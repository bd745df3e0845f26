package repository

import (
	"database/sql"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/Olprog59/go-contenthub/internal/repository/db"
	_ "modernc.org/sqlite"
)

// SQLiteMigrationsDir locates the sqlite migrations from the source tree / Localise les migrations sqlite
func SQLiteMigrationsDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "migrations", string(db.SQLite))
}

// NewTestDB opens a file-backed SQLite database with the schema applied, for tests.
// Ouvre une base SQLite sur fichier avec le schéma appliqué, pour les tests.
func NewTestDB(t testing.TB) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", db.SQLiteDSN(filepath.Join(t.TempDir(), "test.db")))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	schema, err := os.ReadFile(filepath.Join(SQLiteMigrationsDir(), "000001_init.up.sql"))
	if err != nil {
		t.Fatalf("Failed to read schema: %v", err)
	}
	if _, err := conn.Exec(string(schema)); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// NewTestAdapter returns an adapter over NewTestDB / Retourne un adapteur sur NewTestDB
func NewTestAdapter(t testing.TB) (*Adapter, *sql.DB) {
	t.Helper()
	conn := NewTestDB(t)
	return NewAdapter(conn, string(db.SQLite)), conn
}
