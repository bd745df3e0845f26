package db

// DatabaseType represents supported database types
type DatabaseType string

const (
	SQLite     DatabaseType = "sqlite"
	MySQL      DatabaseType = "mysql"
	PostgreSQL DatabaseType = "postgres"
)

// String returns string representation
func (dt DatabaseType) String() string {
	return string(dt)
}

// IsValid checks if database type is valid
func (dt DatabaseType) IsValid() bool {
	switch dt {
	case SQLite, MySQL, PostgreSQL:
		return true
	default:
		return false
	}
}

// ParseDatabaseType normalizes a driver name / Normalise un nom de driver
func ParseDatabaseType(driver string) DatabaseType {
	switch driver {
	case "sqlite", "sqlite3":
		return SQLite
	case "mysql", "mariadb":
		return MySQL
	case "postgres", "postgresql", "pgx":
		return PostgreSQL
	default:
		return DatabaseType(driver)
	}
}
