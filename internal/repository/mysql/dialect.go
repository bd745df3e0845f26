package mysql

import "github.com/Olprog59/go-contenthub/internal/repository/db"

var _ db.Dialect = Dialect{}

// Dialect is the MySQL SQL dialect / Dialecte SQL MySQL
type Dialect struct{}

func (Dialect) Type() db.DatabaseType { return db.MySQL }

func (Dialect) Rebind(query string) string { return query }

func (Dialect) SupportsReturning() bool { return false }

func (Dialect) TranslateError(err error) error { return handleError(err) }
