package postgres

import "github.com/Olprog59/go-contenthub/internal/repository/db"

var _ db.Dialect = Dialect{}

// Dialect is the PostgreSQL SQL dialect / Dialecte SQL PostgreSQL
type Dialect struct{}

func (Dialect) Type() db.DatabaseType { return db.PostgreSQL }

// Rebind converts '?' to numbered placeholders / Convertit '?' en paramètres numérotés
func (Dialect) Rebind(query string) string { return db.RebindDollar(query) }

func (Dialect) SupportsReturning() bool { return true }

func (Dialect) TranslateError(err error) error { return handleError(err) }
