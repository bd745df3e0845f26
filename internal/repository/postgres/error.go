package postgres

import (
	"database/sql"
	"errors"

	"github.com/Olprog59/go-contenthub/internal/repository/db"
	"github.com/lib/pq"
)

var (
	ErrDup      = db.ErrDuplicate // Duplicate unique key / Clé unique dupliquée
	ErrNoRecord = db.ErrNoRecord  // Re-export from db package
)

// handleError translates PostgreSQL errors to typed errors / Traduit les erreurs PostgreSQL en erreurs typées
func handleError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNoRecord
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505": // unique_violation
			return ErrDup
		case "23503": // foreign_key_violation
			return db.ErrForeignKeyViolation
		case "55P03", "40P01": // lock_not_available, deadlock_detected
			return db.ErrLocked
		}
	}
	return err
}
