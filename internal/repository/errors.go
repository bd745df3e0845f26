package repository

import "github.com/Olprog59/go-contenthub/internal/repository/db"

// Re-export common errors for callers outside the repository tree
var (
	ErrNoRecord            = db.ErrNoRecord
	ErrDuplicate           = db.ErrDuplicate
	ErrForeignKeyViolation = db.ErrForeignKeyViolation
	ErrBusy                = db.ErrBusy
	ErrLocked              = db.ErrLocked
)
