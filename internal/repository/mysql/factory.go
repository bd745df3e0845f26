package mysql

import (
	"database/sql"

	"github.com/Olprog59/go-contenthub/internal/ports"
	"github.com/Olprog59/go-contenthub/internal/repository/db"
	"github.com/Olprog59/go-contenthub/internal/repository/sqlstore"
)

// Factory implements DatabaseFactory for MySQL / Implémente DatabaseFactory pour MySQL
// The compile-time check is in adapter.go to avoid import cycles
// La vérification à la compilation est dans adapter.go pour éviter les cycles d'imports
type Factory struct{}

// Dialect returns the MySQL dialect / Retourne le dialecte MySQL
func (f *Factory) Dialect() db.Dialect {
	return Dialect{}
}

// NewUserRepository creates user repository / Crée le repository utilisateur
func (f *Factory) NewUserRepository(conn *sql.DB) ports.UserRepository {
	return sqlstore.NewUserRepository(conn, Dialect{})
}

// NewProfileRepository creates profile repository / Crée le repository des profils
func (f *Factory) NewProfileRepository(conn *sql.DB) ports.ProfileRepository {
	return sqlstore.NewProfileRepository(conn, Dialect{})
}

// NewRefreshTokenStore creates refresh token store / Crée le store de refresh tokens
func (f *Factory) NewRefreshTokenStore(conn *sql.DB) ports.RefreshTokenStore {
	return sqlstore.NewRefreshTokenStore(conn, Dialect{})
}

// NewBlogRepository creates blog repository / Crée le repository du blog
func (f *Factory) NewBlogRepository(conn *sql.DB) ports.BlogRepository {
	return sqlstore.NewBlogRepository(conn, Dialect{})
}

// NewFlashcardRepository creates flashcard repository / Crée le repository des fiches
func (f *Factory) NewFlashcardRepository(conn *sql.DB) ports.FlashcardRepository {
	return sqlstore.NewFlashcardRepository(conn, Dialect{})
}
