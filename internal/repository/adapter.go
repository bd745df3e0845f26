package repository

import (
	"database/sql"
	"strings"

	"github.com/Olprog59/go-contenthub/internal/ports"
	"github.com/Olprog59/go-contenthub/internal/repository/db"
	"github.com/Olprog59/go-contenthub/internal/repository/mysql"
	"github.com/Olprog59/go-contenthub/internal/repository/postgres"
	"github.com/Olprog59/go-contenthub/internal/repository/sqlite"
)

// Compile-time checks to ensure all Factory implementations satisfy DatabaseFactory interface
// Vérifications à la compilation pour s'assurer que toutes les implémentations de Factory satisfont l'interface DatabaseFactory
var (
	_ DatabaseFactory = (*sqlite.Factory)(nil)
	_ DatabaseFactory = (*mysql.Factory)(nil)
	_ DatabaseFactory = (*postgres.Factory)(nil)
)

// factoryRegistry holds all database factories / Registre de toutes les factories de BD
var factoryRegistry = map[db.DatabaseType]DatabaseFactory{
	db.SQLite:     &sqlite.Factory{},
	db.MySQL:      &mysql.Factory{},
	db.PostgreSQL: &postgres.Factory{},
}

// Adapter adapts database connection to repositories / Adapte la connexion BD vers les repositories
type Adapter struct {
	db      *sql.DB
	factory DatabaseFactory
}

// NewAdapter creates repository adapter / Crée l'adapteur de repositories
func NewAdapter(conn *sql.DB, driver string) *Adapter {
	factory := factoryRegistry[db.ParseDatabaseType(strings.ToLower(driver))]
	if factory == nil {
		factory = &sqlite.Factory{} // default fallback
	}

	return &Adapter{
		db:      conn,
		factory: factory,
	}
}

// Dialect returns the active SQL dialect / Retourne le dialecte SQL actif
func (a *Adapter) Dialect() db.Dialect {
	return a.factory.Dialect()
}

// UserRepository returns appropriate user repository / Retourne le repository utilisateur approprié
func (a *Adapter) UserRepository() ports.UserRepository {
	return a.factory.NewUserRepository(a.db)
}

// ProfileRepository returns profile repository / Retourne le repository des profils
func (a *Adapter) ProfileRepository() ports.ProfileRepository {
	return a.factory.NewProfileRepository(a.db)
}

// RefreshTokenStore returns appropriate refresh token store / Retourne le store de refresh tokens approprié
func (a *Adapter) RefreshTokenStore() ports.RefreshTokenStore {
	return a.factory.NewRefreshTokenStore(a.db)
}

// BlogRepository returns blog repository / Retourne le repository du blog
func (a *Adapter) BlogRepository() ports.BlogRepository {
	return a.factory.NewBlogRepository(a.db)
}

// FlashcardRepository returns flashcard repository / Retourne le repository des fiches
func (a *Adapter) FlashcardRepository() ports.FlashcardRepository {
	return a.factory.NewFlashcardRepository(a.db)
}
