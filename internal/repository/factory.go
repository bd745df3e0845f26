package repository

import (
	"database/sql"

	"github.com/Olprog59/go-contenthub/internal/ports"
	"github.com/Olprog59/go-contenthub/internal/repository/db"
)

// DatabaseFactory must be implemented by each database package / Doit être implémenté par chaque package de BD
// Adding a repository here forces every driver package (sqlite, mysql, postgres) to provide it.
// Ajouter un repository ici force chaque package de BD à le fournir.
type DatabaseFactory interface {
	// Dialect returns the driver's SQL dialect / Retourne le dialecte SQL du driver
	Dialect() db.Dialect

	// NewUserRepository creates user repository / Crée le repository utilisateur
	NewUserRepository(conn *sql.DB) ports.UserRepository

	// NewProfileRepository creates profile repository / Crée le repository des profils
	NewProfileRepository(conn *sql.DB) ports.ProfileRepository

	// NewRefreshTokenStore creates refresh token store / Crée le store de refresh tokens
	NewRefreshTokenStore(conn *sql.DB) ports.RefreshTokenStore

	// NewBlogRepository creates blog repository / Crée le repository du blog
	NewBlogRepository(conn *sql.DB) ports.BlogRepository

	// NewFlashcardRepository creates flashcard repository / Crée le repository des fiches
	NewFlashcardRepository(conn *sql.DB) ports.FlashcardRepository
}
