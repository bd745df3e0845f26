package ports

import (
	"context"
	"time"

	"github.com/Olprog59/go-contenthub/internal/domain"
)

// UserReader reads user data / Lit les données utilisateur
type UserReader interface {
	// GetByID retrieves user by unique ID / Récupère l'utilisateur par ID unique
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// GetByEmail retrieves user by email / Récupère l'utilisateur par email
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetByUsername retrieves user by username / Récupère l'utilisateur par nom
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// EmailExists reports whether an email is taken / Indique si l'email est pris
	EmailExists(ctx context.Context, email string) (bool, error)

	// List retrieves paginated users / Récupère les utilisateurs paginés
	List(ctx context.Context, offset, limit int) ([]*domain.User, int, error)

	// CountUsers returns total user count / Retourne le nombre total d'utilisateurs
	CountUsers(ctx context.Context) (int, error)
}

// UserWriter creates, updates and deletes users / Crée, modifie et supprime les utilisateurs
type UserWriter interface {
	// Create inserts new user with an already hashed password / Insère un utilisateur au mot de passe déjà haché
	Create(ctx context.Context, user *domain.User) (*domain.User, error)

	// UpdatePassword updates password hash / Met à jour le hash du mot de passe
	UpdatePassword(ctx context.Context, userID int64, hashedPassword string) error

	// SetStaffStatus updates staff and superuser flags / Met à jour les drapeaux staff et superuser
	SetStaffStatus(ctx context.Context, userID int64, isStaff, isSuperuser bool) error

	// Delete removes user by ID / Supprime l'utilisateur par ID
	Delete(ctx context.Context, id int64) error
}

// AccountSecurityRepository manages account security / Gère la sécurité des comptes
type AccountSecurityRepository interface {
	// IncrementFailedAttempts increments failed login counter / Incrémente le compteur d'échecs
	IncrementFailedAttempts(ctx context.Context, userID int64) error

	// ResetFailedAttempts resets failed attempt counter / Réinitialise le compteur d'échecs
	ResetFailedAttempts(ctx context.Context, userID int64) error

	// LockAccount locks account until timestamp / Verrouille le compte jusqu'à l'heure
	LockAccount(ctx context.Context, userID int64, until time.Time) error
}

// RoleRepository manages user roles / Gère les rôles des utilisateurs
type RoleRepository interface {
	// UpdateRole changes user role / Change le rôle de l'utilisateur
	UpdateRole(ctx context.Context, userID int64, role string) error
}

// PermissionRepository manages permissions / Gère les permissions
type PermissionRepository interface {
	// GetPermissionsForRole gets permissions for role / Obtient les permissions du rôle
	GetPermissionsForRole(ctx context.Context, role string) ([]domain.Permission, error)

	// UserHasPermission checks if user has permission / Vérifie si l'utilisateur a la permission
	UserHasPermission(ctx context.Context, userID int64, permission domain.Permission) (bool, error)

	// AddPermissionToRole assigns permission to role / Assigne une permission au rôle
	AddPermissionToRole(ctx context.Context, role string, permission domain.Permission) error

	// RemovePermissionFromRole removes permission from role / Supprime la permission du rôle
	RemovePermissionFromRole(ctx context.Context, role string, permission domain.Permission) error
}

// GroupRepository manages user groups / Gère les groupes d'utilisateurs
type GroupRepository interface {
	// GetOrCreateGroup returns the named group, creating it if needed / Retourne le groupe, le crée si besoin
	GetOrCreateGroup(ctx context.Context, name string) (*domain.Group, error)

	// AddUserToGroup adds a membership / Ajoute une appartenance
	AddUserToGroup(ctx context.Context, userID, groupID int64) error

	// ListUserGroups lists group names of a user / Liste les groupes d'un utilisateur
	ListUserGroups(ctx context.Context, userID int64) ([]string, error)
}

// UserRepository is composite interface for all user operations / Interface composite pour toutes les opérations utilisateur
type UserRepository interface {
	UserReader
	UserWriter
	AccountSecurityRepository
	RoleRepository
	PermissionRepository
	GroupRepository

	// WithTx returns repository bound to a transaction / Retourne le repository lié à une transaction
	WithTx(dbtx DBTX) UserRepository
}

// ProfileRepository manages user profiles / Gère les profils utilisateur
type ProfileRepository interface {
	// Create inserts a profile / Insère un profil
	Create(ctx context.Context, profile *domain.Profile) (*domain.Profile, error)

	// GetByUserID retrieves a user's profile / Récupère le profil d'un utilisateur
	GetByUserID(ctx context.Context, userID int64) (*domain.Profile, error)

	// UpdateHistory replaces the history document / Remplace le document d'historique
	UpdateHistory(ctx context.Context, profileID int64, history map[string]any) error

	// WithTx returns repository bound to a transaction / Retourne le repository lié à une transaction
	WithTx(dbtx DBTX) ProfileRepository
}
