package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Olprog59/go-contenthub/internal/config"
	"github.com/Olprog59/go-contenthub/internal/domain"
	"github.com/Olprog59/go-contenthub/internal/logging"
	"github.com/Olprog59/go-contenthub/internal/ports"
	"github.com/Olprog59/go-contenthub/internal/repository"
)

// UserService handles user management operations / Gère les opérations de gestion des utilisateurs
type UserService struct {
	db           *sql.DB
	users        ports.UserRepository
	profiles     ports.ProfileRepository
	refreshStore ports.RefreshTokenStore
	conf         *config.Config
	metrics      UserMetricsRecorder
	log          *slog.Logger
}

// UserMetricsRecorder records user metrics / Enregistre les métriques utilisateur
type UserMetricsRecorder interface {
	RecordRegistration()
}

// NewUser carries the fields of a new account / Champs d'un nouveau compte
type NewUser struct {
	Email    string
	Username string
	Password string
}

// UserEntry pairs a user with its profile / Associe un utilisateur à son profil
type UserEntry struct {
	User    *domain.User
	Profile *domain.Profile
}

// NewUserService creates user management service instance / Crée une instance de service de gestion utilisateur
func NewUserService(
	db *sql.DB,
	repo ports.UserRepository,
	profiles ports.ProfileRepository,
	refreshStore ports.RefreshTokenStore,
	conf *config.Config,
	metrics UserMetricsRecorder,
) *UserService {
	return &UserService{
		db:           db,
		users:        repo,
		profiles:     profiles,
		refreshStore: refreshStore,
		conf:         conf,
		metrics:      metrics,
		log:          logging.Module("users"),
	}
}

// CreateUser validates and persists a regular account / Valide et enregistre un compte standard
func (s *UserService) CreateUser(ctx context.Context, in NewUser) (*domain.User, error) {
	return s.create(ctx, in, false)
}

// CreateSuperuser creates a staff superuser with the admin role.
// Reserved names are allowed.
// Crée un superutilisateur staff avec le rôle admin.
func (s *UserService) CreateSuperuser(ctx context.Context, in NewUser) (*domain.User, error) {
	return s.create(ctx, in, true)
}

// validateNewUser runs the creation checks in order and stops at the first failure.
// Exécute les vérifications de création dans l'ordre.
func (s *UserService) validateNewUser(ctx context.Context, in NewUser, superuser bool) error {
	if in.Username == "" {
		return invalid("username", ErrMissingField, "Users must have a username")
	}
	if in.Email == "" {
		return invalid("email", ErrMissingField, "Users must have an email address")
	}

	if !isValidEmail(in.Email) {
		return invalid("email", ErrInvalidFormat, "Invalid email format")
	}
	if !isValidUsername(in.Username) {
		return invalid("username", ErrInvalidFormat, "Username can only contain letters, numbers, hyphens, and underscores.")
	}

	taken, err := s.users.EmailExists(ctx, domain.NormalizeEmail(in.Email))
	if err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if taken {
		return invalid("email", ErrEmailConflict, fmt.Sprintf("Email already Exists: %s", in.Email))
	}

	if isWeakCredential(in.Password, in.Username, in.Email) {
		return invalid("password", ErrWeakCredential, "Your password should NOT be the same as your username or email!")
	}

	if !superuser && isReservedUsername(in.Username) {
		return invalid("username", ErrReservedName, fmt.Sprintf("%s has been reserved! Pick another one!", in.Username))
	}
	return nil
}

func (s *UserService) create(ctx context.Context, in NewUser, superuser bool) (*domain.User, error) {
	if err := s.validateNewUser(ctx, in, superuser); err != nil {
		return nil, err
	}

	hashed, err := hashPassword(in.Password, s.conf.Security.BcryptCost)
	if err != nil {
		s.log.Error("failed to hash password during registration", "err", err)
		return nil, errors.New("failed to process password")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin user transaction: %w", err)
	}
	defer tx.Rollback()

	txUsers := s.users.WithTx(tx)
	user, err := txUsers.Create(ctx, &domain.User{
		Username:   in.Username,
		Email:      domain.NormalizeEmail(in.Email),
		Password:   hashed,
		Role:       domain.RoleUser,
		IsActive:   true,
		DateJoined: time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			tx.Rollback()
			return nil, s.duplicateError(ctx, in)
		}
		s.log.Error("failed to create user", "err", err)
		return nil, errors.New("failed to create user account")
	}

	if superuser {
		if err := txUsers.SetStaffStatus(ctx, user.ID, true, true); err != nil {
			return nil, fmt.Errorf("set staff status: %w", err)
		}
		if err := txUsers.UpdateRole(ctx, user.ID, string(domain.RoleAdmin)); err != nil {
			return nil, fmt.Errorf("set admin role: %w", err)
		}
		user.IsStaff, user.IsSuperuser, user.Role = true, true, domain.RoleAdmin
	}

	group, err := txUsers.GetOrCreateGroup(ctx, domain.DefaultGroupName)
	if err != nil {
		return nil, fmt.Errorf("get default group: %w", err)
	}
	if err := txUsers.AddUserToGroup(ctx, user.ID, group.ID); err != nil {
		return nil, fmt.Errorf("join default group: %w", err)
	}
	user.Groups = []string{group.Name}

	profile, err := s.profiles.WithTx(tx).Create(ctx, domain.NewProfile(user))
	if err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit user transaction: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordRegistration()
	}
	s.log.Info("user created", "user_id", user.ID, "username", user.Username, "superuser", superuser, "profile", profile.String())
	return user, nil
}

// duplicateError tells a username clash from an email race / Distingue un doublon de nom d'une course sur l'email
func (s *UserService) duplicateError(ctx context.Context, in NewUser) error {
	if _, err := s.users.GetByUsername(ctx, in.Username); err == nil {
		return invalid("username", ErrUsernameConflict, fmt.Sprintf("Username already Exists: %s", in.Username))
	}
	return invalid("email", ErrEmailConflict, fmt.Sprintf("Email already Exists: %s", in.Email))
}

// GetUser retrieves a user by their ID / Récupère un utilisateur par son ID
func (s *UserService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, ErrUserNotFound
	}

	groups, err := s.users.ListUserGroups(ctx, id)
	if err != nil {
		s.log.Warn("failed to load user groups", "user_id", id, "err", err)
	}
	user.Groups = groups
	return user, nil
}

// GetProfile retrieves a user's profile / Récupère le profil d'un utilisateur
func (s *UserService) GetProfile(ctx context.Context, userID int64) (*domain.Profile, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRecord) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return profile, nil
}

// ListUsers retrieves paginated users with their profiles / Récupère les utilisateurs paginés avec leur profil
func (s *UserService) ListUsers(ctx context.Context, offset, limit int) ([]UserEntry, int, error) {
	users, totalCount, err := s.users.List(ctx, offset, limit)
	if err != nil {
		s.log.Error("failed to list users", "err", err, "offset", offset, "limit", limit)
		return nil, 0, errors.New("failed to retrieve users")
	}

	entries := make([]UserEntry, 0, len(users))
	for _, u := range users {
		entry := UserEntry{User: u}
		if profile, err := s.profiles.GetByUserID(ctx, u.ID); err == nil {
			entry.Profile = profile
		}
		entries = append(entries, entry)
	}
	return entries, totalCount, nil
}

// AppendProfileHistory merges a key into the profile history / Fusionne une clé dans l'historique du profil
func (s *UserService) AppendProfileHistory(ctx context.Context, userID int64, key string, value any) (*domain.Profile, error) {
	if key == "" {
		return nil, invalid("key", ErrMissingField, "History key is required")
	}

	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile.Record(key, value)
	if err := s.profiles.UpdateHistory(ctx, profile.ID, profile.History); err != nil {
		s.log.Error("failed to update profile history", "profile_id", profile.ID, "err", err)
		return nil, errors.New("failed to update profile")
	}
	return profile, nil
}

// DeleteUser permanently removes a user / Supprime définitivement un utilisateur
func (s *UserService) DeleteUser(ctx context.Context, userID int64) error {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return ErrUserNotFound
	}

	// Revoke all refresh tokens before deletion
	if err := s.refreshStore.RevokeAllForUser(ctx, userID); err != nil {
		s.log.Error("failed to revoke tokens during user deletion", "user_id", userID, "err", err)
	}

	if err := s.users.Delete(ctx, userID); err != nil {
		s.log.Error("failed to delete user", "user_id", userID, "err", err)
		return errors.New("failed to delete user")
	}

	return nil
}

// UpdateUserRole changes a user's role / Change le rôle d'un utilisateur
func (s *UserService) UpdateUserRole(ctx context.Context, userID int64, newRole domain.UserRole) error {
	if !newRole.IsValid() {
		return invalid("role", ErrInvalidFormat, "invalid role")
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return ErrUserNotFound
	}

	if err := s.users.UpdateRole(ctx, userID, string(newRole)); err != nil {
		s.log.Error("failed to update user role", "user_id", userID, "new_role", newRole, "err", err)
		return errors.New("failed to update user role")
	}

	return nil
}

// HasPermission checks a user permission / Vérifie une permission utilisateur
func (s *UserService) HasPermission(ctx context.Context, userID int64, permission domain.Permission) (bool, error) {
	return s.users.UserHasPermission(ctx, userID, permission)
}
