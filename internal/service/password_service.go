package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Olprog59/go-contenthub/internal/config"
	"github.com/Olprog59/go-contenthub/internal/logging"
	"github.com/Olprog59/go-contenthub/internal/ports"
)

// PasswordService handles password operations / Gère les opérations de mot de passe
type PasswordService struct {
	users        ports.UserRepository
	refreshStore ports.RefreshTokenStore
	conf         *config.Config
	log          *slog.Logger
}

// NewPasswordService creates a new password management service instance.
func NewPasswordService(
	repo ports.UserRepository,
	refreshStore ports.RefreshTokenStore,
	conf *config.Config,
) *PasswordService {
	return &PasswordService{
		users:        repo,
		refreshStore: refreshStore,
		conf:         conf,
		log:          logging.Module("users"),
	}
}

// ChangePassword allows password change with current password verification / Permet le changement de mot de passe avec vérification
func (s *PasswordService) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return ErrUserNotFound
	}

	if !checkPassword(user.Password, currentPassword) {
		return invalid("current_password", ErrInvalidFormat, "current password is incorrect")
	}

	if newPassword == "" {
		return invalid("new_password", ErrMissingField, "new password is required")
	}

	if isWeakCredential(newPassword, user.Username, user.Email) {
		return invalid("new_password", ErrWeakCredential, "Your password should NOT be the same as your username or email!")
	}

	// Prevent password reuse
	if checkPassword(user.Password, newPassword) {
		return invalid("new_password", ErrWeakCredential, "new password must be different from current password")
	}

	hashedPassword, err := hashPassword(newPassword, s.conf.Security.BcryptCost)
	if err != nil {
		s.log.Error("failed to hash new password", "err", err)
		return errors.New("failed to process password")
	}

	if err := s.users.UpdatePassword(ctx, userID, hashedPassword); err != nil {
		s.log.Error("failed to update password", "user_id", userID, "err", err)
		return errors.New("failed to update password")
	}

	// Revoke all refresh tokens to force re-login
	if err := s.refreshStore.RevokeAllForUser(ctx, userID); err != nil {
		s.log.Error("failed to revoke refresh tokens after password change", "user_id", userID, "err", err)
	}

	return nil
}
