package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Olprog59/go-contenthub/internal/config"
	"github.com/Olprog59/go-contenthub/internal/domain"
	"github.com/Olprog59/go-contenthub/internal/logging"
	"github.com/Olprog59/go-contenthub/internal/ports"
	"github.com/Olprog59/go-contenthub/internal/service/auth"
)

// AuthService handles authentication operations / Gère les opérations d'authentification
type AuthService struct {
	users        ports.UserRepository
	refreshStore ports.RefreshTokenStore
	conf         *config.Config
	db           *sql.DB
	userLocks    map[int64]*lockEntry
	mapMutex     sync.Mutex
	metrics      AuthMetricsRecorder
	log          *slog.Logger
}

// AuthMetricsRecorder records auth metrics / Enregistre les métriques d'authentification
type AuthMetricsRecorder interface {
	RecordAccountLockout()
	RecordLoginAttempt(status string)
	RecordTokenRefresh(status string)
}

// NewAuthService creates authentication service instance / Crée une instance de service d'authentification
func NewAuthService(
	repo ports.UserRepository,
	refreshStore ports.RefreshTokenStore,
	conf *config.Config,
	db *sql.DB,
	metrics AuthMetricsRecorder,
) *AuthService {
	svc := &AuthService{
		users:        repo,
		refreshStore: refreshStore,
		conf:         conf,
		db:           db,
		userLocks:    make(map[int64]*lockEntry),
		metrics:      metrics,
		log:          logging.Module("auth"),
	}

	// Start background cleanup of inactive locks
	go svc.cleanupInactiveLocks()

	return svc
}

// getUserLock retrieves or creates user-specific mutex / Récupère ou crée un mutex utilisateur
func (s *AuthService) getUserLock(userID int64) *sync.Mutex {
	s.mapMutex.Lock()
	defer s.mapMutex.Unlock()

	entry, exists := s.userLocks[userID]
	if !exists {
		entry = &lockEntry{
			mu:       &sync.Mutex{},
			lastUsed: time.Now(),
		}
		s.userLocks[userID] = entry
	} else {
		entry.lastUsed = time.Now()
	}

	return entry.mu
}

// cleanupInactiveLocks periodically removes unused locks / Nettoie périodiquement les locks inutilisés
func (s *AuthService) cleanupInactiveLocks() {
	ticker := time.NewTicker(15 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		s.mapMutex.Lock()
		now := time.Now()
		for userID, entry := range s.userLocks {
			// Remove locks unused for more than 15 minutes / Supprime les locks inutilisés depuis plus de 15min
			if now.Sub(entry.lastUsed) > 15*time.Minute {
				delete(s.userLocks, userID)
			}
		}
		s.mapMutex.Unlock()
	}
}

// lockedError builds the lockout message / Construit le message de verrouillage
func lockedError(d time.Duration) error {
	return fmt.Errorf("account locked due to multiple failed login attempts. Try again in %s", formatLockoutDuration(d))
}

// Login authenticates user and generates tokens / Authentifie l'utilisateur et génère les tokens
func (s *AuthService) Login(ctx context.Context, email, password, ipHash, uaHash string) (*domain.User, *auth.TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		s.metrics.RecordLoginAttempt("failure")
		return nil, nil, ErrInvalidCredentials
	}

	if user.IsLocked() {
		s.metrics.RecordLoginAttempt("locked")
		return nil, nil, lockedError(time.Until(*user.LockedUntil))
	}

	if !checkPassword(user.Password, password) {
		newFailedAttempts := user.FailedLoginAttempts + 1

		if newFailedAttempts >= s.conf.Security.MaxFailedAttempts {
			lockedUntil := time.Now().Add(s.conf.Security.LockoutDuration)
			if err := s.users.LockAccount(ctx, user.ID, lockedUntil); err != nil {
				s.log.Error("failed to lock account", "user_id", user.ID, "err", err)
			}
			s.metrics.RecordAccountLockout()
			s.metrics.RecordLoginAttempt("locked")
			return nil, nil, lockedError(s.conf.Security.LockoutDuration)
		}

		if err := s.users.IncrementFailedAttempts(ctx, user.ID); err != nil {
			s.log.Error("failed to record failed login attempt", "user_id", user.ID, "err", err)
		}

		s.metrics.RecordLoginAttempt("failure")
		return nil, nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		s.metrics.RecordLoginAttempt("inactive")
		return nil, nil, ErrInactiveAccount
	}

	userLock := s.getUserLock(user.ID)
	userLock.Lock()
	defer userLock.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.log.Error("failed to start transaction for login", "err", err)
		return nil, nil, errors.New("internal server error")
	}
	defer tx.Rollback()

	txUsers := s.users.WithTx(tx)
	txRefreshStore := s.refreshStore.WithTx(tx)

	// Single session per user: older refresh tokens are revoked
	if err := txRefreshStore.RevokeAllForUser(ctx, user.ID); err != nil {
		s.log.Error("failed to revoke user tokens during login", "err", err)
		return nil, nil, errors.New("internal server error")
	}

	tokenPair, err := s.issue(ctx, txRefreshStore, user, ipHash, uaHash)
	if err != nil {
		return nil, nil, err
	}

	if err := txUsers.ResetFailedAttempts(ctx, user.ID); err != nil {
		s.log.Error("failed to reset failed login attempts", "user_id", user.ID, "err", err)
	}

	if err := tx.Commit(); err != nil {
		s.log.Error("failed to commit login transaction", "err", err)
		return nil, nil, errors.New("internal server error")
	}

	s.metrics.RecordLoginAttempt("success")
	user.FailedLoginAttempts = 0
	return user, tokenPair, nil
}

// issue generates a token pair and stores its refresh half / Génère une paire et stocke le refresh token
func (s *AuthService) issue(ctx context.Context, store ports.RefreshTokenStore, user *domain.User, ipHash, uaHash string) (*auth.TokenPair, error) {
	tokenPair, err := auth.GenerateTokenPair(
		auth.Subject{UserID: user.ID, Role: string(user.Role), Username: user.Username},
		s.conf.Auth.JWTSecret,
		s.conf.Auth.AccessTokenDuration,
		s.conf.Auth.RefreshTokenDuration,
	)
	if err != nil {
		s.log.Error("failed to generate token pair", "err", err)
		return nil, errors.New("internal server error")
	}

	now := time.Now()
	refreshToken := &domain.RefreshToken{
		Token:     tokenPair.RefreshToken,
		UserID:    user.ID,
		IssueAt:   now,
		ExpiresAt: now.Add(s.conf.Auth.RefreshTokenDuration),
		IPHash:    ipHash,
		UAHash:    uaHash,
	}
	if err := store.Save(ctx, refreshToken); err != nil {
		s.log.Error("failed to save refresh token", "err", err)
		return nil, errors.New("internal server error")
	}
	return tokenPair, nil
}

// RefreshToken validates and rotates refresh token / Valide et renouvelle le refresh token
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken, ipHash, uaHash string) (*auth.TokenPair, error) {
	tokenRecord, err := s.refreshStore.Get(ctx, refreshToken)
	if err != nil {
		s.metrics.RecordTokenRefresh("invalid")
		return nil, errors.New("invalid refresh token")
	}

	if tokenRecord.IsRevoked {
		s.metrics.RecordTokenRefresh("revoked")
		return nil, errors.New("revoked refresh token")
	}

	if tokenRecord.IsTokenExpired() {
		s.metrics.RecordTokenRefresh("expired")
		return nil, errors.New("expired refresh token")
	}

	if tokenRecord.IPHash != ipHash || tokenRecord.UAHash != uaHash {
		s.log.Warn("refresh token binding validation failed",
			"user_id", tokenRecord.UserID,
			"expected_ip", tokenRecord.IPHash,
			"got_ip", ipHash,
			"expected_ua", tokenRecord.UAHash,
			"got_ua", uaHash,
		)
		s.metrics.RecordTokenRefresh("binding_failure")
		return nil, errors.New("refresh token binding validation failed")
	}

	user, err := s.users.GetByID(ctx, tokenRecord.UserID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	if !user.IsActive {
		return nil, ErrInactiveAccount
	}

	userLock := s.getUserLock(user.ID)
	userLock.Lock()
	defer userLock.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.log.Error("failed to start transaction for token refresh", "err", err)
		return nil, errors.New("internal server error")
	}
	defer tx.Rollback()

	txRefreshStore := s.refreshStore.WithTx(tx)

	if err := txRefreshStore.Revoke(ctx, refreshToken); err != nil {
		s.log.Error("failed to revoke old refresh token", "err", err)
		return nil, errors.New("internal server error")
	}

	newTokenPair, err := s.issue(ctx, txRefreshStore, user, ipHash, uaHash)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		s.log.Error("failed to commit token refresh transaction", "err", err)
		return nil, errors.New("internal server error")
	}

	s.metrics.RecordTokenRefresh("success")
	return newTokenPair, nil
}

// ValidateCredentials checks if credentials are valid / Vérifie si les identifiants sont valides
func (s *AuthService) ValidateCredentials(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if !checkPassword(user.Password, password) {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// RevokeAllTokens revokes all refresh tokens for a user / Révoque tous les refresh tokens d'un utilisateur
func (s *AuthService) RevokeAllTokens(ctx context.Context, userID int64) error {
	lock := s.getUserLock(userID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.refreshStore.RevokeAllForUser(ctx, userID); err != nil {
		s.log.Error("failed to revoke tokens", "err", err, "user_id", userID)
		return errors.New("internal server error")
	}

	s.log.Info("all refresh tokens revoked", "user_id", userID)
	return nil
}
