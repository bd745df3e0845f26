package domain

import (
	"strings"
	"time"
)

// UserRole represents user's role for authorization / Représente le rôle utilisateur pour l'autorisation
type UserRole string

const (
	RoleUser      UserRole = "user"      // Default role for new users / Rôle par défaut pour nouveaux utilisateurs
	RoleModerator UserRole = "moderator" // Moderator with elevated permissions / Modérateur avec permissions élevées
	RoleAdmin     UserRole = "admin"     // Full admin access / Accès administrateur complet
)

// Field limits for user accounts / Limites des champs du compte utilisateur
const (
	MaxUsernameLength = 30
	MaxEmailLength    = 50
)

// IsValid checks if role is valid / Vérifie si le rôle est valide
func (r UserRole) IsValid() bool {
	return r == RoleUser || r == RoleModerator || r == RoleAdmin
}

// User represents domain user entity / Représente l'entité utilisateur du domaine
type User struct {
	ID                  int64
	Username            string
	Email               string
	Password            string // Hashed password / Mot de passe haché
	Role                UserRole
	IsStaff             bool
	IsSuperuser         bool
	IsActive            bool
	DateJoined          time.Time
	FailedLoginAttempts int        // Failed login counter / Compteur d'échecs de connexion
	LockedUntil         *time.Time // Account lock expiry / Expiration du verrouillage du compte
	Groups              []string
	Token               *RefreshToken
}

// IsLocked checks if account is locked / Vérifie si le compte est verrouillé
func (u *User) IsLocked() bool {
	if u.LockedUntil == nil {
		return false
	}
	return time.Now().Before(*u.LockedUntil)
}

// NormalizeEmail lowercases the domain part / Met en minuscules la partie domaine
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at] + "@" + strings.ToLower(email[at+1:])
}

// EmailLocalPart returns the text before '@' / Retourne le texte avant '@'
func EmailLocalPart(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}

// RefreshToken represents refresh token entity / Représente l'entité refresh token
type RefreshToken struct {
	Token     string // Hashed token value / Valeur du token hachée
	UserID    int64
	IssueAt   time.Time
	ExpiresAt time.Time
	IsRevoked bool
	IPHash    string // SHA-256 hash of client IP / Hash SHA-256 de l'IP client
	UAHash    string // SHA-256 hash of User-Agent / Hash SHA-256 du User-Agent
}

// IsTokenExpired checks if token expired / Vérifie si le token est expiré
func (rt *RefreshToken) IsTokenExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}
