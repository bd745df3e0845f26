package dto

import (
	"time"

	"github.com/Olprog59/go-contenthub/internal/domain"
)

// RegisterRequest is DTO for registration requests / Est le DTO pour les demandes d'inscription
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,max=50"`    // Account email / Email du compte
	Username string `json:"username" validate:"required,max=30"` // Login name / Nom d'utilisateur
	Password string `json:"password" validate:"required,max=255"`
}

// LoginRequest is DTO for login requests / Est le DTO pour les demandes de connexion
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ChangePasswordRequest is DTO for password changes / Est le DTO pour le changement de mot de passe
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,max=255"`
}

// UpdateRoleRequest is DTO for role updates / Est le DTO pour la mise à jour du rôle
type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user moderator admin"`
}

// UserLoginDTOResponse is DTO for user login response / Est le DTO pour la réponse de connexion utilisateur
type UserLoginDTOResponse struct {
	ID       int64  `json:"id,omitempty"` // User unique identifier / Identifiant unique de l'utilisateur
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"` // User email address / Adresse email de l'utilisateur
	Role     string `json:"role,omitempty"`  // User role / Rôle de l'utilisateur
}

// UserLoginToDTO converts domain.User to UserLoginDTOResponse / Convertit domain.User en UserLoginDTOResponse
func UserLoginToDTO(user *domain.User) *UserLoginDTOResponse {
	return &UserLoginDTOResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     string(user.Role),
	}
}

// UserResponse is the serialized account / Compte sérialisé
type UserResponse struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	IsStaff     bool      `json:"is_staff"`
	IsSuperuser bool      `json:"is_superuser"`
	IsActive    bool      `json:"is_active"`
	DateJoined  time.Time `json:"date_joined"`
	Groups      []string  `json:"groups"`
	Profile     string    `json:"profile,omitempty"`
}

// UserToDTO converts a user and its optional profile / Convertit un utilisateur et son profil
func UserToDTO(user *domain.User, profile *domain.Profile) *UserResponse {
	groups := user.Groups
	if groups == nil {
		groups = []string{}
	}
	out := &UserResponse{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		Role:        string(user.Role),
		IsStaff:     user.IsStaff,
		IsSuperuser: user.IsSuperuser,
		IsActive:    user.IsActive,
		DateJoined:  user.DateJoined,
		Groups:      groups,
	}
	if profile != nil {
		out.Profile = profile.String()
	}
	return out
}

// ProfileResponse is the serialized profile / Profil sérialisé
type ProfileResponse struct {
	ID        int64          `json:"id"`
	UserID    int64          `json:"user"`
	Username  string         `json:"username"`
	History   map[string]any `json:"history"`
	IsActive  bool           `json:"is_active"`
	IsStaff   bool           `json:"is_staff"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// ProfileToDTO converts domain.Profile / Convertit domain.Profile
func ProfileToDTO(p *domain.Profile) *ProfileResponse {
	history := p.HistorySnapshot()
	if history == nil {
		history = map[string]any{}
	}
	return &ProfileResponse{
		ID:        p.ID,
		UserID:    p.UserID,
		Username:  p.Username,
		History:   history,
		IsActive:  p.IsActive,
		IsStaff:   p.IsStaff,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
