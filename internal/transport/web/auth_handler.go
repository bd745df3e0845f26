package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Olprog59/go-contenthub/internal/dto"
	"github.com/Olprog59/go-contenthub/internal/service"
)

// Register creates an account through the user validator chain / Crée un compte via la chaîne de validation
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.handleError(w, r, "register", err)
		return
	}

	user, err := h.container.UserSvc.CreateUser(r.Context(), service.NewUser{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.handleError(w, r, "register", err)
		return
	}

	profile, err := h.container.UserSvc.GetProfile(r.Context(), user.ID)
	if err != nil {
		h.handleError(w, r, "register", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.UserToDTO(user, profile))
}

// Login handles user authentication / Gère l'authentification de l'utilisateur
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.handleError(w, r, "login", err)
		return
	}

	ipHash, uaHash := h.clientHashes(r)
	user, pair, err := h.container.AuthSvc.Login(r.Context(), req.Email, req.Password, ipHash, uaHash)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			ErrorResponse(w, err.Error(), http.StatusUnauthorized)
		case errors.Is(err, service.ErrInactiveAccount):
			ErrorResponse(w, err.Error(), http.StatusForbidden)
		case strings.Contains(err.Error(), "account locked"):
			ErrorResponse(w, err.Error(), http.StatusTooManyRequests)
		default:
			h.handleError(w, r, "login", err)
		}
		return
	}

	h.setAuthCookies(w, pair)
	if _, err := h.rotateCSRFToken(w); err != nil {
		h.handleError(w, r, "login", err)
		return
	}

	jsonResponse(w, dto.UserLoginToDTO(user))
}

// RefreshToken rotates the refresh token bound to this client.
// The token comes from the JSON body or, failing that, the refresh_token cookie.
func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			h.handleError(w, r, "refresh", err)
			return
		}
	}
	if req.RefreshToken == "" {
		if c, err := r.Cookie(refreshTokenCookie); err == nil {
			req.RefreshToken = c.Value
		}
	}
	if req.RefreshToken == "" {
		ErrorResponse(w, "refresh token is required", http.StatusBadRequest)
		return
	}

	ipHash, uaHash := h.clientHashes(r)
	pair, err := h.container.AuthSvc.RefreshToken(r.Context(), req.RefreshToken, ipHash, uaHash)
	if err != nil {
		if strings.Contains(err.Error(), "binding") {
			h.container.Metrics.RecordTokenBindingFailure()
		}
		ErrorResponse(w, err.Error(), http.StatusUnauthorized)
		return
	}

	h.setAuthCookies(w, pair)
	jsonResponse(w, pair)
}

// Me returns the current user with its profile / Retourne l'utilisateur courant et son profil
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.container.UserSvc.GetUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		h.handleError(w, r, "me", err)
		return
	}

	profile, err := h.container.UserSvc.GetProfile(r.Context(), userID)
	if err != nil && !errors.Is(err, service.ErrProfileNotFound) {
		h.handleError(w, r, "me", err)
		return
	}

	jsonResponse(w, dto.UserToDTO(user, profile))
}

// Logout revokes every refresh token of the user and clears the cookies.
// Déconnecte l'utilisateur de tous ses appareils.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.container.AuthSvc.RevokeAllTokens(r.Context(), userID); err != nil {
		h.handleError(w, r, "logout", err)
		return
	}

	h.clearAuthCookies(w)
	jsonResponse(w, map[string]string{"message": "Logged out successfully"})
}

// ChangePassword checks the current password and sets a new one; every session is revoked.
// Change le mot de passe et révoque toutes les sessions.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req dto.ChangePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.handleError(w, r, "change_password", err)
		return
	}

	if err := h.container.PasswordSvc.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		h.handleError(w, r, "change_password", err)
		return
	}

	h.clearAuthCookies(w)
	jsonResponse(w, map[string]string{"message": "Password changed successfully. Please log in again."})
}
