package web

import (
	"net/http"
	"strconv"

	"github.com/Olprog59/go-contenthub/internal/domain"
	"github.com/Olprog59/go-contenthub/internal/dto"
)

const (
	defaultUserPageSize = 20
	maxUserPageSize     = 100
)

// ListUsers returns paginated list of users / Retourne la liste paginée des utilisateurs
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, limit := 1, defaultUserPageSize
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 {
		limit = min(l, maxUserPageSize)
	}

	entries, total, err := h.container.UserSvc.ListUsers(r.Context(), (page-1)*limit, limit)
	if err != nil {
		h.handleError(w, r, "list_users", err)
		return
	}

	users := make([]*dto.UserResponse, len(entries))
	for i, e := range entries {
		users[i] = dto.UserToDTO(e.User, e.Profile)
	}

	jsonResponse(w, map[string]any{
		"users": users,
		"pagination": map[string]int{
			"total":      total,
			"page":       page,
			"limit":      limit,
			"totalPages": (total + limit - 1) / limit,
		},
	})
}

// GetProfile returns a profile; other users' profiles need profiles:view_others.
// Retourne un profil; ceux des autres exigent profiles:view_others.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	targetID, err := pathID(r, "id")
	if err != nil {
		h.handleError(w, r, "get_profile", err)
		return
	}

	userID, _ := UserIDFromContext(r.Context())
	if targetID != userID {
		allowed, err := h.container.UserSvc.HasPermission(r.Context(), userID, domain.PermissionProfilesViewOthers)
		if err != nil {
			h.handleError(w, r, "get_profile", err)
			return
		}
		if !allowed {
			h.container.Metrics.RecordPermissionDenial(domain.PermissionProfilesViewOthers.String())
			ErrorResponse(w, "Insufficient permissions", http.StatusForbidden)
			return
		}
	}

	profile, err := h.container.UserSvc.GetProfile(r.Context(), targetID)
	if err != nil {
		h.handleError(w, r, "get_profile", err)
		return
	}

	jsonResponse(w, dto.ProfileToDTO(profile))
}

// DeleteUser deletes a user by ID / Supprime un utilisateur par ID
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		h.handleError(w, r, "delete_user", err)
		return
	}

	if err := h.container.UserSvc.DeleteUser(r.Context(), userID); err != nil {
		h.handleError(w, r, "delete_user", err)
		return
	}

	jsonResponse(w, map[string]string{"message": "User deleted successfully"})
}

// UpdateUserRole changes a user's role and rotates the caller's CSRF token.
// Met à jour le rôle d'un utilisateur.
func (h *Handler) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "id")
	if err != nil {
		h.handleError(w, r, "update_role", err)
		return
	}

	var req dto.UpdateRoleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.handleError(w, r, "update_role", err)
		return
	}

	if err := h.container.UserSvc.UpdateUserRole(r.Context(), userID, domain.UserRole(req.Role)); err != nil {
		h.handleError(w, r, "update_role", err)
		return
	}

	if _, err := h.rotateCSRFToken(w); err != nil {
		LoggerFromContext(r.Context(), h.log).Error("failed to rotate CSRF token after role update", "err", err)
	}

	jsonResponse(w, map[string]string{"message": "User role updated successfully"})
}
