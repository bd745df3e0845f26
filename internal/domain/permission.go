package domain

// Permission represents granular permission (resource:action pattern) / Permission granulaire (pattern resource:action)
type Permission string

// Predefined permissions / Permissions prédéfinies
const (
	PermissionUsersRead          Permission = "users:read"
	PermissionUsersDelete        Permission = "users:delete"
	PermissionUsersList          Permission = "users:list"
	PermissionRolesWrite         Permission = "roles:write"
	PermissionProfilesViewOthers Permission = "profiles:view_others"
	PermissionProfilesEditOthers Permission = "profiles:edit_others"
	PermissionBlogWrite          Permission = "blog:write"
	PermissionFlashcardsWrite    Permission = "flashcards:write"
	PermissionSystemAdmin        Permission = "system:admin"
)

// AllPermissions returns all defined permissions / Retourne toutes les permissions définies
func AllPermissions() []Permission {
	return []Permission{
		PermissionUsersRead,
		PermissionUsersDelete,
		PermissionUsersList,
		PermissionRolesWrite,
		PermissionProfilesViewOthers,
		PermissionProfilesEditOthers,
		PermissionBlogWrite,
		PermissionFlashcardsWrite,
		PermissionSystemAdmin,
	}
}

// String returns permission as string / Retourne la permission en string
func (p Permission) String() string {
	return string(p)
}

// DefaultPermissionsForRole returns default permissions for role / Retourne les permissions par défaut du rôle
func DefaultPermissionsForRole(role UserRole) []Permission {
	switch role {
	case RoleUser:
		return []Permission{}

	case RoleModerator:
		return []Permission{
			PermissionUsersRead,
			PermissionUsersList,
			PermissionProfilesViewOthers,
			PermissionBlogWrite,
			PermissionFlashcardsWrite,
		}

	case RoleAdmin:
		return AllPermissions()

	default:
		return []Permission{}
	}
}
