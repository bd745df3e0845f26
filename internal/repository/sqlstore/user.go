package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Olprog59/go-contenthub/internal/domain"
	"github.com/Olprog59/go-contenthub/internal/ports"
	"github.com/Olprog59/go-contenthub/internal/repository/db"
)

var _ ports.UserRepository = (*userRepository)(nil)

const userColumns = `id, username, email, password, role, is_staff, is_superuser, is_active,
	date_joined, failed_login_attempts, locked_until`

// userRepository implements UserRepository / Implémente UserRepository
type userRepository struct {
	store
}

// NewUserRepository creates user repository / Crée le repository utilisateur
func NewUserRepository(conn *sql.DB, dialect db.Dialect) ports.UserRepository {
	return &userRepository{store: newStore(conn, dialect)}
}

// WithTx returns repository with transaction / Retourne le repository avec transaction
func (r *userRepository) WithTx(dbtx ports.DBTX) ports.UserRepository {
	return &userRepository{store: newStore(dbtx, r.dialect)}
}

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	user := &domain.User{}
	var role string
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Password,
		&role,
		&user.IsStaff,
		&user.IsSuperuser,
		&user.IsActive,
		&user.DateJoined,
		&user.FailedLoginAttempts,
		&user.LockedUntil,
	)
	user.Role = domain.UserRole(role)
	return user, err
}

// Create inserts new user in database / Insère un nouvel utilisateur dans la BD
func (r *userRepository) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	role := u.Role
	if role == "" {
		role = domain.RoleUser
	}
	joined := u.DateJoined
	if joined.IsZero() {
		joined = time.Now().UTC()
	}

	id, err := r.insert(ctx,
		`INSERT INTO users (username, email, password, role, is_staff, is_superuser, is_active, date_joined, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.Username, u.Email, u.Password, string(role), u.IsStaff, u.IsSuperuser, u.IsActive, joined, joined,
	)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// GetByID retrieves user by ID / Récupère l'utilisateur par ID
func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := scanUser(r.queryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if err != nil {
		return nil, r.dialect.TranslateError(err)
	}
	return user, nil
}

// GetByEmail retrieves user by email / Récupère l'utilisateur par email
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := scanUser(r.queryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email))
	if err != nil {
		return nil, r.dialect.TranslateError(err)
	}
	return user, nil
}

// GetByUsername retrieves user by username / Récupère l'utilisateur par nom
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := scanUser(r.queryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username))
	if err != nil {
		return nil, r.dialect.TranslateError(err)
	}
	return user, nil
}

// EmailExists checks email uniqueness case-insensitively / Vérifie l'unicité de l'email sans casse
func (r *userRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(email) = LOWER(?))`, email)
}

// List retrieves paginated users / Récupère les utilisateurs paginés
func (r *userRepository) List(ctx context.Context, offset, limit int) ([]*domain.User, int, error) {
	total, err := r.CountUsers(ctx)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, r.dialect.TranslateError(err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, r.dialect.TranslateError(err)
	}

	return users, total, nil
}

// CountUsers returns total user count / Retourne le nombre total d'utilisateurs
func (r *userRepository) CountUsers(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM users`)
}

// UpdatePassword updates user password / Met à jour le mot de passe
func (r *userRepository) UpdatePassword(ctx context.Context, userID int64, hashedPassword string) error {
	res, err := r.exec(ctx, `UPDATE users SET password = ?, updated_at = ? WHERE id = ?`,
		hashedPassword, time.Now().UTC(), userID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// SetStaffStatus updates staff flags / Met à jour les drapeaux staff
func (r *userRepository) SetStaffStatus(ctx context.Context, userID int64, isStaff, isSuperuser bool) error {
	res, err := r.exec(ctx, `UPDATE users SET is_staff = ?, is_superuser = ?, updated_at = ? WHERE id = ?`,
		isStaff, isSuperuser, time.Now().UTC(), userID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// Delete removes user by ID, cascading to owned rows / Supprime l'utilisateur et ses lignes liées
func (r *userRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.exec(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// IncrementFailedAttempts increments failed login attempts / Incrémente les tentatives échouées
func (r *userRepository) IncrementFailedAttempts(ctx context.Context, userID int64) error {
	_, err := r.exec(ctx, `UPDATE users SET failed_login_attempts = failed_login_attempts + 1 WHERE id = ?`, userID)
	return err
}

// ResetFailedAttempts resets failed login attempts / Réinitialise les tentatives échouées
func (r *userRepository) ResetFailedAttempts(ctx context.Context, userID int64) error {
	_, err := r.exec(ctx, `UPDATE users SET failed_login_attempts = 0, locked_until = NULL WHERE id = ?`, userID)
	return err
}

// LockAccount locks user account / Verrouille le compte utilisateur
func (r *userRepository) LockAccount(ctx context.Context, userID int64, until time.Time) error {
	_, err := r.exec(ctx, `UPDATE users SET locked_until = ? WHERE id = ?`, until, userID)
	return err
}

// UpdateRole changes user role / Change le rôle utilisateur
func (r *userRepository) UpdateRole(ctx context.Context, userID int64, role string) error {
	res, err := r.exec(ctx, `UPDATE users SET role = ?, updated_at = ? WHERE id = ?`, role, time.Now().UTC(), userID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// GetPermissionsForRole retrieves permissions for role / Récupère les permissions du rôle
func (r *userRepository) GetPermissionsForRole(ctx context.Context, role string) ([]domain.Permission, error) {
	rows, err := r.query(ctx, `SELECT permission FROM role_permissions WHERE role = ? ORDER BY permission`, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var permissions []domain.Permission
	for rows.Next() {
		var perm string
		if err := rows.Scan(&perm); err != nil {
			return nil, r.dialect.TranslateError(err)
		}
		permissions = append(permissions, domain.Permission(perm))
	}
	if err := rows.Err(); err != nil {
		return nil, r.dialect.TranslateError(err)
	}
	return permissions, nil
}

// UserHasPermission checks role permissions; superusers have all of them.
// Vérifie les permissions du rôle ; un superuser les a toutes.
func (r *userRepository) UserHasPermission(ctx context.Context, userID int64, permission domain.Permission) (bool, error) {
	return r.exists(ctx, `
		SELECT EXISTS(
			SELECT 1
			FROM users u
			LEFT JOIN role_permissions rp ON u.role = rp.role AND rp.permission = ?
			WHERE u.id = ? AND u.is_active = ? AND (u.is_superuser = ? OR rp.permission IS NOT NULL)
		)`, permission.String(), userID, true, true)
}

// AddPermissionToRole assigns permission to role / Assigne la permission au rôle
func (r *userRepository) AddPermissionToRole(ctx context.Context, role string, permission domain.Permission) error {
	_, err := r.exec(ctx, `INSERT INTO role_permissions (role, permission, created_at) VALUES (?, ?, ?)`,
		role, permission.String(), time.Now().UTC())
	return err
}

// RemovePermissionFromRole removes permission from role / Retire la permission du rôle
func (r *userRepository) RemovePermissionFromRole(ctx context.Context, role string, permission domain.Permission) error {
	_, err := r.exec(ctx, `DELETE FROM role_permissions WHERE role = ? AND permission = ?`, role, permission.String())
	return err
}

// GetOrCreateGroup returns the named group / Retourne le groupe nommé
func (r *userRepository) GetOrCreateGroup(ctx context.Context, name string) (*domain.Group, error) {
	group := &domain.Group{Name: name}
	err := r.queryRow(ctx, `SELECT id FROM auth_groups WHERE name = ?`, name).Scan(&group.ID)
	if err == nil {
		return group, nil
	}
	if err = r.dialect.TranslateError(err); !errors.Is(err, db.ErrNoRecord) {
		return nil, err
	}

	group.ID, err = r.insert(ctx, `INSERT INTO auth_groups (name) VALUES (?)`, name)
	if err != nil {
		return nil, err
	}
	return group, nil
}

// AddUserToGroup adds a membership, ignoring existing ones / Ajoute une appartenance
func (r *userRepository) AddUserToGroup(ctx context.Context, userID, groupID int64) error {
	member, err := r.exists(ctx,
		`SELECT EXISTS(SELECT 1 FROM auth_group_members WHERE user_id = ? AND group_id = ?)`, userID, groupID)
	if err != nil || member {
		return err
	}
	_, err = r.exec(ctx, `INSERT INTO auth_group_members (user_id, group_id) VALUES (?, ?)`, userID, groupID)
	return err
}

// ListUserGroups lists group names / Liste les noms de groupes
func (r *userRepository) ListUserGroups(ctx context.Context, userID int64) ([]string, error) {
	rows, err := r.query(ctx, `
		SELECT g.name
		FROM auth_groups g
		JOIN auth_group_members m ON m.group_id = g.id
		WHERE m.user_id = ?
		ORDER BY g.name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, r.dialect.TranslateError(err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
