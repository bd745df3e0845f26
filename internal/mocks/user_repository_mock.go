package mocks

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/Olprog59/go-contenthub/internal/domain"
	"github.com/Olprog59/go-contenthub/internal/ports"
	"github.com/Olprog59/go-contenthub/internal/repository/db"
)

// MockUserRepository is a mock implementation of ports.UserRepository for testing
type MockUserRepository struct {
	// Mock data storage
	Users       map[int64]*domain.User
	Groups      map[string]*domain.Group
	Memberships map[int64][]string
	Permissions map[string][]domain.Permission // role -> permissions

	// Mock behavior flags
	CreateError          error
	GetByIDError         error
	GetByEmailError      error
	EmailExistsError     error
	DeleteError          error
	UpdateRoleError      error
	LockAccountError     error
	IncrementFailedError error
	ResetFailedError     error
	UpdatePasswordError  error
	ListError            error

	// Call tracking
	CreateCalls          int
	GetByIDCalls         int
	GetByEmailCalls      int
	EmailExistsCalls     int
	DeleteCalls          int
	UpdateRoleCalls      int
	LockAccountCalls     int
	IncrementFailedCalls int
	ResetFailedCalls     int
	UpdatePasswordCalls  int
}

// NewMockUserRepository creates a new mock user repository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users:       make(map[int64]*domain.User),
		Groups:      make(map[string]*domain.Group),
		Memberships: make(map[int64][]string),
		Permissions: map[string][]domain.Permission{
			string(domain.RoleModerator): domain.DefaultPermissionsForRole(domain.RoleModerator),
			string(domain.RoleAdmin):     domain.DefaultPermissionsForRole(domain.RoleAdmin),
		},
	}
}

func (m *MockUserRepository) nextID() int64 {
	var maxID int64
	for id := range m.Users {
		maxID = max(maxID, id)
	}
	return maxID + 1
}

func (m *MockUserRepository) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	m.CreateCalls++
	if m.CreateError != nil {
		return nil, m.CreateError
	}

	for _, existing := range m.Users {
		if strings.EqualFold(existing.Email, u.Email) || existing.Username == u.Username {
			return nil, db.ErrDuplicate
		}
	}

	user := *u
	user.ID = m.nextID()
	if user.Role == "" {
		user.Role = domain.RoleUser
	}
	m.Users[user.ID] = &user
	return &user, nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	m.GetByIDCalls++
	if m.GetByIDError != nil {
		return nil, m.GetByIDError
	}

	user, ok := m.Users[id]
	if !ok {
		return nil, db.ErrNoRecord
	}
	return user, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.GetByEmailCalls++
	if m.GetByEmailError != nil {
		return nil, m.GetByEmailError
	}

	for _, user := range m.Users {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}
	return nil, db.ErrNoRecord
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	for _, user := range m.Users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, db.ErrNoRecord
}

func (m *MockUserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	m.EmailExistsCalls++
	if m.EmailExistsError != nil {
		return false, m.EmailExistsError
	}

	for _, user := range m.Users {
		if strings.EqualFold(user.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockUserRepository) List(ctx context.Context, offset, limit int) ([]*domain.User, int, error) {
	if m.ListError != nil {
		return nil, 0, m.ListError
	}

	users := make([]*domain.User, 0, len(m.Users))
	for _, user := range m.Users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })

	total := len(users)
	if offset >= total {
		return []*domain.User{}, total, nil
	}
	end := min(offset+limit, total)
	return users[offset:end], total, nil
}

func (m *MockUserRepository) CountUsers(ctx context.Context) (int, error) {
	return len(m.Users), nil
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, userID int64, hashedPassword string) error {
	m.UpdatePasswordCalls++
	if m.UpdatePasswordError != nil {
		return m.UpdatePasswordError
	}

	user, ok := m.Users[userID]
	if !ok {
		return db.ErrNoRecord
	}
	user.Password = hashedPassword
	return nil
}

func (m *MockUserRepository) SetStaffStatus(ctx context.Context, userID int64, isStaff, isSuperuser bool) error {
	user, ok := m.Users[userID]
	if !ok {
		return db.ErrNoRecord
	}
	user.IsStaff = isStaff
	user.IsSuperuser = isSuperuser
	return nil
}

func (m *MockUserRepository) Delete(ctx context.Context, id int64) error {
	m.DeleteCalls++
	if m.DeleteError != nil {
		return m.DeleteError
	}

	if _, ok := m.Users[id]; !ok {
		return db.ErrNoRecord
	}
	delete(m.Users, id)
	delete(m.Memberships, id)
	return nil
}

func (m *MockUserRepository) IncrementFailedAttempts(ctx context.Context, userID int64) error {
	m.IncrementFailedCalls++
	if m.IncrementFailedError != nil {
		return m.IncrementFailedError
	}

	if user, ok := m.Users[userID]; ok {
		user.FailedLoginAttempts++
	}
	return nil
}

func (m *MockUserRepository) ResetFailedAttempts(ctx context.Context, userID int64) error {
	m.ResetFailedCalls++
	if m.ResetFailedError != nil {
		return m.ResetFailedError
	}

	if user, ok := m.Users[userID]; ok {
		user.FailedLoginAttempts = 0
		user.LockedUntil = nil
	}
	return nil
}

func (m *MockUserRepository) LockAccount(ctx context.Context, userID int64, until time.Time) error {
	m.LockAccountCalls++
	if m.LockAccountError != nil {
		return m.LockAccountError
	}

	if user, ok := m.Users[userID]; ok {
		user.LockedUntil = &until
	}
	return nil
}

func (m *MockUserRepository) UpdateRole(ctx context.Context, userID int64, role string) error {
	m.UpdateRoleCalls++
	if m.UpdateRoleError != nil {
		return m.UpdateRoleError
	}

	user, ok := m.Users[userID]
	if !ok {
		return db.ErrNoRecord
	}
	user.Role = domain.UserRole(role)
	return nil
}

func (m *MockUserRepository) GetPermissionsForRole(ctx context.Context, role string) ([]domain.Permission, error) {
	return m.Permissions[role], nil
}

func (m *MockUserRepository) UserHasPermission(ctx context.Context, userID int64, permission domain.Permission) (bool, error) {
	user, ok := m.Users[userID]
	if !ok || !user.IsActive {
		return false, nil
	}
	if user.IsSuperuser {
		return true, nil
	}
	for _, p := range m.Permissions[string(user.Role)] {
		if p == permission {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockUserRepository) AddPermissionToRole(ctx context.Context, role string, permission domain.Permission) error {
	m.Permissions[role] = append(m.Permissions[role], permission)
	return nil
}

func (m *MockUserRepository) RemovePermissionFromRole(ctx context.Context, role string, permission domain.Permission) error {
	kept := m.Permissions[role][:0]
	for _, p := range m.Permissions[role] {
		if p != permission {
			kept = append(kept, p)
		}
	}
	m.Permissions[role] = kept
	return nil
}

func (m *MockUserRepository) GetOrCreateGroup(ctx context.Context, name string) (*domain.Group, error) {
	if g, ok := m.Groups[name]; ok {
		return g, nil
	}
	g := &domain.Group{ID: int64(len(m.Groups) + 1), Name: name}
	m.Groups[name] = g
	return g, nil
}

func (m *MockUserRepository) AddUserToGroup(ctx context.Context, userID, groupID int64) error {
	for name, g := range m.Groups {
		if g.ID == groupID {
			m.Memberships[userID] = append(m.Memberships[userID], name)
			return nil
		}
	}
	return db.ErrForeignKeyViolation
}

func (m *MockUserRepository) ListUserGroups(ctx context.Context, userID int64) ([]string, error) {
	return m.Memberships[userID], nil
}

// WithTx returns the same mock; the mock has no transactions
func (m *MockUserRepository) WithTx(dbtx ports.DBTX) ports.UserRepository {
	return m
}
