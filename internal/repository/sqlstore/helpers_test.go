package sqlstore_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/Olprog59/go-contenthub/internal/domain"
	"github.com/Olprog59/go-contenthub/internal/ports"
	"github.com/stretchr/testify/require"
)

func createUser(t *testing.T, repo ports.UserRepository, username string) *domain.User {
	t.Helper()
	u, err := repo.Create(context.Background(), &domain.User{
		Username: username,
		Email:    fmt.Sprintf("%s@example.com", username),
		Password: "hashed",
		IsActive: true,
	})
	require.NoError(t, err)
	return u
}

func itoa(n int64) string {
	return fmt.Sprintf("%d", n)
}
