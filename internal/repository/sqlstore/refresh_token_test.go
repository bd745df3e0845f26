package sqlstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/Olprog59/go-contenthub/internal/domain"
	"github.com/Olprog59/go-contenthub/internal/ports"
	"github.com/Olprog59/go-contenthub/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newToken(value string, userID int64, expires time.Time) *domain.RefreshToken {
	return &domain.RefreshToken{
		Token:     value,
		UserID:    userID,
		IssueAt:   time.Now(),
		ExpiresAt: expires,
		IPHash:    "ip-hash",
		UAHash:    "ua-hash",
	}
}

func TestRefreshTokenStore_SaveAndGet(t *testing.T) {
	adapter, conn := repository.NewTestAdapter(t)
	user := createUser(t, adapter.UserRepository(), "jack")
	store := adapter.RefreshTokenStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, newToken("test-token-12345", user.ID, time.Now().Add(24*time.Hour))))

	var stored string
	require.NoError(t, conn.QueryRow(`SELECT token FROM refresh_tokens`).Scan(&stored))
	assert.NotEqual(t, "test-token-12345", stored, "token must be stored hashed")

	got, err := store.Get(ctx, "test-token-12345")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.UserID)
	assert.Equal(t, "ip-hash", got.IPHash)
	assert.False(t, got.IsRevoked)
	assert.False(t, got.IsTokenExpired())

	_, err = store.Get(ctx, "non-existent-token")
	assert.ErrorIs(t, err, ports.ErrNotFound)

	assert.Error(t, store.Save(ctx, nil))
}

func TestRefreshTokenStore_Revoke(t *testing.T) {
	adapter, _ := repository.NewTestAdapter(t)
	users := adapter.UserRepository()
	a := createUser(t, users, "kate")
	b := createUser(t, users, "liam")
	store := adapter.RefreshTokenStore()
	ctx := context.Background()

	for _, v := range []string{"a-token", "b-token"} {
		require.NoError(t, store.Save(ctx, newToken(v, a.ID, time.Now().Add(time.Hour))))
	}
	require.NoError(t, store.Save(ctx, newToken("other-user-token", b.ID, time.Now().Add(time.Hour))))

	require.NoError(t, store.Revoke(ctx, "a-token"))
	got, err := store.Get(ctx, "a-token")
	require.NoError(t, err)
	assert.True(t, got.IsRevoked)

	require.NoError(t, store.RevokeAllForUser(ctx, a.ID))
	got, err = store.Get(ctx, "b-token")
	require.NoError(t, err)
	assert.True(t, got.IsRevoked)

	got, err = store.Get(ctx, "other-user-token")
	require.NoError(t, err)
	assert.False(t, got.IsRevoked)
}

func TestRefreshTokenStore_PurgeExpired(t *testing.T) {
	adapter, _ := repository.NewTestAdapter(t)
	user := createUser(t, adapter.UserRepository(), "mia")
	store := adapter.RefreshTokenStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, newToken("expired", user.ID, time.Now().Add(-time.Hour))))
	require.NoError(t, store.Save(ctx, newToken("fresh", user.ID, time.Now().Add(time.Hour))))

	n, err := store.PurgeExpired(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = store.Get(ctx, "expired")
	assert.ErrorIs(t, err, ports.ErrNotFound)
	_, err = store.Get(ctx, "fresh")
	assert.NoError(t, err)
}

func TestRefreshTokenStore_WithTx(t *testing.T) {
	adapter, conn := repository.NewTestAdapter(t)
	user := createUser(t, adapter.UserRepository(), "noah")
	store := adapter.RefreshTokenStore()
	ctx := context.Background()

	tx, err := conn.BeginTx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, store.WithTx(tx).Save(ctx, newToken("tx-token", user.ID, time.Now().Add(time.Hour))))
	require.NoError(t, tx.Commit())

	_, err = store.Get(ctx, "tx-token")
	assert.NoError(t, err)
}
