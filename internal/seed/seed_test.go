package seed_test

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Olprog59/go-contenthub/internal/app"
	"github.com/Olprog59/go-contenthub/internal/config"
	"github.com/Olprog59/go-contenthub/internal/repository"
	"github.com/Olprog59/go-contenthub/internal/seed"
	"github.com/Olprog59/go-contenthub/internal/service"
)

func newContainer(t *testing.T) *app.Container {
	t.Helper()
	cfg := &config.Config{
		Environment: "development",
		Database: config.DatabaseConfig{
			Type:           "sqlite",
			DSN:            filepath.Join(t.TempDir(), "seed.db"),
			MigrationsPath: filepath.Dir(repository.SQLiteMigrationsDir()),
		},
		Auth: config.AuthConfig{
			JWTSecret:            "test-secret-must-be-at-least-32-characters-long",
			AccessTokenDuration:  time.Minute,
			RefreshTokenDuration: time.Hour,
		},
		Security:   config.SecurityConfig{BcryptCost: bcrypt.MinCost, MaxFailedAttempts: 5, LockoutDuration: time.Minute},
		Blog:       config.ListConfig{PageSize: 8},
		Flashcards: config.ListConfig{PageSize: 8},
	}

	c, err := app.NewContainer(cfg, prometheus.NewRegistry())
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestBlogPosts_RequiresCategories(t *testing.T) {
	c := newContainer(t)

	_, err := seed.New(c, 1, &bytes.Buffer{}).BlogPosts(t.Context(), 3)
	assert.ErrorIs(t, err, seed.ErrNoCategories)
}

func TestBlogPosts_RequiresAuthors(t *testing.T) {
	c := newContainer(t)
	_, err := c.BlogSvc.CreateCategory(t.Context(), "Go")
	require.NoError(t, err)

	_, err = seed.New(c, 1, &bytes.Buffer{}).BlogPosts(t.Context(), 3)
	assert.ErrorIs(t, err, seed.ErrNoAuthors)
}

func TestBlogPosts(t *testing.T) {
	c := newContainer(t)
	ctx := t.Context()
	_, err := c.BlogSvc.CreateCategory(ctx, "Go")
	require.NoError(t, err)
	_, err = c.UserSvc.CreateUser(ctx, service.NewUser{Email: "writer@example.com", Username: "writer", Password: "S3cure-Passw0rd"})
	require.NoError(t, err)

	var out bytes.Buffer
	n, err := seed.New(c, 42, &out).BlogPosts(ctx, 12)
	require.NoError(t, err)
	assert.Equal(t, 12, n)
	assert.Contains(t, out.String(), "Successfully created 12 blog posts")

	page, err := c.BlogSvc.ListPosts(ctx, 1, "")
	require.NoError(t, err)
	assert.Equal(t, 12, page.Total)
	for _, p := range page.Items {
		assert.LessOrEqual(t, len([]rune(p.Title)), 64)
		assert.LessOrEqual(t, len([]rune(p.Intro)), 128)
		assert.True(t, p.Color.IsValid(), p.Color)
	}

	deleted, err := seed.New(c, 0, &out).DeleteAllPosts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 12, deleted)
}

func TestFlashcards(t *testing.T) {
	c := newContainer(t)
	ctx := t.Context()

	var out bytes.Buffer
	require.NoError(t, seed.New(c, 7, &out).Flashcards(ctx, 3, 4))

	owner, err := c.UserRepo.GetByUsername(ctx, seed.TestUsername)
	require.NoError(t, err)

	subjects, err := c.FlashcardSvc.ListSubjects(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(subjects), 1)
	assert.LessOrEqual(t, len(subjects), 5)

	page, err := c.FlashcardSvc.ListDecks(ctx, 1, "")
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	for _, d := range page.Items {
		assert.Equal(t, owner.ID, d.AuthorID)

		deck, err := c.FlashcardSvc.GetDeck(ctx, d.ID)
		require.NoError(t, err)
		assert.Len(t, deck.Cards, 4)
		for _, card := range deck.Cards {
			require.NotNil(t, card.Question)
			assert.NotEmpty(t, card.Question.Answer)
		}
	}
	assert.Contains(t, out.String(), "Successfully created 3 decks with 4 cards each")
}

func TestFlashcards_ReusesTestUser(t *testing.T) {
	c := newContainer(t)
	ctx := t.Context()
	s := seed.New(c, 3, &bytes.Buffer{})

	require.NoError(t, s.Flashcards(ctx, 1, 1))
	require.NoError(t, s.Flashcards(ctx, 1, 1))

	_, total, err := c.UserSvc.ListUsers(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}
