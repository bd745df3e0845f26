package sqlstore_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Olprog59/go-contenthub/internal/domain"
	"github.com/Olprog59/go-contenthub/internal/ports"
	"github.com/Olprog59/go-contenthub/internal/repository"
	"github.com/Olprog59/go-contenthub/internal/repository/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlashcardRepository_Decks(t *testing.T) {
	adapter, conn := repository.NewTestAdapter(t)
	author := createUser(t, adapter.UserRepository(), "tutor")
	repo := adapter.FlashcardRepository()
	ctx := context.Background()

	math, err := repo.CreateSubject(ctx, &domain.Subject{Name: "Mathematics", Description: "Numbers"})
	require.NoError(t, err)
	_, err = repo.CreateSubject(ctx, &domain.Subject{Name: "Mathematics"})
	assert.ErrorIs(t, err, db.ErrDuplicate)

	algebra, err := repo.CreateDeck(ctx, &domain.Deck{Name: "Algebra", SubjectID: &math.ID, AuthorID: author.ID})
	require.NoError(t, err)
	assert.Equal(t, "Mathematics", algebra.SubjectName)
	assert.Equal(t, "tutor", algebra.AuthorUsername)

	_, err = repo.CreateDeck(ctx, &domain.Deck{Name: "Loose notes", AuthorID: author.ID, Description: "misc"})
	require.NoError(t, err)

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"All decks", "", 2},
		{"By subject name", "mathem", 1},
		{"By description", "MISC", 1},
		{"By author", "tut", 2},
		{"No match", "history", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter := ports.DeckFilter{Query: tt.query}
			n, err := repo.CountDecks(ctx, filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, n)

			decks, err := repo.SearchDecks(ctx, filter, 0, 8)
			require.NoError(t, err)
			assert.Len(t, decks, tt.want)
		})
	}

	// Deleting the subject keeps the deck / Supprimer le sujet conserve le paquet
	_, err = conn.Exec(`DELETE FROM subjects WHERE id = ?`, math.ID)
	require.NoError(t, err)
	got, err := repo.GetDeck(ctx, algebra.ID)
	require.NoError(t, err)
	assert.Nil(t, got.SubjectID)
	assert.Empty(t, got.SubjectName)
}

func TestFlashcardRepository_CardsAndProgress(t *testing.T) {
	adapter, _ := repository.NewTestAdapter(t)
	user := createUser(t, adapter.UserRepository(), "student")
	repo := adapter.FlashcardRepository()
	ctx := context.Background()

	deck, err := repo.CreateDeck(ctx, &domain.Deck{Name: "Capitals", AuthorID: user.ID})
	require.NoError(t, err)

	q, err := repo.CreateQuestion(ctx, &domain.Question{
		Type:     domain.QuestionMultipleChoice,
		Question: "Capital of France?",
		Answer:   "Paris",
		Answer2:  "Lyon",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.DifficultyEasy, q.Difficulty)

	card, err := repo.AddCard(ctx, deck.ID, &q.ID)
	require.NoError(t, err)
	_, err = repo.AddCard(ctx, deck.ID, nil)
	require.NoError(t, err)

	got, err := repo.GetCard(ctx, card.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Question)
	assert.Equal(t, "Paris", got.Question.Answer)

	cards, err := repo.ListCards(ctx, deck.ID)
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.NotNil(t, cards[0].Question)
	assert.Nil(t, cards[1].Question)

	deck, err = repo.GetDeck(ctx, deck.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, deck.CardCount)

	_, err = repo.GetProgress(ctx, user.ID, card.ID)
	assert.ErrorIs(t, err, db.ErrNoRecord)

	first, err := repo.RecordAttempt(ctx, user.ID, card.ID, true, time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, 1, first.CorrectAttempts)
	assert.Equal(t, 1, first.TotalAttempts)

	later := time.Now().UTC().Add(time.Minute)
	second, err := repo.RecordAttempt(ctx, user.ID, card.ID, false, later)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	stored, err := repo.GetProgress(ctx, user.ID, card.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.CorrectAttempts)
	assert.Equal(t, 2, stored.TotalAttempts)
	assert.WithinDuration(t, later, stored.LastAttemptDate, time.Second)

	byCard, err := repo.ListProgressForDeck(ctx, user.ID, deck.ID)
	require.NoError(t, err)
	assert.Len(t, byCard, 1)
	assert.Equal(t, "0.5", byCard[card.ID].SuccessRate().String())

	require.NoError(t, repo.DeleteDeck(ctx, deck.ID))
	_, err = repo.GetCard(ctx, card.ID)
	assert.ErrorIs(t, err, db.ErrNoRecord)
}

func TestFlashcardRepository_RecordAttemptConcurrent(t *testing.T) {
	adapter, _ := repository.NewTestAdapter(t)
	user := createUser(t, adapter.UserRepository(), "student")
	repo := adapter.FlashcardRepository()
	ctx := context.Background()

	deck, err := repo.CreateDeck(ctx, &domain.Deck{Name: "Capitals", AuthorID: user.ID})
	require.NoError(t, err)
	q, err := repo.CreateQuestion(ctx, &domain.Question{Type: domain.QuestionFreeText, Question: "Capital of Peru?", Answer: "Lima"})
	require.NoError(t, err)
	card, err := repo.AddCard(ctx, deck.ID, &q.ID)
	require.NoError(t, err)

	const answers = 8
	errs := make(chan error, answers)
	var wg sync.WaitGroup
	for i := range answers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.RecordAttempt(ctx, user.ID, card.ID, i%2 == 0, time.Now().UTC())
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	stored, err := repo.GetProgress(ctx, user.ID, card.ID)
	require.NoError(t, err)
	assert.Equal(t, answers, stored.TotalAttempts)
	assert.Equal(t, answers/2, stored.CorrectAttempts)
}
