package web

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Olprog59/go-contenthub/internal/domain"
	"github.com/Olprog59/go-contenthub/internal/service"
)

type deckFixture struct {
	deck     *domain.Deck
	numeric  *domain.Card
	multiple *domain.Card
	empty    *domain.Card
}

func seedDeck(t *testing.T, env *testEnv, name, subject string) deckFixture {
	t.Helper()
	ctx := t.Context()
	svc := env.container.FlashcardSvc

	author, err := env.container.UserSvc.GetUser(ctx, 1)
	if err != nil {
		author = env.createUser("deckauthor", "")
	}

	subj, err := svc.GetOrCreateSubject(ctx, subject)
	require.NoError(t, err)
	deck, err := svc.CreateDeck(ctx, service.NewDeck{Name: name, SubjectID: &subj.ID, AuthorID: author.ID})
	require.NoError(t, err)

	addCard := func(q *domain.Question) *domain.Card {
		if q == nil {
			card, err := svc.AddCard(ctx, deck.ID, nil)
			require.NoError(t, err)
			return card
		}
		q.SubjectID = &subj.ID
		created, err := svc.CreateQuestion(ctx, q)
		require.NoError(t, err)
		card, err := svc.AddCard(ctx, deck.ID, &created.ID)
		require.NoError(t, err)
		return card
	}

	return deckFixture{
		deck:    deck,
		numeric: addCard(&domain.Question{Type: domain.QuestionNumeric, Question: "6 x 7 = ?", Answer: "42"}),
		multiple: addCard(&domain.Question{
			Type:     domain.QuestionMultipleChoice,
			Question: "Capital of France?",
			Answer:   "Paris",
			Answer2:  "Lyon",
			Answer3:  "Nice",
		}),
		empty: addCard(nil),
	}
}

func TestFlashcardsPage(t *testing.T) {
	env := newTestEnv(t)
	seedDeck(t, env, "Numbers", "Math")

	rec := env.client().do(http.MethodGet, "/flashcards/", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<title>Flash Cards | Content Hub</title>")
	assert.Contains(t, rec.Body.String(), `<option value="Math">Math</option>`)
}

func TestDeckList_RequiresHTMX(t *testing.T) {
	env := newTestEnv(t)

	rec := env.client().do(http.MethodGet, "/flashcards/decks/", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "HTMX request required")
}

func TestDeckList(t *testing.T) {
	env := newTestEnv(t)
	for i := range 9 {
		seedDeck(t, env, fmt.Sprintf("Algebra %d", i), "Math")
	}
	seedDeck(t, env, "Verbs", "French")
	c := env.client()

	rec := c.do(http.MethodGet, "/flashcards/decks/", nil, htmx())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 8, strings.Count(rec.Body.String(), `id="deck-item-`))
	assert.Contains(t, rec.Body.String(), "/flashcards/decks/?page=2&q=")

	rec = c.do(http.MethodGet, "/flashcards/decks/?q=math&page=2", nil, htmx())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, strings.Count(rec.Body.String(), `id="deck-item-`))
	assert.NotContains(t, rec.Body.String(), "Verbs")

	rec = c.do(http.MethodGet, "/flashcards/decks/?page=0", nil, htmx())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, strings.TrimSpace(rec.Body.String()))

	rec = c.do(http.MethodGet, "/flashcards/decks/?page=x", nil, htmx())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeckDetail(t *testing.T) {
	env := newTestEnv(t)
	fx := seedDeck(t, env, "Mixed", "Quiz")

	rec := env.client().do(http.MethodGet, fmt.Sprintf("/flashcards/decks/%d/", fx.deck.ID), nil)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := rec.Body.String()
	assert.Contains(t, body, "6 x 7 = ?")
	assert.Contains(t, body, fmt.Sprintf(`hx-post="/flashcards/card/%d/answer/"`, fx.numeric.ID))
	assert.Contains(t, body, `type="text" name="answer"`)
	for _, choice := range []string{"Paris", "Lyon", "Nice"} {
		assert.Contains(t, body, fmt.Sprintf(`value="%s"`, choice))
	}
	assert.NotContains(t, body, fmt.Sprintf(`id="card-%d"`, fx.empty.ID))
	assert.NotContains(t, body, "correct</p>", "anonymous viewers have no progress")
}

func TestDeckDetail_NotFound(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, http.StatusNotFound, env.client().do(http.MethodGet, "/flashcards/decks/404/", nil).Code)
	assert.Equal(t, http.StatusBadRequest, env.client().do(http.MethodGet, "/flashcards/decks/abc/", nil).Code)
}

func TestDeckOptions(t *testing.T) {
	env := newTestEnv(t)
	fx := seedDeck(t, env, "Options", "Quiz")

	rec := env.client().do(http.MethodGet, fmt.Sprintf("/flashcards/decks/%d/options/", fx.deck.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "3 cards")

	rec = env.client().do(http.MethodGet, "/flashcards/decks/options/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<option value="Quiz">Quiz</option>`)
}

func TestAnswerCard(t *testing.T) {
	env := newTestEnv(t)
	fx := seedDeck(t, env, "Answers", "Math")
	student := env.createUser("student", "")
	c := env.login("student")
	path := fmt.Sprintf("/flashcards/card/%d/answer/", fx.numeric.ID)

	rec := c.do(http.MethodPost, path, url.Values{"answer": {"41"}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "Wrong, the answer was 42.")
	assert.Contains(t, rec.Body.String(), "0/1 correct")

	rec = c.do(http.MethodPost, path, url.Values{"answer": {" 42.0 "}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Correct!")
	assert.Contains(t, rec.Body.String(), "1/2 correct")

	rec = c.do(http.MethodGet, fmt.Sprintf("/flashcards/decks/%d/", fx.deck.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "1/2 correct")

	profile, err := env.container.UserSvc.GetProfile(t.Context(), student.ID)
	require.NoError(t, err)
	assert.Contains(t, profile.HistorySnapshot(), "last_card_answered")
}

func TestAnswerCard_Errors(t *testing.T) {
	env := newTestEnv(t)
	fx := seedDeck(t, env, "Errors", "Math")
	env.createUser("student", "")
	c := env.login("student")

	anon := env.client().do(http.MethodPost, fmt.Sprintf("/flashcards/card/%d/answer/", fx.numeric.ID), url.Values{"answer": {"42"}})
	assert.Equal(t, http.StatusUnauthorized, anon.Code)

	rec := c.do(http.MethodPost, fmt.Sprintf("/flashcards/card/%d/answer/", fx.numeric.ID), url.Values{"answer": {"  "}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = c.do(http.MethodPost, fmt.Sprintf("/flashcards/card/%d/answer/", fx.empty.ID), url.Values{"answer": {"x"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = c.do(http.MethodPost, "/flashcards/card/999/answer/", url.Values{"answer": {"x"}})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
