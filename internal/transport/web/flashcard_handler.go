package web

import (
	"net/http"
	"strings"

	"github.com/Olprog59/go-contenthub/internal/domain"
	"github.com/Olprog59/go-contenthub/internal/dto"
	"github.com/Olprog59/go-contenthub/internal/ui"
)

// FlashcardsPage renders the study page / Affiche la page d'étude
func (h *Handler) FlashcardsPage(w http.ResponseWriter, r *http.Request) {
	subjects, err := h.container.FlashcardSvc.ListSubjects(r.Context())
	if err != nil {
		h.handleError(w, r, "flashcards_page", err)
		return
	}

	h.renderPage(w, r, "flashcards", "Flash Cards", ui.DeckListOptionsView{Subjects: subjects})
}

// DeckList renders one page of decks for query q; page 0 renders nothing.
// Affiche une page de paquets.
func (h *Handler) DeckList(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", 1)
	if err != nil {
		h.handleError(w, r, "deck_list", err)
		return
	}
	if page == 0 {
		w.WriteHeader(http.StatusOK)
		return
	}

	query := r.FormValue("q")
	decks, err := h.container.FlashcardSvc.ListDecks(r.Context(), page, query)
	if err != nil {
		h.handleError(w, r, "deck_list", err)
		return
	}

	h.renderPartial(w, r, "deck_list", "deck_list", ui.DeckListView{Page: decks, Query: query})
}

// DeckListOptions renders the deck filters / Affiche les filtres de paquets
func (h *Handler) DeckListOptions(w http.ResponseWriter, r *http.Request) {
	subjects, err := h.container.FlashcardSvc.ListSubjects(r.Context())
	if err != nil {
		h.handleError(w, r, "deck_list_options", err)
		return
	}
	h.renderPartial(w, r, "deck_list_options", "deck_list_options", ui.DeckListOptionsView{Subjects: subjects})
}

// deckView loads a deck, its answer choices and the viewer's progress when signed in.
func (h *Handler) deckView(r *http.Request) (ui.DeckView, error) {
	deckID, err := pathID(r, "id")
	if err != nil {
		return ui.DeckView{}, err
	}

	deck, err := h.container.FlashcardSvc.GetDeck(r.Context(), deckID)
	if err != nil {
		return ui.DeckView{}, err
	}

	view := ui.DeckView{Deck: deck, Choices: make(map[int64][]string, len(deck.Cards))}
	for _, card := range deck.Cards {
		if card.Question == nil {
			continue
		}
		if choices := h.container.FlashcardSvc.Choices(card.Question); len(choices) > 0 {
			view.Choices[card.ID] = choices
		}
	}

	if userID, ok := UserIDFromContext(r.Context()); ok {
		progress, err := h.container.FlashcardSvc.DeckProgress(r.Context(), userID, deck.ID)
		if err != nil {
			return ui.DeckView{}, err
		}
		view.Progress = progress
	}
	return view, nil
}

// DeckDetail renders a deck's cards / Affiche les fiches d'un paquet
func (h *Handler) DeckDetail(w http.ResponseWriter, r *http.Request) {
	view, err := h.deckView(r)
	if err != nil {
		h.handleError(w, r, "deck_detail", err)
		return
	}
	h.renderPartial(w, r, "deck_detail", "deck_detail", view)
}

// DeckOptions renders the actions of a deck / Affiche les actions d'un paquet
func (h *Handler) DeckOptions(w http.ResponseWriter, r *http.Request) {
	view, err := h.deckView(r)
	if err != nil {
		h.handleError(w, r, "deck_options", err)
		return
	}
	h.renderPartial(w, r, "deck_options", "deck_options", view)
}

// AnswerCard records the caller's answer and renders the result.
// Enregistre la réponse et affiche le résultat.
func (h *Handler) AnswerCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	cardID, err := pathID(r, "id")
	if err != nil {
		h.handleError(w, r, "answer_card", err)
		return
	}

	answer := strings.TrimSpace(r.FormValue("answer"))
	if answer == "" {
		h.handleError(w, r, "answer_card", &dto.FieldError{Field: "answer", Message: "answer is required"})
		return
	}

	result, err := h.container.FlashcardSvc.AnswerCard(r.Context(), userID, cardID, answer)
	if err != nil {
		h.handleError(w, r, "answer_card", err)
		return
	}

	if _, err := h.container.UserSvc.AppendProfileHistory(r.Context(), userID, "last_card_answered", cardID); err != nil {
		LoggerFromContext(r.Context(), h.log).Warn("failed to record profile history", "user_id", userID, "err", err)
	}

	h.renderPartial(w, r, "answer_card", "card_answer_result", answerView(result.Card, result.Given, result.Expected, result.Correct, result.Progress))
}

func answerView(card *domain.Card, given, expected string, correct bool, progress *domain.UserProgress) ui.AnswerView {
	return ui.AnswerView{CardID: card.ID, Given: given, Expected: expected, Correct: correct, Progress: progress}
}
