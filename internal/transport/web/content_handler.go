package web

import (
	"net/http"

	"github.com/Olprog59/go-contenthub/internal/domain"
	"github.com/Olprog59/go-contenthub/internal/dto"
	"github.com/Olprog59/go-contenthub/internal/service"
)

// CreateCategory adds a blog category / Ajoute une catégorie de blog
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCategoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.handleError(w, r, "create_category", err)
		return
	}

	category, err := h.container.BlogSvc.CreateCategory(r.Context(), req.Name)
	if err != nil {
		h.handleError(w, r, "create_category", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.CategoryToDTO(category))
}

// CreatePost publishes a post authored by the caller / Publie un article de l'appelant
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	authorID, _ := UserIDFromContext(r.Context())

	var req dto.CreatePostRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.handleError(w, r, "create_post", err)
		return
	}

	post, err := h.container.BlogSvc.CreatePost(r.Context(), service.NewPost{
		AuthorID:   authorID,
		CategoryID: req.CategoryID,
		Title:      req.Title,
		Intro:      req.Intro,
		Content:    req.Content,
		Color:      domain.PostColor(req.Color),
		Slug:       req.Slug,
	})
	if err != nil {
		h.handleError(w, r, "create_post", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.PostToDTO(post))
}

// GetPost returns a post by slug / Retourne un article par slug
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.container.BlogSvc.GetPostBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		h.handleError(w, r, "get_post", err)
		return
	}

	jsonResponse(w, dto.PostToDTO(post))
}

func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r, "id")
	if err != nil {
		h.handleError(w, r, "delete_post", err)
		return
	}

	if err := h.container.BlogSvc.DeletePost(r.Context(), postID); err != nil {
		h.handleError(w, r, "delete_post", err)
		return
	}

	jsonResponse(w, map[string]string{"message": "Post deleted successfully"})
}

// CreateDeck creates a deck; a subject name is looked up or created.
// Crée un paquet; le sujet est retrouvé ou créé.
func (h *Handler) CreateDeck(w http.ResponseWriter, r *http.Request) {
	authorID, _ := UserIDFromContext(r.Context())

	var req dto.CreateDeckRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.handleError(w, r, "create_deck", err)
		return
	}

	var subjectID *int64
	if req.Subject != "" {
		subject, err := h.container.FlashcardSvc.GetOrCreateSubject(r.Context(), req.Subject)
		if err != nil {
			h.handleError(w, r, "create_deck", err)
			return
		}
		subjectID = &subject.ID
	}

	deck, err := h.container.FlashcardSvc.CreateDeck(r.Context(), service.NewDeck{
		Name:        req.Name,
		SubjectID:   subjectID,
		AuthorID:    authorID,
		Description: req.Description,
	})
	if err != nil {
		h.handleError(w, r, "create_deck", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.DeckToDTO(deck))
}

// DeleteDeck removes a deck and its cards / Supprime un paquet et ses fiches
func (h *Handler) DeleteDeck(w http.ResponseWriter, r *http.Request) {
	deckID, err := pathID(r, "id")
	if err != nil {
		h.handleError(w, r, "delete_deck", err)
		return
	}

	if err := h.container.FlashcardSvc.DeleteDeck(r.Context(), deckID); err != nil {
		h.handleError(w, r, "delete_deck", err)
		return
	}

	jsonResponse(w, map[string]string{"message": "Deck deleted successfully"})
}

// AddCard creates a question in the deck's subject and places it in the deck.
// Crée une question et l'ajoute au paquet.
func (h *Handler) AddCard(w http.ResponseWriter, r *http.Request) {
	deckID, err := pathID(r, "id")
	if err != nil {
		h.handleError(w, r, "add_card", err)
		return
	}

	var req dto.AddCardRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.handleError(w, r, "add_card", err)
		return
	}

	deck, err := h.container.FlashcardSvc.GetDeck(r.Context(), deckID)
	if err != nil {
		h.handleError(w, r, "add_card", err)
		return
	}

	question, err := h.container.FlashcardSvc.CreateQuestion(r.Context(), req.ToQuestion(deck.SubjectID))
	if err != nil {
		h.handleError(w, r, "add_card", err)
		return
	}

	card, err := h.container.FlashcardSvc.AddCard(r.Context(), deck.ID, &question.ID)
	if err != nil {
		h.handleError(w, r, "add_card", err)
		return
	}
	card.Question = question

	writeJSON(w, http.StatusCreated, dto.CardToDTO(card))
}
