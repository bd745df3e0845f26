package dto

import (
	"time"

	"github.com/Olprog59/go-contenthub/internal/domain"
)

// CreateCategoryRequest is DTO for new blog categories / DTO pour les nouvelles catégories
type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

// CreatePostRequest is DTO for new blog posts / DTO pour les nouveaux articles
type CreatePostRequest struct {
	CategoryID int64  `json:"category_id" validate:"required,gt=0"`
	Title      string `json:"title" validate:"required,max=64"`
	Intro      string `json:"intro"`
	Content    string `json:"content"`
	Color      string `json:"color" validate:"omitempty,oneof=red orange yellow green teal blue indigo purple pink gray"`
	Slug       string `json:"slug" validate:"omitempty,max=80"`
}

// CreateDeckRequest is DTO for new decks / DTO pour les nouveaux paquets
type CreateDeckRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Subject     string `json:"subject" validate:"omitempty,max=100"`
	Description string `json:"description"`
}

// AddCardRequest creates a question and places it in a deck / Crée une question et la place dans un paquet
type AddCardRequest struct {
	Type       string `json:"type" validate:"required,oneof=MULTIPLE_CHOICE FREE_TEXT TRUE_FALSE NUMERIC"`
	Difficulty string `json:"difficulty" validate:"omitempty,oneof=EASY MEDIUM HARD"`
	Question   string `json:"question" validate:"required"`
	Answer     string `json:"answer" validate:"required"`
	Answer2    string `json:"answer_2"`
	Answer3    string `json:"answer_3"`
	Answer4    string `json:"answer_4"`
}

// ToQuestion converts the request / Convertit la requête
func (r *AddCardRequest) ToQuestion(subjectID *int64) *domain.Question {
	return &domain.Question{
		Type:       domain.QuestionType(r.Type),
		Difficulty: domain.Difficulty(r.Difficulty),
		SubjectID:  subjectID,
		Question:   r.Question,
		Answer:     r.Answer,
		Answer2:    r.Answer2,
		Answer3:    r.Answer3,
		Answer4:    r.Answer4,
	}
}

// CategoryResponse is the serialized category
type CategoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CategoryToDTO converts domain.BlogCategory / Convertit domain.BlogCategory
func CategoryToDTO(c *domain.BlogCategory) *CategoryResponse {
	return &CategoryResponse{ID: c.ID, Name: c.Name}
}

// PostResponse is the serialized post / Article sérialisé
type PostResponse struct {
	ID          int64     `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Intro       string    `json:"intro"`
	Content     string    `json:"content"`
	Color       string    `json:"color"`
	Author      string    `json:"author"`
	Category    string    `json:"category"`
	TitleLength int       `json:"title_length"`
	IntroLength int       `json:"intro_length"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PostToDTO converts domain.BlogPost / Convertit domain.BlogPost
func PostToDTO(p *domain.BlogPost) *PostResponse {
	return &PostResponse{
		ID:          p.ID,
		Slug:        p.Slug,
		Title:       p.Title,
		Intro:       p.Intro,
		Content:     p.Content,
		Color:       string(p.Color),
		Author:      p.AuthorUsername,
		Category:    p.CategoryName,
		TitleLength: p.TitleLength,
		IntroLength: p.IntroLength,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// QuestionResponse is the serialized question, answers excluded
type QuestionResponse struct {
	ID         int64  `json:"id"`
	Type       string `json:"type"`
	Difficulty string `json:"difficulty"`
	Question   string `json:"question"`
}

// CardResponse is the serialized card / Fiche sérialisée
type CardResponse struct {
	ID       int64             `json:"id"`
	DeckID   int64             `json:"deck"`
	Question *QuestionResponse `json:"question,omitempty"`
}

// CardToDTO converts domain.Card / Convertit domain.Card
func CardToDTO(c *domain.Card) *CardResponse {
	out := &CardResponse{ID: c.ID, DeckID: c.DeckID}
	if q := c.Question; q != nil {
		out.Question = &QuestionResponse{
			ID:         q.ID,
			Type:       string(q.Type),
			Difficulty: string(q.Difficulty),
			Question:   q.Question,
		}
	}
	return out
}

// DeckResponse is the serialized deck / Paquet sérialisé
type DeckResponse struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Subject     string          `json:"subject,omitempty"`
	Author      string          `json:"author"`
	Description string          `json:"description"`
	CardCount   int             `json:"card_count"`
	Cards       []*CardResponse `json:"cards,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// DeckToDTO converts domain.Deck / Convertit domain.Deck
func DeckToDTO(d *domain.Deck) *DeckResponse {
	out := &DeckResponse{
		ID:          d.ID,
		Name:        d.Name,
		Subject:     d.SubjectName,
		Author:      d.AuthorUsername,
		Description: d.Description,
		CardCount:   d.CardCount,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	for _, c := range d.Cards {
		out.Cards = append(out.Cards, CardToDTO(c))
	}
	if len(d.Cards) > out.CardCount {
		out.CardCount = len(d.Cards)
	}
	return out
}
