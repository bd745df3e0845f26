package ports

import (
	"context"
	"time"

	"github.com/Olprog59/go-contenthub/internal/domain"
)

// DeckFilter selects decks by free text / Sélectionne les paquets par texte libre
type DeckFilter struct {
	Query  string
	Fields []domain.DeckSearchField
}

// SubjectRepository stores subjects / Stocke les sujets
type SubjectRepository interface {
	CreateSubject(ctx context.Context, subject *domain.Subject) (*domain.Subject, error)
	GetSubjectByName(ctx context.Context, name string) (*domain.Subject, error)
	ListSubjects(ctx context.Context) ([]*domain.Subject, error)
}

// DeckRepository stores decks and cards / Stocke paquets et fiches
type DeckRepository interface {
	CreateDeck(ctx context.Context, deck *domain.Deck) (*domain.Deck, error)
	GetDeck(ctx context.Context, id int64) (*domain.Deck, error)
	CountDecks(ctx context.Context, filter DeckFilter) (int, error)
	SearchDecks(ctx context.Context, filter DeckFilter, offset, limit int) ([]*domain.Deck, error)
	DeleteDeck(ctx context.Context, id int64) error

	AddCard(ctx context.Context, deckID int64, questionID *int64) (*domain.Card, error)
	GetCard(ctx context.Context, id int64) (*domain.Card, error)
	ListCards(ctx context.Context, deckID int64) ([]*domain.Card, error)
}

// QuestionRepository stores questions / Stocke les questions
type QuestionRepository interface {
	CreateQuestion(ctx context.Context, q *domain.Question) (*domain.Question, error)
	GetQuestion(ctx context.Context, id int64) (*domain.Question, error)
}

// ProgressRepository stores study progress / Stocke la progression
type ProgressRepository interface {
	GetProgress(ctx context.Context, userID, cardID int64) (*domain.UserProgress, error)
	RecordAttempt(ctx context.Context, userID, cardID int64, correct bool, at time.Time) (*domain.UserProgress, error)
	ListProgressForDeck(ctx context.Context, userID, deckID int64) (map[int64]*domain.UserProgress, error)
}

// FlashcardRepository is the composite flashcard store / Store composite des fiches
type FlashcardRepository interface {
	SubjectRepository
	DeckRepository
	QuestionRepository
	ProgressRepository
}
