package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/shopspring/decimal"

	"github.com/Olprog59/go-contenthub/internal/config"
	"github.com/Olprog59/go-contenthub/internal/domain"
	"github.com/Olprog59/go-contenthub/internal/logging"
	"github.com/Olprog59/go-contenthub/internal/ports"
	"github.com/Olprog59/go-contenthub/internal/repository"
)

// Choices offered for TRUE_FALSE questions / Choix proposés pour les questions TRUE_FALSE
var trueFalseChoices = []string{"True", "False"}

// StudyMetricsRecorder records answer metrics / Enregistre les métriques de réponse
type StudyMetricsRecorder interface {
	ContentMetricsRecorder
	RecordAnswer(correct bool)
}

// FlashcardService handles decks, questions and study progress / Gère paquets, questions et progression
type FlashcardService struct {
	repo     ports.FlashcardRepository
	pageSize int
	plain    *bluemonday.Policy
	shuffle  func(n int, swap func(i, j int))
	metrics  StudyMetricsRecorder
	log      *slog.Logger
}

// NewDeck carries the fields of a new deck / Champs d'un nouveau paquet
type NewDeck struct {
	Name        string
	SubjectID   *int64
	AuthorID    int64
	Description string
}

// AnswerResult is the outcome of answering a card / Résultat d'une réponse à une fiche
type AnswerResult struct {
	Card     *domain.Card
	Given    string
	Correct  bool
	Expected string
	Progress *domain.UserProgress
}

// NewFlashcardService creates flashcard service instance / Crée une instance du service de fiches
func NewFlashcardService(repo ports.FlashcardRepository, conf *config.Config, metrics StudyMetricsRecorder) *FlashcardService {
	size := conf.Flashcards.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	return &FlashcardService{
		repo:     repo,
		pageSize: size,
		plain:    bluemonday.StrictPolicy(),
		shuffle:  rand.Shuffle,
		metrics:  metrics,
		log:      logging.Module("flashcards"),
	}
}

// PageSize returns the fixed list page size / Retourne la taille de page fixe
func (s *FlashcardService) PageSize() int {
	return s.pageSize
}

// ListDecks returns one page of decks matching query, with the same page rules as posts.
// Retourne une page de paquets correspondant à la requête.
func (s *FlashcardService) ListDecks(ctx context.Context, page int, query string) (domain.Page[*domain.Deck], error) {
	if page == 0 {
		return domain.EmptyPage[*domain.Deck](s.pageSize), nil
	}

	filter := ports.DeckFilter{Query: strings.TrimSpace(query), Fields: domain.DefaultDeckSearchFields()}
	total, err := s.repo.CountDecks(ctx, filter)
	if err != nil {
		return domain.Page[*domain.Deck]{}, fmt.Errorf("count decks: %w", err)
	}

	number, offset, numPages := domain.ResolvePage(page, s.pageSize, total)
	decks, err := s.repo.SearchDecks(ctx, filter, offset, s.pageSize)
	if err != nil {
		return domain.Page[*domain.Deck]{}, fmt.Errorf("search decks: %w", err)
	}

	if filter.Query != "" && s.metrics != nil {
		s.metrics.RecordSearch("decks", total)
	}

	return domain.Page[*domain.Deck]{
		Items:    decks,
		Number:   number,
		NumPages: numPages,
		Total:    total,
		PageSize: s.pageSize,
	}, nil
}

// GetDeck retrieves a deck with its cards / Récupère un paquet avec ses fiches
func (s *FlashcardService) GetDeck(ctx context.Context, id int64) (*domain.Deck, error) {
	deck, err := s.repo.GetDeck(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNoRecord) {
			return nil, ErrDeckNotFound
		}
		return nil, fmt.Errorf("get deck: %w", err)
	}

	cards, err := s.repo.ListCards(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	deck.Cards = cards
	deck.CardCount = len(cards)
	return deck, nil
}

// DeckProgress maps card id to the user's progress in a deck / Associe chaque fiche à la progression
func (s *FlashcardService) DeckProgress(ctx context.Context, userID, deckID int64) (map[int64]*domain.UserProgress, error) {
	return s.repo.ListProgressForDeck(ctx, userID, deckID)
}

// CreateSubject validates and stores a subject / Valide et enregistre un sujet
func (s *FlashcardService) CreateSubject(ctx context.Context, name, description string) (*domain.Subject, error) {
	name = strings.TrimSpace(name)
	if err := validateName("name", name, domain.MaxSubjectNameLength); err != nil {
		return nil, err
	}

	subject, err := s.repo.CreateSubject(ctx, &domain.Subject{Name: name, Description: stripTags(s.plain, description)})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, invalid("name", ErrSubjectConflict, fmt.Sprintf("Subject already exists: %s", name))
		}
		return nil, fmt.Errorf("create subject: %w", err)
	}
	return subject, nil
}

// GetOrCreateSubject returns the named subject, creating it when missing.
// Retourne le sujet nommé, le crée s'il manque.
func (s *FlashcardService) GetOrCreateSubject(ctx context.Context, name string) (*domain.Subject, error) {
	name = strings.TrimSpace(name)
	subject, err := s.repo.GetSubjectByName(ctx, name)
	if err == nil {
		return subject, nil
	}
	if !errors.Is(err, repository.ErrNoRecord) {
		return nil, fmt.Errorf("get subject: %w", err)
	}

	subject, err = s.CreateSubject(ctx, name, "")
	if errors.Is(err, ErrSubjectConflict) {
		// lost a creation race
		return s.repo.GetSubjectByName(ctx, name)
	}
	return subject, err
}

// ListSubjects lists all subjects / Liste tous les sujets
func (s *FlashcardService) ListSubjects(ctx context.Context) ([]*domain.Subject, error) {
	return s.repo.ListSubjects(ctx)
}

// CreateDeck validates and stores a deck / Valide et enregistre un paquet
func (s *FlashcardService) CreateDeck(ctx context.Context, in NewDeck) (*domain.Deck, error) {
	deck := &domain.Deck{
		Name:        strings.TrimSpace(in.Name),
		SubjectID:   in.SubjectID,
		AuthorID:    in.AuthorID,
		Description: stripTags(s.plain, in.Description),
	}
	if err := validateName("name", deck.Name, domain.MaxDeckNameLength); err != nil {
		return nil, err
	}

	created, err := s.repo.CreateDeck(ctx, deck)
	if err != nil {
		if errors.Is(err, repository.ErrForeignKeyViolation) {
			return nil, invalid("subject_id", ErrInvalidFormat, "Unknown subject or author")
		}
		return nil, fmt.Errorf("create deck: %w", err)
	}

	s.log.Info("deck created", "deck_id", created.ID, "author_id", created.AuthorID)
	if s.metrics != nil {
		s.metrics.RecordContentCreated("deck")
	}
	return created, nil
}

// DeleteDeck removes a deck and its cards / Supprime un paquet et ses fiches
func (s *FlashcardService) DeleteDeck(ctx context.Context, id int64) error {
	if err := s.repo.DeleteDeck(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNoRecord) {
			return ErrDeckNotFound
		}
		return fmt.Errorf("delete deck: %w", err)
	}
	return nil
}

// CreateQuestion validates and stores a question / Valide et enregistre une question
func (s *FlashcardService) CreateQuestion(ctx context.Context, q *domain.Question) (*domain.Question, error) {
	q.Question = strings.TrimSpace(q.Question)
	q.Answer = strings.TrimSpace(q.Answer)
	if q.Difficulty == "" {
		q.Difficulty = domain.DifficultyEasy
	}

	switch {
	case !q.Type.IsValid():
		return nil, invalid("type", ErrInvalidFormat, fmt.Sprintf("%q is not a valid question type", q.Type))
	case !q.Difficulty.IsValid():
		return nil, invalid("difficulty", ErrInvalidFormat, fmt.Sprintf("%q is not a valid difficulty", q.Difficulty))
	case q.Question == "":
		return nil, invalid("question", ErrMissingField, "Question is required")
	case q.Answer == "":
		return nil, invalid("answer", ErrMissingField, "Answer is required")
	}
	if q.Type == domain.QuestionNumeric {
		if _, err := decimal.NewFromString(q.Answer); err != nil {
			return nil, invalid("answer", ErrInvalidFormat, "Numeric questions need a numeric answer")
		}
	}

	created, err := s.repo.CreateQuestion(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("create question: %w", err)
	}
	return created, nil
}

// AddCard places a question in a deck / Place une question dans un paquet
func (s *FlashcardService) AddCard(ctx context.Context, deckID int64, questionID *int64) (*domain.Card, error) {
	if _, err := s.repo.GetDeck(ctx, deckID); err != nil {
		if errors.Is(err, repository.ErrNoRecord) {
			return nil, ErrDeckNotFound
		}
		return nil, fmt.Errorf("get deck: %w", err)
	}

	var question *domain.Question
	if questionID != nil {
		q, err := s.repo.GetQuestion(ctx, *questionID)
		if err != nil {
			if errors.Is(err, repository.ErrNoRecord) {
				return nil, ErrQuestionNotFound
			}
			return nil, fmt.Errorf("get question: %w", err)
		}
		question = q
	}

	card, err := s.repo.AddCard(ctx, deckID, questionID)
	if err != nil {
		return nil, fmt.Errorf("add card: %w", err)
	}
	card.Question = question
	return card, nil
}

// GetCard retrieves a card with its question / Récupère une fiche avec sa question
func (s *FlashcardService) GetCard(ctx context.Context, id int64) (*domain.Card, error) {
	card, err := s.repo.GetCard(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNoRecord) {
			return nil, ErrCardNotFound
		}
		return nil, fmt.Errorf("get card: %w", err)
	}
	return card, nil
}

// AnswerCard checks an answer and records the attempt.
// Vérifie une réponse et enregistre la tentative.
func (s *FlashcardService) AnswerCard(ctx context.Context, userID, cardID int64, answer string) (*AnswerResult, error) {
	card, err := s.GetCard(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if card.Question == nil {
		return nil, ErrCardHasNoQuestion
	}

	correct := IsCorrectAnswer(card.Question, answer)

	progress, err := s.repo.RecordAttempt(ctx, userID, cardID, correct, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("record attempt: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordAnswer(correct)
	}
	s.log.Debug("card answered", "user_id", userID, "card_id", cardID, "correct", correct)

	return &AnswerResult{
		Card:     card,
		Given:    answer,
		Correct:  correct,
		Expected: card.Question.Answer,
		Progress: progress,
	}, nil
}

// IsCorrectAnswer compares an answer to the expected one, ignoring case and surrounding space.
// Numeric questions compare by value.
// Compare une réponse à la réponse attendue.
func IsCorrectAnswer(q *domain.Question, answer string) bool {
	given := strings.TrimSpace(answer)
	expected := strings.TrimSpace(q.Answer)

	if q.Type == domain.QuestionNumeric {
		g, errG := decimal.NewFromString(given)
		e, errE := decimal.NewFromString(expected)
		if errG == nil && errE == nil {
			return g.Equal(e)
		}
	}
	return strings.EqualFold(given, expected)
}

// Choices returns the options shown for a question / Retourne les options affichées pour une question
func (s *FlashcardService) Choices(q *domain.Question) []string {
	switch q.Type {
	case domain.QuestionMultipleChoice:
		choices := q.Answers()
		s.shuffle(len(choices), func(i, j int) { choices[i], choices[j] = choices[j], choices[i] })
		return choices
	case domain.QuestionTrueFalse:
		return append([]string(nil), trueFalseChoices...)
	}
	return nil
}

func validateName(field, name string, limit int) error {
	if name == "" {
		return invalid(field, ErrMissingField, "Name is required")
	}
	if utf8.RuneCountInString(name) > limit {
		return invalid(field, ErrInvalidFormat, fmt.Sprintf("Name cannot exceed %d characters", limit))
	}
	return nil
}
