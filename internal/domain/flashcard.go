package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Field limits for flashcard records / Limites des champs des fiches
const (
	MaxSubjectNameLength = 100
	MaxDeckNameLength    = 100
)

// QuestionType is the kind of answer expected / Type de réponse attendue
type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "MULTIPLE_CHOICE"
	QuestionFreeText       QuestionType = "FREE_TEXT"
	QuestionTrueFalse      QuestionType = "TRUE_FALSE"
	QuestionNumeric        QuestionType = "NUMERIC"
)

// IsValid checks the question type / Vérifie le type de question
func (t QuestionType) IsValid() bool {
	switch t {
	case QuestionMultipleChoice, QuestionFreeText, QuestionTrueFalse, QuestionNumeric:
		return true
	}
	return false
}

// Label returns a human readable name / Retourne un nom lisible
func (t QuestionType) Label() string {
	switch t {
	case QuestionMultipleChoice:
		return "Multiple Choice"
	case QuestionFreeText:
		return "Free Text"
	case QuestionTrueFalse:
		return "True/False"
	case QuestionNumeric:
		return "Numeric"
	}
	return string(t)
}

// Difficulty grades a question / Niveau de difficulté d'une question
type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
)

// IsValid checks the difficulty / Vérifie la difficulté
func (d Difficulty) IsValid() bool {
	return d == DifficultyEasy || d == DifficultyMedium || d == DifficultyHard
}

// Subject is a topic decks and questions belong to / Sujet des paquets et questions
type Subject struct {
	ID          int64
	Name        string
	Description string
}

func (s *Subject) String() string {
	return s.Name
}

// Question holds a prompt and its answers / Contient un énoncé et ses réponses
type Question struct {
	BaseModel
	ID         int64
	Type       QuestionType
	Difficulty Difficulty
	SubjectID  *int64
	Question   string
	Answer     string // Correct answer / Bonne réponse
	Answer2    string
	Answer3    string
	Answer4    string
}

// Answers returns the non-empty answers, correct first / Retourne les réponses non vides
func (q *Question) Answers() []string {
	out := make([]string, 0, 4)
	for _, a := range []string{q.Answer, q.Answer2, q.Answer3, q.Answer4} {
		if a != "" {
			out = append(out, a)
		}
	}
	return out
}

func (q *Question) String() string {
	return fmt.Sprintf("%s (%s, %s)", q.Question, q.Type.Label(), q.Difficulty)
}

// Card places a question in a deck / Place une question dans un paquet
type Card struct {
	BaseModel
	ID         int64
	DeckID     int64
	QuestionID *int64
	Question   *Question
}

// Deck groups cards / Regroupe des fiches
type Deck struct {
	BaseModel
	ID             int64
	Name           string
	SubjectID      *int64
	SubjectName    string
	AuthorID       int64
	AuthorUsername string
	Description    string
	CardCount      int
	Cards          []*Card
}

func (d *Deck) String() string {
	return d.Name
}

// DeckSearchField names a searchable deck column / Nomme une colonne de paquet recherchable
type DeckSearchField string

const (
	DeckFieldName           DeckSearchField = "name"
	DeckFieldDescription    DeckSearchField = "description"
	DeckFieldSubjectName    DeckSearchField = "subject_name"
	DeckFieldAuthorUsername DeckSearchField = "author_username"
)

// DefaultDeckSearchFields returns every deck search field / Retourne tous les champs de recherche
func DefaultDeckSearchFields() []DeckSearchField {
	return []DeckSearchField{DeckFieldName, DeckFieldDescription, DeckFieldSubjectName, DeckFieldAuthorUsername}
}

// UserProgress tracks a user's attempts on a card / Suit les tentatives d'un utilisateur sur une fiche
type UserProgress struct {
	ID              int64
	UserID          int64
	CardID          int64
	CorrectAttempts int
	TotalAttempts   int
	LastAttemptDate time.Time
}

// SuccessRate returns correct/total rounded to 2 places / Retourne correct/total arrondi à 2 décimales
func (p *UserProgress) SuccessRate() decimal.Decimal {
	if p.TotalAttempts == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(p.CorrectAttempts)).
		DivRound(decimal.NewFromInt(int64(p.TotalAttempts)), 4).
		Round(2)
}

// SuccessPercent returns the rate as a percentage / Retourne le taux en pourcentage
func (p *UserProgress) SuccessPercent() decimal.Decimal {
	if p.TotalAttempts == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(p.CorrectAttempts)).
		Mul(decimal.NewFromInt(100)).
		DivRound(decimal.NewFromInt(int64(p.TotalAttempts)), 1)
}
