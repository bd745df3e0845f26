package sqlstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/Olprog59/go-contenthub/internal/domain"
	"github.com/Olprog59/go-contenthub/internal/ports"
	"github.com/Olprog59/go-contenthub/internal/repository/db"
)

var _ ports.FlashcardRepository = (*flashcardRepository)(nil)

var deckSearchColumns = map[domain.DeckSearchField]string{
	domain.DeckFieldName:           "d.name",
	domain.DeckFieldDescription:    "d.description",
	domain.DeckFieldSubjectName:    "COALESCE(s.name, '')",
	domain.DeckFieldAuthorUsername: "u.username",
}

const deckFrom = `
	FROM decks d
	JOIN users u ON u.id = d.author_id
	LEFT JOIN subjects s ON s.id = d.subject_id`

const deckSelect = `
	SELECT d.id, d.name, d.subject_id, COALESCE(s.name, ''), d.author_id, u.username, d.description,
	       (SELECT COUNT(*) FROM cards c WHERE c.deck_id = d.id), d.created_at, d.updated_at` + deckFrom

const questionColumns = `id, type, difficulty, subject_id, question, answer, answer_2, answer_3, answer_4,
	created_at, updated_at`

type flashcardRepository struct {
	store
}

// NewFlashcardRepository creates flashcard repository / Crée le repository des fiches
func NewFlashcardRepository(conn *sql.DB, dialect db.Dialect) ports.FlashcardRepository {
	return &flashcardRepository{store: newStore(conn, dialect)}
}

// CreateSubject inserts a subject / Insère un sujet
func (r *flashcardRepository) CreateSubject(ctx context.Context, s *domain.Subject) (*domain.Subject, error) {
	id, err := r.insert(ctx, `INSERT INTO subjects (name, description) VALUES (?, ?)`, s.Name, s.Description)
	if err != nil {
		return nil, err
	}
	s.ID = id
	return s, nil
}

// GetSubjectByName retrieves a subject / Récupère un sujet
func (r *flashcardRepository) GetSubjectByName(ctx context.Context, name string) (*domain.Subject, error) {
	s := &domain.Subject{}
	err := r.queryRow(ctx, `SELECT id, name, description FROM subjects WHERE name = ?`, name).
		Scan(&s.ID, &s.Name, &s.Description)
	if err != nil {
		return nil, r.dialect.TranslateError(err)
	}
	return s, nil
}

// ListSubjects lists subjects by name / Liste les sujets par nom
func (r *flashcardRepository) ListSubjects(ctx context.Context) ([]*domain.Subject, error) {
	rows, err := r.query(ctx, `SELECT id, name, description FROM subjects ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Subject
	for rows.Next() {
		s := &domain.Subject{}
		if err := rows.Scan(&s.ID, &s.Name, &s.Description); err != nil {
			return nil, r.dialect.TranslateError(err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// CreateDeck inserts a deck / Insère un paquet
func (r *flashcardRepository) CreateDeck(ctx context.Context, d *domain.Deck) (*domain.Deck, error) {
	d.Touch(time.Now().UTC())
	id, err := r.insert(ctx, `
		INSERT INTO decks (name, subject_id, author_id, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		d.Name, nullableInt64(d.SubjectID), d.AuthorID, d.Description, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return r.GetDeck(ctx, id)
}

// GetDeck retrieves a deck without its cards / Récupère un paquet sans ses fiches
func (r *flashcardRepository) GetDeck(ctx context.Context, id int64) (*domain.Deck, error) {
	d, err := scanDeck(r.queryRow(ctx, deckSelect+` WHERE d.id = ?`, id))
	if err != nil {
		return nil, r.dialect.TranslateError(err)
	}
	return d, nil
}

// CountDecks counts decks matching filter / Compte les paquets du filtre
func (r *flashcardRepository) CountDecks(ctx context.Context, filter ports.DeckFilter) (int, error) {
	where, args := deckWhere(filter)
	return r.count(ctx, `SELECT COUNT(*)`+deckFrom+where, args...)
}

// SearchDecks lists decks matching filter in id order / Liste les paquets du filtre par id
func (r *flashcardRepository) SearchDecks(ctx context.Context, filter ports.DeckFilter, offset, limit int) ([]*domain.Deck, error) {
	where, args := deckWhere(filter)
	args = append(args, limit, offset)

	rows, err := r.query(ctx, deckSelect+where+` ORDER BY d.id LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	decks := []*domain.Deck{}
	for rows.Next() {
		d, err := scanDeck(rows)
		if err != nil {
			return nil, r.dialect.TranslateError(err)
		}
		decks = append(decks, d)
	}
	if err := rows.Err(); err != nil {
		return nil, r.dialect.TranslateError(err)
	}
	return decks, nil
}

// DeleteDeck removes a deck and its cards / Supprime un paquet et ses fiches
func (r *flashcardRepository) DeleteDeck(ctx context.Context, id int64) error {
	res, err := r.exec(ctx, `DELETE FROM decks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// AddCard inserts a card into a deck / Insère une fiche dans un paquet
func (r *flashcardRepository) AddCard(ctx context.Context, deckID int64, questionID *int64) (*domain.Card, error) {
	c := &domain.Card{DeckID: deckID, QuestionID: questionID}
	c.Touch(time.Now().UTC())

	id, err := r.insert(ctx, `INSERT INTO cards (deck_id, question_id, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		deckID, nullableInt64(questionID), c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.ID = id
	return c, nil
}

// GetCard retrieves a card with its question / Récupère une fiche avec sa question
func (r *flashcardRepository) GetCard(ctx context.Context, id int64) (*domain.Card, error) {
	c := &domain.Card{}
	var qid sql.NullInt64
	err := r.queryRow(ctx, `SELECT id, deck_id, question_id, created_at, updated_at FROM cards WHERE id = ?`, id).
		Scan(&c.ID, &c.DeckID, &qid, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, r.dialect.TranslateError(err)
	}

	c.QuestionID = int64Ptr(qid)
	if c.QuestionID != nil {
		if c.Question, err = r.GetQuestion(ctx, *c.QuestionID); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// ListCards lists a deck's cards with questions / Liste les fiches d'un paquet avec questions
func (r *flashcardRepository) ListCards(ctx context.Context, deckID int64) ([]*domain.Card, error) {
	rows, err := r.query(ctx, `
		SELECT c.id, c.deck_id, c.created_at, c.updated_at,
		       q.id, q.type, q.difficulty, q.subject_id, q.question, q.answer, q.answer_2, q.answer_3, q.answer_4,
		       q.created_at, q.updated_at
		FROM cards c
		LEFT JOIN questions q ON q.id = c.question_id
		WHERE c.deck_id = ?
		ORDER BY c.id`, deckID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cards := []*domain.Card{}
	for rows.Next() {
		c := &domain.Card{}
		var (
			qid, qsubject                           sql.NullInt64
			qtype, qdiff, qtext, qa1, qa2, qa3, qa4 sql.NullString
			qcreated, qupdated                      sql.NullTime
		)
		if err := rows.Scan(&c.ID, &c.DeckID, &c.CreatedAt, &c.UpdatedAt,
			&qid, &qtype, &qdiff, &qsubject, &qtext, &qa1, &qa2, &qa3, &qa4, &qcreated, &qupdated); err != nil {
			return nil, r.dialect.TranslateError(err)
		}
		if qid.Valid {
			c.QuestionID = int64Ptr(qid)
			c.Question = &domain.Question{
				ID:         qid.Int64,
				Type:       domain.QuestionType(qtype.String),
				Difficulty: domain.Difficulty(qdiff.String),
				SubjectID:  int64Ptr(qsubject),
				Question:   qtext.String,
				Answer:     qa1.String,
				Answer2:    qa2.String,
				Answer3:    qa3.String,
				Answer4:    qa4.String,
			}
			c.Question.CreatedAt = qcreated.Time
			c.Question.UpdatedAt = qupdated.Time
		}
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, r.dialect.TranslateError(err)
	}
	return cards, nil
}

// CreateQuestion inserts a question / Insère une question
func (r *flashcardRepository) CreateQuestion(ctx context.Context, q *domain.Question) (*domain.Question, error) {
	if q.Difficulty == "" {
		q.Difficulty = domain.DifficultyEasy
	}
	q.Touch(time.Now().UTC())

	id, err := r.insert(ctx, `
		INSERT INTO questions (type, difficulty, subject_id, question, answer, answer_2, answer_3, answer_4,
		                       created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(q.Type), string(q.Difficulty), nullableInt64(q.SubjectID), q.Question, q.Answer,
		q.Answer2, q.Answer3, q.Answer4, q.CreatedAt, q.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	q.ID = id
	return q, nil
}

// GetQuestion retrieves a question / Récupère une question
func (r *flashcardRepository) GetQuestion(ctx context.Context, id int64) (*domain.Question, error) {
	q := &domain.Question{}
	var qtype, diff string
	var subject sql.NullInt64
	err := r.queryRow(ctx, `SELECT `+questionColumns+` FROM questions WHERE id = ?`, id).Scan(
		&q.ID, &qtype, &diff, &subject, &q.Question, &q.Answer, &q.Answer2, &q.Answer3, &q.Answer4,
		&q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		return nil, r.dialect.TranslateError(err)
	}
	q.Type = domain.QuestionType(qtype)
	q.Difficulty = domain.Difficulty(diff)
	q.SubjectID = int64Ptr(subject)
	return q, nil
}

// GetProgress retrieves a user's progress on a card / Récupère la progression sur une fiche
func (r *flashcardRepository) GetProgress(ctx context.Context, userID, cardID int64) (*domain.UserProgress, error) {
	p := &domain.UserProgress{}
	err := r.queryRow(ctx, `
		SELECT id, user_id, card_id, correct_attempts, total_attempts, last_attempt_date
		FROM user_progress
		WHERE user_id = ? AND card_id = ?`, userID, cardID).Scan(
		&p.ID, &p.UserID, &p.CardID, &p.CorrectAttempts, &p.TotalAttempts, &p.LastAttemptDate,
	)
	if err != nil {
		return nil, r.dialect.TranslateError(err)
	}
	return p, nil
}

// RecordAttempt counts one answer with a single upsert on (user_id, card_id).
// Compte une réponse en un seul upsert.
func (r *flashcardRepository) RecordAttempt(ctx context.Context, userID, cardID int64, correct bool, at time.Time) (*domain.UserProgress, error) {
	gained := 0
	if correct {
		gained = 1
	}

	query := `
		INSERT INTO user_progress (user_id, card_id, correct_attempts, total_attempts, last_attempt_date)
		VALUES (?, ?, ?, 1, ?)
		ON CONFLICT (user_id, card_id) DO UPDATE SET
			correct_attempts = user_progress.correct_attempts + excluded.correct_attempts,
			total_attempts = user_progress.total_attempts + 1,
			last_attempt_date = excluded.last_attempt_date`
	if r.dialect.Type() == db.MySQL {
		query = `
		INSERT INTO user_progress (user_id, card_id, correct_attempts, total_attempts, last_attempt_date)
		VALUES (?, ?, ?, 1, ?)
		ON DUPLICATE KEY UPDATE
			correct_attempts = correct_attempts + VALUES(correct_attempts),
			total_attempts = total_attempts + 1,
			last_attempt_date = VALUES(last_attempt_date)`
	}

	if _, err := r.exec(ctx, query, userID, cardID, gained, at); err != nil {
		return nil, err
	}
	return r.GetProgress(ctx, userID, cardID)
}

// ListProgressForDeck maps card id to progress / Associe l'id de fiche à la progression
func (r *flashcardRepository) ListProgressForDeck(ctx context.Context, userID, deckID int64) (map[int64]*domain.UserProgress, error) {
	rows, err := r.query(ctx, `
		SELECT up.id, up.user_id, up.card_id, up.correct_attempts, up.total_attempts, up.last_attempt_date
		FROM user_progress up
		JOIN cards c ON c.id = up.card_id
		WHERE up.user_id = ? AND c.deck_id = ?`, userID, deckID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64]*domain.UserProgress)
	for rows.Next() {
		p := &domain.UserProgress{}
		if err := rows.Scan(&p.ID, &p.UserID, &p.CardID, &p.CorrectAttempts, &p.TotalAttempts, &p.LastAttemptDate); err != nil {
			return nil, r.dialect.TranslateError(err)
		}
		out[p.CardID] = p
	}
	return out, rows.Err()
}

func deckWhere(filter ports.DeckFilter) (string, []any) {
	if filter.Query == "" {
		return "", nil
	}
	fields := filter.Fields
	if len(fields) == 0 {
		fields = domain.DefaultDeckSearchFields()
	}

	columns := make([]string, 0, len(fields))
	for _, f := range fields {
		if col, ok := deckSearchColumns[f]; ok {
			columns = append(columns, col)
		}
	}
	clause, args := db.ContainsAny(columns, filter.Query)
	if clause == "" {
		return "", nil
	}
	return " WHERE " + clause, args
}

func scanDeck(row interface{ Scan(...any) error }) (*domain.Deck, error) {
	d := &domain.Deck{}
	var subject sql.NullInt64
	err := row.Scan(&d.ID, &d.Name, &subject, &d.SubjectName, &d.AuthorID, &d.AuthorUsername,
		&d.Description, &d.CardCount, &d.CreatedAt, &d.UpdatedAt)
	d.SubjectID = int64Ptr(subject)
	return d, err
}
