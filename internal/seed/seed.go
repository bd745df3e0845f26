// Package seed fills the database with fake blog posts and flash cards for development.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"unicode/utf8"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/Olprog59/go-contenthub/internal/app"
	"github.com/Olprog59/go-contenthub/internal/domain"
	"github.com/Olprog59/go-contenthub/internal/logging"
	"github.com/Olprog59/go-contenthub/internal/ports"
	"github.com/Olprog59/go-contenthub/internal/service"
)

// Flash card decks are owned by this account, created on first use
const (
	TestUsername = "testuser"
	TestPassword = "testpassword"

	targetSubjects = 5
)

var (
	ErrNoCategories = errors.New("no categories found, create some categories first")
	ErrNoAuthors    = errors.New("no authors found, create some users first")
)

// Seeder generates content through the services so every validation rule applies.
type Seeder struct {
	users    *service.UserService
	userRepo ports.UserRepository
	blog     *service.BlogService
	cards    *service.FlashcardService
	fake     *gofakeit.Faker
	out      io.Writer
	log      *slog.Logger
}

// New creates a seeder; seed 0 picks a random seed.
// Crée un générateur; une graine 0 est aléatoire.
func New(c *app.Container, seed uint64, out io.Writer) *Seeder {
	return &Seeder{
		users:    c.UserSvc,
		userRepo: c.UserRepo,
		blog:     c.BlogSvc,
		cards:    c.FlashcardSvc,
		fake:     gofakeit.New(seed),
		out:      out,
		log:      logging.Module("seed"),
	}
}

func (s *Seeder) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format+"\n", args...)
}

// pick returns a random element of items
func pick[T any](f *gofakeit.Faker, items []T) T {
	return items[f.Number(0, len(items)-1)]
}

// truncate cuts s to at most n runes
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// BlogPosts creates n posts with random authors, categories and colors.
// Crée n articles aléatoires.
func (s *Seeder) BlogPosts(ctx context.Context, n int) (int, error) {
	categories, err := s.blog.ListCategories(ctx)
	if err != nil {
		return 0, err
	}
	if len(categories) == 0 {
		return 0, ErrNoCategories
	}

	entries, total, err := s.users.ListUsers(ctx, 0, 1000)
	if err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, ErrNoAuthors
	}

	colors := domain.PostColors()
	for i := range n {
		_, err := s.blog.CreatePost(ctx, service.NewPost{
			AuthorID:   pick(s.fake, entries).User.ID,
			CategoryID: pick(s.fake, categories).ID,
			Title:      truncate(s.fake.Sentence(6), domain.MaxPostTitleLength),
			Intro:      truncate(s.fake.Sentence(15), domain.MaxPostIntroLength),
			Content:    s.fake.Paragraph(3, 4, 12, "\n\n"),
			Color:      pick(s.fake, colors),
		})
		if err != nil {
			return i, fmt.Errorf("create post %d: %w", i+1, err)
		}
	}

	s.printf("Successfully created %d blog posts", n)
	return n, nil
}

// Flashcards creates decks of random questions owned by the test user.
// Crée des paquets de questions aléatoires.
func (s *Seeder) Flashcards(ctx context.Context, decks, cardsPerDeck int) error {
	owner, err := s.testUser(ctx)
	if err != nil {
		return err
	}

	subjects, err := s.subjects(ctx)
	if err != nil {
		return err
	}

	for range decks {
		subject := pick(s.fake, subjects)
		deck, err := s.cards.CreateDeck(ctx, service.NewDeck{
			Name:        truncate(s.fake.BuzzWord()+" "+s.fake.Company(), domain.MaxDeckNameLength),
			SubjectID:   &subject.ID,
			AuthorID:    owner.ID,
			Description: s.fake.Paragraph(1, 3, 10, " "),
		})
		if err != nil {
			return fmt.Errorf("create deck: %w", err)
		}
		s.printf("Created deck: %s", deck.Name)

		for range cardsPerDeck {
			q, err := s.cards.CreateQuestion(ctx, s.question(pick(s.fake, subjects)))
			if err != nil {
				return fmt.Errorf("create question: %w", err)
			}
			if _, err := s.cards.AddCard(ctx, deck.ID, &q.ID); err != nil {
				return fmt.Errorf("add card: %w", err)
			}
			s.printf("Created card for question: %s...", truncate(q.Question, 30))
		}
	}

	s.printf("Successfully created %d decks with %d cards each", decks, cardsPerDeck)
	return nil
}

func (s *Seeder) testUser(ctx context.Context) (*domain.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, TestUsername)
	if err == nil {
		return user, nil
	}

	user, err = s.users.CreateUser(ctx, service.NewUser{
		Email:    TestUsername + "@example.com",
		Username: TestUsername,
		Password: TestPassword,
	})
	if err != nil {
		return nil, fmt.Errorf("create test user: %w", err)
	}
	s.printf("Created test user: %s", TestUsername)
	return user, nil
}

// subjects tops the subject list up to targetSubjects
func (s *Seeder) subjects(ctx context.Context) ([]*domain.Subject, error) {
	subjects, err := s.cards.ListSubjects(ctx)
	if err != nil {
		return nil, err
	}

	for attempts := 0; len(subjects) < targetSubjects && attempts < 50; attempts++ {
		subject, err := s.cards.CreateSubject(ctx, s.fake.Word(), s.fake.Sentence(8))
		if service.IsConflict(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("create subject: %w", err)
		}
		subjects = append(subjects, subject)
		s.printf("Created new subject: %s", subject.Name)
	}
	if len(subjects) == 0 {
		return nil, errors.New("could not create any subject")
	}
	return subjects, nil
}

func (s *Seeder) question(subject *domain.Subject) *domain.Question {
	q := &domain.Question{
		Type: pick(s.fake, []domain.QuestionType{
			domain.QuestionMultipleChoice, domain.QuestionFreeText, domain.QuestionTrueFalse, domain.QuestionNumeric,
		}),
		Difficulty: pick(s.fake, []domain.Difficulty{domain.DifficultyEasy, domain.DifficultyMedium, domain.DifficultyHard}),
		SubjectID:  &subject.ID,
		Question:   s.fake.Sentence(8),
	}

	switch q.Type {
	case domain.QuestionMultipleChoice:
		q.Answer, q.Answer2, q.Answer3, q.Answer4 = s.fake.Word(), s.fake.Word(), s.fake.Word(), s.fake.Word()
	case domain.QuestionTrueFalse:
		q.Answer = pick(s.fake, []string{"True", "False"})
	case domain.QuestionFreeText:
		q.Answer = s.fake.Word()
	default:
		q.Answer = strconv.Itoa(s.fake.Number(0, 999999))
	}
	return q
}

// DeleteAllPosts removes every blog post / Supprime tous les articles
func (s *Seeder) DeleteAllPosts(ctx context.Context) (int64, error) {
	n, err := s.blog.DeleteAllPosts(ctx)
	if err != nil {
		return 0, err
	}
	s.log.Info("all blog posts deleted", "count", n)
	return n, nil
}
