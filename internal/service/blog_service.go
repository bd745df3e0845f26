package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"

	"github.com/Olprog59/go-contenthub/internal/config"
	"github.com/Olprog59/go-contenthub/internal/domain"
	"github.com/Olprog59/go-contenthub/internal/logging"
	"github.com/Olprog59/go-contenthub/internal/ports"
	"github.com/Olprog59/go-contenthub/internal/repository"
)

// DefaultPageSize applies when the configured size is unset / S'applique si la taille n'est pas configurée
const DefaultPageSize = 8

// ContentMetricsRecorder records content metrics / Enregistre les métriques de contenu
type ContentMetricsRecorder interface {
	RecordContentCreated(kind string)
	RecordSearch(list string, hits int)
}

// BlogService handles blog posts and categories / Gère les articles et catégories du blog
type BlogService struct {
	repo     ports.BlogRepository
	pageSize int
	rich     *bluemonday.Policy
	plain    *bluemonday.Policy
	metrics  ContentMetricsRecorder
	log      *slog.Logger
}

// NewPost carries the fields of a new post / Champs d'un nouvel article
type NewPost struct {
	AuthorID   int64
	CategoryID int64
	Title      string
	Intro      string
	Content    string
	Color      domain.PostColor
	Slug       string
}

// NewBlogService creates blog service instance / Crée une instance du service blog
func NewBlogService(repo ports.BlogRepository, conf *config.Config, metrics ContentMetricsRecorder) *BlogService {
	size := conf.Blog.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	return &BlogService{
		repo:     repo,
		pageSize: size,
		rich:     bluemonday.UGCPolicy(),
		plain:    bluemonday.StrictPolicy(),
		metrics:  metrics,
		log:      logging.Module("blog"),
	}
}

// PageSize returns the fixed list page size / Retourne la taille de page fixe
func (s *BlogService) PageSize() int {
	return s.pageSize
}

// ListPosts returns one page of posts matching query.
// Page 0 is the end-of-list sentinel and never reaches the store.
// Retourne une page d'articles correspondant à la requête.
func (s *BlogService) ListPosts(ctx context.Context, page int, query string) (domain.Page[*domain.BlogPost], error) {
	if page == 0 {
		return domain.EmptyPage[*domain.BlogPost](s.pageSize), nil
	}

	filter := ports.PostFilter{Query: strings.TrimSpace(query), Fields: domain.DefaultPostSearchFields()}
	total, err := s.repo.CountPosts(ctx, filter)
	if err != nil {
		return domain.Page[*domain.BlogPost]{}, fmt.Errorf("count posts: %w", err)
	}

	number, offset, numPages := domain.ResolvePage(page, s.pageSize, total)
	posts, err := s.repo.SearchPosts(ctx, filter, offset, s.pageSize)
	if err != nil {
		return domain.Page[*domain.BlogPost]{}, fmt.Errorf("search posts: %w", err)
	}

	if filter.Query != "" && s.metrics != nil {
		s.metrics.RecordSearch("blog", total)
	}

	return domain.Page[*domain.BlogPost]{
		Items:    posts,
		Number:   number,
		NumPages: numPages,
		Total:    total,
		PageSize: s.pageSize,
	}, nil
}

// SearchPosts returns every post matching query over fields.
// No fields means the default title, intro and author username.
// Retourne tous les articles correspondant à la requête.
func (s *BlogService) SearchPosts(ctx context.Context, query string, fields ...domain.PostSearchField) ([]*domain.BlogPost, error) {
	if len(fields) == 0 {
		fields = domain.DefaultPostSearchFields()
	}
	filter := ports.PostFilter{Query: strings.TrimSpace(query), Fields: fields}

	total, err := s.repo.CountPosts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}
	if total == 0 {
		return []*domain.BlogPost{}, nil
	}
	return s.repo.SearchPosts(ctx, filter, 0, total)
}

// CreateCategory validates and stores a category / Valide et enregistre une catégorie
func (s *BlogService) CreateCategory(ctx context.Context, name string) (*domain.BlogCategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("name", ErrMissingField, "Category name is required")
	}
	if utf8.RuneCountInString(name) > domain.MaxCategoryNameLength {
		return nil, invalid("name", ErrInvalidFormat, fmt.Sprintf("Category name cannot exceed %d characters", domain.MaxCategoryNameLength))
	}

	category, err := s.repo.CreateCategory(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	s.log.Info(fmt.Sprintf("Category created: %s", category.Name), "category_id", category.ID)
	if s.metrics != nil {
		s.metrics.RecordContentCreated("category")
	}
	return category, nil
}

// ListCategories lists all categories / Liste toutes les catégories
func (s *BlogService) ListCategories(ctx context.Context) ([]*domain.BlogCategory, error) {
	return s.repo.ListCategories(ctx)
}

// CreatePost validates, sanitizes and stores a post / Valide, assainit et enregistre un article
func (s *BlogService) CreatePost(ctx context.Context, in NewPost) (*domain.BlogPost, error) {
	post := &domain.BlogPost{
		AuthorID:   in.AuthorID,
		CategoryID: in.CategoryID,
		Title:      strings.TrimSpace(in.Title),
		Intro:      stripTags(s.plain, in.Intro),
		Content:    s.rich.Sanitize(in.Content),
		Color:      in.Color,
		Slug:       Slugify(in.Slug),
	}

	if err := validatePost(post); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetCategory(ctx, post.CategoryID); err != nil {
		if errors.Is(err, repository.ErrNoRecord) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("get category: %w", err)
	}

	if post.Slug == "" {
		slug, err := uniqueSlug(ctx, Slugify(post.Title), s.repo.SlugExists)
		if err != nil {
			return nil, fmt.Errorf("generate slug: %w", err)
		}
		post.Slug = slug
	}

	post.PrepareForSave()
	created, err := s.repo.CreatePost(ctx, post)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, invalid("slug", ErrInvalidFormat, fmt.Sprintf("Slug already exists: %s", post.Slug))
		}
		if errors.Is(err, repository.ErrForeignKeyViolation) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("create post: %w", err)
	}

	s.log.Info("post created", "post_id", created.ID, "slug", created.Slug, "author_id", created.AuthorID)
	if s.metrics != nil {
		s.metrics.RecordContentCreated("post")
	}
	return created, nil
}

func validatePost(p *domain.BlogPost) error {
	if p.Title == "" {
		return invalid("title", ErrMissingField, "Title is required")
	}
	if utf8.RuneCountInString(p.Title) > domain.MaxPostTitleLength {
		return invalid("title", ErrInvalidFormat, fmt.Sprintf("Title cannot exceed %d characters", domain.MaxPostTitleLength))
	}
	if utf8.RuneCountInString(p.Intro) > domain.MaxPostIntroLength {
		return invalid("intro", ErrInvalidFormat, fmt.Sprintf("Intro cannot exceed %d characters", domain.MaxPostIntroLength))
	}
	if p.Color != "" && !p.Color.IsValid() {
		return invalid("color", ErrInvalidFormat, fmt.Sprintf("%q is not a valid color", p.Color))
	}
	if p.CategoryID <= 0 {
		return invalid("category_id", ErrMissingField, "Category is required")
	}
	return nil
}

// GetPostBySlug retrieves a post / Récupère un article
func (s *BlogService) GetPostBySlug(ctx context.Context, slug string) (*domain.BlogPost, error) {
	post, err := s.repo.GetPostBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrNoRecord) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("get post: %w", err)
	}
	return post, nil
}

// DeletePost removes a post / Supprime un article
func (s *BlogService) DeletePost(ctx context.Context, id int64) error {
	if err := s.repo.DeletePost(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNoRecord) {
			return ErrPostNotFound
		}
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// DeleteAllPosts removes every post and returns the count / Supprime tous les articles et retourne le nombre
func (s *BlogService) DeleteAllPosts(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteAllPosts(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete posts: %w", err)
	}
	s.log.Warn("all posts deleted", "count", n)
	return n, nil
}
