package ports

import (
	"context"

	"github.com/Olprog59/go-contenthub/internal/domain"
)

// PostFilter selects posts by free text / Sélectionne les articles par texte libre
type PostFilter struct {
	Query  string
	Fields []domain.PostSearchField
}

// BlogRepository stores categories and posts / Stocke catégories et articles
type BlogRepository interface {
	CreateCategory(ctx context.Context, name string) (*domain.BlogCategory, error)
	GetCategory(ctx context.Context, id int64) (*domain.BlogCategory, error)
	ListCategories(ctx context.Context) ([]*domain.BlogCategory, error)

	// CreatePost inserts a prepared post / Insère un article préparé
	CreatePost(ctx context.Context, post *domain.BlogPost) (*domain.BlogPost, error)
	GetPostBySlug(ctx context.Context, slug string) (*domain.BlogPost, error)
	SlugExists(ctx context.Context, slug string) (bool, error)

	// CountPosts counts posts matching filter / Compte les articles du filtre
	CountPosts(ctx context.Context, filter PostFilter) (int, error)
	// SearchPosts lists posts matching filter by id / Liste les articles du filtre par id
	SearchPosts(ctx context.Context, filter PostFilter, offset, limit int) ([]*domain.BlogPost, error)

	DeletePost(ctx context.Context, id int64) error
	DeleteAllPosts(ctx context.Context) (int64, error)
}
