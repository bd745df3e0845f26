package mocks

import (
	"context"
	"strings"

	"github.com/Olprog59/go-contenthub/internal/domain"
	"github.com/Olprog59/go-contenthub/internal/ports"
	"github.com/Olprog59/go-contenthub/internal/repository/db"
)

// MockBlogRepository is a mock implementation of ports.BlogRepository for testing
type MockBlogRepository struct {
	// Mock data storage, posts kept in id order
	Categories map[int64]*domain.BlogCategory
	Posts      []*domain.BlogPost

	// Mock behavior flags
	CountError  error
	SearchError error

	// Call tracking
	CountCalls  int
	SearchCalls int
	LastOffset  int
	LastLimit   int
}

// NewMockBlogRepository creates a new mock blog repository
func NewMockBlogRepository() *MockBlogRepository {
	return &MockBlogRepository{
		Categories: make(map[int64]*domain.BlogCategory),
	}
}

// StoreCalls returns how often the list queries ran
func (m *MockBlogRepository) StoreCalls() int {
	return m.CountCalls + m.SearchCalls
}

func (m *MockBlogRepository) CreateCategory(ctx context.Context, name string) (*domain.BlogCategory, error) {
	c := &domain.BlogCategory{ID: int64(len(m.Categories) + 1), Name: name}
	m.Categories[c.ID] = c
	return c, nil
}

func (m *MockBlogRepository) GetCategory(ctx context.Context, id int64) (*domain.BlogCategory, error) {
	c, ok := m.Categories[id]
	if !ok {
		return nil, db.ErrNoRecord
	}
	return c, nil
}

func (m *MockBlogRepository) ListCategories(ctx context.Context) ([]*domain.BlogCategory, error) {
	out := make([]*domain.BlogCategory, 0, len(m.Categories))
	for i := int64(1); i <= int64(len(m.Categories)); i++ {
		if c, ok := m.Categories[i]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *MockBlogRepository) CreatePost(ctx context.Context, p *domain.BlogPost) (*domain.BlogPost, error) {
	if exists, _ := m.SlugExists(ctx, p.Slug); exists {
		return nil, db.ErrDuplicate
	}
	post := *p
	post.ID = int64(len(m.Posts) + 1)
	if c, ok := m.Categories[post.CategoryID]; ok {
		post.CategoryName = c.Name
	}
	post.PrepareForSave()
	m.Posts = append(m.Posts, &post)
	return &post, nil
}

func (m *MockBlogRepository) GetPostBySlug(ctx context.Context, slug string) (*domain.BlogPost, error) {
	for _, p := range m.Posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, db.ErrNoRecord
}

func (m *MockBlogRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	_, err := m.GetPostBySlug(ctx, slug)
	return err == nil, nil
}

func (m *MockBlogRepository) CountPosts(ctx context.Context, filter ports.PostFilter) (int, error) {
	m.CountCalls++
	if m.CountError != nil {
		return 0, m.CountError
	}
	return len(m.matching(filter)), nil
}

func (m *MockBlogRepository) SearchPosts(ctx context.Context, filter ports.PostFilter, offset, limit int) ([]*domain.BlogPost, error) {
	m.SearchCalls++
	m.LastOffset, m.LastLimit = offset, limit
	if m.SearchError != nil {
		return nil, m.SearchError
	}

	matched := m.matching(filter)
	if offset >= len(matched) {
		return []*domain.BlogPost{}, nil
	}
	return matched[offset:min(offset+limit, len(matched))], nil
}

func (m *MockBlogRepository) DeletePost(ctx context.Context, id int64) error {
	for i, p := range m.Posts {
		if p.ID == id {
			m.Posts = append(m.Posts[:i], m.Posts[i+1:]...)
			return nil
		}
	}
	return db.ErrNoRecord
}

func (m *MockBlogRepository) DeleteAllPosts(ctx context.Context) (int64, error) {
	n := int64(len(m.Posts))
	m.Posts = nil
	return n, nil
}

func (m *MockBlogRepository) matching(filter ports.PostFilter) []*domain.BlogPost {
	if filter.Query == "" {
		return m.Posts
	}
	fields := filter.Fields
	if len(fields) == 0 {
		fields = domain.DefaultPostSearchFields()
	}

	needle := strings.ToLower(filter.Query)
	var out []*domain.BlogPost
	for _, p := range m.Posts {
		for _, f := range fields {
			if strings.Contains(strings.ToLower(postField(p, f)), needle) {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

func postField(p *domain.BlogPost, f domain.PostSearchField) string {
	switch f {
	case domain.PostFieldTitle:
		return p.Title
	case domain.PostFieldIntro:
		return p.Intro
	case domain.PostFieldContent:
		return p.Content
	case domain.PostFieldAuthorUsername:
		return p.AuthorUsername
	}
	return ""
}
