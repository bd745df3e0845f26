package sqlstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/Olprog59/go-contenthub/internal/domain"
	"github.com/Olprog59/go-contenthub/internal/ports"
	"github.com/Olprog59/go-contenthub/internal/repository/db"
)

var _ ports.BlogRepository = (*blogRepository)(nil)

// postSearchColumns maps search fields to SQL columns / Associe les champs de recherche aux colonnes
var postSearchColumns = map[domain.PostSearchField]string{
	domain.PostFieldTitle:          "p.title",
	domain.PostFieldIntro:          "p.intro",
	domain.PostFieldContent:        "p.content",
	domain.PostFieldAuthorUsername: "u.username",
}

const postSelect = `
	SELECT p.id, p.author_id, u.username, p.category_id, c.name, p.slug, p.title, p.intro,
	       p.content, p.color, p.title_length, p.intro_length, p.created_at, p.updated_at
	FROM blog_posts p
	JOIN users u ON u.id = p.author_id
	JOIN blog_categories c ON c.id = p.category_id`

const postCount = `
	SELECT COUNT(*)
	FROM blog_posts p
	JOIN users u ON u.id = p.author_id`

type blogRepository struct {
	store
}

// NewBlogRepository creates blog repository / Crée le repository du blog
func NewBlogRepository(conn *sql.DB, dialect db.Dialect) ports.BlogRepository {
	return &blogRepository{store: newStore(conn, dialect)}
}

// CreateCategory inserts a category / Insère une catégorie
func (r *blogRepository) CreateCategory(ctx context.Context, name string) (*domain.BlogCategory, error) {
	id, err := r.insert(ctx, `INSERT INTO blog_categories (name) VALUES (?)`, name)
	if err != nil {
		return nil, err
	}
	return &domain.BlogCategory{ID: id, Name: name}, nil
}

// GetCategory retrieves a category / Récupère une catégorie
func (r *blogRepository) GetCategory(ctx context.Context, id int64) (*domain.BlogCategory, error) {
	c := &domain.BlogCategory{}
	if err := r.queryRow(ctx, `SELECT id, name FROM blog_categories WHERE id = ?`, id).Scan(&c.ID, &c.Name); err != nil {
		return nil, r.dialect.TranslateError(err)
	}
	return c, nil
}

// ListCategories lists categories by name / Liste les catégories par nom
func (r *blogRepository) ListCategories(ctx context.Context) ([]*domain.BlogCategory, error) {
	rows, err := r.query(ctx, `SELECT id, name FROM blog_categories ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.BlogCategory
	for rows.Next() {
		c := &domain.BlogCategory{}
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, r.dialect.TranslateError(err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CreatePost inserts a post / Insère un article
func (r *blogRepository) CreatePost(ctx context.Context, p *domain.BlogPost) (*domain.BlogPost, error) {
	p.PrepareForSave()
	p.Touch(time.Now().UTC())

	id, err := r.insert(ctx, `
		INSERT INTO blog_posts (author_id, category_id, slug, title, intro, content, color,
		                        title_length, intro_length, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.AuthorID, p.CategoryID, p.Slug, p.Title, p.Intro, p.Content, string(p.Color),
		p.TitleLength, p.IntroLength, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return r.getPost(ctx, `p.id = ?`, id)
}

// GetPostBySlug retrieves a post by slug / Récupère un article par slug
func (r *blogRepository) GetPostBySlug(ctx context.Context, slug string) (*domain.BlogPost, error) {
	return r.getPost(ctx, `p.slug = ?`, slug)
}

func (r *blogRepository) getPost(ctx context.Context, where string, arg any) (*domain.BlogPost, error) {
	p, err := scanPost(r.queryRow(ctx, postSelect+` WHERE `+where, arg))
	if err != nil {
		return nil, r.dialect.TranslateError(err)
	}
	return p, nil
}

// SlugExists checks slug usage / Vérifie l'usage d'un slug
func (r *blogRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS(SELECT 1 FROM blog_posts WHERE slug = ?)`, slug)
}

// CountPosts counts posts matching filter / Compte les articles du filtre
func (r *blogRepository) CountPosts(ctx context.Context, filter ports.PostFilter) (int, error) {
	where, args := postWhere(filter)
	return r.count(ctx, postCount+where, args...)
}

// SearchPosts lists posts matching filter in id order / Liste les articles du filtre par id
func (r *blogRepository) SearchPosts(ctx context.Context, filter ports.PostFilter, offset, limit int) ([]*domain.BlogPost, error) {
	where, args := postWhere(filter)
	args = append(args, limit, offset)

	rows, err := r.query(ctx, postSelect+where+` ORDER BY p.id LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []*domain.BlogPost{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, r.dialect.TranslateError(err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, r.dialect.TranslateError(err)
	}
	return posts, nil
}

// DeletePost removes a post / Supprime un article
func (r *blogRepository) DeletePost(ctx context.Context, id int64) error {
	res, err := r.exec(ctx, `DELETE FROM blog_posts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// DeleteAllPosts removes every post / Supprime tous les articles
func (r *blogRepository) DeleteAllPosts(ctx context.Context) (int64, error) {
	res, err := r.exec(ctx, `DELETE FROM blog_posts`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func postWhere(filter ports.PostFilter) (string, []any) {
	if filter.Query == "" {
		return "", nil
	}
	fields := filter.Fields
	if len(fields) == 0 {
		fields = domain.DefaultPostSearchFields()
	}

	columns := make([]string, 0, len(fields))
	for _, f := range fields {
		if col, ok := postSearchColumns[f]; ok {
			columns = append(columns, col)
		}
	}
	clause, args := db.ContainsAny(columns, filter.Query)
	if clause == "" {
		return "", nil
	}
	return " WHERE " + clause, args
}

func scanPost(row interface{ Scan(...any) error }) (*domain.BlogPost, error) {
	p := &domain.BlogPost{}
	var color string
	err := row.Scan(
		&p.ID, &p.AuthorID, &p.AuthorUsername, &p.CategoryID, &p.CategoryName, &p.Slug, &p.Title,
		&p.Intro, &p.Content, &color, &p.TitleLength, &p.IntroLength, &p.CreatedAt, &p.UpdatedAt,
	)
	p.Color = domain.PostColor(color)
	return p, err
}
