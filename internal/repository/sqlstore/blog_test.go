package sqlstore_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/Olprog59/go-contenthub/internal/domain"
	"github.com/Olprog59/go-contenthub/internal/ports"
	"github.com/Olprog59/go-contenthub/internal/repository"
	"github.com/Olprog59/go-contenthub/internal/repository/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedPosts(t *testing.T) (ports.BlogRepository, *domain.BlogCategory) {
	t.Helper()
	adapter, _ := repository.NewTestAdapter(t)
	author := createUser(t, adapter.UserRepository(), "writer")
	blog := adapter.BlogRepository()
	ctx := context.Background()

	cat, err := blog.CreateCategory(ctx, "Go")
	require.NoError(t, err)

	posts := []struct{ title, intro, content string }{
		{"Goroutines in depth", "Concurrency basics", "channels and select"},
		{"Tea time", "A 100% herbal intro", "nothing about code"},
		{"Snake_case naming", "Style guide", "mentions GOROUTINES in content only"},
	}
	for i, p := range posts {
		_, err := blog.CreatePost(ctx, &domain.BlogPost{
			AuthorID:   author.ID,
			CategoryID: cat.ID,
			Slug:       fmt.Sprintf("post-%d", i),
			Title:      p.title,
			Intro:      p.intro,
			Content:    p.content,
		})
		require.NoError(t, err)
	}
	return blog, cat
}

func TestBlogRepository_CreatePost(t *testing.T) {
	blog, cat := seedPosts(t)

	post, err := blog.GetPostBySlug(context.Background(), "post-0")
	require.NoError(t, err)
	assert.Equal(t, "Goroutines in depth", post.Title)
	assert.Equal(t, domain.ColorRed, post.Color)
	assert.Equal(t, 19, post.TitleLength)
	assert.Equal(t, "writer", post.AuthorUsername)
	assert.Equal(t, cat.Name, post.CategoryName)

	exists, err := blog.SlugExists(context.Background(), "post-0")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = blog.CreatePost(context.Background(), &domain.BlogPost{
		AuthorID: post.AuthorID, CategoryID: cat.ID, Slug: "post-0", Title: "dup",
	})
	assert.ErrorIs(t, err, db.ErrDuplicate)
}

func TestBlogRepository_Search(t *testing.T) {
	blog, _ := seedPosts(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		filter ports.PostFilter
		want   []string
	}{
		{"Empty query returns all", ports.PostFilter{}, []string{"post-0", "post-1", "post-2"}},
		{"Case-insensitive title", ports.PostFilter{Query: "GOROUTINES"}, []string{"post-0"}},
		{"Content searched when selected", ports.PostFilter{
			Query:  "goroutines",
			Fields: []domain.PostSearchField{domain.PostFieldTitle, domain.PostFieldContent},
		}, []string{"post-0", "post-2"}},
		{"Intro matched", ports.PostFilter{Query: "style"}, []string{"post-2"}},
		{"Author matched", ports.PostFilter{Query: "WRITER"}, []string{"post-0", "post-1", "post-2"}},
		{"Percent is literal", ports.PostFilter{Query: "100%"}, []string{"post-1"}},
		{"Underscore is literal", ports.PostFilter{Query: "e_c"}, []string{"post-2"}},
		{"No match", ports.PostFilter{Query: "rust"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := blog.CountPosts(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, len(tt.want), n)

			posts, err := blog.SearchPosts(ctx, tt.filter, 0, 10)
			require.NoError(t, err)
			slugs := make([]string, 0, len(posts))
			for _, p := range posts {
				slugs = append(slugs, p.Slug)
			}
			assert.Equal(t, tt.want, slugs)
		})
	}
}

func TestBlogRepository_SearchPaging(t *testing.T) {
	blog, _ := seedPosts(t)

	posts, err := blog.SearchPosts(context.Background(), ports.PostFilter{}, 2, 2)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "post-2", posts[0].Slug)
}

func TestBlogRepository_Categories(t *testing.T) {
	blog, cat := seedPosts(t)
	ctx := context.Background()

	_, err := blog.CreateCategory(ctx, "Design")
	require.NoError(t, err)

	cats, err := blog.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "Design", cats[0].Name)

	got, err := blog.GetCategory(ctx, cat.ID)
	require.NoError(t, err)
	assert.Equal(t, "Go", got.Name)
}

func TestBlogRepository_Delete(t *testing.T) {
	blog, _ := seedPosts(t)
	ctx := context.Background()

	post, err := blog.GetPostBySlug(ctx, "post-1")
	require.NoError(t, err)
	require.NoError(t, blog.DeletePost(ctx, post.ID))
	assert.ErrorIs(t, blog.DeletePost(ctx, post.ID), db.ErrNoRecord)

	n, err := blog.DeleteAllPosts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	count, err := blog.CountPosts(ctx, ports.PostFilter{})
	require.NoError(t, err)
	assert.Zero(t, count)
}
