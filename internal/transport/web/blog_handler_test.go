package web

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Olprog59/go-contenthub/internal/service"
)

func seedPosts(t *testing.T, env *testEnv, n int, title func(i int) string) {
	t.Helper()
	author := env.createUser("author", "")
	category, err := env.container.BlogSvc.CreateCategory(t.Context(), "General")
	require.NoError(t, err)

	for i := range n {
		_, err := env.container.BlogSvc.CreatePost(t.Context(), service.NewPost{
			AuthorID:   author.ID,
			CategoryID: category.ID,
			Title:      title(i),
			Intro:      "intro",
		})
		require.NoError(t, err)
	}
}

func TestBlogPage(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.container.BlogSvc.CreateCategory(t.Context(), "Tutorials")
	require.NoError(t, err)
	c := env.client()

	rec := c.do(http.MethodGet, "/blog/", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<title>Blog | Content Hub</title>")
	assert.Contains(t, body, "Tutorials")
	assert.Contains(t, body, `id="post-search"`)
	require.Contains(t, c.cookies, csrfTokenCookie)
	assert.Contains(t, body, c.cookies[csrfTokenCookie].Value)
}

func TestBlogPostList(t *testing.T) {
	env := newTestEnv(t)
	seedPosts(t, env, 10, func(i int) string { return fmt.Sprintf("Post number %d", i) })
	c := env.browse("/blog/")

	rec := c.do(http.MethodPost, "/blog/blog-post-list/", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 8, strings.Count(rec.Body.String(), "<article"))
	assert.Contains(t, rec.Body.String(), `hx-post="/blog/blog-post-list/?page=2"`)

	rec = c.do(http.MethodPost, "/blog/blog-post-list/?page=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, strings.Count(rec.Body.String(), "<article"))
	assert.NotContains(t, rec.Body.String(), "post-list-next")

	rec = c.do(http.MethodPost, "/blog/blog-post-list/?page=99", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, strings.Count(rec.Body.String(), "<article"), "out of range pages show the last page")
}

func TestBlogPostList_PageZero(t *testing.T) {
	env := newTestEnv(t)
	seedPosts(t, env, 3, func(i int) string { return fmt.Sprintf("Post %d", i) })

	rec := env.browse("/blog/").do(http.MethodPost, "/blog/blog-post-list/?page=0", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, strings.TrimSpace(rec.Body.String()))
}

func TestBlogPostList_Search(t *testing.T) {
	env := newTestEnv(t)
	titles := []string{"Learning Go", "Go channels", "Python tips"}
	seedPosts(t, env, len(titles), func(i int) string { return titles[i] })

	rec := env.browse("/blog/").do(http.MethodPost, "/blog/blog-post-list/?page=1", url.Values{"search_query": {"go"}})
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Learning Go")
	assert.Contains(t, body, "Go channels")
	assert.NotContains(t, body, "Python tips")

	rec = env.browse("/blog/").do(http.MethodPost, "/blog/blog-post-list/", url.Values{"search_query": {"rust"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No posts found.")
}

func TestBlogPostList_BadPage(t *testing.T) {
	env := newTestEnv(t)

	rec := env.browse("/blog/").do(http.MethodPost, "/blog/blog-post-list/?page=two", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "page", decode[map[string]any](t, rec)["field"])
}

func TestBlogPostList_RequiresCSRFToken(t *testing.T) {
	env := newTestEnv(t)
	seedPosts(t, env, 2, func(i int) string { return fmt.Sprintf("Post %d", i) })

	rec := env.client().do(http.MethodPost, "/blog/blog-post-list/", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	c := env.browse("/blog/")
	rec = c.do(http.MethodPost, "/blog/blog-post-list/", nil, header{csrfHeader, "forged"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = c.do(http.MethodPost, "/blog/blog-post-list/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBlogPostList_MethodNotAllowed(t *testing.T) {
	env := newTestEnv(t)

	rec := env.client().do(http.MethodGet, "/blog/blog-post-list/", nil)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
