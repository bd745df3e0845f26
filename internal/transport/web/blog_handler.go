package web

import (
	"net/http"

	"github.com/Olprog59/go-contenthub/internal/domain"
	"github.com/Olprog59/go-contenthub/internal/ui"
)

// BlogPage renders the blog with its categories / Affiche le blog et ses catégories
func (h *Handler) BlogPage(w http.ResponseWriter, r *http.Request) {
	categories, err := h.container.BlogSvc.ListCategories(r.Context())
	if err != nil {
		h.handleError(w, r, "blog_page", err)
		return
	}

	h.renderPage(w, r, "blog", "Blog", ui.BlogView{Categories: categories, Colors: domain.PostColors()})
}

// BlogPostList renders one page of the searchable post list.
// Form values: page (default 1) and search_query. Page 0 ends infinite
// scrolling with an empty body.
func (h *Handler) BlogPostList(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", 1)
	if err != nil {
		h.handleError(w, r, "get_blog_post_list", err)
		return
	}
	if page == 0 {
		w.WriteHeader(http.StatusOK)
		return
	}

	query := r.FormValue("search_query")
	posts, err := h.container.BlogSvc.ListPosts(r.Context(), page, query)
	if err != nil {
		h.handleError(w, r, "get_blog_post_list", err)
		return
	}

	h.renderPartial(w, r, "get_blog_post_list", "blog_post_list", ui.PostListView{Page: posts, SearchQuery: query})
}
