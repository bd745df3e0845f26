package web

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Olprog59/go-contenthub/internal/app"
	"github.com/Olprog59/go-contenthub/internal/config"
	"github.com/Olprog59/go-contenthub/internal/domain"
)

// NewMux creates and configures the HTTP router / Crée et configure le routeur HTTP
func NewMux(ctx context.Context, h *Handler, conf *config.Config, container *app.Container) http.Handler {
	mux := http.NewServeMux()
	mw := NewMiddleware(ctx, conf, container.Metrics, container.UserRepo)

	// Probes skip auth for load balancers
	mux.HandleFunc("GET /health", h.HealthCheck)
	mux.HandleFunc("GET /readiness", h.ReadinessCheck)
	mux.Handle("GET /metrics", chain(promhttp.Handler().ServeHTTP,
		mw.Auth, mw.RequirePermission(domain.PermissionSystemAdmin)))

	// Pages
	mux.Handle("GET /{$}", h.page("base", "Base"))
	mux.Handle("GET /home/{$}", h.page("home", "Home"))
	mux.Handle("GET /ui-elements/{$}", h.page("ui_elements", "UI Elements"))
	mux.Handle("GET /ui-elements/buttons/{$}", h.page("buttons", "UI Elements - Buttons"))
	mux.Handle("GET /ui-elements/cards/{$}", h.page("cards", "UI Elements - Cards"))
	mux.Handle("GET /ui-elements/typography/{$}", h.page("typography", "UI Elements - Typography"))
	mux.Handle("GET /components/{$}", h.page("components", "Components"))
	mux.Handle("GET /documentation/{$}", h.page("documentation", "Documentation"))
	mux.Handle("GET /htmx/todo/{$}", h.page("htmx_todo", "HTMX Todo App"))

	// Partials
	mux.HandleFunc("GET /server-info/{$}", h.ServerInfo)
	mux.HandleFunc("GET /tailwind-info/{$}", h.TailwindInfo)
	mux.HandleFunc("GET /htmx-info/{$}", h.HTMXInfo)
	mux.Handle("GET /ui-elements/buttons/examples/{$}", h.partial("buttons_examples"))
	mux.Handle("GET /ui-elements/buttons/examples/minimal/{$}", h.partial("button_example_minimal"))
	mux.Handle("GET /ui-elements/menus/examples/{$}", h.partial("toggled_content_examples"))
	mux.HandleFunc("GET /ui-elements/content-toggle/{name}/{$}", h.ContentToggle)
	mux.HandleFunc("GET /display_number/{$}", h.DisplayNumber)

	// Blog
	mux.HandleFunc("GET /blog/{$}", h.BlogPage)
	mux.Handle("POST /blog/blog-post-list/{$}", chain(h.BlogPostList, mw.CSRF))

	// Flashcards
	mux.HandleFunc("GET /flashcards/{$}", h.FlashcardsPage)
	mux.Handle("GET /flashcards/decks/{$}", chain(h.DeckList, RequireHTMX))
	mux.HandleFunc("GET /flashcards/decks/options/{$}", h.DeckListOptions)
	mux.Handle("GET /flashcards/decks/{id}/{$}", chain(h.DeckDetail, mw.OptionalAuth))
	mux.Handle("GET /flashcards/decks/{id}/options/{$}", chain(h.DeckOptions, mw.OptionalAuth))
	mux.Handle("POST /flashcards/card/{id}/answer/{$}", chain(h.AnswerCard, mw.Auth, mw.CSRF, mw.RateLimitByUser))

	// Auth
	mux.Handle("POST /api/register", chain(h.Register, mw.RateLimitStrict))
	mux.Handle("POST /api/login", chain(h.Login, mw.RateLimitStrict))
	mux.Handle("POST /api/refresh", chain(h.RefreshToken, mw.CSRF, mw.RateLimitStrict))
	mux.Handle("POST /api/logout", chain(h.Logout, mw.Auth, mw.CSRF, mw.RateLimitByUser))
	mux.Handle("GET /api/me", chain(h.Me, mw.Auth, mw.RateLimitByUser))
	mux.Handle("POST /api/me/password", chain(h.ChangePassword, mw.Auth, mw.CSRF, mw.RateLimitStrict))

	// Users, gated by permission
	mux.Handle("GET /api/users", chain(h.ListUsers, mw.Auth, mw.RequirePermission(domain.PermissionUsersList)))
	mux.Handle("GET /api/users/{id}/profile", chain(h.GetProfile, mw.Auth, mw.RateLimitByUser))
	mux.Handle("DELETE /api/users/{id}", chain(h.DeleteUser, mw.Auth, mw.CSRF, mw.RequirePermission(domain.PermissionUsersDelete)))
	mux.Handle("PATCH /api/users/{id}/role", chain(h.UpdateUserRole, mw.Auth, mw.CSRF, mw.RequirePermission(domain.PermissionRolesWrite)))

	// Content
	mux.Handle("POST /api/blog/categories", chain(h.CreateCategory, mw.Auth, mw.CSRF, mw.RequirePermission(domain.PermissionBlogWrite)))
	mux.Handle("POST /api/blog/posts", chain(h.CreatePost, mw.Auth, mw.CSRF, mw.RequirePermission(domain.PermissionBlogWrite)))
	mux.Handle("GET /api/blog/posts/{slug}", chain(h.GetPost, mw.RateLimitByUser))
	mux.Handle("DELETE /api/blog/posts/{id}", chain(h.DeletePost, mw.Auth, mw.CSRF, mw.RequirePermission(domain.PermissionBlogWrite)))
	mux.Handle("POST /api/flashcards/decks", chain(h.CreateDeck, mw.Auth, mw.CSRF, mw.RequirePermission(domain.PermissionFlashcardsWrite)))
	mux.Handle("DELETE /api/flashcards/decks/{id}", chain(h.DeleteDeck, mw.Auth, mw.CSRF, mw.RequirePermission(domain.PermissionFlashcardsWrite)))
	mux.Handle("POST /api/flashcards/decks/{id}/cards", chain(h.AddCard, mw.Auth, mw.CSRF, mw.RequirePermission(domain.PermissionFlashcardsWrite)))

	// Global middlewares, outermost last / Middlewares globaux, le plus externe en dernier
	var handler http.Handler = mux
	handler = mw.MetricsMiddleware(handler) // innermost, reads the routed pattern
	handler = mw.RateLimit(handler)
	handler = mw.SecurityHeaders(handler)
	handler = mw.Cors(handler)
	handler = Timeout(requestTimeout)(handler)
	handler = mw.Logging(handler)
	handler = mw.RequestID(handler)

	return handler
}

// chain applies middlewares to f, the first one outermost / Applique les middlewares au gestionnaire
func chain(f http.HandlerFunc, middlewares ...func(http.Handler) http.Handler) http.Handler {
	var handler http.Handler = f
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return handler
}
