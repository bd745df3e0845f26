package web

import (
	"net/http"
	"runtime"

	"github.com/a-h/templ"

	"github.com/Olprog59/go-contenthub/internal/ui"
)

// contentToggles maps /ui-elements/content-toggle/{name}/ to partials
var contentToggles = map[string]string{
	"basic":              "content_toggle_basic",
	"multi-toggle-panel": "content_toggle_multi_toggle_panel",
	"forloop-accordion":  "content_toggle_forloop_accordion",
	"hover-dropdown":     "content_toggle_hover_dropdown",
}

func (h *Handler) pageData(w http.ResponseWriter, r *http.Request, title string, data any) (ui.PageData, error) {
	token, err := h.csrfToken(w, r)
	if err != nil {
		return ui.PageData{}, err
	}
	site := h.container.Config.Site
	return ui.PageData{
		Title:           title,
		SiteName:        site.Name,
		TailwindVersion: site.TailwindVersion,
		HTMXVersion:     site.HTMXVersion,
		Nav:             ui.Navbar(),
		CSRFToken:       token,
		Data:            data,
	}, nil
}

// renderPage renders a full page, or only its main content for HTMX navigation.
func (h *Handler) renderPage(w http.ResponseWriter, r *http.Request, name, title string, data any) {
	pd, err := h.pageData(w, r, title, data)
	if err != nil {
		h.handleError(w, r, name, err)
		return
	}
	RenderPage(w, r, h.views.Page(name, pd), TitleTag(title+" | "+pd.SiteName), templErrorHandler(h, name))
}

func templErrorHandler(h *Handler, op string) func(*templ.ComponentHandler) {
	return templ.WithErrorHandler(func(r *http.Request, err error) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h.handleError(w, r, op, err)
		})
	})
}

func (h *Handler) renderPartial(w http.ResponseWriter, r *http.Request, op, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.views.Partial(name, data).Render(r.Context(), w); err != nil {
		h.handleError(w, r, op, err)
	}
}

// page serves a static page / Sert une page statique
func (h *Handler) page(name, title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.renderPage(w, r, name, title, nil)
	}
}

// partial serves a partial without data / Sert un fragment sans données
func (h *Handler) partial(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.renderPartial(w, r, name, name, nil)
	}
}

// ServerInfo renders the Go runtime details / Affiche les informations du runtime
func (h *Handler) ServerInfo(w http.ResponseWriter, r *http.Request) {
	h.renderPartial(w, r, "server_info", "server_info", ui.ServerInfo{
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	})
}

func (h *Handler) TailwindInfo(w http.ResponseWriter, r *http.Request) {
	h.renderPartial(w, r, "tailwind_info", "tailwind_info", ui.VersionInfo{Version: h.container.Config.Site.TailwindVersion})
}

func (h *Handler) HTMXInfo(w http.ResponseWriter, r *http.Request) {
	h.renderPartial(w, r, "htmx_info", "htmx_info", ui.VersionInfo{Version: h.container.Config.Site.HTMXVersion})
}

// ContentToggle renders one of the content toggle demos / Affiche une démo de bascule
func (h *Handler) ContentToggle(w http.ResponseWriter, r *http.Request) {
	name, ok := contentToggles[r.PathValue("name")]
	if !ok {
		ErrorResponse(w, "Not Found", http.StatusNotFound)
		return
	}
	h.renderPartial(w, r, "content_toggle", name, nil)
}

// DisplayNumber renders the number query parameter, 0 when absent.
func (h *Handler) DisplayNumber(w http.ResponseWriter, r *http.Request) {
	n, err := queryInt(r, "number", 0)
	if err != nil {
		h.handleError(w, r, "display_number", err)
		return
	}
	h.renderPartial(w, r, "display_number", "display_number", ui.NumberView{Number: n})
}
