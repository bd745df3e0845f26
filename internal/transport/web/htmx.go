package web

import (
	"bytes"
	"html"
	"net/http"
	"strings"

	"github.com/a-h/templ"
)

// HTMXRequestHeader marks requests issued by HTMX / Marque les requêtes émises par HTMX
const HTMXRequestHeader = "HX-Request"

// responseBuffer captures component rendering for HTMX responses.
type responseBuffer struct {
	header      http.Header
	statusCode  int
	body        bytes.Buffer
	headerWrote bool
}

func newResponseBuffer() *responseBuffer {
	return &responseBuffer{header: make(http.Header), statusCode: http.StatusOK}
}

func (w *responseBuffer) Header() http.Header {
	return w.header
}

func (w *responseBuffer) WriteHeader(status int) {
	if w.headerWrote {
		return
	}
	w.headerWrote = true
	w.statusCode = status
}

func (w *responseBuffer) Write(body []byte) (int, error) {
	return w.body.Write(body)
}

// IsHTMXRequest reports whether the request was initiated by HTMX.
func IsHTMXRequest(r *http.Request) bool {
	if r == nil {
		return false
	}
	return strings.EqualFold(r.Header.Get(HTMXRequestHeader), "true")
}

// TitleTag formats an escaped <title> element / Formate un élément <title> échappé
func TitleTag(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return ""
	}
	return "<title>" + html.EscapeString(title) + "</title>"
}

// RenderPage renders full for normal requests. HTMX requests get only the
// inner <main> content of full, prefixed with htmxTitle when it has no title.
// opts are passed to templ.Handler.
func RenderPage(w http.ResponseWriter, r *http.Request, full templ.Component, htmxTitle string, opts ...func(*templ.ComponentHandler)) {
	if !IsHTMXRequest(r) {
		templ.Handler(full, opts...).ServeHTTP(w, r)
		return
	}

	capture := newResponseBuffer()
	templ.Handler(full, opts...).ServeHTTP(capture, r)

	body := capture.body.Bytes()
	if capture.statusCode == http.StatusOK {
		if main, ok := extractMainContent(body); ok {
			body = addHTMXTitleIfMissing(main, htmxTitle)
		}
	}

	copyHeaders(w.Header(), capture.Header())
	if capture.statusCode != http.StatusOK {
		w.WriteHeader(capture.statusCode)
	}
	_, _ = w.Write(body)
}

// RequireHTMX rejects requests not issued by HTMX / Rejette les requêtes non émises par HTMX
func RequireHTMX(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IsHTMXRequest(r) {
			ErrorResponse(w, "HTMX request required", http.StatusBadRequest)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func addHTMXTitleIfMissing(body []byte, title string) []byte {
	if strings.TrimSpace(title) == "" || bytes.Contains(bytes.ToLower(body), []byte("<title")) {
		return body
	}
	return append([]byte(title), body...)
}

func copyHeaders(dst, src http.Header) {
	for key, values := range src {
		if strings.EqualFold(key, "Set-Cookie") {
			for _, value := range values {
				dst.Add(key, value)
			}
			continue
		}
		for _, value := range values {
			dst.Set(key, value)
		}
	}
}

func extractMainContent(body []byte) ([]byte, bool) {
	start := bytes.Index(body, []byte("<main"))
	if start < 0 {
		return nil, false
	}
	openClose := bytes.Index(body[start:], []byte(">"))
	if openClose < 0 {
		return nil, false
	}
	contentStart := start + openClose + 1
	end := bytes.Index(body[contentStart:], []byte("</main>"))
	if end < 0 {
		return nil, false
	}
	return body[contentStart : contentStart+end], true
}
