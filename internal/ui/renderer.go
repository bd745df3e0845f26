package ui

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/a-h/templ"
)

//go:embed templates
var templateFS embed.FS

// Renderer holds the parsed layout, pages and partials.
// Renderer contient le layout, les pages et les partials analysés.
type Renderer struct {
	base  *template.Template
	pages map[string]*template.Template
}

// NewRenderer parses every embedded template.
// Each page is a clone of the layout and partials plus its own "content" block.
func NewRenderer(styles *StyleRegistry) (*Renderer, error) {
	if styles == nil {
		styles = DefaultStyles()
	}

	base, err := template.New("layout.html").Funcs(FuncMap(styles)).
		ParseFS(templateFS, "templates/layout.html", "templates/partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	pageFiles, err := fs.Glob(templateFS, "templates/pages/*.html")
	if err != nil {
		return nil, err
	}

	r := &Renderer{base: base, pages: make(map[string]*template.Template, len(pageFiles))}
	for _, file := range pageFiles {
		name := strings.TrimSuffix(path.Base(file), ".html")
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layout for %s: %w", name, err)
		}
		if _, err := clone.ParseFS(templateFS, file); err != nil {
			return nil, fmt.Errorf("parse page %s: %w", name, err)
		}
		r.pages[name] = clone
	}

	return r, nil
}

// Pages lists the page names / Liste les noms de pages
func (r *Renderer) Pages() []string {
	names := make([]string, 0, len(r.pages))
	for name := range r.pages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasPartial reports whether a partial is defined / Indique si un partial existe
func (r *Renderer) HasPartial(name string) bool {
	return r.base.Lookup(name) != nil
}

// Page returns the full page component / Retourne le composant de page complète
func (r *Renderer) Page(name string, data PageData) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		t, ok := r.pages[name]
		if !ok {
			return fmt.Errorf("unknown page %q", name)
		}
		return execute(w, t, "layout", data)
	})
}

// Partial returns a fragment component / Retourne un composant fragment
func (r *Renderer) Partial(name string, data any) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if r.base.Lookup(name) == nil {
			return fmt.Errorf("unknown partial %q", name)
		}
		return execute(w, r.base, name, data)
	})
}

// execute renders into a buffer so a failing template writes nothing
func execute(w io.Writer, t *template.Template, name string, data any) error {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}
