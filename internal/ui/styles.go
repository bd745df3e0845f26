package ui

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
)

// Background palette shared by the registered styles / Palette de fond partagée par les styles
var (
	BackgroundColors       = []string{"bg-zinc-900", "bg-zinc-950", "bg-black"}
	BackgroundBorderColors = []string{"border-zinc-800", "border-zinc-900", "border-zinc-950", "border-black"}
)

// Style is a named bundle of Tailwind classes / Ensemble nommé de classes Tailwind
type Style struct {
	Name    string
	Classes string
}

// StyleRegistry holds the styles templates may reference by name.
// Registering a style also makes the dummy generator emit its classes.
type StyleRegistry struct {
	mu     sync.RWMutex
	styles map[string]Style
}

// NewStyleRegistry creates an empty registry / Crée un registre vide
func NewStyleRegistry() *StyleRegistry {
	return &StyleRegistry{styles: make(map[string]Style)}
}

// Register adds or replaces a style; whitespace in classes is collapsed.
func (r *StyleRegistry) Register(name, classes string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.styles[name] = Style{Name: name, Classes: strings.Join(strings.Fields(classes), " ")}
}

// Classes returns the classes of a style, or "" when unknown / Retourne les classes d'un style
func (r *StyleRegistry) Classes(name string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.styles[name].Classes
}

// Styles returns every style sorted by name / Retourne les styles triés par nom
func (r *StyleRegistry) Styles() []Style {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Style, 0, len(r.styles))
	for _, s := range r.styles {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// WriteTailwindDummy writes one hidden div per style plus one for the palette,
// so the Tailwind scanner sees classes only built at runtime.
// Returns the names of the styles written; empty styles are skipped.
func (r *StyleRegistry) WriteTailwindDummy(w io.Writer) ([]string, error) {
	var written []string
	for _, s := range r.Styles() {
		if s.Classes == "" {
			continue
		}
		if _, err := fmt.Fprintf(w, "<div class=\"hidden %s\"></div>\n", s.Classes); err != nil {
			return written, err
		}
		written = append(written, s.Name)
	}

	palette := append(append([]string{}, BackgroundColors...), BackgroundBorderColors...)
	if _, err := fmt.Fprintf(w, "<div class=\"hidden %s\"></div>\n", strings.Join(palette, " ")); err != nil {
		return written, err
	}
	return written, nil
}

// DefaultStyles returns the registry with the built-in button and dropdown styles.
// Retourne le registre avec les styles intégrés.
func DefaultStyles() *StyleRegistry {
	bg, border := BackgroundColors, BackgroundBorderColors
	r := NewStyleRegistry()

	r.Register("basic-button", `
		transition-all duration-200 ease-linear text-white/50
		my-2 pt-1 border-x rounded-md md:text-base text-sm
		`+border[1]+` hover:`+bg[2]+` hover:`+border[0]+`
		hover:text-white hover:font-bold hover:cursor-pointer
		hover:border-x-4 hover:rounded-lg hover:my-0 hover:pt-3`)

	r.Register("deranged-button", `
		active transition-all duration-200 ease-linear text-black/50
		my-2 pt-1 border-x rounded-md bg-red-500 hover:bg-red-600 border-red-800
		hover:`+border[0]+` hover:text-black hover:font-bold hover:cursor-pointer
		hover:border-x-4 hover:rounded-lg hover:my-0 hover:pt-3`)

	r.Register("basic-dropdown", `
		font-normal transition-all duration-200 ease-linear text-white/50 shadow-md shadow-black
		absolute top-full left-0 w-full flex flex-col border-x-2 rounded-b-md
		`+bg[2]+` `+border[0]+`
		[&>a]:text-white/50 hover:[&>a]:text-white hover:[&>a]:cursor-pointer
		[&>a]:`+bg[1]+` hover:[&>a]:`+bg[2])

	r.Register("deranged-dropdown", `
		font-normal transition-all duration-200 ease-linear text-white/50 shadow-md shadow-black
		absolute top-full left-0 w-full flex flex-col border-x-2 rounded-b-md
		bg-green-500 border-green-800
		[&>a]:text-black/50 [&>a]:py-1 hover:[&>a]:text-black hover:[&>a]:cursor-pointer
		[&>a]:bg-green-500 hover:[&>a]:bg-green-700`)

	return r
}
