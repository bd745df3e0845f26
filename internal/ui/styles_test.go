package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStyleRegistry(t *testing.T) {
	r := NewStyleRegistry()
	r.Register("b", "  text-white\n\t bg-black ")
	r.Register("a", "p-2")

	assert.Equal(t, "text-white bg-black", r.Classes("b"))
	assert.Empty(t, r.Classes("unknown"))

	styles := r.Styles()
	require.Len(t, styles, 2)
	assert.Equal(t, "a", styles[0].Name)
	assert.Equal(t, "b", styles[1].Name)
}

func TestDefaultStyles(t *testing.T) {
	r := DefaultStyles()
	for _, name := range []string{"basic-button", "deranged-button", "basic-dropdown", "deranged-dropdown"} {
		assert.NotEmpty(t, r.Classes(name), name)
	}
	assert.Contains(t, r.Classes("basic-button"), "hover:bg-black")
}

func TestWriteTailwindDummy(t *testing.T) {
	r := NewStyleRegistry()
	r.Register("button", "p-2 text-white")
	r.Register("empty", "   ")

	var buf bytes.Buffer
	written, err := r.WriteTailwindDummy(&buf)
	require.NoError(t, err)

	assert.Equal(t, []string{"button"}, written)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `<div class="hidden p-2 text-white"></div>`, lines[0])
	assert.Contains(t, lines[1], "bg-zinc-900 bg-zinc-950 bg-black border-zinc-800")
}

func TestNavbar(t *testing.T) {
	menus := Navbar()
	require.Len(t, menus, 3)

	assert.Equal(t, "Documentation", menus[0].Title)
	assert.Equal(t, []NavItem{{"Blog", "/blog/"}, {"Home", "/home/"}}, menus[0].Items)
	assert.Equal(t, "Components", menus[1].Title)
	assert.Equal(t, "User Interface", menus[1].Items[0].Name)
	assert.Equal(t, "Tools", menus[2].Title)
	assert.Equal(t, "Flash Cards (/flashcards/)", menus[2].Items[0].String())
}
