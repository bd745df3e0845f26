package domain

import (
	"fmt"
	"unicode/utf8"
)

// Field limits for blog records / Limites des champs du blog
const (
	MaxCategoryNameLength = 255
	MaxPostTitleLength    = 64
	MaxPostIntroLength    = 128
)

// PostColor is the accent color of a post card / Couleur d'accent d'une carte d'article
type PostColor string

const (
	ColorRed    PostColor = "red"
	ColorOrange PostColor = "orange"
	ColorYellow PostColor = "yellow"
	ColorGreen  PostColor = "green"
	ColorTeal   PostColor = "teal"
	ColorBlue   PostColor = "blue"
	ColorIndigo PostColor = "indigo"
	ColorPurple PostColor = "purple"
	ColorPink   PostColor = "pink"
	ColorGray   PostColor = "gray"
)

// DefaultPostColor is used when none is given / Utilisée quand aucune n'est fournie
const DefaultPostColor = ColorRed

// PostColors lists the allowed colors in display order / Liste les couleurs autorisées
func PostColors() []PostColor {
	return []PostColor{
		ColorRed, ColorOrange, ColorYellow, ColorGreen, ColorTeal,
		ColorBlue, ColorIndigo, ColorPurple, ColorPink, ColorGray,
	}
}

// IsValid checks the color is allowed / Vérifie que la couleur est autorisée
func (c PostColor) IsValid() bool {
	for _, allowed := range PostColors() {
		if c == allowed {
			return true
		}
	}
	return false
}

// BlogCategory groups posts / Regroupe les articles
type BlogCategory struct {
	ID   int64
	Name string
}

func (c *BlogCategory) String() string {
	return c.Name
}

// BlogPost is a published article / Article publié
type BlogPost struct {
	BaseModel
	ID             int64
	AuthorID       int64
	AuthorUsername string
	CategoryID     int64
	CategoryName   string
	Slug           string
	Title          string
	Intro          string
	Content        string
	Color          PostColor
	TitleLength    int
	IntroLength    int
}

// PrepareForSave fills derived fields / Remplit les champs dérivés
func (p *BlogPost) PrepareForSave() {
	if p.Color == "" {
		p.Color = DefaultPostColor
	}
	p.TitleLength = utf8.RuneCountInString(p.Title)
	p.IntroLength = utf8.RuneCountInString(p.Intro)
}

func (p *BlogPost) String() string {
	return fmt.Sprintf("%s by %s", p.Title, p.AuthorUsername)
}

// PostSearchField names a searchable post column / Nomme une colonne d'article recherchable
type PostSearchField string

const (
	PostFieldTitle          PostSearchField = "title"
	PostFieldIntro          PostSearchField = "intro"
	PostFieldContent        PostSearchField = "content"
	PostFieldAuthorUsername PostSearchField = "author_username"
)

// DefaultPostSearchFields returns title, intro and author username / Retourne titre, intro et auteur
func DefaultPostSearchFields() []PostSearchField {
	return []PostSearchField{PostFieldTitle, PostFieldIntro, PostFieldAuthorUsername}
}
