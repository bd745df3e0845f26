package ui

import "github.com/Olprog59/go-contenthub/internal/domain"

// PageData is passed to every full page / Données passées à chaque page complète
type PageData struct {
	Title           string
	SiteName        string
	TailwindVersion string
	HTMXVersion     string
	Nav             []NavMenu
	CSRFToken       string
	Data            any
}

// ServerInfo describes the running binary / Décrit le binaire en cours
type ServerInfo struct {
	GoVersion string
	OS        string
	Arch      string
}

// VersionInfo carries a single library version / Porte la version d'une bibliothèque
type VersionInfo struct {
	Version string
}

// NumberView is rendered by the display-number partial
type NumberView struct {
	Number int
}

// BlogView is the blog landing page / Page d'accueil du blog
type BlogView struct {
	Categories []*domain.BlogCategory
	Colors     []domain.PostColor
}

// PostListView is one page of the searchable post list / Une page de la liste d'articles
type PostListView struct {
	Page        domain.Page[*domain.BlogPost]
	SearchQuery string
}

// DeckListView is one page of the deck list / Une page de la liste de paquets
type DeckListView struct {
	Page  domain.Page[*domain.Deck]
	Query string
}

// DeckListOptionsView feeds the deck filter controls
type DeckListOptionsView struct {
	Subjects []*domain.Subject
}

// DeckView is a deck with the viewer's progress / Un paquet avec la progression du lecteur
type DeckView struct {
	Deck     *domain.Deck
	Progress map[int64]*domain.UserProgress
	Choices  map[int64][]string
}

// AnswerView is the outcome of answering a card / Résultat d'une réponse à une fiche
type AnswerView struct {
	CardID   int64
	Given    string
	Expected string
	Correct  bool
	Progress *domain.UserProgress
}
