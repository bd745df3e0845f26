package ui

// NavItem is one link of a navbar dropdown / Lien d'un menu déroulant
type NavItem struct {
	Name string
	URL  string
}

func (n NavItem) String() string {
	return n.Name + " (" + n.URL + ")"
}

// NavMenu is a titled dropdown / Menu déroulant titré
type NavMenu struct {
	Title string
	Items []NavItem
}

// Navbar returns the top navigation menus in display order / Retourne les menus de navigation
func Navbar() []NavMenu {
	return []NavMenu{
		{Title: "Documentation", Items: []NavItem{
			{Name: "Blog", URL: "/blog/"},
			{Name: "Home", URL: "/home/"},
		}},
		{Title: "Components", Items: []NavItem{
			{Name: "User Interface", URL: "/ui-elements/"},
			{Name: "Home", URL: "/home/"},
		}},
		{Title: "Tools", Items: []NavItem{
			{Name: "Flash Cards", URL: "/flashcards/"},
		}},
	}
}
