package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// MenuItem is one entry of the navigation bar.
type MenuItem struct {
	ID      string
	Text    string
	Target  string // navigation path, empty for labels
	Key     string // shortcut shown next to the text
	Visible bool
}

func (i *MenuItem) SetVisible(visible bool) { i.Visible = visible }
func (i *MenuItem) SetText(text string)     { i.Text = text }

// Menu is an ordered navigation bar implementing [Controls].
type Menu struct {
	items []*MenuItem
}

var _ Controls = (*Menu)(nil)

// NewMenu returns the navigation bar with every control present.
// The username label starts hidden.
func NewMenu() *Menu {
	return &Menu{items: []*MenuItem{
		{ID: UsernameDisplay},
		{ID: MoviesButton, Text: "My movies", Target: "/my-movies", Key: "tab", Visible: true},
		{ID: AddMoviesButton, Text: "Add movie", Target: "/add-movie", Visible: true},
		{ID: LogoutButton, Text: "Logout", Target: "/logout", Key: "L", Visible: true},
		{ID: LoginButton, Text: "Login", Target: "/login", Visible: true},
	}}
}

// Lookup implements [Controls].
func (m *Menu) Lookup(id string) (Control, bool) {
	if item := m.item(id); item != nil {
		return item, true
	}
	return nil, false
}

// Remove drops the control with id from the menu.
func (m *Menu) Remove(id string) {
	for i, item := range m.items {
		if item.ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return
		}
	}
}

// IsVisible reports whether id is present and visible.
func (m *Menu) IsVisible(id string) bool {
	item := m.item(id)
	return item != nil && item.Visible
}

// Visible returns copies of the visible items in order.
func (m *Menu) Visible() []MenuItem {
	var out []MenuItem
	for _, item := range m.items {
		if item.Visible {
			out = append(out, *item)
		}
	}
	return out
}

// Render draws the visible items on one line.
func (m *Menu) Render(p *Palette) string {
	var parts []string
	for _, item := range m.Visible() {
		switch {
		case item.ID == UsernameDisplay:
			parts = append(parts, p.ok.Render(item.Text))
		case item.Key != "":
			parts = append(parts, item.Text+" "+p.help.Render("("+item.Key+")"))
		default:
			parts = append(parts, item.Text)
		}
	}
	return lipgloss.NewStyle().MarginBottom(1).Render(strings.Join(parts, "  │  "))
}

func (m *Menu) item(id string) *MenuItem {
	for _, item := range m.items {
		if item.ID == id {
			return item
		}
	}
	return nil
}
