package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Colors names the hex values of each role in the interface.
// The web templates use the same message and error colors.
type Colors struct {
	Marquee string // screen titles
	Message string // success messages and the active menu entry
	Error   string
	Pending string // loading and not-yet-available notices
	Hint    string // key hints
}

// DefaultColors is the marquee gold scheme.
var DefaultColors = Colors{
	Marquee: "#F5C518",
	Message: "#2E9E6B",
	Error:   "#D7263D",
	Pending: "#E98A15",
	Hint:    "#7A7F8C",
}

var styles = NewPalette(DefaultColors)

// Palette holds the rendered style for each role in [Colors].
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}

func NewPalette(c Colors) *Palette {
	return &Palette{
		title: NewBold(c.Marquee).MarginBottom(1),
		ok:    NewBold(c.Message),
		err:   NewBold(c.Error),
		warn:  NewStyle(c.Pending),
		help:  NewStyle(c.Hint).Italic(true),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}
