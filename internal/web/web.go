// Package web renders movie lists as standalone HTML pages.
//
// Pages are rendered with html/template from embedded templates. Thumbnails are
// inlined as data URIs, so a page has no dependencies beyond the document itself.
//
// # Page layout
//
//   - navigation bar built from the visible navigation controls
//   - message and error regions
//   - one block per movie: title, author, preview image, average rating,
//     number of ratings, and either a rating form or a delete button
//
// The preview server (internal/server) serves these pages on localhost and
// the formatter's html output writes the same document to a file.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/desertthunder/moviex/internal/models"
	"github.com/desertthunder/moviex/internal/tasks"
)

//go:embed templates/*.html
var templateFiles embed.FS

var pages = template.Must(template.New("").Funcs(template.FuncMap{
	"imageURL":  imageURL,
	"rating":    formatRating,
	"isDelete":  func(r tasks.Row) bool { return r.Action == tasks.ActionDelete },
	"minRating": func() int { return models.MinRating },
	"maxRating": func() int { return models.MaxRating },
}).ParseFS(templateFiles, "templates/*.html"))

// NavLink is one entry of the page navigation bar. An empty Href renders as plain text.
type NavLink struct {
	ID   string
	Text string
	Href string
	Post bool // render as a form button posting to Href
}

// Page is the data of a rendered movie list.
type Page struct {
	Title   string
	Nav     []NavLink
	Message string
	Error   string
	Rows    []tasks.Row
	Static  bool // omit forms, for pages written to disk
}

// Render writes page as a complete HTML document.
func Render(w io.Writer, page Page) error {
	if err := pages.ExecuteTemplate(w, "movies.html", page); err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}
	return nil
}

// RenderString renders page into a string.
func RenderString(page Page) (string, error) {
	var b strings.Builder
	if err := Render(&b, page); err != nil {
		return "", err
	}
	return b.String(), nil
}

// imageURL marks a row's data URI as safe for an img src.
func imageURL(r tasks.Row) template.URL {
	uri := r.ImageURI()
	if !strings.HasPrefix(uri, "data:image/") {
		return ""
	}
	return template.URL(uri)
}

func formatRating(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}
