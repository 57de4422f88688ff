// package formatter provides functions to export rendered movie lists to various formats (text, JSON, YAML, CSV, Markdown, HTML)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/desertthunder/moviex/internal/shared"
	"github.com/desertthunder/moviex/internal/tasks"
	"github.com/desertthunder/moviex/internal/thumbnail"
	"github.com/desertthunder/moviex/internal/web"
)

// Format names accepted by [Export].
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatYAML     = "yaml"
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
)

// Formats lists every supported format.
var Formats = []string{FormatText, FormatJSON, FormatYAML, FormatCSV, FormatMarkdown, FormatHTML}

// Record is the flat, serializable form of a rendered row.
type Record struct {
	ID         string  `json:"id" yaml:"id"`
	Title      string  `json:"title" yaml:"title"`
	Author     string  `json:"author" yaml:"author"`
	ImageRef   string  `json:"image_url" yaml:"image_url"`
	AvgRating  float64 `json:"avg_rating" yaml:"avg_rating"`
	NumRatings int     `json:"num_ratings" yaml:"num_ratings"`
	Image      string  `json:"image,omitempty" yaml:"image,omitempty"` // data URI
	Action     string  `json:"action" yaml:"action"`
}

// NewRecord flattens a row. The image is included only when withImage is set.
func NewRecord(r tasks.Row, withImage bool) Record {
	rec := Record{
		ID:         r.Movie.ID,
		Title:      r.Movie.Title,
		Author:     r.Movie.Author,
		ImageRef:   r.Movie.ImageRef,
		AvgRating:  r.Movie.AvgRating,
		NumRatings: r.Movie.NumRatings,
		Action:     r.Action.String(),
	}
	if withImage {
		rec.Image = r.ImageURI()
	}
	return rec
}

func records(rows []tasks.Row, withImages bool) []Record {
	out := make([]Record, len(rows))
	for i, r := range rows {
		out[i] = NewRecord(r, withImages)
	}
	return out
}

// Export renders rows in the named format.
func Export(format, title string, rows []tasks.Row, withImages bool) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatText, "":
		return ExportToText(rows)
	case FormatJSON:
		return ExportToJSON(rows, withImages)
	case FormatYAML:
		return ExportToYAML(rows, withImages)
	case FormatCSV:
		return ExportToCSV(rows)
	case FormatMarkdown, "md":
		return ExportToMarkdown(title, rows)
	case FormatHTML:
		return ExportToHTML(title, rows)
	default:
		return nil, fmt.Errorf("%w: unknown format %q (want one of %s)", shared.ErrInvalidArgument, format, strings.Join(Formats, ", "))
	}
}

// ExportToText lists each movie the way the list page lays out a row
func ExportToText(rows []tasks.Row) ([]byte, error) {
	var buf bytes.Buffer

	for _, r := range rows {
		m := r.Movie
		buf.WriteString(fmt.Sprintf("Title: %s\n", m.Title))
		buf.WriteString(fmt.Sprintf("Author: %s\n", m.Author))
		buf.WriteString(fmt.Sprintf("Image: %s\n", imageLine(r.Image)))
		buf.WriteString(fmt.Sprintf("Average Rating: %s\n", formatRating(m.AvgRating)))
		buf.WriteString(fmt.Sprintf("Number of Ratings: %d\n", m.NumRatings))
		switch r.Action {
		case tasks.ActionDelete:
			buf.WriteString(fmt.Sprintf("Delete movie: moviex delete %s\n", m.ID))
		default:
			buf.WriteString(fmt.Sprintf("Rate this movie: moviex rate %s <1-5>\n", m.ID))
		}
		buf.WriteString("---\n")
	}

	return buf.Bytes(), nil
}

// ExportToJSON encodes rows as a JSON array of [Record].
func ExportToJSON(rows []tasks.Row, withImages bool) ([]byte, error) {
	data, err := shared.MarshalJSON(records(rows, withImages), true)
	if err != nil {
		return nil, fmt.Errorf("failed to encode JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// ExportToYAML encodes rows as a YAML sequence of [Record].
func ExportToYAML(rows []tasks.Row, withImages bool) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	if err := enc.Encode(records(rows, withImages)); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportToCSV converts rows to CSV format with columns: ID, Title, Author, Image Ref, Average Rating, Number of Ratings, Action
func ExportToCSV(rows []tasks.Row) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Author", "Image Ref", "Average Rating", "Number of Ratings", "Action"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, r := range rows {
		record := []string{
			r.Movie.ID,
			r.Movie.Title,
			r.Movie.Author,
			r.Movie.ImageRef,
			formatRating(r.Movie.AvgRating),
			strconv.Itoa(r.Movie.NumRatings),
			r.Action.String(),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts rows to Markdown with images embedded as data URIs
func ExportToMarkdown(title string, rows []tasks.Row) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("**Movies**: %d\n\n", len(rows)))

	for _, r := range rows {
		m := r.Movie
		buf.WriteString(fmt.Sprintf("## %s\n\n", m.Title))
		buf.WriteString(fmt.Sprintf("**Author**: %s\n\n", m.Author))
		if uri := r.ImageURI(); uri != "" {
			buf.WriteString(fmt.Sprintf("![Preview Image](%s)\n\n", uri))
		}
		buf.WriteString(fmt.Sprintf("**Average Rating**: %s\n", formatRating(m.AvgRating)))
		buf.WriteString(fmt.Sprintf("**Number of Ratings**: %d\n\n", m.NumRatings))
	}

	return buf.Bytes(), nil
}

// ExportToHTML renders rows as a standalone HTML page without forms.
func ExportToHTML(title string, rows []tasks.Row) ([]byte, error) {
	var buf bytes.Buffer
	if err := web.Render(&buf, web.Page{Title: title, Rows: rows, Static: true}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteExport renders rows and writes them to path.
func WriteExport(path, format, title string, rows []tasks.Row, withImages bool) error {
	data, err := Export(format, title, rows, withImages)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s file: %w", format, err)
	}
	return nil
}

func imageLine(img thumbnail.DisplayableImage) string {
	if img.Empty() {
		return "none"
	}
	info, err := thumbnail.Describe(img)
	if err != nil {
		return fmt.Sprintf("%s, %d bytes", img.MediaType, len(img.Data))
	}
	return fmt.Sprintf("%dx%d %s, %d bytes", info.Width, info.Height, info.Format, len(img.Data))
}

func formatRating(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
