package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/desertthunder/moviex/internal/tasks"
	"github.com/desertthunder/moviex/internal/thumbnail"
)

var (
	_ list.Item = rowItem{}
)

// rowItem wraps [tasks.Row] to implement [list.Item].
type rowItem struct {
	row tasks.Row
}

func (i rowItem) FilterValue() string { return i.row.Movie.Title }
func (i rowItem) Title() string       { return i.row.Movie.Title }
func (i rowItem) Description() string {
	m := i.row.Movie
	desc := fmt.Sprintf("%s • ★ %.1f (%d ratings)", m.Author, m.AvgRating, m.NumRatings)
	return fmt.Sprintf("%s • %s", desc, imageSummary(i.row.Image))
}

func imageSummary(img thumbnail.DisplayableImage) string {
	if img.Empty() {
		return "no image"
	}
	info, err := thumbnail.Describe(img)
	if err != nil {
		return img.MediaType
	}
	return fmt.Sprintf("%dx%d %s", info.Width, info.Height, info.Format)
}

func rowItems(rows []tasks.Row) []list.Item {
	items := make([]list.Item, len(rows))
	for i, r := range rows {
		items[i] = rowItem{row: r}
	}
	return items
}
