package tasks

import (
	"fmt"

	"github.com/desertthunder/moviex/internal/models"
)

// ProgressUpdate represents a progress event during a list render.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchMovies Phase = iota
	ResolveThumbnails
	RowRendered
)

func (p Phase) String() string {
	switch p {
	case FetchMovies:
		return "fetch_movies"
	case ResolveThumbnails:
		return "resolve_thumbnails"
	case RowRendered:
		return "row_rendered"
	default:
		return ""
	}
}

func fetchMoviesUpdate(scope models.Scope) ProgressUpdate {
	msg := "Fetching movies..."
	if scope.IsOwned() {
		msg = fmt.Sprintf("Fetching movies owned by %s...", scope.Owner)
	}
	return ProgressUpdate{Phase: FetchMovies, Step: 1, Total: 1, Message: msg}
}

func resolveThumbnailsUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveThumbnails,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Resolving %d thumbnails...", total),
	}
}

func rowRenderedUpdate(step, total int, row Row) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RowRendered,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s", step, total, row.Movie.Title),
		Data:    row,
	}
}
