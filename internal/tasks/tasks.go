// package tasks implements movie list rendering against the catalog service.
//
// The core abstraction is ListEngine, which fetches a collection and resolves each row's thumbnail concurrently.
// Operations emit progress updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/moviex/internal/models"
	"github.com/desertthunder/moviex/internal/session"
	"github.com/desertthunder/moviex/internal/shared"
	"github.com/desertthunder/moviex/internal/thumbnail"
)

// MovieLister fetches a movie collection.
//
// This abstraction allows for easier testing and decoupling from the concrete HTTP client.
type MovieLister interface {
	ListMovies(ctx context.Context, scope models.Scope) ([]models.MovieSummary, error)
}

// ImageResolver turns an image reference into a displayable image without failing.
type ImageResolver interface {
	Resolve(ctx context.Context, ref string) thumbnail.DisplayableImage
}

// ListEngineOpts configures a [ListEngine].
type ListEngineOpts struct {
	Lister        MovieLister
	Resolver      ImageResolver
	Logger        *log.Logger
	PreserveOrder bool // append rows in source order instead of completion order
}

// ListEngine renders movie lists.
type ListEngine struct {
	lister        MovieLister
	resolver      ImageResolver
	logger        *log.Logger
	preserveOrder bool

	mu sync.Mutex // serializes Load
}

type resolvedRow struct {
	index int
	row   Row
}

// NewListEngine creates a new ListEngine with the provided dependencies.
func NewListEngine(opts ListEngineOpts) *ListEngine {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &ListEngine{
		lister:        opts.Lister,
		resolver:      opts.Resolver,
		logger:        logger.With("component", "list"),
		preserveOrder: opts.PreserveOrder,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *ListEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Load replaces target's rows with the movies of scope and returns how many rows were rendered.
//
// If the collection cannot be fetched, target is not touched.
func (e *ListEngine) Load(ctx context.Context, scope models.Scope, target Renderer, progress chan<- ProgressUpdate) (int, error) {
	if e.lister == nil || e.resolver == nil {
		return 0, fmt.Errorf("%w: list engine not initialized", shared.ErrServiceUnavailable)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.sendProgress(progress, fetchMoviesUpdate(scope))

	movies, err := e.lister.ListMovies(ctx, scope)
	if err != nil {
		e.logger.Error("failed to fetch movies", "scope", scope, "error", err)
		return 0, fmt.Errorf("%w: fetch %s movies: %w", shared.ErrAPIRequest, scope, err)
	}

	action := ActionFor(scope)
	target.Reset(action)

	total := len(movies)
	e.sendProgress(progress, resolveThumbnailsUpdate(total))
	if total == 0 {
		return 0, nil
	}

	results := make(chan resolvedRow, total)
	for i, m := range movies {
		go func() {
			img := e.resolver.Resolve(ctx, m.ImageRef)
			results <- resolvedRow{index: i, row: Row{Movie: m, Image: img, Action: action}}
		}()
	}

	emit := func(step int, row Row) {
		target.Append(row)
		e.sendProgress(progress, rowRenderedUpdate(step, total, row))
	}

	if !e.preserveOrder {
		for step := 1; step <= total; step++ {
			r := <-results
			emit(step, r.row)
		}
		return total, nil
	}

	pending := make(map[int]Row, total)
	next := 0
	for range total {
		r := <-results
		pending[r.index] = r.row
		for {
			row, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			next++
			emit(next, row)
		}
	}
	return total, nil
}

// OwnedScope returns the scope of the signed-in user's movies.
func OwnedScope(ctx context.Context, store session.Store) (models.Scope, error) {
	name, ok := session.CurrentUsername(ctx, store)
	if !ok {
		return models.Scope{}, shared.ErrNotAuthenticated
	}
	return models.OwnedBy(name), nil
}
