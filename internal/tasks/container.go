package tasks

import (
	"sync"

	"github.com/desertthunder/moviex/internal/models"
	"github.com/desertthunder/moviex/internal/thumbnail"
)

// Action is the per-row affordance of a rendered list.
type Action int

const (
	ActionRate Action = iota
	ActionDelete
)

func (a Action) String() string {
	switch a {
	case ActionRate:
		return "rate"
	case ActionDelete:
		return "delete"
	default:
		return ""
	}
}

// ActionFor returns the row action for lists of scope.
func ActionFor(scope models.Scope) Action {
	if scope.IsOwned() {
		return ActionDelete
	}
	return ActionRate
}

// Row is one rendered movie.
type Row struct {
	Movie  models.MovieSummary
	Image  thumbnail.DisplayableImage
	Action Action
}

// ImageURI returns the row's image as a data URI, or "" when there is none.
func (r Row) ImageURI() string {
	return r.Image.URI()
}

// Renderer receives the rows of one render pass.
type Renderer interface {
	Reset(action Action)
	Append(row Row)
}

// Container holds the rows of the most recent render pass.
type Container struct {
	mu     sync.RWMutex
	action Action
	rows   []Row
}

// NewContainer returns an empty Container.
func NewContainer() *Container {
	return &Container{}
}

// Reset discards all rows and sets the action for the next pass.
func (c *Container) Reset(action Action) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.action = action
	c.rows = nil
}

// Append adds a row to the end.
func (c *Container) Append(row Row) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rows = append(c.rows, row)
}

// Rows returns a snapshot of the current rows.
func (c *Container) Rows() []Row {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Row(nil), c.rows...)
}

// Len returns the number of rows.
func (c *Container) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.rows)
}

// Action returns the action of the current pass.
func (c *Container) Action() Action {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.action
}
