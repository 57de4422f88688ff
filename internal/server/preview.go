package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/moviex/internal/actions"
	"github.com/desertthunder/moviex/internal/models"
	"github.com/desertthunder/moviex/internal/session"
	"github.com/desertthunder/moviex/internal/shared"
	"github.com/desertthunder/moviex/internal/tasks"
	"github.com/desertthunder/moviex/internal/ui"
	"github.com/desertthunder/moviex/internal/web"
)

// PreviewOpts holds the dependencies of a [PreviewHandler].
type PreviewOpts struct {
	Engine     *tasks.ListEngine
	Actions    *actions.Actions
	Store      session.Store
	CatalogURL string // base of links to pages only the catalog service serves
	Logger     *log.Logger
}

// PreviewHandler serves movie list pages rendered from the catalog service.
type PreviewHandler struct {
	engine     *tasks.ListEngine
	actions    *actions.Actions
	store      session.Store
	gate       *ui.Gate
	catalogURL string
	logger     *log.Logger
	mux        *http.ServeMux
}

var _ Handler = (*PreviewHandler)(nil)

// NewPreviewHandler creates a PreviewHandler from opts.
func NewPreviewHandler(opts PreviewOpts) *PreviewHandler {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	h := &PreviewHandler{
		engine:     opts.Engine,
		actions:    opts.Actions,
		store:      opts.Store,
		gate:       ui.NewGate(opts.Store),
		catalogURL: strings.TrimSuffix(opts.CatalogURL, "/"),
		logger:     logger.With("component", "preview"),
		mux:        http.NewServeMux(),
	}

	h.mux.HandleFunc("GET /{$}", h.index)
	h.mux.HandleFunc("GET /movies", h.movies)
	h.mux.HandleFunc("GET /my-movies", h.myMovies)
	h.mux.HandleFunc("POST /movies/{id}/rating", h.rate)
	h.mux.HandleFunc("POST /my-movies/{id}/delete", h.delete)
	h.mux.HandleFunc("POST /logout", h.logout)
	return h
}

// Routes returns the HTTP routes this handler serves.
func (h *PreviewHandler) Routes() []string {
	return []string{
		"GET /{$}",
		"GET /movies",
		"GET /my-movies",
		"POST /movies/{id}/rating",
		"POST /my-movies/{id}/delete",
		"POST /logout",
	}
}

// ServeHTTP dispatches to the page handlers.
func (h *PreviewHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *PreviewHandler) index(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/movies", http.StatusFound)
}

func (h *PreviewHandler) movies(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, models.AllMovies, http.StatusOK, "", "")
}

func (h *PreviewHandler) myMovies(w http.ResponseWriter, r *http.Request) {
	scope, err := tasks.OwnedScope(r.Context(), h.store)
	if err != nil {
		http.Redirect(w, r, "/movies", http.StatusSeeOther)
		return
	}
	h.render(w, r, scope, http.StatusOK, "", "")
}

func (h *PreviewHandler) rate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	value, _ := strconv.Atoi(strings.TrimSpace(r.FormValue("rating")))

	surface := &pageSurface{}
	err := h.actions.WithSurface(surface).SubmitRating(r.Context(), id, value)

	status := http.StatusOK
	switch {
	case errors.Is(err, shared.ErrInvalidRating):
		status = http.StatusBadRequest
	case errors.Is(err, shared.ErrNotImplemented):
		status = http.StatusNotImplemented
		surface.ShowError("Rating submission is not available yet")
	}
	h.render(w, r, models.AllMovies, status, surface.message(), surface.errorText())
}

func (h *PreviewHandler) delete(w http.ResponseWriter, r *http.Request) {
	scope, err := tasks.OwnedScope(r.Context(), h.store)
	if err != nil {
		http.Redirect(w, r, "/movies", http.StatusSeeOther)
		return
	}

	surface := &pageSurface{}
	status := http.StatusOK
	if err := h.actions.WithSurface(surface).DeleteMovie(r.Context(), r.PathValue("id")); errors.Is(err, shared.ErrNotImplemented) {
		status = http.StatusNotImplemented
		surface.ShowError("Deleting movies is not available yet")
	}
	h.render(w, r, scope, status, surface.message(), surface.errorText())
}

func (h *PreviewHandler) logout(w http.ResponseWriter, r *http.Request) {
	surface := &pageSurface{}
	if err := h.actions.WithSurface(surface).Logout(r.Context()); err != nil {
		h.logger.Warn("logout failed", "error", err)
	}

	target := "/movies"
	if surface.target == actions.LoginPage && h.catalogURL != "" {
		target = h.catalogURL + actions.LoginPage
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// render loads scope into a fresh container and writes the page.
// A failed load renders no rows with a 502.
func (h *PreviewHandler) render(w http.ResponseWriter, r *http.Request, scope models.Scope, status int, msg, errMsg string) {
	container := tasks.NewContainer()
	if _, err := h.engine.Load(r.Context(), scope, container, nil); err != nil {
		h.logger.Warn("failed to load movies", "scope", scope, "error", err)
		if status < http.StatusBadRequest {
			status = http.StatusBadGateway
		}
	}

	title := "Movies"
	if scope.IsOwned() {
		title = "My movies"
	}

	page := web.Page{
		Title:   title,
		Nav:     h.nav(r),
		Message: msg,
		Error:   errMsg,
		Rows:    container.Rows(),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := web.Render(w, page); err != nil {
		h.logger.Error("failed to render page", "error", err)
	}
}

// nav builds the navigation bar from the gated menu.
func (h *PreviewHandler) nav(r *http.Request) []web.NavLink {
	menu := ui.NewMenu()
	h.gate.Apply(r.Context(), menu)

	links := []web.NavLink{{ID: "all-movies", Text: "Movies", Href: "/movies"}}
	for _, item := range menu.Visible() {
		link := web.NavLink{ID: item.ID, Text: item.Text}
		switch item.ID {
		case ui.MoviesButton:
			link.Href = "/my-movies"
		case ui.LogoutButton:
			link.Href, link.Post = "/logout", true
		case ui.LoginButton, ui.AddMoviesButton:
			link.Href = h.catalogURL + item.Target
		}
		links = append(links, link)
	}
	return links
}

// pageSurface collects what an action reported during one request.
type pageSurface struct {
	mu       sync.Mutex
	messages []string
	errors   []string
	target   string
}

func (s *pageSurface) ClearMessages() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages, s.errors = nil, nil
}

func (s *pageSurface) ShowError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = append(s.errors, msg)
}

func (s *pageSurface) ShowMessage(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
}

func (s *pageSurface) Notify(msg string) { s.ShowError(msg) }

func (s *pageSurface) Navigate(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.target = path
}

func (s *pageSurface) message() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return strings.Join(s.messages, " ")
}

func (s *pageSurface) errorText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return strings.Join(s.errors, " ")
}
