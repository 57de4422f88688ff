package ui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/moviex/internal/actions"
	"github.com/desertthunder/moviex/internal/models"
	"github.com/desertthunder/moviex/internal/session"
	"github.com/desertthunder/moviex/internal/shared"
	"github.com/desertthunder/moviex/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	MovieListView ViewState = iota
	MyMoviesView
	RateView
	ResultView
)

// ModelOpts holds the dependencies of a [Model].
type ModelOpts struct {
	Engine  *tasks.ListEngine
	Actions *actions.Actions
	Store   session.Store
}

// Model represents the TUI application state.
type Model struct {
	ctx       context.Context
	view      ViewState
	prev      ViewState
	engine    *tasks.ListEngine
	actions   *actions.Actions
	store     session.Store
	gate      *Gate
	menu      *Menu
	container *tasks.Container
	scope     models.Scope
	username  string
	width     int
	height    int
	movieList list.Model
	loading   bool
	gen       int
	progress  tasks.ProgressUpdate
	rateInput textinput.Model
	rating    tasks.Row
	result    actionDone
	err       error
	help      help.Model
	keys      keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, opts ModelOpts) *Model {
	input := textinput.New()
	input.Placeholder = fmt.Sprintf("%d-%d", models.MinRating, models.MaxRating)
	input.CharLimit = 2

	movieList := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	movieList.Title = "Movies"

	return &Model{
		ctx:       ctx,
		view:      MovieListView,
		engine:    opts.Engine,
		actions:   opts.Actions,
		store:     opts.Store,
		gate:      NewGate(opts.Store),
		menu:      NewMenu(),
		container: tasks.NewContainer(),
		movieList: movieList,
		rateInput: input,
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// Init applies the session gate and starts loading every movie.
func (m *Model) Init() tea.Cmd {
	m.refreshGate()
	return m.load(models.AllMovies)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.movieList.SetSize(msg.Width-4, msg.Height-10)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case MovieListView, MyMoviesView:
			return m.handleListKeys(msg)
		case RateView:
			return m.handleRateKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateList(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgProgressUpdate:
		ev := msg.data.(progressEvent)
		if ev.gen != m.gen {
			return m, ev.wait
		}
		update := ev.update
		m.progress = update
		var cmd tea.Cmd
		switch update.Phase {
		case tasks.ResolveThumbnails:
			cmd = m.movieList.SetItems(nil)
		case tasks.RowRendered:
			if row, ok := update.Data.(tasks.Row); ok {
				cmd = m.movieList.InsertItem(len(m.movieList.Items()), rowItem{row: row})
			}
		}
		return m, tea.Batch(cmd, ev.wait)

	case MsgListLoaded:
		res := msg.data.(listLoaded)
		if res.gen != m.gen {
			return m, nil
		}
		m.loading = false
		if res.err != nil {
			m.err = res.err
			return m, nil
		}
		return m, m.movieList.SetItems(rowItems(m.container.Rows()))

	case MsgActionDone:
		res := msg.data.(actionDone)
		m.refreshGate()
		silent := res.err != nil && !errors.Is(res.err, shared.ErrNotImplemented) && res.report.empty()
		if silent {
			m.view = m.prev
			return m, nil
		}
		m.result = res
		m.view = ResultView
		return m, nil
	}
	return m, nil
}

func (r report) empty() bool {
	return len(r.Errors) == 0 && len(r.Messages) == 0 && len(r.Notices) == 0 && r.Target == ""
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	header := m.menu.Render(styles)

	var body string
	switch m.view {
	case MovieListView, MyMoviesView:
		body = m.renderList()
	case RateView:
		body = m.renderRate()
	case ResultView:
		body = m.renderResult()
	}
	return fmt.Sprintf("%s\n%s", header, body)
}

func (m *Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.movieList.FilterState() == list.Filtering {
		return m.updateList(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.toggle):
		return m, m.toggleScope()
	case key.Matches(msg, m.keys.reload):
		return m, m.load(m.scope)
	case key.Matches(msg, m.keys.logout):
		m.prev = m.view
		return m, m.runAction("logout", func(a *actions.Actions) error { return a.Logout(m.ctx) })
	case key.Matches(msg, m.keys.enter):
		item, ok := m.movieList.SelectedItem().(rowItem)
		if !ok {
			return m, nil
		}
		m.prev = m.view
		if item.row.Action == tasks.ActionDelete {
			id := item.row.Movie.ID
			return m, m.runAction("delete", func(a *actions.Actions) error { return a.DeleteMovie(m.ctx, id) })
		}
		m.rating = item.row
		m.rateInput.SetValue("")
		m.view = RateView
		return m, m.rateInput.Focus()
	}

	return m.updateList(msg)
}

func (m *Model) handleRateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.rateInput.Blur()
		m.view = m.prev
		return m, nil
	case "enter":
		m.rateInput.Blur()
		value, _ := strconv.Atoi(strings.TrimSpace(m.rateInput.Value()))
		id := m.rating.Movie.ID
		return m, m.runAction("rate", func(a *actions.Actions) error { return a.SubmitRating(m.ctx, id, value) })
	}

	var cmd tea.Cmd
	m.rateInput, cmd = m.rateInput.Update(msg)
	return m, cmd
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.enter), key.Matches(msg, m.keys.back):
		if m.result.report.Target != "" {
			m.view = MovieListView
			return m, m.load(models.AllMovies)
		}
		m.view = m.prev
		return m, nil
	}
	return m, nil
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.movieList, cmd = m.movieList.Update(msg)
	return m, cmd
}

func (m *Model) refreshGate() {
	m.username, _ = m.gate.Apply(m.ctx, m.menu)
	if m.view == MyMoviesView {
		m.menu.item(MoviesButton).SetText("All movies")
	} else {
		m.menu.item(MoviesButton).SetText("My movies")
	}
}

func (m *Model) toggleScope() tea.Cmd {
	if m.view == MyMoviesView {
		m.view = MovieListView
		m.refreshGate()
		return m.load(models.AllMovies)
	}

	scope, err := tasks.OwnedScope(m.ctx, m.store)
	if err != nil {
		m.err = err
		return nil
	}
	m.view = MyMoviesView
	m.refreshGate()
	return m.load(scope)
}

// load starts a render pass for scope; rows arrive as progress messages.
func (m *Model) load(scope models.Scope) tea.Cmd {
	m.scope = scope
	m.loading = true
	m.err = nil
	m.progress = tasks.ProgressUpdate{}
	if scope.IsOwned() {
		m.movieList.Title = "My movies"
	} else {
		m.movieList.Title = "Movies"
	}

	m.gen++
	gen := m.gen
	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan Msg, 1)

	container := tasks.NewContainer()
	m.container = container

	engine, ctx := m.engine, m.ctx
	go func() {
		n, err := engine.Load(ctx, scope, container, progress)
		done <- listLoadedMsg(gen, scope, n, err)
		close(progress)
	}()

	return waitForProgress(gen, progress, done)
}

func (m *Model) runAction(name string, fn func(a *actions.Actions) error) tea.Cmd {
	rec := &recorder{}
	a := m.actions.WithSurface(rec)
	return func() tea.Msg {
		err := fn(a)
		return actionDoneMsg(name, rec.snapshot(), err)
	}
}

func (m *Model) renderList() string {
	var status string
	switch {
	case m.err != nil:
		status = styles.err.Render(errorText(m.err))
	case m.loading:
		status = styles.warn.Render(loadingText(m.progress))
	}

	helpKeys := []key.Binding{m.keys.enter, m.keys.toggle, m.keys.reload, m.keys.quit}
	if m.username != "" {
		helpKeys = append(helpKeys, m.keys.logout)
	}
	helpView := m.help.ShortHelpView(helpKeys)

	if status == "" {
		return fmt.Sprintf("%s\n\n%s", m.movieList.View(), helpView)
	}
	return fmt.Sprintf("%s\n%s\n\n%s", status, m.movieList.View(), helpView)
}

func (m *Model) renderRate() string {
	title := styles.title.Render(fmt.Sprintf("Rate '%s'", m.rating.Movie.Title))
	info := fmt.Sprintf("Author: %s\nAverage Rating: %.1f\nNumber of Ratings: %d",
		m.rating.Movie.Author, m.rating.Movie.AvgRating, m.rating.Movie.NumRatings)

	submit := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit"))
	helpView := m.help.ShortHelpView([]key.Binding{submit, m.keys.back})

	return fmt.Sprintf("%s\n%s\n\nRate this movie: %s\n\n%s", title, info, m.rateInput.View(), helpView)
}

func (m *Model) renderResult() string {
	var lines []string
	for _, n := range m.result.report.Notices {
		lines = append(lines, styles.warn.Render(n))
	}
	for _, e := range m.result.report.Errors {
		lines = append(lines, styles.err.Render(e))
	}
	for _, msg := range m.result.report.Messages {
		lines = append(lines, styles.ok.Render(msg))
	}
	if errors.Is(m.result.err, shared.ErrNotImplemented) && len(m.result.report.Errors) == 0 {
		lines = append(lines, styles.warn.Render(fmt.Sprintf("%s is not available yet", actionTitle(m.result.name))))
	}
	if t := m.result.report.Target; t != "" {
		lines = append(lines, styles.ok.Render(fmt.Sprintf("%s complete, continue to %s", actionTitle(m.result.name), t)))
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.quit})
	return fmt.Sprintf("%s\n%s\n\n%s", styles.title.Render(actionTitle(m.result.name)), strings.Join(lines, "\n"), helpView)
}

func loadingText(p tasks.ProgressUpdate) string {
	switch p.Phase {
	case tasks.ResolveThumbnails, tasks.RowRendered:
		if p.Total > 0 {
			return fmt.Sprintf("Loading thumbnails (%d/%d)", p.Step, p.Total)
		}
	}
	return "Fetching movies..."
}

func errorText(err error) string {
	if errors.Is(err, shared.ErrNotAuthenticated) {
		return "Log in to see your movies"
	}
	return "Could not load movies"
}

func actionTitle(name string) string {
	switch name {
	case "logout":
		return "Logout"
	case "delete":
		return "Delete movie"
	case "rate":
		return "Submit rating"
	default:
		return name
	}
}
