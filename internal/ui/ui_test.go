package ui

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/moviex/internal/actions"
	"github.com/desertthunder/moviex/internal/models"
	"github.com/desertthunder/moviex/internal/services"
	"github.com/desertthunder/moviex/internal/session"
	"github.com/desertthunder/moviex/internal/shared"
	"github.com/desertthunder/moviex/internal/tasks"
	tu "github.com/desertthunder/moviex/internal/testing"
	"github.com/desertthunder/moviex/internal/thumbnail"
)

func containsAll(s string, subs ...string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}

func newTestModel(t *testing.T, store *session.MemoryStore) (*Model, *tu.FakeCatalog) {
	t.Helper()

	fake := tu.NewFakeCatalog(t)
	fake.Set(func(f *tu.FakeCatalog) {
		f.Movies = []models.MovieSummary{
			{ID: "65a1", Title: "Alien", Author: "Ridley Scott", ImageRef: "alien.png", AvgRating: 4.5, NumRatings: 2},
			{ID: "65a2", Title: "Brazil", Author: "Terry Gilliam"},
		}
		f.Owned["ada"] = []models.MovieSummary{{ID: "65a9", Title: "Cube", Author: "ada"}}
		f.Thumbnails["alien.png"] = tu.PNG(t, 3, 2)
	})

	logger := shared.NewLogger(io.Discard)
	client := services.NewHTTPClient(5*time.Second, session.NewJar(store, logger))
	svc := services.NewCatalogService(services.NewAPIService(fake.URL, client))

	m := NewModel(context.Background(), ModelOpts{
		Engine: tasks.NewListEngine(tasks.ListEngineOpts{
			Lister:   svc,
			Resolver: thumbnail.NewAssembler(thumbnail.AssemblerOpts{Fetcher: svc, Logger: logger}),
			Logger:   logger,
		}),
		Actions: actions.New(actions.ActionsOpts{Client: svc, Store: store, Logger: logger}),
		Store:   store,
	})
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m, fake
}

// run executes cmd and feeds every resulting message back into m until no work is left.
func run(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()

	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 500 {
			t.Fatal("too many commands")
		}
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}

		out := make(chan tea.Msg, 1)
		go func() { out <- next() }()

		var msg tea.Msg
		select {
		case msg = <-out:
		case <-time.After(time.Second):
			continue // timers and other long-running commands
		}

		switch msg := msg.(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case Msg:
			_, c := m.Update(msg)
			queue = append(queue, c)
		}
	}
}

func press(t *testing.T, m *Model, k tea.KeyMsg) {
	t.Helper()
	_, cmd := m.Update(k)
	run(t, m, cmd)
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	enterKey = tea.KeyMsg{Type: tea.KeyEnter}
	tabKey   = tea.KeyMsg{Type: tea.KeyTab}
)

func signedIn() *session.MemoryStore {
	return session.NewMemoryStore(session.Entry{Name: session.UsernameKey, Value: "ada", Path: "/"})
}

func TestModel(t *testing.T) {
	t.Run("init loads all movies", func(t *testing.T) {
		m, _ := newTestModel(t, signedIn())
		run(t, m, m.Init())

		if m.loading {
			t.Error("expected load to finish")
		}
		if got := len(m.movieList.Items()); got != 2 {
			t.Fatalf("expected 2 items, got %d", got)
		}
		view := m.View()
		if !containsAll(view, "Welcome, ada!", "Alien", "Brazil") {
			t.Errorf("unexpected view:\n%s", view)
		}
		for _, item := range m.movieList.Items() {
			r := item.(rowItem)
			if r.row.Movie.Title == "Alien" && !containsAll(r.Description(), "3x2 png") {
				t.Errorf("expected image summary, got %q", r.Description())
			}
			if r.row.Movie.Title == "Brazil" && !containsAll(r.Description(), "no image") {
				t.Errorf("expected no image, got %q", r.Description())
			}
		}
	})

	t.Run("signed out header", func(t *testing.T) {
		m, _ := newTestModel(t, session.NewMemoryStore())
		run(t, m, m.Init())

		if m.menu.IsVisible(LogoutButton) || !m.menu.IsVisible(LoginButton) {
			t.Error("expected signed out menu")
		}
	})

	t.Run("my movies requires session", func(t *testing.T) {
		m, _ := newTestModel(t, session.NewMemoryStore())
		run(t, m, m.Init())

		press(t, m, tabKey)
		if m.view != MovieListView {
			t.Errorf("expected to stay on movie list, got %v", m.view)
		}
		if !containsAll(m.View(), "Log in to see your movies") {
			t.Errorf("expected sign in notice:\n%s", m.View())
		}
	})

	t.Run("my movies and delete placeholder", func(t *testing.T) {
		m, fake := newTestModel(t, signedIn())
		run(t, m, m.Init())

		press(t, m, tabKey)
		if m.view != MyMoviesView {
			t.Fatalf("expected my movies view, got %v", m.view)
		}
		items := m.movieList.Items()
		if len(items) != 1 || items[0].(rowItem).row.Action != tasks.ActionDelete {
			t.Fatalf("unexpected items %+v", items)
		}
		if fake.Hits("/api/movies/ada") != 1 {
			t.Errorf("expected owner list request")
		}

		before := fake.TotalHits()
		press(t, m, enterKey)
		if m.view != ResultView {
			t.Fatalf("expected result view, got %v", m.view)
		}
		if !containsAll(m.View(), "Delete movie is not available yet") {
			t.Errorf("unexpected result view:\n%s", m.View())
		}
		if fake.TotalHits() != before {
			t.Error("delete placeholder should not call the service")
		}

		press(t, m, enterKey)
		if m.view != MyMoviesView {
			t.Errorf("expected to return to my movies, got %v", m.view)
		}
	})

	t.Run("rate out of range shows error", func(t *testing.T) {
		m, _ := newTestModel(t, signedIn())
		run(t, m, m.Init())

		press(t, m, enterKey)
		if m.view != RateView {
			t.Fatalf("expected rate view, got %v", m.view)
		}
		press(t, m, runes("9"))
		press(t, m, enterKey)

		if m.view != ResultView {
			t.Fatalf("expected result view, got %v", m.view)
		}
		if !containsAll(m.View(), "Rating must be between 1 and 5") {
			t.Errorf("unexpected result view:\n%s", m.View())
		}
	})

	t.Run("rate esc returns to list", func(t *testing.T) {
		m, _ := newTestModel(t, signedIn())
		run(t, m, m.Init())

		press(t, m, enterKey)
		press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
		if m.view != MovieListView {
			t.Errorf("expected movie list, got %v", m.view)
		}
	})

	t.Run("logout", func(t *testing.T) {
		store := signedIn()
		m, fake := newTestModel(t, store)
		run(t, m, m.Init())

		press(t, m, runes("L"))
		if m.view != ResultView {
			t.Fatalf("expected result view, got %v", m.view)
		}
		if m.result.report.Target != actions.LoginPage {
			t.Errorf("expected login target, got %q", m.result.report.Target)
		}
		if fake.Hits("/logout") != 1 {
			t.Error("expected logout request")
		}
		if m.username != "" || m.menu.IsVisible(LogoutButton) {
			t.Error("gate should reflect the cleared session")
		}
	})

	t.Run("list failure keeps rows", func(t *testing.T) {
		m, fake := newTestModel(t, signedIn())
		run(t, m, m.Init())

		fake.Set(func(f *tu.FakeCatalog) { f.ListStatus = 503 })
		press(t, m, runes("r"))

		if got := len(m.movieList.Items()); got != 2 {
			t.Errorf("expected previous rows to remain, got %d", got)
		}
		if !containsAll(m.View(), "Could not load movies") {
			t.Errorf("expected load error:\n%s", m.View())
		}
	})

	t.Run("stale progress is ignored", func(t *testing.T) {
		m, _ := newTestModel(t, signedIn())
		m.gen = 5

		wait := func() tea.Msg { return nil }
		_, cmd := m.Update(progressUpdateMsg(4, tasks.ProgressUpdate{Phase: tasks.ResolveThumbnails, Total: 9}, wait))
		if m.progress.Total == 9 {
			t.Error("stale update should not change progress")
		}
		if cmd == nil {
			t.Error("stale pass should keep draining")
		}
	})
}
