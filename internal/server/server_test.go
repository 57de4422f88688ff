package server

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/moviex/internal/actions"
	"github.com/desertthunder/moviex/internal/models"
	"github.com/desertthunder/moviex/internal/services"
	"github.com/desertthunder/moviex/internal/session"
	"github.com/desertthunder/moviex/internal/shared"
	"github.com/desertthunder/moviex/internal/tasks"
	tu "github.com/desertthunder/moviex/internal/testing"
	"github.com/desertthunder/moviex/internal/thumbnail"
)

type previewFixture struct {
	fake   *tu.FakeCatalog
	store  *session.MemoryStore
	server *httptest.Server
	logs   *lockedBuffer
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newPreviewFixture(t *testing.T, seed ...session.Entry) *previewFixture {
	t.Helper()

	fake := tu.NewFakeCatalog(t)
	fake.Set(func(f *tu.FakeCatalog) {
		f.Movies = []models.MovieSummary{
			{ID: "65a1", Title: "Alien", Author: "Ridley Scott", ImageRef: "alien.png", AvgRating: 4.5, NumRatings: 2},
			{ID: "65a2", Title: "Brazil", Author: "Terry Gilliam"},
		}
		f.Owned["ada"] = []models.MovieSummary{{ID: "65a9", Title: "Cube", Author: "ada"}}
		f.Thumbnails["alien.png"] = tu.PNG(t, 2, 2)
	})

	store := session.NewMemoryStore(seed...)
	logs := &lockedBuffer{}
	logger := shared.NewLogger(logs)
	client := services.NewHTTPClient(5*time.Second, session.NewJar(store, logger))
	svc := services.NewCatalogService(services.NewAPIService(fake.URL, client))

	preview := NewPreviewHandler(PreviewOpts{
		Engine: tasks.NewListEngine(tasks.ListEngineOpts{
			Lister:   svc,
			Resolver: thumbnail.NewAssembler(thumbnail.AssemblerOpts{Fetcher: svc, Logger: logger}),
			Logger:   logger,
		}),
		Actions:    actions.New(actions.ActionsOpts{Client: svc, Store: store, Logger: logger}),
		Store:      store,
		CatalogURL: fake.URL,
		Logger:     logger,
	})

	router := NewBasicRouter()
	router.Use(RequestID(), Logging(logger))
	router.Handler(preview)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &previewFixture{fake: fake, store: store, server: srv, logs: logs}
}

func (f *previewFixture) client() *http.Client {
	return &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
	}
}

func (f *previewFixture) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	resp, err := f.client().Get(f.server.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp, string(body)
}

func (f *previewFixture) post(t *testing.T, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := f.client().PostForm(f.server.URL+path, form)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp, string(body)
}

func signedIn() session.Entry {
	return session.Entry{Name: session.UsernameKey, Value: "ada", Path: "/"}
}

func TestPreviewHandler(t *testing.T) {
	t.Run("index redirects to movies", func(t *testing.T) {
		f := newPreviewFixture(t)
		resp, _ := f.get(t, "/")
		if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/movies" {
			t.Errorf("expected redirect to /movies, got %d %s", resp.StatusCode, resp.Header.Get("Location"))
		}
	})

	t.Run("movies page", func(t *testing.T) {
		f := newPreviewFixture(t)
		resp, body := f.get(t, "/movies")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		for _, want := range []string{"Alien", "Brazil", `src="data:image/png;base64,`, "ratingForm_65a1", `id="login-button"`} {
			if !strings.Contains(body, want) {
				t.Errorf("page missing %q", want)
			}
		}
		if strings.Contains(body, `id="logout-button"`) {
			t.Error("signed out page should not offer logout")
		}
		if resp.Header.Get(RequestIDHeader) == "" {
			t.Error("expected request id header")
		}
	})

	t.Run("signed in navigation", func(t *testing.T) {
		f := newPreviewFixture(t, signedIn())
		_, body := f.get(t, "/movies")
		for _, want := range []string{"Welcome, ada!", `id="logout-button"`, `href="/my-movies"`} {
			if !strings.Contains(body, want) {
				t.Errorf("page missing %q", want)
			}
		}
		if strings.Contains(body, `id="login-button"`) {
			t.Error("signed in page should not offer login")
		}
	})

	t.Run("my movies requires session", func(t *testing.T) {
		f := newPreviewFixture(t)
		resp, _ := f.get(t, "/my-movies")
		if resp.StatusCode != http.StatusSeeOther {
			t.Errorf("expected redirect, got %d", resp.StatusCode)
		}
	})

	t.Run("my movies", func(t *testing.T) {
		f := newPreviewFixture(t, signedIn())
		resp, body := f.get(t, "/my-movies")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		if !strings.Contains(body, "Cube") || !strings.Contains(body, "deleteForm_65a9") {
			t.Errorf("expected owned movie with delete form")
		}
		if strings.Contains(body, "Alien") {
			t.Error("owned page should not list other movies")
		}
	})

	t.Run("rating out of range", func(t *testing.T) {
		f := newPreviewFixture(t)
		resp, body := f.post(t, "/movies/65a1/rating", url.Values{"rating": {"7"}})
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", resp.StatusCode)
		}
		if !strings.Contains(body, "Rating must be between 1 and 5") {
			t.Error("expected rating error in page")
		}
	})

	t.Run("rating placeholder", func(t *testing.T) {
		f := newPreviewFixture(t)
		resp, body := f.post(t, "/movies/65a1/rating", url.Values{"rating": {"4"}})
		if resp.StatusCode != http.StatusNotImplemented {
			t.Errorf("expected 501, got %d", resp.StatusCode)
		}
		if !strings.Contains(body, "Rating submission is not available yet") {
			t.Error("expected placeholder notice")
		}
	})

	t.Run("delete placeholder", func(t *testing.T) {
		f := newPreviewFixture(t, signedIn())
		resp, body := f.post(t, "/my-movies/65a9/delete", nil)
		if resp.StatusCode != http.StatusNotImplemented {
			t.Errorf("expected 501, got %d", resp.StatusCode)
		}
		if !strings.Contains(body, "Deleting movies is not available yet") {
			t.Error("expected placeholder notice")
		}
	})

	t.Run("logout", func(t *testing.T) {
		f := newPreviewFixture(t, signedIn())
		resp, _ := f.post(t, "/logout", nil)
		if resp.StatusCode != http.StatusSeeOther {
			t.Fatalf("expected 303, got %d", resp.StatusCode)
		}
		if loc := resp.Header.Get("Location"); loc != f.fake.URL+"/login" {
			t.Errorf("expected redirect to catalog login, got %s", loc)
		}
		if _, ok := session.CurrentUsername(context.Background(), f.store); ok {
			t.Error("session should be cleared")
		}
	})

	t.Run("logout failure lands on movies", func(t *testing.T) {
		f := newPreviewFixture(t, signedIn())
		f.fake.Set(func(c *tu.FakeCatalog) { c.LogoutStatus = http.StatusInternalServerError })

		resp, _ := f.post(t, "/logout", nil)
		if loc := resp.Header.Get("Location"); loc != "/movies" {
			t.Errorf("expected redirect to /movies, got %s", loc)
		}
	})

	t.Run("catalog failure", func(t *testing.T) {
		f := newPreviewFixture(t)
		f.fake.Set(func(c *tu.FakeCatalog) { c.ListStatus = http.StatusServiceUnavailable })

		resp, body := f.get(t, "/movies")
		if resp.StatusCode != http.StatusBadGateway {
			t.Errorf("expected 502, got %d", resp.StatusCode)
		}
		if strings.Contains(body, "Alien") {
			t.Error("no rows expected")
		}
	})

	t.Run("method not allowed", func(t *testing.T) {
		f := newPreviewFixture(t)
		resp, _ := f.post(t, "/movies", nil)
		if resp.StatusCode != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", resp.StatusCode)
		}
	})

	t.Run("requests are logged", func(t *testing.T) {
		f := newPreviewFixture(t)
		f.get(t, "/movies")
		if !strings.Contains(f.logs.String(), "path=/movies") {
			t.Errorf("expected request log, got %s", f.logs.String())
		}
	})
}

func TestBasicRouter(t *testing.T) {
	var order []string
	mw := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	router := NewBasicRouter()
	router.Use(mw("first"), mw("second"))
	router.Handle(http.MethodGet, "/ping", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
	if strings.Join(order, ",") != "first,second,handler" {
		t.Errorf("unexpected middleware order %v", order)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/ping", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFrom(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if seen != "abc-123" || rec.Header().Get(RequestIDHeader) != "abc-123" {
		t.Errorf("expected incoming id to be reused, got %q", seen)
	}

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if seen == "" || seen == "abc-123" {
		t.Errorf("expected a generated id, got %q", seen)
	}
}

func TestServe(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	logger := log.New(io.Discard)

	addrs := make(chan string, 1)
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, "127.0.0.1:0", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}), logger, func(addr string) { addrs <- addr })
	}()

	var addr string
	select {
	case addr = <-addrs:
	case err := <-done:
		t.Fatalf("Serve returned early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}

	resp, err := http.Get("http://" + addr + "/")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusTeapot {
		t.Errorf("expected 418, got %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
