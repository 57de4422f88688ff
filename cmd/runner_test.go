package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/charmbracelet/log"

	"github.com/desertthunder/moviex/internal/formatter"
	"github.com/desertthunder/moviex/internal/models"
	"github.com/desertthunder/moviex/internal/repositories"
	"github.com/desertthunder/moviex/internal/session"
	"github.com/desertthunder/moviex/internal/shared"
	tu "github.com/desertthunder/moviex/internal/testing"
)

type runnerFixture struct {
	runner *Runner
	fake   *tu.FakeCatalog
	store  *session.MemoryStore
	output *bytes.Buffer
	opened []string
}

func newRunnerFixture(t *testing.T, input string, seed ...session.Entry) *runnerFixture {
	t.Helper()

	fake := tu.NewFakeCatalog(t)
	fake.Set(func(f *tu.FakeCatalog) {
		f.Users["ada"] = "pw"
		f.Movies = []models.MovieSummary{
			{ID: "65a1", Title: "Alien", Author: "Ridley Scott", ImageRef: "alien.png", AvgRating: 4.5, NumRatings: 2},
			{ID: "65a2", Title: "Brazil", Author: "Terry Gilliam"},
		}
		f.Owned["ada"] = []models.MovieSummary{{ID: "65a9", Title: "Cube", Author: "ada"}}
		f.Thumbnails["alien.png"] = tu.PNG(t, 2, 2)
	})

	config := shared.DefaultConfig()
	config.Server.BaseURL = fake.URL
	config.Thumbnails.Cache = false
	config.Thumbnails.RateLimit = 0

	f := &runnerFixture{fake: fake, store: session.NewMemoryStore(seed...), output: &bytes.Buffer{}}
	f.runner = NewRunner(RunnerOpts{
		Config: config,
		Store:  f.store,
		Logger: log.New(io.Discard),
		Output: f.output,
		Input:  strings.NewReader(input),
		Opener: func(url string) error {
			f.opened = append(f.opened, url)
			return nil
		},
	})
	return f
}

func (f *runnerFixture) run(args ...string) error {
	return runApp(context.Background(), f.runner, args...)
}

func runApp(ctx context.Context, r *Runner, args ...string) error {
	app := newApp(r)
	app.Writer = io.Discard
	app.ErrWriter = io.Discard
	return app.Run(ctx, append([]string{"moviex"}, args...))
}

func signedIn() session.Entry {
	return session.Entry{Name: session.UsernameKey, Value: "ada", Path: "/"}
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			store := session.NewMemoryStore()
			httpClient := &http.Client{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				Store:      store,
				HTTPClient: httpClient,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.store != store {
				t.Error("expected store to be set")
			}
			if runner.client != httpClient {
				t.Error("expected httpClient to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: nil})
			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: nil})
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("does not connect eagerly", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			if runner.store != nil || runner.catalog != nil {
				t.Error("expected backends to open on first use")
			}
		})
	})

	t.Run("connect", func(t *testing.T) {
		ctx := context.Background()

		t.Run("memory backend", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.Session.Backend = "memory"
			config.Thumbnails.Cache = false

			runner := NewRunner(RunnerOpts{Config: config, Logger: log.New(io.Discard)})
			defer runner.Close()

			if err := runner.connect(ctx); err != nil {
				t.Fatalf("connect() error = %v", err)
			}
			if _, ok := runner.store.(*session.MemoryStore); !ok {
				t.Errorf("expected memory store, got %T", runner.store)
			}
			if runner.thumbs != nil {
				t.Error("expected no thumbnail cache")
			}
			if runner.engine == nil || runner.actions == nil || runner.catalog == nil {
				t.Error("expected services to be built")
			}
		})

		t.Run("sqlite backend", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.Database.Path = filepath.Join(t.TempDir(), "moviex.db")

			runner := NewRunner(RunnerOpts{Config: config, Logger: log.New(io.Discard)})
			defer runner.Close()

			if err := runner.connect(ctx); err != nil {
				t.Fatalf("connect() error = %v", err)
			}
			if _, ok := runner.store.(*repositories.CookieRepository); !ok {
				t.Errorf("expected cookie repository, got %T", runner.store)
			}
			if runner.thumbs == nil {
				t.Error("expected thumbnail cache")
			}
		})

		t.Run("redis backend", func(t *testing.T) {
			mr := miniredis.RunT(t)

			config := shared.DefaultConfig()
			config.Session.Backend = "redis"
			config.Redis.Addr = mr.Addr()
			config.Thumbnails.Cache = false

			runner := NewRunner(RunnerOpts{Config: config, Logger: log.New(io.Discard)})
			defer runner.Close()

			if err := runner.connect(ctx); err != nil {
				t.Fatalf("connect() error = %v", err)
			}
			if _, ok := runner.store.(*session.RedisStore); !ok {
				t.Errorf("expected redis store, got %T", runner.store)
			}
		})

		t.Run("unknown backend", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.Session.Backend = "etcd"
			config.Thumbnails.Cache = false

			runner := NewRunner(RunnerOpts{Config: config, Logger: log.New(io.Discard)})
			if err := runner.connect(ctx); !errors.Is(err, shared.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	})
}

func TestAuthCommands(t *testing.T) {
	t.Run("login with flags", func(t *testing.T) {
		f := newRunnerFixture(t, "")

		if err := f.run("login", "--name", "ada", "--password", "pw", "--open"); err != nil {
			t.Fatalf("login error = %v", err)
		}
		if !strings.Contains(f.output.String(), "→ "+f.fake.URL+"/movies") {
			t.Errorf("expected redirect target, got %q", f.output.String())
		}
		if len(f.opened) != 1 || f.opened[0] != f.fake.URL+"/movies" {
			t.Errorf("expected browser to open movies, got %v", f.opened)
		}

		name, ok := session.CurrentUsername(context.Background(), f.store)
		if !ok || name != "ada" {
			t.Errorf("expected session for ada, got %q", name)
		}
	})

	t.Run("login prompts for password", func(t *testing.T) {
		f := newRunnerFixture(t, "pw\n")

		if err := f.run("login", "--name", "ada"); err != nil {
			t.Fatalf("login error = %v", err)
		}
		if !strings.Contains(f.output.String(), "Password: ") {
			t.Errorf("expected password prompt, got %q", f.output.String())
		}
		if len(f.opened) != 0 {
			t.Error("browser should only open with --open")
		}
	})

	t.Run("login bad credentials", func(t *testing.T) {
		f := newRunnerFixture(t, "")

		if err := f.run("login", "--name", "ada", "--password", "nope"); err != nil {
			t.Fatalf("endpoint errors are not command errors, got %v", err)
		}
		if !strings.Contains(f.output.String(), "✗ bad credentials") {
			t.Errorf("expected error line, got %q", f.output.String())
		}
	})

	t.Run("login without input", func(t *testing.T) {
		f := newRunnerFixture(t, "")

		if err := f.run("login"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("register password mismatch", func(t *testing.T) {
		f := newRunnerFixture(t, "")

		err := f.run("register", "--name", "bob", "--password", "a", "--confirm", "b")
		if !errors.Is(err, shared.ErrPasswordMismatch) {
			t.Errorf("expected ErrPasswordMismatch, got %v", err)
		}
		if !strings.Contains(f.output.String(), "! Passwords do not match") {
			t.Errorf("expected notice, got %q", f.output.String())
		}
		if f.fake.Hits("/api/users") != 0 {
			t.Error("mismatch must not reach the catalog")
		}
	})

	t.Run("register prompts", func(t *testing.T) {
		f := newRunnerFixture(t, "bob\nsecret\nsecret\n")

		if err := f.run("register"); err != nil {
			t.Fatalf("register error = %v", err)
		}
		if name, ok := session.CurrentUsername(context.Background(), f.store); !ok || name != "bob" {
			t.Errorf("expected session for bob, got %q", name)
		}
	})

	t.Run("logout", func(t *testing.T) {
		f := newRunnerFixture(t, "", signedIn())

		if err := f.run("logout"); err != nil {
			t.Fatalf("logout error = %v", err)
		}
		if !strings.Contains(f.output.String(), "→ "+f.fake.URL+"/login") {
			t.Errorf("expected login target, got %q", f.output.String())
		}
		if _, ok := session.CurrentUsername(context.Background(), f.store); ok {
			t.Error("session should be cleared")
		}
	})

	t.Run("whoami", func(t *testing.T) {
		f := newRunnerFixture(t, "", signedIn())
		if err := f.run("whoami"); err != nil {
			t.Fatalf("whoami error = %v", err)
		}
		if f.output.String() != "ada\n" {
			t.Errorf("unexpected output %q", f.output.String())
		}

		f = newRunnerFixture(t, "")
		if err := f.run("whoami"); err != nil {
			t.Fatalf("whoami error = %v", err)
		}
		if f.output.String() != "Not signed in\n" {
			t.Errorf("unexpected output %q", f.output.String())
		}
	})

	t.Run("nav", func(t *testing.T) {
		f := newRunnerFixture(t, "")
		if err := f.run("nav"); err != nil {
			t.Fatalf("nav error = %v", err)
		}
		out := f.output.String()
		if !strings.Contains(out, "Login") || strings.Contains(out, "Logout") || strings.Contains(out, "My movies") {
			t.Errorf("unexpected signed out nav %q", out)
		}

		f = newRunnerFixture(t, "", signedIn())
		if err := f.run("nav"); err != nil {
			t.Fatalf("nav error = %v", err)
		}
		out = f.output.String()
		if !strings.Contains(out, "Welcome, ada!") || !strings.Contains(out, f.fake.URL+"/logout") || strings.Contains(out, "Login") {
			t.Errorf("unexpected signed in nav %q", out)
		}
	})
}

func TestMovieCommands(t *testing.T) {
	t.Run("movies text", func(t *testing.T) {
		f := newRunnerFixture(t, "")

		if err := f.run("movies"); err != nil {
			t.Fatalf("movies error = %v", err)
		}
		out := f.output.String()
		for _, want := range []string{"Movies (2)", "Title: Alien", "Title: Brazil", "moviex rate 65a1"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q", want)
			}
		}
	})

	t.Run("movies json with images", func(t *testing.T) {
		f := newRunnerFixture(t, "")

		if err := f.run("movies", "--format", "json", "--images"); err != nil {
			t.Fatalf("movies error = %v", err)
		}

		var records []formatter.Record
		if err := json.Unmarshal(f.output.Bytes(), &records); err != nil {
			t.Fatalf("output is not json: %v", err)
		}
		if len(records) != 2 {
			t.Fatalf("expected 2 records, got %d", len(records))
		}
		for _, rec := range records {
			if rec.ID == "65a1" && !strings.HasPrefix(rec.Image, "data:image/png;base64,") {
				t.Errorf("expected data uri for Alien, got %q", rec.Image)
			}
		}
	})

	t.Run("movies mine", func(t *testing.T) {
		f := newRunnerFixture(t, "", signedIn())

		if err := f.run("movies", "--mine"); err != nil {
			t.Fatalf("movies error = %v", err)
		}
		out := f.output.String()
		if !strings.Contains(out, "Title: Cube") || strings.Contains(out, "Title: Alien") {
			t.Errorf("unexpected owned list %q", out)
		}
		if !strings.Contains(out, "moviex delete 65a9") {
			t.Errorf("expected delete hint, got %q", out)
		}
	})

	t.Run("movies mine signed out", func(t *testing.T) {
		f := newRunnerFixture(t, "")
		if err := f.run("movies", "--mine"); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("movies to file", func(t *testing.T) {
		f := newRunnerFixture(t, "")
		path := filepath.Join(t.TempDir(), "movies.csv")

		if err := f.run("movies", "--format", "csv", "--output", path); err != nil {
			t.Fatalf("movies error = %v", err)
		}
		if data := tu.MustReadFile(t, path); !strings.HasPrefix(data, "ID,Title,Author") {
			t.Errorf("unexpected csv %q", data)
		}
		if !strings.Contains(f.output.String(), "Wrote 2 movies") {
			t.Errorf("unexpected output %q", f.output.String())
		}
	})

	t.Run("movies unknown format", func(t *testing.T) {
		f := newRunnerFixture(t, "")
		if err := f.run("movies", "--format", "xml"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("movies catalog failure", func(t *testing.T) {
		f := newRunnerFixture(t, "")
		f.fake.Set(func(c *tu.FakeCatalog) { c.ListStatus = http.StatusServiceUnavailable })

		if err := f.run("movies"); !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})

	t.Run("add", func(t *testing.T) {
		f := newRunnerFixture(t, "", signedIn())
		path := tu.MustWriteFile(t, filepath.Join(t.TempDir(), "poster.png"), tu.PNG(t, 4, 4))

		if err := f.run("add", "--title", "Heat", "--author", "ada", "--image", path); err != nil {
			t.Fatalf("add error = %v", err)
		}
		if !strings.Contains(f.output.String(), "✓ Movie added successfully") {
			t.Errorf("unexpected output %q", f.output.String())
		}
		if uploads := f.fake.Uploaded(); len(uploads) != 1 || uploads[0].Title != "Heat" {
			t.Errorf("unexpected uploads %+v", uploads)
		}
	})

	t.Run("add without image", func(t *testing.T) {
		f := newRunnerFixture(t, "")

		err := f.run("add", "--title", "Heat", "--author", "ada")
		if !errors.Is(err, shared.ErrMissingImage) {
			t.Errorf("expected ErrMissingImage, got %v", err)
		}
		if !strings.Contains(f.output.String(), "✗ Error failed to get image") {
			t.Errorf("unexpected output %q", f.output.String())
		}
	})

	t.Run("add preview", func(t *testing.T) {
		f := newRunnerFixture(t, "")
		path := tu.MustWriteFile(t, filepath.Join(t.TempDir(), "poster.png"), tu.PNG(t, 128, 32))

		if err := f.run("add", "--image", path, "--preview"); err != nil {
			t.Fatalf("add --preview error = %v", err)
		}
		out := f.output.String()
		for _, want := range []string{"Format:    png", "Size:      128x32", "Thumbnail: 64x16"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q in %q", want, out)
			}
		}
		if f.fake.TotalHits() != 0 {
			t.Error("preview must not contact the catalog")
		}
	})

	t.Run("delete", func(t *testing.T) {
		f := newRunnerFixture(t, "", signedIn())
		if err := f.run("delete", "65a9"); !errors.Is(err, shared.ErrNotImplemented) {
			t.Errorf("expected ErrNotImplemented, got %v", err)
		}
		if err := f.run("delete"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("rate", func(t *testing.T) {
		f := newRunnerFixture(t, "")

		if err := f.run("rate", "--rating", "9", "65a1"); !errors.Is(err, shared.ErrInvalidRating) {
			t.Errorf("expected ErrInvalidRating, got %v", err)
		}
		if !strings.Contains(f.output.String(), "✗ Rating must be between 1 and 5") {
			t.Errorf("unexpected output %q", f.output.String())
		}

		if err := f.run("rate", "--rating", "3", "65a1"); !errors.Is(err, shared.ErrNotImplemented) {
			t.Errorf("expected ErrNotImplemented, got %v", err)
		}
	})
}

func TestAPICommands(t *testing.T) {
	t.Run("get", func(t *testing.T) {
		f := newRunnerFixture(t, "")

		if err := f.run("api", "get", "api/movies"); err != nil {
			t.Fatalf("api get error = %v", err)
		}

		var movies []models.MovieSummary
		if err := json.Unmarshal(f.output.Bytes(), &movies); err != nil {
			t.Fatalf("output is not json: %v", err)
		}
		if len(movies) != 2 || movies[0].Title != "Alien" {
			t.Errorf("unexpected movies %+v", movies)
		}
		if !strings.Contains(f.output.String(), "\n  ") {
			t.Error("expected indented output by default")
		}
	})

	t.Run("get compact", func(t *testing.T) {
		f := newRunnerFixture(t, "")
		if err := f.run("api", "get", "--json", "/api/movies"); err != nil {
			t.Fatalf("api get error = %v", err)
		}
		if strings.Count(f.output.String(), "\n") != 1 {
			t.Errorf("expected one line, got %q", f.output.String())
		}
	})

	t.Run("get failure status", func(t *testing.T) {
		f := newRunnerFixture(t, "")
		if err := f.run("api", "get", "/api/thumbnail/missing.png"); !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})

	t.Run("post uses the session jar", func(t *testing.T) {
		f := newRunnerFixture(t, "")

		if err := f.run("api", "post", "--data", `{"name":"ada","password":"pw"}`, "/api/login"); err != nil {
			t.Fatalf("api post error = %v", err)
		}
		if !strings.Contains(f.output.String(), `"redirectPath": "/movies"`) {
			t.Errorf("unexpected output %q", f.output.String())
		}
		if name, ok := session.CurrentUsername(context.Background(), f.store); !ok || name != "ada" {
			t.Errorf("expected session for ada, got %q", name)
		}
	})

	t.Run("post invalid data", func(t *testing.T) {
		f := newRunnerFixture(t, "")
		if err := f.run("api", "post", "--data", "{nope", "/api/login"); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
		if f.fake.TotalHits() != 0 {
			t.Error("invalid data must not be sent")
		}
	})
}

func TestSessionCommands(t *testing.T) {
	t.Run("import", func(t *testing.T) {
		f := newRunnerFixture(t, "")

		curl := `curl 'http://localhost:8000/movies' -H 'Accept: text/html' -H 'Cookie: username=ada; id=7f0c2a1e'`
		if err := f.run("session", "import", "--curl", curl); err != nil {
			t.Fatalf("import error = %v", err)
		}
		out := f.output.String()
		if !strings.Contains(out, "Imported 2 cookies") || !strings.Contains(out, "Signed in as ada") {
			t.Errorf("unexpected output %q", out)
		}
	})

	t.Run("import from file", func(t *testing.T) {
		f := newRunnerFixture(t, "")
		path := tu.MustWriteFile(t, filepath.Join(t.TempDir(), "request.sh"), []byte("curl 'http://localhost:8000/' \\\n  -b 'username=ada'\n"))

		if err := f.run("session", "import", "--curl-file", path); err != nil {
			t.Fatalf("import error = %v", err)
		}
		if !strings.Contains(f.output.String(), "Imported 1 cookies") {
			t.Errorf("unexpected output %q", f.output.String())
		}
	})

	t.Run("import flag validation", func(t *testing.T) {
		f := newRunnerFixture(t, "")
		if err := f.run("session", "import"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
		if err := f.run("session", "import", "--curl", "x", "--curl-file", "y"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("show", func(t *testing.T) {
		f := newRunnerFixture(t, "", signedIn())
		if err := f.run("session", "show", "--json"); err != nil {
			t.Fatalf("show error = %v", err)
		}

		var entries []session.Entry
		if err := json.Unmarshal(f.output.Bytes(), &entries); err != nil {
			t.Fatalf("output is not json: %v", err)
		}
		if len(entries) != 1 || entries[0].Value != "ada" {
			t.Errorf("unexpected entries %+v", entries)
		}
	})
}

func TestCacheCommands(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled", func(t *testing.T) {
		f := newRunnerFixture(t, "")
		if err := f.run("cache", "stats"); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("listing fills the cache", func(t *testing.T) {
		db, err := shared.OpenDatabase(ctx, shared.DatabaseConfig{Path: filepath.Join(t.TempDir(), "cache.db")})
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		f := newRunnerFixture(t, "")
		f.runner.thumbs = repositories.NewThumbnailRepository(db)
		f.runner.config.Thumbnails.Cache = true

		if err := f.run("movies"); err != nil {
			t.Fatalf("movies error = %v", err)
		}

		f.output.Reset()
		if err := f.run("cache", "stats"); err != nil {
			t.Fatalf("stats error = %v", err)
		}
		if !strings.Contains(f.output.String(), "Cached thumbnails: 1") {
			t.Errorf("unexpected output %q", f.output.String())
		}

		f.output.Reset()
		if err := f.run("cache", "prune", "--older-than", "24h"); err != nil {
			t.Fatalf("prune error = %v", err)
		}
		if !strings.Contains(f.output.String(), "Removed 0 cached thumbnails") {
			t.Errorf("unexpected output %q", f.output.String())
		}
	})
}

func TestSetupCommands(t *testing.T) {
	t.Run("config", func(t *testing.T) {
		f := newRunnerFixture(t, "")
		path := filepath.Join(t.TempDir(), "config.toml")

		if err := f.run("setup", "config", "--output", path); err != nil {
			t.Fatalf("setup config error = %v", err)
		}
		if _, err := shared.LoadConfig(path); err != nil {
			t.Errorf("written config does not load: %v", err)
		}
		if err := f.run("setup", "config", "--output", path); err == nil {
			t.Error("expected error when the file exists")
		}
	})

	t.Run("database", func(t *testing.T) {
		dir := t.TempDir()
		t.Chdir(dir)

		f := newRunnerFixture(t, "")
		f.runner.config.Database.Path = filepath.Join(dir, "moviex.db")

		if err := f.run("--config", "missing.toml", "setup", "database"); err == nil {
			t.Error("expected error for an explicit missing config")
		}

		if err := f.run("setup", "database"); err != nil {
			t.Fatalf("setup database error = %v", err)
		}
		tu.AssertFileExists(t, filepath.Join(dir, "moviex.db"))
		tu.AssertFileExists(t, filepath.Join(dir, defaultConfigPath))

		if err := f.run("setup", "database", "--rollback"); err != nil {
			t.Fatalf("rollback error = %v", err)
		}
		if !strings.Contains(f.output.String(), "Rolled back latest migration") {
			t.Errorf("unexpected output %q", f.output.String())
		}
	})
}

func TestWriteFailures(t *testing.T) {
	f := newRunnerFixture(t, "", signedIn())
	f.runner.output = &tu.FWriter{}

	if err := f.run("whoami"); err == nil {
		t.Error("expected whoami to report the write failure")
	}

	limited := tu.NewLimitedWriter(1, 0, io.Discard)
	f.runner.output = &limited
	if err := f.runner.writeJSON(map[string]string{"a": "b"}, false); err == nil {
		t.Error("expected newline write to fail")
	}
}

func TestServe(t *testing.T) {
	f := newRunnerFixture(t, "")

	urls := make(chan string, 1)
	f.runner.opener = func(url string) error {
		urls <- url
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- runApp(ctx, f.runner, "serve", "--port", "0", "--open")
	}()

	var url string
	select {
	case url = <-urls:
	case err := <-done:
		t.Fatalf("serve returned early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}

	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "Alien") {
		t.Errorf("unexpected preview response %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("serve error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
	if !strings.Contains(f.output.String(), "Serving movies at "+url) {
		t.Errorf("unexpected output %q", f.output.String())
	}
}
