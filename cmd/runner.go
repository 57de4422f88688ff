package main

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/desertthunder/moviex/internal/actions"
	"github.com/desertthunder/moviex/internal/repositories"
	"github.com/desertthunder/moviex/internal/services"
	"github.com/desertthunder/moviex/internal/session"
	"github.com/desertthunder/moviex/internal/shared"
	"github.com/desertthunder/moviex/internal/tasks"
	"github.com/desertthunder/moviex/internal/thumbnail"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// Backends are opened on first use so commands like "setup config" never touch the database.
type Runner struct {
	config  *shared.Config
	logger  *log.Logger
	output  io.Writer
	reader  *bufio.Reader
	input   io.Reader
	opener  func(string) error
	client  *http.Client
	store   session.Store
	api     *services.APIService
	thumbs  *repositories.ThumbnailRepository
	catalog *services.CatalogService
	engine  *tasks.ListEngine
	actions *actions.Actions
	closers []func() error
}

// RunnerOpts contains configuration options for creating a Runner.
//
// Store and Thumbnails override the configured backends; HTTPClient overrides the cookie-carrying default.
type RunnerOpts struct {
	Config     *shared.Config
	Store      session.Store
	Thumbnails *repositories.ThumbnailRepository
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Input      io.Reader
	Opener     func(string) error
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.Opener == nil {
		opts.Opener = shared.OpenBrowser
	}

	return &Runner{
		config: opts.Config,
		logger: opts.Logger,
		output: opts.Output,
		input:  opts.Input,
		reader: bufio.NewReader(opts.Input),
		opener: opts.Opener,
		client: opts.HTTPClient,
		store:  opts.Store,
		thumbs: opts.Thumbnails,
	}
}

// SetLogger replaces the logger and drops services built with the old one.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
	r.catalog, r.engine, r.actions = nil, nil, nil
}

// Close releases every backend opened by [Runner.connect].
func (r *Runner) Close() error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		errs = append(errs, r.closers[i]())
	}
	r.closers = nil
	return errors.Join(errs...)
}

// connect opens the session backend and builds the catalog client, list engine and actions.
func (r *Runner) connect(ctx context.Context) error {
	if r.store == nil {
		if err := r.openBackends(ctx); err != nil {
			return err
		}
	}
	if r.catalog != nil {
		return nil
	}

	client := r.client
	if client == nil {
		client = services.NewHTTPClient(r.config.Server.Timeout.Duration, session.NewJar(r.store, r.logger))
	}
	r.api = services.NewAPIService(r.config.Server.BaseURL, client)
	r.catalog = services.NewCatalogService(r.api)

	var cache thumbnail.Cache
	if r.thumbs != nil && r.config.Thumbnails.Cache {
		cache = r.thumbs
	}

	r.engine = tasks.NewListEngine(tasks.ListEngineOpts{
		Lister: r.catalog,
		Resolver: thumbnail.NewAssembler(thumbnail.AssemblerOpts{
			Fetcher: r.catalog,
			Cache:   cache,
			Limiter: thumbnail.NewLimiter(r.config.Thumbnails.RateLimit, r.config.Thumbnails.Burst),
			Logger:  r.logger,
		}),
		Logger:        r.logger,
		PreserveOrder: r.config.List.PreserveOrder,
	})
	r.actions = actions.New(actions.ActionsOpts{
		Client: r.catalog,
		Store:  r.store,
		Logger: r.logger,
	})
	return nil
}

// openBackends selects the session store from config. The thumbnail cache lives in SQLite
// whenever caching is enabled, regardless of where cookies are kept.
func (r *Runner) openBackends(ctx context.Context) error {
	backend := r.config.Session.Backend
	needDB := backend == "sqlite" || (r.config.Thumbnails.Cache && r.thumbs == nil)

	var db *sql.DB
	if needDB {
		opened, err := shared.OpenDatabase(ctx, r.config.Database)
		switch {
		case err != nil && backend == "sqlite":
			return fmt.Errorf("%w: %w", shared.ErrSessionStore, err)
		case err != nil:
			r.logger.Warn("thumbnail cache disabled", "error", err)
		default:
			db = opened
			r.closers = append(r.closers, db.Close)
			if r.thumbs == nil {
				r.thumbs = repositories.NewThumbnailRepository(db)
			}
		}
	}

	switch backend {
	case "sqlite":
		r.store = repositories.NewCookieRepository(db)
	case "redis":
		client, err := session.NewRedisClient(ctx, r.config.Redis)
		if err != nil {
			return fmt.Errorf("%w: %w", shared.ErrSessionStore, err)
		}
		r.closers = append(r.closers, client.Close)
		r.store = session.NewRedisStore(client, r.config.Redis.Prefix)
	case "memory", "":
		r.store = session.NewMemoryStore()
	default:
		return fmt.Errorf("%w: unknown session backend %q", shared.ErrInvalidConfig, backend)
	}

	r.logger.Debug("session backend ready", "backend", backend)
	return nil
}

// surface returns where actions report to for this command.
func (r *Runner) surface(cmd *cli.Command) *cliSurface {
	return &cliSurface{
		out:     r.output,
		baseURL: r.baseURL(),
		open:    cmd.Bool("open"),
		opener:  r.opener,
		logger:  r.logger,
	}
}

func (r *Runner) baseURL() string {
	return strings.TrimSuffix(r.config.Server.BaseURL, "/")
}

// prompt asks for a value on the output and reads one line of input.
// Secret values are read without echo when input is a terminal.
func (r *Runner) prompt(label string, secret bool) (string, error) {
	r.writePlain("%s: ", label)

	if f, ok := r.input.(*os.File); ok && secret && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		r.writePlain("\n")
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(label), err)
		}
		return string(b), nil
	}

	line, err := r.reader.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", fmt.Errorf("%w: %s", shared.ErrMissingArgument, strings.ToLower(label))
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// flagOrPrompt returns the flag value, prompting when it was not given.
func (r *Runner) flagOrPrompt(cmd *cli.Command, flag, label string, secret bool) (string, error) {
	if v := cmd.String(flag); v != "" {
		return v, nil
	}
	return r.prompt(label, secret)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

// cliSurface reports action outcomes as lines of output.
type cliSurface struct {
	out     io.Writer
	baseURL string
	open    bool
	opener  func(string) error
	logger  *log.Logger
}

func (s *cliSurface) ClearMessages() {}

func (s *cliSurface) ShowError(msg string) { fmt.Fprintf(s.out, "✗ %s\n", msg) }

func (s *cliSurface) ShowMessage(msg string) { fmt.Fprintf(s.out, "✓ %s\n", msg) }

func (s *cliSurface) Notify(msg string) { fmt.Fprintf(s.out, "! %s\n", msg) }

// Navigate prints the page the catalog would show next and opens it with --open.
func (s *cliSurface) Navigate(path string) {
	target := s.baseURL + path
	fmt.Fprintf(s.out, "→ %s\n", target)
	if !s.open {
		return
	}
	if err := s.opener(target); err != nil {
		s.logger.Warn("failed to open browser", "url", target, "error", err)
	}
}
