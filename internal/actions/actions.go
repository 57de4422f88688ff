package actions

import (
	"context"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/moviex/internal/models"
	"github.com/desertthunder/moviex/internal/session"
	"github.com/desertthunder/moviex/internal/shared"
)

// Messages shown to the user for local validation failures.
const (
	MsgPasswordMismatch = "Passwords do not match"
	MsgMissingImage     = "Error failed to get image"
)

// MsgInvalidRating is shown when a rating falls outside the accepted range.
var MsgInvalidRating = fmt.Sprintf("Rating must be between %d and %d", models.MinRating, models.MaxRating)

// Navigation targets after logout.
const (
	LoginPage   = "/login"
	LandingPage = "/"
)

// Surface is where action outcomes are shown.
type Surface interface {
	ClearMessages()
	ShowError(msg string)
	ShowMessage(msg string)
	Notify(msg string) // blocking, alert-style notice
	Navigate(path string)
}

// Client is the subset of the catalog API the actions call.
type Client interface {
	Register(ctx context.Context, creds models.Credentials) (*models.AuthResponse, error)
	Login(ctx context.Context, creds models.Credentials) (*models.AuthResponse, error)
	Logout(ctx context.Context) (int, error)
	AddMovie(ctx context.Context, draft models.NewMovieDraft) (*models.MessageResponse, error)
}

// ActionsOpts configures [Actions].
type ActionsOpts struct {
	Client  Client
	Store   session.Store
	Surface Surface
	Logger  *log.Logger
}

// Actions performs user mutations against the catalog service.
type Actions struct {
	client  Client
	store   session.Store
	surface Surface
	logger  *log.Logger
}

// New creates Actions from opts.
func New(opts ActionsOpts) *Actions {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Actions{
		client:  opts.Client,
		store:   opts.Store,
		surface: opts.Surface,
		logger:  logger.With("component", "actions"),
	}
}

// WithSurface returns a copy of a that reports to s.
func (a *Actions) WithSurface(s Surface) *Actions {
	c := *a
	c.surface = s
	return &c
}

// Register creates an account after checking the password confirmation locally.
func (a *Actions) Register(ctx context.Context, name, password, confirm string) error {
	if password != confirm {
		a.surface.Notify(MsgPasswordMismatch)
		return shared.ErrPasswordMismatch
	}

	resp, err := a.client.Register(ctx, models.Credentials{Name: name, Password: password})
	if err != nil {
		a.logger.Error("register request failed", "name", name, "error", err)
		return err
	}
	return a.follow(resp)
}

// Login authenticates an existing account.
func (a *Actions) Login(ctx context.Context, name, password string) error {
	resp, err := a.client.Login(ctx, models.Credentials{Name: name, Password: password})
	if err != nil {
		a.logger.Error("login request failed", "name", name, "error", err)
		return err
	}
	return a.follow(resp)
}

// follow applies the redirect-or-error contract of register and login.
func (a *Actions) follow(resp *models.AuthResponse) error {
	switch {
	case resp == nil:
		a.logger.Warn("empty auth response")
	case resp.RedirectPath != "":
		a.surface.Navigate(resp.RedirectPath)
	case resp.Error != "":
		a.surface.ShowError(resp.Error)
	default:
		a.logger.Warn("auth response carried neither redirect nor error")
	}
	return nil
}

// Logout expires every local session entry, then notifies the server.
//
// The user lands on the login page when the server acknowledges, otherwise on the landing page.
func (a *Actions) Logout(ctx context.Context) error {
	if a.store != nil {
		if err := session.Expire(ctx, a.store); err != nil {
			a.logger.Error("failed to expire session entries", "error", err)
		}
	}

	status, err := a.client.Logout(ctx)
	if err != nil {
		a.logger.Error("logout request failed", "error", err)
		a.surface.Navigate(LandingPage)
		return err
	}

	if status >= http.StatusOK && status < http.StatusMultipleChoices {
		a.surface.Navigate(LoginPage)
	} else {
		a.logger.Warn("logout not acknowledged", "status", status)
		a.surface.Navigate(LandingPage)
	}
	return nil
}

// AddMovie uploads a movie with the image read from imagePath.
func (a *Actions) AddMovie(ctx context.Context, title, author, imagePath string) error {
	a.surface.ClearMessages()

	if imagePath == "" {
		a.surface.ShowError(MsgMissingImage)
		return shared.ErrMissingImage
	}

	data, err := shared.VerifyAndReadFile(imagePath)
	if err != nil {
		a.logger.Debug("failed to read image", "path", imagePath, "error", err)
		a.surface.ShowError(MsgMissingImage)
		return fmt.Errorf("%w: %w", shared.ErrMissingImage, err)
	}

	draft := models.NewMovieDraft{Title: title, Author: author, Image: data}
	if err := draft.Validate(); err != nil {
		a.surface.ShowError(MsgMissingImage)
		return err
	}

	resp, err := a.client.AddMovie(ctx, draft)
	if err != nil {
		a.logger.Error("add movie request failed", "title", title, "error", err)
		return err
	}

	switch {
	case resp.Message != "":
		a.surface.ShowMessage(resp.Message)
	case resp.Error != "":
		a.surface.ShowError(resp.Error)
	default:
		a.logger.Warn("add movie response carried neither message nor error")
	}
	return nil
}

// DeleteMovie records the request only.
func (a *Actions) DeleteMovie(_ context.Context, movieID string) error {
	a.logger.Info("movie will be deleted", "movie_id", movieID)
	return fmt.Errorf("%w: delete movie", shared.ErrNotImplemented)
}

// SubmitRating checks the rating range and records the request only.
func (a *Actions) SubmitRating(_ context.Context, movieID string, value int) error {
	sub := models.RatingSubmission{MovieID: movieID, Value: value}
	if err := sub.Validate(); err != nil {
		a.surface.ShowError(MsgInvalidRating)
		return err
	}

	a.logger.Info("rating submitted", "movie_id", movieID, "rating", value)
	return fmt.Errorf("%w: submit rating", shared.ErrNotImplemented)
}
