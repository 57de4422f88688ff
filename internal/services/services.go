// package services defines interface Catalog for interacting with the movie catalog HTTP API
package services

import (
	"context"
	"net/http"
	"time"

	"github.com/desertthunder/moviex/internal/models"
)

// Catalog defines the endpoints of the movie catalog service.
type Catalog interface {
	// Register creates an account. The server sets the session cookies on success.
	Register(ctx context.Context, creds models.Credentials) (*models.AuthResponse, error)

	// Login authenticates an existing account. The server sets the session cookies on success.
	Login(ctx context.Context, creds models.Credentials) (*models.AuthResponse, error)

	// Logout notifies the server and returns the response status code.
	Logout(ctx context.Context) (int, error)

	// ListMovies fetches every movie, or those owned by scope.Owner.
	ListMovies(ctx context.Context, scope models.Scope) ([]models.MovieSummary, error)

	// AddMovie uploads a new movie with its image bytes.
	AddMovie(ctx context.Context, draft models.NewMovieDraft) (*models.MessageResponse, error)

	// Thumbnail fetches the raw image bytes for ref.
	Thumbnail(ctx context.Context, ref string) ([]byte, error)
}

// NewHTTPClient returns a client with the given timeout and cookie jar. A nil jar disables cookies.
func NewHTTPClient(timeout time.Duration, jar http.CookieJar) *http.Client {
	return &http.Client{Timeout: timeout, Jar: jar}
}
