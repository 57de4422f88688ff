// package models defines the data model for the movie catalog client
package models

import (
	"fmt"
	"strings"

	"github.com/desertthunder/moviex/internal/shared"
)

// Validatable is implemented by request DTOs that check their fields before a request is built.
type Validatable interface {
	Validate() error // Validate returns an error wrapping the relevant sentinel when a field is invalid
}

// MovieSummary is one movie record as returned by the list endpoints.
type MovieSummary struct {
	ID         string  `json:"id" yaml:"id"`
	Title      string  `json:"title" yaml:"title"`
	Author     string  `json:"author" yaml:"author"`
	ImageRef   string  `json:"image_url" yaml:"image_ref"`
	AvgRating  float64 `json:"avg_rating" yaml:"avg_rating"`
	NumRatings int     `json:"num_ratings" yaml:"num_ratings"`
}

// Credentials is the register/login request body.
type Credentials struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// Validate requires a non-blank name and a non-empty password.
func (c Credentials) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: name", shared.ErrMissingArgument)
	}
	if c.Password == "" {
		return fmt.Errorf("%w: password", shared.ErrMissingArgument)
	}
	return nil
}

// AuthResponse is the register/login response: exactly one of the fields is expected to be set.
type AuthResponse struct {
	RedirectPath string `json:"redirectPath,omitempty"`
	Error        string `json:"error,omitempty"`
}

// MessageResponse is the add-movie response.
type MessageResponse struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// NewMovieDraft is the add-movie request body.
type NewMovieDraft struct {
	Title  string    `json:"title"`
	Author string    `json:"author"`
	Image  ByteArray `json:"image"`
}

// Validate requires image bytes. Title and author are passed through as entered.
func (d NewMovieDraft) Validate() error {
	if len(d.Image) == 0 {
		return shared.ErrMissingImage
	}
	return nil
}

// RatingSubmission is a rating for one movie, constructed at submit time.
type RatingSubmission struct {
	MovieID string `json:"movie_id"`
	Value   int    `json:"rating"`
}

const (
	MinRating = 1
	MaxRating = 5
)

// Validate checks the value is within [MinRating, MaxRating].
func (r RatingSubmission) Validate() error {
	if r.Value < MinRating || r.Value > MaxRating {
		return fmt.Errorf("%w: got %d", shared.ErrInvalidRating, r.Value)
	}
	return nil
}

// Scope selects a movie collection: every movie, or those owned by one user.
//
// The zero value is [AllMovies].
type Scope struct {
	Owner string
}

// AllMovies is the scope of the general movie list.
var AllMovies = Scope{}

// OwnedBy returns the scope of movies owned by username.
func OwnedBy(username string) Scope {
	return Scope{Owner: username}
}

// IsOwned reports whether the scope is restricted to one owner.
func (s Scope) IsOwned() bool {
	return s.Owner != ""
}

// String returns "all" or the owner's username.
func (s Scope) String() string {
	if s.IsOwned() {
		return s.Owner
	}
	return "all"
}
