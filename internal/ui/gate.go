package ui

import (
	"context"
	"fmt"

	"github.com/desertthunder/moviex/internal/session"
)

// Navigation control ids.
const (
	UsernameDisplay = "username-display"
	LogoutButton    = "logout-button"
	MoviesButton    = "movies-button"
	LoginButton     = "login-button"
	AddMoviesButton = "add-movies-button"
)

// Control is a single navigation affordance.
type Control interface {
	SetVisible(visible bool)
	SetText(text string)
}

// Controls looks up affordances by id. Missing ids report false.
type Controls interface {
	Lookup(id string) (Control, bool)
}

// Gate shows or hides navigation controls depending on whether a user is signed in.
type Gate struct {
	store session.Store
}

// NewGate creates a Gate reading the session from store.
func NewGate(store session.Store) *Gate {
	return &Gate{store: store}
}

// Apply updates controls for the current session and returns the signed-in username, if any.
//
// It performs no network calls. Controls missing from the set are skipped.
func (g *Gate) Apply(ctx context.Context, controls Controls) (string, bool) {
	var store session.Store
	if g != nil {
		store = g.store
	}
	username, ok := session.CurrentUsername(ctx, store)

	if controls == nil {
		return username, ok
	}

	if ok {
		if c, found := controls.Lookup(UsernameDisplay); found {
			c.SetText(WelcomeText(username))
			c.SetVisible(true)
		}
		show(controls, LogoutButton, true)
		show(controls, MoviesButton, true)
		show(controls, LoginButton, false)
		return username, true
	}

	show(controls, UsernameDisplay, false)
	show(controls, LogoutButton, false)
	show(controls, MoviesButton, false)
	show(controls, LoginButton, true)
	show(controls, AddMoviesButton, false)
	return "", false
}

// WelcomeText is the username label shown to a signed-in user.
func WelcomeText(username string) string {
	return fmt.Sprintf("Welcome, %s!", username)
}

func show(controls Controls, id string, visible bool) {
	if c, ok := controls.Lookup(id); ok && c != nil {
		c.SetVisible(visible)
	}
}
