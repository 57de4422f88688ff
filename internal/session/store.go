package session

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"
	"unicode"
)

// Entry names set by the catalog service.
const (
	UsernameKey = "username"
	UserIDKey   = "id"
)

// DefaultPath is the path every service cookie is scoped to.
const DefaultPath = "/"

var ErrNotFound = errors.New("session entry not found")

// Entry is one stored cookie. A zero Expires means the entry lasts for the session.
type Entry struct {
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Path    string    `json:"path"`
	Expires time.Time `json:"expires,omitzero"`
}

// Expired reports whether the entry has an expiry at or before now.
func (e Entry) Expired(now time.Time) bool {
	return !e.Expires.IsZero() && !e.Expires.After(now)
}

// Store persists session entries keyed by name.
//
// Get returns [ErrNotFound] for missing or expired entries. Setting an already expired entry removes it.
type Store interface {
	Get(ctx context.Context, name string) (Entry, error)
	Set(ctx context.Context, e Entry) error
	All(ctx context.Context) ([]Entry, error)
	Clear(ctx context.Context) error
}

// CurrentUsername returns the signed-in username, or false when there is none.
//
// Store failures and malformed values are treated as no session.
func CurrentUsername(ctx context.Context, store Store) (string, bool) {
	if store == nil {
		return "", false
	}

	e, err := store.Get(ctx, UsernameKey)
	if err != nil || e.Expired(time.Now()) {
		return "", false
	}
	return decodeValue(e.Value)
}

// Expire marks every stored entry as expired, then clears the store.
//
// Both steps run even if the first fails; the first error is returned.
func Expire(ctx context.Context, store Store) error {
	entries, err := store.All(ctx)
	if err == nil {
		epoch := time.Unix(0, 0).UTC()
		for _, e := range entries {
			e.Value = ""
			e.Path = DefaultPath
			e.Expires = epoch
			if setErr := store.Set(ctx, e); setErr != nil && err == nil {
				err = setErr
			}
		}
	}

	if clearErr := store.Clear(ctx); clearErr != nil && err == nil {
		err = clearErr
	}
	return err
}

// decodeValue unquotes and percent-decodes a cookie value, rejecting values that could not have come from a well-formed cookie.
func decodeValue(raw string) (string, bool) {
	v := raw
	if len(v) >= 2 && v[0] == '"' && v[len(v)-1] == '"' {
		v = v[1 : len(v)-1]
	}

	v, err := url.PathUnescape(v)
	if err != nil {
		return "", false
	}

	v = strings.TrimSpace(v)
	if v == "" || strings.ContainsAny(v, ";=\"") {
		return "", false
	}
	for _, r := range v {
		if unicode.IsControl(r) {
			return "", false
		}
	}
	return v, true
}
