package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/moviex/internal/session"
	"github.com/desertthunder/moviex/internal/shared"
)

// CookieRepository implements [session.Store] on the cookies table.
type CookieRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewCookieRepository creates a new [CookieRepository] with the given database connection
func NewCookieRepository(db *sql.DB) *CookieRepository {
	return &CookieRepository{db: db, now: time.Now}
}

// Get retrieves an unexpired cookie by name
func (r *CookieRepository) Get(ctx context.Context, name string) (session.Entry, error) {
	query := `
		SELECT name, value, path, expires_at
		FROM cookies
		WHERE name = ?
	`

	var (
		e       session.Entry
		expires sql.NullTime
	)

	err := r.db.QueryRowContext(ctx, query, name).Scan(&e.Name, &e.Value, &e.Path, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return session.Entry{}, session.ErrNotFound
	}
	if err != nil {
		return session.Entry{}, fmt.Errorf("%w: failed to query cookie: %v", shared.ErrSessionStore, err)
	}

	if expires.Valid {
		e.Expires = expires.Time
	}
	if e.Expired(r.now()) {
		return session.Entry{}, session.ErrNotFound
	}
	return e, nil
}

// Set upserts a cookie, or deletes it when it is already expired
func (r *CookieRepository) Set(ctx context.Context, e session.Entry) error {
	if e.Name == "" {
		return fmt.Errorf("%w: cookie name", shared.ErrMissingArgument)
	}

	if e.Expired(r.now()) {
		if _, err := r.db.ExecContext(ctx, "DELETE FROM cookies WHERE name = ?", e.Name); err != nil {
			return fmt.Errorf("%w: failed to delete cookie: %v", shared.ErrSessionStore, err)
		}
		return nil
	}

	if e.Path == "" {
		e.Path = session.DefaultPath
	}

	query := `
		INSERT INTO cookies (name, value, path, expires_at, updated_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			value = excluded.value,
			path = excluded.path,
			expires_at = excluded.expires_at,
			updated_at = excluded.updated_at
	`

	if _, err := r.db.ExecContext(ctx, query, e.Name, e.Value, e.Path, nullTime(e.Expires), r.now().UTC()); err != nil {
		return fmt.Errorf("%w: failed to store cookie: %v", shared.ErrSessionStore, err)
	}
	return nil
}

// All lists unexpired cookies ordered by name
func (r *CookieRepository) All(ctx context.Context) ([]session.Entry, error) {
	query := `
		SELECT name, value, path, expires_at
		FROM cookies
		ORDER BY name
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list cookies: %v", shared.ErrSessionStore, err)
	}
	defer rows.Close()

	now := r.now()
	var entries []session.Entry
	for rows.Next() {
		var (
			e       session.Entry
			expires sql.NullTime
		)
		if err := rows.Scan(&e.Name, &e.Value, &e.Path, &expires); err != nil {
			return nil, fmt.Errorf("%w: failed to scan cookie: %v", shared.ErrSessionStore, err)
		}
		if expires.Valid {
			e.Expires = expires.Time
		}
		if !e.Expired(now) {
			entries = append(entries, e)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrSessionStore, err)
	}
	return entries, nil
}

// Clear removes every cookie
func (r *CookieRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM cookies"); err != nil {
		return fmt.Errorf("%w: failed to clear cookies: %v", shared.ErrSessionStore, err)
	}
	return nil
}
