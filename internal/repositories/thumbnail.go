package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/moviex/internal/shared"
	"github.com/desertthunder/moviex/internal/thumbnail"
)

// ThumbnailRepository implements [thumbnail.Cache] on the thumbnails table.
//
// Entries are immutable per reference: the service assigns a new reference when an image changes.
type ThumbnailRepository struct {
	db *sql.DB
}

// NewThumbnailRepository creates a new [ThumbnailRepository] with the given database connection
func NewThumbnailRepository(db *sql.DB) *ThumbnailRepository {
	return &ThumbnailRepository{db: db}
}

// GetThumbnail returns the cached image for ref; ok is false on a miss
func (r *ThumbnailRepository) GetThumbnail(ctx context.Context, ref string) (thumbnail.DisplayableImage, bool, error) {
	var img thumbnail.DisplayableImage

	err := r.db.QueryRowContext(ctx, "SELECT media_type, data FROM thumbnails WHERE ref = ?", ref).Scan(&img.MediaType, &img.Data)
	if errors.Is(err, sql.ErrNoRows) {
		return thumbnail.DisplayableImage{}, false, nil
	}
	if err != nil {
		return thumbnail.DisplayableImage{}, false, fmt.Errorf("failed to query thumbnail: %w", err)
	}
	return img, true, nil
}

// PutThumbnail stores img under ref, replacing any previous entry. Empty images are not stored.
func (r *ThumbnailRepository) PutThumbnail(ctx context.Context, ref string, img thumbnail.DisplayableImage) error {
	if ref == "" {
		return fmt.Errorf("%w: thumbnail ref", shared.ErrMissingArgument)
	}
	if img.Empty() {
		return nil
	}

	query := `
		INSERT INTO thumbnails (ref, media_type, data, fetched_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(ref) DO UPDATE SET
			media_type = excluded.media_type,
			data = excluded.data,
			fetched_at = excluded.fetched_at
	`

	if _, err := r.db.ExecContext(ctx, query, ref, img.MediaType, img.Data, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to store thumbnail: %w", err)
	}
	return nil
}

// Prune deletes thumbnails fetched before cutoff and returns how many were removed
func (r *ThumbnailRepository) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM thumbnails WHERE fetched_at < ?", cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to prune thumbnails: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return rows, nil
}

// Count returns the number of cached thumbnails
func (r *ThumbnailRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM thumbnails").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count thumbnails: %w", err)
	}
	return n, nil
}
