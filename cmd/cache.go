package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/moviex/internal/shared"
)

// CachePrune removes cached thumbnails older than --older-than.
func (r *Runner) CachePrune(ctx context.Context, cmd *cli.Command) error {
	if err := r.connectCache(ctx); err != nil {
		return err
	}

	age := cmd.Duration("older-than")
	r.logger.Infof("pruning thumbnails older than %v", age)

	removed, err := r.thumbs.Prune(ctx, time.Now().Add(-age))
	if err != nil {
		return fmt.Errorf("failed to prune thumbnails: %w", err)
	}

	return r.writePlain("✓ Removed %d cached thumbnails\n", removed)
}

// CacheStats prints how many thumbnails are cached.
func (r *Runner) CacheStats(ctx context.Context, cmd *cli.Command) error {
	if err := r.connectCache(ctx); err != nil {
		return err
	}

	n, err := r.thumbs.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count thumbnails: %w", err)
	}

	r.writePlain("Cached thumbnails: %d\n", n)
	r.writePlain("Database:          %s\n", r.config.Database.Path)
	return nil
}

func (r *Runner) connectCache(ctx context.Context) error {
	if err := r.connect(ctx); err != nil {
		return err
	}
	if r.thumbs == nil {
		return fmt.Errorf("%w: thumbnail cache is disabled", shared.ErrServiceUnavailable)
	}
	return nil
}
