package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/moviex/internal/formatter"
	"github.com/desertthunder/moviex/internal/models"
	"github.com/desertthunder/moviex/internal/shared"
	"github.com/desertthunder/moviex/internal/tasks"
	"github.com/desertthunder/moviex/internal/thumbnail"
)

const previewSize = 64

// Movies lists the catalog, or the signed-in user's movies with --mine.
func (r *Runner) Movies(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(ctx); err != nil {
		return err
	}

	scope := models.AllMovies
	if cmd.Bool("mine") {
		owned, err := tasks.OwnedScope(ctx, r.store)
		if err != nil {
			return fmt.Errorf("%w: log in to list your movies", err)
		}
		scope = owned
	}

	progress := make(chan tasks.ProgressUpdate, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.logger.Debug(update.Message, "phase", update.Phase, "step", update.Step, "total", update.Total)
		}
	}()

	container := tasks.NewContainer()
	count, err := r.engine.Load(ctx, scope, container, progress)
	close(progress)
	<-done
	if err != nil {
		return err
	}
	r.logger.Info("loaded movies", "scope", scope, "count", count)

	format := strings.ToLower(cmd.String("format"))
	title := "Movies"
	if scope.IsOwned() {
		title = "My movies"
	}

	if path := cmd.String("output"); path != "" {
		if err := formatter.WriteExport(path, format, title, container.Rows(), cmd.Bool("images")); err != nil {
			return err
		}
		return r.writePlain("✓ Wrote %d movies to %s\n", count, path)
	}

	data, err := formatter.Export(format, title, container.Rows(), cmd.Bool("images"))
	if err != nil {
		return err
	}
	if format == formatter.FormatText || format == "" {
		r.writePlainHeader(fmt.Sprintf("%s (%d)", title, count))
	}
	_, err = r.output.Write(data)
	return err
}

// Add uploads a movie, or with --preview only describes the image that would be sent.
func (r *Runner) Add(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("image")

	if cmd.Bool("preview") {
		return r.previewImage(path)
	}

	if err := r.connect(ctx); err != nil {
		return err
	}

	title, err := r.flagOrPrompt(cmd, "title", "Title", false)
	if err != nil {
		return err
	}
	author, err := r.flagOrPrompt(cmd, "author", "Author", false)
	if err != nil {
		return err
	}

	r.logger.Info("adding movie", "title", title, "image", path)
	return r.actions.WithSurface(r.surface(cmd)).AddMovie(ctx, title, author, path)
}

func (r *Runner) previewImage(path string) error {
	data, err := shared.VerifyAndReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrMissingImage, err)
	}

	info, err := thumbnail.Describe(thumbnail.NewDisplayableImage(data))
	if err != nil {
		return err
	}
	small, err := thumbnail.Preview(data, previewSize, previewSize)
	if err != nil {
		return err
	}
	scaled, err := thumbnail.Describe(small)
	if err != nil {
		return err
	}

	r.writePlain("Image:     %s\n", path)
	r.writePlain("Format:    %s\n", info.Format)
	r.writePlain("Size:      %dx%d (%d bytes)\n", info.Width, info.Height, len(data))
	r.writePlain("Thumbnail: %dx%d\n", scaled.Width, scaled.Height)
	return nil
}

// Delete asks to delete one of the user's movies.
func (r *Runner) Delete(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: movie id", shared.ErrMissingArgument)
	}
	if err := r.connect(ctx); err != nil {
		return err
	}
	return r.actions.WithSurface(r.surface(cmd)).DeleteMovie(ctx, id)
}

// Rate submits a 1-5 rating for a movie.
func (r *Runner) Rate(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: movie id", shared.ErrMissingArgument)
	}
	if err := r.connect(ctx); err != nil {
		return err
	}
	return r.actions.WithSurface(r.surface(cmd)).SubmitRating(ctx, id, int(cmd.Int("rating")))
}
