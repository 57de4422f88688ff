package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/moviex/internal/session"
	"github.com/desertthunder/moviex/internal/shared"
)

// SessionImport seeds the session store from a browser "Copy as cURL" command.
func (r *Runner) SessionImport(ctx context.Context, cmd *cli.Command) error {
	curlCmd := cmd.String("curl")
	curlFile := cmd.String("curl-file")

	if curlCmd == "" && curlFile == "" {
		return fmt.Errorf("%w: either --curl or --curl-file must be provided", shared.ErrMissingArgument)
	}

	if curlCmd != "" && curlFile != "" {
		return fmt.Errorf("%w: cannot specify both --curl and --curl-file", shared.ErrInvalidArgument)
	}

	data := []byte(curlCmd)
	if curlFile != "" {
		content, err := shared.VerifyAndReadFile(curlFile)
		if err != nil {
			return fmt.Errorf("failed to read cURL file: %w", err)
		}
		data = content
		r.logger.Info("parsed cURL from file", "file", curlFile)
	}

	if err := r.connect(ctx); err != nil {
		return err
	}

	n, err := session.ImportCurl(ctx, r.store, data)
	if err != nil {
		return fmt.Errorf("failed to import session: %w", err)
	}
	r.logger.Info("session imported", "cookies", n)

	r.writePlain("✓ Imported %d cookies\n", n)
	if name, ok := session.CurrentUsername(ctx, r.store); ok {
		r.writePlain("Signed in as %s\n", name)
	}
	return nil
}

// SessionShow lists the stored session cookies.
func (r *Runner) SessionShow(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(ctx); err != nil {
		return err
	}

	entries, err := r.store.All(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrSessionStore, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(entries, true)
	}

	if len(entries) == 0 {
		return r.writePlain("No session stored\n")
	}
	for _, e := range entries {
		expires := "session"
		if !e.Expires.IsZero() {
			expires = e.Expires.Local().Format(time.RFC1123)
		}
		r.writePlain("%-10s %-40s path=%s expires=%s\n", e.Name, e.Value, e.Path, expires)
	}
	return nil
}
