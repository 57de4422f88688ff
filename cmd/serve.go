package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/moviex/internal/server"
)

// Serve runs the local preview server until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(ctx); err != nil {
		return err
	}

	preview := r.config.Preview
	if host := cmd.String("host"); host != "" {
		preview.Host = host
	}
	if cmd.IsSet("port") {
		preview.Port = int(cmd.Int("port"))
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	router := server.NewBasicRouter()
	router.Use(server.RequestID(), server.Logging(r.logger))
	router.Handler(server.NewPreviewHandler(server.PreviewOpts{
		Engine:     r.engine,
		Actions:    r.actions,
		Store:      r.store,
		CatalogURL: r.baseURL(),
		Logger:     r.logger,
	}))

	return server.Serve(ctx, preview.Addr(), router, r.logger, func(addr string) {
		url := "http://" + addr + "/movies"
		r.writePlain("Serving movies at %s\n", url)
		if !cmd.Bool("open") {
			return
		}
		if err := r.opener(url); err != nil {
			r.logger.Warn("failed to open browser", "url", url, "error", err)
		}
	})
}
