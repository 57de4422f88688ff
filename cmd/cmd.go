// submodule cmd contains command definitions
package main

import (
	"context"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/moviex/internal/formatter"
	"github.com/desertthunder/moviex/internal/shared"
)

// newApp builds the root command around r.
func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "moviex",
		Usage:   "Browse, rate and upload movies on a movie catalog service",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   defaultConfigPath,
				Sources: cli.EnvVars("MOVIEX_CONFIG"),
			},
		},
		Before:   r.LoadConfig,
		Commands: r.register(),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		registerCommand, loginCommand, logoutCommand, whoamiCommand, navCommand,
		moviesCommand, addCommand, deleteCommand, rateCommand,
		tuiCommand, serveCommand, sessionCommand, cacheCommand, setupCommand, apiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// LoadConfig replaces the runner's config when --config was given explicitly.
func (r *Runner) LoadConfig(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if !cmd.IsSet("config") {
		return ctx, nil
	}

	config, err := shared.LoadConfig(cmd.String("config"))
	if err != nil {
		return ctx, err
	}
	config.ApplyEnv()
	r.config = config
	shared.SetLogLevel(r.logger, shared.ParseLogLevel(config.Log.Level))
	return ctx, nil
}

func openFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "open",
		Usage: "Open the page the catalog redirects to in a browser",
	}
}

func registerCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "register",
		Usage: "Create an account and sign in",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Username"},
			&cli.StringFlag{Name: "password", Usage: "Password (prompted when omitted)"},
			&cli.StringFlag{Name: "confirm", Usage: "Password confirmation (prompted when omitted)"},
			openFlag(),
		},
		Action: r.Register,
	}
}

func loginCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Sign in to the catalog",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Username"},
			&cli.StringFlag{Name: "password", Usage: "Password (prompted when omitted)"},
			openFlag(),
		},
		Action: r.Login,
	}
}

func logoutCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "logout",
		Usage:  "Sign out and forget the session",
		Flags:  []cli.Flag{openFlag()},
		Action: r.Logout,
	}
}

func whoamiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "whoami",
		Usage:  "Show the signed-in user",
		Action: r.Whoami,
	}
}

func navCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "nav",
		Usage:  "Show the navigation available to the current session",
		Action: r.Nav,
	}
}

func moviesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "movies",
		Aliases: []string{"ls"},
		Usage:   "List movies with their thumbnails",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "mine",
				Usage: "List only movies uploaded by the signed-in user",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format (text, json, yaml, csv, markdown, html)",
				Value:   formatter.FormatText,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write to this file instead of stdout",
			},
			&cli.BoolFlag{
				Name:  "images",
				Usage: "Include thumbnails as data URIs in json and yaml output",
			},
		},
		Action: r.Movies,
	}
}

func addCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "Upload a new movie",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Movie title"},
			&cli.StringFlag{Name: "author", Aliases: []string{"a"}, Usage: "Movie author"},
			&cli.StringFlag{Name: "image", Aliases: []string{"i"}, Usage: "Path to the thumbnail image"},
			&cli.BoolFlag{Name: "preview", Usage: "Describe the image and exit without uploading"},
		},
		Action: r.Add,
	}
}

func deleteCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete one of your movies",
		Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
		Action:    r.Delete,
	}
}

func rateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "rate",
		Usage:     "Rate a movie from 1 to 5",
		Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:     "rating",
				Aliases:  []string{"r"},
				Usage:    "Rating value",
				Required: true,
			},
		},
		Action: r.Rate,
	}
}

// tuiCommand returns the top-level TUI command for interactive browsing.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive movie browser",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Where logs go while the TUI owns the terminal",
				Value: "./tmp/moviex-tui.log",
			},
		},
		Action: r.TUI,
	}
}

func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve movie pages on a local preview server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "host", Usage: "Listen host (defaults to preview.host)"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: "Listen port (defaults to preview.port)"},
			&cli.BoolFlag{Name: "open", Usage: "Open the preview in a browser"},
		},
		Action: r.Serve,
	}
}

func sessionCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "session",
		Usage: "Inspect and seed the stored session",
		Commands: []*cli.Command{
			{
				Name:  "import",
				Usage: "Import session cookies from a browser request",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "curl",
						Usage: "cURL command from browser DevTools (Copy as cURL)",
					},
					&cli.StringFlag{
						Name:  "curl-file",
						Usage: "Path to .sh file containing cURL command",
					},
				},
				Action: r.SessionImport,
			},
			{
				Name:  "show",
				Usage: "List stored session cookies",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
				},
				Action: r.SessionShow,
			},
		},
	}
}

// apiCommand handles direct calls to the catalog service
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct API calls to the catalog service",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET with the stored session, prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output compact JSON",
					},
				},
				Action: r.APIGet,
			},
			{
				Name:  "post",
				Usage: "Direct POST with JSON body",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "JSON body to send",
						Required: true,
					},
				},
				Action: r.APIPost,
			},
		},
	}
}

// cacheCommand manages the local thumbnail cache
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Manage the local thumbnail cache",
		Commands: []*cli.Command{
			{
				Name:  "prune",
				Usage: "Remove cached thumbnails older than a duration",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "older-than",
						Usage: "Age of entries to remove",
						Value: 7 * 24 * time.Hour,
					},
				},
				Action: r.CachePrune,
			},
			{
				Name:   "stats",
				Usage:  "Show how many thumbnails are cached",
				Action: r.CacheStats,
			},
		},
	}
}

// setupCommand handles setup operations for the database and configuration.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "rollback",
						Usage: "Roll back the most recently applied migration instead",
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:  "config",
				Usage: "Write an example configuration file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Where to write the file",
						Value:   defaultConfigPath,
					},
				},
				Action: r.SetupConfig,
			},
		},
	}
}
