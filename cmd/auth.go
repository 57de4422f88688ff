package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/moviex/internal/session"
	"github.com/desertthunder/moviex/internal/ui"
)

// Register creates an account. Passwords not given as flags are prompted for without echo.
func (r *Runner) Register(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(ctx); err != nil {
		return err
	}

	name, err := r.flagOrPrompt(cmd, "name", "Username", false)
	if err != nil {
		return err
	}
	password, err := r.flagOrPrompt(cmd, "password", "Password", true)
	if err != nil {
		return err
	}
	confirm, err := r.flagOrPrompt(cmd, "confirm", "Confirm password", true)
	if err != nil {
		return err
	}

	r.logger.Info("registering", "name", name)
	return r.actions.WithSurface(r.surface(cmd)).Register(ctx, name, password, confirm)
}

// Login signs in and stores the session cookies the catalog sets.
func (r *Runner) Login(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(ctx); err != nil {
		return err
	}

	name, err := r.flagOrPrompt(cmd, "name", "Username", false)
	if err != nil {
		return err
	}
	password, err := r.flagOrPrompt(cmd, "password", "Password", true)
	if err != nil {
		return err
	}

	r.logger.Info("logging in", "name", name)
	return r.actions.WithSurface(r.surface(cmd)).Login(ctx, name, password)
}

// Logout expires the local session, then tells the catalog.
func (r *Runner) Logout(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(ctx); err != nil {
		return err
	}
	return r.actions.WithSurface(r.surface(cmd)).Logout(ctx)
}

// Whoami prints the signed-in username.
func (r *Runner) Whoami(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(ctx); err != nil {
		return err
	}

	name, ok := session.CurrentUsername(ctx, r.store)
	if !ok {
		return r.writePlain("Not signed in\n")
	}
	return r.writePlain("%s\n", name)
}

// Nav prints the navigation entries the current session is allowed to see.
func (r *Runner) Nav(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(ctx); err != nil {
		return err
	}

	menu := ui.NewMenu()
	ui.NewGate(r.store).Apply(ctx, menu)

	for _, item := range menu.Visible() {
		if item.Target == "" {
			r.writePlain("%s\n", item.Text)
			continue
		}
		r.writePlain("%-12s %s%s\n", item.Text, r.baseURL(), item.Target)
	}
	return nil
}
