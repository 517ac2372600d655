package inkline

import (
	"context"
	"fmt"
)

// Command is one of the app's entry modes, selected by the first CLI
// argument.
type Command interface {
	// Name is the CLI argument that selects this command.
	Name() string
	// Execute runs the command against an initialized App.
	Execute(ctx context.Context, a *App) error
}

// RunCommand starts the HTTP server and, when a backend is configured, the
// realtime listener. This is the default command.
type RunCommand struct{}

func (c *RunCommand) Name() string { return "run" }

func (c *RunCommand) Execute(ctx context.Context, a *App) error {
	return a.Run(ctx)
}

// MigrateCommand creates the backend schema and exits. Requires a configured
// backend.
type MigrateCommand struct{}

func (c *MigrateCommand) Name() string { return "migrate" }

func (c *MigrateCommand) Execute(ctx context.Context, a *App) error {
	if a.pg == nil {
		return fmt.Errorf("migrate requires INKLINE_POSTGRES_DSN")
	}
	if err := a.pg.Migrate(ctx); err != nil {
		return fmt.Errorf("migrating backend schema: %w", err)
	}
	a.log.Info().Msg("backend schema up to date")
	return nil
}

// SyncCommand loads the workspace, runs one reconcile cycle, and exits.
type SyncCommand struct{}

func (c *SyncCommand) Name() string { return "sync" }

func (c *SyncCommand) Execute(ctx context.Context, a *App) error {
	if err := a.ws.Load(ctx); err != nil {
		return err
	}
	if err := a.ws.SyncNow(ctx); err != nil {
		return err
	}
	b := a.ws.Snapshot()
	a.log.Info().
		Int("folders", len(b.Folders)).
		Int("documents", len(b.Documents)).
		Int("versions", len(b.Versions)).
		Int("shares", len(b.Shares)).
		Msg("sync complete")
	return nil
}

// ParseCommand maps the first CLI argument to a command, defaulting to run.
func ParseCommand(args []string) (Command, error) {
	commands := []Command{&RunCommand{}, &MigrateCommand{}, &SyncCommand{}}
	if len(args) == 0 {
		return &RunCommand{}, nil
	}
	for _, c := range commands {
		if c.Name() == args[0] {
			return c, nil
		}
	}
	return nil, fmt.Errorf("unknown command %q (want run, migrate, or sync)", args[0])
}
