package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/thehappyredwolf/todo-app/internal/ui"
)

type RefreshCmd struct{ app *App }

func NewRefreshCmd(app *App) *RefreshCmd { return &RefreshCmd{app: app} }

func (cmd *RefreshCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "refresh",
		Usage:     "Drop the local cache and fetch the first todos again",
		UsageText: "todo refresh",
		Description: `Local changes that only live in the cache are lost: the remote is the
source of the new snapshot.`,
		OnUsageError: onUsageError,
		Action:       cmd.run,
	})
	return app
}

func (cmd *RefreshCmd) run(ctx context.Context, c *cli.Command) error {
	if err := cmd.app.Store.Reset(ctx); err != nil {
		return fmt.Errorf("reset cache: %w", err)
	}
	if err := cmd.app.hydrate(ctx); err != nil {
		return err
	}
	ui.OK(cmd.app.out, fmt.Sprintf("refreshed %d todos", cmd.app.Store.Len()))
	return nil
}
