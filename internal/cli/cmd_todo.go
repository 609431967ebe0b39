package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/thehappyredwolf/todo-app/internal/model"
	"github.com/thehappyredwolf/todo-app/internal/ui"
)

type AddCmd struct{ app *App }

func NewAddCmd(app *App) *AddCmd { return &AddCmd{app: app} }

func (cmd *AddCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:         "add",
		Usage:        "Create a todo (title can be multiple words)",
		UsageText:    `todo add "Buy milk"`,
		OnUsageError: onUsageError,
		Action:       cmd.run,
	})
	return app
}

func (cmd *AddCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() == 0 {
		return usageErrorf("usage: todo add <title...>")
	}
	if err := cmd.app.hydrate(ctx); err != nil {
		return err
	}

	t, err := cmd.app.Dispatcher.Execute(ctx, model.Command{
		Action: model.ActionCreate,
		Text:   strings.Join(c.Args().Slice(), " "),
	})
	if err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			return reported(err, ExitUsage)
		}
		return reported(err, ExitRuntime)
	}
	ui.OK(cmd.app.out, fmt.Sprintf("added #%d %s", t.ID, t.Title))
	return nil
}

type DoneCmd struct{ app *App }

func NewDoneCmd(app *App) *DoneCmd { return &DoneCmd{app: app} }

func (cmd *DoneCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:         "done",
		Usage:        "Toggle completion of the todo with the given id",
		UsageText:    "todo done <id>",
		OnUsageError: onUsageError,
		Action:       cmd.run,
	})
	return app
}

func (cmd *DoneCmd) run(ctx context.Context, c *cli.Command) error {
	id, err := cmd.app.target(ctx, c, "done")
	if err != nil {
		return err
	}

	t, err := cmd.app.Dispatcher.Execute(ctx, model.Command{Action: model.ActionToggle, ID: id})
	if err != nil {
		return reported(err, ExitRuntime)
	}
	state := "pending"
	if t.Completed {
		state = "done"
	}
	ui.OK(cmd.app.out, fmt.Sprintf("#%d %s: %s", t.ID, state, t.Title))
	return nil
}

type RmCmd struct{ app *App }

func NewRmCmd(app *App) *RmCmd { return &RmCmd{app: app} }

func (cmd *RmCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:         "rm",
		Usage:        "Delete the todo with the given id",
		UsageText:    "todo rm <id>",
		OnUsageError: onUsageError,
		Action:       cmd.run,
	})
	return app
}

func (cmd *RmCmd) run(ctx context.Context, c *cli.Command) error {
	id, err := cmd.app.target(ctx, c, "rm")
	if err != nil {
		return err
	}
	if _, err := cmd.app.Dispatcher.Execute(ctx, model.Command{Action: model.ActionDelete, ID: id}); err != nil {
		return reported(err, ExitRuntime)
	}
	ui.OK(cmd.app.out, fmt.Sprintf("removed #%d", id))
	return nil
}

type ClearCmd struct{ app *App }

func NewClearCmd(app *App) *ClearCmd { return &ClearCmd{app: app} }

func (cmd *ClearCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:         "clear",
		Usage:        "Delete every completed todo",
		UsageText:    "todo clear",
		OnUsageError: onUsageError,
		Action:       cmd.run,
	})
	return app
}

func (cmd *ClearCmd) run(ctx context.Context, c *cli.Command) error {
	if err := cmd.app.hydrate(ctx); err != nil {
		return err
	}

	removed, err := cmd.app.Dispatcher.ClearCompleted(ctx)
	switch {
	case len(removed) > 0:
		ui.OK(cmd.app.out, fmt.Sprintf("cleared %d completed", len(removed)))
	case err == nil:
		ui.OK(cmd.app.out, "nothing to clear")
	}
	if err != nil {
		return reported(err, ExitRuntime)
	}
	return nil
}

// target parses the single id argument of name and checks it exists.
func (a *App) target(ctx context.Context, c *cli.Command, name string) (int64, error) {
	if c.Args().Len() != 1 {
		return 0, usageErrorf("usage: todo %s <id>", name)
	}
	raw := strings.TrimPrefix(c.Args().First(), "#")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, usageErrorf("%s: not an id: %s", name, c.Args().First())
	}

	if err := a.hydrate(ctx); err != nil {
		return 0, err
	}
	if !a.Store.Contains(id) {
		ui.Fprintln(a.errOut, ui.Current().Muted, "Hint: run `todo ls` to see valid ids")
		return 0, usageErrorf("%s: no todo with id %d", name, id)
	}
	return id, nil
}
