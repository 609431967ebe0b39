package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/thehappyredwolf/todo-app/internal/model"
	"github.com/thehappyredwolf/todo-app/internal/ui"
	"github.com/thehappyredwolf/todo-app/internal/view"
)

const maxTitleWidth = 80

type LsCmd struct {
	flags *Flags
	app   *App

	// flags
	filter string
}

// NewLsCmd creates a new ls command
func NewLsCmd(flags *Flags, app *App) *LsCmd {
	return &LsCmd{flags: flags, app: app}
}

// Register adds the ls command to the application
func (cmd *LsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "ls",
		Usage:     "List todos",
		UsageText: "todo ls [--filter all|active|completed] [--group]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "filter",
				Aliases:     []string{"f"},
				Usage:       "show all, active or completed todos",
				Value:       "all",
				Destination: &cmd.filter,
			},
		},
		OnUsageError: onUsageError,
		Action:       cmd.run,
	})
	return app
}

func (cmd *LsCmd) run(ctx context.Context, c *cli.Command) error {
	f, err := model.ParseFilter(cmd.filter)
	if err != nil {
		return usageErrorf("ls: %w", err)
	}

	// A failed fetch still renders the empty state before exiting non-zero.
	loadErr := cmd.app.hydrate(ctx)

	st := cmd.app.Store
	th := ui.Current()
	all := st.All()
	items := st.Filtered(f)

	d, p := model.Stats(all)
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		th.Title.Render("Todos"),
		th.Success.Render(th.SymDone), d,
		th.Pending.Render(th.SymPending), p,
		th.Accent.Render("Total"), len(all),
	)

	var lines []string
	lines = append(lines, header)
	lines = append(lines, th.Muted.Render(ui.ProgressBar(d, d+p, 28)))
	lines = append(lines, "")

	if cmd.flags.Group {
		lines = append(lines, groupLines(items)...)
	} else {
		lines = append(lines, flatLines(items)...)
	}
	lines = append(lines, "")
	lines = append(lines, th.Muted.Render(view.CountLabel(st.RemainingCount())+" · filter: "+f.String()))
	lines = append(lines, th.Muted.Render("Tip: add with `todo add \"Buy milk\"`"))
	ui.Panel(cmd.app.out, lines)
	return loadErr
}

func flatLines(items []model.Todo) []string {
	th := ui.Current()
	if len(items) == 0 {
		return []string{th.Muted.Render(view.Placeholder)}
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		box, style := th.BoxUnchecked, th.Muted
		if it.Completed {
			box, style = th.BoxChecked, th.Success
		}
		title := it.Title
		if r := []rune(title); len(r) > maxTitleWidth {
			title = string(r[:maxTitleWidth-3]) + "..."
		}
		out = append(out, fmt.Sprintf("%s %s %s",
			th.Muted.Render(fmt.Sprintf("%14s", fmt.Sprintf("#%d", it.ID))), style.Render(box), title))
	}
	return out
}

func groupLines(items []model.Todo) []string {
	var pend, done []model.Todo
	for _, it := range items {
		if it.Completed {
			done = append(done, it)
		} else {
			pend = append(pend, it)
		}
	}
	th := ui.Current()
	var lines []string
	lines = append(lines, th.Accent.Render("Pending"))
	if len(pend) == 0 {
		lines = append(lines, th.Muted.Render("(none)"))
	} else {
		lines = append(lines, flatLines(pend)...)
	}
	lines = append(lines, "")
	lines = append(lines, th.Accent.Render("Done"))
	if len(done) == 0 {
		lines = append(lines, th.Muted.Render("(none)"))
	} else {
		lines = append(lines, flatLines(done)...)
	}
	return lines
}
