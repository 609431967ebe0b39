package cli

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/thehappyredwolf/todo-app/internal/tui"
)

type TuiCmd struct{ app *App }

func NewTuiCmd(app *App) *TuiCmd { return &TuiCmd{app: app} }

// Run starts the interactive list. Notifications go to the TUI instead of
// stderr while it runs.
func (cmd *TuiCmd) Run(ctx context.Context, _ *cli.Command) error {
	a := cmd.app
	a.interactive.Store(true)
	defer a.interactive.Store(false)

	return tui.Run(ctx, tui.Options{
		Dispatcher: a.Dispatcher,
		Lister:     a.Remote,
		Bus:        a.Bus,
		BannerTTL:  a.Config.TUI.BannerTTL,
		FadeDelay:  a.Config.TUI.FadeDelay,
		Logger:     log.With().Str("component", "tui").Logger(),
	})
}
