package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/thehappyredwolf/todo-app/internal/auth"
	"github.com/thehappyredwolf/todo-app/internal/ui"
)

type AuthCmd struct {
	app *App

	// flags
	expiresIn time.Duration
}

func NewAuthCmd(app *App) *AuthCmd { return &AuthCmd{app: app} }

func (cmd *AuthCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "auth",
		Usage: "Manage the API token sent to the remote",
		Description: `The token is stored next to the config file with owner-only permissions.
` + auth.EnvToken + ` takes precedence over the stored token.`,
		OnUsageError: onUsageError,
		Commands: []*cli.Command{
			{
				Name:      "login",
				Usage:     "Store an API token",
				UsageText: "todo auth login <token> [--expires-in 720h]",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:        "expires-in",
						Usage:       "record when the token expires",
						Destination: &cmd.expiresIn,
					},
				},
				OnUsageError: onUsageError,
				Action:       cmd.login,
			},
			{
				Name:         "logout",
				Usage:        "Remove the stored API token",
				OnUsageError: onUsageError,
				Action:       cmd.logout,
			},
			{
				Name:         "status",
				Usage:        "Show where the active token comes from",
				OnUsageError: onUsageError,
				Action:       cmd.status,
			},
		},
	})
	return app
}

func (cmd *AuthCmd) login(_ context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return usageErrorf("usage: todo auth login <token>")
	}

	var expires *time.Time
	if cmd.expiresIn > 0 {
		t := time.Now().Add(cmd.expiresIn)
		expires = &t
	}
	if err := cmd.app.Creds.Save(c.Args().First(), expires); err != nil {
		return usageErrorf("login: %w", err)
	}

	ui.OK(cmd.app.out, "logged in")
	if os.Getenv(auth.EnvToken) != "" {
		ui.Warn(cmd.app.errOut, auth.EnvToken+" is set and overrides the stored token")
	}
	return nil
}

func (cmd *AuthCmd) logout(_ context.Context, _ *cli.Command) error {
	if err := cmd.app.Creds.Delete(); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	ui.OK(cmd.app.out, "logged out")
	return nil
}

func (cmd *AuthCmd) status(_ context.Context, _ *cli.Command) error {
	ti, err := cmd.app.Creds.Token()
	if err != nil {
		return fmt.Errorf("status: %w", err)
	}
	if ti == nil {
		fmt.Fprintln(cmd.app.out, "not logged in")
		return nil
	}

	line := fmt.Sprintf("logged in (%s) token %s", ti.Source, mask(ti.Token))
	if ti.ExpiresAt != nil {
		if time.Now().After(*ti.ExpiresAt) {
			line += ", expired " + ti.ExpiresAt.Format(time.RFC3339)
		} else {
			line += ", expires " + ti.ExpiresAt.Format(time.RFC3339)
		}
	}
	fmt.Fprintln(cmd.app.out, line)
	return nil
}

func mask(token string) string {
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "…" + token[len(token)-4:]
}
