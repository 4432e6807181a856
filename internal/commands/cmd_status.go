package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/careerhub/pulse/internal/pulse"
	"github.com/careerhub/pulse/pkg/iojson"
)

type StatusCmd struct {
	flags *Flags
	app   *pulse.App

	// flags
	jsonOutput bool
}

// NewStatusCmd creates a new status command
func NewStatusCmd(flags *Flags, app *pulse.App) *StatusCmd {
	return &StatusCmd{flags: flags, app: app}
}

// Register adds the status command to the application
func (cmd *StatusCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "status",
		Usage:     "Show feed and alert state",
		UsageText: "pulse status [--json]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

type statusReport struct {
	UserID     string `json:"user_id"`
	SocketURL  string `json:"socket_url"`
	Feed       int    `json:"feed"`
	Unread     int    `json:"unread"`
	Archived   int64  `json:"archived"`
	Permission string `json:"permission"`
	Sound      bool   `json:"sound"`
}

func (cmd *StatusCmd) run(ctx context.Context, c *cli.Command) error {
	archived, err := cmd.app.Archive.Count(ctx)
	if err != nil {
		return fmt.Errorf("count archive: %w", err)
	}

	report := statusReport{
		UserID:     cmd.app.Config.Identity.UserID,
		SocketURL:  cmd.app.Config.Server.SocketURL,
		Feed:       cmd.app.Feed.Len(),
		Unread:     cmd.app.Feed.Unread(),
		Archived:   archived,
		Permission: string(cmd.app.Bridge.Permission()),
		Sound:      cmd.app.Config.Alerts.SoundEnabled(),
	}

	if cmd.jsonOutput {
		return iojson.Write(report)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "User\t%s\n", report.UserID)
	fmt.Fprintf(w, "Service\t%s\n", report.SocketURL)
	fmt.Fprintf(w, "Feed\t%d (%d unread)\n", report.Feed, report.Unread)
	fmt.Fprintf(w, "Archived\t%d\n", report.Archived)
	fmt.Fprintf(w, "Alerts\t%s\n", report.Permission)
	fmt.Fprintf(w, "Sound\t%v\n", report.Sound)
	return w.Flush()
}
