package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/careerhub/pulse/internal/pulse"
	"github.com/careerhub/pulse/pkg/iojson"
)

type LsCmd struct {
	flags *Flags
	app   *pulse.App

	// flags
	jsonOutput bool
	all        bool
	limit      int
}

// NewLsCmd creates a new ls command
func NewLsCmd(flags *Flags, app *pulse.App) *LsCmd {
	return &LsCmd{flags: flags, app: app}
}

// Register adds the ls command to the application
func (cmd *LsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "ls",
		Usage:     "List notifications",
		UsageText: "pulse ls [--all] [--json] [--limit n]",
		Description: `Displays the current feed with read state and age.

Use --all to list the local archive instead of the live feed; the archive
keeps everything ever received, including items dismissed from the feed.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON",
				Destination: &cmd.jsonOutput,
			},
			&cli.BoolFlag{
				Name:        "all",
				Aliases:     []string{"a"},
				Usage:       "list the archive instead of the live feed",
				Destination: &cmd.all,
			},
			&cli.IntFlag{
				Name:        "limit",
				Aliases:     []string{"n"},
				Usage:       "maximum number of rows (archive only, 0 = no limit)",
				Value:       50,
				Destination: &cmd.limit,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *LsCmd) run(ctx context.Context, c *cli.Command) error {
	if cmd.all {
		return cmd.runArchive(ctx)
	}

	items := cmd.app.Feed.List()
	if len(items) == 0 {
		if !cmd.jsonOutput {
			fmt.Fprintf(os.Stderr, "No notifications\n")
		}
		return nil
	}

	if cmd.jsonOutput {
		return iojson.Write(items)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATE\tTITLE\tAGE")
	for _, n := range items {
		state := "read"
		if !n.Read {
			state = "unread"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", n.ID, state, n.Title, age(n.CreatedAt))
	}
	return w.Flush()
}

func (cmd *LsCmd) runArchive(ctx context.Context) error {
	entries, err := cmd.app.Archive.List(ctx, cmd.limit)
	if err != nil {
		return fmt.Errorf("list archive: %w", err)
	}

	if len(entries) == 0 {
		if !cmd.jsonOutput {
			fmt.Fprintf(os.Stderr, "Archive is empty\n")
		}
		return nil
	}

	if cmd.jsonOutput {
		return iojson.Write(entries)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCHANNEL\tTITLE\tAGE")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.ID, e.Channel, e.Title, age(e.CreatedAt))
	}
	return w.Flush()
}

func age(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}

