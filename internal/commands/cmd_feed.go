package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/careerhub/pulse/internal/pulse"
)

// FeedCmd groups the feed mutation commands: read, dismiss, and clear.
type FeedCmd struct {
	flags *Flags
	app   *pulse.App

	// flags
	clearArchive bool
}

// NewFeedCmd creates the feed mutation commands
func NewFeedCmd(flags *Flags, app *pulse.App) *FeedCmd {
	return &FeedCmd{flags: flags, app: app}
}

// Register adds the read, dismiss, and clear commands to the application
func (cmd *FeedCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands,
		&cli.Command{
			Name:      "read",
			Usage:     "Mark a notification as read",
			UsageText: "pulse read <id> | pulse read --all",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "all",
					Usage: "mark every notification read",
				},
			},
			Action: cmd.runRead,
		},
		&cli.Command{
			Name:      "dismiss",
			Usage:     "Remove a notification from the feed",
			UsageText: "pulse dismiss <id>",
			Description: `Removes the notification from the feed without acknowledging it; the
unread counter is unchanged. Dismissed items remain in the archive.`,
			Action: cmd.runDismiss,
		},
		&cli.Command{
			Name:      "clear",
			Usage:     "Reset the unread counter",
			UsageText: "pulse clear [--archive]",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:        "archive",
					Usage:       "also delete the local archive",
					Destination: &cmd.clearArchive,
				},
			},
			Action: cmd.runClear,
		},
	)

	return app
}

func (cmd *FeedCmd) runRead(ctx context.Context, c *cli.Command) error {
	if c.Bool("all") {
		cmd.app.Feed.ClearUnread()
		return nil
	}

	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("notification id required (or use --all)")
	}

	if !cmd.app.Feed.MarkRead(id) {
		return fmt.Errorf("no notification with id %q", id)
	}
	return nil
}

func (cmd *FeedCmd) runDismiss(ctx context.Context, c *cli.Command) error {
	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("notification id required")
	}

	if !cmd.app.Feed.Remove(id) {
		return fmt.Errorf("no notification with id %q", id)
	}
	return nil
}

func (cmd *FeedCmd) runClear(ctx context.Context, c *cli.Command) error {
	cmd.app.Feed.ClearUnread()

	if cmd.clearArchive {
		if err := cmd.app.Archive.Clear(ctx); err != nil {
			return fmt.Errorf("clear archive: %w", err)
		}
	}
	return nil
}
