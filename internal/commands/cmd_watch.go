package commands

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/careerhub/pulse/internal/core/eventbus"
	"github.com/careerhub/pulse/internal/pulse"
)

type WatchCmd struct {
	flags *Flags
	app   *pulse.App
}

// NewWatchCmd creates a new watch command
func NewWatchCmd(flags *Flags, app *pulse.App) *WatchCmd {
	return &WatchCmd{flags: flags, app: app}
}

// Register adds the watch command to the application
func (cmd *WatchCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "watch",
		Usage:     "Deliver desktop alerts in the background",
		UsageText: "pulse watch",
		Description: `Connects to the notification service without opening the feed view and
raises a desktop alert for every broadcast pushed to your account.

Only the broadcast channel is delivered in the background; scoped
notifications are shown when the feed view is open. The connection is
re-established with exponential backoff when it drops, tunable via the
reconnect section of the config file.`,
		Action: cmd.run,
	})

	return app
}

func (cmd *WatchCmd) run(ctx context.Context, _ *cli.Command) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := cmd.app
	userID := app.Config.Identity.UserID
	if userID == "" {
		return fmt.Errorf("identity.user_id is not configured")
	}

	app.Dispatcher.StartBackground()

	disconnects := make(chan string, 1)
	app.Bus.SubscribeSocketDisconnected(func(p eventbus.SocketDisconnectedPayload) {
		select {
		case disconnects <- p.Reason:
		default:
		}
	})

	rc := app.Config.Reconnect
	attempt := 0

	for {
		_, err := app.Socket.Connect(ctx, userID)
		if err != nil {
			if !rc.ReconnectEnabled() || attempt >= rc.MaxAttempts {
				return fmt.Errorf("connect: %w", err)
			}
			attempt++
			delay := backoffDelay(attempt, rc.BaseDelay, rc.MaxDelay)
			log.Warn().Err(err).Int("attempt", attempt).Dur("retry_in", delay).Msg("connect failed")

			select {
			case <-time.After(delay):
				continue
			case <-ctx.Done():
				return nil
			}
		}

		attempt = 0
		log.Info().Str("user_id", userID).Msg("watching for notifications")

		select {
		case <-ctx.Done():
			app.Socket.Disconnect()
			return nil
		case reason := <-disconnects:
			if !rc.ReconnectEnabled() {
				return fmt.Errorf("connection lost: %s", reason)
			}
			attempt++
			if attempt > rc.MaxAttempts {
				return fmt.Errorf("connection lost after %d reconnect attempts: %s", rc.MaxAttempts, reason)
			}
			delay := backoffDelay(attempt, rc.BaseDelay, rc.MaxDelay)
			log.Warn().Str("reason", reason).Int("attempt", attempt).Dur("retry_in", delay).Msg("connection dropped, reconnecting")

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil
			}
		}
	}
}

// backoffDelay computes the delay before reconnect attempt n (1-based):
// base doubled per attempt, capped at max, plus up to 25% jitter so a
// fleet of clients does not reconnect in lockstep.
func backoffDelay(attempt int, base, max time.Duration) time.Duration {
	if base <= 0 {
		base = time.Second
	}
	if max <= 0 {
		max = 2 * time.Minute
	}

	delay := base
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= max {
			delay = max
			break
		}
	}
	if delay > max {
		delay = max
	}

	jitter := time.Duration(rand.N(int64(delay)/4 + 1))
	return delay + jitter
}
