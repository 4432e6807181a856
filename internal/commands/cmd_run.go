package commands

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/careerhub/pulse/internal/pulse"
	"github.com/careerhub/pulse/internal/tui"
	"github.com/careerhub/pulse/pkg/profiler"
)

type RunCmd struct {
	flags *Flags
	app   *pulse.App
}

// NewRunCmd creates a new run command
func NewRunCmd(flags *Flags, app *pulse.App) *RunCmd {
	return &RunCmd{flags: flags, app: app}
}

// Flags returns the run-specific flags for registration on the root command
func (cmd *RunCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "profiler-port",
			Usage:       "enable pprof HTTP endpoint on specified port (e.g., 6060)",
			Sources:     cli.EnvVars("PULSE_PROFILER_PORT"),
			Destination: &cmd.flags.ProfilerPort,
		},
	}
}

// Run executes the TUI. Exported for use as default command.
func (cmd *RunCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *RunCmd) run(ctx context.Context, _ *cli.Command) error {
	if cmd.flags.ProfilerPort > 0 {
		profServer := profiler.New(cmd.flags.ProfilerPort)
		if err := profServer.Start(ctx); err != nil {
			return fmt.Errorf("failed to start profiler: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := profServer.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("failed to shutdown profiler server")
			}
		}()
		log.Info().
			Str("url", fmt.Sprintf("http://%s/debug/pprof/", profServer.Addr())).
			Msg("profiler endpoint available")
	}

	model := tui.New(ctx, cmd.app)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	_, err := program.Run()

	// Leaving the screen detaches the pipeline; background delivery
	// belongs to the watch command, not an exited TUI.
	cmd.app.Dispatcher.Detach()
	cmd.app.Close()

	if err != nil {
		return fmt.Errorf("run feed view: %w", err)
	}
	return nil
}
