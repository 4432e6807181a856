package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/careerhub/pulse/internal/alert"
	"github.com/careerhub/pulse/internal/commands"
	"github.com/careerhub/pulse/internal/core/config"
	"github.com/careerhub/pulse/internal/core/eventbus"
	"github.com/careerhub/pulse/internal/core/feed"
	"github.com/careerhub/pulse/internal/core/gate"
	"github.com/careerhub/pulse/internal/core/logging"
	"github.com/careerhub/pulse/internal/core/socket"
	"github.com/careerhub/pulse/internal/core/styles"
	"github.com/careerhub/pulse/internal/data/db"
	"github.com/careerhub/pulse/internal/data/stores"
	"github.com/careerhub/pulse/internal/marketplace"
	"github.com/careerhub/pulse/internal/pulse"
	"github.com/careerhub/pulse/internal/store/jsonfile"
	"github.com/careerhub/pulse/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	// When installed via `go install module@version`, ldflags aren't set
	// so version remains "dev". Fall back to runtime/debug.BuildInfo which
	// Go populates automatically with the module version and VCS metadata.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx := context.Background()

	var (
		logCloser func()
		pulseApp  = &pulse.App{}
		database  *db.DB
		busCancel context.CancelFunc
	)

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "pulse",
		Usage:     "Live job marketplace notifications on your desktop",
		UsageText: "pulse [global options] command [command options]",
		Description: `Pulse connects to the CareerHub notification service and mirrors your
account's notification feed into the terminal, with native desktop
alerts for broadcasts that arrive while you work.

Run 'pulse' with no arguments to open the interactive feed view.
Run 'pulse watch' to deliver alerts in the background without a UI.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("PULSE_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/pulse.log)",
				Sources:     cli.EnvVars("PULSE_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("PULSE_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("PULSE_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			// Always log to a file; the TUI owns stdout and stderr.
			logFile := flags.LogFile
			if logFile == "" {
				logFile = filepath.Join(flags.DataDir, "pulse.log")
			}

			logger, closer, err := logutils.New(flags.LogLevel, logFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			if err := cfg.Validate(); err != nil {
				return ctx, fmt.Errorf("validate config: %w", err)
			}
			flags.Config = cfg

			// Apply configured theme (validation ensures name is valid)
			palette, _ := styles.GetPalette(cfg.TUI.Theme)
			styles.SetTheme(palette)

			// Open database connection
			dbOpts := db.OpenOptions{
				MaxOpenConns: cfg.Database.MaxOpenConns,
				MaxIdleConns: cfg.Database.MaxIdleConns,
				BusyTimeout:  cfg.Database.BusyTimeout,
			}
			database, err = db.Open(cfg.DataDir, dbOpts)
			if err != nil {
				return ctx, fmt.Errorf("open database: %w", err)
			}

			// Event bus drives everything; run its loop for the process
			// lifetime.
			bus := eventbus.New(64)
			eventbus.RegisterDebugLogger(bus, logging.Component("eventbus"))
			busCtx, cancel := context.WithCancel(context.Background())
			busCancel = cancel
			go bus.Start(busCtx)

			feedStore := feed.NewStore(
				feed.WithPersister(jsonfile.NewSnapshotStore(filepath.Join(cfg.DataDir, "feed.json"))),
				feed.WithLogger(logging.Component("feed")),
			)

			interactionGate := gate.New()

			bridge := alert.New(
				alert.DesktopNotifier{Icon: cfg.Alerts.Icon},
				jsonfile.NewPermissionStore(filepath.Join(cfg.DataDir, "permission.json")),
				interactionGate,
				logging.Component("alert"),
				alert.WithSound(cfg.Alerts.SoundEnabled()),
			)

			sock := socket.NewManager(cfg.Server.SocketURL, bus, logging.Component("socket"))
			market := marketplace.NewClient(cfg.Server.APIURL, logging.Component("marketplace"))

			// Populate the pre-allocated App struct (commands already hold a pointer to it)
			*pulseApp = *pulse.NewApp(
				cfg,
				bus,
				feedStore,
				stores.NewArchiveStore(database),
				sock,
				interactionGate,
				bridge,
				market,
				database,
			)

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			// Stop the bus loop
			if busCancel != nil {
				busCancel()
			}

			// Close database connection
			if database != nil {
				if err := database.Close(); err != nil {
					log.Error().Err(err).Msg("failed to close database")
					return err
				}
			}

			// Close log file
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	runCmd := commands.NewRunCmd(flags, pulseApp)

	app = commands.NewWatchCmd(flags, pulseApp).Register(app)
	app = commands.NewLsCmd(flags, pulseApp).Register(app)
	app = commands.NewFeedCmd(flags, pulseApp).Register(app)
	app = commands.NewStatusCmd(flags, pulseApp).Register(app)

	// Register run flags on root command
	app.Flags = append(app.Flags, runCmd.Flags()...)

	// Set the feed view as default action when no subcommand is provided
	app.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'pulse --help' for usage", c.Args().First())
		}
		return runCmd.Run(ctx, c)
	}

	exitCode := 0
	runErr := app.Run(ctx, os.Args)
	if runErr != nil {
		fmt.Println()
		fmt.Println(runErr.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
