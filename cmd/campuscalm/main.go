package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nhle/campuscalm-widgets/internal/app"
	"github.com/nhle/campuscalm-widgets/internal/logging"
	"github.com/nhle/campuscalm-widgets/internal/model"
	"github.com/nhle/campuscalm-widgets/internal/notify"
	appsync "github.com/nhle/campuscalm-widgets/internal/sync"
)

// sessionEnv names the session when --session is not given.
const sessionEnv = "CAMPUSCALM_SESSION"

// cli holds the global flags and what PersistentPreRunE builds from them.
type cli struct {
	configPath string
	sessionID  string
	locale     string
	verbose    bool

	cfg    *model.AppConfig
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:   "campuscalm",
		Short: "CampusCalm support chat and notification bell",
		Long: `campuscalm talks to a CampusCalm backend from the terminal.

Run without arguments to open the chat panel with the notification bell.
When the backend cannot answer, the chat replies from local rules.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInteractive(cmd.Context())
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default "+model.DefaultConfigPath()+")")
	flags.StringVar(&c.sessionID, "session", "", "session id (env "+sessionEnv+")")
	flags.StringVar(&c.locale, "locale", "", "interface language, e.g. pt-BR or en")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(
		newChatCmd(c),
		newBellCmd(c),
		newLoginCmd(c),
		newSessionCmd(c),
	)
	return rootCmd
}

// setup loads the config and builds the logger. The interactive UI
// always logs to the configured file so output does not tear the screen.
func (c *cli) setup(cmd *cobra.Command) error {
	if c.configPath == "" {
		c.configPath = model.DefaultConfigPath()
	}
	cfg, err := model.LoadConfig(c.configPath)
	if err != nil {
		return err
	}
	if c.locale != "" {
		cfg.Locale = c.locale
	}
	if c.sessionID == "" {
		c.sessionID = os.Getenv(sessionEnv)
	}
	if c.sessionID == "" {
		c.sessionID = app.DefaultSessionID
	}

	opts := logging.Options{Level: cfg.Log.Level, Verbose: c.verbose}
	if cmd.Root() == cmd {
		opts.File = cfg.Log.File
	} else if !c.verbose {
		opts.Level = "warn"
	}
	logger, err := logging.New(opts)
	if err != nil {
		return err
	}

	c.cfg = cfg
	c.logger = logger.With(zap.String("session", c.sessionID))
	return nil
}

// openRuntime mounts both widgets for a one-shot command, rendering the
// bell into snap.
func (c *cli) openRuntime(ctx context.Context, snap *notify.Snapshot) (*app.Runtime, error) {
	if snap == nil {
		snap = &notify.Snapshot{}
	}
	return app.NewRuntime(ctx, c.cfg, app.RuntimeOptions{
		SessionID: c.sessionID,
		Logger:    c.logger,
		Renderer:  snap,
		Navigator: snap,
	})
}

func (c *cli) runInteractive(ctx context.Context) error {
	events := appsync.NewEvents(0)
	rt, err := app.NewRuntime(ctx, c.cfg, app.RuntimeOptions{
		SessionID: c.sessionID,
		Logger:    c.logger,
		Renderer:  events,
		Navigator: events,
		OnSettled: events.ChatSettled,
	})
	if err != nil {
		return err
	}
	defer rt.Close()

	p := tea.NewProgram(app.New(rt, events), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running ui: %w", err)
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
