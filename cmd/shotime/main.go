package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shanehull/shotime/internal/ai"
	"github.com/shanehull/shotime/internal/config"
	"github.com/shanehull/shotime/internal/dashboard"
	"github.com/shanehull/shotime/internal/notify"
	"github.com/shanehull/shotime/internal/types"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
)

var (
	configPath string
	modelName  string
	outputPath string
	activeTab  string
	watch      bool
	verbose    bool

	smtpServer string
	smtpPort   int
	smtpUser   string
	smtpPass   string
	toEmail    string
	fromEmail  string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "shotime",
	Short: "Grounded Shohei Ohtani dashboard: season stats, latest news and video highlights",
	Long: `shotime asks Gemini, with Google Search grounding, for Shohei Ohtani's season
stats, the latest news and recent video highlights. The three fetches run one
after another and the HTML dashboard is rewritten as each panel arrives.

With --watch the dashboard stays open; press Enter to refresh. Presses while a
refresh is in progress are ignored.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: run,
}

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&configPath, "config", "c", "", "Optional YAML config file")
	f.StringVarP(&modelName, "model", "m", config.DefaultModel, "Gemini model name")
	f.StringVarP(&outputPath, "out", "o", config.DefaultOutputPath, "Path of the generated HTML dashboard")
	f.StringVarP(&activeTab, "tab", "t", config.DefaultActiveTab, "News tab shown first: cn or en")
	f.BoolVarP(&watch, "watch", "w", false, "Keep running; press Enter to refresh")
	f.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	f.StringVar(&smtpServer, "smtp-server", config.DefaultSMTPServer, "SMTP server address")
	f.IntVar(&smtpPort, "smtp-port", config.DefaultSMTPPort, "SMTP server port")
	f.StringVar(&smtpUser, "smtp-user", "", "SMTP username (email address)")
	f.StringVar(&smtpPass, "smtp-pass", "", "SMTP password or App Password")
	f.StringVar(&toEmail, "to-email", "", "Recipient email address")
	f.StringVar(&fromEmail, "from-email", "", "Sender email address (default: smtp-user)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// applyFlags overrides cfg with every flag set explicitly on the command line.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("model") {
		cfg.Model = modelName
	}
	if f.Changed("out") {
		cfg.OutputPath = outputPath
	}
	if f.Changed("tab") {
		cfg.ActiveTab = activeTab
	}
	if f.Changed("smtp-server") {
		cfg.Email.SMTPServer = smtpServer
	}
	if f.Changed("smtp-port") {
		cfg.Email.SMTPPort = smtpPort
	}
	if f.Changed("smtp-user") {
		cfg.Email.SMTPUser = smtpUser
	}
	if f.Changed("smtp-pass") {
		cfg.Email.SMTPPass = smtpPass
	}
	if f.Changed("to-email") {
		cfg.Email.ToEmail = toEmail
	}
	if f.Changed("from-email") {
		cfg.Email.FromEmail = fromEmail
	}
	cfg.Finalize()
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	applyFlags(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := ai.NewClient(ctx, cfg, logger)
	if err != nil {
		return err
	}

	app := &app{
		cfg:      cfg,
		tab:      types.Lang(cfg.ActiveTab),
		watch:    watch,
		renderer: notify.NewHTMLRenderer(),
		sender:   notify.NewEmailSender(cfg.Email, logger),
		out:      cmd.OutOrStdout(),
	}
	app.dash = dashboard.New(client, logger, dashboard.WithUpdateHook(app.publish))

	logger.Info("starting shotime",
		zap.String("model", client.Model()),
		zap.String("output", cfg.OutputPath),
		zap.Bool("email", cfg.Email.Enabled),
		zap.Bool("watch", watch))

	if !watch {
		return app.cycle(ctx, app.dash.Refresh)
	}
	return app.watchLoop(ctx, cmd.InOrStdin())
}

type app struct {
	cfg      config.Config
	tab      types.Lang
	watch    bool
	dash     *dashboard.Dashboard
	renderer *notify.HTMLRenderer
	sender   *notify.EmailSender
	out      io.Writer
}

// publish rewrites the HTML dashboard from snap. It runs after every panel settles.
func (a *app) publish(snap dashboard.Snapshot) {
	if _, err := a.render(snap); err != nil {
		logger.Error("failed to publish dashboard", zap.Error(err))
	}
}

func (a *app) render(snap dashboard.Snapshot) (*notify.RenderedMessage, error) {
	v := notify.BuildView(snap, a.tab, time.Now())
	v.AutoReload = a.watch && v.Refreshing

	msg, err := a.renderer.Render(v)
	if err != nil {
		return nil, err
	}
	if err := notify.WriteFile(a.cfg.OutputPath, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// cycle runs one refresh and reports the final state of the dashboard.
func (a *app) cycle(ctx context.Context, refresh func(context.Context) error) error {
	err := refresh(ctx)
	switch {
	case errors.Is(err, dashboard.ErrBusy):
		logger.Info("refresh ignored while panels are loading")
		return nil
	case errors.Is(err, dashboard.ErrSuperseded):
		return nil
	case err != nil:
		logger.Error("fetch cycle failed", zap.Error(err))
	}

	msg, rerr := a.render(a.dash.Snapshot())
	if rerr != nil {
		return rerr
	}
	notify.Report(a.out, msg, a.cfg.OutputPath)

	if err == nil {
		if serr := a.sender.Send(msg); serr != nil {
			logger.Warn("dashboard email not delivered", zap.Error(serr))
		}
	}
	return err
}

func (a *app) watchLoop(ctx context.Context, in io.Reader) error {
	g, gctx := errgroup.WithContext(ctx)

	// The stdin reader is left out of the group: a blocked Scan cannot be
	// interrupted and must not hold up shutdown.
	triggers := make(chan struct{})
	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case triggers <- struct{}{}:
			case <-gctx.Done():
				return
			}
		}
	}()

	g.Go(func() error {
		a.watchCycle(gctx, a.dash.Refresh)
		return nil
	})

	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-triggers:
				g.Go(func() error {
					a.watchCycle(gctx, a.dash.TryRefresh)
					return nil
				})
			}
		}
	})

	return g.Wait()
}

// watchCycle runs a cycle without ending the watch loop on failure.
func (a *app) watchCycle(ctx context.Context, refresh func(context.Context) error) {
	err := a.cycle(ctx, refresh)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Warn("refresh failed, waiting for next trigger", zap.Error(err))
	}
}
