package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"rocketgrip/internal/catalog"
	"rocketgrip/internal/config"
	"rocketgrip/internal/eventbus"
	"rocketgrip/internal/search"
	"rocketgrip/internal/stream"
	"rocketgrip/internal/ui"
)

type options struct {
	configPath string
	endpoint   string
	debounce   time.Duration
	policy     string
	logFile    string
	logLevel   string
}

// NewRootCommand builds the rocketgrip command
func NewRootCommand() *cobra.Command {
	return newRootCommand(&options{})
}

func newRootCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "rocketgrip",
		Short:        "Search the SpaceX rocket catalog from the terminal",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, opts)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Path to config file (default: user config dir)")
	flags.StringVar(&opts.endpoint, "endpoint", "", "Rocket catalog URL")
	flags.DurationVar(&opts.debounce, "debounce", 0, "Quiet interval before a query is sent")
	flags.StringVar(&opts.policy, "policy", "", `What to do with an in-flight fetch when a newer query is sent: "merge" or "cancel"`)
	flags.StringVar(&opts.logFile, "log-file", "", "Log file path")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	return cmd
}

// resolveConfig loads the config file and applies flags the user set
func resolveConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	var svc config.ConfigService
	if opts.configPath != "" {
		svc = config.NewConfigServiceAt(opts.configPath)
	} else {
		svc = config.NewConfigService()
	}

	cfg, created, err := svc.LoadOrCreate()
	switch {
	case created:
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote default config to %s\n", svc.Path())
	case err != nil && cfg != nil:
		// Defaults could not be written; run with them anyway
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not write default config: %v\n", err)
	case err != nil:
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("endpoint") {
		cfg.Endpoint = opts.endpoint
	}
	if flags.Changed("debounce") {
		cfg.Debounce = config.Duration(opts.debounce)
	}
	if flags.Changed("policy") {
		cfg.Policy = opts.policy
	}
	if flags.Changed("log-file") {
		cfg.Log.File = opts.logFile
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = opts.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setupLogger sends logs to a file; the terminal belongs to the UI
func setupLogger(settings config.LogSettings) (*logrus.Logger, io.Closer, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	level, err := logrus.ParseLevel(settings.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if settings.File == "" {
		logger.SetOutput(io.Discard)
		return logger, io.NopCloser(nil), nil
	}

	f, err := os.OpenFile(settings.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger.SetOutput(f)
	return logger, f, nil
}

func run(parent context.Context, cfg *config.Config) error {
	logger, closer, err := setupLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer closer.Close()

	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	policy, err := search.ParsePolicy(cfg.Policy)
	if err != nil {
		return err
	}

	bus := eventbus.New(logger)
	defer bus.Close()

	httpClient := &http.Client{Timeout: time.Duration(cfg.HTTPTimeout)}
	client := catalog.NewClient(cfg.Endpoint, httpClient, logger)

	source := stream.NewSubject("")
	defer source.Close()

	pipeline := search.New(source, client, search.Options{
		Quiet:  time.Duration(cfg.Debounce),
		Policy: policy,
		Bus:    bus,
		Log:    logger,
	})

	model := ui.NewModel(ctx, cfg, source, pipeline, logger)
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	model.SetProgram(p)

	// Forward pipeline lifecycle events to the UI
	forward := func(e eventbus.DomainEvent) {
		p.Send(ui.EventMsg{Event: e})
	}
	for _, et := range []eventbus.EventType{
		eventbus.EventQueryDispatched,
		eventbus.EventFetchStarted,
		eventbus.EventFetchCompleted,
		eventbus.EventFetchFailed,
		eventbus.EventFetchSuperseded,
		eventbus.EventQuerySuppressed,
	} {
		bus.Subscribe(et, forward)
	}

	// The e2e harness waits for this before sending keys
	if os.Getenv("ROCKETGRIP_E2E_TEST") != "" {
		fmt.Println("__READY__")
	}

	logger.WithFields(logrus.Fields{
		"endpoint": cfg.Endpoint,
		"debounce": time.Duration(cfg.Debounce),
		"policy":   policy,
	}).Info("starting UI")

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		logger.WithError(err).Error("error running program")
		return fmt.Errorf("error running program: %w", err)
	}
	logger.Info("UI exited normally")
	return nil
}
