package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/bnema/tabshell/internal/bootstrap"
	"github.com/bnema/tabshell/internal/infrastructure/config"
	"github.com/bnema/tabshell/internal/logging"
)

const (
	shutdownTimeout = 10 * time.Second
	logMaxSizeMB    = 10
	logMaxBackups   = 5
)

var runNoRestore bool

var runCmd = &cobra.Command{
	Use:   "run [url]",
	Short: "Start the tabshell daemon",
	Long: `Start headless Chrome, restore the last session and serve the
control channel until interrupted.

If a URL is provided it opens in a new active tab of the first window.

Examples:
  tabshell run                    # Restore the last session
  tabshell run example.com        # Restore, then open example.com
  tabshell run --no-restore       # Start with a single new tab`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDaemon,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVar(&runNoRestore, "no-restore", false, "do not restore the previous session")
}

func runDaemon(_ *cobra.Command, args []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	if a.LoadErr != nil {
		return fmt.Errorf("load config: %w", a.LoadErr)
	}
	if err := config.EnsureDirectories(); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}

	baseCtx, closeLog, err := daemonContext(a.Ctx(), a.Config.Logging)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(baseCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	log := logging.FromContext(ctx)

	opts := bootstrap.Options{Config: a.Config, NoRestore: runNoRestore}
	if len(args) == 1 {
		opts.InitialURL = args[0]
	}

	rt, err := bootstrap.Start(ctx, opts)
	if err != nil {
		return err
	}

	if a.Configs != nil {
		if err := a.Configs.Watch(); err != nil {
			log.Warn().Err(err).Msg("config watch disabled")
		} else {
			a.Configs.OnConfigChange(rt.ApplyConfig)
		}
	}

	serveErr := rt.Serve(ctx)
	if serveErr != nil && !errors.Is(serveErr, context.Canceled) {
		log.Error().Err(serveErr).Msg("control channel stopped")
	}

	log.Info().Msg("shutting down")
	closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := rt.Close(closeCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if serveErr != nil && !errors.Is(serveErr, context.Canceled) {
		return serveErr
	}
	return nil
}

// daemonContext attaches the daemon logger, adding the rotating log file
// when enabled.
func daemonContext(ctx context.Context, cfg config.LoggingConfig) (context.Context, func(), error) {
	if !cfg.EnableFileLog {
		return ctx, func() {}, nil
	}
	dir := cfg.LogDir
	if dir == "" {
		var err error
		if dir, err = config.GetLogDir(); err != nil {
			return nil, nil, fmt.Errorf("resolve log dir: %w", err)
		}
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.ParseLevel(cfg.Level)
	if cfg.Format == "json" {
		logCfg.Format = "json"
	}
	logger, cleanup, err := logging.NewWithFile(logCfg, logging.FileConfig{
		Enabled:    true,
		Dir:        dir,
		MaxSizeMB:  logMaxSizeMB,
		MaxBackups: logMaxBackups,
		MaxAgeDays: cfg.MaxAge,
		Compress:   true,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger.Debug().Str("dir", dir).Msg("file logging enabled")
	return logging.WithContext(ctx, logger), cleanup, nil
}
