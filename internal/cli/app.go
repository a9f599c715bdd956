// Package cli provides the command-line client for a running tabshell.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/bnema/tabshell/internal/cli/styles"
	"github.com/bnema/tabshell/internal/domain/build"
	"github.com/bnema/tabshell/internal/infrastructure/config"
	"github.com/bnema/tabshell/internal/logging"
)

// App holds CLI dependencies.
type App struct {
	Config    *config.Config
	Configs   *config.Manager
	Theme     *styles.Theme
	BuildInfo build.Info

	// LoadErr is set when the config file could not be read and
	// defaults are in use.
	LoadErr error

	client *Client
	addr   string
	ctx    context.Context
}

// NewApp loads the configuration and prepares a client for addr, or for
// the configured control address when addr is empty.
func NewApp(addr string) (*App, error) {
	cfg, mgr, loadErr := loadConfig()

	logLevel := cfg.Logging.Level
	if envLevel := os.Getenv("TABSHELL_LOG_LEVEL"); envLevel != "" {
		logLevel = envLevel
	}
	logger := logging.NewFromConfigValues(logLevel, cfg.Logging.Format)
	ctx := logging.WithContext(context.Background(), logger)
	if loadErr != nil {
		logger.Warn().Err(loadErr).Msg("using default configuration")
	}

	if addr == "" {
		addr = cfg.API.Listen
	}

	a := &App{
		Config:  cfg,
		Configs: mgr,
		Theme:   styles.NewTheme(),
		LoadErr: loadErr,
		addr:    addr,
		ctx:     ctx,
	}
	if addr != "" {
		client, err := NewClient(addr)
		if err != nil {
			return nil, err
		}
		a.client = client
		logger.Debug().Str("addr", client.Address()).Msg("control client ready")
	}
	return a, nil
}

// Client returns the control channel client, or ErrNotRunning when no
// control address is configured.
func (a *App) Client() (*Client, error) {
	if a.client == nil {
		return nil, fmt.Errorf("%w: api.listen is empty", ErrNotRunning)
	}
	return a.client, nil
}

// Addr returns the control address the client talks to.
func (a *App) Addr() string {
	return a.addr
}

// Ctx returns the application context with logger.
func (a *App) Ctx() context.Context {
	return a.ctx
}

// Close releases all resources.
func (a *App) Close() error {
	return nil
}

// loadConfig loads configuration from standard locations, falling back to
// defaults when the file is missing or invalid.
func loadConfig() (*config.Config, *config.Manager, error) {
	mgr, err := config.NewManager()
	if err != nil {
		return config.DefaultConfig(), nil, err
	}
	if err := mgr.Load(); err != nil {
		return config.DefaultConfig(), mgr, err
	}
	cfg := mgr.Get()
	if cfg == nil {
		return config.DefaultConfig(), mgr, errors.New("config manager returned no config")
	}
	return cfg, mgr, nil
}
