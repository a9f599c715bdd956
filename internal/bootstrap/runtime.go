package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/bnema/tabshell/internal/app/api"
	"github.com/bnema/tabshell/internal/app/tabs"
	"github.com/bnema/tabshell/internal/application/port"
	"github.com/bnema/tabshell/internal/application/usecase"
	"github.com/bnema/tabshell/internal/domain/entity"
	"github.com/bnema/tabshell/internal/infrastructure/cache"
	"github.com/bnema/tabshell/internal/infrastructure/chrome"
	"github.com/bnema/tabshell/internal/infrastructure/clipboard"
	"github.com/bnema/tabshell/internal/infrastructure/config"
	"github.com/bnema/tabshell/internal/infrastructure/drive"
	"github.com/bnema/tabshell/internal/infrastructure/persistence/sqlite"
	"github.com/bnema/tabshell/internal/infrastructure/shellwin"
	"github.com/bnema/tabshell/internal/infrastructure/snapshot"
	"github.com/bnema/tabshell/internal/logging"
	"github.com/bnema/tabshell/internal/ui/mainloop"
)

const (
	defaultZoom        = 1.0
	resolveCacheSize   = 256
	resolveCacheTTL    = 10 * time.Minute
	loopStopTimeout    = 2 * time.Second
	restoreLoadTimeout = 10 * time.Second
)

// Options selects what the runtime opens at startup.
type Options struct {
	Config *config.Config
	// InitialURL opens in the first window after any restored session.
	InitialURL string
	// NoRestore ignores the saved session.
	NoRestore bool
}

// Runtime is a running tabshell instance: the control loop, the tab manager
// and every adapter it drives.
type Runtime struct {
	Config  *config.Config
	Loop    *mainloop.Dispatcher
	Manager *tabs.Manager
	Windows *shellwin.System
	Chrome  *shellwin.Chrome
	Dialogs *shellwin.Dialog
	Menus   *shellwin.Menu
	API     *api.Server

	ctx      context.Context
	cancel   context.CancelFunc
	loopDone chan struct{}

	db       *sqlite.LazyDB
	drives   *drive.Service
	host     *chrome.Host
	history  *usecase.RecordHistoryUseCase
	snapshot *snapshot.Service

	closeOnce sync.Once
	closeErr  error
}

// Start opens the database, launches the content host and restores the last
// session. Close releases everything Start acquired.
func Start(ctx context.Context, opts Options) (_ *Runtime, err error) {
	if opts.Config == nil {
		return nil, errors.New("bootstrap: config is required")
	}
	cfg := opts.Config
	timer := NewStartupTimer()
	ctx = logging.WithComponent(ctx, "runtime")
	log := logging.FromContext(ctx)

	runCtx, cancel := context.WithCancel(ctx)
	r := &Runtime{
		Config:   cfg,
		ctx:      runCtx,
		cancel:   cancel,
		loopDone: make(chan struct{}),
	}
	defer func() {
		if err != nil {
			_ = r.Close(context.Background())
		}
	}()

	r.Loop = mainloop.NewDispatcher(runCtx)
	go func() {
		defer close(r.loopDone)
		_ = r.Loop.Run(runCtx)
	}()
	timer.Mark("loop")

	dbPath, err := databasePath(cfg)
	if err != nil {
		return nil, err
	}
	r.db = sqlite.NewLazyDB(dbPath)
	repos, err := r.db.Repositories(runCtx)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	timer.Mark("database")

	r.drives = drive.New(cfg.Drives,
		drive.WithResolveCache(cache.NewLRU[string, string](resolveCacheSize, cache.WithTTL(resolveCacheTTL))))
	if err := r.drives.Start(runCtx); err != nil {
		return nil, fmt.Errorf("start drives: %w", err)
	}
	timer.Mark("drives")

	var hostOpts []chrome.HostOption
	if cfg.API.Listen != "" {
		hostOpts = append(hostOpts, chrome.WithDriveGateway(DriveGateway(cfg.API.Listen)))
	}
	r.host, err = chrome.NewHost(runCtx, r.Loop, cfg.Chrome, hostOpts...)
	if err != nil {
		return nil, fmt.Errorf("start content host: %w", err)
	}
	timer.Mark("content_host")

	r.Windows = shellwin.NewSystem(runCtx, cfg.Windows)
	r.Chrome = shellwin.NewChrome()
	r.Dialogs = shellwin.NewDialog(r.Loop)
	r.Menus = shellwin.NewMenu(r.Loop)
	windows := &windowSystem{System: r.Windows}
	windows.onClosed(r.Chrome.Forget)
	windows.onClosed(r.Dialogs.Forget)

	r.history = usecase.NewRecordHistoryUseCase(runCtx, repos.History, cfg.Tabs.HistoryExcludedURLs...)

	err = mainloop.CallErr(runCtx, r.Loop, func() error {
		var mErr error
		r.Manager, mErr = tabs.NewManager(runCtx, tabs.ManagerConfig{
			Loop:              r.Loop,
			Host:              r.host,
			Windows:           windows,
			Prompts:           shellwin.NewOverlay(),
			PermissionPrompts: shellwin.NewOverlay(),
			Modals:            shellwin.NewOverlay(),
			Chrome:            r.Chrome,
			Dialog:            r.Dialogs,
			Menu:              r.Menus,
			Clipboard:         clipboard.New(),
			Drives:            r.drives,
			Settings:          repos.Settings,
			Bookmarks:         repos.Bookmarks,
			FolderSync:        repos.FolderSyncs,
			Permissions:       repos.Permissions,
			ZoomUC:            usecase.NewManageZoomUseCase(repos.Zoom, defaultZoom),
			HistoryUC:         r.history,
			ImagesUC:          usecase.NewSavePageImagesUseCase(repos.Sitedata),
			Tabs:              TabsConfig(cfg.Tabs),
		})
		return mErr
	})
	if err != nil {
		return nil, fmt.Errorf("create tab manager: %w", err)
	}
	timer.Mark("manager")

	r.snapshot = snapshot.NewService(r.Loop, r.Manager, repos.Settings, 0)
	if err := mainloop.CallErr(runCtx, r.Loop, func() error {
		r.snapshot.Start(runCtx)
		return nil
	}); err != nil {
		return nil, err
	}

	var sessions [][]string
	if !opts.NoRestore {
		sessions, err = r.snapshot.Restore(runCtx)
		if err != nil {
			log.Warn().Err(err).Msg("failed to read saved session")
			sessions = nil
		}
	}
	if err := r.openWindows(runCtx, sessions, opts.InitialURL); err != nil {
		return nil, err
	}
	timer.Mark("session")

	if cfg.API.Listen != "" {
		r.API, err = api.NewServer(runCtx, api.Options{
			Manager: r.Manager,
			Windows: windows,
			Drives:  r.drives,
			Chrome:  r.Chrome,
			Dialogs: r.Dialogs,
			Menus:   r.Menus,
			Resizer: r.Windows,
		})
		if err != nil {
			return nil, err
		}
	}

	timer.Log(ctx, zerolog.DebugLevel)
	log.Info().
		Int("windows", len(sessions)).
		Str("listen", cfg.API.Listen).
		Dur("startup", timer.Total()).
		Msg("tabshell started")
	return r, nil
}

// openWindows recreates the saved windows, or a single window when there is
// no session, then lets the snapshot service start saving.
func (r *Runtime) openWindows(ctx context.Context, sessions [][]string, initialURL string) error {
	if len(sessions) == 0 {
		sessions = [][]string{nil}
	}
	var pins *tabs.Completion
	err := mainloop.CallErr(ctx, r.Loop, func() error {
		for i, urls := range sessions {
			win, err := r.Windows.CreateShellWindow(ctx)
			if err != nil {
				return fmt.Errorf("open window: %w", err)
			}
			if i == 0 {
				pins = r.Manager.LoadPins(ctx, win)
			}
			if err := r.Manager.InitializeFromSnapshot(ctx, win, urls); err != nil {
				logging.FromContext(ctx).Warn().Err(err).Msg("failed to restore window")
			}
			if (i == 0 && initialURL != "") || len(r.Manager.Tabs(win)) == 0 {
				if _, err := r.Manager.Create(ctx, win, initialURL, tabs.CreateOptions{SetActive: true}); err != nil {
					return err
				}
				continue
			}
			if first, err := r.Manager.TabAt(win, 0); err == nil {
				_ = r.Manager.SetActive(win, first)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	waitCtx, cancel := context.WithTimeout(ctx, restoreLoadTimeout)
	defer cancel()
	if err := pins.Wait(waitCtx, r.Loop); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		logging.FromContext(ctx).Warn().Err(err).Msg("pinned tabs not restored")
	}
	return mainloop.CallErr(ctx, r.Loop, func() error {
		r.snapshot.SetReady()
		return nil
	})
}

// ApplyConfig pushes reloadable settings into the running manager.
func (r *Runtime) ApplyConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	r.history.SetExcluded(cfg.Tabs.HistoryExcludedURLs...)
	r.Loop.Post(func() {
		r.Manager.SetNewTabURL(cfg.Tabs.NewTabURL)
		r.Manager.SetNewTabsInForeground(cfg.Tabs.NewTabsInForeground)
		r.Manager.SetAutoRedirectToDrive(cfg.Tabs.AutoRedirectToDrive)
	})
	logging.FromContext(r.ctx).Info().Msg("configuration reloaded")
}

// Serve runs the control channel until ctx is canceled. Without a listen
// address it only waits.
func (r *Runtime) Serve(ctx context.Context) error {
	if r.API == nil {
		<-ctx.Done()
		return nil
	}
	return r.API.ListenAndServe(ctx, r.Config.API.Listen)
}

// Close saves the session and releases every resource. Safe to call twice.
func (r *Runtime) Close(ctx context.Context) error {
	r.closeOnce.Do(func() {
		var errs []error
		if r.snapshot != nil {
			if err := r.snapshot.Stop(ctx); err != nil {
				errs = append(errs, fmt.Errorf("save session: %w", err))
			}
		}
		if r.host != nil {
			r.host.Close()
		}
		if r.history != nil {
			r.history.Close()
		}
		if r.drives != nil {
			if err := r.drives.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close drives: %w", err))
			}
		}

		r.cancel()
		select {
		case <-r.loopDone:
		case <-time.After(loopStopTimeout):
			logging.FromContext(ctx).Warn().Msg("control loop did not stop in time")
		}
		r.Loop.Wait()

		if r.db != nil {
			if err := r.db.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close database: %w", err))
			}
		}
		r.closeErr = errors.Join(errs...)
	})
	return r.closeErr
}

// TabsConfig converts the file settings into manager tunables.
func TabsConfig(c config.TabsConfig) tabs.Config {
	return tabs.Config{
		NewTabURL:           c.NewTabURL,
		NewTabsInForeground: c.NewTabsInForeground,
		AutoRedirectToDrive: c.AutoRedirectToDrive,
		SearchURL:           c.SearchURL,
		PreloadDelay:        millis(c.PreloadDelayMilliseconds),
		UnloadTimeout:       millis(c.UnloadTimeoutMilliseconds),
		ScreenshotDelay:     millis(c.ScreenshotDelayMilliseconds),
		LiveReloadWindow:    millis(c.LiveReloadWindowMilliseconds),
		MediaSettleDelay:    millis(c.MediaSettleDelayMilliseconds),
	}
}

// DriveGateway is the base URL the content host loads drive pages from.
func DriveGateway(listen string) string {
	return "http://" + listen + "/drive/"
}

func millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

func databasePath(cfg *config.Config) (string, error) {
	if cfg.Database.Path != "" {
		return cfg.Database.Path, nil
	}
	p, err := config.GetDatabaseFile()
	if err != nil {
		return "", fmt.Errorf("resolve database path: %w", err)
	}
	return p, nil
}

// windowSystem chains extra window-closed hooks in front of the manager's
// callbacks.
type windowSystem struct {
	*shellwin.System
	closed []func(entity.WindowID)
}

func (w *windowSystem) onClosed(fn func(entity.WindowID)) {
	w.closed = append(w.closed, fn)
}

func (w *windowSystem) SetCallbacks(cb *port.WindowSystemCallbacks) {
	chained := port.WindowSystemCallbacks{}
	if cb != nil {
		chained = *cb
	}
	next := chained.OnWindowClosed
	chained.OnWindowClosed = func(id entity.WindowID) {
		for _, fn := range w.closed {
			fn(id)
		}
		if next != nil {
			next(id)
		}
	}
	w.System.SetCallbacks(&chained)
}
