package tabs

import (
	"time"

	"github.com/bnema/tabshell/internal/application/port"
	"github.com/bnema/tabshell/internal/application/usecase"
	"github.com/bnema/tabshell/internal/domain/repository"
	urlutil "github.com/bnema/tabshell/internal/domain/url"
	"github.com/bnema/tabshell/internal/ui/mainloop"
)

const (
	// ShellChromeHeight is the height of the tab strip plus toolbar above
	// the content area, in pixels.
	ShellChromeHeight = 76 + 18

	// HistoryPageURL is the built-in history page; visits to it are not recorded.
	HistoryPageURL = "tabshell://history/"
)

// Config holds the tab manager tunables.
type Config struct {
	// NewTabURL is the default URL of new and preloaded tabs.
	NewTabURL string
	// NewTabsInForeground activates tabs opened by pages or menus.
	NewTabsInForeground bool
	// AutoRedirectToDrive sends https pages to their drive alternative.
	AutoRedirectToDrive bool
	// SearchURL is the search template used by "paste and search".
	SearchURL string

	PreloadDelay     time.Duration
	UnloadTimeout    time.Duration
	ScreenshotDelay  time.Duration
	LiveReloadWindow time.Duration
	MediaSettleDelay time.Duration
}

// DefaultConfig returns the default tunables.
func DefaultConfig() Config {
	return Config{
		NewTabURL:        "about:blank",
		SearchURL:        urlutil.DefaultSearchTemplate,
		PreloadDelay:     time.Second,
		UnloadTimeout:    500 * time.Millisecond,
		ScreenshotDelay:  2 * time.Second,
		LiveReloadWindow: 500 * time.Millisecond,
		MediaSettleDelay: time.Second,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.NewTabURL == "" {
		c.NewTabURL = def.NewTabURL
	}
	if c.SearchURL == "" {
		c.SearchURL = def.SearchURL
	}
	if c.PreloadDelay <= 0 {
		c.PreloadDelay = def.PreloadDelay
	}
	if c.UnloadTimeout <= 0 {
		c.UnloadTimeout = def.UnloadTimeout
	}
	if c.ScreenshotDelay <= 0 {
		c.ScreenshotDelay = def.ScreenshotDelay
	}
	if c.LiveReloadWindow <= 0 {
		c.LiveReloadWindow = def.LiveReloadWindow
	}
	if c.MediaSettleDelay <= 0 {
		c.MediaSettleDelay = def.MediaSettleDelay
	}
	return c
}

// ManagerConfig holds the collaborators of a Manager.
// Loop, Host and Windows are required; the rest may be nil.
type ManagerConfig struct {
	Loop    mainloop.Loop
	Host    port.ContentHost
	Windows port.WindowSystem

	Prompts           port.Prompts
	PermissionPrompts port.Overlay
	Modals            port.Overlay
	Chrome            port.ShellChrome
	Dialog            port.Dialog
	Menu              port.Menu
	Clipboard         port.Clipboard
	Drives            port.DriveService

	Settings    repository.SettingsRepository
	Bookmarks   repository.BookmarkRepository
	FolderSync  repository.FolderSyncRepository
	Permissions repository.PermissionRepository

	ZoomUC    *usecase.ManageZoomUseCase
	HistoryUC *usecase.RecordHistoryUseCase
	ImagesUC  *usecase.SavePageImagesUseCase

	// NewID generates tab and pane IDs.
	NewID port.IDGenerator

	Tabs Config
}
