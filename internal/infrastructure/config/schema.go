// Package config loads the tabshell configuration with viper and keeps it
// current while the file changes on disk.
package config

// Config represents the complete configuration for tabshell.
type Config struct {
	Tabs     TabsConfig     `mapstructure:"tabs" toml:"tabs" json:"tabs"`
	Database DatabaseConfig `mapstructure:"database" toml:"database" json:"database"`
	Logging  LoggingConfig  `mapstructure:"logging" toml:"logging" json:"logging"`
	Chrome   ChromeConfig   `mapstructure:"chrome" toml:"chrome" json:"chrome"`
	API      APIConfig      `mapstructure:"api" toml:"api" json:"api"`
	Windows  WindowsConfig  `mapstructure:"windows" toml:"windows" json:"windows"`
	Drives   []DriveConfig  `mapstructure:"drives" toml:"drives" json:"drives,omitempty"`
}

// TabsConfig controls tab creation, preloading and page lifecycle timing.
type TabsConfig struct {
	// NewTabURL is opened by new tabs and kept warm in a preloaded tab.
	NewTabURL string `mapstructure:"new_tab_url" toml:"new_tab_url" json:"new_tab_url"`
	// NewTabsInForeground activates tabs opened by pages and menus.
	NewTabsInForeground bool `mapstructure:"new_tabs_in_foreground" toml:"new_tabs_in_foreground" json:"new_tabs_in_foreground"`
	// AutoRedirectToDrive sends https pages to their drive alternative when one exists.
	AutoRedirectToDrive bool `mapstructure:"auto_redirect_to_drive" toml:"auto_redirect_to_drive" json:"auto_redirect_to_drive"`
	// SearchURL is the search template (must contain %s).
	SearchURL string `mapstructure:"search_url" toml:"search_url" json:"search_url"`
	// HistoryExcludedURLs are never recorded in history.
	HistoryExcludedURLs []string `mapstructure:"history_excluded_urls" toml:"history_excluded_urls" json:"history_excluded_urls,omitempty"`

	PreloadDelayMilliseconds     int `mapstructure:"preload_delay_ms" toml:"preload_delay_ms" json:"preload_delay_ms"`
	UnloadTimeoutMilliseconds    int `mapstructure:"unload_timeout_ms" toml:"unload_timeout_ms" json:"unload_timeout_ms"`
	ScreenshotDelayMilliseconds  int `mapstructure:"screenshot_delay_ms" toml:"screenshot_delay_ms" json:"screenshot_delay_ms"`
	LiveReloadWindowMilliseconds int `mapstructure:"live_reload_window_ms" toml:"live_reload_window_ms" json:"live_reload_window_ms"`
	MediaSettleDelayMilliseconds int `mapstructure:"media_settle_delay_ms" toml:"media_settle_delay_ms" json:"media_settle_delay_ms"`
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	Path string `mapstructure:"path" toml:"path" json:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level" toml:"level" json:"level" jsonschema:"enum=trace,enum=debug,enum=info,enum=warn,enum=error"`
	Format string `mapstructure:"format" toml:"format" json:"format" jsonschema:"enum=console,enum=json"`
	// MaxAge is how many days rotated log files are kept.
	MaxAge int `mapstructure:"max_age" toml:"max_age" json:"max_age" jsonschema:"minimum=0"`

	// File output configuration; LogDir defaults to the state directory.
	LogDir        string `mapstructure:"log_dir" toml:"log_dir" json:"log_dir,omitempty"`
	EnableFileLog bool   `mapstructure:"enable_file_log" toml:"enable_file_log" json:"enable_file_log"`
}

// ChromeConfig configures the browser process hosting page content.
type ChromeConfig struct {
	// ExecPath overrides browser discovery.
	ExecPath string   `mapstructure:"exec_path" toml:"exec_path" json:"exec_path,omitempty"`
	Headless bool     `mapstructure:"headless" toml:"headless" json:"headless"`
	Flags    []string `mapstructure:"flags" toml:"flags" json:"flags,omitempty"`
}

// APIConfig configures the local control channel.
type APIConfig struct {
	// Listen is a host:port; empty disables the control channel.
	Listen string `mapstructure:"listen" toml:"listen" json:"listen"`
}

// WindowsConfig sets the size of new shell windows.
type WindowsConfig struct {
	Width  int `mapstructure:"width" toml:"width" json:"width"`
	Height int `mapstructure:"height" toml:"height" json:"height"`
}

// DriveConfig publishes a local folder as a drive reachable at hyper://<name>/.
type DriveConfig struct {
	Name        string `mapstructure:"name" toml:"name" json:"name" jsonschema:"required"`
	Path        string `mapstructure:"path" toml:"path" json:"path" jsonschema:"required"`
	Title       string `mapstructure:"title" toml:"title" json:"title,omitempty"`
	Description string `mapstructure:"description" toml:"description" json:"description,omitempty"`
	// Writable is false when the folder is not writable by the current user.
	Writable    bool   `mapstructure:"writable" toml:"writable" json:"writable"`
	System      bool   `mapstructure:"system" toml:"system" json:"system,omitempty"`
	Contact     bool   `mapstructure:"contact" toml:"contact" json:"contact,omitempty"`
	Profile     bool   `mapstructure:"profile" toml:"profile" json:"profile,omitempty"`
	PaymentLink string `mapstructure:"payment_link" toml:"payment_link" json:"payment_link,omitempty"`
}
