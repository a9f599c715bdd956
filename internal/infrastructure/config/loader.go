package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// Manager handles configuration loading, watching, and reloading.
type Manager struct {
	config    *Config
	viper     *viper.Viper
	mu        sync.RWMutex
	callbacks []func(*Config)
	watching  bool
}

// NewManager creates a new configuration manager reading from the XDG config directory.
func NewManager() (*Manager, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to determine config directory: %w\nCheck XDG_CONFIG_HOME environment variable or HOME directory", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	// TABSHELL_TABS_NEW_TAB_URL overrides tabs.new_tab_url, and so on.
	v.SetEnvPrefix("TABSHELL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindEnv("logging.level", "TABSHELL_LOG_LEVEL"); err != nil {
		return nil, fmt.Errorf("failed to bind TABSHELL_LOG_LEVEL: %w", err)
	}
	if err := v.BindEnv("logging.format", "TABSHELL_LOG_FORMAT"); err != nil {
		return nil, fmt.Errorf("failed to bind TABSHELL_LOG_FORMAT: %w", err)
	}

	return &Manager{viper: v}, nil
}

// Load loads the configuration from file and environment variables.
// A default config file is written on first run.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to ensure directories: %w", err)
	}

	m.setDefaults()

	if err := m.readConfigFile(); err != nil {
		return err
	}
	return m.reload(false)
}

func (m *Manager) readConfigFile() error {
	err := m.viper.ReadInConfig()
	if err == nil {
		return nil
	}

	var notFound viper.ConfigFileNotFoundError
	if !errors.As(err, &notFound) {
		configFile := m.viper.ConfigFileUsed()
		if configFile == "" {
			configFile, _ = GetConfigFile()
		}
		return fmt.Errorf("failed to read config file at %s: %w\nCheck the file format (must be valid TOML) and permissions", configFile, err)
	}

	if err := m.createDefaultConfig(); err != nil {
		configDir, _ := GetConfigDir()
		return fmt.Errorf("failed to create default config at %s: %w", configDir, err)
	}
	if err := m.viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read newly created config file: %w", err)
	}
	return nil
}

// reload rebuilds the config from viper. Must be called with m.mu held.
func (m *Manager) reload(reread bool) error {
	if reread {
		if err := m.viper.ReadInConfig(); err != nil {
			return err
		}
	}

	config := &Config{}
	if err := m.viper.Unmarshal(config); err != nil {
		return fmt.Errorf(
			"failed to parse config file at %s: %w\nCheck for syntax errors, invalid values, or type mismatches",
			m.viper.ConfigFileUsed(), err)
	}

	if config.Database.Path == "" {
		dbPath, err := GetDatabaseFile()
		if err != nil {
			return fmt.Errorf("failed to get database path: %w", err)
		}
		config.Database.Path = dbPath
	}
	normalizeConfig(config)

	if err := validateConfig(config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	m.config = config
	return nil
}

func normalizeConfig(config *Config) {
	config.Logging.Level = strings.ToLower(strings.TrimSpace(config.Logging.Level))
	config.Logging.Format = strings.ToLower(strings.TrimSpace(config.Logging.Format))
	config.Tabs.NewTabURL = strings.TrimSpace(config.Tabs.NewTabURL)
	if config.Tabs.NewTabURL == "" {
		config.Tabs.NewTabURL = defaultNewTabURL
	}
	for i := range config.Drives {
		config.Drives[i].Name = strings.ToLower(strings.TrimSpace(config.Drives[i].Name))
		if strings.HasPrefix(config.Drives[i].Path, "~/") {
			if home, err := os.UserHomeDir(); err == nil {
				config.Drives[i].Path = filepath.Join(home, config.Drives[i].Path[2:])
			}
		}
	}
}

// Get returns a copy of the current configuration.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	configCopy := *m.config
	return &configCopy
}

// GetConfigFile returns the config file in use.
func (m *Manager) GetConfigFile() string {
	return m.viper.ConfigFileUsed()
}

func (m *Manager) createDefaultConfig() error {
	configFile, err := GetConfigFile()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(configFile), dirPerm); err != nil {
		return err
	}
	if err := WriteConfig(DefaultConfig(), configFile); err != nil {
		return err
	}
	return GenerateSchemaFile(filepath.Dir(configFile))
}

func (m *Manager) setDefaults() {
	defaults := DefaultConfig()

	m.viper.SetDefault("tabs.new_tab_url", defaults.Tabs.NewTabURL)
	m.viper.SetDefault("tabs.new_tabs_in_foreground", defaults.Tabs.NewTabsInForeground)
	m.viper.SetDefault("tabs.auto_redirect_to_drive", defaults.Tabs.AutoRedirectToDrive)
	m.viper.SetDefault("tabs.search_url", defaults.Tabs.SearchURL)
	m.viper.SetDefault("tabs.history_excluded_urls", defaults.Tabs.HistoryExcludedURLs)
	m.viper.SetDefault("tabs.preload_delay_ms", defaults.Tabs.PreloadDelayMilliseconds)
	m.viper.SetDefault("tabs.unload_timeout_ms", defaults.Tabs.UnloadTimeoutMilliseconds)
	m.viper.SetDefault("tabs.screenshot_delay_ms", defaults.Tabs.ScreenshotDelayMilliseconds)
	m.viper.SetDefault("tabs.live_reload_window_ms", defaults.Tabs.LiveReloadWindowMilliseconds)
	m.viper.SetDefault("tabs.media_settle_delay_ms", defaults.Tabs.MediaSettleDelayMilliseconds)

	m.viper.SetDefault("logging.level", defaults.Logging.Level)
	m.viper.SetDefault("logging.format", defaults.Logging.Format)
	m.viper.SetDefault("logging.max_age", defaults.Logging.MaxAge)
	m.viper.SetDefault("logging.log_dir", defaults.Logging.LogDir)
	m.viper.SetDefault("logging.enable_file_log", defaults.Logging.EnableFileLog)

	m.viper.SetDefault("chrome.headless", defaults.Chrome.Headless)
	m.viper.SetDefault("api.listen", defaults.API.Listen)
	m.viper.SetDefault("windows.width", defaults.Windows.Width)
	m.viper.SetDefault("windows.height", defaults.Windows.Height)
}
