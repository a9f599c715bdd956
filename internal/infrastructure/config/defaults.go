package config

const (
	defaultNewTabURL    = "about:blank"
	defaultSearchURL    = "https://duckduckgo.com/?q=%s"
	defaultAPIListen    = "127.0.0.1:9333"
	defaultLogMaxAge    = 7
	defaultWindowWidth  = 1280
	defaultWindowHeight = 800
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Tabs: TabsConfig{
			NewTabURL:                    defaultNewTabURL,
			SearchURL:                    defaultSearchURL,
			HistoryExcludedURLs:          []string{"tabshell://history/"},
			PreloadDelayMilliseconds:     1000,
			UnloadTimeoutMilliseconds:    500,
			ScreenshotDelayMilliseconds:  2000,
			LiveReloadWindowMilliseconds: 500,
			MediaSettleDelayMilliseconds: 1000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			MaxAge: defaultLogMaxAge,
		},
		Chrome: ChromeConfig{
			Headless: true,
		},
		API: APIConfig{
			Listen: defaultAPIListen,
		},
		Windows: WindowsConfig{
			Width:  defaultWindowWidth,
			Height: defaultWindowHeight,
		},
	}
}
