package config

import (
	"fmt"
	"net"
	"strings"
)

// validateConfig performs comprehensive validation of configuration values
func validateConfig(config *Config) error {
	var validationErrors []string

	validationErrors = append(validationErrors, validateTabs(config)...)
	validationErrors = append(validationErrors, validateLogging(config)...)
	validationErrors = append(validationErrors, validateAPI(config)...)
	validationErrors = append(validationErrors, validateWindows(config)...)
	validationErrors = append(validationErrors, validateDrives(config)...)

	if len(validationErrors) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(validationErrors, "\n  - "))
	}
	return nil
}

func validateTabs(config *Config) []string {
	var validationErrors []string
	delays := []struct {
		key   string
		value int
	}{
		{"tabs.preload_delay_ms", config.Tabs.PreloadDelayMilliseconds},
		{"tabs.unload_timeout_ms", config.Tabs.UnloadTimeoutMilliseconds},
		{"tabs.screenshot_delay_ms", config.Tabs.ScreenshotDelayMilliseconds},
		{"tabs.live_reload_window_ms", config.Tabs.LiveReloadWindowMilliseconds},
		{"tabs.media_settle_delay_ms", config.Tabs.MediaSettleDelayMilliseconds},
	}
	for _, d := range delays {
		if d.value < 0 {
			validationErrors = append(validationErrors, d.key+" must be non-negative")
		}
	}
	if config.Tabs.SearchURL != "" && !strings.Contains(config.Tabs.SearchURL, "%s") {
		validationErrors = append(validationErrors, "tabs.search_url must contain %s placeholder")
	}
	return validationErrors
}

func validateLogging(config *Config) []string {
	var validationErrors []string
	switch config.Logging.Level {
	case "", "trace", "debug", "info", "warn", "error":
	default:
		validationErrors = append(validationErrors, fmt.Sprintf("logging.level %q is not one of trace, debug, info, warn, error", config.Logging.Level))
	}
	switch config.Logging.Format {
	case "", "console", "json":
	default:
		validationErrors = append(validationErrors, fmt.Sprintf("logging.format %q must be console or json", config.Logging.Format))
	}
	if config.Logging.MaxAge < 0 {
		validationErrors = append(validationErrors, "logging.max_age must not be negative")
	}
	return validationErrors
}

func validateAPI(config *Config) []string {
	if config.API.Listen == "" {
		return nil
	}
	if _, _, err := net.SplitHostPort(config.API.Listen); err != nil {
		return []string{fmt.Sprintf("api.listen %q must be host:port", config.API.Listen)}
	}
	return nil
}

func validateWindows(config *Config) []string {
	if config.Windows.Width <= 0 || config.Windows.Height <= 0 {
		return []string{"windows.width and windows.height must be positive"}
	}
	return nil
}

func validateDrives(config *Config) []string {
	var validationErrors []string
	seen := make(map[string]bool, len(config.Drives))
	for i, d := range config.Drives {
		switch {
		case d.Name == "":
			validationErrors = append(validationErrors, fmt.Sprintf("drives[%d].name is required", i))
		case strings.ContainsAny(d.Name, "/:@ "):
			validationErrors = append(validationErrors, fmt.Sprintf("drives[%d].name %q is not a valid hostname", i, d.Name))
		case seen[d.Name]:
			validationErrors = append(validationErrors, fmt.Sprintf("drives[%d].name %q is declared twice", i, d.Name))
		}
		seen[d.Name] = true
		if d.Path == "" {
			validationErrors = append(validationErrors, fmt.Sprintf("drives[%d].path is required", i))
		}
	}
	return validationErrors
}
