// Package url provides URL manipulation utilities for the browser shell.
package url

import (
	"net/url"
	"strings"
)

// knownSchemes are treated as URLs without further inspection.
var knownSchemes = []string{
	"http://",
	"https://",
	"tabshell://",
	"hyper://",
	"file://",
	"about:",
	"data:",
}

// HasKnownScheme reports whether input starts with a scheme the shell loads directly.
func HasKnownScheme(input string) bool {
	for _, s := range knownSchemes {
		if strings.HasPrefix(input, s) {
			return true
		}
	}
	return false
}

// Normalize adds https:// prefix if missing for URL-like inputs.
// Returns the input unchanged if it already has a scheme or doesn't look like a URL.
func Normalize(input string) string {
	if input == "" {
		return ""
	}
	if HasKnownScheme(input) {
		return input
	}

	// Looks like a URL (contains . and no spaces)
	if LooksLikeURL(input) {
		if isLocalHost(input) {
			return "http://" + input
		}
		return "https://" + input
	}

	return input
}

// LooksLikeURL checks if the input appears to be a URL (not a search query).
// Returns true for strings like "github.com", "localhost:8080/x", etc.
func LooksLikeURL(input string) bool {
	if input == "" || strings.ContainsAny(input, " \t\n") {
		return false
	}
	if HasKnownScheme(input) {
		return true
	}
	if isLocalHost(input) {
		return true
	}
	return strings.Contains(input, ".")
}

// ExtractDomain extracts the normalized domain (host) from a URL string.
// Normalizes by stripping "www." prefix so youtube.com and www.youtube.com
// resolve to the same value.
func ExtractDomain(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return ""
	}
	return strings.TrimPrefix(parsed.Host, "www.")
}

// Hostname returns the bare hostname of a URL, or "" when it has none.
func Hostname(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return parsed.Hostname()
}

// Scheme returns the lowercased scheme of a URL, or "".
func Scheme(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(parsed.Scheme)
}

// ReplaceScheme swaps the scheme of rawURL, keeping everything after "://".
func ReplaceScheme(rawURL, scheme string) string {
	i := strings.Index(rawURL, "://")
	if i < 0 {
		return rawURL
	}
	return scheme + rawURL[i:]
}

func isLocalHost(input string) bool {
	host := input
	if i := strings.IndexAny(host, "/?#"); i >= 0 {
		host = host[:i]
	}
	if i := strings.LastIndex(host, ":"); i >= 0 {
		host = host[:i]
	}
	return host == "localhost" || strings.HasSuffix(host, ".localhost")
}
