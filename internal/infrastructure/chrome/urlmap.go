package chrome

import (
	"strings"

	"github.com/bnema/tabshell/internal/domain/entity"
)

const driveURLPrefix = entity.DriveScheme + "://"

// urlMapper translates drive URLs to the local HTTP gateway that serves
// them to the browser, and gateway URLs back to drive URLs.
type urlMapper struct {
	gateway string
}

func newURLMapper(gateway string) urlMapper {
	if gateway != "" && !strings.HasSuffix(gateway, "/") {
		gateway += "/"
	}
	return urlMapper{gateway: gateway}
}

func (m urlMapper) toChrome(raw string) string {
	if m.gateway == "" {
		return raw
	}
	rest, ok := strings.CutPrefix(raw, driveURLPrefix)
	if !ok {
		return raw
	}
	return m.gateway + rest
}

func (m urlMapper) fromChrome(raw string) string {
	if m.gateway == "" {
		return raw
	}
	rest, ok := strings.CutPrefix(raw, m.gateway)
	if !ok {
		return raw
	}
	return driveURLPrefix + rest
}

func (m urlMapper) fromChromeAll(urls []string) []string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		out = append(out, m.fromChrome(u))
	}
	return out
}
