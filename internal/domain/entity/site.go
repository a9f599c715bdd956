package entity

import (
	"net/url"
	"strings"
)

// SiteTrust is the trust level shown next to the location bar.
type SiteTrust string

const (
	SiteTrusted   SiteTrust = "trusted"
	SiteUntrusted SiteTrust = "untrusted"
	SiteNoTrust   SiteTrust = "notrust"
)

// Site icon tokens rendered by the location bar.
const (
	SiteIconUser    = "fas fa-user-circle"
	SiteIconChecked = "fas fa-check-circle"
	SiteIconInfo    = "fas fa-info-circle"
	SiteIconShell   = "shell-logo"
)

// internalPageNames maps built-in page hosts to their display names.
var internalPageNames = map[string]string{
	"diff":     "Diff/Merge Tool",
	"explorer": "Files Explorer",
	"history":  "History",
	"library":  "Library",
	"settings": "Settings",
	"webterm":  "Webterm",
}

// SiteInput is what site identity is derived from.
type SiteInput struct {
	URL       string // loading URL when set, else the committed URL
	Drive     *DriveInfo
	LoadError *LoadError
}

func (in SiteInput) insecure() bool {
	return in.LoadError != nil && in.LoadError.IsInsecureResponse
}

// SiteTitle returns the short display name of the site.
func (in SiteInput) SiteTitle() string {
	u, err := url.Parse(in.URL)
	if err != nil || u.Scheme == "" {
		return ""
	}
	host := StripDriveVersion(ShortenDriveKeys(u.Hostname()))
	if in.Drive != nil {
		if in.Drive.Ident.System {
			return "My System Drive"
		}
		if (in.Drive.Writable || in.Drive.Ident.Contact) && in.Drive.Title != "" {
			return in.Drive.Title
		}
	}
	if u.Scheme == InternalScheme {
		if name, ok := internalPageNames[u.Hostname()]; ok {
			return "Tabshell " + name
		}
		return "Tabshell"
	}
	if port := u.Port(); port != "" {
		return host + ":" + port
	}
	return host
}

// SiteSubtitle returns the fork label and version of a drive site.
func (in SiteInput) SiteSubtitle() string {
	if in.Drive == nil {
		return ""
	}
	parts := make([]string, 0, 2)
	if in.Drive.ForkOfLabel != "" {
		parts = append(parts, in.Drive.ForkOfLabel)
	}
	if v := DriveVersionLabel(Origin(in.URL)); v != "" {
		parts = append(parts, v)
	}
	return strings.Join(parts, " ")
}

// SiteIcon returns the icon token for the site.
func (in SiteInput) SiteIcon() string {
	if in.Drive != nil {
		if in.Drive.Ident.Contact || in.Drive.Ident.Profile {
			return SiteIconUser
		}
		if in.Drive.Writable {
			return SiteIconChecked
		}
	}
	if strings.HasPrefix(in.URL, "https:") && !in.insecure() {
		return SiteIconChecked
	}
	if strings.HasPrefix(in.URL, InternalScheme+":") {
		return SiteIconShell
	}
	return SiteIconInfo
}

// SiteTrust returns the trust level for the site.
func (in SiteInput) SiteTrust() SiteTrust {
	u, err := url.Parse(in.URL)
	if err != nil || u.Scheme == "" {
		return SiteNoTrust
	}
	if in.insecure() {
		return SiteUntrusted
	}
	switch u.Scheme {
	case "https", InternalScheme:
		return SiteTrusted
	case "http":
		return SiteUntrusted
	case DriveScheme:
		if d := in.Drive; d != nil && (d.Writable || d.Ident.Internal || d.Ident.Contact) {
			return SiteTrusted
		}
	}
	return SiteNoTrust
}

// Origin returns "scheme://host[:port]/" for a URL, or "" when unparseable.
func Origin(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return ""
	}
	origin := u.Scheme + "://" + u.Hostname()
	if port := u.Port(); port != "" {
		origin += ":" + port
	}
	return origin + "/"
}

// PageTitle picks the title to display: the drive title replaces an empty
// page title or one that merely repeats the page origin.
func PageTitle(pageTitle, pageURL string, drive *DriveInfo) string {
	if drive == nil || drive.Title == "" {
		return pageTitle
	}
	if pageTitle == "" || Origin(pageTitle) == Origin(pageURL) {
		return drive.Title
	}
	return pageTitle
}
