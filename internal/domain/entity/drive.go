package entity

import (
	"regexp"
	"strings"
)

// DriveScheme is the URL scheme for content-addressed drives.
const DriveScheme = "hyper"

// InternalScheme is the URL scheme for built-in shell pages.
const InternalScheme = "tabshell"

// driveKeyPattern matches a 64-hex-char drive key.
var driveKeyPattern = regexp.MustCompile(`[0-9a-f]{64}`)

// driveVersionPattern matches the "+<version>" suffix of a drive host.
var driveVersionPattern = regexp.MustCompile(`\+(\d+)`)

// DriveIdent describes how a drive relates to the local user.
type DriveIdent struct {
	System   bool `json:"system"`
	Internal bool `json:"internal"`
	Contact  bool `json:"contact"`
	Profile  bool `json:"profile"`
}

// DriveLink is a typed link published in a drive's manifest.
type DriveLink struct {
	Href  string `json:"href"`
	Title string `json:"title,omitempty"`
}

// DriveInfo is drive metadata supplied by the drive collaborator.
type DriveInfo struct {
	Key          string                 `json:"key"`
	URL          string                 `json:"url"`
	Domain       string                 `json:"domain"`
	Title        string                 `json:"title"`
	Description  string                 `json:"description"`
	Writable     bool                   `json:"writable"`
	Peers        int                    `json:"peers"`
	DiscoveryKey string                 `json:"discoveryKey"`
	Version      int                    `json:"version"`
	Ident        DriveIdent             `json:"ident"`
	Links        map[string][]DriveLink `json:"links,omitempty"`
	ForkOfLabel  string                 `json:"forkOfLabel,omitempty"`
}

// PaymentLink returns the first payment link href, if any.
func (d *DriveInfo) PaymentLink() string {
	if d == nil {
		return ""
	}
	links := d.Links["payment"]
	if len(links) == 0 {
		return ""
	}
	return links[0].Href
}

// IsDriveKey reports whether s is a full drive key.
func IsDriveKey(s string) bool {
	return len(s) == 64 && driveKeyPattern.MatchString(s)
}

// ShortenDriveKeys abbreviates every drive key in s to "abcdef..yz".
func ShortenDriveKeys(s string) string {
	return driveKeyPattern.ReplaceAllStringFunc(s, func(k string) string {
		return k[:6] + ".." + k[len(k)-2:]
	})
}

// StripDriveVersion removes a "+<version>" suffix from a host.
func StripDriveVersion(host string) string {
	if !strings.Contains(host, "+") {
		return host
	}
	return driveVersionPattern.ReplaceAllString(host, "")
}

// DriveVersionLabel returns "v<version>" when s carries a "+<version>" suffix.
func DriveVersionLabel(s string) string {
	m := driveVersionPattern.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return "v" + m[1]
}
