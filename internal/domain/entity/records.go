package entity

import "time"

// HistoryEntry represents a visited URL in browsing history.
type HistoryEntry struct {
	ID          int64     `json:"id"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	VisitCount  int64     `json:"visit_count"`
	LastVisited time.Time `json:"last_visited"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewHistoryEntry creates a new history entry for a URL.
func NewHistoryEntry(url, title string) *HistoryEntry {
	now := time.Now()
	return &HistoryEntry{
		URL:         url,
		Title:       title,
		VisitCount:  1,
		LastVisited: now,
		CreatedAt:   now,
	}
}

// Bookmark represents a bookmarked URL.
type Bookmark struct {
	ID        int64
	URL       string
	Title     string
	Pinned    bool
	CreatedAt time.Time
}

// SitedataKey names a per-URL value in the sitedata store.
type SitedataKey string

const (
	// SitedataScreenshot is a PNG data URL thumbnail of the page.
	SitedataScreenshot SitedataKey = "screenshot"
	// SitedataFavicon is a PNG data URL of the site's favicon.
	SitedataFavicon SitedataKey = "favicon"
)

// PermissionType represents the type of a site permission.
type PermissionType string

const (
	PermissionTypeMicrophone   PermissionType = "microphone"
	PermissionTypeCamera       PermissionType = "camera"
	PermissionTypeNotification PermissionType = "notification"
	PermissionTypeGeolocation  PermissionType = "geolocation"
	PermissionTypeClipboard    PermissionType = "clipboard"
)

// PermissionDecision represents the user's decision for a permission.
type PermissionDecision string

const (
	// PermissionGranted means the permission was allowed.
	PermissionGranted PermissionDecision = "granted"

	// PermissionDenied means the permission was denied.
	PermissionDenied PermissionDecision = "denied"

	// PermissionPrompt means no decision has been made yet (default state).
	PermissionPrompt PermissionDecision = "prompt"
)

// PermissionRecord stores a permission decision for a specific origin and type.
type PermissionRecord struct {
	Origin    string             `json:"origin"`
	Type      PermissionType     `json:"type"`
	Decision  PermissionDecision `json:"decision"`
	UpdatedAt int64              `json:"updatedAt"` // Unix seconds
}

// IsGranted returns true if the permission is granted.
func (p *PermissionRecord) IsGranted() bool {
	return p.Decision == PermissionGranted
}
