package entity

// FindResults holds the current in-page find match counts.
type FindResults struct {
	ActiveMatchOrdinal int `json:"activeMatchOrdinal"`
	Matches            int `json:"matches"`
}

// TabState is the fixed set of fields pushed to UI surfaces for one tab.
// Fields other than these are never sent.
type TabState struct {
	ID                       TabID        `json:"id"`
	URL                      string       `json:"url"`
	Title                    string       `json:"title"`
	SiteTitle                string       `json:"siteTitle"`
	SiteSubtitle             string       `json:"siteSubtitle"`
	SiteIcon                 string       `json:"siteIcon"`
	SiteTrust                SiteTrust    `json:"siteTrust"`
	DriveDomain              string       `json:"driveDomain"`
	IsSystemDrive            bool         `json:"isSystemDrive"`
	Writable                 bool         `json:"writable"`
	FolderSyncPath           string       `json:"folderSyncPath"`
	Peers                    int          `json:"peers"`
	Favicons                 []string     `json:"favicons"`
	Zoom                     float64      `json:"zoom"`
	LoadError                *LoadError   `json:"loadError"`
	IsActive                 bool         `json:"isActive"`
	IsPinned                 bool         `json:"isPinned"`
	IsBookmarked             bool         `json:"isBookmarked"`
	IsLoading                bool         `json:"isLoading"`
	IsReceivingAssets        bool         `json:"isReceivingAssets"`
	CanGoBack                bool         `json:"canGoBack"`
	CanGoForward             bool         `json:"canGoForward"`
	IsAudioMuted             bool         `json:"isAudioMuted"`
	IsCurrentlyAudible       bool         `json:"isCurrentlyAudible"`
	IsInpageFindActive       bool         `json:"isInpageFindActive"`
	CurrentInpageFindString  string       `json:"currentInpageFindString"`
	CurrentInpageFindResults *FindResults `json:"currentInpageFindResults"`
	DonateLinkHref           string       `json:"donateLinkHref"`
	IsLiveReloading          bool         `json:"isLiveReloading"`
	TabCreationTime          int64        `json:"tabCreationTime"`
}

// DetailedTabState extends TabState with optional collaborator data.
type DetailedTabState struct {
	TabState
	DriveInfo *DriveInfo          `json:"driveInfo,omitempty"`
	SitePerms []*PermissionRecord `json:"sitePerms,omitempty"`
}

// ReplaceState is the full per-window snapshot event.
type ReplaceState struct {
	Tabs                   []TabState `json:"tabs"`
	IsFullscreen           bool       `json:"isFullscreen"`
	IsShellInterfaceHidden bool       `json:"isShellInterfaceHidden"`
	IsDaemonActive         bool       `json:"isDaemonActive"`
}

// UpdateState is the single-tab in-place change event.
type UpdateState struct {
	Index int      `json:"index"`
	State TabState `json:"state"`
}

// NetworkState is the peer summary for a tab's drive.
type NetworkState struct {
	Peers         int      `json:"peers"`
	PeerAddresses []string `json:"peerAddresses,omitempty"`
}

// BackgroundTab is the summary of a tab in the background pool.
type BackgroundTab struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// PageMetadata is metadata a page publishes about itself.
type PageMetadata map[string]any
