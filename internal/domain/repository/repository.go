// Package repository declares the persistence the tab shell depends on.
// Implementations live in infrastructure/persistence.
package repository

import (
	"context"
	"time"

	"github.com/bnema/tabshell/internal/domain/entity"
)

// Setting keys shared by the shell.
const (
	SettingPinnedTabs      = "pinned_tabs"
	SettingSessionSnapshot = "session_snapshot"
)

// SettingsRepository stores string settings by key. Get returns "" for an
// unset key.
type SettingsRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// SitedataRepository stores per-URL blobs such as thumbnails and favicons.
// Get returns "" when nothing is stored.
type SitedataRepository interface {
	Set(ctx context.Context, url string, key entity.SitedataKey, value string) error
	Get(ctx context.Context, url string, key entity.SitedataKey) (string, error)
}

// BookmarkRepository backs the bookmark star of the location bar.
type BookmarkRepository interface {
	// GetByURL returns nil when url is not bookmarked.
	GetByURL(ctx context.Context, url string) (*entity.Bookmark, error)
	Save(ctx context.Context, bookmark *entity.Bookmark) error
	Delete(ctx context.Context, url string) error
}

// HistoryRepository records visits of tab navigations.
type HistoryRepository interface {
	// AddVisit creates the entry for url or bumps its visit count.
	AddVisit(ctx context.Context, url, title string) error
	UpdateTitle(ctx context.Context, url, title string) error
	FindByURL(ctx context.Context, url string) (*entity.HistoryEntry, error)
	GetRecent(ctx context.Context, limit, offset int) ([]*entity.HistoryEntry, error)
	DeleteOlderThan(ctx context.Context, before time.Time) error
}

// ZoomRepository keeps the zoom factor chosen per host. Get returns nil
// for a host at the default zoom.
type ZoomRepository interface {
	Get(ctx context.Context, host string) (*entity.ZoomLevel, error)
	Set(ctx context.Context, level *entity.ZoomLevel) error
	Delete(ctx context.Context, host string) error
}

// FolderSyncRepository maps drive keys to the local folders synced with
// them. GetPath returns "" for a drive that is not synced.
type FolderSyncRepository interface {
	GetPath(ctx context.Context, driveKey string) (string, error)
	SetPath(ctx context.Context, driveKey, path string) error
}

// PermissionRepository persists the answers given to site permission
// prompts, keyed by origin.
type PermissionRepository interface {
	Set(ctx context.Context, record *entity.PermissionRecord) error
	GetAll(ctx context.Context, origin string) ([]*entity.PermissionRecord, error)
}
