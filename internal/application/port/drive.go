package port

import (
	"context"

	"github.com/bnema/tabshell/internal/domain/entity"
)

// DriveWatcher is an active change subscription on a drive.
type DriveWatcher interface {
	Close() error
}

// DriveCallbacks defines callback handlers for drive-wide events.
// Implementations may invoke these from any goroutine.
type DriveCallbacks struct {
	// OnDriveUpdated is called when a drive's metadata changes.
	OnDriveUpdated func(driveURL string)
	// OnDaemonStatusChanged is called when the drive daemon starts or stops.
	OnDaemonStatusChanged func(active bool)
}

// DriveService is the content-addressed drive collaborator.
type DriveService interface {
	// ResolveName resolves a URL or hostname to a drive key.
	ResolveName(ctx context.Context, name string) (string, error)

	// GetDriveInfo returns metadata (including ident) for a drive key.
	GetDriveInfo(ctx context.Context, key string) (*entity.DriveInfo, error)

	// Watch calls onChange whenever a file in the drive changes.
	// onChange may run on any goroutine.
	Watch(ctx context.Context, key string, onChange func(path string)) (DriveWatcher, error)

	// ReadFile reads a file from a drive URL.
	ReadFile(ctx context.Context, driveURL string) ([]byte, error)

	PeerCount(ctx context.Context, key string) (int, error)
	ListPeerAddresses(ctx context.Context, discoveryKey string) ([]string, error)

	IsDaemonActive() bool
	SetCallbacks(callbacks *DriveCallbacks)
}
