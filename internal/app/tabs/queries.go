package tabs

import (
	"context"
	"strings"

	"github.com/bnema/tabshell/internal/application/port"
	"github.com/bnema/tabshell/internal/domain/entity"
	"github.com/bnema/tabshell/internal/logging"
	"github.com/bnema/tabshell/internal/ui/mainloop"
)

// The queries in this file block on collaborators. They must be called
// off the control thread; tab state is read through the loop.

// TabStateOptions selects optional collaborator data for GetTabState.
type TabStateOptions struct {
	DriveInfo bool
	SitePerms bool
}

type tabSnapshot struct {
	state   entity.TabState
	url     string
	drive   *entity.DriveInfo
	surface port.ContentSurface
	err     error
}

func (m *Manager) snapshotTab(ctx context.Context, win port.Window, index int) (tabSnapshot, error) {
	snap, err := mainloop.CallValue(ctx, m.loop, func() tabSnapshot {
		t, err := m.TabAt(win, index)
		if err != nil {
			return tabSnapshot{err: err}
		}
		p, err := t.ActivePane()
		if err != nil {
			return tabSnapshot{err: err}
		}
		return tabSnapshot{
			state:   t.State(),
			url:     p.URL(),
			drive:   p.driveInfo,
			surface: p.surface,
		}
	})
	if err != nil {
		return tabSnapshot{}, err
	}
	return snap, snap.err
}

// GetTabState returns the state of the tab at index, optionally with its
// drive metadata and the permissions of its origin.
func (m *Manager) GetTabState(ctx context.Context, win port.Window, index int, opts TabStateOptions) (*entity.DetailedTabState, error) {
	snap, err := m.snapshotTab(ctx, win, index)
	if err != nil {
		return nil, err
	}
	out := &entity.DetailedTabState{TabState: snap.state}
	if opts.DriveInfo {
		out.DriveInfo = snap.drive
	}
	if opts.SitePerms && m.permissions != nil {
		origin := strings.TrimSuffix(entity.Origin(snap.url), "/")
		perms, err := m.permissions.GetAll(ctx, origin)
		if err != nil {
			logging.FromContext(ctx).Debug().Err(err).Str("origin", origin).Msg("permission lookup failed")
		} else {
			out.SitePerms = perms
		}
	}
	return out, nil
}

// GetNetworkState returns the peer summary of the tab's drive. Pages that
// are not on a drive report zero peers.
func (m *Manager) GetNetworkState(ctx context.Context, win port.Window, index int, includeAddresses bool) (*entity.NetworkState, error) {
	snap, err := m.snapshotTab(ctx, win, index)
	if err != nil {
		return nil, err
	}
	out := &entity.NetworkState{}
	if snap.drive == nil || m.drives == nil {
		return out, nil
	}
	out.Peers = snap.drive.Peers
	if peers, err := m.drives.PeerCount(ctx, snap.drive.Key); err == nil {
		out.Peers = peers
	}
	if includeAddresses {
		addrs, err := m.drives.ListPeerAddresses(ctx, snap.drive.DiscoveryKey)
		if err != nil {
			logging.FromContext(ctx).Debug().Err(err).Msg("peer address lookup failed")
		}
		out.PeerAddresses = addrs
	}
	return out, nil
}

// GetPageMetadata returns the metadata the page of the tab publishes.
// Script failures yield empty metadata.
func (m *Manager) GetPageMetadata(ctx context.Context, win port.Window, index int) (entity.PageMetadata, error) {
	snap, err := m.snapshotTab(ctx, win, index)
	if err != nil {
		return nil, err
	}
	md, err := pageMetadata(ctx, snap.surface)
	if err != nil {
		logging.FromContext(ctx).Debug().Err(err).Msg("page metadata unavailable")
		return entity.PageMetadata{}, nil
	}
	return md, nil
}
