// Package snapshot persists the open tabs of every window so a later run
// can restore them.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/bnema/tabshell/internal/application/port"
	"github.com/bnema/tabshell/internal/domain/entity"
	"github.com/bnema/tabshell/internal/domain/repository"
	"github.com/bnema/tabshell/internal/logging"
	"github.com/bnema/tabshell/internal/ui/mainloop"
)

const defaultInterval = 5 * time.Second

// Provider exposes the tab state to snapshot. Its methods run on the
// control thread.
type Provider interface {
	Windows() []port.Window
	TakeSnapshot(win port.Window) []string
	OnStateChanged(fn func(win port.Window))
}

// Service handles debounced session snapshots. Every method except SaveNow,
// Stop and Restore runs on the control thread.
type Service struct {
	loop     mainloop.Loop
	provider Provider
	settings repository.SettingsRepository
	interval time.Duration
	changed  *mainloop.DirtySet[entity.WindowID]

	ctx   context.Context
	timer mainloop.Timer
	dirty bool
	ready bool

	seq       uint64
	writeMu   sync.Mutex
	lastWrite uint64
}

// NewService creates a snapshot service. A non-positive interval selects
// the default of five seconds.
func NewService(
	loop mainloop.Loop,
	provider Provider,
	settings repository.SettingsRepository,
	interval time.Duration,
) *Service {
	if interval <= 0 {
		interval = defaultInterval
	}
	s := &Service{
		loop:     loop,
		provider: provider,
		settings: settings,
		interval: interval,
	}
	s.changed = mainloop.NewDirtySet(loop, s.windowsChanged)
	return s
}

// Start subscribes to state changes.
func (s *Service) Start(ctx context.Context) {
	s.ctx = ctx
	s.provider.OnStateChanged(func(win port.Window) {
		s.changed.Mark(win.ID())
	})
	logging.FromContext(ctx).Debug().Dur("interval", s.interval).Msg("snapshot service started")
}

// SetReady allows saving. Snapshots taken before the session was restored
// would overwrite it with an empty one, so saving waits for this call.
func (s *Service) SetReady() {
	s.ready = true
	if s.dirty {
		s.flush()
	}
}

func (s *Service) windowsChanged(ids []entity.WindowID) {
	if s.ctx != nil {
		logging.FromContext(s.ctx).Trace().Int("windows", len(ids)).Msg("tab state changed")
	}
	s.MarkDirty()
}

// MarkDirty signals that state has changed and restarts the debounce timer.
func (s *Service) MarkDirty() {
	s.dirty = true
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = s.loop.AfterFunc(s.interval, func() {
		s.timer = nil
		s.flush()
	})
}

func (s *Service) flush() {
	if !s.ready || !s.dirty {
		return
	}
	s.dirty = false
	windows := s.collect()
	s.seq++
	seq := s.seq
	ctx := s.ctx
	s.loop.Go(func() {
		if err := s.write(ctx, seq, windows); err != nil {
			logging.FromContext(ctx).Error().Err(err).Msg("failed to save session snapshot")
		}
	})
}

// collect returns the unpinned tab URLs of every window with tabs.
func (s *Service) collect() [][]string {
	var windows [][]string
	for _, win := range s.provider.Windows() {
		if win.IsAppWindow() {
			continue
		}
		if urls := s.provider.TakeSnapshot(win); len(urls) > 0 {
			windows = append(windows, urls)
		}
	}
	return windows
}

// write stores a snapshot unless a newer one was already written.
func (s *Service) write(ctx context.Context, seq uint64, windows [][]string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if seq <= s.lastWrite {
		return nil
	}
	s.lastWrite = seq

	if windows == nil {
		windows = [][]string{}
	}
	data, err := json.Marshal(windows)
	if err != nil {
		return err
	}
	logging.FromContext(ctx).Debug().Int("windows", len(windows)).Msg("saving session snapshot")
	return s.settings.Set(ctx, repository.SettingSessionSnapshot, string(data))
}

// SaveNow takes and writes a snapshot immediately. It must not be called
// from the control thread.
func (s *Service) SaveNow(ctx context.Context) error {
	type taken struct {
		windows [][]string
		seq     uint64
		skip    bool
	}
	t, err := mainloop.CallValue(ctx, s.loop, func() taken {
		if s.timer != nil {
			s.timer.Stop()
			s.timer = nil
		}
		if !s.ready || !s.dirty {
			return taken{skip: true}
		}
		s.dirty = false
		s.seq++
		return taken{windows: s.collect(), seq: s.seq}
	})
	if err != nil {
		return err
	}
	if t.skip {
		return nil
	}
	return s.write(ctx, t.seq, t.windows)
}

// Stop drops pending work and saves the final state.
func (s *Service) Stop(ctx context.Context) error {
	s.changed.Stop()
	return s.SaveNow(ctx)
}

// Restore returns the last saved snapshot, one URL list per window.
func (s *Service) Restore(ctx context.Context) ([][]string, error) {
	raw, err := s.settings.Get(ctx, repository.SettingSessionSnapshot)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}
	var windows [][]string
	if err := json.Unmarshal([]byte(raw), &windows); err != nil {
		return nil, fmt.Errorf("decode session snapshot: %w", err)
	}
	return windows, nil
}
