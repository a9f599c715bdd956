package drive

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bnema/tabshell/internal/application/port"
	"github.com/bnema/tabshell/internal/domain/entity"
	"github.com/bnema/tabshell/internal/logging"
)

// rootWatcher watches folder trees and reports changed paths relative to
// the tree root.
type rootWatcher struct {
	w        *fsnotify.Watcher
	roots    []string
	onChange func(root, rel string)
	done     chan struct{}
	once     sync.Once
}

func newRootWatcher(ctx context.Context, roots []string, onChange func(root, rel string)) (*rootWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	rw := &rootWatcher{w: w, roots: roots, onChange: onChange, done: make(chan struct{})}
	for _, root := range roots {
		if err := rw.addTree(root); err != nil {
			_ = w.Close()
			return nil, err
		}
	}
	go rw.run(ctx)
	return rw, nil
}

// addTree watches dir and every directory below it; fsnotify is not recursive.
func (rw *rootWatcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return rw.w.Add(p)
	})
}

func (rw *rootWatcher) run(ctx context.Context) {
	log := logging.FromContext(ctx)
	for {
		select {
		case <-rw.done:
			return
		case ev, ok := <-rw.w.Events:
			if !ok {
				return
			}
			if ev.Has(fsnotify.Create) {
				if st, err := os.Stat(ev.Name); err == nil && st.IsDir() {
					if err := rw.addTree(ev.Name); err != nil {
						log.Debug().Err(err).Str("dir", ev.Name).Msg("failed to watch new directory")
					}
				}
			}
			if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) {
				continue
			}
			root := rw.rootOf(ev.Name)
			if root == "" {
				continue
			}
			rel, err := filepath.Rel(root, ev.Name)
			if err != nil {
				continue
			}
			rw.onChange(root, "/"+filepath.ToSlash(rel))
		case err, ok := <-rw.w.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("drive watcher error")
		}
	}
}

func (rw *rootWatcher) rootOf(name string) string {
	best := ""
	for _, root := range rw.roots {
		if (name == root || strings.HasPrefix(name, root+string(filepath.Separator))) && len(root) > len(best) {
			best = root
		}
	}
	return best
}

// Close stops the watcher. Safe to call more than once.
func (rw *rootWatcher) Close() error {
	var err error
	rw.once.Do(func() {
		close(rw.done)
		err = rw.w.Close()
	})
	return err
}

// Watch reports every change inside a drive until the returned watcher is
// closed. onChange runs on the watcher goroutine.
func (s *Service) Watch(ctx context.Context, key string, onChange func(path string)) (port.DriveWatcher, error) {
	f, err := s.lookupFolder(key)
	if err != nil {
		return nil, err
	}
	root := filepath.Clean(f.cfg.Path)
	return newRootWatcher(ctx, []string{root}, func(_, rel string) { onChange(rel) })
}

// Start begins watching every drive for OnDriveUpdated events and reports
// the service active.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.active {
		s.mu.Unlock()
		return nil
	}

	byRoot := make(map[string]*folder, len(s.folders))
	roots := make([]string, 0, len(s.folders))
	for _, f := range s.folders {
		root := filepath.Clean(f.cfg.Path)
		if _, err := os.Stat(root); err != nil {
			logging.FromContext(ctx).Warn().Err(err).Str("drive", f.cfg.Name).Msg("drive folder unavailable, not watching")
			continue
		}
		byRoot[root] = f
		roots = append(roots, root)
	}

	notify := newDebouncer(changeDebounce, func(key string) {
		if cb := s.currentCallbacks(); cb != nil && cb.OnDriveUpdated != nil {
			cb.OnDriveUpdated(entity.DriveScheme + "://" + key + "/")
		}
	})
	w, err := newRootWatcher(ctx, roots, func(root, _ string) {
		if f := byRoot[root]; f != nil {
			notify.trigger(f.key)
		}
	})
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.watcher = w
	s.active = true
	cb := s.callbacks
	s.mu.Unlock()

	logging.FromContext(ctx).Info().Int("drives", len(roots)).Msg("drive service started")
	if cb != nil && cb.OnDaemonStatusChanged != nil {
		cb.OnDaemonStatusChanged(true)
	}
	return nil
}

// Close stops watching and reports the service inactive.
func (s *Service) Close() error {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return nil
	}
	w := s.watcher
	s.watcher = nil
	s.active = false
	cb := s.callbacks
	s.mu.Unlock()

	err := w.Close()
	if cb != nil && cb.OnDaemonStatusChanged != nil {
		cb.OnDaemonStatusChanged(false)
	}
	return err
}

// debouncer collapses bursts of triggers per key into one call.
type debouncer struct {
	delay  time.Duration
	fn     func(key string)
	mu     sync.Mutex
	timers map[string]*time.Timer
}

func newDebouncer(delay time.Duration, fn func(key string)) *debouncer {
	return &debouncer{delay: delay, fn: fn, timers: map[string]*time.Timer{}}
}

func (d *debouncer) trigger(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if t, ok := d.timers[key]; ok {
		t.Reset(d.delay)
		return
	}
	d.timers[key] = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		delete(d.timers, key)
		d.mu.Unlock()
		d.fn(key)
	})
}
