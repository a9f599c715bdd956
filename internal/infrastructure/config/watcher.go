package config

import (
	"reflect"
	"slices"

	"github.com/fsnotify/fsnotify"

	"github.com/bnema/tabshell/internal/logging"
)

// Watch reloads the config file whenever it is written and notifies the
// OnConfigChange callbacks when the loaded values differ. Callbacks run on
// the watcher goroutine. Watching twice is a no-op.
func (m *Manager) Watch() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.watching {
		m.viper.OnConfigChange(m.fileChanged)
		m.viper.WatchConfig()
		m.watching = true
	}
	return nil
}

// OnConfigChange registers fn to receive each newly loaded config.
func (m *Manager) OnConfigChange(fn func(*Config)) {
	m.mu.Lock()
	m.callbacks = append(m.callbacks, fn)
	m.mu.Unlock()
}

func (m *Manager) fileChanged(e fsnotify.Event) {
	if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
		return
	}
	log := logging.NewFromEnv().With().Str("component", "config").Str("file", e.Name).Logger()

	m.mu.Lock()
	previous := m.config
	if err := m.reload(true); err != nil {
		m.mu.Unlock()
		log.Warn().Err(err).Msg("config reload failed, keeping previous values")
		return
	}
	current := m.config
	if reflect.DeepEqual(previous, current) {
		m.mu.Unlock()
		return
	}
	fns := slices.Clone(m.callbacks)
	m.mu.Unlock()

	log.Info().Msg("config reloaded")
	for _, fn := range fns {
		fn(current)
	}
}
