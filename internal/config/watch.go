package config

import (
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Watch starts watching the INI profile for on-disk edits (e.g. the
// settings UI writing directly to the file, or an operator hand-
// editing it) and reloads on change, using viper's fsnotify-backed
// watcher. viper does not expose a way to stop an active watch, so the
// returned stop function is a no-op kept for symmetry with the rest of
// the runtime's shutdown sequence; the watcher goroutine lives for the
// process lifetime.
func (m *Manager) Watch() (stop func(), err error) {
	v := viper.New()
	v.SetConfigFile(m.path)
	v.SetConfigType("ini")
	if err := v.ReadInConfig(); err != nil {
		log.Warnw("watch: initial read failed, will still watch for creation", "error", err)
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		log.Infow("config file changed, reloading", "op", e.Op.String())
		if err := m.Load(); err != nil {
			log.Warnw("reload after file change failed", "error", err)
		}
	})
	v.WatchConfig()

	return func() {}, nil
}
