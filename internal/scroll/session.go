package scroll

import (
	"sync"

	"wheelgo/internal/config"
)

// Session is the raw-motion ingress: a mutex-guarded Engine that
// accepts raw deltas only while active and guarantees the accumulator
// is zeroed before a subsequent enter. Core owns one
// Session and starts/stops it on scroll-mode transitions.
type Session struct {
	mu     sync.Mutex
	active bool
	engine *Engine
}

// NewSession creates an inactive Session.
func NewSession() *Session { return &Session{} }

// Start begins a new scroll-mode session with a fresh Engine built
// from the given settings snapshot.
func (s *Session) Start(cfg config.Settings, cursor CursorNotifier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine = NewEngine(cfg, cursor)
	s.active = true
}

// Stop ends the session. Deltas arriving after Stop are dropped.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = false
	s.engine = nil
}

// Feed accumulates one raw (dx,dy) delta and emits wheel events via
// out if the session is active; it is a no-op otherwise. Deltas are
// only ever fed while scroll mode is ACTIVE.
func (s *Session) Feed(dx, dy int32, out Emitter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active || s.engine == nil {
		return
	}
	s.engine.Feed(dx, dy, out)
}
