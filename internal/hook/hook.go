// Package hook installs the low-level Windows mouse/keyboard hooks
// and translates WH_MOUSE_LL/WH_KEYBOARD_LL
// callbacks into event.MouseEvent/KeyboardEvent values passed, by
// value, to a Dispatcher — never touching package-level mutable state
// from the re-entrant hook callback.
package hook

import (
	"errors"

	"wheelgo/internal/event"
)

// ErrUnsupported is returned by Install on platforms without a native
// low-level hook implementation (everything but Windows).
var ErrUnsupported = errors.New("hook: not supported on this platform")

// Dispatcher receives translated hook events and decides whether the
// OS should continue normal delivery (true) or the event should be
// swallowed (false). internal/core.Core satisfies this interface
// structurally; this package never imports internal/core to keep the
// dependency direction core->hook, not hook->core.
type Dispatcher interface {
	HandleMouseEvent(ev event.MouseEvent, dx, dy int32) bool
	HandleKeyEvent(ev event.KeyboardEvent) bool
}
