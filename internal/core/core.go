// Package core is the re-entrancy guard and mode machine: it wires
// config, the injection queue, the scroll engine, the trigger waiter
// and both classifiers into one object, owns the context.Context that
// bounds the injector worker goroutine, and exposes the
// synchronous, by-value entry points the hook thread calls on every
// low-level mouse/keyboard event.
package core

import (
	"context"
	"sync"
	"sync/atomic"

	"wheelgo/internal/classifier"
	"wheelgo/internal/config"
	"wheelgo/internal/event"
	"wheelgo/internal/inject"
	"wheelgo/internal/logging"
	"wheelgo/internal/modestate"
	"wheelgo/internal/scroll"
	"wheelgo/internal/waiter"
)

var log = logging.L("core")

// Core composes one instance of every component behind a single
// re-entrancy boundary: the hook thread calls HandleMouse*/HandleKey*
// synchronously and by value, never touching package-level mutable
// state, so a re-entrant hook callback can never race itself.
type Core struct {
	cfgMgr *config.Manager

	state *modestate.ScrollState
	flags *modestate.LastFlags

	waiter  *waiter.Waiter
	queue   *inject.Queue
	session *scroll.Session

	mouse    *classifier.Mouse
	keyboard *classifier.Keyboard

	passMode atomic.Bool

	mu     sync.Mutex
	cancel context.CancelFunc
}

// mouseDispatchSlot breaks the Waiter<->Mouse construction cycle: the
// Waiter needs a Dispatcher at construction time, but the Dispatcher
// (Mouse) needs the already-built Waiter. The slot is fixed up once,
// before either is ever used concurrently.
type mouseDispatchSlot struct{ mouse **classifier.Mouse }

func (s mouseDispatchSlot) Dispatch(res waiter.Result) { (*s.mouse).Dispatch(res) }

// New builds a Core on top of an already-loaded config.Manager, an
// injection Sink (the OS SendInput adapter, or a test stub) and a
// ModifierProbe (GetAsyncKeyState on Windows, AlwaysIdle in tests).
func New(cfgMgr *config.Manager, sink inject.Sink, mods classifier.ModifierProbe) *Core {
	state := modestate.NewScrollState()
	flags := modestate.NewLastFlags()
	session := scroll.NewSession()
	queue := inject.New(inject.DefaultCapacity, sink)

	var mouse *classifier.Mouse
	w := waiter.New(mouseDispatchSlot{&mouse})
	inj := &queueInjector{q: queue}
	mouse = classifier.NewMouse(cfgMgr, state, flags, w, session, inj, mods)
	keyboard := classifier.NewKeyboard(cfgMgr, state, flags, session)

	cfgMgr.RegisterObserver(mouse)
	cfgMgr.RegisterObserver(keyboard)

	return &Core{
		cfgMgr:   cfgMgr,
		state:    state,
		flags:    flags,
		waiter:   w,
		queue:    queue,
		session:  session,
		mouse:    mouse,
		keyboard: keyboard,
	}
}

// Start launches the injector worker goroutine and returns without
// waiting for it.
// The waiter worker is launched per-gesture by waiter.Start instead,
// since it is transient rather than long-lived.
func (c *Core) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	go c.queue.Run(ctx)
	log.Infow("core started")
}

// Stop cancels the injector worker's lifetime context; per-gesture
// waiter workers are not bound to it.
// Callers must unhook before calling Stop, in shutdown order: unhook,
// then cancel, then drain.
func (c *Core) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	log.Infow("core stopped", "dropped_events", c.queue.Dropped())
}

// HandleMouseEvent is the hook thread's single mouse entry point.
// dx/dy are the instantaneous motion deltas for MOVE events (ignored
// otherwise). It returns true if the event should be passed to
// CallNextHookEx, false if it must be suppressed.
func (c *Core) HandleMouseEvent(ev event.MouseEvent, dx, dy int32) bool {
	if c.passMode.Load() {
		return true
	}
	switch ev.Kind {
	case event.MouseWheel, event.MouseHWheel:
		// Genuine hardware wheel motion, or our own synthesized wheel
		// event looping back through the hook: neither is a gesture the
		// classifier needs to see. Only DOWN/UP/MOVE are classified.
		return true
	case event.MouseDown:
		return c.mouse.OnDown(ev) != classifier.Suppress
	case event.MouseUp:
		return c.mouse.OnUp(ev) != classifier.Suppress
	case event.MouseMove:
		return c.mouse.OnMove(ev, dx, dy) != classifier.Suppress
	default:
		return true
	}
}

// HandleKeyEvent is the hook thread's single keyboard entry point.
func (c *Core) HandleKeyEvent(ev event.KeyboardEvent) bool {
	if c.passMode.Load() {
		return true
	}
	switch ev.Kind {
	case event.KeyDown:
		return c.keyboard.OnDown(ev) != classifier.Suppress
	case event.KeyUp:
		return c.keyboard.OnUp(ev) != classifier.Suppress
	default:
		return true
	}
}

// Reload re-reads the on-disk profile, honoring the IPC "reload"
// control message. A changed trigger propagates to the
// classifiers through config.Manager's observer publication the same
// way a settings-UI edit would.
func (c *Core) Reload() error { return c.cfgMgr.Load() }

// Reset forces every classifier/mode-machine/latch back to its initial
// state, honoring the IPC "reset-state" control message.
func (c *Core) Reset() {
	c.mouse.OnTriggerChanged(c.cfgMgr.Get().Trigger)
	c.keyboard.OnTriggerChanged(c.cfgMgr.Get().Trigger)
}

// SetPassMode toggles the IPC "set-pass-mode" control message: while
// enabled, every hook event is passed through untouched and the
// classifiers never see it. This is the workaround for an elevated
// foreground window, which cannot receive injected input from an
// unelevated hook process.
func (c *Core) SetPassMode(on bool) {
	c.passMode.Store(on)
	if on {
		c.Reset()
	}
	log.Infow("pass-mode changed", "enabled", on)
}

// PassMode reports the current pass-mode state.
func (c *Core) PassMode() bool { return c.passMode.Load() }

// Dropped reports how many synthesized events the injection queue has
// discarded under backpressure, for health-check/diagnostics surfaces.
func (c *Core) Dropped() uint64 { return c.queue.Dropped() }

// queueInjector adapts inject.Queue to classifier.Injector, tagging
// every resent button event with the fixed RESEND_TAG/RESEND_CLICK_TAG
// markers so a later hook re-entry recognizes it as the core's own.
// Wheel and key events are enqueued with no tag.
type queueInjector struct{ q *inject.Queue }

func (qi *queueInjector) ResendDown(b event.Button, pt event.Point, t uint32) {
	ev := event.MouseEvent{Kind: event.MouseDown, Button: b, Point: pt, Time: t, Extra: event.RESEND_TAG}
	if !qi.q.Enqueue(inject.Item{Mouse: &ev}) {
		log.Warnw("dropped resend down under backpressure", "button", b)
	}
}

func (qi *queueInjector) ResendUp(b event.Button, pt event.Point, t uint32) {
	ev := event.MouseEvent{Kind: event.MouseUp, Button: b, Point: pt, Time: t, Extra: event.RESEND_TAG}
	if !qi.q.Enqueue(inject.Item{Mouse: &ev}) {
		log.Warnw("dropped resend up under backpressure", "button", b)
	}
}

// ResendClick synthesizes a down+up pair tagged RESEND_CLICK_TAG,
// enqueued atomically so the up can never be injected without its down.
func (qi *queueInjector) ResendClick(b event.Button, pt event.Point) {
	down := event.MouseEvent{Kind: event.MouseDown, Button: b, Point: pt, Extra: event.RESEND_CLICK_TAG}
	up := event.MouseEvent{Kind: event.MouseUp, Button: b, Point: pt, Extra: event.RESEND_CLICK_TAG}
	if !qi.q.EnqueuePair(inject.Item{Mouse: &down}, inject.Item{Mouse: &up}) {
		log.Warnw("dropped through-click pair under backpressure", "button", b)
	}
}

func (qi *queueInjector) EmitWheel(delta int32) {
	ev := event.MouseEvent{Kind: event.MouseWheel, MouseData: uint32(delta)}
	if !qi.q.Enqueue(inject.Item{Mouse: &ev}) {
		log.Debugw("dropped wheel event under backpressure")
	}
}

func (qi *queueInjector) EmitHWheel(delta int32) {
	ev := event.MouseEvent{Kind: event.MouseHWheel, MouseData: uint32(delta)}
	if !qi.q.Enqueue(inject.Item{Mouse: &ev}) {
		log.Debugw("dropped hwheel event under backpressure")
	}
}

func (qi *queueInjector) EmitKey(vk uint16, down bool) {
	kind := event.KeyUp
	if down {
		kind = event.KeyDown
	}
	ev := event.KeyboardEvent{Kind: kind, VK: vk}
	if !qi.q.Enqueue(inject.Item{Key: &ev}) {
		log.Debugw("dropped key event under backpressure")
	}
}
