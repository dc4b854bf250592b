package classifier

import (
	"time"

	"wheelgo/internal/config"
	"wheelgo/internal/event"
	"wheelgo/internal/logging"
	"wheelgo/internal/modestate"
	"wheelgo/internal/scroll"
	"wheelgo/internal/waiter"
)

var log = logging.L("classifier")

// Injector is the subset of the injection queue the classifiers need,
// kept as an interface so this package never imports internal/inject
// directly: checkers stay free of injector-queue mechanics, core wires
// the two together.
type Injector interface {
	ResendDown(b event.Button, pt event.Point, t uint32)
	ResendUp(b event.Button, pt event.Point, t uint32)
	ResendClick(b event.Button, pt event.Point)
	EmitWheel(delta int32)
	EmitHWheel(delta int32)
	EmitKey(vk uint16, down bool)
}

// resendEdge tracks the last injected resend per LR-mode button, used
// by the resend-ordering repair checker.
type resendEdge int

const (
	edgeNone resendEdge = iota
	edgeDown
	edgeUp
)

// dragTrack holds per-button drag-trigger bookkeeping.
type dragTrack struct {
	armed   bool
	dragged bool
	start   event.Point
}

// Mouse is the mouse classifier: one checker chain per
// (button, edge), keyed on the configured trigger.
type Mouse struct {
	cfgMgr   *config.Manager
	state    *modestate.ScrollState
	flags    *modestate.LastFlags
	w        *waiter.Waiter
	session  *scroll.Session
	inj      Injector
	mods     ModifierProbe

	lastResendLeft  resendEdge
	lastResendRight resendEdge

	seenAnyDown bool
	lastKind    map[event.Button]event.MouseKind

	drag map[event.Button]*dragTrack
}

// NewMouse wires a Mouse classifier to its collaborators. mods may be
// nil, in which case AlwaysIdle is used.
func NewMouse(cfgMgr *config.Manager, state *modestate.ScrollState, flags *modestate.LastFlags, w *waiter.Waiter, session *scroll.Session, inj Injector, mods ModifierProbe) *Mouse {
	if mods == nil {
		mods = AlwaysIdle{}
	}
	return &Mouse{
		cfgMgr:   cfgMgr,
		state:    state,
		flags:    flags,
		w:        w,
		session:  session,
		inj:      inj,
		mods:     mods,
		lastKind: make(map[event.Button]event.MouseKind),
		drag:     make(map[event.Button]*dragTrack),
	}
}

type wheelEmitter struct{ inj Injector }

func (e wheelEmitter) EmitWheel(d int32)  { e.inj.EmitWheel(d) }
func (e wheelEmitter) EmitHWheel(d int32) { e.inj.EmitHWheel(d) }

// OnMove handles raw pointer motion. dx,dy are instantaneous deltas.
func (m *Mouse) OnMove(ev event.MouseEvent, dx, dy int32) Result {
	if ev.IsInjected() && !ev.IsResend() && !ev.IsResendClick() {
		return Pass
	}

	if m.w.State() == waiter.Waiting {
		if m.w.Offer(ev) {
			return Suppress
		}
	}

	cfg := m.cfgMgr.Get()
	if cfg.Trigger.IsDrag() {
		if r := m.feedDrag(ev, cfg); r != Continue {
			return r
		}
	}

	if m.state.Mode() == modestate.ModeActive {
		if _, _, ok := m.state.Accumulate(dx, dy); ok {
			m.session.Feed(dx, dy, wheelEmitter{m.inj})
		}
		return Suppress
	}
	return Pass
}

// OnDown handles a button-down edge.
func (m *Mouse) OnDown(ev event.MouseEvent) Result {
	cfg := m.cfgMgr.Get()

	if r := m.checkEscape(ev); r != Continue {
		return r
	}

	if ev.IsInjected() {
		return m.checkInjectedDown(ev)
	}

	m.seenAnyDown = true
	m.lastKind[ev.Button] = event.MouseDown
	m.flags.ResetButton(ev.Button)

	if m.w.State() == waiter.Waiting {
		if m.w.Offer(ev) {
			return Suppress
		}
	}

	if cfg.SendMiddleClick {
		if r := m.checkKeySendMiddle(ev); r != Continue {
			return r
		}
	}

	switch {
	case cfg.Trigger.IsSingle():
		return m.checkSingleDown(ev, cfg)
	case cfg.Trigger.IsDrag():
		return m.checkDragDown(ev, cfg)
	case cfg.Trigger.IsDouble():
		return m.checkChordDown(ev, cfg)
	default:
		return Pass
	}
}

// OnUp handles a button-up edge.
func (m *Mouse) OnUp(ev event.MouseEvent) Result {
	if r := m.checkEscape(ev); r != Continue {
		return r
	}

	if ev.IsInjected() {
		return m.checkInjectedUp(ev)
	}

	if !m.seenAnyDown {
		return Suppress // skip_first_up
	}
	if m.lastKind[ev.Button] == event.MouseUp {
		return Suppress // check_same_last: coalesce consecutive UPs
	}
	m.lastKind[ev.Button] = event.MouseUp

	cfg := m.cfgMgr.Get()

	if m.w.State() == waiter.Waiting {
		if m.w.Offer(ev) {
			return Suppress
		}
	}

	// Note: LatchSuppressed is deliberately not consumed here. It is only
	// ever set by checkChordDown/checkDragDown/ActionEnterScroll, all of
	// which have their own exit-checker below that decides Release vs.
	// Exit vs. swallow; short-circuiting here would make that transition
	// unreachable.
	if m.flags.GetResetButton(ev.Button, modestate.LatchResent) {
		return Pass // check_suppressed_resent: DOWN was resent, UP follows through
	}
	if m.flags.GetResetButton(ev.Button, modestate.LatchPassed) {
		return Pass
	}

	switch {
	case cfg.Trigger.IsSingle():
		return m.checkExitSingleUp(ev, cfg)
	case cfg.Trigger.IsDrag():
		return m.checkDragUp(ev, cfg)
	case cfg.Trigger.IsDouble():
		return m.checkExitChordUp(ev, cfg)
	default:
		return Pass
	}
}

// OnTriggerChanged implements config.ModeObserver: a published trigger
// change invalidates every in-flight gesture.
func (m *Mouse) OnTriggerChanged(event.Trigger) {
	m.resetAll()
	m.seenAnyDown = false
	m.lastResendLeft, m.lastResendRight = edgeNone, edgeNone
}

func (m *Mouse) checkEscape(ev event.MouseEvent) Result {
	if ev.Kind != event.MouseUp || !m.mods.EscHeld() {
		return Continue
	}
	if m.state.Mode() == modestate.ModeIdle {
		return Continue
	}
	m.resetAll()
	return Suppress
}

func (m *Mouse) resetAll() {
	m.state.Exit()
	m.session.Stop()
	m.w.Reset()
	m.flags.ResetAll()
	m.lastKind = make(map[event.Button]event.MouseKind)
	m.drag = make(map[event.Button]*dragTrack)
}

// checkInjectedDown implements skip_injected_resend for DOWN events:
// RESEND_CLICK passes through; plain RESEND or other injected events
// also pass (only UP ordering needs repair).
func (m *Mouse) checkInjectedDown(ev event.MouseEvent) Result {
	if ev.IsResend() {
		m.markResendEdge(ev.Button, edgeDown)
	}
	return Pass
}

// checkInjectedUp implements skip_injected_resend for UP plus the
// resend-ordering repair checker.
func (m *Mouse) checkInjectedUp(ev event.MouseEvent) Result {
	if ev.IsResendClick() {
		return Pass
	}
	if !ev.IsResend() {
		return Pass
	}
	prev := m.resendEdgeFor(ev.Button)
	m.markResendEdge(ev.Button, edgeUp)
	if prev == edgeNone || prev == edgeUp {
		log.Warnw("illegal resend ordering detected, repairing", "button", ev.Button)
		time.Sleep(time.Millisecond)
		m.inj.ResendUp(ev.Button, ev.Point, ev.Time)
		return Suppress
	}
	return Pass
}

func (m *Mouse) resendEdgeFor(b event.Button) resendEdge {
	if b == event.ButtonL {
		return m.lastResendLeft
	}
	return m.lastResendRight
}

func (m *Mouse) markResendEdge(b event.Button, e resendEdge) {
	if b == event.ButtonL {
		m.lastResendLeft = e
	} else if b == event.ButtonR {
		m.lastResendRight = e
	}
}

func (m *Mouse) isTriggerButton(t event.Trigger, b event.Button) bool {
	switch t {
	case event.TriggerLR:
		return b == event.ButtonL || b == event.ButtonR
	case event.TriggerLeft, event.TriggerLeftDrag:
		return b == event.ButtonL
	case event.TriggerRight, event.TriggerRightDrag:
		return b == event.ButtonR
	case event.TriggerMiddle, event.TriggerMiddleDrag:
		return b == event.ButtonM
	case event.TriggerX1, event.TriggerX1Drag:
		return b == event.ButtonX1
	case event.TriggerX2, event.TriggerX2Drag:
		return b == event.ButtonX2
	default:
		return false
	}
}

// checkChordDown arms the waiter on the primary button's DOWN, or
// resolves an already-armed wait via offer_event_waiter (handled
// above in OnDown before dispatch reaches here for the second press).
func (m *Mouse) checkChordDown(ev event.MouseEvent, cfg config.Settings) Result {
	if !m.isTriggerButton(cfg.Trigger, ev.Button) {
		return Pass
	}
	if m.state.Mode() == modestate.ModeReleased {
		m.state.Exit()
		m.session.Stop()
		return Suppress
	}
	if m.w.State() != waiter.Idle {
		return Pass
	}
	if m.w.Start(ev, time.Duration(cfg.PollTimeoutMS)*time.Millisecond) {
		m.flags.SetButton(ev.Button, modestate.LatchSuppressed)
		return Suppress
	}
	return Pass
}

func (m *Mouse) checkExitChordUp(ev event.MouseEvent, cfg config.Settings) Result {
	if !m.isTriggerButton(cfg.Trigger, ev.Button) {
		return Pass
	}
	switch m.state.Mode() {
	case modestate.ModeActive:
		if ev.Point == m.state.StartPoint() {
			// check_starting_scroll: swallow the UP belonging to the DOWN
			// that initiated scroll mode.
			return Suppress
		}
		m.state.Release()
		return Suppress
	case modestate.ModeReleased:
		if m.state.ExitIfLockExpired(ev.Time, time.Duration(cfg.ScrollLockTimeMS)*time.Millisecond) {
			m.session.Stop()
			return Pass
		}
		return Suppress
	default:
		// IDLE/STARTING here means the matching DOWN was already
		// suppressed (e.g. the RELEASED->IDLE transition in
		// checkChordDown) — passing this UP through would send the OS
		// an up with no preceding down.
		return Suppress
	}
}

func (m *Mouse) checkSingleDown(ev event.MouseEvent, cfg config.Settings) Result {
	if !m.isTriggerButton(cfg.Trigger, ev.Button) {
		return Pass
	}
	switch m.state.Mode() {
	case modestate.ModeReleased:
		m.state.Exit()
		m.session.Stop()
		return Suppress
	case modestate.ModeIdle:
		m.state.EnterStarting()
		m.state.EnterActive(ev.Point, ev.Time)
		m.session.Start(cfg, nil)
		return Suppress
	default:
		return Suppress
	}
}

func (m *Mouse) checkExitSingleUp(ev event.MouseEvent, cfg config.Settings) Result {
	if !m.isTriggerButton(cfg.Trigger, ev.Button) {
		return Pass
	}
	if m.state.Mode() == modestate.ModeActive {
		m.state.Release()
		return Suppress
	}
	return Suppress
}

// checkKeySendMiddle runs on every DOWN while send_middle_click is on,
// regardless of the configured scroll trigger: a shift/ctrl/alt-held
// click becomes a resent middle
// click. Continue defers to the trigger-specific checks when no
// qualifying modifier is held.
func (m *Mouse) checkKeySendMiddle(ev event.MouseEvent) Result {
	if !(m.mods.ShiftHeld() || m.mods.CtrlHeld() || m.mods.AltHeld()) {
		return Continue
	}
	m.inj.ResendClick(event.ButtonM, ev.Point)
	return Suppress
}

func (m *Mouse) checkDragDown(ev event.MouseEvent, cfg config.Settings) Result {
	if !m.isTriggerButton(cfg.Trigger, ev.Button) {
		return Pass
	}
	if m.state.Mode() == modestate.ModeReleased {
		m.state.Exit()
		m.session.Stop()
		m.flags.SetButton(ev.Button, modestate.LatchSuppressed)
		return Suppress
	}
	m.drag[ev.Button] = &dragTrack{armed: true, start: ev.Point}
	m.flags.SetButton(ev.Button, modestate.LatchSuppressed)
	return Suppress
}

func (m *Mouse) feedDrag(ev event.MouseEvent, cfg config.Settings) Result {
	var track *dragTrack
	for _, t := range m.drag {
		if t.armed && !t.dragged {
			track = t
			break
		}
	}
	if track == nil {
		return Continue
	}
	dx := absI32(ev.Point.X - track.start.X)
	dy := absI32(ev.Point.Y - track.start.Y)
	if dx > int32(cfg.DragThreshold) || dy > int32(cfg.DragThreshold) {
		track.dragged = true
		m.state.EnterStarting()
		m.state.EnterActive(track.start, ev.Time)
		m.session.Start(cfg, nil)
	}
	return Continue
}

func (m *Mouse) checkDragUp(ev event.MouseEvent, cfg config.Settings) Result {
	if !m.isTriggerButton(cfg.Trigger, ev.Button) {
		return Pass
	}
	track, ok := m.drag[ev.Button]
	if !ok {
		// No armed track means the matching DOWN was already suppressed
		// (RELEASED->IDLE in checkDragDown) or never arrived — passing
		// this UP through would send the OS an up with no preceding down.
		return Suppress
	}
	delete(m.drag, ev.Button)

	if track.dragged {
		if cfg.DraggedLock {
			m.state.Release()
		} else {
			m.state.Exit()
			m.session.Stop()
		}
		return Suppress
	}
	m.inj.ResendClick(ev.Button, ev.Point)
	return Suppress
}

func absI32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// Dispatch implements waiter.Dispatcher: it turns a resolved wait into
// the concrete resend/through-click/scroll-entry side effect.
func (m *Mouse) Dispatch(res waiter.Result) {
	b := res.D.Button
	cfg := m.cfgMgr.Get()
	switch res.Action {
	case waiter.ActionResendDown:
		m.flags.SetButton(b, modestate.LatchResent)
		m.inj.ResendDown(b, res.D.Point, res.D.Time)
	case waiter.ActionThroughClick:
		m.flags.SetButton(b, modestate.LatchResent)
		m.inj.ResendClick(b, res.D.Point)
	case waiter.ActionResendBoth:
		m.flags.SetButton(b, modestate.LatchResent)
		m.inj.ResendDown(b, res.D.Point, res.D.Time)
		m.inj.ResendUp(b, res.E.Point, res.E.Time)
	case waiter.ActionEnterScroll:
		m.flags.SetButton(b, modestate.LatchSuppressed)
		m.flags.SetButton(res.E.Button, modestate.LatchSuppressed)
		m.state.EnterStarting()
		m.state.EnterActive(res.D.Point, res.E.Time)
		m.session.Start(cfg, nil)
	}
}
