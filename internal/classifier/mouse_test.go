package classifier

import (
	"testing"
	"time"

	"wheelgo/internal/config"
	"wheelgo/internal/event"
	"wheelgo/internal/modestate"
	"wheelgo/internal/scroll"
	"wheelgo/internal/waiter"
)

type fakeInjector struct {
	downs  []event.Button
	ups    []event.Button
	clicks []event.Button
	wheels []int32
}

func (f *fakeInjector) ResendDown(b event.Button, pt event.Point, t uint32) { f.downs = append(f.downs, b) }
func (f *fakeInjector) ResendUp(b event.Button, pt event.Point, t uint32)   { f.ups = append(f.ups, b) }
func (f *fakeInjector) ResendClick(b event.Button, pt event.Point)         { f.clicks = append(f.clicks, b) }
func (f *fakeInjector) EmitWheel(d int32)                                  { f.wheels = append(f.wheels, d) }
func (f *fakeInjector) EmitHWheel(d int32)                                 {}
func (f *fakeInjector) EmitKey(vk uint16, down bool)                       {}

var _ Injector = (*fakeInjector)(nil)
var _ ModifierProbe = (*fakeProbe)(nil)

type fakeProbe struct {
	esc, shift, ctrl, alt bool
}

func (p *fakeProbe) EscHeld() bool   { return p.esc }
func (p *fakeProbe) ShiftHeld() bool { return p.shift }
func (p *fakeProbe) CtrlHeld() bool  { return p.ctrl }
func (p *fakeProbe) AltHeld() bool   { return p.alt }

func newTestMouse(t *testing.T, trigger event.Trigger) (*Mouse, *fakeInjector, *modestate.ScrollState, *fakeProbe) {
	t.Helper()
	mgr, err := config.NewManager()
	if err != nil {
		t.Fatalf("config.NewManager: %v", err)
	}
	s := config.Defaults()
	s.Trigger = trigger
	s.PollTimeoutMS = 60
	mgr.Set(s)

	state := modestate.NewScrollState()
	flags := modestate.NewLastFlags()
	inj := &fakeInjector{}
	probe := &fakeProbe{}
	var m *Mouse
	w := waiter.New(waiterAdapter{&m})
	session := scroll.NewSession()
	m = NewMouse(mgr, state, flags, w, session, inj, probe)
	return m, inj, state, probe
}

// waiterAdapter breaks the init-order cycle between waiter.New (which
// needs a Dispatcher) and Mouse (which needs the Waiter it dispatches
// for) by indirecting through a pointer set after construction.
type waiterAdapter struct{ m **Mouse }

func (a waiterAdapter) Dispatch(res waiter.Result) { (*a.m).Dispatch(res) }

func TestLRChordEntersScrollMode(t *testing.T) {
	m, _, state, _ := newTestMouse(t, event.TriggerLR)

	down := event.MouseEvent{Kind: event.MouseDown, Button: event.ButtonL, Point: event.Point{X: 0, Y: 0}, Time: 0}
	if r := m.OnDown(down); r != Suppress {
		t.Fatalf("expected L_DOWN suppressed while waiter arms, got %v", r)
	}

	chord := event.MouseEvent{Kind: event.MouseDown, Button: event.ButtonR, Point: event.Point{X: 0, Y: 0}, Time: 50}
	if r := m.OnDown(chord); r != Suppress {
		t.Fatalf("expected R_DOWN (the offer) suppressed, got %v", r)
	}

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) && state.Mode() != modestate.ModeActive {
		time.Sleep(2 * time.Millisecond)
	}
	if state.Mode() != modestate.ModeActive {
		t.Fatalf("expected ACTIVE mode after chord resolves, got %v", state.Mode())
	}
}

func TestLRChordTimesOutIntoThroughDown(t *testing.T) {
	m, inj, state, _ := newTestMouse(t, event.TriggerLR)

	down := event.MouseEvent{Kind: event.MouseDown, Button: event.ButtonL, Point: event.Point{X: 5, Y: 5}, Time: 0}
	m.OnDown(down)

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) && len(inj.downs) == 0 {
		time.Sleep(2 * time.Millisecond)
	}
	if len(inj.downs) != 1 || inj.downs[0] != event.ButtonL {
		t.Fatalf("expected a resent L down on timeout, got %v", inj.downs)
	}
	if state.Mode() != modestate.ModeIdle {
		t.Fatalf("expected mode to remain IDLE after timeout, got %v", state.Mode())
	}
}

func TestSingleMiddleTrigger(t *testing.T) {
	m, _, state, _ := newTestMouse(t, event.TriggerMiddle)

	down := event.MouseEvent{Kind: event.MouseDown, Button: event.ButtonM, Point: event.Point{X: 0, Y: 0}, Time: 0}
	if r := m.OnDown(down); r != Suppress {
		t.Fatalf("expected M_DOWN suppressed entering scroll, got %v", r)
	}
	if state.Mode() != modestate.ModeActive {
		t.Fatalf("expected ACTIVE immediately, got %v", state.Mode())
	}

	up := event.MouseEvent{Kind: event.MouseUp, Button: event.ButtonM, Point: event.Point{X: 0, Y: 0}, Time: 10}
	m.OnUp(up)
	if state.Mode() != modestate.ModeReleased {
		t.Fatalf("expected RELEASED after UP before locktime, got %v", state.Mode())
	}

	down2 := event.MouseEvent{Kind: event.MouseDown, Button: event.ButtonM, Point: event.Point{X: 0, Y: 0}, Time: 20}
	if r := m.OnDown(down2); r != Suppress {
		t.Fatalf("expected second M_DOWN suppressed, got %v", r)
	}
	if state.Mode() != modestate.ModeIdle {
		t.Fatalf("expected IDLE after second down exits scroll, got %v", state.Mode())
	}
}

func TestDragTriggerWithLock(t *testing.T) {
	m, _, state, _ := newTestMouse(t, event.TriggerLeftDrag)
	mgr := m.cfgMgr
	s := mgr.Get()
	s.DragThreshold = 10
	s.DraggedLock = true
	mgr.Set(s)

	down := event.MouseEvent{Kind: event.MouseDown, Button: event.ButtonL, Point: event.Point{X: 0, Y: 0}, Time: 0}
	m.OnDown(down)
	if state.Mode() != modestate.ModeIdle {
		t.Fatalf("drag arm should not itself enter scroll mode, got %v", state.Mode())
	}

	move := event.MouseEvent{Kind: event.MouseMove, Point: event.Point{X: 12, Y: 0}, Time: 5}
	m.OnMove(move, 12, 0)
	if state.Mode() != modestate.ModeActive {
		t.Fatalf("expected ACTIVE once drag threshold exceeded, got %v", state.Mode())
	}

	up := event.MouseEvent{Kind: event.MouseUp, Button: event.ButtonL, Point: event.Point{X: 12, Y: 0}, Time: 6}
	if r := m.OnUp(up); r != Suppress {
		t.Fatalf("expected dragged UP suppressed, got %v", r)
	}
	if state.Mode() != modestate.ModeReleased {
		t.Fatalf("dragged_lock should RELEASE rather than exit, got %v", state.Mode())
	}

	down2 := event.MouseEvent{Kind: event.MouseDown, Button: event.ButtonL, Point: event.Point{X: 12, Y: 0}, Time: 7}
	if r := m.OnDown(down2); r != Suppress {
		t.Fatalf("expected next DOWN suppressed on exit, got %v", r)
	}
	if state.Mode() != modestate.ModeIdle {
		t.Fatalf("expected IDLE after exit, got %v", state.Mode())
	}
}

func TestEscapeAbortsActiveScroll(t *testing.T) {
	m, _, state, probe := newTestMouse(t, event.TriggerMiddle)

	down := event.MouseEvent{Kind: event.MouseDown, Button: event.ButtonM, Point: event.Point{X: 0, Y: 0}, Time: 0}
	m.OnDown(down)
	if state.Mode() != modestate.ModeActive {
		t.Fatal("setup: expected ACTIVE")
	}

	probe.esc = true
	up := event.MouseEvent{Kind: event.MouseUp, Button: event.ButtonR, Point: event.Point{X: 1, Y: 1}, Time: 1}
	if r := m.OnUp(up); r != Suppress {
		t.Fatalf("expected escape to suppress the triggering UP, got %v", r)
	}
	if state.Mode() != modestate.ModeIdle {
		t.Fatalf("expected full reset to IDLE on escape, got %v", state.Mode())
	}
}

func TestResendOrderingRepair(t *testing.T) {
	m, inj, _, _ := newTestMouse(t, event.TriggerLR)

	upNoDown := event.MouseEvent{
		Kind: event.MouseUp, Button: event.ButtonL, Point: event.Point{X: 1, Y: 1},
		Flags: event.FlagInjected, Extra: event.RESEND_TAG,
	}
	if r := m.OnUp(upNoDown); r != Suppress {
		t.Fatalf("expected illegal resend ordering to be suppressed after repair, got %v", r)
	}
	if len(inj.ups) != 1 || inj.ups[0] != event.ButtonL {
		t.Fatalf("expected a repair UP to be injected, got %v", inj.ups)
	}
}
