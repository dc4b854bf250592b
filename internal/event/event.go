// Package event defines the value types that flow through the
// classifier, waiter and scroll engine: trigger selection, raw mouse
// and keyboard events, and the fixed tags that mark the core's own
// injected events.
package event

import "fmt"

// Trigger identifies the button, chord or key that enters scroll mode.
type Trigger int

const (
	TriggerNone Trigger = iota
	TriggerLR
	TriggerLeft
	TriggerRight
	TriggerMiddle
	TriggerX1
	TriggerX2
	TriggerLeftDrag
	TriggerRightDrag
	TriggerMiddleDrag
	TriggerX1Drag
	TriggerX2Drag
)

var triggerNames = map[Trigger]string{
	TriggerNone:       "None",
	TriggerLR:         "LR",
	TriggerLeft:       "Left",
	TriggerRight:      "Right",
	TriggerMiddle:     "Middle",
	TriggerX1:         "X1",
	TriggerX2:         "X2",
	TriggerLeftDrag:   "LeftDrag",
	TriggerRightDrag:  "RightDrag",
	TriggerMiddleDrag: "MiddleDrag",
	TriggerX1Drag:     "X1Drag",
	TriggerX2Drag:     "X2Drag",
}

func (t Trigger) String() string {
	if s, ok := triggerNames[t]; ok {
		return s
	}
	return "Unknown"
}

// ParseTrigger maps a config string to a Trigger. Unknown strings
// return TriggerNone and false so callers can fall back to the
// previous value without hard-failing (configuration errors are
// never fatal, per the error-handling design).
func ParseTrigger(s string) (Trigger, bool) {
	for t, name := range triggerNames {
		if name == s {
			return t, true
		}
	}
	return TriggerNone, false
}

// IsDouble reports whether the trigger is a two-button chord (LR).
func (t Trigger) IsDouble() bool { return t == TriggerLR }

// IsDrag reports whether the trigger requires a motion threshold
// after the initial DOWN rather than resolving via the waiter.
func (t Trigger) IsDrag() bool {
	switch t {
	case TriggerLeftDrag, TriggerRightDrag, TriggerMiddleDrag, TriggerX1Drag, TriggerX2Drag:
		return true
	default:
		return false
	}
}

// IsSingle reports whether the trigger resolves from one button alone
// with no waiter rendezvous (Middle, X1, X2).
func (t Trigger) IsSingle() bool {
	switch t {
	case TriggerMiddle, TriggerX1, TriggerX2:
		return true
	default:
		return false
	}
}

// Button identifies a physical mouse button.
type Button int

const (
	ButtonNone Button = iota
	ButtonL
	ButtonR
	ButtonM
	ButtonX1
	ButtonX2
)

func (b Button) String() string {
	switch b {
	case ButtonL:
		return "L"
	case ButtonR:
		return "R"
	case ButtonM:
		return "M"
	case ButtonX1:
		return "X1"
	case ButtonX2:
		return "X2"
	default:
		return "None"
	}
}

// MouseKind is the type of a MouseEvent.
type MouseKind int

const (
	MouseNone MouseKind = iota
	MouseDown
	MouseUp
	MouseMove
	// MouseWheel and MouseHWheel are synthesized by the scroll engine,
	// and also arrive from the hook for hardware wheel motion (core
	// passes those through unclassified). MouseData carries the signed
	// wheel delta as its two's-complement uint32 bit pattern.
	MouseWheel
	MouseHWheel
)

// InjectFlag marks whether a MouseEvent originated from hardware or
// from the core's own injector.
type InjectFlag uint32

const (
	FlagHardware InjectFlag = 0
	FlagInjected InjectFlag = 1
	// FlagInjectedAlt covers the two distinct injected-flag bits Windows
	// reports (LLMHF_INJECTED vs LLMHF_LOWER_IL_INJECTED); both are
	// treated identically by the classifier.
	FlagInjectedAlt InjectFlag = 2
)

func (f InjectFlag) IsInjected() bool { return f == FlagInjected || f == FlagInjectedAlt }

// Point is an integer screen coordinate.
type Point struct {
	X, Y int32
}

// MouseEvent is a single low-level mouse event as delivered by (or
// synthesized for) the hook.
type MouseEvent struct {
	Kind       MouseKind
	Button     Button
	Point      Point
	Time       uint32
	Flags      InjectFlag
	Extra      uint32 // tag: RESEND_TAG, RESEND_CLICK_TAG, or 0
	MouseData  uint32 // wheel delta / xbutton id, as delivered by the OS
}

func (e MouseEvent) String() string {
	return fmt.Sprintf("Mouse{%s %s @(%d,%d) t=%d flags=%d extra=0x%x}",
		e.Button, kindName(e.Kind), e.Point.X, e.Point.Y, e.Time, e.Flags, e.Extra)
}

func kindName(k MouseKind) string {
	switch k {
	case MouseDown:
		return "DOWN"
	case MouseUp:
		return "UP"
	case MouseMove:
		return "MOVE"
	case MouseWheel:
		return "WHEEL"
	case MouseHWheel:
		return "HWHEEL"
	default:
		return "NONE"
	}
}

// IsInjected reports whether the event was synthesized by this
// process's own injector (software-injected), as opposed to arriving
// from real hardware.
func (e MouseEvent) IsInjected() bool { return e.Flags.IsInjected() }

// IsResend reports whether the event carries this process's resend tag.
func (e MouseEvent) IsResend() bool { return e.Extra == RESEND_TAG }

// IsResendClick reports whether the event carries the synthetic
// through-click tag.
func (e MouseEvent) IsResendClick() bool { return e.Extra == RESEND_CLICK_TAG }

// KeyKind is the type of a KeyboardEvent.
type KeyKind int

const (
	KeyNone KeyKind = iota
	KeyDown
	KeyUp
)

// KeyboardEvent is a single low-level keyboard event.
type KeyboardEvent struct {
	Kind VKEventKind
	VK   uint16
	Time uint32
}

// VKEventKind aliases KeyKind to keep the field name in KeyboardEvent
// self-explanatory at call sites (ev.Kind == event.KeyDown).
type VKEventKind = KeyKind

func (e KeyboardEvent) String() string {
	name := "NONE"
	switch e.Kind {
	case KeyDown:
		name = "DOWN"
	case KeyUp:
		name = "UP"
	}
	return fmt.Sprintf("Key{vk=0x%02x %s t=%d}", e.VK, name, e.Time)
}

// Fixed 32-bit markers embedded in MouseEvent.Extra to identify
// synthetic events the core itself re-emitted. These are constants,
// not random, so the classifier recognizes its own events across a
// re-entrant send even after a process restart.
const (
	RESEND_TAG       uint32 = 0x57313057
	RESEND_CLICK_TAG uint32 = 0x57314357
)

// Well-known virtual-key codes the keyboard classifier and config
// reference by name.
const (
	VKEscape    uint16 = 0x1B
	VKShift     uint16 = 0x10
	VKControl   uint16 = 0x11
	VKMenu      uint16 = 0x12 // ALT
	VKLShift    uint16 = 0xA0
	VKRShift    uint16 = 0xA1
	VKLControl  uint16 = 0xA2
	VKRControl  uint16 = 0xA3
	VKLMenu     uint16 = 0xA4
	VKRMenu     uint16 = 0xA5
)
