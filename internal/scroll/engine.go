package scroll

import (
	"wheelgo/internal/config"
)

// Direction is the VH adjuster's locked axis.
type Direction int

const (
	DirNone Direction = iota
	DirVertical
	DirHorizontal
)

// Emitter receives synthesized wheel events for injection. The scroll
// engine never talks to the injection queue directly so it stays
// testable without a Sink.
type Emitter interface {
	EmitWheel(delta int32)
	EmitHWheel(delta int32)
}

// CursorNotifier is told when the VH adjuster locks or changes
// direction, so an external collaborator can swap the system cursor
// shape. Changing the cursor itself is out of scope for this package
// beyond the notification.
type CursorNotifier interface {
	OnDirectionChanged(d Direction)
}

type noopCursorNotifier struct{}

func (noopCursorNotifier) OnDirectionChanged(Direction) {}

// Engine converts accumulated raw motion into wheel events per the
// active output mode (direct, real-wheel, VH-adjusted). Session builds
// a fresh Engine on every scroll-mode enter and drops it on exit.
type Engine struct {
	cfg config.Settings

	accX, accY int32 // accumulated raw motion since scroll-mode enter

	vwCount, hwCount       int32 // real-wheel running magnitude accumulators
	vwLastSign, hwLastSign int32 // -1, 0, or 1; last emitted direction per axis

	vhDir Direction

	cursor CursorNotifier
}

// NewEngine creates an Engine for one scroll-mode session using a
// snapshot of the current settings (the session does not react to a
// config change mid-flight; the next session picks up the new values).
func NewEngine(cfg config.Settings, cursor CursorNotifier) *Engine {
	if cursor == nil {
		cursor = noopCursorNotifier{}
	}
	e := &Engine{cfg: cfg, cursor: cursor}
	e.Reset()
	return e
}

// Reset zeroes the accumulator, direction lock, and real-wheel
// counters (seeded per quick_first). Must run under the scroll-state
// lock on every mode transition into ACTIVE, so the accumulator is
// always zeroed before a subsequent enter.
func (e *Engine) Reset() {
	e.accX, e.accY = 0, 0
	e.vhDir = DirNone
	e.vwLastSign, e.hwLastSign = 0, 0
	if e.cfg.QuickFirst {
		e.vwCount, e.hwCount = int32(e.cfg.VWheelMove), int32(e.cfg.HWheelMove)
	} else {
		e.vwCount, e.hwCount = int32(e.cfg.VWheelMove)/2, int32(e.cfg.HWheelMove)/2
	}
}

// Feed accumulates one instantaneous (dx,dy) raw delta and emits zero
// or more wheel events via out. Must be called under the scroll-state
// lock.
func (e *Engine) Feed(dx, dy int32, out Emitter) {
	if e.cfg.SwapScroll {
		dx, dy = dy, dx
	}
	e.accX += dx
	e.accY += dy

	switch {
	case e.cfg.VHAdjusterMode && e.cfg.HorizontalScroll:
		e.feedVH(dx, dy, out)
	case e.cfg.RealWheelMode:
		e.feedRealWheel(dx, dy, out)
	default:
		e.feedDirect(dx, dy, out)
	}
}

func (e *Engine) applyAccel(d int32) int32 {
	if !e.cfg.AccelEnabled || d == 0 {
		return d
	}
	return Accelerate(d, e.cfg.EffectiveAccelTable())
}

// vOut/hOut apply an asymmetric default polarity: with reverse_scroll
// off, vertical output is sign-flipped relative to input (so dragging
// down scrolls content down) while horizontal is passed through;
// toggling reverse_scroll swaps both polarities at once.
func vOut(d int32) int32 {
	return -d
}

func hOut(d int32) int32 {
	return d
}

func applyReverse(v int32, reversed bool) int32 {
	if reversed {
		return -v
	}
	return v
}

// feedDirect implements the non-VH, non-real-wheel path: every raw
// delta becomes one accelerated wheel event, gated by the vertical/
// horizontal thresholds against the running accumulator.
func (e *Engine) feedDirect(dx, dy int32, out Emitter) {
	if dy != 0 && absI32(e.accY) > int32(e.cfg.VerticalThreshold) {
		out.EmitWheel(applyReverse(vOut(e.applyAccel(dy)), e.cfg.ReverseScroll))
	}
	if e.cfg.HorizontalScroll && dx != 0 && absI32(e.accX) > int32(e.cfg.HorizontalThreshold) {
		out.EmitHWheel(applyReverse(hOut(e.applyAccel(dx)), e.cfg.ReverseScroll))
	}
}

// vWheelDelta/hWheelDelta compute the fixed-magnitude real-wheel step
// for a given instantaneous delta's sign.
// Acceleration does not apply in real-wheel mode; only sign and
// reverse_scroll affect the fixed wheel_delta magnitude.
func vWheelDelta(d int32, wheelDelta int32, reversed bool) int32 {
	delta := wheelDelta
	if d > 0 {
		delta = -wheelDelta
	}
	return applyReverse(delta, reversed)
}

func hWheelDelta(d int32, wheelDelta int32, reversed bool) int32 {
	return -vWheelDelta(d, wheelDelta, reversed)
}

// feedRealWheel implements counter-based emission: accumulate |d| into
// a running counter, emit a fixed wheel_delta step each time the
// counter crosses v_wheel_move/h_wheel_move. quick_turn emits
// immediately on sign reversal and resets that axis's counter to |d|.
func (e *Engine) feedRealWheel(dx, dy int32, out Emitter) {
	e.stepRealWheel(&e.vwCount, &e.vwLastSign, dy, int32(e.cfg.VWheelMove), true, func(d int32) {
		out.EmitWheel(vWheelDelta(d, int32(e.cfg.WheelDelta), e.cfg.ReverseScroll))
	})
	if e.cfg.HorizontalScroll {
		e.stepRealWheel(&e.hwCount, &e.hwLastSign, dx, int32(e.cfg.HWheelMove), false, func(d int32) {
			out.EmitHWheel(hWheelDelta(d, int32(e.cfg.WheelDelta), e.cfg.ReverseScroll))
		})
	}
}

func (e *Engine) stepRealWheel(count, lastSign *int32, d, move int32, _ bool, emit func(int32)) {
	if d == 0 {
		return
	}
	sign := int32(1)
	if d < 0 {
		sign = -1
	}
	ad := absI32(d)

	if e.cfg.QuickTurn && *lastSign != 0 && *lastSign != sign {
		emit(d)
		*count = ad
		*lastSign = sign
		return
	}

	*count += ad
	if *count >= move {
		emit(d)
		*count -= move
	}
	*lastSign = sign
}

// feedVH implements the VH adjuster: lock a direction on the first
// motion that exceeds first_min_threshold (using the accumulated
// magnitude so a slow diagonal drag still resolves a clear axis), then
// either hold it (Fixed) or re-evaluate it every call once
// switching_threshold is exceeded (Switching). Emission itself uses
// the instantaneous per-call delta, routed through the direct or
// real-wheel sender per real_wheel_mode.
func (e *Engine) feedVH(dx, dy int32, out Emitter) {
	adx, ady := absI32(e.accX), absI32(e.accY)

	var cur Direction
	if e.vhDir == DirNone {
		cur = e.getFirstVHD(adx, ady)
	} else if e.cfg.VHMethod == config.VHSwitching {
		cur = e.switchVHD(adx, ady)
	} else {
		cur = e.vhDir
	}

	if cur != DirNone && cur != e.vhDir {
		e.vhDir = cur
		e.cursor.OnDirectionChanged(cur)
	}

	switch e.vhDir {
	case DirVertical:
		if dy == 0 {
			return
		}
		if e.cfg.RealWheelMode {
			e.stepRealWheel(&e.vwCount, &e.vwLastSign, dy, int32(e.cfg.VWheelMove), true, func(d int32) {
				out.EmitWheel(vWheelDelta(d, int32(e.cfg.WheelDelta), e.cfg.ReverseScroll))
			})
		} else {
			out.EmitWheel(applyReverse(vOut(e.applyAccel(dy)), e.cfg.ReverseScroll))
		}
	case DirHorizontal:
		if dx == 0 {
			return
		}
		if e.cfg.RealWheelMode {
			e.stepRealWheel(&e.hwCount, &e.hwLastSign, dx, int32(e.cfg.HWheelMove), false, func(d int32) {
				out.EmitHWheel(hWheelDelta(d, int32(e.cfg.WheelDelta), e.cfg.ReverseScroll))
			})
		} else {
			out.EmitHWheel(applyReverse(hOut(e.applyAccel(dx)), e.cfg.ReverseScroll))
		}
	}
}

func (e *Engine) getFirstVHD(adx, ady int32) Direction {
	mthr := int32(e.cfg.FirstMinThreshold)
	if adx <= mthr && ady <= mthr {
		return DirNone
	}
	y := ady
	if e.cfg.FirstPreferVert {
		y *= 2
	}
	if y >= adx {
		return DirVertical
	}
	return DirHorizontal
}

func (e *Engine) switchVHD(adx, ady int32) Direction {
	thr := int32(e.cfg.SwitchingThreshold)
	if ady > thr {
		return DirVertical
	}
	if adx > thr {
		return DirHorizontal
	}
	return DirNone
}

func absI32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
