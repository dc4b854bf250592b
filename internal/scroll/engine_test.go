package scroll

import (
	"testing"

	"wheelgo/internal/config"
)

type recordingEmitter struct {
	wheel  []int32
	hwheel []int32
}

func (r *recordingEmitter) EmitWheel(d int32)  { r.wheel = append(r.wheel, d) }
func (r *recordingEmitter) EmitHWheel(d int32) { r.hwheel = append(r.hwheel, d) }

func TestAccelerateZeroIsAlwaysZero(t *testing.T) {
	for m := config.AccelPresetM5; m <= config.AccelPresetM9; m++ {
		table := config.PresetTable(m)
		if got := Accelerate(0, table); got != 0 {
			t.Fatalf("preset %v: accel(0) = %d, want 0", m, got)
		}
	}
}

func TestAccelerateNearestThresholdTieToSmallerIndex(t *testing.T) {
	table := config.AccelTable{
		Thresholds:  []int32{1, 3},
		Multipliers: []float64{2.0, 4.0},
	}
	// |1-2| == |3-2| == 1, tie goes to the smaller index (0).
	got := Accelerate(2, table)
	want := roundHalfUp(2 * 2.0)
	if got != want {
		t.Fatalf("got %d, want %d (tie should favor index 0)", got, want)
	}
}

func TestDirectModeThresholdGate(t *testing.T) {
	cfg := config.Defaults()
	cfg.AccelEnabled = false
	cfg.VerticalThreshold = 5
	cfg.HorizontalScroll = false
	e := NewEngine(cfg, nil)

	out := &recordingEmitter{}
	e.Feed(0, 3, out) // accY=3, not yet over threshold
	if len(out.wheel) != 0 {
		t.Fatalf("expected no emission below threshold, got %v", out.wheel)
	}
	e.Feed(0, 3, out) // accY=6 > 5
	if len(out.wheel) != 1 {
		t.Fatalf("expected one emission once threshold exceeded, got %v", out.wheel)
	}
}

func TestRealWheelQuickFirstImmediateEmission(t *testing.T) {
	cfg := config.Defaults()
	cfg.RealWheelMode = true
	cfg.AccelEnabled = false
	cfg.WheelDelta = 120
	cfg.VWheelMove = 60
	cfg.QuickFirst = true
	cfg.HorizontalScroll = false
	e := NewEngine(cfg, nil)

	out := &recordingEmitter{}
	e.Feed(0, 1, out)
	if len(out.wheel) != 1 {
		t.Fatalf("quick_first=true: expected immediate emission on first delta, got %v", out.wheel)
	}
}

func TestRealWheelNoQuickFirstDelaysEmission(t *testing.T) {
	cfg := config.Defaults()
	cfg.RealWheelMode = true
	cfg.AccelEnabled = false
	cfg.WheelDelta = 120
	cfg.VWheelMove = 60
	cfg.QuickFirst = false
	cfg.HorizontalScroll = false
	e := NewEngine(cfg, nil)

	out := &recordingEmitter{}
	for i := 0; i < 29; i++ {
		e.Feed(0, 1, out)
	}
	if len(out.wheel) != 0 {
		t.Fatalf("quick_first=false: expected no emission before 30 accumulated, got %v", out.wheel)
	}
	e.Feed(0, 1, out)
	if len(out.wheel) != 1 {
		t.Fatalf("expected emission once the half-seeded counter crosses v_wheel_move, got %v", out.wheel)
	}
}

func TestRealWheelQuickTurnResetsCounter(t *testing.T) {
	cfg := config.Defaults()
	cfg.RealWheelMode = true
	cfg.AccelEnabled = false
	cfg.WheelDelta = 120
	cfg.VWheelMove = 60
	cfg.QuickFirst = true
	cfg.QuickTurn = true
	cfg.HorizontalScroll = false
	e := NewEngine(cfg, nil)

	out := &recordingEmitter{}
	e.Feed(0, 5, out) // establishes positive direction, emits immediately (quick_first)
	n := len(out.wheel)
	e.Feed(0, -5, out) // sign reversal: quick_turn must emit immediately
	if len(out.wheel) != n+1 {
		t.Fatalf("expected an extra emission on sign reversal, got %v", out.wheel)
	}
	if e.vwCount != 5 {
		t.Fatalf("expected counter reset to |d|=5 on turn, got %d", e.vwCount)
	}
}

func TestVHAdjusterLocksVerticalOnVerticalBias(t *testing.T) {
	cfg := config.Defaults()
	cfg.VHAdjusterMode = true
	cfg.HorizontalScroll = true
	cfg.AccelEnabled = false
	cfg.FirstMinThreshold = 2
	cfg.FirstPreferVert = false
	e := NewEngine(cfg, nil)

	out := &recordingEmitter{}
	e.Feed(1, 10, out)
	if e.vhDir != DirVertical {
		t.Fatalf("expected vertical lock, got %v", e.vhDir)
	}
	if len(out.wheel) == 0 {
		t.Fatal("expected a vertical wheel emission once locked")
	}
	if len(out.hwheel) != 0 {
		t.Fatal("expected no horizontal emission while locked vertical")
	}
}

func TestVHAdjusterFixedMethodDoesNotSwitch(t *testing.T) {
	cfg := config.Defaults()
	cfg.VHAdjusterMode = true
	cfg.HorizontalScroll = true
	cfg.AccelEnabled = false
	cfg.FirstMinThreshold = 2
	cfg.VHMethod = config.VHFixed
	cfg.SwitchingThreshold = 3
	e := NewEngine(cfg, nil)

	out := &recordingEmitter{}
	e.Feed(1, 10, out) // locks vertical
	if e.vhDir != DirVertical {
		t.Fatalf("expected vertical lock, got %v", e.vhDir)
	}
	e.Feed(20, 0, out) // large horizontal motion; Fixed method must not switch
	if e.vhDir != DirVertical {
		t.Fatalf("fixed method should not switch direction, got %v", e.vhDir)
	}
}

func TestVHAdjusterSwitchingMethodSwitches(t *testing.T) {
	cfg := config.Defaults()
	cfg.VHAdjusterMode = true
	cfg.HorizontalScroll = true
	cfg.AccelEnabled = false
	cfg.FirstMinThreshold = 2
	cfg.FirstPreferVert = false
	cfg.VHMethod = config.VHSwitching
	cfg.SwitchingThreshold = 3
	e := NewEngine(cfg, nil)

	out := &recordingEmitter{}
	e.Feed(1, 3, out) // locks vertical: adx=1, ady=3
	if e.vhDir != DirVertical {
		t.Fatalf("expected vertical lock, got %v", e.vhDir)
	}
	e.Feed(20, 0, out) // accX now 21 > threshold=3, accY stays 3 (not > threshold)
	if e.vhDir != DirHorizontal {
		t.Fatalf("switching method should have switched to horizontal, got %v", e.vhDir)
	}
}

func TestReverseScrollFlipsVerticalAndHorizontalOppositely(t *testing.T) {
	cfgBase := config.Defaults()
	cfgBase.AccelEnabled = false
	cfgBase.VerticalThreshold = 0
	cfgBase.HorizontalThreshold = 0

	normal := NewEngine(cfgBase, nil)
	outN := &recordingEmitter{}
	normal.Feed(5, 5, outN)

	reversed := cfgBase
	reversed.ReverseScroll = true
	rev := NewEngine(reversed, nil)
	outR := &recordingEmitter{}
	rev.Feed(5, 5, outR)

	if outN.wheel[0] != -outR.wheel[0] {
		t.Fatalf("reverse_scroll should flip vertical sign: normal=%d reversed=%d", outN.wheel[0], outR.wheel[0])
	}
	if outN.hwheel[0] != -outR.hwheel[0] {
		t.Fatalf("reverse_scroll should flip horizontal sign: normal=%d reversed=%d", outN.hwheel[0], outR.hwheel[0])
	}
}

func TestSwapScrollExchangesAxes(t *testing.T) {
	cfg := config.Defaults()
	cfg.AccelEnabled = false
	cfg.VerticalThreshold = 0
	cfg.HorizontalThreshold = 0
	cfg.SwapScroll = true
	e := NewEngine(cfg, nil)

	out := &recordingEmitter{}
	e.Feed(7, 1, out) // swapped: dx becomes 1 (horizontal axis), dy becomes 7 (vertical axis)
	if e.accY != 7 || e.accX != 1 {
		t.Fatalf("swap_scroll should exchange axes before accumulation, accX=%d accY=%d", e.accX, e.accY)
	}
}
