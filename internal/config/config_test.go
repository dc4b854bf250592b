package config

import (
	"os"
	"path/filepath"
	"testing"

	"wheelgo/internal/event"
)

func newManagerAt(t *testing.T, path string) *Manager {
	t.Helper()
	m := &Manager{path: path}
	d := Defaults()
	m.current.Store(&d)
	return m
}

func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wheelgo.ini")
	m := newManagerAt(t, path)

	if err := m.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	got := m.Get()
	want := Defaults()
	if got.Trigger != want.Trigger || got.PollTimeoutMS != want.PollTimeoutMS {
		t.Errorf("Get() after missing-file Load = %+v, want defaults %+v", got, want)
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wheelgo.ini")
	m := newManagerAt(t, path)

	s := Defaults()
	s.Trigger = event.TriggerMiddle
	s.PollTimeoutMS = 250
	s.HorizontalScroll = false
	s.AccelMethod = AccelPresetM8
	m.Set(s)

	if err := m.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	reloaded := newManagerAt(t, path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	got := reloaded.Get()
	if got.Trigger != event.TriggerMiddle {
		t.Errorf("Trigger = %v, want %v", got.Trigger, event.TriggerMiddle)
	}
	if got.PollTimeoutMS != 250 {
		t.Errorf("PollTimeoutMS = %d, want 250", got.PollTimeoutMS)
	}
	if got.HorizontalScroll {
		t.Error("HorizontalScroll = true, want false")
	}
	if got.AccelMethod != AccelPresetM8 {
		t.Errorf("AccelMethod = %v, want %v", got.AccelMethod, AccelPresetM8)
	}
}

func TestLoadIgnoresOutOfRangeValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wheelgo.ini")
	ini := "[Scroll]\npoll_timeout = 9999\n"
	if err := os.WriteFile(path, []byte(ini), 0o644); err != nil {
		t.Fatal(err)
	}

	m := newManagerAt(t, path)
	if err := m.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := m.Get().PollTimeoutMS; got != Defaults().PollTimeoutMS {
		t.Errorf("PollTimeoutMS = %d, want default %d (out-of-range value should be ignored)", got, Defaults().PollTimeoutMS)
	}
}

func TestLoadIgnoresNonNumericValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wheelgo.ini")
	ini := "[Scroll]\nvertical_threshold = not-a-number\n"
	if err := os.WriteFile(path, []byte(ini), 0o644); err != nil {
		t.Fatal(err)
	}

	m := newManagerAt(t, path)
	if err := m.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := m.Get().VerticalThreshold; got != Defaults().VerticalThreshold {
		t.Errorf("VerticalThreshold = %d, want default %d", got, Defaults().VerticalThreshold)
	}
}

func TestLoadIgnoresInvalidTrigger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wheelgo.ini")
	ini := "[General]\ntrigger = not-a-trigger\n"
	if err := os.WriteFile(path, []byte(ini), 0o644); err != nil {
		t.Fatal(err)
	}

	m := newManagerAt(t, path)
	if err := m.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := m.Get().Trigger; got != Defaults().Trigger {
		t.Errorf("Trigger = %v, want default %v", got, Defaults().Trigger)
	}
}

type recordingObserver struct {
	triggers []event.Trigger
}

func (r *recordingObserver) OnTriggerChanged(t event.Trigger) {
	r.triggers = append(r.triggers, t)
}

func TestSetNotifiesObserverOnlyOnTriggerChange(t *testing.T) {
	m := newManagerAt(t, filepath.Join(t.TempDir(), "wheelgo.ini"))
	obs := &recordingObserver{}
	m.RegisterObserver(obs)

	s := m.Get()
	s.PollTimeoutMS = 300
	m.Set(s) // no trigger change

	if len(obs.triggers) != 0 {
		t.Fatalf("observer notified %d times for a non-trigger change, want 0", len(obs.triggers))
	}

	s.Trigger = event.TriggerRight
	m.Set(s)

	if len(obs.triggers) != 1 || obs.triggers[0] != event.TriggerRight {
		t.Fatalf("observer.triggers = %v, want [%v]", obs.triggers, event.TriggerRight)
	}
}

func TestAccelTableValid(t *testing.T) {
	valid := PresetTable(AccelPresetM5)
	if !valid.Valid() {
		t.Error("PresetTable(AccelPresetM5).Valid() = false, want true")
	}

	cases := []AccelTable{
		{Thresholds: nil, Multipliers: nil},
		{Thresholds: []int32{1, 1}, Multipliers: []float64{1.0, 2.0}},        // not strictly ascending
		{Thresholds: []int32{1, 2}, Multipliers: []float64{1.0}},             // length mismatch
		{Thresholds: []int32{1, 2}, Multipliers: []float64{1.0, -1.0}},       // non-positive multiplier
		{Thresholds: []int32{0, 2}, Multipliers: []float64{1.0, 2.0}},        // non-positive threshold
	}
	for i, c := range cases {
		if c.Valid() {
			t.Errorf("case %d: Valid() = true, want false for %+v", i, c)
		}
	}
}

func TestEffectiveAccelTableFallsBackWhenCustomInvalid(t *testing.T) {
	s := Defaults()
	s.AccelMethod = AccelCustom
	s.CustomAccel = AccelTable{Thresholds: []int32{5, 1}, Multipliers: []float64{1.0, 2.0}}

	got := s.EffectiveAccelTable()
	want := PresetTable(AccelPresetM5)
	if len(got.Thresholds) != len(want.Thresholds) || got.Thresholds[0] != want.Thresholds[0] {
		t.Errorf("EffectiveAccelTable() with invalid custom table = %+v, want fallback %+v", got, want)
	}
}
