// Package config is the read-heavy, write-rare settings store:
// typed, range-checked settings loaded from an INI profile, published
// atomically, with trigger-change notification to registered observers.
package config

import (
	"wheelgo/internal/event"
)

// AccelMethod selects between a fixed preset table and a user-supplied
// custom acceleration table.
type AccelMethod int

const (
	AccelPresetM5 AccelMethod = iota
	AccelPresetM6
	AccelPresetM7
	AccelPresetM8
	AccelPresetM9
	AccelCustom
)

var accelPresetNames = map[string]AccelMethod{
	"M5": AccelPresetM5,
	"M6": AccelPresetM6,
	"M7": AccelPresetM7,
	"M8": AccelPresetM8,
	"M9": AccelPresetM9,
}

// VHMethod selects how the VH adjuster handles direction changes after
// the initial lock.
type VHMethod int

const (
	VHFixed VHMethod = iota
	VHSwitching
)

// Priority is the injector worker's OS thread priority.
type Priority int

const (
	PriorityNormal Priority = iota
	PriorityAboveNormal
	PriorityHigh
)

// AccelTable holds a strictly-ascending threshold vector and a
// same-length multiplier vector.
type AccelTable struct {
	Thresholds  []int32
	Multipliers []float64
}

// Valid reports whether the table satisfies its invariants: equal
// length, length in [1,64], all thresholds positive and strictly
// ascending, all multipliers positive.
func (t AccelTable) Valid() bool {
	n := len(t.Thresholds)
	if n == 0 || n > 64 || n != len(t.Multipliers) {
		return false
	}
	prev := int32(0)
	for i, th := range t.Thresholds {
		if th <= prev {
			return false
		}
		prev = th
		if t.Multipliers[i] <= 0 {
			return false
		}
	}
	return true
}

// defaultThresholds is the fixed Kensington-style threshold vector
// shared by all built-in presets.
var defaultThresholds = []int32{1, 2, 3, 5, 7, 10, 14, 20, 30, 43, 63, 91}

var presetMultipliers = map[AccelMethod][]float64{
	AccelPresetM5: {1.0, 1.3, 1.7, 2.0, 2.4, 2.7, 3.1, 3.4, 3.8, 4.1, 4.5, 4.8},
	AccelPresetM6: {1.2, 1.6, 2.0, 2.4, 2.8, 3.3, 3.7, 4.1, 4.5, 4.9, 5.4, 5.8},
	AccelPresetM7: {1.4, 1.8, 2.3, 2.8, 3.3, 3.8, 4.3, 4.8, 5.3, 5.8, 6.3, 6.7},
	AccelPresetM8: {1.6, 2.1, 2.7, 3.2, 3.8, 4.4, 4.9, 5.5, 6.0, 6.6, 7.2, 7.7},
	AccelPresetM9: {1.8, 2.4, 3.0, 3.6, 4.3, 4.9, 5.5, 6.2, 6.8, 7.4, 8.1, 8.7},
}

// PresetTable returns the fixed table for a built-in preset.
func PresetTable(m AccelMethod) AccelTable {
	mult, ok := presetMultipliers[m]
	if !ok {
		mult = presetMultipliers[AccelPresetM5]
	}
	return AccelTable{Thresholds: append([]int32(nil), defaultThresholds...), Multipliers: append([]float64(nil), mult...)}
}

// Settings is the full, typed configuration snapshot. Out-of-range
// values loaded from disk are ignored in favor of the previous value
// (see Manager.decode).
type Settings struct {
	// General
	Trigger             event.Trigger
	Priority            Priority
	HealthCheckInterval int // seconds, 0..300, 0 = off

	// Scroll
	PollTimeoutMS       int // 50..500, default 200
	ScrollLockTimeMS    int // 150..500, default 200
	VerticalThreshold   int // 0..500, default 0
	HorizontalThreshold int // 0..500, default 75
	HorizontalScroll    bool
	DragThreshold       int // 0..500, default 0
	ReverseScroll       bool
	SwapScroll          bool
	CursorChange        bool
	DraggedLock         bool
	SendMiddleClick     bool

	// Acceleration
	AccelEnabled bool
	AccelMethod  AccelMethod
	CustomAccel  AccelTable

	// Real Wheel
	RealWheelMode bool
	WheelDelta    int // 10..500, default 120
	VWheelMove    int // 10..500, default 60
	HWheelMove    int // 10..500, default 60
	QuickFirst    bool
	QuickTurn     bool

	// VH Adjuster
	VHAdjusterMode     bool
	FirstMinThreshold  int // 1..10, default 5
	SwitchingThreshold int // 10..500, default 50
	FirstPreferVert    bool
	VHMethod           VHMethod

	// Keyboard
	TargetVK uint16
}

// Defaults returns the baseline settings document, before any
// on-disk profile is applied.
func Defaults() Settings {
	return Settings{
		Trigger:             event.TriggerLR,
		Priority:            PriorityHigh,
		HealthCheckInterval: 0,

		PollTimeoutMS:       200,
		ScrollLockTimeMS:    200,
		VerticalThreshold:   0,
		HorizontalThreshold: 75,
		HorizontalScroll:    true,
		DragThreshold:       0,
		ReverseScroll:       false,
		SwapScroll:          false,
		CursorChange:        true,
		DraggedLock:         true,
		SendMiddleClick:     false,

		AccelEnabled: true,
		AccelMethod:  AccelPresetM5,
		CustomAccel:  PresetTable(AccelPresetM5),

		RealWheelMode: false,
		WheelDelta:    120,
		VWheelMove:    60,
		HWheelMove:    60,
		QuickFirst:    true,
		QuickTurn:     true,

		VHAdjusterMode:     false,
		FirstMinThreshold:  5,
		SwitchingThreshold: 50,
		FirstPreferVert:    true,
		VHMethod:           VHFixed,

		// CapsLock, not Escape: Escape is the universal scroll-mode abort
		// key (see checkEscape), so defaulting the keyboard trigger to it
		// would make every abort also arm a new scroll session.
		TargetVK: 0x14,
	}
}

// EffectiveAccelTable returns the table to feed the scroll engine:
// CustomAccel when AccelMethod is AccelCustom and valid, else the
// fixed preset table.
func (s Settings) EffectiveAccelTable() AccelTable {
	if s.AccelMethod == AccelCustom && s.CustomAccel.Valid() {
		return s.CustomAccel
	}
	return PresetTable(s.AccelMethod)
}
