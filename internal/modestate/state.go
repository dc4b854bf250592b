// Package modestate holds the shared mode/state store: ScrollState's
// mode machine and LastFlags's per-button/per-VK latches. It sits
// below both classifier and core so neither forms an import cycle with
// the other.
package modestate

import (
	"sync"
	"sync/atomic"
	"time"

	"wheelgo/internal/event"
)

// Mode is the scroll-mode state machine.
type Mode int32

const (
	ModeIdle Mode = iota
	ModeStarting
	ModeActive
	ModeReleased
)

func (m Mode) String() string {
	switch m {
	case ModeStarting:
		return "STARTING"
	case ModeActive:
		return "ACTIVE"
	case ModeReleased:
		return "RELEASED"
	default:
		return "IDLE"
	}
}

// ScrollState is the shared mode/state store: one
// mutex guards every field; Mode() offers a lock-free atomic snapshot
// for read paths that only need the current mode.
type ScrollState struct {
	mu         sync.Mutex
	mode       int32 // atomic Mode
	startTime  uint32
	startPoint event.Point
	rawAccX    int32
	rawAccY    int32
}

// NewScrollState returns an IDLE state.
func NewScrollState() *ScrollState { return &ScrollState{} }

// Mode returns the current mode without blocking, via an atomic
// snapshot, for read paths that don't need the full lock.
func (s *ScrollState) Mode() Mode { return Mode(atomic.LoadInt32(&s.mode)) }

// EnterStarting arms the mode machine on a recognized trigger.
func (s *ScrollState) EnterStarting() {
	s.mu.Lock()
	defer s.mu.Unlock()
	atomic.StoreInt32(&s.mode, int32(ModeStarting))
}

// EnterActive confirms scroll mode and zeroes the raw accumulator:
// entry is always immediately followed by raw_acc = (0, 0).
func (s *ScrollState) EnterActive(start event.Point, now uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	atomic.StoreInt32(&s.mode, int32(ModeActive))
	s.startTime = now
	s.startPoint = start
	s.rawAccX, s.rawAccY = 0, 0
}

// Release transitions ACTIVE->RELEASED on the triggering button's UP.
func (s *ScrollState) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if Mode(s.mode) == ModeActive {
		atomic.StoreInt32(&s.mode, int32(ModeReleased))
	}
}

// ExitIfLockExpired transitions RELEASED->IDLE once scrollLockTime has
// elapsed since entry, on the next observed event. Returns true if it
// exited.
func (s *ScrollState) ExitIfLockExpired(now uint32, lockTime time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if Mode(s.mode) != ModeReleased {
		return false
	}
	if elapsedMS(s.startTime, now) > uint32(lockTime.Milliseconds()) {
		atomic.StoreInt32(&s.mode, int32(ModeIdle))
		return true
	}
	return false
}

// Exit forces IDLE unconditionally, for Escape handling and a full
// reset.
func (s *ScrollState) Exit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	atomic.StoreInt32(&s.mode, int32(ModeIdle))
}

// Accumulate adds a raw delta to the accumulator under lock and
// returns the new totals. No-op when not ACTIVE.
func (s *ScrollState) Accumulate(dx, dy int32) (accX, accY int32, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if Mode(s.mode) != ModeActive {
		return 0, 0, false
	}
	s.rawAccX += dx
	s.rawAccY += dy
	return s.rawAccX, s.rawAccY, true
}

// StartPoint returns the point scroll mode was entered at.
func (s *ScrollState) StartPoint() event.Point {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startPoint
}

func elapsedMS(start, now uint32) uint32 {
	if now >= start {
		return now - start
	}
	return 0
}

// LatchBit identifies one of the three per-edge latches.
type LatchBit uint8

const (
	LatchResent LatchBit = 1 << iota
	LatchPassed
	LatchSuppressed
)

// LastFlags holds the per-button and per-VK {resent,passed,suppressed}
// latches. "Latch": Set writes true; GetReset
// reads and clears atomically, pairing a DOWN decision with its UP.
type LastFlags struct {
	buttons [5]atomic.Uint32 // indexed by event.Button-1 (L,R,M,X1,X2)
	keys    [256]atomic.Uint32
}

// NewLastFlags returns an all-clear latch bank.
func NewLastFlags() *LastFlags { return &LastFlags{} }

func (f *LastFlags) buttonSlot(b event.Button) *atomic.Uint32 {
	i := int(b) - 1
	if i < 0 || i >= len(f.buttons) {
		return nil
	}
	return &f.buttons[i]
}

// SetButton latches bit for button b.
func (f *LastFlags) SetButton(b event.Button, bit LatchBit) {
	if slot := f.buttonSlot(b); slot != nil {
		orBit(slot, uint32(bit))
	}
}

func orBit(slot *atomic.Uint32, bit uint32) {
	for {
		old := slot.Load()
		if slot.CompareAndSwap(old, old|bit) {
			return
		}
	}
}

// GetResetButton reads and clears bit for button b atomically.
func (f *LastFlags) GetResetButton(b event.Button, bit LatchBit) bool {
	slot := f.buttonSlot(b)
	if slot == nil {
		return false
	}
	for {
		old := slot.Load()
		if old&uint32(bit) == 0 {
			return false
		}
		if slot.CompareAndSwap(old, old&^uint32(bit)) {
			return true
		}
	}
}

// ResetButton clears all three latches for button b, on its DOWN edge.
func (f *LastFlags) ResetButton(b event.Button) {
	if slot := f.buttonSlot(b); slot != nil {
		slot.Store(0)
	}
}

// SetKey/GetResetKey mirror the button latches for the 256-entry VK
// suppress table.
func (f *LastFlags) SetKey(vk uint16, bit LatchBit) {
	orBit(&f.keys[byte(vk)], uint32(bit))
}

func (f *LastFlags) GetResetKey(vk uint16, bit LatchBit) bool {
	slot := &f.keys[byte(vk)]
	for {
		old := slot.Load()
		if old&uint32(bit) == 0 {
			return false
		}
		if slot.CompareAndSwap(old, old&^uint32(bit)) {
			return true
		}
	}
}

// ResetAll clears every latch, for a full Escape-triggered reset.
func (f *LastFlags) ResetAll() {
	for i := range f.buttons {
		f.buttons[i].Store(0)
	}
	for i := range f.keys {
		f.keys[i].Store(0)
	}
}
