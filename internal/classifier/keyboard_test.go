package classifier

import (
	"testing"

	"wheelgo/internal/config"
	"wheelgo/internal/event"
	"wheelgo/internal/modestate"
	"wheelgo/internal/scroll"
)

func newTestKeyboard(t *testing.T, vk uint16) (*Keyboard, *modestate.ScrollState) {
	t.Helper()
	mgr, err := config.NewManager()
	if err != nil {
		t.Fatalf("config.NewManager: %v", err)
	}
	s := config.Defaults()
	s.TargetVK = vk
	mgr.Set(s)

	state := modestate.NewScrollState()
	flags := modestate.NewLastFlags()
	session := scroll.NewSession()
	return NewKeyboard(mgr, state, flags, session), state
}

func TestKeyboardTriggerEntersAndExitsScroll(t *testing.T) {
	const vk = 0x70 // F1
	k, state := newTestKeyboard(t, vk)

	down := event.KeyboardEvent{Kind: event.KeyDown, VK: vk, Time: 0}
	if r := k.OnDown(down); r != Suppress {
		t.Fatalf("expected target VK down suppressed, got %v", r)
	}
	if state.Mode() != modestate.ModeActive {
		t.Fatalf("expected ACTIVE after target VK down, got %v", state.Mode())
	}

	up := event.KeyboardEvent{Kind: event.KeyUp, VK: vk, Time: 10}
	if r := k.OnUp(up); r != Suppress {
		t.Fatalf("expected target VK up suppressed, got %v", r)
	}
	if state.Mode() != modestate.ModeReleased {
		t.Fatalf("expected RELEASED after target VK up, got %v", state.Mode())
	}

	down2 := event.KeyboardEvent{Kind: event.KeyDown, VK: vk, Time: 20}
	if r := k.OnDown(down2); r != Suppress {
		t.Fatalf("expected second down suppressed, got %v", r)
	}
	if state.Mode() != modestate.ModeIdle {
		t.Fatalf("expected IDLE after exit-on-second-down, got %v", state.Mode())
	}
}

func TestKeyboardNonTargetVKPasses(t *testing.T) {
	k, state := newTestKeyboard(t, 0x70)

	down := event.KeyboardEvent{Kind: event.KeyDown, VK: 0x41, Time: 0}
	if r := k.OnDown(down); r != Pass {
		t.Fatalf("expected non-target VK to pass, got %v", r)
	}
	up := event.KeyboardEvent{Kind: event.KeyUp, VK: 0x41, Time: 1}
	if r := k.OnUp(up); r != Pass {
		t.Fatalf("expected non-target VK up to pass, got %v", r)
	}
	if state.Mode() != modestate.ModeIdle {
		t.Fatalf("expected mode untouched by non-target key, got %v", state.Mode())
	}
}

func TestKeyboardLockExpiryReturnsToIdle(t *testing.T) {
	const vk = 0x70
	k, state := newTestKeyboard(t, vk)

	k.OnDown(event.KeyboardEvent{Kind: event.KeyDown, VK: vk, Time: 0})
	k.OnUp(event.KeyboardEvent{Kind: event.KeyUp, VK: vk, Time: 1})
	if state.Mode() != modestate.ModeReleased {
		t.Fatalf("setup: expected RELEASED, got %v", state.Mode())
	}

	if k.ExitIfLockExpired(2) {
		t.Fatal("expected lock not yet expired at t=2")
	}
	if !k.ExitIfLockExpired(1 + uint32(config.Defaults().ScrollLockTimeMS) + 1) {
		t.Fatal("expected lock expired once scroll_lock_time has elapsed")
	}
	if state.Mode() != modestate.ModeIdle {
		t.Fatalf("expected IDLE after lock expiry, got %v", state.Mode())
	}
}
