package classifier

import (
	"time"

	"wheelgo/internal/config"
	"wheelgo/internal/event"
	"wheelgo/internal/modestate"
	"wheelgo/internal/scroll"
)

// Keyboard is the keyboard classifier: a single configured
// target_vk arms scroll mode on DOWN, releases it on UP and exits it on
// the next DOWN, mirroring the mouse single-trigger chain.
type Keyboard struct {
	cfgMgr  *config.Manager
	state   *modestate.ScrollState
	flags   *modestate.LastFlags
	session *scroll.Session
}

// NewKeyboard wires a Keyboard classifier to its collaborators.
func NewKeyboard(cfgMgr *config.Manager, state *modestate.ScrollState, flags *modestate.LastFlags, session *scroll.Session) *Keyboard {
	return &Keyboard{cfgMgr: cfgMgr, state: state, flags: flags, session: session}
}

// OnDown handles a KEY_DOWN edge.
func (k *Keyboard) OnDown(ev event.KeyboardEvent) Result {
	cfg := k.cfgMgr.Get()
	if ev.VK != cfg.TargetVK {
		return Pass
	}

	switch k.state.Mode() {
	case modestate.ModeReleased:
		k.state.Exit()
		k.session.Stop()
		k.flags.SetKey(ev.VK, modestate.LatchSuppressed)
		return Suppress
	case modestate.ModeIdle:
		k.state.EnterStarting()
		k.state.EnterActive(event.Point{}, ev.Time)
		k.session.Start(cfg, nil)
		k.flags.SetKey(ev.VK, modestate.LatchSuppressed)
		return Suppress
	default:
		k.flags.SetKey(ev.VK, modestate.LatchSuppressed)
		return Suppress
	}
}

// OnUp handles a KEY_UP edge. A KEY_UP whose KEY_DOWN was suppressed
// must also be suppressed.
func (k *Keyboard) OnUp(ev event.KeyboardEvent) Result {
	if k.flags.GetResetKey(ev.VK, modestate.LatchSuppressed) {
		cfg := k.cfgMgr.Get()
		if ev.VK == cfg.TargetVK && k.state.Mode() == modestate.ModeActive {
			k.state.Release()
		}
		return Suppress
	}
	return Pass
}

// OnTriggerChanged implements config.ModeObserver: a newly published
// trigger invalidates any in-flight keyboard-triggered scroll mode.
// config.Manager notifies observers only on a trigger change, not on a
// target_vk change.
func (k *Keyboard) OnTriggerChanged(event.Trigger) {
	k.state.Exit()
	k.session.Stop()
}

// ExitIfLockExpired transitions RELEASED->IDLE and stops the session
// when called after scroll_lock_time has elapsed since scroll-mode
// entry. Core does not call it; a RELEASED keyboard scroll otherwise
// ends on the target key's next DOWN.
func (k *Keyboard) ExitIfLockExpired(now uint32) bool {
	cfg := k.cfgMgr.Get()
	if k.state.ExitIfLockExpired(now, time.Duration(cfg.ScrollLockTimeMS)*time.Millisecond) {
		k.session.Stop()
		return true
	}
	return false
}
