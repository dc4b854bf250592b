//go:build windows

package hook

import (
	"wheelgo/internal/classifier"
	"wheelgo/internal/event"
)

var (
	procGetAsyncKeyState = user32.NewProc("GetAsyncKeyState")
)

// ModifierProbe polls modifier-key state out of band from the hook
// callback via GetAsyncKeyState rather than GetKeyState, since the
// probe must see the key's current physical state regardless of
// message-queue delivery order.
type ModifierProbe struct{}

// NewModifierProbe returns the Windows GetAsyncKeyState-backed probe.
func NewModifierProbe() classifier.ModifierProbe { return ModifierProbe{} }

func keyDown(vk uint16) bool {
	ret, _, _ := procGetAsyncKeyState.Call(uintptr(vk))
	return ret&0x8000 != 0
}

func (ModifierProbe) ShiftHeld() bool { return keyDown(event.VKShift) }
func (ModifierProbe) CtrlHeld() bool  { return keyDown(event.VKControl) }
func (ModifierProbe) AltHeld() bool   { return keyDown(event.VKMenu) }
func (ModifierProbe) EscHeld() bool   { return keyDown(event.VKEscape) }
