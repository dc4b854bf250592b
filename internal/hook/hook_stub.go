//go:build !windows

package hook

import "wheelgo/internal/classifier"

// Hook is a no-op placeholder on platforms without a native low-level
// hook implementation. The low-level mouse/keyboard hook is a Windows
// API surface with no portable equivalent, so Install reports
// ErrUnsupported rather than attempting a partial emulation.
type Hook struct{}

// New creates a Hook stub.
func New() *Hook { return &Hook{} }

// Install always fails on this platform.
func (h *Hook) Install(dispatcher Dispatcher) error { return ErrUnsupported }

// Uninstall is a no-op since Install never succeeds.
func (h *Hook) Uninstall() {}

// NewModifierProbe returns AlwaysIdle off Windows: there is no
// GetAsyncKeyState equivalent, and Install already fails before this
// probe would ever be consulted.
func NewModifierProbe() classifier.ModifierProbe { return classifier.AlwaysIdle{} }
