// Package classifier implements the mouse and keyboard checker chains:
// per-(button,edge) dispatch that decides pass/suppress and
// drives the trigger waiter, scroll-mode entry/exit, and resend
// repair.
package classifier

// Result is a checker's verdict. Pass calls the hook's call-next path
// (the event reaches other applications unchanged); Suppress swallows
// it; Continue defers to the next check in the caller's dispatch.
type Result int

const (
	Continue Result = iota
	Pass
	Suppress
)
