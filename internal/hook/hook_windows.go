//go:build windows

package hook

import (
	"fmt"
	"runtime"
	"sync"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"

	"wheelgo/internal/event"
	"wheelgo/internal/logging"
)

var log = logging.L("hook")

const (
	whMouseLL    = 14
	whKeyboardLL = 13

	wmMouseMove   = 0x0200
	wmLButtonDown = 0x0201
	wmLButtonUp   = 0x0202
	wmRButtonDown = 0x0204
	wmRButtonUp   = 0x0205
	wmMButtonDown = 0x0207
	wmMButtonUp   = 0x0208
	wmMouseWheel  = 0x020A
	wmXButtonDown = 0x020B
	wmXButtonUp   = 0x020C
	wmMouseHWheel = 0x020E

	wmKeyDown    = 0x0100
	wmKeyUp      = 0x0101
	wmSysKeyDown = 0x0104
	wmSysKeyUp   = 0x0105

	llMHFInjected      = 0x01
	llMHFLowerInjected = 0x02
	llKHFInjected      = 0x10

	xButton1 = 1
	xButton2 = 2
)

var (
	user32                  = windows.NewLazySystemDLL("user32.dll")
	kernel32                = windows.NewLazySystemDLL("kernel32.dll")
	procSetWindowsHookExW   = user32.NewProc("SetWindowsHookExW")
	procCallNextHookEx      = user32.NewProc("CallNextHookEx")
	procUnhookWindowsHookEx = user32.NewProc("UnhookWindowsHookEx")
	procGetMessageW         = user32.NewProc("GetMessageW")
	procTranslateMessage    = user32.NewProc("TranslateMessage")
	procDispatchMessageW    = user32.NewProc("DispatchMessageW")
	procPostThreadMessageW  = user32.NewProc("PostThreadMessageW")
	procGetModuleHandleW    = kernel32.NewProc("GetModuleHandleW")
)

type point struct{ X, Y int32 }

// msllhookstruct mirrors MSLLHOOKSTRUCT (winuser.h).
type msllhookstruct struct {
	Pt          point
	MouseData   uint32
	Flags       uint32
	Time        uint32
	DwExtraInfo uintptr
}

// kbdllhookstruct mirrors KBDLLHOOKSTRUCT.
type kbdllhookstruct struct {
	VkCode      uint32
	ScanCode    uint32
	Flags       uint32
	Time        uint32
	DwExtraInfo uintptr
}

type msg struct {
	Hwnd    syscall.Handle
	Message uint32
	WParam  uintptr
	LParam  uintptr
	Time    uint32
	Pt      point
}

// Hook owns the installed WH_MOUSE_LL/WH_KEYBOARD_LL handles and the
// dedicated, LockOSThread-pinned message-loop goroutine that keeps
// them alive.
type Hook struct {
	mu         sync.Mutex
	dispatcher Dispatcher
	mouseHook  uintptr
	keyHook    uintptr
	threadID   uint32
	installed  bool

	lastX, lastY int32
	haveLast     bool
}

// New creates an uninstalled Hook.
func New() *Hook { return &Hook{} }

// Install starts the hook thread and blocks until both hooks are
// registered (or installation fails). Resource acquisition failure
// here is always returned to the caller as fatal: a process that
// cannot hold its input hooks has nothing left to do.
func (h *Hook) Install(dispatcher Dispatcher) error {
	h.mu.Lock()
	if h.installed {
		h.mu.Unlock()
		return fmt.Errorf("hook: already installed")
	}
	h.dispatcher = dispatcher
	h.mu.Unlock()

	ready := make(chan error, 1)
	go h.run(ready)

	if err := <-ready; err != nil {
		return err
	}
	h.mu.Lock()
	h.installed = true
	h.mu.Unlock()
	return nil
}

// Uninstall posts WM_QUIT to the hook thread, which unhooks both
// procs before its message loop returns. Callers unhook before
// cancelling the rest of the runtime so no event can reach a
// half-torn-down dispatcher.
func (h *Hook) Uninstall() {
	h.mu.Lock()
	threadID := h.threadID
	installed := h.installed
	h.installed = false
	h.mu.Unlock()
	if !installed {
		return
	}
	const wmQuit = 0x0012
	procPostThreadMessageW.Call(uintptr(threadID), wmQuit, 0, 0)
}

func (h *Hook) run(ready chan<- error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	h.mu.Lock()
	h.threadID = windows.GetCurrentThreadId()
	h.mu.Unlock()

	hMod, _, _ := procGetModuleHandleW.Call(0)

	mouseHook, _, err := procSetWindowsHookExW.Call(
		whMouseLL,
		syscall.NewCallback(h.mouseHookProc),
		hMod,
		0,
	)
	if mouseHook == 0 {
		ready <- fmt.Errorf("hook: SetWindowsHookExW(WH_MOUSE_LL): %w", err)
		return
	}
	h.mu.Lock()
	h.mouseHook = mouseHook
	h.mu.Unlock()

	keyHook, _, err := procSetWindowsHookExW.Call(
		whKeyboardLL,
		syscall.NewCallback(h.keyboardHookProc),
		hMod,
		0,
	)
	if keyHook == 0 {
		procUnhookWindowsHookEx.Call(mouseHook)
		ready <- fmt.Errorf("hook: SetWindowsHookExW(WH_KEYBOARD_LL): %w", err)
		return
	}
	h.mu.Lock()
	h.keyHook = keyHook
	h.mu.Unlock()

	ready <- nil

	var m msg
	for {
		ret, _, _ := procGetMessageW.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0)
		if int32(ret) <= 0 {
			break
		}
		procTranslateMessage.Call(uintptr(unsafe.Pointer(&m)))
		procDispatchMessageW.Call(uintptr(unsafe.Pointer(&m)))
	}

	procUnhookWindowsHookEx.Call(mouseHook)
	procUnhookWindowsHookEx.Call(keyHook)
	log.Infow("hooks uninstalled")
}

func injectFlag(flags uint32) event.InjectFlag {
	switch {
	case flags&llMHFInjected != 0:
		return event.FlagInjected
	case flags&llMHFLowerInjected != 0:
		return event.FlagInjectedAlt
	default:
		return event.FlagHardware
	}
}

// mouseHookProc is invoked by the OS on the dedicated hook thread. It
// saves nCode/wParam/lParam into locals only (never package state)
// before calling the dispatcher, and recovers from any panic by
// falling through to CallNextHookEx instead of crashing the hook chain.
func (h *Hook) mouseHookProc(nCode int32, wParam uintptr, lParam uintptr) (ret uintptr) {
	if nCode >= 0 {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Errorw("recovered panic in mouse hook, passing event through", "panic", r)
				}
			}()
			if pass := h.dispatchMouse(uint32(wParam), (*msllhookstruct)(unsafe.Pointer(lParam))); !pass {
				ret = 1
				return
			}
		}()
		if ret == 1 {
			return 1
		}
	}
	r, _, _ := procCallNextHookEx.Call(0, uintptr(nCode), wParam, lParam)
	return r
}

func (h *Hook) dispatchMouse(wParam uint32, s *msllhookstruct) bool {
	pt := event.Point{X: s.Pt.X, Y: s.Pt.Y}
	flags := injectFlag(s.Flags)
	extra := uint32(s.DwExtraInfo)

	var dx, dy int32
	if wParam == wmMouseMove {
		if h.haveLast {
			dx, dy = pt.X-h.lastX, pt.Y-h.lastY
		}
		h.lastX, h.lastY = pt.X, pt.Y
		h.haveLast = true
	}

	ev := event.MouseEvent{Point: pt, Time: s.Time, Flags: flags, Extra: extra, MouseData: s.MouseData}

	switch wParam {
	case wmMouseMove:
		ev.Kind = event.MouseMove
	case wmLButtonDown:
		ev.Kind, ev.Button = event.MouseDown, event.ButtonL
	case wmLButtonUp:
		ev.Kind, ev.Button = event.MouseUp, event.ButtonL
	case wmRButtonDown:
		ev.Kind, ev.Button = event.MouseDown, event.ButtonR
	case wmRButtonUp:
		ev.Kind, ev.Button = event.MouseUp, event.ButtonR
	case wmMButtonDown:
		ev.Kind, ev.Button = event.MouseDown, event.ButtonM
	case wmMButtonUp:
		ev.Kind, ev.Button = event.MouseUp, event.ButtonM
	case wmXButtonDown:
		ev.Kind, ev.Button = event.MouseDown, xButtonID(s.MouseData)
	case wmXButtonUp:
		ev.Kind, ev.Button = event.MouseUp, xButtonID(s.MouseData)
	case wmMouseWheel:
		ev.Kind = event.MouseWheel
	case wmMouseHWheel:
		ev.Kind = event.MouseHWheel
	default:
		return true
	}

	return h.dispatcher.HandleMouseEvent(ev, dx, dy)
}

func xButtonID(mouseData uint32) event.Button {
	if int16(mouseData>>16) == xButton1 {
		return event.ButtonX1
	}
	return event.ButtonX2
}

func (h *Hook) keyboardHookProc(nCode int32, wParam uintptr, lParam uintptr) (ret uintptr) {
	if nCode >= 0 {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Errorw("recovered panic in keyboard hook, passing event through", "panic", r)
				}
			}()
			if pass := h.dispatchKey(uint32(wParam), (*kbdllhookstruct)(unsafe.Pointer(lParam))); !pass {
				ret = 1
				return
			}
		}()
		if ret == 1 {
			return 1
		}
	}
	r, _, _ := procCallNextHookEx.Call(0, uintptr(nCode), wParam, lParam)
	return r
}

func (h *Hook) dispatchKey(wParam uint32, s *kbdllhookstruct) bool {
	var kind event.KeyKind
	switch wParam {
	case wmKeyDown, wmSysKeyDown:
		kind = event.KeyDown
	case wmKeyUp, wmSysKeyUp:
		kind = event.KeyUp
	default:
		return true
	}
	ev := event.KeyboardEvent{Kind: kind, VK: uint16(s.VkCode), Time: s.Time}
	return h.dispatcher.HandleKeyEvent(ev)
}
