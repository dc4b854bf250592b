//go:build windows

package inject

import (
	"unsafe"

	"golang.org/x/sys/windows"

	"wheelgo/internal/event"
)

// Constants mirror winuser.h INPUT/MOUSEINPUT/KEYBDINPUT layouts
// (grounded on the SendInput usage pattern shared by the pack's
// low-level Windows hook tooling).
const (
	inputMouse    = 0
	inputKeyboard = 1

	mouseEventMove       = 0x0001
	mouseEventLeftDown   = 0x0002
	mouseEventLeftUp     = 0x0004
	mouseEventRightDown  = 0x0008
	mouseEventRightUp    = 0x0010
	mouseEventMiddleDown = 0x0020
	mouseEventMiddleUp   = 0x0040
	mouseEventXDown      = 0x0080
	mouseEventXUp        = 0x0100
	mouseEventWheel      = 0x0800
	mouseEventHWheel     = 0x01000

	xButton1 = 0x0001
	xButton2 = 0x0002

	keyEventKeyUp = 0x0002
)

var (
	user32        = windows.NewLazySystemDLL("user32.dll")
	procSendInput = user32.NewProc("SendInput")
)

type mouseInput struct {
	dx, dy    int32
	mouseData uint32
	flags     uint32
	time      uint32
	extraInfo uintptr
}

type keybdInput struct {
	vk        uint16
	scan      uint16
	flags     uint32
	time      uint32
	extraInfo uintptr
}

// input mirrors the tagged-union INPUT struct: a DWORD type tag
// followed by the largest union member (MOUSEINPUT on amd64).
// keybdInput is embedded at the same offset via unsafe.Pointer casts
// in keyToInput rather than a second named field, so the struct's
// layout matches the C union exactly.
type input struct {
	typ uint32
	_   uint32
	mi  mouseInput
}

// WinSink is the Windows SendInput-backed Sink.
type WinSink struct{}

// NewSink returns the platform injector.
func NewSink() Sink { return WinSink{} }

func (WinSink) InjectBatch(items []Item) error {
	if len(items) == 0 {
		return nil
	}
	raw := make([]input, 0, len(items))
	for _, it := range items {
		switch {
		case it.Mouse != nil:
			raw = append(raw, mouseToInput(*it.Mouse))
		case it.Key != nil:
			raw = append(raw, keyToInput(*it.Key))
		}
	}
	if len(raw) == 0 {
		return nil
	}
	sz := unsafe.Sizeof(raw[0])
	ret, _, err := procSendInput.Call(
		uintptr(len(raw)),
		uintptr(unsafe.Pointer(&raw[0])),
		uintptr(int32(sz)),
	)
	if ret != uintptr(len(raw)) {
		return err
	}
	return nil
}

func mouseToInput(m event.MouseEvent) input {
	var flags, data uint32
	switch m.Kind {
	case event.MouseDown:
		switch m.Button {
		case event.ButtonL:
			flags = mouseEventLeftDown
		case event.ButtonR:
			flags = mouseEventRightDown
		case event.ButtonM:
			flags = mouseEventMiddleDown
		case event.ButtonX1:
			flags, data = mouseEventXDown, xButton1
		case event.ButtonX2:
			flags, data = mouseEventXDown, xButton2
		}
	case event.MouseUp:
		switch m.Button {
		case event.ButtonL:
			flags = mouseEventLeftUp
		case event.ButtonR:
			flags = mouseEventRightUp
		case event.ButtonM:
			flags = mouseEventMiddleUp
		case event.ButtonX1:
			flags, data = mouseEventXUp, xButton1
		case event.ButtonX2:
			flags, data = mouseEventXUp, xButton2
		}
	case event.MouseMove:
		flags = mouseEventMove
	case event.MouseWheel:
		flags, data = mouseEventWheel, m.MouseData
	case event.MouseHWheel:
		flags, data = mouseEventHWheel, m.MouseData
	}
	return input{
		typ: inputMouse,
		mi: mouseInput{
			dx:        m.Point.X,
			dy:        m.Point.Y,
			mouseData: data,
			flags:     flags,
			extraInfo: uintptr(m.Extra),
		},
	}
}

func keyToInput(k event.KeyboardEvent) input {
	var raw input
	raw.typ = inputKeyboard
	ki := (*keybdInput)(unsafe.Pointer(&raw.mi))
	ki.vk = k.VK
	ki.extraInfo = uintptr(event.RESEND_TAG)
	if k.Kind == event.KeyUp {
		ki.flags = keyEventKeyUp
	}
	return raw
}
