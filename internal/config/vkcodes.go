package config

import "wheelgo/internal/event"

// namedVKs is the fixed table of virtual-key names the Keyboard
// section's vk_code setting accepts.
var namedVKs = map[string]uint16{
	"ESC":        event.VKEscape,
	"TAB":        0x09,
	"CAPSLOCK":   0x14,
	"SHIFT":      event.VKShift,
	"LSHIFT":     event.VKLShift,
	"RSHIFT":     event.VKRShift,
	"CTRL":       event.VKControl,
	"LCTRL":      event.VKLControl,
	"RCTRL":      event.VKRControl,
	"ALT":        event.VKMenu,
	"LALT":       event.VKLMenu,
	"RALT":       event.VKRMenu,
	"SPACE":      0x20,
	"ENTER":      0x0D,
	"BACKSPACE":  0x08,
	"INSERT":     0x2D,
	"DELETE":     0x2E,
	"HOME":       0x24,
	"END":        0x23,
	"PAGEUP":     0x21,
	"PAGEDOWN":   0x22,
	"LWIN":       0x5B,
	"RWIN":       0x5C,
	"APPS":       0x5D,
}

var vkNames = func() map[uint16]string {
	m := make(map[uint16]string, len(namedVKs))
	for name, vk := range namedVKs {
		m[vk] = name
	}
	return m
}()

// ParseVK resolves a named VK from the Keyboard.vk_code setting.
func ParseVK(s string) (uint16, bool) {
	vk, ok := namedVKs[s]
	return vk, ok
}

// VKName returns the canonical name for a VK, if it is one of the 24
// named keys; otherwise returns false.
func VKName(vk uint16) (string, bool) {
	name, ok := vkNames[vk]
	return name, ok
}
