// Package wservice installs, controls and runs wheelgo under the
// Windows Service Control Manager. Running as a service rather than a
// per-user console process means the hook installs before any user
// logs in and survives console-session changes.
package wservice

// serviceUnsupportedError is the type of ErrUnsupported, returned by
// every operation on platforms without a native Windows Service
// Control Manager.
type serviceUnsupportedError struct{}

func (serviceUnsupportedError) Error() string { return "wservice: not supported on this platform" }

// ErrUnsupported is the sentinel every !windows stub method returns.
var ErrUnsupported error = serviceUnsupportedError{}

// ServiceName is the fixed SCM registration name.
const ServiceName = "wheelgo"

// DisplayName and Description describe the service entry in
// services.msc.
const (
	DisplayName = "wheelgo Scroll Emulator"
	Description = "Converts button gestures and drag motion into wheel-scroll events."
)
