//go:build !windows

package wservice

// IsWindowsService always reports false off Windows.
func IsWindowsService() bool { return false }

// Install always fails off Windows.
func Install() error { return ErrUnsupported }

// Uninstall always fails off Windows.
func Uninstall() error { return ErrUnsupported }

// Start always fails off Windows.
func Start() error { return ErrUnsupported }

// Stop always fails off Windows.
func Stop() error { return ErrUnsupported }

// Run always fails off Windows.
func Run(startFn func() (stop func(), err error)) error { return ErrUnsupported }
