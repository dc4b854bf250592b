//go:build windows

package ipc

import (
	"net"
	"time"

	"github.com/Microsoft/go-winio"
)

// pipeName is the well-known control channel address.
const pipeName = `\\.\pipe\wheelgo-ctl`

// pipeSecurity grants SYSTEM (the account the wheelgo service runs
// under) and the interactively logged-in user full control and denies
// everyone else.
const pipeSecurity = "D:P(A;;GA;;;SY)(A;;GA;;;IU)"

func newListener() (net.Listener, error) {
	cfg := &winio.PipeConfig{
		SecurityDescriptor: pipeSecurity,
		InputBufferSize:    4096,
		OutputBufferSize:   4096,
	}
	return winio.ListenPipe(pipeName, cfg)
}

func dial() (net.Conn, error) {
	timeout := 2 * time.Second
	return winio.DialPipe(pipeName, &timeout)
}
