package ipc

import (
	"errors"
	"testing"
	"time"
)

type fakeHandler struct {
	exited    bool
	passMode  bool
	reloaded  bool
	reloadErr error
	reset     bool
}

func (h *fakeHandler) Exit()              { h.exited = true }
func (h *fakeHandler) SetPassMode(b bool) { h.passMode = b }
func (h *fakeHandler) PassMode() bool     { return h.passMode }
func (h *fakeHandler) Reload() error      { h.reloaded = true; return h.reloadErr }
func (h *fakeHandler) Reset()             { h.reset = true }

func startTestServer(t *testing.T, h Handler) *Server {
	t.Helper()
	s, err := Listen(h)
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	go s.Serve()
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSetPassModeDispatch(t *testing.T) {
	h := &fakeHandler{}
	startTestServer(t, h)

	resp, err := SendCommand(Request{Command: CommandSetPass, PassMode: true})
	if err != nil {
		t.Fatalf("SendCommand: %v", err)
	}
	if !resp.OK {
		t.Fatalf("expected OK response, got %+v", resp)
	}
	if !h.passMode {
		t.Fatal("expected SetPassMode(true) to have been called")
	}
	if !resp.PassMode {
		t.Fatalf("expected response to echo the resulting pass-mode state, got %+v", resp)
	}
}

func TestStatusDispatchReportsCurrentPassMode(t *testing.T) {
	h := &fakeHandler{passMode: true}
	startTestServer(t, h)

	resp, err := SendCommand(Request{Command: CommandStatus})
	if err != nil {
		t.Fatalf("SendCommand: %v", err)
	}
	if !resp.OK || !resp.PassMode {
		t.Fatalf("expected OK status echoing passMode=true, got %+v", resp)
	}
}

func TestExitDispatch(t *testing.T) {
	h := &fakeHandler{}
	startTestServer(t, h)

	if _, err := SendCommand(Request{Command: CommandExit}); err != nil {
		t.Fatalf("SendCommand: %v", err)
	}
	if !h.exited {
		t.Fatal("expected Exit to have been called")
	}
}

func TestReloadDispatchPropagatesError(t *testing.T) {
	h := &fakeHandler{reloadErr: errors.New("bad profile")}
	startTestServer(t, h)

	resp, err := SendCommand(Request{Command: CommandReload})
	if err != nil {
		t.Fatalf("SendCommand: %v", err)
	}
	if resp.OK {
		t.Fatal("expected a failed reload to report OK=false")
	}
	if resp.Error == "" {
		t.Fatal("expected an error message")
	}
	if !h.reloaded {
		t.Fatal("expected Reload to have been called")
	}
}

func TestResetStateDispatch(t *testing.T) {
	h := &fakeHandler{}
	startTestServer(t, h)

	if _, err := SendCommand(Request{Command: CommandResetState}); err != nil {
		t.Fatalf("SendCommand: %v", err)
	}
	if !h.reset {
		t.Fatal("expected Reset to have been called")
	}
}

func TestUnknownCommandIsRejectedNotFatal(t *testing.T) {
	h := &fakeHandler{}
	startTestServer(t, h)

	resp, err := SendCommand(Request{Command: Command("frobnicate")})
	if err != nil {
		t.Fatalf("SendCommand: %v", err)
	}
	if resp.OK {
		t.Fatal("expected an unknown command to report OK=false")
	}

	// the server must still be alive for a subsequent valid command.
	time.Sleep(10 * time.Millisecond)
	resp2, err := SendCommand(Request{Command: CommandResetState})
	if err != nil {
		t.Fatalf("SendCommand after unknown command: %v", err)
	}
	if !resp2.OK {
		t.Fatal("expected the server to keep serving after an unknown command")
	}
	if !h.reset {
		t.Fatal("expected Reset to have been called")
	}
}
