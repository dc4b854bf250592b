//go:build windows

package wservice

import (
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/sys/windows/svc"
	"golang.org/x/sys/windows/svc/mgr"

	"wheelgo/internal/logging"
)

var log = logging.L("wservice")

// IsWindowsService reports whether the current process was started by
// the Service Control Manager. Must be called before any console I/O.
func IsWindowsService() bool {
	ok, err := svc.IsWindowsService()
	if err != nil {
		return false
	}
	return ok
}

// Install registers wheelgo as an automatic-start Windows service
// running the current executable with the "run" subcommand, and sets
// a restart-on-failure recovery policy, exactly as
// service_cmd_windows.go's serviceInstallCmd does.
func Install() error {
	exePath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("wservice: determine executable path: %w", err)
	}

	m, err := mgr.Connect()
	if err != nil {
		return fmt.Errorf("wservice: connect to SCM (run as Administrator): %w", err)
	}
	defer m.Disconnect()

	s, err := m.CreateService(ServiceName, exePath, mgr.Config{
		DisplayName:  DisplayName,
		Description:  Description,
		StartType:    mgr.StartAutomatic,
		ErrorControl: mgr.ErrorNormal,
	}, "run")
	if err != nil {
		return fmt.Errorf("wservice: create service: %w", err)
	}
	defer s.Close()

	err = s.SetRecoveryActions([]mgr.RecoveryAction{
		{Type: mgr.ServiceRestart, Delay: 5 * time.Second},
		{Type: mgr.ServiceRestart, Delay: 10 * time.Second},
		{Type: mgr.ServiceRestart, Delay: 30 * time.Second},
	}, 86400)
	if err != nil {
		log.Warnw("failed to set recovery actions", "error", err)
	}

	return nil
}

// Uninstall stops (if running) and deletes the service registration.
func Uninstall() error {
	m, err := mgr.Connect()
	if err != nil {
		return fmt.Errorf("wservice: connect to SCM (run as Administrator): %w", err)
	}
	defer m.Disconnect()

	s, err := m.OpenService(ServiceName)
	if err != nil {
		return fmt.Errorf("wservice: open service: %w", err)
	}
	defer s.Close()

	if status, err := s.Query(); err == nil && status.State != svc.Stopped {
		_, _ = s.Control(svc.Stop)
		deadline := time.Now().Add(15 * time.Second)
		for time.Now().Before(deadline) {
			st, qErr := s.Query()
			if qErr != nil || st.State == svc.Stopped {
				break
			}
			time.Sleep(500 * time.Millisecond)
		}
	}

	if err := s.Delete(); err != nil {
		return fmt.Errorf("wservice: delete service: %w", err)
	}
	return nil
}

// Start requests the SCM to start the service.
func Start() error {
	m, err := mgr.Connect()
	if err != nil {
		return fmt.Errorf("wservice: connect to SCM: %w", err)
	}
	defer m.Disconnect()

	s, err := m.OpenService(ServiceName)
	if err != nil {
		return fmt.Errorf("wservice: open service: %w", err)
	}
	defer s.Close()

	if err := s.Start(); err != nil {
		return fmt.Errorf("wservice: start service: %w", err)
	}
	return nil
}

// Stop requests the SCM to stop the service.
func Stop() error {
	m, err := mgr.Connect()
	if err != nil {
		return fmt.Errorf("wservice: connect to SCM: %w", err)
	}
	defer m.Disconnect()

	s, err := m.OpenService(ServiceName)
	if err != nil {
		return fmt.Errorf("wservice: open service: %w", err)
	}
	defer s.Close()

	if _, err := s.Control(svc.Stop); err != nil {
		return fmt.Errorf("wservice: stop service: %w", err)
	}
	return nil
}

// handler implements svc.Handler, starting the caller-supplied
// startFn once the SCM has accepted the start request and calling the
// returned stop func on SCM Stop/Shutdown.
type handler struct {
	startFn  func() (stop func(), err error)
	stopOnce sync.Once
}

// Run blocks running wheelgo under the SCM: signals StartPending,
// calls startFn, signals Running, then waits for Stop/Shutdown before
// calling the returned stop func and returning.
func Run(startFn func() (stop func(), err error)) error {
	h := &handler{startFn: startFn}
	return svc.Run(ServiceName, h)
}

func (h *handler) Execute(args []string, r <-chan svc.ChangeRequest, changes chan<- svc.Status) (bool, uint32) {
	const accepted = svc.AcceptStop | svc.AcceptShutdown

	changes <- svc.Status{State: svc.StartPending}

	stop, err := h.startFn()
	if err != nil {
		log.Errorw("service start failed", "error", err)
		changes <- svc.Status{State: svc.StopPending}
		return true, 1
	}

	changes <- svc.Status{State: svc.Running, Accepts: accepted}
	log.Infow("wheelgo running as a Windows service")

	for cr := range r {
		switch cr.Cmd {
		case svc.Interrogate:
			changes <- cr.CurrentStatus
		case svc.Stop, svc.Shutdown:
			log.Infow("SCM requested stop")
			changes <- svc.Status{State: svc.StopPending}
			h.stopOnce.Do(stop)
			return false, 0
		default:
			log.Warnw("unexpected SCM control request", "cmd", cr.Cmd)
		}
	}
	return false, 0
}
