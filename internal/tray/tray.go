// Package tray is a thin systray wrapper exposing the control surface
// a settings app or the CLI's own tray subcommand drives, kept
// entirely outside the core's scope.
package tray

import (
	"wheelgo/internal/logging"

	"github.com/getlantern/systray"
)

var log = logging.L("tray")

// Controller is the set of operations the tray's menu items invoke.
// cmd/wheelgo wires a small adapter over ipc.SendCommand so the tray
// process (which may be a separate, unelevated process from the hook
// host) never touches core state directly.
type Controller interface {
	Status() (passModeEnabled bool, err error)
	TogglePassMode() (enabled bool, err error)
	Reload() error
	Exit()
}

// Tray manages the wheelgo system tray icon and menu: a deferred
// setup callback, a ready channel signaling the menu exists, and a
// single dispatch goroutine fanning out menu clicks to the pass-mode/
// reload/exit contract wheelgo's control channel exposes.
type Tray struct {
	ctrl    Controller
	tooltip string

	passModeItem *systray.MenuItem
	readyCh      chan struct{}
	quitCh       chan struct{}
}

// New creates a tray bound to ctrl. trigger is shown in the tooltip
// so the user can see which gesture currently enters scroll mode
// without opening a settings window.
func New(ctrl Controller, trigger string) *Tray {
	return &Tray{
		ctrl:    ctrl,
		tooltip: "wheelgo — trigger: " + trigger,
		readyCh: make(chan struct{}),
		quitCh:  make(chan struct{}),
	}
}

// Run starts the tray event loop. Blocks until Stop is called or the
// user quits from the OS tray UI.
func (t *Tray) Run() {
	systray.Run(t.setupMenu, t.onExit)
}

// Stop requests the tray event loop to exit.
func (t *Tray) Stop() {
	systray.Quit()
}

func (t *Tray) onExit() {
	close(t.quitCh)
}

func (t *Tray) setupMenu() {
	systray.SetTitle("wheelgo")
	systray.SetTooltip(t.tooltip)
	systray.SetIcon(getIcon())
	close(t.readyCh)

	t.passModeItem = systray.AddMenuItem("Pass-through mode", "Disable scroll emulation temporarily")
	reloadItem := systray.AddMenuItem("Reload configuration", "Re-read the on-disk profile")
	systray.AddSeparator()
	exitItem := systray.AddMenuItem("Exit", "Stop wheelgo")

	if enabled, err := t.ctrl.Status(); err != nil {
		log.Warnw("failed to query pass-mode state", "error", err)
	} else if enabled {
		t.passModeItem.Check()
	}

	go func() {
		for {
			select {
			case <-t.passModeItem.ClickedCh:
				enabled, err := t.ctrl.TogglePassMode()
				if err != nil {
					log.Warnw("failed to toggle pass-mode", "error", err)
					continue
				}
				if enabled {
					t.passModeItem.Check()
				} else {
					t.passModeItem.Uncheck()
				}
			case <-reloadItem.ClickedCh:
				if err := t.ctrl.Reload(); err != nil {
					log.Warnw("failed to reload configuration", "error", err)
				}
			case <-exitItem.ClickedCh:
				t.ctrl.Exit()
				systray.Quit()
				return
			case <-t.quitCh:
				return
			}
		}
	}()
}

// getIcon returns a minimal valid 16x16 32-bit ICO placeholder —
// wheelgo ships no custom art, and the OS tray refuses to register an
// item with no icon at all.
func getIcon() []byte {
	icon := make([]byte, 1118)
	copy(icon[0:6], []byte{0x00, 0x00, 0x01, 0x00, 0x01, 0x00})
	copy(icon[6:22], []byte{
		0x10, 0x10, 0x00, 0x00, 0x01, 0x00, 0x20, 0x00,
		0x48, 0x04, 0x00, 0x00,
		0x16, 0x00, 0x00, 0x00,
	})
	copy(icon[22:62], []byte{
		0x28, 0x00, 0x00, 0x00,
		0x10, 0x00, 0x00, 0x00,
		0x20, 0x00, 0x00, 0x00,
		0x01, 0x00,
		0x20, 0x00,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x04, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
	})
	return icon
}
