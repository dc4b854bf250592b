package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"wheelgo/internal/config"
	"wheelgo/internal/ipc"
	"wheelgo/internal/tray"
)

var trayCmd = &cobra.Command{
	Use:   "tray",
	Short: "Run the system tray icon, controlling a running wheelgo process over its control channel",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := config.NewManager()
		if err != nil {
			return fmt.Errorf("create config manager: %w", err)
		}
		if err := mgr.Load(); err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		ctrl := &ipcTrayController{}
		t := tray.New(ctrl, mgr.Get().Trigger.String())
		t.Run()
		return nil
	},
}

// ipcTrayController adapts ipc.SendCommand to tray.Controller. The
// tray is a separate, unprivileged process from the hook host, so
// every action round-trips over the control channel instead of
// touching core state directly. passMode mirrors the hook host's
// state rather than driving it: the actual value always comes back on
// the wire (CommandStatus on startup, the CommandSetPass response on
// every toggle), since the hook host may already be in whatever state
// a prior tray session or a `wheelgo control` call left it in.
type ipcTrayController struct {
	passMode bool
}

func (c *ipcTrayController) Status() (bool, error) {
	resp, err := ipc.SendCommand(ipc.Request{Command: ipc.CommandStatus})
	if err != nil {
		return c.passMode, err
	}
	if !resp.OK {
		return c.passMode, fmt.Errorf("status rejected: %s", resp.Error)
	}
	c.passMode = resp.PassMode
	return c.passMode, nil
}

func (c *ipcTrayController) TogglePassMode() (bool, error) {
	resp, err := ipc.SendCommand(ipc.Request{Command: ipc.CommandSetPass, PassMode: !c.passMode})
	if err != nil {
		return c.passMode, err
	}
	if !resp.OK {
		return c.passMode, fmt.Errorf("set-pass-mode rejected: %s", resp.Error)
	}
	c.passMode = resp.PassMode
	return c.passMode, nil
}

func (c *ipcTrayController) Reload() error {
	resp, err := ipc.SendCommand(ipc.Request{Command: ipc.CommandReload})
	if err != nil {
		return err
	}
	if !resp.OK {
		return fmt.Errorf("reload rejected: %s", resp.Error)
	}
	return nil
}

func (c *ipcTrayController) Exit() {
	_, _ = ipc.SendCommand(ipc.Request{Command: ipc.CommandExit})
}
