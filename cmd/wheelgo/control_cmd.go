package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"wheelgo/internal/ipc"
)

var controlCmd = &cobra.Command{
	Use:   "control",
	Short: "Send a control message to a running wheelgo process",
}

func init() {
	controlCmd.AddCommand(controlExitCmd)
	controlCmd.AddCommand(controlPassModeCmd)
	controlCmd.AddCommand(controlResetCmd)
	controlCmd.AddCommand(controlStatusCmd)
}

var controlExitCmd = &cobra.Command{
	Use:   "exit",
	Short: "Ask the running wheelgo process to exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		return sendControl(ipc.Request{Command: ipc.CommandExit})
	},
}

var controlResetCmd = &cobra.Command{
	Use:   "reset-state",
	Short: "Force every classifier back to its idle state",
	RunE: func(cmd *cobra.Command, args []string) error {
		return sendControl(ipc.Request{Command: ipc.CommandResetState})
	},
}

var controlPassModeCmd = &cobra.Command{
	Use:   "set-pass-mode [true|false]",
	Short: "Enable or disable pass-through (no scroll emulation)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		on, err := strconv.ParseBool(args[0])
		if err != nil {
			return fmt.Errorf("expected true or false, got %q", args[0])
		}
		return sendControl(ipc.Request{Command: ipc.CommandSetPass, PassMode: on})
	},
}

var controlStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report whether the running wheelgo process is in pass-through mode",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := ipc.SendCommand(ipc.Request{Command: ipc.CommandStatus})
		if err != nil {
			return fmt.Errorf("send %s command: %w", ipc.CommandStatus, err)
		}
		if !resp.OK {
			return fmt.Errorf("%s rejected: %s", ipc.CommandStatus, resp.Error)
		}
		fmt.Printf("pass-mode: %t\n", resp.PassMode)
		return nil
	},
}

func sendControl(req ipc.Request) error {
	resp, err := ipc.SendCommand(req)
	if err != nil {
		return fmt.Errorf("send %s command: %w", req.Command, err)
	}
	if !resp.OK {
		return fmt.Errorf("%s rejected: %s", req.Command, resp.Error)
	}
	fmt.Printf("%s: ok\n", req.Command)
	return nil
}
