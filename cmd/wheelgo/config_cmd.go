package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"wheelgo/internal/config"
	"wheelgo/internal/ipc"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or reload the on-disk profile",
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configReloadCmd)
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := config.NewManager()
		if err != nil {
			return fmt.Errorf("create config manager: %w", err)
		}
		if err := mgr.Load(); err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		s := mgr.Get()
		fmt.Printf("trigger              = %s\n", s.Trigger)
		fmt.Printf("poll_timeout_ms      = %d\n", s.PollTimeoutMS)
		fmt.Printf("scroll_lock_time_ms  = %d\n", s.ScrollLockTimeMS)
		fmt.Printf("vertical_threshold   = %d\n", s.VerticalThreshold)
		fmt.Printf("horizontal_threshold = %d\n", s.HorizontalThreshold)
		fmt.Printf("horizontal_scroll    = %t\n", s.HorizontalScroll)
		fmt.Printf("reverse_scroll       = %t\n", s.ReverseScroll)
		fmt.Printf("real_wheel_mode      = %t\n", s.RealWheelMode)
		fmt.Printf("vh_adjuster_mode     = %t\n", s.VHAdjusterMode)
		fmt.Printf("target_vk            = 0x%02x\n", s.TargetVK)
		return nil
	},
}

var configReloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Tell a running wheelgo process to re-read its profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := ipc.SendCommand(ipc.Request{Command: ipc.CommandReload})
		if err != nil {
			return fmt.Errorf("send reload command: %w", err)
		}
		if !resp.OK {
			return fmt.Errorf("reload rejected: %s", resp.Error)
		}
		fmt.Println("configuration reloaded")
		return nil
	},
}
