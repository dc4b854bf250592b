package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"wheelgo/internal/wservice"
)

var serviceCmd = &cobra.Command{
	Use:   "service",
	Short: "Manage wheelgo as a Windows service",
}

func init() {
	serviceCmd.AddCommand(serviceInstallCmd)
	serviceCmd.AddCommand(serviceUninstallCmd)
	serviceCmd.AddCommand(serviceStartCmd)
	serviceCmd.AddCommand(serviceStopCmd)
}

var serviceInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install wheelgo as a Windows service",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := wservice.Install(); err != nil {
			return err
		}
		fmt.Printf("service %q installed\n", wservice.ServiceName)
		return nil
	},
}

var serviceUninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Uninstall the wheelgo Windows service",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := wservice.Uninstall(); err != nil {
			return err
		}
		fmt.Printf("service %q uninstalled\n", wservice.ServiceName)
		return nil
	},
}

var serviceStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the wheelgo Windows service",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := wservice.Start(); err != nil {
			return err
		}
		fmt.Printf("service %q started\n", wservice.ServiceName)
		return nil
	},
}

var serviceStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the wheelgo Windows service",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := wservice.Stop(); err != nil {
			return err
		}
		fmt.Printf("service %q stop requested\n", wservice.ServiceName)
		return nil
	},
}
