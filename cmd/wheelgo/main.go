// Command wheelgo converts button gestures, drag motion and held
// modifiers into synthesized wheel-scroll events on Windows.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"wheelgo/internal/logging"
)

var version = "0.1.0"

var log = logging.L("main")

var rootCmd = &cobra.Command{
	Use:   "wheelgo",
	Short: "Gesture-to-wheel-scroll emulator",
	Long:  "wheelgo converts button chords, drag gestures and held modifiers into synthesized wheel-scroll events.",
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(controlCmd)
	rootCmd.AddCommand(serviceCmd)
	rootCmd.AddCommand(trayCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("wheelgo v%s\n", version)
	},
}
