package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gones",
	Short: "A cycle-accurate NES emulator core CLI",
	Long: `gones drives the nescore emulation core without a GUI: headless frame
runs for framebuffer-hash regression, nestest-style CPU traces, and
recorded-input replay driving.`,
}

func Execute() error {
	return rootCmd.Execute()
}
