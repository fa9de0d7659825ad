package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nescore/nescore/internal/cartridge"
	"github.com/nescore/nescore/internal/console"
	"github.com/nescore/nescore/internal/siphash"
)

var (
	runFrames int
	runDebug  bool
)

var runCmd = &cobra.Command{
	Use:   "run <rom.nes>",
	Short: "Run a ROM headlessly for a fixed number of frames and print a framebuffer hash",
	Args:  cobra.ExactArgs(1),
	RunE:  runRun,
}

func init() {
	runCmd.Flags().IntVar(&runFrames, "frames", 60, "number of frames to run before hashing the framebuffer")
	runCmd.Flags().BoolVar(&runDebug, "debug", false, "enable console debug logging")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	romBytes, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading ROM: %w", err)
	}

	cart, err := cartridge.New(romBytes)
	if err != nil {
		return fmt.Errorf("loading ROM: %w", err)
	}

	nes := console.New(cart, console.Config{Debug: runDebug})

	for frame := 0; frame < runFrames; frame++ {
		nes.RunOneFrame()
	}

	hash := siphash.FrameBuffer(nes.FrameBuffer())
	fmt.Printf("frames=%d halted=%v framebuffer_hash=%d\n", runFrames, nes.Halted(), hash)
	return nil
}
