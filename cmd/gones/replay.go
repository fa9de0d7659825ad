package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nescore/nescore/internal/cartridge"
	"github.com/nescore/nescore/internal/console"
	"github.com/nescore/nescore/internal/siphash"
)

var replayCmd = &cobra.Command{
	Use:   "replay <rom.nes> <replay-file>",
	Short: "Drive a ROM through a recorded input file and print a framebuffer hash",
	Args:  cobra.ExactArgs(2),
	RunE:  runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, args []string) error {
	romBytes, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading ROM: %w", err)
	}
	replayBytes, err := os.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("reading replay file: %w", err)
	}

	cart, err := cartridge.New(romBytes)
	if err != nil {
		return fmt.Errorf("loading ROM: %w", err)
	}
	replayData, err := console.DecodeReplay(replayBytes)
	if err != nil {
		return fmt.Errorf("decoding replay: %w", err)
	}

	nes := console.New(cart, console.Config{})
	if err := nes.DriveReplay(replayData); err != nil {
		return fmt.Errorf("driving replay: %w", err)
	}

	hash := siphash.FrameBuffer(nes.FrameBuffer())
	fmt.Printf("end_frame=%d framebuffer_hash=%d\n", replayData.EndFrame, hash)
	return nil
}
