package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nescore/nescore/internal/cartridge"
	"github.com/nescore/nescore/internal/console"
	"github.com/nescore/nescore/internal/cpu"
)

var (
	traceCycles  uint64
	tracePC      uint32
	traceForcePC bool
)

var traceCmd = &cobra.Command{
	Use:   "trace <rom.nes>",
	Short: "Run a ROM and print a nestest-style per-instruction CPU trace",
	Args:  cobra.ExactArgs(1),
	RunE:  runTrace,
}

func init() {
	traceCmd.Flags().Uint64Var(&traceCycles, "cycles", 8991, "number of CPU cycles to trace (spec.md scenario 1 default)")
	traceCmd.Flags().Uint32Var(&tracePC, "pc", 0xC000, "program counter to force after reset (nestest convention)")
	traceCmd.Flags().BoolVar(&traceForcePC, "force-pc", true, "force PC to --pc instead of reading the reset vector")
	rootCmd.AddCommand(traceCmd)
}

func runTrace(cmd *cobra.Command, args []string) error {
	romBytes, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading ROM: %w", err)
	}

	cart, err := cartridge.New(romBytes)
	if err != nil {
		return fmt.Errorf("loading ROM: %w", err)
	}

	nes := console.New(cart, console.Config{})
	if traceForcePC {
		// Finish the 7-cycle reset sequence first; it would otherwise load
		// the reset vector over the forced PC.
		for nes.CPU().Cycles < 7 {
			nes.Tick()
		}
		nes.CPU().PC = uint16(tracePC)
	}

	nes.CPUTrace(func(t cpu.Trace) {
		fmt.Printf("%04X  A:%02X X:%02X Y:%02X P:%02X SP:%02X CYC:%d\n",
			t.PC, t.A, t.X, t.Y, t.P, t.SP, t.Cycles)
	})

	for i := uint64(0); i < traceCycles; i++ {
		nes.Tick()
	}
	return nil
}
