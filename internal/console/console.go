// Package console wires the CPU, PPU, APU, cartridge, and controller
// together into a runnable NES: the memory-map dispatch every component's
// bus interface routes through, and the master-clock tick that keeps them
// phase-locked (spec.md section 4.6).
package console

import (
	"log"

	"github.com/nescore/nescore/internal/apu"
	"github.com/nescore/nescore/internal/cartridge"
	"github.com/nescore/nescore/internal/cpu"
	"github.com/nescore/nescore/internal/input"
	"github.com/nescore/nescore/internal/ppu"
)

// ppuWarmupCycles is the CPU cycle count after which PPU writes to
// $2000/$2001/$2005/$2006 start being honored (spec.md section 4.4).
const ppuWarmupCycles = 29658

// Config holds the small set of host-tunable knobs spec.md leaves the core
// responsible for. It replaces the teacher's JSON-backed app config:
// window/config persistence is out of scope here (spec.md section 1), so
// there is nothing to load from disk.
type Config struct {
	// Debug, when set, routes CPU trace lines (spec.md section 8 scenario
	// 1's nestest log) and a handful of [CONSOLE_DEBUG]-prefixed
	// diagnostics to the standard logger.
	Debug bool
	// SampleRate is the APU's target output sample rate in Hz.
	SampleRate int
}

// DefaultConfig matches real NTSC hardware and a conventional audio rate.
func DefaultConfig() Config {
	return Config{SampleRate: 44100}
}

// Console owns every component exclusively; none of them holds a reference
// to another; all cross-component traffic is routed through Console's
// memory-map methods (spec.md section 9: "the console is the sole owner of
// every component").
type Console struct {
	cfg Config

	cpu  *cpu.CPU
	ppu  *ppu.PPU
	apu  *apu.APU
	cart *cartridge.Cartridge
	ctrl *input.Controller

	irq cartridge.IRQLine

	ram [2048]uint8

	cycles uint64

	frameReady bool
	lastFrame  uint64
}

// New builds a Console around a parsed cartridge. The cartridge must
// already have passed cartridge.New's validation.
func New(cart *cartridge.Cartridge, cfg Config) *Console {
	if cfg.SampleRate == 0 {
		cfg.SampleRate = DefaultConfig().SampleRate
	}
	c := &Console{
		cfg:  cfg,
		cart: cart,
		ctrl: input.New(),
	}
	c.apu = apu.New()
	c.apu.SetSampleRate(cfg.SampleRate)
	c.ppu = ppu.New(c, &c.irq)
	c.cpu = cpu.New(c)
	if cfg.Debug {
		c.cpu.Debug = c.traceLine
	}
	c.Reset()
	return c
}

// CPU exposes the CPU core for test harnesses that need to poke at
// registers directly (e.g. nestest's convention of forcing PC to $C000
// instead of reading the reset vector).
func (c *Console) CPU() *cpu.CPU { return c.cpu }

// Cycles returns the console's total CPU-cycle counter since the last
// Reset.
func (c *Console) Cycles() uint64 { return c.cycles }

// Cartridge exposes the loaded cartridge for host code that wants header
// metadata (name, region, mapper number) without reaching into the core's
// memory map.
func (c *Console) Cartridge() *cartridge.Cartridge { return c.cart }

// Reset drives the CPU's reset sequence and clears the PPU/APU/cycle state
// that hardware resets alongside it. PRG-RAM/CHR-RAM/mapper banking survive
// a reset, matching real hardware (only power-cycling clears those).
func (c *Console) Reset() {
	c.cpu.Reset()
	c.ppu.Reset()
	c.apu.Reset()
	c.ctrl.Reset()
	c.irq.Clear()
	c.cycles = 0
	c.frameReady = false
	c.lastFrame = c.ppu.FrameCount()
}

func (c *Console) traceLine(t cpu.Trace) {
	if !c.cfg.Debug {
		return
	}
	log.Printf("[CONSOLE_DEBUG] %04X A:%02X X:%02X Y:%02X P:%02X SP:%02X CYC:%d",
		t.PC, t.A, t.X, t.Y, t.P, t.SP, t.Cycles)
}

// Tick advances the whole machine by one CPU bus cycle, the three PPU dots
// that sit inside it, and one APU cycle, in that order (spec.md section
// 4.6). It is the only place cross-component IRQ/NMI lines are resolved.
func (c *Console) Tick() {
	c.cpu.Tick()

	for i := 0; i < 3; i++ {
		c.ppu.Tick()
		if c.ppu.FrameCount() != c.lastFrame {
			c.lastFrame = c.ppu.FrameCount()
			c.frameReady = true
		}
	}
	c.ppu.ClearStatusReadPending()

	c.apu.Step()

	c.cycles++
	if c.cycles == ppuWarmupCycles {
		c.ppu.EnableWrites()
	}

	c.cart.Mapper().ClockCPUCycle(&c.irq)

	c.cpu.SetNMILine(c.ppu.NMIAsserted())
	c.cpu.SetIRQLine(c.irq.Asserted() || c.apu.GetFrameIRQ() || c.apu.GetDMCIRQ())
}

// RunOneFrame ticks until the PPU has completed a full frame.
func (c *Console) RunOneFrame() {
	c.frameReady = false
	for !c.frameReady {
		c.Tick()
	}
}

// SetButtonState updates the controller's shadow register for one button.
func (c *Console) SetButtonState(b input.Button, pressed bool) {
	buttons := [8]bool{
		c.ctrl.IsPressed(input.ButtonA),
		c.ctrl.IsPressed(input.ButtonB),
		c.ctrl.IsPressed(input.ButtonSelect),
		c.ctrl.IsPressed(input.ButtonStart),
		c.ctrl.IsPressed(input.ButtonUp),
		c.ctrl.IsPressed(input.ButtonDown),
		c.ctrl.IsPressed(input.ButtonLeft),
		c.ctrl.IsPressed(input.ButtonRight),
	}
	for i, bit := range []input.Button{
		input.ButtonA, input.ButtonB, input.ButtonSelect, input.ButtonStart,
		input.ButtonUp, input.ButtonDown, input.ButtonLeft, input.ButtonRight,
	} {
		if bit == b {
			buttons[i] = pressed
		}
	}
	c.ctrl.SetButtons(buttons)
}

// FrameBuffer returns the PPU's palette-index framebuffer. Hosts must read
// it between RunOneFrame calls, not during one (spec.md section 5).
func (c *Console) FrameBuffer() *[256 * 240]uint8 { return c.ppu.FrameBuffer() }

// Palette converts a framebuffer palette index to a packed 0xRRGGBB value.
func (c *Console) Palette(index uint8) uint32 { return ppu.Palette(index) }

// AudioSamples drains and returns every sample produced since the last
// call.
func (c *Console) AudioSamples() []float32 { return c.apu.GetSamples() }

// CPUTrace lets a host install or clear a per-instruction CPU trace sink
// independent of cfg.Debug (used by cmd/gones's trace subcommand).
func (c *Console) CPUTrace(fn func(cpu.Trace)) { c.cpu.Debug = fn }

// Halted reports whether the CPU has latched an illegal opcode (spec.md
// section 7: KIL/HLT is not an error, just a permanent no-op state).
func (c *Console) Halted() bool { return c.cpu.Halted() }
