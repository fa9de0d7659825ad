package cpu

import "testing"

// testBus is a flat 64KB RAM bus, enough to host a reset vector and a small
// program without any memory-mapping concerns.
type testBus struct {
	mem [65536]uint8
}

func (b *testBus) Read(addr uint16) uint8      { return b.mem[addr] }
func (b *testBus) Write(addr uint16, v uint8)  { b.mem[addr] = v }

func newTestCPU(resetVector uint16, program ...uint8) (*CPU, *testBus) {
	bus := &testBus{}
	bus.mem[0xFFFC] = uint8(resetVector)
	bus.mem[0xFFFD] = uint8(resetVector >> 8)
	for i, b := range program {
		bus.mem[int(resetVector)+i] = b
	}
	c := New(bus)
	c.Reset()
	return c, bus
}

// runInstruction ticks the CPU until it returns to stateFetch after having
// left it at least once, i.e. until exactly one instruction has retired.
func runInstruction(c *CPU) {
	for c.state == stateFetch {
		c.Tick()
	}
	for c.state != stateFetch {
		c.Tick()
	}
}

func TestResetSequenceLoadsVectorAndTakesSevenCycles(t *testing.T) {
	c, _ := newTestCPU(0x8000, 0xEA) // NOP
	runInstruction(c) // the reset micro-op sequence itself: vector load, no opcode executed yet
	if c.PC != 0x8000 {
		t.Fatalf("PC after reset = %#04x, want 0x8000", c.PC)
	}
	if c.Cycles != 7 {
		t.Fatalf("reset sequence took %d cycles, want 7", c.Cycles)
	}
	runInstruction(c) // now the NOP at 0x8000 executes
	if c.PC != 0x8001 {
		t.Fatalf("PC after reset+NOP = %#04x, want 0x8001", c.PC)
	}
}

func TestLDAImmediateSetsZeroAndNegativeFlags(t *testing.T) {
	c, _ := newTestCPU(0x8000, 0xA9, 0x80) // LDA #$80
	runInstruction(c)                      // reset sequence
	runInstruction(c)                      // LDA
	if c.A != 0x80 || !c.N || c.Z {
		t.Fatalf("A=%#02x N=%v Z=%v, want A=0x80 N=true Z=false", c.A, c.N, c.Z)
	}

	c, _ = newTestCPU(0x8000, 0xA9, 0x00) // LDA #$00
	runInstruction(c)
	runInstruction(c)
	if c.A != 0x00 || c.N || !c.Z {
		t.Fatalf("A=%#02x N=%v Z=%v, want A=0 N=false Z=true", c.A, c.N, c.Z)
	}
}

func TestLDAImmediateTakesTwoCycles(t *testing.T) {
	c, _ := newTestCPU(0x8000, 0xA9, 0x42, 0xEA)
	runInstruction(c) // reset sequence
	before := c.Cycles
	runInstruction(c)
	if got := c.Cycles - before; got != 2 {
		t.Fatalf("LDA #imm took %d cycles, want 2", got)
	}
}

func TestNMIIsOnlyObservedAtTheNextPollPoint(t *testing.T) {
	// Two NOPs: assert NMI mid-first-instruction and confirm it isn't
	// taken until the *next* instruction boundary (spec.md section 9).
	c, bus := newTestCPU(0x8000, 0xEA, 0xEA)
	bus.mem[0xFFFA] = 0x00
	bus.mem[0xFFFB] = 0x90 // NMI vector -> $9000

	runInstruction(c) // reset sequence
	c.Tick()          // first cycle of the first NOP (opcode fetch)
	c.SetNMILine(true)
	for c.state != stateFetch {
		c.Tick()
	}
	if c.PC == 0x9000 {
		t.Fatalf("NMI taken immediately instead of at the next poll point")
	}
}

func TestCLIDelaysIRQRecognitionByOneInstruction(t *testing.T) {
	// CLI; NOP; NOP, with an IRQ pending throughout. Real hardware (and the
	// blargg cpu_interrupts_v2 "1-cli_latency" case) checks interrupts
	// *before* CLI's own effect on I is visible, so the IRQ isn't taken
	// until after the instruction following CLI retires - not right after
	// CLI itself (spec.md section 4.3).
	c, bus := newTestCPU(0x8000, 0x58, 0xEA, 0xEA) // CLI, NOP, NOP
	bus.mem[0xFFFE] = 0x00
	bus.mem[0xFFFF] = 0x90 // IRQ vector -> $9000

	runInstruction(c) // reset sequence
	c.SetIRQLine(true)
	c.I = true // IRQ starts masked, as after reset

	runInstruction(c) // CLI: clears I, but the check this cycle used live (pre-CLI) I
	if c.PC == 0x9000 {
		t.Fatalf("IRQ taken immediately after CLI, want the documented one-instruction delay")
	}

	runInstruction(c) // first NOP after CLI: its own check now sees I already clear
	if c.PC == 0x9000 {
		t.Fatalf("IRQ taken during the instruction right after CLI, want it deferred one more")
	}

	runInstruction(c) // the fetch for what would be the *next* opcode is redirected into the IRQ sequence
	if c.PC != 0x9000 {
		t.Fatalf("IRQ not taken at the first fetch after the instruction following CLI, PC=%#04x", c.PC)
	}
}

func TestHaltedStopsAdvancingPC(t *testing.T) {
	c, _ := newTestCPU(0x8000, 0x02) // KIL/HLT
	for i := 0; i < 20; i++ {
		c.Tick()
	}
	if !c.Halted() {
		t.Fatalf("CPU did not halt on illegal opcode $02")
	}
	pc := c.PC
	for i := 0; i < 10; i++ {
		c.Tick()
	}
	if c.PC != pc {
		t.Fatalf("PC advanced after halt: %#04x -> %#04x", pc, c.PC)
	}
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	c, _ := newTestCPU(0x8000, 0xA9, 0x55, 0xA2, 0x10)
	runInstruction(c) // reset sequence
	runInstruction(c) // LDA #$55
	snap := c.Snapshot()

	other, _ := newTestCPU(0x8000)
	other.Restore(snap)

	if other.A != c.A || other.PC != c.PC || other.Cycles != c.Cycles {
		t.Fatalf("restored CPU diverges: A=%#02x PC=%#04x Cycles=%d, want A=%#02x PC=%#04x Cycles=%d",
			other.A, other.PC, other.Cycles, c.A, c.PC, c.Cycles)
	}
}

func TestOAMDMAParityPicksCycleCount(t *testing.T) {
	evenC, _ := newTestCPU(0x8000)
	evenC.oddCycle = false
	evenC.ArmOAMDMA(0x02, evenC.OnOddCycle())
	evenCycles := 0
	for evenC.dma.Active {
		evenC.Tick()
		evenCycles++
	}
	if evenCycles != 513 {
		t.Fatalf("even-cycle OAM-DMA took %d cycles, want 513", evenCycles)
	}

	oddC, _ := newTestCPU(0x8000)
	oddC.oddCycle = true
	oddC.ArmOAMDMA(0x02, oddC.OnOddCycle())
	oddCycles := 0
	for oddC.dma.Active {
		oddC.Tick()
		oddCycles++
	}
	if oddCycles != 514 {
		t.Fatalf("odd-cycle OAM-DMA took %d cycles, want 514", oddCycles)
	}
}
