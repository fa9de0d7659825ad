// Package cpu implements the NES's 6502-family CPU as an explicit
// micro-operation state machine: Tick executes exactly one bus cycle, so
// the PPU and mapper can observe every CPU memory access in the order real
// hardware would issue it.
package cpu

import "fmt"

// Bus is everything the CPU needs from the rest of the console. Reads and
// writes are routed through it rather than touching any other component
// directly, per spec.md section 3.
type Bus interface {
	Read(addr uint16) uint8
	Write(addr uint16, val uint8)
}

// Status flag bit positions, matching the real 6502's P register layout.
const (
	flagC uint8 = 1 << 0
	flagZ uint8 = 1 << 1
	flagI uint8 = 1 << 2
	flagD uint8 = 1 << 3
	flagB uint8 = 1 << 4
	flagU uint8 = 1 << 5 // unused, always read back as 1
	flagV uint8 = 1 << 6
	flagN uint8 = 1 << 7
)

const (
	stackBase   = 0x0100
	vectorNMI   = 0xFFFA
	vectorReset = 0xFFFC
	vectorIRQ   = 0xFFFE

	// stateFetch is the distinguished state meaning "the next tick should
	// fetch the next opcode" (spec.md section 3: state 0x100 specifically
	// means this).
	stateFetch = 0x100
)

type interruptKind uint8

const (
	intNone interruptKind = iota
	intReset
	intNMI
	intIRQ
)

// CPU is the 6502 core. Every exported mutation happens one bus cycle at a
// time via Tick; there is no "run one instruction" entry point because
// PPU/mapper timing depends on seeing each individual cycle.
type CPU struct {
	A, X, Y uint8
	SP      uint8
	PC      uint16

	N, V, I, Z, C, D bool

	bus Bus

	// Bus latches.
	AB      uint16
	DB      uint8
	tmp16   uint16
	openBus uint8

	// val is the operand value addressing-mode templates make available
	// to a semantic closure at its operate cycle; effAddr is the
	// computed effective address for stores/RMW writeback.
	val     uint8
	effAddr uint16
	basePC  uint16 // PC value captured before a branch's operand fetch, for page-cross detection

	// state indexes into the flat micro-op table, or equals stateFetch.
	state  uint16
	opcode uint8

	Cycles   uint64
	oddCycle bool

	irqSignal   bool
	nmiSignal   bool
	resetSignal bool

	cachedIRQ bool
	cachedNMI bool
	nmiEdge   bool // set when nmiSignal had a high->... edge pending delivery

	takeInterrupt   bool
	interruptType   interruptKind
	interruptVector uint16

	halt bool

	dma dmaState

	// Debug is an optional trace sink (nestest-style CPU log), called once
	// per instruction at its opcode fetch. Nil by default; the console
	// wires it up only when asked.
	Debug func(Trace)
}

// Trace is one CPU-trace line, shaped for the nestest golden-log format
// (spec.md section 8, scenario 1).
type Trace struct {
	PC             uint16
	Opcode         uint8
	A, X, Y, SP    uint8
	P              uint8
	Cycles         uint64
}

// dmaState's fields are exported so it round-trips through gob unchanged
// even if a save state is taken mid-transfer.
type dmaState struct {
	Active     bool
	Page       uint8
	AddrLow    uint8
	Counter    int
	Buffer     uint8
	HijackRead bool
	StartedOdd bool
	WaitCycle  bool
}

// New creates a CPU wired to bus. Reset must be called before Tick to put
// it through the power-on/reset sequence.
func New(bus Bus) *CPU {
	c := &CPU{bus: bus, SP: 0xFD, state: stateFetch}
	c.I = true
	return c
}

// Status packs the six flags (plus the always-1 unused bit) into the P
// register byte. withB controls whether the pushed/reported B bit is 1
// (PHP/BRK) or 0 (hardware NMI/IRQ push).
func (c *CPU) Status(withB bool) uint8 {
	var p uint8 = flagU
	if c.N {
		p |= flagN
	}
	if c.V {
		p |= flagV
	}
	if c.D {
		p |= flagD
	}
	if c.I {
		p |= flagI
	}
	if c.Z {
		p |= flagZ
	}
	if c.C {
		p |= flagC
	}
	if withB {
		p |= flagB
	}
	return p
}

func (c *CPU) setStatus(p uint8) {
	c.N = p&flagN != 0
	c.V = p&flagV != 0
	c.D = p&flagD != 0
	c.I = p&flagI != 0
	c.Z = p&flagZ != 0
	c.C = p&flagC != 0
}

func (c *CPU) setZN(v uint8) {
	c.Z = v == 0
	c.N = v&0x80 != 0
}

func (c *CPU) read(addr uint16) uint8 {
	v := c.bus.Read(addr)
	c.openBus = v
	return v
}

func (c *CPU) write(addr uint16, v uint8) {
	c.openBus = v
	c.bus.Write(addr, v)
}

func (c *CPU) push(v uint8) {
	c.write(stackBase+uint16(c.SP), v)
	c.SP--
}

func (c *CPU) pop() uint8 {
	c.SP++
	return c.read(stackBase + uint16(c.SP))
}

// Reset drives the CPU's reset sequence (spec.md 4.3): it is delivered as
// a BRK-shaped sequence that reads but never writes, vectoring through
// $FFFC. Callers may call Reset at any time; the next Tick starts the
// sequence from its first cycle.
func (c *CPU) Reset() {
	c.halt = false
	c.takeInterrupt = true
	c.interruptType = intReset
	c.state = stateFetch
	c.resetSignal = true
	c.SP = 0xFD
	c.I = true
}

// Halted reports whether the CPU has latched an illegal KIL/HLT opcode.
// Every subsequent Tick is then a no-op until Reset.
func (c *CPU) Halted() bool { return c.halt }

// OpenBus returns the last byte driven onto the data bus, for the
// console's memory-map dispatch to return from unmapped reads.
func (c *CPU) OpenBus() uint8 { return c.openBus }

// OnOddCycle reports the parity of the CPU's internal cycle counter, which
// the console needs to pick the 513 vs. 514 cycle OAM-DMA variant.
func (c *CPU) OnOddCycle() bool { return c.oddCycle }

// SetIRQLine and SetNMILine are the level/edge inputs the console's
// memory-map dispatch (mapper IRQs, APU frame IRQ, PPU NMI) drive.
func (c *CPU) SetIRQLine(asserted bool) { c.irqSignal = asserted }

func (c *CPU) SetNMILine(asserted bool) {
	if asserted && !c.nmiSignal {
		c.nmiEdge = true
	}
	c.nmiSignal = asserted
}

// ArmOAMDMA starts an OAM-DMA transfer from page*0x100. cpuCycleIsOdd
// selects the 513 vs. 514 cycle variant (spec.md section 8: "OAM-DMA on
// an odd CPU cycle takes 514 cycles; on even, 513").
func (c *CPU) ArmOAMDMA(page uint8, cpuCycleIsOdd bool) {
	c.dma = dmaState{Active: true, Page: page, StartedOdd: cpuCycleIsOdd, WaitCycle: true}
}

// Tick advances the CPU by exactly one bus cycle.
func (c *CPU) Tick() {
	if c.halt {
		return
	}
	c.oddCycle = !c.oddCycle
	c.Cycles++

	if c.dma.Active {
		c.tickDMA()
		if c.dma.HijackRead {
			c.dma.HijackRead = false
			return
		}
	}

	c.step()
}

func (c *CPU) tickDMA() {
	d := &c.dma
	if d.WaitCycle {
		// The first cycle after $4014 always costs one "get" cycle; if
		// the CPU was mid odd-cycle an extra alignment cycle is spent
		// before the alternating read/write pattern begins.
		if d.StartedOdd {
			d.StartedOdd = false
			d.HijackRead = true
			return
		}
		d.WaitCycle = false
		d.HijackRead = true
		return
	}
	// Counter counts transfer cycles: even values read byte Counter/2 from
	// the source page, odd values write it to $2004.
	d.HijackRead = true
	if d.Counter%2 == 0 {
		addr := uint16(d.Page)<<8 | uint16(d.Counter/2)
		d.Buffer = c.read(addr)
		d.Counter++
		return
	}
	c.write(0x2004, d.Buffer)
	d.Counter++
	if d.Counter >= 512 {
		d.Active = false
	}
}

// step executes the micro-op at c.state, which is either stateFetch or an
// index into the shared microOpTable (microops.go).
func (c *CPU) step() {
	if c.state == stateFetch {
		c.fetch()
		return
	}
	idx := c.state
	if int(idx) >= len(microOpTable) {
		panic(fmt.Sprintf("cpu: state %#x has no micro-op (programmer error)", idx))
	}
	op := microOpTable[idx]
	// The poll point sits one cycle ahead of the decision it feeds: every
	// non-final cycle re-caches the live IRQ/NMI lines, and the final cycle
	// resolves takeInterrupt/interruptType from whatever was cached *before*
	// that cycle's own semantic effect (op.fn) runs. This is what gives
	// CLI/SEI/PLP their one-instruction interrupt-recognition delay (spec.md
	// section 4.3); RTI has no such delay since its status-pull happens on
	// an earlier cycle than its own check. An op may end its instruction
	// early by setting c.state to stateFetch itself (untaken or same-page
	// branches, indexed reads without a page cross); that cycle then runs
	// the check right after its op.
	if op.last {
		c.checkInterrupts()
	} else {
		c.cacheInterrupts()
	}
	op.fn(c)
	switch {
	case op.last:
		c.state = stateFetch
	case c.state == stateFetch:
		c.checkInterrupts()
	default:
		c.state = idx + 1
	}
}

// fetch is the state-0x100 micro-op: cache interrupts, read the opcode (or
// substitute BRK for an interrupt already resolved by the previous
// instruction's final-cycle check), and dispatch into that opcode's
// sequence.
func (c *CPU) fetch() {
	c.cacheInterrupts()

	c.AB = c.PC
	opcode := c.read(c.AB)

	if c.takeInterrupt {
		c.opcode = 0x00
		c.beginInterruptSequence()
		return
	}

	c.PC++
	c.opcode = opcode
	if c.Debug != nil {
		c.Debug(Trace{PC: c.AB, Opcode: opcode, A: c.A, X: c.X, Y: c.Y, SP: c.SP, P: c.Status(false), Cycles: c.Cycles})
	}

	if opcode == 0x00 {
		// Software BRK: not a pending hardware interrupt, but it shares
		// the exact same push/vector micro-op sequence with the B flag
		// set in the pushed status.
		c.PC++ // BRK's padding byte, per spec.md 4.3
		c.interruptType = intNone
		c.beginInterruptSequence()
		return
	}

	entry, ok := opcodeEntry[opcode]
	if !ok {
		panic(fmt.Sprintf("cpu: opcode %#02x has no sequence (programmer error)", opcode))
	}
	if entry == 0 {
		c.state = stateFetch
		return
	}
	c.state = entry
}

// Snapshot captures every field that participates in the CPU's observable
// state, for save-state round-tripping (spec.md section 8: save_state
// composed with load_state must be the identity).
type Snapshot struct {
	A, X, Y uint8
	SP      uint8
	PC      uint16

	N, V, I, Z, C, D bool

	AB      uint16
	DB      uint8
	Tmp16   uint16
	OpenBus uint8

	Val     uint8
	EffAddr uint16
	BasePC  uint16

	State  uint16
	Opcode uint8

	Cycles   uint64
	OddCycle bool

	IRQSignal   bool
	NMISignal   bool
	ResetSignal bool

	CachedIRQ bool
	CachedNMI bool
	NMIEdge   bool

	TakeInterrupt   bool
	InterruptType   interruptKind
	InterruptVector uint16

	Halt bool

	DMA dmaState
}

// Snapshot returns a value copy of the CPU's state.
func (c *CPU) Snapshot() Snapshot {
	return Snapshot{
		A: c.A, X: c.X, Y: c.Y, SP: c.SP, PC: c.PC,
		N: c.N, V: c.V, I: c.I, Z: c.Z, C: c.C, D: c.D,
		AB: c.AB, DB: c.DB, Tmp16: c.tmp16, OpenBus: c.openBus,
		Val: c.val, EffAddr: c.effAddr, BasePC: c.basePC,
		State: c.state, Opcode: c.opcode,
		Cycles: c.Cycles, OddCycle: c.oddCycle,
		IRQSignal: c.irqSignal, NMISignal: c.nmiSignal, ResetSignal: c.resetSignal,
		CachedIRQ: c.cachedIRQ, CachedNMI: c.cachedNMI, NMIEdge: c.nmiEdge,
		TakeInterrupt: c.takeInterrupt, InterruptType: c.interruptType, InterruptVector: c.interruptVector,
		Halt: c.halt,
		DMA:  c.dma,
	}
}

// Restore installs a previously captured Snapshot verbatim. The Bus and
// Debug hook are left untouched: they are wiring, not machine state.
func (c *CPU) Restore(s Snapshot) {
	c.A, c.X, c.Y, c.SP, c.PC = s.A, s.X, s.Y, s.SP, s.PC
	c.N, c.V, c.I, c.Z, c.C, c.D = s.N, s.V, s.I, s.Z, s.C, s.D
	c.AB, c.DB, c.tmp16, c.openBus = s.AB, s.DB, s.Tmp16, s.OpenBus
	c.val, c.effAddr, c.basePC = s.Val, s.EffAddr, s.BasePC
	c.state, c.opcode = s.State, s.Opcode
	c.Cycles, c.oddCycle = s.Cycles, s.OddCycle
	c.irqSignal, c.nmiSignal, c.resetSignal = s.IRQSignal, s.NMISignal, s.ResetSignal
	c.cachedIRQ, c.cachedNMI, c.nmiEdge = s.CachedIRQ, s.CachedNMI, s.NMIEdge
	c.takeInterrupt, c.interruptType, c.interruptVector = s.TakeInterrupt, s.InterruptType, s.InterruptVector
	c.halt = s.Halt
	c.dma = s.DMA
}

// cacheInterrupts takes a raw, ungated snapshot of the IRQ/NMI lines. It
// runs on every cycle up through an instruction's second-to-last, so the
// value checkInterrupts later consumes was captured strictly before the
// final cycle's own op runs (spec.md section 4.3: "interrupts are cached
// one cycle before they are acted on").
func (c *CPU) cacheInterrupts() {
	c.cachedIRQ = c.irqSignal
	c.cachedNMI = c.nmiEdge
}

// checkInterrupts resolves takeInterrupt/interruptType from whatever
// cacheInterrupts most recently captured, gated by the *live* I flag: NMI is
// edge-latched and has priority over IRQ, IRQ is masked by I, and reset
// always wins. It runs on an instruction's final cycle before that cycle's
// own op, so an instruction that itself changes I on its final cycle (CLI,
// SEI, PLP) does not affect this check until the one after it. RTI restores
// I on an earlier cycle, so its own check already sees the pulled value.
func (c *CPU) checkInterrupts() {
	if c.resetSignal {
		c.takeInterrupt = true
		c.interruptType = intReset
		c.resetSignal = false
		return
	}
	if c.cachedNMI {
		c.takeInterrupt = true
		c.interruptType = intNMI
		c.cachedNMI = false
		c.nmiEdge = false
		return
	}
	if c.cachedIRQ && !c.I {
		c.takeInterrupt = true
		c.interruptType = intIRQ
		return
	}
	c.takeInterrupt = false
	c.interruptType = intNone
}
