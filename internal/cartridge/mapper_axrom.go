package cartridge

// axrom implements mapper 7: a single switchable 32KiB PRG bank and
// single-screen mirroring selected by bit 4 of the same bank-select write.
// The mirroring side effect is not mentioned by spec.md's mapper list; it
// is part of the original reference implementation's mapper table (see
// SPEC_FULL.md's "Supplemented features").
type axrom struct {
	cart         *Cartridge
	mirroring    Mirroring
	nametableRAM [0x1000]uint8
	prgBank      int
}

func newAxROM(cart *Cartridge) *axrom {
	return &axrom{cart: cart, mirroring: MirrorSingleLow}
}

func (m *axrom) bankCount() int {
	n := len(m.cart.prgROM) / 0x8000
	if n == 0 {
		n = 1
	}
	return n
}

func (m *axrom) CPURead(addr uint16) (uint8, bool) {
	if addr < 0x8000 {
		return 0, false
	}
	bank := m.prgBank % m.bankCount()
	return m.cart.prgROM[bank*0x8000+int(addr-0x8000)], true
}

func (m *axrom) CPUWrite(addr uint16, val uint8, _ uint64, _ *IRQLine) {
	if addr < 0x8000 {
		return
	}
	m.prgBank = int(val & 0x07)
	if val&0x10 != 0 {
		m.mirroring = MirrorSingleHigh
	} else {
		m.mirroring = MirrorSingleLow
	}
}

func (m *axrom) PPUReadCHR(addr uint16) uint8 { return m.cart.chrROM[int(addr)%len(m.cart.chrROM)] }
func (m *axrom) PPUWriteCHR(addr uint16, val uint8) {
	if m.cart.CHRIsRAM() {
		m.cart.chrROM[int(addr)%len(m.cart.chrROM)] = val
	}
}

func (m *axrom) PPUReadNametable(addr uint16) uint8 {
	return m.nametableRAM[resolveNametable(m.mirroring, addr)]
}
func (m *axrom) PPUWriteNametable(addr uint16, val uint8) {
	m.nametableRAM[resolveNametable(m.mirroring, addr)] = val
}

func (m *axrom) NotifyA12(bool, uint64, *IRQLine) {}
func (m *axrom) ClockCPUCycle(*IRQLine)           {}
func (m *axrom) CurrentMirroring() Mirroring      { return m.mirroring }

func (m *axrom) Snapshot() MapperState {
	return MapperState{
		Kind:         KindAxROM,
		NametableRAM: append([]uint8(nil), m.nametableRAM[:]...),
		PRGBank:      m.prgBank,
		Mirroring:    m.mirroring,
	}
}

func (m *axrom) Restore(s MapperState) {
	copy(m.nametableRAM[:], s.NametableRAM)
	m.prgBank = s.PRGBank
	m.mirroring = s.Mirroring
}
