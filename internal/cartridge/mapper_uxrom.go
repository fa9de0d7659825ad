package cartridge

// uxrom implements mapper 2: a single switchable 16KiB PRG bank at $8000,
// fixed to the last 16KiB bank at $C000. CHR is always RAM (8KiB, not
// banked).
type uxrom struct {
	cart         *Cartridge
	mirroring    Mirroring
	nametableRAM [0x1000]uint8
	prgBank      int
}

func newUxROM(cart *Cartridge) *uxrom {
	return &uxrom{cart: cart, mirroring: cart.Header.Mirroring}
}

func (m *uxrom) bankCount() int { return len(m.cart.prgROM) / 0x4000 }

func (m *uxrom) CPURead(addr uint16) (uint8, bool) {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		if len(m.cart.prgRAM) > 0 {
			return m.cart.prgRAM[int(addr-0x6000)%len(m.cart.prgRAM)], true
		}
		return 0, false
	case addr >= 0x8000 && addr < 0xC000:
		bank := m.prgBank % m.bankCount()
		return m.cart.prgROM[bank*0x4000+int(addr-0x8000)], true
	case addr >= 0xC000:
		bank := m.bankCount() - 1
		return m.cart.prgROM[bank*0x4000+int(addr-0xC000)], true
	default:
		return 0, false
	}
}

func (m *uxrom) CPUWrite(addr uint16, val uint8, _ uint64, _ *IRQLine) {
	if addr >= 0x6000 && addr < 0x8000 && len(m.cart.prgRAM) > 0 {
		m.cart.prgRAM[int(addr-0x6000)%len(m.cart.prgRAM)] = val
		return
	}
	if addr >= 0x8000 {
		m.prgBank = int(val)
	}
}

func (m *uxrom) PPUReadCHR(addr uint16) uint8 { return m.cart.chrROM[int(addr)%len(m.cart.chrROM)] }
func (m *uxrom) PPUWriteCHR(addr uint16, val uint8) {
	if m.cart.CHRIsRAM() {
		m.cart.chrROM[int(addr)%len(m.cart.chrROM)] = val
	}
}

func (m *uxrom) PPUReadNametable(addr uint16) uint8 {
	return m.nametableRAM[resolveNametable(m.mirroring, addr)]
}
func (m *uxrom) PPUWriteNametable(addr uint16, val uint8) {
	m.nametableRAM[resolveNametable(m.mirroring, addr)] = val
}

func (m *uxrom) NotifyA12(bool, uint64, *IRQLine) {}
func (m *uxrom) ClockCPUCycle(*IRQLine)           {}
func (m *uxrom) CurrentMirroring() Mirroring      { return m.mirroring }

func (m *uxrom) Snapshot() MapperState {
	return MapperState{
		Kind:         KindUxROM,
		NametableRAM: append([]uint8(nil), m.nametableRAM[:]...),
		PRGBank:      m.prgBank,
		Mirroring:    m.mirroring,
	}
}

func (m *uxrom) Restore(s MapperState) {
	copy(m.nametableRAM[:], s.NametableRAM)
	m.prgBank = s.PRGBank
	m.mirroring = s.Mirroring
}
