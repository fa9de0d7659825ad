package cartridge

// nrom implements mapper 0: no bank switching at all. PRG-ROM is 16KiB
// (mirrored across $8000-$FFFF) or 32KiB; CHR is a fixed 8KiB ROM or RAM
// bank.
type nrom struct {
	cart         *Cartridge
	mirroring    Mirroring
	nametableRAM [0x1000]uint8
}

func newNROM(cart *Cartridge) *nrom {
	return &nrom{cart: cart, mirroring: cart.Header.Mirroring}
}

func (m *nrom) CPURead(addr uint16) (uint8, bool) {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		if len(m.cart.prgRAM) > 0 {
			return m.cart.prgRAM[int(addr-0x6000)%len(m.cart.prgRAM)], true
		}
		return 0, false
	case addr >= 0x8000:
		i := int(addr-0x8000) % len(m.cart.prgROM)
		return m.cart.prgROM[i], true
	default:
		return 0, false
	}
}

func (m *nrom) CPUWrite(addr uint16, val uint8, _ uint64, _ *IRQLine) {
	if addr >= 0x6000 && addr < 0x8000 && len(m.cart.prgRAM) > 0 {
		m.cart.prgRAM[int(addr-0x6000)%len(m.cart.prgRAM)] = val
	}
}

func (m *nrom) PPUReadCHR(addr uint16) uint8 {
	return m.cart.chrROM[int(addr)%len(m.cart.chrROM)]
}

func (m *nrom) PPUWriteCHR(addr uint16, val uint8) {
	if m.cart.CHRIsRAM() {
		m.cart.chrROM[int(addr)%len(m.cart.chrROM)] = val
	}
}

func (m *nrom) PPUReadNametable(addr uint16) uint8 {
	return m.nametableRAM[resolveNametable(m.mirroring, addr)]
}

func (m *nrom) PPUWriteNametable(addr uint16, val uint8) {
	m.nametableRAM[resolveNametable(m.mirroring, addr)] = val
}

func (m *nrom) NotifyA12(bool, uint64, *IRQLine) {}
func (m *nrom) ClockCPUCycle(*IRQLine)           {}
func (m *nrom) CurrentMirroring() Mirroring      { return m.mirroring }

func (m *nrom) Snapshot() MapperState {
	return MapperState{Kind: KindNROM, NametableRAM: append([]uint8(nil), m.nametableRAM[:]...), Mirroring: m.mirroring}
}

func (m *nrom) Restore(s MapperState) {
	copy(m.nametableRAM[:], s.NametableRAM)
	m.mirroring = s.Mirroring
}
