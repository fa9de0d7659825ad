package cartridge

// cnrom implements mapper 3: fixed PRG (16 or 32KiB, mirrored like NROM),
// and a switchable 8KiB CHR-ROM bank selected by any $8000-$FFFF write.
type cnrom struct {
	cart         *Cartridge
	mirroring    Mirroring
	nametableRAM [0x1000]uint8
	chrBank      int
}

func newCNROM(cart *Cartridge) *cnrom {
	return &cnrom{cart: cart, mirroring: cart.Header.Mirroring}
}

func (m *cnrom) chrBankCount() int {
	if len(m.cart.chrROM) == 0 {
		return 1
	}
	return len(m.cart.chrROM) / 0x2000
}

func (m *cnrom) CPURead(addr uint16) (uint8, bool) {
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

func (m *cnrom) CPUWrite(addr uint16, val uint8, _ uint64, _ *IRQLine) {
	if addr >= 0x6000 && addr < 0x8000 && len(m.cart.prgRAM) > 0 {
		m.cart.prgRAM[int(addr-0x6000)%len(m.cart.prgRAM)] = val
		return
	}
	if addr >= 0x8000 {
		m.chrBank = int(val) % m.chrBankCount()
	}
}

func (m *cnrom) PPUReadCHR(addr uint16) uint8 {
	if !m.cart.CHRIsRAM() {
		return m.cart.chrROM[m.chrBank*0x2000+int(addr)]
	}
	return m.cart.chrROM[int(addr)%len(m.cart.chrROM)]
}

func (m *cnrom) PPUWriteCHR(addr uint16, val uint8) {
	if m.cart.CHRIsRAM() {
		m.cart.chrROM[int(addr)%len(m.cart.chrROM)] = val
	}
}

func (m *cnrom) PPUReadNametable(addr uint16) uint8 {
	return m.nametableRAM[resolveNametable(m.mirroring, addr)]
}
func (m *cnrom) PPUWriteNametable(addr uint16, val uint8) {
	m.nametableRAM[resolveNametable(m.mirroring, addr)] = val
}

func (m *cnrom) NotifyA12(bool, uint64, *IRQLine) {}
func (m *cnrom) ClockCPUCycle(*IRQLine)           {}
func (m *cnrom) CurrentMirroring() Mirroring      { return m.mirroring }

func (m *cnrom) Snapshot() MapperState {
	return MapperState{
		Kind:         KindCNROM,
		NametableRAM: append([]uint8(nil), m.nametableRAM[:]...),
		CHRBank:      m.chrBank,
		Mirroring:    m.mirroring,
	}
}

func (m *cnrom) Restore(s MapperState) {
	copy(m.nametableRAM[:], s.NametableRAM)
	m.chrBank = s.CHRBank
	m.mirroring = s.Mirroring
}
