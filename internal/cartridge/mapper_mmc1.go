package cartridge

// mmc1 implements mapper 1 (SxROM family): a 5-bit serial shift register
// loaded one bit per write, committing to one of four internal registers
// (control, CHR0, CHR1, PRG) on the fifth write. See spec.md 4.2.
type mmc1 struct {
	cart *Cartridge

	nametableRAM [0x1000]uint8
	mirroring    Mirroring

	shift      uint8
	shiftCount uint8

	control uint8 // bit0-1 mirroring, bit2-3 PRG mode, bit4 CHR mode
	chr0    uint8
	chr1    uint8
	prg     uint8

	prgRAMEnabled bool

	lastWriteCycle uint64
	haveLastWrite  bool
}

func newMMC1(cart *Cartridge) *mmc1 {
	m := &mmc1{cart: cart, mirroring: cart.Header.Mirroring}
	m.shift = 0x10
	m.control = 0x0C // power-on: PRG mode 3 (fix last bank at $C000)
	m.prgRAMEnabled = true
	return m
}

func (m *mmc1) prgBankCount16k() int {
	n := len(m.cart.prgROM) / 0x4000
	if n == 0 {
		n = 1
	}
	return n
}

func (m *mmc1) chrBankCount4k() int {
	n := len(m.cart.chrROM) / 0x1000
	if n == 0 {
		n = 1
	}
	return n
}

func (m *mmc1) CPURead(addr uint16) (uint8, bool) {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		if !m.prgRAMEnabled || len(m.cart.prgRAM) == 0 {
			return 0, false
		}
		return m.cart.prgRAM[int(addr-0x6000)%len(m.cart.prgRAM)], true
	case addr >= 0x8000:
		lo, hi := m.prgWindows()
		if addr < 0xC000 {
			return m.cart.prgROM[lo*0x4000+int(addr-0x8000)], true
		}
		return m.cart.prgROM[hi*0x4000+int(addr-0xC000)], true
	default:
		return 0, false
	}
}

// prgWindows returns the bank index mapped at $8000 and at $C000 for the
// current PRG mode.
func (m *mmc1) prgWindows() (lo, hi int) {
	count := m.prgBankCount16k()
	bank := int(m.prg & 0x0F)
	mode := (m.control >> 2) & 0x03
	switch mode {
	case 0, 1: // 32KiB mode, ignore low bit of bank
		b := (bank &^ 1) % count
		return b, (b + 1) % count
	case 2: // fix first bank at $8000, switch $C000
		return 0, bank % count
	default: // 3: switch $8000, fix last bank at $C000
		return bank % count, count - 1
	}
}

func (m *mmc1) CPUWrite(addr uint16, val uint8, cycle uint64, _ *IRQLine) {
	if addr >= 0x6000 && addr < 0x8000 {
		if m.prgRAMEnabled && len(m.cart.prgRAM) > 0 {
			m.cart.prgRAM[int(addr-0x6000)%len(m.cart.prgRAM)] = val
		}
		return
	}
	if addr < 0x8000 {
		return
	}

	if val&0x80 != 0 {
		m.shift = 0x10
		m.shiftCount = 0
		m.control |= 0x0C
		m.haveLastWrite = false
		return
	}

	// Two writes landing in back-to-back CPU cycles (the two store
	// cycles of a single read-modify-write instruction) collapse to one;
	// only the first is honored.
	if m.haveLastWrite && cycle == m.lastWriteCycle+1 {
		m.lastWriteCycle = cycle
		return
	}
	m.lastWriteCycle = cycle
	m.haveLastWrite = true

	complete := m.shiftCount == 4
	m.shift = (m.shift >> 1) | ((val & 0x01) << 4)
	m.shiftCount++
	if !complete {
		return
	}

	result := m.shift
	m.shift = 0x10
	m.shiftCount = 0

	switch {
	case addr < 0xA000:
		m.control = result
		switch result & 0x03 {
		case 0:
			m.mirroring = MirrorSingleLow
		case 1:
			m.mirroring = MirrorSingleHigh
		case 2:
			m.mirroring = MirrorVertical
		default:
			m.mirroring = MirrorHorizontal
		}
	case addr < 0xC000:
		m.chr0 = result
	case addr < 0xE000:
		m.chr1 = result
	default:
		m.prg = result & 0x0F
		m.prgRAMEnabled = result&0x10 == 0
	}
}

func (m *mmc1) chrBankMode() uint8 { return (m.control >> 4) & 0x01 }

func (m *mmc1) PPUReadCHR(addr uint16) uint8 {
	i := m.chrAddr(addr)
	return m.cart.chrROM[i]
}

func (m *mmc1) PPUWriteCHR(addr uint16, val uint8) {
	if m.cart.CHRIsRAM() {
		m.cart.chrROM[m.chrAddr(addr)] = val
	}
}

func (m *mmc1) chrAddr(addr uint16) int {
	count := m.chrBankCount4k()
	if m.chrBankMode() == 0 {
		bank := int(m.chr0&0x1E) % count
		return bank*0x1000 + int(addr)
	}
	if addr < 0x1000 {
		bank := int(m.chr0) % count
		return bank*0x1000 + int(addr)
	}
	bank := int(m.chr1) % count
	return bank*0x1000 + int(addr-0x1000)
}

func (m *mmc1) PPUReadNametable(addr uint16) uint8 {
	return m.nametableRAM[resolveNametable(m.mirroring, addr)]
}
func (m *mmc1) PPUWriteNametable(addr uint16, val uint8) {
	m.nametableRAM[resolveNametable(m.mirroring, addr)] = val
}

func (m *mmc1) NotifyA12(bool, uint64, *IRQLine) {}
func (m *mmc1) ClockCPUCycle(*IRQLine)           {}
func (m *mmc1) CurrentMirroring() Mirroring      { return m.mirroring }

func (m *mmc1) Snapshot() MapperState {
	prg := m.prg
	if !m.prgRAMEnabled {
		prg |= 0x10 // PRG register bit 4: PRG-RAM disabled
	}
	return MapperState{
		Kind:           KindMMC1,
		NametableRAM:   append([]uint8(nil), m.nametableRAM[:]...),
		Mirroring:      m.mirroring,
		ShiftReg:       m.shift,
		ShiftCount:     m.shiftCount,
		Control:        m.control,
		CHRBank0:       m.chr0,
		CHRBank1:       m.chr1,
		PRGBankReg:     prg,
		LastWriteCycle: int64(m.lastWriteCycle),
	}
}

func (m *mmc1) Restore(s MapperState) {
	copy(m.nametableRAM[:], s.NametableRAM)
	m.mirroring = s.Mirroring
	m.shift = s.ShiftReg
	m.shiftCount = s.ShiftCount
	m.control = s.Control
	m.chr0 = s.CHRBank0
	m.chr1 = s.CHRBank1
	m.prg = s.PRGBankReg & 0x0F
	m.prgRAMEnabled = s.PRGBankReg&0x10 == 0
	m.lastWriteCycle = uint64(s.LastWriteCycle)
	m.haveLastWrite = true
}
