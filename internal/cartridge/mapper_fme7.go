package cartridge

// fme7 implements mapper 69 (Sunsoft FME-7): a command/parameter register
// pair selecting among 16 internal registers (8 CHR banks, 4 PRG banks,
// mirroring, and a 16-bit cycle-counting IRQ). The 5B sound expansion some
// FME-7 boards carry is out of scope (spec.md Non-goals: no audio
// expansion chips).
type fme7 struct {
	cart *Cartridge

	nametableRAM [0x1000]uint8
	mirroring    Mirroring

	command uint8
	chrBank [8]uint8
	prgBank [3]uint8 // banks for $8000, $A000, $C000 windows
	ramCtrl uint8     // bit7: RAM select, bit6: RAM enable, bits0-5: bank

	irqCounter       uint16
	irqCounterEnable bool
	irqEnable        bool
}

func newFME7(cart *Cartridge) *fme7 {
	return &fme7{cart: cart, mirroring: cart.Header.Mirroring}
}

func (m *fme7) prgBankCount8k() int {
	n := len(m.cart.prgROM) / 0x2000
	if n == 0 {
		n = 1
	}
	return n
}

func (m *fme7) chrBankCount1k() int {
	n := len(m.cart.chrROM) / 0x0400
	if n == 0 {
		n = 1
	}
	return n
}

func (m *fme7) CPURead(addr uint16) (uint8, bool) {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		if m.ramCtrl&0x40 == 0 || len(m.cart.prgRAM) == 0 {
			return 0, false
		}
		bank := int(m.ramCtrl&0x3F) % (len(m.cart.prgRAM) / 0x2000)
		return m.cart.prgRAM[bank*0x2000+int(addr-0x6000)], true
	case addr >= 0x8000 && addr < 0xE000:
		window := int(addr-0x8000) / 0x2000
		count := m.prgBankCount8k()
		bank := int(m.prgBank[window]) % count
		return m.cart.prgROM[bank*0x2000+int(addr-0x8000)%0x2000], true
	case addr >= 0xE000:
		count := m.prgBankCount8k()
		return m.cart.prgROM[(count-1)*0x2000+int(addr-0xE000)], true
	default:
		return 0, false
	}
}

func (m *fme7) CPUWrite(addr uint16, val uint8, _ uint64, irq *IRQLine) {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		if m.ramCtrl&0xC0 == 0xC0 && len(m.cart.prgRAM) > 0 {
			bank := int(m.ramCtrl&0x3F) % (len(m.cart.prgRAM) / 0x2000)
			m.cart.prgRAM[bank*0x2000+int(addr-0x6000)] = val
		}
	case addr >= 0x8000 && addr < 0xA000:
		m.command = val & 0x0F
	case addr >= 0xA000 && addr < 0xC000:
		m.writeRegister(val, irq)
	}
}

func (m *fme7) writeRegister(val uint8, irq *IRQLine) {
	switch {
	case m.command <= 0x07:
		m.chrBank[m.command] = val
	case m.command == 0x08:
		m.ramCtrl = val
	case m.command >= 0x09 && m.command <= 0x0B:
		m.prgBank[m.command-0x09] = val & 0x3F
	case m.command == 0x0C:
		switch val & 0x03 {
		case 0:
			m.mirroring = MirrorVertical
		case 1:
			m.mirroring = MirrorHorizontal
		case 2:
			m.mirroring = MirrorSingleLow
		default:
			m.mirroring = MirrorSingleHigh
		}
	case m.command == 0x0D:
		m.irqCounterEnable = val&0x01 != 0
		m.irqEnable = val&0x80 != 0
		irq.Clear()
	case m.command == 0x0E:
		m.irqCounter = (m.irqCounter & 0xFF00) | uint16(val)
	case m.command == 0x0F:
		m.irqCounter = (m.irqCounter & 0x00FF) | uint16(val)<<8
	}
}

func (m *fme7) PPUReadCHR(addr uint16) uint8 {
	count := m.chrBankCount1k()
	region := int(addr) / 0x0400
	off := int(addr) % 0x0400
	bank := int(m.chrBank[region]) % count
	return m.cart.chrROM[bank*0x0400+off]
}

func (m *fme7) PPUWriteCHR(addr uint16, val uint8) {
	if !m.cart.CHRIsRAM() {
		return
	}
	count := m.chrBankCount1k()
	region := int(addr) / 0x0400
	off := int(addr) % 0x0400
	bank := int(m.chrBank[region]) % count
	m.cart.chrROM[bank*0x0400+off] = val
}

func (m *fme7) PPUReadNametable(addr uint16) uint8 {
	return m.nametableRAM[resolveNametable(m.mirroring, addr)]
}
func (m *fme7) PPUWriteNametable(addr uint16, val uint8) {
	m.nametableRAM[resolveNametable(m.mirroring, addr)] = val
}

func (m *fme7) NotifyA12(bool, uint64, *IRQLine) {}

// ClockCPUCycle decrements the 16-bit IRQ counter once per CPU cycle while
// counter-enable is set; underflowing past zero asserts IRQ iff IRQ-enable
// is also set (spec.md 4.2).
func (m *fme7) ClockCPUCycle(irq *IRQLine) {
	if !m.irqCounterEnable {
		return
	}
	if m.irqCounter == 0 {
		m.irqCounter = 0xFFFF
		if m.irqEnable {
			irq.Assert()
		}
		return
	}
	m.irqCounter--
}

func (m *fme7) CurrentMirroring() Mirroring { return m.mirroring }

func (m *fme7) Snapshot() MapperState {
	return MapperState{
		Kind:             KindFME7,
		NametableRAM:     append([]uint8(nil), m.nametableRAM[:]...),
		Mirroring:        m.mirroring,
		CommandReg:       m.command,
		CHRBanks:         m.chrBank,
		PRGBanks:         [4]uint8{m.prgBank[0], m.prgBank[1], m.prgBank[2], 0},
		RAMSelect:        m.ramCtrl,
		IRQCounter16:     m.irqCounter,
		IRQCounterEnable: m.irqCounterEnable,
		IRQEnable:        m.irqEnable,
	}
}

func (m *fme7) Restore(s MapperState) {
	copy(m.nametableRAM[:], s.NametableRAM)
	m.mirroring = s.Mirroring
	m.command = s.CommandReg
	m.chrBank = s.CHRBanks
	m.prgBank[0], m.prgBank[1], m.prgBank[2] = s.PRGBanks[0], s.PRGBanks[1], s.PRGBanks[2]
	m.ramCtrl = s.RAMSelect
	m.irqCounter = s.IRQCounter16
	m.irqCounterEnable = s.IRQCounterEnable
	m.irqEnable = s.IRQEnable
}
