package cartridge

// mmc3A12FilterCycles is the minimum number of PPU cycles that must elapse
// between an A12 falling edge and the next rising edge before the rising
// edge is allowed to clock the scanline counter. Real silicon's threshold
// isn't cycle-exact; spec.md's open questions call out 9 as the value this
// emulator picked (anywhere from 8-10 passes the standard timing tests).
const mmc3A12FilterCycles = 9

// mmc3 implements mapper 4 (MMC3/TxROM, submapper 0): 8 banking registers
// behind a bank-select/bank-data register pair, plus an A12-edge-driven
// scanline IRQ counter. See spec.md 4.2.
type mmc3 struct {
	cart *Cartridge

	nametableRAM [0x1000]uint8
	mirroring    Mirroring

	bankSelect uint8
	regs       [8]uint8
	prgRAMProtect uint8

	irqLatch   uint8
	irqCounter uint8
	irqReload  bool
	irqEnable  bool

	lastA12         bool
	haveLastA12Fall bool
	lastA12FallCycle uint64
}

func newMMC3(cart *Cartridge) *mmc3 {
	return &mmc3{cart: cart, mirroring: cart.Header.Mirroring}
}

func (m *mmc3) prgBankCount8k() int {
	n := len(m.cart.prgROM) / 0x2000
	if n == 0 {
		n = 1
	}
	return n
}

func (m *mmc3) chrBankCount1k() int {
	n := len(m.cart.chrROM) / 0x0400
	if n == 0 {
		n = 1
	}
	return n
}

func (m *mmc3) prgMode() uint8 { return (m.bankSelect >> 6) & 0x01 }
func (m *mmc3) chrInvert() uint8 { return (m.bankSelect >> 7) & 0x01 }

func (m *mmc3) prgBank(window int) int {
	count := m.prgBankCount8k()
	last := count - 1
	r6 := int(m.regs[6]) % count
	r7 := int(m.regs[7]) % count
	if m.prgMode() == 0 {
		switch window {
		case 0:
			return r6
		case 1:
			return r7
		case 2:
			return last - 1
		default:
			return last
		}
	}
	switch window {
	case 0:
		return last - 1
	case 1:
		return r7
	case 2:
		return r6
	default:
		return last
	}
}

func (m *mmc3) CPURead(addr uint16) (uint8, bool) {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		if len(m.cart.prgRAM) == 0 || m.prgRAMProtect&0x80 == 0 {
			return 0, false
		}
		return m.cart.prgRAM[int(addr-0x6000)%len(m.cart.prgRAM)], true
	case addr >= 0x8000:
		window := int(addr-0x8000) / 0x2000
		bank := m.prgBank(window)
		off := int(addr-0x8000) % 0x2000
		return m.cart.prgROM[bank*0x2000+off], true
	default:
		return 0, false
	}
}

func (m *mmc3) CPUWrite(addr uint16, val uint8, _ uint64, irq *IRQLine) {
	if addr >= 0x6000 && addr < 0x8000 {
		if m.prgRAMProtect&0x80 != 0 && m.prgRAMProtect&0x40 == 0 && len(m.cart.prgRAM) > 0 {
			m.cart.prgRAM[int(addr-0x6000)%len(m.cart.prgRAM)] = val
		}
		return
	}
	if addr < 0x8000 {
		return
	}
	even := addr%2 == 0
	switch {
	case addr < 0xA000:
		if even {
			m.bankSelect = val
		} else {
			m.regs[m.bankSelect&0x07] = val
		}
	case addr < 0xC000:
		if even {
			if val&0x01 != 0 {
				m.mirroring = MirrorHorizontal
			} else {
				m.mirroring = MirrorVertical
			}
		} else {
			m.prgRAMProtect = val
		}
	case addr < 0xE000:
		if even {
			m.irqLatch = val
		} else {
			m.irqReload = true
		}
	default:
		if even {
			m.irqEnable = false
			irq.Clear()
		} else {
			m.irqEnable = true
		}
	}
}

func (m *mmc3) chrAddr(addr uint16) int {
	count := m.chrBankCount1k()
	var region int
	var off int
	if m.chrInvert() == 0 {
		region = int(addr) / 0x0400
		off = int(addr) % 0x0400
	} else {
		shifted := (int(addr) + 0x1000) % 0x2000
		region = shifted / 0x0400
		off = shifted % 0x0400
	}
	var bank int
	switch region {
	case 0:
		bank = int(m.regs[0] &^ 1)
	case 1:
		bank = int(m.regs[0] | 1)
	case 2:
		bank = int(m.regs[1] &^ 1)
	case 3:
		bank = int(m.regs[1] | 1)
	case 4:
		bank = int(m.regs[2])
	case 5:
		bank = int(m.regs[3])
	case 6:
		bank = int(m.regs[4])
	default:
		bank = int(m.regs[5])
	}
	bank %= count
	return bank*0x0400 + off
}

func (m *mmc3) PPUReadCHR(addr uint16) uint8 { return m.cart.chrROM[m.chrAddr(addr)] }
func (m *mmc3) PPUWriteCHR(addr uint16, val uint8) {
	if m.cart.CHRIsRAM() {
		m.cart.chrROM[m.chrAddr(addr)] = val
	}
}

func (m *mmc3) PPUReadNametable(addr uint16) uint8 {
	return m.nametableRAM[resolveNametable(m.mirroring, addr)]
}
func (m *mmc3) PPUWriteNametable(addr uint16, val uint8) {
	m.nametableRAM[resolveNametable(m.mirroring, addr)] = val
}

// NotifyA12 runs the scanline-counter filter described in spec.md 4.2: a
// falling edge just records its PPU cycle; a rising edge clocks the
// counter only if at least mmc3A12FilterCycles PPU cycles passed since the
// last recorded fall (filters out the PPU's own rendering glitches, which
// toggle A12 much faster than once per scanline).
func (m *mmc3) NotifyA12(level bool, ppuCycle uint64, irq *IRQLine) {
	if level == m.lastA12 {
		return
	}
	m.lastA12 = level
	if !level {
		m.lastA12FallCycle = ppuCycle
		m.haveLastA12Fall = true
		return
	}
	if m.haveLastA12Fall && ppuCycle-m.lastA12FallCycle < mmc3A12FilterCycles {
		return
	}
	m.clockIRQCounter(irq)
}

func (m *mmc3) clockIRQCounter(irq *IRQLine) {
	if m.irqCounter == 0 || m.irqReload {
		m.irqCounter = m.irqLatch
		m.irqReload = false
	} else {
		m.irqCounter--
	}
	if m.irqCounter == 0 && m.irqEnable {
		irq.Assert()
	}
}

func (m *mmc3) ClockCPUCycle(*IRQLine)      {}
func (m *mmc3) CurrentMirroring() Mirroring { return m.mirroring }

func (m *mmc3) Snapshot() MapperState {
	return MapperState{
		Kind:             KindMMC3,
		NametableRAM:     append([]uint8(nil), m.nametableRAM[:]...),
		Mirroring:        m.mirroring,
		BankSelect:       m.bankSelect,
		BankRegs:         m.regs,
		IRQLatch:         m.irqLatch,
		IRQCounter:       m.irqCounter,
		IRQReload:        m.irqReload,
		IRQEnable:        m.irqEnable,
		LastA12:          m.lastA12,
		LastA12FallCycle: m.lastA12FallCycle,
		PRGMode:          m.prgMode(),
		CHRMode:          m.chrInvert(),
	}
}

func (m *mmc3) Restore(s MapperState) {
	copy(m.nametableRAM[:], s.NametableRAM)
	m.mirroring = s.Mirroring
	m.bankSelect = s.BankSelect
	m.regs = s.BankRegs
	m.irqLatch = s.IRQLatch
	m.irqCounter = s.IRQCounter
	m.irqReload = s.IRQReload
	m.irqEnable = s.IRQEnable
	m.lastA12 = s.LastA12
	m.lastA12FallCycle = s.LastA12FallCycle
	m.haveLastA12Fall = true
}
