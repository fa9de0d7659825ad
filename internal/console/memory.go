package console

import "github.com/nescore/nescore/internal/cartridge"

// Read and Write implement cpu.Bus: the console is the only thing the CPU
// can see, and every other component is reached only through here
// (spec.md section 3's "no component reads the inside of another
// directly").
func (c *Console) Read(addr uint16) uint8 {
	switch {
	case addr < 0x2000:
		return c.ram[addr&0x07FF]
	case addr < 0x4000:
		return c.ppu.ReadRegister(0x2000 + addr&0x0007)
	case addr == 0x4015:
		return c.apu.ReadStatus()
	case addr == 0x4016:
		return c.ctrl.Read(c.cpu.OpenBus())
	case addr == 0x4017:
		// No second controller port (spec.md Non-goals); the bit simply
		// reflects open bus, matching an always-disconnected port.
		return c.cpu.OpenBus()
	case addr < 0x4018:
		// $4000-$4013, $4014: write-only APU/OAM-DMA registers.
		return c.cpu.OpenBus()
	case addr < 0x4020:
		// APU/IO test-mode space, not implemented on retail consoles either.
		return c.cpu.OpenBus()
	default:
		if v, ok := c.cart.Mapper().CPURead(addr); ok {
			return v
		}
		return c.cpu.OpenBus()
	}
}

func (c *Console) Write(addr uint16, val uint8) {
	switch {
	case addr < 0x2000:
		c.ram[addr&0x07FF] = val
	case addr < 0x4000:
		c.ppu.WriteRegister(0x2000+addr&0x0007, val)
	case addr == 0x4014:
		c.startOAMDMA(val)
	case addr == 0x4016:
		c.ctrl.Write(val)
	case addr < 0x4018:
		c.apu.WriteRegister(addr, val)
	case addr < 0x4020:
		// APU/IO test-mode space: writes are accepted and ignored.
	default:
		c.cart.Mapper().CPUWrite(addr, val, c.cycles, &c.irq)
	}
}

// startOAMDMA arms the CPU's DMA stall. The even/odd cycle alignment that
// decides 513 vs. 514 total cycles (spec.md section 8) is whatever parity
// the CPU's own cycle counter is on at the moment of the $4014 write.
func (c *Console) startOAMDMA(page uint8) {
	c.cpu.ArmOAMDMA(page, c.cpu.OnOddCycle())
}

// The PPU's Bus interface is satisfied by routing CHR/nametable accesses
// to the cartridge's mapper, which owns bank switching and mirroring.
func (c *Console) PPUReadCHR(addr uint16) uint8        { return c.cart.Mapper().PPUReadCHR(addr) }
func (c *Console) PPUWriteCHR(addr uint16, val uint8)  { c.cart.Mapper().PPUWriteCHR(addr, val) }
func (c *Console) PPUReadNametable(addr uint16) uint8  { return c.cart.Mapper().PPUReadNametable(addr) }
func (c *Console) PPUWriteNametable(addr uint16, val uint8) {
	c.cart.Mapper().PPUWriteNametable(addr, val)
}

func (c *Console) NotifyA12(level bool, ppuCycle uint64, irq *cartridge.IRQLine) {
	c.cart.Mapper().NotifyA12(level, ppuCycle, irq)
}
