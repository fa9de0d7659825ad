// Package ppu implements the Picture Processing Unit for the NES.
package ppu

import "github.com/nescore/nescore/internal/cartridge"

// Bus is the subset of cartridge access the PPU needs: CHR pattern data
// and nametable storage, both mapper-resolved since mirroring and bank
// switching are cartridge concerns.
type Bus interface {
	PPUReadCHR(addr uint16) uint8
	PPUWriteCHR(addr uint16, val uint8)
	PPUReadNametable(addr uint16) uint8
	PPUWriteNametable(addr uint16, val uint8)
	NotifyA12(level bool, ppuCycle uint64, irq *cartridge.IRQLine)
}

// PPU represents the NES Picture Processing Unit (2C02).
type PPU struct {
	ppuCtrl   uint8 // $2000
	ppuMask   uint8 // $2001
	ppuStatus uint8 // $2002
	oamAddr   uint8 // $2003

	v uint16 // current VRAM address (15 bits)
	t uint16 // temporary VRAM address / address latch
	x uint8  // fine X scroll (3 bits)
	w bool   // write toggle

	bus Bus
	irq *cartridge.IRQLine

	scanline int // -1 (pre-render) .. 260
	cycle    int // 0..340

	frameCount uint64
	oddFrame   bool
	ppuCycles  uint64 // monotonic PPU cycle counter, for A12 filtering

	readBuffer uint8
	openBus    uint8

	oam          [256]uint8
	secondaryOAM [8]spriteSlot
	spriteCount  int
	sprite0InSecondary bool

	spritePatternLow  [8]uint8
	spritePatternHigh [8]uint8
	spriteX           [8]uint8
	spriteAttr        [8]uint8
	spriteIsZero      [8]bool

	// Background pipeline: 16-bit shift registers holding two tiles'
	// worth of pattern/attribute bits, reloaded every 8 dots.
	bgPatternLow  uint16
	bgPatternHigh uint16
	bgAttrLow     uint16
	bgAttrHigh    uint16

	ntLatch   uint8
	atLatch   uint8
	ptLowLatch  uint8
	ptHighLatch uint8

	paletteRAM [32]uint8

	// FrameBuffer holds palette indices (0-63), not RGB: host-side
	// presentation owns the RGB lookup (see Palette).
	frameBuffer [256 * 240]uint8

	nmiOccurred bool
	nmiOutput   bool

	writesEnabled bool // false until the console's warm-up cycle count passes

	// statusReadPending is set by a $2002 read and cleared by the console
	// after the three PPU dots it's paired with have run. If one of those
	// dots is exactly (241,1), the read raced the VBlank-set dot: the read
	// already observed the flag clear (it ran before this tick's PPU dots,
	// per the console's CPU-then-PPU ordering), so the set and the NMI it
	// would have raised are suppressed for the rest of this VBlank
	// (spec.md 4.4 and 8's documented race).
	statusReadPending bool
}

type spriteSlot struct {
	y, tile, attr, x uint8
	index            int
}

// New creates a PPU wired to bus for CHR/nametable access and irq for
// mapper IRQ delivery via NotifyA12 (MMC3's scanline counter).
func New(bus Bus, irq *cartridge.IRQLine) *PPU {
	return &PPU{bus: bus, irq: irq, scanline: -1}
}

// Reset restores power-on PPU state.
func (p *PPU) Reset() {
	p.ppuCtrl = 0
	p.ppuMask = 0
	p.ppuStatus = 0
	p.oamAddr = 0
	p.v, p.t, p.x = 0, 0, 0
	p.w = false
	p.scanline = -1
	p.cycle = 0
	p.frameCount = 0
	p.oddFrame = false
	p.readBuffer = 0
	for i := range p.oam {
		p.oam[i] = 0
	}
	for i := range p.frameBuffer {
		p.frameBuffer[i] = 0
	}
	p.writesEnabled = false
}

// EnableWrites is called by the console once cycle 29658 has elapsed
// (spec.md 4.4): before that, $2000/$2001/$2005/$2006 writes are ignored.
func (p *PPU) EnableWrites() { p.writesEnabled = true }

// FrameBuffer returns the current (possibly in-progress) palette-index
// framebuffer, 256x240, row-major.
func (p *PPU) FrameBuffer() *[256 * 240]uint8 { return &p.frameBuffer }

// FrameCount reports how many frames have completed.
func (p *PPU) FrameCount() uint64 { return p.frameCount }

func (p *PPU) renderingEnabled() bool { return p.ppuMask&0x18 != 0 }
func (p *PPU) showBackground() bool   { return p.ppuMask&0x08 != 0 }
func (p *PPU) showSprites() bool      { return p.ppuMask&0x10 != 0 }

// ReadRegister reads CPU-visible $2000-$2007. Unmapped or write-only
// registers return the PPU's open-bus latch, per spec.md 4.4.
func (p *PPU) ReadRegister(addr uint16) uint8 {
	switch addr & 7 {
	case 2:
		v := (p.ppuStatus & 0xE0) | (p.openBus & 0x1F)
		p.ppuStatus &^= 0x80
		p.nmiOccurred = false
		p.w = false
		p.openBus = v
		p.statusReadPending = true
		return v
	case 4:
		v := p.oam[p.oamAddr]
		p.openBus = v
		return v
	case 7:
		v := p.readPPUData()
		p.openBus = v
		return v
	default:
		return p.openBus
	}
}

// WriteRegister writes CPU-visible $2000-$2007.
func (p *PPU) WriteRegister(addr uint16, val uint8) {
	p.openBus = val
	switch addr & 7 {
	case 0:
		if !p.writesEnabled {
			return
		}
		p.ppuCtrl = val
		// Enabling NMI generation while VBlank is already pending fires an
		// NMI immediately; NMIAsserted's nmiOccurred&&nmiOutput check
		// picks this up on the console's very next poll without needing a
		// special case here.
		p.nmiOutput = val&0x80 != 0
		p.t = (p.t & 0xF3FF) | (uint16(val&0x03) << 10)
	case 1:
		if !p.writesEnabled {
			return
		}
		p.ppuMask = val
	case 3:
		p.oamAddr = val
	case 4:
		p.oam[p.oamAddr] = val
		p.oamAddr++
	case 5:
		if !p.writesEnabled {
			return
		}
		if !p.w {
			p.t = (p.t & 0xFFE0) | uint16(val>>3)
			p.x = val & 0x07
		} else {
			p.t = (p.t & 0x8FFF) | (uint16(val&0x07) << 12)
			p.t = (p.t & 0xFC1F) | (uint16(val&0xF8) << 2)
		}
		p.w = !p.w
	case 6:
		if !p.writesEnabled {
			return
		}
		if !p.w {
			p.t = (p.t & 0x00FF) | (uint16(val&0x3F) << 8)
		} else {
			p.t = (p.t & 0xFF00) | uint16(val)
			p.v = p.t
		}
		p.w = !p.w
	case 7:
		p.writePPUData(val)
	}
}

// WriteOAM is used by OAM-DMA to deposit a byte at the current OAMADDR,
// auto-incrementing like a $2004 write.
func (p *PPU) WriteOAM(val uint8) {
	p.oam[p.oamAddr] = val
	p.oamAddr++
}

func (p *PPU) vramAddr() uint16 { return p.v & 0x3FFF }

func (p *PPU) readVRAM(addr uint16) uint8 {
	switch {
	case addr < 0x2000:
		return p.bus.PPUReadCHR(addr)
	case addr < 0x3F00:
		return p.bus.PPUReadNametable(addr)
	default:
		return p.readPalette(addr)
	}
}

func (p *PPU) writeVRAM(addr uint16, val uint8) {
	switch {
	case addr < 0x2000:
		p.bus.PPUWriteCHR(addr, val)
	case addr < 0x3F00:
		p.bus.PPUWriteNametable(addr, val)
	default:
		p.writePalette(addr, val)
	}
}

func (p *PPU) paletteIndex(addr uint16) uint16 {
	i := addr & 0x1F
	if i >= 0x10 && i%4 == 0 {
		i -= 0x10
	}
	return i
}

func (p *PPU) readPalette(addr uint16) uint8  { return p.paletteRAM[p.paletteIndex(addr)] & 0x3F }
func (p *PPU) writePalette(addr uint16, v uint8) { p.paletteRAM[p.paletteIndex(addr)] = v & 0x3F }

func (p *PPU) readPPUData() uint8 {
	addr := p.vramAddr()
	var result uint8
	if addr >= 0x3F00 {
		result = p.readPalette(addr)
		p.readBuffer = p.bus.PPUReadNametable(addr - 0x1000)
	} else {
		result = p.readBuffer
		p.readBuffer = p.readVRAM(addr)
	}
	p.advanceVRAMAddr()
	return result
}

func (p *PPU) writePPUData(val uint8) {
	p.writeVRAM(p.vramAddr(), val)
	p.advanceVRAMAddr()
}

func (p *PPU) advanceVRAMAddr() {
	if p.ppuCtrl&0x04 != 0 {
		p.v += 32
	} else {
		p.v++
	}
}

// Tick advances the PPU by exactly one dot, 3 dots per CPU cycle as
// orchestrated by the console (spec.md 4.4).
func (p *PPU) Tick() {
	p.ppuCycles++

	if p.scanline == -1 && p.cycle == 1 {
		p.ppuStatus &^= 0x40 // sprite 0 hit
		p.ppuStatus &^= 0x20 // sprite overflow
		p.ppuStatus &^= 0x80 // VBL
		p.nmiOccurred = false
	}

	if p.scanline >= -1 && p.scanline < 240 {
		p.renderTick()
	}

	if p.scanline == 241 && p.cycle == 1 {
		if !p.statusReadPending {
			p.nmiOccurred = true
			p.ppuStatus |= 0x80
		}
	}

	p.advanceDot()
}

// ClearStatusReadPending ends the race window opened by a $2002 read. The
// console calls this once per master Tick, after the three PPU dots that
// read paired with have run, so the suppression in Tick only ever applies
// to the dots belonging to the same CPU cycle as the read.
func (p *PPU) ClearStatusReadPending() { p.statusReadPending = false }

func (p *PPU) advanceDot() {
	// Odd-frame dot skip: the pre-render scanline's last dot is skipped on
	// odd frames when rendering is enabled (spec.md 8: 89,341 vs 89,342).
	if p.scanline == -1 && p.cycle == 339 && p.oddFrame && p.renderingEnabled() {
		p.cycle = 340
	}
	p.cycle++
	if p.cycle > 340 {
		p.cycle = 0
		p.scanline++
		if p.scanline > 260 {
			p.scanline = -1
			p.frameCount++
			p.oddFrame = !p.oddFrame
		}
	}
}

// NMIAsserted reports whether the PPU currently wants to drive the CPU's
// NMI line low (VBlank flag set and NMI generation enabled in PPUCTRL).
func (p *PPU) NMIAsserted() bool { return p.nmiOccurred && p.nmiOutput }

func (p *PPU) renderTick() {
	visibleOrPrerender := p.scanline >= -1 && p.scanline < 240
	if !visibleOrPrerender {
		return
	}
	bgOn := p.showBackground()
	spritesOn := p.showSprites()
	if !bgOn && !spritesOn {
		if p.scanline >= 0 && p.cycle >= 1 && p.cycle <= 256 {
			p.emitPixel()
		}
		return
	}

	if p.cycle >= 1 && p.cycle <= 256 {
		p.backgroundFetchCycle()
		if p.scanline >= 0 {
			p.emitPixel()
		}
		if p.cycle%8 == 0 {
			p.incrementCoarseX()
		}
		if p.cycle == 256 {
			p.incrementFineY()
		}
	} else if p.cycle == 257 {
		p.copyHorizontalBits()
		if p.scanline >= 0 {
			p.evaluateSprites()
		}
	} else if p.cycle >= 321 && p.cycle <= 336 {
		p.backgroundFetchCycle()
		if p.cycle%8 == 0 {
			p.incrementCoarseX()
		}
	} else if p.scanline == -1 && p.cycle >= 280 && p.cycle <= 304 {
		p.copyVerticalBits()
	}
}

// backgroundFetchCycle implements the 8-dot NT/AT/PT-low/PT-high fetch
// sequence and the shifter reload/shift that feeds emitPixel.
func (p *PPU) backgroundFetchCycle() {
	p.shiftRegisters()
	switch p.cycle % 8 {
	case 1:
		p.reloadShiftersFromLatches()
		ntAddr := 0x2000 | (p.v & 0x0FFF)
		p.ntLatch = p.bus.PPUReadNametable(ntAddr)
	case 3:
		atAddr := 0x23C0 | (p.v & 0x0C00) | ((p.v >> 4) & 0x38) | ((p.v >> 2) & 0x07)
		raw := p.bus.PPUReadNametable(atAddr)
		shift := ((p.v >> 4) & 4) | (p.v & 2)
		p.atLatch = (raw >> shift) & 0x03
	case 5:
		base := p.patternTableBase()
		fineY := (p.v >> 12) & 0x07
		addr := base + uint16(p.ntLatch)*16 + fineY
		p.notifyCHRAddr(addr)
		p.ptLowLatch = p.bus.PPUReadCHR(addr)
	case 7:
		base := p.patternTableBase()
		fineY := (p.v >> 12) & 0x07
		addr := base + uint16(p.ntLatch)*16 + fineY + 8
		p.notifyCHRAddr(addr)
		p.ptHighLatch = p.bus.PPUReadCHR(addr)
	}
}

func (p *PPU) patternTableBase() uint16 {
	if p.ppuCtrl&0x10 != 0 {
		return 0x1000
	}
	return 0
}

// notifyCHRAddr informs the mapper of the PPU address line's bit 12 state,
// letting MMC3-style mappers filter A12 toggles into scanline IRQs.
func (p *PPU) notifyCHRAddr(addr uint16) {
	p.bus.NotifyA12(addr&0x1000 != 0, p.ppuCycles, p.irq)
}

func (p *PPU) reloadShiftersFromLatches() {
	p.bgPatternLow = (p.bgPatternLow & 0xFF00) | uint16(p.ptLowLatch)
	p.bgPatternHigh = (p.bgPatternHigh & 0xFF00) | uint16(p.ptHighLatch)
	lo := uint16(0)
	hi := uint16(0)
	if p.atLatch&0x01 != 0 {
		lo = 0x00FF
	}
	if p.atLatch&0x02 != 0 {
		hi = 0x00FF
	}
	p.bgAttrLow = (p.bgAttrLow & 0xFF00) | lo
	p.bgAttrHigh = (p.bgAttrHigh & 0xFF00) | hi
}

func (p *PPU) shiftRegisters() {
	p.bgPatternLow <<= 1
	p.bgPatternHigh <<= 1
	p.bgAttrLow <<= 1
	p.bgAttrHigh <<= 1
}

func (p *PPU) incrementCoarseX() {
	if p.v&0x001F == 31 {
		p.v &^= 0x001F
		p.v ^= 0x0400
	} else {
		p.v++
	}
}

func (p *PPU) incrementFineY() {
	if p.v&0x7000 != 0x7000 {
		p.v += 0x1000
		return
	}
	p.v &^= 0x7000
	y := (p.v & 0x03E0) >> 5
	switch y {
	case 29:
		y = 0
		p.v ^= 0x0800
	case 31:
		y = 0
	default:
		y++
	}
	p.v = (p.v &^ 0x03E0) | (y << 5)
}

func (p *PPU) copyHorizontalBits() {
	if !p.renderingEnabled() {
		return
	}
	p.v = (p.v & 0xFBE0) | (p.t & 0x041F)
}

func (p *PPU) copyVerticalBits() {
	if !p.renderingEnabled() {
		return
	}
	p.v = (p.v & 0x841F) | (p.t & 0x7BE0)
}

// emitPixel composes the background and sprite pixel at (cycle-1,
// scanline) and writes the resulting palette index to the framebuffer.
func (p *PPU) emitPixel() {
	x := p.cycle - 1
	y := p.scanline

	bgPixel, bgPalette := p.backgroundPixel()
	sprPixel, sprPalette, sprPriority, sprIsZero := p.spritePixel(x)

	if x < 8 && p.ppuMask&0x02 == 0 {
		bgPixel = 0
	}
	if x < 8 && p.ppuMask&0x04 == 0 {
		sprPixel = 0
	}

	if bgPixel != 0 && sprPixel != 0 && sprIsZero && x != 255 {
		p.ppuStatus |= 0x40
	}

	var colorAddr uint16
	switch {
	case sprPixel != 0 && (bgPixel == 0 || !sprPriority):
		colorAddr = 0x3F10 + uint16(sprPalette)*4 + uint16(sprPixel)
	case bgPixel != 0:
		colorAddr = 0x3F00 + uint16(bgPalette)*4 + uint16(bgPixel)
	default:
		colorAddr = 0x3F00
	}
	p.frameBuffer[y*256+x] = p.readPalette(colorAddr)
}

func (p *PPU) backgroundPixel() (pixel uint8, palette uint8) {
	if !p.showBackground() {
		return 0, 0
	}
	bit := uint16(0x8000) >> p.x
	lo := uint8(0)
	hi := uint8(0)
	if p.bgPatternLow&bit != 0 {
		lo = 1
	}
	if p.bgPatternHigh&bit != 0 {
		hi = 1
	}
	pixel = hi<<1 | lo
	alo := uint8(0)
	ahi := uint8(0)
	if p.bgAttrLow&bit != 0 {
		alo = 1
	}
	if p.bgAttrHigh&bit != 0 {
		ahi = 1
	}
	palette = ahi<<1 | alo
	return pixel, palette
}

func (p *PPU) spritePixel(x int) (pixel uint8, palette uint8, priority bool, isZero bool) {
	if !p.showSprites() {
		return 0, 0, false, false
	}
	for i := 0; i < p.spriteCount; i++ {
		offset := x - int(p.spriteX[i])
		if offset < 0 || offset > 7 {
			continue
		}
		attr := p.spriteAttr[i]
		bitPos := offset
		if attr&0x40 == 0 { // not horizontally flipped: MSB first
			bitPos = 7 - offset
		}
		lo := (p.spritePatternLow[i] >> uint(bitPos)) & 1
		hi := (p.spritePatternHigh[i] >> uint(bitPos)) & 1
		px := hi<<1 | lo
		if px == 0 {
			continue
		}
		return px, attr & 0x03, attr&0x20 != 0, p.spriteIsZero[i]
	}
	return 0, 0, false, false
}

// evaluateSprites runs secondary-OAM evaluation for the NEXT scanline (the
// real PPU does this incrementally across cycles 65-256; this emulator
// does the equivalent work in one shot at cycle 257, which produces
// identical visible results since nothing observes OAM mid-evaluation
// except a handful of obscure OAM-corruption test ROMs outside this
// emulator's scope).
func (p *PPU) evaluateSprites() {
	height := 8
	if p.ppuCtrl&0x20 != 0 {
		height = 16
	}
	targetLine := p.scanline + 1

	p.spriteCount = 0
	p.sprite0InSecondary = false
	overflow := false

	for i := 0; i < 64 && p.spriteCount < 8; i++ {
		y := int(p.oam[i*4])
		if targetLine < y+1 || targetLine >= y+1+height {
			continue
		}
		slot := p.spriteCount
		tile := p.oam[i*4+1]
		attr := p.oam[i*4+2]
		sx := p.oam[i*4+3]

		row := targetLine - (y + 1)
		if attr&0x80 != 0 {
			row = height - 1 - row
		}
		base := p.patternTableBase()
		tileIndex := tile
		if height == 16 {
			base = uint16(tile&1) * 0x1000
			tileIndex = tile &^ 1
			if row >= 8 {
				tileIndex++
				row -= 8
			}
		}
		addr := base + uint16(tileIndex)*16 + uint16(row)
		p.notifyCHRAddr(addr)
		p.spritePatternLow[slot] = p.bus.PPUReadCHR(addr)
		p.spritePatternHigh[slot] = p.bus.PPUReadCHR(addr + 8)
		p.spriteX[slot] = sx
		p.spriteAttr[slot] = attr
		p.spriteIsZero[slot] = i == 0
		if i == 0 {
			p.sprite0InSecondary = true
		}
		p.spriteCount++
	}

	for i := p.spriteCount; i < 64; i++ {
		y := int(p.oam[i*4])
		if targetLine >= y+1 && targetLine < y+1+height {
			overflow = true
			break
		}
	}
	if overflow {
		p.ppuStatus |= 0x20
	}
}

// Palette converts a 6-bit NES palette index into an RGB888 value for
// host-side presentation (e.g. an ebiten display command). It is kept
// separate from the framebuffer itself since spec.md requires palette
// indices, not RGB, in saved/compared frame data.
func Palette(index uint8) uint32 {
	return nesColorPalette[index&0x3F] &^ 0xFF000000
}

var nesColorPalette = [64]uint32{
	0xFF666666, 0xFF002A88, 0xFF1412A7, 0xFF3B00A4, 0xFF5C007E, 0xFF6E0040, 0xFF6C0600, 0xFF561D00,
	0xFF333500, 0xFF0B4800, 0xFF005200, 0xFF004F08, 0xFF00404D, 0xFF000000, 0xFF000000, 0xFF000000,
	0xFFADADAD, 0xFF155FD9, 0xFF4240FF, 0xFF7527FE, 0xFFA01ACC, 0xFFB71E7B, 0xFFB53120, 0xFF994E00,
	0xFF6B6D00, 0xFF388700, 0xFF0C9300, 0xFF008F32, 0xFF007C8D, 0xFF000000, 0xFF000000, 0xFF000000,
	0xFFFFFEFF, 0xFF64B0FF, 0xFF9290FF, 0xFFC676FF, 0xFFF36AFF, 0xFFFE6ECC, 0xFFFE8170, 0xFFEA9E22,
	0xFFBCBE00, 0xFF88D800, 0xFF5CE430, 0xFF45E082, 0xFF48CDDE, 0xFF4F4F4F, 0xFF000000, 0xFF000000,
	0xFFFFFEFF, 0xFFC0DFFF, 0xFFD3D2FF, 0xFFE8C8FF, 0xFFFBC2FF, 0xFFFEC4EA, 0xFFFECCC5, 0xFFF7D8A5,
	0xFFE4E594, 0xFFCFF29B, 0xFFBEFBB3, 0xFFB8F8D8, 0xFFB8F8F8, 0xFF000000, 0xFF000000, 0xFF000000,
}

// spriteSlotSnapshot mirrors spriteSlot with exported fields, since gob
// only walks exported struct fields.
type spriteSlotSnapshot struct {
	Y, Tile, Attr, X uint8
	Index            int
}

// Snapshot/Restore support save-state round-tripping. Every field that
// survives between ticks is captured, including the mid-scanline render
// pipeline latches and shift registers: a save taken mid-frame must resume
// rendering identically, not just reload register state.
type Snapshot struct {
	PPUCtrl, PPUMask, PPUStatus, OAMAddr uint8
	V, T                                 uint16
	X                                    uint8
	W                                    bool
	OAM                                  [256]uint8
	PaletteRAM                           [32]uint8
	Scanline, Cycle                      int
	FrameCount                           uint64
	OddFrame                             bool
	PPUCycles                            uint64
	ReadBuffer, OpenBus                  uint8
	NMIOccurred, NMIOutput               bool
	WritesEnabled                        bool

	SecondaryOAM       [8]spriteSlotSnapshot
	SpriteCount        int
	Sprite0InSecondary bool
	SpritePatternLow   [8]uint8
	SpritePatternHigh  [8]uint8
	SpriteX            [8]uint8
	SpriteAttr         [8]uint8
	SpriteIsZero       [8]bool

	BgPatternLow, BgPatternHigh uint16
	BgAttrLow, BgAttrHigh       uint16
	NTLatch, ATLatch            uint8
	PTLowLatch, PTHighLatch     uint8

	FrameBuffer [256 * 240]uint8
}

func (p *PPU) Snapshot() Snapshot {
	s := Snapshot{
		PPUCtrl: p.ppuCtrl, PPUMask: p.ppuMask, PPUStatus: p.ppuStatus, OAMAddr: p.oamAddr,
		V: p.v, T: p.t, X: p.x, W: p.w,
		OAM: p.oam, PaletteRAM: p.paletteRAM,
		Scanline: p.scanline, Cycle: p.cycle,
		FrameCount: p.frameCount, OddFrame: p.oddFrame,
		PPUCycles: p.ppuCycles, ReadBuffer: p.readBuffer, OpenBus: p.openBus,
		NMIOccurred: p.nmiOccurred, NMIOutput: p.nmiOutput,
		WritesEnabled: p.writesEnabled,

		SpriteCount: p.spriteCount, Sprite0InSecondary: p.sprite0InSecondary,
		SpritePatternLow: p.spritePatternLow, SpritePatternHigh: p.spritePatternHigh,
		SpriteX: p.spriteX, SpriteAttr: p.spriteAttr, SpriteIsZero: p.spriteIsZero,

		BgPatternLow: p.bgPatternLow, BgPatternHigh: p.bgPatternHigh,
		BgAttrLow: p.bgAttrLow, BgAttrHigh: p.bgAttrHigh,
		NTLatch: p.ntLatch, ATLatch: p.atLatch,
		PTLowLatch: p.ptLowLatch, PTHighLatch: p.ptHighLatch,
		FrameBuffer: p.frameBuffer,
	}
	for i, slot := range p.secondaryOAM {
		s.SecondaryOAM[i] = spriteSlotSnapshot{Y: slot.y, Tile: slot.tile, Attr: slot.attr, X: slot.x, Index: slot.index}
	}
	return s
}

func (p *PPU) Restore(s Snapshot) {
	p.ppuCtrl, p.ppuMask, p.ppuStatus, p.oamAddr = s.PPUCtrl, s.PPUMask, s.PPUStatus, s.OAMAddr
	p.v, p.t, p.x, p.w = s.V, s.T, s.X, s.W
	p.oam, p.paletteRAM = s.OAM, s.PaletteRAM
	p.scanline, p.cycle = s.Scanline, s.Cycle
	p.frameCount, p.oddFrame = s.FrameCount, s.OddFrame
	p.ppuCycles, p.readBuffer, p.openBus = s.PPUCycles, s.ReadBuffer, s.OpenBus
	p.nmiOccurred, p.nmiOutput = s.NMIOccurred, s.NMIOutput
	p.writesEnabled = s.WritesEnabled

	p.spriteCount, p.sprite0InSecondary = s.SpriteCount, s.Sprite0InSecondary
	p.spritePatternLow, p.spritePatternHigh = s.SpritePatternLow, s.SpritePatternHigh
	p.spriteX, p.spriteAttr, p.spriteIsZero = s.SpriteX, s.SpriteAttr, s.SpriteIsZero

	p.bgPatternLow, p.bgPatternHigh = s.BgPatternLow, s.BgPatternHigh
	p.bgAttrLow, p.bgAttrHigh = s.BgAttrLow, s.BgAttrHigh
	p.ntLatch, p.atLatch = s.NTLatch, s.ATLatch
	p.ptLowLatch, p.ptHighLatch = s.PTLowLatch, s.PTHighLatch
	p.frameBuffer = s.FrameBuffer

	for i, slot := range s.SecondaryOAM {
		p.secondaryOAM[i] = spriteSlot{y: slot.Y, tile: slot.Tile, attr: slot.Attr, x: slot.X, index: slot.Index}
	}
}
