// Package cartridge parses iNES ROM containers and owns the raw PRG/CHR/RAM
// byte regions plus the mapper that bank-switches them.
package cartridge

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"

	"github.com/nescore/nescore/internal/gamedb"
)

const (
	headerSize = 16
	prgUnit    = 16 * 1024
	chrUnit    = 8 * 1024
	chrRAMSize = 8 * 1024
	prgRAMUnit = 8 * 1024
)

// Header is the semantic, fully-resolved cartridge header: the parsed
// iNES fields, possibly overlaid by a game database match.
type Header struct {
	PRGROMSize   int
	CHRROMSize   int // 0 means CHR-RAM
	CHRRAMSize   int
	PRGRAMSize   int
	PRGNVRAMSize int
	Mapper       uint8
	Submapper    uint8
	Mirroring    Mirroring
	Battery      bool
	Console      ConsoleType
	Region       Region
	Expansion    uint8
	Name         string // only populated by a game database match
}

// Cartridge owns the cartridge's immutable ROM bytes, its mutable RAM
// interiors, and the mapper dispatching accesses to them. It is built once
// by New and never replaced; PRG-RAM/CHR-RAM contents are the only mutable
// interior state (besides the mapper's own banking registers).
type Cartridge struct {
	Header Header

	prgROM []uint8
	chrROM []uint8 // backs CHR-RAM too when Header.CHRROMSize == 0

	prgRAM   []uint8
	prgNVRAM []uint8

	mapper Mapper
}

// New parses rom as an iNES container, augments the header via the bundled
// game database, builds the appropriate mapper, and returns a ready
// Cartridge. Nothing is constructed on error.
func New(rom []byte) (*Cartridge, error) {
	return newWithDB(rom, mustDefaultDB())
}

func newWithDB(rom []byte, db *gamedb.DB) (*Cartridge, error) {
	if len(rom) < headerSize {
		return nil, ErrInvalidInesFormat
	}
	if string(rom[0:4]) != "NES\x1A" {
		return nil, ErrInvalidInesFormat
	}

	flags6 := rom[6]
	flags7 := rom[7]

	if flags7&0x0C == 0x08 {
		return nil, ErrInes2Unsupported
	}
	if flags6&0x04 != 0 {
		return nil, ErrTrainerUnsupported
	}

	h := Header{
		Mapper:     (flags6 >> 4) | (flags7 & 0xF0),
		Battery:    flags6&0x02 != 0,
		PRGROMSize: int(rom[4]) * prgUnit,
		CHRROMSize: int(rom[5]) * chrUnit,
	}
	switch {
	case flags6&0x08 != 0:
		h.Mirroring = MirrorFourScreen
	case flags6&0x01 != 0:
		h.Mirroring = MirrorVertical
	default:
		h.Mirroring = MirrorHorizontal
	}
	switch flags7 & 0x03 {
	case 0:
		h.Console = ConsoleStandard
	case 1:
		h.Console = ConsoleVsSystem
	case 2:
		h.Console = ConsolePlaychoice
	default:
		h.Console = ConsoleExtended
	}
	if len(rom) > 9 && rom[9]&0x01 != 0 {
		h.Region = RegionPAL
	} else {
		h.Region = RegionNTSC
	}

	if h.PRGROMSize == 0 {
		return nil, ErrRomCorrupted
	}

	prgStart := headerSize
	prgEnd := prgStart + h.PRGROMSize
	if prgEnd > len(rom) {
		return nil, ErrRomCorrupted
	}
	prgROM := rom[prgStart:prgEnd]

	var chrROM []uint8
	if h.CHRROMSize > 0 {
		chrEnd := prgEnd + h.CHRROMSize
		if chrEnd > len(rom) {
			return nil, ErrRomCorrupted
		}
		chrROM = rom[prgEnd:chrEnd]
	} else {
		h.CHRRAMSize = chrRAMSize
		chrROM = make([]uint8, chrRAMSize)
	}

	if h.CHRROMSize > 0 && h.CHRRAMSize > 0 {
		return nil, ErrChrRomAndRam
	}

	prgSHA1 := sha1Hex(prgROM)
	var chrSHA1 string
	if h.CHRROMSize > 0 {
		chrSHA1 = sha1Hex(chrROM)
	}

	if db != nil {
		if entry, ok := db.Lookup(prgSHA1, chrSHA1); ok {
			h.Name = entry.Name
			h.Submapper = entry.Submapper
			h.Expansion = entry.Expansion
			h.Console = ConsoleType(entry.Console)
			h.Region = Region(entry.Region)
			if entry.PRGRAMSize > 0 {
				h.PRGRAMSize = entry.PRGRAMSize
			}
			if entry.PRGNVRAMSize > 0 {
				h.PRGNVRAMSize = entry.PRGNVRAMSize
			}
		}
	}

	if h.Console != ConsoleStandard {
		return nil, ErrConsoleUnsupported
	}
	if h.Region != RegionNTSC && h.Region != RegionMulti {
		return nil, ErrRegionUnsupported
	}

	if h.PRGRAMSize == 0 && !h.Battery {
		h.PRGRAMSize = prgRAMUnit
	}
	if h.Battery && h.PRGNVRAMSize == 0 {
		h.PRGNVRAMSize = prgRAMUnit
	}

	cart := &Cartridge{
		Header:   h,
		prgROM:   prgROM,
		chrROM:   chrROM,
		prgRAM:   make([]uint8, h.PRGRAMSize),
		prgNVRAM: make([]uint8, h.PRGNVRAMSize),
	}

	mapper, err := newMapper(h.Mapper, cart)
	if err != nil {
		return nil, err
	}
	cart.mapper = mapper

	return cart, nil
}

func sha1Hex(b []byte) string {
	sum := sha1.Sum(b)
	return hex.EncodeToString(sum[:])
}

var sharedDB *gamedb.DB

func mustDefaultDB() *gamedb.DB {
	if sharedDB != nil {
		return sharedDB
	}
	db, err := gamedb.Default()
	if err != nil {
		// The embedded database is a build-time asset; a parse failure
		// here means the emulator binary itself is broken, not that the
		// ROM being loaded is bad. Fall back to "no database" rather
		// than fail every single cartridge load.
		return nil
	}
	sharedDB = db
	return db
}

// Mapper exposes the cartridge's mapper for the console's memory-map
// dispatch (spec section 3: "no component reads the inside of another
// directly" — the console routes through these methods only).
func (c *Cartridge) Mapper() Mapper { return c.mapper }

func (c *Cartridge) PRGRAM() []uint8   { return c.prgRAM }
func (c *Cartridge) PRGNVRAM() []uint8 { return c.prgNVRAM }
func (c *Cartridge) CHRIsRAM() bool    { return c.Header.CHRROMSize == 0 }

// Snapshot/Restore serialize the cartridge's mutable interiors (PRG-RAM,
// PRG-NVRAM, CHR-RAM, and the mapper's banking state) for save states. The
// ROM bytes themselves are not part of the blob: load_state is only ever
// called against the same ROM that produced the snapshot.
type Snapshot struct {
	PRGRAM   []uint8
	PRGNVRAM []uint8
	CHRRAM   []uint8
	Mapper   MapperState
}

func (c *Cartridge) Snapshot() Snapshot {
	s := Snapshot{
		PRGRAM:   append([]uint8(nil), c.prgRAM...),
		PRGNVRAM: append([]uint8(nil), c.prgNVRAM...),
		Mapper:   c.mapper.Snapshot(),
	}
	if c.CHRIsRAM() {
		s.CHRRAM = append([]uint8(nil), c.chrROM...)
	}
	return s
}

func (c *Cartridge) Restore(s Snapshot) error {
	if len(s.PRGRAM) != len(c.prgRAM) || len(s.PRGNVRAM) != len(c.prgNVRAM) {
		return fmt.Errorf("%w: RAM size mismatch", ErrInvalidSaveState)
	}
	copy(c.prgRAM, s.PRGRAM)
	copy(c.prgNVRAM, s.PRGNVRAM)
	if c.CHRIsRAM() {
		if len(s.CHRRAM) != len(c.chrROM) {
			return fmt.Errorf("%w: CHR-RAM size mismatch", ErrInvalidSaveState)
		}
		copy(c.chrROM, s.CHRRAM)
	}
	c.mapper.Restore(s.Mapper)
	return nil
}
