package cartridge

import "errors"

// Construction-time errors. None of these leave a partially built Cartridge
// behind; New returns (nil, err) whenever one of these is produced.
var (
	ErrInvalidInesFormat    = errors.New("cartridge: not an iNES file (bad magic or truncated header)")
	ErrInes2Unsupported     = errors.New("cartridge: NES 2.0 container format is not supported")
	ErrTrainerUnsupported   = errors.New("cartridge: 512-byte trainer is not supported")
	ErrRomCorrupted         = errors.New("cartridge: PRG/CHR data shorter than the header declares")
	ErrChrRomAndRam         = errors.New("cartridge: cartridge cannot have both CHR-ROM and CHR-RAM")
	ErrConsoleUnsupported   = errors.New("cartridge: console type is not the Standard NES")
	ErrRegionUnsupported    = errors.New("cartridge: region is not NTSC or Multi-region")
	ErrGameDbFormat         = errors.New("cartridge: embedded game database is malformed")
	ErrUnsupportedMapper    = errors.New("cartridge: mapper number is not implemented")
	ErrInvalidSaveState     = errors.New("cartridge: save state is corrupt or from an incompatible version")
)
