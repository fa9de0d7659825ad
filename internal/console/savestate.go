package console

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/klauspost/compress/gzip"

	"github.com/nescore/nescore/internal/apu"
	"github.com/nescore/nescore/internal/cartridge"
	"github.com/nescore/nescore/internal/cpu"
	"github.com/nescore/nescore/internal/input"
	"github.com/nescore/nescore/internal/ppu"
)

// saveStateVersion is bumped whenever the blob's shape changes in a way
// that would make an old save unsafe to load (spec.md section 6: "format
// is opaque but versioned; corruption or version mismatch returns
// InvalidSaveState").
const saveStateVersion = 1

type saveStateBlob struct {
	Version int

	CPU     cpu.Snapshot
	PPU     ppu.Snapshot
	APU     apu.Snapshot
	Cart    cartridge.Snapshot
	Ctrl    input.Snapshot
	IRQ     bool
	Cycles  uint64
}

// Snapshot is a comparable copy of the machine's state minus the
// cartridge, whose RAM and mapper state hold slices.
type Snapshot struct {
	CPU    cpu.Snapshot
	PPU    ppu.Snapshot
	APU    apu.Snapshot
	Ctrl   input.Snapshot
	IRQ    bool
	Cycles uint64
}

// Snapshot returns the current state as a Snapshot value.
func (c *Console) Snapshot() Snapshot {
	return Snapshot{CPU: c.cpu.Snapshot(), PPU: c.ppu.Snapshot(), APU: c.apu.Snapshot(),
		Ctrl: c.ctrl.Snapshot(), IRQ: c.irq.Asserted(), Cycles: c.cycles}
}

// SaveState serializes the entire machine (spec.md section 6) as a gob
// stream, gzip-compressed so the blob is small enough to embed as a test
// fixture for the replay-regression harness.
func (c *Console) SaveState() ([]byte, error) {
	blob := saveStateBlob{
		Version: saveStateVersion,
		CPU:     c.cpu.Snapshot(),
		PPU:     c.ppu.Snapshot(),
		APU:     c.apu.Snapshot(),
		Cart:    c.cart.Snapshot(),
		Ctrl:    c.ctrl.Snapshot(),
		IRQ:     c.irq.Asserted(),
		Cycles:  c.cycles,
	}

	var raw bytes.Buffer
	if err := gob.NewEncoder(&raw).Encode(&blob); err != nil {
		return nil, fmt.Errorf("console: encoding save state: %w", err)
	}

	var compressed bytes.Buffer
	gz := gzip.NewWriter(&compressed)
	if _, err := gz.Write(raw.Bytes()); err != nil {
		return nil, fmt.Errorf("console: compressing save state: %w", err)
	}
	if err := gz.Close(); err != nil {
		return nil, fmt.Errorf("console: compressing save state: %w", err)
	}
	return compressed.Bytes(), nil
}

// LoadState restores a blob produced by SaveState against the same ROM.
// Corruption or a version mismatch returns ErrInvalidSaveState, never a
// partially-applied machine state.
func (c *Console) LoadState(data []byte) error {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSaveState, err)
	}
	defer gz.Close()

	var blob saveStateBlob
	if err := gob.NewDecoder(gz).Decode(&blob); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSaveState, err)
	}
	if blob.Version != saveStateVersion {
		return fmt.Errorf("%w: version %d, want %d", ErrInvalidSaveState, blob.Version, saveStateVersion)
	}

	if err := c.cart.Restore(blob.Cart); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSaveState, err)
	}
	c.cpu.Restore(blob.CPU)
	c.ppu.Restore(blob.PPU)
	c.apu.Restore(blob.APU)
	c.ctrl.Restore(blob.Ctrl)
	if blob.IRQ {
		c.irq.Assert()
	} else {
		c.irq.Clear()
	}
	c.cycles = blob.Cycles
	c.lastFrame = c.ppu.FrameCount()
	c.frameReady = false
	return nil
}
