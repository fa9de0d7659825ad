// Package testrom loads golden test fixtures (CPU traces, framebuffer
// dumps) for the end-to-end scenarios in spec.md section 8. The blargg
// test-suite goldens are large plaintext logs, so they ship .xz-compressed
// in the test tree and are decompressed on the fly here.
package testrom

import (
	"fmt"
	"io"
	"os"

	"github.com/ulikunitz/xz"
)

// LoadGolden reads and decompresses an .xz-packed golden fixture file.
func LoadGolden(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("testrom: opening %s: %w", path, err)
	}
	defer f.Close()

	r, err := xz.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("testrom: decompressing %s: %w", path, err)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("testrom: reading %s: %w", path, err)
	}
	return data, nil
}
