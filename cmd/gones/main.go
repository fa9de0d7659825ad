// Command gones drives the NES core headlessly: running a ROM for a fixed
// number of frames, producing a nestest-style CPU trace, or replaying a
// recorded input file. Presentation (a window, audio device output) lives
// outside this binary, in cmd/gonesdisplay.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
