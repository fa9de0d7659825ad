package console

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/nescore/nescore/internal/input"
)

// ButtonEdge is one entry of a Replay: at Frame, Button's pressed state
// becomes Pressed (spec.md section 6: "a sequence {inputs: [(frame,
// button, pressed)], end_frame}").
type ButtonEdge struct {
	Frame   uint64
	Button  input.Button
	Pressed bool
}

// Replay is a recorded input stream used for framebuffer-hash regression
// testing (spec.md section 8, scenarios 5-6).
type Replay struct {
	Inputs   []ButtonEdge
	EndFrame uint64
}

// EncodeReplay/DecodeReplay give a stable (gob-encoded) on-disk shape for
// Replay, so recorded input files can be checked into the test tree and
// read back with DriveReplay.
func EncodeReplay(r Replay) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&r); err != nil {
		return nil, fmt.Errorf("console: encoding replay: %w", err)
	}
	return buf.Bytes(), nil
}

func DecodeReplay(data []byte) (Replay, error) {
	var r Replay
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&r); err != nil {
		return Replay{}, fmt.Errorf("%w: %v", ErrReplayFormat, err)
	}
	return r, nil
}

// DriveReplay runs the console forward, applying each input edge at its
// recorded frame, through to EndFrame inclusive (spec.md section 6). The
// console's current frame counter at call time is treated as frame zero
// for the replay's own numbering, so a replay can be driven starting from
// a freshly reset console or one already mid-session.
func (c *Console) DriveReplay(r Replay) error {
	pending := append([]ButtonEdge(nil), r.Inputs...)

	for frame := uint64(0); frame <= r.EndFrame; frame++ {
		for len(pending) > 0 && pending[0].Frame == frame {
			edge := pending[0]
			pending = pending[1:]
			c.SetButtonState(edge.Button, edge.Pressed)
		}
		c.RunOneFrame()
	}

	if len(pending) > 0 {
		return fmt.Errorf("%w: %d input edge(s) scheduled after end_frame", ErrReplayFormat, len(pending))
	}
	return nil
}
