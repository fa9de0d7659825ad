package console

import "errors"

// ErrInvalidSaveState is returned by LoadState when a blob is corrupt,
// truncated, or from an incompatible version (spec.md section 6 and 7).
var ErrInvalidSaveState = errors.New("console: save state is corrupt or from an incompatible version")

// ErrReplayFormat is returned by DecodeReplay when a replay stream doesn't
// parse as the spec's {inputs: [(frame, button, pressed)], end_frame}
// shape, and by DriveReplay when an input edge is left unapplied after
// end_frame.
var ErrReplayFormat = errors.New("console: replay data is malformed")
