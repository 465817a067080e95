package mod

import "errors"

// ErrUnsupportedFormat is returned when the 4-byte format identifier at
// offset 1080 is not "M.K.".
var ErrUnsupportedFormat = errors.New("mod: unsupported format identifier")

// ErrTruncatedModule is returned when the input ends before all of the
// header, pattern, or instrument waveform data that the header promises
// has been read.
var ErrTruncatedModule = errors.New("mod: truncated module data")
