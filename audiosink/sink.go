// Package audiosink drives a synth.Mixer's interleaved PCM frames to an
// external destination: real-time speaker output or a WAV file.
package audiosink

import "errors"

// ErrClosed reports a Write to a Sink that has already been closed. Neither
// WavSink nor OtoSink returns it: OtoSink.Write discards frames at any time,
// and WavSink.Write after Close passes the frames to the underlying writer
// as usual.
var ErrClosed = errors.New("audiosink: sink is closed")

// Sink accepts interleaved 16-bit stereo PCM frames (L, R, L, R, ...) at
// synth.SampleRateHz and delivers them to some destination.
type Sink interface {
	// Write consumes frames (len(frames) must be even) and returns the
	// number of int16 values accepted.
	Write(frames []int16) (int, error)

	// Close flushes and releases any resources held by the sink.
	Close() error
}
