// Package synth is the real-time synthesis engine: a per-channel
// resampler, a channel synthesizer that applies ProTracker effects, and a
// scheduler/mixer that drives the musical clock and sums channels into a
// stereo PCM stream.
package synth

// PALClockHz is the Amiga PAL color clock the period-to-frequency formula
// is derived from.
const PALClockHz = 7093789.2

// SampleRateHz is the fixed output sample rate this engine targets.
const SampleRateHz = 44100.0

// MinPeriod and MaxPeriod bound the standard ProTracker period range.
const (
	MinPeriod = 113.0
	MaxPeriod = 856.0
)

// FineTuneRatio is the per-unit pitch ratio for one step of finetune; each
// unit shifts pitch by 1/8 of a semitone.
const FineTuneRatio = 1.007246412

// DefaultTicksPerRow and DefaultBPM are the scheduler's initial speed and
// tempo before any Change-Speed effect is encountered.
const (
	DefaultTicksPerRow = 6
	DefaultBPM         = 125
)

// NumChannels is the fixed channel count this engine mixes.
const NumChannels = 4

// SineTable is the canonical 64-entry ProTracker vibrato/tremolo sine
// table, signed values in [-255, 255].
var SineTable = [64]int{
	0, 24, 49, 74, 97, 120, 141, 161, 180, 197, 212, 224, 235, 244, 250, 253,
	255, 253, 250, 244, 235, 224, 212, 197, 180, 161, 141, 120, 97, 74, 49, 24,
	0, -24, -49, -74, -97, -120, -141, -161, -180, -197, -212, -224, -235, -244, -250, -253,
	-255, -253, -250, -244, -235, -224, -212, -197, -180, -161, -141, -120, -97, -74, -49, -24,
}
