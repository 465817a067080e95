package synth

import (
	"math"

	"github.com/nieware/protracker/mod"
)

// Resampler performs a fractional-index read with linear interpolation
// over a bound instrument's waveform, honoring the instrument's loop
// points. It owns the sole mutable read cursor for one channel's
// instrument playback.
type Resampler struct {
	instrument *mod.Instrument
	pos        float64
	step       float64
	exhausted  bool
}

// NewResampler returns a Resampler with no bound instrument. The first two
// bytes of a waveform are loop metadata, not sample data, so pos starts at
// 2.0 once an instrument is bound and a note begins.
func NewResampler() *Resampler {
	return &Resampler{pos: 2.0}
}

// Bind attaches ins as the instrument this resampler reads from and clears
// the exhausted state. It does not alter the read position; callers reset
// that explicitly via SetPosition when the spec calls for it.
func (r *Resampler) Bind(ins *mod.Instrument) {
	r.instrument = ins
	r.exhausted = false
}

// SetPosition writes pos directly, e.g. for the Instrument-Offset effect or
// to restart a note at the beginning of its waveform.
func (r *Resampler) SetPosition(pos float64) {
	r.pos = pos
}

// RecalculateStep updates step from an effective period. Calling it twice
// with the same period leaves step unchanged.
func (r *Resampler) RecalculateStep(period float64) {
	r.step = (PALClockHz / (period * 2)) / SampleRateHz
}

// Exhausted reports whether a non-looped instrument has played past the
// end of its waveform.
func (r *Resampler) Exhausted() bool {
	return r.exhausted
}

// NextSample returns one interpolated waveform value in approximately
// [-1.0, 1.0] and advances pos by step.
func (r *Resampler) NextSample() float64 {
	if r.instrument == nil || len(r.instrument.Waveform) == 0 || r.exhausted {
		return 0
	}

	wf := r.instrument.Waveform
	length := len(wf)

	// A looped instrument never plays past the end of its repeat window;
	// bytes beyond it are unreachable, not a tail to fall through to.
	playEnd := length
	if r.instrument.IsLooped() {
		playEnd = r.instrument.RepeatStartBytes() + r.instrument.RepeatLengthBytes()
	}

	i := int(math.Floor(r.pos))
	if i < 0 || i >= playEnd {
		r.exhausted = !r.instrument.IsLooped()
		return 0
	}

	s0 := float64(wf[i])
	var s1 float64
	switch {
	case i+1 < playEnd:
		s1 = float64(wf[i+1])
	case r.instrument.IsLooped():
		s1 = float64(wf[r.instrument.RepeatStartBytes()])
	default:
		s1 = 0
	}

	stepsPassed := math.Floor((r.pos - float64(i)) / r.step)
	stepsRemaining := math.Floor((float64(i+1) - r.pos) / r.step)
	run := stepsRemaining + stepsPassed

	out := s0
	if run != 0 {
		out = s0 + (s1-s0)*stepsPassed/run
	}

	r.pos += r.step
	if r.pos >= float64(playEnd) {
		if r.instrument.IsLooped() {
			frac := r.pos - math.Floor(r.pos)
			r.pos = float64(r.instrument.RepeatStartBytes()) + frac
		} else {
			r.exhausted = true
		}
	}

	return out
}
