package synth

import (
	"math"

	"github.com/nieware/protracker/mod"
)

// ClipInt16 converts a floating mix value to a clamped signed 16-bit
// sample: round(v*32767), clamped to [-32768, 32767].
func ClipInt16(v float64) int16 {
	scaled := math.Round(v * 32767)
	if scaled > 32767 {
		scaled = 32767
	} else if scaled < -32768 {
		scaled = -32768
	}
	return int16(scaled)
}

// Mixer wraps a Scheduler and produces batches of interleaved 16-bit
// stereo frames (L, R, L, R, ...) ready for an audio sink.
type Mixer struct {
	sched *Scheduler
}

// NewMixer returns a Mixer that plays song from the beginning.
func NewMixer(song *mod.Song) *Mixer {
	return &Mixer{sched: NewScheduler(song)}
}

// SetSolo restricts mixing to the given channel indices (0-3).
func (m *Mixer) SetSolo(channels []int) {
	m.sched.SetSolo(channels)
}

// NextFrames fills out with up to len(out)/2 interleaved stereo int16
// frames and returns the number of frames written and whether the song has
// more frames left to produce. When the song ends mid-batch, n is less
// than len(out)/2.
func (m *Mixer) NextFrames(out []int16) (n int, more bool) {
	capacity := len(out) / 2
	for n = 0; n < capacity; n++ {
		l, r, ok := m.sched.NextFrame()
		if !ok {
			return n, false
		}
		out[n*2] = ClipInt16(l)
		out[n*2+1] = ClipInt16(r)
	}
	return n, !m.sched.Ended()
}
