package synth

import (
	"math"

	"github.com/nieware/protracker/mod"
)

type vibratoState struct {
	cyclesPerRow            float64
	depth                   float64
	samplesPerCycle         float64
	samplesPerCyclePosition float64
	samplesElapsed          float64
}

func isVibratoFamily(e mod.Effect) bool {
	return e == mod.EffectVibrato || e == mod.EffectVibratoVolumeSlide
}

// Channel owns all note/instrument/effect state for one of the song's four
// monophonic channels, plus the Resampler that reads its bound
// instrument's waveform.
type Channel struct {
	index int
	song  *mod.Song

	instrumentIndex int // 1-based, 0 = none bound
	specifiedPeriod float64
	actualPeriod    float64
	isPlaying       bool
	fineTune        int
	volume          int

	eff              mod.Effect
	effectX, effectY int
	slideToNoteShift float64
	vibrato          vibratoState

	resampler *Resampler
}

// NewChannel returns a Channel bound to no instrument, ready to receive
// rows from song at the given channel index (0-3).
func NewChannel(index int, song *mod.Song) *Channel {
	return &Channel{
		index:     index,
		song:      song,
		resampler: NewResampler(),
	}
}

func (c *Channel) boundInstrument() *mod.Instrument {
	if c.instrumentIndex <= 0 || c.instrumentIndex > len(c.song.Instruments) {
		return nil
	}
	return &c.song.Instruments[c.instrumentIndex-1]
}

// IsPlaying reports whether the channel currently produces audio.
func (c *Channel) IsPlaying() bool { return c.isPlaying }

// Volume returns the channel's current volume, [0, 64].
func (c *Channel) Volume() int { return c.volume }

// ActualPeriod returns the channel's current effective period.
func (c *Channel) ActualPeriod() float64 { return c.actualPeriod }

// SpecifiedPeriod returns the period the most recent note ordered.
func (c *Channel) SpecifiedPeriod() float64 { return c.specifiedPeriod }

// SetRow applies row as the new row for this channel, called once at the
// start of each pattern row before tick 0 sample 0. ticksPerRow and bpm are
// the scheduler's current speed/tempo for this row (after any Change-Speed
// effect on the row has already been applied by the caller).
func (c *Channel) SetRow(row mod.Row, ticksPerRow, bpm int) {
	if row.InstrumentNumber != 0 {
		changed := row.InstrumentNumber != c.instrumentIndex
		c.instrumentIndex = row.InstrumentNumber
		ins := c.boundInstrument()

		if changed {
			c.resampler.Bind(ins)
			if row.Period == 0 && row.Eff != mod.EffectSlideToNote {
				c.isPlaying = false
			}
			if row.Eff != mod.EffectSlideToNote {
				c.resampler.SetPosition(2.0)
			}
		}
		if ins != nil {
			c.volume = ins.Volume
		}
	}

	if row.Period != 0 {
		fineTune := c.fineTune
		if row.Eff == mod.EffectSetFineTune {
			fineTune = mod.SignedNibble(byte(row.EffectY))
		} else if ins := c.boundInstrument(); ins != nil {
			fineTune = ins.FineTune
		}
		c.fineTune = fineTune

		c.specifiedPeriod = row.Period / math.Pow(FineTuneRatio, float64(fineTune))

		if row.Eff != mod.EffectSlideToNote && row.Eff != mod.EffectSlideToNoteVolumeSlide {
			c.actualPeriod = c.specifiedPeriod
			c.resampler.SetPosition(2.0)
		}
		c.isPlaying = true
		c.resampler.RecalculateStep(c.actualPeriod)
	}

	switch row.Eff {
	case mod.EffectSlideToNote:
		if row.EffectX != 0 || row.EffectY != 0 {
			c.slideToNoteShift = float64(row.EffectX*16 + row.EffectY)
		}
	case mod.EffectVibrato, mod.EffectVibratoVolumeSlide:
		if !isVibratoFamily(c.eff) {
			c.vibrato.samplesElapsed = 0
		}
		if row.Eff == mod.EffectVibrato {
			if row.EffectX != 0 {
				c.vibrato.cyclesPerRow = float64(row.EffectX) * float64(ticksPerRow) / 64.0
			}
			if row.EffectY != 0 {
				c.vibrato.depth = float64(row.EffectY)
			}
		}
		samplesPerRow := (SampleRateHz / (float64(bpm) / 60.0)) / 4.0
		if c.vibrato.cyclesPerRow != 0 {
			c.vibrato.samplesPerCycle = samplesPerRow / c.vibrato.cyclesPerRow
		}
		c.vibrato.samplesPerCyclePosition = c.vibrato.samplesPerCycle / 64.0
	}

	c.effectX = row.EffectX
	c.effectY = row.EffectY
	c.eff = row.Eff
}

// ApplyStartOfRowEffects applies the effects that fire once per row, before
// the row's first sample, after SetRow has dispatched the row to every
// channel.
func (c *Channel) ApplyStartOfRowEffects() {
	switch c.eff {
	case mod.EffectFineVolumeSlideUp:
		c.volume = minInt(c.volume+c.effectY, 64)
	case mod.EffectFineVolumeSlideDown:
		c.volume = maxInt(c.volume-c.effectY, 0)
	case mod.EffectSetVolume:
		c.volume = clampInt(c.effectX*16+c.effectY, 0, 64)
	case mod.EffectInstrumentOffset:
		c.resampler.SetPosition(float64(c.effectX*4096 + c.effectY*256))
	}
}

// ApplyPerTickEffect applies the effects that fire at every tick boundary
// except tick 0.
func (c *Channel) ApplyPerTickEffect(tick int) {
	switch c.eff {
	case mod.EffectVolumeSlide:
		c.volumeSlide()
	case mod.EffectSlideToNote:
		c.slideTowardNote()
	case mod.EffectSlideToNoteVolumeSlide:
		c.slideTowardNote()
		c.volumeSlide()
	case mod.EffectVibratoVolumeSlide:
		c.volumeSlide()
	case mod.EffectPitchSlideUp:
		c.actualPeriod = math.Max(c.actualPeriod-float64(c.effectX*16+c.effectY), MinPeriod)
		c.specifiedPeriod = c.actualPeriod
		c.resampler.RecalculateStep(c.actualPeriod)
	case mod.EffectPitchSlideDown:
		c.actualPeriod = math.Min(c.actualPeriod+float64(c.effectX*16+c.effectY), MaxPeriod)
		c.specifiedPeriod = c.actualPeriod
		c.resampler.RecalculateStep(c.actualPeriod)
	case mod.EffectArpeggio:
		semitones := 0
		switch tick % 3 {
		case 1:
			semitones = c.effectX
		case 2:
			semitones = c.effectY
		}
		c.actualPeriod = c.specifiedPeriod / math.Pow(FineTuneRatio, float64(8*semitones))
		c.resampler.RecalculateStep(c.actualPeriod)
	}
}

func (c *Channel) volumeSlide() {
	if c.effectX > 0 {
		c.volume = minInt(c.volume+c.effectX, 64)
	} else {
		c.volume = maxInt(c.volume-c.effectY, 0)
	}
}

func (c *Channel) slideTowardNote() {
	diff := c.specifiedPeriod - c.actualPeriod
	shift := c.slideToNoteShift
	switch {
	case diff > 0:
		if shift > diff {
			shift = diff
		}
		c.actualPeriod += shift
	case diff < 0:
		if shift > -diff {
			shift = -diff
		}
		c.actualPeriod -= shift
	}
	c.resampler.RecalculateStep(c.actualPeriod)
}

// NextSample produces one stereo sample pair for this channel: vibrato
// pitch modulation, synthesis, volume and fixed panning, in that order.
func (c *Channel) NextSample() (left, right float64) {
	if !c.isPlaying {
		return 0, 0
	}

	if isVibratoFamily(c.eff) && c.vibrato.samplesPerCyclePosition != 0 {
		cyclePos := c.vibrato.samplesElapsed / c.vibrato.samplesPerCyclePosition
		idx := int(math.Floor(cyclePos)) & 63
		delta := float64(SineTable[idx]) * c.vibrato.depth / 128.0
		if newPeriod := c.specifiedPeriod + delta; newPeriod != c.actualPeriod {
			c.actualPeriod = newPeriod
			c.resampler.RecalculateStep(c.actualPeriod)
		}
	}

	s := c.resampler.NextSample()
	if c.volume != 64 {
		s *= float64(c.volume) / 64.0
	}

	if isVibratoFamily(c.eff) && c.vibrato.samplesPerCycle != 0 {
		c.vibrato.samplesElapsed = math.Mod(c.vibrato.samplesElapsed+1, c.vibrato.samplesPerCycle)
	}

	if mod.PanLeft(c.index) {
		return s, 0
	}
	return 0, s
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func clampInt(v, lo, hi int) int {
	return minInt(maxInt(v, lo), hi)
}
