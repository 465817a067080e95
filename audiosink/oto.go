//go:build !headless

package audiosink

import (
	"encoding/binary"
	"io"
	"sync"

	"github.com/ebitengine/oto/v3"

	"github.com/nieware/protracker/synth"
)

// frameSource is satisfied by *synth.Mixer; kept narrow so tests can supply
// a fake frame source in place of a real Mixer.
type frameSource interface {
	NextFrames(out []int16) (n int, more bool)
}

// OtoSink plays a song's frames through the system's default audio device
// via the oto/v3 library.
type OtoSink struct {
	ctx    *oto.Context
	player *oto.Player

	mu      sync.Mutex
	mixer   frameSource
	scratch []int16
	ended   bool
}

const otoReadFrames = 512

// NewOtoSink opens the default audio device and returns a Sink that pulls
// frames from mixer as oto requests them. The returned Sink owns mixer:
// callers should not call mixer.NextFrames directly once playback starts.
func NewOtoSink(mixer frameSource) (*OtoSink, error) {
	op := &oto.NewContextOptions{
		SampleRate:   int(synth.SampleRateHz),
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready

	s := &OtoSink{
		ctx:     ctx,
		mixer:   mixer,
		scratch: make([]int16, otoReadFrames*2),
	}
	s.player = ctx.NewPlayer(s)
	s.player.Play()
	return s, nil
}

// Read implements io.Reader for oto's Player, pulling frames from the bound
// Mixer on demand and emitting them as little-endian signed 16-bit PCM.
func (s *OtoSink) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ended {
		return 0, io.EOF
	}

	wantFrames := len(p) / 4
	if wantFrames > len(s.scratch)/2 {
		s.scratch = make([]int16, wantFrames*2)
	}
	buf := s.scratch[:wantFrames*2]

	n, more := s.mixer.NextFrames(buf)
	if !more {
		s.ended = true
	}

	for i := 0; i < n*2; i++ {
		binary.LittleEndian.PutUint16(p[i*2:], uint16(buf[i]))
	}
	if n*4 < len(p) && !more {
		return n * 4, io.EOF
	}
	return n * 4, nil
}

// Write is unused for OtoSink; playback is driven by oto pulling from Read.
// It satisfies the Sink interface for symmetry with WavSink.
func (s *OtoSink) Write(frames []int16) (int, error) {
	return len(frames), nil
}

// Done reports whether the bound Mixer has produced its final frame.
func (s *OtoSink) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ended
}

// Close stops playback and closes the oto player. The oto context is not
// closed.
func (s *OtoSink) Close() error {
	if s.player != nil {
		s.player.Close()
	}
	return nil
}
