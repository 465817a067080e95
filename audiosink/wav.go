package audiosink

import (
	"io"

	wav "github.com/youpy/go-wav"

	"github.com/nieware/protracker/synth"
)

// WavSink writes frames to a 16-bit stereo PCM WAV stream. It is used for
// the --wav render mode: the mixer is pulled synchronously rather than by
// an audio device callback.
type WavSink struct {
	w      *wav.Writer
	closer io.Closer
}

// NewWavSink wraps w as a WAV-encoding Sink holding numFrames stereo frames
// total; the WAV header is written up front, so the caller must know the
// frame count in advance (render the song to a buffer, then save it). If w
// also implements io.Closer, Close on the Sink closes it too.
func NewWavSink(w io.Writer, numFrames uint32) *WavSink {
	ww := wav.NewWriter(w, numFrames, 2, uint32(synth.SampleRateHz), 16)
	closer, _ := w.(io.Closer)
	return &WavSink{w: ww, closer: closer}
}

// Write encodes frames (interleaved L, R int16 values) as WAV samples.
func (s *WavSink) Write(frames []int16) (int, error) {
	samples := make([]wav.Sample, len(frames)/2)
	for i := range samples {
		samples[i].Values[0] = int(frames[i*2])
		samples[i].Values[1] = int(frames[i*2+1])
	}
	if err := s.w.WriteSamples(samples); err != nil {
		return 0, err
	}
	return len(frames), nil
}

// Close closes the underlying writer, if closeable.
func (s *WavSink) Close() error {
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}
