package audiosink

import (
	"bytes"
	"testing"
)

func TestWavSink_WritesRIFFHeader(t *testing.T) {
	var buf bytes.Buffer
	sink := NewWavSink(&buf, 4)

	frames := []int16{100, -100, 200, -200, 300, -300, 400, -400}
	n, err := sink.Write(frames)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if n != len(frames) {
		t.Errorf("Write returned %d, want %d", n, len(frames))
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data := buf.Bytes()
	if len(data) < 12 {
		t.Fatalf("buffer too small for a WAV header: %d bytes", len(data))
	}
	if !bytes.Equal(data[0:4], []byte("RIFF")) {
		t.Errorf("missing RIFF tag, got %q", data[0:4])
	}
	if !bytes.Equal(data[8:12], []byte("WAVE")) {
		t.Errorf("missing WAVE tag, got %q", data[8:12])
	}
}
