package mod

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// buildHeader assembles a minimal, well-formed MOD byte stream: a 20-byte
// title, 31 instrument headers, the order list, the "M.K." identifier, one
// empty pattern for each index up to the highest in the order list, and no
// waveform data.
func buildHeader(title string, orders []byte, instruments func(i int) []byte) []byte {
	var buf bytes.Buffer

	t := make([]byte, titleSize)
	copy(t, title)
	buf.Write(t)

	for i := 0; i < NumInstruments; i++ {
		if instruments != nil {
			buf.Write(instruments(i))
		} else {
			buf.Write(make([]byte, instrumentHeaderSize))
		}
	}

	buf.WriteByte(byte(len(orders)))
	buf.WriteByte(0) // restart

	ord := make([]byte, MaxOrders)
	copy(ord, orders)
	buf.Write(ord)

	buf.WriteString("M.K.")

	maxPattern := 0
	for _, o := range ord {
		if int(o) > maxPattern {
			maxPattern = int(o)
		}
	}
	for p := 0; p <= maxPattern; p++ {
		buf.Write(make([]byte, patternBytes))
	}

	return buf.Bytes()
}

func TestDecodeBytes_MinimalHeader(t *testing.T) {
	data := buildHeader("TEST", []byte{0}, nil)

	song, err := DecodeBytes(data)
	if err != nil {
		t.Fatalf("DecodeBytes: %v", err)
	}

	if song.Title != "TEST" {
		t.Errorf("Title = %q, want TEST", song.Title)
	}
	if song.NumOrders != 1 {
		t.Errorf("NumOrders = %d, want 1", song.NumOrders)
	}
	if len(song.Patterns) != 1 {
		t.Fatalf("len(Patterns) = %d, want 1", len(song.Patterns))
	}
	for i, ins := range song.Instruments {
		if !cmp.Equal(ins, Instrument{}) {
			t.Errorf("Instruments[%d] is not zero-valued: %+v", i, ins)
		}
	}
	for ch := 0; ch < NumChannels; ch++ {
		for row := 0; row < RowsPerPattern; row++ {
			r := song.Patterns[0].Channels[ch].Rows[row]
			if r != (Row{}) {
				t.Errorf("pattern 0 channel %d row %d is not zero-valued: %+v", ch, row, r)
			}
		}
	}
}

func TestDecodeRow_VibratoWithVolumeSlide(t *testing.T) {
	row := decodeRow([]byte{0x12, 0x34, 0x56, 0x78})

	want := Row{
		InstrumentNumber: 0x15,
		Period:           564,
		Eff:              EffectVibratoVolumeSlide,
		EffectX:          7,
		EffectY:          8,
	}
	if diff := cmp.Diff(want, row); diff != "" {
		t.Errorf("decodeRow mismatch (-want +got):\n%s", diff)
	}
}

func TestSignedNibble(t *testing.T) {
	cases := []struct {
		b    byte
		want int
	}{
		{0x08, -8},
		{0x07, 7},
		{0xF3, 3},
		{0xFF, -1},
	}
	for _, c := range cases {
		if got := SignedNibble(c.b); got != c.want {
			t.Errorf("SignedNibble(%#x) = %d, want %d", c.b, got, c.want)
		}
	}
}

func TestSignedNibble_Property(t *testing.T) {
	for b := 0; b <= 255; b++ {
		got := SignedNibble(byte(b))
		want := int(byte(b)&0x0F) - boolToSixteen(byte(b)&0x08 != 0)
		if got != want {
			t.Errorf("SignedNibble(%#x) = %d, want %d", b, got, want)
		}
		if got < -8 || got > 7 {
			t.Errorf("SignedNibble(%#x) = %d out of [-8,7]", b, got)
		}
	}
}

func boolToSixteen(v bool) int {
	if v {
		return 16
	}
	return 0
}

func TestDecodeBytes_UnsupportedFormat(t *testing.T) {
	data := buildHeader("BAD", []byte{0}, nil)
	// Corrupt the identifier.
	idOff := titleSize + NumInstruments*instrumentHeaderSize + 2 + MaxOrders
	copy(data[idOff:idOff+4], "FLT4")

	_, err := DecodeBytes(data)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("DecodeBytes error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestDecodeBytes_Truncated(t *testing.T) {
	data := buildHeader("TEST", []byte{0}, nil)
	_, err := DecodeBytes(data[:len(data)-10])
	if !errors.Is(err, ErrTruncatedModule) {
		t.Fatalf("DecodeBytes error = %v, want ErrTruncatedModule", err)
	}
}

func TestDecodeBytes_HeaderRoundTrip(t *testing.T) {
	data := buildHeader("ROUNDTRIP", []byte{0, 1, 2}, nil)
	song, err := DecodeBytes(data)
	if err != nil {
		t.Fatalf("DecodeBytes: %v", err)
	}

	// Re-serialize the fields the decoder extracted from the header and
	// confirm the leading prefix through the identifier matches exactly.
	var out bytes.Buffer
	title := make([]byte, titleSize)
	copy(title, song.Title)
	out.Write(title)
	for i := 0; i < NumInstruments; i++ {
		out.Write(make([]byte, instrumentHeaderSize))
	}
	out.WriteByte(byte(song.NumOrders))
	out.WriteByte(byte(song.Restart))
	ord := make([]byte, MaxOrders)
	for i := 0; i < MaxOrders; i++ {
		ord[i] = byte(song.OrderList[i])
	}
	out.Write(ord)
	out.WriteString(song.FormatID)

	prefix := data[:out.Len()]
	if !bytes.Equal(prefix, out.Bytes()) {
		t.Errorf("round-trip prefix mismatch")
	}
}

func TestDecodeBytes_InstrumentFineTuneAndWaveform(t *testing.T) {
	instruments := func(i int) []byte {
		b := make([]byte, instrumentHeaderSize)
		if i != 0 {
			return b
		}
		copy(b[0:22], "SAMP")
		binary.BigEndian.PutUint16(b[22:24], 2) // 2 words = 4 bytes
		b[24] = 0x0E                            // finetune nibble -2
		b[25] = 64                              // volume
		binary.BigEndian.PutUint16(b[26:28], 0) // repeat start
		binary.BigEndian.PutUint16(b[28:30], 0) // repeat length, not looped
		return b
	}
	data := buildHeader("WAVE", []byte{0}, instruments)
	data = append(data, []byte{0x00, 0x80, 0x40, 0x7F}...) // 4 raw waveform bytes

	song, err := DecodeBytes(data)
	if err != nil {
		t.Fatalf("DecodeBytes: %v", err)
	}

	ins := song.Instruments[0]
	if ins.FineTune != -2 {
		t.Errorf("FineTune = %d, want -2", ins.FineTune)
	}
	if !ins.HasWaveform() {
		t.Fatalf("expected waveform")
	}
	if ins.IsLooped() {
		t.Errorf("expected non-looped instrument")
	}
	want := []float32{0, -1, float32(int8(0x40)) / 128.0, float32(int8(0x7F)) / 128.0}
	if diff := cmp.Diff(want, ins.Waveform); diff != "" {
		t.Errorf("Waveform mismatch (-want +got):\n%s", diff)
	}
}
