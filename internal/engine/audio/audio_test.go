package audio

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"
)

// monoWAV builds a 16-bit PCM mono WAV with n samples of a square wave.
func monoWAV(rate uint32, n int) []byte {
	var pcm bytes.Buffer
	for i := 0; i < n; i++ {
		v := int16(8000)
		if (i/10)%2 == 1 {
			v = -8000
		}
		_ = binary.Write(&pcm, binary.LittleEndian, v)
	}

	var b bytes.Buffer
	b.WriteString("RIFF")
	_ = binary.Write(&b, binary.LittleEndian, uint32(36+pcm.Len()))
	b.WriteString("WAVE")
	b.WriteString("fmt ")
	_ = binary.Write(&b, binary.LittleEndian, uint32(16))
	_ = binary.Write(&b, binary.LittleEndian, uint16(1)) // PCM
	_ = binary.Write(&b, binary.LittleEndian, uint16(1)) // channels
	_ = binary.Write(&b, binary.LittleEndian, rate)
	_ = binary.Write(&b, binary.LittleEndian, rate*2) // byte rate
	_ = binary.Write(&b, binary.LittleEndian, uint16(2))
	_ = binary.Write(&b, binary.LittleEndian, uint16(16))
	b.WriteString("data")
	_ = binary.Write(&b, binary.LittleEndian, uint32(pcm.Len()))
	b.Write(pcm.Bytes())
	return b.Bytes()
}

func TestVolumeConversion(t *testing.T) {
	tests := []struct {
		vol      float64
		min, max float64
	}{
		{1.0, -0.01, 0.01},
		{0.5, -6.1, -5.9},
		{0.25, -12.1, -11.9},
		{0.0, -200, -90},
	}

	for _, tt := range tests {
		db := volumeToDb(tt.vol)
		if db < tt.min || db > tt.max {
			t.Errorf("volumeToDb(%f) = %f, want between %f and %f", tt.vol, db, tt.min, tt.max)
		}
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		v, want float64
	}{
		{0.5, 0.5},
		{-1, 0},
		{2, 1},
		{0, 0},
		{1, 1},
	}

	for _, tt := range tests {
		if got := clamp(tt.v, 0, 1); got != tt.want {
			t.Errorf("clamp(%f) = %f, want %f", tt.v, got, tt.want)
		}
	}
}

func TestPlayerVolume(t *testing.T) {
	p := New(1.5)
	if p.Volume() != 1 {
		t.Errorf("New clamps volume: got %f, want 1", p.Volume())
	}
	p.SetVolume(0.3)
	if math.Abs(p.Volume()-0.3) > 1e-9 {
		t.Errorf("Volume() = %f, want 0.3", p.Volume())
	}
}

func TestPlayChimeRequiresInit(t *testing.T) {
	p := New(1)
	if err := p.PlayChime(); err == nil {
		t.Error("expected error before Init")
	}
}

func TestDecodeResamples(t *testing.T) {
	buf, err := decode(monoWAV(22050, 400), DefaultSampleRate)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if buf.Format().SampleRate != DefaultSampleRate {
		t.Errorf("sample rate = %d, want %d", buf.Format().SampleRate, DefaultSampleRate)
	}
	// Doubling the rate roughly doubles the sample count.
	if n := buf.Len(); n < 700 || n > 810 {
		t.Errorf("buffer length = %d, want about 800", n)
	}
}

func TestDecodeSameRate(t *testing.T) {
	buf, err := decode(monoWAV(44100, 300), DefaultSampleRate)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if buf.Len() != 300 {
		t.Errorf("buffer length = %d, want 300", buf.Len())
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := decode([]byte("definitely not a wav file"), DefaultSampleRate); err == nil {
		t.Error("expected decode error")
	}
}

func TestLoadChime(t *testing.T) {
	p := New(0.5)
	if err := p.LoadChime(monoWAV(44100, 100)); err != nil {
		t.Fatalf("LoadChime: %v", err)
	}
	if p.chime == nil || p.chime.Len() != 100 {
		t.Error("chime not stored")
	}
	if err := p.LoadChime(nil); err == nil {
		t.Error("expected error for empty data")
	}
}
