// Package audio plays the overlay's notification chime.
package audio

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
)

// DefaultSampleRate is the speaker sample rate.
const DefaultSampleRate = beep.SampleRate(44100)

// Player owns the speaker and a pre-decoded chime. Overlapping plays are
// mixed.
type Player struct {
	mu sync.Mutex

	initialized bool
	sampleRate  beep.SampleRate
	volume      float64

	mixer *beep.Mixer
	chime *beep.Buffer
}

// New creates a player at the given volume (0.0 to 1.0).
func New(volume float64) *Player {
	return &Player{
		sampleRate: DefaultSampleRate,
		volume:     clamp(volume, 0, 1),
		mixer:      &beep.Mixer{},
	}
}

// Init opens the audio device.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(p.sampleRate, p.sampleRate.N(time.Second/30)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Close stops playback and releases the device.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	p.initialized = false
}

// LoadChime decodes WAV data into memory at the speaker sample rate.
func (p *Player) LoadChime(data []byte) error {
	buf, err := decode(data, p.sampleRate)
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.chime = buf
	p.mu.Unlock()
	return nil
}

// SetVolume sets the chime volume (0.0 to 1.0).
func (p *Player) SetVolume(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = clamp(v, 0, 1)
}

// Volume returns the chime volume.
func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// PlayChime starts the chime. It returns immediately; playback happens on
// the speaker's goroutine.
func (p *Player) PlayChime() error {
	p.mu.Lock()
	initialized, chime, vol := p.initialized, p.chime, p.volume
	p.mu.Unlock()

	if !initialized {
		return fmt.Errorf("audio not initialized")
	}
	if chime == nil {
		return fmt.Errorf("no chime loaded")
	}

	speaker.Lock()
	p.mixer.Add(&effects.Volume{
		Streamer: chime.Streamer(0, chime.Len()),
		Base:     10,
		Volume:   volumeToDb(vol) / 20,
		Silent:   vol <= 0,
	})
	speaker.Unlock()
	return nil
}

// decode reads WAV data and resamples it into a stereo buffer at rate.
func decode(data []byte, rate beep.SampleRate) (*beep.Buffer, error) {
	streamer, format, err := wav.Decode(io.NopCloser(bytes.NewReader(data)))
	if err != nil {
		return nil, fmt.Errorf("decode wav: %w", err)
	}
	defer streamer.Close()

	var s beep.Streamer = streamer
	if format.SampleRate != rate {
		s = beep.Resample(4, format.SampleRate, rate, streamer)
	}

	buf := beep.NewBuffer(beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2})
	buf.Append(s)
	if err := streamer.Err(); err != nil {
		return nil, fmt.Errorf("decode wav: %w", err)
	}
	return buf, nil
}

// volumeToDb converts a 0-1 amplitude to decibels: 1 is 0 dB, 0.5 is about -6 dB.
func volumeToDb(vol float64) float64 {
	if vol <= 0 {
		return -100
	}
	return 20 * math.Log10(vol)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
