// Package audio synthesises the game's sound effects with beep.
package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// Wave is an oscillator shape.
type Wave int

const (
	WaveSine Wave = iota
	WaveSquare
	WaveNoise
)

// Effect durations.
const (
	flapDuration  = 70 * time.Millisecond
	noteDuration  = 80 * time.Millisecond
	crashDuration = 250 * time.Millisecond
)

type oscillator struct {
	freq     float64
	phase    float64
	position int
	samples  int
	wave     Wave
	rate     beep.SampleRate
	rng      *rand.Rand
}

// NewOscillator returns a finite streamer of the given wave.
func NewOscillator(freq float64, d time.Duration, wave Wave, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:    freq,
		samples: rate.N(d),
		wave:    wave,
		rate:    rate,
		rng:     rand.New(rand.NewSource(int64(freq) + 1)),
	}
}

func (o *oscillator) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		if o.position >= o.samples {
			return i, i > 0
		}

		var v float64
		switch o.wave {
		case WaveSine:
			v = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			v = 1
			if o.phase >= 0.5 {
				v = -1
			}
		case WaveNoise:
			v = o.rng.Float64()*2 - 1
		}
		samples[i][0], samples[i][1] = v, v

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// decay fades a streamer out linearly over its last release samples.
type decay struct {
	streamer beep.Streamer
	position int
	total    int
	release  int
}

// NewDecay shapes s, which lasts d, to fade out over its last release.
func NewDecay(s beep.Streamer, d, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &decay{streamer: s, total: rate.N(d), release: rate.N(release)}
}

func (e *decay) Stream(samples [][2]float64) (int, bool) {
	n, ok := e.streamer.Stream(samples)
	start := e.total - e.release
	for i := 0; i < n; i++ {
		if e.position >= start && e.release > 0 {
			vol := float64(e.total-e.position) / float64(e.release)
			if vol < 0 {
				vol = 0
			}
			samples[i][0] *= vol
			samples[i][1] *= vol
		}
		e.position++
	}
	return n, ok
}

func (e *decay) Err() error { return e.streamer.Err() }

// withVolume scales s by a linear gain in [0, 1].
func withVolume(s beep.Streamer, gain float64) beep.Streamer {
	if gain <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(gain)}
}

// FlapSound is a short rising chirp.
func FlapSound(rate beep.SampleRate, gain float64) beep.Streamer {
	half := flapDuration / 2
	chirp := beep.Seq(
		NewOscillator(520, half, WaveSine, rate),
		NewOscillator(780, half, WaveSine, rate),
	)
	return withVolume(NewDecay(chirp, flapDuration, half, rate), gain*0.6)
}

// PointSound is a two-note chime for a cleared pipe.
func PointSound(rate beep.SampleRate, gain float64) beep.Streamer {
	first := NewDecay(NewOscillator(987.77, noteDuration, WaveSquare, rate), noteDuration, noteDuration/2, rate)
	second := NewDecay(NewOscillator(1318.51, noteDuration*2, WaveSquare, rate), noteDuration*2, noteDuration, rate)
	return withVolume(beep.Seq(first, second), gain*0.4)
}

// CrashSound is a burst of noise over a low thud.
func CrashSound(rate beep.SampleRate, gain float64) beep.Streamer {
	mixed := beep.Mix(
		withVolume(NewOscillator(0, crashDuration, WaveNoise, rate), 0.5),
		withVolume(NewOscillator(80, crashDuration, WaveSine, rate), 0.5),
	)
	return withVolume(NewDecay(mixed, crashDuration, crashDuration, rate), gain)
}
