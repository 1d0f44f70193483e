package audio

import (
	"testing"
	"time"

	"github.com/gopxl/beep"

	"github.com/pthm-cable/flap/config"
	"github.com/pthm-cable/flap/game"
)

const testRate = beep.SampleRate(44100)

// drain streams s to the end and returns every sample.
func drain(t *testing.T, s beep.Streamer) [][2]float64 {
	t.Helper()
	var out [][2]float64
	buf := make([][2]float64, 512)
	for i := 0; i < 10000; i++ {
		n, ok := s.Stream(buf)
		out = append(out, buf[:n]...)
		if !ok {
			return out
		}
	}
	t.Fatal("streamer never finished")
	return nil
}

func TestOscillatorLength(t *testing.T) {
	tests := []struct {
		name string
		wave Wave
		freq float64
	}{
		{"sine", WaveSine, 440},
		{"square", WaveSquare, 220},
		{"noise", WaveNoise, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := 20 * time.Millisecond
			samples := drain(t, NewOscillator(tt.freq, d, tt.wave, testRate))
			if len(samples) != testRate.N(d) {
				t.Errorf("len = %d, want %d", len(samples), testRate.N(d))
			}
			for i, s := range samples {
				if s[0] < -1 || s[0] > 1 || s[0] != s[1] {
					t.Fatalf("sample %d = %v", i, s)
				}
			}
		})
	}
}

func TestSquareWaveValues(t *testing.T) {
	for i, s := range drain(t, NewOscillator(220, 10*time.Millisecond, WaveSquare, testRate)) {
		if s[0] != 1 && s[0] != -1 {
			t.Fatalf("sample %d = %v, want +-1", i, s[0])
		}
	}
}

func TestDecayFadesOut(t *testing.T) {
	d := 40 * time.Millisecond
	samples := drain(t, NewDecay(NewOscillator(0, d, WaveSquare, testRate), d, d/2, testRate))

	// Constant +1 input: full level before the release, falling to zero
	if samples[0][0] != 1 {
		t.Errorf("first sample = %v, want 1", samples[0][0])
	}
	last := samples[len(samples)-1][0]
	if last <= 0 || last > 0.01 {
		t.Errorf("last sample = %v, want just above 0", last)
	}
	mid := samples[len(samples)*3/4][0]
	if mid <= last || mid >= 1 {
		t.Errorf("mid release sample = %v", mid)
	}
}

func TestEffectsFinish(t *testing.T) {
	tests := []struct {
		name string
		s    beep.Streamer
		want int
	}{
		{"flap", FlapSound(testRate, 0.5), 2 * testRate.N(flapDuration/2)},
		{"point", PointSound(testRate, 0.5), testRate.N(noteDuration) + testRate.N(noteDuration*2)},
		{"crash", CrashSound(testRate, 0.5), testRate.N(crashDuration)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Mixed streams may pad their final buffer
			got := len(drain(t, tt.s))
			if got < tt.want || got > tt.want+512 {
				t.Errorf("len = %d, want about %d", got, tt.want)
			}
		})
	}
}

func TestSilentVolume(t *testing.T) {
	for _, s := range drain(t, FlapSound(testRate, 0)) {
		if s[0] != 0 {
			t.Fatalf("sample = %v, want silence", s[0])
		}
	}
}

func TestEffectsUninitialisedAreSilent(t *testing.T) {
	e := NewEffects(config.Default().Audio)
	// Must not touch the speaker
	e.Flap()
	e.Score()
	e.Crash()
	e.Close()
}

type countingChimer struct{ n int }

func (c *countingChimer) Score() { c.n++ }

func TestObserverChimes(t *testing.T) {
	chimer := &countingChimer{}
	frames := 0
	next := game.ObserverFunc(func(game.Frame) { frames++ })
	obs := NewObserver(next, chimer)

	for _, f := range []game.Frame{
		{Generation: 1, Score: 0},
		{Generation: 1, Score: 1},
		{Generation: 1, Score: 1},
		{Generation: 1, Score: 2},
		{Generation: 2, Score: 0},
		{Generation: 2, Score: 1},
	} {
		obs.Observe(f)
	}

	if chimer.n != 3 {
		t.Errorf("chimes = %d, want 3", chimer.n)
	}
	if frames != 6 {
		t.Errorf("forwarded %d frames, want 6", frames)
	}
}
