package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/pthm-cable/flap/config"
	"github.com/pthm-cable/flap/game"
)

// Effects plays sound effects through the speaker. All methods are no-ops
// until Init succeeds, so a disabled or failed audio device is silent.
type Effects struct {
	mu          sync.Mutex
	rate        beep.SampleRate
	gain        float64
	mixer       *beep.Mixer
	initialized bool
}

// NewEffects creates an uninitialised effects player.
func NewEffects(cfg config.AudioConfig) *Effects {
	return &Effects{
		rate:  beep.SampleRate(cfg.SampleRate),
		gain:  cfg.Volume,
		mixer: &beep.Mixer{},
	}
}

// Init opens the audio device and starts the mixer.
func (e *Effects) Init() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.initialized {
		return nil
	}
	if err := speaker.Init(e.rate, e.rate.N(50*time.Millisecond)); err != nil {
		return fmt.Errorf("initialising speaker: %w", err)
	}
	speaker.Play(e.mixer)
	e.initialized = true
	return nil
}

// Close stops every playing effect.
func (e *Effects) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.initialized {
		return
	}
	speaker.Lock()
	e.mixer.Clear()
	speaker.Unlock()
	e.initialized = false
}

func (e *Effects) play(s beep.Streamer) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.initialized {
		return
	}
	speaker.Lock()
	e.mixer.Add(s)
	speaker.Unlock()
}

// Flap plays the wing beat.
func (e *Effects) Flap() { e.play(FlapSound(e.rate, e.gain)) }

// Score plays the point chime.
func (e *Effects) Score() { e.play(PointSound(e.rate, e.gain)) }

// Crash plays the collision sound.
func (e *Effects) Crash() { e.play(CrashSound(e.rate, e.gain)) }

// Chimer is anything that can play the point chime.
type Chimer interface {
	Score()
}

// Observer forwards frames to next and chimes whenever the score of the
// current generation goes up.
type Observer struct {
	next       game.Observer
	chime      Chimer
	generation int
	score      int
}

// NewObserver wraps next. A nil next is treated as game.NopObserver.
func NewObserver(next game.Observer, chime Chimer) *Observer {
	if next == nil {
		next = game.NopObserver{}
	}
	return &Observer{next: next, chime: chime}
}

// Observe implements game.Observer.
func (o *Observer) Observe(f game.Frame) {
	if f.Generation != o.generation {
		o.generation = f.Generation
		o.score = 0
	}
	if f.Score > o.score {
		o.chime.Score()
	}
	o.score = f.Score
	o.next.Observe(f)
}
