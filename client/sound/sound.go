package sound

import (
	"fmt"
	"sync"
	"time"

	"github.com/cbodonnell/snake/pkg/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate = beep.SampleRate(44100)

	eatFrequency      = 880.0
	eatDuration       = 50 * time.Millisecond
	gameOverFrequency = 220.0
	gameOverDuration  = 300 * time.Millisecond
)

// Player plays the game's sound effects. Every method is a no-op until
// Initialize succeeds, so the game runs without an audio device.
type Player struct {
	lock        sync.Mutex
	mixer       *beep.Mixer
	initialized bool
}

func NewPlayer() *Player {
	return &Player{
		mixer: &beep.Mixer{},
	}
}

// Initialize opens the audio device.
func (p *Player) Initialize() error {
	p.lock.Lock()
	defer p.lock.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("failed to initialize speaker: %v", err)
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// PlayEat plays a short high tone.
func (p *Player) PlayEat() {
	p.play(eatFrequency, eatDuration)
}

// PlayGameOver plays a longer low tone.
func (p *Player) PlayGameOver() {
	p.play(gameOverFrequency, gameOverDuration)
}

func (p *Player) play(freq float64, duration time.Duration) {
	p.lock.Lock()
	defer p.lock.Unlock()

	if !p.initialized {
		return
	}
	streamer, err := Tone(freq, duration)
	if err != nil {
		log.Warn("Failed to play sound: %v", err)
		return
	}
	speaker.Lock()
	p.mixer.Add(streamer)
	speaker.Unlock()
}

// Close stops all sounds and releases the audio device.
func (p *Player) Close() {
	p.lock.Lock()
	defer p.lock.Unlock()

	if !p.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	p.initialized = false
}

// Tone returns a sine tone of the given frequency that ends after duration.
func Tone(freq float64, duration time.Duration) (beep.Streamer, error) {
	sine, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		return nil, fmt.Errorf("failed to create tone: %v", err)
	}
	return beep.Take(sampleRate.N(duration), sine), nil
}
