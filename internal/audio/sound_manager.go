package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate = beep.SampleRate(48000)
)

// Cue is a game event with a sound.
type Cue int

const (
	CueFire Cue = iota
	CueHit
	CueMiss
	CueGameOver
	CueStart
)

// Player plays cues. Implementations must not block the caller.
type Player interface {
	Play(c Cue)
	Close()
}

// Silent is a Player that does nothing.
type Silent struct{}

func (Silent) Play(Cue) {}
func (Silent) Close()   {}

// SoundManager plays cues through the system speaker.
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	volume      float64
	initialized bool
}

// NewSoundManager creates a new sound manager at the given master volume (0..1).
func NewSoundManager(volume float64) *SoundManager {
	return &SoundManager{
		mixer:  &beep.Mixer{},
		volume: volume,
	}
}

// Initialize sets up the audio system
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	// Initialize speaker with sample rate and buffer size
	if err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*50)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}

	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// Play implements Player.
func (sm *SoundManager) Play(c Cue) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	s := createStreamer(c, sampleRate, sm.volume)
	if s == nil {
		return
	}

	speaker.Lock()
	sm.mixer.Add(s)
	speaker.Unlock()
}

// Close stops all sounds and closes the audio system.
func (sm *SoundManager) Close() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	sm.initialized = false
}

// Open returns a speaker-backed Player, or Silent when sound is disabled or
// the audio device cannot be opened.
func Open(enabled bool, volume float64) (Player, error) {
	if !enabled {
		return Silent{}, nil
	}
	sm := NewSoundManager(volume)
	if err := sm.Initialize(); err != nil {
		return Silent{}, err
	}
	return sm, nil
}
