// Package audio synthesizes the game's sound cues. Nothing is loaded from disk.
package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveNoise
)

// oscillator generates raw audio waves, optionally gliding from freq to endFreq.
type oscillator struct {
	freq     float64
	endFreq  float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
}

// NewOscillator creates a fixed-pitch oscillator.
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return NewSweep(freq, freq, duration, wave, rate)
}

// NewSweep creates an oscillator whose pitch glides linearly from start to end.
func NewSweep(start, end float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     start,
		endFreq:  end,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case WaveNoise:
			val = rand.Float64()*2 - 1
		}

		samples[i][0] = val
		samples[i][1] = val

		progress := float64(o.position) / float64(o.duration)
		freq := o.freq + (o.endFreq-o.freq)*progress
		o.phase += freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies attack/release shaping to a stream
type envelope struct {
	streamer       beep.Streamer
	position       int
	attackSamples  int
	releaseSamples int
	sustainSamples int
	totalSamples   int
}

// NewEnvelope creates an attack/release envelope over duration.
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	total := rate.N(duration)
	att := rate.N(attack)
	rel := rate.N(release)
	sus := total - att - rel
	if sus < 0 {
		sus = 0
	}

	return &envelope{
		streamer:       s,
		attackSamples:  att,
		releaseSamples: rel,
		sustainSamples: sus,
		totalSamples:   total,
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	for i := 0; i < n; i++ {
		if e.position >= e.totalSamples {
			return i, i > 0
		}

		vol := 1.0
		if e.position < e.attackSamples && e.attackSamples > 0 {
			vol = float64(e.position) / float64(e.attackSamples)
		}
		releaseStart := e.attackSamples + e.sustainSamples
		if e.position >= releaseStart && e.releaseSamples > 0 {
			vol = float64(e.totalSamples-e.position) / float64(e.releaseSamples)
			if vol < 0 {
				vol = 0
			}
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}

	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume wraps s in a linear volume; math.Log2(0) is -Inf, so 0 means silent.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// Cue shapes
const (
	fireDuration     = 60 * time.Millisecond
	hitDuration      = 180 * time.Millisecond
	missDuration     = 220 * time.Millisecond
	gameOverDuration = 700 * time.Millisecond
	startDuration    = 160 * time.Millisecond
	shortAttack      = 4 * time.Millisecond
)

// createStreamer builds the streamer for a cue at the given master volume.
func createStreamer(c Cue, rate beep.SampleRate, volume float64) beep.Streamer {
	var s beep.Streamer
	switch c {
	case CueFire:
		noise := NewOscillator(0, fireDuration, WaveNoise, rate)
		s = newVolume(NewEnvelope(noise, fireDuration, shortAttack, fireDuration/2, rate), 0.35)
	case CueHit:
		fund := NewEnvelope(NewOscillator(880, hitDuration, WaveSine, rate), hitDuration, shortAttack, hitDuration*2/3, rate)
		over := NewEnvelope(NewOscillator(1320, hitDuration, WaveSine, rate), hitDuration, shortAttack, hitDuration/3, rate)
		s = beep.Mix(newVolume(fund, 0.7), newVolume(over, 0.3))
	case CueMiss:
		sweep := NewSweep(300, 140, missDuration, WaveSquare, rate)
		s = newVolume(NewEnvelope(sweep, missDuration, shortAttack, missDuration/2, rate), 0.3)
	case CueGameOver:
		sweep := NewSweep(440, 110, gameOverDuration, WaveSine, rate)
		s = NewEnvelope(sweep, gameOverDuration, shortAttack, gameOverDuration/2, rate)
	case CueStart:
		s = beep.Seq(
			NewEnvelope(NewOscillator(660, startDuration/2, WaveSine, rate), startDuration/2, shortAttack, startDuration/4, rate),
			NewEnvelope(NewOscillator(990, startDuration/2, WaveSine, rate), startDuration/2, shortAttack, startDuration/4, rate),
		)
	default:
		return nil
	}
	return newVolume(s, volume)
}
