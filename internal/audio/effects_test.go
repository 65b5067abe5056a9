package audio

import (
	"testing"
	"time"

	"github.com/gopxl/beep"
)

// drain streams s to the end and returns the sample count and peak amplitude.
func drain(t *testing.T, s beep.Streamer, limit int) (total int, peak float64) {
	t.Helper()
	buf := make([][2]float64, 512)
	for total < limit {
		n, ok := s.Stream(buf)
		for i := 0; i < n; i++ {
			for _, v := range buf[i] {
				if v < 0 {
					v = -v
				}
				if v > peak {
					peak = v
				}
			}
		}
		total += n
		if !ok {
			return total, peak
		}
	}
	t.Fatalf("stream did not end within %d samples", limit)
	return total, peak
}

func TestOscillatorRange(t *testing.T) {
	rate := beep.SampleRate(44100)
	for _, wave := range []WaveType{WaveSine, WaveSquare, WaveNoise} {
		osc := NewSweep(880, 110, 50*time.Millisecond, wave, rate)
		total, peak := drain(t, osc, rate.N(time.Second))
		if total != rate.N(50*time.Millisecond) {
			t.Errorf("wave %d: expected %d samples, got %d", wave, rate.N(50*time.Millisecond), total)
		}
		if peak > 1.0 {
			t.Errorf("wave %d: sample out of range: %f", wave, peak)
		}
		if osc.Err() != nil {
			t.Errorf("wave %d: unexpected error %v", wave, osc.Err())
		}
	}
}

func TestEnvelopeFadesOut(t *testing.T) {
	rate := beep.SampleRate(44100)
	d := 40 * time.Millisecond
	env := NewEnvelope(NewOscillator(440, time.Second, WaveSquare, rate), d, 5*time.Millisecond, 10*time.Millisecond, rate)

	buf := make([][2]float64, rate.N(d))
	n, _ := env.Stream(buf)
	if n != rate.N(d) {
		t.Fatalf("expected %d samples, got %d", rate.N(d), n)
	}
	if buf[0][0] != 0 {
		t.Errorf("attack should start silent, got %f", buf[0][0])
	}
	if last := buf[n-1][0]; last > 0.01 || last < -0.01 {
		t.Errorf("release should end near silence, got %f", last)
	}

	if n, ok := env.Stream(buf); n != 0 || ok {
		t.Errorf("expected the envelope to be drained, got n=%d ok=%v", n, ok)
	}
}

func TestCueStreamersEnd(t *testing.T) {
	for _, c := range []Cue{CueFire, CueHit, CueMiss, CueGameOver, CueStart} {
		s := createStreamer(c, sampleRate, 0.5)
		if s == nil {
			t.Fatalf("cue %d has no sound", c)
		}
		total, peak := drain(t, s, sampleRate.N(2*time.Second))
		if total == 0 {
			t.Errorf("cue %d produced no samples", c)
		}
		if peak > 1.0 {
			t.Errorf("cue %d clips: peak %f", c, peak)
		}
	}
	if createStreamer(Cue(99), sampleRate, 0.5) != nil {
		t.Error("unknown cue should have no sound")
	}
}

func TestSilentPlayer(t *testing.T) {
	p, err := Open(false, 1)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := p.(Silent); !ok {
		t.Fatalf("expected Silent, got %T", p)
	}
	p.Play(CueHit)
	p.Close()
}

func TestUninitializedManagerIsQuiet(t *testing.T) {
	sm := NewSoundManager(0.5)
	sm.Play(CueFire)
	sm.Close()
}
