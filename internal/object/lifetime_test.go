package object

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/tomz197/reflex/internal/config"
)

func TestAdaptiveLifetimeStaysInWindow(t *testing.T) {
	a := config.Default().Adaptive
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 2000; i++ {
		tel := NewTelemetry(a.SampleCapacity, a.SampleWindow, a.DefaultAccuracy)
		shots := rng.Intn(50)
		for j := 0; j < shots; j++ {
			tel.RecordShot()
			if rng.Float64() < 0.5 {
				tel.RecordHit(time.Duration(rng.Intn(3000)) * time.Millisecond)
			}
		}
		in := LifetimeInputs{
			Distance:  rng.Float64() * 5000,
			PxToMs:    PxToMs(config.ShotSpeed),
			Telemetry: tel,
			Missed:    rng.Intn(30),
		}
		got := AdaptiveLifetime(a, in, rng)
		if got < a.Min || got > a.Max {
			t.Fatalf("lifetime %s outside [%s, %s] for %+v", got, a.Min, a.Max, in)
		}
	}
}

func TestAdaptiveLifetime(t *testing.T) {
	a := config.Default().Adaptive

	zeroAccuracy := NewTelemetry(a.SampleCapacity, a.SampleWindow, a.DefaultAccuracy)
	zeroAccuracy.RecordShot()

	perfect := NewTelemetry(a.SampleCapacity, a.SampleWindow, a.DefaultAccuracy)
	perfect.RecordShot()
	perfect.RecordHit(0)

	tests := []struct {
		name string
		in   LifetimeInputs
		want time.Duration
	}{
		{
			// base 1000 + accuracy term (1-0)*2500 - (0-0.5)*200 = 2600
			name: "no hits at zero distance",
			in:   LifetimeInputs{Telemetry: zeroAccuracy},
			want: 3600 * time.Millisecond,
		},
		{
			name: "miss streak adds 450ms each",
			in:   LifetimeInputs{Telemetry: zeroAccuracy, Missed: 2},
			want: 4500 * time.Millisecond,
		},
		{
			name: "perfect aim is clamped to the minimum",
			in:   LifetimeInputs{Telemetry: perfect},
			want: a.Min,
		},
		{
			name: "everything against the player is clamped to the maximum",
			in:   LifetimeInputs{Distance: 10000, PxToMs: 2, Telemetry: zeroAccuracy, Missed: 50},
			want: a.Max,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AdaptiveLifetime(a, tt.in, nil); got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestAdaptiveLifetimeWithoutHistoryUsesDistanceEstimate(t *testing.T) {
	a := config.Default().Adaptive
	in := LifetimeInputs{Distance: 600, PxToMs: 1}

	// default accuracy 0.45: (0.55*2500) - (-0.05*200) = 1385
	// distance term 600*1.2 = 720, travel falls back to the estimate: 600*0.9 = 540
	want := time.Duration((1000.0 + 720 + 540 + 1385) * float64(time.Millisecond))
	got := AdaptiveLifetime(a, in, nil)
	if diff := got - want; diff < -time.Millisecond || diff > time.Millisecond {
		t.Fatalf("expected about %s, got %s", want, got)
	}
}

func TestPxToMs(t *testing.T) {
	// One reference frame per 12px, in milliseconds.
	got := PxToMs(12)
	want := config.ReferenceFrame.Seconds() * 1000 / 12
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected %f, got %f", want, got)
	}
	if math.Abs(got-1000.0/60/12) > 1e-6 {
		t.Fatalf("expected %f, got %f", want, got)
	}
	if PxToMs(0) != 0 {
		t.Fatal("zero shot speed should give 0")
	}
}
