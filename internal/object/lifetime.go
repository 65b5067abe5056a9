package object

import (
	"math/rand"
	"time"

	"github.com/tomz197/reflex/internal/config"
	"github.com/tomz197/reflex/internal/physics"
)

// Caps of the individual adaptive lifetime terms, in milliseconds.
const (
	distanceTermMax = 4000.0
	accuracyTermMin = -800.0
	accuracyTermMax = 4000.0
	missedTermMax   = 3500.0
	missedTermStep  = 450.0
)

// LifetimeInputs is what the adaptive lifetime looks at when a target spawns.
type LifetimeInputs struct {
	Distance  float64 // Spawn point to player, logical pixels
	PxToMs    float64 // How long a projectile needs per pixel
	Telemetry *Telemetry
	Missed    int
}

// PxToMs is the projectile travel time per pixel at the given shot speed.
func PxToMs(shotSpeed float64) float64 {
	if shotSpeed <= 0 {
		return 0
	}
	return float64(config.ReferenceFrame) / float64(time.Millisecond) / shotSpeed
}

// AdaptiveLifetime stretches lifetimes for struggling players: far spawns, slow
// shots, poor accuracy and a run of misses all add time. The result always lies
// within [a.Min, a.Max].
func AdaptiveLifetime(a config.Adaptive, in LifetimeInputs, rng *rand.Rand) time.Duration {
	ms := func(d time.Duration) float64 { return float64(d) / float64(time.Millisecond) }

	total := ms(a.Base)
	if rng != nil {
		total += rng.Float64() * ms(a.ExtraRange)
	}

	estimate := in.Distance * in.PxToMs
	total += physics.Clamp(estimate*1.2, 0, distanceTermMax)

	travel := estimate
	accuracy := a.DefaultAccuracy
	if in.Telemetry != nil {
		if avg, ok := in.Telemetry.AverageTravel(); ok {
			travel = ms(avg)
		}
		accuracy = in.Telemetry.Accuracy()
	}
	total += travel * 0.9

	total += physics.Clamp((1-accuracy)*2500-(accuracy-0.5)*200, accuracyTermMin, accuracyTermMax)
	total += physics.Clamp(float64(in.Missed)*missedTermStep, 0, missedTermMax)

	total = physics.Clamp(total, ms(a.Min), ms(a.Max))
	return time.Duration(total * float64(time.Millisecond))
}

// FixedLifetime returns d clamped to be positive.
func FixedLifetime(d time.Duration) time.Duration {
	if d <= 0 {
		return time.Millisecond
	}
	return d
}
