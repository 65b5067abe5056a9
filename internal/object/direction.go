package object

import (
	"math"
	"time"

	"github.com/tomz197/reflex/internal/config"
)

// DirectionPolicy decides when an active target picks a new random heading.
// Each level uses exactly one policy.
type DirectionPolicy interface {
	ShouldTurn(t *Target, ctx UpdateContext) bool
}

// ProbabilisticTurns turns with Chance per reference frame. Longer frames
// get the compounded chance so the turn rate does not depend on frame rate.
type ProbabilisticTurns struct {
	Chance float64
}

func (p ProbabilisticTurns) ShouldTurn(_ *Target, ctx UpdateContext) bool {
	if p.Chance <= 0 || ctx.Rand == nil {
		return false
	}
	f := ctx.Factor()
	if f <= 0 {
		return false
	}
	chance := 1 - math.Pow(1-p.Chance, f)
	return ctx.Rand.Float64() < chance
}

// PeriodicTurns turns every Interval since the last turn.
type PeriodicTurns struct {
	Interval time.Duration
}

func (p PeriodicTurns) ShouldTurn(t *Target, ctx UpdateContext) bool {
	return p.Interval > 0 && ctx.Now.Sub(t.LastTurn) >= p.Interval
}

// PolicyFor returns the direction policy a level is configured with.
func PolicyFor(level config.Level) DirectionPolicy {
	if level.Turns == config.TurnPeriodic {
		return PeriodicTurns{Interval: level.TurnInterval}
	}
	return ProbabilisticTurns{Chance: level.TurnChance}
}
