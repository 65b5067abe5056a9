package object

import (
	"math/rand"
	"testing"
	"time"

	"github.com/tomz197/reflex/internal/config"
)

func TestPeriodicTurns(t *testing.T) {
	now := time.Unix(10, 0)
	p := PeriodicTurns{Interval: 400 * time.Millisecond}

	tests := []struct {
		sinceTurn time.Duration
		want      bool
	}{
		{0, false},
		{399 * time.Millisecond, false},
		{400 * time.Millisecond, true},
		{time.Second, true},
	}
	for _, tt := range tests {
		tg := &Target{LastTurn: now.Add(-tt.sinceTurn)}
		if got := p.ShouldTurn(tg, frameContext(now)); got != tt.want {
			t.Errorf("%s since last turn: expected %v, got %v", tt.sinceTurn, tt.want, got)
		}
	}
}

func TestProbabilisticTurns(t *testing.T) {
	ctx := frameContext(time.Unix(10, 0))

	if (ProbabilisticTurns{Chance: 0}).ShouldTurn(nil, ctx) {
		t.Fatal("zero chance should never turn")
	}
	if !(ProbabilisticTurns{Chance: 1}).ShouldTurn(nil, ctx) {
		t.Fatal("certain chance should always turn")
	}

	ctx.Delta = 0
	if (ProbabilisticTurns{Chance: 1}).ShouldTurn(nil, ctx) {
		t.Fatal("a zero-length tick should not turn")
	}
}

func TestProbabilisticTurnsRate(t *testing.T) {
	ctx := frameContext(time.Unix(10, 0))
	ctx.Rand = rand.New(rand.NewSource(11))
	p := ProbabilisticTurns{Chance: 0.01}

	turns := 0
	const frames = 100000
	for i := 0; i < frames; i++ {
		if p.ShouldTurn(nil, ctx) {
			turns++
		}
	}
	// 1% per frame: expect about 1000.
	if turns < 800 || turns > 1200 {
		t.Fatalf("expected about 1000 turns, got %d", turns)
	}
}

func TestPolicyFor(t *testing.T) {
	s := config.Default()
	if _, ok := PolicyFor(s.Level(1)).(ProbabilisticTurns); !ok {
		t.Fatal("level 1 should turn probabilistically")
	}
	if _, ok := PolicyFor(s.Level(2)).(PeriodicTurns); !ok {
		t.Fatal("level 2 should turn periodically")
	}
}

func TestTargetTurnKeepsSpeed(t *testing.T) {
	now := time.Unix(10, 0)
	tg := NewTarget(1, 400, 300, 25, 1.4, 0, time.Minute, PeriodicTurns{Interval: 400 * time.Millisecond}, now)

	later := now.Add(400 * time.Millisecond)
	tg.Update(frameContext(later))
	if !tg.LastTurn.Equal(later) {
		t.Fatalf("expected a turn at %s, last turn %s", later, tg.LastTurn)
	}
	if s := tg.VX*tg.VX + tg.VY*tg.VY; s < 1.4*1.4-1e-9 || s > 1.4*1.4+1e-9 {
		t.Fatalf("speed changed on turn: %f", s)
	}
}
