// Command headless plays seeded rounds with a scripted shooter and prints a
// report. It needs no terminal and is used to tune the difficulty settings.
package main

import (
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"text/tabwriter"
	"time"

	"github.com/tomz197/reflex/internal/config"
	"github.com/tomz197/reflex/internal/loop"
	"github.com/tomz197/reflex/internal/object"
)

type options struct {
	runs     int
	level    int
	seed     int64
	width    float64
	height   float64
	limit    time.Duration
	reaction time.Duration
	jitter   float64
	lead     bool
}

type result struct {
	seed        int64
	hits        int
	missed      int
	fired       int
	spawned     int
	avgLifetime time.Duration
	played      time.Duration
	gameOver    bool
}

func main() {
	var o options
	flag.IntVar(&o.runs, "runs", 10, "number of rounds")
	flag.IntVar(&o.level, "level", 1, "level to play")
	flag.Int64Var(&o.seed, "seed", 1, "seed of the first round; round i uses seed+i")
	flag.Float64Var(&o.width, "width", 1280, "viewport width")
	flag.Float64Var(&o.height, "height", 800, "viewport height")
	flag.DurationVar(&o.limit, "limit", 3*time.Minute, "simulated time limit per round")
	flag.DurationVar(&o.reaction, "reaction", 250*time.Millisecond, "shooter reaction time after a spawn")
	flag.Float64Var(&o.jitter, "jitter", 20, "aim error standard deviation in pixels")
	flag.BoolVar(&o.lead, "lead", true, "aim ahead of moving targets")
	flag.Parse()

	logger := config.NewLogger(os.Stderr, "reflex-headless")

	settings, err := config.Load()
	if err != nil {
		logger.Fatal("invalid configuration", "err", err)
	}
	if !settings.HasLevel(o.level) {
		logger.Fatal("unknown level", "level", o.level)
	}

	results := make([]result, 0, o.runs)
	for i := 0; i < o.runs; i++ {
		r := play(settings, o, o.seed+int64(i))
		logger.Debug("round finished", "seed", r.seed, "hits", r.hits, "missed", r.missed)
		results = append(results, r)
	}

	if err := report(results); err != nil {
		logger.Fatal("write report", "err", err)
	}
}

// play runs one round at a fixed 60 Hz tick until game over or the time limit.
func play(settings config.Settings, o options, seed int64) result {
	settings.Seed = seed
	session := loop.NewSession(settings, rand.New(rand.NewSource(seed)))
	shooterRng := rand.New(rand.NewSource(seed ^ 0x5eed))
	screen := object.Screen{Width: o.width, Height: o.height}

	now := time.Unix(0, 0)
	session.Tick(now, screen, loop.Input{Level: o.level})

	seen := map[uint64]bool{}
	var lifetimes time.Duration
	end := now.Add(o.limit)

	for session.Phase == loop.PhasePlaying && now.Before(end) {
		now = now.Add(config.ReferenceFrame)
		session.Tick(now, screen, aim(session, o, shooterRng, now))

		for _, t := range session.Targets().Targets() {
			if !seen[t.ID] {
				seen[t.ID] = true
				lifetimes += t.Lifetime
			}
		}
		session.DrainEvents()
	}

	r := result{
		seed:     seed,
		hits:     session.Score,
		missed:   session.Missed,
		fired:    session.Telemetry().Fired,
		spawned:  len(seen),
		played:   now.Sub(session.StartedAt),
		gameOver: session.Phase == loop.PhaseGameOver,
	}
	if r.spawned > 0 {
		r.avgLifetime = lifetimes / time.Duration(r.spawned)
	}
	return r
}

// aim points at the oldest target that has been visible for the reaction
// time and pulls the trigger. The session enforces the cooldown.
func aim(s *loop.Session, o options, rng *rand.Rand, now time.Time) loop.Input {
	var target *object.Target
	for _, t := range s.Targets().Targets() {
		if t.Elapsed(now) < o.reaction {
			continue
		}
		if target == nil || t.SpawnedAt.Before(target.SpawnedAt) {
			target = t
		}
	}
	if target == nil {
		return loop.Input{}
	}

	x, y := target.X, target.Y
	if o.lead {
		p := s.Player()
		frames := math.Hypot(x-p.X, y-p.Y) / s.Settings.ShotSpeed
		x += target.VX * frames
		y += target.VY * frames
	}
	return loop.Input{
		PointerX:   x + rng.NormFloat64()*o.jitter,
		PointerY:   y + rng.NormFloat64()*o.jitter,
		HasPointer: true,
		Fire:       true,
	}
}

func report(results []result) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "seed\thits\tmissed\tfired\taccuracy\tspawned\tavg lifetime\tplayed\tend\t")

	var hits, missed, fired int
	for _, r := range results {
		end := "limit"
		if r.gameOver {
			end = "game over"
		}
		fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%s\t%d\t%s\t%s\t%s\t\n",
			r.seed, r.hits, r.missed, r.fired, percent(r.hits, r.fired), r.spawned,
			r.avgLifetime.Round(time.Millisecond), r.played.Round(time.Second), end)
		hits += r.hits
		missed += r.missed
		fired += r.fired
	}
	fmt.Fprintf(w, "total\t%d\t%d\t%d\t%s\t\t\t\t\t\n", hits, missed, fired, percent(hits, fired))
	return w.Flush()
}

func percent(n, of int) string {
	if of == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", float64(n)*100/float64(of))
}

