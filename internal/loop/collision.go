package loop

import (
	"github.com/tomz197/reflex/internal/object"
	"github.com/tomz197/reflex/internal/physics"
)

// Hit pairs a target with the projectile that intercepted it.
type Hit struct {
	Target     *object.Target
	Projectile *object.Projectile
}

// ResolveCollisions matches projectiles against active targets. Targets are
// the outer loop and projectiles the inner one; the first projectile within
// radius+margin of a target wins, so each target and each projectile takes
// part in at most one hit. Matched entities are marked (TargetHit, destroyed)
// but left in their collections for the caller to remove.
func ResolveCollisions(targets []*object.Target, projectiles []*object.Projectile, margin float64) []Hit {
	var hits []Hit
	for _, t := range targets {
		if t.Phase != object.TargetActive {
			continue
		}
		for _, p := range projectiles {
			if p.IsDestroyed() {
				continue
			}
			if physics.PointInCircle(p.X, p.Y, t.X, t.Y, t.Radius+margin) {
				t.Phase = object.TargetHit
				p.MarkDestroyed()
				hits = append(hits, Hit{Target: t, Projectile: p})
				break
			}
		}
	}
	return hits
}
