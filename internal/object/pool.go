package object

// TargetPool holds the active targets of a round, never more than its capacity.
type TargetPool struct {
	capacity int
	targets  []*Target
}

// NewTargetPool creates a pool for at most capacity targets.
func NewTargetPool(capacity int) *TargetPool {
	if capacity < 1 {
		capacity = 1
	}
	return &TargetPool{
		capacity: capacity,
		targets:  make([]*Target, 0, capacity),
	}
}

// Cap returns the pool capacity.
func (p *TargetPool) Cap() int { return p.capacity }

// Len returns the number of targets held.
func (p *TargetPool) Len() int { return len(p.targets) }

// Full reports whether the pool is at capacity.
func (p *TargetPool) Full() bool { return len(p.targets) >= p.capacity }

// Targets returns the held targets in spawn order. The slice is owned by the pool.
func (p *TargetPool) Targets() []*Target { return p.targets }

// Add inserts t. It is refused when the pool is full.
func (p *TargetPool) Add(t *Target) bool {
	if t == nil || p.Full() {
		return false
	}
	p.targets = append(p.targets, t)
	return true
}

// Reset empties the pool and sets a new capacity.
func (p *TargetPool) Reset(capacity int) {
	if capacity < 1 {
		capacity = 1
	}
	clear(p.targets)
	p.targets = p.targets[:0]
	p.capacity = capacity
}

// Update advances every target and drops the ones that stopped being active.
// The targets that expired during this update are returned.
func (p *TargetPool) Update(ctx UpdateContext) []*Target {
	var expired []*Target
	kept := p.targets[:0]
	for _, t := range p.targets {
		if t.Update(ctx) {
			if t.Phase == TargetExpired {
				expired = append(expired, t)
			}
			continue
		}
		kept = append(kept, t)
	}
	clear(p.targets[len(kept):])
	p.targets = kept
	return expired
}

// RemoveHit drops targets resolved as hits.
func (p *TargetPool) RemoveHit() {
	kept := p.targets[:0]
	for _, t := range p.targets {
		if t.Phase != TargetHit {
			kept = append(kept, t)
		}
	}
	clear(p.targets[len(kept):])
	p.targets = kept
}

// Draw renders every target.
func (p *TargetPool) Draw(ctx DrawContext) {
	for _, t := range p.targets {
		t.Draw(ctx)
	}
}
