package engine

import "sync"

// companionCache tracks the summoned companion separately from the party
// arrays. The companion scan runs at its own cadence, possibly off the tick
// thread, so every access goes through one mutex with the smallest critical
// section that keeps the record consistent.
type companionCache struct {
	mu sync.Mutex

	enabled bool
	inDuty  bool

	id           uint64
	hp           float64
	valid        bool
	lastObserved uint64
}

func newCompanionCache() companionCache {
	return companionCache{}
}

// setSystemState records whether the companion system is usable. Disabling
// it, or entering a duty where companions cannot act, force-invalidates the
// cached record so a stale reading cannot leak into targeting.
func (c *companionCache) setSystemState(enabled, inDuty bool) {
	c.mu.Lock()
	c.enabled = enabled
	c.inDuty = inDuty
	if !enabled || inDuty {
		c.valid = false
	}
	c.mu.Unlock()
}

// update stores one scan result. Repeated identical writes within the same
// tick are coalesced to keep lock churn down when the scan outpaces change.
func (c *companionCache) update(tick uint64, id uint64, hp float64, valid bool) {
	c.mu.Lock()
	if tick == c.lastObserved && id == c.id && hp == c.hp && valid == c.valid {
		c.mu.Unlock()
		return
	}
	c.id = id
	c.hp = hp
	c.valid = valid
	c.lastObserved = tick
	c.mu.Unlock()
}

// bestTarget returns the companion id when the system is usable, the cached
// reading is no older than the grace window, and HP sits strictly between 0
// and hpThreshold. Everything else yields 0.
func (c *companionCache) bestTarget(tick uint64, hpThreshold float64) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.enabled || c.inDuty || !c.valid {
		return 0
	}
	if tick < c.lastObserved || tick-c.lastObserved > companionGraceTicks {
		return 0
	}
	if c.hp <= 0 || c.hp >= hpThreshold {
		return 0
	}
	return c.id
}

func (c *companionCache) reset() {
	c.mu.Lock()
	c.enabled = false
	c.inDuty = false
	c.id = 0
	c.hp = 0
	c.valid = false
	c.lastObserved = 0
	c.mu.Unlock()
}
