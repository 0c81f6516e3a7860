package engine

import "time"

// StateFlags carries the per-tick boolean facts about the local actor.
type StateFlags struct {
	InCombat  bool `json:"inCombat"`
	HasTarget bool `json:"hasTarget"`
	InDuty    bool `json:"inDuty"`
	CanAct    bool `json:"canAct"`
	IsMoving  bool `json:"isMoving"`
}

// StateSnapshot is the full cache contents at one instant, exposed for
// diagnostics endpoints and display consumers.
type StateSnapshot struct {
	JobID           uint32     `json:"jobId"`
	Level           uint8      `json:"level"`
	TargetID        uint64     `json:"targetId"`
	ZoneID          uint16     `json:"zoneId"`
	Flags           StateFlags `json:"flags"`
	GCDRemaining    float64    `json:"gcdRemaining"`
	CurrentResource int        `json:"currentResource"`
	MaxResource     int        `json:"maxResource"`
	Gauge1          uint32     `json:"gauge1"`
	Gauge2          uint32     `json:"gauge2"`
	Timestamp       time.Time  `json:"timestamp"`
}

// StateCache is the frame-synchronized view of the local actor: job, level,
// target, zone, the flag set, resource pools, and the buff/debuff/cooldown
// expiry trackers. One writer overwrites it wholesale each tick and every
// reader runs synchronously within that same tick, so the struct carries no
// lock. Readers never fail: unknown ids resolve to zero or the sentinel, and
// staleness is surfaced through explicit queries rather than errors.
type StateCache struct {
	clock Clock

	jobID    uint32
	level    uint8
	targetID uint64
	zoneID   uint16
	flags    StateFlags

	gcdRemaining    float64
	currentResource int
	maxResource     int
	gauge1          uint32
	gauge2          uint32

	updatedAt time.Time

	buffs     EffectTracker
	debuffs   EffectTracker
	cooldowns EffectTracker
}

// NewStateCache builds an empty cache. A nil clock defaults to time.Now.
func NewStateCache(clock Clock) *StateCache {
	if clock == nil {
		clock = time.Now
	}
	return &StateCache{
		clock:     clock,
		buffs:     newEffectTracker(),
		debuffs:   newEffectTracker(),
		cooldowns: newEffectTracker(),
	}
}

// UpdateCoreState overwrites the core actor fields and stamps a fresh
// timestamp. The caller supplies already-sane data; nothing is validated.
func (c *StateCache) UpdateCoreState(jobID uint32, level uint8, targetID uint64, zoneID uint16, flags StateFlags, gauge1, gauge2 uint32) {
	c.jobID = jobID
	c.level = level
	c.targetID = targetID
	c.zoneID = zoneID
	c.flags = flags
	c.gauge1 = gauge1
	c.gauge2 = gauge2
	c.updatedAt = c.clock()
}

// UpdateScalarState overwrites the fast-cadence scalars. It is a separate
// write path because the GCD and resource pool refresh more often than the
// core identity fields.
func (c *StateCache) UpdateScalarState(gcdRemaining float64, currentResource, maxResource int) {
	c.gcdRemaining = gcdRemaining
	c.currentResource = currentResource
	c.maxResource = maxResource
	c.updatedAt = c.clock()
}

// UpdateTimedEffects merges one polling pass for the given kind. Ids absent
// from obs but previously tracked are marked expired-now, so readers can tell
// "never polled" from "polled and inactive".
func (c *StateCache) UpdateTimedEffects(kind EffectKind, obs map[EffectID]float64) {
	c.tracker(kind).Update(obs, c.clock())
}

func (c *StateCache) tracker(kind EffectKind) *EffectTracker {
	switch kind {
	case KindDebuff:
		return &c.debuffs
	case KindCooldown:
		return &c.cooldowns
	default:
		return &c.buffs
	}
}

// Remaining reports seconds left on the tracked id, 0 once expired, or the
// sentinel when never observed.
func (c *StateCache) Remaining(kind EffectKind, id EffectID) float64 {
	return c.tracker(kind).Remaining(id, c.clock())
}

// HasEffect reports whether the player buff id is currently active.
func (c *StateCache) HasEffect(id EffectID) bool {
	return c.buffs.Active(id, c.clock())
}

// HasDebuff reports whether the tracked target debuff id is currently active.
func (c *StateCache) HasDebuff(id EffectID) bool {
	return c.debuffs.Active(id, c.clock())
}

// IsReady reports whether the tracked cooldown id has finished. A cooldown
// that was never observed is not ready; the decision path must not claim an
// action it has no data for.
func (c *StateCache) IsReady(id EffectID) bool {
	return c.cooldowns.Remaining(id, c.clock()) == 0
}

// IsTrackingInitialized reports whether id was ever observed with a real
// duration for the given kind.
func (c *StateCache) IsTrackingInitialized(kind EffectKind, id EffectID) bool {
	return c.tracker(kind).Initialized(id)
}

// IsOGCDReady gates a cooldown check behind the combat state: off-GCD actions
// are only worth suggesting while in combat and able to act.
func (c *StateCache) IsOGCDReady(id EffectID) bool {
	return c.flags.InCombat && c.flags.CanAct && c.IsReady(id)
}

// CanWeave reports whether oGCDCount off-GCD actions still fit before the GCD
// comes back. With the GCD idle any number fits; otherwise each weave reserves
// a fixed animation-lock budget.
func (c *StateCache) CanWeave(oGCDCount int) bool {
	if c.gcdRemaining <= 0 {
		return true
	}
	return c.gcdRemaining >= weaveLockSeconds*float64(oGCDCount)
}

// TimeSinceLastUpdate reports how long ago either write path last ran.
func (c *StateCache) TimeSinceLastUpdate() time.Duration {
	if c.updatedAt.IsZero() {
		return time.Duration(1<<63 - 1)
	}
	return c.clock().Sub(c.updatedAt)
}

// IsStale reports whether the cache has not been written within threshold.
// Dependents use it to refuse decisions on outdated telemetry.
func (c *StateCache) IsStale(threshold time.Duration) bool {
	return c.TimeSinceLastUpdate() > threshold
}

// Now exposes the cache clock so handlers sharing the cache evaluate effect
// durations against the same instant.
func (c *StateCache) Now() time.Time { return c.clock() }

// Level returns the actor level from the last core update.
func (c *StateCache) Level() uint8 { return c.level }

// JobID returns the actor job from the last core update.
func (c *StateCache) JobID() uint32 { return c.jobID }

// TargetID returns the current hard target, 0 when none.
func (c *StateCache) TargetID() uint64 { return c.targetID }

// ZoneID returns the current zone from the last core update.
func (c *StateCache) ZoneID() uint16 { return c.zoneID }

// Flags returns the flag set from the last core update.
func (c *StateCache) Flags() StateFlags { return c.flags }

// GCDRemaining returns seconds left on the shared cooldown.
func (c *StateCache) GCDRemaining() float64 { return c.gcdRemaining }

// Gauges returns the two opaque job gauge words.
func (c *StateCache) Gauges() (uint32, uint32) { return c.gauge1, c.gauge2 }

// Resource returns the current and maximum primary resource pool.
func (c *StateCache) Resource() (current, max int) {
	return c.currentResource, c.maxResource
}

// PlayerBuffs exposes the buff tracker for resolver calls.
func (c *StateCache) PlayerBuffs() *EffectTracker { return &c.buffs }

// TargetDebuffs exposes the target debuff tracker for resolver calls.
func (c *StateCache) TargetDebuffs() *EffectTracker { return &c.debuffs }

// Cooldowns exposes the cooldown tracker for resolver calls.
func (c *StateCache) Cooldowns() *EffectTracker { return &c.cooldowns }

// Snapshot copies the scalar state for diagnostics and display.
func (c *StateCache) Snapshot() StateSnapshot {
	return StateSnapshot{
		JobID:           c.jobID,
		Level:           c.level,
		TargetID:        c.targetID,
		ZoneID:          c.zoneID,
		Flags:           c.flags,
		GCDRemaining:    c.gcdRemaining,
		CurrentResource: c.currentResource,
		MaxResource:     c.maxResource,
		Gauge1:          c.gauge1,
		Gauge2:          c.gauge2,
		Timestamp:       c.updatedAt,
	}
}

// Reset returns the cache to its initial empty state.
func (c *StateCache) Reset() {
	*c = StateCache{
		clock:     c.clock,
		buffs:     newEffectTracker(),
		debuffs:   newEffectTracker(),
		cooldowns: newEffectTracker(),
	}
}
