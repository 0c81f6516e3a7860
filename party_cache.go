package engine

import "time"

// MemberFlags is the packed status word for one party slot. It is a uint16
// rather than a byte so flag arrays cross the JSON feed as plain numbers.
type MemberFlags uint16

const (
	FlagAlive MemberFlags = 1 << iota
	FlagSelf
	FlagTank
	FlagValidTarget
	FlagValidAbilityTarget
)

// Has reports whether every bit in want is set.
func (f MemberFlags) Has(want MemberFlags) bool {
	return f&want == want
}

// PartyMember is the copied-out view of one slot, used by diagnostics and the
// hub snapshot; the hot path reads the arrays directly.
type PartyMember struct {
	ID    uint64      `json:"id"`
	HP    float64     `json:"hp"`
	Flags MemberFlags `json:"flags"`
}

// PartyCache keeps the party roster in fixed-capacity parallel arrays plus an
// index permutation holding the heal-priority order. The arrays are replaced
// wholesale once per tick by a single writer and read synchronously within
// the tick, so they carry no lock; the companion sub-cache is the exception
// and lives behind its own mutex because its scan runs at a different
// cadence. Sorting reorders only the permutation, never the arrays.
type PartyCache struct {
	clock Clock

	ids   [PartyCapacity]uint64
	hp    [PartyCapacity]float64
	flags [PartyCapacity]MemberFlags
	count int

	order      [PartyCapacity]int
	orderDirty bool

	rosterVersion uint64
	updatedAt     time.Time

	companion companionCache
}

// NewPartyCache builds an empty cache. A nil clock defaults to time.Now.
func NewPartyCache(clock Clock) *PartyCache {
	if clock == nil {
		clock = time.Now
	}
	return &PartyCache{clock: clock, companion: newCompanionCache()}
}

// UpdatePartyData replaces the roster snapshot. count is clamped to the fixed
// capacity and to the shortest input slice; overflow members are dropped.
// When the incoming snapshot is materially identical to the current one
// (same count, ids, and flags, every HP within epsilon) only the freshness
// stamp is refreshed; the permutation, its dirty latch, and the roster
// version are left untouched. The derived order depends only on fields the
// fast path proved unchanged, so it cannot go stale here.
// Returns whether the roster materially changed.
func (c *PartyCache) UpdatePartyData(ids []uint64, hp []float64, flags []MemberFlags, count int) bool {
	if count > PartyCapacity {
		count = PartyCapacity
	}
	if count > len(ids) {
		count = len(ids)
	}
	if count > len(hp) {
		count = len(hp)
	}
	if count > len(flags) {
		count = len(flags)
	}
	if count < 0 {
		count = 0
	}

	c.updatedAt = c.clock()

	if count == 0 {
		if c.count == 0 {
			return false
		}
		c.count = 0
		c.orderDirty = false
		c.rosterVersion++
		return true
	}

	if count == c.count && c.sameRoster(ids, hp, flags, count) {
		return false
	}

	copy(c.ids[:count], ids[:count])
	copy(c.hp[:count], hp[:count])
	copy(c.flags[:count], flags[:count])
	c.count = count
	for i := 0; i < count; i++ {
		c.order[i] = i
	}
	c.orderDirty = true
	c.rosterVersion++
	return true
}

func (c *PartyCache) sameRoster(ids []uint64, hp []float64, flags []MemberFlags, count int) bool {
	for i := 0; i < count; i++ {
		if c.ids[i] != ids[i] || c.flags[i] != flags[i] {
			return false
		}
		diff := c.hp[i] - hp[i]
		if diff < 0 {
			diff = -diff
		}
		if diff >= hpEpsilon {
			return false
		}
	}
	return true
}

// SortByPriority refreshes the heal-priority permutation if the roster
// changed since the last sort. Ordering: alive members before dead ones,
// alive members by ascending HP (most wounded first), dead members in stable
// input order. Insertion sort over the index array: the party is small and
// nearly sorted frame to frame, and it never allocates.
func (c *PartyCache) SortByPriority() {
	if !c.orderDirty {
		return
	}
	c.orderDirty = false
	for i := 1; i < c.count; i++ {
		key := c.order[i]
		j := i - 1
		for j >= 0 && c.priorityLess(key, c.order[j]) {
			c.order[j+1] = c.order[j]
			j--
		}
		c.order[j+1] = key
	}
}

// priorityLess reports whether slot a should be healed strictly before slot b.
func (c *PartyCache) priorityLess(a, b int) bool {
	aliveA := c.flags[a].Has(FlagAlive)
	aliveB := c.flags[b].Has(FlagAlive)
	if aliveA != aliveB {
		return aliveA
	}
	if !aliveA {
		return false
	}
	return c.hp[a] < c.hp[b]-hpEpsilon
}

// SortedOrder returns the current heal-priority permutation over the slot
// indices. The returned slice aliases internal storage and is only valid
// until the next update; callers must not mutate it.
func (c *PartyCache) SortedOrder() []int {
	return c.order[:c.count]
}

// LowestHpTarget scans for the most wounded member that carries both target
// validity flags and positive HP, returning its id or 0 when no member
// qualifies. The scan is independent of the sorted permutation. The first
// qualifying candidate is accepted regardless of its HP, so a fully healthy
// sole candidate is still returned.
func (c *PartyCache) LowestHpTarget() uint64 {
	const want = FlagValidTarget | FlagValidAbilityTarget
	var bestID uint64
	best := 0.0
	for i := 0; i < c.count; i++ {
		if !c.flags[i].Has(want) {
			continue
		}
		hp := c.hp[i]
		if hp <= 0 {
			continue
		}
		if bestID == 0 || hp < best {
			bestID = c.ids[i]
			best = hp
		}
	}
	return bestID
}

// MemberCount reports how many slots are populated.
func (c *PartyCache) MemberCount() int { return c.count }

// Member copies out slot i. The index is a programming contract: callers must
// stay below MemberCount.
func (c *PartyCache) Member(i int) PartyMember {
	return PartyMember{ID: c.ids[i], HP: c.hp[i], Flags: c.flags[i]}
}

// RosterVersion increments whenever UpdatePartyData accepts a material
// change; dependents use it as the party-changed signal.
func (c *PartyCache) RosterVersion() uint64 { return c.rosterVersion }

// TimeSinceLastUpdate reports how long ago the roster was last written.
func (c *PartyCache) TimeSinceLastUpdate() time.Duration {
	if c.updatedAt.IsZero() {
		return time.Duration(1<<63 - 1)
	}
	return c.clock().Sub(c.updatedAt)
}

// IsStale reports whether the roster has not been written within threshold.
func (c *PartyCache) IsStale(threshold time.Duration) bool {
	return c.TimeSinceLastUpdate() > threshold
}

// SetCompanionSystemState forwards to the companion sub-cache.
func (c *PartyCache) SetCompanionSystemState(enabled, inDuty bool) {
	c.companion.setSystemState(enabled, inDuty)
}

// UpdateCompanionData forwards one companion scan result to the sub-cache.
func (c *PartyCache) UpdateCompanionData(tick uint64, id uint64, hp float64, valid bool) {
	c.companion.update(tick, id, hp, valid)
}

// BestCompanionTarget returns the companion id when its cached reading is
// fresh within the grace window and its HP sits strictly between 0 and
// hpThreshold, else 0.
func (c *PartyCache) BestCompanionTarget(tick uint64, hpThreshold float64) uint64 {
	return c.companion.bestTarget(tick, hpThreshold)
}

// Reset empties the roster and companion state.
func (c *PartyCache) Reset() {
	c.count = 0
	c.orderDirty = false
	c.rosterVersion = 0
	c.updatedAt = time.Time{}
	c.companion.reset()
}
