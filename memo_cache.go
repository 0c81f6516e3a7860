package engine

import "sync/atomic"

// ConfigEpoch is the shared generation counter behind every MemoCache built
// from it. Bumping it once invalidates all of their entries in O(1); the
// counter only ever increases. It is the single piece of cross-instance
// shared mutable state in the engine, so the increment is atomic. The epoch
// is an explicit object handed to each cache at construction rather than a
// package global; the app owns one per process.
type ConfigEpoch struct {
	n atomic.Uint64
}

// NewConfigEpoch starts a counter at generation zero.
func NewConfigEpoch() *ConfigEpoch {
	return &ConfigEpoch{}
}

// Bump advances the generation and returns the new value. Call it once per
// logical configuration change; batch multiple edits into a single bump.
func (e *ConfigEpoch) Bump() uint64 {
	return e.n.Add(1)
}

// Current returns the live generation.
func (e *ConfigEpoch) Current() uint64 {
	return e.n.Load()
}

type memoEntry struct {
	value      ActionID
	generation uint64
}

// MemoCache memoizes resolution results. Each entry is stamped with the
// epoch's generation at insertion; a read hits only while the stamp still
// matches the live generation, so a bump shadows every entry at once without
// touching storage (lazy invalidation). The map itself follows the
// single-writer-per-tick model; only the epoch is shared. A bump racing a
// read resolves to a safe miss: the entry and its stamp are read together,
// then compared against one load of the counter.
type MemoCache struct {
	epoch   *ConfigEpoch
	entries map[ActionID]memoEntry
}

// NewMemoCache builds a cache over the given epoch. A nil epoch gets a
// private one, which still gives correct single-instance semantics.
func NewMemoCache(epoch *ConfigEpoch) *MemoCache {
	if epoch == nil {
		epoch = NewConfigEpoch()
	}
	return &MemoCache{
		epoch:   epoch,
		entries: make(map[ActionID]memoEntry),
	}
}

// Put upserts the resolution for key, stamped with the current generation.
func (c *MemoCache) Put(key, value ActionID) {
	c.entries[key] = memoEntry{value: value, generation: c.epoch.Current()}
}

// TryGet returns the cached resolution for key. A missing entry and an entry
// stamped with an older generation are indistinguishable: both miss.
func (c *MemoCache) TryGet(key ActionID) (ActionID, bool) {
	entry, ok := c.entries[key]
	if !ok || entry.generation != c.epoch.Current() {
		return 0, false
	}
	return entry.value, true
}

// Clear wipes this instance's storage. Bumping invalidates logically across
// all instances; Clear reclaims memory for one.
func (c *MemoCache) Clear() {
	for key := range c.entries {
		delete(c.entries, key)
	}
}

// Len reports how many entries are physically stored, live or shadowed.
func (c *MemoCache) Len() int {
	return len(c.entries)
}

// Resolve answers from the cache when possible, otherwise consults the
// resolver and memoizes the result.
func (c *MemoCache) Resolve(resolver *Resolver, action ActionID, state *StateCache, targetEffects, playerEffects *EffectTracker, actionStates *ReadinessSet) ActionID {
	if cached, ok := c.TryGet(action); ok {
		return cached
	}
	resolved := resolver.Resolve(action, state, targetEffects, playerEffects, actionStates)
	c.Put(action, resolved)
	return resolved
}
