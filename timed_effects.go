package engine

import "time"

// EffectID identifies a buff, debuff, or cooldown row.
type EffectID uint32

// EffectKind selects which expiry tracker an update or query addresses.
type EffectKind uint8

const (
	KindBuff EffectKind = iota
	KindDebuff
	KindCooldown
)

// EffectTracker records absolute expiry instants for timed effects observed
// from telemetry. Three states are distinguishable per id: never tracked
// (absent), tracked but never observed with a real duration (zero-time
// sentinel), and tracked with a concrete expiry that may already be in the
// past. The last two matter to readers: a past expiry is a confirmed "was
// active, now isn't", the sentinel is "no data yet".
type EffectTracker struct {
	expiries map[EffectID]time.Time
}

func newEffectTracker() EffectTracker {
	return EffectTracker{expiries: make(map[EffectID]time.Time)}
}

// Update merges one polling pass into the tracker. Every id present in obs is
// stored as now+remaining, or as the sentinel when the observation itself is
// the sentinel. Every previously tracked id absent from obs is marked expired
// at now, unless it already carries the sentinel. Readers can therefore tell
// "never polled" apart from "polled and currently inactive".
func (t *EffectTracker) Update(obs map[EffectID]float64, now time.Time) {
	if t.expiries == nil {
		t.expiries = make(map[EffectID]time.Time, len(obs))
	}
	for id, remaining := range obs {
		if remaining < 0 {
			t.expiries[id] = time.Time{}
			continue
		}
		t.expiries[id] = now.Add(time.Duration(remaining * float64(time.Second)))
	}
	for id, expiry := range t.expiries {
		if _, observed := obs[id]; observed {
			continue
		}
		if expiry.IsZero() {
			continue
		}
		if expiry.After(now) {
			t.expiries[id] = now
		}
	}
}

// Remaining reports the seconds left on id, clamped at 0 once expired.
// Unknown or sentinel-tracked ids yield UninitializedRemaining.
func (t *EffectTracker) Remaining(id EffectID, now time.Time) float64 {
	expiry, ok := t.expiries[id]
	if !ok || expiry.IsZero() {
		return UninitializedRemaining
	}
	remaining := expiry.Sub(now).Seconds()
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Active reports whether id has a concrete expiry still in the future.
func (t *EffectTracker) Active(id EffectID, now time.Time) bool {
	return t.Remaining(id, now) > 0
}

// Initialized reports whether id has ever been observed with a real duration.
// Tracked-but-expired ids stay initialized; sentinel ids do not.
func (t *EffectTracker) Initialized(id EffectID) bool {
	expiry, ok := t.expiries[id]
	return ok && !expiry.IsZero()
}

// Len reports how many ids the tracker currently carries.
func (t *EffectTracker) Len() int {
	return len(t.expiries)
}

// Reset drops every tracked id.
func (t *EffectTracker) Reset() {
	for id := range t.expiries {
		delete(t.expiries, id)
	}
}
