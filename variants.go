package engine

import "sort"

// Variant is one level tier of a base action.
type Variant struct {
	MinLevel uint8
	Action   ActionID
}

// VariantTable maps a character level to the highest unlocked tier of an
// action line. Tiers are kept sorted ascending by MinLevel; lookup scans from
// the highest tier downward and the lowest tier doubles as the fallback, so
// the function is total and monotonic in level.
type VariantTable struct {
	tiers []Variant
}

// NewVariantTable copies and sorts the tiers. An empty table is legal; its
// lookups return the requested fallback of zero.
func NewVariantTable(tiers []Variant) VariantTable {
	sorted := append([]Variant(nil), tiers...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MinLevel < sorted[j].MinLevel
	})
	return VariantTable{tiers: sorted}
}

// ForLevel returns the action of the highest tier whose MinLevel is at or
// below level, or the lowest tier when none qualifies.
func (t VariantTable) ForLevel(level uint8) ActionID {
	if len(t.tiers) == 0 {
		return 0
	}
	for i := len(t.tiers) - 1; i >= 0; i-- {
		if t.tiers[i].MinLevel <= level {
			return t.tiers[i].Action
		}
	}
	return t.tiers[0].Action
}

// Len reports how many tiers the table holds.
func (t VariantTable) Len() int { return len(t.tiers) }

// Execute makes a VariantTable usable directly as a resolver Handler: the
// requested base action resolves to its highest unlocked tier. A nil state
// passes the action through unchanged.
func (t VariantTable) Execute(action ActionID, state *StateCache, _, _ *EffectTracker, _ *ReadinessSet) ActionID {
	if state == nil || len(t.tiers) == 0 {
		return action
	}
	return t.ForLevel(state.Level())
}
