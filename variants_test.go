package engine

import "testing"

func TestVariantTableForLevel(t *testing.T) {
	t.Parallel()

	table := NewVariantTable([]Variant{
		{MinLevel: 72, Action: 303},
		{MinLevel: 1, Action: 301},
		{MinLevel: 45, Action: 302},
	})

	cases := []struct {
		level uint8
		want  ActionID
	}{
		{1, 301},
		{44, 301},
		{45, 302},
		{71, 302},
		{72, 303},
		{90, 303},
	}
	for _, tc := range cases {
		if got := table.ForLevel(tc.level); got != tc.want {
			t.Fatalf("ForLevel(%d) = %d, want %d", tc.level, got, tc.want)
		}
	}
}

func TestVariantTableMonotonicInLevel(t *testing.T) {
	t.Parallel()

	// Tier action ids ascend with level, so the resolved id must never
	// decrease as the level climbs.
	table := NewVariantTable([]Variant{
		{MinLevel: 1, Action: 10},
		{MinLevel: 30, Action: 20},
		{MinLevel: 60, Action: 30},
		{MinLevel: 80, Action: 40},
	})

	prev := ActionID(0)
	for level := 0; level <= 100; level++ {
		got := table.ForLevel(uint8(level))
		if got < prev {
			t.Fatalf("resolution regressed at level %d: %d after %d", level, got, prev)
		}
		prev = got
	}
}

func TestVariantTableFallsBackToLowestTier(t *testing.T) {
	t.Parallel()

	table := NewVariantTable([]Variant{
		{MinLevel: 50, Action: 20},
		{MinLevel: 80, Action: 40},
	})
	if got := table.ForLevel(10); got != 20 {
		t.Fatalf("below every tier the lowest variant applies, got %d", got)
	}

	empty := NewVariantTable(nil)
	if got := empty.ForLevel(90); got != 0 {
		t.Fatalf("empty table yields zero, got %d", got)
	}
}

func TestVariantTableAsHandler(t *testing.T) {
	t.Parallel()

	clock := newTestClock()
	cache := NewStateCache(clock.Clock())
	cache.UpdateCoreState(24, 62, 0, 0, StateFlags{}, 0, 0)

	resolver := NewResolver()
	resolver.MustRegister(300, NewVariantTable([]Variant{
		{MinLevel: 1, Action: 301},
		{MinLevel: 45, Action: 302},
		{MinLevel: 72, Action: 303},
	}))

	if got := resolver.Resolve(300, cache, cache.TargetDebuffs(), cache.PlayerBuffs(), NewReadinessSet()); got != 302 {
		t.Fatalf("level 62 should resolve to the level-45 tier, got %d", got)
	}
}
