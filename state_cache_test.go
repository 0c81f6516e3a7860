package engine

import (
	"testing"
	"time"
)

func TestStateCacheCoreAndScalarWritePaths(t *testing.T) {
	t.Parallel()

	clock := newTestClock()
	cache := NewStateCache(clock.Clock())

	flags := StateFlags{InCombat: true, HasTarget: true, CanAct: true}
	cache.UpdateCoreState(24, 90, 5001, 129, flags, 7, 3)

	clock.Advance(50 * time.Millisecond)
	cache.UpdateScalarState(1.9, 8400, 10000)

	snap := cache.Snapshot()
	if snap.JobID != 24 || snap.Level != 90 || snap.TargetID != 5001 || snap.ZoneID != 129 {
		t.Fatalf("core fields not applied: %+v", snap)
	}
	if snap.Flags != flags {
		t.Fatalf("flags not applied: %+v", snap.Flags)
	}
	if snap.GCDRemaining != 1.9 || snap.CurrentResource != 8400 || snap.MaxResource != 10000 {
		t.Fatalf("scalar fields not applied: %+v", snap)
	}
	if snap.Gauge1 != 7 || snap.Gauge2 != 3 {
		t.Fatalf("gauges not applied: %+v", snap)
	}
	if !snap.Timestamp.Equal(clock.now) {
		t.Fatalf("timestamp should follow the last write, got %v want %v", snap.Timestamp, clock.now)
	}
}

func TestStateCacheTimestampStrictlyIncreases(t *testing.T) {
	t.Parallel()

	clock := newTestClock()
	cache := NewStateCache(clock.Clock())

	cache.UpdateCoreState(24, 90, 0, 0, StateFlags{}, 0, 0)
	first := cache.Snapshot().Timestamp

	clock.Advance(16 * time.Millisecond)
	cache.UpdateCoreState(24, 90, 0, 0, StateFlags{}, 0, 0)
	second := cache.Snapshot().Timestamp

	if !second.After(first) {
		t.Fatalf("timestamp must increase across writes: %v then %v", first, second)
	}
}

func TestStateCacheStaleness(t *testing.T) {
	t.Parallel()

	clock := newTestClock()
	cache := NewStateCache(clock.Clock())

	if !cache.IsStale(0) {
		t.Fatal("never-written cache must be stale")
	}

	cache.UpdateScalarState(0, 0, 0)
	if cache.IsStale(100 * time.Millisecond) {
		t.Fatal("freshly written cache should not be stale")
	}

	clock.Advance(250 * time.Millisecond)
	if !cache.IsStale(100 * time.Millisecond) {
		t.Fatal("cache should be stale past the threshold")
	}
	if got := cache.TimeSinceLastUpdate(); got != 250*time.Millisecond {
		t.Fatalf("expected 250ms since update, got %v", got)
	}
}

func TestStateCacheCanWeave(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		gcd       float64
		oGCDCount int
		want      bool
	}{
		{"idle gcd always weaves", 0, 3, true},
		{"negative gcd always weaves", -0.1, 2, true},
		{"one weave fits", 1.2, 1, true},
		{"one weave exact budget", 0.8, 1, true},
		{"one weave too tight", 0.3, 1, false},
		{"double weave fits", 1.7, 2, true},
		{"double weave too tight", 1.2, 2, false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cache := NewStateCache(newTestClock().Clock())
			cache.UpdateScalarState(tc.gcd, 0, 0)
			if got := cache.CanWeave(tc.oGCDCount); got != tc.want {
				t.Fatalf("CanWeave(%d) with gcd=%v = %v, want %v", tc.oGCDCount, tc.gcd, got, tc.want)
			}
		})
	}
}

func TestStateCacheOGCDReadyRequiresCombatAndCanAct(t *testing.T) {
	t.Parallel()

	clock := newTestClock()
	cache := NewStateCache(clock.Clock())
	cache.UpdateTimedEffects(KindCooldown, map[EffectID]float64{40: 0})

	cache.UpdateCoreState(24, 90, 0, 0, StateFlags{InCombat: true, CanAct: true}, 0, 0)
	if !cache.IsOGCDReady(40) {
		t.Fatal("off-cooldown action should be oGCD-ready in combat")
	}

	cache.UpdateCoreState(24, 90, 0, 0, StateFlags{InCombat: false, CanAct: true}, 0, 0)
	if cache.IsOGCDReady(40) {
		t.Fatal("oGCD must not be ready out of combat")
	}

	cache.UpdateCoreState(24, 90, 0, 0, StateFlags{InCombat: true, CanAct: false}, 0, 0)
	if cache.IsOGCDReady(40) {
		t.Fatal("oGCD must not be ready while unable to act")
	}
}

func TestStateCacheUnknownIDsYieldDefaults(t *testing.T) {
	t.Parallel()

	cache := NewStateCache(newTestClock().Clock())

	if got := cache.Remaining(KindBuff, 999); got != UninitializedRemaining {
		t.Fatalf("unknown buff should yield sentinel, got %v", got)
	}
	if cache.HasEffect(999) || cache.HasDebuff(999) {
		t.Fatal("unknown ids must not read as active")
	}
	if cache.IsReady(999) {
		t.Fatal("never-observed cooldown must not read as ready")
	}
	if cache.IsTrackingInitialized(KindCooldown, 999) {
		t.Fatal("unknown id must not read as initialized")
	}
}

func TestStateCacheReset(t *testing.T) {
	t.Parallel()

	clock := newTestClock()
	cache := NewStateCache(clock.Clock())
	cache.UpdateCoreState(24, 90, 5001, 129, StateFlags{InCombat: true}, 1, 2)
	cache.UpdateTimedEffects(KindBuff, map[EffectID]float64{10: 12})

	cache.Reset()

	if snap := cache.Snapshot(); snap.JobID != 0 || snap.Level != 0 || !snap.Timestamp.IsZero() {
		t.Fatalf("reset should clear scalar state: %+v", snap)
	}
	if cache.HasEffect(10) {
		t.Fatal("reset should clear effect tracking")
	}
}
