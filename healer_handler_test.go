package engine

import "testing"

const (
	testFiller    ActionID = 100
	testDoT       ActionID = 101
	testBurst     ActionID = 102
	testEmpowered ActionID = 103

	testDoTDebuff   EffectID = 201
	testEmpowerBuff EffectID = 202
)

func newFillerFixture(t *testing.T) (*Resolver, *StateCache, *ReadinessSet, *testClock) {
	t.Helper()
	clock := newTestClock()
	cache := NewStateCache(clock.Clock())
	cache.UpdateCoreState(24, 90, 5001, 129, StateFlags{InCombat: true, HasTarget: true, CanAct: true}, 0, 0)

	resolver := NewResolver()
	resolver.MustRegister(testFiller, NewFillerHandler(FillerPolicy{
		DoTAction:        testDoT,
		DoTDebuff:        testDoTDebuff,
		DoTRefreshWindow: 3.0,
		BurstAction:      testBurst,
		EmpowerBuff:      testEmpowerBuff,
		EmpoweredAction:  testEmpowered,
	}))
	return resolver, cache, NewReadinessSet(), clock
}

func resolveFiller(resolver *Resolver, cache *StateCache, actions *ReadinessSet) ActionID {
	return resolver.Resolve(testFiller, cache, cache.TargetDebuffs(), cache.PlayerBuffs(), actions)
}

func TestFillerChainDoTInactiveAlwaysRefreshes(t *testing.T) {
	t.Parallel()

	resolver, cache, actions, _ := newFillerFixture(t)

	// Burst ready, empowerment up, GCD idle: the DoT still wins.
	actions.Update(ActionReadiness{ID: testBurst, CooldownRemaining: 0, MaxCharges: 1, CurrentCharges: 1})
	cache.UpdateTimedEffects(KindBuff, map[EffectID]float64{testEmpowerBuff: 15})
	cache.UpdateTimedEffects(KindDebuff, map[EffectID]float64{testDoTDebuff: 0})

	if got := resolveFiller(resolver, cache, actions); got != testDoT {
		t.Fatalf("inactive DoT must resolve to the DoT action, got %d", got)
	}
}

func TestFillerChainNeverObservedDoTRefreshes(t *testing.T) {
	t.Parallel()

	resolver, cache, actions, _ := newFillerFixture(t)

	// No debuff telemetry at all: the sentinel sits below any window.
	if got := resolveFiller(resolver, cache, actions); got != testDoT {
		t.Fatalf("never-observed DoT must resolve to the DoT action, got %d", got)
	}
}

func TestFillerChainRefreshWindowPreemptsEmpowerment(t *testing.T) {
	t.Parallel()

	resolver, cache, actions, _ := newFillerFixture(t)

	cache.UpdateTimedEffects(KindDebuff, map[EffectID]float64{testDoTDebuff: 2.5})
	cache.UpdateTimedEffects(KindBuff, map[EffectID]float64{testEmpowerBuff: 15})

	if got := resolveFiller(resolver, cache, actions); got != testDoT {
		t.Fatalf("DoT inside the refresh window must preempt empowerment, got %d", got)
	}
}

func TestFillerChainWeavesBurstWhenReady(t *testing.T) {
	t.Parallel()

	resolver, cache, actions, _ := newFillerFixture(t)

	cache.UpdateTimedEffects(KindDebuff, map[EffectID]float64{testDoTDebuff: 10})
	actions.Update(ActionReadiness{ID: testBurst, CooldownRemaining: 0, MaxCharges: 1, CurrentCharges: 1})
	cache.UpdateScalarState(1.2, 0, 0)

	if got := resolveFiller(resolver, cache, actions); got != testBurst {
		t.Fatalf("ready burst with weave room must resolve to the burst, got %d", got)
	}

	// With the GCD idle a weave always fits.
	cache.UpdateScalarState(0, 0, 0)
	if got := resolveFiller(resolver, cache, actions); got != testBurst {
		t.Fatalf("ready burst on idle GCD must resolve to the burst, got %d", got)
	}

	// Too little GCD left to weave without clipping.
	cache.UpdateScalarState(0.3, 0, 0)
	if got := resolveFiller(resolver, cache, actions); got != testFiller {
		t.Fatalf("burst must not be woven into a clipping window, got %d", got)
	}
}

func TestFillerChainEmpoweredVariant(t *testing.T) {
	t.Parallel()

	resolver, cache, actions, _ := newFillerFixture(t)

	cache.UpdateTimedEffects(KindDebuff, map[EffectID]float64{testDoTDebuff: 10})
	actions.Update(ActionReadiness{ID: testBurst, CooldownRemaining: 90, MaxCharges: 1, CurrentCharges: 0})
	cache.UpdateTimedEffects(KindBuff, map[EffectID]float64{testEmpowerBuff: 15})

	if got := resolveFiller(resolver, cache, actions); got != testEmpowered {
		t.Fatalf("active empowerment must resolve to the empowered variant, got %d", got)
	}
}

func TestFillerChainPlainFallThrough(t *testing.T) {
	t.Parallel()

	resolver, cache, actions, _ := newFillerFixture(t)

	cache.UpdateTimedEffects(KindDebuff, map[EffectID]float64{testDoTDebuff: 10})
	actions.Update(ActionReadiness{ID: testBurst, CooldownRemaining: 90, MaxCharges: 1, CurrentCharges: 0})
	cache.UpdateTimedEffects(KindBuff, map[EffectID]float64{testEmpowerBuff: 0})

	if got := resolveFiller(resolver, cache, actions); got != testFiller {
		t.Fatalf("no higher-priority rule should leave the filler unchanged, got %d", got)
	}
}
