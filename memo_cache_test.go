package engine

import "testing"

func TestMemoCachePutGet(t *testing.T) {
	t.Parallel()

	cache := NewMemoCache(NewConfigEpoch())
	cache.Put(100, 103)

	if got, ok := cache.TryGet(100); !ok || got != 103 {
		t.Fatalf("expected hit 103, got %d ok=%v", got, ok)
	}
	if _, ok := cache.TryGet(200); ok {
		t.Fatal("unknown key must miss")
	}
}

func TestMemoCacheBumpInvalidatesAllInstances(t *testing.T) {
	t.Parallel()

	epoch := NewConfigEpoch()
	a := NewMemoCache(epoch)
	b := NewMemoCache(epoch)
	a.Put(100, 103)
	b.Put(200, 205)

	epoch.Bump()

	if _, ok := a.TryGet(100); ok {
		t.Fatal("bump must shadow every entry in instance a")
	}
	if _, ok := b.TryGet(200); ok {
		t.Fatal("bump must shadow every entry in instance b")
	}
	if a.Len() != 1 || b.Len() != 1 {
		t.Fatal("bump is lazy: old storage still physically holds the values")
	}

	a.Put(100, 104)
	if got, ok := a.TryGet(100); !ok || got != 104 {
		t.Fatalf("re-inserted key must hit with the new value, got %d ok=%v", got, ok)
	}
}

func TestMemoCacheClearReclaimsStorage(t *testing.T) {
	t.Parallel()

	cache := NewMemoCache(NewConfigEpoch())
	cache.Put(1, 2)
	cache.Put(3, 4)

	cache.Clear()
	if cache.Len() != 0 {
		t.Fatalf("clear must wipe storage, %d entries left", cache.Len())
	}
	if _, ok := cache.TryGet(1); ok {
		t.Fatal("cleared key must miss")
	}
}

func TestConfigEpochOnlyIncreases(t *testing.T) {
	t.Parallel()

	epoch := NewConfigEpoch()
	prev := epoch.Current()
	for i := 0; i < 10; i++ {
		next := epoch.Bump()
		if next <= prev {
			t.Fatalf("generation must strictly increase: %d then %d", prev, next)
		}
		prev = next
	}
}

func TestMemoCacheResolveMemoizes(t *testing.T) {
	t.Parallel()

	epoch := NewConfigEpoch()
	cache := NewMemoCache(epoch)
	resolver := NewResolver()

	calls := 0
	resolver.MustRegister(100, HandlerFunc(func(ActionID, *StateCache, *EffectTracker, *EffectTracker, *ReadinessSet) ActionID {
		calls++
		return 103
	}))

	for i := 0; i < 3; i++ {
		if got := cache.Resolve(resolver, 100, nil, nil, nil, nil); got != 103 {
			t.Fatalf("expected 103, got %d", got)
		}
	}
	if calls != 1 {
		t.Fatalf("resolver should run once before the bump, ran %d times", calls)
	}

	epoch.Bump()
	if got := cache.Resolve(resolver, 100, nil, nil, nil, nil); got != 103 {
		t.Fatalf("expected 103 after bump, got %d", got)
	}
	if calls != 2 {
		t.Fatalf("bump should force one re-resolution, ran %d times", calls)
	}
}
