package engine

import "time"

const (
	// PartyCapacity bounds the fixed-slot party arrays. Excess roster
	// entries beyond the capacity are dropped, not errored.
	PartyCapacity = 8

	// weaveLockSeconds is the animation-lock budget reserved per off-GCD
	// action when deciding whether a weave still fits in the current GCD.
	weaveLockSeconds = 0.8

	// hpEpsilon is the threshold under which two HP readings are treated
	// as identical by the party no-op fast path and the priority ordering.
	hpEpsilon = 1e-4

	// companionGraceTicks is how many ticks a companion reading stays
	// usable after its last refresh. The companion scan runs on its own
	// cadence, so a reading may lag the decision tick by a frame or two.
	companionGraceTicks = 3
)

// UninitializedRemaining is the sentinel returned for effect and cooldown
// durations that are tracked but were never observed with a real value. It is
// distinct from 0, which means observed and confirmed inactive.
const UninitializedRemaining = float64(-1)

// Clock supplies the current time. Production code uses time.Now; tests pin a
// fixed instant.
type Clock func() time.Time
