package engine

// FillerPolicy names the actions and effects driving the healer filler
// priority chain. Values normally come from the action catalog; tests build
// them inline.
type FillerPolicy struct {
	// DoTAction applies or refreshes the tracked damage-over-time debuff.
	DoTAction ActionID
	// DoTDebuff is the debuff id the DoT leaves on the target.
	DoTDebuff EffectID
	// DoTRefreshWindow is the remaining-duration threshold, in seconds,
	// under which the DoT is refreshed early.
	DoTRefreshWindow float64
	// BurstAction is the off-GCD burst cooldown woven when ready.
	BurstAction ActionID
	// EmpowerBuff marks the empowerment window on the player.
	EmpowerBuff EffectID
	// EmpoweredAction is the filler variant used inside that window.
	EmpoweredAction ActionID
}

// FillerHandler is the reference priority chain for a healer-style filler.
// The order is fixed: DoT upkeep outranks everything, then a weavable burst
// cooldown, then the empowerment window, then the plain filler. A DoT refresh
// preempts an active empowerment window because the chain checks it first.
type FillerHandler struct {
	policy FillerPolicy
}

// NewFillerHandler builds the handler for one policy.
func NewFillerHandler(policy FillerPolicy) *FillerHandler {
	return &FillerHandler{policy: policy}
}

// Execute runs the chain. A never-observed DoT reads as the sentinel, which
// sits below any refresh window, so missing telemetry degrades to applying
// the DoT rather than skipping it.
func (h *FillerHandler) Execute(action ActionID, state *StateCache, targetEffects, playerEffects *EffectTracker, actionStates *ReadinessSet) ActionID {
	if state == nil || targetEffects == nil || playerEffects == nil {
		return action
	}
	now := state.Now()

	if targetEffects.Remaining(h.policy.DoTDebuff, now) <= h.policy.DoTRefreshWindow {
		return h.policy.DoTAction
	}

	if actionStates.Ready(h.policy.BurstAction) && state.CanWeave(1) {
		return h.policy.BurstAction
	}

	if playerEffects.Active(h.policy.EmpowerBuff, now) {
		return h.policy.EmpoweredAction
	}

	return action
}
