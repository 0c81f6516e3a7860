package engine

// ActionReadiness mirrors the game's per-action recast row: seconds left on
// the recast timer plus the charge counters for charge-based actions.
type ActionReadiness struct {
	ID                ActionID `json:"id"`
	CooldownRemaining float64  `json:"cooldownRemaining"`
	MaxCharges        uint8    `json:"maxCharges"`
	CurrentCharges    uint8    `json:"currentCharges"`
}

// Ready reports whether the action can be issued right now.
func (a ActionReadiness) Ready() bool {
	return a.CooldownRemaining <= 0 && a.CurrentCharges > 0
}

// ReadinessSet holds the latest readiness rows keyed by action id. One writer
// refreshes it per tick; lookups for unknown ids return a zero row, which is
// never ready. Missing telemetry degrades to "don't press it" rather than
// erroring.
type ReadinessSet struct {
	rows map[ActionID]ActionReadiness
}

// NewReadinessSet returns an empty readiness set.
func NewReadinessSet() *ReadinessSet {
	return &ReadinessSet{rows: make(map[ActionID]ActionReadiness)}
}

// Update upserts one readiness row.
func (s *ReadinessSet) Update(row ActionReadiness) {
	if s.rows == nil {
		s.rows = make(map[ActionID]ActionReadiness)
	}
	s.rows[row.ID] = row
}

// Lookup returns the readiness row for id, or a zero row when unknown.
func (s *ReadinessSet) Lookup(id ActionID) ActionReadiness {
	if s == nil {
		return ActionReadiness{ID: id}
	}
	row, ok := s.rows[id]
	if !ok {
		return ActionReadiness{ID: id}
	}
	return row
}

// Ready reports whether the row for id exists and is ready.
func (s *ReadinessSet) Ready(id ActionID) bool {
	return s.Lookup(id).Ready()
}
