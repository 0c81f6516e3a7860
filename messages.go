package engine

// telemetryFrame is one JSON message pushed by the capture side. Sections are
// optional; a frame applies whichever it carries, in a fixed order, under the
// single-writer tick model.
type telemetryFrame struct {
	Ver  int    `json:"ver"`
	Type string `json:"type"`
	Tick uint64 `json:"t"`

	State     *coreStateSection    `json:"state,omitempty"`
	Scalars   *scalarSection       `json:"scalars,omitempty"`
	Buffs     map[EffectID]float64 `json:"buffs,omitempty"`
	Debuffs   map[EffectID]float64 `json:"debuffs,omitempty"`
	Cooldowns map[EffectID]float64 `json:"cooldowns,omitempty"`
	Actions   []ActionReadiness    `json:"actions,omitempty"`
	Party     *partySection        `json:"party,omitempty"`
	Companion *companionSection    `json:"companion,omitempty"`
	Resolve   []ActionID           `json:"resolve,omitempty"`
}

const (
	frameTypeTelemetry = "telemetry"
	frameTypeConfig    = "config"
	frameTypeResolve   = "resolve"
)

type coreStateSection struct {
	JobID    uint32     `json:"jobId"`
	Level    uint8      `json:"level"`
	TargetID uint64     `json:"targetId"`
	ZoneID   uint16     `json:"zoneId"`
	Flags    StateFlags `json:"flags"`
	Gauge1   uint32     `json:"gauge1"`
	Gauge2   uint32     `json:"gauge2"`
}

type scalarSection struct {
	GCDRemaining    float64 `json:"gcdRemaining"`
	CurrentResource int     `json:"currentResource"`
	MaxResource     int     `json:"maxResource"`
}

type partySection struct {
	IDs   []uint64      `json:"ids"`
	HP    []float64     `json:"hp"`
	Flags []MemberFlags `json:"flags"`
	Count int           `json:"count"`
}

type companionSection struct {
	Enabled bool    `json:"enabled"`
	InDuty  bool    `json:"inDuty"`
	ID      uint64  `json:"id"`
	HP      float64 `json:"hp"`
	Valid   bool    `json:"valid"`
}

// resolvedMessage answers a resolve frame with the element-wise results.
type resolvedMessage struct {
	Ver     int        `json:"ver"`
	Type    string     `json:"type"`
	Tick    uint64     `json:"t"`
	Actions []ActionID `json:"actions"`
}

const protocolVersion = 1
