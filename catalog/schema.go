package catalog

// VariantDocument is one level tier of an action line as authored on disk.
type VariantDocument struct {
	MinLevel uint8  `json:"minLevel" jsonschema:"title=Minimum level,description=Lowest character level at which this tier is used"`
	ActionID uint32 `json:"actionId" jsonschema:"title=Action id,minimum=1,description=Concrete action issued for this tier"`
}

// EntryDocument describes the variant tiers for one base action.
type EntryDocument struct {
	BaseID   uint32            `json:"baseId" jsonschema:"title=Base action id,minimum=1,description=Requested action the tiers replace"`
	Variants []VariantDocument `json:"variants" jsonschema:"title=Level tiers,description=Tiers scanned highest level first; the lowest tier is the fallback"`
}

// FillerDocument names the actions and effects of the healer filler chain.
type FillerDocument struct {
	BaseID               uint32  `json:"baseId" jsonschema:"minimum=1,description=Filler action the handler is registered under"`
	DotActionID          uint32  `json:"dotActionId" jsonschema:"minimum=1,description=Action that applies the tracked DoT"`
	DotDebuffID          uint32  `json:"dotDebuffId" jsonschema:"minimum=1,description=Debuff id the DoT leaves on the target"`
	DotRefreshWindowSecs float64 `json:"dotRefreshWindowSecs" jsonschema:"minimum=0,description=Remaining seconds under which the DoT is refreshed early"`
	BurstActionID        uint32  `json:"burstActionId" jsonschema:"description=Off-GCD burst cooldown woven when ready"`
	EmpowerBuffID        uint32  `json:"empowerBuffId" jsonschema:"description=Player buff marking the empowerment window"`
	EmpoweredActionID    uint32  `json:"empoweredActionId" jsonschema:"description=Filler variant used inside the empowerment window"`
}

// FileDefinitions is the contents of one catalog file. The schema generator
// reflects over this type to produce the designer-facing JSON schema.
type FileDefinitions struct {
	Entries []EntryDocument `json:"entries" jsonschema:"title=Action variant entries"`
	Filler  *FillerDocument `json:"filler,omitempty" jsonschema:"title=Healer filler policy"`
}
