package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"combat-pilot/engine"
)

var (
	errZeroBaseID    = errors.New("catalog: base action id must not be zero")
	errNoVariants    = errors.New("catalog: entry must declare at least one variant")
	errZeroVariantID = errors.New("catalog: variant action id must not be zero")
)

// Load reads and validates a catalog file.
func Load(path string) (*FileDefinitions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates catalog JSON.
func Parse(data []byte) (*FileDefinitions, error) {
	var defs FileDefinitions
	if err := json.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}
	if err := defs.Validate(); err != nil {
		return nil, err
	}
	return &defs, nil
}

// Validate checks structural invariants: unique non-zero base ids and
// non-empty tier lists with non-zero action ids.
func (d *FileDefinitions) Validate() error {
	seen := make(map[uint32]struct{}, len(d.Entries))
	for _, entry := range d.Entries {
		if entry.BaseID == 0 {
			return errZeroBaseID
		}
		if _, dup := seen[entry.BaseID]; dup {
			return fmt.Errorf("catalog: duplicate base action id %d", entry.BaseID)
		}
		seen[entry.BaseID] = struct{}{}
		if len(entry.Variants) == 0 {
			return fmt.Errorf("%w (base %d)", errNoVariants, entry.BaseID)
		}
		for _, variant := range entry.Variants {
			if variant.ActionID == 0 {
				return fmt.Errorf("%w (base %d)", errZeroVariantID, entry.BaseID)
			}
		}
	}
	if d.Filler != nil {
		if d.Filler.BaseID == 0 || d.Filler.DotActionID == 0 || d.Filler.DotDebuffID == 0 {
			return errors.New("catalog: filler policy requires baseId, dotActionId, and dotDebuffId")
		}
	}
	return nil
}

// VariantTables materializes one engine table per entry, keyed by base id.
func (d *FileDefinitions) VariantTables() map[engine.ActionID]engine.VariantTable {
	tables := make(map[engine.ActionID]engine.VariantTable, len(d.Entries))
	for _, entry := range d.Entries {
		tiers := make([]engine.Variant, 0, len(entry.Variants))
		for _, variant := range entry.Variants {
			tiers = append(tiers, engine.Variant{
				MinLevel: variant.MinLevel,
				Action:   engine.ActionID(variant.ActionID),
			})
		}
		tables[engine.ActionID(entry.BaseID)] = engine.NewVariantTable(tiers)
	}
	return tables
}

// FillerPolicy converts the filler document, reporting whether one exists.
func (d *FileDefinitions) FillerPolicy() (engine.ActionID, engine.FillerPolicy, bool) {
	if d.Filler == nil {
		return 0, engine.FillerPolicy{}, false
	}
	f := d.Filler
	return engine.ActionID(f.BaseID), engine.FillerPolicy{
		DoTAction:        engine.ActionID(f.DotActionID),
		DoTDebuff:        engine.EffectID(f.DotDebuffID),
		DoTRefreshWindow: f.DotRefreshWindowSecs,
		BurstAction:      engine.ActionID(f.BurstActionID),
		EmpowerBuff:      engine.EffectID(f.EmpowerBuffID),
		EmpoweredAction:  engine.ActionID(f.EmpoweredActionID),
	}, true
}
