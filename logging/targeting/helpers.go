package targeting

import (
	"context"

	"combat-pilot/engine/logging"
)

const (
	// EventRosterReplaced is emitted when a party update materially changes
	// the roster.
	EventRosterReplaced logging.EventType = "targeting.roster_replaced"
	// EventCompanionInvalidated is emitted when the companion system state
	// forces the cached companion record invalid.
	EventCompanionInvalidated logging.EventType = "targeting.companion_invalidated"
)

// RosterReplacedPayload summarizes one accepted party update.
type RosterReplacedPayload struct {
	Count   int    `json:"count"`
	Version uint64 `json:"version"`
}

// RosterReplaced publishes a roster change event.
func RosterReplaced(ctx context.Context, pub logging.Publisher, tick uint64, payload RosterReplacedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventRosterReplaced,
		Tick:     tick,
		Actor:    logging.EntityRef{ID: "party", Kind: logging.EntityKindSystem},
		Severity: logging.SeverityDebug,
		Category: logging.CategoryTargeting,
		Payload:  payload,
	})
}

// CompanionInvalidatedPayload records why the companion record was dropped.
type CompanionInvalidatedPayload struct {
	Enabled bool `json:"enabled"`
	InDuty  bool `json:"inDuty"`
}

// CompanionInvalidated publishes a companion invalidation event.
func CompanionInvalidated(ctx context.Context, pub logging.Publisher, tick uint64, payload CompanionInvalidatedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventCompanionInvalidated,
		Tick:     tick,
		Actor:    logging.EntityRef{ID: "companion", Kind: logging.EntityKindCompanion},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryTargeting,
		Payload:  payload,
	})
}
