package resolution

import (
	"context"

	"combat-pilot/engine/logging"
)

const (
	// EventHandlerRegistered is emitted once per handler at startup.
	EventHandlerRegistered logging.EventType = "resolution.handler_registered"
	// EventEpochBumped is emitted when a configuration change invalidates
	// the memoized resolutions.
	EventEpochBumped logging.EventType = "resolution.epoch_bumped"
	// EventResolutionServed is emitted once per answered resolve request,
	// not per resolved action.
	EventResolutionServed logging.EventType = "resolution.served"
)

// HandlerRegisteredPayload records one dispatch-table binding.
type HandlerRegisteredPayload struct {
	ActionID uint32 `json:"actionId"`
	Handler  string `json:"handler,omitempty"`
}

// HandlerRegistered publishes a handler registration event.
func HandlerRegistered(ctx context.Context, pub logging.Publisher, payload HandlerRegisteredPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventHandlerRegistered,
		Actor:    logging.EntityRef{ID: "resolver", Kind: logging.EntityKindSystem},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryResolution,
		Payload:  payload,
	})
}

// ResolutionServedPayload records the size of one answered batch.
type ResolutionServedPayload struct {
	Requested int `json:"requested"`
	Resolved  int `json:"resolved"`
}

// ResolutionServed publishes a served-batch event.
func ResolutionServed(ctx context.Context, pub logging.Publisher, tick uint64, payload ResolutionServedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventResolutionServed,
		Tick:     tick,
		Actor:    logging.EntityRef{ID: "resolver", Kind: logging.EntityKindSystem},
		Severity: logging.SeverityDebug,
		Category: logging.CategoryResolution,
		Payload:  payload,
	})
}

// EpochBumpedPayload records the generation reached by a bump.
type EpochBumpedPayload struct {
	Generation uint64 `json:"generation"`
}

// EpochBumped publishes a memo-invalidation event.
func EpochBumped(ctx context.Context, pub logging.Publisher, tick uint64, payload EpochBumpedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventEpochBumped,
		Tick:     tick,
		Actor:    logging.EntityRef{ID: "config", Kind: logging.EntityKindSystem},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryResolution,
		Payload:  payload,
	})
}
