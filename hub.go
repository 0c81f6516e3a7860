package engine

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"combat-pilot/engine/logging"
	loggingresolution "combat-pilot/engine/logging/resolution"
	loggingtargeting "combat-pilot/engine/logging/targeting"
)

const writeWait = 10 * time.Second

// Hub is the consuming edge of the telemetry feed. It owns the engine caches
// and applies every incoming frame to them in arrival order, which realizes
// the single-writer-per-tick model: one frame, one writer, then readers run.
// Resolve requests answer on the same connection through the memoized
// resolution cache, which is cleared whenever a telemetry frame opens a new
// state window; configuration-change frames bump the shared epoch exactly
// once each.
type Hub struct {
	mu          sync.Mutex
	subscribers map[uint64]*subscriber
	nextID      atomic.Uint64

	state   *StateCache
	party   *PartyCache
	actions *ReadinessSet

	resolver *Resolver
	memo     *MemoCache
	epoch    *ConfigEpoch

	publisher logging.Publisher
	telemetry *ingestCounters
	clock     Clock

	currentTick atomic.Uint64

	resolveOut [64]ActionID
}

type subscriber struct {
	id   uint64
	conn *websocket.Conn
	mu   sync.Mutex
}

// HubConfig collects the collaborators a hub needs.
type HubConfig struct {
	State     *StateCache
	Party     *PartyCache
	Actions   *ReadinessSet
	Resolver  *Resolver
	Memo      *MemoCache
	Epoch     *ConfigEpoch
	Publisher logging.Publisher
	Clock     Clock
}

// NewHub wires a hub over the given caches. Missing collaborators get
// working defaults so tests can construct partial hubs.
func NewHub(cfg HubConfig) *Hub {
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	state := cfg.State
	if state == nil {
		state = NewStateCache(clock)
	}
	party := cfg.Party
	if party == nil {
		party = NewPartyCache(clock)
	}
	actions := cfg.Actions
	if actions == nil {
		actions = NewReadinessSet()
	}
	resolver := cfg.Resolver
	if resolver == nil {
		resolver = NewResolver()
	}
	epoch := cfg.Epoch
	if epoch == nil {
		epoch = NewConfigEpoch()
	}
	memo := cfg.Memo
	if memo == nil {
		memo = NewMemoCache(epoch)
	}
	publisher := cfg.Publisher
	if publisher == nil {
		publisher = logging.NopPublisher()
	}
	return &Hub{
		subscribers: make(map[uint64]*subscriber),
		state:       state,
		party:       party,
		actions:     actions,
		resolver:    resolver,
		memo:        memo,
		epoch:       epoch,
		publisher:   publisher,
		telemetry:   newIngestCounters(),
		clock:       clock,
	}
}

// State exposes the state cache for read consumers.
func (h *Hub) State() *StateCache { return h.state }

// Party exposes the party cache for read consumers.
func (h *Hub) Party() *PartyCache { return h.party }

// Actions exposes the readiness set for read consumers.
func (h *Hub) Actions() *ReadinessSet { return h.actions }

// Epoch exposes the shared memo invalidation counter.
func (h *Hub) Epoch() *ConfigEpoch { return h.epoch }

// CurrentTick reports the tick of the last applied frame.
func (h *Hub) CurrentTick() uint64 { return h.currentTick.Load() }

// TelemetrySnapshot reports the feed counters.
func (h *Hub) TelemetrySnapshot() IngestSnapshot { return h.telemetry.Snapshot() }

// Subscribe registers a feed connection and starts its read loop. The hub
// owns the connection from this point on.
func (h *Hub) Subscribe(conn *websocket.Conn) {
	sub := &subscriber{id: h.nextID.Add(1), conn: conn}
	h.mu.Lock()
	h.subscribers[sub.id] = sub
	h.mu.Unlock()
	go h.readLoop(sub)
}

func (h *Hub) readLoop(sub *subscriber) {
	defer h.drop(sub)
	for {
		_, data, err := sub.conn.ReadMessage()
		if err != nil {
			return
		}
		var frame telemetryFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			h.telemetry.RecordRejected()
			log.Printf("rejecting malformed frame from feed %d: %v", sub.id, err)
			continue
		}
		h.telemetry.RecordFrame(len(data), frame.Tick)
		if reply := h.ApplyFrame(&frame); reply != nil {
			h.send(sub, reply)
		}
	}
}

func (h *Hub) drop(sub *subscriber) {
	h.mu.Lock()
	delete(h.subscribers, sub.id)
	h.mu.Unlock()
	sub.conn.Close()
}

func (h *Hub) send(sub *subscriber, msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("failed to marshal reply for feed %d: %v", sub.id, err)
		return
	}
	sub.mu.Lock()
	sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
	err = sub.conn.WriteMessage(websocket.TextMessage, data)
	sub.mu.Unlock()
	if err != nil {
		log.Printf("failed to reply to feed %d: %v", sub.id, err)
	}
}

// ApplyFrame routes one decoded frame into the caches. Frames are applied
// under the hub mutex so concurrent feeds still present a single writer to
// the caches. The returned message, if any, is the reply owed to the sender.
func (h *Hub) ApplyFrame(frame *telemetryFrame) *resolvedMessage {
	if frame == nil {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	start := h.clock()
	defer func() {
		h.telemetry.RecordApplyDuration(h.clock().Sub(start))
	}()
	if frame.Tick > h.currentTick.Load() {
		h.currentTick.Store(frame.Tick)
	}

	switch frame.Type {
	case frameTypeConfig:
		h.applyConfig(frame)
		return nil
	case frameTypeResolve:
		return h.applyResolve(frame)
	default:
		h.applyTelemetry(frame)
		return nil
	}
}

func (h *Hub) applyTelemetry(frame *telemetryFrame) {
	// A new state window invalidates every resolution memoized under the
	// old one.
	h.memo.Clear()
	if frame.State != nil {
		s := frame.State
		h.state.UpdateCoreState(s.JobID, s.Level, s.TargetID, s.ZoneID, s.Flags, s.Gauge1, s.Gauge2)
	}
	if frame.Scalars != nil {
		s := frame.Scalars
		h.state.UpdateScalarState(s.GCDRemaining, s.CurrentResource, s.MaxResource)
	}
	if frame.Buffs != nil {
		h.state.UpdateTimedEffects(KindBuff, frame.Buffs)
	}
	if frame.Debuffs != nil {
		h.state.UpdateTimedEffects(KindDebuff, frame.Debuffs)
	}
	if frame.Cooldowns != nil {
		h.state.UpdateTimedEffects(KindCooldown, frame.Cooldowns)
	}
	for _, row := range frame.Actions {
		h.actions.Update(row)
	}
	if frame.Party != nil {
		p := frame.Party
		if h.party.UpdatePartyData(p.IDs, p.HP, p.Flags, p.Count) {
			h.party.SortByPriority()
			loggingtargeting.RosterReplaced(context.Background(), h.publisher, frame.Tick, loggingtargeting.RosterReplacedPayload{
				Count:   h.party.MemberCount(),
				Version: h.party.RosterVersion(),
			})
		}
	}
	if frame.Companion != nil {
		c := frame.Companion
		h.party.SetCompanionSystemState(c.Enabled, c.InDuty)
		if !c.Enabled || c.InDuty {
			loggingtargeting.CompanionInvalidated(context.Background(), h.publisher, frame.Tick, loggingtargeting.CompanionInvalidatedPayload{
				Enabled: c.Enabled,
				InDuty:  c.InDuty,
			})
		} else {
			h.party.UpdateCompanionData(frame.Tick, c.ID, c.HP, c.Valid)
		}
	}
}

func (h *Hub) applyConfig(frame *telemetryFrame) {
	generation := h.epoch.Bump()
	h.telemetry.RecordEpochBump()
	loggingresolution.EpochBumped(context.Background(), h.publisher, frame.Tick, loggingresolution.EpochBumpedPayload{
		Generation: generation,
	})
}

func (h *Hub) applyResolve(frame *telemetryFrame) *resolvedMessage {
	requested := frame.Resolve
	if len(requested) > len(h.resolveOut) {
		requested = requested[:len(h.resolveOut)]
	}
	for i, id := range requested {
		h.resolveOut[i] = h.memo.Resolve(h.resolver, id, h.state, h.state.TargetDebuffs(), h.state.PlayerBuffs(), h.actions)
	}
	n := len(requested)
	h.telemetry.RecordResolve(n)
	loggingresolution.ResolutionServed(context.Background(), h.publisher, frame.Tick, loggingresolution.ResolutionServedPayload{
		Requested: len(frame.Resolve),
		Resolved:  n,
	})
	return &resolvedMessage{
		Ver:     protocolVersion,
		Type:    "resolved",
		Tick:    frame.Tick,
		Actions: append([]ActionID(nil), h.resolveOut[:n]...),
	}
}

// CloseAll drops every feed connection, typically on shutdown.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	subs := make([]*subscriber, 0, len(h.subscribers))
	for _, sub := range h.subscribers {
		subs = append(subs, sub)
	}
	h.subscribers = make(map[uint64]*subscriber)
	h.mu.Unlock()
	for _, sub := range subs {
		sub.conn.Close()
	}
}
