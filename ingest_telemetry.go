package engine

import (
	"sync/atomic"
	"time"
)

// ingestCounters tracks feed health without touching the decision path.
type ingestCounters struct {
	framesTotal      atomic.Uint64
	framesRejected   atomic.Uint64
	bytesReceived    atomic.Uint64
	resolvesServed   atomic.Uint64
	epochBumps       atomic.Uint64
	lastFrameTick    atomic.Uint64
	applyDurationsNs atomic.Int64
}

// IngestSnapshot is the diagnostics view of the feed counters.
type IngestSnapshot struct {
	FramesTotal    uint64 `json:"framesTotal"`
	FramesRejected uint64 `json:"framesRejected"`
	BytesReceived  uint64 `json:"bytesReceived"`
	ResolvesServed uint64 `json:"resolvesServed"`
	EpochBumps     uint64 `json:"epochBumps"`
	LastFrameTick  uint64 `json:"lastFrameTick"`
	LastApplyNs    int64  `json:"lastApplyNs"`
}

func newIngestCounters() *ingestCounters {
	return &ingestCounters{}
}

func (c *ingestCounters) RecordFrame(bytes int, tick uint64) {
	if bytes < 0 {
		bytes = 0
	}
	c.framesTotal.Add(1)
	c.bytesReceived.Add(uint64(bytes))
	c.lastFrameTick.Store(tick)
}

func (c *ingestCounters) RecordRejected() {
	c.framesRejected.Add(1)
}

func (c *ingestCounters) RecordResolve(count int) {
	if count > 0 {
		c.resolvesServed.Add(uint64(count))
	}
}

func (c *ingestCounters) RecordEpochBump() {
	c.epochBumps.Add(1)
}

func (c *ingestCounters) RecordApplyDuration(d time.Duration) {
	c.applyDurationsNs.Store(d.Nanoseconds())
}

func (c *ingestCounters) Snapshot() IngestSnapshot {
	return IngestSnapshot{
		FramesTotal:    c.framesTotal.Load(),
		FramesRejected: c.framesRejected.Load(),
		BytesReceived:  c.bytesReceived.Load(),
		ResolvesServed: c.resolvesServed.Load(),
		EpochBumps:     c.epochBumps.Load(),
		LastFrameTick:  c.lastFrameTick.Load(),
		LastApplyNs:    c.applyDurationsNs.Load(),
	}
}
