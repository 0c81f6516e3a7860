package sinks

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	"combat-pilot/engine/logging"
)

// JSON emits newline-delimited structured events with periodic flushing.
type JSON struct {
	mu        sync.Mutex
	writer    *bufio.Writer
	closer    io.Closer
	lastFlush time.Time
	interval  time.Duration
}

func NewJSON(w io.Writer, cfg logging.JSONConfig) *JSON {
	interval := cfg.FlushInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	sink := &JSON{
		writer:   bufio.NewWriter(w),
		interval: interval,
	}
	if closer, ok := w.(io.Closer); ok {
		sink.closer = closer
	}
	return sink
}

func (s *JSON) Write(event logging.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.writer.Write(data); err != nil {
		return err
	}
	if err := s.writer.WriteByte('\n'); err != nil {
		return err
	}
	now := time.Now()
	if now.Sub(s.lastFlush) >= s.interval {
		s.lastFlush = now
		return s.writer.Flush()
	}
	return nil
}

func (s *JSON) Close(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writer.Flush(); err != nil {
		return err
	}
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}
