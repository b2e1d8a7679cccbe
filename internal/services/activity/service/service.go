// Package service implements the append-only activity sink.
//
// Events are the raw stream the trend analyzer aggregates. Delivery is
// best-effort: a flush failure is logged and dropped, it never reaches the
// interacting user. Publish only fails when the event cannot be accepted at
// all (closed or saturated sink), which callers treat as a rollback signal
package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	perr "curately/internal/platform/errors"
	"curately/internal/platform/logger"
	"curately/internal/platform/store"
	"curately/internal/services/activity/domain"
)

const eventsTable = "user_events (event_id, user_id, article_id, event_type, keywords, occurred_at)"

// Options tunes the sink buffer and flush cadence
type Options struct {
	Buffer        int
	FlushEvery    time.Duration
	FlushMaxBatch int
}

func (o Options) withDefaults() Options {
	if o.Buffer <= 0 {
		o.Buffer = 1024
	}
	if o.FlushEvery <= 0 {
		o.FlushEvery = 2 * time.Second
	}
	if o.FlushMaxBatch <= 0 {
		o.FlushMaxBatch = 256
	}
	return o
}

// Sink buffers events and flushes them to ClickHouse in batches
type Sink struct {
	ch   store.Clickhouse
	log  logger.Logger
	opts Options

	mu     sync.Mutex
	closed bool
	events chan domain.Event
	done   chan struct{}
}

// NewSink constructs and starts the sink flusher
func NewSink(ch store.Clickhouse, opts Options) *Sink {
	if ch == nil {
		panic("activity.Sink requires a non nil Clickhouse")
	}
	o := opts.withDefaults()
	s := &Sink{
		ch:     ch,
		log:    *logger.Named("activity"),
		opts:   o,
		events: make(chan domain.Event, o.Buffer),
		done:   make(chan struct{}),
	}
	go s.run()
	return s
}

// Publish accepts one event. It assigns the event id and timestamp when the
// caller left them zero. Fails only when the sink cannot take the event
func (s *Sink) Publish(_ context.Context, ev domain.Event) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return perr.Unavailablef("activity sink closed")
	}
	s.mu.Unlock()

	if ev.EventID == "" {
		ev.EventID = uuid.NewString()
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}

	select {
	case s.events <- ev:
		return nil
	default:
		return perr.Unavailablef("activity sink saturated")
	}
}

// Close stops the flusher after draining buffered events
func (s *Sink) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	close(s.events)
	<-s.done
	return nil
}

func (s *Sink) run() {
	defer close(s.done)

	ticker := time.NewTicker(s.opts.FlushEvery)
	defer ticker.Stop()

	batch := make([]domain.Event, 0, s.opts.FlushMaxBatch)
	for {
		select {
		case ev, ok := <-s.events:
			if !ok {
				s.flush(batch)
				return
			}
			batch = append(batch, ev)
			if len(batch) >= s.opts.FlushMaxBatch {
				s.flush(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				s.flush(batch)
				batch = batch[:0]
			}
		}
	}
}

// flush writes one batch. Failures are logged and the batch is dropped
func (s *Sink) flush(batch []domain.Event) {
	if len(batch) == 0 {
		return
	}
	rows := make([][]any, 0, len(batch))
	for _, ev := range batch {
		rows = append(rows, []any{
			ev.EventID, ev.UserID, ev.ArticleID, ev.Type, ev.Keywords, ev.OccurredAt,
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.ch.Insert(ctx, eventsTable, rows); err != nil {
		s.log.Warn().Err(err).Int("events", len(batch)).Msg("activity flush failed dropping batch")
		return
	}
	s.log.Debug().Int("events", len(batch)).Msg("activity batch flushed")
}
