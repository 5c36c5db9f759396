package graph

import (
	"context"
	"sync/atomic"
	"time"
)

// TraceEvent enumerates the kinds of span Tracer records.
type TraceEvent string

const (
	TraceRunStart    TraceEvent = "run_start"
	TraceRunEnd      TraceEvent = "run_end"
	TraceNodeStart   TraceEvent = "node_start"
	TraceNodeEnd     TraceEvent = "node_end"
	TraceNodeError   TraceEvent = "node_error"
	TraceRouteFollow TraceEvent = "route_follow"
)

// TraceSpan records one traced occurrence: one step of a node's sequence or
// a route edge followed. TraceRunStart and TraceRunEnd are declared, but no
// span of either kind is recorded. This is optional observability, separate
// from the Event stream a Sink receives — a Tracer is for debugging and
// metrics, a Sink is the run's required progress feed.
type TraceSpan struct {
	ID       string
	ParentID string
	Event    TraceEvent

	NodeID string

	// FromNode/ToNode/Pin are set only for TraceRouteFollow spans.
	FromNode string
	ToNode   string
	Pin      string

	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	Err error
}

// TraceHook is notified every time a span starts or ends.
type TraceHook interface {
	OnSpan(ctx context.Context, span *TraceSpan)
}

// TraceHookFunc adapts a plain function to TraceHook.
type TraceHookFunc func(ctx context.Context, span *TraceSpan)

func (f TraceHookFunc) OnSpan(ctx context.Context, span *TraceSpan) { f(ctx, span) }

// Tracer fans out span start/end notifications to any number of hooks. A
// nil *Tracer is valid and a no-op, so Executor can hold one unconditionally.
type Tracer struct {
	hooks   []TraceHook
	counter atomic.Uint64
}

// NewTracer returns an empty Tracer.
func NewTracer() *Tracer {
	return &Tracer{}
}

// AddHook registers hook to receive every future span.
func (t *Tracer) AddHook(hook TraceHook) {
	if t == nil {
		return
	}
	t.hooks = append(t.hooks, hook)
}

func (t *Tracer) nextID() string {
	n := t.counter.Add(1)
	return "span-" + itoa(n)
}

func itoa(n uint64) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

func (t *Tracer) emit(ctx context.Context, span *TraceSpan) {
	if t == nil {
		return
	}
	for _, h := range t.hooks {
		h.OnSpan(ctx, span)
	}
}

// startNodeSpan records a node beginning execution.
func (t *Tracer) startNodeSpan(ctx context.Context, nodeID string) *TraceSpan {
	if t == nil {
		return nil
	}
	span := &TraceSpan{ID: t.nextID(), Event: TraceNodeStart, NodeID: nodeID, StartTime: time.Now()}
	t.emit(ctx, span)
	return span
}

// endNodeSpan closes a span opened by startNodeSpan.
func (t *Tracer) endNodeSpan(ctx context.Context, span *TraceSpan, err error) {
	if t == nil || span == nil {
		return
	}
	span.EndTime = time.Now()
	span.Duration = span.EndTime.Sub(span.StartTime)
	span.Err = err
	if err != nil {
		span.Event = TraceNodeError
	} else {
		span.Event = TraceNodeEnd
	}
	t.emit(ctx, span)
}

// traceRouteFollow records a route edge being followed.
func (t *Tracer) traceRouteFollow(ctx context.Context, from, pin, to string) {
	if t == nil {
		return
	}
	now := time.Now()
	span := &TraceSpan{
		ID: t.nextID(), Event: TraceRouteFollow,
		FromNode: from, Pin: pin, ToNode: to,
		StartTime: now, EndTime: now,
	}
	t.emit(ctx, span)
}
