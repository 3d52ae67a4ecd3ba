package audit

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Publisher emits audit events. Emit stamps the event time when unset.
type Publisher interface {
	Emit(ctx context.Context, event Event) error
}

// NopPublisher discards events; used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Emit(ctx context.Context, event Event) error { return nil }

// ChannelPublisher hands events to a Worker inbox so emit sites never block
// on the broker. A full inbox drops the event.
type ChannelPublisher struct {
	inbox chan<- Event
}

func NewChannelPublisher(inbox chan<- Event) *ChannelPublisher {
	return &ChannelPublisher{inbox: inbox}
}

func (p *ChannelPublisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case p.inbox <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return fmt.Errorf("audit inbox full, event dropped")
	}
}

// MemoryPublisher collects events in memory so tests can assert on the trail.
type MemoryPublisher struct {
	mu     sync.Mutex
	events []Event
}

func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{}
}

func (p *MemoryPublisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

// Events returns a snapshot of everything emitted so far.
func (p *MemoryPublisher) Events() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Event(nil), p.events...)
}

// ByAction filters the captured events.
func (p *MemoryPublisher) ByAction(action Action) []Event {
	var result []Event
	for _, e := range p.Events() {
		if e.Action == action {
			result = append(result, e)
		}
	}
	return result
}
