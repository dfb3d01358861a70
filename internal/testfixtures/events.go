package testfixtures

import (
	"context"
	"sync"

	"github.com/spec-kit/leave-service/internal/events"
)

// Recorder is a dispatcher that keeps every published event.
type Recorder struct {
	mu        sync.Mutex
	published []events.Event
	inner     events.Dispatcher
}

var _ events.Dispatcher = (*Recorder)(nil)

// NewRecorder wraps an in-memory dispatcher.
func NewRecorder() *Recorder {
	return &Recorder{inner: events.NewInMemoryDispatcher()}
}

func (r *Recorder) Publish(ctx context.Context, event events.Event) error {
	r.mu.Lock()
	r.published = append(r.published, event)
	r.mu.Unlock()
	return r.inner.Publish(ctx, event)
}

func (r *Recorder) Subscribe(eventType events.EventType, handler events.EventHandler) {
	r.inner.Subscribe(eventType, handler)
}

// Types returns the published event types in order.
func (r *Recorder) Types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.EventType, len(r.published))
	for i, event := range r.published {
		out[i] = event.Type
	}
	return out
}

// Last returns the most recent event, or false when none was published.
func (r *Recorder) Last() (events.Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.published) == 0 {
		return events.Event{}, false
	}
	return r.published[len(r.published)-1], true
}
