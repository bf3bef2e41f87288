package events

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

type subscription struct {
	handler EventHandler
	types   map[string]struct{} // nil matches every type
}

func (s subscription) matches(eventType string) bool {
	if s.types == nil {
		return true
	}
	_, ok := s.types[eventType]
	return ok
}

// InMemoryEventEmitter delivers events synchronously to subscribed handlers,
// in subscription order.
type InMemoryEventEmitter struct {
	mu     sync.RWMutex
	subs   []subscription
	logger *slog.Logger
}

var _ EventEmitter = (*InMemoryEventEmitter)(nil)

// NewInMemoryEventEmitter creates an emitter with no subscribers.
func NewInMemoryEventEmitter(logger *slog.Logger) *InMemoryEventEmitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &InMemoryEventEmitter{logger: logger.With("component", "event_emitter")}
}

// Subscribe registers handler for the given event types, or for every type
// when none are given.
func (e *InMemoryEventEmitter) Subscribe(handler EventHandler, types ...string) {
	sub := subscription{handler: handler}
	if len(types) > 0 {
		sub.types = make(map[string]struct{}, len(types))
		for _, t := range types {
			sub.types[t] = struct{}{}
		}
	}

	e.mu.Lock()
	e.subs = append(e.subs, sub)
	n := len(e.subs)
	e.mu.Unlock()

	e.logger.Debug("event handler subscribed", "types", types, "subscriber_count", n)
}

// EmitEvent implements EventEmitter. Every matching handler runs even when
// an earlier one fails; the failures are joined into the returned error.
func (e *InMemoryEventEmitter) EmitEvent(ctx context.Context, event *Event) error {
	if event == nil {
		return errors.New("event is nil")
	}

	e.mu.RLock()
	subs := e.subs
	e.mu.RUnlock()

	var errs []error
	delivered := 0
	for _, sub := range subs {
		if !sub.matches(event.Type) {
			continue
		}
		delivered++
		if err := sub.handler.HandleEvent(ctx, event); err != nil {
			e.logger.Error("event handler failed",
				"error", err,
				"event_id", event.ID,
				"event_type", event.Type)
			errs = append(errs, err)
		}
	}

	e.logger.Debug("event emitted",
		"event_id", event.ID,
		"event_type", event.Type,
		"delivered", delivered)
	return errors.Join(errs...)
}
