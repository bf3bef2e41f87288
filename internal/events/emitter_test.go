package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/phrazzld/storefront-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryEventEmitter(t *testing.T) {
	discard := slog.New(slog.NewTextHandler(io.Discard, nil))

	newEvent := func(t *testing.T, eventType string) *Event {
		t.Helper()
		event, err := NewEvent(eventType, "u1", map[string]int{"quantity": 5})
		require.NoError(t, err)
		return event
	}

	t.Run("no subscribers", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(discard)
		assert.NoError(t, emitter.EmitEvent(context.Background(), newEvent(t, TypeCartItemUpdated)))
	})

	t.Run("nil event", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(discard)
		assert.Error(t, emitter.EmitEvent(context.Background(), nil))
	})

	t.Run("all subscribers receive the event", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(discard)
		h1, h2 := &MockEventHandler{}, &MockEventHandler{}
		emitter.Subscribe(h1)
		emitter.Subscribe(h2)

		event := newEvent(t, TypeCartItemUpdated)
		require.NoError(t, emitter.EmitEvent(context.Background(), event))

		assert.Equal(t, 1, h1.HandledCount)
		assert.Equal(t, 1, h2.HandledCount)
		assert.Same(t, event, h1.LastEvent)
		assert.Same(t, event, h2.LastEvent)
	})

	t.Run("typed subscription filters", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(discard)
		products := &MockEventHandler{}
		emitter.Subscribe(products, TypeProductCreated, TypeProductDeleted)

		require.NoError(t, emitter.EmitEvent(context.Background(), newEvent(t, TypeCartItemAdded)))
		require.NoError(t, emitter.EmitEvent(context.Background(), newEvent(t, TypeProductDeleted)))

		assert.Equal(t, 1, products.HandledCount)
		assert.Equal(t, TypeProductDeleted, products.LastEvent.Type)
	})

	t.Run("failures are joined and delivery continues", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(discard)
		errA, errB := errors.New("handler a"), errors.New("handler b")
		a := &MockEventHandler{HandlerError: errA}
		ok := &MockEventHandler{}
		b := &MockEventHandler{HandlerError: errB}
		emitter.Subscribe(a)
		emitter.Subscribe(ok)
		emitter.Subscribe(b)

		err := emitter.EmitEvent(context.Background(), newEvent(t, TypeTokenRevoked))

		assert.ErrorIs(t, err, errA)
		assert.ErrorIs(t, err, errB)
		assert.Equal(t, 1, ok.HandledCount)
	})
}

func TestAuditLogHandler(t *testing.T) {
	log, buf := logger.NewTestLogger(t)
	h := NewAuditLogHandler(log)

	event, err := NewEvent(TypeProductCreated, "admin1", map[string]string{"id": "1001"})
	require.NoError(t, err)
	require.NoError(t, h.HandleEvent(context.Background(), event))

	logger.AssertLogContains(t, buf, "audit")
	logger.AssertLogField(t, buf, "event_type", TypeProductCreated)
	logger.AssertLogField(t, buf, "subject", "admin1")
	logger.AssertLogField(t, buf, "component", "audit")
}
