package async

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"invoiceservice/internal/domain"
)

// Handler consumes one event. A returned error is terminal for this
// invocation only: it is logged and counted, never propagated to the
// publisher or to sibling handlers.
type Handler func(ctx context.Context, e domain.Event) error

// EventBus is an in-process publish/subscribe registry. Registrations are
// expected during startup, before traffic; the lock exists so a late
// Register does not race Publish, not to support runtime re-wiring.
type EventBus struct {
	pool *WorkerPool

	mu       sync.RWMutex
	handlers map[domain.EventType][]Handler

	log *zap.Logger
}

func NewEventBus(pool *WorkerPool, log *zap.Logger) *EventBus {
	return &EventBus{
		pool:     pool,
		handlers: make(map[domain.EventType][]Handler),
		log:      log,
	}
}

// Register appends h to the handlers for t. Handlers for the same type are
// started in registration order; their completions may interleave.
func (b *EventBus) Register(t domain.EventType, h Handler) {
	b.mu.Lock()
	b.handlers[t] = append(b.handlers[t], h)
	b.mu.Unlock()
}

// Publish starts every handler registered for e.Type and returns without
// waiting for any of them. Zero registered handlers is a no-op. The tasks
// run on the pool's own context so a finished HTTP request cannot cancel
// its side effects.
func (b *EventBus) Publish(ctx context.Context, e domain.Event) {
	b.mu.RLock()
	hs := b.handlers[e.Type]
	b.mu.RUnlock()

	b.log.Info("domain_event",
		zap.String("type", string(e.Type)),
		zap.Int("handlers", len(hs)),
	)
	eventsPublished.WithLabelValues(string(e.Type)).Inc()

	for _, h := range hs {
		h := h
		b.pool.Submit(func(taskCtx context.Context) {
			if err := h(taskCtx, e); err != nil {
				handlerFailures.WithLabelValues(string(e.Type)).Inc()
				b.log.Error("event handler failed",
					zap.String("type", string(e.Type)),
					zap.Error(err),
				)
			}
		})
	}
}

func (b *EventBus) Close() {
	b.pool.Shutdown()
}
