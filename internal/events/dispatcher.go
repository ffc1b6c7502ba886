package events

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Dispatcher delivers domain events to interested listeners.
type Dispatcher interface {
	Emit(ctx context.Context, e Event)
}

type Listener func(ctx context.Context, e Event)

// Bus is a synchronous in-process dispatcher. Listener errors are the
// listener's problem; Emit never fails.
type Bus struct {
	log zerolog.Logger

	mu        sync.RWMutex
	listeners map[string][]Listener
}

func NewBus(log zerolog.Logger) *Bus {
	return &Bus{
		log:       log,
		listeners: make(map[string][]Listener),
	}
}

func (b *Bus) Subscribe(name string, fn Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners[name] = append(b.listeners[name], fn)
}

func (b *Bus) Emit(ctx context.Context, e Event) {
	b.log.Debug().Str("event", e.Name()).Msg("event emitted")

	b.mu.RLock()
	listeners := b.listeners[e.Name()]
	b.mu.RUnlock()

	for _, fn := range listeners {
		fn(ctx, e)
	}
}
