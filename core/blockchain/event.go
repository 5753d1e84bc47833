package blockchain

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// BlockMinedEvent is published after a block is appended to the chain.
type BlockMinedEvent struct {
	Index   uint64
	Hash    string
	TxCount int
}

type EventFeed[T any] struct {
	subs map[string]chan<- T
	mu   sync.Mutex
}

type EventBus struct {
	BlockFeed *EventFeed[BlockMinedEvent]
}

func NewEventFeed[T any]() *EventFeed[T] {
	return &EventFeed[T]{
		subs: make(map[string]chan<- T),
	}
}

func (ef *EventFeed[T]) Subscribe(id string, ch chan<- T) error {
	ef.mu.Lock()
	defer ef.mu.Unlock()
	if _, exists := ef.subs[id]; exists {
		return fmt.Errorf("Subscriber with the id %s already present", id)
	}
	ef.subs[id] = ch
	return nil
}

// SubscribeAnon subscribes under a generated id and returns it for UnSubscribe.
func (ef *EventFeed[T]) SubscribeAnon(ch chan<- T) string {
	id := uuid.NewString()
	// uuids do not collide in practice, Subscribe cannot fail here
	_ = ef.Subscribe(id, ch)
	return id
}

func (ef *EventFeed[T]) UnSubscribe(id string) {
	ef.mu.Lock()
	defer ef.mu.Unlock()
	delete(ef.subs, id)
}

// Send delivers event to every subscriber without blocking; full channels miss the event.
func (ef *EventFeed[T]) Send(event T) {
	ef.mu.Lock()
	defer ef.mu.Unlock()
	for id, ch := range ef.subs {
		select {
		case ch <- event:
		default:
			log.Warnf("Event skipped for subscriber %s - event channel full", id)
		}
	}
}

func NewEventBus() *EventBus {
	return &EventBus{
		BlockFeed: NewEventFeed[BlockMinedEvent](),
	}
}
