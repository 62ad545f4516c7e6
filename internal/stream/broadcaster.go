package stream

import (
	"sync"
	"sync/atomic"

	"github.com/mr1hm/go-farm-analytics/internal/models"
)

// BufferSize is the per-subscriber backlog before observations are dropped.
const BufferSize = 100

type subscriber struct {
	farmID string // empty receives every farm
	ch     chan *models.Observation
}

type Broadcaster struct {
	subscribers map[uint64]subscriber
	nextID      atomic.Uint64
	dropped     atomic.Uint64
	mu          sync.RWMutex
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[uint64]subscriber),
	}
}

// Subscribe registers a listener for observations of farmID, or of every
// farm when farmID is empty.
func (b *Broadcaster) Subscribe(farmID string) (uint64, <-chan *models.Observation) {
	id := b.nextID.Add(1)
	ch := make(chan *models.Observation, BufferSize)

	b.mu.Lock()
	b.subscribers[id] = subscriber{farmID: farmID, ch: ch}
	b.mu.Unlock()

	return id, ch
}

func (b *Broadcaster) Unsubscribe(id uint64) {
	b.mu.Lock()
	if sub, ok := b.subscribers[id]; ok {
		close(sub.ch)
		delete(b.subscribers, id)
	}
	b.mu.Unlock()
}

func (b *Broadcaster) Broadcast(o *models.Observation) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subscribers {
		if sub.farmID != "" && sub.farmID != o.FarmID {
			continue
		}
		select {
		case sub.ch <- o:
		default:
			// Skip slow subscribers
			b.dropped.Add(1)
		}
	}
}

func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Dropped returns how many deliveries were skipped because a subscriber
// was full.
func (b *Broadcaster) Dropped() uint64 {
	return b.dropped.Load()
}

// Close closes all subscriber channels, causing streams to exit gracefully
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, sub := range b.subscribers {
		close(sub.ch)
		delete(b.subscribers, id)
	}
}
