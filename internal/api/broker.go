package api

import (
	"sync"

	"maintopt/internal/model"
)

// Broker fans front events out to in-process subscribers. Publishing never
// blocks; a slow subscriber drops events once its buffer fills.
type Broker struct {
	mu   sync.Mutex
	subs map[string]map[chan model.FrontEvent]struct{} // frontId -> set of channels
}

func NewBroker() *Broker {
	return &Broker{subs: map[string]map[chan model.FrontEvent]struct{}{}}
}

func (b *Broker) Subscribe(frontID string) chan model.FrontEvent {
	ch := make(chan model.FrontEvent, 8)
	b.mu.Lock()
	if b.subs[frontID] == nil {
		b.subs[frontID] = map[chan model.FrontEvent]struct{}{}
	}
	b.subs[frontID][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *Broker) Unsubscribe(frontID string, ch chan model.FrontEvent) {
	b.mu.Lock()
	if m := b.subs[frontID]; m != nil {
		delete(m, ch)
		if len(m) == 0 {
			delete(b.subs, frontID)
		}
	}
	b.mu.Unlock()
	close(ch)
}

func (b *Broker) Publish(frontID string, evt model.FrontEvent) {
	b.mu.Lock()
	m := b.subs[frontID]
	for ch := range m {
		select {
		case ch <- evt:
		default:
		}
	}
	b.mu.Unlock()
}
