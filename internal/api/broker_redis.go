package api

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	redis "github.com/redis/go-redis/v9"

	"maintopt/internal/model"
)

// EventBroker distributes front progress events to stream subscribers.
// The in-memory Broker serves single-node deployments; RedisBroker lets
// multiple replicas share one event stream.
type EventBroker interface {
	Subscribe(frontID string) chan model.FrontEvent
	Unsubscribe(frontID string, ch chan model.FrontEvent)
	Publish(frontID string, evt model.FrontEvent)
}

// RedisBroker implements EventBroker over Redis Pub/Sub.
type RedisBroker struct {
	rdb *redis.Client

	mu   sync.Mutex
	subs map[chan model.FrontEvent]*redis.PubSub
}

func NewRedisBroker(url string) (*RedisBroker, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return &RedisBroker{
		rdb:  redis.NewClient(opt),
		subs: map[chan model.FrontEvent]*redis.PubSub{},
	}, nil
}

func (b *RedisBroker) Subscribe(frontID string) chan model.FrontEvent {
	ch := make(chan model.FrontEvent, 16)
	ctx := context.Background()
	ps := b.rdb.Subscribe(ctx, b.chanName(frontID))
	// initial consume to ensure the subscription is live
	_, _ = ps.Receive(ctx)
	b.mu.Lock()
	b.subs[ch] = ps
	b.mu.Unlock()
	go func() {
		defer close(ch)
		for msg := range ps.Channel() {
			var evt model.FrontEvent
			if err := json.Unmarshal([]byte(msg.Payload), &evt); err == nil {
				select {
				case ch <- evt:
				default:
				}
			}
		}
	}()
	return ch
}

func (b *RedisBroker) Unsubscribe(frontID string, ch chan model.FrontEvent) {
	b.mu.Lock()
	ps := b.subs[ch]
	delete(b.subs, ch)
	b.mu.Unlock()
	// Closing the PubSub ends its channel; the reader goroutine then
	// closes ch.
	if ps != nil {
		_ = ps.Close()
	}
}

func (b *RedisBroker) Publish(frontID string, evt model.FrontEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	data, _ := json.Marshal(evt)
	_ = b.rdb.Publish(ctx, b.chanName(frontID), data).Err()
}

func (b *RedisBroker) chanName(frontID string) string { return "front:" + frontID }
