// Package realtime pushes job notifications to connected dashboards.
//
// A Hub keeps the subscribers of one process. When Redis is configured, broadcasts go through a
// pub/sub channel and every instance relays them to its own subscribers; otherwise they are
// delivered locally.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Message is a single notification.
type Message struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Options tune a Hub. Zero values select the defaults.
type Options struct {
	Channel string
	// Backlog is the per-subscriber buffer. A subscriber whose buffer is full misses messages.
	Backlog int
}

const (
	defaultChannel = "files:updated"
	defaultBacklog = 16
)

// Hub fans messages out to subscribers.
type Hub struct {
	mu      sync.RWMutex
	subs    map[*Subscription]struct{}
	closed  bool
	redis   *redis.Client
	channel string
	backlog int
	logger  *zap.Logger
}

// NewHub creates a hub. client may be nil.
func NewHub(client *redis.Client, opts Options, logger *zap.Logger) *Hub {
	if opts.Channel == "" {
		opts.Channel = defaultChannel
	}
	if opts.Backlog <= 0 {
		opts.Backlog = defaultBacklog
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		subs:    make(map[*Subscription]struct{}),
		redis:   client,
		channel: opts.Channel,
		backlog: opts.Backlog,
		logger:  logger,
	}
}

// Subscription receives messages on C until it is closed.
type Subscription struct {
	C    <-chan Message
	ch   chan Message
	hub  *Hub
	once sync.Once
}

// Subscribe registers a new subscriber. Subscribing to a closed hub returns an already closed
// subscription.
func (h *Hub) Subscribe() *Subscription {
	ch := make(chan Message, h.backlog)
	sub := &Subscription{C: ch, ch: ch, hub: h}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		sub.once.Do(func() { close(ch) })
		return sub
	}
	h.subs[sub] = struct{}{}
	return sub
}

// Close unregisters the subscription and closes C. It is safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.mu.Lock()
		delete(s.hub.subs, s)
		s.hub.mu.Unlock()
		close(s.ch)
	})
}

// Subscribers returns the number of local subscribers.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Broadcast encodes payload and sends it to every subscriber of every instance.
func (h *Hub) Broadcast(ctx context.Context, event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	msg := Message{Event: event, Data: data}

	if h.redis == nil {
		h.deliver(msg)
		return nil
	}

	encoded, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if err := h.redis.Publish(ctx, h.channel, encoded).Err(); err != nil {
		h.deliver(msg)
		return err
	}
	return nil
}

// Run relays messages published on the Redis channel to local subscribers until ctx ends. Without
// Redis it only waits for ctx.
func (h *Hub) Run(ctx context.Context) error {
	if h.redis == nil {
		<-ctx.Done()
		return nil
	}

	pubsub := h.redis.Subscribe(ctx, h.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil
		}
		return err
	}

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case raw, ok := <-ch:
			if !ok {
				return nil
			}
			var msg Message
			if err := json.Unmarshal([]byte(raw.Payload), &msg); err != nil {
				h.logger.Warn("discarding malformed realtime message", zap.Error(err))
				continue
			}
			h.deliver(msg)
		}
	}
}

// Close ends every subscription. Later subscriptions are closed immediately.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	subs := make([]*Subscription, 0, len(h.subs))
	for sub := range h.subs {
		subs = append(subs, sub)
	}
	h.mu.Unlock()

	for _, sub := range subs {
		sub.Close()
	}
}

func (h *Hub) deliver(msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subs {
		select {
		case sub.ch <- msg:
		default:
			h.logger.Debug("realtime subscriber lagging; message dropped", zap.String("event", msg.Event))
		}
	}
}
