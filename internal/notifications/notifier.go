// Package notifications delivers live feed events to connected WebSocket
// clients, fanning out through Redis pub/sub when available and directly
// in-process when not.
package notifications

import (
	"context"
	"log"
	"runtime/debug"
	"sync"

	"artboard/internal/observability"

	"github.com/redis/go-redis/v9"
)

// FeedChannel is the Redis channel feed events travel on.
const FeedChannel = "feed:events"

// Notifier publishes feed event payloads. With Redis attached events go
// through pub/sub so every instance sees them; without Redis they are handed
// straight to the local handler.
type Notifier struct {
	rdb *redis.Client

	mu    sync.RWMutex
	local func(payload string)
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
// The client may be nil.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// HasRedis reports whether events fan out through Redis.
func (n *Notifier) HasRedis() bool {
	return n.rdb != nil
}

// SetLocalHandler registers the in-process delivery path used when Redis is
// absent. Events are delivered to it exactly once each.
func (n *Notifier) SetLocalHandler(handler func(payload string)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.local = handler
}

// PublishFeedEvent sends an already-marshaled event payload to every feed
// subscriber, counting it by type.
func (n *Notifier) PublishFeedEvent(ctx context.Context, eventType, payload string) error {
	observability.FeedEventsPublished.WithLabelValues(eventType).Inc()

	if n.rdb == nil {
		n.mu.RLock()
		local := n.local
		n.mu.RUnlock()
		if local != nil {
			local(payload)
		}
		return nil
	}
	return n.rdb.Publish(ctx, FeedChannel, payload).Err()
}

// StartFeedSubscriber subscribes to the feed channel and calls onMessage for
// each incoming payload. No-op without Redis; the local handler covers that
// case.
func (n *Notifier) StartFeedSubscriber(ctx context.Context, onMessage func(payload string)) error {
	if n.rdb == nil {
		return nil
	}
	sub := n.rdb.Subscribe(ctx, FeedChannel)
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							log.Printf("PANIC in FeedSubscriber: %v\n%s", r, debug.Stack())
						}
					}()
					onMessage(msg.Payload)
				}()
			}
		}
	}()

	return nil
}
