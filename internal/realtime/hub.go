package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/mchugh/liveblog/internal/platform/logger"
)

// subscriberBuffer is the per-connection send queue depth. A subscriber that
// cannot drain this many frames is treated as a dead connection.
const subscriberBuffer = 16

// Subscriber is one observer connection. Identity is reference identity: the
// hub tracks the pointer, and the transport owns the lifecycle.
type Subscriber struct {
	ch chan []byte
}

// Out is the channel the transport reads serialized notifications from. It
// is closed when the subscriber is removed from the hub.
func (s *Subscriber) Out() <-chan []byte {
	return s.ch
}

// Hub maintains the set of subscribed observer connections and fans out
// notifications to all of them. It is constructed once at process start and
// injected wherever notifications are issued; there is no ambient singleton.
type Hub struct {
	mu          sync.Mutex
	subscribers map[*Subscriber]struct{}
	logger      logger.Logger
}

// NewHub creates an empty hub.
func NewHub(logger logger.Logger) *Hub {
	return &Hub{
		subscribers: make(map[*Subscriber]struct{}),
		logger:      logger,
	}
}

// Subscribe registers a new observer connection and immediately queues a
// "connected" notification for that connection only.
func (h *Hub) Subscribe() *Subscriber {
	sub := &Subscriber{ch: make(chan []byte, subscriberBuffer)}

	frame, err := json.Marshal(Notification{Type: TypeConnected})
	if err == nil {
		// The channel is fresh and buffered, this cannot block.
		sub.ch <- frame
	}

	h.mu.Lock()
	h.subscribers[sub] = struct{}{}
	count := len(h.subscribers)
	h.mu.Unlock()

	h.logger.Info(context.Background(), "observer subscribed", "subscriber_count", count)
	return sub
}

// Unsubscribe removes a connection from the active set. It is safe to call
// multiple times and safe to call concurrently with Publish.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	h.removeLocked(sub)
	count := len(h.subscribers)
	h.mu.Unlock()

	h.logger.Info(context.Background(), "observer unsubscribed", "subscriber_count", count)
}

// Publish serializes the notification once and writes it to every active
// connection. A connection that cannot accept the frame is removed from the
// set without aborting delivery to the remaining connections. Delivery is
// at-most-once and best-effort.
func (h *Hub) Publish(ctx context.Context, n Notification) {
	frame, err := json.Marshal(n)
	if err != nil {
		h.logger.Error(ctx, "failed to serialize notification", "type", n.Type, "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	// Sends are non-blocking, so holding the lock across the loop is cheap
	// and keeps mid-publish removal from racing with Unsubscribe. Deleting
	// from the map during range is well-defined in Go.
	for sub := range h.subscribers {
		select {
		case sub.ch <- frame:
		default:
			// Connection lost or too slow: drop it, keep going.
			h.removeLocked(sub)
			h.logger.Warn(ctx, "dropping unresponsive observer", "type", n.Type)
		}
	}
}

// SubscriberCount reports the size of the active set.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// removeLocked deletes and closes a subscriber. Callers must hold h.mu,
// which guarantees no Publish send can race with the close.
func (h *Hub) removeLocked(sub *Subscriber) {
	if _, ok := h.subscribers[sub]; !ok {
		return
	}
	delete(h.subscribers, sub)
	close(sub.ch)
}
