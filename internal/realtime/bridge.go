package realtime

import (
	"context"
	"fmt"

	"github.com/mchugh/liveblog/internal/platform/eventbus"
	"github.com/mchugh/liveblog/internal/platform/events"
)

// AttachHub subscribes the hub to the content event topics, translating
// domain events into wire notifications. The bus is fire-and-forget, so a
// mutation is already committed by the time these handlers run; nothing here
// can roll it back.
func AttachHub(bus *eventbus.Bus, hub *Hub) {
	bus.Subscribe(events.ContentCreatedTopic, func(ctx context.Context, e eventbus.Event) error {
		payload, ok := e.Payload.(events.ContentCreatedEvent)
		if !ok {
			return fmt.Errorf("unexpected payload on %s: %T", e.Topic, e.Payload)
		}
		hub.Publish(ctx, Notification{Type: TypePostCreated, Data: NewItemPayload(payload.Item)})
		return nil
	})

	bus.Subscribe(events.ContentUpdatedTopic, func(ctx context.Context, e eventbus.Event) error {
		payload, ok := e.Payload.(events.ContentUpdatedEvent)
		if !ok {
			return fmt.Errorf("unexpected payload on %s: %T", e.Topic, e.Payload)
		}
		hub.Publish(ctx, Notification{Type: TypePostUpdated, Data: NewItemPayload(payload.Item)})
		return nil
	})

	bus.Subscribe(events.ContentDeletedTopic, func(ctx context.Context, e eventbus.Event) error {
		payload, ok := e.Payload.(events.ContentDeletedEvent)
		if !ok {
			return fmt.Errorf("unexpected payload on %s: %T", e.Topic, e.Payload)
		}
		hub.Publish(ctx, Notification{Type: TypePostDeleted, Data: DeletedPayload{ID: payload.ItemID}})
		return nil
	})

	bus.Subscribe(events.ContentLikedTopic, func(ctx context.Context, e eventbus.Event) error {
		payload, ok := e.Payload.(events.ContentLikedEvent)
		if !ok {
			return fmt.Errorf("unexpected payload on %s: %T", e.Topic, e.Payload)
		}
		hub.Publish(ctx, Notification{Type: TypePostLiked, Data: NewItemPayload(payload.Item)})
		return nil
	})
}
