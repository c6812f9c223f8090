package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/mchugh/liveblog/internal/content/domain"
	"github.com/mchugh/liveblog/internal/platform/eventbus"
)

// Event topics for content items
const (
	ContentCreatedTopic eventbus.Topic = "content.created"
	ContentUpdatedTopic eventbus.Topic = "content.updated"
	ContentDeletedTopic eventbus.Topic = "content.deleted"
	ContentLikedTopic   eventbus.Topic = "content.liked"
)

// ContentCreatedEvent is published when a new item is created.
type ContentCreatedEvent struct {
	Item       *domain.ContentItem
	OccurredAt time.Time
}

// ContentUpdatedEvent is published when an item is updated. Counter
// increments that are broadcast ride this event too, since they are
// update-class changes on the wire.
type ContentUpdatedEvent struct {
	Item       *domain.ContentItem
	OccurredAt time.Time
}

// ContentDeletedEvent is published when an item is deleted. Only the
// identifier survives the deletion.
type ContentDeletedEvent struct {
	ItemID     uuid.UUID
	OccurredAt time.Time
}

// ContentLikedEvent is published when an item receives a like.
type ContentLikedEvent struct {
	Item       *domain.ContentItem
	OccurredAt time.Time
}
