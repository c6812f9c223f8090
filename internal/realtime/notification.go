package realtime

import (
	"time"

	"github.com/google/uuid"

	"github.com/mchugh/liveblog/internal/content/domain"
)

// NotificationType identifies the kind of state transition a notification
// describes.
type NotificationType string

const (
	// TypeConnected is sent once to a new subscriber only, so clients can
	// distinguish "stream open" from "stream silent".
	TypeConnected NotificationType = "connected"

	TypePostCreated NotificationType = "post_created"
	TypePostUpdated NotificationType = "post_updated"
	TypePostDeleted NotificationType = "post_deleted"
	TypePostLiked   NotificationType = "post_liked"
)

// Notification is the hub-to-observer wire contract. It is ephemeral: there
// is no buffering or replay, so a client that reconnects must resynchronize
// with a full read instead of trusting the stream.
type Notification struct {
	Type NotificationType `json:"type"`
	Data any              `json:"data,omitempty"`
}

// ItemPayload is the wire representation of a full content item.
type ItemPayload struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Author    string    `json:"author"`
	Category  string    `json:"category,omitempty"`
	AssetURL  *string   `json:"asset_url"`
	AssetName *string   `json:"asset_name"`
	Views     int64     `json:"views"`
	Likes     int64     `json:"likes"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DeletedPayload carries only the identifier: the item itself is gone.
type DeletedPayload struct {
	ID uuid.UUID `json:"id"`
}

// NewItemPayload maps a domain item to its wire shape.
func NewItemPayload(item *domain.ContentItem) ItemPayload {
	p := ItemPayload{
		ID:        item.ID,
		Title:     item.Title,
		Body:      item.Body,
		Author:    item.Author,
		Category:  item.Category,
		Views:     item.Views,
		Likes:     item.Likes,
		Published: item.Published,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
	if item.Asset != nil {
		url := item.Asset.URL
		name := item.Asset.Name
		p.AssetURL = &url
		p.AssetName = &name
	}
	return p
}
