package ports

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mchugh/liveblog/internal/content/domain"
)

// Repository errors - these are the canonical errors that repository
// implementations should return. The PostgreSQL implementation translates
// pgx.ErrNoRows to these; the in-memory implementation returns them directly.
var (
	// ErrItemNotFound is returned when an item cannot be found
	ErrItemNotFound = errors.New("content item not found")
)

// ContentRepository defines the storage contract for content items. Any
// backend that honors it can sit behind the content service; the in-memory
// implementation is the canonical one.
type ContentRepository interface {
	// Create saves a new item
	Create(ctx context.Context, item *domain.ContentItem) error

	// FindByID retrieves an item by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*domain.ContentItem, error)

	// Update overwrites an existing item
	Update(ctx context.Context, item *domain.ContentItem) error

	// Delete removes an item. Returns ErrItemNotFound if the id is absent.
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns all items ordered by creation time, most recent first
	List(ctx context.Context) ([]*domain.ContentItem, error)
}
