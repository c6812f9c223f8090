package application

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mchugh/liveblog/internal/content/domain"
	"github.com/mchugh/liveblog/internal/content/ports"
	"github.com/mchugh/liveblog/internal/platform/apperror"
	"github.com/mchugh/liveblog/internal/platform/eventbus"
	"github.com/mchugh/liveblog/internal/platform/events"
	"github.com/mchugh/liveblog/internal/platform/logger"
)

// Error definitions for service operations
var (
	ErrItemNotFound = apperror.New(
		apperror.CodeNotFound,
		apperror.BusinessCodeItemNotFound,
		"content item not found",
		http.StatusNotFound,
	)

	ErrInvalidItemData = apperror.New(
		apperror.CodeValidationFailed,
		apperror.BusinessCodeInvalidItemData,
		"invalid content item data",
		http.StatusBadRequest,
	)

	ErrAssetStorage = apperror.New(
		apperror.CodeStorageIO,
		apperror.BusinessCodeAssetWriteFailed,
		"failed to store asset",
		http.StatusInternalServerError,
	)
)

// ContentService owns the canonical set of content items and their counters.
// Every mutation commits to the repository first and then publishes a
// best-effort event; a failed broadcast never rolls back a committed
// mutation.
//
// The service performs no session-scoped dedup of views or likes: it
// increments every call it receives. Dedup lives entirely in the client-side
// engagement tracker, which means a misbehaving or multi-tab client can
// inflate counters. That is an accepted tradeoff at this layer.
type ContentService struct {
	repo     ports.ContentRepository
	assets   ports.AssetStore
	eventBus *eventbus.Bus
	logger   logger.Logger

	// mu serializes read-modify-write mutations at whole-store granularity
	// so counter increments stay exact under concurrent requests.
	mu sync.Mutex
}

// NewContentService creates a new content service.
func NewContentService(
	repo ports.ContentRepository,
	assets ports.AssetStore,
	eventBus *eventbus.Bus,
	logger logger.Logger,
) *ContentService {
	return &ContentService{
		repo:     repo,
		assets:   assets,
		eventBus: eventBus,
		logger:   logger,
	}
}

// CreateItemParams contains the fields for creating a new item. AssetData is
// optional; when present the asset is stored before the item is persisted.
type CreateItemParams struct {
	Title     string
	Body      string
	Author    string
	Category  string
	AssetData []byte
	AssetName string
}

// CreateItem validates the required fields, stores the optional asset, and
// persists the new item. If the asset write fails, nothing is persisted.
func (s *ContentService) CreateItem(ctx context.Context, params CreateItemParams) (*domain.ContentItem, error) {
	item, err := domain.NewContentItem(params.Title, params.Body, params.Author, params.Category)
	if err != nil {
		return nil, ErrInvalidItemData.WithDetails(err.Error())
	}

	if len(params.AssetData) > 0 {
		url, name, err := s.assets.Save(ctx, params.AssetData, params.AssetName)
		if err != nil {
			s.logger.Error(ctx, "asset write failed on create", "error", err)
			return nil, ErrAssetStorage
		}
		if err := item.AttachAsset(url, name); err != nil {
			// The blob is already on disk but the item will never reference
			// it, so clean it up.
			s.assets.Remove(ctx, name)
			return nil, ErrInvalidItemData.WithDetails(err.Error())
		}
	}

	s.mu.Lock()
	err = s.repo.Create(ctx, item)
	s.mu.Unlock()
	if err != nil {
		if item.HasAsset() {
			s.assets.Remove(ctx, item.Asset.Name)
		}
		s.logger.Error(ctx, "failed to create content item", "error", err)
		return nil, apperror.Wrap(err, apperror.CodeInternalError, apperror.BusinessCodeGeneral,
			"failed to create content item", http.StatusInternalServerError)
	}

	s.eventBus.Publish(ctx, eventbus.Event{
		Topic:   events.ContentCreatedTopic,
		Payload: events.ContentCreatedEvent{Item: item.Clone(), OccurredAt: time.Now()},
	})

	return item, nil
}

// UpdateItemParams contains the partial fields for updating an item. Empty
// strings leave the corresponding field unchanged, and a nil Published leaves
// the flag as is. A supplied AssetData replaces the current asset.
type UpdateItemParams struct {
	Title         string
	Body          string
	Author        string
	Category      string
	ClearCategory bool
	Published     *bool
	AssetData     []byte
	AssetName     string
}

// UpdateItem merges the supplied fields over the existing item. When a new
// asset is supplied, the new blob is written first and the old one is only
// released after the item commit succeeds, so a failed write leaves the item
// referencing its old asset with the old blob intact.
func (s *ContentService) UpdateItem(ctx context.Context, id uuid.UUID, params UpdateItemParams) (*domain.ContentItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := item.UpdateDetails(params.Title, params.Body, params.Author, params.Category, params.ClearCategory); err != nil {
		return nil, ErrInvalidItemData.WithDetails(err.Error())
	}
	if params.Published != nil {
		item.SetPublished(*params.Published)
	}

	var oldAssetName string
	if len(params.AssetData) > 0 {
		url, name, err := s.assets.Save(ctx, params.AssetData, params.AssetName)
		if err != nil {
			s.logger.Error(ctx, "asset write failed on update", "error", err, "itemID", id)
			return nil, ErrAssetStorage
		}
		if item.HasAsset() {
			oldAssetName = item.Asset.Name
		}
		if err := item.AttachAsset(url, name); err != nil {
			s.assets.Remove(ctx, name)
			return nil, ErrInvalidItemData.WithDetails(err.Error())
		}
	}

	if err := s.repo.Update(ctx, item); err != nil {
		if len(params.AssetData) > 0 && item.HasAsset() {
			s.assets.Remove(ctx, item.Asset.Name)
		}
		s.logger.Error(ctx, "failed to update content item", "error", err, "itemID", id)
		return nil, apperror.Wrap(err, apperror.CodeInternalError, apperror.BusinessCodeGeneral,
			"failed to update content item", http.StatusInternalServerError)
	}

	// The replaced blob is advisory cleanup, released only once the item no
	// longer references it.
	if oldAssetName != "" {
		s.assets.Remove(ctx, oldAssetName)
	}

	s.eventBus.Publish(ctx, eventbus.Event{
		Topic:   events.ContentUpdatedTopic,
		Payload: events.ContentUpdatedEvent{Item: item.Clone(), OccurredAt: time.Now()},
	})

	return item, nil
}

// DeleteItem releases the attached asset (best-effort) and removes the item.
// The asset release happens before the item becomes unreachable. A second
// delete of the same id reports not-found without further effect.
func (s *ContentService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.findByID(ctx, id)
	if err != nil {
		return err
	}

	if item.HasAsset() {
		s.assets.Remove(ctx, item.Asset.Name)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ports.ErrItemNotFound) {
			return ErrItemNotFound
		}
		s.logger.Error(ctx, "failed to delete content item", "error", err, "itemID", id)
		return apperror.Wrap(err, apperror.CodeInternalError, apperror.BusinessCodeGeneral,
			"failed to delete content item", http.StatusInternalServerError)
	}

	s.eventBus.Publish(ctx, eventbus.Event{
		Topic:   events.ContentDeletedTopic,
		Payload: events.ContentDeletedEvent{ItemID: id, OccurredAt: time.Now()},
	})

	return nil
}

// IncrementViews bumps the view counter. An absent id is a silent no-op, not
// an error.
func (s *ContentService) IncrementViews(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.findByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil
		}
		return err
	}

	item.IncrementViews()

	if err := s.repo.Update(ctx, item); err != nil {
		s.logger.Error(ctx, "failed to record view", "error", err, "itemID", id)
		return apperror.Wrap(err, apperror.CodeInternalError, apperror.BusinessCodeGeneral,
			"failed to record view", http.StatusInternalServerError)
	}

	// View bumps ride the update-class notification.
	s.eventBus.Publish(ctx, eventbus.Event{
		Topic:   events.ContentUpdatedTopic,
		Payload: events.ContentUpdatedEvent{Item: item.Clone(), OccurredAt: time.Now()},
	})

	return nil
}

// LikeItem bumps the like counter and returns the updated item.
func (s *ContentService) LikeItem(ctx context.Context, id uuid.UUID) (*domain.ContentItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}

	item.Like()

	if err := s.repo.Update(ctx, item); err != nil {
		s.logger.Error(ctx, "failed to record like", "error", err, "itemID", id)
		return nil, apperror.Wrap(err, apperror.CodeInternalError, apperror.BusinessCodeGeneral,
			"failed to record like", http.StatusInternalServerError)
	}

	s.eventBus.Publish(ctx, eventbus.Event{
		Topic:   events.ContentLikedTopic,
		Payload: events.ContentLikedEvent{Item: item.Clone(), OccurredAt: time.Now()},
	})

	return item, nil
}

// GetItem retrieves an item by ID.
func (s *ContentService) GetItem(ctx context.Context, id uuid.UUID) (*domain.ContentItem, error) {
	return s.findByID(ctx, id)
}

// ListItems returns all items ordered by creation time, most recent first.
func (s *ContentService) ListItems(ctx context.Context) ([]*domain.ContentItem, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error(ctx, "failed to list content items", "error", err)
		return nil, apperror.Wrap(err, apperror.CodeInternalError, apperror.BusinessCodeGeneral,
			"failed to list content items", http.StatusInternalServerError)
	}
	return items, nil
}

// Stats is the aggregate projection over the full item list. It is derived
// state, never stored.
type Stats struct {
	TotalItems int   `json:"total_items"`
	TotalViews int64 `json:"total_views"`
	TotalLikes int64 `json:"total_likes"`
}

// GetStats derives aggregate statistics from the item list.
func (s *ContentService) GetStats(ctx context.Context) (Stats, error) {
	items, err := s.ListItems(ctx)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{TotalItems: len(items)}
	for _, item := range items {
		stats.TotalViews += item.Views
		stats.TotalLikes += item.Likes
	}
	return stats, nil
}

// findByID fetches an item and maps repository not-found errors consistently.
func (s *ContentService) findByID(ctx context.Context, id uuid.UUID) (*domain.ContentItem, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrItemNotFound) {
			return nil, ErrItemNotFound
		}
		s.logger.Error(ctx, "failed to find content item", "error", err, "itemID", id)
		return nil, apperror.Wrap(err, apperror.CodeInternalError, apperror.BusinessCodeGeneral,
			"failed to retrieve content item", http.StatusInternalServerError)
	}
	return item, nil
}
