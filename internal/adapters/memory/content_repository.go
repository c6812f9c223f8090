package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/mchugh/liveblog/internal/content/domain"
	"github.com/mchugh/liveblog/internal/content/ports"
)

// entry pairs an item with its insertion sequence so List ordering stays
// stable when two items share a creation timestamp.
type entry struct {
	item *domain.ContentItem
	seq  uint64
}

// ContentRepository is the in-memory implementation of the content storage
// contract. It is the canonical single-process backend: all state lives in
// one map guarded by a whole-store RWMutex, and items are cloned on the way
// in and out so callers can never alias stored state.
type ContentRepository struct {
	mu      sync.RWMutex
	items   map[uuid.UUID]entry
	nextSeq uint64
}

// NewContentRepository creates an empty in-memory repository.
func NewContentRepository() *ContentRepository {
	return &ContentRepository{
		items: make(map[uuid.UUID]entry),
	}
}

// Create saves a new item.
func (r *ContentRepository) Create(ctx context.Context, item *domain.ContentItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextSeq++
	r.items[item.ID] = entry{item: item.Clone(), seq: r.nextSeq}
	return nil
}

// FindByID retrieves an item by its ID.
func (r *ContentRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.ContentItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.items[id]
	if !ok {
		return nil, ports.ErrItemNotFound
	}
	return e.item.Clone(), nil
}

// Update overwrites an existing item.
func (r *ContentRepository) Update(ctx context.Context, item *domain.ContentItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.items[item.ID]
	if !ok {
		return ports.ErrItemNotFound
	}
	r.items[item.ID] = entry{item: item.Clone(), seq: e.seq}
	return nil
}

// Delete removes an item.
func (r *ContentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return ports.ErrItemNotFound
	}
	delete(r.items, id)
	return nil
}

// List returns all items ordered by creation time, most recent first.
func (r *ContentRepository) List(ctx context.Context) ([]*domain.ContentItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]entry, 0, len(r.items))
	for _, e := range r.items {
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.item.CreatedAt.Equal(b.item.CreatedAt) {
			return a.item.CreatedAt.After(b.item.CreatedAt)
		}
		return a.seq > b.seq
	})

	items := make([]*domain.ContentItem, len(entries))
	for i, e := range entries {
		items[i] = e.item.Clone()
	}
	return items, nil
}

var _ ports.ContentRepository = (*ContentRepository)(nil)
