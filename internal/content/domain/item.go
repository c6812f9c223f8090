package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// AssetRef associates an item with its attached binary asset. The public URL
// and the internal storage name always travel together: an item either has
// both or has no AssetRef at all.
type AssetRef struct {
	URL  string // Public-facing locator served to clients
	Name string // Internal storage name used by the asset store
}

// ContentItem is the unit of published content. The body is stored verbatim:
// it may contain rich markup and is never sanitized at this layer.
type ContentItem struct {
	ID        uuid.UUID
	Title     string
	Body      string
	Author    string
	Category  string
	Asset     *AssetRef
	Views     int64
	Likes     int64
	Published bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Business rule constants
const (
	MaxTitleLength    = 200
	MaxAuthorLength   = 100
	MaxCategoryLength = 100
)

// Validation errors
var (
	ErrInvalidTitle    = errors.New("title is required and must not exceed 200 characters")
	ErrInvalidBody     = errors.New("body is required")
	ErrInvalidAuthor   = errors.New("author is required and must not exceed 100 characters")
	ErrInvalidCategory = errors.New("category must not exceed 100 characters")
	ErrInvalidAsset    = errors.New("asset URL and storage name must both be set")
)

// NewContentItem creates a new item with validation. Identity and timestamps
// are assigned here; counters start at zero and the item is published by
// default.
func NewContentItem(title, body, author, category string) (*ContentItem, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if err := validateBody(body); err != nil {
		return nil, err
	}
	if err := validateAuthor(author); err != nil {
		return nil, err
	}
	if err := validateCategory(category); err != nil {
		return nil, err
	}

	now := time.Now()
	return &ContentItem{
		ID:        uuid.New(),
		Title:     title,
		Body:      body,
		Author:    author,
		Category:  category,
		Published: true,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// UpdateDetails merges the supplied fields over the item. Empty strings mean
// "leave unchanged" for title, body and author; category may be cleared via
// the clearCategory flag since an empty category is a legal value.
func (c *ContentItem) UpdateDetails(title, body, author, category string, clearCategory bool) error {
	if title != "" {
		if err := validateTitle(title); err != nil {
			return err
		}
	}
	if author != "" {
		if err := validateAuthor(author); err != nil {
			return err
		}
	}
	if category != "" {
		if err := validateCategory(category); err != nil {
			return err
		}
	}

	if title != "" {
		c.Title = title
	}
	if body != "" {
		c.Body = body
	}
	if author != "" {
		c.Author = author
	}
	if category != "" {
		c.Category = category
	} else if clearCategory {
		c.Category = ""
	}

	c.UpdatedAt = time.Now()
	return nil
}

// AttachAsset sets the asset reference. Both parts must be present.
func (c *ContentItem) AttachAsset(url, name string) error {
	if url == "" || name == "" {
		return ErrInvalidAsset
	}
	c.Asset = &AssetRef{URL: url, Name: name}
	c.UpdatedAt = time.Now()
	return nil
}

// ClearAsset removes the asset reference.
func (c *ContentItem) ClearAsset() {
	c.Asset = nil
	c.UpdatedAt = time.Now()
}

// HasAsset reports whether the item references an attached asset.
func (c *ContentItem) HasAsset() bool {
	return c.Asset != nil
}

// IncrementViews bumps the view counter. Counters only ever grow for the
// lifetime of the item.
func (c *ContentItem) IncrementViews() {
	c.Views++
	c.UpdatedAt = time.Now()
}

// Like bumps the like counter. There is no unlike path.
func (c *ContentItem) Like() {
	c.Likes++
	c.UpdatedAt = time.Now()
}

// SetPublished flips the published flag.
func (c *ContentItem) SetPublished(published bool) {
	c.Published = published
	c.UpdatedAt = time.Now()
}

// Clone returns a deep copy. Repositories hand out clones so callers can
// never mutate stored state without going through an operation.
func (c *ContentItem) Clone() *ContentItem {
	clone := *c
	if c.Asset != nil {
		asset := *c.Asset
		clone.Asset = &asset
	}
	return &clone
}

// Validation helpers

func validateTitle(title string) error {
	if title == "" || len(title) > MaxTitleLength {
		return ErrInvalidTitle
	}
	return nil
}

func validateBody(body string) error {
	if body == "" {
		return ErrInvalidBody
	}
	return nil
}

func validateAuthor(author string) error {
	if author == "" || len(author) > MaxAuthorLength {
		return ErrInvalidAuthor
	}
	return nil
}

func validateCategory(category string) error {
	if len(category) > MaxCategoryLength {
		return ErrInvalidCategory
	}
	return nil
}
