package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mchugh/liveblog/internal/content/domain"
	"github.com/mchugh/liveblog/internal/content/ports"
	"github.com/mchugh/liveblog/internal/platform/postgres"
)

// ContentRepository implements ports.ContentRepository using PostgreSQL
type ContentRepository struct {
	postgres.BaseRepository // Embed the base repository for common functionality
}

// NewContentRepository creates a new PostgreSQL content repository
func NewContentRepository(db *pgxpool.Pool) *ContentRepository {
	return &ContentRepository{
		BaseRepository: postgres.NewBaseRepository(db),
	}
}

var contentColumns = []string{
	"id", "title", "body", "author", "category",
	"asset_url", "asset_name", "views", "likes", "published",
	"created_at", "updated_at",
}

// Create inserts a new content item into the database
func (r *ContentRepository) Create(ctx context.Context, item *domain.ContentItem) error {
	assetURL, assetName := assetColumns(item)

	query, args, err := r.SB.
		Insert("content_items").
		Columns(contentColumns...).
		Values(
			pgtype.UUID{Bytes: item.ID, Valid: true},
			item.Title,
			item.Body,
			item.Author,
			nullableText(item.Category),
			assetURL,
			assetName,
			item.Views,
			item.Likes,
			item.Published,
			pgtype.Timestamptz{Time: item.CreatedAt, Valid: true},
			pgtype.Timestamptz{Time: item.UpdatedAt, Valid: true},
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("ContentRepository.Create: build query: %w", err)
	}

	_, err = r.DB.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("ContentRepository.Create: %w", err)
	}

	return nil
}

// Update overwrites an existing item in the database
func (r *ContentRepository) Update(ctx context.Context, item *domain.ContentItem) error {
	assetURL, assetName := assetColumns(item)

	query, args, err := r.SB.
		Update("content_items").
		Set("title", item.Title).
		Set("body", item.Body).
		Set("author", item.Author).
		Set("category", nullableText(item.Category)).
		Set("asset_url", assetURL).
		Set("asset_name", assetName).
		Set("views", item.Views).
		Set("likes", item.Likes).
		Set("published", item.Published).
		Set("updated_at", pgtype.Timestamptz{Time: item.UpdatedAt, Valid: true}).
		Where(sq.Eq{"id": pgtype.UUID{Bytes: item.ID, Valid: true}}).
		ToSql()
	if err != nil {
		return fmt.Errorf("ContentRepository.Update: build query: %w", err)
	}

	result, err := r.DB.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("ContentRepository.Update: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ports.ErrItemNotFound
	}

	return nil
}

// Delete removes an item from the database
func (r *ContentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query, args, err := r.SB.
		Delete("content_items").
		Where(sq.Eq{"id": pgtype.UUID{Bytes: id, Valid: true}}).
		ToSql()
	if err != nil {
		return fmt.Errorf("ContentRepository.Delete: build query: %w", err)
	}

	result, err := r.DB.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("ContentRepository.Delete: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ports.ErrItemNotFound
	}

	return nil
}

// FindByID retrieves an item by its ID
func (r *ContentRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.ContentItem, error) {
	query, args, err := r.SB.
		Select(contentColumns...).
		From("content_items").
		Where(sq.Eq{"id": pgtype.UUID{Bytes: id, Valid: true}}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ContentRepository.FindByID: build query: %w", err)
	}

	row := r.DB.QueryRow(ctx, query, args...)
	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ports.ErrItemNotFound
		}
		return nil, fmt.Errorf("ContentRepository.FindByID: %w", err)
	}

	return item, nil
}

// List retrieves all items ordered by creation time, most recent first
func (r *ContentRepository) List(ctx context.Context) ([]*domain.ContentItem, error) {
	query, args, err := r.SB.
		Select(contentColumns...).
		From("content_items").
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ContentRepository.List: build query: %w", err)
	}

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ContentRepository.List: %w", err)
	}
	defer rows.Close()

	var items []*domain.ContentItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("ContentRepository.List: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ContentRepository.List: rows error: %w", err)
	}

	return items, nil
}

// scanItem scans a single row into a domain content item
func scanItem(row pgx.Row) (*domain.ContentItem, error) {
	var (
		id        pgtype.UUID
		category  pgtype.Text
		assetURL  pgtype.Text
		assetName pgtype.Text
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
		item      domain.ContentItem
	)

	err := row.Scan(
		&id,
		&item.Title,
		&item.Body,
		&item.Author,
		&category,
		&assetURL,
		&assetName,
		&item.Views,
		&item.Likes,
		&item.Published,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	item.ID = uuid.UUID(id.Bytes)
	if category.Valid {
		item.Category = category.String
	}
	if assetURL.Valid && assetName.Valid {
		item.Asset = &domain.AssetRef{URL: assetURL.String, Name: assetName.String}
	}
	item.CreatedAt = createdAt.Time
	item.UpdatedAt = updatedAt.Time

	return &item, nil
}

// assetColumns flattens the optional asset reference into nullable columns
func assetColumns(item *domain.ContentItem) (pgtype.Text, pgtype.Text) {
	if item.Asset == nil {
		return pgtype.Text{}, pgtype.Text{}
	}
	return pgtype.Text{String: item.Asset.URL, Valid: true},
		pgtype.Text{String: item.Asset.Name, Valid: true}
}

// nullableText maps an empty string to SQL NULL
func nullableText(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}
