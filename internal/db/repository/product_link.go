package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/creatorlink/product-pipeline-go/internal/db"
	"github.com/creatorlink/product-pipeline-go/internal/db/models"
)

// ProductLinkRepository defines operations for managing reconciled product
// links.
type ProductLinkRepository interface {
	// ReplaceForVideo atomically replaces all product links for a video.
	// Reprocessing a video must not accumulate stale rows.
	ReplaceForVideo(ctx context.Context, videoID string, links []*models.ProductLink) error

	// GetByVideoID retrieves the product links for a video in description
	// order.
	GetByVideoID(ctx context.Context, videoID string) ([]*models.ProductLink, error)

	// CountByVideoID returns the number of product links stored for a video.
	CountByVideoID(ctx context.Context, videoID string) (int, error)
}

type productLinkRepository struct {
	pool *pgxpool.Pool
}

// NewProductLinkRepository creates a new ProductLinkRepository.
func NewProductLinkRepository(pool *pgxpool.Pool) ProductLinkRepository {
	return &productLinkRepository{pool: pool}
}

func (r *productLinkRepository) ReplaceForVideo(ctx context.Context, videoID string, links []*models.ProductLink) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return db.WrapError(err, "begin replace product links")
	}
	defer tx.Rollback(ctx) // Rollback is safe to call even if committed

	if _, err := tx.Exec(ctx, `DELETE FROM product_links WHERE video_id = $1`, videoID); err != nil {
		return db.WrapError(err, "delete product links")
	}

	query := `
		INSERT INTO product_links (id, video_id, brand, name, product_type, search_query, shopmy_url, amazon_url, original_url, price, image_url, source, position, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	for _, link := range links {
		if link.ID == uuid.Nil {
			link.ID = uuid.New()
		}
		link.VideoID = videoID

		if _, err := tx.Exec(ctx, query,
			link.ID,
			link.VideoID,
			link.Brand,
			link.Name,
			link.ProductType,
			link.SearchQuery,
			link.ShopMyURL,
			link.AmazonURL,
			link.OriginalURL,
			link.Price,
			link.ImageURL,
			link.Source,
			link.Position,
			link.CreatedAt,
		); err != nil {
			return db.WrapError(err, "insert product link")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return db.WrapError(err, "commit replace product links")
	}

	return nil
}

func (r *productLinkRepository) GetByVideoID(ctx context.Context, videoID string) ([]*models.ProductLink, error) {
	query := `
		SELECT id, video_id, brand, name, product_type, search_query, shopmy_url, amazon_url, original_url, price, image_url, source, position, created_at
		FROM product_links
		WHERE video_id = $1
		ORDER BY position ASC
	`

	rows, err := r.pool.Query(ctx, query, videoID)
	if err != nil {
		return nil, db.WrapError(err, "get product links by video id")
	}
	defer rows.Close()

	return scanProductLinks(rows)
}

func (r *productLinkRepository) CountByVideoID(ctx context.Context, videoID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM product_links WHERE video_id = $1`, videoID).Scan(&count)
	if err != nil {
		return 0, db.WrapError(err, "count product links")
	}
	return count, nil
}

func scanProductLinks(rows pgx.Rows) ([]*models.ProductLink, error) {
	var links []*models.ProductLink

	for rows.Next() {
		link := &models.ProductLink{}
		err := rows.Scan(
			&link.ID,
			&link.VideoID,
			&link.Brand,
			&link.Name,
			&link.ProductType,
			&link.SearchQuery,
			&link.ShopMyURL,
			&link.AmazonURL,
			&link.OriginalURL,
			&link.Price,
			&link.ImageURL,
			&link.Source,
			&link.Position,
			&link.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan product link: %w", err)
		}
		links = append(links, link)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product links: %w", err)
	}

	return links, nil
}
