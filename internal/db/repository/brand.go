package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/creatorlink/product-pipeline-go/internal/db"
	"github.com/creatorlink/product-pipeline-go/internal/db/models"
	"github.com/creatorlink/product-pipeline-go/internal/model"
)

// BrandRepository defines operations for managing the brand directory. Its
// FetchActive method satisfies the directory refresh source used by the
// parser.
type BrandRepository interface {
	// FetchActive returns all active brands as directory entries.
	FetchActive(ctx context.Context) ([]model.BrandEntry, error)

	// UpsertBrand creates a brand or updates its aliases and active flag.
	UpsertBrand(ctx context.Context, brand *models.Brand) error

	// ListBrands retrieves all brands, active and inactive.
	ListBrands(ctx context.Context) ([]*models.Brand, error)
}

type brandRepository struct {
	pool *pgxpool.Pool
}

// NewBrandRepository creates a new BrandRepository.
func NewBrandRepository(pool *pgxpool.Pool) BrandRepository {
	return &brandRepository{pool: pool}
}

func (r *brandRepository) FetchActive(ctx context.Context) ([]model.BrandEntry, error) {
	query := `SELECT name, aliases FROM brands WHERE active ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, db.WrapError(err, "fetch active brands")
	}
	defer rows.Close()

	var entries []model.BrandEntry
	for rows.Next() {
		var entry model.BrandEntry
		if err := rows.Scan(&entry.Name, &entry.Aliases); err != nil {
			return nil, fmt.Errorf("scan brand entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate brand entries: %w", err)
	}

	return entries, nil
}

func (r *brandRepository) UpsertBrand(ctx context.Context, brand *models.Brand) error {
	if brand.ID == uuid.Nil {
		brand.ID = uuid.New()
	}

	query := `
		INSERT INTO brands (id, name, aliases, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (name) DO UPDATE
		SET aliases = EXCLUDED.aliases,
		    active = EXCLUDED.active,
		    updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		brand.ID,
		brand.Name,
		brand.Aliases,
		brand.Active,
	).Scan(
		&brand.ID,
		&brand.CreatedAt,
		&brand.UpdatedAt,
	)

	if err != nil {
		return db.WrapError(err, "upsert brand")
	}

	return nil
}

func (r *brandRepository) ListBrands(ctx context.Context) ([]*models.Brand, error) {
	query := `SELECT id, name, aliases, active, created_at, updated_at FROM brands ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, db.WrapError(err, "list brands")
	}
	defer rows.Close()

	var brands []*models.Brand
	for rows.Next() {
		brand := &models.Brand{}
		err := rows.Scan(
			&brand.ID,
			&brand.Name,
			&brand.Aliases,
			&brand.Active,
			&brand.CreatedAt,
			&brand.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan brand: %w", err)
		}
		brands = append(brands, brand)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate brands: %w", err)
	}

	return brands, nil
}
