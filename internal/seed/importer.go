package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// seedUserName identifies the synthetic user that owns imported products.
const seedUserName = "catalog-import"

// Importer writes seed records into the store. Categories are resolved
// by slug and created on first sight; products are inserted fresh with
// an empty review history.
type Importer struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewImporter creates a new seed importer.
func NewImporter(pool *pgxpool.Pool, logger zerolog.Logger) *Importer {
	return &Importer{
		pool:   pool,
		logger: logger.With().Str("component", "seed-importer").Logger(),
	}
}

// Import inserts the given records. Products whose name already exists
// under the same category are skipped so repeated startups stay
// idempotent.
func (i *Importer) Import(ctx context.Context, records []Record) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	ownerID, err := i.ensureSeedUser(ctx)
	if err != nil {
		return 0, err
	}

	categories := make(map[string]string) // slug -> id
	imported := 0

	for _, rec := range records {
		categoryID, ok := categories[rec.CategorySlug]
		if !ok {
			categoryID, err = i.ensureCategory(ctx, rec.CategoryName, rec.CategorySlug)
			if err != nil {
				return imported, err
			}
			categories[rec.CategorySlug] = categoryID
		}

		inserted, err := i.insertProduct(ctx, rec, categoryID, ownerID)
		if err != nil {
			return imported, err
		}
		if inserted {
			imported++
		}
	}

	i.logger.Info().
		Int("records", len(records)).
		Int("imported", imported).
		Msg("seed import finished")

	return imported, nil
}

// ensureSeedUser finds or creates the synthetic import user.
func (i *Importer) ensureSeedUser(ctx context.Context) (string, error) {
	id := uuid.NewString()
	err := i.pool.QueryRow(ctx, `
		INSERT INTO users (id, name, avatar)
		VALUES ($1, $2, '')
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`,
		id, seedUserName,
	).Scan(&id)
	if err != nil {
		i.logger.Error().Err(err).Msg("failed to ensure seed user")
		return "", fmt.Errorf("failed to ensure seed user: %w", err)
	}
	return id, nil
}

// ensureCategory finds or creates a category by slug.
func (i *Importer) ensureCategory(ctx context.Context, name, slug string) (string, error) {
	id := uuid.NewString()
	err := i.pool.QueryRow(ctx, `
		INSERT INTO categories (id, name, slug, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`,
		id, name, slug, time.Now().UTC(),
	).Scan(&id)
	if err != nil {
		i.logger.Error().Err(err).Str("slug", slug).Msg("failed to ensure category")
		return "", fmt.Errorf("failed to ensure category %s: %w", slug, err)
	}
	return id, nil
}

// insertProduct inserts one seed product unless an identically named
// product already exists in the category.
func (i *Importer) insertProduct(ctx context.Context, rec Record, categoryID, ownerID string) (bool, error) {
	var exists bool
	err := i.pool.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM products WHERE name = $1 AND category_id = $2)",
		rec.Name, categoryID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check existing product: %w", err)
	}
	if exists {
		return false, nil
	}

	specs, err := json.Marshal(rec.Specifications)
	if err != nil {
		return false, fmt.Errorf("failed to marshal specifications: %w", err)
	}

	now := time.Now().UTC()
	_, err = i.pool.Exec(ctx, `
		INSERT INTO products (
			id, name, description, price, discount_price, category_id, brand,
			stock, specifications, tags, featured, status, ratings,
			num_of_reviews, created_by, version, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, 'active', 0, 0, $12, 1, $13, $13)`,
		uuid.NewString(), rec.Name, rec.Description, rec.Price, rec.DiscountPrice,
		categoryID, rec.Brand, rec.Stock, specs, rec.Tags, rec.Featured, ownerID, now,
	)
	if err != nil {
		i.logger.Error().Err(err).Str("name", rec.Name).Msg("failed to insert seed product")
		return false, fmt.Errorf("failed to insert seed product %s: %w", rec.Name, err)
	}

	return true, nil
}
