package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"shopfront/internal/model"
	"shopfront/internal/query"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// productColumns is the shaped select list shared by List and GetByID:
// raw product fields plus the shallow category/creator join.
const productColumns = `
	p.id, p.name, p.description, p.price, p.discount_price, p.category_id,
	COALESCE(c.name, ''), COALESCE(c.slug, ''), p.brand, p.stock,
	p.specifications, p.tags, p.featured, p.status, p.ratings,
	p.num_of_reviews, p.created_by, COALESCE(u.name, ''), p.version,
	p.created_at, p.updated_at`

const productJoins = `
	FROM products p
	LEFT JOIN categories c ON c.id = p.category_id
	LEFT JOIN users u ON u.id = p.created_by`

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

// List executes a page plan and returns one page plus the unpaginated total.
func (r *productRepository) List(ctx context.Context, plan query.Plan) ([]model.Product, int, error) {
	args := append([]any{}, plan.Args...)
	limitIdx := len(args) + 1

	sql := fmt.Sprintf(`
		SELECT %s, count(*) OVER() AS total_count
		%s
		%s
		ORDER BY %s
		LIMIT $%d OFFSET $%d`,
		productColumns, productJoins, plan.WhereClause(), plan.OrderBy, limitIdx, limitIdx+1,
	)
	args = append(args, plan.Limit, plan.Offset)

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		r.logger.Error().Err(err).
			Int("conditions", len(plan.Conditions)).
			Msg("failed to query products")
		return nil, 0, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var (
		products []model.Product
		total    int
	)
	for rows.Next() {
		p, t, err := scanProductWithTotal(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}
		total = t
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, 0, fmt.Errorf("error iterating products: %w", err)
	}

	// A page past the end returns no rows, so the windowed total is
	// missing; fetch the bare count instead.
	if len(products) == 0 {
		countSQL := fmt.Sprintf("SELECT count(*) %s %s", productJoins, plan.WhereClause())
		if err := r.pool.QueryRow(ctx, countSQL, plan.Args...).Scan(&total); err != nil {
			r.logger.Error().Err(err).Msg("failed to count products")
			return nil, 0, fmt.Errorf("failed to count products: %w", err)
		}
	}

	return products, total, nil
}

// GetByID retrieves a single product with its reviews and resolved
// reviewer identity.
func (r *productRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	sql := fmt.Sprintf("SELECT %s %s WHERE p.id = $1", productColumns, productJoins)

	row := r.pool.QueryRow(ctx, sql, id)
	p, err := scanProduct(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("product_id", id).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	reviews, err := r.listReviews(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Reviews = reviews

	return &p, nil
}

// listReviews loads every review of a product with the reviewer's
// current name and avatar. Unpaginated; acceptable at catalogue scale.
func (r *productRepository) listReviews(ctx context.Context, productID string) ([]model.Review, error) {
	sql := `
		SELECT r.id, r.product_id, r.user_id, r.name, r.rating, r.comment,
		       COALESCE(u.name, ''), COALESCE(u.avatar, ''), r.created_at
		FROM reviews r
		LEFT JOIN users u ON u.id = r.user_id
		WHERE r.product_id = $1
		ORDER BY r.created_at, r.id
	`

	rows, err := r.pool.Query(ctx, sql, productID)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", productID).Msg("failed to query reviews")
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer rows.Close()

	var reviews []model.Review
	for rows.Next() {
		var rv model.Review
		err := rows.Scan(&rv.ID, &rv.ProductID, &rv.UserID, &rv.Name, &rv.Rating,
			&rv.Comment, &rv.ReviewerName, &rv.ReviewerAvatar, &rv.CreatedAt)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan review row")
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, rv)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating review rows")
		return nil, fmt.Errorf("error iterating reviews: %w", err)
	}

	return reviews, nil
}

// Create inserts a new product.
func (r *productRepository) Create(ctx context.Context, p *model.Product) error {
	specs, err := json.Marshal(p.Specifications)
	if err != nil {
		return fmt.Errorf("failed to marshal specifications: %w", err)
	}

	sql := `
		INSERT INTO products (
			id, name, description, price, discount_price, category_id, brand,
			stock, specifications, tags, featured, status, ratings,
			num_of_reviews, created_by, version, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	_, err = r.pool.Exec(ctx, sql,
		p.ID, p.Name, p.Description, p.Price, p.DiscountPrice, p.CategoryID,
		p.Brand, p.Stock, specs, p.Tags, p.Featured, p.Status, p.Ratings,
		p.NumOfReviews, p.CreatedByID, p.Version, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", p.ID).Msg("failed to insert product")
		return fmt.Errorf("failed to insert product: %w", err)
	}

	r.logger.Debug().Str("product_id", p.ID).Msg("product created")
	return nil
}

// Update applies a partial update; only supplied fields overwrite.
func (r *productRepository) Update(ctx context.Context, id string, patch *model.ProductUpdate) (bool, error) {
	var (
		sets     []string
		args     []any
		argIndex = 1
	)

	set := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argIndex))
		args = append(args, value)
		argIndex++
	}

	if patch.Name != nil {
		set("name", *patch.Name)
	}
	if patch.Description != nil {
		set("description", *patch.Description)
	}
	if patch.Price != nil {
		set("price", *patch.Price)
	}
	if patch.DiscountPrice != nil {
		set("discount_price", *patch.DiscountPrice)
	}
	if patch.CategoryID != nil {
		set("category_id", *patch.CategoryID)
	}
	if patch.Brand != nil {
		set("brand", *patch.Brand)
	}
	if patch.Stock != nil {
		set("stock", *patch.Stock)
	}
	if patch.Specifications != nil {
		specs, err := json.Marshal(patch.Specifications)
		if err != nil {
			return false, fmt.Errorf("failed to marshal specifications: %w", err)
		}
		set("specifications", specs)
	}
	if patch.Tags != nil {
		set("tags", patch.Tags)
	}
	if patch.Featured != nil {
		set("featured", *patch.Featured)
	}
	if patch.Status != nil {
		set("status", *patch.Status)
	}

	if len(sets) == 0 {
		// Nothing to change; still report whether the product exists.
		var exists bool
		err := r.pool.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)", id).Scan(&exists)
		if err != nil {
			return false, fmt.Errorf("failed to check product: %w", err)
		}
		return exists, nil
	}

	set("updated_at", time.Now().UTC())
	sets = append(sets, "version = version + 1")

	sql := fmt.Sprintf("UPDATE products SET %s WHERE id = $%d", strings.Join(sets, ", "), argIndex)
	args = append(args, id)

	tag, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to update product")
		return false, fmt.Errorf("failed to update product: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// Delete removes a product; its reviews go with it via the cascading
// foreign key.
func (r *productRepository) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to delete product")
		return false, fmt.Errorf("failed to delete product: %w", err)
	}

	if tag.RowsAffected() == 0 {
		r.logger.Debug().Str("product_id", id).Msg("product not found")
		return false, nil
	}

	r.logger.Debug().Str("product_id", id).Msg("product deleted")
	return true, nil
}

// GetForReview reads the product's version and existing reviews.
func (r *productRepository) GetForReview(ctx context.Context, id string) (*ProductReviewState, error) {
	state := &ProductReviewState{ProductID: id}

	err := r.pool.QueryRow(ctx, "SELECT version FROM products WHERE id = $1", id).Scan(&state.Version)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("product_id", id).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to query product version")
		return nil, fmt.Errorf("failed to query product version: %w", err)
	}

	rows, err := r.pool.Query(ctx, "SELECT user_id, rating FROM reviews WHERE product_id = $1 ORDER BY created_at, id", id)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to query review state")
		return nil, fmt.Errorf("failed to query review state: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var stub ReviewStub
		if err := rows.Scan(&stub.UserID, &stub.Rating); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan review state row")
			return nil, fmt.Errorf("failed to scan review state: %w", err)
		}
		state.Reviews = append(state.Reviews, stub)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating review state rows")
		return nil, fmt.Errorf("error iterating review state: %w", err)
	}

	return state, nil
}

// AddReview appends a review and writes the recomputed aggregate in one
// transaction. The aggregate update is a compare-and-swap on the
// product version read by GetForReview; losing the swap rolls back the
// whole transaction, review row included.
func (r *productRepository) AddReview(ctx context.Context, review *model.Review, expectedVersion int64, ratings float64, numOfReviews int) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	_, err = tx.Exec(ctx, `
		INSERT INTO reviews (id, product_id, user_id, name, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		review.ID, review.ProductID, review.UserID, review.Name,
		review.Rating, review.Comment, review.CreatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).
			Str("product_id", review.ProductID).
			Str("user_id", review.UserID).
			Msg("failed to insert review")
		return fmt.Errorf("failed to insert review: %w", err)
	}

	tag, err := tx.Exec(ctx, `
		UPDATE products
		SET ratings = $1, num_of_reviews = $2, version = version + 1, updated_at = $3
		WHERE id = $4 AND version = $5`,
		ratings, numOfReviews, time.Now().UTC(), review.ProductID, expectedVersion,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", review.ProductID).Msg("failed to update rating aggregate")
		return fmt.Errorf("failed to update rating aggregate: %w", err)
	}

	if tag.RowsAffected() == 0 {
		r.logger.Debug().
			Str("product_id", review.ProductID).
			Int64("expected_version", expectedVersion).
			Msg("product version changed, aborting review write")
		return ErrVersionConflict
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.Error().Err(err).Str("product_id", review.ProductID).Msg("failed to commit review")
		return fmt.Errorf("failed to commit review: %w", err)
	}

	r.logger.Debug().
		Str("product_id", review.ProductID).
		Str("user_id", review.UserID).
		Int("num_of_reviews", numOfReviews).
		Msg("review added")

	return nil
}

// rowScanner covers pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (model.Product, error) {
	var (
		p     model.Product
		specs []byte
	)
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.DiscountPrice,
		&p.CategoryID, &p.CategoryName, &p.CategorySlug, &p.Brand, &p.Stock,
		&specs, &p.Tags, &p.Featured, &p.Status, &p.Ratings, &p.NumOfReviews,
		&p.CreatedByID, &p.CreatedByName, &p.Version, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return model.Product{}, err
	}

	if len(specs) > 0 {
		if err := json.Unmarshal(specs, &p.Specifications); err != nil {
			return model.Product{}, fmt.Errorf("failed to unmarshal specifications: %w", err)
		}
	}

	return p, nil
}

func scanProductWithTotal(rows pgx.Rows) (model.Product, int, error) {
	var (
		p     model.Product
		specs []byte
		total int
	)
	err := rows.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.DiscountPrice,
		&p.CategoryID, &p.CategoryName, &p.CategorySlug, &p.Brand, &p.Stock,
		&specs, &p.Tags, &p.Featured, &p.Status, &p.Ratings, &p.NumOfReviews,
		&p.CreatedByID, &p.CreatedByName, &p.Version, &p.CreatedAt, &p.UpdatedAt,
		&total,
	)
	if err != nil {
		return model.Product{}, 0, err
	}

	if len(specs) > 0 {
		if err := json.Unmarshal(specs, &p.Specifications); err != nil {
			return model.Product{}, 0, fmt.Errorf("failed to unmarshal specifications: %w", err)
		}
	}

	return p, total, nil
}
