package repository

import (
	"context"
	"errors"

	"shopfront/internal/model"
	"shopfront/internal/query"
)

// ErrVersionConflict is returned when an optimistic update loses the
// race against a concurrent writer on the same product.
var ErrVersionConflict = errors.New("product version conflict")

// ReviewStub is the slice of an existing review needed for the
// duplicate check and the aggregate recompute.
type ReviewStub struct {
	UserID string
	Rating int
}

// ProductReviewState is the snapshot of a product read at the start of
// a review submission: its optimistic version and the existing reviews.
type ProductReviewState struct {
	ProductID string
	Version   int64
	Reviews   []ReviewStub
}

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// List executes a page plan and returns one page of products plus
	// the unpaginated total of matching rows.
	List(ctx context.Context, plan query.Plan) ([]model.Product, int, error)

	// GetByID retrieves a single product with category/creator names and
	// the full review list (reviewer identity resolved). Returns nil when
	// the product does not exist.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// Create inserts a new product.
	Create(ctx context.Context, p *model.Product) error

	// Update applies a partial update; only supplied fields overwrite.
	// Returns false when the product does not exist.
	Update(ctx context.Context, id string, patch *model.ProductUpdate) (bool, error)

	// Delete removes a product and its reviews. Returns false when the
	// product does not exist.
	Delete(ctx context.Context, id string) (bool, error)

	// GetForReview reads the review state of a product. Returns nil when
	// the product does not exist.
	GetForReview(ctx context.Context, id string) (*ProductReviewState, error)

	// AddReview appends a review and writes the recomputed aggregate in
	// one transaction, conditioned on the product version being
	// unchanged since GetForReview. Returns ErrVersionConflict when a
	// concurrent writer got there first.
	AddReview(ctx context.Context, review *model.Review, expectedVersion int64, ratings float64, numOfReviews int) error
}

// CategoryRepository defines the interface for category data access operations.
type CategoryRepository interface {
	// Exists reports whether a category with the given ID exists.
	Exists(ctx context.Context, id string) (bool, error)

	// GetByID retrieves a category, or nil when absent.
	GetByID(ctx context.Context, id string) (*model.Category, error)
}
