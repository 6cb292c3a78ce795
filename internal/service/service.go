package service

import (
	"context"

	"shopfront/internal/model"
	"shopfront/internal/query"
)

// CatalogService defines operations for browsing and managing products.
type CatalogService interface {
	// List executes a validated listing plan and returns one page with
	// pagination metadata.
	List(ctx context.Context, params query.Params) (*model.PagedProducts, error)

	// Get retrieves a single product with its reviews and resolved
	// reviewer identity.
	Get(ctx context.Context, id string) (*model.Product, error)

	// Create adds a new product on behalf of the given caller.
	Create(ctx context.Context, input *model.ProductInput, callerID string) (*model.Product, error)

	// Update applies a partial update; only supplied fields overwrite.
	Update(ctx context.Context, id string, patch *model.ProductUpdate) (*model.Product, error)

	// Delete hard-deletes a product.
	Delete(ctx context.Context, id string) error
}

// ReviewService defines operations for submitting product reviews.
type ReviewService interface {
	// Add appends a review for the caller and recomputes the product's
	// rating aggregate atomically with the append.
	Add(ctx context.Context, productID, callerID, callerName string, input *model.ReviewInput) error
}
