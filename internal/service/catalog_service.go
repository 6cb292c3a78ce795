package service

import (
	"context"
	"fmt"
	"time"

	"shopfront/internal/model"
	"shopfront/internal/query"
	"shopfront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// catalogService implements CatalogService.
type catalogService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	logger       zerolog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	logger zerolog.Logger,
) CatalogService {
	return &catalogService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		logger:       logger.With().Str("service", "catalog").Logger(),
	}
}

// List executes a listing plan and returns one page with pagination metadata.
func (s *catalogService) List(ctx context.Context, params query.Params) (*model.PagedProducts, error) {
	plan := params.Plan()

	items, total, err := s.productRepo.List(ctx, plan)
	if err != nil {
		s.logger.Error().Err(err).
			Int("page", params.Page).
			Int("limit", params.Limit).
			Msg("failed to list products")
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	if items == nil {
		items = []model.Product{}
	}

	s.logger.Debug().
		Int("count", len(items)).
		Int("total", total).
		Int("page", params.Page).
		Msg("listed products")

	return &model.PagedProducts{
		Items:      items,
		Pagination: model.NewPageInfo(params.Page, params.Limit, total),
	}, nil
}

// Get retrieves a single product by ID.
func (s *catalogService) Get(ctx context.Context, id string) (*model.Product, error) {
	if id == "" {
		s.logger.Warn().Msg("product ID is empty")
		return nil, model.ErrProductNotFound
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to get product")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if product == nil {
		s.logger.Debug().Str("product_id", id).Msg("product not found")
		return nil, model.ErrProductNotFound
	}

	return product, nil
}

// Create adds a new product on behalf of the given caller.
func (s *catalogService) Create(ctx context.Context, input *model.ProductInput, callerID string) (*model.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	exists, err := s.categoryRepo.Exists(ctx, input.CategoryID)
	if err != nil {
		s.logger.Error().Err(err).Str("category_id", input.CategoryID).Msg("failed to check category")
		return nil, fmt.Errorf("failed to check category: %w", err)
	}
	if !exists {
		s.logger.Warn().Str("category_id", input.CategoryID).Msg("category not found")
		return nil, model.ErrCategoryNotFound
	}

	now := time.Now().UTC()
	product := &model.Product{
		ID:             uuid.NewString(),
		Name:           input.Name,
		Description:    input.Description,
		Price:          input.Price,
		DiscountPrice:  input.DiscountPrice,
		CategoryID:     input.CategoryID,
		Brand:          input.Brand,
		Stock:          input.Stock,
		Specifications: input.Specifications,
		Tags:           input.Tags,
		Featured:       input.Featured,
		Status:         model.StatusActive,
		CreatedByID:    callerID,
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		s.logger.Error().Err(err).Str("product_id", product.ID).Msg("failed to create product")
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info().
		Str("product_id", product.ID).
		Str("category_id", product.CategoryID).
		Msg("product created")

	// Re-read so the response carries the resolved category and creator names.
	created, err := s.productRepo.GetByID(ctx, product.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load created product: %w", err)
	}
	if created == nil {
		return product, nil
	}
	return created, nil
}

// Update applies a partial update to a product.
func (s *catalogService) Update(ctx context.Context, id string, patch *model.ProductUpdate) (*model.Product, error) {
	current, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to load product for update")
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	if current == nil {
		return nil, model.ErrProductNotFound
	}

	if err := validateProductUpdate(patch, current); err != nil {
		return nil, err
	}

	if patch.CategoryID != nil && *patch.CategoryID != current.CategoryID {
		exists, err := s.categoryRepo.Exists(ctx, *patch.CategoryID)
		if err != nil {
			s.logger.Error().Err(err).Str("category_id", *patch.CategoryID).Msg("failed to check category")
			return nil, fmt.Errorf("failed to check category: %w", err)
		}
		if !exists {
			return nil, model.ErrCategoryNotFound
		}
	}

	found, err := s.productRepo.Update(ctx, id, patch)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to update product")
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	if !found {
		return nil, model.ErrProductNotFound
	}

	s.logger.Info().Str("product_id", id).Msg("product updated")

	updated, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load updated product: %w", err)
	}
	if updated == nil {
		return nil, model.ErrProductNotFound
	}
	return updated, nil
}

// Delete hard-deletes a product.
func (s *catalogService) Delete(ctx context.Context, id string) error {
	found, err := s.productRepo.Delete(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to delete product")
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if !found {
		return model.ErrProductNotFound
	}

	s.logger.Info().Str("product_id", id).Msg("product deleted")
	return nil
}

// validateProductInput enforces the creation invariants.
func validateProductInput(input *model.ProductInput) error {
	if input == nil {
		return model.NewDomainError(model.ErrCodeInvalidInput, "Product body is required")
	}
	if input.Name == "" {
		return model.NewDomainError(model.ErrCodeInvalidInput, "Product name is required")
	}
	if input.CategoryID == "" {
		return model.NewDomainError(model.ErrCodeInvalidInput, "Product category is required")
	}
	if input.Price < 0 {
		return model.NewDomainError(model.ErrCodeInvalidInput, "Price must not be negative")
	}
	if input.DiscountPrice != nil && *input.DiscountPrice >= input.Price {
		return model.NewDomainError(model.ErrCodeInvalidInput, "Discount price must be lower than price")
	}
	if input.Stock < 0 {
		return model.NewDomainError(model.ErrCodeInvalidInput, "Stock must not be negative")
	}
	return nil
}

// validateProductUpdate enforces the invariants against the effective
// post-update values.
func validateProductUpdate(patch *model.ProductUpdate, current *model.Product) error {
	if patch == nil {
		return model.NewDomainError(model.ErrCodeInvalidInput, "Update body is required")
	}

	price := current.Price
	if patch.Price != nil {
		price = *patch.Price
	}
	if price < 0 {
		return model.NewDomainError(model.ErrCodeInvalidInput, "Price must not be negative")
	}

	discount := current.DiscountPrice
	if patch.DiscountPrice != nil {
		discount = patch.DiscountPrice
	}
	if discount != nil && *discount >= price {
		return model.NewDomainError(model.ErrCodeInvalidInput, "Discount price must be lower than price")
	}

	if patch.Stock != nil && *patch.Stock < 0 {
		return model.NewDomainError(model.ErrCodeInvalidInput, "Stock must not be negative")
	}

	if patch.Status != nil && !model.ValidStatus(*patch.Status) {
		return model.NewDomainError(model.ErrCodeInvalidInput, "Unknown product status")
	}

	if patch.Name != nil && *patch.Name == "" {
		return model.NewDomainError(model.ErrCodeInvalidInput, "Product name must not be empty")
	}

	return nil
}
