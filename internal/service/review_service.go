package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shopfront/internal/model"
	"shopfront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// maxReviewAttempts bounds the optimistic retry loop. Conflicts are
// per-product and resolve quickly, so a small bound suffices.
const maxReviewAttempts = 3

// reviewService implements ReviewService.
type reviewService struct {
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(productRepo repository.ProductRepository, logger zerolog.Logger) ReviewService {
	return &reviewService{
		productRepo: productRepo,
		logger:      logger.With().Str("service", "review").Logger(),
	}
}

// Add appends a review and recomputes the rating aggregate. The
// read-check-append-recompute sequence is retried when a concurrent
// writer bumps the product version between the read and the write, so
// two submissions by the same user can never both land and no aggregate
// update is lost.
func (s *reviewService) Add(ctx context.Context, productID, callerID, callerName string, input *model.ReviewInput) error {
	if input == nil {
		return model.NewDomainError(model.ErrCodeInvalidInput, "Review body is required")
	}
	if input.Rating < 1 || input.Rating > 5 {
		s.logger.Warn().
			Str("product_id", productID).
			Int("rating", input.Rating).
			Msg("rating out of range")
		return model.ErrInvalidRating
	}

	for attempt := 1; attempt <= maxReviewAttempts; attempt++ {
		state, err := s.productRepo.GetForReview(ctx, productID)
		if err != nil {
			s.logger.Error().Err(err).Str("product_id", productID).Msg("failed to load review state")
			return fmt.Errorf("failed to load review state: %w", err)
		}
		if state == nil {
			s.logger.Debug().Str("product_id", productID).Msg("product not found")
			return model.ErrProductNotFound
		}

		for _, existing := range state.Reviews {
			if existing.UserID == callerID {
				s.logger.Debug().
					Str("product_id", productID).
					Str("user_id", callerID).
					Msg("duplicate review rejected")
				return model.ErrDuplicateReview
			}
		}

		// Aggregate recompute over the post-append review list.
		sum := input.Rating
		for _, existing := range state.Reviews {
			sum += existing.Rating
		}
		count := len(state.Reviews) + 1
		mean := float64(sum) / float64(count)

		review := &model.Review{
			ID:        uuid.NewString(),
			ProductID: productID,
			UserID:    callerID,
			Name:      callerName,
			Rating:    input.Rating,
			Comment:   input.Comment,
			CreatedAt: time.Now().UTC(),
		}

		err = s.productRepo.AddReview(ctx, review, state.Version, mean, count)
		if err == nil {
			s.logger.Info().
				Str("product_id", productID).
				Str("user_id", callerID).
				Int("num_of_reviews", count).
				Float64("ratings", mean).
				Msg("review added")
			return nil
		}

		if errors.Is(err, repository.ErrVersionConflict) {
			s.logger.Debug().
				Str("product_id", productID).
				Int("attempt", attempt).
				Msg("review write conflicted, retrying")
			continue
		}

		s.logger.Error().Err(err).Str("product_id", productID).Msg("failed to add review")
		return fmt.Errorf("failed to add review: %w", err)
	}

	s.logger.Warn().
		Str("product_id", productID).
		Int("attempts", maxReviewAttempts).
		Msg("review write conflicted on every attempt")
	return model.ErrConflict
}
