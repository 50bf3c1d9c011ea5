// internal/services/review_service.go
package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/javajoker/fragrance-catalog/internal/database"
	"github.com/javajoker/fragrance-catalog/internal/metrics"
	"github.com/javajoker/fragrance-catalog/internal/models"
	"github.com/javajoker/fragrance-catalog/internal/utils"
)

type ReviewService struct {
	store *database.Handle
}

type CreateReviewRequest struct {
	FragranceID uint    `json:"fragrance_id" validate:"required"`
	Rating      int     `json:"rating" validate:"required,min=1,max=5"`
	Text        *string `json:"text,omitempty" validate:"omitempty,max=5000"`
}

type UpdateReviewRequest struct {
	Rating int     `json:"rating" validate:"required,min=1,max=5"`
	Text   *string `json:"text,omitempty" validate:"omitempty,max=5000"`
}

func NewReviewService(store *database.Handle) *ReviewService {
	return &ReviewService{store: store}
}

// CreateReview stores a review owned by the caller; the display name is the
// caller's username.
func (s *ReviewService) CreateReview(ctx context.Context, identity utils.Identity, req *CreateReviewRequest) (*models.Review, error) {
	if err := checkRating(req.Rating); err != nil {
		return nil, err
	}

	db, cancel := s.store.WithTimeout(ctx)
	defer cancel()

	var count int64
	if err := db.Model(&models.Fragrance{}).Where("id = ?", req.FragranceID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if count == 0 {
		return nil, ErrFragranceNotFound
	}

	userID := identity.UserID
	review := &models.Review{
		FragranceID:  req.FragranceID,
		UserID:       &userID,
		Rating:       req.Rating,
		Text:         optionalText(req.Text),
		ReviewerName: identity.Username,
	}
	if err := db.Create(review).Error; err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	metrics.ReviewsSubmitted.Inc()
	logrus.WithFields(logrus.Fields{
		"review_id":    review.ID,
		"fragrance_id": review.FragranceID,
		"user_id":      userID,
	}).Info("Review submitted")
	return review, nil
}

// UpdateReview changes rating and text of a review the caller owns. The
// reviewer identity never changes.
func (s *ReviewService) UpdateReview(ctx context.Context, identity utils.Identity, id uint, req *UpdateReviewRequest) (*models.Review, error) {
	if err := checkRating(req.Rating); err != nil {
		return nil, err
	}

	db, cancel := s.store.WithTimeout(ctx)
	defer cancel()

	var review models.Review
	result := db.Limit(1).Find(&review, id)
	if result.Error != nil {
		return nil, fmt.Errorf("database error: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrReviewNotFound
	}
	if review.UserID == nil || *review.UserID != identity.UserID {
		return nil, ErrNotReviewOwner
	}

	text := optionalText(req.Text)
	if err := db.Model(&review).Updates(map[string]interface{}{
		"rating": req.Rating,
		"text":   text,
	}).Error; err != nil {
		return nil, fmt.Errorf("failed to update review: %w", err)
	}

	review.Rating = req.Rating
	review.Text = text
	return &review, nil
}

func checkRating(rating int) error {
	if rating < models.MinRating || rating > models.MaxRating {
		return fmt.Errorf("%w: rating must be between %d and %d", ErrValidation, models.MinRating, models.MaxRating)
	}
	return nil
}
