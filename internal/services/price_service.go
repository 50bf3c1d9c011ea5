// internal/services/price_service.go
package services

import (
	"context"
	"fmt"

	"github.com/javajoker/fragrance-catalog/internal/database"
	"github.com/javajoker/fragrance-catalog/internal/models"
)

type PriceService struct {
	store *database.Handle
}

type UpdatePriceRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

func NewPriceService(store *database.Handle) *PriceService {
	return &PriceService{store: store}
}

func (s *PriceService) UpdatePrice(ctx context.Context, id uint, amount float64) (*models.Price, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be greater than 0", ErrValidation)
	}

	db, cancel := s.store.WithTimeout(ctx)
	defer cancel()

	var price models.Price
	result := db.Limit(1).Find(&price, id)
	if result.Error != nil {
		return nil, fmt.Errorf("database error: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrPriceNotFound
	}

	if err := db.Model(&price).Update("amount", amount).Error; err != nil {
		return nil, fmt.Errorf("failed to update price: %w", err)
	}
	price.Amount = amount
	return &price, nil
}
