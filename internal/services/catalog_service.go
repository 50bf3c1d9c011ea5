// internal/services/catalog_service.go
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/javajoker/fragrance-catalog/internal/database"
	"github.com/javajoker/fragrance-catalog/internal/models"
)

// CatalogService serves the read side of the catalog.
type CatalogService struct {
	store *database.Handle
}

type FragranceSummary struct {
	ID         uint     `json:"id"`
	Name       string   `json:"name"`
	House      *string  `json:"house"`
	Rating     *float64 `json:"rating"`
	Popularity int64    `json:"popularity"`
	Price      *float64 `json:"price"`
}

type NoteSummary struct {
	Name string          `json:"note_name" gorm:"column:note_name"`
	Type models.NoteType `json:"type"`
}

type PerfumerSummary struct {
	ID        uint   `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (p PerfumerSummary) DisplayName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

type PriceRow struct {
	ID         uint    `json:"price_id" gorm:"column:price_id"`
	Amount     float64 `json:"amount"`
	Currency   string  `json:"currency"`
	RetailName *string `json:"retail_name" gorm:"column:retail_name"`
	Size       *string `json:"size"`
}

// FragranceRecord is the base row of the detail view. Perfumer is the
// display name of the first associated perfumer only.
type FragranceRecord struct {
	FragranceSummary
	ReleaseDate *string `json:"release_date"`
	Description *string `json:"description"`
	Perfumer    *string `json:"perfumer"`
}

// FragranceDetail is the aggregate detail view, encoded as
// {fragrance, notes, perfumers, prices, reviews}.
type FragranceDetail struct {
	FragranceRecord `json:"fragrance"`
	Perfumers       []PerfumerSummary `json:"perfumers"`
	Notes           []NoteSummary     `json:"notes"`
	Prices          []PriceRow        `json:"prices"`
	Reviews         []models.Review   `json:"reviews"`
}

type detailRow struct {
	FragranceSummary
	ReleaseDate *time.Time
	Description *string
}

func NewCatalogService(store *database.Handle) *CatalogService {
	return &CatalogService{store: store}
}

func (s *CatalogService) ListFragrances(ctx context.Context, params ListParams) ([]FragranceSummary, error) {
	db, cancel := s.store.WithTimeout(ctx)
	defer cancel()

	query, args := BuildListQuery(params)
	fragrances := make([]FragranceSummary, 0)
	if err := db.Raw(query, args...).Scan(&fragrances).Error; err != nil {
		return nil, fmt.Errorf("failed to list fragrances: %w", err)
	}
	return fragrances, nil
}

// GetFragrance assembles the detail view from independent reads; they do
// not share a transaction.
func (s *CatalogService) GetFragrance(ctx context.Context, id uint) (*FragranceDetail, error) {
	db, cancel := s.store.WithTimeout(ctx)
	defer cancel()

	var base detailRow
	result := db.Raw(detailBaseQuery, id).Scan(&base)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to load fragrance: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrFragranceNotFound
	}

	detail := &FragranceDetail{
		FragranceRecord: FragranceRecord{
			FragranceSummary: base.FragranceSummary,
			Description:      base.Description,
		},
		Perfumers: make([]PerfumerSummary, 0),
		Notes:     make([]NoteSummary, 0),
		Prices:    make([]PriceRow, 0),
		Reviews:   make([]models.Review, 0),
	}
	if base.ReleaseDate != nil {
		released := base.ReleaseDate.Format(models.DateLayout)
		detail.ReleaseDate = &released
	}

	if err := db.Raw(detailNotesQuery, id).Scan(&detail.Notes).Error; err != nil {
		return nil, fmt.Errorf("failed to load notes: %w", err)
	}

	if err := db.Raw(detailPerfumersQuery, id).Scan(&detail.Perfumers).Error; err != nil {
		return nil, fmt.Errorf("failed to load perfumers: %w", err)
	}
	if len(detail.Perfumers) > 0 {
		name := detail.Perfumers[0].DisplayName()
		detail.Perfumer = &name
	}

	if err := db.Raw(detailPricesQuery, id).Scan(&detail.Prices).Error; err != nil {
		return nil, fmt.Errorf("failed to load prices: %w", err)
	}

	if err := db.Where("fragrance_id = ?", id).
		Order("created_at DESC").Order("id DESC").
		Find(&detail.Reviews).Error; err != nil {
		return nil, fmt.Errorf("failed to load reviews: %w", err)
	}

	return detail, nil
}

func (s *CatalogService) ListNotes(ctx context.Context) ([]NoteSummary, error) {
	db, cancel := s.store.WithTimeout(ctx)
	defer cancel()

	notes := make([]NoteSummary, 0)
	if err := db.Raw(notesQuery).Scan(&notes).Error; err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	return notes, nil
}
