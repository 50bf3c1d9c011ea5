// internal/services/fragrance_service.go
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/javajoker/fragrance-catalog/internal/database"
	"github.com/javajoker/fragrance-catalog/internal/metrics"
	"github.com/javajoker/fragrance-catalog/internal/models"
)

// FragranceService owns catalog mutations.
type FragranceService struct {
	store *database.Handle
}

type CreateFragranceRequest struct {
	Name        string   `json:"name" validate:"notblank,max=255"`
	House       *string  `json:"house,omitempty" validate:"omitempty,max=255"`
	ReleaseDate *string  `json:"release_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gt=0"`
	Size        *string  `json:"size,omitempty" validate:"omitempty,max=50"`
	Notes       []string `json:"notes,omitempty" validate:"omitempty,dive,max=100"`
}

func NewFragranceService(store *database.Handle) *FragranceService {
	return &FragranceService{store: store}
}

// CreateFragrance inserts the fragrance with its house, pricing and notes in
// one transaction and returns the new id. Unknown note names are skipped.
func (s *FragranceService) CreateFragrance(ctx context.Context, req *CreateFragranceRequest) (uint, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return 0, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if req.Price != nil && *req.Price <= 0 {
		return 0, fmt.Errorf("%w: price must be greater than 0", ErrValidation)
	}

	released := models.Today()
	if req.ReleaseDate != nil && strings.TrimSpace(*req.ReleaseDate) != "" {
		parsed, err := time.Parse(models.DateLayout, strings.TrimSpace(*req.ReleaseDate))
		if err != nil {
			return 0, fmt.Errorf("%w: release_date must be YYYY-MM-DD", ErrValidation)
		}
		released = parsed
	}

	db, cancel := s.store.WithTimeout(ctx)
	defer cancel()

	fragrance := models.Fragrance{
		Name:        name,
		ReleaseDate: &released,
		Description: optionalText(req.Description),
	}

	err := database.WithTransaction(db, func(tx *gorm.DB) error {
		if houseName := optionalText(req.House); houseName != nil {
			houseID, err := resolveHouse(tx, *houseName)
			if err != nil {
				return err
			}
			fragrance.HouseID = &houseID
		}

		if err := tx.Create(&fragrance).Error; err != nil {
			return fmt.Errorf("insert fragrance: %w", err)
		}

		if size := optionalText(req.Size); req.Price != nil && size != nil {
			detail := models.Detail{
				FragranceID:   fragrance.ID,
				Concentration: models.DefaultConcentration,
				Size:          *size,
				Sillage:       models.DefaultSillage,
				Gender:        models.DefaultGender,
			}
			if err := tx.Create(&detail).Error; err != nil {
				return fmt.Errorf("insert details: %w", err)
			}
			price := models.Price{
				DetailID: detail.ID,
				Amount:   *req.Price,
				Currency: models.DefaultCurrency,
			}
			if err := tx.Create(&price).Error; err != nil {
				return fmt.Errorf("insert price: %w", err)
			}
		}

		return attachNotes(tx, fragrance.ID, req.Notes)
	})
	if err != nil {
		metrics.FragranceCreateFailures.Inc()
		logrus.WithError(err).WithField("name", name).Error("Fragrance creation rolled back")
		return 0, ErrCreateFailed
	}

	metrics.FragrancesCreated.Inc()
	logrus.WithFields(logrus.Fields{
		"fragrance_id": fragrance.ID,
		"name":         name,
	}).Info("Fragrance created")
	return fragrance.ID, nil
}

// resolveHouse looks up a house by exact name, creating it with placeholder
// attributes on first reference. The insert is a no-op when a concurrent
// writer created the same name first.
func resolveHouse(tx *gorm.DB, name string) (uint, error) {
	candidate := models.House{
		Name:    name,
		Country: models.PlaceholderCountry,
		Founded: models.PlaceholderFounded,
	}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&candidate).Error; err != nil {
		return 0, fmt.Errorf("insert house: %w", err)
	}

	var house models.House
	if err := tx.Where("name = ?", name).First(&house).Error; err != nil {
		return 0, fmt.Errorf("select house: %w", err)
	}
	return house.ID, nil
}

func attachNotes(tx *gorm.DB, fragranceID uint, names []string) error {
	names = normalizeNotes(names)
	if len(names) == 0 {
		return nil
	}

	var notes []models.Note
	if err := tx.Where("note_name IN ?", names).Find(&notes).Error; err != nil {
		return fmt.Errorf("select notes: %w", err)
	}
	if len(notes) == 0 {
		return nil
	}

	links := make([]models.FragranceNote, 0, len(notes))
	for _, note := range notes {
		links = append(links, models.FragranceNote{FragranceID: fragranceID, NoteID: note.ID})
	}
	if err := tx.Create(&links).Error; err != nil {
		return fmt.Errorf("insert fragrance notes: %w", err)
	}
	return nil
}

// DeleteFragrance removes the fragrance and every row that depends on it.
func (s *FragranceService) DeleteFragrance(ctx context.Context, id uint) error {
	db, cancel := s.store.WithTimeout(ctx)
	defer cancel()

	err := database.WithTransaction(db, func(tx *gorm.DB) error {
		if err := tx.Where("fragrance_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return fmt.Errorf("delete reviews: %w", err)
		}
		if err := tx.Where("fragrance_id = ?", id).Delete(&models.FragranceNote{}).Error; err != nil {
			return fmt.Errorf("delete fragrance notes: %w", err)
		}
		if err := tx.Where("fragrance_id = ?", id).Delete(&models.FragrancePerfumer{}).Error; err != nil {
			return fmt.Errorf("delete fragrance perfumers: %w", err)
		}
		if err := tx.Exec("DELETE FROM prices WHERE detail_id IN (SELECT id FROM details WHERE fragrance_id = ?)", id).Error; err != nil {
			return fmt.Errorf("delete prices: %w", err)
		}
		if err := tx.Where("fragrance_id = ?", id).Delete(&models.Detail{}).Error; err != nil {
			return fmt.Errorf("delete details: %w", err)
		}

		result := tx.Delete(&models.Fragrance{}, id)
		if result.Error != nil {
			return fmt.Errorf("delete fragrance: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrFragranceNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	logrus.WithField("fragrance_id", id).Info("Fragrance deleted")
	return nil
}

// optionalText trims s and maps blank values to nil.
func optionalText(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
