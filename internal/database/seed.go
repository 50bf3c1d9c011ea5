// internal/database/seed.go
package database

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/javajoker/fragrance-catalog/internal/models"
)

// Reference notes. The creation workflow only associates notes that already
// exist, so a fresh store needs these before fragrances can carry notes.
var seedNotes = []models.Note{
	{Name: "Bergamot", Type: models.NoteTypeTop},
	{Name: "Lemon", Type: models.NoteTypeTop},
	{Name: "Pink Pepper", Type: models.NoteTypeTop},
	{Name: "Grapefruit", Type: models.NoteTypeTop},
	{Name: "Lavender", Type: models.NoteTypeMiddle},
	{Name: "Jasmine", Type: models.NoteTypeMiddle},
	{Name: "Rose", Type: models.NoteTypeMiddle},
	{Name: "Iris", Type: models.NoteTypeMiddle},
	{Name: "Vanilla", Type: models.NoteTypeBase},
	{Name: "Sandalwood", Type: models.NoteTypeBase},
	{Name: "Musk", Type: models.NoteTypeBase},
	{Name: "Amber", Type: models.NoteTypeBase},
	{Name: "Vetiver", Type: models.NoteTypeBase},
	{Name: "Oud", Type: models.NoteTypeBase},
}

var seedHouses = []models.House{
	{Name: "Chanel", Country: "France", Founded: 1910},
	{Name: "Dior", Country: "France", Founded: 1946},
	{Name: "Le Labo", Country: "United States", Founded: 2006},
	{Name: "Maison Francis Kurkdjian", Country: "France", Founded: 2009},
}

var seedPerfumers = []models.Perfumer{
	{FirstName: "Olivier", LastName: "Polge"},
	{FirstName: "François", LastName: "Demachy"},
	{FirstName: "Francis", LastName: "Kurkdjian"},
}

var seedRetailers = []models.Retailer{
	{Name: "Sephora", Website: "https://www.sephora.com"},
	{Name: "Nordstrom", Website: "https://www.nordstrom.com"},
}

// SeedCatalog inserts reference data. Rows that already exist are left alone.
func SeedCatalog(db *gorm.DB) error {
	logrus.Info("Seeding catalog reference data...")

	notes := append([]models.Note(nil), seedNotes...)
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "note_name"}},
		DoNothing: true,
	}).Create(&notes).Error; err != nil {
		return fmt.Errorf("failed to seed notes: %w", err)
	}

	houses := append([]models.House(nil), seedHouses...)
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&houses).Error; err != nil {
		return fmt.Errorf("failed to seed houses: %w", err)
	}

	for _, perfumer := range seedPerfumers {
		p := perfumer
		if err := db.Where("first_name = ? AND last_name = ?", p.FirstName, p.LastName).
			FirstOrCreate(&p).Error; err != nil {
			return fmt.Errorf("failed to seed perfumer %s %s: %w", p.FirstName, p.LastName, err)
		}
	}

	for _, retailer := range seedRetailers {
		r := retailer
		if err := db.Where("retail_name = ?", r.Name).FirstOrCreate(&r).Error; err != nil {
			return fmt.Errorf("failed to seed retailer %s: %w", r.Name, err)
		}
	}

	logrus.Info("Catalog seeding completed")
	return nil
}
