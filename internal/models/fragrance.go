// internal/models/fragrance.go
package models

import "time"

type House struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	Name    string `json:"name" gorm:"size:255;not null;uniqueIndex:idx_houses_name"`
	Country string `json:"country" gorm:"size:100"`
	Founded int    `json:"founded"`
}

type Fragrance struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Name        string     `json:"name" gorm:"size:255;not null;index"`
	HouseID     *uint      `json:"house_id" gorm:"index"`
	ReleaseDate *time.Time `json:"release_date" gorm:"type:date"`
	Description *string    `json:"description" gorm:"type:text"`

	// Relationships
	House *House `json:"house,omitempty" gorm:"foreignKey:HouseID"`
}

// Detail describes one packaging variant of a fragrance.
type Detail struct {
	ID            uint   `json:"id" gorm:"primaryKey"`
	FragranceID   uint   `json:"fragrance_id" gorm:"not null;index"`
	Concentration string `json:"concentration" gorm:"size:20"`
	Size          string `json:"size" gorm:"size:50"`
	Sillage       string `json:"sillage" gorm:"size:20"`
	Gender        string `json:"gender" gorm:"size:20"`
}

func (Detail) TableName() string {
	return "details"
}

type Retailer struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	Name    string `json:"retail_name" gorm:"column:retail_name;size:255;not null"`
	Website string `json:"website" gorm:"size:255"`
}

type Price struct {
	ID         uint    `json:"price_id" gorm:"column:price_id;primaryKey"`
	DetailID   uint    `json:"detail_id" gorm:"not null;index"`
	RetailerID *uint   `json:"retailer_id"`
	Amount     float64 `json:"amount" gorm:"type:decimal(10,2);not null"`
	Currency   string  `json:"currency" gorm:"size:3;not null;default:'USD'"`
}

type Perfumer struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	FirstName string `json:"first_name" gorm:"size:100"`
	LastName  string `json:"last_name" gorm:"size:100"`
}

type FragrancePerfumer struct {
	FragranceID uint `json:"fragrance_id" gorm:"primaryKey;autoIncrement:false"`
	PerfumerID  uint `json:"perfumer_id" gorm:"primaryKey;autoIncrement:false"`
}
