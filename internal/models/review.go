// internal/models/review.go
package models

import "time"

type Review struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	FragranceID  uint      `json:"fragrance_id" gorm:"not null;index:idx_reviews_fragrance_created,priority:1"`
	UserID       *uint     `json:"user_id" gorm:"index"`
	Rating       int       `json:"rating" gorm:"not null"`
	Text         *string   `json:"text" gorm:"type:text"`
	ReviewerName string    `json:"reviewer_name" gorm:"size:100"`
	CreatedAt    time.Time `json:"created_at" gorm:"index:idx_reviews_fragrance_created,priority:2"`
}
