// internal/models/note.go
package models

type Note struct {
	ID   uint     `json:"id" gorm:"primaryKey"`
	Name string   `json:"note_name" gorm:"column:note_name;size:100;not null;uniqueIndex:idx_notes_name"`
	Type NoteType `json:"type" gorm:"type:varchar(20);not null"`
}

type FragranceNote struct {
	FragranceID uint `json:"fragrance_id" gorm:"primaryKey;autoIncrement:false"`
	NoteID      uint `json:"note_id" gorm:"primaryKey;autoIncrement:false;index"`
}
