// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// JSONB stores a JSON object; jsonb on PostgreSQL, text elsewhere.
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	data, err := json.Marshal(j)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, j)
	case string:
		return json.Unmarshal([]byte(v), j)
	default:
		return fmt.Errorf("unsupported JSONB source type %T", value)
	}
}

// Note types. The set is open: stored rows may carry other values.
type NoteType string

const (
	NoteTypeTop    NoteType = "Top"
	NoteTypeMiddle NoteType = "Middle"
	NoteTypeBase   NoteType = "Base"
)

// Defaults applied by the fragrance creation workflow.
const (
	DefaultConcentration = "EDP"
	DefaultSillage       = "Moderate"
	DefaultGender        = "Unisex"
	DefaultCurrency      = "USD"
	PlaceholderCountry   = "Unknown"
	PlaceholderFounded   = 2000
)

// Review rating bounds.
const (
	MinRating = 1
	MaxRating = 5
)

// DateLayout is the wire format of release dates.
const DateLayout = "2006-01-02"

func Today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
