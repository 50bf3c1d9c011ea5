// Package testutil opens throwaway stores for package tests.
package testutil

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/javajoker/fragrance-catalog/internal/config"
	"github.com/javajoker/fragrance-catalog/internal/database"
	"github.com/javajoker/fragrance-catalog/internal/models"
)

// NewStore returns a migrated, seeded in-memory SQLite store that is closed
// when the test ends. A single connection keeps the memory database alive and
// shared across sessions.
func NewStore(t testing.TB) *database.Handle {
	t.Helper()

	handle, err := database.Open(config.DatabaseConfig{
		Driver:       "sqlite",
		Path:         ":memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		LogLevel:     "silent",
		QueryTimeout: 5,
	})
	require.NoError(t, err)
	t.Cleanup(handle.Close)

	require.NoError(t, database.RunMigrations(handle.DB()))
	require.NoError(t, database.SeedCatalog(handle.DB()))
	return handle
}

// NewDegradedStore returns a handle whose store was unreachable at open
// time. Nothing listens on port 1, so the ping fails immediately.
func NewDegradedStore(t testing.TB) *database.Handle {
	t.Helper()

	handle, err := database.Open(config.DatabaseConfig{
		Driver:        "postgres",
		Host:          "127.0.0.1",
		Port:          "1",
		User:          "postgres",
		Database:      "fragrances_db",
		SSLMode:       "disable",
		MaxOpenConns:  1,
		MaxIdleConns:  1,
		LogLevel:      "silent",
		QueryTimeout:  1,
		AllowDegraded: true,
	})
	require.NoError(t, err)
	require.True(t, handle.Degraded())
	t.Cleanup(handle.Close)
	return handle
}

// Fixture describes a fragrance inserted directly into the store.
type Fixture struct {
	Name      string
	House     string
	Notes     []string
	Perfumers []string // "First Last"
	Prices    []float64
	Ratings   []int
}

// Insert writes the fixture and returns the fragrance id.
func Insert(t testing.TB, handle *database.Handle, f Fixture) uint {
	t.Helper()
	db := handle.DB()

	fragrance := models.Fragrance{Name: f.Name}
	if f.House != "" {
		house := models.House{Name: f.House}
		require.NoError(t, db.Where("name = ?", f.House).
			Attrs(models.House{Country: models.PlaceholderCountry, Founded: models.PlaceholderFounded}).
			FirstOrCreate(&house).Error)
		fragrance.HouseID = &house.ID
	}
	released := time.Date(2020, time.March, 1, 0, 0, 0, 0, time.UTC)
	fragrance.ReleaseDate = &released
	require.NoError(t, db.Create(&fragrance).Error)

	for _, name := range f.Notes {
		var note models.Note
		require.NoError(t, db.Where("note_name = ?", name).First(&note).Error)
		require.NoError(t, db.Create(&models.FragranceNote{FragranceID: fragrance.ID, NoteID: note.ID}).Error)
	}

	for _, full := range f.Perfumers {
		first, last := splitName(full)
		perfumer := models.Perfumer{FirstName: first, LastName: last}
		require.NoError(t, db.Where("first_name = ? AND last_name = ?", first, last).FirstOrCreate(&perfumer).Error)
		require.NoError(t, db.Create(&models.FragrancePerfumer{FragranceID: fragrance.ID, PerfumerID: perfumer.ID}).Error)
	}

	for i, amount := range f.Prices {
		detail := models.Detail{
			FragranceID:   fragrance.ID,
			Concentration: models.DefaultConcentration,
			Size:          []string{"50ml", "100ml", "200ml"}[i%3],
			Sillage:       models.DefaultSillage,
			Gender:        models.DefaultGender,
		}
		require.NoError(t, db.Create(&detail).Error)
		require.NoError(t, db.Create(&models.Price{DetailID: detail.ID, Amount: amount, Currency: models.DefaultCurrency}).Error)
	}

	base := time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)
	for i, rating := range f.Ratings {
		require.NoError(t, db.Create(&models.Review{
			FragranceID:  fragrance.ID,
			Rating:       rating,
			ReviewerName: "fixture",
			CreatedAt:    base.Add(time.Duration(i) * time.Hour),
		}).Error)
	}

	return fragrance.ID
}

// Count returns the number of rows in table.
func Count(t testing.TB, handle *database.Handle, table string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, handle.DB().Table(table).Count(&n).Error)
	return n
}

func splitName(full string) (string, string) {
	first, last, _ := strings.Cut(full, " ")
	return first, last
}
