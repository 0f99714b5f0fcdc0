package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"stock-backtest-go/internal/models"
)

// setupStore creates a Store over a fresh in-memory database.
func setupStore(t *testing.T) *Store {
	// Use a new, non-shared in-memory database for each test to ensure isolation.
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	return NewStore(db)
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestStore_BarsOrderedAndBounded(t *testing.T) {
	store := setupStore(t)

	// Insert out of order, with a weekend gap.
	require.NoError(t, store.SaveBars([]models.PriceBar{
		{Code: "1301", Date: day("2024-01-09"), Close: 1020},
		{Code: "1301", Date: day("2024-01-05"), Close: 1000},
		{Code: "1301", Date: day("2024-01-08"), Close: 1010},
		{Code: "9984", Date: day("2024-01-08"), Close: 8000},
	}))

	bars, err := store.Bars("1301", day("2024-01-05"), day("2024-01-08"))
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, day("2024-01-05"), bars[0].Date)
	assert.Equal(t, day("2024-01-08"), bars[1].Date)

	// Zero `to` is open-ended.
	bars, err = store.Bars("1301", day("2024-01-08"), time.Time{})
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, 1010.0, bars[0].Close)
	assert.Equal(t, 1020.0, bars[1].Close)
}

func TestStore_BarsEmptyForUnknownCode(t *testing.T) {
	store := setupStore(t)

	bars, err := store.Bars("0000", time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Empty(t, bars)
}

func TestStore_SaveBarsUpsert(t *testing.T) {
	store := setupStore(t)

	require.NoError(t, store.SaveBars([]models.PriceBar{
		{Code: "1301", Date: day("2024-01-05"), Close: 1000},
	}))
	// Re-fetching the same day must update, not duplicate.
	require.NoError(t, store.SaveBars([]models.PriceBar{
		{Code: "1301", Date: day("2024-01-05"), Close: 1001},
	}))

	bars, err := store.Bars("1301", time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, 1001.0, bars[0].Close)
}

func TestStore_PriceOn(t *testing.T) {
	store := setupStore(t)

	require.NoError(t, store.SaveBars([]models.PriceBar{
		{Code: "1301", Date: day("2024-01-05"), Close: 1000},
	}))

	bar, err := store.PriceOn("1301", day("2024-01-05"))
	require.NoError(t, err)
	require.NotNil(t, bar)
	assert.Equal(t, 1000.0, bar.Close)

	// A missing date is "no bar", not an error and not a zero-price bar.
	bar, err = store.PriceOn("1301", day("2024-01-06"))
	require.NoError(t, err)
	assert.Nil(t, bar)
}

func TestStore_SignalsBetween(t *testing.T) {
	store := setupStore(t)

	require.NoError(t, store.SaveSignals([]models.Signal{
		{Code: "9984", SignalDate: day("2024-01-05"), Kind: models.SignalKindTechnical},
		{Code: "1301", SignalDate: day("2024-01-10"), Kind: models.SignalKindFundamental},
		{Code: "1301", SignalDate: day("2024-01-05"), Kind: models.SignalKindFundamental},
		{Code: "1301", SignalDate: day("2024-02-01"), Kind: models.SignalKindFundamental},
	}))

	signals, err := store.SignalsBetween(day("2024-01-01"), day("2024-01-31"))
	require.NoError(t, err)
	require.Len(t, signals, 3)

	// Ordered by (code, signal_date).
	assert.Equal(t, "1301", signals[0].Code)
	assert.Equal(t, day("2024-01-05"), signals[0].SignalDate)
	assert.Equal(t, "1301", signals[1].Code)
	assert.Equal(t, day("2024-01-10"), signals[1].SignalDate)
	assert.Equal(t, "9984", signals[2].Code)
}

func TestStore_CompanyNames(t *testing.T) {
	store := setupStore(t)

	require.NoError(t, store.SaveListedInfo([]models.ListedInfo{
		{Code: "1301", CompanyName: "Kyokuyo"},
		{Code: "9984", CompanyName: "SoftBank Group"},
	}))
	// Upsert by code.
	require.NoError(t, store.SaveListedInfo([]models.ListedInfo{
		{Code: "1301", CompanyName: "Kyokuyo Co., Ltd."},
	}))

	names, err := store.CompanyNames()
	require.NoError(t, err)
	assert.Equal(t, "Kyokuyo Co., Ltd.", names["1301"])
	assert.Equal(t, "SoftBank Group", names["9984"])
	assert.Len(t, names, 2)
}
