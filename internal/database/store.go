package database

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stock-backtest-go/internal/models"
)

// Store exposes the read-only query surface the simulation consumes,
// plus the batch upserts used by the fetch command.
type Store struct {
	db *gorm.DB
}

// NewStore wraps an open gorm connection.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Bars returns the daily bars for a code between from and to (inclusive),
// ascending by date. A zero `to` means no upper bound. Gaps in the series
// are simply absent rows; callers must treat a missing date as "no bar".
func (s *Store) Bars(code string, from, to time.Time) ([]models.PriceBar, error) {
	q := s.db.Where("code = ?", code)
	if !from.IsZero() {
		q = q.Where("date >= ?", from)
	}
	if !to.IsZero() {
		q = q.Where("date <= ?", to)
	}

	var bars []models.PriceBar
	if err := q.Order("date asc").Find(&bars).Error; err != nil {
		return nil, fmt.Errorf("failed to query bars for %s: %w", code, err)
	}
	return bars, nil
}

// PriceOn returns the bar for a code on an exact date, or (nil, nil) when
// no bar was observed that day.
func (s *Store) PriceOn(code string, date time.Time) (*models.PriceBar, error) {
	var bar models.PriceBar
	err := s.db.Where("code = ? AND date = ?", code, date).First(&bar).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query price for %s on %s: %w", code, date.Format("2006-01-02"), err)
	}
	return &bar, nil
}

// SignalsBetween returns all signals in the date range (inclusive),
// ordered by (code, signal_date). Zero bounds are open-ended.
func (s *Store) SignalsBetween(from, to time.Time) ([]models.Signal, error) {
	q := s.db.Session(&gorm.Session{})
	if !from.IsZero() {
		q = q.Where("signal_date >= ?", from)
	}
	if !to.IsZero() {
		q = q.Where("signal_date <= ?", to)
	}

	var signals []models.Signal
	if err := q.Order("code asc, signal_date asc").Find(&signals).Error; err != nil {
		return nil, fmt.Errorf("failed to query signals: %w", err)
	}
	return signals, nil
}

// CompanyNames returns a code -> company name map from the listed master.
func (s *Store) CompanyNames() (map[string]string, error) {
	var rows []models.ListedInfo
	if err := s.db.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query listed info: %w", err)
	}
	names := make(map[string]string, len(rows))
	for _, r := range rows {
		names[r.Code] = r.CompanyName
	}
	return names, nil
}

// SaveBars upserts a batch of price bars keyed by (code, date).
func (s *Store) SaveBars(bars []models.PriceBar) error {
	if len(bars) == 0 {
		return nil
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"open", "high", "low", "close", "volume"}),
	}).CreateInBatches(bars, 500).Error
	if err != nil {
		return fmt.Errorf("failed to save price bars: %w", err)
	}
	return nil
}

// SaveSignals upserts a batch of signals keyed by (code, signal_date).
func (s *Store) SaveSignals(signals []models.Signal) error {
	if len(signals) == 0 {
		return nil
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}, {Name: "signal_date"}},
		DoUpdates: clause.AssignmentColumns([]string{"kind"}),
	}).CreateInBatches(signals, 500).Error
	if err != nil {
		return fmt.Errorf("failed to save signals: %w", err)
	}
	return nil
}

// SaveListedInfo upserts the listed-company master keyed by code.
func (s *Store) SaveListedInfo(rows []models.ListedInfo) error {
	if len(rows) == 0 {
		return nil
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"company_name", "market_name", "sector33_name"}),
	}).CreateInBatches(rows, 500).Error
	if err != nil {
		return fmt.Errorf("failed to save listed info: %w", err)
	}
	return nil
}
