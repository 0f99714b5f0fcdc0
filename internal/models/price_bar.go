package models

import "time"

// PriceBar represents one daily OHLCV bar for a security.
// Prices are split/dividend adjusted. Non-trading days and missing
// records are simply absent rows; a bar is never fabricated.
type PriceBar struct {
	ID     uint      `gorm:"primarykey"`
	Code   string    `gorm:"uniqueIndex:idx_code_date;not null" json:"code"`
	Date   time.Time `gorm:"uniqueIndex:idx_code_date;index;not null" json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}
