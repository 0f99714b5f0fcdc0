package models

import "time"

// Signal kinds, matching the screening source that produced the signal.
const (
	SignalKindFundamental = "fundamental"
	SignalKindTechnical   = "technical"
)

// Signal is a dated buy recommendation produced by an external screening
// step. At most one signal exists per (code, signal_date).
type Signal struct {
	ID         uint      `gorm:"primarykey"`
	Code       string    `gorm:"uniqueIndex:idx_code_signal_date;not null" json:"code"`
	SignalDate time.Time `gorm:"uniqueIndex:idx_code_signal_date;not null" json:"signal_date"`
	Kind       string    `gorm:"not null" json:"kind"`
}
