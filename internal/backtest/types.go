package backtest

import (
	"fmt"
	"time"
)

// ExitReason identifies which policy branch closed a trade.
type ExitReason string

const (
	ExitHoldExpired   ExitReason = "hold_expired"
	ExitStopLoss      ExitReason = "stop_loss"
	ExitDataExhausted ExitReason = "data_exhausted"
)

const dateLayout = "2006-01-02"

// Date is a calendar day that serializes as YYYY-MM-DD in JSON.
type Date struct {
	time.Time
}

// NewDate builds a Date truncated to the day.
func NewDate(t time.Time) Date {
	return Date{time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid date %s: expected quoted YYYY-MM-DD", s)
	}
	t, err := time.Parse(dateLayout, s[1:len(s)-1])
	if err != nil {
		return fmt.Errorf("invalid date %s: %w", s, err)
	}
	d.Time = t
	return nil
}

// Config holds the parameters for one simulation run. It is immutable for
// the whole run.
type Config struct {
	HoldDays        int     `json:"hold_days" mapstructure:"hold_days"`
	EntryOffsetDays int     `json:"entry_offset_days" mapstructure:"entry_offset_days"`
	StopLossPct     float64 `json:"stop_loss_pct,omitempty" mapstructure:"stop_loss_pct"`
	StopLossOnLow   bool    `json:"stop_loss_on_low,omitempty" mapstructure:"stop_loss_on_low"`
	CapitalPerTrade float64 `json:"capital_per_trade" mapstructure:"capital_per_trade"`
	MinPrice        float64 `json:"min_price" mapstructure:"min_price"`

	// Date range of the run. Zero values are open-ended.
	Start time.Time `json:"start,omitempty"`
	End   time.Time `json:"end,omitempty"`
}

// Validate checks the configuration before a simulation starts.
// Invalid configuration fails fast; it is never retried or patched up.
func (c Config) Validate() error {
	if c.HoldDays <= 0 {
		return fmt.Errorf("hold_days must be > 0, got %d", c.HoldDays)
	}
	if c.EntryOffsetDays < 0 {
		return fmt.Errorf("entry_offset_days must be >= 0, got %d", c.EntryOffsetDays)
	}
	if c.StopLossPct < 0 || c.StopLossPct > 1 {
		return fmt.Errorf("stop_loss_pct must be in [0,1], got %g", c.StopLossPct)
	}
	if c.CapitalPerTrade <= 0 {
		return fmt.Errorf("capital_per_trade must be > 0, got %g", c.CapitalPerTrade)
	}
	if c.MinPrice < 0 {
		return fmt.Errorf("min_price must be >= 0, got %g", c.MinPrice)
	}
	if !c.Start.IsZero() && !c.End.IsZero() && c.End.Before(c.Start) {
		return fmt.Errorf("date range end %s is before start %s",
			c.End.Format(dateLayout), c.Start.Format(dateLayout))
	}
	return nil
}

// Trade is one completed simulated trade. Immutable after close.
// ProfitJPY = Shares * (ExitPrice - EntryPrice);
// RetPct = (ExitPrice - EntryPrice) / EntryPrice, as a fraction.
type Trade struct {
	Code       string     `json:"code"`
	SignalDate Date       `json:"signal_date"`
	EntryDate  Date       `json:"entry_date"`
	EntryPrice float64    `json:"entry_price"`
	Shares     int        `json:"shares"`
	ExitDate   Date       `json:"exit_date"`
	ExitPrice  float64    `json:"exit_price"`
	ExitReason ExitReason `json:"exit_reason"`
	ProfitJPY  float64    `json:"profit_jpy"`
	RetPct     float64    `json:"ret_pct"`
}

// Summary holds the aggregate performance metrics for a trade ledger.
// It is always recomputable from the trades via Summarize and is never
// mutated independently.
type Summary struct {
	TradeCount      int     `json:"trade_count"`
	TotalProfitJPY  float64 `json:"total_profit_jpy"`
	WinRate         float64 `json:"win_rate"`
	AvgRetPct       float64 `json:"avg_ret_pct"`
	SharpeLikeRatio float64 `json:"sharpe_like_ratio"`
}

// RunMeta records how and when a result was produced.
type RunMeta struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	Config      Config    `json:"config"`
}

// Result is the canonical, re-loadable record of one simulation run.
// Field names and numeric units (profit in JPY, ratios as fractions) are
// stable; downstream analysis tooling re-parses this exact shape.
type Result struct {
	Meta    RunMeta `json:"meta"`
	Summary Summary `json:"summary"`
	Trades  []Trade `json:"trades"`
}
