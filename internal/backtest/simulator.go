package backtest

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"stock-backtest-go/internal/models"
)

// PriceSeries is the read-only view over per-code daily bars that the
// simulator consumes. Implementations must return bars ascending by date
// and tolerate gaps; a missing day is "no bar", never a zero-price bar.
type PriceSeries interface {
	Bars(code string, from, to time.Time) ([]models.PriceBar, error)
}

// Simulator turns dated buy signals into a ledger of simulated trades.
type Simulator struct {
	logger *zap.Logger
	prices PriceSeries
}

// NewSimulator creates a new trade simulator.
func NewSimulator(logger *zap.Logger, prices PriceSeries) *Simulator {
	return &Simulator{
		logger: logger,
		prices: prices,
	}
}

// Simulate opens and closes one position per qualifying signal and returns
// the resulting trades ordered by (code, entry_date).
//
// Signals that cannot produce a position are skipped, not errored: no bars
// for the code, the entry offset landing beyond the available data, or the
// capital buying zero shares. These are expected filtering outcomes and are
// only counted for diagnostics. Identical signals, price data and config
// always yield an identical trade sequence.
func (s *Simulator) Simulate(ctx context.Context, signals []models.Signal, cfg Config) ([]Trade, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ordered := make([]models.Signal, len(signals))
	copy(ordered, signals)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Code != ordered[j].Code {
			return ordered[i].Code < ordered[j].Code
		}
		return ordered[i].SignalDate.Before(ordered[j].SignalDate)
	})

	trades := make([]Trade, 0, len(ordered))
	var skippedNoData, skippedNoEntry, skippedNoShares int

	for _, sig := range ordered {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		bars, err := s.prices.Bars(sig.Code, sig.SignalDate, cfg.End)
		if err != nil {
			return nil, err
		}
		if len(bars) == 0 {
			skippedNoData++
			s.logger.Debug("No price data for signal, skipping",
				zap.String("code", sig.Code),
				zap.Time("signal_date", sig.SignalDate))
			continue
		}

		// Trading days are counted on the code's own bar sequence: the
		// first bar on or after the signal date is offset 0, so an offset
		// landing on a non-trading day slides to the next available bar.
		if cfg.EntryOffsetDays >= len(bars) {
			skippedNoEntry++
			s.logger.Debug("No entry bar within horizon, skipping",
				zap.String("code", sig.Code),
				zap.Time("signal_date", sig.SignalDate))
			continue
		}
		entry := bars[cfg.EntryOffsetDays]

		shares := Shares(cfg.CapitalPerTrade, entry.Close, cfg.MinPrice)
		if shares == 0 {
			skippedNoShares++
			s.logger.Debug("Zero affordable shares, skipping",
				zap.String("code", sig.Code),
				zap.Float64("entry_price", entry.Close))
			continue
		}

		dec := evaluateExit(entry, bars[cfg.EntryOffsetDays+1:], cfg)

		trades = append(trades, Trade{
			Code:       sig.Code,
			SignalDate: NewDate(sig.SignalDate),
			EntryDate:  NewDate(entry.Date),
			EntryPrice: entry.Close,
			Shares:     shares,
			ExitDate:   NewDate(dec.bar.Date),
			ExitPrice:  dec.price,
			ExitReason: dec.reason,
			ProfitJPY:  float64(shares) * (dec.price - entry.Close),
			RetPct:     (dec.price - entry.Close) / entry.Close,
		})
	}

	sort.SliceStable(trades, func(i, j int) bool {
		if trades[i].Code != trades[j].Code {
			return trades[i].Code < trades[j].Code
		}
		return trades[i].EntryDate.Before(trades[j].EntryDate.Time)
	})

	s.logger.Info("Simulation complete",
		zap.Int("signals", len(ordered)),
		zap.Int("trades", len(trades)),
		zap.Int("skipped_no_data", skippedNoData),
		zap.Int("skipped_no_entry_bar", skippedNoEntry),
		zap.Int("skipped_zero_shares", skippedNoShares))

	return trades, nil
}
