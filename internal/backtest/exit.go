package backtest

import (
	"math"

	"stock-backtest-go/internal/models"
)

// exitDecision is the terminal state of the exit policy for one position.
type exitDecision struct {
	bar    models.PriceBar
	price  float64
	reason ExitReason
}

// evaluateExit walks the bars strictly after the entry bar, in date order,
// and decides when and at what price the position closes.
//
// Per bar the checks run in this order:
//  1. stop-loss: the basis price (daily close, or the day's low when
//     StopLossOnLow is set) at or below entry*(1-StopLossPct). The fill is
//     conservative: min(close, stop price), never better than the threshold.
//  2. hold-expiry: HoldDays trading days elapsed since entry; exit at the
//     day's close.
//
// A bar that breaches the stop on the hold deadline still exits as
// stop_loss. If the bars run out before either branch fires, the position
// closes at the last observed close as data_exhausted; with no bar after
// entry at all, that is the entry bar itself.
func evaluateExit(entry models.PriceBar, future []models.PriceBar, cfg Config) exitDecision {
	stopPrice := entry.Close * (1 - cfg.StopLossPct)

	for i, bar := range future {
		if cfg.StopLossPct > 0 {
			basis := bar.Close
			if cfg.StopLossOnLow {
				basis = bar.Low
			}
			if basis <= stopPrice {
				return exitDecision{
					bar:    bar,
					price:  math.Min(bar.Close, stopPrice),
					reason: ExitStopLoss,
				}
			}
		}
		if i+1 >= cfg.HoldDays {
			return exitDecision{bar: bar, price: bar.Close, reason: ExitHoldExpired}
		}
	}

	last := entry
	if len(future) > 0 {
		last = future[len(future)-1]
	}
	return exitDecision{bar: last, price: last.Close, reason: ExitDataExhausted}
}
