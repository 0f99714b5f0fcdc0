package backtest

import "math"

// Summarize reduces a trade ledger into its aggregate metrics.
//
// Degenerate cases resolve to documented defaults rather than faults:
// an empty ledger yields an all-zero Summary (win_rate 0, not NaN), and
// the sharpe-like ratio is 0 when there are fewer than two trades or the
// return spread is zero. The ratio is mean(ret_pct) over the population
// standard deviation of ret_pct, not annualized.
func Summarize(trades []Trade) Summary {
	s := Summary{TradeCount: len(trades)}
	if len(trades) == 0 {
		return s
	}

	var wins int
	var sumRet float64
	for _, t := range trades {
		s.TotalProfitJPY += t.ProfitJPY
		sumRet += t.RetPct
		if t.ProfitJPY > 0 {
			wins++
		}
	}

	n := float64(len(trades))
	s.WinRate = float64(wins) / n
	s.AvgRetPct = sumRet / n

	if len(trades) >= 2 {
		var variance float64
		for _, t := range trades {
			d := t.RetPct - s.AvgRetPct
			variance += d * d
		}
		stddev := math.Sqrt(variance / n)
		if stddev > 0 {
			s.SharpeLikeRatio = s.AvgRetPct / stddev
		}
	}

	return s
}
