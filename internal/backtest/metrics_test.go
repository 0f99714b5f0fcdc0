package backtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)

	assert.Equal(t, 0, s.TradeCount)
	assert.Equal(t, 0.0, s.TotalProfitJPY)
	assert.Equal(t, 0.0, s.WinRate) // defined as 0, never a division fault
	assert.Equal(t, 0.0, s.AvgRetPct)
	assert.Equal(t, 0.0, s.SharpeLikeRatio)
}

func TestSummarize_Metrics(t *testing.T) {
	trades := []Trade{
		{ProfitJPY: 10000, RetPct: 0.10},
		{ProfitJPY: 5000, RetPct: 0.05},
		{ProfitJPY: -3000, RetPct: -0.03},
		{ProfitJPY: 2000, RetPct: 0.02},
	}

	s := Summarize(trades)

	assert.Equal(t, 4, s.TradeCount)
	assert.InDelta(t, 14000, s.TotalProfitJPY, 1e-9)
	assert.InDelta(t, 0.75, s.WinRate, 1e-9)
	assert.InDelta(t, 0.035, s.AvgRetPct, 1e-9)
	// mean 0.035, population stddev ~0.04717; ratio ~0.7420
	assert.InDelta(t, 0.7420, s.SharpeLikeRatio, 0.001)
}

func TestSummarize_WinRateBounds(t *testing.T) {
	trades := []Trade{
		{ProfitJPY: -100, RetPct: -0.01},
		{ProfitJPY: -200, RetPct: -0.02},
	}

	s := Summarize(trades)

	assert.Equal(t, 0.0, s.WinRate)
	assert.GreaterOrEqual(t, s.WinRate, 0.0)
	assert.LessOrEqual(t, s.WinRate, 1.0)
}

func TestSummarize_SingleTrade_NoSharpe(t *testing.T) {
	s := Summarize([]Trade{{ProfitJPY: 1000, RetPct: 0.01}})

	assert.Equal(t, 1, s.TradeCount)
	assert.Equal(t, 0.0, s.SharpeLikeRatio) // fewer than two trades
}

func TestSummarize_ZeroVariance_NoSharpe(t *testing.T) {
	trades := []Trade{
		{ProfitJPY: 1000, RetPct: 0.01},
		{ProfitJPY: 1000, RetPct: 0.01},
	}

	s := Summarize(trades)

	assert.Equal(t, 0.0, s.SharpeLikeRatio) // zero spread, documented default
	assert.InDelta(t, 0.01, s.AvgRetPct, 1e-9)
}

func TestSummarize_TotalProfitIsExactSum(t *testing.T) {
	trades := []Trade{
		{ProfitJPY: 123.5, RetPct: 0.001},
		{ProfitJPY: -23.5, RetPct: -0.002},
		{ProfitJPY: 0, RetPct: 0},
	}

	s := Summarize(trades)

	var sum float64
	for _, tr := range trades {
		sum += tr.ProfitJPY
	}
	assert.Equal(t, sum, s.TotalProfitJPY)
}
