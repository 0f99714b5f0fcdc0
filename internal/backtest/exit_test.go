package backtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"stock-backtest-go/internal/models"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func bar(date string, low, close float64) models.PriceBar {
	return models.PriceBar{
		Code:  "1301",
		Date:  day(date),
		Open:  close,
		High:  close,
		Low:   low,
		Close: close,
	}
}

func TestEvaluateExit_HoldExpiry(t *testing.T) {
	entry := bar("2024-01-05", 990, 1000)
	future := []models.PriceBar{
		bar("2024-01-08", 1000, 1010),
		bar("2024-01-09", 1005, 1020),
		bar("2024-01-10", 1010, 1030),
		bar("2024-01-11", 1015, 1040),
	}

	dec := evaluateExit(entry, future, Config{HoldDays: 3})

	assert.Equal(t, ExitHoldExpired, dec.reason)
	assert.Equal(t, day("2024-01-10"), dec.bar.Date)
	assert.Equal(t, 1030.0, dec.price)
}

func TestEvaluateExit_StopLossOnLow_TriggersOnDayTwo(t *testing.T) {
	// entry 1000, stop 5%; day 2's low implies a 6% drawdown, so the trade
	// must close on day 2 even though the hold period runs to day 5.
	entry := bar("2024-01-05", 990, 1000)
	future := []models.PriceBar{
		bar("2024-01-08", 980, 990),
		bar("2024-01-09", 940, 980), // low breaches 950 stop
		bar("2024-01-10", 970, 975),
		bar("2024-01-11", 970, 980),
		bar("2024-01-12", 975, 985),
	}

	dec := evaluateExit(entry, future, Config{HoldDays: 5, StopLossPct: 0.05, StopLossOnLow: true})

	assert.Equal(t, ExitStopLoss, dec.reason)
	assert.Equal(t, day("2024-01-09"), dec.bar.Date)
	// Conservative fill: the close recovered above the stop price, so the
	// fill is the stop price itself, never better than the threshold.
	assert.Equal(t, 950.0, dec.price)
}

func TestEvaluateExit_StopLossOnClose(t *testing.T) {
	entry := bar("2024-01-05", 990, 1000)
	future := []models.PriceBar{
		bar("2024-01-08", 940, 990), // low breaches but basis is the close
		bar("2024-01-09", 930, 945),
	}

	dec := evaluateExit(entry, future, Config{HoldDays: 10, StopLossPct: 0.05})

	assert.Equal(t, ExitStopLoss, dec.reason)
	assert.Equal(t, day("2024-01-09"), dec.bar.Date)
	assert.Equal(t, 945.0, dec.price)
}

func TestEvaluateExit_StopBeatsHoldOnSameDay(t *testing.T) {
	entry := bar("2024-01-05", 990, 1000)
	future := []models.PriceBar{
		bar("2024-01-08", 995, 1000),
		bar("2024-01-09", 900, 910), // hold deadline and stop breach coincide
	}

	dec := evaluateExit(entry, future, Config{HoldDays: 2, StopLossPct: 0.05})

	assert.Equal(t, ExitStopLoss, dec.reason)
	assert.Equal(t, day("2024-01-09"), dec.bar.Date)
}

func TestEvaluateExit_DataExhausted(t *testing.T) {
	entry := bar("2024-01-05", 990, 1000)
	future := []models.PriceBar{
		bar("2024-01-08", 1000, 1010),
		bar("2024-01-09", 1005, 1015),
	}

	dec := evaluateExit(entry, future, Config{HoldDays: 40})

	assert.Equal(t, ExitDataExhausted, dec.reason)
	assert.Equal(t, day("2024-01-09"), dec.bar.Date)
	assert.Equal(t, 1015.0, dec.price)
}

func TestEvaluateExit_NoBarsAfterEntry(t *testing.T) {
	entry := bar("2024-01-05", 990, 1000)

	dec := evaluateExit(entry, nil, Config{HoldDays: 40})

	assert.Equal(t, ExitDataExhausted, dec.reason)
	assert.Equal(t, entry.Date, dec.bar.Date)
	assert.Equal(t, entry.Close, dec.price)
}
