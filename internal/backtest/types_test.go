package backtest

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_JSONRoundTrip(t *testing.T) {
	d := NewDate(day("2024-01-08"))

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-01-08"`, string(data))

	var back Date
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, back.Equal(d.Time))
}

func TestDate_UnmarshalRejectsGarbage(t *testing.T) {
	var d Date
	assert.Error(t, json.Unmarshal([]byte(`"08/01/2024"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`20240108`), &d))
}

func TestConfigValidate(t *testing.T) {
	valid := Config{
		HoldDays:        40,
		EntryOffsetDays: 1,
		StopLossPct:     0.05,
		CapitalPerTrade: 1_000_000,
	}
	assert.NoError(t, valid.Validate())

	testCases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero hold days", func(c *Config) { c.HoldDays = 0 }},
		{"negative entry offset", func(c *Config) { c.EntryOffsetDays = -1 }},
		{"stop loss above one", func(c *Config) { c.StopLossPct = 1.5 }},
		{"negative stop loss", func(c *Config) { c.StopLossPct = -0.1 }},
		{"zero capital", func(c *Config) { c.CapitalPerTrade = 0 }},
		{"negative min price", func(c *Config) { c.MinPrice = -1 }},
		{"inverted date range", func(c *Config) {
			c.Start = day("2024-06-01")
			c.End = day("2024-01-01")
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
