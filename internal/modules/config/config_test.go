package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vodfa/MarketAnalyser/internal/models"
)

func validConfig() *Config {
	c := &Config{
		Symbols:       []string{"BTC-USDT"},
		Timeframe:     "1m",
		CheckInterval: time.Minute,
	}
	c.Trading.MaxTrades = 3
	c.Trading.TradeAmount = 100
	c.Trading.StopLossPercent = 2
	c.Trading.TakeProfitPercent = 5
	c.Trading.MinConfidence = 60
	c.Exchange.CandleLimit = 300
	c.TimeLimit.Mode = "none"
	return c
}

func TestDefaultsAreRunnable(t *testing.T) {
	c, err := NewConfig()
	require.NoError(t, err)

	assert.False(t, c.Trading.Enabled)
	assert.Equal(t, 3, c.Trading.MaxTrades)
	assert.InDelta(t, 2.0, c.Trading.StopLossPercent, 1e-9)
	assert.InDelta(t, 5.0, c.Trading.TakeProfitPercent, 1e-9)
	assert.Equal(t, 60*time.Second, c.CheckInterval)
}

func TestValidateRejectsBadFields(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no symbols", func(c *Config) { c.Symbols = nil }},
		{"zero interval", func(c *Config) { c.CheckInterval = 0 }},
		{"sub-second interval", func(c *Config) { c.CheckInterval = 500 * time.Millisecond }},
		{"zero max trades", func(c *Config) { c.Trading.MaxTrades = 0 }},
		{"negative stop loss", func(c *Config) { c.Trading.StopLossPercent = -1 }},
		{"stop loss over 100", func(c *Config) { c.Trading.StopLossPercent = 150 }},
		{"confidence over 100", func(c *Config) { c.Trading.MinConfidence = 101 }},
		{"zero candle limit", func(c *Config) { c.Exchange.CandleLimit = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := validConfig()
			tc.mutate(c)
			err := c.Validate()
			require.Error(t, err)
			var ce *ConfigurationError
			assert.ErrorAs(t, err, &ce)
		})
	}
}

func TestTimeLimitPolicyBuilding(t *testing.T) {
	c := validConfig()

	p, err := c.TimeLimitPolicy()
	require.NoError(t, err)
	assert.Equal(t, models.PolicyNone, p.Kind)

	c.TimeLimit.Mode = "duration"
	c.TimeLimit.Duration = time.Hour
	p, err = c.TimeLimitPolicy()
	require.NoError(t, err)
	assert.Equal(t, models.PolicyDuration, p.Kind)
	assert.Equal(t, time.Hour, p.Duration)

	c.TimeLimit.Mode = "deadline"
	c.TimeLimit.Deadline = "2026-09-01T18:00:00Z"
	p, err = c.TimeLimitPolicy()
	require.NoError(t, err)
	assert.Equal(t, models.PolicyDeadline, p.Kind)

	c.TimeLimit.Mode = "daily_window"
	c.TimeLimit.WindowStart = "22:00"
	c.TimeLimit.WindowEnd = "06:00"
	p, err = c.TimeLimitPolicy()
	require.NoError(t, err)
	assert.Equal(t, models.TimeOfDay{Hour: 22}, p.WindowStart)
	assert.Equal(t, models.TimeOfDay{Hour: 6}, p.WindowEnd)

	c.TimeLimit.Mode = "daily_window"
	c.TimeLimit.WindowEnd = "22:00"
	_, err = c.TimeLimitPolicy()
	assert.Error(t, err)

	c.TimeLimit.Mode = "bogus"
	_, err = c.TimeLimitPolicy()
	assert.Error(t, err)
}
