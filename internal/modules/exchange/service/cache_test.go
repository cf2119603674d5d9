package service

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vodfa/MarketAnalyser/internal/models"
)

func makeCandles(n int, start time.Time) []models.Candle {
	out := make([]models.Candle, n)
	for i := range out {
		out[i] = models.Candle{
			Close:     100 + float64(i),
			Timestamp: start.Add(time.Duration(i) * time.Minute),
		}
	}
	return out
}

func TestCandleCacheColdUntilSeeded(t *testing.T) {
	cc := newCandleCache(5)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	_, ok := cc.window("BTC-USDT", "1m", 3)
	assert.False(t, ok)

	cc.seed("BTC-USDT", "1m", makeCandles(3, start))
	_, ok = cc.window("BTC-USDT", "1m", 3)
	assert.False(t, ok, "partial seed must not warm the cache")

	cc.seed("BTC-USDT", "1m", makeCandles(5, start))
	w, ok := cc.window("BTC-USDT", "1m", 3)
	require.True(t, ok)
	require.Len(t, w, 3)
	assert.InDelta(t, 104.0, w[2].Close, 1e-9)
}

func TestCandleCachePush(t *testing.T) {
	cc := newCandleCache(3)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cc.seed("ETH-USDT", "1m", makeCandles(3, start))

	// stale and duplicate candles are ignored
	cc.push("ETH-USDT", "1m", models.Candle{Close: 1, Timestamp: start})
	cc.push("ETH-USDT", "1m", models.Candle{Close: 1, Timestamp: start.Add(2 * time.Minute)})
	w, ok := cc.window("ETH-USDT", "1m", 3)
	require.True(t, ok)
	assert.InDelta(t, 102.0, w[2].Close, 1e-9)

	// a fresh candle advances the window and evicts the oldest
	cc.push("ETH-USDT", "1m", models.Candle{Close: 200, Timestamp: start.Add(3 * time.Minute)})
	w, ok = cc.window("ETH-USDT", "1m", 3)
	require.True(t, ok)
	assert.InDelta(t, 101.0, w[0].Close, 1e-9)
	assert.InDelta(t, 200.0, w[2].Close, 1e-9)
}

func TestParseCandleRow(t *testing.T) {
	ts := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	row := []string{
		strconv.FormatInt(ts.UnixMilli(), 10),
		"100", "110", "90", "105", "1234", "0", "0", "1",
	}
	c, ok := parseCandleRow(row)
	require.True(t, ok)
	assert.InDelta(t, 100.0, c.Open, 1e-9)
	assert.InDelta(t, 105.0, c.Close, 1e-9)
	assert.InDelta(t, 1234.0, c.Volume, 1e-9)
	assert.True(t, c.Timestamp.Equal(ts))

	// unconfirmed candles are skipped
	row[len(row)-1] = "0"
	_, ok = parseCandleRow(row)
	assert.False(t, ok)

	// short rows are skipped
	_, ok = parseCandleRow([]string{"1", "2", "3"})
	assert.False(t, ok)
}
