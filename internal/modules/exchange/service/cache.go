package service

import (
	"sync"

	"github.com/Vodfa/MarketAnalyser/internal/models"
)

// candleCache keeps a rolling window of confirmed candles per
// (symbol, timeframe), fed by the WebSocket stream. It only answers once a
// window has been seeded to full depth, so short windows never poison an
// analysis run.
type candleCache struct {
	mu      sync.RWMutex
	depth   int
	windows map[string][]models.Candle
	seeded  map[string]bool
}

func newCandleCache(depth int) *candleCache {
	return &candleCache{
		depth:   depth,
		windows: make(map[string][]models.Candle),
		seeded:  make(map[string]bool),
	}
}

func cacheKey(symbol, timeframe string) string { return symbol + "/" + timeframe }

// seed replaces the whole window, marking it warm when full depth arrived.
func (cc *candleCache) seed(symbol, timeframe string, candles []models.Candle) {
	key := cacheKey(symbol, timeframe)
	cc.mu.Lock()
	defer cc.mu.Unlock()
	w := make([]models.Candle, len(candles))
	copy(w, candles)
	if len(w) > cc.depth {
		w = w[len(w)-cc.depth:]
	}
	cc.windows[key] = w
	cc.seeded[key] = len(w) >= cc.depth
}

// push appends one confirmed candle, dropping duplicates and stale bars.
func (cc *candleCache) push(symbol, timeframe string, candle models.Candle) {
	key := cacheKey(symbol, timeframe)
	cc.mu.Lock()
	defer cc.mu.Unlock()
	w := cc.windows[key]
	if n := len(w); n > 0 && !candle.Timestamp.After(w[n-1].Timestamp) {
		return
	}
	w = append(w, candle)
	if len(w) > cc.depth {
		w = w[len(w)-cc.depth:]
	}
	cc.windows[key] = w
	if len(w) >= cc.depth {
		cc.seeded[key] = true
	}
}

// window returns a copy of the newest limit candles, oldest first, and
// whether the cache was warm enough to serve them.
func (cc *candleCache) window(symbol, timeframe string, limit int) ([]models.Candle, bool) {
	key := cacheKey(symbol, timeframe)
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	if !cc.seeded[key] {
		return nil, false
	}
	w := cc.windows[key]
	if len(w) < limit {
		return nil, false
	}
	out := make([]models.Candle, limit)
	copy(out, w[len(w)-limit:])
	return out, true
}
