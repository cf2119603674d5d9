package models

import "time"

// Candle is one OHLCV bar. Immutable once produced by the data source;
// sequences are ordered by strictly increasing Timestamp on a fixed timeframe.
type Candle struct {
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
	Timestamp time.Time
}
