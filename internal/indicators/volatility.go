package indicators

import "fmt"

// ATR is the average true range smoothed with a rolling mean.
func ATR(high, low, close []float64, period int) Series {
	n := len(close)
	tr := make([]float64, n)
	for i := 1; i < n; i++ {
		tr[i] = trueRange(high[i], low[i], close[i-1])
	}
	values, firstValid := rollingMean(tr, period, 1)
	return newSeries(fmt.Sprintf("atr_%d", period), values, firstValid)
}

// NATR is ATR normalized by the close, as a percentage.
func NATR(high, low, close []float64, period int) Series {
	atr := ATR(high, low, close, period)
	values := make([]float64, len(close))
	for i := atr.firstValid; i < len(close); i++ {
		if close[i] != 0 {
			values[i] = atr.values[i] / close[i] * 100
		}
	}
	return newSeries(fmt.Sprintf("natr_%d", period), values, atr.firstValid)
}
