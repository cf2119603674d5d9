package indicators

import "fmt"

// SMA is the simple moving average of close over period candles.
func SMA(close []float64, period int) Series {
	values, firstValid := rollingMean(close, period, 0)
	return newSeries(fmt.Sprintf("sma_%d", period), values, firstValid)
}

// EMA is the exponential moving average of close with span = period.
// The recursion is seeded from the first candle; values are reported valid
// once period candles have fed the average.
func EMA(close []float64, period int) Series {
	values := ewm(close, period, 0)
	return newSeries(fmt.Sprintf("ema_%d", period), values, period-1)
}

// TEMA is the triple exponential moving average:
// 3*EMA - 3*EMA(EMA) + EMA(EMA(EMA)).
func TEMA(close []float64, period int) Series {
	e1 := ewm(close, period, 0)
	e2 := ewm(e1, period, 0)
	e3 := ewm(e2, period, 0)
	values := make([]float64, len(close))
	for i := range values {
		values[i] = 3*e1[i] - 3*e2[i] + e3[i]
	}
	return newSeries(fmt.Sprintf("tema_%d", period), values, 3*(period-1))
}
