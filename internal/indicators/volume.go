package indicators

import "fmt"

// OBV is on-balance volume: the running sum of volume signed by the close
// direction.
func OBV(close, volume []float64) Series {
	n := len(close)
	values := make([]float64, n)
	for i := 1; i < n; i++ {
		switch {
		case close[i] > close[i-1]:
			values[i] = values[i-1] + volume[i]
		case close[i] < close[i-1]:
			values[i] = values[i-1] - volume[i]
		default:
			values[i] = values[i-1]
		}
	}
	return newSeries("obv", values, 0)
}

// AD is the accumulation/distribution line: the running sum of the close
// location value times volume. Candles with no range contribute nothing.
func AD(high, low, close, volume []float64) Series {
	n := len(close)
	values := make([]float64, n)
	var sum float64
	for i := 0; i < n; i++ {
		if span := high[i] - low[i]; span > 0 {
			clv := ((close[i] - low[i]) - (high[i] - close[i])) / span
			sum += clv * volume[i]
		}
		values[i] = sum
	}
	return newSeries("ad", values, 0)
}

// MFI is the money flow index over period candles. With no negative flow
// in the window the index saturates at 100; a dead window reads as 50.
func MFI(high, low, close, volume []float64, period int) Series {
	n := len(close)
	posFlow := make([]float64, n)
	negFlow := make([]float64, n)
	prevTP := 0.0
	for i := 0; i < n; i++ {
		tp := (high[i] + low[i] + close[i]) / 3
		if i > 0 {
			flow := tp * volume[i]
			if tp > prevTP {
				posFlow[i] = flow
			} else if tp < prevTP {
				negFlow[i] = flow
			}
		}
		prevTP = tp
	}
	posSum, _ := rollingSum(posFlow, period, 1)
	negSum, firstValid := rollingSum(negFlow, period, 1)

	values := make([]float64, n)
	for i := firstValid; i < n; i++ {
		switch {
		case negSum[i] > 0:
			mfr := posSum[i] / negSum[i]
			values[i] = 100 - 100/(1+mfr)
		case posSum[i] > 0:
			values[i] = 100
		default:
			values[i] = 50
		}
	}
	return newSeries(fmt.Sprintf("mfi_%d", period), values, firstValid)
}
