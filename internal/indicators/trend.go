package indicators

import (
	"fmt"
	"math"
)

// ADX is the average directional index with rolling-mean smoothing of the
// directional movements and the true range.
func ADX(high, low, close []float64, period int) Series {
	n := len(close)
	plusDM := make([]float64, n)
	minusDM := make([]float64, n)
	tr := make([]float64, n)
	for i := 1; i < n; i++ {
		up := high[i] - high[i-1]
		down := low[i-1] - low[i]
		if up > 0 && up > down {
			plusDM[i] = up
		}
		if down > 0 && down > up {
			minusDM[i] = down
		}
		tr[i] = trueRange(high[i], low[i], close[i-1])
	}
	avgPlus, _ := rollingMean(plusDM, period, 1)
	avgMinus, _ := rollingMean(minusDM, period, 1)
	avgTR, trValid := rollingMean(tr, period, 1)

	dx := make([]float64, n)
	for i := trValid; i < n; i++ {
		if avgTR[i] == 0 {
			continue
		}
		plusDI := 100 * avgPlus[i] / avgTR[i]
		minusDI := 100 * avgMinus[i] / avgTR[i]
		if sum := plusDI + minusDI; sum > 0 {
			dx[i] = 100 * math.Abs(plusDI-minusDI) / sum
		}
	}
	adx, firstValid := rollingMean(dx, period, trValid)
	return newSeries(fmt.Sprintf("adx_%d", period), adx, firstValid)
}

// SAR is a simplified parabolic stop-and-reverse: the stop trails each
// candle's prior high at a fixed acceleration, seeded from the first low.
func SAR(high, low []float64, acceleration float64) Series {
	n := len(high)
	values := make([]float64, n)
	if n == 0 {
		return newSeries("sar", values, 0)
	}
	values[0] = low[0]
	for i := 1; i < n; i++ {
		values[i] = values[i-1] + acceleration*(high[i-1]-values[i-1])
	}
	return newSeries("sar", values, 0)
}

func trueRange(high, low, prevClose float64) float64 {
	tr := high - low
	if d := math.Abs(high - prevClose); d > tr {
		tr = d
	}
	if d := math.Abs(low - prevClose); d > tr {
		tr = d
	}
	return tr
}
