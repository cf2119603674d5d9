package indicators

import (
	"fmt"
	"math"
)

// BollingerResult holds the three bands plus the derived %B and width
// series used for range voting.
type BollingerResult struct {
	Upper    Series
	Middle   Series
	Lower    Series
	PercentB Series
	Width    Series
}

// Bollinger computes period-SMA bands at mult sample standard deviations.
func Bollinger(close []float64, period int, mult float64) BollingerResult {
	n := len(close)
	mid, firstValid := rollingMean(close, period, 0)

	upper := make([]float64, n)
	lower := make([]float64, n)
	pctB := make([]float64, n)
	width := make([]float64, n)
	for i := firstValid; i < n; i++ {
		var ss float64
		for j := i - period + 1; j <= i; j++ {
			d := close[j] - mid[i]
			ss += d * d
		}
		sd := math.Sqrt(ss / float64(period-1))
		upper[i] = mid[i] + mult*sd
		lower[i] = mid[i] - mult*sd
		if span := upper[i] - lower[i]; span > 0 {
			pctB[i] = (close[i] - lower[i]) / span
		} else {
			pctB[i] = 0.5
		}
		if mid[i] != 0 {
			width[i] = (upper[i] - lower[i]) / mid[i]
		}
	}
	name := fmt.Sprintf("bollinger_%d", period)
	return BollingerResult{
		Upper:    newSeries(name+"_upper", upper, firstValid),
		Middle:   newSeries(name+"_middle", mid, firstValid),
		Lower:    newSeries(name+"_lower", lower, firstValid),
		PercentB: newSeries(name+"_pctb", pctB, firstValid),
		Width:    newSeries(name+"_width", width, firstValid),
	}
}
