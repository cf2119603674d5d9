package indicators

import "fmt"

// RSI is the relative strength index with simple-moving-average smoothing
// of gains and losses. When no losses occurred in the window the index
// saturates at 100; a flat window reads as 50.
func RSI(close []float64, period int) Series {
	n := len(close)
	gains := make([]float64, n)
	losses := make([]float64, n)
	for i := 1; i < n; i++ {
		d := close[i] - close[i-1]
		if d > 0 {
			gains[i] = d
		} else {
			losses[i] = -d
		}
	}
	avgGain, _ := rollingMean(gains, period, 1)
	avgLoss, firstValid := rollingMean(losses, period, 1)

	values := make([]float64, n)
	for i := firstValid; i < n; i++ {
		switch {
		case avgLoss[i] > 0:
			rs := avgGain[i] / avgLoss[i]
			values[i] = 100 - 100/(1+rs)
		case avgGain[i] > 0:
			values[i] = 100
		default:
			values[i] = 50
		}
	}
	return newSeries(fmt.Sprintf("rsi_%d", period), values, firstValid)
}

// MACDResult carries the MACD line, its signal line and the histogram.
type MACDResult struct {
	Line      Series
	Signal    Series
	Histogram Series
}

// MACD computes EMA(fast) - EMA(slow) and an EMA(signal) of that line.
func MACD(close []float64, fast, slow, signal int) Series {
	return MACDFull(close, fast, slow, signal).Line
}

// MACDFull returns all three MACD series.
func MACDFull(close []float64, fast, slow, signal int) MACDResult {
	n := len(close)
	emaFast := ewm(close, fast, 0)
	emaSlow := ewm(close, slow, 0)
	line := make([]float64, n)
	for i := range line {
		line[i] = emaFast[i] - emaSlow[i]
	}
	lineValid := slow - 1
	sig := ewm(line, signal, 0)
	sigValid := lineValid + signal - 1
	hist := make([]float64, n)
	for i := range hist {
		hist[i] = line[i] - sig[i]
	}
	name := fmt.Sprintf("macd_%d_%d_%d", fast, slow, signal)
	return MACDResult{
		Line:      newSeries(name, line, lineValid),
		Signal:    newSeries(name+"_signal", sig, sigValid),
		Histogram: newSeries(name+"_hist", hist, sigValid),
	}
}

// StochasticResult is the fast stochastic oscillator: %K over kPeriod and
// %D as a simple moving average of %K.
type StochasticResult struct {
	K Series
	D Series
}

// Stochastic computes %K = 100*(close-LL)/(HH-LL) over kPeriod candles and
// %D = SMA(%K, dPeriod). A flat window reads %K as 50.
func Stochastic(high, low, close []float64, kPeriod, dPeriod int) StochasticResult {
	n := len(close)
	k := make([]float64, n)
	kValid := kPeriod - 1
	for i := kValid; i < n; i++ {
		hh, ll := high[i], low[i]
		for j := i - kPeriod + 1; j < i; j++ {
			if high[j] > hh {
				hh = high[j]
			}
			if low[j] < ll {
				ll = low[j]
			}
		}
		if hh == ll {
			k[i] = 50
		} else {
			k[i] = 100 * (close[i] - ll) / (hh - ll)
		}
	}
	d, dValid := rollingMean(k, dPeriod, kValid)
	name := fmt.Sprintf("stoch_%d_%d", kPeriod, dPeriod)
	return StochasticResult{
		K: newSeries(name+"_k", k, kValid),
		D: newSeries(name+"_d", d, dValid),
	}
}
