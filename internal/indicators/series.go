// Package indicators computes technical indicator series over OHLCV columns.
// Every function is pure: it takes aligned float slices and returns a Series
// whose leading warm-up region is marked invalid instead of being trimmed,
// so indexes always line up with the input candles.
package indicators

// Series is one indicator output aligned with its input candles. Values
// before firstValid are warm-up garbage and must not be read.
type Series struct {
	name       string
	values     []float64
	firstValid int
}

func newSeries(name string, values []float64, firstValid int) Series {
	if firstValid < 0 {
		firstValid = 0
	}
	if firstValid > len(values) {
		firstValid = len(values)
	}
	return Series{name: name, values: values, firstValid: firstValid}
}

func (s Series) Name() string { return s.name }

func (s Series) Len() int { return len(s.values) }

// ValidAt reports whether index i holds a fully warmed-up value.
func (s Series) ValidAt(i int) bool {
	return i >= s.firstValid && i < len(s.values)
}

// At returns the value at index i and whether it is valid.
func (s Series) At(i int) (float64, bool) {
	if !s.ValidAt(i) {
		return 0, false
	}
	return s.values[i], true
}

// Last returns the final value and whether it is valid.
func (s Series) Last() (float64, bool) {
	return s.At(len(s.values) - 1)
}

// Prev returns the value one step before the end.
func (s Series) Prev() (float64, bool) {
	return s.At(len(s.values) - 2)
}

// rollingMean computes a simple moving average over window w. Output index i
// is valid once w inputs starting at `from` are available.
func rollingMean(values []float64, w, from int) ([]float64, int) {
	out := make([]float64, len(values))
	var sum float64
	for i := from; i < len(values); i++ {
		sum += values[i]
		if i-from >= w {
			sum -= values[i-w]
		}
		if i-from >= w-1 {
			out[i] = sum / float64(w)
		}
	}
	return out, from + w - 1
}

// rollingSum is rollingMean without the division.
func rollingSum(values []float64, w, from int) ([]float64, int) {
	out := make([]float64, len(values))
	var sum float64
	for i := from; i < len(values); i++ {
		sum += values[i]
		if i-from >= w {
			sum -= values[i-w]
		}
		if i-from >= w-1 {
			out[i] = sum
		}
	}
	return out, from + w - 1
}

// ewm computes an exponential moving average with alpha = 2/(span+1),
// seeded with the first input value.
func ewm(values []float64, span, from int) []float64 {
	out := make([]float64, len(values))
	if from >= len(values) {
		return out
	}
	alpha := 2.0 / (float64(span) + 1.0)
	out[from] = values[from]
	for i := from + 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}
