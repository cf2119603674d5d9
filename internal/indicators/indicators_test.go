package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func risingColumns(n int) (high, low, close, volume []float64) {
	high = make([]float64, n)
	low = make([]float64, n)
	close = make([]float64, n)
	volume = make([]float64, n)
	for i := 0; i < n; i++ {
		c := 100 + float64(i)
		close[i] = c
		high[i] = c + 1
		low[i] = c - 1
		volume[i] = 1000
	}
	return
}

func TestSMA(t *testing.T) {
	close := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	s := SMA(close, 3)

	assert.False(t, s.ValidAt(0))
	assert.False(t, s.ValidAt(1))

	v, ok := s.At(2)
	require.True(t, ok)
	assert.InDelta(t, 2.0, v, 1e-9)

	v, ok = s.Last()
	require.True(t, ok)
	assert.InDelta(t, 9.0, v, 1e-9)
}

func TestEMAConstantInput(t *testing.T) {
	close := []float64{5, 5, 5, 5, 5, 5}
	s := EMA(close, 3)

	assert.False(t, s.ValidAt(1))
	v, ok := s.Last()
	require.True(t, ok)
	assert.InDelta(t, 5.0, v, 1e-9)
}

func TestTEMAConstantInput(t *testing.T) {
	close := make([]float64, 40)
	for i := range close {
		close[i] = 42
	}
	s := TEMA(close, 9)

	assert.False(t, s.ValidAt(23))
	assert.True(t, s.ValidAt(24))
	v, ok := s.Last()
	require.True(t, ok)
	assert.InDelta(t, 42.0, v, 1e-9)
}

func TestRSIExtremes(t *testing.T) {
	rising := []float64{1, 2, 3, 4, 5, 6}
	s := RSI(rising, 2)
	assert.False(t, s.ValidAt(1))
	v, ok := s.At(2)
	require.True(t, ok)
	assert.InDelta(t, 100.0, v, 1e-9)

	falling := []float64{6, 5, 4, 3, 2, 1}
	v, ok = RSI(falling, 2).Last()
	require.True(t, ok)
	assert.InDelta(t, 0.0, v, 1e-9)

	flat := []float64{3, 3, 3, 3, 3}
	v, ok = RSI(flat, 2).Last()
	require.True(t, ok)
	assert.InDelta(t, 50.0, v, 1e-9)
}

func TestMACDConstantInput(t *testing.T) {
	close := make([]float64, 60)
	for i := range close {
		close[i] = 10
	}
	res := MACDFull(close, 12, 26, 9)

	assert.False(t, res.Line.ValidAt(24))
	assert.True(t, res.Line.ValidAt(25))
	assert.False(t, res.Signal.ValidAt(32))
	assert.True(t, res.Signal.ValidAt(33))

	line, ok := res.Line.Last()
	require.True(t, ok)
	assert.InDelta(t, 0.0, line, 1e-9)
	sig, ok := res.Signal.Last()
	require.True(t, ok)
	assert.InDelta(t, 0.0, sig, 1e-9)
}

func TestMACDRisingTrendIsPositive(t *testing.T) {
	_, _, close, _ := risingColumns(60)
	res := MACDFull(close, 12, 26, 9)

	line, ok := res.Line.Last()
	require.True(t, ok)
	assert.Greater(t, line, 0.0)
}

func TestBollinger(t *testing.T) {
	close := []float64{1, 2, 3}
	res := Bollinger(close, 3, 2)

	mid, ok := res.Middle.At(2)
	require.True(t, ok)
	assert.InDelta(t, 2.0, mid, 1e-9)

	// sample std of {1,2,3} is 1
	upper, _ := res.Upper.At(2)
	lower, _ := res.Lower.At(2)
	assert.InDelta(t, 4.0, upper, 1e-9)
	assert.InDelta(t, 0.0, lower, 1e-9)

	pctB, _ := res.PercentB.At(2)
	assert.InDelta(t, 0.75, pctB, 1e-9)
	width, _ := res.Width.At(2)
	assert.InDelta(t, 2.0, width, 1e-9)
}

func TestStochastic(t *testing.T) {
	high := []float64{1, 2, 3, 4, 5}
	low := []float64{0, 1, 2, 3, 4}
	close := []float64{1, 2, 3, 4, 5}
	res := Stochastic(high, low, close, 3, 2)

	assert.False(t, res.K.ValidAt(1))
	k, ok := res.K.At(2)
	require.True(t, ok)
	assert.InDelta(t, 100.0, k, 1e-9)

	assert.False(t, res.D.ValidAt(2))
	d, ok := res.D.At(3)
	require.True(t, ok)
	assert.InDelta(t, 100.0, d, 1e-9)
}

func TestStochasticFlatWindow(t *testing.T) {
	high := []float64{2, 2, 2}
	low := []float64{2, 2, 2}
	close := []float64{2, 2, 2}
	k, ok := Stochastic(high, low, close, 3, 2).K.At(2)
	require.True(t, ok)
	assert.InDelta(t, 50.0, k, 1e-9)
}

func TestOBV(t *testing.T) {
	close := []float64{1, 2, 2, 1}
	volume := []float64{10, 10, 10, 10}
	s := OBV(close, volume)

	want := []float64{0, 10, 10, 0}
	for i, w := range want {
		v, ok := s.At(i)
		require.True(t, ok)
		assert.InDelta(t, w, v, 1e-9, "index %d", i)
	}
}

func TestAD(t *testing.T) {
	high := []float64{2, 4}
	low := []float64{0, 2}
	close := []float64{2, 2}
	volume := []float64{10, 10}
	s := AD(high, low, close, volume)

	// first candle closes at its high: clv = 1
	v, ok := s.At(0)
	require.True(t, ok)
	assert.InDelta(t, 10.0, v, 1e-9)

	// second closes at its low: clv = -1, running sum back to 0
	v, ok = s.At(1)
	require.True(t, ok)
	assert.InDelta(t, 0.0, v, 1e-9)
}

func TestMFIExtremes(t *testing.T) {
	high, low, close, volume := risingColumns(6)
	v, ok := MFI(high, low, close, volume, 2).Last()
	require.True(t, ok)
	assert.InDelta(t, 100.0, v, 1e-9)
}

func TestATRAndNATR(t *testing.T) {
	high := []float64{2, 3, 4}
	low := []float64{1, 2, 3}
	close := []float64{1.5, 2.5, 3.5}

	atr := ATR(high, low, close, 2)
	assert.False(t, atr.ValidAt(1))
	v, ok := atr.At(2)
	require.True(t, ok)
	assert.InDelta(t, 1.5, v, 1e-9)

	natr, ok := NATR(high, low, close, 2).At(2)
	require.True(t, ok)
	assert.InDelta(t, 1.5/3.5*100, natr, 1e-9)
}

func TestSAR(t *testing.T) {
	high := []float64{12, 14, 16}
	low := []float64{10, 12, 14}
	s := SAR(high, low, 0.02)

	v, ok := s.At(0)
	require.True(t, ok)
	assert.InDelta(t, 10.0, v, 1e-9)

	v, ok = s.At(1)
	require.True(t, ok)
	assert.InDelta(t, 10.04, v, 1e-9)
}

func TestADXRangeAndWarmup(t *testing.T) {
	high, low, close, _ := risingColumns(60)
	s := ADX(high, low, close, 14)

	assert.False(t, s.ValidAt(26))
	assert.True(t, s.ValidAt(27))
	for i := 27; i < s.Len(); i++ {
		v, ok := s.At(i)
		require.True(t, ok)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 100.0)
	}
}

func TestBatteryWarmup(t *testing.T) {
	high, low, close, volume := risingColumns(10)
	b := Compute(high, low, close, volume)

	_, ok := b.RSI.Last()
	assert.False(t, ok)
	_, ok = b.SMALong.Last()
	assert.False(t, ok)
	_, ok = b.OBV.Last()
	assert.True(t, ok)

	high, low, close, volume = risingColumns(250)
	b = Compute(high, low, close, volume)
	for _, s := range []Series{
		b.RSI, b.MACD.Line, b.MACD.Signal, b.Bollinger.Middle,
		b.Stochastic.K, b.Stochastic.D, b.ADX, b.MFI, b.SAR,
		b.TEMA, b.ATR, b.NATR, b.OBV, b.AD,
		b.EMAFast, b.EMASlow, b.EMATrend, b.EMALong,
		b.SMAFast, b.SMASlow, b.SMALong,
	} {
		_, ok := s.Last()
		assert.True(t, ok, s.Name())
	}
}
