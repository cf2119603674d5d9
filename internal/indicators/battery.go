package indicators

// Default periods for the standard battery.
const (
	RSIPeriod       = 14
	MACDFast        = 12
	MACDSlow        = 26
	MACDSignal      = 9
	BollingerPeriod = 20
	BollingerMult   = 2.0
	StochKPeriod    = 14
	StochDPeriod    = 3
	ADXPeriod       = 14
	MFIPeriod       = 14
	ATRPeriod       = 14
	TEMAPeriod      = 9
	SARAcceleration = 0.02
	EMAFastPeriod   = 9
	EMASlowPeriod   = 21
	EMATrendPeriod  = 50
	EMALongPeriod   = 200
	SMAFastPeriod   = 20
	SMASlowPeriod   = 50
	SMALongPeriod   = 200
)

// Battery is the full indicator set computed over one candle window. Series
// that did not have enough candles to warm up simply report invalid values;
// the caller decides what to do with them.
type Battery struct {
	RSI        Series
	MACD       MACDResult
	Bollinger  BollingerResult
	Stochastic StochasticResult
	ADX        Series
	MFI        Series
	SAR        Series
	TEMA       Series
	ATR        Series
	NATR       Series
	OBV        Series
	AD         Series

	EMAFast  Series
	EMASlow  Series
	EMATrend Series
	EMALong  Series
	SMAFast  Series
	SMASlow  Series
	SMALong  Series
}

// Compute runs the whole battery over aligned OHLCV columns.
func Compute(high, low, close, volume []float64) *Battery {
	return &Battery{
		RSI:        RSI(close, RSIPeriod),
		MACD:       MACDFull(close, MACDFast, MACDSlow, MACDSignal),
		Bollinger:  Bollinger(close, BollingerPeriod, BollingerMult),
		Stochastic: Stochastic(high, low, close, StochKPeriod, StochDPeriod),
		ADX:        ADX(high, low, close, ADXPeriod),
		MFI:        MFI(high, low, close, volume, MFIPeriod),
		SAR:        SAR(high, low, SARAcceleration),
		TEMA:       TEMA(close, TEMAPeriod),
		ATR:        ATR(high, low, close, ATRPeriod),
		NATR:       NATR(high, low, close, ATRPeriod),
		OBV:        OBV(close, volume),
		AD:         AD(high, low, close, volume),

		EMAFast:  EMA(close, EMAFastPeriod),
		EMASlow:  EMA(close, EMASlowPeriod),
		EMATrend: EMA(close, EMATrendPeriod),
		EMALong:  EMA(close, EMALongPeriod),
		SMAFast:  SMA(close, SMAFastPeriod),
		SMASlow:  SMA(close, SMASlowPeriod),
		SMALong:  SMA(close, SMALongPeriod),
	}
}
