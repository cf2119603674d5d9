package service

import (
	"github.com/Vodfa/MarketAnalyser/internal/indicators"
	"github.com/Vodfa/MarketAnalyser/internal/models"
)

// Thresholds of the oscillator vote rules.
const (
	rsiOversold   = 30
	rsiOverbought = 70
	mfiOversold   = 20
	mfiOverbought = 80
	bbOversold    = 0.2
	bbOverbought  = 0.8
)

// collectVotes turns a computed battery into per-indicator votes at the
// latest candle. Only the oscillator set carries direction: rsi, macd,
// bollinger (band cross and %B), the 9/21 ema cross and mfi. Trend and
// volume gauges stay neutral context so a long run-up cannot outvote an
// overbought reading. Indicators still inside their warm-up window are
// left out of the map entirely so the aggregation never counts them.
func collectVotes(b *indicators.Battery, lastClose float64) map[string]models.Vote {
	votes := make(map[string]models.Vote)

	if rsi, ok := b.RSI.Last(); ok {
		votes["rsi"] = thresholdVote(rsi, rsiOversold, rsiOverbought)
	}
	if line, ok := b.MACD.Line.Last(); ok {
		if sig, ok := b.MACD.Signal.Last(); ok {
			votes["macd"] = compareVote(line, sig)
		}
	}
	if upper, ok := b.Bollinger.Upper.Last(); ok {
		lower, _ := b.Bollinger.Lower.Last()
		switch {
		case lastClose < lower:
			votes["bollinger"] = models.VoteUp
		case lastClose > upper:
			votes["bollinger"] = models.VoteDown
		default:
			votes["bollinger"] = models.VoteNeutral
		}
	}
	if pb, ok := b.Bollinger.PercentB.Last(); ok {
		votes["bb_percent"] = thresholdVote(pb, bbOversold, bbOverbought)
	}
	if fast, ok := b.EMAFast.Last(); ok {
		if slow, ok := b.EMASlow.Last(); ok {
			votes["ema_cross"] = compareVote(fast, slow)
		}
	}
	if mfi, ok := b.MFI.Last(); ok {
		votes["mfi"] = thresholdVote(mfi, mfiOversold, mfiOverbought)
	}

	// context gauges: recorded when warm, never directional
	context := []struct {
		name   string
		series indicators.Series
	}{
		{"stochastic", b.Stochastic.K},
		{"sar", b.SAR},
		{"tema", b.TEMA},
		{"ema50_trend", b.EMATrend},
		{"ema200_trend", b.EMALong},
		{"sma_cross", b.SMASlow},
		{"sma200_trend", b.SMALong},
		{"obv", b.OBV},
		{"ad", b.AD},
		{"adx", b.ADX},
		{"atr", b.ATR},
		{"natr", b.NATR},
	}
	for _, g := range context {
		if _, ok := g.series.Last(); ok {
			votes[g.name] = models.VoteNeutral
		}
	}

	return votes
}

// thresholdVote maps oscillator extremes to a mean-reversion vote: below
// the oversold bound is UP, above the overbought bound is DOWN.
func thresholdVote(v, oversold, overbought float64) models.Vote {
	switch {
	case v < oversold:
		return models.VoteUp
	case v > overbought:
		return models.VoteDown
	default:
		return models.VoteNeutral
	}
}

func compareVote(a, b float64) models.Vote {
	switch {
	case a > b:
		return models.VoteUp
	case a < b:
		return models.VoteDown
	default:
		return models.VoteNeutral
	}
}
