package service

import (
	"context"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"github.com/Vodfa/MarketAnalyser/internal/events"
	"github.com/Vodfa/MarketAnalyser/internal/indicators"
	"github.com/Vodfa/MarketAnalyser/internal/models"
	"github.com/Vodfa/MarketAnalyser/internal/modules/config"
)

// CandleSource supplies ordered confirmed candles for one market key.
type CandleSource interface {
	FetchCandles(ctx context.Context, symbol, timeframe string, limit int) ([]models.Candle, error)
}

// Analyzer runs the indicator battery over a candle window and aggregates
// the votes into one signal per run.
type Analyzer struct {
	cfg    *config.Config
	source CandleSource
	bus    *events.Bus
}

func NewAnalyzer(cfg *config.Config, source CandleSource, bus *events.Bus) *Analyzer {
	return &Analyzer{cfg: cfg, source: source, bus: bus}
}

// Analyze produces a fresh signal for the (symbol, timeframe) key. Candles
// are fetched once per run; two runs never share battery state.
func (a *Analyzer) Analyze(ctx context.Context, symbol, timeframe string) (*models.Signal, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "analysis.run")
	defer span.Finish()
	span.SetTag("symbol", symbol)
	span.SetTag("timeframe", timeframe)

	candles, err := a.source.FetchCandles(ctx, symbol, timeframe, a.cfg.Exchange.CandleLimit)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch candles %s %s", symbol, timeframe)
	}
	if len(candles) == 0 {
		return nil, errors.Errorf("no candles for %s %s", symbol, timeframe)
	}

	high := make([]float64, len(candles))
	low := make([]float64, len(candles))
	close := make([]float64, len(candles))
	volume := make([]float64, len(candles))
	for i, c := range candles {
		high[i] = c.High
		low[i] = c.Low
		close[i] = c.Close
		volume[i] = c.Volume
	}

	battery := indicators.Compute(high, low, close, volume)
	lastClose := close[len(close)-1]
	votes := collectVotes(battery, lastClose)
	direction, confidence := aggregate(votes)

	signal := &models.Signal{
		Symbol:      symbol,
		Timeframe:   timeframe,
		Direction:   direction,
		Confidence:  confidence,
		Price:       lastClose,
		Votes:       votes,
		GeneratedAt: time.Now(),
	}
	span.SetTag("direction", string(direction))
	span.SetTag("confidence", confidence)
	if adx, ok := battery.ADX.Last(); ok {
		span.SetTag("trending", adx > 25)
	}

	a.bus.Publish(events.Event{Kind: events.KindSignalProduced, Signal: signal})
	return signal, nil
}

// aggregate counts the directional votes and derives the verdict. Neutral
// votes count toward nothing; with no directional votes at all the verdict
// is SIDEWAYS at zero confidence.
func aggregate(votes map[string]models.Vote) (models.Direction, int) {
	var up, down int
	for _, v := range votes {
		switch v {
		case models.VoteUp:
			up++
		case models.VoteDown:
			down++
		}
	}
	total := up + down
	if total == 0 {
		return models.DirectionSideways, 0
	}
	confidence := abs(up-down) * 100 / total
	switch {
	case up > down:
		return models.DirectionUp, confidence
	case down > up:
		return models.DirectionDown, confidence
	default:
		// a tie always lands at zero confidence
		return models.DirectionSideways, confidence
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
