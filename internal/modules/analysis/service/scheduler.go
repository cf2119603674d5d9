package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Vodfa/MarketAnalyser/internal/models"
	"github.com/Vodfa/MarketAnalyser/internal/modules/config"
	"github.com/Vodfa/MarketAnalyser/pkg/logger"
)

// SignalSink receives every completed analysis run.
type SignalSink interface {
	OnSignal(ctx context.Context, signal *models.Signal)
}

// Scheduler fires one analysis run per symbol on a fixed interval. Each
// (symbol, timeframe) key holds an in-flight flag: a tick that lands while
// the previous run is still going is dropped, never queued.
type Scheduler struct {
	cfg      *config.Config
	analyzer *Analyzer
	sink     SignalSink

	inFlight map[string]*atomic.Bool
	wg       sync.WaitGroup
}

func NewScheduler(cfg *config.Config, analyzer *Analyzer, sink SignalSink) *Scheduler {
	inFlight := make(map[string]*atomic.Bool, len(cfg.Symbols))
	for _, sym := range cfg.Symbols {
		inFlight[sym] = &atomic.Bool{}
	}
	return &Scheduler{
		cfg:      cfg,
		analyzer: analyzer,
		sink:     sink,
		inFlight: inFlight,
	}
}

// Run blocks until ctx is done. The first sweep fires immediately.
func (s *Scheduler) Run(ctx context.Context) {
	t := time.NewTicker(s.cfg.CheckInterval)
	defer t.Stop()

	s.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			s.wg.Wait()
			return
		case <-t.C:
			s.sweep(ctx)
		}
	}
}

func (s *Scheduler) sweep(ctx context.Context) {
	for _, sym := range s.cfg.Symbols {
		flag := s.inFlight[sym]
		if !flag.CompareAndSwap(false, true) {
			logger.Warn("analysis still running, tick dropped: %s %s", sym, s.cfg.Timeframe)
			continue
		}
		s.wg.Add(1)
		go func(symbol string) {
			defer s.wg.Done()
			defer flag.Store(false)
			s.runOne(ctx, symbol)
		}(sym)
	}
}

func (s *Scheduler) runOne(ctx context.Context, symbol string) {
	signal, err := s.analyzer.Analyze(ctx, symbol, s.cfg.Timeframe)
	if err != nil {
		logger.Error("analysis failed %s: %v", symbol, err)
		return
	}
	logger.Info("signal %s %s: %s conf=%d price=%.4f",
		symbol, s.cfg.Timeframe, signal.Direction, signal.Confidence, signal.Price)
	if s.sink != nil {
		s.sink.OnSignal(ctx, signal)
	}
}
