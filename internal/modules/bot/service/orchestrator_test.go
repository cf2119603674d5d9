package service

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vodfa/MarketAnalyser/internal/events"
	"github.com/Vodfa/MarketAnalyser/internal/models"
	analysis "github.com/Vodfa/MarketAnalyser/internal/modules/analysis/service"
	"github.com/Vodfa/MarketAnalyser/internal/modules/config"
	governor "github.com/Vodfa/MarketAnalyser/internal/modules/governor/service"
	trading "github.com/Vodfa/MarketAnalyser/internal/modules/trading/service"
	"github.com/Vodfa/MarketAnalyser/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type stubSource struct{}

func (stubSource) FetchCandles(ctx context.Context, symbol, timeframe string, limit int) ([]models.Candle, error) {
	out := make([]models.Candle, limit)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range out {
		out[i] = models.Candle{
			Open: 100, High: 101, Low: 99, Close: 100, Volume: 1000,
			Timestamp: start.Add(time.Duration(i) * time.Minute),
		}
	}
	return out, nil
}

type stubGateway struct{}

func (stubGateway) PlaceOrder(ctx context.Context, symbol string, side models.Side, quantity float64) (models.OrderResult, error) {
	return models.OrderResult{OrderID: "ord"}, nil
}

func newTestOrchestrator(t *testing.T, cfg *config.Config) (*Orchestrator, *trading.Manager, *events.Bus) {
	t.Helper()
	bus := events.NewBus()
	gov, err := governor.NewGovernor(cfg)
	require.NoError(t, err)
	mgr := trading.NewManager(cfg, stubGateway{}, bus, gov)
	analyzer := analysis.NewAnalyzer(cfg, stubSource{}, bus)
	sched := analysis.NewScheduler(cfg, analyzer, mgr)
	return NewOrchestrator(cfg, sched, gov, mgr, bus), mgr, bus
}

func baseConfig() *config.Config {
	c := &config.Config{
		Symbols:       []string{"BTC-USDT"},
		Timeframe:     "1m",
		CheckInterval: time.Hour,
	}
	c.Exchange.CandleLimit = 50
	c.Trading.MaxTrades = 3
	c.Trading.TradeAmount = 100
	c.Trading.StopLossPercent = 2
	c.Trading.TakeProfitPercent = 5
	c.Trading.MinConfidence = 60
	c.TimeLimit.Mode = "none"
	return c
}

func TestStartIsIdempotent(t *testing.T) {
	o, _, _ := newTestOrchestrator(t, baseConfig())
	defer o.Stop(context.Background())

	require.NoError(t, o.Start())
	assert.Equal(t, models.BotRunning, o.State())
	require.NoError(t, o.Start())
	assert.Equal(t, models.BotRunning, o.State())
}

func TestStopIsAlwaysSafe(t *testing.T) {
	o, _, _ := newTestOrchestrator(t, baseConfig())

	// stop before start is a no-op
	o.Stop(context.Background())
	assert.Equal(t, models.BotIdle, o.State())

	require.NoError(t, o.Start())
	o.Stop(context.Background())
	assert.Equal(t, models.BotStopped, o.State())

	// stopping twice stays stopped
	o.Stop(context.Background())
	assert.Equal(t, models.BotStopped, o.State())
}

func TestGovernorHaltStopsSessionAndFlattensBook(t *testing.T) {
	cfg := baseConfig()
	cfg.Trading.Enabled = true
	cfg.Trading.CloseOnHalt = true
	cfg.TimeLimit.Mode = "deadline"
	cfg.TimeLimit.Deadline = time.Now().Add(-time.Minute).UTC().Format(time.RFC3339)

	o, mgr, bus := newTestOrchestrator(t, cfg)
	sub := bus.Subscribe()

	_, err := mgr.Open(context.Background(), "BTC-USDT", 100)
	require.NoError(t, err)

	require.NoError(t, o.Start())

	// the governor ticks once a second and fires immediately past deadline
	assert.Eventually(t, func() bool {
		return o.State() == models.BotStopped
	}, 5*time.Second, 50*time.Millisecond)

	assert.Empty(t, mgr.Snapshot(), "close_on_halt must flatten the book")

	var halted bool
	for !halted {
		select {
		case ev := <-sub:
			if ev.Kind == events.KindBotHalted {
				assert.Contains(t, ev.HaltReason, "deadline")
				halted = true
			}
		default:
			t.Fatal("expected a halt event on the bus")
		}
	}
}

func TestStatusSnapshot(t *testing.T) {
	o, mgr, _ := newTestOrchestrator(t, baseConfig())
	defer o.Stop(context.Background())

	st := o.Status()
	assert.Equal(t, models.BotIdle, st.State)
	assert.Zero(t, st.ActiveTrades)

	require.NoError(t, o.Start())
	_, err := mgr.Open(context.Background(), "BTC-USDT", 100)
	require.NoError(t, err)

	st = o.Status()
	assert.Equal(t, models.BotRunning, st.State)
	assert.Equal(t, 1, st.ActiveTrades)
	assert.False(t, st.StartedAt.IsZero())
}
