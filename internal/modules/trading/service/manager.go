package service

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/Vodfa/MarketAnalyser/internal/events"
	"github.com/Vodfa/MarketAnalyser/internal/models"
	"github.com/Vodfa/MarketAnalyser/internal/modules/config"
	"github.com/Vodfa/MarketAnalyser/pkg/logger"
)

const (
	closeRetryAttempts = 3
	closeRetryBackoff  = 500 * time.Millisecond
)

// Gateway places orders on the exchange.
type Gateway interface {
	PlaceOrder(ctx context.Context, symbol string, side models.Side, quantity float64) (models.OrderResult, error)
}

// Permit gates trade entry; the time-limit governor implements it.
type Permit interface {
	TradingAllowed() bool
}

// Stats is the running account of terminal trades.
type Stats struct {
	Wins     int
	Losses   int
	WinRate  float64
	TotalPnL float64
}

// Manager owns every trade for its whole lifecycle. All state transitions
// happen under one mutex; order placement happens outside it so a slow
// exchange never blocks bookkeeping.
type Manager struct {
	cfg    *config.Config
	gw     Gateway
	bus    *events.Bus
	permit Permit

	mu       sync.Mutex
	active   map[string]*models.Trade // id -> non-terminal trade
	bySymbol map[string]string        // symbol -> active trade id
	closing  map[string]struct{}      // trade ids with a sell in flight
	history  []*models.Trade
	stats    Stats

	entropy *rand.Rand
}

func NewManager(cfg *config.Config, gw Gateway, bus *events.Bus, permit Permit) *Manager {
	return &Manager{
		cfg:      cfg,
		gw:       gw,
		bus:      bus,
		permit:   permit,
		active:   make(map[string]*models.Trade),
		bySymbol: make(map[string]string),
		closing:  make(map[string]struct{}),
		entropy:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// OnSignal is the scheduler sink: it first marks open positions against the
// fresh price, then acts on the signal itself.
func (m *Manager) OnSignal(ctx context.Context, signal *models.Signal) {
	m.checkExits(ctx, signal)

	if !m.cfg.Trading.Enabled {
		return
	}
	switch signal.Direction {
	case models.DirectionUp:
		if signal.Confidence < m.cfg.Trading.MinConfidence {
			return
		}
		if m.permit != nil && !m.permit.TradingAllowed() {
			logger.Info("entry skipped, trading window closed: %s", signal.Symbol)
			return
		}
		m.Open(ctx, signal.Symbol, signal.Price)
	case models.DirectionDown:
		// a weak opposite signal is noise, not an exit
		if signal.Confidence < m.cfg.Trading.MinConfidence {
			return
		}
		if t, ok := m.openTrade(signal.Symbol); ok {
			m.Close(ctx, t.ID, signal.Price, models.CloseSignal)
		}
	}
}

// checkExits closes the symbol's open trade when the fresh price crossed
// its stop loss or take profit.
func (m *Manager) checkExits(ctx context.Context, signal *models.Signal) {
	t, ok := m.openTrade(signal.Symbol)
	if !ok {
		return
	}
	switch {
	case signal.Price <= t.StopLoss:
		m.Close(ctx, t.ID, signal.Price, models.CloseStopLoss)
	case signal.Price >= t.TakeProfit:
		m.Close(ctx, t.ID, signal.Price, models.CloseTakeProfit)
	}
}

// Open runs check-and-reserve under the lock, then places the entry order
// outside it. A failed entry is terminal: it is never retried.
func (m *Manager) Open(ctx context.Context, symbol string, price float64) (*models.Trade, error) {
	trade, err := m.reserve(symbol, price)
	if err != nil {
		return nil, err
	}

	quantity := m.cfg.Trading.TradeAmount / price
	res, err := m.gw.PlaceOrder(ctx, symbol, models.SideBuy, quantity)
	if err != nil {
		m.failTrade(trade, err.Error())
		logger.Error("open failed %s: %v", symbol, err)
		return nil, err
	}

	m.mu.Lock()
	_ = trade.Advance(models.TradeOpen)
	if res.FillPrice > 0 {
		trade.EntryPrice = res.FillPrice
	}
	trade.StopLoss = trade.EntryPrice * (1 - m.cfg.Trading.StopLossPercent/100)
	trade.TakeProfit = trade.EntryPrice * (1 + m.cfg.Trading.TakeProfitPercent/100)
	trade.OpenedAt = time.Now()
	snapshot := *trade
	m.mu.Unlock()

	logger.Info("trade opened %s %s entry=%.4f sl=%.4f tp=%.4f",
		trade.ID, symbol, snapshot.EntryPrice, snapshot.StopLoss, snapshot.TakeProfit)
	m.bus.Publish(events.Event{Kind: events.KindTradeOpened, Trade: &snapshot})
	return &snapshot, nil
}

// reserve atomically checks the symbol slot and the global cap, and books
// a pending trade against both.
func (m *Manager) reserve(symbol string, price float64) (*models.Trade, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, busy := m.bySymbol[symbol]; busy {
		return nil, &CapError{Reason: "symbol already has an active trade", Symbol: symbol}
	}
	if len(m.active) >= m.cfg.Trading.MaxTrades {
		return nil, &CapError{Reason: "max trades reached", Symbol: symbol}
	}

	trade := &models.Trade{
		ID:         ulid.MustNew(ulid.Timestamp(time.Now()), m.entropy).String(),
		Symbol:     symbol,
		Side:       models.SideBuy,
		EntryPrice: price,
		Quantity:   m.cfg.Trading.TradeAmount / price,
		State:      models.TradePending,
	}
	m.active[trade.ID] = trade
	m.bySymbol[symbol] = trade.ID
	return trade, nil
}

// Close places the exit order with bounded retries. Transient failures back
// off and try again; a rejection aborts immediately. When every attempt is
// exhausted the trade keeps its Open state and is flagged instead. The
// closing reservation makes each trade's exit single-flight: a second Close
// racing an in-flight sell order returns without placing another one.
func (m *Manager) Close(ctx context.Context, id string, price float64, reason models.CloseReason) error {
	m.mu.Lock()
	trade, ok := m.active[id]
	if !ok || trade.State != models.TradeOpen || trade.FailedToClose {
		m.mu.Unlock()
		return nil
	}
	if _, busy := m.closing[id]; busy {
		m.mu.Unlock()
		return nil
	}
	m.closing[id] = struct{}{}
	quantity := trade.Quantity
	symbol := trade.Symbol
	m.mu.Unlock()

	var lastErr error
	backoff := closeRetryBackoff
	for attempt := 1; attempt <= closeRetryAttempts; attempt++ {
		_, err := m.gw.PlaceOrder(ctx, symbol, models.SideSell, quantity)
		if err == nil {
			m.settle(trade, price, reason)
			return nil
		}
		lastErr = err
		if models.IsRejected(err) {
			break
		}
		logger.Warn("close attempt %d/%d failed %s: %v", attempt, closeRetryAttempts, symbol, err)
		if attempt < closeRetryAttempts && !sleepCtx(ctx, backoff) {
			break
		}
		backoff *= 2
	}

	m.mu.Lock()
	trade.FailedToClose = true
	delete(m.closing, id)
	snapshot := *trade
	m.mu.Unlock()

	logger.Error("close exhausted %s %s: %v", trade.ID, symbol, lastErr)
	m.bus.Publish(events.Event{Kind: events.KindTradeFailed, Trade: &snapshot})
	return lastErr
}

// CloseAll closes every open trade at its last known entry-relative price.
// Used on halt when the configuration asks for a flat book.
func (m *Manager) CloseAll(ctx context.Context, reason models.CloseReason) {
	m.mu.Lock()
	ids := make([]string, 0, len(m.active))
	prices := make(map[string]float64, len(m.active))
	for id, t := range m.active {
		if t.State == models.TradeOpen && !t.FailedToClose {
			ids = append(ids, id)
			prices[id] = t.EntryPrice
		}
	}
	m.mu.Unlock()

	for _, id := range ids {
		_ = m.Close(ctx, id, prices[id], reason)
	}
}

func (m *Manager) settle(trade *models.Trade, price float64, reason models.CloseReason) {
	m.mu.Lock()
	_ = trade.Advance(models.TradeClosed)
	delete(m.closing, trade.ID)
	trade.ClosePrice = price
	trade.CloseReason = reason
	trade.ClosedAt = time.Now()
	m.retire(trade)
	snapshot := *trade
	m.mu.Unlock()

	logger.Info("trade closed %s %s reason=%s pnl=%.4f",
		trade.ID, trade.Symbol, reason, snapshot.PnL())
	m.bus.Publish(events.Event{Kind: events.KindTradeClosed, Trade: &snapshot})
}

func (m *Manager) failTrade(trade *models.Trade, reason string) {
	m.mu.Lock()
	_ = trade.Advance(models.TradeFailed)
	trade.FailReason = reason
	m.retire(trade)
	snapshot := *trade
	m.mu.Unlock()
	m.bus.Publish(events.Event{Kind: events.KindTradeFailed, Trade: &snapshot})
}

// retire moves a terminal trade out of the active book. Callers hold the lock.
func (m *Manager) retire(trade *models.Trade) {
	delete(m.active, trade.ID)
	if m.bySymbol[trade.Symbol] == trade.ID {
		delete(m.bySymbol, trade.Symbol)
	}
	m.history = append(m.history, trade)

	if trade.State == models.TradeClosed {
		if pnl := trade.PnL(); pnl > 0 {
			m.stats.Wins++
		} else {
			m.stats.Losses++
		}
		m.stats.TotalPnL += trade.PnL()
		if total := m.stats.Wins + m.stats.Losses; total > 0 {
			m.stats.WinRate = float64(m.stats.Wins) / float64(total) * 100
		}
	}
}

func (m *Manager) openTrade(symbol string) (models.Trade, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.bySymbol[symbol]
	if !ok {
		return models.Trade{}, false
	}
	t := m.active[id]
	if t == nil || t.State != models.TradeOpen {
		return models.Trade{}, false
	}
	return *t, true
}

// Snapshot returns copies of every non-terminal trade.
func (m *Manager) Snapshot() []models.Trade {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Trade, 0, len(m.active))
	for _, t := range m.active {
		out = append(out, *t)
	}
	return out
}

// History returns copies of every terminal trade in settlement order.
func (m *Manager) History() []models.Trade {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Trade, len(m.history))
	for i, t := range m.history {
		out[i] = *t
	}
	return out
}

func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

// CapError reports an entry refused by the book limits, not by the exchange.
type CapError struct {
	Reason string
	Symbol string
}

func (e *CapError) Error() string {
	return "trade refused [" + e.Symbol + "]: " + e.Reason
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
