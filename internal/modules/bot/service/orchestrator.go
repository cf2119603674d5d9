package service

import (
	"context"
	"sync"
	"time"

	"github.com/Vodfa/MarketAnalyser/internal/events"
	"github.com/Vodfa/MarketAnalyser/internal/models"
	analysis "github.com/Vodfa/MarketAnalyser/internal/modules/analysis/service"
	"github.com/Vodfa/MarketAnalyser/internal/modules/config"
	governor "github.com/Vodfa/MarketAnalyser/internal/modules/governor/service"
	trading "github.com/Vodfa/MarketAnalyser/internal/modules/trading/service"
	"github.com/Vodfa/MarketAnalyser/pkg/logger"
)

// Status is one consistent view of the whole session.
type Status struct {
	State        models.BotState
	StartedAt    time.Time
	ActiveTrades int
	Stats        trading.Stats
}

// Orchestrator drives the session lifecycle. Start is idempotent, Stop is
// always safe to call, and a governor halt walks the same path as a manual
// stop.
type Orchestrator struct {
	cfg   *config.Config
	sched *analysis.Scheduler
	gov   *governor.Governor
	mgr   *trading.Manager
	bus   *events.Bus

	mu        sync.Mutex
	state     models.BotState
	cancel    context.CancelFunc
	startedAt time.Time
}

func NewOrchestrator(
	cfg *config.Config,
	sched *analysis.Scheduler,
	gov *governor.Governor,
	mgr *trading.Manager,
	bus *events.Bus,
) *Orchestrator {
	return &Orchestrator{
		cfg:   cfg,
		sched: sched,
		gov:   gov,
		mgr:   mgr,
		bus:   bus,
		state: models.BotIdle,
	}
}

// Start launches the scheduler and the governor. Calling it on a running
// session does nothing.
func (o *Orchestrator) Start() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state == models.BotRunning || o.state == models.BotHaltRequested {
		return nil
	}

	runCtx, cancel := context.WithCancel(context.Background())
	o.cancel = cancel
	o.state = models.BotRunning
	o.startedAt = time.Now()

	o.gov.Activate()
	go o.sched.Run(runCtx)
	go o.gov.Run(runCtx)
	go o.watchHalt(runCtx)

	logger.Info("bot started: %d symbols, timeframe %s, interval %s",
		len(o.cfg.Symbols), o.cfg.Timeframe, o.cfg.CheckInterval)
	return nil
}

func (o *Orchestrator) watchHalt(ctx context.Context) {
	select {
	case <-ctx.Done():
	case reason := <-o.gov.HaltC():
		o.halt(context.Background(), reason)
	}
}

// Stop shuts the session down manually. Safe in every state.
func (o *Orchestrator) Stop(ctx context.Context) {
	o.halt(ctx, "manual stop")
}

func (o *Orchestrator) halt(ctx context.Context, reason string) {
	o.mu.Lock()
	if o.state != models.BotRunning {
		o.mu.Unlock()
		return
	}
	o.state = models.BotHaltRequested
	cancel := o.cancel
	o.mu.Unlock()

	logger.Info("bot halting: %s", reason)
	o.bus.Publish(events.Event{Kind: events.KindBotHalted, HaltReason: reason})

	// stop producing signals before touching the book
	cancel()
	if o.cfg.Trading.CloseOnHalt {
		o.mgr.CloseAll(ctx, models.CloseHalt)
	}

	o.mu.Lock()
	o.state = models.BotStopped
	o.mu.Unlock()
	logger.Info("bot stopped")
}

func (o *Orchestrator) State() models.BotState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *Orchestrator) Status() Status {
	o.mu.Lock()
	state, startedAt := o.state, o.startedAt
	o.mu.Unlock()
	return Status{
		State:        state,
		StartedAt:    startedAt,
		ActiveTrades: len(o.mgr.Snapshot()),
		Stats:        o.mgr.Stats(),
	}
}
