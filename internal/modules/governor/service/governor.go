package service

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/Vodfa/MarketAnalyser/internal/models"
	"github.com/Vodfa/MarketAnalyser/internal/modules/config"
	"github.com/Vodfa/MarketAnalyser/pkg/logger"
)

const evaluateEvery = time.Second

// Governor enforces the configured time limit. Duration and deadline
// policies terminate the session exactly once; a daily window only pauses
// trade entry and lets the session keep running.
type Governor struct {
	policy models.TimeLimitPolicy
	clock  func() time.Time

	activatedAt atomic.Int64 // unix nanos, zero until Activate
	halted      atomic.Bool
	haltC       chan string
}

func NewGovernor(cfg *config.Config) (*Governor, error) {
	policy, err := cfg.TimeLimitPolicy()
	if err != nil {
		return nil, err
	}
	return &Governor{
		policy: policy,
		clock:  time.Now,
		haltC:  make(chan string, 1),
	}, nil
}

// Activate anchors the duration policy to the session start. Idempotent.
func (g *Governor) Activate() {
	g.activatedAt.CompareAndSwap(0, g.clock().UnixNano())
}

// HaltC delivers the terminal halt reason at most once.
func (g *Governor) HaltC() <-chan string { return g.haltC }

// Run evaluates the policy once a second until ctx is done.
func (g *Governor) Run(ctx context.Context) {
	if g.policy.Kind == models.PolicyNone {
		return
	}
	t := time.NewTicker(evaluateEvery)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			g.evaluate(g.clock())
		}
	}
}

func (g *Governor) evaluate(now time.Time) {
	reason := ""
	switch g.policy.Kind {
	case models.PolicyDuration:
		start := g.activatedAt.Load()
		if start != 0 && now.Sub(time.Unix(0, start)) >= g.policy.Duration {
			reason = "session duration limit reached"
		}
	case models.PolicyDeadline:
		if !now.Before(g.policy.Deadline) {
			reason = "session deadline reached"
		}
	}
	if reason == "" {
		return
	}
	if g.halted.CompareAndSwap(false, true) {
		logger.Info("time limit hit: %s", reason)
		g.haltC <- reason
	}
}

// TradingAllowed reports whether new trades may be entered right now.
// Outside a daily window the answer is no, but the session stays alive and
// the next window reopens entry on its own.
func (g *Governor) TradingAllowed() bool {
	if g.halted.Load() {
		return false
	}
	if g.policy.Kind == models.PolicyDailyWindow {
		return g.policy.InWindow(g.clock())
	}
	return true
}
