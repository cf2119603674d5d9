package models

import (
	"fmt"
	"time"
)

type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// TradeState is the lifecycle position of a trade. Transitions only move
// forward: Pending -> Open -> Closed, Pending -> Open -> Failed,
// Pending -> Failed. Nothing else.
type TradeState string

const (
	TradePending TradeState = "PENDING"
	TradeOpen    TradeState = "OPEN"
	TradeClosed  TradeState = "CLOSED"
	TradeFailed  TradeState = "FAILED"
)

type CloseReason string

const (
	CloseStopLoss   CloseReason = "STOP_LOSS"
	CloseTakeProfit CloseReason = "TAKE_PROFIT"
	CloseSignal     CloseReason = "SIGNAL"
	CloseManual     CloseReason = "MANUAL"
	CloseHalt       CloseReason = "HALT"
)

// Trade is owned exclusively by the trade lifecycle manager; everything the
// rest of the process sees is a copy.
type Trade struct {
	ID         string
	Symbol     string
	Side       Side
	EntryPrice float64
	Quantity   float64
	StopLoss   float64
	TakeProfit float64

	State TradeState

	OpenedAt    time.Time
	ClosedAt    time.Time
	ClosePrice  float64
	CloseReason CloseReason

	// FailedToClose marks an Open trade whose close order could not be
	// placed after retries. The trade stays Open for accounting and needs
	// external attention.
	FailedToClose bool

	// Reason for entering Failed, for the event sink.
	FailReason string
}

var tradeTransitions = map[TradeState][]TradeState{
	TradePending: {TradeOpen, TradeFailed},
	TradeOpen:    {TradeClosed, TradeFailed},
}

// Advance moves the trade to next, rejecting anything outside the forward
// state machine.
func (t *Trade) Advance(next TradeState) error {
	for _, allowed := range tradeTransitions[t.State] {
		if next == allowed {
			t.State = next
			return nil
		}
	}
	return fmt.Errorf("trade %s: illegal transition %s -> %s", t.ID, t.State, next)
}

// Terminal reports whether the trade reached an end state.
func (t *Trade) Terminal() bool {
	return t.State == TradeClosed || t.State == TradeFailed
}

// PnL is the realized result of a closed trade, zero otherwise.
func (t *Trade) PnL() float64 {
	if t.State != TradeClosed {
		return 0
	}
	return (t.ClosePrice - t.EntryPrice) * t.Quantity
}
