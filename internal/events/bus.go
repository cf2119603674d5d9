// Package events carries the in-process fan-out between the analysis,
// trading, journal and notifier modules. Delivery is best effort: a slow
// subscriber loses events instead of stalling the producers.
package events

import (
	"sync"
	"time"

	"github.com/Vodfa/MarketAnalyser/internal/models"
	"github.com/Vodfa/MarketAnalyser/pkg/logger"
)

type Kind string

const (
	KindSignalProduced Kind = "signal_produced"
	KindTradeOpened    Kind = "trade_opened"
	KindTradeClosed    Kind = "trade_closed"
	KindTradeFailed    Kind = "trade_failed"
	KindBotHalted      Kind = "bot_halted"
)

// Event is one bus message. Exactly one payload field is set, matching Kind.
type Event struct {
	Kind Kind
	At   time.Time

	Signal *models.Signal
	Trade  *models.Trade

	// HaltReason is set for KindBotHalted.
	HaltReason string
}

const subscriberBuffer = 64

// Bus fans events out to every subscriber channel.
type Bus struct {
	mu   sync.RWMutex
	subs []chan Event
}

func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a new buffered subscriber channel. Channels are never
// closed; subscribers stop reading when their own lifecycle ends.
func (b *Bus) Subscribe() <-chan Event {
	ch := make(chan Event, subscriberBuffer)
	b.mu.Lock()
	b.subs = append(b.subs, ch)
	b.mu.Unlock()
	return ch
}

// Publish delivers ev to every subscriber without blocking. A full
// subscriber buffer drops the event for that subscriber only.
func (b *Bus) Publish(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			logger.Warn("event dropped, subscriber buffer full: %s", ev.Kind)
		}
	}
}
