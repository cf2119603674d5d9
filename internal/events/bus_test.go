package events

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vodfa/MarketAnalyser/internal/models"
	"github.com/Vodfa/MarketAnalyser/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestBusFanOut(t *testing.T) {
	bus := NewBus()
	a := bus.Subscribe()
	b := bus.Subscribe()

	bus.Publish(Event{Kind: KindSignalProduced, Signal: &models.Signal{Symbol: "BTC-USDT"}})

	for _, sub := range []<-chan Event{a, b} {
		select {
		case ev := <-sub:
			assert.Equal(t, KindSignalProduced, ev.Kind)
			assert.Equal(t, "BTC-USDT", ev.Signal.Symbol)
			assert.False(t, ev.At.IsZero())
		default:
			t.Fatal("subscriber missed the event")
		}
	}
}

func TestBusDropsWhenSubscriberFull(t *testing.T) {
	bus := NewBus()
	slow := bus.Subscribe()

	for i := 0; i < subscriberBuffer+10; i++ {
		bus.Publish(Event{Kind: KindTradeOpened, Trade: &models.Trade{ID: "t"}})
	}

	// the buffer holds exactly its capacity; the overflow was dropped
	count := 0
	for len(slow) > 0 {
		<-slow
		count++
	}
	require.Equal(t, subscriberBuffer, count)

	// and the bus is still alive for the next event
	bus.Publish(Event{Kind: KindBotHalted, HaltReason: "x"})
	ev := <-slow
	assert.Equal(t, KindBotHalted, ev.Kind)
}
