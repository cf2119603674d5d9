package service

import (
	"sync/atomic"
	"time"
)

// State is the process health snapshot served by the admin endpoints. It is
// fed from the event bus so the handlers never touch the trading internals.
type State struct {
	startedAt time.Time

	lastSignalUnix atomic.Int64 // unix seconds
	signalsSeen    atomic.Int64
	tradesOpened   atomic.Int64
	tradesClosed   atomic.Int64
}

func NewState() *State {
	return &State{startedAt: time.Now()}
}

func (s *State) TouchSignal(t time.Time) {
	s.lastSignalUnix.Store(t.Unix())
	s.signalsSeen.Add(1)
}

func (s *State) LastSignal() time.Time {
	u := s.lastSignalUnix.Load()
	if u == 0 {
		return time.Time{}
	}
	return time.Unix(u, 0)
}

func (s *State) CountOpen()  { s.tradesOpened.Add(1) }
func (s *State) CountClose() { s.tradesClosed.Add(1) }

func (s *State) SignalsSeen() int64  { return s.signalsSeen.Load() }
func (s *State) TradesOpened() int64 { return s.tradesOpened.Load() }
func (s *State) TradesClosed() int64 { return s.tradesClosed.Load() }

func (s *State) Uptime() time.Duration { return time.Since(s.startedAt) }
