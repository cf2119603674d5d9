package service

import (
	"context"
	"testing"
	"time"
)

func TestStreamCandlesStopsDuringBackoff(t *testing.T) {
	// nothing listens on this port: seeding and dialing both fail, and the
	// stream sits in its reconnect backoff
	c := newTestClient("http://127.0.0.1:1")
	c.cfg.Exchange.WSURL = "ws://127.0.0.1:1"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.StreamCandles(ctx, []string{"BTC-USDT"}, "1m")
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("stream kept running after cancel")
	}
}
