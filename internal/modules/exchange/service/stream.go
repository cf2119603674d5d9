package service

import (
	"context"
	"time"

	"github.com/bytedance/sonic"

	"github.com/Vodfa/MarketAnalyser/internal/helper"
	"github.com/Vodfa/MarketAnalyser/pkg/logger"
)

// StreamCandles keeps the candle cache warm: one WebSocket connection per
// timeframe with the whole symbol batch in args. Each window is seeded over
// REST first, then maintained from confirmed stream candles. Reconnects
// forever until ctx is done.
func (c *Client) StreamCandles(ctx context.Context, symbols []string, timeframe string) {
	if len(symbols) == 0 {
		return
	}

	for _, sym := range symbols {
		candles, err := c.fetchCandlesREST(ctx, sym, timeframe, c.cfg.Exchange.CandleLimit)
		if err != nil {
			logger.Warn("candle seed failed %s %s: %v", sym, timeframe, err)
			continue
		}
		c.cache.seed(sym, timeframe, candles)
	}

	bar, err := helper.OKXBar(timeframe)
	if err != nil {
		logger.Error("candle stream disabled: %v", err)
		return
	}
	channel := "candle" + bar
	args := make([]map[string]string, 0, len(symbols))
	for _, sym := range symbols {
		args = append(args, map[string]string{
			"channel": channel,
			"instId":  sym,
		})
	}

	for {
		logger.Info("ws connect %s, %d symbols", channel, len(symbols))
		conn, _, err := c.wsDialer.Dial(c.cfg.Exchange.WSURL, nil)
		if err != nil {
			logger.Warn("ws dial error %s: %v", channel, err)
			if !sleepCtx(ctx, time.Second) {
				return
			}
			continue
		}

		sub := map[string]any{
			"op":   "subscribe",
			"args": args,
		}
		if err := conn.WriteJSON(sub); err != nil {
			logger.Warn("ws subscribe error %s: %v", channel, err)
			_ = conn.Close()
			if !sleepCtx(ctx, time.Second) {
				return
			}
			continue
		}

		// keepalive ping every 20s, the exchange drops silent connections
		stopPing := make(chan struct{})
		go func() {
			t := time.NewTicker(20 * time.Second)
			defer t.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-stopPing:
					return
				case <-t.C:
					_ = conn.WriteJSON(map[string]string{"op": "ping"})
				}
			}
		}()

		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				logger.Warn("ws read error %s: %v", channel, err)
				close(stopPing)
				_ = conn.Close()
				break
			}

			var frame struct {
				Arg struct {
					Channel string `json:"channel"`
					InstID  string `json:"instId"`
				} `json:"arg"`
				Data [][]string `json:"data"`
			}
			if err := sonic.Unmarshal(msg, &frame); err != nil {
				continue
			}
			if frame.Arg.Channel != channel || len(frame.Data) == 0 {
				continue
			}

			for _, row := range frame.Data {
				candle, ok := parseCandleRow(row)
				if !ok {
					continue
				}
				c.cache.push(frame.Arg.InstID, timeframe, candle)
			}
		}

		select {
		case <-ctx.Done():
			return
		default:
			time.Sleep(time.Second)
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
