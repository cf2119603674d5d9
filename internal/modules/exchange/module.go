package exchange

import (
	"context"

	"go.uber.org/fx"

	"github.com/Vodfa/MarketAnalyser/internal/credentials"
	"github.com/Vodfa/MarketAnalyser/internal/modules/config"
	"github.com/Vodfa/MarketAnalyser/internal/modules/exchange/service"
)

// Module wires the OKX gateway and keeps its candle stream running for the
// configured watchlist.
func Module() fx.Option {
	return fx.Module("exchange",
		fx.Provide(
			func() credentials.Store { return credentials.NewEnvStore() },
			service.NewClient,
		),
		fx.Invoke(func(lc fx.Lifecycle, cfg *config.Config, c *service.Client) {
			streamCtx, cancel := context.WithCancel(context.Background())
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					go c.StreamCandles(streamCtx, cfg.Symbols, cfg.Timeframe)
					return nil
				},
				OnStop: func(ctx context.Context) error {
					cancel()
					return nil
				},
			})
		}),
	)
}
