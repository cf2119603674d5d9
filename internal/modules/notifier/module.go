package notifier

import (
	"context"

	"go.uber.org/fx"

	"github.com/Vodfa/MarketAnalyser/internal/events"
	"github.com/Vodfa/MarketAnalyser/internal/modules/notifier/service"
)

// Module forwards trade and halt events to Telegram. Without a token the
// notifier still drains its subscription, it just sends nothing.
func Module() fx.Option {
	return fx.Module("notifier",
		fx.Provide(
			service.NewTelegram,
		),
		fx.Invoke(func(lc fx.Lifecycle, t *service.Telegram, bus *events.Bus) {
			runCtx, cancel := context.WithCancel(context.Background())
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					go t.Run(runCtx, bus.Subscribe())
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
