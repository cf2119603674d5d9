package bot

import (
	"context"

	"go.uber.org/fx"

	"github.com/Vodfa/MarketAnalyser/internal/events"
	"github.com/Vodfa/MarketAnalyser/internal/modules/bot/service"
)

// Module wires the session orchestrator and the shared event bus.
func Module() fx.Option {
	return fx.Module("bot",
		fx.Provide(
			events.NewBus,
			service.NewOrchestrator,
		),
		fx.Invoke(func(lc fx.Lifecycle, o *service.Orchestrator) {
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					return o.Start()
				},
				OnStop: func(ctx context.Context) error {
					o.Stop(ctx)
					return nil
				},
			})
		}),
	)
}
