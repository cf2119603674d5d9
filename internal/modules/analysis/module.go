package analysis

import (
	"go.uber.org/fx"

	"github.com/Vodfa/MarketAnalyser/internal/modules/analysis/service"
	exchange "github.com/Vodfa/MarketAnalyser/internal/modules/exchange/service"
)

// Module wires the analyzer and its scheduler. The scheduler itself is
// started by the bot orchestrator so that halts stop signal generation.
func Module() fx.Option {
	return fx.Module("analysis",
		fx.Provide(
			func(c *exchange.Client) service.CandleSource { return c },
			service.NewAnalyzer,
			service.NewScheduler,
		),
	)
}
