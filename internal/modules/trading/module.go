package trading

import (
	"go.uber.org/fx"

	analysis "github.com/Vodfa/MarketAnalyser/internal/modules/analysis/service"
	exchange "github.com/Vodfa/MarketAnalyser/internal/modules/exchange/service"
	governor "github.com/Vodfa/MarketAnalyser/internal/modules/governor/service"
	"github.com/Vodfa/MarketAnalyser/internal/modules/trading/service"
)

// Module wires the trade lifecycle manager between the analyzer output and
// the exchange gateway.
func Module() fx.Option {
	return fx.Module("trading",
		fx.Provide(
			func(c *exchange.Client) service.Gateway { return c },
			func(g *governor.Governor) service.Permit { return g },
			service.NewManager,
			func(m *service.Manager) analysis.SignalSink { return m },
		),
	)
}
