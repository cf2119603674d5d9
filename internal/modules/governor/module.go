package governor

import (
	"go.uber.org/fx"

	"github.com/Vodfa/MarketAnalyser/internal/modules/governor/service"
)

// Module wires the time-limit governor. The bot orchestrator activates it
// and runs its evaluation loop.
func Module() fx.Option {
	return fx.Module("governor",
		fx.Provide(
			service.NewGovernor,
		),
	)
}
