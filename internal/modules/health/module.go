package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/fx"

	"github.com/Vodfa/MarketAnalyser/internal/events"
	"github.com/Vodfa/MarketAnalyser/internal/models"
	botsvc "github.com/Vodfa/MarketAnalyser/internal/modules/bot/service"
	"github.com/Vodfa/MarketAnalyser/internal/modules/config"
	"github.com/Vodfa/MarketAnalyser/internal/modules/health/service"
)

func NewMux(state *service.State, o *botsvc.Orchestrator) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/livez", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if o.State() != models.BotRunning {
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		st := o.Status()
		resp := map[string]any{
			"state":        st.State,
			"activeTrades": st.ActiveTrades,
			"wins":         st.Stats.Wins,
			"losses":       st.Stats.Losses,
			"winRate":      st.Stats.WinRate,
			"totalPnl":     st.Stats.TotalPnL,
			"signalsSeen":  state.SignalsSeen(),
			"tradesOpened": state.TradesOpened(),
			"tradesClosed": state.TradesClosed(),
			"uptimeSec":    int64(state.Uptime().Seconds()),
			"lastSignalUnix": func() int64 {
				t := state.LastSignal()
				if t.IsZero() {
					return 0
				}
				return t.Unix()
			}(),
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	})

	return mux
}

// watchBus feeds the counters from the event stream.
func watchBus(ctx context.Context, state *service.State, sub <-chan events.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-sub:
			switch ev.Kind {
			case events.KindSignalProduced:
				state.TouchSignal(ev.At)
			case events.KindTradeOpened:
				state.CountOpen()
			case events.KindTradeClosed:
				state.CountClose()
			}
		}
	}
}

func RunHTTP(lc fx.Lifecycle, cfg *config.Config, mux *http.ServeMux, state *service.State, bus *events.Bus) {
	addr := fmt.Sprintf("%s:%d", cfg.Service.Host, cfg.Service.AdminPort)
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	watchCtx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return err
			}
			go watchBus(watchCtx, state, bus.Subscribe())
			go func() { _ = srv.Serve(ln) }()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()
			return srv.Shutdown(ctx)
		},
	})
}

func Module() fx.Option {
	return fx.Module("health",
		fx.Provide(
			service.NewState,
			NewMux,
		),
		fx.Invoke(RunHTTP),
	)
}
