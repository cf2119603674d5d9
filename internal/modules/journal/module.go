package journal

import (
	"context"
	"fmt"

	"go.uber.org/fx"

	"github.com/Vodfa/MarketAnalyser/internal/events"
	"github.com/Vodfa/MarketAnalyser/internal/modules/config"
	"github.com/Vodfa/MarketAnalyser/internal/modules/journal/service"
	"github.com/Vodfa/MarketAnalyser/pkg/db"
	"github.com/Vodfa/MarketAnalyser/pkg/logger"
)

// Module persists the event stream to Postgres. With no db_dsn configured
// the journal stays off and the bot runs purely in memory.
func Module() fx.Option {
	return fx.Module("journal",
		fx.Invoke(func(lc fx.Lifecycle, cfg *config.Config, bus *events.Bus) {
			if cfg.DB == "" {
				logger.Info("journal disabled: no db_dsn configured")
				return
			}

			runCtx, cancel := context.WithCancel(context.Background())
			var manager *db.PgTxManager

			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					pool, err := db.NewPool(ctx, db.PoolConfig{DSN: cfg.DB})
					if err != nil {
						return fmt.Errorf("failed to create poolMaster: %w", err)
					}
					if err := pool.Ping(ctx); err != nil {
						return err
					}
					manager = db.NewPgTxManager(pool)

					j := service.NewJournal(manager)
					if err := j.Migrate(ctx); err != nil {
						manager.Close()
						return err
					}
					go j.Run(runCtx, bus.Subscribe())
					return nil
				},
				OnStop: func(ctx context.Context) error {
					cancel()
					if manager != nil {
						manager.Close()
					}
					return nil
				},
			})
		}),
	)
}
