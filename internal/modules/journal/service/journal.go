package service

import (
	"context"

	"github.com/bytedance/sonic"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"github.com/Vodfa/MarketAnalyser/internal/events"
	"github.com/Vodfa/MarketAnalyser/internal/models"
	"github.com/Vodfa/MarketAnalyser/pkg/db"
	"github.com/Vodfa/MarketAnalyser/pkg/logger"
)

// Journal persists signals and trade transitions to Postgres. It is a pure
// observer: a journal failure is logged and never feeds back into trading.
type Journal struct {
	tx db.TxManager
}

func NewJournal(tx db.TxManager) *Journal {
	return &Journal{tx: tx}
}

const schema = `
CREATE TABLE IF NOT EXISTS signals (
    id           BIGSERIAL PRIMARY KEY,
    symbol       TEXT        NOT NULL,
    timeframe    TEXT        NOT NULL,
    direction    TEXT        NOT NULL,
    confidence   INT         NOT NULL,
    price        DOUBLE PRECISION NOT NULL,
    votes        JSONB       NOT NULL,
    generated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS trades (
    id              TEXT PRIMARY KEY,
    symbol          TEXT NOT NULL,
    side            TEXT NOT NULL,
    state           TEXT NOT NULL,
    entry_price     DOUBLE PRECISION NOT NULL,
    quantity        DOUBLE PRECISION NOT NULL,
    stop_loss       DOUBLE PRECISION NOT NULL,
    take_profit     DOUBLE PRECISION NOT NULL,
    close_price     DOUBLE PRECISION,
    close_reason    TEXT,
    failed_to_close BOOLEAN NOT NULL DEFAULT FALSE,
    fail_reason     TEXT,
    opened_at       TIMESTAMPTZ,
    closed_at       TIMESTAMPTZ
);
`

// Migrate creates the journal tables when they do not exist yet.
func (j *Journal) Migrate(ctx context.Context) error {
	return j.tx.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctxTx, schema)
		return errors.Wrap(err, "apply journal schema")
	})
}

func (j *Journal) RecordSignal(ctx context.Context, s *models.Signal) error {
	votes, err := sonic.Marshal(s.Votes)
	if err != nil {
		return errors.Wrap(err, "marshal votes")
	}
	return j.tx.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctxTx,
			`INSERT INTO signals (symbol, timeframe, direction, confidence, price, votes, generated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			s.Symbol, s.Timeframe, string(s.Direction), s.Confidence, s.Price, votes, s.GeneratedAt)
		return errors.Wrap(err, "insert signal")
	})
}

func (j *Journal) RecordTrade(ctx context.Context, t *models.Trade) error {
	return j.tx.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctxTx,
			`INSERT INTO trades (id, symbol, side, state, entry_price, quantity, stop_loss, take_profit,
			                     close_price, close_reason, failed_to_close, fail_reason, opened_at, closed_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			 ON CONFLICT (id) DO UPDATE SET
			     state = EXCLUDED.state,
			     close_price = EXCLUDED.close_price,
			     close_reason = EXCLUDED.close_reason,
			     failed_to_close = EXCLUDED.failed_to_close,
			     fail_reason = EXCLUDED.fail_reason,
			     closed_at = EXCLUDED.closed_at`,
			t.ID, t.Symbol, string(t.Side), string(t.State), t.EntryPrice, t.Quantity,
			t.StopLoss, t.TakeProfit, nullFloat(t.ClosePrice), nullString(string(t.CloseReason)),
			t.FailedToClose, nullString(t.FailReason), nullTime(t.OpenedAt), nullTime(t.ClosedAt))
		return errors.Wrap(err, "upsert trade")
	})
}

// Run consumes bus events until ctx is done.
func (j *Journal) Run(ctx context.Context, sub <-chan events.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-sub:
			var err error
			switch ev.Kind {
			case events.KindSignalProduced:
				err = j.RecordSignal(ctx, ev.Signal)
			case events.KindTradeOpened, events.KindTradeClosed, events.KindTradeFailed:
				err = j.RecordTrade(ctx, ev.Trade)
			}
			if err != nil {
				logger.Error("journal write failed: %v", err)
			}
		}
	}
}

func nullFloat(v float64) any {
	if v == 0 {
		return nil
	}
	return v
}

func nullString(v string) any {
	if v == "" {
		return nil
	}
	return v
}

func nullTime(v interface{ IsZero() bool }) any {
	if v.IsZero() {
		return nil
	}
	return v
}
