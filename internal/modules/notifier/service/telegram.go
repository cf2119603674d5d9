package service

import (
	"context"
	"fmt"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Vodfa/MarketAnalyser/internal/events"
	"github.com/Vodfa/MarketAnalyser/internal/modules/config"
	"github.com/Vodfa/MarketAnalyser/pkg/logger"
)

// Telegram is a passive notifier: trade lifecycle and halt messages go to
// one chat. Signals are not forwarded, they are too chatty.
type Telegram struct {
	bot    *tgbot.BotAPI
	chatID int64
}

func NewTelegram(cfg *config.Config) (*Telegram, error) {
	if cfg.Telegram.Token == "" {
		return nil, nil
	}
	b, err := tgbot.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, err
	}
	return &Telegram{bot: b, chatID: cfg.Telegram.ChatID}, nil
}

func (t *Telegram) Send(msg string) {
	if t == nil || t.bot == nil || t.chatID == 0 {
		return
	}
	if _, err := t.bot.Send(tgbot.NewMessage(t.chatID, msg)); err != nil {
		logger.Warn("telegram send failed: %v", err)
	}
}

func (t *Telegram) Sendf(format string, args ...any) { t.Send(fmt.Sprintf(format, args...)) }

// Run consumes bus events until ctx is done. Nil receivers drain the
// subscription so the bus never logs overflow for a disabled notifier.
func (t *Telegram) Run(ctx context.Context, sub <-chan events.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-sub:
			t.notify(ev)
		}
	}
}

func (t *Telegram) notify(ev events.Event) {
	switch ev.Kind {
	case events.KindTradeOpened:
		tr := ev.Trade
		t.Sendf("▶️ opened %s entry=%.4f sl=%.4f tp=%.4f",
			tr.Symbol, tr.EntryPrice, tr.StopLoss, tr.TakeProfit)
	case events.KindTradeClosed:
		tr := ev.Trade
		t.Sendf("⏹ closed %s %s pnl=%.4f", tr.Symbol, tr.CloseReason, tr.PnL())
	case events.KindTradeFailed:
		tr := ev.Trade
		if tr.FailedToClose {
			t.Sendf("⚠️ close failed %s %s, position still open", tr.ID, tr.Symbol)
			return
		}
		t.Sendf("❌ open failed %s: %s", tr.Symbol, tr.FailReason)
	case events.KindBotHalted:
		t.Sendf("🛑 bot halted: %s", ev.HaltReason)
	}
}
