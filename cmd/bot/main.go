package main

import (
	"log"
	"os"
	"strconv"

	"go.uber.org/fx"

	"github.com/Vodfa/MarketAnalyser/internal/modules/analysis"
	"github.com/Vodfa/MarketAnalyser/internal/modules/bot"
	"github.com/Vodfa/MarketAnalyser/internal/modules/config"
	"github.com/Vodfa/MarketAnalyser/internal/modules/exchange"
	"github.com/Vodfa/MarketAnalyser/internal/modules/governor"
	"github.com/Vodfa/MarketAnalyser/internal/modules/health"
	"github.com/Vodfa/MarketAnalyser/internal/modules/journal"
	"github.com/Vodfa/MarketAnalyser/internal/modules/notifier"
	"github.com/Vodfa/MarketAnalyser/internal/modules/trading"
	"github.com/Vodfa/MarketAnalyser/pkg/logger"
	"github.com/Vodfa/MarketAnalyser/pkg/tracing"
)

const serviceName = "market-analyser"

func main() {
	if err := logger.Init(); err != nil {
		log.Fatal(err)
	}
	logger.SetServiceName(serviceName)

	if host := os.Getenv("JAEGER_AGENT_HOST"); host != "" {
		port, err := strconv.Atoi(os.Getenv("JAEGER_AGENT_PORT"))
		if err != nil {
			port = 6831
		}
		tracing.SetServiceName(serviceName)
		_, closeTracer, err := tracing.InitTracer(tracing.Config{Host: host, Port: port})
		if err != nil {
			logger.Fatal("init tracer: %v", err)
		}
		defer closeTracer()
	}

	app := fx.New(
		config.Module(),
		exchange.Module(),
		analysis.Module(),
		governor.Module(),
		trading.Module(),
		bot.Module(),
		health.Module(),
		journal.Module(),
		notifier.Module(),
	)
	app.Run()
}
