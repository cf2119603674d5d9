package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/Vodfa/MarketAnalyser/internal/helper"
	"github.com/Vodfa/MarketAnalyser/internal/models"
)

const (
	configFilePathENV = "CONFIG_FILE"
	tokenTelegramENV  = "TELEGRAM_TOKEN"
	databaseDSNENV    = "DATABASE_DSN"
)

// ConfigurationError marks a config that parsed but cannot be run.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

// Config is the full runtime configuration, loaded once at startup and
// treated as read-only afterwards.
type Config struct {
	Symbols       []string      `mapstructure:"symbols"`
	Timeframe     string        `mapstructure:"timeframe"`
	CheckInterval time.Duration `mapstructure:"check_interval"`

	Trading struct {
		Enabled           bool    `mapstructure:"enabled"`
		MaxTrades         int     `mapstructure:"max_trades"`
		TradeAmount       float64 `mapstructure:"trade_amount"`
		StopLossPercent   float64 `mapstructure:"stop_loss_percent"`
		TakeProfitPercent float64 `mapstructure:"take_profit_percent"`
		MinConfidence     int     `mapstructure:"min_confidence"`
		CloseOnHalt       bool    `mapstructure:"close_on_halt"`
	} `mapstructure:"trading"`

	TimeLimit struct {
		Mode        string        `mapstructure:"mode"`
		Duration    time.Duration `mapstructure:"duration"`
		Deadline    string        `mapstructure:"deadline"`
		WindowStart string        `mapstructure:"window_start"`
		WindowEnd   string        `mapstructure:"window_end"`
	} `mapstructure:"time_limit"`

	Exchange struct {
		BaseURL     string        `mapstructure:"base_url"`
		WSURL       string        `mapstructure:"ws_url"`
		Timeout     time.Duration `mapstructure:"timeout"`
		CandleLimit int           `mapstructure:"candle_limit"`
		Simulated   bool          `mapstructure:"simulated"`
	} `mapstructure:"exchange"`

	Service struct {
		Host      string `mapstructure:"host"`
		AdminPort int    `mapstructure:"admin_port"`
	} `mapstructure:"service"`

	DB string `mapstructure:"db_dsn"`

	Telegram struct {
		Token  string `mapstructure:"token"`
		ChatID int64  `mapstructure:"chat_id"`
	} `mapstructure:"telegram"`
}

func NewConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.AddConfigPath("configs")

	configFileName := os.Getenv(configFilePathENV)
	if configFileName == "" {
		configFileName = "values_local"
	}
	v.SetConfigName(strings.TrimSuffix(configFileName, ".yaml"))

	setDefaults(v)

	v.AutomaticEnv()
	_ = v.BindEnv("telegram.token", tokenTelegramENV)
	_ = v.BindEnv("db_dsn", databaseDSNENV)
	_ = v.BindEnv("trading.enabled", "TRADING_ENABLED")
	_ = v.BindEnv("trading.max_trades", "MAX_TRADES")
	_ = v.BindEnv("exchange.base_url", "EXCHANGE_BASE_URL")
	_ = v.BindEnv("exchange.simulated", "EXCHANGE_SIMULATED")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "read config file")
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	config.Timeframe = helper.NormTF(config.Timeframe)
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("symbols", []string{"BTC-USDT", "ETH-USDT"})
	v.SetDefault("timeframe", "1m")
	v.SetDefault("check_interval", "60s")

	v.SetDefault("trading.enabled", false)
	v.SetDefault("trading.max_trades", 3)
	v.SetDefault("trading.trade_amount", 100.0)
	v.SetDefault("trading.stop_loss_percent", 2.0)
	v.SetDefault("trading.take_profit_percent", 5.0)
	v.SetDefault("trading.min_confidence", 60)
	v.SetDefault("trading.close_on_halt", false)

	v.SetDefault("time_limit.mode", "none")

	v.SetDefault("exchange.base_url", "https://www.okx.com")
	v.SetDefault("exchange.ws_url", "wss://ws.okx.com:8443/ws/v5/business")
	v.SetDefault("exchange.timeout", "10s")
	v.SetDefault("exchange.candle_limit", 300)
	v.SetDefault("exchange.simulated", true)

	v.SetDefault("service.host", "0.0.0.0")
	v.SetDefault("service.admin_port", 8080)
}

// Validate rejects configurations that cannot produce a working bot.
func (c *Config) Validate() error {
	if len(c.Symbols) == 0 {
		return &ConfigurationError{Field: "symbols", Reason: "at least one symbol required"}
	}
	if _, err := helper.OKXBar(c.Timeframe); err != nil {
		return &ConfigurationError{Field: "timeframe", Reason: err.Error()}
	}
	if c.CheckInterval < time.Second {
		return &ConfigurationError{Field: "check_interval", Reason: "must be at least 1s"}
	}
	if c.Trading.MaxTrades < 1 {
		return &ConfigurationError{Field: "trading.max_trades", Reason: "must be at least 1"}
	}
	if c.Trading.TradeAmount <= 0 {
		return &ConfigurationError{Field: "trading.trade_amount", Reason: "must be positive"}
	}
	if c.Trading.StopLossPercent <= 0 || c.Trading.StopLossPercent >= 100 {
		return &ConfigurationError{Field: "trading.stop_loss_percent", Reason: "must be in (0, 100)"}
	}
	if c.Trading.TakeProfitPercent <= 0 {
		return &ConfigurationError{Field: "trading.take_profit_percent", Reason: "must be positive"}
	}
	if c.Trading.MinConfidence < 0 || c.Trading.MinConfidence > 100 {
		return &ConfigurationError{Field: "trading.min_confidence", Reason: "must be in [0, 100]"}
	}
	if c.Exchange.CandleLimit < 1 {
		return &ConfigurationError{Field: "exchange.candle_limit", Reason: "must be at least 1"}
	}
	if _, err := c.TimeLimitPolicy(); err != nil {
		return &ConfigurationError{Field: "time_limit", Reason: err.Error()}
	}
	return nil
}

// TimeLimitPolicy builds the governor policy from the raw config fields.
func (c *Config) TimeLimitPolicy() (models.TimeLimitPolicy, error) {
	tl := c.TimeLimit
	switch tl.Mode {
	case "", "none":
		return models.TimeLimitPolicy{Kind: models.PolicyNone}, nil
	case "duration":
		p := models.TimeLimitPolicy{Kind: models.PolicyDuration, Duration: tl.Duration}
		return p, p.Validate()
	case "deadline":
		ts, err := time.Parse(time.RFC3339, tl.Deadline)
		if err != nil {
			return models.TimeLimitPolicy{}, errors.Wrapf(err, "parse deadline %q", tl.Deadline)
		}
		p := models.TimeLimitPolicy{Kind: models.PolicyDeadline, Deadline: ts}
		return p, p.Validate()
	case "daily_window":
		start, err := models.ParseTimeOfDay(tl.WindowStart)
		if err != nil {
			return models.TimeLimitPolicy{}, err
		}
		end, err := models.ParseTimeOfDay(tl.WindowEnd)
		if err != nil {
			return models.TimeLimitPolicy{}, err
		}
		p := models.TimeLimitPolicy{Kind: models.PolicyDailyWindow, WindowStart: start, WindowEnd: end}
		return p, p.Validate()
	default:
		return models.TimeLimitPolicy{}, errors.Errorf("unknown time_limit.mode %q", tl.Mode)
	}
}
