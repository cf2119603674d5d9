package service

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/Vodfa/MarketAnalyser/internal/credentials"
	"github.com/Vodfa/MarketAnalyser/internal/models"
	"github.com/Vodfa/MarketAnalyser/internal/modules/config"
	"github.com/Vodfa/MarketAnalyser/pkg/logger"
)

// Client is the OKX REST and WebSocket gateway. One instance serves both
// market data and order placement.
type Client struct {
	cfg *config.Config

	http     *http.Client
	wsDialer *websocket.Dialer
	baseURL  string

	apiKey    string
	apiSecret string
	passph    string
	simulated bool

	cache *candleCache
}

func NewClient(cfg *config.Config, store credentials.Store) (*Client, error) {
	sec, err := store.Load()
	if err != nil {
		// market data endpoints are public; keys are only required once
		// orders can actually be placed
		if cfg.Trading.Enabled {
			return nil, err
		}
		logger.Warn("exchange credentials missing, public endpoints only")
	}
	return &Client{
		cfg:       cfg,
		http:      &http.Client{Timeout: cfg.Exchange.Timeout},
		wsDialer:  &websocket.Dialer{},
		baseURL:   cfg.Exchange.BaseURL,
		apiKey:    sec.Key,
		apiSecret: sec.Secret,
		passph:    sec.Passphrase,
		simulated: cfg.Exchange.Simulated,
		cache:     newCandleCache(cfg.Exchange.CandleLimit),
	}, nil
}

func (c *Client) sign(ts, method, requestPath, body string) string {
	msg := ts + strings.ToUpper(method) + requestPath + body
	h := hmac.New(sha256.New, []byte(c.apiSecret))
	h.Write([]byte(msg))
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

func (c *Client) generateRequest(ctx context.Context, method, requestPath, body string) (*http.Request, error) {
	ts := time.Now().UTC().Format("2006-01-02T15:04:05.000Z")

	var rd io.Reader
	if body != "" {
		rd = bytes.NewReader([]byte(body))
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+requestPath, rd)
	if err != nil {
		return nil, err
	}
	req.Header.Set("OK-ACCESS-KEY", c.apiKey)
	req.Header.Set("OK-ACCESS-SIGN", c.sign(ts, method, requestPath, body))
	req.Header.Set("OK-ACCESS-TIMESTAMP", ts)
	req.Header.Set("OK-ACCESS-PASSPHRASE", c.passph)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.simulated {
		req.Header.Set("x-simulated-trading", "1")
	}
	return req, nil
}

// do executes a signed request and classifies transport-level failures.
// HTTP 5xx and network errors are transient, 4xx is a rejection.
func (c *Client) do(ctx context.Context, op, symbol, method, requestPath, body string) ([]byte, error) {
	req, err := c.generateRequest(ctx, method, requestPath, body)
	if err != nil {
		return nil, models.NewRejectedError(op, symbol, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, models.NewTransientError(op, symbol, err)
	}
	defer resp.Body.Close()

	rb, _ := io.ReadAll(resp.Body)
	switch {
	case resp.StatusCode/100 == 2:
		return rb, nil
	case resp.StatusCode/100 == 5 || resp.StatusCode == http.StatusTooManyRequests:
		return nil, models.NewTransientError(op, symbol,
			errors.Errorf("http %d: %s", resp.StatusCode, string(rb)))
	default:
		return nil, models.NewRejectedError(op, symbol,
			errors.Errorf("http %d: %s", resp.StatusCode, string(rb)))
	}
}
