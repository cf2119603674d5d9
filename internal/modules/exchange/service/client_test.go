package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vodfa/MarketAnalyser/internal/models"
	"github.com/Vodfa/MarketAnalyser/internal/modules/config"
	"github.com/Vodfa/MarketAnalyser/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func newTestClient(baseURL string) *Client {
	cfg := &config.Config{}
	cfg.Exchange.BaseURL = baseURL
	cfg.Exchange.Timeout = time.Second
	cfg.Exchange.CandleLimit = 10
	return &Client{
		cfg:      cfg,
		http:     &http.Client{Timeout: time.Second},
		wsDialer: &websocket.Dialer{},
		baseURL:  baseURL,
		cache:    newCandleCache(cfg.Exchange.CandleLimit),
	}
}

func TestCancelOrder(t *testing.T) {
	var status int
	var payload string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v5/trade/cancel-order", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(payload))
	}))
	defer srv.Close()
	c := newTestClient(srv.URL)
	ctx := context.Background()

	status = http.StatusOK
	payload = `{"code":"0","msg":"","data":[{"ordId":"123","sCode":"0","sMsg":""}]}`
	require.NoError(t, c.CancelOrder(ctx, "BTC-USDT", "123"))

	// per-order rejection, must not be retried
	payload = `{"code":"0","msg":"","data":[{"ordId":"123","sCode":"51400","sMsg":"order already filled"}]}`
	err := c.CancelOrder(ctx, "BTC-USDT", "123")
	require.Error(t, err)
	assert.True(t, models.IsRejected(err))
	assert.False(t, models.IsTransient(err))

	// top-level rejection
	payload = `{"code":"51000","msg":"parameter error","data":[]}`
	err = c.CancelOrder(ctx, "BTC-USDT", "123")
	require.Error(t, err)
	assert.True(t, models.IsRejected(err))

	// server trouble is transient
	status = http.StatusInternalServerError
	payload = `{}`
	err = c.CancelOrder(ctx, "BTC-USDT", "123")
	require.Error(t, err)
	assert.True(t, models.IsTransient(err))
}
