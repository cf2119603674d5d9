package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"

	"github.com/Vodfa/MarketAnalyser/internal/helper"
	"github.com/Vodfa/MarketAnalyser/internal/models"
)

type candlesResponse struct {
	Code string     `json:"code"`
	Msg  string     `json:"msg"`
	Data [][]string `json:"data"`
}

// FetchCandles returns up to limit confirmed candles, oldest first. The
// WebSocket window cache is used when it is warm; otherwise the REST
// endpoint is queried directly.
func (c *Client) FetchCandles(ctx context.Context, symbol, timeframe string, limit int) ([]models.Candle, error) {
	if cached, ok := c.cache.window(symbol, timeframe, limit); ok {
		return cached, nil
	}
	return c.fetchCandlesREST(ctx, symbol, timeframe, limit)
}

func (c *Client) fetchCandlesREST(ctx context.Context, symbol, timeframe string, limit int) ([]models.Candle, error) {
	bar, err := helper.OKXBar(timeframe)
	if err != nil {
		return nil, models.NewRejectedError("fetch candles", symbol, err)
	}
	q := url.Values{}
	q.Set("instId", symbol)
	q.Set("bar", bar)
	q.Set("limit", strconv.Itoa(limit))
	requestPath := "/api/v5/market/candles?" + q.Encode()

	rb, err := c.do(ctx, "fetch candles", symbol, http.MethodGet, requestPath, "")
	if err != nil {
		return nil, err
	}

	respData := candlesResponse{}
	if err := sonic.Unmarshal(rb, &respData); err != nil {
		return nil, models.NewTransientError("fetch candles", symbol, err)
	}
	if respData.Code != "0" {
		return nil, models.NewRejectedError("fetch candles", symbol,
			errors.Errorf("okx candles error: code=%s msg=%s", respData.Code, respData.Msg))
	}

	// rows arrive newest first: [ts, o, h, l, c, vol, volCcy, volCcyQuote, confirm]
	candles := make([]models.Candle, 0, len(respData.Data))
	for i := len(respData.Data) - 1; i >= 0; i-- {
		row := respData.Data[i]
		candle, ok := parseCandleRow(row)
		if !ok {
			continue
		}
		candles = append(candles, candle)
	}
	if len(candles) == 0 {
		return nil, models.NewTransientError("fetch candles", symbol,
			fmt.Errorf("no candles returned"))
	}
	return candles, nil
}

func parseCandleRow(row []string) (models.Candle, bool) {
	if len(row) < 6 {
		return models.Candle{}, false
	}
	// confirm is always the last element
	if row[len(row)-1] != "1" {
		return models.Candle{}, false
	}
	tsMs, err := strconv.ParseInt(row[0], 10, 64)
	if err != nil {
		return models.Candle{}, false
	}
	open, err1 := strconv.ParseFloat(row[1], 64)
	high, err2 := strconv.ParseFloat(row[2], 64)
	low, err3 := strconv.ParseFloat(row[3], 64)
	closep, err4 := strconv.ParseFloat(row[4], 64)
	vol, err5 := strconv.ParseFloat(row[5], 64)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil {
		return models.Candle{}, false
	}
	if closep <= 0 {
		return models.Candle{}, false
	}
	return models.Candle{
		Open:      open,
		High:      high,
		Low:       low,
		Close:     closep,
		Volume:    vol,
		Timestamp: time.UnixMilli(tsMs),
	}, true
}
