package service

import (
	"context"
	"net/http"
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"

	"github.com/Vodfa/MarketAnalyser/internal/models"
)

type orderResponse struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
	Data []struct {
		OrdID string `json:"ordId"`
		SCode string `json:"sCode"`
		SMsg  string `json:"sMsg"`
	} `json:"data"`
}

// PlaceOrder submits a spot market order and returns the exchange order id
// with the fill price. Rejections come back as rejected gateway errors and
// must not be retried by the caller.
func (c *Client) PlaceOrder(ctx context.Context, symbol string, side models.Side, quantity float64) (models.OrderResult, error) {
	body := map[string]string{
		"instId":  symbol,
		"tdMode":  "cash",
		"side":    sideToOKX(side),
		"ordType": "market",
		"sz":      strconv.FormatFloat(quantity, 'f', -1, 64),
	}
	payload, err := sonic.Marshal(body)
	if err != nil {
		return models.OrderResult{}, models.NewRejectedError("place order", symbol, err)
	}

	requestPath := "/api/v5/trade/order"
	rb, err := c.do(ctx, "place order", symbol, http.MethodPost, requestPath, string(payload))
	if err != nil {
		return models.OrderResult{}, err
	}

	respData := orderResponse{}
	if err := sonic.Unmarshal(rb, &respData); err != nil {
		return models.OrderResult{}, models.NewTransientError("place order", symbol, err)
	}
	if respData.Code != "0" {
		return models.OrderResult{}, models.NewRejectedError("place order", symbol,
			errors.Errorf("okx order error: code=%s msg=%s", respData.Code, respData.Msg))
	}
	if len(respData.Data) == 0 {
		return models.OrderResult{}, models.NewTransientError("place order", symbol,
			errors.Errorf("order empty response: %s", string(rb)))
	}
	if respData.Data[0].SCode != "0" {
		return models.OrderResult{}, models.NewRejectedError("place order", symbol,
			errors.Errorf("order reject: sCode=%s sMsg=%s", respData.Data[0].SCode, respData.Data[0].SMsg))
	}

	fill, err := c.lastPrice(ctx, symbol)
	if err != nil {
		// the order went through; report it with a zero fill rather than fail
		fill = 0
	}
	return models.OrderResult{OrderID: respData.Data[0].OrdID, FillPrice: fill}, nil
}

func sideToOKX(side models.Side) string {
	if side == models.SideSell {
		return "sell"
	}
	return "buy"
}

type tickerResponse struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
	Data []struct {
		Last string `json:"last"`
	} `json:"data"`
}

// lastPrice reads the ticker for a fill-price approximation; market orders
// on this endpoint do not echo their average fill.
func (c *Client) lastPrice(ctx context.Context, symbol string) (float64, error) {
	requestPath := "/api/v5/market/ticker?instId=" + symbol
	rb, err := c.do(ctx, "ticker", symbol, http.MethodGet, requestPath, "")
	if err != nil {
		return 0, err
	}
	respData := tickerResponse{}
	if err := sonic.Unmarshal(rb, &respData); err != nil {
		return 0, err
	}
	if respData.Code != "0" || len(respData.Data) == 0 {
		return 0, errors.Errorf("okx ticker error: code=%s msg=%s", respData.Code, respData.Msg)
	}
	return strconv.ParseFloat(respData.Data[0].Last, 64)
}
