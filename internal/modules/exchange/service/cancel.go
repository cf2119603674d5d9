package service

import (
	"context"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"

	"github.com/Vodfa/MarketAnalyser/internal/models"
)

type cancelResponse struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
	Data []struct {
		OrdID string `json:"ordId"`
		SCode string `json:"sCode"`
		SMsg  string `json:"sMsg"`
	} `json:"data"`
}

// CancelOrder withdraws a resting order. An order the exchange no longer
// knows, already filled or already cancelled, comes back as a rejection and
// must not be retried.
func (c *Client) CancelOrder(ctx context.Context, symbol, orderID string) error {
	body := map[string]string{
		"instId": symbol,
		"ordId":  orderID,
	}
	payload, err := sonic.Marshal(body)
	if err != nil {
		return models.NewRejectedError("cancel order", symbol, err)
	}

	requestPath := "/api/v5/trade/cancel-order"
	rb, err := c.do(ctx, "cancel order", symbol, http.MethodPost, requestPath, string(payload))
	if err != nil {
		return err
	}

	respData := cancelResponse{}
	if err := sonic.Unmarshal(rb, &respData); err != nil {
		return models.NewTransientError("cancel order", symbol, err)
	}
	if respData.Code != "0" {
		return models.NewRejectedError("cancel order", symbol,
			errors.Errorf("okx cancel error: code=%s msg=%s", respData.Code, respData.Msg))
	}
	if len(respData.Data) == 0 {
		return models.NewTransientError("cancel order", symbol,
			errors.Errorf("cancel empty response: %s", string(rb)))
	}
	if respData.Data[0].SCode != "0" {
		return models.NewRejectedError("cancel order", symbol,
			errors.Errorf("cancel reject: sCode=%s sMsg=%s", respData.Data[0].SCode, respData.Data[0].SMsg))
	}
	return nil
}
