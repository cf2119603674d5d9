package service

import (
	"context"
	"net/http"
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"

	"github.com/Vodfa/MarketAnalyser/internal/models"
)

type balanceResponse struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
	Data []struct {
		Details []struct {
			Ccy      string `json:"ccy"`
			Eq       string `json:"eq"`
			AvailBal string `json:"availBal"`
		} `json:"details"`
	} `json:"data"`
}

// Balance returns the account balance for one currency.
func (c *Client) Balance(ctx context.Context, currency string) (models.Balance, error) {
	requestPath := "/api/v5/account/balance?ccy=" + currency
	rb, err := c.do(ctx, "balance", currency, http.MethodGet, requestPath, "")
	if err != nil {
		return models.Balance{}, err
	}

	respData := balanceResponse{}
	if err := sonic.Unmarshal(rb, &respData); err != nil {
		return models.Balance{}, models.NewTransientError("balance", currency, err)
	}
	if respData.Code != "0" {
		return models.Balance{}, models.NewRejectedError("balance", currency,
			errors.Errorf("okx balance error: code=%s msg=%s", respData.Code, respData.Msg))
	}
	for _, d := range respData.Data {
		for _, det := range d.Details {
			if det.Ccy != currency {
				continue
			}
			total, _ := strconv.ParseFloat(det.Eq, 64)
			avail, _ := strconv.ParseFloat(det.AvailBal, 64)
			return models.Balance{Currency: currency, Total: total, Available: avail}, nil
		}
	}
	return models.Balance{Currency: currency}, nil
}
