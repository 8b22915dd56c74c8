package binance

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"time"

	"spot-tradebot/internal/core"
)

const (
	wsMethodOrderPlace     = "order.place"
	wsMethodOrderListPlace = "orderList.place"
)

// placeOrderWS submits one order over a short-lived WebSocket API connection.
// There is no REST fallback: a failed submission is reported, never repeated.
func (c *Client) placeOrderWS(ctx context.Context, method string, params url.Values) (core.OrderResult, error) {
	if c.wsBaseURL == "" {
		return core.OrderResult{}, errors.New("ws base url required")
	}
	wsParams, err := c.wsOrderParams(params)
	if err != nil {
		return core.OrderResult{}, err
	}
	conn, _, err := c.wsDialer.DialContext(ctx, c.wsBaseURL, nil)
	if err != nil {
		return core.OrderResult{}, transportError(err)
	}
	defer conn.Close()

	resp, err := sendWSRequest(ctx, conn, method, wsParams)
	if err != nil {
		return core.OrderResult{}, err
	}
	return core.OrderResult{Raw: resp.Result}, nil
}

// wsOrderParams signs the order fields the same way as REST: the signature covers
// every parameter, sorted by key.
func (c *Client) wsOrderParams(params url.Values) (map[string]interface{}, error) {
	if params.Get("symbol") == "" {
		return nil, errors.New("symbol required")
	}
	if c.apiKey == "" || c.apiSecret == "" {
		return nil, errors.New("api_key/api_secret required")
	}
	ts := time.Now().UnixMilli()
	values := cloneValues(params)
	values.Set("apiKey", c.apiKey)
	values.Set("timestamp", strconv.FormatInt(ts, 10))
	if c.recvWindow > 0 {
		values.Set("recvWindow", strconv.FormatInt(c.recvWindow.Milliseconds(), 10))
	}
	signature := sign(c.apiSecret, values.Encode())

	out := make(map[string]interface{}, len(values)+1)
	for k := range values {
		out[k] = values.Get(k)
	}
	out["timestamp"] = ts
	if c.recvWindow > 0 {
		out["recvWindow"] = c.recvWindow.Milliseconds()
	}
	out["signature"] = signature
	return out, nil
}
