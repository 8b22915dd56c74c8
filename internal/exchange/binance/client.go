package binance

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"

	"spot-tradebot/internal/config"
	"spot-tradebot/internal/core"
	"spot-tradebot/internal/exchange"
)

type authType int

const (
	authNone authType = iota
	authSigned
)

const (
	TransportREST = "rest"
	TransportWS   = "ws"
)

var _ exchange.Exchange = (*Client)(nil)

type Client struct {
	apiKey         string
	apiSecret      string
	baseURL        string
	wsBaseURL      string
	orderTransport string

	recvWindow time.Duration
	httpClient *http.Client
	wsDialer   *websocket.Dialer
}

type Options struct {
	APIKey         string
	APISecret      string
	RestBaseURL    string
	WSBaseURL      string
	OrderTransport string
	RecvWindowMs   int64
	HTTPTimeoutSec int64
}

func NewClient(cfg config.ExchangeConfig) (*Client, error) {
	if cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, errors.New("api_key/api_secret required")
	}
	if cfg.RestBaseURL == "" {
		return nil, errors.New("rest_base_url required")
	}
	return NewClientWithOptions(Options{
		APIKey:         cfg.APIKey,
		APISecret:      cfg.APISecret,
		RestBaseURL:    cfg.RestBaseURL,
		WSBaseURL:      cfg.WSBaseURL,
		OrderTransport: string(cfg.OrderTransport),
		RecvWindowMs:   cfg.RecvWindowMs,
		HTTPTimeoutSec: cfg.HTTPTimeoutSec,
	}), nil
}

func NewClientWithOptions(opts Options) *Client {
	timeout := 15 * time.Second
	if opts.HTTPTimeoutSec > 0 {
		timeout = time.Duration(opts.HTTPTimeoutSec) * time.Second
	}
	transport := strings.ToLower(strings.TrimSpace(opts.OrderTransport))
	if transport == "" {
		transport = TransportREST
	}
	return &Client{
		apiKey:         opts.APIKey,
		apiSecret:      opts.APISecret,
		baseURL:        strings.TrimRight(opts.RestBaseURL, "/"),
		wsBaseURL:      strings.TrimRight(opts.WSBaseURL, "/"),
		orderTransport: transport,
		recvWindow:     time.Duration(opts.RecvWindowMs) * time.Millisecond,
		httpClient:     &http.Client{Timeout: timeout},
		wsDialer:       &websocket.Dialer{HandshakeTimeout: timeout},
	}
}

func (c *Client) Name() string { return "binance" }

func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

func (c *Client) Ping(ctx context.Context) error {
	_, err := c.doRequest(ctx, http.MethodGet, "/api/v3/ping", url.Values{}, authNone)
	return err
}

func (c *Client) Account(ctx context.Context) (core.AccountInfo, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/api/v3/account", url.Values{}, authSigned)
	if err != nil {
		return core.AccountInfo{}, err
	}
	var resp accountResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return core.AccountInfo{}, err
	}
	info := parseAccount(resp)
	info.Raw = append(json.RawMessage(nil), body...)
	return info, nil
}

func (c *Client) TickerPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	body, err := c.doRequest(ctx, http.MethodGet, "/api/v3/ticker/price", params, authNone)
	if err != nil {
		return decimal.Zero, err
	}
	var resp tickerPriceResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return decimal.Zero, err
	}
	price, err := decimal.NewFromString(resp.Price)
	if err != nil {
		return decimal.Zero, err
	}
	return price, nil
}

// CreateOrder submits a single order. params is sent as-is apart from the auth fields.
func (c *Client) CreateOrder(ctx context.Context, params url.Values) (core.OrderResult, error) {
	if c.orderTransport == TransportWS {
		return c.placeOrderWS(ctx, wsMethodOrderPlace, params)
	}
	return c.placeOrderREST(ctx, "/api/v3/order", params)
}

// CreateOCO submits a one-cancels-the-other order list.
func (c *Client) CreateOCO(ctx context.Context, params url.Values) (core.OrderResult, error) {
	if c.orderTransport == TransportWS {
		return c.placeOrderWS(ctx, wsMethodOrderListPlace, params)
	}
	return c.placeOrderREST(ctx, "/api/v3/order/oco", params)
}

func (c *Client) placeOrderREST(ctx context.Context, path string, params url.Values) (core.OrderResult, error) {
	body, err := c.doRequest(ctx, http.MethodPost, path, cloneValues(params), authSigned)
	if err != nil {
		return core.OrderResult{}, err
	}
	return core.OrderResult{Raw: body}, nil
}

func (c *Client) CancelOrder(ctx context.Context, symbol string, orderID int64) (core.OrderResult, error) {
	if symbol == "" {
		return core.OrderResult{}, errors.New("symbol required")
	}
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("orderId", strconv.FormatInt(orderID, 10))
	body, err := c.doRequest(ctx, http.MethodDelete, "/api/v3/order", params, authSigned)
	if err != nil {
		return core.OrderResult{}, err
	}
	return core.OrderResult{Raw: body}, nil
}

func (c *Client) QueryOrder(ctx context.Context, symbol string, orderID int64) (core.OrderResult, error) {
	if symbol == "" {
		return core.OrderResult{}, errors.New("symbol required")
	}
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("orderId", strconv.FormatInt(orderID, 10))
	body, err := c.doRequest(ctx, http.MethodGet, "/api/v3/order", params, authSigned)
	if err != nil {
		return core.OrderResult{}, err
	}
	return core.OrderResult{Raw: body}, nil
}

// OpenOrders lists open orders for symbol, or for every symbol when symbol is empty.
func (c *Client) OpenOrders(ctx context.Context, symbol string) ([]core.OrderResult, error) {
	params := url.Values{}
	if symbol != "" {
		params.Set("symbol", symbol)
	}
	body, err := c.doRequest(ctx, http.MethodGet, "/api/v3/openOrders", params, authSigned)
	if err != nil {
		return nil, err
	}
	var resp []json.RawMessage
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}
	orders := make([]core.OrderResult, 0, len(resp))
	for _, raw := range resp {
		orders = append(orders, core.OrderResult{Raw: raw})
	}
	return orders, nil
}

func (c *Client) signParams(params url.Values) {
	params.Set("timestamp", strconv.FormatInt(time.Now().UnixMilli(), 10))
	if c.recvWindow > 0 {
		params.Set("recvWindow", strconv.FormatInt(c.recvWindow.Milliseconds(), 10))
	}
	params.Set("signature", sign(c.apiSecret, params.Encode()))
}

func (c *Client) doRequest(ctx context.Context, method, path string, params url.Values, auth authType) ([]byte, error) {
	if auth == authSigned {
		c.signParams(params)
	}
	var (
		req *http.Request
		err error
	)
	urlStr := c.baseURL + path
	if method == http.MethodGet || method == http.MethodDelete {
		if encoded := params.Encode(); encoded != "" {
			urlStr += "?" + encoded
		}
		req, err = http.NewRequestWithContext(ctx, method, urlStr, nil)
	} else {
		body := params.Encode()
		req, err = http.NewRequestWithContext(ctx, method, urlStr, strings.NewReader(body))
	}
	if err != nil {
		return nil, err
	}
	if method != http.MethodGet && method != http.MethodDelete {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if auth == authSigned {
		req.Header.Set("X-MBX-APIKEY", c.apiKey)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError(err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(err)
	}
	if resp.StatusCode/100 != 2 {
		return nil, parseAPIError(resp.StatusCode, body)
	}
	return body, nil
}

func sign(secret, payload string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

func cloneValues(src url.Values) url.Values {
	dst := make(url.Values, len(src)+3)
	for k, v := range src {
		dst[k] = append([]string(nil), v...)
	}
	return dst
}
