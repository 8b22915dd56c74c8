package exchange

import (
	"context"
	"net/url"

	"github.com/shopspring/decimal"

	"spot-tradebot/internal/core"
)

// Exchange is the authenticated RPC boundary used by the trading gateway.
// Order parameters arrive already in wire form.
type Exchange interface {
	Name() string
	Ping(ctx context.Context) error
	Account(ctx context.Context) (core.AccountInfo, error)
	TickerPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
	CreateOrder(ctx context.Context, params url.Values) (core.OrderResult, error)
	CreateOCO(ctx context.Context, params url.Values) (core.OrderResult, error)
	CancelOrder(ctx context.Context, symbol string, orderID int64) (core.OrderResult, error)
	QueryOrder(ctx context.Context, symbol string, orderID int64) (core.OrderResult, error)
	OpenOrders(ctx context.Context, symbol string) ([]core.OrderResult, error)
	Close() error
}
