package gateway

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"spot-tradebot/internal/alert"
	"spot-tradebot/internal/core"
	"spot-tradebot/internal/exchange"
	"spot-tradebot/internal/order"
)

type State int

const (
	Disconnected State = iota
	Connected
)

func (s State) String() string {
	if s == Connected {
		return "connected"
	}
	return "disconnected"
}

// Gateway is an authenticated session with the exchange. It is only handed out
// after the exchange answered a ping and returned the account, and it drops to
// Disconnected after the first transport failure.
type Gateway struct {
	ex      exchange.Exchange
	logger  *zap.Logger
	alerter alert.Alerter

	mu     sync.Mutex
	state  State
	closed bool
}

type Option func(*Gateway)

func WithLogger(logger *zap.Logger) Option {
	return func(g *Gateway) {
		if logger != nil {
			g.logger = logger
		}
	}
}

func WithAlerter(a alert.Alerter) Option {
	return func(g *Gateway) {
		g.alerter = a
	}
}

// New verifies connectivity and credentials. On failure it returns no gateway and
// an error matching core.ErrAuthentication alongside the underlying kind.
func New(ctx context.Context, ex exchange.Exchange, opts ...Option) (*Gateway, error) {
	if ex == nil {
		return nil, errors.New("exchange required")
	}
	g := &Gateway{
		ex:     ex,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.logger = g.logger.With(zap.String("exchange", ex.Name()))

	if err := ex.Ping(ctx); err != nil {
		return nil, g.connectFailed("ping", err)
	}
	info, err := ex.Account(ctx)
	if err != nil {
		return nil, g.connectFailed("account", err)
	}
	g.state = Connected
	g.logger.Info("connected to exchange",
		zap.String("account_type", info.AccountType),
		zap.Bool("can_trade", info.CanTrade),
	)
	return g, nil
}

func (g *Gateway) connectFailed(step string, err error) error {
	g.logger.Error("exchange connection failed",
		zap.String("op", "connect"),
		zap.String("step", step),
		zap.String("kind", core.Kind(err)),
		zap.Error(err),
	)
	if errors.Is(err, core.ErrAuthentication) {
		return fmt.Errorf("connect %s: %w", step, err)
	}
	return fmt.Errorf("connect %s: %w: %w", step, core.ErrAuthentication, err)
}

func (g *Gateway) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

func (g *Gateway) AccountInfo(ctx context.Context) (core.AccountInfo, error) {
	if err := g.ready("account_info", ""); err != nil {
		return core.AccountInfo{}, err
	}
	info, err := g.ex.Account(ctx)
	if err != nil {
		return core.AccountInfo{}, g.fail("account_info", err)
	}
	g.logger.Info("account info retrieved",
		zap.String("account_type", info.AccountType),
		zap.Bool("can_trade", info.CanTrade),
		zap.Int("balances", len(info.Balances)),
		zap.Int("funded_assets", info.NonZeroBalances()),
	)
	return info, nil
}

func (g *Gateway) CurrentPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	if err := g.ready("current_price", symbol); err != nil {
		return decimal.Zero, err
	}
	price, err := g.ex.TickerPrice(ctx, symbol)
	if err != nil {
		return decimal.Zero, g.fail("current_price", err, zap.String("symbol", symbol))
	}
	g.logger.Info("current price retrieved", zap.String("symbol", symbol), zap.String("price", price.String()))
	return price, nil
}

// PlaceOrder submits req exactly once. OCO requests go to the order list endpoint.
func (g *Gateway) PlaceOrder(ctx context.Context, req order.Request) (core.OrderResult, error) {
	if req == nil {
		return core.OrderResult{}, core.NewValidationError("order_type", "order request is required")
	}
	params := req.Params()
	symbol := params.Get("symbol")
	if err := g.ready("place_order", symbol); err != nil {
		return core.OrderResult{}, err
	}

	fields := []zap.Field{
		zap.String("symbol", symbol),
		zap.String("order_type", string(req.Kind())),
	}
	var (
		res core.OrderResult
		err error
	)
	switch req.(type) {
	case order.OCORequest:
		res, err = g.ex.CreateOCO(ctx, params)
	default:
		res, err = g.ex.CreateOrder(ctx, params)
	}
	if err != nil {
		if errors.Is(err, core.ErrOrderRejected) {
			g.alert("order_rejected", map[string]string{
				"symbol":     symbol,
				"order_type": string(req.Kind()),
				"reason":     err.Error(),
			})
		}
		return core.OrderResult{}, g.fail("place_order", err, fields...)
	}
	g.logger.Info("order placed", append(fields, zap.ByteString("result", res.Raw))...)
	g.alert("order_placed", map[string]string{
		"symbol":     symbol,
		"order_type": string(req.Kind()),
		"side":       params.Get("side"),
		"quantity":   params.Get("quantity"),
	})
	return res, nil
}

func (g *Gateway) CancelOrder(ctx context.Context, symbol string, orderID int64) (core.OrderResult, error) {
	if err := g.ready("cancel_order", symbol); err != nil {
		return core.OrderResult{}, err
	}
	fields := orderFields(symbol, orderID)
	res, err := g.ex.CancelOrder(ctx, symbol, orderID)
	if err != nil {
		return core.OrderResult{}, g.fail("cancel_order", err, fields...)
	}
	g.logger.Info("order canceled", fields...)
	g.alert("order_canceled", map[string]string{
		"symbol":   symbol,
		"order_id": strconv.FormatInt(orderID, 10),
	})
	return res, nil
}

func (g *Gateway) OrderStatus(ctx context.Context, symbol string, orderID int64) (core.OrderResult, error) {
	if err := g.ready("order_status", symbol); err != nil {
		return core.OrderResult{}, err
	}
	fields := orderFields(symbol, orderID)
	res, err := g.ex.QueryOrder(ctx, symbol, orderID)
	if err != nil {
		return core.OrderResult{}, g.fail("order_status", err, fields...)
	}
	g.logger.Info("order status retrieved", fields...)
	return res, nil
}

// OpenOrders lists open orders for symbol, or across all symbols when symbol is empty.
func (g *Gateway) OpenOrders(ctx context.Context, symbol string) ([]core.OrderResult, error) {
	if err := g.ready("open_orders", symbol); err != nil {
		return nil, err
	}
	orders, err := g.ex.OpenOrders(ctx, symbol)
	if err != nil {
		return nil, g.fail("open_orders", err, zap.String("symbol", symbol))
	}
	g.logger.Info("open orders retrieved", zap.String("symbol", symbol), zap.Int("count", len(orders)))
	return orders, nil
}

// Close ends the session and releases the exchange client. It is safe to call twice.
func (g *Gateway) Close() error {
	g.mu.Lock()
	g.state = Disconnected
	if g.closed {
		g.mu.Unlock()
		return nil
	}
	g.closed = true
	g.mu.Unlock()
	return g.ex.Close()
}

func (g *Gateway) ready(op, symbol string) error {
	if g == nil {
		return core.ErrDisconnected
	}
	if g.State() == Connected {
		return nil
	}
	g.logger.Error("operation on disconnected gateway",
		zap.String("op", op),
		zap.String("symbol", symbol),
		zap.String("kind", core.Kind(core.ErrDisconnected)),
	)
	return fmt.Errorf("%s: %w", op, core.ErrDisconnected)
}

// fail logs err with operation context. A transport failure ends the session.
func (g *Gateway) fail(op string, err error, fields ...zap.Field) error {
	if errors.Is(err, core.ErrTransport) {
		g.mu.Lock()
		g.state = Disconnected
		g.mu.Unlock()
	}
	g.logger.Error("exchange operation failed", append(fields,
		zap.String("op", op),
		zap.String("kind", core.Kind(err)),
		zap.Error(err),
	)...)
	return err
}

func (g *Gateway) alert(event string, fields map[string]string) {
	if g.alerter != nil {
		g.alerter.Important(event, fields)
	}
}

func orderFields(symbol string, orderID int64) []zap.Field {
	return []zap.Field{
		zap.String("symbol", symbol),
		zap.Int64("order_id", orderID),
	}
}
