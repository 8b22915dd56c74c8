package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"spot-tradebot/internal/core"
	"spot-tradebot/internal/order"
)

// Gateway is the subset of gateway.Gateway the commands need.
type Gateway interface {
	AccountInfo(ctx context.Context) (core.AccountInfo, error)
	CurrentPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
	PlaceOrder(ctx context.Context, req order.Request) (core.OrderResult, error)
	CancelOrder(ctx context.Context, symbol string, orderID int64) (core.OrderResult, error)
	OrderStatus(ctx context.Context, symbol string, orderID int64) (core.OrderResult, error)
	OpenOrders(ctx context.Context, symbol string) ([]core.OrderResult, error)
}

const (
	placedBanner = "=== ORDER PLACED SUCCESSFULLY ==="
	usageHint    = "No action specified. Use --help to see the available options."
)

// Execute runs the planned operation once and writes its result to out.
func Execute(ctx context.Context, gw Gateway, plan Plan, out io.Writer) error {
	switch plan.Action {
	case ActionAccountInfo:
		info, err := gw.AccountInfo(ctx)
		if err != nil {
			return err
		}
		return writeJSON(out, info)
	case ActionCurrentPrice:
		price, err := gw.CurrentPrice(ctx, plan.Symbol)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "Current price for %s: %s\n", plan.Symbol, price.String())
		return err
	case ActionOpenOrders:
		orders, err := gw.OpenOrders(ctx, plan.Symbol)
		if err != nil {
			return err
		}
		if orders == nil {
			orders = []core.OrderResult{}
		}
		return writeJSON(out, orders)
	case ActionCancelOrder:
		res, err := gw.CancelOrder(ctx, plan.Symbol, plan.OrderID)
		if err != nil {
			return err
		}
		return writeResult(out, res)
	case ActionOrderStatus:
		res, err := gw.OrderStatus(ctx, plan.Symbol, plan.OrderID)
		if err != nil {
			return err
		}
		return writeResult(out, res)
	case ActionPlaceOrder:
		res, err := gw.PlaceOrder(ctx, plan.Request)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(out, "\n%s\n", placedBanner); err != nil {
			return err
		}
		return writeResult(out, res)
	}
	if plan.Notice != "" {
		return nil
	}
	_, err := fmt.Fprintln(out, usageHint)
	return err
}

// writeResult prints an empty exchange payload as {} so stdout stays an object.
func writeResult(out io.Writer, res core.OrderResult) error {
	if res.Empty() {
		_, err := fmt.Fprintln(out, "{}")
		return err
	}
	return writeJSON(out, res)
}

func writeJSON(out io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = out.Write(data)
	return err
}
