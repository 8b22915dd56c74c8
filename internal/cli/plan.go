package cli

import (
	"strings"

	"spot-tradebot/internal/core"
	"spot-tradebot/internal/order"
)

type Action int

const (
	ActionNone Action = iota
	ActionAccountInfo
	ActionCurrentPrice
	ActionOpenOrders
	ActionCancelOrder
	ActionOrderStatus
	ActionPlaceOrder
)

func (a Action) String() string {
	switch a {
	case ActionAccountInfo:
		return "account_info"
	case ActionCurrentPrice:
		return "current_price"
	case ActionOpenOrders:
		return "open_orders"
	case ActionCancelOrder:
		return "cancel_order"
	case ActionOrderStatus:
		return "order_status"
	case ActionPlaceOrder:
		return "place_order"
	}
	return "none"
}

// Options is the resolved user input for one invocation.
type Options struct {
	APIKey    string
	APISecret string
	Symbol    string

	AccountInfo  bool
	CurrentPrice bool
	OpenOrders   bool
	CancelOrder  OptionalID
	OrderStatus  OptionalID

	Order order.Params
}

// Plan is the single operation an invocation will run. A plan with ActionNone
// and a Notice is a handled input problem: it is logged, not treated as failure.
type Plan struct {
	Action  Action
	Symbol  string
	OrderID int64
	Request order.Request
	Notice  string
}

const missingPriceSymbol = "Symbol is required to get current price"

// Prepare checks the input and picks one action without touching the network.
// Query flags win over placement; an order type is validated even when a query
// flag is also present.
func Prepare(opts Options) (Plan, error) {
	if strings.TrimSpace(opts.APIKey) == "" || strings.TrimSpace(opts.APISecret) == "" {
		return Plan{}, core.NewValidationError("api_key", "API key and secret are required (--api-key/--api-secret or BINANCE_API_KEY/BINANCE_API_SECRET)")
	}

	params := opts.Order
	if params.Symbol == "" {
		params.Symbol = opts.Symbol
	}
	spec, placing, err := order.Check(params)
	if err != nil {
		return Plan{}, err
	}

	symbol := strings.ToUpper(strings.TrimSpace(opts.Symbol))
	switch {
	case opts.AccountInfo:
		return Plan{Action: ActionAccountInfo}, nil
	case opts.CurrentPrice:
		if symbol == "" {
			return Plan{Action: ActionNone, Notice: missingPriceSymbol}, nil
		}
		return Plan{Action: ActionCurrentPrice, Symbol: symbol}, nil
	case opts.OpenOrders:
		return Plan{Action: ActionOpenOrders, Symbol: symbol}, nil
	case opts.CancelOrder.Present:
		return orderIDPlan(ActionCancelOrder, symbol, opts.CancelOrder, "cancel_order")
	case opts.OrderStatus.Present:
		return orderIDPlan(ActionOrderStatus, symbol, opts.OrderStatus, "order_status")
	case placing:
		return Plan{Action: ActionPlaceOrder, Symbol: spec.Symbol, Request: order.Build(spec)}, nil
	}
	return Plan{Action: ActionNone}, nil
}

func orderIDPlan(action Action, symbol string, id OptionalID, field string) (Plan, error) {
	if symbol == "" {
		return Plan{}, core.NewValidationError("symbol", "symbol is required to "+strings.ReplaceAll(field, "_", " "))
	}
	if id.Value <= 0 {
		return Plan{}, core.NewValidationError(field, "order id must be greater than 0")
	}
	return Plan{Action: action, Symbol: symbol, OrderID: id.Value}, nil
}
