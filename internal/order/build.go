package order

import (
	"net/url"

	"github.com/shopspring/decimal"

	"spot-tradebot/internal/core"
)

// Request is one of MarketRequest, LimitRequest, StopLimitRequest or OCORequest.
type Request interface {
	// Kind is the user-facing order type.
	Kind() core.OrderType
	// Params renders the request in Binance wire form.
	Params() url.Values

	request()
}

type MarketRequest struct {
	Symbol   string
	Side     core.Side
	Quantity decimal.Decimal
}

type LimitRequest struct {
	Symbol      string
	Side        core.Side
	Quantity    decimal.Decimal
	Price       decimal.Decimal
	TimeInForce core.TimeInForce
}

type StopLimitRequest struct {
	Symbol      string
	Side        core.Side
	Quantity    decimal.Decimal
	Price       decimal.Decimal
	StopPrice   decimal.Decimal
	TimeInForce core.TimeInForce
}

type OCORequest struct {
	Symbol               string
	Side                 core.Side
	Quantity             decimal.Decimal
	Price                decimal.Decimal
	StopPrice            decimal.Decimal
	StopLimitPrice       decimal.Decimal
	StopLimitTimeInForce core.TimeInForce
}

// Exchange order type names sent in the "type" field.
const (
	wireMarket        = "MARKET"
	wireLimit         = "LIMIT"
	wireStopLossLimit = "STOP_LOSS_LIMIT"
)

// Build maps a validated spec onto its request variant. It never fails.
func Build(spec Spec) Request {
	switch spec.Type {
	case core.Limit:
		return LimitRequest{
			Symbol:      spec.Symbol,
			Side:        spec.Side,
			Quantity:    spec.Quantity,
			Price:       spec.Price,
			TimeInForce: spec.TimeInForce,
		}
	case core.StopLimit:
		return StopLimitRequest{
			Symbol:      spec.Symbol,
			Side:        spec.Side,
			Quantity:    spec.Quantity,
			Price:       spec.Price,
			StopPrice:   spec.StopPrice,
			TimeInForce: spec.TimeInForce,
		}
	case core.OCO:
		return OCORequest{
			Symbol:               spec.Symbol,
			Side:                 spec.Side,
			Quantity:             spec.Quantity,
			Price:                spec.Price,
			StopPrice:            spec.StopPrice,
			StopLimitPrice:       spec.StopLimitPrice,
			StopLimitTimeInForce: spec.TimeInForce,
		}
	default:
		return MarketRequest{
			Symbol:   spec.Symbol,
			Side:     spec.Side,
			Quantity: spec.Quantity,
		}
	}
}

func (r MarketRequest) Kind() core.OrderType { return core.Market }
func (MarketRequest) request()               {}

func (r MarketRequest) Params() url.Values {
	params := url.Values{}
	params.Set("symbol", r.Symbol)
	params.Set("side", string(r.Side))
	params.Set("type", wireMarket)
	params.Set("quantity", r.Quantity.String())
	return params
}

func (r LimitRequest) Kind() core.OrderType { return core.Limit }
func (LimitRequest) request()               {}

func (r LimitRequest) Params() url.Values {
	params := url.Values{}
	params.Set("symbol", r.Symbol)
	params.Set("side", string(r.Side))
	params.Set("type", wireLimit)
	params.Set("quantity", r.Quantity.String())
	params.Set("price", r.Price.String())
	params.Set("timeInForce", string(r.TimeInForce))
	return params
}

func (r StopLimitRequest) Kind() core.OrderType { return core.StopLimit }
func (StopLimitRequest) request()               {}

func (r StopLimitRequest) Params() url.Values {
	params := url.Values{}
	params.Set("symbol", r.Symbol)
	params.Set("side", string(r.Side))
	params.Set("type", wireStopLossLimit)
	params.Set("quantity", r.Quantity.String())
	params.Set("price", r.Price.String())
	params.Set("stopPrice", r.StopPrice.String())
	params.Set("timeInForce", string(r.TimeInForce))
	return params
}

func (r OCORequest) Kind() core.OrderType { return core.OCO }
func (OCORequest) request()               {}

// Params for the OCO endpoint carry no "type"; the list shape is implied.
func (r OCORequest) Params() url.Values {
	params := url.Values{}
	params.Set("symbol", r.Symbol)
	params.Set("side", string(r.Side))
	params.Set("quantity", r.Quantity.String())
	params.Set("price", r.Price.String())
	params.Set("stopPrice", r.StopPrice.String())
	params.Set("stopLimitPrice", r.StopLimitPrice.String())
	params.Set("stopLimitTimeInForce", string(r.StopLimitTimeInForce))
	return params
}
