package order

import (
	"strings"

	"github.com/shopspring/decimal"

	"spot-tradebot/internal/core"
)

// Params is the raw, unvalidated parameter bag read from the command line.
// Nil numeric fields were not supplied.
type Params struct {
	Symbol         string
	Side           string
	OrderType      string
	TimeInForce    string
	Quantity       *decimal.Decimal
	Price          *decimal.Decimal
	StopPrice      *decimal.Decimal
	StopLimitPrice *decimal.Decimal
}

// PlacesOrder reports whether the bag expresses order-placement intent.
func (p Params) PlacesOrder() bool {
	return strings.TrimSpace(p.OrderType) != ""
}

// Spec is a validated order. Only Validate produces one.
type Spec struct {
	Symbol         string
	Side           core.Side
	Type           core.OrderType
	TimeInForce    core.TimeInForce
	Quantity       decimal.Decimal
	Price          decimal.Decimal
	StopPrice      decimal.Decimal
	StopLimitPrice decimal.Decimal
}

// Check skips validation for query intent and validates placement intent.
// ok is true only for a valid placement.
func Check(p Params) (spec Spec, ok bool, err error) {
	if !p.PlacesOrder() {
		return Spec{}, false, nil
	}
	spec, err = Validate(p)
	if err != nil {
		return Spec{}, false, err
	}
	return spec, true, nil
}

// Validate applies the order-type rules in order; the first failure wins.
func Validate(p Params) (Spec, error) {
	spec := Spec{
		Symbol: strings.ToUpper(strings.TrimSpace(p.Symbol)),
		Side:   core.NormalizeSide(p.Side),
		Type:   core.NormalizeOrderType(p.OrderType),
	}
	if !spec.Side.Valid() {
		return Spec{}, core.NewValidationError("side", "side must be either 'BUY' or 'SELL'")
	}
	if !spec.Type.Valid() {
		return Spec{}, core.NewValidationError("order_type", "order type must be one of 'MARKET', 'LIMIT', 'STOP_LIMIT', or 'OCO'")
	}
	if !positive(p.Quantity) {
		return Spec{}, core.NewValidationError("quantity", "quantity must be greater than 0")
	}
	spec.Quantity = *p.Quantity

	if needsPrice(spec.Type) {
		if !positive(p.Price) {
			return Spec{}, core.NewValidationError("price", "price must be greater than 0 for LIMIT, STOP_LIMIT and OCO orders")
		}
		spec.Price = *p.Price
	}
	if needsStopPrice(spec.Type) {
		if !positive(p.StopPrice) {
			return Spec{}, core.NewValidationError("stop_price", "stop price must be greater than 0 for STOP_LIMIT and OCO orders")
		}
		spec.StopPrice = *p.StopPrice
	}
	if spec.Type == core.OCO {
		if !positive(p.StopLimitPrice) {
			return Spec{}, core.NewValidationError("stop_limit_price", "stop-limit price must be greater than 0 for OCO orders")
		}
		spec.StopLimitPrice = *p.StopLimitPrice
	}
	if spec.Symbol == "" {
		return Spec{}, core.NewValidationError("symbol", "symbol is required to place an order")
	}

	spec.TimeInForce = core.GTC
	if strings.TrimSpace(p.TimeInForce) != "" {
		spec.TimeInForce = core.NormalizeTimeInForce(p.TimeInForce)
		if !spec.TimeInForce.Valid() {
			return Spec{}, core.NewValidationError("time_in_force", "time in force must be one of 'GTC', 'IOC', or 'FOK'")
		}
	}
	return spec, nil
}

func needsPrice(t core.OrderType) bool {
	return t == core.Limit || t == core.StopLimit || t == core.OCO
}

func needsStopPrice(t core.OrderType) bool {
	return t == core.StopLimit || t == core.OCO
}

func positive(v *decimal.Decimal) bool {
	return v != nil && v.Cmp(decimal.Zero) > 0
}
