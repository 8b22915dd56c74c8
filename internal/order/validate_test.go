package order

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"spot-tradebot/internal/core"
)

func dec(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func fullParams(orderType string) Params {
	return Params{
		Symbol:         "BTCUSDT",
		Side:           "BUY",
		OrderType:      orderType,
		Quantity:       dec("0.5"),
		Price:          dec("30000"),
		StopPrice:      dec("29000"),
		StopLimitPrice: dec("28900"),
	}
}

func validationField(t *testing.T, err error) string {
	t.Helper()
	if !errors.Is(err, core.ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}
	var verr *core.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %T, want *core.ValidationError", err)
	}
	return verr.Field
}

func TestValidateAcceptsEveryOrderTypeWithRequiredFields(t *testing.T) {
	for _, typ := range []string{"MARKET", "LIMIT", "STOP_LIMIT", "OCO"} {
		spec, err := Validate(fullParams(typ))
		if err != nil {
			t.Fatalf("Validate(%s) error = %v", typ, err)
		}
		if spec.Type != core.OrderType(typ) {
			t.Fatalf("Validate(%s) type = %s", typ, spec.Type)
		}
		if spec.TimeInForce != core.GTC {
			t.Fatalf("Validate(%s) time in force = %s, want GTC", typ, spec.TimeInForce)
		}
	}
}

func TestValidateRejectsMissingOrNonPositiveRequiredField(t *testing.T) {
	required := map[string][]string{
		"MARKET":     {"quantity"},
		"LIMIT":      {"quantity", "price"},
		"STOP_LIMIT": {"quantity", "price", "stop_price"},
		"OCO":        {"quantity", "price", "stop_price", "stop_limit_price"},
	}
	set := func(p *Params, field string, v *decimal.Decimal) {
		switch field {
		case "quantity":
			p.Quantity = v
		case "price":
			p.Price = v
		case "stop_price":
			p.StopPrice = v
		case "stop_limit_price":
			p.StopLimitPrice = v
		}
	}
	for typ, fields := range required {
		for _, field := range fields {
			for _, bad := range []*decimal.Decimal{nil, dec("0"), dec("-1")} {
				p := fullParams(typ)
				set(&p, field, bad)
				_, err := Validate(p)
				if err == nil {
					t.Fatalf("%s/%s=%v: Validate() error = nil", typ, field, bad)
				}
				if got := validationField(t, err); got != field {
					t.Fatalf("%s/%s: failing field = %q", typ, field, got)
				}
			}
		}
	}
}

func TestValidateIgnoresFieldsIrrelevantToOrderType(t *testing.T) {
	p := Params{Symbol: "BTCUSDT", Side: "SELL", OrderType: "MARKET", Quantity: dec("1"), Price: dec("-5")}
	spec, err := Validate(p)
	if err != nil {
		t.Fatalf("Validate(MARKET) error = %v", err)
	}
	if !spec.Price.IsZero() {
		t.Fatalf("market spec price = %s, want zero", spec.Price)
	}

	p = Params{Symbol: "BTCUSDT", Side: "SELL", OrderType: "STOP_LIMIT", Quantity: dec("1"), Price: dec("10"), StopPrice: dec("9")}
	if _, err := Validate(p); err != nil {
		t.Fatalf("Validate(STOP_LIMIT without stop-limit price) error = %v", err)
	}
}

func TestValidateLimitWithZeroPriceNamesPrice(t *testing.T) {
	_, err := Validate(Params{OrderType: "LIMIT", Side: "BUY", Quantity: dec("1.5"), Price: dec("0")})
	if err == nil || !strings.Contains(err.Error(), "price") {
		t.Fatalf("Validate() error = %v, want price reason", err)
	}
	if got := validationField(t, err); got != "price" {
		t.Fatalf("failing field = %q, want price", got)
	}
}

func TestValidateOCOWithZeroStopLimitPriceNamesStopLimitPrice(t *testing.T) {
	_, err := Validate(Params{
		OrderType:      "OCO",
		Side:           "SELL",
		Quantity:       dec("0.01"),
		Price:          dec("30000"),
		StopPrice:      dec("29000"),
		StopLimitPrice: dec("0"),
	})
	if err == nil || !strings.Contains(err.Error(), "stop-limit price") {
		t.Fatalf("Validate() error = %v, want stop-limit price reason", err)
	}
	if got := validationField(t, err); got != "stop_limit_price" {
		t.Fatalf("failing field = %q, want stop_limit_price", got)
	}
}

func TestValidateRuleOrderFirstFailureWins(t *testing.T) {
	cases := []struct {
		params Params
		want   string
	}{
		{Params{Side: "HOLD", OrderType: "LIMIT"}, "side"},
		{Params{Side: "BUY", OrderType: "TRAILING"}, "order_type"},
		{Params{Side: "BUY", OrderType: "MARKET", Quantity: dec("1")}, "symbol"},
	}
	for _, tc := range cases {
		_, err := Validate(tc.params)
		if got := validationField(t, err); got != tc.want {
			t.Fatalf("Validate(%+v) failing field = %q, want %q", tc.params, got, tc.want)
		}
	}
}

func TestValidateNormalizesCaseAndTimeInForce(t *testing.T) {
	spec, err := Validate(Params{Symbol: " ethusdt ", Side: "sell", OrderType: "limit", Quantity: dec("2"), Price: dec("1800"), TimeInForce: "ioc"})
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if spec.Symbol != "ETHUSDT" || spec.Side != core.Sell || spec.Type != core.Limit || spec.TimeInForce != core.IOC {
		t.Fatalf("normalized spec = %+v", spec)
	}

	p := fullParams("LIMIT")
	p.TimeInForce = "GTX"
	_, err = Validate(p)
	if got := validationField(t, err); got != "time_in_force" {
		t.Fatalf("failing field = %q, want time_in_force", got)
	}
}

func TestCheckSkipsQueryIntent(t *testing.T) {
	spec, ok, err := Check(Params{Symbol: "BTCUSDT"})
	if err != nil || ok || spec != (Spec{}) {
		t.Fatalf("Check(no type) = %+v, %v, %v; want zero, false, nil", spec, ok, err)
	}

	_, ok, err = Check(Params{OrderType: "LIMIT", Side: "BUY", Quantity: dec("1")})
	if ok || !errors.Is(err, core.ErrValidation) {
		t.Fatalf("Check(incomplete LIMIT) = %v, %v; want false, ErrValidation", ok, err)
	}

	spec, ok, err = Check(fullParams("MARKET"))
	if err != nil || !ok || spec.Type != core.Market {
		t.Fatalf("Check(MARKET) = %+v, %v, %v", spec, ok, err)
	}
}
