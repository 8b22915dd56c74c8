package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
)

func TestNormalizeAndValid(t *testing.T) {
	if got := NormalizeSide(" buy "); got != Buy || !got.Valid() {
		t.Fatalf("NormalizeSide() = %q, want BUY", got)
	}
	if got := NormalizeOrderType("stop_limit"); got != StopLimit || !got.Valid() {
		t.Fatalf("NormalizeOrderType() = %q, want STOP_LIMIT", got)
	}
	if got := NormalizeTimeInForce("fok"); got != FOK || !got.Valid() {
		t.Fatalf("NormalizeTimeInForce() = %q, want FOK", got)
	}
	if OrderType("STOP_LOSS_LIMIT").Valid() {
		t.Fatalf("wire type STOP_LOSS_LIMIT must not be accepted as user input")
	}
	if Side("HOLD").Valid() || TimeInForce("GTX").Valid() {
		t.Fatalf("unexpected valid values")
	}
}

func TestOrderResultJSON(t *testing.T) {
	var res OrderResult
	if err := json.Unmarshal([]byte(`{"orderId":1,"fills":[]}`), &res); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if res.Empty() {
		t.Fatalf("Empty() = true for populated result")
	}
	out, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(out) != `{"orderId":1,"fills":[]}` {
		t.Fatalf("Marshal() = %s, want payload verbatim", out)
	}

	for _, raw := range []string{"", " null ", "{}"} {
		if !(OrderResult{Raw: json.RawMessage(raw)}).Empty() {
			t.Fatalf("Empty(%q) = false, want true", raw)
		}
	}
	out, err = json.Marshal(OrderResult{})
	if err != nil || string(out) != "null" {
		t.Fatalf("Marshal(empty) = %s, %v; want null", out, err)
	}
}

func TestAccountInfoNonZeroBalances(t *testing.T) {
	info := AccountInfo{Balances: []Balance{
		{Asset: "USDT", Free: decimal.RequireFromString("100.5"), Locked: decimal.Zero},
		{Asset: "BTC", Free: decimal.Zero, Locked: decimal.RequireFromString("0.1")},
		{Asset: "BNB", Free: decimal.Zero, Locked: decimal.Zero},
	}}
	if got := info.NonZeroBalances(); got != 2 {
		t.Fatalf("NonZeroBalances() = %d, want 2", got)
	}
}

func TestAccountInfoJSONPrefersRaw(t *testing.T) {
	raw := `{"uid":7,"commissionRates":{"maker":"0.00100000"},"balances":[{"asset":"BTC","free":"1.00000000","locked":"0.00000000"}]}`
	out, err := json.Marshal(AccountInfo{AccountType: "SPOT", Raw: json.RawMessage(raw)})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(out) != raw {
		t.Fatalf("Marshal() = %s, want exchange payload verbatim", out)
	}

	out, err = json.Marshal(AccountInfo{AccountType: "SPOT", CanTrade: true})
	if err != nil {
		t.Fatalf("Marshal(decoded) error = %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if decoded["accountType"] != "SPOT" || decoded["canTrade"] != true {
		t.Fatalf("decoded fallback = %s", out)
	}
	if _, ok := decoded["Raw"]; ok {
		t.Fatalf("decoded fallback leaked Raw: %s", out)
	}
}

type multiKind struct {
	kinds []error
}

func (e multiKind) Error() string   { return "exchange failure" }
func (e multiKind) Unwrap() []error { return e.kinds }

func TestKind(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{NewValidationError("price", "price must be greater than 0"), "validation"},
		{fmt.Errorf("place_order: %w", ErrDisconnected), "disconnected"},
		{fmt.Errorf("connect: %w: %w", ErrAuthentication, ErrTransport), "authentication"},
		{multiKind{[]error{ErrOrderRejected, ErrOrderNotFound, ErrNotFound}}, "not_found"},
		{multiKind{[]error{ErrOrderRejected, ErrInsufficientBalance}}, "rejected"},
		{multiKind{[]error{ErrTransport}}, "transport"},
		{errors.New("boom"), "unknown"},
	}
	for _, tc := range cases {
		if got := Kind(tc.err); got != tc.want {
			t.Fatalf("Kind(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestValidationErrorMessageIsReason(t *testing.T) {
	err := NewValidationError("stop_limit_price", "stop-limit price must be greater than 0 for OCO orders")
	if err.Error() != "stop-limit price must be greater than 0 for OCO orders" {
		t.Fatalf("Error() = %q", err.Error())
	}
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("errors.Is(ErrValidation) = false")
	}
}
