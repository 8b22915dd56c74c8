package core

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Side string

type OrderType string

type TimeInForce string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

const (
	Market    OrderType = "MARKET"
	Limit     OrderType = "LIMIT"
	StopLimit OrderType = "STOP_LIMIT"
	OCO       OrderType = "OCO"
)

const (
	GTC TimeInForce = "GTC"
	IOC TimeInForce = "IOC"
	FOK TimeInForce = "FOK"
)

func (s Side) Valid() bool {
	return s == Buy || s == Sell
}

func (t OrderType) Valid() bool {
	switch t {
	case Market, Limit, StopLimit, OCO:
		return true
	}
	return false
}

func (t TimeInForce) Valid() bool {
	switch t {
	case GTC, IOC, FOK:
		return true
	}
	return false
}

// NormalizeSide upper-cases and trims user input; it does not validate.
func NormalizeSide(v string) Side {
	return Side(strings.ToUpper(strings.TrimSpace(v)))
}

func NormalizeOrderType(v string) OrderType {
	return OrderType(strings.ToUpper(strings.TrimSpace(v)))
}

func NormalizeTimeInForce(v string) TimeInForce {
	return TimeInForce(strings.ToUpper(strings.TrimSpace(v)))
}

// OrderResult is the exchange payload for an order, kept verbatim.
type OrderResult struct {
	Raw json.RawMessage
}

func (r OrderResult) Empty() bool {
	trimmed := bytes.TrimSpace(r.Raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) || bytes.Equal(trimmed, []byte("{}"))
}

func (r OrderResult) MarshalJSON() ([]byte, error) {
	if len(bytes.TrimSpace(r.Raw)) == 0 {
		return []byte("null"), nil
	}
	return r.Raw, nil
}

func (r *OrderResult) UnmarshalJSON(data []byte) error {
	r.Raw = append(r.Raw[:0], data...)
	return nil
}

type Balance struct {
	Asset  string          `json:"asset"`
	Free   decimal.Decimal `json:"free"`
	Locked decimal.Decimal `json:"locked"`
}

// AccountInfo holds the decoded account fields used for logging. Raw keeps the
// exchange payload and is what gets marshalled when present.
type AccountInfo struct {
	MakerCommission int64     `json:"makerCommission"`
	TakerCommission int64     `json:"takerCommission"`
	CanTrade        bool      `json:"canTrade"`
	CanWithdraw     bool      `json:"canWithdraw"`
	CanDeposit      bool      `json:"canDeposit"`
	AccountType     string    `json:"accountType"`
	UpdateTime      time.Time `json:"updateTime"`
	Balances        []Balance `json:"balances"`
	Permissions     []string  `json:"permissions"`

	Raw json.RawMessage `json:"-"`
}

func (a AccountInfo) MarshalJSON() ([]byte, error) {
	if len(bytes.TrimSpace(a.Raw)) > 0 {
		return a.Raw, nil
	}
	type decoded AccountInfo
	return json.Marshal(decoded(a))
}

// NonZeroBalances counts assets with a free or locked amount.
func (a AccountInfo) NonZeroBalances() int {
	n := 0
	for _, b := range a.Balances {
		if !b.Free.IsZero() || !b.Locked.IsZero() {
			n++
		}
	}
	return n
}
