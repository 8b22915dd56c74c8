package binance

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"spot-tradebot/internal/core"
)

type apiError struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

// APIError is an error body returned by Binance. Status is the HTTP or WebSocket status.
type APIError struct {
	Status int
	Code   int
	Msg    string
}

func (e APIError) Error() string {
	return "binance api error " + strconv.Itoa(e.Code) + ": " + e.Msg
}

type tickerPriceResponse struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

type accountResponse struct {
	MakerCommission int64    `json:"makerCommission"`
	TakerCommission int64    `json:"takerCommission"`
	CanTrade        bool     `json:"canTrade"`
	CanWithdraw     bool     `json:"canWithdraw"`
	CanDeposit      bool     `json:"canDeposit"`
	AccountType     string   `json:"accountType"`
	UpdateTime      int64    `json:"updateTime"`
	Permissions     []string `json:"permissions"`
	Balances        []struct {
		Asset  string `json:"asset"`
		Free   string `json:"free"`
		Locked string `json:"locked"`
	} `json:"balances"`
}

func parseAccount(src accountResponse) core.AccountInfo {
	info := core.AccountInfo{
		MakerCommission: src.MakerCommission,
		TakerCommission: src.TakerCommission,
		CanTrade:        src.CanTrade,
		CanWithdraw:     src.CanWithdraw,
		CanDeposit:      src.CanDeposit,
		AccountType:     src.AccountType,
		Permissions:     src.Permissions,
		Balances:        make([]core.Balance, 0, len(src.Balances)),
	}
	if src.UpdateTime > 0 {
		info.UpdateTime = time.UnixMilli(src.UpdateTime).UTC()
	}
	for _, b := range src.Balances {
		free, err := decimal.NewFromString(b.Free)
		if err != nil {
			free = decimal.Zero
		}
		locked, err := decimal.NewFromString(b.Locked)
		if err != nil {
			locked = decimal.Zero
		}
		info.Balances = append(info.Balances, core.Balance{
			Asset:  b.Asset,
			Free:   free,
			Locked: locked,
		})
	}
	return info
}
