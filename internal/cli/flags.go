package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// OptionalID is an order id flag that remembers whether it was supplied, so an
// explicit 0 is reported instead of being mistaken for "not given".
type OptionalID struct {
	Value   int64
	Present bool
}

func (o *OptionalID) String() string {
	if o == nil || !o.Present {
		return ""
	}
	return strconv.FormatInt(o.Value, 10)
}

func (o *OptionalID) Set(raw string) error {
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return errors.New("order id must be an integer")
	}
	o.Value = v
	o.Present = true
	return nil
}

// decimalFlag parses straight into a decimal so prices never pass through float64.
type decimalFlag struct {
	dst **decimal.Decimal
}

func (d decimalFlag) String() string {
	if d.dst == nil || *d.dst == nil {
		return ""
	}
	return (*d.dst).String()
}

func (d decimalFlag) Set(raw string) error {
	v, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return errors.New("must be a decimal number")
	}
	*d.dst = &v
	return nil
}

// Flags is everything read from the command line.
type Flags struct {
	Options

	ConfigPath string
	LogFile    string
	EnvFile    string
	Testnet    bool
	// TestnetSet is true when --testnet appeared explicitly, so the config file
	// keeps control of the mode otherwise.
	TestnetSet bool
}

// Parse reads args (without the program name). flag.ErrHelp is returned for -h/--help.
func Parse(name string, args []string, output io.Writer) (Flags, error) {
	var f Flags
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(output)

	fs.StringVar(&f.APIKey, "api-key", "", "Binance API key (or $BINANCE_API_KEY)")
	fs.StringVar(&f.APISecret, "api-secret", "", "Binance API secret (or $BINANCE_API_SECRET)")
	fs.BoolVar(&f.Testnet, "testnet", true, "use the Binance spot testnet")
	fs.StringVar(&f.ConfigPath, "config", "", "optional YAML config path")
	fs.StringVar(&f.LogFile, "log-file", "", "log file path (default trade_bot_logs.log)")
	fs.StringVar(&f.EnvFile, "env-file", ".env", "dotenv file with credentials")

	fs.StringVar(&f.Symbol, "symbol", "", "trading symbol (e.g., BTCUSDT)")
	fs.StringVar(&f.Order.Side, "side", "", "order side (BUY or SELL)")
	fs.StringVar(&f.Order.OrderType, "order-type", "", "order type (MARKET, LIMIT, STOP_LIMIT, OCO)")
	fs.StringVar(&f.Order.TimeInForce, "time-in-force", "", "time in force for limit legs (GTC, IOC, FOK; default GTC)")
	fs.Var(decimalFlag{&f.Order.Quantity}, "quantity", "order quantity")
	fs.Var(decimalFlag{&f.Order.Price}, "price", "limit price")
	fs.Var(decimalFlag{&f.Order.StopPrice}, "stop-price", "stop price")
	fs.Var(decimalFlag{&f.Order.StopLimitPrice}, "stop-limit-price", "stop limit price (OCO orders)")

	fs.BoolVar(&f.AccountInfo, "account-info", false, "show account information")
	fs.BoolVar(&f.OpenOrders, "open-orders", false, "show open orders (all symbols unless --symbol is set)")
	fs.Var(&f.CancelOrder, "cancel-order", "cancel order by ID")
	fs.BoolVar(&f.CurrentPrice, "current-price", false, "show current price for --symbol")
	fs.Var(&f.OrderStatus, "order-status", "show order status by ID")

	if err := fs.Parse(args); err != nil {
		return Flags{}, err
	}
	if fs.NArg() > 0 {
		return Flags{}, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	fs.Visit(func(fl *flag.Flag) {
		if fl.Name == "testnet" {
			f.TestnetSet = true
		}
	})
	f.Order.Symbol = f.Symbol
	return f, nil
}
