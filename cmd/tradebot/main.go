package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"spot-tradebot/internal/alert"
	"spot-tradebot/internal/cli"
	"spot-tradebot/internal/config"
	"spot-tradebot/internal/core"
	"spot-tradebot/internal/exchange/binance"
	"spot-tradebot/internal/gateway"
	"spot-tradebot/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	flags, err := cli.Parse("tradebot", args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, err)
		return 1
	}
	if err := config.LoadEnv(flags.EnvFile); err != nil {
		fmt.Fprintf(stderr, "load env file: %v\n", err)
		return 1
	}

	ov := config.Overrides{
		APIKey:    flags.APIKey,
		APISecret: flags.APISecret,
		LogFile:   flags.LogFile,
	}
	if flags.TestnetSet {
		ov.Testnet = &flags.Testnet
	}
	cfg, err := config.Load(flags.ConfigPath, ov)
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return 1
	}

	logger, closeLog, err := logging.New(logging.Options{File: cfg.Log.File, Level: cfg.Log.Level, Console: stderr})
	if err != nil {
		fmt.Fprintf(stderr, "logger: %v\n", err)
		return 1
	}
	defer closeLog()

	opts := flags.Options
	opts.APIKey = cfg.Exchange.APIKey
	opts.APISecret = cfg.Exchange.APISecret
	plan, err := cli.Prepare(opts)
	if err != nil {
		logFailure(logger, "invalid input", err)
		return 1
	}
	if plan.Action == cli.ActionNone {
		if plan.Notice != "" {
			logger.Error(plan.Notice)
			return 0
		}
		if err := cli.Execute(ctx, nil, plan, stdout); err != nil {
			return 1
		}
		return 0
	}

	alerts := alert.FromConfig(cfg.Mode, cfg.Alert.Telegram, logger)
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := alerts.Close(closeCtx); err != nil {
			logger.Warn("close alert manager failed", zap.Error(err))
		}
	}()

	client, err := binance.NewClient(cfg.Exchange)
	if err != nil {
		logFailure(logger, "create exchange client", err)
		return 1
	}
	logger.Info("starting",
		zap.String("mode", string(cfg.Mode)),
		zap.String("rest_base_url", cfg.Exchange.RestBaseURL),
		zap.String("order_transport", string(cfg.Exchange.OrderTransport)),
		zap.String("action", plan.Action.String()),
	)

	gwOpts := []gateway.Option{gateway.WithLogger(logger)}
	if alerts != nil {
		gwOpts = append(gwOpts, gateway.WithAlerter(alerts))
	}
	gw, err := gateway.New(ctx, client, gwOpts...)
	if err != nil {
		_ = client.Close()
		logFailure(logger, "failed to initialize trading gateway", err)
		return 1
	}
	defer gw.Close()

	if err := cli.Execute(ctx, gw, plan, stdout); err != nil {
		logFailure(logger, "command failed", err)
		return 1
	}
	return 0
}

func logFailure(logger *zap.Logger, msg string, err error) {
	fields := []zap.Field{zap.String("kind", core.Kind(err)), zap.Error(err)}
	var vErr *core.ValidationError
	if errors.As(err, &vErr) {
		fields = append(fields, zap.String("field", vErr.Field))
	}
	if apiErr, ok := binance.AsAPIError(err); ok {
		fields = append(fields, zap.Int("exchange_code", apiErr.Code), zap.Int("http_status", apiErr.Status))
	}
	logger.Error(msg, fields...)
}
