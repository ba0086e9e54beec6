package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"gainerscan/pkg/config"
	"gainerscan/pkg/logging"
	"gainerscan/pkg/polygon"
	"gainerscan/pkg/scan"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return scan.ExitCode(err)
	}

	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	defer logger.Sync()

	// Ctrl+C ends the loop cleanly.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := polygon.NewClient(polygon.Options{
		BaseURL:           cfg.BaseURL,
		APIKey:            cfg.APIKey,
		Timeout:           cfg.HTTPTimeout,
		RequestsPerMinute: cfg.RequestsPerMinute,
		Logger:            logger,
	})

	poller := &scan.Poller{
		Gainers:  client,
		Out:      os.Stdout,
		Logger:   logger,
		TopN:     cfg.TopN,
		Interval: scan.PollInterval,
	}
	if err := poller.Run(ctx); err != nil {
		logger.Error("polling failed", zap.Error(err))
		return scan.ExitCode(err)
	}
	return 0
}
