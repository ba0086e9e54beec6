package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"gainerscan/pkg/config"
	"gainerscan/pkg/enrich"
	"gainerscan/pkg/logging"
	"gainerscan/pkg/news"
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := polygon.NewClient(polygon.Options{
		BaseURL:           cfg.BaseURL,
		APIKey:            cfg.APIKey,
		Timeout:           cfg.HTTPTimeout,
		RequestsPerMinute: cfg.RequestsPerMinute,
		Logger:            logger,
	})

	var source news.Source = client
	if cfg.AlpacaEnabled() {
		source = news.Fallback(client, news.NewAlpacaSource(cfg.AlpacaAPIKey, cfg.AlpacaSecretKey))
	}

	enricher := enrich.New(client, source, enrich.Options{
		TopN:             cfg.TopN,
		RiskPct:          cfg.RiskPct,
		RewardPct:        cfg.RewardPct,
		NewsLookback:     cfg.NewsLookback,
		NewsLimit:        cfg.NewsLimit,
		AccountSize:      cfg.AccountSize,
		AccountRiskPct:   cfg.AccountRiskPct,
		PremarketStart:   cfg.PremarketStart,
		RankByConviction: cfg.RankBy == config.RankByConviction,
	}, logger)
	if cfg.Scoring {
		enricher.WithMarketData(client)
	}

	snapshot := &scan.Snapshot{
		Gainers:  client,
		Enricher: enricher,
		Out:      os.Stdout,
		Logger:   logger,
	}
	if err := snapshot.Run(ctx); err != nil {
		logger.Error("snapshot failed", zap.Error(err))
		return scan.ExitCode(err)
	}
	return 0
}
