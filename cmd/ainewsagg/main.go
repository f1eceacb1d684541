package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"ainewsagg/internal/classify"
	"ainewsagg/internal/config"
	"ainewsagg/internal/export"
	"ainewsagg/internal/logging"
	"ainewsagg/internal/rss"
	"ainewsagg/internal/service"
	"ainewsagg/internal/storage"
)

func main() {
	rt := config.LoadRuntime()
	logger := logging.New(rt.LogPath, rt.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var scorer classify.Scorer
	switch rt.ClassifierProvider {
	case "openai":
		if rt.ClassifierKey == "" {
			logger.Warn("CLASSIFIER_API_KEY is not set, classification calls will fail")
		}
		scorer = classify.NewOpenAIClient(rt.ClassifierKey, rt.OpenAIModel, rt.OpenAIBase)
	default:
		scorer = classify.NewZeroShotClient(rt.ClassifierURL, rt.ClassifierKey)
	}

	store, err := storage.Open(ctx, rt.DBPath, logger)
	if err != nil {
		logger.Error("failed to open store", "path", rt.DBPath, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	svc := service.New(
		rss.NewFetcher(logger),
		classify.NewFilter(scorer, logger),
		store,
		export.NewSnapshot(rt.SnapshotPath),
		logger,
		rt,
	)

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("service stopped with error", "error", err)
		os.Exit(1)
	}
}
