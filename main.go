package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"thongtinduan/pricescraper/config"
	"thongtinduan/pricescraper/internal/scraper"
	"thongtinduan/pricescraper/logger"
	"thongtinduan/pricescraper/services/cache"
	"thongtinduan/pricescraper/services/publisher"
	"thongtinduan/pricescraper/services/store"
	"thongtinduan/pricescraper/services/worker"
)

func main() {
	os.Exit(run())
}

func run() int {
	_ = godotenv.Load()
	logger.Init()

	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Default.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx := context.Background()

	st, err := store.Open(ctx, cfg.DSN(), cfg.MaxRetries, cfg.RetryDelay, nil)
	if err != nil {
		logger.Default.Error().Err(err).Msg("Database unavailable")
		return 1
	}
	defer st.Close()

	cacheSvc := cache.NewMemcacheService(cfg.MemcacheAddr)
	pub := publisher.NewRedisPublisher(cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream, cfg.RedisStreamMaxLength)
	defer pub.Close()

	fetchers := scraper.CreateFetchers(cfg, cacheSvc)

	w := worker.NewWorker(st, fetchers, pub, cfg.ItemDelay, cfg.Source, nil)
	stats, err := w.Run(ctx)
	if err != nil {
		logger.Default.Error().Err(err).Msg("Scrape run aborted")
		return 1
	}

	// Exit zero only when at least one observation was persisted
	if !stats.Succeeded() {
		return 1
	}
	return 0
}
