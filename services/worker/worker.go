package worker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"thongtinduan/pricescraper/internal/scraper"
	"thongtinduan/pricescraper/logger"
	scrapeerrors "thongtinduan/pricescraper/pkg/errors"
	"thongtinduan/pricescraper/services/publisher"
	"thongtinduan/pricescraper/services/store"
)

// RunStats accumulates per-item outcomes for one scrape run. Exactly one of
// success, failed, or skipped is incremented per catalog item, so
// success + failed + skipped == total at the end of the run.
type RunStats struct {
	Total   int
	Success int
	Failed  int
	Skipped int
}

// SessionStatus derives the session log status from the success/failed
// split. Skipped items never demote a run.
func (s RunStats) SessionStatus() store.SessionStatus {
	switch {
	case s.Failed == 0:
		return store.SessionSuccess
	case s.Success > 0:
		return store.SessionPartialSuccess
	default:
		return store.SessionFailed
	}
}

// Succeeded reports whether the run persisted at least one observation.
// Partial success counts as a successful run at the process level.
func (s RunStats) Succeeded() bool {
	return s.Success > 0
}

// Notes renders the free-text summary written to the session log
func (s RunStats) Notes() string {
	return fmt.Sprintf("Success: %d, Failed: %d, Skipped: %d", s.Success, s.Failed, s.Skipped)
}

// Worker drives one scrape run over the full catalog: sequential fetches
// with a fixed inter-item delay, per-item outcome accounting, and a
// best-effort session log write at the end.
type Worker struct {
	store     store.Store
	fetchers  map[string]scraper.Fetcher
	publisher publisher.Publisher
	itemDelay time.Duration
	source    string
	sleep     func(time.Duration)
	log       *logger.Logger
}

// NewWorker creates a new worker. A nil sleep uses real time.
func NewWorker(
	st store.Store,
	fetchers map[string]scraper.Fetcher,
	pub publisher.Publisher,
	itemDelay time.Duration,
	source string,
	sleep func(time.Duration),
) *Worker {
	if sleep == nil {
		sleep = time.Sleep
	}
	return &Worker{
		store:     st,
		fetchers:  fetchers,
		publisher: pub,
		itemDelay: itemDelay,
		source:    source,
		sleep:     sleep,
		log:       logger.ForWorker(),
	}
}

// Run executes one scrape over the full catalog and returns the run
// statistics. It returns an error only when the run aborts before iterating:
// catalog load failure or an empty catalog. Per-item failures are folded
// into the statistics and never terminate the run.
func (w *Worker) Run(ctx context.Context) (RunStats, error) {
	var stats RunStats
	start := time.Now()

	products, err := w.store.ListProducts(ctx)
	if err != nil {
		w.log.Error().Err(err).Msg("Catalog load failed, aborting run")
		return stats, err
	}
	if len(products) == 0 {
		w.log.Error().Msg("No products to scrape, aborting run")
		return stats, scrapeerrors.NewValidation("worker", "empty catalog")
	}

	stats.Total = len(products)
	w.log.Info().
		Int("products", len(products)).
		Str("source", w.source).
		Msg("Starting scrape run")

	for i, product := range products {
		w.log.Info().
			Int64("product_id", product.ID).
			Str("name", truncate(product.Name, 50)).
			Msgf("[%d/%d]", i+1, len(products))

		skipped := w.processItem(ctx, product, &stats)

		// Fixed spacing between upstream requests; skipped items issue no
		// request and the last item needs no trailing delay
		if !skipped && i < len(products)-1 {
			w.sleep(w.itemDelay)
		}
	}

	w.finalize(ctx, stats, time.Since(start))
	return stats, nil
}

// processItem handles one catalog item, incrementing exactly one counter.
// It reports whether the item was skipped without issuing a request.
func (w *Worker) processItem(ctx context.Context, product scraper.Product, stats *RunStats) bool {
	id, ok := scraper.ExtractID(product.Source, product.URL)
	if !ok {
		stats.Skipped++
		w.log.Warn().
			Int64("product_id", product.ID).
			Str("url", product.URL).
			Msg("No source identifier in URL, skipping")
		return true
	}

	fetcher, ok := w.fetchers[strings.ToLower(product.Source)]
	if !ok {
		stats.Skipped++
		w.log.Warn().
			Int64("product_id", product.ID).
			Str("source", product.Source).
			Msg("No fetcher for source, skipping")
		return true
	}

	result := fetcher.FetchPrice(ctx, id)
	switch result.Status {
	case scraper.FetchOK:
		if err := w.store.RecordPrice(ctx, product.ID, result.Price, time.Now()); err != nil {
			stats.Failed++
			w.log.Error().Err(err).Int64("product_id", product.ID).Msg("Price insert failed")
			return false
		}
		stats.Success++
		w.log.Info().
			Float64("price", result.Price.Price).
			Float64("original_price", result.Price.OriginalPrice).
			Str("deal_type", string(result.Price.DealType)).
			Msg("Recorded observation")

	case scraper.FetchGone:
		stats.Failed++
		w.log.Warn().Int64("product_id", product.ID).Msg("Product gone upstream")

	default:
		stats.Failed++
		event := w.log.Warn().
			Err(result.Err).
			Int("attempts", result.Attempts).
			Int64("product_id", product.ID)
		var scrapeErr *scrapeerrors.ScrapeError
		if errors.As(result.Err, &scrapeErr) {
			event = event.Bool("retryable", scrapeErr.IsRetryable())
		}
		event.Msg("Fetch failed")
	}
	return false
}

// finalize writes the session log and publishes the run summary. Both are
// best-effort: the price data is already durable, so failures here are
// logged and do not change the run outcome.
func (w *Worker) finalize(ctx context.Context, stats RunStats, elapsed time.Duration) {
	status := stats.SessionStatus()

	entry := store.SessionEntry{
		ScrapeDate:    time.Now(),
		Source:        w.source,
		TotalProducts: stats.Total,
		Status:        status,
		Notes:         stats.Notes(),
	}
	if err := w.store.RecordSession(ctx, entry); err != nil {
		w.log.Error().Err(err).Msg("Session log write failed")
	}

	if w.publisher != nil {
		summary := publisher.RunSummary{
			Source:  w.source,
			Total:   stats.Total,
			Success: stats.Success,
			Failed:  stats.Failed,
			Skipped: stats.Skipped,
			Status:  string(status),
		}
		if err := w.publisher.PublishSummary(ctx, summary); err != nil {
			w.log.Error().Err(err).Msg("Summary publish failed")
		}
	}

	w.log.Info().
		Int("total", stats.Total).
		Int("success", stats.Success).
		Int("failed", stats.Failed).
		Int("skipped", stats.Skipped).
		Str("status", string(status)).
		Dur("elapsed", elapsed).
		Msg("Scrape run finished")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
