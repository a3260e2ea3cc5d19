package scraper

import (
	"context"
	"net/http"
	"time"

	"thongtinduan/pricescraper/logger"
	scrapeerrors "thongtinduan/pricescraper/pkg/errors"
	"thongtinduan/pricescraper/services/cache"
)

// attemptOutcome classifies a single fetch attempt
type attemptOutcome int

const (
	// attemptSuccess carries a usable price
	attemptSuccess attemptOutcome = iota
	// attemptGone means the item is confirmed missing upstream (HTTP 404)
	attemptGone
	// attemptRetry means a possibly recoverable condition (5xx, timeout, 429)
	attemptRetry
	// attemptFatal means the response cannot be used and retrying is pointless
	attemptFatal
)

// attemptFunc performs one fetch attempt
type attemptFunc func(ctx context.Context) (PriceData, attemptOutcome, error)

// BaseFetcher provides the bounded-retry envelope shared by all fetchers
type BaseFetcher struct {
	ProviderName string
	Client       *http.Client
	MaxRetries   int
	RetryDelay   time.Duration
	CacheSvc     cache.CacheService
	CacheKey     string
	Cooldown     time.Duration
	Sleep        func(time.Duration)
	log          *logger.Logger
}

// GetProvider returns the provider name for logging and identification
func (f *BaseFetcher) GetProvider() string {
	return f.ProviderName
}

// fetchWithRetry runs attempt up to MaxRetries times, sleeping RetryDelay
// between attempts on retryable conditions. A success, a confirmed-gone item,
// and a fatal response all return immediately.
func (f *BaseFetcher) fetchWithRetry(ctx context.Context, attempt attemptFunc) FetchResult {
	sleep := f.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	var lastErr error
	for i := 1; i <= f.MaxRetries; i++ {
		if f.inCooldown() {
			lastErr = scrapeerrors.NewNetwork(f.ProviderName, "provider in cooldown", nil)
		} else {
			data, outcome, err := attempt(ctx)
			switch outcome {
			case attemptSuccess:
				return FetchResult{Status: FetchOK, Price: data, Attempts: i}
			case attemptGone:
				return FetchResult{Status: FetchGone, Attempts: i, Err: err}
			case attemptFatal:
				return FetchResult{Status: FetchFailed, Attempts: i, Err: err}
			default:
				lastErr = err
			}
		}

		if i < f.MaxRetries {
			f.log.Warn().
				Err(lastErr).
				Int("attempt", i).
				Int("max_retries", f.MaxRetries).
				Dur("retry_delay", f.RetryDelay).
				Msg("Fetch attempt failed, waiting before retry")
			sleep(f.RetryDelay)
		}
	}

	return FetchResult{Status: FetchFailed, Attempts: f.MaxRetries, Err: lastErr}
}

// inCooldown reports whether the provider was recently rate limited
func (f *BaseFetcher) inCooldown() bool {
	if f.CacheSvc == nil || f.CacheKey == "" {
		return false
	}
	_, err := f.CacheSvc.Get(f.CacheKey)
	return err == nil
}

// markCooldown pauses the provider for the configured cooldown window after
// an upstream rate limit.
func (f *BaseFetcher) markCooldown() {
	if f.CacheSvc == nil || f.CacheKey == "" {
		return
	}
	if err := f.CacheSvc.Set(f.CacheKey, []byte("1"), f.Cooldown); err != nil {
		f.log.Debug().Err(err).Msg("Failed to set cooldown key")
	}
}
