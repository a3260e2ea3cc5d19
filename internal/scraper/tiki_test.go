package scraper

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"thongtinduan/pricescraper/config"
)

// memoryCache is an in-process stand-in for memcached in fetcher tests
type memoryCache struct {
	data map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]byte)}
}

func (c *memoryCache) Get(key string) ([]byte, error) {
	value, ok := c.data[key]
	if !ok {
		return nil, errors.New("cache miss")
	}
	return value, nil
}

func (c *memoryCache) Set(key string, value []byte, _ time.Duration) error {
	c.data[key] = value
	return nil
}

func (c *memoryCache) Delete(key string) error {
	delete(c.data, key)
	return nil
}

func newTikiTestConfig(apiURL string) *config.Config {
	return &config.Config{
		MaxRetries:     3,
		RetryDelay:     60 * time.Second,
		RequestTimeout: 10 * time.Second,
		CooldownTime:   time.Minute,
		TikiAPIURL:     apiURL,
	}
}

func TestTikiFetcherSuccess(t *testing.T) {
	var gotPath, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte(`{"price": 70000, "original_price": 100000, "badges_new": [{"code": "FLASH_SALE_X"}]}`))
	}))
	defer server.Close()

	fetcher := NewTikiFetcher(newTikiTestConfig(server.URL), nil)
	result := fetcher.FetchPrice(context.Background(), "111")

	assert.Equal(t, FetchOK, result.Status)
	assert.Equal(t, 1, result.Attempts)
	assert.Equal(t, 70000.0, result.Price.Price)
	assert.Equal(t, 100000.0, result.Price.OriginalPrice)
	assert.Equal(t, "VND", result.Price.Currency)
	assert.Equal(t, DealFlashSale, result.Price.DealType)
	assert.Equal(t, "/111", gotPath)
	assert.Contains(t, gotAccept, "application/json")
}

func TestTikiFetcherOriginalPriceDefaultsToPrice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"price": 50000}`))
	}))
	defer server.Close()

	fetcher := NewTikiFetcher(newTikiTestConfig(server.URL), nil)
	result := fetcher.FetchPrice(context.Background(), "111")

	assert.Equal(t, FetchOK, result.Status)
	assert.Equal(t, 50000.0, result.Price.Price)
	assert.Equal(t, 50000.0, result.Price.OriginalPrice)
	assert.Equal(t, DealNormal, result.Price.DealType)
}

func TestTikiFetcherRetriesServerErrors(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	var sleeps int
	fetcher := NewTikiFetcher(newTikiTestConfig(server.URL), nil)
	fetcher.Sleep = func(time.Duration) { sleeps++ }

	result := fetcher.FetchPrice(context.Background(), "111")

	assert.Equal(t, FetchFailed, result.Status)
	assert.Equal(t, 3, result.Attempts)
	assert.Error(t, result.Err)
	assert.Equal(t, 3, hits)
	assert.Equal(t, 2, sleeps)
}

func TestTikiFetcherRecoversAfterRetry(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"price": 90000, "original_price": 90000}`))
	}))
	defer server.Close()

	fetcher := NewTikiFetcher(newTikiTestConfig(server.URL), nil)
	fetcher.Sleep = func(time.Duration) {}

	result := fetcher.FetchPrice(context.Background(), "111")

	assert.Equal(t, FetchOK, result.Status)
	assert.Equal(t, 3, result.Attempts)
	assert.Equal(t, 90000.0, result.Price.Price)
}

func TestTikiFetcherGoneOn404(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	fetcher := NewTikiFetcher(newTikiTestConfig(server.URL), nil)
	fetcher.Sleep = func(time.Duration) { t.Fatal("404 must not trigger a retry sleep") }

	result := fetcher.FetchPrice(context.Background(), "111")

	assert.Equal(t, FetchGone, result.Status)
	assert.Equal(t, 1, result.Attempts)
	assert.Equal(t, 1, hits)
}

func TestTikiFetcherFatalOnUnparseableBody(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(`<html>maintenance</html>`))
	}))
	defer server.Close()

	fetcher := NewTikiFetcher(newTikiTestConfig(server.URL), nil)
	fetcher.Sleep = func(time.Duration) { t.Fatal("unparseable body must not trigger a retry sleep") }

	result := fetcher.FetchPrice(context.Background(), "111")

	assert.Equal(t, FetchFailed, result.Status)
	assert.Equal(t, 1, result.Attempts)
	assert.Equal(t, 1, hits)
}

func TestTikiFetcherSkipsRequestsDuringCooldown(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(`{"price": 100}`))
	}))
	defer server.Close()

	cacheSvc := newMemoryCache()
	assert.NoError(t, cacheSvc.Set("tiki_cooldown", []byte("1"), time.Minute))

	fetcher := NewTikiFetcher(newTikiTestConfig(server.URL), cacheSvc)
	fetcher.Sleep = func(time.Duration) {}

	result := fetcher.FetchPrice(context.Background(), "111")

	assert.Equal(t, FetchFailed, result.Status)
	assert.Equal(t, 0, hits)
}

func TestTikiFetcherSetsCooldownOn429(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	cacheSvc := newMemoryCache()
	cfg := newTikiTestConfig(server.URL)
	cfg.MaxRetries = 1

	fetcher := NewTikiFetcher(cfg, cacheSvc)
	result := fetcher.FetchPrice(context.Background(), "111")

	assert.Equal(t, FetchFailed, result.Status)
	_, err := cacheSvc.Get("tiki_cooldown")
	assert.NoError(t, err)
}
