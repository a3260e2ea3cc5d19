package scraper

import (
	"thongtinduan/pricescraper/config"
	"thongtinduan/pricescraper/services/cache"
)

// CreateFetchers builds one fetcher per supported source, keyed by the
// catalog's source tag. Products whose source has no entry here are skipped
// by the worker.
func CreateFetchers(cfg *config.Config, cacheSvc cache.CacheService) map[string]Fetcher {
	return map[string]Fetcher{
		"tiki":   NewTikiFetcher(cfg, cacheSvc),
		"lazada": NewLazadaFetcher(cfg, cacheSvc),
	}
}
