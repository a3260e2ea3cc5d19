package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"thongtinduan/pricescraper/config"
	"thongtinduan/pricescraper/helpers"
	"thongtinduan/pricescraper/logger"
	scrapeerrors "thongtinduan/pricescraper/pkg/errors"
	"thongtinduan/pricescraper/services/cache"
)

const tikiReferer = "https://tiki.vn/"

// tikiResponse is the subset of the product API body this worker reads
type tikiResponse struct {
	Price         float64 `json:"price"`
	OriginalPrice float64 `json:"original_price"`
	BadgesNew     []struct {
		Code string `json:"code"`
	} `json:"badges_new"`
}

// TikiFetcher fetches prices from the Tiki product API
type TikiFetcher struct {
	BaseFetcher
	apiURL string
}

// NewTikiFetcher creates a Tiki fetcher from the configuration
func NewTikiFetcher(cfg *config.Config, cacheSvc cache.CacheService) *TikiFetcher {
	return &TikiFetcher{
		BaseFetcher: BaseFetcher{
			ProviderName: "tiki",
			Client:       helpers.NewBrowserClient(cfg.RequestTimeout),
			MaxRetries:   cfg.MaxRetries,
			RetryDelay:   cfg.RetryDelay,
			CacheSvc:     cacheSvc,
			CacheKey:     "tiki_cooldown",
			Cooldown:     cfg.CooldownTime,
			log:          logger.ForFetcher("tiki"),
		},
		apiURL: cfg.TikiAPIURL,
	}
}

// FetchPrice fetches the current price for one Tiki product ID
func (f *TikiFetcher) FetchPrice(ctx context.Context, id string) FetchResult {
	return f.fetchWithRetry(ctx, func(ctx context.Context) (PriceData, attemptOutcome, error) {
		return f.attempt(ctx, id)
	})
}

func (f *TikiFetcher) attempt(ctx context.Context, id string) (PriceData, attemptOutcome, error) {
	req, err := helpers.NewJSONRequest(ctx, f.apiURL+"/"+id, tikiReferer)
	if err != nil {
		return PriceData{}, attemptFatal, err
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return PriceData{}, attemptRetry, scrapeerrors.NewNetwork("tiki", "request failed", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var body tikiResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return PriceData{}, attemptFatal, scrapeerrors.NewExtract("tiki", "unparseable response body", err)
		}

		price := body.Price
		originalPrice := body.OriginalPrice
		if originalPrice == 0 {
			originalPrice = price
		}

		codes := make([]string, 0, len(body.BadgesNew))
		for _, badge := range body.BadgesNew {
			codes = append(codes, badge.Code)
		}

		return PriceData{
			Price:         price,
			OriginalPrice: originalPrice,
			Currency:      "VND",
			DealType:      ClassifyDeal(codes, price, originalPrice),
		}, attemptSuccess, nil

	case http.StatusNotFound:
		// The item does not exist upstream; retrying cannot help
		return PriceData{}, attemptGone, scrapeerrors.NewNetwork("tiki", "product not found (404)", nil)

	case http.StatusTooManyRequests:
		f.markCooldown()
		return PriceData{}, attemptRetry, scrapeerrors.NewNetwork("tiki", "rate limited (429)", nil)

	default:
		return PriceData{}, attemptRetry,
			scrapeerrors.NewNetwork("tiki", fmt.Sprintf("unexpected status code: %d", resp.StatusCode), nil)
	}
}
