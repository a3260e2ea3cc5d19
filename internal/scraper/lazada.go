package scraper

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"thongtinduan/pricescraper/config"
	"thongtinduan/pricescraper/helpers"
	"thongtinduan/pricescraper/logger"
	scrapeerrors "thongtinduan/pricescraper/pkg/errors"
	"thongtinduan/pricescraper/services/cache"
)

const lazadaReferer = "https://www.lazada.vn/"

// Lazada has no public product API, so prices come from the product page
// itself, anchored on the ₫ currency symbol.
var (
	lazadaPriceLeading  = regexp.MustCompile(`₫\s*([0-9][0-9.,]*)`)
	lazadaPriceTrailing = regexp.MustCompile(`([0-9][0-9.,]*)\s*₫`)
)

// LazadaFetcher scrapes prices from Lazada product pages
type LazadaFetcher struct {
	BaseFetcher
	productURL string // template with one %s for the item ID
}

// NewLazadaFetcher creates a Lazada fetcher from the configuration
func NewLazadaFetcher(cfg *config.Config, cacheSvc cache.CacheService) *LazadaFetcher {
	return &LazadaFetcher{
		BaseFetcher: BaseFetcher{
			ProviderName: "lazada",
			Client:       helpers.NewBrowserClient(cfg.RequestTimeout),
			MaxRetries:   cfg.MaxRetries,
			RetryDelay:   cfg.RetryDelay,
			CacheSvc:     cacheSvc,
			CacheKey:     "lazada_cooldown",
			Cooldown:     cfg.CooldownTime,
			log:          logger.ForFetcher("lazada"),
		},
		productURL: cfg.LazadaProductURL,
	}
}

// FetchPrice fetches the current price for one Lazada item ID
func (f *LazadaFetcher) FetchPrice(ctx context.Context, id string) FetchResult {
	return f.fetchWithRetry(ctx, func(ctx context.Context) (PriceData, attemptOutcome, error) {
		return f.attempt(ctx, id)
	})
}

func (f *LazadaFetcher) attempt(ctx context.Context, id string) (PriceData, attemptOutcome, error) {
	req, err := helpers.NewHTMLRequest(ctx, fmt.Sprintf(f.productURL, id), lazadaReferer)
	if err != nil {
		return PriceData{}, attemptFatal, err
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return PriceData{}, attemptRetry, scrapeerrors.NewNetwork("lazada", "request failed", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return f.parsePage(resp)

	case http.StatusNotFound:
		return PriceData{}, attemptGone, scrapeerrors.NewNetwork("lazada", "product not found (404)", nil)

	case http.StatusTooManyRequests:
		f.markCooldown()
		return PriceData{}, attemptRetry, scrapeerrors.NewNetwork("lazada", "rate limited (429)", nil)

	default:
		return PriceData{}, attemptRetry,
			scrapeerrors.NewNetwork("lazada", fmt.Sprintf("unexpected status code: %d", resp.StatusCode), nil)
	}
}

func (f *LazadaFetcher) parsePage(resp *http.Response) (PriceData, attemptOutcome, error) {
	utf8Body, err := helpers.ReadUTF8Body(resp)
	if err != nil {
		return PriceData{}, attemptRetry, scrapeerrors.NewNetwork("lazada", "failed to read page", err)
	}

	doc, err := goquery.NewDocumentFromReader(utf8Body)
	if err != nil {
		return PriceData{}, attemptFatal, scrapeerrors.NewExtract("lazada", "unparseable page", err)
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if i := strings.Index(title, "|"); i >= 0 {
		title = strings.TrimSpace(title[:i])
	}
	f.log.Debug().Str("title", title).Msg("Parsing product page")

	prices := collectPrices(doc.Find("body").Text())
	if len(prices) == 0 {
		// A 200 page without any ₫ amount means the layout changed or the
		// listing is inactive; another attempt would see the same page
		return PriceData{}, attemptFatal, scrapeerrors.NewExtract("lazada", "no price found on page", nil)
	}

	price, originalPrice := prices[0], prices[0]
	for _, p := range prices[1:] {
		if p < price {
			price = p
		}
		if p > originalPrice {
			originalPrice = p
		}
	}

	return PriceData{
		Price:         price,
		OriginalPrice: originalPrice,
		Currency:      "VND",
		DealType:      ClassifyDeal(nil, price, originalPrice),
	}, attemptSuccess, nil
}

// collectPrices gathers all ₫-anchored amounts in the page text. The lowest
// is the sale price, the highest the pre-discount reference.
func collectPrices(text string) []float64 {
	seen := make(map[float64]bool)
	var prices []float64

	for _, re := range []*regexp.Regexp{lazadaPriceLeading, lazadaPriceTrailing} {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			value, ok := parseVNDAmount(m[1])
			if !ok || seen[value] {
				continue
			}
			seen[value] = true
			prices = append(prices, value)
		}
	}

	return prices
}

// parseVNDAmount parses an amount like "1.299.000" or "1,299,000". VND has no
// fractional unit, so separators are thousands marks. Amounts under 1000₫ are
// noise, not product prices.
func parseVNDAmount(s string) (float64, bool) {
	s = strings.NewReplacer(".", "", ",", "").Replace(s)
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n < 1000 {
		return 0, false
	}
	return float64(n), true
}
