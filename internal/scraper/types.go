package scraper

import "context"

// DealType is the promotional classification attached to a price observation
type DealType string

const (
	DealNormal    DealType = "NORMAL"
	DealHotDeal   DealType = "HOT_DEAL"
	DealFlashSale DealType = "FLASH_SALE"
	DealTrending  DealType = "TRENDING"
)

// Product is one tracked catalog entry. Catalog membership is maintained
// outside this worker; products are read-only here.
type Product struct {
	ID     int64
	Name   string
	URL    string
	Source string
}

// PriceData holds one fetched price observation before persistence
type PriceData struct {
	Price         float64
	OriginalPrice float64
	Currency      string
	DealType      DealType
}

// FetchStatus tags the outcome of a fetch so the caller can branch on it
// instead of inspecting error types.
type FetchStatus int

const (
	// FetchOK means a price was extracted and can be recorded
	FetchOK FetchStatus = iota
	// FetchGone means the item does not exist upstream; retrying cannot help
	FetchGone
	// FetchFailed means all attempts were exhausted or the response was unusable
	FetchFailed
)

// FetchResult is the tagged outcome of fetching one item
type FetchResult struct {
	Status   FetchStatus
	Price    PriceData
	Attempts int
	Err      error
}

// Fetcher retrieves the current price for a source-specific item identifier
type Fetcher interface {
	FetchPrice(ctx context.Context, id string) FetchResult

	// GetProvider returns the provider name for logging and identification
	GetProvider() string
}
