package store

import (
	"context"
	"time"

	"thongtinduan/pricescraper/internal/scraper"
)

// SessionStatus classifies a finished scrape run
type SessionStatus string

const (
	SessionSuccess        SessionStatus = "SUCCESS"
	SessionPartialSuccess SessionStatus = "PARTIAL_SUCCESS"
	SessionFailed         SessionStatus = "FAILED"
)

// SessionEntry is one scrape_log row written at the end of a run
type SessionEntry struct {
	ScrapeDate    time.Time
	Source        string
	TotalProducts int
	Status        SessionStatus
	Notes         string
}

// Store exposes the catalog read surface and the append-only price-history
// and session-log write surfaces. Observation rows are never updated or
// deleted by this worker; re-running with unchanged upstream prices appends
// a new row, building a time series.
type Store interface {
	// ListProducts returns the full trackable catalog
	ListProducts(ctx context.Context) ([]scraper.Product, error)

	// RecordPrice appends one price observation for a product
	RecordPrice(ctx context.Context, productID int64, data scraper.PriceData, recordedAt time.Time) error

	// RecordSession appends one session summary row
	RecordSession(ctx context.Context, entry SessionEntry) error

	// Close releases the underlying connection
	Close() error
}
