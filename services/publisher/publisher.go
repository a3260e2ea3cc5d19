package publisher

import "context"

// RunSummary is the handoff payload consumed by downstream notifiers
type RunSummary struct {
	Source  string `json:"source"`
	Total   int    `json:"total"`
	Success int    `json:"success"`
	Failed  int    `json:"failed"`
	Skipped int    `json:"skipped"`
	Status  string `json:"status"`
}

// Publisher delivers the end-of-run summary to downstream consumers
type Publisher interface {
	// PublishSummary publishes the run summary
	PublishSummary(ctx context.Context, summary RunSummary) error

	// Close closes the publisher connection
	Close() error
}
