package errors

import (
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeStore represents catalog store connection or query errors
	ErrorTypeStore ErrorType = "store"
	// ErrorTypeNetwork represents upstream HTTP errors
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeExtract represents response extraction errors
	ErrorTypeExtract ErrorType = "extract"
	// ErrorTypePersistence represents observation or session write errors
	ErrorTypePersistence ErrorType = "persistence"
	// ErrorTypeValidation represents validation errors
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// ScrapeError represents a scraper-specific error
type ScrapeError struct {
	Type     ErrorType
	Provider string
	Message  string
	Err      error
	Time     time.Time
}

// Error implements the error interface
func (e *ScrapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Provider, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Provider, e.Message)
}

// Unwrap returns the underlying error
func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if the error is retryable
func (e *ScrapeError) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeNetwork, ErrorTypeStore:
		return true
	default:
		return false
	}
}

// New creates a new ScrapeError
func New(errType ErrorType, provider, message string, err error) *ScrapeError {
	return &ScrapeError{
		Type:     errType,
		Provider: provider,
		Message:  message,
		Err:      err,
		Time:     time.Now(),
	}
}

// NewStore creates a new store error
func NewStore(provider, message string, err error) *ScrapeError {
	return New(ErrorTypeStore, provider, message, err)
}

// NewNetwork creates a new network error
func NewNetwork(provider, message string, err error) *ScrapeError {
	return New(ErrorTypeNetwork, provider, message, err)
}

// NewExtract creates a new extraction error
func NewExtract(provider, message string, err error) *ScrapeError {
	return New(ErrorTypeExtract, provider, message, err)
}

// NewPersistence creates a new persistence error
func NewPersistence(provider, message string, err error) *ScrapeError {
	return New(ErrorTypePersistence, provider, message, err)
}

// NewValidation creates a new validation error
func NewValidation(provider, message string) *ScrapeError {
	return New(ErrorTypeValidation, provider, message, nil)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *ScrapeError {
	return New(ErrorTypeConfiguration, "", message, err)
}
