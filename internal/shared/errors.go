package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed   = fmt.Errorf("authentication failed")
	ErrTokenExpired = fmt.Errorf("access token expired")

	// Remote API errors
	ErrRateLimited    = fmt.Errorf("rate limited")
	ErrTransport      = fmt.Errorf("transport failure")
	ErrRetryExhausted = fmt.Errorf("retries exhausted")

	// Extraction errors
	ErrNoData = fmt.Errorf("no data extracted")

	// Storage errors
	ErrSchemaMissing     = fmt.Errorf("destination table missing")
	ErrTransactionFailed = fmt.Errorf("transaction failed")
)
