// Package datasource fetches historical player statistics from external
// providers and exposes them as plain numeric sample series.
package datasource

import "errors"

// DataSourceError represents errors from data source operations
type DataSourceError struct {
	Source  string // Data source name
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string // Error message
	Err     error  // Underlying error
}

func (e DataSourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

func (e DataSourceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
)

// Error constructors
var (
	ErrRateLimitExceeded    = errors.New("rate limit exceeded")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrInvalidData          = errors.New("invalid data format")
)

// NewDataSourceError creates a new data source error
func NewDataSourceError(source, code, message string, err error) DataSourceError {
	return DataSourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
