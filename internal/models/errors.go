package models

import "errors"

// Custom errors
var (
	ErrSportNotFound       = errors.New("sport not found in catalog")
	ErrCategoryNotFound    = errors.New("category not found in catalog")
	ErrInsufficientHistory = errors.New("insufficient historical samples")
	ErrDegenerateStdDev    = errors.New("degenerate standard deviation")
	ErrNoHistory           = errors.New("no historical data available")
)
