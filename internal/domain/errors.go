package domain

import "errors"

var (
	// ErrGarmentNotFound is returned when a garment does not exist in storage
	ErrGarmentNotFound = errors.New("garment not found")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrVisionUnavailable is returned when no vision API is configured
	ErrVisionUnavailable = errors.New("vision analysis not configured")

	// ErrVisionAPIFailure is returned when the vision API request fails
	ErrVisionAPIFailure = errors.New("vision API request failed")

	// ErrStorageFailure is returned when the garment store cannot be reached
	ErrStorageFailure = errors.New("garment storage failure")
)
