package utils

import "errors"

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidPage      = errors.New("invalid page parameter")
	ErrInvalidPageSize  = errors.New("invalid page size parameter")
	ErrTripNotFound     = errors.New("trip not found")
	ErrGenerationFailed = errors.New("generation failed")
	ErrDatabaseError    = errors.New("database error")
	ErrRateLimited      = errors.New("rate limited")
	ErrUnauthorized     = errors.New("unauthorized")
)
