package domain

import "errors"

var (
	ErrNotFound            = errors.New("resource not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrEmptyReportText     = errors.New("report text is empty")
	ErrJobNotFound         = errors.New("extraction job not found")
	ErrJobNotRetryable     = errors.New("extraction job is not in a retryable state")
	ErrTradelineNotFound   = errors.New("tradeline not found")
	ErrExtractionExhausted = errors.New("extraction retries exhausted")
)
