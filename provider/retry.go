package provider

import (
	"context"
	"errors"
	"time"
)

// RetryConfig bounds the backoff applied to retryable provider failures.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

// DefaultRetryConfig returns the standard backoff bounds.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		BaseDelay:  1 * time.Second,
		MaxDelay:   30 * time.Second,
	}
}

// withRetry runs fn with exponential backoff on retryable errors.
func withRetry(ctx context.Context, cfg RetryConfig, fn func() (Result, error)) (Result, error) {
	var lastErr error
	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		res, err := fn()
		if err == nil {
			return res, nil
		}
		lastErr = err

		if !isRetryable(err) {
			return Result{}, err
		}
		if attempt < cfg.MaxRetries {
			delay := cfg.BaseDelay * time.Duration(1<<attempt)
			if delay > cfg.MaxDelay {
				delay = cfg.MaxDelay
			}
			select {
			case <-ctx.Done():
				return Result{}, ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	return Result{}, lastErr
}

func isRetryable(err error) bool {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Retryable
	}
	return false
}
