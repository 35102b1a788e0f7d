package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

type RetryConfig struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  3,
		InitialDelay: 1 * time.Second,
		MaxDelay:     10 * time.Second,
		Multiplier:   2.0,
	}
}

// RetryWithBackoff runs fn up to config.MaxAttempts times with exponential
// backoff, logging each retry and the final exhaustion at the call site's
// own logger — a zero-value zerolog.Logger is a valid no-op, so callers
// with no logger of their own can pass zerolog.Logger{}.
func RetryWithBackoff(ctx context.Context, logger zerolog.Logger, config RetryConfig, fn func() error) error {
	var lastErr error
	delay := config.InitialDelay

	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
		}

		if attempt < config.MaxAttempts {
			logger.Debug().Int("attempt", attempt).Dur("delay", delay).Err(lastErr).Msg("retrying after failure")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay = time.Duration(float64(delay) * config.Multiplier)
				if delay > config.MaxDelay {
					delay = config.MaxDelay
				}
			}
		}
	}

	logger.Warn().Int("attempts", config.MaxAttempts).Err(lastErr).Msg("retry attempts exhausted")
	return fmt.Errorf("failed after %d attempts: %w", config.MaxAttempts, lastErr)
}
