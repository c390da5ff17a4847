package engine

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryConfig mirrors §5/§6's engine retry/backoff knobs, supplemented
// with Validate() per original_source/types/src/retry_config.rs (see
// SPEC_FULL.md §4).
type RetryConfig struct {
	InitialDelay   time.Duration
	Multiplier     float64
	MaxDelay       time.Duration
	MaxElapsedTime time.Duration
}

// DefaultRetryConfig matches §5's stated defaults.
var DefaultRetryConfig = RetryConfig{
	InitialDelay:   100 * time.Millisecond,
	Multiplier:     2.0,
	MaxDelay:       2 * time.Second,
	MaxElapsedTime: 10 * time.Second,
}

func (c RetryConfig) Validate() error {
	if c.InitialDelay <= 0 || c.MaxDelay <= 0 || c.MaxElapsedTime <= 0 {
		return errors.New("engine: retry config durations must be positive")
	}
	if c.InitialDelay > c.MaxDelay {
		return errors.New("engine: retry config initial_delay must not exceed max_delay")
	}
	if c.Multiplier <= 1.0 {
		return errors.New("engine: retry config multiplier must be greater than 1.0")
	}
	return nil
}

func (c RetryConfig) backOff(ctx context.Context) backoff.BackOffContext {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.InitialDelay
	b.Multiplier = c.Multiplier
	b.MaxInterval = c.MaxDelay
	b.MaxElapsedTime = c.MaxElapsedTime
	b.Reset()
	return backoff.WithContext(b, ctx)
}

// errSyncing is returned by an attempt func to request another retry
// round; any other error aborts the retry loop immediately (§4.3
// "Retry-on-SYNCING").
var errSyncing = errors.New("engine: execution client reports SYNCING")

// retrySyncing runs attempt under exponential backoff, retrying only
// while attempt returns errSyncing; any other error or a successful
// result stops the loop.
func retrySyncing[T any](ctx context.Context, cfg RetryConfig, attempt func() (T, error)) (T, error) {
	var result T
	op := func() error {
		var err error
		result, err = attempt()
		if errors.Is(err, errSyncing) {
			return err // retry
		}
		if err != nil {
			return backoff.Permanent(err)
		}
		return nil
	}
	err := backoff.Retry(op, cfg.backOff(ctx))
	if errors.Is(err, errSyncing) {
		err = errors.New("engine: execution client never left SYNCING within max_elapsed_time")
	}
	return result, err
}
