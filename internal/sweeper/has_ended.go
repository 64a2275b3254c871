package sweeper

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/feral-file/ff-event-feed/internal/adapter"
	"github.com/feral-file/ff-event-feed/internal/domain"
	"github.com/feral-file/ff-event-feed/internal/logger"
	"github.com/feral-file/ff-event-feed/internal/materializer"
	"github.com/feral-file/ff-event-feed/internal/store"
)

const HAS_ENDED_SWEEPER_NAME = "has-ended-sweeper"

// HasEndedSweeperConfig holds configuration for the has-ended sweeper
type HasEndedSweeperConfig struct {
	BatchSize           int           // Grouped entries refreshed per cycle
	Interval            time.Duration // Time to sleep between idle cycles
	RetryMaxElapsedTime time.Duration // Retry budget of a failing store call
}

// hasEndedSweeper moves events from upcoming to past as the wall clock passes their end
type hasEndedSweeper struct {
	*loop
	config       HasEndedSweeperConfig
	store        store.Store
	materializer materializer.Materializer
	clock        adapter.Clock
}

// NewHasEndedSweeper creates a sweeper that flips has_ended on memberships and grouped entries
func NewHasEndedSweeper(
	config HasEndedSweeperConfig,
	st store.Store,
	mat materializer.Materializer,
	clock adapter.Clock,
) Sweeper {
	if config.BatchSize <= 0 {
		config.BatchSize = 500
	}
	if config.Interval <= 0 {
		config.Interval = time.Minute
	}
	if config.RetryMaxElapsedTime <= 0 {
		config.RetryMaxElapsedTime = 5 * time.Minute
	}

	s := &hasEndedSweeper{
		config:       config,
		store:        st,
		materializer: mat,
		clock:        clock,
	}
	s.loop = newLoop(HAS_ENDED_SWEEPER_NAME, config.Interval, clock, s.sweep)
	return s
}

// sweep flags ended memberships, then refreshes one batch of grouped entries
func (s *hasEndedSweeper) sweep(ctx context.Context) (bool, error) {
	nowMillis := s.clock.Now().UnixMilli()

	var marked int64
	err := s.retry(ctx, "mark ended memberships", func() error {
		var err error
		marked, err = s.store.MarkEndedMemberships(ctx, nowMillis)
		return err
	})
	if err != nil {
		return false, err
	}

	var refreshed int
	err = s.retry(ctx, "refresh ended entries", func() error {
		var err error
		refreshed, err = s.materializer.RefreshEnded(ctx, s.store, s.config.BatchSize)
		return err
	})
	if err != nil {
		return false, err
	}

	if marked > 0 || refreshed > 0 {
		logger.InfoCtx(ctx, "Flagged ended events",
			zap.Int64("memberships", marked),
			zap.Int("entries", refreshed))
	}

	return refreshed >= s.config.BatchSize, nil
}

// retry runs operation with exponential backoff while its error is retryable
func (s *hasEndedSweeper) retry(ctx context.Context, name string, operation func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = time.Second
	b.MaxInterval = 30 * time.Second
	b.MaxElapsedTime = s.config.RetryMaxElapsedTime

	var attemptCount int
	err := backoff.RetryNotify(
		func() error {
			err := operation()
			if err != nil && !domain.IsRetryable(err) {
				return backoff.Permanent(err)
			}
			return err
		},
		backoff.WithContext(b, ctx),
		func(err error, next time.Duration) {
			attemptCount++
			logger.WarnCtx(ctx, "Sweep step failed, retrying",
				zap.String("step", name),
				zap.Error(err),
				zap.Int("attempt", attemptCount),
				zap.Duration("next_retry_in", next))
		},
	)
	if err != nil {
		return fmt.Errorf("failed to %s after %d attempts: %w", name, attemptCount+1, err)
	}
	return nil
}
