package sweeper

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/feral-file/ff-event-feed/internal/adapter"
	"github.com/feral-file/ff-event-feed/internal/logger"
)

// Sweeper defines the interface for sweeper implementations
// Sweepers are long-running background tasks that perform periodic maintenance
//
//go:generate mockgen -source=sweeper.go -destination=../mocks/sweeper.go -package=mocks -mock_names=Sweeper=MockSweeper
type Sweeper interface {
	// Start begins the sweeper's main loop
	// This is a blocking call that runs until the context is canceled
	Start(ctx context.Context) error

	// Stop gracefully stops the sweeper
	// This should wait for any in-progress work to complete
	Stop(ctx context.Context) error

	// Name returns the sweeper's name for logging and identification
	Name() string
}

// cycleFunc runs one sweep cycle and reports whether more work is pending,
// in which case the next cycle starts without waiting for the interval
type cycleFunc func(ctx context.Context) (bool, error)

// loop drives a cycleFunc until the context is canceled or Stop is called
type loop struct {
	name      string
	interval  time.Duration
	clock     adapter.Clock
	cycle     cycleFunc
	running   atomic.Bool
	stopChan  chan struct{}
	stoppedCh chan struct{}
}

func newLoop(name string, interval time.Duration, clock adapter.Clock, cycle cycleFunc) *loop {
	return &loop{
		name:      name,
		interval:  interval,
		clock:     clock,
		cycle:     cycle,
		stopChan:  make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

// Name returns the sweeper's name
func (l *loop) Name() string {
	return l.name
}

// Start runs sweep cycles until stopped
func (l *loop) Start(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return fmt.Errorf("sweeper %s already running", l.name)
	}
	defer func() {
		l.running.Store(false)
		close(l.stoppedCh)
	}()

	logger.InfoCtx(ctx, "Starting sweeper",
		zap.String("sweeper", l.name),
		zap.Duration("interval", l.interval))

	for {
		select {
		case <-ctx.Done():
			logger.InfoCtx(ctx, "Sweeper stopping due to context cancellation",
				zap.String("sweeper", l.name), zap.Error(ctx.Err()))
			return nil
		case <-l.stopChan:
			logger.InfoCtx(ctx, "Sweeper stop requested", zap.String("sweeper", l.name))
			return nil
		default:
		}

		startTime := l.clock.Now()
		pending, err := l.cycle(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.ErrorCtx(ctx, fmt.Errorf("sweep cycle of %s failed: %w", l.name, err))
		}
		logger.DebugCtx(ctx, "Sweep cycle completed",
			zap.String("sweeper", l.name),
			zap.Duration("duration", l.clock.Since(startTime)),
			zap.Bool("pending", pending))

		if pending && err == nil {
			continue
		}
		if !l.sleep(ctx, l.interval) {
			return nil
		}
	}
}

// Stop gracefully stops the sweeper with timeout support
func (l *loop) Stop(ctx context.Context) error {
	if !l.running.Load() {
		return nil
	}

	select {
	case <-l.stopChan:
	default:
		logger.InfoCtx(ctx, "Stopping sweeper", zap.String("sweeper", l.name))
		close(l.stopChan)
	}

	select {
	case <-l.stoppedCh:
		logger.InfoCtx(ctx, "Sweeper stopped gracefully", zap.String("sweeper", l.name))
		return nil
	case <-ctx.Done():
		logger.WarnCtx(ctx, "Sweeper stop interrupted by context timeout", zap.String("sweeper", l.name))
		return ctx.Err()
	}
}

// sleep waits for the given duration but can be interrupted by context cancellation or Stop.
// Returns true if the sleep completed normally.
func (l *loop) sleep(ctx context.Context, duration time.Duration) bool {
	select {
	case <-l.clock.After(duration):
		return true
	case <-ctx.Done():
		return false
	case <-l.stopChan:
		return false
	}
}
