package sweeper

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/feral-file/ff-event-feed/internal/adapter"
	"github.com/feral-file/ff-event-feed/internal/logger"
	"github.com/feral-file/ff-event-feed/internal/materializer"
	"github.com/feral-file/ff-event-feed/internal/store"
)

const FEED_CONSISTENCY_SWEEPER_NAME = "feed-consistency-sweeper"

// FeedConsistencySweeperConfig holds configuration for the feed consistency sweeper
type FeedConsistencySweeperConfig struct {
	BatchSize      int           // Pairs inspected per kind per cycle
	WorkerPoolSize int           // Concurrent repairs
	Interval       time.Duration // Time to sleep between idle cycles
}

// feedConsistencySweeper heals grouped entries that drifted from their memberships:
// entries left without members and grouped pairs that were never materialized
type feedConsistencySweeper struct {
	*loop
	config       FeedConsistencySweeperConfig
	store        store.Store
	materializer materializer.Materializer
}

// NewFeedConsistencySweeper creates a new feed consistency sweeper
func NewFeedConsistencySweeper(
	config FeedConsistencySweeperConfig,
	st store.Store,
	mat materializer.Materializer,
	clock adapter.Clock,
) Sweeper {
	if config.BatchSize <= 0 {
		config.BatchSize = 200
	}
	if config.WorkerPoolSize <= 0 {
		config.WorkerPoolSize = 4
	}
	if config.Interval <= 0 {
		config.Interval = 15 * time.Minute
	}

	s := &feedConsistencySweeper{
		config:       config,
		store:        st,
		materializer: mat,
	}
	s.loop = newLoop(FEED_CONSISTENCY_SWEEPER_NAME, config.Interval, clock, s.sweep)
	return s
}

func (s *feedConsistencySweeper) sweep(ctx context.Context) (bool, error) {
	orphans, err := s.store.GetOrphanedGroupedFeedEntries(ctx, s.config.BatchSize)
	if err != nil {
		return false, fmt.Errorf("failed to get orphaned grouped feed entries: %w", err)
	}

	unmaterialized, err := s.store.GetUnmaterializedFeedGroups(ctx, s.config.BatchSize)
	if err != nil {
		return false, fmt.Errorf("failed to get unmaterialized feed groups: %w", err)
	}

	if len(orphans) == 0 && len(unmaterialized) == 0 {
		return false, nil
	}

	var healed, failed atomic.Int32

	pool := pond.NewPool(s.config.WorkerPoolSize, pond.WithContext(ctx))
	defer pool.StopAndWait()

	group := pool.NewGroup()
	for _, key := range orphans {
		group.Submit(func() {
			logger.ConsistencyWarnCtx(ctx, "orphaned_entry",
				zap.String("feedID", key.FeedID),
				zap.String("similarityGroupID", key.SimilarityGroupID))

			// Recheck under the pair lock, a membership may have been added since the scan
			if _, err := s.materializer.RemoveIfEmpty(ctx, s.store, key.FeedID, key.SimilarityGroupID); err != nil {
				failed.Add(1)
				logger.ErrorCtx(ctx, err, zap.String("feedID", key.FeedID), zap.String("similarityGroupID", key.SimilarityGroupID))
				return
			}
			healed.Add(1)
		})
	}
	for _, key := range unmaterialized {
		group.Submit(func() {
			logger.ConsistencyWarnCtx(ctx, "unmaterialized_pair",
				zap.String("feedID", key.FeedID),
				zap.String("similarityGroupID", key.SimilarityGroupID))

			if _, err := s.materializer.Upsert(ctx, s.store, key.FeedID, key.SimilarityGroupID); err != nil {
				failed.Add(1)
				logger.ErrorCtx(ctx, err, zap.String("feedID", key.FeedID), zap.String("similarityGroupID", key.SimilarityGroupID))
				return
			}
			healed.Add(1)
		})
	}
	if err := group.Wait(); err != nil {
		return false, err
	}

	logger.InfoCtx(ctx, "Feed consistency sweep completed",
		zap.Int("orphaned", len(orphans)),
		zap.Int("unmaterialized", len(unmaterialized)),
		zap.Int32("healed", healed.Load()),
		zap.Int32("failed", failed.Load()))

	if failed.Load() > 0 {
		// Pairs that keep failing would be returned by the next scan again
		return false, fmt.Errorf("failed to heal %d feed groups", failed.Load())
	}

	return len(orphans) >= s.config.BatchSize || len(unmaterialized) >= s.config.BatchSize, nil
}
