// Package migration backfills derived feed state for data written before the derivation existed:
// similarity groups on historical events, groups on memberships, grouped feed entries, and
// membership timing corrupted by an earlier timestamp bug.
//
// Every job is batchable, resumable from a stored checkpoint and safe to re-run. Writes are
// compare-and-set or full materializer recomputations, so a live write that lands first is never
// overwritten by backfill output.
package migration

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/feral-file/ff-event-feed/internal/adapter"
	"github.com/feral-file/ff-event-feed/internal/domain"
	"github.com/feral-file/ff-event-feed/internal/grouping"
	"github.com/feral-file/ff-event-feed/internal/logger"
	"github.com/feral-file/ff-event-feed/internal/materializer"
	"github.com/feral-file/ff-event-feed/internal/store"
)

const (
	DEFAULT_BATCH_SIZE = 200
	DEFAULT_WORKERS    = 4
)

// DefaultBadYears is the year range the historical timestamp bug wrote into memberships
var DefaultBadYears = domain.YearRange{From: 1970, To: 1971}

// Options tunes a run
type Options struct {
	// DryRun reports the diff without writing anything, checkpoints included
	DryRun bool `json:"dry_run"`
	// BatchSize is the number of rows read per batch
	BatchSize int `json:"batch_size"`
	// Resume starts from the stored checkpoint instead of the beginning
	Resume bool `json:"resume"`
	// MaxBatches stops the run after this many batches, 0 for no limit
	MaxBatches int `json:"max_batches"`
	// BadYears is the corrupted year range of the repair job
	BadYears *domain.YearRange `json:"bad_years,omitempty"`
}

// Config holds the runner configuration
type Config struct {
	// Workers bounds the per-batch fan-out of the materialize and repair jobs
	Workers int
}

// Runner runs backfill jobs
//
//go:generate mockgen -source=runner.go -destination=../mocks/migration_runner.go -package=mocks -mock_names=Runner=MockMigrationRunner
type Runner interface {
	// RunBatch processes one batch after afterKey, empty for the beginning.
	// The returned report carries the key to continue from and whether the job is done.
	RunBatch(ctx context.Context, job Job, opts Options, afterKey string) (*Report, error)
	// Run processes batches until the job is done or MaxBatches is reached
	Run(ctx context.Context, job Job, opts Options) (*Report, error)
}

type runner struct {
	cfg          Config
	store        store.Store
	checkpoints  store.CheckpointStore
	resolver     grouping.Resolver
	materializer materializer.Materializer
	clock        adapter.Clock
	json         adapter.JSON
}

// NewRunner creates a new migration runner
func NewRunner(
	cfg Config,
	st store.Store,
	checkpoints store.CheckpointStore,
	resolver grouping.Resolver,
	mat materializer.Materializer,
	clock adapter.Clock,
	jsonAdapter adapter.JSON,
) Runner {
	if cfg.Workers <= 0 {
		cfg.Workers = DEFAULT_WORKERS
	}

	return &runner{
		cfg:          cfg,
		store:        st,
		checkpoints:  checkpoints,
		resolver:     resolver,
		materializer: mat,
		clock:        clock,
		json:         jsonAdapter,
	}
}

// batchRun carries state shared by the batches of one run
type batchRun struct {
	opts Options
	// overlay holds the groups a dry run assigned but did not write
	overlay map[string]string
}

func normalizeOptions(opts Options) Options {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DEFAULT_BATCH_SIZE
	}
	if opts.BadYears == nil {
		badYears := DefaultBadYears
		opts.BadYears = &badYears
	}
	return opts
}

// RunBatch processes one batch of a job
func (r *runner) RunBatch(ctx context.Context, job Job, opts Options, afterKey string) (*Report, error) {
	if !job.Valid() {
		return nil, fmt.Errorf("%w: unknown migration job %q", domain.ErrValidation, job)
	}

	opts = normalizeOptions(opts)
	run := &batchRun{opts: opts, overlay: make(map[string]string)}

	report, err := r.runBatch(ctx, job, run, afterKey)
	if err != nil {
		return nil, err
	}

	if !opts.DryRun {
		if err := r.checkpoint(ctx, job, report); err != nil {
			return nil, err
		}
	}

	return report, nil
}

// Run processes batches of a job until it is done
func (r *runner) Run(ctx context.Context, job Job, opts Options) (*Report, error) {
	if !job.Valid() {
		return nil, fmt.Errorf("%w: unknown migration job %q", domain.ErrValidation, job)
	}

	opts = normalizeOptions(opts)
	run := &batchRun{opts: opts, overlay: make(map[string]string)}

	afterKey := ""
	if opts.Resume {
		key, err := r.checkpoints.GetCheckpoint(ctx, string(job))
		if err != nil {
			return nil, err
		}
		afterKey = key
	}

	total := &Report{
		Job:              job,
		DryRun:           opts.DryRun,
		LastProcessedKey: afterKey,
		StartedAt:        r.clock.Now(),
	}

	logger.InfoCtx(ctx, "Starting migration job",
		zap.String("job", string(job)),
		zap.Bool("dryRun", opts.DryRun),
		zap.Int("batchSize", opts.BatchSize),
		zap.String("afterKey", afterKey))

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		batch, err := r.runBatch(ctx, job, run, total.LastProcessedKey)
		if err != nil {
			return nil, err
		}
		total.merge(batch)

		if !opts.DryRun {
			if err := r.checkpoint(ctx, job, batch); err != nil {
				return nil, err
			}
		}

		if batch.Done || (opts.MaxBatches > 0 && total.Batches >= opts.MaxBatches) {
			break
		}
	}

	total.FinishedAt = r.clock.Now()

	if !opts.DryRun {
		data, err := r.json.Marshal(total)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal report: %w", err)
		}
		if err := r.checkpoints.SaveReport(ctx, string(job), string(data)); err != nil {
			return nil, err
		}
	}

	logger.InfoCtx(ctx, "Finished migration job",
		zap.String("job", string(job)),
		zap.Int("batches", total.Batches),
		zap.Int("processed", total.Processed),
		zap.Int("changed", total.Changed),
		zap.Int("unchanged", total.Unchanged),
		zap.Int("skipped", total.Skipped),
		zap.Bool("done", total.Done))

	return total, nil
}

// checkpoint stores the position after a batch, clearing it once the job is done
func (r *runner) checkpoint(ctx context.Context, job Job, batch *Report) error {
	if batch.Done {
		return r.checkpoints.DeleteCheckpoint(ctx, string(job))
	}
	return r.checkpoints.SetCheckpoint(ctx, string(job), batch.LastProcessedKey)
}

func (r *runner) runBatch(ctx context.Context, job Job, run *batchRun, afterKey string) (*Report, error) {
	report := &Report{
		Job:       job,
		DryRun:    run.opts.DryRun,
		Batches:   1,
		StartedAt: r.clock.Now(),
	}

	var err error
	switch job {
	case JobAssignSimilarityGroups:
		err = r.assignSimilarityGroups(ctx, run, afterKey, report)
	case JobPropagateGroupIDs:
		err = r.propagateGroupIDs(ctx, run, afterKey, report)
	case JobMaterializeGroupedFeeds:
		err = r.materializeGroupedFeeds(ctx, run, afterKey, report)
	case JobRepairDenormalizedTimestamps:
		err = r.repairDenormalizedTimestamps(ctx, run, afterKey, report)
	}
	if err != nil {
		return nil, fmt.Errorf("migration job %s failed: %w", job, err)
	}

	report.FinishedAt = r.clock.Now()

	logger.DebugCtx(ctx, "Processed migration batch",
		zap.String("job", string(job)),
		zap.Int("processed", report.Processed),
		zap.Int("changed", report.Changed),
		zap.String("lastProcessedKey", report.LastProcessedKey),
		zap.Bool("done", report.Done))

	return report, nil
}

// encodeKey serializes a keyset position into a checkpoint string
func (r *runner) encodeKey(key interface{}) (string, error) {
	data, err := r.json.Marshal(key)
	if err != nil {
		return "", fmt.Errorf("failed to encode key: %w", err)
	}
	return string(data), nil
}

// decodeKey parses a checkpoint string, returning false for the beginning
func (r *runner) decodeKey(raw string, key interface{}) (bool, error) {
	if raw == "" {
		return false, nil
	}
	if err := r.json.Unmarshal([]byte(raw), key); err != nil {
		return false, fmt.Errorf("%w: malformed checkpoint key %q: %v", domain.ErrValidation, raw, err)
	}
	return true, nil
}
