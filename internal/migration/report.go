package migration

import (
	"sync"
	"time"
)

// Job names a backfill job
type Job string

const (
	// JobAssignSimilarityGroups assigns groups to historical events in creation order
	JobAssignSimilarityGroups Job = "assign-similarity-groups"
	// JobPropagateGroupIDs copies event groups onto memberships that have none
	JobPropagateGroupIDs Job = "propagate-group-ids"
	// JobMaterializeGroupedFeeds derives every grouped feed entry from memberships
	JobMaterializeGroupedFeeds Job = "materialize-grouped-feeds"
	// JobRepairDenormalizedTimestamps patches membership timing that landed in a known-bad year range
	JobRepairDenormalizedTimestamps Job = "repair-denormalized-timestamps"
)

// Jobs lists every job in the order they should run on a fresh deployment
var Jobs = []Job{
	JobAssignSimilarityGroups,
	JobPropagateGroupIDs,
	JobRepairDenormalizedTimestamps,
	JobMaterializeGroupedFeeds,
}

// Valid checks whether the job is known
func (j Job) Valid() bool {
	for _, job := range Jobs {
		if j == job {
			return true
		}
	}
	return false
}

// Diff is one change a job applied, or would apply in a dry run
type Diff struct {
	Key    string `json:"key"`
	Field  string `json:"field"`
	Before string `json:"before"`
	After  string `json:"after"`
}

// SkippedRow is a row a job could not process
type SkippedRow struct {
	Key    string `json:"key"`
	Reason string `json:"reason"`
}

// Report summarizes one or more batches of a job
type Report struct {
	Job              Job          `json:"job"`
	DryRun           bool         `json:"dry_run"`
	Batches          int          `json:"batches"`
	Processed        int          `json:"processed"`
	Changed          int          `json:"changed"`
	Unchanged        int          `json:"unchanged"`
	Skipped          int          `json:"skipped"`
	Diffs            []Diff       `json:"diffs,omitempty"`
	SkippedRows      []SkippedRow `json:"skipped_rows,omitempty"`
	LastProcessedKey string       `json:"last_processed_key,omitempty"`
	Done             bool         `json:"done"`
	StartedAt        time.Time    `json:"started_at"`
	FinishedAt       time.Time    `json:"finished_at"`

	mu sync.Mutex
}

func (r *Report) changed(diffs ...Diff) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Processed++
	r.Changed++
	r.Diffs = append(r.Diffs, diffs...)
}

func (r *Report) unchanged() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Processed++
	r.Unchanged++
}

func (r *Report) skipped(key, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Processed++
	r.Skipped++
	r.SkippedRows = append(r.SkippedRows, SkippedRow{Key: key, Reason: reason})
}

// merge folds a batch report into a run report
func (r *Report) merge(batch *Report) {
	r.Batches += batch.Batches
	r.Processed += batch.Processed
	r.Changed += batch.Changed
	r.Unchanged += batch.Unchanged
	r.Skipped += batch.Skipped
	r.Diffs = append(r.Diffs, batch.Diffs...)
	r.SkippedRows = append(r.SkippedRows, batch.SkippedRows...)
	if batch.LastProcessedKey != "" {
		r.LastProcessedKey = batch.LastProcessedKey
	}
	r.Done = batch.Done
}
