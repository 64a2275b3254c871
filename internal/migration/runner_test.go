package migration_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/feral-file/ff-event-feed/internal/adapter"
	"github.com/feral-file/ff-event-feed/internal/domain"
	"github.com/feral-file/ff-event-feed/internal/grouping"
	"github.com/feral-file/ff-event-feed/internal/logger"
	"github.com/feral-file/ff-event-feed/internal/materializer"
	"github.com/feral-file/ff-event-feed/internal/migration"
	"github.com/feral-file/ff-event-feed/internal/mocks"
	"github.com/feral-file/ff-event-feed/internal/store"
	"github.com/feral-file/ff-event-feed/internal/store/schema"
	"github.com/feral-file/ff-event-feed/internal/testutil/pgtest"
)

var testDB *pgtest.Database

func TestMain(m *testing.M) {
	pgtest.Run(m, &testDB)
}

var (
	now     = time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	concert = now.Add(10 * 24 * time.Hour)
)

type fixture struct {
	ctx         context.Context
	db          *gorm.DB
	store       store.Store
	checkpoints store.CheckpointStore
	runner      migration.Runner
}

func setupFixture(t *testing.T) *fixture {
	if err := logger.Initialize(logger.Config{Debug: true}); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	ctrl := gomock.NewController(t)
	clock := mocks.NewMockClock(ctrl)
	clock.EXPECT().Now().Return(now).AnyTimes()

	tx := testDB.BeginTx(t)
	st := store.NewPGStore(tx)
	checkpoints := store.NewCheckpointStore(tx)

	return &fixture{
		ctx:         context.Background(),
		db:          tx,
		store:       st,
		checkpoints: checkpoints,
		runner: migration.NewRunner(
			migration.Config{Workers: 1},
			st,
			checkpoints,
			grouping.NewResolver(st, clock),
			materializer.New(clock),
			clock,
			adapter.NewJSON(),
		),
	}
}

func (f *fixture) createEvent(t *testing.T, id, name string, createdAt time.Time, similarTo string) {
	event := &schema.Event{
		ID:            id,
		UserID:        "u_" + id,
		Name:          name,
		Description:   name + " live",
		Location:      name + " arena",
		StartDateTime: concert,
		EndDateTime:   concert.Add(2 * time.Hour),
		Visibility:    schema.VisibilityPublic,
		CreatedAt:     createdAt,
	}
	if similarTo != "" {
		event.SimilarToEventID = &similarTo
	}
	require.NoError(t, f.store.CreateEvent(f.ctx, event))
}

// seedLegacyEvents creates two clusters of historical events without groups.
// "late" points at "jazz" through the legacy forwarding pointer but shares none of its words.
func (f *fixture) seedLegacyEvents(t *testing.T) {
	f.createEvent(t, "rock1", "rock night", now.Add(-5*time.Hour), "")
	f.createEvent(t, "rock2", "rock night", now.Add(-4*time.Hour), "")
	f.createEvent(t, "jazz", "jazz evening", now.Add(-3*time.Hour), "")
	f.createEvent(t, "rock3", "rock night", now.Add(-2*time.Hour), "")
	f.createEvent(t, "late", "poetry slam", now.Add(-time.Hour), "jazz")
}

func (f *fixture) groups(t *testing.T) map[string]string {
	var events []schema.Event
	require.NoError(t, f.db.Order("id").Find(&events).Error)

	groups := make(map[string]string, len(events))
	for _, e := range events {
		groups[e.ID] = e.GroupID()
	}
	return groups
}

func TestAssignSimilarityGroups_DeterministicAndIdempotent(t *testing.T) {
	f := setupFixture(t)
	f.seedLegacyEvents(t)

	expected := map[string]string{
		"rock1": "sg_rock1",
		"rock2": "sg_rock1",
		"jazz":  "sg_jazz",
		"rock3": "sg_rock1",
		"late":  "sg_jazz",
	}

	report, err := f.runner.Run(f.ctx, migration.JobAssignSimilarityGroups, migration.Options{BatchSize: 2})
	require.NoError(t, err)
	assert.True(t, report.Done)
	assert.Equal(t, 3, report.Batches)
	assert.Equal(t, 5, report.Processed)
	assert.Equal(t, 5, report.Changed)
	assert.Equal(t, expected, f.groups(t))

	// A second pass over the assigned dataset changes nothing
	report, err = f.runner.Run(f.ctx, migration.JobAssignSimilarityGroups, migration.Options{BatchSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 0, report.Changed)
	assert.Equal(t, 5, report.Unchanged)
	assert.Equal(t, expected, f.groups(t))

	// Replaying from scratch yields the same assignments
	require.NoError(t, f.db.Exec("UPDATE events SET similarity_group_id = NULL").Error)
	_, err = f.runner.Run(f.ctx, migration.JobAssignSimilarityGroups, migration.Options{BatchSize: 3})
	require.NoError(t, err)
	assert.Equal(t, expected, f.groups(t))
}

func TestAssignSimilarityGroups_DryRunMatchesRealRun(t *testing.T) {
	f := setupFixture(t)
	f.seedLegacyEvents(t)

	report, err := f.runner.Run(f.ctx, migration.JobAssignSimilarityGroups, migration.Options{DryRun: true, BatchSize: 2})
	require.NoError(t, err)
	assert.True(t, report.DryRun)
	assert.Equal(t, 5, report.Changed)

	planned := make(map[string]string)
	for _, diff := range report.Diffs {
		planned[diff.Key] = diff.After
	}
	assert.Equal(t, map[string]string{
		"rock1": "sg_rock1",
		"rock2": "sg_rock1",
		"jazz":  "sg_jazz",
		"rock3": "sg_rock1",
		"late":  "sg_jazz",
	}, planned)

	// Nothing was written, checkpoints and reports included
	for _, group := range f.groups(t) {
		assert.Empty(t, group)
	}
	checkpoint, err := f.checkpoints.GetCheckpoint(f.ctx, string(migration.JobAssignSimilarityGroups))
	require.NoError(t, err)
	assert.Empty(t, checkpoint)
	saved, err := f.checkpoints.GetReport(f.ctx, string(migration.JobAssignSimilarityGroups))
	require.NoError(t, err)
	assert.Empty(t, saved)
}

func TestAssignSimilarityGroups_KeepsLiveAssignment(t *testing.T) {
	f := setupFixture(t)
	f.createEvent(t, "rock1", "rock night", now.Add(-2*time.Hour), "")
	f.createEvent(t, "rock2", "rock night", now.Add(-time.Hour), "")

	assigned, err := f.store.AssignSimilarityGroup(f.ctx, "rock2", "sg_live")
	require.NoError(t, err)
	require.True(t, assigned)

	report, err := f.runner.Run(f.ctx, migration.JobAssignSimilarityGroups, migration.Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Changed)
	assert.Equal(t, 1, report.Unchanged)
	assert.Equal(t, map[string]string{"rock1": "sg_rock1", "rock2": "sg_live"}, f.groups(t))
}

func TestRun_ResumesFromCheckpoint(t *testing.T) {
	f := setupFixture(t)
	f.seedLegacyEvents(t)
	job := migration.JobAssignSimilarityGroups

	report, err := f.runner.Run(f.ctx, job, migration.Options{BatchSize: 2, MaxBatches: 1})
	require.NoError(t, err)
	assert.False(t, report.Done)
	assert.Equal(t, 2, report.Processed)

	checkpoint, err := f.checkpoints.GetCheckpoint(f.ctx, string(job))
	require.NoError(t, err)
	assert.Equal(t, report.LastProcessedKey, checkpoint)

	var key store.EventKey
	require.NoError(t, json.Unmarshal([]byte(checkpoint), &key))
	assert.Equal(t, "rock2", key.ID)

	report, err = f.runner.Run(f.ctx, job, migration.Options{BatchSize: 2, Resume: true})
	require.NoError(t, err)
	assert.True(t, report.Done)
	assert.Equal(t, 3, report.Processed)
	assert.Equal(t, 3, report.Changed)

	checkpoint, err = f.checkpoints.GetCheckpoint(f.ctx, string(job))
	require.NoError(t, err)
	assert.Empty(t, checkpoint)

	saved, err := f.checkpoints.GetReport(f.ctx, string(job))
	require.NoError(t, err)
	var savedReport migration.Report
	require.NoError(t, json.Unmarshal([]byte(saved), &savedReport))
	assert.True(t, savedReport.Done)
	assert.Equal(t, 3, savedReport.Changed)
}

func TestRunBatch_ContinuesFromKey(t *testing.T) {
	f := setupFixture(t)
	f.seedLegacyEvents(t)
	job := migration.JobAssignSimilarityGroups

	first, err := f.runner.RunBatch(f.ctx, job, migration.Options{BatchSize: 3}, "")
	require.NoError(t, err)
	assert.False(t, first.Done)
	assert.Equal(t, 3, first.Processed)

	second, err := f.runner.RunBatch(f.ctx, job, migration.Options{BatchSize: 3}, first.LastProcessedKey)
	require.NoError(t, err)
	assert.True(t, second.Done)
	assert.Equal(t, 2, second.Processed)

	_, err = f.runner.RunBatch(f.ctx, job, migration.Options{}, "not json")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestPropagateGroupIDs(t *testing.T) {
	f := setupFixture(t)
	f.createEvent(t, "rock1", "rock night", now.Add(-2*time.Hour), "")
	f.createEvent(t, "jazz", "jazz evening", now.Add(-time.Hour), "")
	_, err := f.store.AssignSimilarityGroup(f.ctx, "rock1", "sg_rock1")
	require.NoError(t, err)

	for _, m := range []schema.FeedMembership{
		{FeedID: "discover", EventID: "rock1", AddedAt: now},
		{FeedID: "discover", EventID: "jazz", AddedAt: now},
		{FeedID: "discover", EventID: "ghost", AddedAt: now},
	} {
		m.EventStartTime = concert.UnixMilli()
		m.EventEndTime = concert.Add(2 * time.Hour).UnixMilli()
		require.NoError(t, f.store.UpsertFeedMembership(f.ctx, &m))
	}

	dry, err := f.runner.Run(f.ctx, migration.JobPropagateGroupIDs, migration.Options{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, 1, dry.Changed)
	assert.Equal(t, 2, dry.Skipped)
	entry, err := f.store.GetGroupedFeedEntry(f.ctx, "discover", "sg_rock1")
	require.NoError(t, err)
	assert.Nil(t, entry)

	report, err := f.runner.Run(f.ctx, migration.JobPropagateGroupIDs, migration.Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Changed)
	assert.Equal(t, 2, report.Skipped)
	assert.ElementsMatch(t, []migration.SkippedRow{
		{Key: "discover/ghost", Reason: "event no longer exists"},
		{Key: "discover/jazz", Reason: "event has no similarity group"},
	}, report.SkippedRows)

	m, err := f.store.GetFeedMembership(f.ctx, "discover", "rock1")
	require.NoError(t, err)
	assert.Equal(t, "sg_rock1", m.GroupID())

	entry, err = f.store.GetGroupedFeedEntry(f.ctx, "discover", "sg_rock1")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "rock1", entry.PrimaryEventID)
}

func TestMaterializeGroupedFeeds(t *testing.T) {
	f := setupFixture(t)
	f.createEvent(t, "rock1", "rock night", now.Add(-2*time.Hour), "")
	f.createEvent(t, "rock2", "rock night", now.Add(-time.Hour), "")

	group := "sg_rock1"
	for _, id := range []string{"rock1", "rock2"} {
		_, err := f.store.AssignSimilarityGroup(f.ctx, id, group)
		require.NoError(t, err)
		for _, feedID := range []string{"discover", "list_weekend"} {
			require.NoError(t, f.store.UpsertFeedMembership(f.ctx, &schema.FeedMembership{
				FeedID:            feedID,
				EventID:           id,
				SimilarityGroupID: &group,
				EventStartTime:    concert.UnixMilli(),
				EventEndTime:      concert.Add(2 * time.Hour).UnixMilli(),
				AddedAt:           now,
			}))
		}
	}

	dry, err := f.runner.Run(f.ctx, migration.JobMaterializeGroupedFeeds, migration.Options{DryRun: true, BatchSize: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, dry.Changed)
	assert.Len(t, dry.Diffs, 2)
	entry, err := f.store.GetGroupedFeedEntry(f.ctx, "discover", group)
	require.NoError(t, err)
	assert.Nil(t, entry)

	report, err := f.runner.Run(f.ctx, migration.JobMaterializeGroupedFeeds, migration.Options{BatchSize: 1})
	require.NoError(t, err)
	assert.True(t, report.Done)
	assert.Equal(t, 2, report.Changed)

	for _, feedID := range []string{"discover", "list_weekend"} {
		entry, err := f.store.GetGroupedFeedEntry(f.ctx, feedID, group)
		require.NoError(t, err)
		require.NotNil(t, entry)
		assert.Equal(t, "rock1", entry.PrimaryEventID)
		assert.Equal(t, 1, entry.SimilarEventsCount)
	}

	report, err = f.runner.Run(f.ctx, migration.JobMaterializeGroupedFeeds, migration.Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, report.Changed)
	assert.Equal(t, 2, report.Unchanged)
}

func TestRepairDenormalizedTimestamps(t *testing.T) {
	f := setupFixture(t)
	f.createEvent(t, "rock1", "rock night", now.Add(-2*time.Hour), "")
	group := "sg_rock1"
	_, err := f.store.AssignSimilarityGroup(f.ctx, "rock1", group)
	require.NoError(t, err)

	// Seconds stored where millis were expected land in January 1970
	require.NoError(t, f.store.UpsertFeedMembership(f.ctx, &schema.FeedMembership{
		FeedID:            "discover",
		EventID:           "rock1",
		SimilarityGroupID: &group,
		EventStartTime:    concert.Unix(),
		EventEndTime:      concert.Add(2 * time.Hour).Unix(),
		AddedAt:           now,
	}))
	require.NoError(t, f.store.UpsertFeedMembership(f.ctx, &schema.FeedMembership{
		FeedID:         "discover",
		EventID:        "ghost",
		EventStartTime: 1000,
		EventEndTime:   2000,
		AddedAt:        now,
	}))

	dry, err := f.runner.Run(f.ctx, migration.JobRepairDenormalizedTimestamps, migration.Options{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, 1, dry.Changed)
	assert.Equal(t, 1, dry.Skipped)
	assert.Len(t, dry.Diffs, 2)

	m, err := f.store.GetFeedMembership(f.ctx, "discover", "rock1")
	require.NoError(t, err)
	assert.Equal(t, concert.Unix(), m.EventStartTime)

	report, err := f.runner.Run(f.ctx, migration.JobRepairDenormalizedTimestamps, migration.Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Changed)
	assert.Equal(t, []migration.SkippedRow{{Key: "discover/ghost", Reason: "event no longer exists"}}, report.SkippedRows)

	m, err = f.store.GetFeedMembership(f.ctx, "discover", "rock1")
	require.NoError(t, err)
	assert.Equal(t, concert.UnixMilli(), m.EventStartTime)
	assert.Equal(t, concert.Add(2*time.Hour).UnixMilli(), m.EventEndTime)
	assert.False(t, m.HasEnded)

	entry, err := f.store.GetGroupedFeedEntry(f.ctx, "discover", group)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, concert.UnixMilli(), entry.EventStartTime)

	// Only the unrepairable row is left in the bad range
	report, err = f.runner.Run(f.ctx, migration.JobRepairDenormalizedTimestamps, migration.Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, report.Changed)
	assert.Equal(t, 1, report.Skipped)
}

func TestRun_UnknownJob(t *testing.T) {
	f := setupFixture(t)

	_, err := f.runner.Run(f.ctx, migration.Job("drop-everything"), migration.Options{})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.runner.RunBatch(f.ctx, migration.Job("drop-everything"), migration.Options{}, "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}
