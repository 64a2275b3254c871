package migration

import (
	"context"
	"fmt"
	"strconv"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/feral-file/ff-event-feed/internal/domain"
	"github.com/feral-file/ff-event-feed/internal/grouping"
	"github.com/feral-file/ff-event-feed/internal/logger"
	"github.com/feral-file/ff-event-feed/internal/store"
	"github.com/feral-file/ff-event-feed/internal/store/schema"
)

const (
	skipReasonEventMissing = "event no longer exists"
	skipReasonEventGroup   = "event has no similarity group"
)

// assignSimilarityGroups resolves groups for events without one, in creation order.
// Batches are processed sequentially so every decision only depends on earlier events.
func (r *runner) assignSimilarityGroups(ctx context.Context, run *batchRun, afterKey string, report *Report) error {
	var after store.EventKey
	hasAfter, err := r.decodeKey(afterKey, &after)
	if err != nil {
		return err
	}

	var afterPtr *store.EventKey
	if hasAfter {
		afterPtr = &after
	}

	events, err := r.store.ListEventsByCreation(ctx, afterPtr, run.opts.BatchSize)
	if err != nil {
		return err
	}

	for i := range events {
		event := &events[i]

		if event.GroupID() != "" {
			report.unchanged()
			continue
		}
		if groupID, ok := run.overlay[event.ID]; ok && groupID != "" {
			report.unchanged()
			continue
		}

		groupID, err := r.resolver.ResolveGroup(ctx, event, grouping.Options{
			Backfill: true,
			Overlay:  run.overlay,
		})
		if err != nil {
			return err
		}

		diff := Diff{Key: event.ID, Field: "similarity_group_id", After: groupID}

		if run.opts.DryRun {
			run.overlay[event.ID] = groupID
			report.changed(diff)
			continue
		}

		assigned, err := r.store.AssignSimilarityGroup(ctx, event.ID, groupID)
		if err != nil {
			return err
		}
		if !assigned {
			// A live write or a concurrent run got there first
			report.unchanged()
			continue
		}
		report.changed(diff)
	}

	if len(events) > 0 {
		last := events[len(events)-1]
		key, err := r.encodeKey(store.EventKey{CreatedAt: last.CreatedAt, ID: last.ID})
		if err != nil {
			return err
		}
		report.LastProcessedKey = key
	}
	report.Done = len(events) < run.opts.BatchSize

	return nil
}

// propagateGroupIDs copies the group of each event onto its memberships that have none,
// then rematerializes the pair
func (r *runner) propagateGroupIDs(ctx context.Context, run *batchRun, afterKey string, report *Report) error {
	var after store.MembershipKey
	hasAfter, err := r.decodeKey(afterKey, &after)
	if err != nil {
		return err
	}

	var afterPtr *store.MembershipKey
	if hasAfter {
		afterPtr = &after
	}

	memberships, err := r.store.GetMembershipsMissingGroup(ctx, afterPtr, run.opts.BatchSize)
	if err != nil {
		return err
	}

	events, err := r.eventsOf(ctx, memberships)
	if err != nil {
		return err
	}

	for _, m := range memberships {
		key := membershipKey(m)

		event, ok := events[m.EventID]
		if !ok {
			report.skipped(key, skipReasonEventMissing)
			continue
		}

		groupID := event.GroupID()
		if groupID == "" {
			groupID = run.overlay[event.ID]
		}
		if groupID == "" {
			report.skipped(key, skipReasonEventGroup)
			continue
		}

		diff := Diff{Key: key, Field: "similarity_group_id", After: groupID}

		if run.opts.DryRun {
			report.changed(diff)
			continue
		}

		set, err := r.store.SetMembershipGroup(ctx, m.FeedID, m.EventID, groupID)
		if err != nil {
			return err
		}
		if !set {
			report.unchanged()
			continue
		}

		if _, err := r.materializer.Upsert(ctx, r.store, m.FeedID, groupID); err != nil {
			return err
		}
		report.changed(diff)
	}

	if len(memberships) > 0 {
		last := memberships[len(memberships)-1]
		key, err := r.encodeKey(store.MembershipKey{FeedID: last.FeedID, EventID: last.EventID})
		if err != nil {
			return err
		}
		report.LastProcessedKey = key
	}
	report.Done = len(memberships) < run.opts.BatchSize

	return nil
}

// materializeGroupedFeeds recomputes the grouped entry of every (feed, group) pair
func (r *runner) materializeGroupedFeeds(ctx context.Context, run *batchRun, afterKey string, report *Report) error {
	var after store.FeedGroupKey
	hasAfter, err := r.decodeKey(afterKey, &after)
	if err != nil {
		return err
	}

	var afterPtr *store.FeedGroupKey
	if hasAfter {
		afterPtr = &after
	}

	pairs, err := r.store.ListFeedGroupPairs(ctx, afterPtr, run.opts.BatchSize)
	if err != nil {
		return err
	}

	pool := pond.NewPool(r.cfg.Workers, pond.WithContext(ctx))
	defer pool.StopAndWait()

	group := pool.NewGroup()
	for _, pair := range pairs {
		group.SubmitErr(func() error {
			return r.materializePair(ctx, run, pair, report)
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}

	if len(pairs) > 0 {
		key, err := r.encodeKey(pairs[len(pairs)-1])
		if err != nil {
			return err
		}
		report.LastProcessedKey = key
	}
	report.Done = len(pairs) < run.opts.BatchSize

	return nil
}

func (r *runner) materializePair(ctx context.Context, run *batchRun, pair store.FeedGroupKey, report *Report) error {
	current, err := r.store.GetGroupedFeedEntry(ctx, pair.FeedID, pair.SimilarityGroupID)
	if err != nil {
		return err
	}

	computed, err := r.materializer.Compute(ctx, r.store, pair.FeedID, pair.SimilarityGroupID)
	if err != nil {
		return err
	}

	diffs := entryDiffs(pairKey(pair), current, computed)
	if len(diffs) == 0 {
		report.unchanged()
		return nil
	}

	if !run.opts.DryRun {
		if _, err := r.materializer.Upsert(ctx, r.store, pair.FeedID, pair.SimilarityGroupID); err != nil {
			return err
		}
	}
	report.changed(diffs...)
	return nil
}

// repairDenormalizedTimestamps patches memberships whose timing landed in the bad year range
// with the timing of their event, then rematerializes the pair
func (r *runner) repairDenormalizedTimestamps(ctx context.Context, run *batchRun, afterKey string, report *Report) error {
	var after store.MembershipKey
	hasAfter, err := r.decodeKey(afterKey, &after)
	if err != nil {
		return err
	}

	var afterPtr *store.MembershipKey
	if hasAfter {
		afterPtr = &after
	}

	from, to := run.opts.BadYears.MillisBounds()
	memberships, err := r.store.GetMembershipsWithTimestampsInRange(ctx, from, to, afterPtr, run.opts.BatchSize)
	if err != nil {
		return err
	}

	events, err := r.eventsOf(ctx, memberships)
	if err != nil {
		return err
	}

	pool := pond.NewPool(r.cfg.Workers, pond.WithContext(ctx))
	defer pool.StopAndWait()

	group := pool.NewGroup()
	for _, m := range memberships {
		group.SubmitErr(func() error {
			return r.repairMembership(ctx, run, m, events[m.EventID], report)
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}

	if len(memberships) > 0 {
		last := memberships[len(memberships)-1]
		key, err := r.encodeKey(store.MembershipKey{FeedID: last.FeedID, EventID: last.EventID})
		if err != nil {
			return err
		}
		report.LastProcessedKey = key
	}
	report.Done = len(memberships) < run.opts.BatchSize

	return nil
}

func (r *runner) repairMembership(ctx context.Context, run *batchRun, m schema.FeedMembership, event *schema.Event, report *Report) error {
	key := membershipKey(m)
	if event == nil {
		report.skipped(key, skipReasonEventMissing)
		return nil
	}

	timing := domain.NewEventTiming(event.StartDateTime, event.EndDateTime)
	if timing.StartMillis() == m.EventStartTime && timing.EndMillis() == m.EventEndTime {
		// The event itself is in the bad range
		report.unchanged()
		return nil
	}

	diffs := []Diff{
		{Key: key, Field: "event_start_time", Before: millis(m.EventStartTime), After: millis(timing.StartMillis())},
		{Key: key, Field: "event_end_time", Before: millis(m.EventEndTime), After: millis(timing.EndMillis())},
	}

	if run.opts.DryRun {
		report.changed(diffs...)
		return nil
	}

	now := r.clock.Now()
	err := r.store.UpdateMembershipTiming(ctx, m.FeedID, m.EventID, timing.StartMillis(), timing.EndMillis(), timing.HasEnded(now))
	if err != nil {
		return err
	}

	groupID := m.GroupID()
	if groupID == "" {
		groupID = event.GroupID()
	}
	if groupID != "" {
		if _, err := r.materializer.Upsert(ctx, r.store, m.FeedID, groupID); err != nil {
			return err
		}
	} else {
		logger.WarnCtx(ctx, "Repaired membership has no similarity group to rematerialize",
			zap.String("feedID", m.FeedID),
			zap.String("eventID", m.EventID))
	}

	report.changed(diffs...)
	return nil
}

// eventsOf loads the events of a batch of memberships keyed by ID
func (r *runner) eventsOf(ctx context.Context, memberships []schema.FeedMembership) (map[string]*schema.Event, error) {
	ids := make([]string, 0, len(memberships))
	for _, m := range memberships {
		ids = append(ids, m.EventID)
	}

	events, err := r.store.GetEventsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*schema.Event, len(events))
	for i := range events {
		byID[events[i].ID] = &events[i]
	}
	return byID, nil
}

// entryDiffs compares a stored grouped entry with its recomputation
func entryDiffs(key string, current, computed *schema.GroupedFeedEntry) []Diff {
	switch {
	case current == nil && computed == nil:
		return nil
	case current == nil:
		return []Diff{{Key: key, Field: "entry", Before: "", After: computed.PrimaryEventID}}
	case computed == nil:
		return []Diff{{Key: key, Field: "entry", Before: current.PrimaryEventID, After: ""}}
	}

	var diffs []Diff
	add := func(field, before, after string) {
		if before != after {
			diffs = append(diffs, Diff{Key: key, Field: field, Before: before, After: after})
		}
	}
	add("primary_event_id", current.PrimaryEventID, computed.PrimaryEventID)
	add("event_start_time", millis(current.EventStartTime), millis(computed.EventStartTime))
	add("event_end_time", millis(current.EventEndTime), millis(computed.EventEndTime))
	add("added_at", millis(current.AddedAt.UnixMilli()), millis(computed.AddedAt.UnixMilli()))
	add("has_ended", strconv.FormatBool(current.HasEnded), strconv.FormatBool(computed.HasEnded))
	add("similar_events_count", strconv.Itoa(current.SimilarEventsCount), strconv.Itoa(computed.SimilarEventsCount))
	return diffs
}

func membershipKey(m schema.FeedMembership) string {
	return fmt.Sprintf("%s/%s", m.FeedID, m.EventID)
}

func pairKey(pair store.FeedGroupKey) string {
	return fmt.Sprintf("%s/%s", pair.FeedID, pair.SimilarityGroupID)
}

func millis(ms int64) string {
	return strconv.FormatInt(ms, 10)
}
