package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/feral-file/ff-event-feed/internal/domain"
	"github.com/feral-file/ff-event-feed/internal/store/schema"
)

// =============================================================================
// Test Data Builders
// =============================================================================

var testBaseTime = time.Date(2026, 6, 1, 18, 0, 0, 0, time.UTC)

func strPtr(s string) *string {
	return &s
}

// buildTestEvent creates a test event starting offset after the base time and lasting two hours
func buildTestEvent(id, userID string, offset time.Duration, createdAt time.Time) *schema.Event {
	start := testBaseTime.Add(offset)
	return &schema.Event{
		ID:            id,
		UserID:        userID,
		Name:          "Jazz night " + id,
		Description:   "Live jazz",
		Location:      "Blue Note",
		StartDateTime: start,
		EndDateTime:   start.Add(2 * time.Hour),
		Visibility:    schema.VisibilityPublic,
		CreatedAt:     createdAt,
	}
}

// buildTestMembership creates a membership from an event
func buildTestMembership(feedID string, event *schema.Event, addedAt time.Time) *schema.FeedMembership {
	return &schema.FeedMembership{
		FeedID:            feedID,
		EventID:           event.ID,
		SimilarityGroupID: event.SimilarityGroupID,
		EventStartTime:    event.StartDateTime.UnixMilli(),
		EventEndTime:      event.EndDateTime.UnixMilli(),
		AddedAt:           addedAt,
	}
}

func buildTestEntry(feedID, groupID, primaryID string, startMillis int64) *schema.GroupedFeedEntry {
	return &schema.GroupedFeedEntry{
		FeedID:            feedID,
		SimilarityGroupID: groupID,
		PrimaryEventID:    primaryID,
		EventStartTime:    startMillis,
		EventEndTime:      startMillis + time.Hour.Milliseconds(),
		AddedAt:           testBaseTime,
	}
}

// =============================================================================
// Test: Events
// =============================================================================

func testEvents(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("create and get event", func(t *testing.T) {
		event := buildTestEvent("evt_create", "u1", 0, testBaseTime)
		event.Metadata = datatypes.JSON(`{"kind":"text","text":{"raw_text":"jazz"}}`)
		require.NoError(t, store.CreateEvent(ctx, event))

		got, err := store.GetEventByID(ctx, "evt_create")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "u1", got.UserID)
		assert.True(t, got.StartDateTime.Equal(event.StartDateTime))
		assert.Nil(t, got.SimilarityGroupID)
		assert.JSONEq(t, `{"kind":"text","text":{"raw_text":"jazz"}}`, string(got.Metadata))
	})

	t.Run("duplicate event id", func(t *testing.T) {
		event := buildTestEvent("evt_dup", "u1", 0, testBaseTime)
		require.NoError(t, store.CreateEvent(ctx, event))

		err := store.CreateEvent(ctx, buildTestEvent("evt_dup", "u2", 0, testBaseTime))
		assert.ErrorIs(t, err, domain.ErrEventAlreadyExists)
	})

	t.Run("get missing event returns nil", func(t *testing.T) {
		got, err := store.GetEventByID(ctx, "evt_missing")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("get events by IDs skips missing", func(t *testing.T) {
		require.NoError(t, store.CreateEvent(ctx, buildTestEvent("evt_ids_1", "u1", 0, testBaseTime)))
		require.NoError(t, store.CreateEvent(ctx, buildTestEvent("evt_ids_2", "u1", 0, testBaseTime)))

		events, err := store.GetEventsByIDs(ctx, []string{"evt_ids_1", "evt_ids_2", "evt_ids_missing"})
		require.NoError(t, err)
		assert.Len(t, events, 2)

		events, err = store.GetEventsByIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, events)
	})

	t.Run("update details and visibility", func(t *testing.T) {
		require.NoError(t, store.CreateEvent(ctx, buildTestEvent("evt_update", "u1", 0, testBaseTime)))

		newStart := testBaseTime.Add(24 * time.Hour)
		err := store.UpdateEventDetails(ctx, "evt_update", UpdateEventDetailsInput{
			Name:          "Renamed",
			Description:   "New description",
			Location:      "Elsewhere",
			StartDateTime: newStart,
			EndDateTime:   newStart.Add(time.Hour),
		})
		require.NoError(t, err)
		require.NoError(t, store.SetEventVisibility(ctx, "evt_update", schema.VisibilityPrivate))

		got, err := store.GetEventByID(ctx, "evt_update")
		require.NoError(t, err)
		assert.Equal(t, "Renamed", got.Name)
		assert.True(t, got.StartDateTime.Equal(newStart))
		assert.Equal(t, schema.VisibilityPrivate, got.Visibility)
	})

	t.Run("assign similarity group is compare-and-set", func(t *testing.T) {
		require.NoError(t, store.CreateEvent(ctx, buildTestEvent("evt_cas", "u1", 0, testBaseTime)))

		ok, err := store.AssignSimilarityGroup(ctx, "evt_cas", "sg_first")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = store.AssignSimilarityGroup(ctx, "evt_cas", "sg_second")
		require.NoError(t, err)
		assert.False(t, ok)

		got, err := store.GetEventByID(ctx, "evt_cas")
		require.NoError(t, err)
		assert.Equal(t, "sg_first", got.GroupID())

		ok, err = store.AssignSimilarityGroup(ctx, "evt_cas_missing", "sg_x")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("delete event", func(t *testing.T) {
		require.NoError(t, store.CreateEvent(ctx, buildTestEvent("evt_delete", "u1", 0, testBaseTime)))
		require.NoError(t, store.DeleteEvent(ctx, "evt_delete"))

		got, err := store.GetEventByID(ctx, "evt_delete")
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func testEventWindows(t *testing.T, store Store) {
	ctx := context.Background()

	// Far from the base time so other tests do not interfere
	offset := 1000 * 24 * time.Hour
	require.NoError(t, store.CreateEvent(ctx, buildTestEvent("win_c", "u1", offset, testBaseTime.Add(3*time.Minute))))
	require.NoError(t, store.CreateEvent(ctx, buildTestEvent("win_a", "u1", offset+30*time.Minute, testBaseTime.Add(time.Minute))))
	require.NoError(t, store.CreateEvent(ctx, buildTestEvent("win_b", "u1", offset-60*time.Minute, testBaseTime.Add(time.Minute))))
	require.NoError(t, store.CreateEvent(ctx, buildTestEvent("win_d", "u1", offset, testBaseTime.Add(2*time.Minute))))
	require.NoError(t, store.CreateEvent(ctx, buildTestEvent("win_far", "u1", offset+3*time.Hour, testBaseTime)))

	t.Run("window is inclusive and ordered by start then creation", func(t *testing.T) {
		center := testBaseTime.Add(offset)
		events, err := store.GetEventsStartingBetween(ctx, center.Add(-time.Hour), center.Add(time.Hour))
		require.NoError(t, err)

		ids := make([]string, 0, len(events))
		for _, e := range events {
			ids = append(ids, e.ID)
		}
		assert.Equal(t, []string{"win_b", "win_d", "win_c", "win_a"}, ids)
	})

	t.Run("list events by creation pages with keyset", func(t *testing.T) {
		var seen []string
		var after *EventKey
		for {
			events, err := store.ListEventsByCreation(ctx, after, 2)
			require.NoError(t, err)
			if len(events) == 0 {
				break
			}
			for _, e := range events {
				seen = append(seen, e.ID)
			}
			last := events[len(events)-1]
			after = &EventKey{CreatedAt: last.CreatedAt, ID: last.ID}
		}

		idx := func(id string) int {
			for i, s := range seen {
				if s == id {
					return i
				}
			}
			return -1
		}
		assert.Less(t, idx("win_far"), idx("win_a"))
		assert.Less(t, idx("win_a"), idx("win_b"))
		assert.Less(t, idx("win_b"), idx("win_d"))
		assert.Less(t, idx("win_d"), idx("win_c"))
	})
}

// =============================================================================
// Test: Users
// =============================================================================

func testUsers(t *testing.T, store Store) {
	ctx := context.Background()

	require.NoError(t, store.UpsertUser(ctx, &schema.User{ID: "user_a", Username: "alice", DisplayName: "Alice"}))
	require.NoError(t, store.UpsertUser(ctx, &schema.User{ID: "user_a", Username: "alice", DisplayName: "Alice B", PublicFeed: true}))
	require.NoError(t, store.UpsertUser(ctx, &schema.User{ID: "user_b", Username: "bob"}))

	user, err := store.GetUserByID(ctx, "user_a")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "Alice B", user.DisplayName)
	assert.True(t, user.PublicFeed)

	users, err := store.GetUsersByIDs(ctx, []string{"user_a", "user_b", "user_c"})
	require.NoError(t, err)
	assert.Len(t, users, 2)

	missing, err := store.GetUserByID(ctx, "user_c")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

// =============================================================================
// Test: Feed memberships
// =============================================================================

func testFeedMemberships(t *testing.T, store Store) {
	ctx := context.Background()

	event := buildTestEvent("mem_evt", "u1", 0, testBaseTime)
	event.SimilarityGroupID = strPtr("sg_mem")
	require.NoError(t, store.CreateEvent(ctx, event))

	t.Run("re-adding keeps earliest added_at", func(t *testing.T) {
		first := testBaseTime.Add(time.Hour)
		require.NoError(t, store.UpsertFeedMembership(ctx, buildTestMembership("user_u1", event, first)))
		require.NoError(t, store.UpsertFeedMembership(ctx, buildTestMembership("user_u1", event, first.Add(time.Hour))))
		require.NoError(t, store.UpsertFeedMembership(ctx, buildTestMembership("user_u1", event, first.Add(-time.Minute))))

		m, err := store.GetFeedMembership(ctx, "user_u1", "mem_evt")
		require.NoError(t, err)
		require.NotNil(t, m)
		assert.True(t, m.AddedAt.Equal(first.Add(-time.Minute)))
		assert.Equal(t, "sg_mem", m.GroupID())
	})

	t.Run("upsert keeps an assigned group", func(t *testing.T) {
		ungrouped := buildTestMembership("user_u1", event, testBaseTime)
		ungrouped.SimilarityGroupID = nil
		require.NoError(t, store.UpsertFeedMembership(ctx, ungrouped))

		m, err := store.GetFeedMembership(ctx, "user_u1", "mem_evt")
		require.NoError(t, err)
		assert.Equal(t, "sg_mem", m.GroupID())
	})

	t.Run("bulk upsert and lookup by event", func(t *testing.T) {
		err := store.UpsertFeedMemberships(ctx, []schema.FeedMembership{
			*buildTestMembership("discover", event, testBaseTime),
			*buildTestMembership("list_l1", event, testBaseTime),
		})
		require.NoError(t, err)

		memberships, err := store.GetFeedMembershipsByEvent(ctx, "mem_evt")
		require.NoError(t, err)
		require.Len(t, memberships, 3)
		assert.Equal(t, "discover", memberships[0].FeedID)
		assert.Equal(t, "list_l1", memberships[1].FeedID)
		assert.Equal(t, "user_u1", memberships[2].FeedID)

		require.NoError(t, store.UpsertFeedMemberships(ctx, nil))
	})

	t.Run("group members join events", func(t *testing.T) {
		members, err := store.GetFeedGroupMembers(ctx, "discover", "sg_mem")
		require.NoError(t, err)
		require.Len(t, members, 1)
		assert.Equal(t, "mem_evt", members[0].EventID)
		assert.Equal(t, "u1", members[0].UserID)
		assert.True(t, members[0].EventExists)

		// A membership whose event vanished comes back flagged, with its own timing
		ghost := buildTestEvent("mem_ghost", "u2", 0, testBaseTime)
		ghost.SimilarityGroupID = strPtr("sg_mem")
		require.NoError(t, store.UpsertFeedMembership(ctx, buildTestMembership("discover", ghost, testBaseTime)))

		members, err = store.GetFeedGroupMembers(ctx, "discover", "sg_mem")
		require.NoError(t, err)
		require.Len(t, members, 2)
		assert.Equal(t, "mem_evt", members[0].EventID)
		assert.Equal(t, "mem_ghost", members[1].EventID)
		assert.False(t, members[1].EventExists)
		assert.Empty(t, members[1].UserID)
		assert.Equal(t, ghost.StartDateTime.UnixMilli(), members[1].StartDateTime.UnixMilli())
		assert.True(t, members[1].AddedAt.Equal(testBaseTime))

		_, err = store.DeleteFeedMembership(ctx, "discover", "mem_ghost")
		require.NoError(t, err)
	})

	t.Run("update timing by event", func(t *testing.T) {
		require.NoError(t, store.UpdateMembershipTimingByEvent(ctx, "mem_evt", 1000, 2000, true))

		memberships, err := store.GetFeedMembershipsByEvent(ctx, "mem_evt")
		require.NoError(t, err)
		for _, m := range memberships {
			assert.Equal(t, int64(1000), m.EventStartTime)
			assert.Equal(t, int64(2000), m.EventEndTime)
			assert.True(t, m.HasEnded)
		}

		require.NoError(t, store.UpdateMembershipTiming(ctx, "discover", "mem_evt", 3000, 4000, false))
		m, err := store.GetFeedMembership(ctx, "discover", "mem_evt")
		require.NoError(t, err)
		assert.Equal(t, int64(3000), m.EventStartTime)
		assert.False(t, m.HasEnded)
	})

	t.Run("delete returns removed row", func(t *testing.T) {
		removed, err := store.DeleteFeedMembership(ctx, "list_l1", "mem_evt")
		require.NoError(t, err)
		require.NotNil(t, removed)
		assert.Equal(t, "sg_mem", removed.GroupID())

		removed, err = store.DeleteFeedMembership(ctx, "list_l1", "mem_evt")
		require.NoError(t, err)
		assert.Nil(t, removed)
	})
}

func testLegacyMemberships(t *testing.T, store Store) {
	ctx := context.Background()

	for _, id := range []string{"leg_1", "leg_2", "leg_3"} {
		event := buildTestEvent(id, "u1", 0, testBaseTime)
		m := buildTestMembership("list_legacy", event, testBaseTime)
		m.EventStartTime = 5_000 // seconds stored as millis
		require.NoError(t, store.UpsertFeedMembership(ctx, m))
	}

	t.Run("missing group pages in key order", func(t *testing.T) {
		page, err := store.GetMembershipsMissingGroup(ctx, &MembershipKey{FeedID: "list_legacy", EventID: "leg_1"}, 10)
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, "leg_2", page[0].EventID)
		assert.Equal(t, "leg_3", page[1].EventID)
	})

	t.Run("set membership group is compare-and-set", func(t *testing.T) {
		ok, err := store.SetMembershipGroup(ctx, "list_legacy", "leg_1", "sg_leg")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = store.SetMembershipGroup(ctx, "list_legacy", "leg_1", "sg_other")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("timestamps in range", func(t *testing.T) {
		r := domain.YearRange{From: 1970, To: 1971}
		from, to := r.MillisBounds()

		rows, err := store.GetMembershipsWithTimestampsInRange(ctx, from, to, nil, 10)
		require.NoError(t, err)
		require.Len(t, rows, 3)

		rows, err = store.GetMembershipsWithTimestampsInRange(ctx, from, to, &MembershipKey{FeedID: "list_legacy", EventID: "leg_2"}, 10)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "leg_3", rows[0].EventID)
	})

	t.Run("feed group pairs are distinct", func(t *testing.T) {
		_, err := store.SetMembershipGroup(ctx, "list_legacy", "leg_2", "sg_leg")
		require.NoError(t, err)

		pairs, err := store.ListFeedGroupPairs(ctx, &FeedGroupKey{FeedID: "list_legacy", SimilarityGroupID: "sg_lef"}, 10)
		require.NoError(t, err)
		require.NotEmpty(t, pairs)
		assert.Equal(t, FeedGroupKey{FeedID: "list_legacy", SimilarityGroupID: "sg_leg"}, pairs[0])
		for _, p := range pairs[1:] {
			assert.NotEqual(t, pairs[0], p)
		}
	})

	t.Run("mark ended memberships", func(t *testing.T) {
		count, err := store.MarkEndedMemberships(ctx, testBaseTime.Add(100*24*time.Hour).UnixMilli())
		require.NoError(t, err)
		assert.GreaterOrEqual(t, count, int64(3))

		count, err = store.MarkEndedMemberships(ctx, testBaseTime.Add(100*24*time.Hour).UnixMilli())
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)
	})
}

func testFeedPages(t *testing.T, store Store) {
	ctx := context.Background()
	boundary := testBaseTime.UnixMilli()
	hour := time.Hour.Milliseconds()

	// Two upcoming rows share a start time to exercise the key tiebreaker
	rows := []schema.FeedMembership{
		{FeedID: "list_page", EventID: "p_past_1", EventStartTime: boundary - 5*hour, EventEndTime: boundary - 4*hour, AddedAt: testBaseTime},
		{FeedID: "list_page", EventID: "p_past_2", EventStartTime: boundary - 3*hour, EventEndTime: boundary - 2*hour, AddedAt: testBaseTime},
		{FeedID: "list_page", EventID: "p_now", EventStartTime: boundary - hour, EventEndTime: boundary, AddedAt: testBaseTime},
		{FeedID: "list_page", EventID: "p_up_b", EventStartTime: boundary + hour, EventEndTime: boundary + 2*hour, AddedAt: testBaseTime},
		{FeedID: "list_page", EventID: "p_up_a", EventStartTime: boundary + hour, EventEndTime: boundary + 2*hour, AddedAt: testBaseTime},
		{FeedID: "list_other", EventID: "p_other", EventStartTime: boundary + hour, EventEndTime: boundary + 2*hour, AddedAt: testBaseTime},
	}
	require.NoError(t, store.UpsertFeedMemberships(ctx, rows))

	t.Run("upcoming ascending includes rows ending at the boundary", func(t *testing.T) {
		page, err := store.ListFeedMemberships(ctx, FeedPageFilter{
			FeedID:    "list_page",
			Direction: domain.DirectionUpcoming,
			Boundary:  boundary,
			Limit:     2,
		})
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, "p_now", page[0].EventID)
		assert.Equal(t, "p_up_a", page[1].EventID)

		page, err = store.ListFeedMemberships(ctx, FeedPageFilter{
			FeedID:     "list_page",
			Direction:  domain.DirectionUpcoming,
			Boundary:   boundary,
			AfterStart: page[1].EventStartTime,
			AfterKey:   page[1].EventID,
			Limit:      2,
		})
		require.NoError(t, err)
		require.Len(t, page, 1)
		assert.Equal(t, "p_up_b", page[0].EventID)
	})

	t.Run("past descending", func(t *testing.T) {
		page, err := store.ListFeedMemberships(ctx, FeedPageFilter{
			FeedID:    "list_page",
			Direction: domain.DirectionPast,
			Boundary:  boundary,
			Limit:     10,
		})
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, "p_past_2", page[0].EventID)
		assert.Equal(t, "p_past_1", page[1].EventID)
	})

	t.Run("grouped entries page by group id", func(t *testing.T) {
		require.NoError(t, store.UpsertGroupedFeedEntry(ctx, buildTestEntry("list_gpage", "sg_b", "e1", boundary+hour)))
		require.NoError(t, store.UpsertGroupedFeedEntry(ctx, buildTestEntry("list_gpage", "sg_a", "e2", boundary+hour)))
		require.NoError(t, store.UpsertGroupedFeedEntry(ctx, buildTestEntry("list_gpage", "sg_c", "e3", boundary+2*hour)))

		page, err := store.ListGroupedFeedEntries(ctx, FeedPageFilter{
			FeedID:     "list_gpage",
			Direction:  domain.DirectionUpcoming,
			Boundary:   boundary,
			AfterStart: boundary + hour,
			AfterKey:   "sg_a",
			Limit:      10,
		})
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, "sg_b", page[0].SimilarityGroupID)
		assert.Equal(t, "sg_c", page[1].SimilarityGroupID)
	})
}

// =============================================================================
// Test: Grouped feed entries
// =============================================================================

func testGroupedFeedEntries(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("upsert replaces derived columns", func(t *testing.T) {
		entry := buildTestEntry("user_g", "sg_g", "e1", 1000)
		require.NoError(t, store.UpsertGroupedFeedEntry(ctx, entry))

		entry.PrimaryEventID = "e2"
		entry.SimilarEventsCount = 3
		require.NoError(t, store.UpsertGroupedFeedEntry(ctx, entry))

		got, err := store.GetGroupedFeedEntry(ctx, "user_g", "sg_g")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "e2", got.PrimaryEventID)
		assert.Equal(t, 3, got.SimilarEventsCount)

		byPrimary, err := store.GetGroupedFeedEntriesByPrimary(ctx, "e2")
		require.NoError(t, err)
		assert.Len(t, byPrimary, 1)
	})

	t.Run("delete reports existence", func(t *testing.T) {
		existed, err := store.DeleteGroupedFeedEntry(ctx, "user_g", "sg_g")
		require.NoError(t, err)
		assert.True(t, existed)

		existed, err = store.DeleteGroupedFeedEntry(ctx, "user_g", "sg_g")
		require.NoError(t, err)
		assert.False(t, existed)

		got, err := store.GetGroupedFeedEntry(ctx, "user_g", "sg_g")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("orphaned and unmaterialized pairs", func(t *testing.T) {
		require.NoError(t, store.UpsertGroupedFeedEntry(ctx, buildTestEntry("list_orphan", "sg_orphan", "gone", 1000)))

		event := buildTestEvent("unmat_evt", "u1", 0, testBaseTime)
		event.SimilarityGroupID = strPtr("sg_unmat")
		require.NoError(t, store.CreateEvent(ctx, event))
		require.NoError(t, store.UpsertFeedMembership(ctx, buildTestMembership("list_unmat", event, testBaseTime)))

		// Never created as an event, so the membership is dangling
		ghost := buildTestEvent("unmat_ghost", "u1", 0, testBaseTime)
		ghost.SimilarityGroupID = strPtr("sg_dangling")
		require.NoError(t, store.UpsertFeedMembership(ctx, buildTestMembership("list_dangling", ghost, testBaseTime)))

		orphans, err := store.GetOrphanedGroupedFeedEntries(ctx, 1000)
		require.NoError(t, err)
		assert.Contains(t, orphans, FeedGroupKey{FeedID: "list_orphan", SimilarityGroupID: "sg_orphan"})

		missing, err := store.GetUnmaterializedFeedGroups(ctx, 1000)
		require.NoError(t, err)
		assert.Contains(t, missing, FeedGroupKey{FeedID: "list_unmat", SimilarityGroupID: "sg_unmat"})
		assert.Contains(t, missing, FeedGroupKey{FeedID: "list_dangling", SimilarityGroupID: "sg_dangling"})
	})

	t.Run("ended entries", func(t *testing.T) {
		require.NoError(t, store.UpsertGroupedFeedEntry(ctx, buildTestEntry("list_ended", "sg_ended", "e1", 1000)))

		keys, err := store.GetEndedGroupedFeedEntries(ctx, 1000+2*time.Hour.Milliseconds(), 1000)
		require.NoError(t, err)
		assert.Contains(t, keys, FeedGroupKey{FeedID: "list_ended", SimilarityGroupID: "sg_ended"})
	})
}

// =============================================================================
// Test: Transactions
// =============================================================================

func testTransactions(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("commit", func(t *testing.T) {
		err := store.WithTransaction(ctx, func(tx Store) error {
			if err := tx.LockFeedGroup(ctx, "discover", "sg_tx"); err != nil {
				return err
			}
			return tx.CreateEvent(ctx, buildTestEvent("tx_commit", "u1", 0, testBaseTime))
		})
		require.NoError(t, err)

		got, err := store.GetEventByID(ctx, "tx_commit")
		require.NoError(t, err)
		assert.NotNil(t, got)
	})

	t.Run("rollback on error", func(t *testing.T) {
		boom := errors.New("boom")
		err := store.WithTransaction(ctx, func(tx Store) error {
			if err := tx.CreateEvent(ctx, buildTestEvent("tx_rollback", "u1", 0, testBaseTime)); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, domain.ErrTransientStore)

		got, err := store.GetEventByID(ctx, "tx_rollback")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("database failures are transient", func(t *testing.T) {
		canceled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := store.GetEventByID(canceled, "tx_commit")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrTransientStore)
		assert.ErrorIs(t, err, context.Canceled)
		assert.True(t, domain.IsRetryable(err))

		_, err = store.GetFeedGroupMembers(canceled, "discover", "sg_tx")
		assert.ErrorIs(t, err, domain.ErrTransientStore)
	})
}

// =============================================================================
// Test: Checkpoints
// =============================================================================

func runCheckpointStoreTests(t *testing.T, store CheckpointStore) {
	ctx := context.Background()

	t.Run("missing checkpoint is empty", func(t *testing.T) {
		value, err := store.GetCheckpoint(ctx, "assign-similarity-groups")
		require.NoError(t, err)
		assert.Equal(t, "", value)
	})

	t.Run("set, overwrite and delete", func(t *testing.T) {
		require.NoError(t, store.SetCheckpoint(ctx, "propagate-group-ids", `["discover","e1"]`))
		require.NoError(t, store.SetCheckpoint(ctx, "propagate-group-ids", `["discover","e2"]`))

		value, err := store.GetCheckpoint(ctx, "propagate-group-ids")
		require.NoError(t, err)
		assert.Equal(t, `["discover","e2"]`, value)

		require.NoError(t, store.DeleteCheckpoint(ctx, "propagate-group-ids"))
		value, err = store.GetCheckpoint(ctx, "propagate-group-ids")
		require.NoError(t, err)
		assert.Equal(t, "", value)
	})

	t.Run("reports are stored apart from checkpoints", func(t *testing.T) {
		require.NoError(t, store.SaveReport(ctx, "materialize-grouped-feeds", `{"processed":3}`))

		report, err := store.GetReport(ctx, "materialize-grouped-feeds")
		require.NoError(t, err)
		assert.Equal(t, `{"processed":3}`, report)

		checkpoint, err := store.GetCheckpoint(ctx, "materialize-grouped-feeds")
		require.NoError(t, err)
		assert.Equal(t, "", checkpoint)
	})
}

// RunStoreTests runs every store test against the given implementation
func RunStoreTests(t *testing.T, initDB func(t *testing.T) Store, cleanupDB func(t *testing.T)) {
	tests := []struct {
		name string
		fn   func(*testing.T, Store)
	}{
		{"Events", testEvents},
		{"EventWindows", testEventWindows},
		{"Users", testUsers},
		{"FeedMemberships", testFeedMemberships},
		{"LegacyMemberships", testLegacyMemberships},
		{"FeedPages", testFeedPages},
		{"GroupedFeedEntries", testGroupedFeedEntries},
		{"Transactions", testTransactions},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := initDB(t)
			defer cleanupDB(t)
			tt.fn(t, store)
		})
	}
}
