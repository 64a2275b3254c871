// Package materializer maintains grouped_feed_entries, the per (feed, similarity group)
// summary rows derived from feed_memberships.
//
// Every method takes the store it should write through. Callers mutating memberships pass
// their transaction-scoped store so the membership write and the summary row commit together.
package materializer

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/feral-file/ff-event-feed/internal/adapter"
	"github.com/feral-file/ff-event-feed/internal/domain"
	"github.com/feral-file/ff-event-feed/internal/logger"
	"github.com/feral-file/ff-event-feed/internal/store"
	"github.com/feral-file/ff-event-feed/internal/store/schema"
)

// Materializer derives grouped feed entries from feed memberships
//
//go:generate mockgen -source=materializer.go -destination=../mocks/materializer.go -package=mocks -mock_names=Materializer=MockMaterializer
type Materializer interface {
	// Upsert recomputes the entry of a (feed, group) pair, deleting memberships whose event is gone.
	// It returns the stored entry, or nil when the pair has no live member and the entry was removed.
	Upsert(ctx context.Context, st store.Store, feedID, groupID string) (*schema.GroupedFeedEntry, error)
	// RemoveIfEmpty deletes the entry of a pair that has no live member left, together with
	// any dangling membership. It reports whether an entry was deleted.
	RemoveIfEmpty(ctx context.Context, st store.Store, feedID, groupID string) (bool, error)
	// Compute derives the entry of a pair without writing it, nil when the pair has no member
	Compute(ctx context.Context, st store.Store, feedID, groupID string) (*schema.GroupedFeedEntry, error)
	// RefreshEnded recomputes up to limit entries whose primary ended but are still flagged upcoming.
	// It returns the number of entries recomputed.
	RefreshEnded(ctx context.Context, st store.Store, limit int) (int, error)
}

const warningDanglingMembership = "dangling_membership"

type materializer struct {
	clock adapter.Clock
}

// New creates a new materializer
func New(clock adapter.Clock) Materializer {
	return &materializer{clock: clock}
}

// Upsert recomputes the entry of a (feed, group) pair under its advisory lock
func (m *materializer) Upsert(ctx context.Context, st store.Store, feedID, groupID string) (*schema.GroupedFeedEntry, error) {
	var entry *schema.GroupedFeedEntry
	err := st.WithTransaction(ctx, func(tx store.Store) error {
		if err := tx.LockFeedGroup(ctx, feedID, groupID); err != nil {
			return err
		}

		members, err := m.liveMembers(ctx, tx, feedID, groupID, true)
		if err != nil {
			return err
		}

		computed := Derive(feedID, groupID, members, m.clock.Now())
		if computed == nil {
			_, err := tx.DeleteGroupedFeedEntry(ctx, feedID, groupID)
			return err
		}

		if err := tx.UpsertGroupedFeedEntry(ctx, computed); err != nil {
			return err
		}
		entry = computed
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to materialize %s/%s: %w", feedID, groupID, err)
	}

	return entry, nil
}

// RemoveIfEmpty deletes the entry of a pair without live members, leaving populated pairs untouched
func (m *materializer) RemoveIfEmpty(ctx context.Context, st store.Store, feedID, groupID string) (bool, error) {
	var removed bool
	err := st.WithTransaction(ctx, func(tx store.Store) error {
		if err := tx.LockFeedGroup(ctx, feedID, groupID); err != nil {
			return err
		}

		members, err := tx.GetFeedGroupMembers(ctx, feedID, groupID)
		if err != nil {
			return err
		}
		for _, member := range members {
			if member.EventExists {
				return nil
			}
		}
		if err := m.dangling(ctx, tx, feedID, groupID, members, true); err != nil {
			return err
		}

		removed, err = tx.DeleteGroupedFeedEntry(ctx, feedID, groupID)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("failed to remove %s/%s: %w", feedID, groupID, err)
	}

	return removed, nil
}

// Compute loads the live members of a pair and derives its entry
func (m *materializer) Compute(ctx context.Context, st store.Store, feedID, groupID string) (*schema.GroupedFeedEntry, error) {
	members, err := m.liveMembers(ctx, st, feedID, groupID, false)
	if err != nil {
		return nil, err
	}
	return Derive(feedID, groupID, members, m.clock.Now()), nil
}

// liveMembers returns the members of a pair whose event still exists.
// Dangling memberships are reported, and deleted when prune is set; the caller must hold the pair lock then.
func (m *materializer) liveMembers(ctx context.Context, st store.Store, feedID, groupID string, prune bool) ([]store.FeedGroupMember, error) {
	members, err := st.GetFeedGroupMembers(ctx, feedID, groupID)
	if err != nil {
		return nil, err
	}

	if err := m.dangling(ctx, st, feedID, groupID, members, prune); err != nil {
		return nil, err
	}

	live := make([]store.FeedGroupMember, 0, len(members))
	for _, member := range members {
		if member.EventExists {
			live = append(live, member)
		}
	}
	return live, nil
}

// dangling reports the memberships among members whose event is gone and deletes them when prune is set
func (m *materializer) dangling(ctx context.Context, st store.Store, feedID, groupID string, members []store.FeedGroupMember, prune bool) error {
	for _, member := range members {
		if member.EventExists {
			continue
		}
		logger.ConsistencyWarnCtx(ctx, warningDanglingMembership,
			zap.String("feedID", feedID),
			zap.String("similarityGroupID", groupID),
			zap.String("eventID", member.EventID))
		if !prune {
			continue
		}
		if _, err := st.DeleteFeedMembership(ctx, feedID, member.EventID); err != nil {
			return err
		}
	}
	return nil
}

// RefreshEnded recomputes entries whose primary ended
func (m *materializer) RefreshEnded(ctx context.Context, st store.Store, limit int) (int, error) {
	keys, err := st.GetEndedGroupedFeedEntries(ctx, m.clock.Now().UnixMilli(), limit)
	if err != nil {
		return 0, fmt.Errorf("failed to get ended grouped feed entries: %w", err)
	}

	for _, key := range keys {
		if _, err := m.Upsert(ctx, st, key.FeedID, key.SimilarityGroupID); err != nil {
			return 0, err
		}
	}

	if len(keys) > 0 {
		logger.DebugCtx(ctx, "Refreshed ended grouped feed entries", zap.Int("count", len(keys)))
	}

	return len(keys), nil
}

// Derive computes the entry of a (feed, group) pair from its members, nil when there is none.
// Members whose event is gone are ignored.
//
// The primary is the earliest created member, except on a personal feed where the earliest
// created member authored by the feed owner wins if there is one. Ties on creation time are
// broken by event ID. Timing comes from the primary only; added_at is the minimum over all members.
func Derive(feedID, groupID string, members []store.FeedGroupMember, now time.Time) *schema.GroupedFeedEntry {
	ordered := make([]store.FeedGroupMember, 0, len(members))
	for _, member := range members {
		if member.EventExists {
			ordered = append(ordered, member)
		}
	}
	if len(ordered) == 0 {
		return nil
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].CreatedAt.Equal(ordered[j].CreatedAt) {
			return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
		}
		return ordered[i].EventID < ordered[j].EventID
	})

	primary := ordered[0]
	if owner, ok := domain.FeedID(feedID).OwnerUserID(); ok {
		for _, member := range ordered {
			if member.UserID == owner {
				primary = member
				break
			}
		}
	}

	addedAt := ordered[0].AddedAt
	for _, member := range ordered[1:] {
		if member.AddedAt.Before(addedAt) {
			addedAt = member.AddedAt
		}
	}

	timing := domain.NewEventTiming(primary.StartDateTime, primary.EndDateTime)

	return &schema.GroupedFeedEntry{
		FeedID:             feedID,
		SimilarityGroupID:  groupID,
		PrimaryEventID:     primary.EventID,
		EventStartTime:     timing.StartMillis(),
		EventEndTime:       timing.EndMillis(),
		AddedAt:            addedAt.UTC(),
		HasEnded:           timing.HasEnded(now),
		SimilarEventsCount: len(ordered) - 1,
	}
}
