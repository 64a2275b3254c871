// Package grouping assigns similarity group ids to newly created events.
package grouping

import (
	"context"
	"fmt"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/feral-file/ff-event-feed/internal/adapter"
	"github.com/feral-file/ff-event-feed/internal/domain"
	"github.com/feral-file/ff-event-feed/internal/logger"
	"github.com/feral-file/ff-event-feed/internal/similarity"
	"github.com/feral-file/ff-event-feed/internal/store"
	"github.com/feral-file/ff-event-feed/internal/store/schema"
)

// Options tunes a single resolution
type Options struct {
	// Backfill resolves an already stored event: the event itself and every event created
	// at or after it are ignored, and new ids are derived from the event id so replays agree.
	Backfill bool
	// Overlay maps event IDs to group ids assigned earlier in a dry run and not yet stored
	Overlay map[string]string
}

// Resolver finds or mints the similarity group of an event
//
//go:generate mockgen -source=resolver.go -destination=../mocks/resolver.go -package=mocks -mock_names=Resolver=MockResolver
type Resolver interface {
	// ResolveGroup returns the group the candidate should join.
	// It never fails for lack of a match; errors are store failures.
	ResolveGroup(ctx context.Context, candidate *schema.Event, opts Options) (string, error)
}

type resolver struct {
	store store.Store
	clock adapter.Clock
}

// NewResolver creates a new group resolver
func NewResolver(st store.Store, clock adapter.Clock) Resolver {
	return &resolver{
		store: st,
		clock: clock,
	}
}

// ResolveGroup scans the events starting within the similarity window of the candidate.
// The scan holds no lock; two concurrent creations may mint two groups for similar events.
func (r *resolver) ResolveGroup(ctx context.Context, candidate *schema.Event, opts Options) (string, error) {
	// A legacy duplicate adopts the group of the event it points at
	if candidate.SimilarToEventID != nil && *candidate.SimilarToEventID != "" && *candidate.SimilarToEventID != candidate.ID {
		groupID, err := r.canonicalGroup(ctx, *candidate.SimilarToEventID, opts)
		if err != nil {
			return "", err
		}
		if groupID != "" {
			return groupID, nil
		}
	}

	from := candidate.StartDateTime.Add(-similarity.MaxTimeDifference)
	to := candidate.StartDateTime.Add(similarity.MaxTimeDifference)
	candidates, err := r.store.GetEventsStartingBetween(ctx, from, to)
	if err != nil {
		return "", fmt.Errorf("%w: failed to scan similarity window: %v", domain.ErrTransientStore, err)
	}

	record := recordOf(candidate)
	for i := range candidates {
		other := &candidates[i]
		if other.ID == candidate.ID {
			continue
		}
		if opts.Backfill && !other.CreatedAt.Before(candidate.CreatedAt) {
			continue
		}
		if !similarity.IsSimilar(record, recordOf(other)) {
			continue
		}

		groupID, err := r.groupOf(ctx, other, opts)
		if err != nil {
			return "", err
		}
		if groupID == "" {
			continue
		}

		logger.DebugCtx(ctx, "Joined existing similarity group",
			zap.String("eventID", candidate.ID),
			zap.String("matchedEventID", other.ID),
			zap.String("similarityGroupID", groupID))
		return groupID, nil
	}

	return r.mint(candidate, opts), nil
}

// groupOf returns the group of a matched event, following a legacy forwarding pointer
// when the event itself was never assigned one
func (r *resolver) groupOf(ctx context.Context, event *schema.Event, opts Options) (string, error) {
	if groupID := assignedGroup(event, opts); groupID != "" {
		return groupID, nil
	}
	if event.SimilarToEventID == nil || *event.SimilarToEventID == "" || *event.SimilarToEventID == event.ID {
		return "", nil
	}
	return r.canonicalGroup(ctx, *event.SimilarToEventID, opts)
}

// canonicalGroup resolves the group of the canonical event of a legacy duplicate.
// An unassigned canonical event yields the id its own backfill would mint.
func (r *resolver) canonicalGroup(ctx context.Context, canonicalID string, opts Options) (string, error) {
	if groupID, ok := opts.Overlay[canonicalID]; ok {
		return groupID, nil
	}

	canonical, err := r.store.GetEventByID(ctx, canonicalID)
	if err != nil {
		return "", fmt.Errorf("%w: failed to get canonical event: %v", domain.ErrTransientStore, err)
	}
	if canonical == nil {
		logger.WarnCtx(ctx, "Legacy similar_to_event_id points at a missing event",
			zap.String("canonicalEventID", canonicalID))
		return "", nil
	}
	if groupID := assignedGroup(canonical, opts); groupID != "" {
		return groupID, nil
	}
	return deterministicGroupID(canonical.ID), nil
}

func (r *resolver) mint(candidate *schema.Event, opts Options) string {
	if opts.Backfill {
		return deterministicGroupID(candidate.ID)
	}
	return domain.SIMILARITY_GROUP_PREFIX + ulid.MustNewDefault(r.clock.Now()).String()
}

// deterministicGroupID is the id a founding event gets during backfill
func deterministicGroupID(eventID string) string {
	return domain.SIMILARITY_GROUP_PREFIX + eventID
}

func assignedGroup(event *schema.Event, opts Options) string {
	if groupID := event.GroupID(); groupID != "" {
		return groupID
	}
	return opts.Overlay[event.ID]
}

func recordOf(e *schema.Event) similarity.Record {
	return similarity.Record{
		StartDateTime: e.StartDateTime,
		EndDateTime:   e.EndDateTime,
		Name:          e.Name,
		Description:   e.Description,
		Location:      e.Location,
	}
}
