// Package feed owns feed memberships: it places events into feeds, keeps the grouped
// summaries in step within the same transaction, and serves paginated feed reads.
package feed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/feral-file/ff-event-feed/internal/adapter"
	"github.com/feral-file/ff-event-feed/internal/domain"
	"github.com/feral-file/ff-event-feed/internal/grouping"
	"github.com/feral-file/ff-event-feed/internal/logger"
	"github.com/feral-file/ff-event-feed/internal/materializer"
	"github.com/feral-file/ff-event-feed/internal/messaging"
	"github.com/feral-file/ff-event-feed/internal/store"
	"github.com/feral-file/ff-event-feed/internal/store/schema"
)

// Config holds the feed service configuration
type Config struct {
	// RetryInitialInterval is the first backoff of a transaction retried after a transient store failure
	RetryInitialInterval time.Duration
	// RetryMaxElapsedTime bounds the total time spent retrying one operation
	RetryMaxElapsedTime time.Duration
}

// Service defines the feed operations
//
//go:generate mockgen -source=service.go -destination=../mocks/feed_service.go -package=mocks -mock_names=Service=MockFeedService
type Service interface {
	// IngestEvent stores a newly authored event, resolves its similarity group and
	// places it into its author's feed, the discover feed when public, and its lists
	IngestEvent(ctx context.Context, event domain.AuthoredEvent) (*IngestResult, error)
	// UpsertMembership adds an existing event to a feed (follow, list add).
	// A zero addedAt means now. Re-adding keeps the earliest addedAt.
	UpsertMembership(ctx context.Context, feedID domain.FeedID, eventID string, addedAt time.Time) error
	// RemoveMembership removes an event from a feed (unfollow, list remove). Removing a non-member is a no-op.
	RemoveMembership(ctx context.Context, feedID domain.FeedID, eventID string) error
	// SetEventVisibility publishes an event to or withdraws it from the discover feed
	SetEventVisibility(ctx context.Context, eventID string, visibility domain.Visibility) error
	// UpdateEvent edits an event and refreshes every feed it appears in
	UpdateEvent(ctx context.Context, eventID string, input UpdateEventInput) error
	// DeleteEvent removes an event from every feed and deletes it
	DeleteEvent(ctx context.Context, eventID string) error
	// SyncAllEntriesForEvent recomputes every grouped entry the event participates in
	SyncAllEntriesForEvent(ctx context.Context, eventID string) error
	// UpsertUser creates or updates the profile of an author
	UpsertUser(ctx context.Context, profile UserProfile) error
	// QueryFeed reads one page of a feed
	QueryFeed(ctx context.Context, query Query) (*Page, error)
}

type service struct {
	cfg          Config
	store        store.Store
	resolver     grouping.Resolver
	materializer materializer.Materializer
	publisher    messaging.Publisher
	clock        adapter.Clock
	json         adapter.JSON
}

// NewService creates a new feed service. The publisher is optional.
func NewService(
	cfg Config,
	st store.Store,
	resolver grouping.Resolver,
	mat materializer.Materializer,
	publisher messaging.Publisher,
	clock adapter.Clock,
	jsonAdapter adapter.JSON,
) Service {
	if cfg.RetryInitialInterval == 0 {
		cfg.RetryInitialInterval = 100 * time.Millisecond
	}
	if cfg.RetryMaxElapsedTime == 0 {
		cfg.RetryMaxElapsedTime = 10 * time.Second
	}

	return &service{
		cfg:          cfg,
		store:        st,
		resolver:     resolver,
		materializer: mat,
		publisher:    publisher,
		clock:        clock,
		json:         jsonAdapter,
	}
}

// changeSet collects the grouped entries touched by one transaction so they can be
// announced after commit
type changeSet struct {
	changes []domain.FeedChange
	seen    map[store.FeedGroupKey]int
}

func newChangeSet() *changeSet {
	return &changeSet{seen: make(map[store.FeedGroupKey]int)}
}

func (c *changeSet) record(feedID, groupID string, entry *schema.GroupedFeedEntry, at time.Time) {
	change := domain.FeedChange{
		FeedID:            domain.FeedID(feedID),
		SimilarityGroupID: groupID,
		Kind:              domain.FeedChangeRemoved,
		ChangedAt:         at,
	}
	if entry != nil {
		change.Kind = domain.FeedChangeUpserted
		change.PrimaryEventID = entry.PrimaryEventID
		change.SimilarEventsCount = entry.SimilarEventsCount
	}

	key := store.FeedGroupKey{FeedID: feedID, SimilarityGroupID: groupID}
	if i, ok := c.seen[key]; ok {
		c.changes[i] = change
		return
	}
	c.seen[key] = len(c.changes)
	c.changes = append(c.changes, change)
}

// materialize recomputes a pair inside the caller's transaction and records the outcome
func (s *service) materialize(ctx context.Context, tx store.Store, changes *changeSet, feedID, groupID string) error {
	if groupID == "" {
		return nil
	}
	entry, err := s.materializer.Upsert(ctx, tx, feedID, groupID)
	if err != nil {
		return err
	}
	changes.record(feedID, groupID, entry, s.clock.Now())
	return nil
}

// transact runs fn in a transaction, retrying the whole transaction with exponential
// backoff on transient failures, and publishes the recorded changes after commit
func (s *service) transact(ctx context.Context, operation string, fn func(tx store.Store, changes *changeSet) error) error {
	var changes *changeSet

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.cfg.RetryInitialInterval
	b.MaxElapsedTime = s.cfg.RetryMaxElapsedTime

	err := backoff.RetryNotify(
		func() error {
			changes = newChangeSet()
			err := s.store.WithTransaction(ctx, func(tx store.Store) error {
				return fn(tx, changes)
			})
			if err != nil && !domain.IsRetryable(err) {
				return backoff.Permanent(err)
			}
			return err
		},
		backoff.WithContext(b, ctx),
		func(err error, d time.Duration) {
			logger.WarnCtx(ctx, "Retrying feed transaction",
				zap.String("operation", operation),
				zap.Error(err),
				zap.Duration("backoff", d))
		},
	)
	if err != nil {
		// Retries gave up on a failure that could have passed on another attempt
		if domain.IsRetryable(err) && !errors.Is(err, domain.ErrTransientStore) {
			return fmt.Errorf("%w: %s: %w", domain.ErrTransientStore, operation, err)
		}
		return err
	}

	s.publish(ctx, changes.changes)
	return nil
}

// publish announces feed changes. Failures are logged and never fail the committed operation.
func (s *service) publish(ctx context.Context, changes []domain.FeedChange) {
	if s.publisher == nil {
		return
	}
	for i := range changes {
		if err := s.publisher.PublishFeedChange(ctx, &changes[i]); err != nil {
			logger.WarnCtx(ctx, "Failed to publish feed change",
				zap.String("feedID", changes[i].FeedID.String()),
				zap.String("similarityGroupID", changes[i].SimilarityGroupID),
				zap.Error(err))
		}
	}
}

// IngestEvent stores and places a newly authored event
func (s *service) IngestEvent(ctx context.Context, in domain.AuthoredEvent) (*IngestResult, error) {
	if err := validateAuthoredEvent(in); err != nil {
		return nil, err
	}

	event, err := s.toSchemaEvent(in)
	if err != nil {
		return nil, err
	}

	// Resolution runs outside the transaction so the window scan holds no lock
	groupID, err := s.resolver.ResolveGroup(ctx, event, grouping.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve similarity group: %w", err)
	}
	event.SimilarityGroupID = &groupID

	feedIDs := feedsOf(in)
	timing := domain.NewEventTiming(event.StartDateTime, event.EndDateTime)

	err = s.transact(ctx, "ingest_event", func(tx store.Store, changes *changeSet) error {
		if err := tx.CreateEvent(ctx, event); err != nil {
			return err
		}

		now := s.clock.Now()
		memberships := make([]schema.FeedMembership, 0, len(feedIDs))
		for _, feedID := range feedIDs {
			memberships = append(memberships, newMembership(feedID, event, timing, now, now))
		}
		if err := tx.UpsertFeedMemberships(ctx, memberships); err != nil {
			return err
		}

		for _, feedID := range feedIDs {
			if err := s.materialize(ctx, tx, changes, feedID.String(), groupID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.InfoCtx(ctx, "Ingested event",
		zap.String("eventID", event.ID),
		zap.String("similarityGroupID", groupID),
		zap.Int("feeds", len(feedIDs)))

	return &IngestResult{
		EventID:           event.ID,
		SimilarityGroupID: groupID,
		FeedIDs:           feedIDs,
	}, nil
}

// UpsertMembership adds an existing event to a feed
func (s *service) UpsertMembership(ctx context.Context, feedID domain.FeedID, eventID string, addedAt time.Time) error {
	if !feedID.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidFeedID, feedID)
	}

	return s.transact(ctx, "upsert_membership", func(tx store.Store, changes *changeSet) error {
		event, err := tx.GetEventByID(ctx, eventID)
		if err != nil {
			return err
		}
		if event == nil {
			return fmt.Errorf("%w: %s", domain.ErrEventNotFound, eventID)
		}

		now := s.clock.Now()
		if addedAt.IsZero() {
			addedAt = now
		}

		timing := domain.NewEventTiming(event.StartDateTime, event.EndDateTime)
		membership := newMembership(feedID, event, timing, addedAt, now)
		if err := tx.UpsertFeedMembership(ctx, &membership); err != nil {
			return err
		}

		if event.GroupID() == "" {
			logger.WarnCtx(ctx, "Event has no similarity group yet, membership left unsummarized",
				zap.String("eventID", eventID),
				zap.String("feedID", feedID.String()))
			return nil
		}
		return s.materialize(ctx, tx, changes, feedID.String(), event.GroupID())
	})
}

// RemoveMembership removes an event from a feed
func (s *service) RemoveMembership(ctx context.Context, feedID domain.FeedID, eventID string) error {
	if !feedID.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidFeedID, feedID)
	}

	return s.transact(ctx, "remove_membership", func(tx store.Store, changes *changeSet) error {
		removed, err := tx.DeleteFeedMembership(ctx, feedID.String(), eventID)
		if err != nil {
			return err
		}
		if removed == nil {
			return nil
		}
		return s.materialize(ctx, tx, changes, feedID.String(), removed.GroupID())
	})
}

// SetEventVisibility publishes an event to or withdraws it from the discover feed
func (s *service) SetEventVisibility(ctx context.Context, eventID string, visibility domain.Visibility) error {
	if !visibility.Valid() {
		return fmt.Errorf("%w: unknown visibility %q", domain.ErrInvalidEvent, visibility)
	}

	return s.transact(ctx, "set_event_visibility", func(tx store.Store, changes *changeSet) error {
		event, err := tx.GetEventByID(ctx, eventID)
		if err != nil {
			return err
		}
		if event == nil {
			return fmt.Errorf("%w: %s", domain.ErrEventNotFound, eventID)
		}

		if err := tx.SetEventVisibility(ctx, eventID, schema.Visibility(visibility)); err != nil {
			return err
		}

		discover := domain.FeedID(domain.DISCOVER_FEED_ID)
		if visibility == domain.VisibilityPublic {
			now := s.clock.Now()
			timing := domain.NewEventTiming(event.StartDateTime, event.EndDateTime)
			membership := newMembership(discover, event, timing, now, now)
			if err := tx.UpsertFeedMembership(ctx, &membership); err != nil {
				return err
			}
		} else {
			if _, err := tx.DeleteFeedMembership(ctx, discover.String(), eventID); err != nil {
				return err
			}
		}

		return s.materialize(ctx, tx, changes, discover.String(), event.GroupID())
	})
}

// UpdateEvent edits an event. The similarity group never changes after creation.
func (s *service) UpdateEvent(ctx context.Context, eventID string, input UpdateEventInput) error {
	if err := validateUpdate(input); err != nil {
		return err
	}

	var metadata datatypes.JSON
	if input.Metadata != nil {
		data, err := s.json.Marshal(input.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal metadata: %w", err)
		}
		metadata = datatypes.JSON(data)
	}

	timing := domain.NewEventTiming(input.StartDateTime, input.EndDateTime)

	return s.transact(ctx, "update_event", func(tx store.Store, changes *changeSet) error {
		event, err := tx.GetEventByID(ctx, eventID)
		if err != nil {
			return err
		}
		if event == nil {
			return fmt.Errorf("%w: %s", domain.ErrEventNotFound, eventID)
		}

		err = tx.UpdateEventDetails(ctx, eventID, store.UpdateEventDetailsInput{
			Name:          strings.TrimSpace(input.Name),
			Description:   strings.TrimSpace(input.Description),
			Location:      strings.TrimSpace(input.Location),
			StartDateTime: timing.Start,
			EndDateTime:   timing.End,
			Metadata:      metadata,
		})
		if err != nil {
			return err
		}

		return s.syncEvent(ctx, tx, changes, eventID)
	})
}

// DeleteEvent removes an event from every feed and deletes it
func (s *service) DeleteEvent(ctx context.Context, eventID string) error {
	return s.transact(ctx, "delete_event", func(tx store.Store, changes *changeSet) error {
		event, err := tx.GetEventByID(ctx, eventID)
		if err != nil {
			return err
		}
		if event == nil {
			return fmt.Errorf("%w: %s", domain.ErrEventNotFound, eventID)
		}

		memberships, err := tx.GetFeedMembershipsByEvent(ctx, eventID)
		if err != nil {
			return err
		}
		for _, m := range memberships {
			if _, err := tx.DeleteFeedMembership(ctx, m.FeedID, m.EventID); err != nil {
				return err
			}
		}

		if err := tx.DeleteEvent(ctx, eventID); err != nil {
			return err
		}

		for _, m := range memberships {
			groupID := m.GroupID()
			if groupID == "" {
				groupID = event.GroupID()
			}
			if err := s.materialize(ctx, tx, changes, m.FeedID, groupID); err != nil {
				return err
			}
		}
		return nil
	})
}

// SyncAllEntriesForEvent recomputes every grouped entry the event participates in
func (s *service) SyncAllEntriesForEvent(ctx context.Context, eventID string) error {
	return s.transact(ctx, "sync_event", func(tx store.Store, changes *changeSet) error {
		return s.syncEvent(ctx, tx, changes, eventID)
	})
}

// syncEvent re-denormalizes the event timing into its memberships and recomputes every
// pair it is a member of, plus any pair still naming it as primary
func (s *service) syncEvent(ctx context.Context, tx store.Store, changes *changeSet, eventID string) error {
	event, err := tx.GetEventByID(ctx, eventID)
	if err != nil {
		return err
	}

	memberships, err := tx.GetFeedMembershipsByEvent(ctx, eventID)
	if err != nil {
		return err
	}

	if event != nil {
		timing := domain.NewEventTiming(event.StartDateTime, event.EndDateTime)
		err := tx.UpdateMembershipTimingByEvent(ctx, eventID, timing.StartMillis(), timing.EndMillis(), timing.HasEnded(s.clock.Now()))
		if err != nil {
			return err
		}
	}

	pairs := make(map[store.FeedGroupKey]struct{})
	for _, m := range memberships {
		groupID := m.GroupID()
		if groupID == "" && event != nil {
			groupID = event.GroupID()
		}
		if groupID != "" {
			pairs[store.FeedGroupKey{FeedID: m.FeedID, SimilarityGroupID: groupID}] = struct{}{}
		}
	}

	entries, err := tx.GetGroupedFeedEntriesByPrimary(ctx, eventID)
	if err != nil {
		return err
	}
	for _, e := range entries {
		pairs[store.FeedGroupKey{FeedID: e.FeedID, SimilarityGroupID: e.SimilarityGroupID}] = struct{}{}
	}

	for pair := range pairs {
		if err := s.materialize(ctx, tx, changes, pair.FeedID, pair.SimilarityGroupID); err != nil {
			return err
		}
	}
	return nil
}

// UpsertUser creates or updates the profile of an author
func (s *service) UpsertUser(ctx context.Context, profile UserProfile) error {
	if strings.TrimSpace(profile.ID) == "" || strings.TrimSpace(profile.Username) == "" {
		return fmt.Errorf("%w: user id and username are required", domain.ErrValidation)
	}

	return s.store.UpsertUser(ctx, &schema.User{
		ID:          profile.ID,
		Username:    strings.TrimSpace(profile.Username),
		DisplayName: strings.TrimSpace(profile.DisplayName),
		PublicFeed:  profile.PublicFeed,
	})
}

// toSchemaEvent converts an authored event into its stored form
func (s *service) toSchemaEvent(in domain.AuthoredEvent) (*schema.Event, error) {
	timing := domain.NewEventTiming(in.StartDateTime, in.EndDateTime)

	visibility := in.Visibility
	if visibility == "" {
		visibility = domain.VisibilityPrivate
	}

	createdAt := in.CreatedAt
	if createdAt.IsZero() {
		createdAt = s.clock.Now()
	}

	event := &schema.Event{
		ID:            in.ID,
		UserID:        in.UserID,
		Name:          strings.TrimSpace(in.Name),
		Description:   strings.TrimSpace(in.Description),
		Location:      strings.TrimSpace(in.Location),
		StartDateTime: timing.Start,
		EndDateTime:   timing.End,
		Visibility:    schema.Visibility(visibility),
		CreatedAt:     createdAt.UTC(),
	}

	if in.Metadata != nil {
		data, err := s.json.Marshal(in.Metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal metadata: %w", err)
		}
		event.Metadata = datatypes.JSON(data)
	}

	return event, nil
}

// feedsOf lists the feeds a newly authored event belongs to
func feedsOf(in domain.AuthoredEvent) []domain.FeedID {
	feeds := []domain.FeedID{domain.PersonalFeedID(in.UserID)}
	if in.Visibility == domain.VisibilityPublic {
		feeds = append(feeds, domain.FeedID(domain.DISCOVER_FEED_ID))
	}

	seen := make(map[string]struct{}, len(in.ListIDs))
	for _, listID := range in.ListIDs {
		if _, ok := seen[listID]; ok {
			continue
		}
		seen[listID] = struct{}{}
		feeds = append(feeds, domain.ListFeedID(listID))
	}
	return feeds
}

// newMembership builds a membership row with timing derived from the event
func newMembership(feedID domain.FeedID, event *schema.Event, timing domain.EventTiming, addedAt, now time.Time) schema.FeedMembership {
	return schema.FeedMembership{
		FeedID:            feedID.String(),
		EventID:           event.ID,
		SimilarityGroupID: event.SimilarityGroupID,
		EventStartTime:    timing.StartMillis(),
		EventEndTime:      timing.EndMillis(),
		AddedAt:           addedAt.UTC(),
		HasEnded:          timing.HasEnded(now),
	}
}

func validateAuthoredEvent(in domain.AuthoredEvent) error {
	if strings.TrimSpace(in.ID) == "" {
		return fmt.Errorf("%w: id is required", domain.ErrInvalidEvent)
	}
	if strings.TrimSpace(in.UserID) == "" {
		return fmt.Errorf("%w: user_id is required", domain.ErrInvalidEvent)
	}
	if !domain.PersonalFeedID(in.UserID).Valid() {
		return fmt.Errorf("%w: user_id %q cannot name a feed", domain.ErrInvalidEvent, in.UserID)
	}
	if in.Visibility != "" && !in.Visibility.Valid() {
		return fmt.Errorf("%w: unknown visibility %q", domain.ErrInvalidEvent, in.Visibility)
	}
	for _, listID := range in.ListIDs {
		if !domain.ListFeedID(listID).Valid() {
			return fmt.Errorf("%w: invalid list id %q", domain.ErrInvalidEvent, listID)
		}
	}

	return validateUpdate(UpdateEventInput{
		Name:          in.Name,
		Description:   in.Description,
		Location:      in.Location,
		StartDateTime: in.StartDateTime,
		EndDateTime:   in.EndDateTime,
		Metadata:      in.Metadata,
	})
}

func validateUpdate(input UpdateEventInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrInvalidEvent)
	}
	if !domain.NewEventTiming(input.StartDateTime, input.EndDateTime).Valid() {
		return fmt.Errorf("%w: start and end are required and end must not precede start", domain.ErrInvalidEvent)
	}
	if input.Metadata != nil {
		if err := input.Metadata.Validate(); err != nil {
			return err
		}
	}
	return nil
}
