package store

import (
	"context"
	"time"

	"gorm.io/datatypes"

	"github.com/feral-file/ff-event-feed/internal/domain"
	"github.com/feral-file/ff-event-feed/internal/store/schema"
)

// FeedGroupKey identifies a (feed, similarity group) pair, the isolation unit of materialization
type FeedGroupKey struct {
	FeedID            string `gorm:"column:feed_id" json:"feed_id"`
	SimilarityGroupID string `gorm:"column:similarity_group_id" json:"similarity_group_id"`
}

// MembershipKey identifies a feed membership row
type MembershipKey struct {
	FeedID  string `json:"feed_id"`
	EventID string `json:"event_id"`
}

// EventKey is the creation-order keyset position of an event
type EventKey struct {
	CreatedAt time.Time `json:"created_at"`
	ID        string    `json:"id"`
}

// FeedGroupMember is a membership row of a (feed, group) pair joined with its event.
// EventExists is false for a dangling membership whose event row is gone.
type FeedGroupMember struct {
	EventID       string    `gorm:"column:event_id"`
	EventExists   bool      `gorm:"column:event_exists"`
	UserID        string    `gorm:"column:user_id"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	StartDateTime time.Time `gorm:"column:start_date_time"`
	EndDateTime   time.Time `gorm:"column:end_date_time"`
	AddedAt       time.Time `gorm:"column:added_at"`
}

// FeedPageFilter selects one keyset page of a feed
type FeedPageFilter struct {
	// FeedID is the feed to read
	FeedID string
	// Direction selects rows ending at or after Boundary (upcoming, ascending)
	// or before Boundary (past, descending)
	Direction domain.Direction
	// Boundary is the snapshot instant in epoch millis
	Boundary int64
	// AfterStart and AfterKey are the position of the last row of the previous page.
	// Both are ignored when AfterKey is empty.
	AfterStart int64
	AfterKey   string
	// Limit is the maximum number of rows returned
	Limit int
}

// UpdateEventDetailsInput carries the mutable fields of an event
type UpdateEventDetailsInput struct {
	Name          string
	Description   string
	Location      string
	StartDateTime time.Time
	EndDateTime   time.Time
	Metadata      datatypes.JSON
}

// Store defines the interface for database operations
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// WithTransaction runs fn with a store bound to a single database transaction.
	// The transaction is committed when fn returns nil and rolled back otherwise.
	WithTransaction(ctx context.Context, fn func(tx Store) error) error
	// LockFeedGroup takes the transaction-scoped advisory lock of a (feed, group) pair
	LockFeedGroup(ctx context.Context, feedID, groupID string) error

	// CreateEvent inserts a new event, returning domain.ErrEventAlreadyExists on a duplicate ID
	CreateEvent(ctx context.Context, event *schema.Event) error
	// GetEventByID retrieves an event by its ID, nil when missing
	GetEventByID(ctx context.Context, eventID string) (*schema.Event, error)
	// GetEventsByIDs retrieves the events with the given IDs, skipping missing ones
	GetEventsByIDs(ctx context.Context, eventIDs []string) ([]schema.Event, error)
	// GetEventsStartingBetween retrieves events whose start falls in [from, to], ordered by start then creation
	GetEventsStartingBetween(ctx context.Context, from, to time.Time) ([]schema.Event, error)
	// ListEventsByCreation retrieves events in (created_at, id) order after the given position
	ListEventsByCreation(ctx context.Context, after *EventKey, limit int) ([]schema.Event, error)
	// UpdateEventDetails overwrites the mutable fields of an event
	UpdateEventDetails(ctx context.Context, eventID string, input UpdateEventDetailsInput) error
	// SetEventVisibility updates the visibility of an event
	SetEventVisibility(ctx context.Context, eventID string, visibility schema.Visibility) error
	// AssignSimilarityGroup sets the group of an event only if none is assigned yet.
	// Returns false when the event already had a group or does not exist.
	AssignSimilarityGroup(ctx context.Context, eventID, groupID string) (bool, error)
	// DeleteEvent deletes an event row
	DeleteEvent(ctx context.Context, eventID string) error

	// UpsertUser creates or updates a user
	UpsertUser(ctx context.Context, user *schema.User) error
	// GetUserByID retrieves a user by ID, nil when missing
	GetUserByID(ctx context.Context, userID string) (*schema.User, error)
	// GetUsersByIDs retrieves the users with the given IDs, skipping missing ones
	GetUsersByIDs(ctx context.Context, userIDs []string) ([]schema.User, error)

	// UpsertFeedMembership inserts a membership or refreshes an existing one.
	// An existing row keeps its earliest added_at and its assigned group.
	UpsertFeedMembership(ctx context.Context, membership *schema.FeedMembership) error
	// UpsertFeedMemberships is the bulk form of UpsertFeedMembership
	UpsertFeedMemberships(ctx context.Context, memberships []schema.FeedMembership) error
	// DeleteFeedMembership removes a membership and returns the removed row, nil when missing
	DeleteFeedMembership(ctx context.Context, feedID, eventID string) (*schema.FeedMembership, error)
	// GetFeedMembership retrieves a membership, nil when missing
	GetFeedMembership(ctx context.Context, feedID, eventID string) (*schema.FeedMembership, error)
	// GetFeedMembershipsByEvent retrieves every membership of an event across feeds
	GetFeedMembershipsByEvent(ctx context.Context, eventID string) ([]schema.FeedMembership, error)
	// GetFeedGroupMembers retrieves every membership of a (feed, group) pair joined with its event.
	// Memberships whose event no longer exists are returned last with EventExists false.
	GetFeedGroupMembers(ctx context.Context, feedID, groupID string) ([]FeedGroupMember, error)
	// UpdateMembershipTimingByEvent rewrites the denormalized timing of every membership of an event
	UpdateMembershipTimingByEvent(ctx context.Context, eventID string, startMillis, endMillis int64, hasEnded bool) error
	// UpdateMembershipTiming rewrites the denormalized timing of one membership
	UpdateMembershipTiming(ctx context.Context, feedID, eventID string, startMillis, endMillis int64, hasEnded bool) error
	// SetMembershipGroup assigns the group of a membership only if none is assigned yet
	SetMembershipGroup(ctx context.Context, feedID, eventID, groupID string) (bool, error)
	// ListFeedMemberships retrieves one keyset page of raw memberships keyed by event ID
	ListFeedMemberships(ctx context.Context, filter FeedPageFilter) ([]schema.FeedMembership, error)
	// GetMembershipsMissingGroup retrieves memberships without a group in (feed_id, event_id) order
	GetMembershipsMissingGroup(ctx context.Context, after *MembershipKey, limit int) ([]schema.FeedMembership, error)
	// GetMembershipsWithTimestampsInRange retrieves memberships whose denormalized start or end
	// falls into [fromMillis, toMillis), in (feed_id, event_id) order
	GetMembershipsWithTimestampsInRange(ctx context.Context, fromMillis, toMillis int64, after *MembershipKey, limit int) ([]schema.FeedMembership, error)
	// ListFeedGroupPairs retrieves the distinct grouped (feed, group) pairs of memberships in key order
	ListFeedGroupPairs(ctx context.Context, after *FeedGroupKey, limit int) ([]FeedGroupKey, error)
	// MarkEndedMemberships flips has_ended on memberships whose end is before nowMillis
	MarkEndedMemberships(ctx context.Context, nowMillis int64) (int64, error)

	// GetGroupedFeedEntry retrieves a grouped entry, nil when missing
	GetGroupedFeedEntry(ctx context.Context, feedID, groupID string) (*schema.GroupedFeedEntry, error)
	// UpsertGroupedFeedEntry writes a grouped entry
	UpsertGroupedFeedEntry(ctx context.Context, entry *schema.GroupedFeedEntry) error
	// DeleteGroupedFeedEntry removes a grouped entry and reports whether a row existed
	DeleteGroupedFeedEntry(ctx context.Context, feedID, groupID string) (bool, error)
	// ListGroupedFeedEntries retrieves one keyset page of grouped entries keyed by group ID
	ListGroupedFeedEntries(ctx context.Context, filter FeedPageFilter) ([]schema.GroupedFeedEntry, error)
	// GetGroupedFeedEntriesByPrimary retrieves the entries whose primary is the given event
	GetGroupedFeedEntriesByPrimary(ctx context.Context, eventID string) ([]schema.GroupedFeedEntry, error)
	// GetEndedGroupedFeedEntries retrieves entries whose primary ended before nowMillis but are not flagged yet
	GetEndedGroupedFeedEntries(ctx context.Context, nowMillis int64, limit int) ([]FeedGroupKey, error)
	// GetOrphanedGroupedFeedEntries retrieves entries that have no membership left
	GetOrphanedGroupedFeedEntries(ctx context.Context, limit int) ([]FeedGroupKey, error)
	// GetUnmaterializedFeedGroups retrieves grouped membership pairs that have no entry
	GetUnmaterializedFeedGroups(ctx context.Context, limit int) ([]FeedGroupKey, error)
}
