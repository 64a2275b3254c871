package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/feral-file/ff-event-feed/internal/domain"
	"github.com/feral-file/ff-event-feed/internal/store/schema"
)

type pgStore struct {
	db *gorm.DB
}

// dbError marks a failed database call as a transient store error
func dbError(err error, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrTransientStore, fmt.Sprintf(format, args...), err)
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// ConfigureConnectionPool configures the connection pool settings for a GORM database connection.
// It accesses the underlying *sql.DB and sets the pool configuration.
// If any of the pool settings are 0 or empty, reasonable defaults are used:
//   - MaxOpenConns: 20 (if 0)
//   - MaxIdleConns: 5 (if 0)
//   - ConnMaxLifetime: 5 minutes (if 0)
//   - ConnMaxIdleTime: 10 minutes (if 0)
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime =
		NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// NormalizeConnectionPoolSettings applies defaults and clamps pool settings into safe values.
//
// Defaults (when zero):
//   - MaxOpenConns: 20
//   - MaxIdleConns: 5
//   - ConnMaxLifetime: 5 minutes
//   - ConnMaxIdleTime: 10 minutes
func NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) (int, int, time.Duration, time.Duration) {
	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}

	// Ensure MaxIdleConns doesn't exceed MaxOpenConns
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	return maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime
}

// calculateSafeBatchSize computes the batch size for bulk inserts that stays below
// PostgreSQL's limit of 65535 parameters per statement.
//
// Example with headroom of 1000:
//   - FeedMembership struct: 7 fields → (65,535 - 1,000) / 7 = 9,219 records/batch
func calculateSafeBatchSize(totalRecords int, fieldsPerRecord int) int {
	const maxParams = 65535
	const totalHeadroom = 1000 // Total parameter headroom for batch-level overhead

	availableParams := maxParams - totalHeadroom
	safeBatchSize := max(availableParams/fieldsPerRecord, 1)

	if safeBatchSize > totalRecords {
		return totalRecords
	}

	return safeBatchSize
}

// WithTransaction runs fn inside a transaction. Nested calls use savepoints.
// Errors returned by fn come back unchanged; begin and commit failures are transient.
func (s *pgStore) WithTransaction(ctx context.Context, fn func(tx Store) error) error {
	var fnErr error
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fnErr = fn(&pgStore{db: tx})
		return fnErr
	})
	if err != nil && fnErr == nil {
		return dbError(err, "failed to commit transaction")
	}
	return err
}

// LockFeedGroup takes pg_advisory_xact_lock on the (feed, group) pair.
// The lock is released when the surrounding transaction ends.
func (s *pgStore) LockFeedGroup(ctx context.Context, feedID, groupID string) error {
	err := s.db.WithContext(ctx).
		Exec("SELECT pg_advisory_xact_lock(hashtext(?))", feedID+":"+groupID).Error
	if err != nil {
		return dbError(err, "failed to lock feed group %s/%s", feedID, groupID)
	}
	return nil
}

// CreateEvent inserts a new event
func (s *pgStore) CreateEvent(ctx context.Context, event *schema.Event) error {
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoNothing: true,
		}).
		Create(event)
	if result.Error != nil {
		return dbError(result.Error, "failed to create event")
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", domain.ErrEventAlreadyExists, event.ID)
	}
	return nil
}

// GetEventByID retrieves an event by its ID
func (s *pgStore) GetEventByID(ctx context.Context, eventID string) (*schema.Event, error) {
	var event schema.Event
	err := s.db.WithContext(ctx).Where("id = ?", eventID).First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, dbError(err, "failed to get event")
	}
	return &event, nil
}

// GetEventsByIDs retrieves events by their IDs
func (s *pgStore) GetEventsByIDs(ctx context.Context, eventIDs []string) ([]schema.Event, error) {
	if len(eventIDs) == 0 {
		return []schema.Event{}, nil
	}

	var events []schema.Event
	err := s.db.WithContext(ctx).
		Where("id IN ?", eventIDs).
		Find(&events).Error
	if err != nil {
		return nil, dbError(err, "failed to get events by IDs")
	}

	return events, nil
}

// GetEventsStartingBetween retrieves the candidate window of the group resolver.
// Candidates come back in start_date_time index order; creation time and id break ties.
func (s *pgStore) GetEventsStartingBetween(ctx context.Context, from, to time.Time) ([]schema.Event, error) {
	var events []schema.Event
	err := s.db.WithContext(ctx).
		Where("start_date_time >= ? AND start_date_time <= ?", from.UTC(), to.UTC()).
		Order("start_date_time ASC, created_at ASC, id ASC").
		Find(&events).Error
	if err != nil {
		return nil, dbError(err, "failed to get events starting between %s and %s", from, to)
	}
	return events, nil
}

// ListEventsByCreation retrieves events in creation order using keyset pagination
func (s *pgStore) ListEventsByCreation(ctx context.Context, after *EventKey, limit int) ([]schema.Event, error) {
	query := s.db.WithContext(ctx).Model(&schema.Event{})
	if after != nil {
		query = query.Where("(created_at, id) > (?, ?)", after.CreatedAt, after.ID)
	}

	var events []schema.Event
	err := query.
		Order("created_at ASC, id ASC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, dbError(err, "failed to list events by creation")
	}
	return events, nil
}

// UpdateEventDetails overwrites the mutable fields of an event
func (s *pgStore) UpdateEventDetails(ctx context.Context, eventID string, input UpdateEventDetailsInput) error {
	updates := map[string]interface{}{
		"name":            input.Name,
		"description":     input.Description,
		"location":        input.Location,
		"start_date_time": input.StartDateTime.UTC(),
		"end_date_time":   input.EndDateTime.UTC(),
	}
	if input.Metadata != nil {
		updates["metadata"] = input.Metadata
	}

	err := s.db.WithContext(ctx).
		Model(&schema.Event{}).
		Where("id = ?", eventID).
		Updates(updates).Error
	if err != nil {
		return dbError(err, "failed to update event")
	}
	return nil
}

// SetEventVisibility updates the visibility of an event
func (s *pgStore) SetEventVisibility(ctx context.Context, eventID string, visibility schema.Visibility) error {
	err := s.db.WithContext(ctx).
		Model(&schema.Event{}).
		Where("id = ?", eventID).
		Update("visibility", visibility).Error
	if err != nil {
		return dbError(err, "failed to set event visibility")
	}
	return nil
}

// AssignSimilarityGroup is a compare-and-set on a NULL similarity_group_id
func (s *pgStore) AssignSimilarityGroup(ctx context.Context, eventID, groupID string) (bool, error) {
	result := s.db.WithContext(ctx).
		Model(&schema.Event{}).
		Where("id = ? AND similarity_group_id IS NULL", eventID).
		Update("similarity_group_id", groupID)
	if result.Error != nil {
		return false, dbError(result.Error, "failed to assign similarity group")
	}
	return result.RowsAffected == 1, nil
}

// DeleteEvent deletes an event row
func (s *pgStore) DeleteEvent(ctx context.Context, eventID string) error {
	err := s.db.WithContext(ctx).
		Where("id = ?", eventID).
		Delete(&schema.Event{}).Error
	if err != nil {
		return dbError(err, "failed to delete event")
	}
	return nil
}

// UpsertUser creates or updates a user
func (s *pgStore) UpsertUser(ctx context.Context, user *schema.User) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"username", "display_name", "public_feed", "updated_at"}),
		}).
		Create(user).Error
	if err != nil {
		return dbError(err, "failed to upsert user")
	}
	return nil
}

// GetUserByID retrieves a user by ID
func (s *pgStore) GetUserByID(ctx context.Context, userID string) (*schema.User, error) {
	var user schema.User
	err := s.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, dbError(err, "failed to get user")
	}
	return &user, nil
}

// GetUsersByIDs retrieves users by their IDs
func (s *pgStore) GetUsersByIDs(ctx context.Context, userIDs []string) ([]schema.User, error) {
	if len(userIDs) == 0 {
		return []schema.User{}, nil
	}

	var users []schema.User
	err := s.db.WithContext(ctx).Where("id IN ?", userIDs).Find(&users).Error
	if err != nil {
		return nil, dbError(err, "failed to get users by IDs")
	}
	return users, nil
}

// membershipUpsertClause keeps the earliest added_at and an already assigned group
// while refreshing the denormalized timing from the incoming row.
func membershipUpsertClause() clause.OnConflict {
	return clause.OnConflict{
		Columns: []clause.Column{{Name: "feed_id"}, {Name: "event_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"added_at":            gorm.Expr("LEAST(feed_memberships.added_at, excluded.added_at)"),
			"similarity_group_id": gorm.Expr("COALESCE(feed_memberships.similarity_group_id, excluded.similarity_group_id)"),
			"event_start_time":    gorm.Expr("excluded.event_start_time"),
			"event_end_time":      gorm.Expr("excluded.event_end_time"),
			"has_ended":           gorm.Expr("excluded.has_ended"),
		}),
	}
}

// UpsertFeedMembership inserts or refreshes a membership
func (s *pgStore) UpsertFeedMembership(ctx context.Context, membership *schema.FeedMembership) error {
	err := s.db.WithContext(ctx).
		Clauses(membershipUpsertClause()).
		Create(membership).Error
	if err != nil {
		return dbError(err, "failed to upsert feed membership")
	}
	return nil
}

// UpsertFeedMemberships inserts or refreshes memberships in batches
func (s *pgStore) UpsertFeedMemberships(ctx context.Context, memberships []schema.FeedMembership) error {
	if len(memberships) == 0 {
		return nil
	}

	batchSize := calculateSafeBatchSize(len(memberships), 7)
	err := s.db.WithContext(ctx).
		Clauses(membershipUpsertClause()).
		CreateInBatches(memberships, batchSize).Error
	if err != nil {
		return dbError(err, "failed to upsert feed memberships")
	}
	return nil
}

// DeleteFeedMembership removes a membership and returns the removed row
func (s *pgStore) DeleteFeedMembership(ctx context.Context, feedID, eventID string) (*schema.FeedMembership, error) {
	var deleted []schema.FeedMembership
	err := s.db.WithContext(ctx).
		Clauses(clause.Returning{}).
		Where("feed_id = ? AND event_id = ?", feedID, eventID).
		Delete(&deleted).Error
	if err != nil {
		return nil, dbError(err, "failed to delete feed membership")
	}
	if len(deleted) == 0 {
		return nil, nil
	}
	return &deleted[0], nil
}

// GetFeedMembership retrieves a membership
func (s *pgStore) GetFeedMembership(ctx context.Context, feedID, eventID string) (*schema.FeedMembership, error) {
	var membership schema.FeedMembership
	err := s.db.WithContext(ctx).
		Where("feed_id = ? AND event_id = ?", feedID, eventID).
		First(&membership).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, dbError(err, "failed to get feed membership")
	}
	return &membership, nil
}

// GetFeedMembershipsByEvent retrieves every membership of an event
func (s *pgStore) GetFeedMembershipsByEvent(ctx context.Context, eventID string) ([]schema.FeedMembership, error) {
	var memberships []schema.FeedMembership
	err := s.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("feed_id ASC").
		Find(&memberships).Error
	if err != nil {
		return nil, dbError(err, "failed to get feed memberships by event")
	}
	return memberships, nil
}

// GetFeedGroupMembers retrieves every membership of a (feed, group) pair ordered by event creation.
// Memberships whose event no longer exists come last with EventExists false and the
// membership's own timing.
func (s *pgStore) GetFeedGroupMembers(ctx context.Context, feedID, groupID string) ([]FeedGroupMember, error) {
	var members []FeedGroupMember
	err := s.db.WithContext(ctx).Raw(`
		SELECT
			m.event_id,
			e.id IS NOT NULL AS event_exists,
			COALESCE(e.user_id, '') AS user_id,
			COALESCE(e.created_at, m.added_at) AS created_at,
			COALESCE(e.start_date_time, to_timestamp(m.event_start_time / 1000.0)) AS start_date_time,
			COALESCE(e.end_date_time, to_timestamp(m.event_end_time / 1000.0)) AS end_date_time,
			m.added_at
		FROM feed_memberships m
		LEFT JOIN events e ON e.id = m.event_id
		WHERE m.feed_id = ? AND m.similarity_group_id = ?
		ORDER BY e.created_at ASC NULLS LAST, m.event_id ASC
	`, feedID, groupID).Scan(&members).Error
	if err != nil {
		return nil, dbError(err, "failed to get feed group members")
	}
	return members, nil
}

// UpdateMembershipTimingByEvent rewrites the denormalized timing of every membership of an event
func (s *pgStore) UpdateMembershipTimingByEvent(ctx context.Context, eventID string, startMillis, endMillis int64, hasEnded bool) error {
	err := s.db.WithContext(ctx).
		Model(&schema.FeedMembership{}).
		Where("event_id = ?", eventID).
		Updates(map[string]interface{}{
			"event_start_time": startMillis,
			"event_end_time":   endMillis,
			"has_ended":        hasEnded,
		}).Error
	if err != nil {
		return dbError(err, "failed to update membership timing")
	}
	return nil
}

// UpdateMembershipTiming rewrites the denormalized timing of one membership
func (s *pgStore) UpdateMembershipTiming(ctx context.Context, feedID, eventID string, startMillis, endMillis int64, hasEnded bool) error {
	err := s.db.WithContext(ctx).
		Model(&schema.FeedMembership{}).
		Where("feed_id = ? AND event_id = ?", feedID, eventID).
		Updates(map[string]interface{}{
			"event_start_time": startMillis,
			"event_end_time":   endMillis,
			"has_ended":        hasEnded,
		}).Error
	if err != nil {
		return dbError(err, "failed to update membership timing")
	}
	return nil
}

// SetMembershipGroup is a compare-and-set on a NULL membership similarity_group_id
func (s *pgStore) SetMembershipGroup(ctx context.Context, feedID, eventID, groupID string) (bool, error) {
	result := s.db.WithContext(ctx).
		Model(&schema.FeedMembership{}).
		Where("feed_id = ? AND event_id = ? AND similarity_group_id IS NULL", feedID, eventID).
		Update("similarity_group_id", groupID)
	if result.Error != nil {
		return false, dbError(result.Error, "failed to set membership group")
	}
	return result.RowsAffected == 1, nil
}

// applyFeedPage restricts a query to one keyset page of a feed.
// keyColumn is the tiebreaker after event_start_time.
func applyFeedPage(query *gorm.DB, filter FeedPageFilter, keyColumn string) *gorm.DB {
	query = query.Where("feed_id = ?", filter.FeedID)

	if filter.Direction == domain.DirectionPast {
		query = query.Where("event_end_time < ?", filter.Boundary)
		if filter.AfterKey != "" {
			query = query.Where(fmt.Sprintf("(event_start_time, %s) < (?, ?)", keyColumn), filter.AfterStart, filter.AfterKey)
		}
		query = query.Order(fmt.Sprintf("event_start_time DESC, %s DESC", keyColumn))
	} else {
		query = query.Where("event_end_time >= ?", filter.Boundary)
		if filter.AfterKey != "" {
			query = query.Where(fmt.Sprintf("(event_start_time, %s) > (?, ?)", keyColumn), filter.AfterStart, filter.AfterKey)
		}
		query = query.Order(fmt.Sprintf("event_start_time ASC, %s ASC", keyColumn))
	}

	return query.Limit(filter.Limit)
}

// ListFeedMemberships retrieves one page of raw memberships
func (s *pgStore) ListFeedMemberships(ctx context.Context, filter FeedPageFilter) ([]schema.FeedMembership, error) {
	var memberships []schema.FeedMembership
	query := applyFeedPage(s.db.WithContext(ctx).Model(&schema.FeedMembership{}), filter, "event_id")
	if err := query.Find(&memberships).Error; err != nil {
		return nil, dbError(err, "failed to list feed memberships")
	}
	return memberships, nil
}

// GetMembershipsMissingGroup retrieves legacy memberships without a group
func (s *pgStore) GetMembershipsMissingGroup(ctx context.Context, after *MembershipKey, limit int) ([]schema.FeedMembership, error) {
	query := s.db.WithContext(ctx).
		Model(&schema.FeedMembership{}).
		Where("similarity_group_id IS NULL")
	if after != nil {
		query = query.Where("(feed_id, event_id) > (?, ?)", after.FeedID, after.EventID)
	}

	var memberships []schema.FeedMembership
	err := query.
		Order("feed_id ASC, event_id ASC").
		Limit(limit).
		Find(&memberships).Error
	if err != nil {
		return nil, dbError(err, "failed to get memberships missing group")
	}
	return memberships, nil
}

// GetMembershipsWithTimestampsInRange retrieves memberships with a denormalized timestamp inside [fromMillis, toMillis)
func (s *pgStore) GetMembershipsWithTimestampsInRange(ctx context.Context, fromMillis, toMillis int64, after *MembershipKey, limit int) ([]schema.FeedMembership, error) {
	query := s.db.WithContext(ctx).
		Model(&schema.FeedMembership{}).
		Where("((event_start_time >= ? AND event_start_time < ?) OR (event_end_time >= ? AND event_end_time < ?))",
			fromMillis, toMillis, fromMillis, toMillis)
	if after != nil {
		query = query.Where("(feed_id, event_id) > (?, ?)", after.FeedID, after.EventID)
	}

	var memberships []schema.FeedMembership
	err := query.
		Order("feed_id ASC, event_id ASC").
		Limit(limit).
		Find(&memberships).Error
	if err != nil {
		return nil, dbError(err, "failed to get memberships with timestamps in range")
	}
	return memberships, nil
}

// ListFeedGroupPairs retrieves distinct (feed, group) pairs of grouped memberships
func (s *pgStore) ListFeedGroupPairs(ctx context.Context, after *FeedGroupKey, limit int) ([]FeedGroupKey, error) {
	query := s.db.WithContext(ctx).
		Model(&schema.FeedMembership{}).
		Distinct("feed_id", "similarity_group_id").
		Where("similarity_group_id IS NOT NULL")
	if after != nil {
		query = query.Where("(feed_id, similarity_group_id) > (?, ?)", after.FeedID, after.SimilarityGroupID)
	}

	var pairs []FeedGroupKey
	err := query.
		Order("feed_id ASC, similarity_group_id ASC").
		Limit(limit).
		Scan(&pairs).Error
	if err != nil {
		return nil, dbError(err, "failed to list feed group pairs")
	}
	return pairs, nil
}

// MarkEndedMemberships flips has_ended for memberships that ended before nowMillis
func (s *pgStore) MarkEndedMemberships(ctx context.Context, nowMillis int64) (int64, error) {
	result := s.db.WithContext(ctx).
		Model(&schema.FeedMembership{}).
		Where("has_ended = ? AND event_end_time < ?", false, nowMillis).
		Update("has_ended", true)
	if result.Error != nil {
		return 0, dbError(result.Error, "failed to mark ended memberships")
	}
	return result.RowsAffected, nil
}

// GetGroupedFeedEntry retrieves a grouped entry
func (s *pgStore) GetGroupedFeedEntry(ctx context.Context, feedID, groupID string) (*schema.GroupedFeedEntry, error) {
	var entry schema.GroupedFeedEntry
	err := s.db.WithContext(ctx).
		Where("feed_id = ? AND similarity_group_id = ?", feedID, groupID).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, dbError(err, "failed to get grouped feed entry")
	}
	return &entry, nil
}

// UpsertGroupedFeedEntry writes a grouped entry, replacing every derived column
func (s *pgStore) UpsertGroupedFeedEntry(ctx context.Context, entry *schema.GroupedFeedEntry) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "feed_id"}, {Name: "similarity_group_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"primary_event_id",
				"event_start_time",
				"event_end_time",
				"added_at",
				"has_ended",
				"similar_events_count",
			}),
		}).
		Create(entry).Error
	if err != nil {
		return dbError(err, "failed to upsert grouped feed entry")
	}
	return nil
}

// DeleteGroupedFeedEntry removes a grouped entry
func (s *pgStore) DeleteGroupedFeedEntry(ctx context.Context, feedID, groupID string) (bool, error) {
	result := s.db.WithContext(ctx).
		Where("feed_id = ? AND similarity_group_id = ?", feedID, groupID).
		Delete(&schema.GroupedFeedEntry{})
	if result.Error != nil {
		return false, dbError(result.Error, "failed to delete grouped feed entry")
	}
	return result.RowsAffected > 0, nil
}

// ListGroupedFeedEntries retrieves one page of grouped entries
func (s *pgStore) ListGroupedFeedEntries(ctx context.Context, filter FeedPageFilter) ([]schema.GroupedFeedEntry, error) {
	var entries []schema.GroupedFeedEntry
	query := applyFeedPage(s.db.WithContext(ctx).Model(&schema.GroupedFeedEntry{}), filter, "similarity_group_id")
	if err := query.Find(&entries).Error; err != nil {
		return nil, dbError(err, "failed to list grouped feed entries")
	}
	return entries, nil
}

// GetGroupedFeedEntriesByPrimary retrieves the entries whose primary is the given event
func (s *pgStore) GetGroupedFeedEntriesByPrimary(ctx context.Context, eventID string) ([]schema.GroupedFeedEntry, error) {
	var entries []schema.GroupedFeedEntry
	err := s.db.WithContext(ctx).
		Where("primary_event_id = ?", eventID).
		Order("feed_id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, dbError(err, "failed to get grouped feed entries by primary")
	}
	return entries, nil
}

// GetEndedGroupedFeedEntries retrieves entries whose primary ended but are not flagged yet
func (s *pgStore) GetEndedGroupedFeedEntries(ctx context.Context, nowMillis int64, limit int) ([]FeedGroupKey, error) {
	var keys []FeedGroupKey
	err := s.db.WithContext(ctx).
		Model(&schema.GroupedFeedEntry{}).
		Select("feed_id, similarity_group_id").
		Where("has_ended = ? AND event_end_time < ?", false, nowMillis).
		Order("feed_id ASC, similarity_group_id ASC").
		Limit(limit).
		Scan(&keys).Error
	if err != nil {
		return nil, dbError(err, "failed to get ended grouped feed entries")
	}
	return keys, nil
}

// GetOrphanedGroupedFeedEntries retrieves entries without any live member
func (s *pgStore) GetOrphanedGroupedFeedEntries(ctx context.Context, limit int) ([]FeedGroupKey, error) {
	var keys []FeedGroupKey
	err := s.db.WithContext(ctx).Raw(`
		SELECT g.feed_id, g.similarity_group_id
		FROM grouped_feed_entries g
		WHERE NOT EXISTS (
			SELECT 1
			FROM feed_memberships m
			JOIN events e ON e.id = m.event_id
			WHERE m.feed_id = g.feed_id AND m.similarity_group_id = g.similarity_group_id
		)
		ORDER BY g.feed_id ASC, g.similarity_group_id ASC
		LIMIT ?
	`, limit).Scan(&keys).Error
	if err != nil {
		return nil, dbError(err, "failed to get orphaned grouped feed entries")
	}
	return keys, nil
}

// GetUnmaterializedFeedGroups retrieves grouped membership pairs without an entry,
// including pairs whose only memberships are dangling
func (s *pgStore) GetUnmaterializedFeedGroups(ctx context.Context, limit int) ([]FeedGroupKey, error) {
	var keys []FeedGroupKey
	err := s.db.WithContext(ctx).Raw(`
		SELECT DISTINCT m.feed_id, m.similarity_group_id
		FROM feed_memberships m
		WHERE m.similarity_group_id IS NOT NULL
		  AND NOT EXISTS (
			SELECT 1
			FROM grouped_feed_entries g
			WHERE g.feed_id = m.feed_id AND g.similarity_group_id = m.similarity_group_id
		  )
		ORDER BY m.feed_id ASC, m.similarity_group_id ASC
		LIMIT ?
	`, limit).Scan(&keys).Error
	if err != nil {
		return nil, dbError(err, "failed to get unmaterialized feed groups")
	}
	return keys, nil
}
