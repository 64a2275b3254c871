package schema

import "time"

// FeedMembership represents the feed_memberships table - one row per (feed, event).
// Start and end times are denormalized copies of the event's timing in epoch millis.
type FeedMembership struct {
	// FeedID is the feed the event belongs to (user_<id>, discover, list_<id>)
	FeedID string `gorm:"column:feed_id;primaryKey;type:text"`
	// EventID references the member event
	EventID string `gorm:"column:event_id;primaryKey;type:text;index:idx_feed_memberships_event_id"`
	// SimilarityGroupID is copied from the event. NULL on legacy rows awaiting propagation.
	SimilarityGroupID *string `gorm:"column:similarity_group_id;type:text"`
	// EventStartTime is the event start in epoch millis
	EventStartTime int64 `gorm:"column:event_start_time;not null"`
	// EventEndTime is the event end in epoch millis
	EventEndTime int64 `gorm:"column:event_end_time;not null"`
	// AddedAt is when the event first entered the feed
	AddedAt time.Time `gorm:"column:added_at;not null;type:timestamptz"`
	// HasEnded is true once the event end passed
	HasEnded bool `gorm:"column:has_ended;not null;default:false"`
}

// TableName specifies the table name for the FeedMembership model
func (FeedMembership) TableName() string {
	return "feed_memberships"
}

// GroupID returns the similarity group id or an empty string when unassigned
func (m *FeedMembership) GroupID() string {
	if m == nil || m.SimilarityGroupID == nil {
		return ""
	}
	return *m.SimilarityGroupID
}
