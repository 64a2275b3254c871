package schema

import "time"

// GroupedFeedEntry represents the grouped_feed_entries table - the materialized summary of
// all members of one similarity group inside one feed. Written only by the materializer.
type GroupedFeedEntry struct {
	// FeedID is the feed this entry belongs to
	FeedID string `gorm:"column:feed_id;primaryKey;type:text"`
	// SimilarityGroupID is the summarized group
	SimilarityGroupID string `gorm:"column:similarity_group_id;primaryKey;type:text"`
	// PrimaryEventID is the member shown in place of the group
	PrimaryEventID string `gorm:"column:primary_event_id;not null;type:text"`
	// EventStartTime is the primary's start in epoch millis
	EventStartTime int64 `gorm:"column:event_start_time;not null"`
	// EventEndTime is the primary's end in epoch millis
	EventEndTime int64 `gorm:"column:event_end_time;not null"`
	// AddedAt is the earliest added_at across the group's memberships in this feed
	AddedAt time.Time `gorm:"column:added_at;not null;type:timestamptz"`
	// HasEnded is true once the primary's end passed
	HasEnded bool `gorm:"column:has_ended;not null;default:false"`
	// SimilarEventsCount is the number of members other than the primary
	SimilarEventsCount int `gorm:"column:similar_events_count;not null;default:0"`
}

// TableName specifies the table name for the GroupedFeedEntry model
func (GroupedFeedEntry) TableName() string {
	return "grouped_feed_entries"
}
