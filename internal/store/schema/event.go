package schema

import (
	"time"

	"gorm.io/datatypes"
)

// Visibility controls whether an event is published to the discover feed
type Visibility string

const (
	// VisibilityPublic events are members of the discover feed
	VisibilityPublic Visibility = "public"
	// VisibilityPrivate events are only visible in their author's and list feeds
	VisibilityPrivate Visibility = "private"
)

// Event represents the events table - the authoritative record of an event submitted by a user
type Event struct {
	// ID is the event identifier assigned by the authoring pipeline
	ID string `gorm:"column:id;primaryKey;type:text"`
	// UserID is the author of the event
	UserID string `gorm:"column:user_id;not null;type:text"`
	// Name is the event title
	Name string `gorm:"column:name;not null;type:text"`
	// Description is the free-form event description
	Description string `gorm:"column:description;not null;default:'';type:text"`
	// Location is the free-form venue or address
	Location string `gorm:"column:location;not null;default:'';type:text"`
	// StartDateTime is when the event starts (UTC)
	StartDateTime time.Time `gorm:"column:start_date_time;not null;type:timestamptz;index:idx_events_start_date_time"`
	// EndDateTime is when the event ends (UTC)
	EndDateTime time.Time `gorm:"column:end_date_time;not null;type:timestamptz"`
	// SimilarityGroupID is the cluster of near-duplicate events this event belongs to.
	// NULL until assigned, immutable afterwards.
	SimilarityGroupID *string `gorm:"column:similarity_group_id;type:text"`
	// SimilarToEventID is the legacy forwarding pointer to the canonical event of a duplicate
	SimilarToEventID *string `gorm:"column:similar_to_event_id;type:text"`
	// Visibility is public or private
	Visibility Visibility `gorm:"column:visibility;not null;default:'private';type:text"`
	// Metadata describes the extraction source (screenshot, link or text) as JSON
	Metadata datatypes.JSON `gorm:"column:metadata;type:jsonb"`
	// CreatedAt is when the event was authored, used to pick group primaries
	CreatedAt time.Time `gorm:"column:created_at;not null;type:timestamptz;index:idx_events_created_at_id,priority:1"`
	// UpdatedAt is the timestamp when this record was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz;autoUpdateTime"`
}

// TableName specifies the table name for the Event model
func (Event) TableName() string {
	return "events"
}

// GroupID returns the similarity group id or an empty string when unassigned
func (e *Event) GroupID() string {
	if e == nil || e.SimilarityGroupID == nil {
		return ""
	}
	return *e.SimilarityGroupID
}
