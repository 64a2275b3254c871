package feed

import (
	"time"

	"github.com/feral-file/ff-event-feed/internal/domain"
)

// IngestResult is returned after an authored event was stored and placed into its feeds
type IngestResult struct {
	EventID           string          `json:"event_id"`
	SimilarityGroupID string          `json:"similarity_group_id"`
	FeedIDs           []domain.FeedID `json:"feed_ids"`
}

// UpdateEventInput carries the editable fields of an event
type UpdateEventInput struct {
	Name          string
	Description   string
	Location      string
	StartDateTime time.Time
	EndDateTime   time.Time
	Metadata      *domain.EventMetadata
}

// UserProfile is the display information of an author
type UserProfile struct {
	ID          string
	Username    string
	DisplayName string
	PublicFeed  bool
}

// Query selects one page of a feed
type Query struct {
	// Caller is the user reading the feed, empty for service callers
	Caller string
	// Privileged callers bypass the personal feed visibility check
	Privileged bool
	// FeedID is the raw feed identifier
	FeedID string
	// Direction is "upcoming" (default) or "past"
	Direction string
	// PageSize is clamped to [1, MAX_PAGE_SIZE], DEFAULT_PAGE_SIZE when zero
	PageSize int
	// Cursor continues a pagination session
	Cursor string
	// Before is the snapshot boundary of the session, now when unset on the first page
	Before *time.Time
	// Grouped selects grouped entries (default) or raw memberships
	Grouped *bool
}

// Author is the joined author of a feed item
type Author struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}

// Item is one row of a feed page
type Item struct {
	EventID            string                `json:"event_id"`
	SimilarityGroupID  string                `json:"similarity_group_id,omitempty"`
	Name               string                `json:"name"`
	Description        string                `json:"description"`
	Location           string                `json:"location"`
	StartDateTime      time.Time             `json:"start_date_time"`
	EndDateTime        time.Time             `json:"end_date_time"`
	CreatedAt          time.Time             `json:"created_at"`
	Visibility         domain.Visibility     `json:"visibility"`
	Metadata           *domain.EventMetadata `json:"metadata,omitempty"`
	AddedAt            time.Time             `json:"added_at"`
	HasEnded           bool                  `json:"has_ended"`
	SimilarEventsCount int                   `json:"similar_events_count"`
	Author             *Author               `json:"author,omitempty"`
}

// Page is one page of a feed
type Page struct {
	FeedID     domain.FeedID    `json:"feed_id"`
	Direction  domain.Direction `json:"direction"`
	Grouped    bool             `json:"grouped"`
	Items      []Item           `json:"items"`
	NextCursor string           `json:"next_cursor,omitempty"`
	// Before is the snapshot boundary to echo on every later page of the session
	Before time.Time `json:"before"`
}
