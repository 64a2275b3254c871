package domain

import (
	"fmt"
	"strings"
	"time"
)

// FeedKind represents the kind of feed a feed ID denotes
type FeedKind string

const (
	// FeedKindPersonal is a user's own feed ("user_<id>")
	FeedKindPersonal FeedKind = "user"
	// FeedKindDiscover is the global discover feed ("discover")
	FeedKindDiscover FeedKind = "discover"
	// FeedKindList is a list-scoped feed ("list_<id>")
	FeedKindList FeedKind = "list"
)

// FeedID is the opaque identifier of a feed, e.g. "user_42", "discover" or "list_abc"
type FeedID string

// PersonalFeedID returns the personal feed ID for a user
func PersonalFeedID(userID string) FeedID {
	return FeedID(PERSONAL_FEED_PREFIX + userID)
}

// ListFeedID returns the feed ID for a list
func ListFeedID(listID string) FeedID {
	return FeedID(LIST_FEED_PREFIX + listID)
}

// ParseFeedID validates a raw feed identifier
func ParseFeedID(raw string) (FeedID, error) {
	feedID := FeedID(strings.TrimSpace(raw))
	if !feedID.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidFeedID, raw)
	}
	return feedID, nil
}

// Valid checks whether the feed ID is one of the supported shapes
func (f FeedID) Valid() bool {
	s := string(f)
	switch {
	case s == DISCOVER_FEED_ID:
		return true
	case strings.HasPrefix(s, PERSONAL_FEED_PREFIX):
		return len(s) > len(PERSONAL_FEED_PREFIX) && !strings.ContainsAny(s, " \t\n")
	case strings.HasPrefix(s, LIST_FEED_PREFIX):
		return len(s) > len(LIST_FEED_PREFIX) && !strings.ContainsAny(s, " \t\n")
	default:
		return false
	}
}

// Kind returns the feed kind. Callers should check Valid first.
func (f FeedID) Kind() FeedKind {
	s := string(f)
	switch {
	case s == DISCOVER_FEED_ID:
		return FeedKindDiscover
	case strings.HasPrefix(s, PERSONAL_FEED_PREFIX):
		return FeedKindPersonal
	case strings.HasPrefix(s, LIST_FEED_PREFIX):
		return FeedKindList
	default:
		return ""
	}
}

// OwnerUserID returns the user owning a personal feed
func (f FeedID) OwnerUserID() (string, bool) {
	if f.Kind() != FeedKindPersonal {
		return "", false
	}
	return strings.TrimPrefix(string(f), PERSONAL_FEED_PREFIX), true
}

// String returns the string representation of the feed ID
func (f FeedID) String() string {
	return string(f)
}

// Direction selects the upcoming or past view of a feed
type Direction string

const (
	DirectionUpcoming Direction = "upcoming"
	DirectionPast     Direction = "past"
)

// ParseDirection validates a raw direction, defaulting to upcoming when empty
func ParseDirection(raw string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(raw))) {
	case "", DirectionUpcoming:
		return DirectionUpcoming, nil
	case DirectionPast:
		return DirectionPast, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidDirection, raw)
	}
}

// Visibility controls whether an event is published to the discover feed
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// Valid checks whether the visibility is supported
func (v Visibility) Valid() bool {
	return v == VisibilityPublic || v == VisibilityPrivate
}

// AuthoringEventType is the type of message published by the event authoring pipeline
type AuthoringEventType string

const (
	AuthoringEventCreated           AuthoringEventType = "created"
	AuthoringEventUpdated           AuthoringEventType = "updated"
	AuthoringEventDeleted           AuthoringEventType = "deleted"
	AuthoringEventVisibilityChanged AuthoringEventType = "visibility_changed"
)

// AuthoredEvent is the event record supplied by the authoring pipeline
type AuthoredEvent struct {
	ID            string         `json:"id"`
	UserID        string         `json:"user_id"`
	Name          string         `json:"name"`
	Description   string         `json:"description"`
	Location      string         `json:"location"`
	StartDateTime time.Time      `json:"start_date_time"`
	EndDateTime   time.Time      `json:"end_date_time"`
	CreatedAt     time.Time      `json:"created_at"`
	Visibility    Visibility     `json:"visibility"`
	ListIDs       []string       `json:"list_ids,omitempty"`
	Metadata      *EventMetadata `json:"metadata,omitempty"`
}

// AuthoringMessage is the envelope consumed from the authoring pipeline
type AuthoringMessage struct {
	Type       AuthoringEventType `json:"type"`
	Event      AuthoredEvent      `json:"event"`
	Visibility Visibility         `json:"visibility,omitempty"`
}

// FeedChangeKind describes what happened to a grouped feed entry
type FeedChangeKind string

const (
	FeedChangeUpserted FeedChangeKind = "upserted"
	FeedChangeRemoved  FeedChangeKind = "removed"
)

// FeedChange is the notification published after a grouped feed entry changed
type FeedChange struct {
	FeedID             FeedID         `json:"feed_id"`
	SimilarityGroupID  string         `json:"similarity_group_id"`
	Kind               FeedChangeKind `json:"kind"`
	PrimaryEventID     string         `json:"primary_event_id,omitempty"`
	SimilarEventsCount int            `json:"similar_events_count"`
	ChangedAt          time.Time      `json:"changed_at"`
}
