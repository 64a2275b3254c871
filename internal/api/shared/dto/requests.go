package dto

import (
	"strings"
	"time"

	apierrors "github.com/feral-file/ff-event-feed/internal/api/shared/errors"
	"github.com/feral-file/ff-event-feed/internal/domain"
	"github.com/feral-file/ff-event-feed/internal/feed"
)

// MAX_LIST_IDS_PER_EVENT bounds the lists an event can be added to on creation
const MAX_LIST_IDS_PER_EVENT = 50

// CreateEventRequest represents the request body for ingesting an authored event
type CreateEventRequest struct {
	ID            string                `json:"id"`
	UserID        string                `json:"user_id"`
	Name          string                `json:"name"`
	Description   string                `json:"description"`
	Location      string                `json:"location"`
	StartDateTime time.Time             `json:"start_date_time"`
	EndDateTime   time.Time             `json:"end_date_time"`
	CreatedAt     *time.Time            `json:"created_at"`
	Visibility    domain.Visibility     `json:"visibility"`
	ListIDs       []string              `json:"list_ids"`
	Metadata      *domain.EventMetadata `json:"metadata"`
}

// Validate validates the request body.
// Field level rules (timing, metadata variant) are enforced by the feed service.
func (r *CreateEventRequest) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return apierrors.NewValidationError("id is required")
	}
	if strings.TrimSpace(r.UserID) == "" {
		return apierrors.NewValidationError("user_id is required")
	}
	if r.Visibility == "" {
		r.Visibility = domain.VisibilityPrivate
	}
	if !r.Visibility.Valid() {
		return apierrors.NewValidationError("visibility must be public or private")
	}
	if len(r.ListIDs) > MAX_LIST_IDS_PER_EVENT {
		return apierrors.NewValidationError("too many list_ids")
	}
	return nil
}

// ToAuthoredEvent converts the request into the event record. A missing created_at means now.
func (r *CreateEventRequest) ToAuthoredEvent(now time.Time) domain.AuthoredEvent {
	createdAt := now
	if r.CreatedAt != nil {
		createdAt = *r.CreatedAt
	}

	return domain.AuthoredEvent{
		ID:            r.ID,
		UserID:        r.UserID,
		Name:          r.Name,
		Description:   r.Description,
		Location:      r.Location,
		StartDateTime: r.StartDateTime,
		EndDateTime:   r.EndDateTime,
		CreatedAt:     createdAt,
		Visibility:    r.Visibility,
		ListIDs:       r.ListIDs,
		Metadata:      r.Metadata,
	}
}

// UpdateEventRequest represents the request body for editing an event
type UpdateEventRequest struct {
	Name          string                `json:"name"`
	Description   string                `json:"description"`
	Location      string                `json:"location"`
	StartDateTime time.Time             `json:"start_date_time"`
	EndDateTime   time.Time             `json:"end_date_time"`
	Metadata      *domain.EventMetadata `json:"metadata"`
}

// ToInput converts the request into the service input
func (r *UpdateEventRequest) ToInput() feed.UpdateEventInput {
	return feed.UpdateEventInput{
		Name:          r.Name,
		Description:   r.Description,
		Location:      r.Location,
		StartDateTime: r.StartDateTime,
		EndDateTime:   r.EndDateTime,
		Metadata:      r.Metadata,
	}
}

// SetVisibilityRequest represents the request body for publishing or withdrawing an event
type SetVisibilityRequest struct {
	Visibility domain.Visibility `json:"visibility"`
}

// Validate validates the request body
func (r *SetVisibilityRequest) Validate() error {
	if !r.Visibility.Valid() {
		return apierrors.NewValidationError("visibility must be public or private")
	}
	return nil
}

// AddMembershipRequest represents the optional request body for adding an event to a feed
type AddMembershipRequest struct {
	// AddedAt defaults to now. Re-adding keeps the earliest value.
	AddedAt *time.Time `json:"added_at"`
}

// UpsertUserRequest represents the request body for updating the caller's profile
type UpsertUserRequest struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	PublicFeed  bool   `json:"public_feed"`
}

// Validate validates the request body
func (r *UpsertUserRequest) Validate() error {
	if strings.TrimSpace(r.Username) == "" {
		return apierrors.NewValidationError("username is required")
	}
	return nil
}

// ToProfile converts the request into the profile of userID
func (r *UpsertUserRequest) ToProfile(userID string) feed.UserProfile {
	return feed.UserProfile{
		ID:          userID,
		Username:    strings.TrimSpace(r.Username),
		DisplayName: strings.TrimSpace(r.DisplayName),
		PublicFeed:  r.PublicFeed,
	}
}
