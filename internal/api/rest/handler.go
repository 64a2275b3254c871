package rest

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/feral-file/ff-event-feed/internal/adapter"
	"github.com/feral-file/ff-event-feed/internal/api/middleware"
	"github.com/feral-file/ff-event-feed/internal/api/shared/dto"
	apierrors "github.com/feral-file/ff-event-feed/internal/api/shared/errors"
	"github.com/feral-file/ff-event-feed/internal/domain"
	"github.com/feral-file/ff-event-feed/internal/feed"
)

// Handler defines the interface for REST API handlers
type Handler interface {
	// GetFeed reads one page of a feed
	// GET /api/v1/feeds/:feed_id?direction=<upcoming|past>&limit=<limit>&cursor=<cursor>&before=<rfc3339>&grouped=<bool>
	// Personal feeds of other users are only readable when their owner made them public
	GetFeed(c *gin.Context)

	// AddFeedEvent adds an existing event to a feed (follow, list add)
	// PUT /api/v1/feeds/:feed_id/events/:event_id
	AddFeedEvent(c *gin.Context)

	// RemoveFeedEvent removes an event from a feed (unfollow, list remove)
	// DELETE /api/v1/feeds/:feed_id/events/:event_id
	RemoveFeedEvent(c *gin.Context)

	// CreateEvent ingests an authored event and places it into its feeds
	// POST /api/v1/events
	CreateEvent(c *gin.Context)

	// UpdateEvent edits an event
	// PATCH /api/v1/events/:event_id
	UpdateEvent(c *gin.Context)

	// DeleteEvent removes an event from every feed and deletes it
	// DELETE /api/v1/events/:event_id
	DeleteEvent(c *gin.Context)

	// SetEventVisibility publishes or withdraws an event
	// PUT /api/v1/events/:event_id/visibility
	SetEventVisibility(c *gin.Context)

	// SyncEvent recomputes every grouped entry the event participates in
	// POST /api/v1/events/:event_id/sync
	SyncEvent(c *gin.Context)

	// UpsertCurrentUser creates or updates the profile of the authenticated user
	// PUT /api/v1/users/me
	UpsertCurrentUser(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	debug bool
	feeds feed.Service
	clock adapter.Clock
}

// NewHandler creates a new REST API handler
func NewHandler(debug bool, feeds feed.Service, clock adapter.Clock) Handler {
	return &handler{
		debug: debug,
		feeds: feeds,
		clock: clock,
	}
}

// GetFeed reads one page of a feed
func (h *handler) GetFeed(c *gin.Context) {
	queryParams, err := ParseGetFeedQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	if err := queryParams.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	caller, privileged := middleware.Caller(c)
	page, err := h.feeds.QueryFeed(c.Request.Context(), queryParams.ToQuery(c.Param("feed_id"), caller, privileged))
	if err != nil {
		respondServiceError(c, err, "Failed to get feed", zap.String("feedID", c.Param("feed_id")))
		return
	}

	c.JSON(http.StatusOK, page)
}

// AddFeedEvent adds an existing event to a feed
func (h *handler) AddFeedEvent(c *gin.Context) {
	feedID, err := domain.ParseFeedID(c.Param("feed_id"))
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	// The body is optional
	var req dto.AddMembershipRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
			return
		}
	}

	var addedAt time.Time
	if req.AddedAt != nil {
		addedAt = *req.AddedAt
	}

	eventID := c.Param("event_id")
	if err := h.feeds.UpsertMembership(c.Request.Context(), feedID, eventID, addedAt); err != nil {
		respondServiceError(c, err, "Failed to add event to feed",
			zap.String("feedID", feedID.String()),
			zap.String("eventID", eventID))
		return
	}

	c.JSON(http.StatusOK, dto.StatusOK)
}

// RemoveFeedEvent removes an event from a feed
func (h *handler) RemoveFeedEvent(c *gin.Context) {
	feedID, err := domain.ParseFeedID(c.Param("feed_id"))
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	eventID := c.Param("event_id")
	if err := h.feeds.RemoveMembership(c.Request.Context(), feedID, eventID); err != nil {
		respondServiceError(c, err, "Failed to remove event from feed",
			zap.String("feedID", feedID.String()),
			zap.String("eventID", eventID))
		return
	}

	c.JSON(http.StatusOK, dto.StatusOK)
}

// CreateEvent ingests an authored event
func (h *handler) CreateEvent(c *gin.Context) {
	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	// Users can only author their own events
	caller, privileged := middleware.Caller(c)
	if !privileged {
		if req.UserID == "" {
			req.UserID = caller
		}
		if req.UserID != caller {
			respondForbidden(c, "Cannot create events for another user")
			return
		}
	}

	if err := req.Validate(); err != nil {
		respondRequestError(c, err)
		return
	}

	result, err := h.feeds.IngestEvent(c.Request.Context(), req.ToAuthoredEvent(h.clock.Now()))
	if err != nil {
		respondServiceError(c, err, "Failed to create event", zap.String("eventID", req.ID))
		return
	}

	c.JSON(http.StatusCreated, result)
}

// UpdateEvent edits an event
func (h *handler) UpdateEvent(c *gin.Context) {
	var req dto.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	eventID := c.Param("event_id")
	if err := h.feeds.UpdateEvent(c.Request.Context(), eventID, req.ToInput()); err != nil {
		respondServiceError(c, err, "Failed to update event", zap.String("eventID", eventID))
		return
	}

	c.JSON(http.StatusOK, dto.StatusOK)
}

// DeleteEvent deletes an event
func (h *handler) DeleteEvent(c *gin.Context) {
	eventID := c.Param("event_id")
	if err := h.feeds.DeleteEvent(c.Request.Context(), eventID); err != nil {
		respondServiceError(c, err, "Failed to delete event", zap.String("eventID", eventID))
		return
	}

	c.JSON(http.StatusOK, dto.StatusOK)
}

// SetEventVisibility publishes or withdraws an event
func (h *handler) SetEventVisibility(c *gin.Context) {
	var req dto.SetVisibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	if err := req.Validate(); err != nil {
		respondRequestError(c, err)
		return
	}

	eventID := c.Param("event_id")
	if err := h.feeds.SetEventVisibility(c.Request.Context(), eventID, req.Visibility); err != nil {
		respondServiceError(c, err, "Failed to set event visibility",
			zap.String("eventID", eventID),
			zap.String("visibility", string(req.Visibility)))
		return
	}

	c.JSON(http.StatusOK, dto.StatusOK)
}

// SyncEvent recomputes the grouped entries of an event
func (h *handler) SyncEvent(c *gin.Context) {
	eventID := c.Param("event_id")
	if err := h.feeds.SyncAllEntriesForEvent(c.Request.Context(), eventID); err != nil {
		respondServiceError(c, err, "Failed to sync event", zap.String("eventID", eventID))
		return
	}

	c.JSON(http.StatusOK, dto.StatusOK)
}

// UpsertCurrentUser updates the profile of the authenticated user
func (h *handler) UpsertCurrentUser(c *gin.Context) {
	caller, _ := middleware.Caller(c)
	if caller == "" {
		respondForbidden(c, "A user token is required")
		return
	}

	var req dto.UpsertUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	if err := req.Validate(); err != nil {
		respondRequestError(c, err)
		return
	}

	if err := h.feeds.UpsertUser(c.Request.Context(), req.ToProfile(caller)); err != nil {
		respondServiceError(c, err, "Failed to update user", zap.String("userID", caller))
		return
	}

	c.JSON(http.StatusOK, dto.StatusOK)
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{
		Status:  "ok",
		Service: "ff-event-feed-api",
	})
}

// respondRequestError responds with the API error returned by a request validator
func respondRequestError(c *gin.Context, err error) {
	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		c.JSON(http.StatusBadRequest, apiErr)
		return
	}
	respondBadRequest(c, "Invalid request", err.Error())
}
