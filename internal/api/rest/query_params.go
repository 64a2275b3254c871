package rest

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/feral-file/ff-event-feed/internal/feed"
)

// GetFeedQueryParams holds query parameters for GET /feeds/:feed_id
type GetFeedQueryParams struct {
	Direction string `form:"direction,default=upcoming"`
	Limit     int    `form:"limit,default=0"`
	Cursor    string `form:"cursor"`
	// Before is the RFC 3339 snapshot boundary echoed from the first page of a session
	Before  string `form:"before"`
	Grouped *bool  `form:"grouped"`
}

// ParseGetFeedQuery parses query parameters for GET /feeds/:feed_id
func ParseGetFeedQuery(c *gin.Context) (*GetFeedQueryParams, error) {
	var params GetFeedQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}
	return &params, nil
}

// Validate validates the query parameters
func (p *GetFeedQueryParams) Validate() error {
	if p.Limit < 0 {
		return fmt.Errorf("limit must not be negative")
	}
	if p.Before != "" {
		if _, err := time.Parse(time.RFC3339Nano, p.Before); err != nil {
			return fmt.Errorf("before must be an RFC 3339 timestamp: %w", err)
		}
	}
	return nil
}

// ToQuery converts the parameters into a feed query for feedID
func (p *GetFeedQueryParams) ToQuery(feedID, caller string, privileged bool) feed.Query {
	query := feed.Query{
		Caller:     caller,
		Privileged: privileged,
		FeedID:     feedID,
		Direction:  p.Direction,
		PageSize:   p.Limit,
		Cursor:     p.Cursor,
		Grouped:    p.Grouped,
	}
	if p.Before != "" {
		// Validated already
		before, _ := time.Parse(time.RFC3339Nano, p.Before)
		query.Before = &before
	}
	return query
}
