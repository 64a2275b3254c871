package domain

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"
)

// FeedCursor is the decoded form of an opaque pagination token.
// It carries the snapshot boundary so every page of a session uses the same upcoming/past split.
type FeedCursor struct {
	Direction Direction `json:"d"`
	Grouped   bool      `json:"g"`
	Boundary  int64     `json:"b"`
	Start     int64     `json:"s"`
	Key       string    `json:"k"`
}

// BoundaryTime returns the snapshot boundary as a time
func (c FeedCursor) BoundaryTime() time.Time {
	return time.UnixMilli(c.Boundary).UTC()
}

// Encode serializes the cursor into an opaque URL-safe token
func (c FeedCursor) Encode() string {
	data, _ := json.Marshal(c)
	return base64.RawURLEncoding.EncodeToString(data)
}

// DecodeFeedCursor parses an opaque token produced by Encode
func DecodeFeedCursor(token string) (*FeedCursor, error) {
	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}

	var c FeedCursor
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}

	if c.Direction != DirectionUpcoming && c.Direction != DirectionPast {
		return nil, fmt.Errorf("%w: unknown direction %q", ErrInvalidCursor, c.Direction)
	}
	if c.Key == "" {
		return nil, fmt.Errorf("%w: missing key", ErrInvalidCursor)
	}

	return &c, nil
}
