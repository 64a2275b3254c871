package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFeedID(t *testing.T) {
	tests := []struct {
		name         string
		raw          string
		expectError  bool
		expectedKind FeedKind
	}{
		{
			name:         "personal feed",
			raw:          "user_42",
			expectedKind: FeedKindPersonal,
		},
		{
			name:         "discover feed",
			raw:          "discover",
			expectedKind: FeedKindDiscover,
		},
		{
			name:         "list feed",
			raw:          "list_abc",
			expectedKind: FeedKindList,
		},
		{
			name:         "surrounding whitespace is trimmed",
			raw:          "  user_7 ",
			expectedKind: FeedKindPersonal,
		},
		{
			name:        "empty",
			raw:         "",
			expectError: true,
		},
		{
			name:        "personal prefix without id",
			raw:         "user_",
			expectError: true,
		},
		{
			name:        "list prefix without id",
			raw:         "list_",
			expectError: true,
		},
		{
			name:        "unknown prefix",
			raw:         "group_1",
			expectError: true,
		},
		{
			name:        "inner whitespace",
			raw:         "user_4 2",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			feedID, err := ParseFeedID(tt.raw)
			if tt.expectError {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrValidation))
				assert.True(t, errors.Is(err, ErrInvalidFeedID))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedKind, feedID.Kind())
		})
	}
}

func TestFeedID_OwnerUserID(t *testing.T) {
	owner, ok := PersonalFeedID("42").OwnerUserID()
	assert.True(t, ok)
	assert.Equal(t, "42", owner)

	_, ok = FeedID(DISCOVER_FEED_ID).OwnerUserID()
	assert.False(t, ok)

	_, ok = ListFeedID("abc").OwnerUserID()
	assert.False(t, ok)
}

func TestParseDirection(t *testing.T) {
	d, err := ParseDirection("")
	require.NoError(t, err)
	assert.Equal(t, DirectionUpcoming, d)

	d, err = ParseDirection("PAST")
	require.NoError(t, err)
	assert.Equal(t, DirectionPast, d)

	_, err = ParseDirection("sideways")
	assert.ErrorIs(t, err, ErrInvalidDirection)
}

func TestIsRetryable(t *testing.T) {
	assert.False(t, IsRetryable(nil))
	assert.False(t, IsRetryable(ErrInvalidFeedID))
	assert.False(t, IsRetryable(ErrEventNotFound))
	assert.False(t, IsRetryable(ErrFeedAccessDenied))
	assert.True(t, IsRetryable(ErrTransientStore))
	assert.True(t, IsRetryable(errors.New("connection reset by peer")))
}

func TestEventTiming(t *testing.T) {
	start := time.Date(2026, 3, 1, 20, 0, 0, 0, time.FixedZone("CET", 3600))
	end := start.Add(2 * time.Hour)
	timing := NewEventTiming(start, end)

	assert.Equal(t, time.UTC, timing.Start.Location())
	assert.Equal(t, start.UnixMilli(), timing.StartMillis())
	assert.Equal(t, end.UnixMilli(), timing.EndMillis())
	assert.True(t, timing.Valid())

	rebuilt := EventTimingFromMillis(timing.StartMillis(), timing.EndMillis())
	assert.True(t, rebuilt.Start.Equal(start))
	assert.True(t, rebuilt.End.Equal(end))

	t.Run("has ended is strict", func(t *testing.T) {
		assert.False(t, timing.HasEnded(end))
		assert.True(t, timing.HasEnded(end.Add(time.Millisecond)))
		assert.False(t, timing.HasEnded(start))
	})

	t.Run("end before start is invalid", func(t *testing.T) {
		assert.False(t, NewEventTiming(end, start).Valid())
		assert.False(t, NewEventTiming(time.Time{}, end).Valid())
	})
}

func TestYearRange(t *testing.T) {
	r := YearRange{From: 1970, To: 1971}

	assert.True(t, r.ContainsMillis(0))
	assert.True(t, r.ContainsMillis(1_700_000_000)) // seconds stored as millis
	assert.False(t, r.ContainsMillis(1_700_000_000_000))

	from, to := r.MillisBounds()
	assert.Equal(t, int64(0), from)
	assert.Equal(t, time.Date(1971, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli(), to)
}

func TestEventMetadata_Validate(t *testing.T) {
	tests := []struct {
		name        string
		metadata    EventMetadata
		expectError bool
	}{
		{
			name: "valid screenshot",
			metadata: EventMetadata{
				Kind:       SourceKindScreenshot,
				Screenshot: &ScreenshotSource{ImageURL: "https://cdn.example.com/a.png"},
			},
		},
		{
			name: "screenshot with image mime type",
			metadata: EventMetadata{
				Kind:       SourceKindScreenshot,
				Screenshot: &ScreenshotSource{ImageURL: "https://cdn.example.com/a.jpg", MimeType: "image/jpeg"},
			},
		},
		{
			name: "screenshot with non image mime type",
			metadata: EventMetadata{
				Kind:       SourceKindScreenshot,
				Screenshot: &ScreenshotSource{ImageURL: "https://cdn.example.com/a.pdf", MimeType: "application/pdf"},
			},
			expectError: true,
		},
		{
			name: "screenshot with unknown mime type",
			metadata: EventMetadata{
				Kind:       SourceKindScreenshot,
				Screenshot: &ScreenshotSource{ImageURL: "https://cdn.example.com/a", MimeType: "image/not-a-format"},
			},
			expectError: true,
		},
		{
			name: "valid link",
			metadata: EventMetadata{
				Kind: SourceKindLink,
				Link: &LinkSource{URL: "https://example.com/show"},
			},
		},
		{
			name: "valid text",
			metadata: EventMetadata{
				Kind: SourceKindText,
				Text: &TextSource{RawText: "jazz night friday 8pm"},
			},
		},
		{
			name:        "no payload",
			metadata:    EventMetadata{Kind: SourceKindText},
			expectError: true,
		},
		{
			name: "payload does not match kind",
			metadata: EventMetadata{
				Kind: SourceKindLink,
				Text: &TextSource{RawText: "hello"},
			},
			expectError: true,
		},
		{
			name: "two payloads",
			metadata: EventMetadata{
				Kind: SourceKindLink,
				Link: &LinkSource{URL: "https://example.com"},
				Text: &TextSource{RawText: "hello"},
			},
			expectError: true,
		},
		{
			name: "relative link",
			metadata: EventMetadata{
				Kind: SourceKindLink,
				Link: &LinkSource{URL: "/events/1"},
			},
			expectError: true,
		},
		{
			name: "unknown kind",
			metadata: EventMetadata{
				Kind: "audio",
				Text: &TextSource{RawText: "hello"},
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.metadata.Validate()
			if tt.expectError {
				assert.ErrorIs(t, err, ErrInvalidMetadata)
				assert.ErrorIs(t, err, ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFeedCursor_RoundTrip(t *testing.T) {
	cursor := FeedCursor{
		Direction: DirectionPast,
		Grouped:   true,
		Boundary:  1_760_000_000_000,
		Start:     1_759_000_000_000,
		Key:       "sg_01HZY",
	}

	decoded, err := DecodeFeedCursor(cursor.Encode())
	require.NoError(t, err)
	assert.Equal(t, cursor, *decoded)
	assert.Equal(t, int64(1_760_000_000_000), decoded.BoundaryTime().UnixMilli())

	_, err = DecodeFeedCursor("not base64 !!")
	assert.ErrorIs(t, err, ErrInvalidCursor)

	_, err = DecodeFeedCursor(FeedCursor{Direction: "sideways", Key: "x"}.Encode())
	assert.ErrorIs(t, err, ErrInvalidCursor)

	_, err = DecodeFeedCursor(FeedCursor{Direction: DirectionUpcoming}.Encode())
	assert.ErrorIs(t, err, ErrInvalidCursor)
}
