package jetstream

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-event-feed/internal/adapter"
	"github.com/feral-file/ff-event-feed/internal/domain"
	"github.com/feral-file/ff-event-feed/internal/mocks"
)

func TestPublishFeedChange(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	nc := mocks.NewMockNatsConn(ctrl)
	js := mocks.NewMockJetStream(ctrl)
	p := newPublisher(nc, js, "", adapter.NewJSON(), adapter.NewJCS())

	ctx := context.Background()
	change := &domain.FeedChange{
		FeedID:             domain.PersonalFeedID("42"),
		SimilarityGroupID:  "sg_1",
		Kind:               domain.FeedChangeUpserted,
		PrimaryEventID:     "e1",
		SimilarEventsCount: 2,
		ChangedAt:          time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	js.EXPECT().
		Publish(ctx, "feeds.user_42.changed", gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, data []byte, _ ...jetstream.PublishOpt) (*jetstream.PubAck, error) {
			assert.JSONEq(t, `{
				"feed_id": "user_42",
				"similarity_group_id": "sg_1",
				"kind": "upserted",
				"primary_event_id": "e1",
				"similar_events_count": 2,
				"changed_at": "2026-01-01T00:00:00Z"
			}`, string(data))
			return &jetstream.PubAck{Stream: "FEEDS"}, nil
		})

	require.NoError(t, p.PublishFeedChange(ctx, change))

	js.EXPECT().Publish(ctx, gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("no responders"))
	assert.Error(t, p.PublishFeedChange(ctx, change))

	nc.EXPECT().Close()
	p.Close()
}

func TestBuildSubject(t *testing.T) {
	p := newPublisher(nil, nil, "notify", adapter.NewJSON(), adapter.NewJCS())

	assert.Equal(t, "notify.discover.changed", p.buildSubject(&domain.FeedChange{FeedID: "discover"}))
	assert.Equal(t, "notify.list_a_b.changed", p.buildSubject(&domain.FeedChange{FeedID: "list_a.b"}))
}

func TestMessageID(t *testing.T) {
	p := newPublisher(nil, nil, "", adapter.NewJSON(), adapter.NewJCS())

	a, err := p.messageID([]byte(`{"feed_id":"discover","kind":"removed","similar_events_count":0}`))
	require.NoError(t, err)
	b, err := p.messageID([]byte(`{ "similar_events_count": 0, "kind": "removed", "feed_id": "discover" }`))
	require.NoError(t, err)
	c, err := p.messageID([]byte(`{"feed_id":"discover","kind":"upserted","similar_events_count":0}`))
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)

	_, err = p.messageID([]byte(`not json`))
	assert.Error(t, err)
}
