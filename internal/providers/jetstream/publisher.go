package jetstream

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/feral-file/ff-event-feed/internal/adapter"
	"github.com/feral-file/ff-event-feed/internal/domain"
	"github.com/feral-file/ff-event-feed/internal/logger"
	"github.com/feral-file/ff-event-feed/internal/messaging"
)

// Config holds the configuration for NATS JetStream connection
type Config struct {
	URL            string
	StreamName     string
	SubjectPrefix  string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectionName string
}

type publisher struct {
	nc            adapter.NatsConn
	js            adapter.JetStream
	subjectPrefix string
	json          adapter.JSON
	jcs           adapter.JCS
}

// NewPublisher creates a new NATS JetStream publisher
func NewPublisher(cfg Config, natsJS adapter.NatsJetStream, jsonAdapter adapter.JSON, jcs adapter.JCS) (messaging.Publisher, error) {
	opts := []nats.Option{
		nats.Name(cfg.ConnectionName),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.Error(err, zap.String("message", "Disconnected from NATS"))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("Reconnected to NATS", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	}

	nc, js, err := natsJS.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS and create JetStream: %w", err)
	}

	return newPublisher(nc, js, cfg.SubjectPrefix, jsonAdapter, jcs), nil
}

func newPublisher(nc adapter.NatsConn, js adapter.JetStream, subjectPrefix string, jsonAdapter adapter.JSON, jcs adapter.JCS) *publisher {
	if subjectPrefix == "" {
		subjectPrefix = "feeds"
	}
	return &publisher{
		nc:            nc,
		js:            js,
		subjectPrefix: subjectPrefix,
		json:          jsonAdapter,
		jcs:           jcs,
	}
}

// PublishFeedChange publishes a feed change to NATS JetStream
func (p *publisher) PublishFeedChange(ctx context.Context, change *domain.FeedChange) error {
	logger.DebugCtx(ctx, "Publishing feed change", zap.Any("change", change))

	data, err := p.json.Marshal(change)
	if err != nil {
		return fmt.Errorf("failed to marshal feed change: %w", err)
	}

	msgID, err := p.messageID(data)
	if err != nil {
		return fmt.Errorf("failed to canonicalize feed change: %w", err)
	}

	// Redelivered notifications of the same change are dropped within the stream's duplicate window
	_, err = p.js.Publish(ctx, p.buildSubject(change), data, jetstream.WithMsgID(msgID))
	if err != nil {
		return fmt.Errorf("failed to publish feed change: %w", err)
	}

	return nil
}

// messageID is the hash of the canonical form of a payload
func (p *publisher) messageID(data []byte) (string, error) {
	canonical, err := p.jcs.Transform(data)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// buildSubject constructs the NATS subject of a feed
// Format: {prefix}.{feed_id}.changed, e.g. feeds.user_42.changed
func (p *publisher) buildSubject(change *domain.FeedChange) string {
	// NATS subject tokens cannot contain dots or whitespace
	feed := strings.NewReplacer(".", "_", " ", "_").Replace(change.FeedID.String())
	return fmt.Sprintf("%s.%s.changed", p.subjectPrefix, feed)
}

// Close closes the NATS connection
func (p *publisher) Close() {
	if p.nc == nil {
		return
	}

	p.nc.Close()
}
