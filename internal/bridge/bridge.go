// Package bridge consumes authored events from the authoring pipeline stream and applies them
// to the feeds.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/feral-file/ff-event-feed/internal/adapter"
	"github.com/feral-file/ff-event-feed/internal/domain"
	"github.com/feral-file/ff-event-feed/internal/feed"
	"github.com/feral-file/ff-event-feed/internal/logger"
)

const DEFAULT_SUBJECT_PREFIX = "authoring.events"

const (
	REDELIVERY_BASE_DELAY = 2 * time.Second
	REDELIVERY_MAX_DELAY  = time.Minute
)

// Config holds the configuration for the event bridge
type Config struct {
	URL            string
	StreamName     string
	ConsumerName   string
	SubjectPrefix  string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectionName string
	AckWaitTimeout time.Duration
	MaxDeliver     int
	Workers        int
}

// Bridge defines the interface for the event bridge
type Bridge interface {
	// Run consumes messages until the context is canceled
	Run(ctx context.Context) error

	// Close closes the bridge and cleans up resources
	Close()
}

type bridge struct {
	nc     adapter.NatsConn
	js     adapter.JetStream
	feeds  feed.Service
	json   adapter.JSON
	config Config
}

// NewBridge creates a new event bridge
func NewBridge(
	cfg Config,
	natsJS adapter.NatsJetStream,
	feeds feed.Service,
	jsonAdapter adapter.JSON,
) (Bridge, error) {
	if cfg.SubjectPrefix == "" {
		cfg.SubjectPrefix = DEFAULT_SUBJECT_PREFIX
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}

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

	return &bridge{
		nc:     nc,
		js:     js,
		feeds:  feeds,
		json:   jsonAdapter,
		config: cfg,
	}, nil
}

// Run starts the event bridge
func (b *bridge) Run(ctx context.Context) error {
	logger.InfoCtx(ctx, "Starting event bridge",
		zap.String("stream", b.config.StreamName),
		zap.String("consumer", b.config.ConsumerName))

	consumerConfig := jetstream.ConsumerConfig{
		Durable:       b.config.ConsumerName,
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       b.config.AckWaitTimeout,
		MaxDeliver:    b.config.MaxDeliver,
		FilterSubject: b.config.SubjectPrefix + ".>",
	}

	consumer, err := b.js.CreateOrUpdateConsumer(ctx, b.config.StreamName, consumerConfig)
	if err != nil {
		return fmt.Errorf("failed to create/update consumer: %w", err)
	}

	consumerInfo, err := consumer.Info(ctx)
	if err != nil {
		return fmt.Errorf("failed to get consumer info: %w", err)
	}
	logger.InfoCtx(ctx, "Consumer created/retrieved", zap.String("consumer", consumerInfo.Name))

	msgChan := make(chan adapter.Message, 100)
	sub, err := consumer.Consume(func(msg adapter.Message) {
		msgChan <- msg
	})
	if err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	defer sub.Stop()

	pool := pond.NewPool(b.config.Workers, pond.WithContext(ctx))
	defer pool.StopAndWait()

	logger.InfoCtx(ctx, "Started consuming messages", zap.Int("workers", b.config.Workers))

	for {
		select {
		case <-ctx.Done():
			logger.InfoCtx(ctx, "Shutting down event bridge")
			return ctx.Err()
		case msg := <-msgChan:
			pool.Submit(func() {
				b.handleMessage(ctx, msg)
			})
		}
	}
}

// handleMessage applies one authoring message and settles it.
// Malformed or invalid messages are terminated, transient failures are redelivered.
func (b *bridge) handleMessage(ctx context.Context, msg adapter.Message) {
	var deliveries uint64
	if metadata, err := msg.Metadata(); err == nil && metadata != nil {
		deliveries = metadata.NumDelivered
	}

	var message domain.AuthoringMessage
	if err := b.json.Unmarshal(msg.Data(), &message); err != nil {
		logger.ErrorCtx(ctx, err, zap.String("message", "Failed to unmarshal authoring message"))
		settle(ctx, msg.Term, "terminate")
		return
	}

	fields := []zap.Field{
		zap.String("type", string(message.Type)),
		zap.String("eventID", message.Event.ID),
		zap.Uint64("deliveryCount", deliveries),
	}
	logger.InfoCtx(ctx, "Received authoring message", fields...)

	err := b.dispatch(ctx, &message)
	switch {
	case err == nil:
		settle(ctx, msg.Ack, "ack")
	case errors.Is(err, domain.ErrEventAlreadyExists) && message.Type == domain.AuthoringEventCreated:
		logger.WarnCtx(ctx, "Event already ingested, acknowledging redelivery", fields...)
		settle(ctx, msg.Ack, "ack")
	case errors.Is(err, domain.ErrEventNotFound) && message.Type == domain.AuthoringEventDeleted:
		logger.WarnCtx(ctx, "Deleted event is already gone", fields...)
		settle(ctx, msg.Ack, "ack")
	case errors.Is(err, domain.ErrEventNotFound):
		// The creation may still be in flight on another delivery
		logger.WarnCtx(ctx, "Event not ingested yet, will retry", fields...)
		nak(ctx, msg, deliveries)
	case !domain.IsRetryable(err):
		logger.ErrorCtx(ctx, fmt.Errorf("failed to apply authoring message: %w", err), fields...)
		settle(ctx, msg.Term, "terminate")
	default:
		logger.ErrorCtx(ctx, fmt.Errorf("failed to apply authoring message, will retry: %w", err), fields...)
		nak(ctx, msg, deliveries)
	}
}

// dispatch routes an authoring message to the feed service
func (b *bridge) dispatch(ctx context.Context, message *domain.AuthoringMessage) error {
	event := message.Event

	switch message.Type {
	case domain.AuthoringEventCreated:
		_, err := b.feeds.IngestEvent(ctx, event)
		return err
	case domain.AuthoringEventUpdated:
		return b.feeds.UpdateEvent(ctx, event.ID, feed.UpdateEventInput{
			Name:          event.Name,
			Description:   event.Description,
			Location:      event.Location,
			StartDateTime: event.StartDateTime,
			EndDateTime:   event.EndDateTime,
			Metadata:      event.Metadata,
		})
	case domain.AuthoringEventDeleted:
		return b.feeds.DeleteEvent(ctx, event.ID)
	case domain.AuthoringEventVisibilityChanged:
		visibility := message.Visibility
		if visibility == "" {
			visibility = event.Visibility
		}
		return b.feeds.SetEventVisibility(ctx, event.ID, visibility)
	default:
		return fmt.Errorf("%w: unknown authoring message type %q", domain.ErrValidation, message.Type)
	}
}

func settle(ctx context.Context, fn func() error, action string) {
	if err := fn(); err != nil {
		logger.ErrorCtx(ctx, err, zap.String("message", "Failed to "+action+" message"))
	}
}

func nak(ctx context.Context, msg adapter.Message, deliveries uint64) {
	delay := redeliveryDelay(deliveries)
	settle(ctx, func() error { return msg.NakWithDelay(delay) }, "nak")
}

// redeliveryDelay doubles from REDELIVERY_BASE_DELAY with every delivery, capped at REDELIVERY_MAX_DELAY
func redeliveryDelay(deliveries uint64) time.Duration {
	delay := REDELIVERY_BASE_DELAY
	for i := uint64(1); i < deliveries && delay < REDELIVERY_MAX_DELAY; i++ {
		delay *= 2
	}
	if delay > REDELIVERY_MAX_DELAY {
		delay = REDELIVERY_MAX_DELAY
	}
	return delay
}

// Close closes the bridge and cleans up resources
func (b *bridge) Close() {
	if b.nc == nil {
		return
	}

	b.nc.Close()
}
