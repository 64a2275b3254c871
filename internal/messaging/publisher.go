package messaging

import (
	"context"

	"github.com/feral-file/ff-event-feed/internal/domain"
)

// Publisher defines the interface for publishing feed change notifications to the message broker
//
//go:generate mockgen -source=publisher.go -destination=../mocks/publisher.go -package=mocks -mock_names=Publisher=MockPublisher
type Publisher interface {
	// PublishFeedChange publishes a grouped feed entry change
	PublishFeedChange(ctx context.Context, change *domain.FeedChange) error
	// Close closes the connection
	Close()
}
