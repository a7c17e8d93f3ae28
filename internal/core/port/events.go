package port

import (
	"cloudinary-assets/internal/core/domain"
	"context"
)

// EventPublisher is an interface to define asset event publication (nats, ...)
type EventPublisher interface {
	Publish(ctx context.Context, event domain.AssetEvent) error
}

// EventConsumer is an interface to define an event consumer (kafka, nats, ...)
type EventConsumer interface {
	Subscribe(ctx context.Context, handler MessageService) error
	Close() error
}

// MessageService is an interface to define message handling
type MessageService interface {
	HandleMessage(ctx context.Context, data []byte) error
}
