package eventbroker

import (
	"cloudinary-assets/internal/core/domain"
	"context"
)

// NopPublisher drops every event, used when no broker is configured
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, domain.AssetEvent) error {
	return nil
}
