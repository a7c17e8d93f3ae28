package nats

import (
	"cloudinary-assets/internal/config"
	"cloudinary-assets/internal/core/domain"
	"cloudinary-assets/internal/core/port"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

var _ port.EventPublisher = (*Publisher)(nil)

// Publisher publishes asset events to JetStream
type Publisher struct {
	logger *slog.Logger
	conn   *nats.Conn
	js     jetstream.JetStream
	config config.NATSConfig
}

// Subject is the subject an event of eventType is published on
func Subject(prefix string, eventType domain.AssetEventType) string {
	return prefix + "." + string(eventType)
}

// NewNATSPublisher connects and makes sure the asset stream exists
func NewNATSPublisher(ctx context.Context, cfg config.NATSConfig, logger *slog.Logger) (*Publisher, error) {
	conn, js, err := connect(cfg, cfg.ConsumerName+"-publisher", logger)
	if err != nil {
		return nil, err
	}
	if err := ensureStream(ctx, js, cfg); err != nil {
		conn.Close()
		return nil, err
	}

	return &Publisher{
		logger: logger,
		conn:   conn,
		js:     js,
		config: cfg,
	}, nil
}

// Publish sends event and waits for the stream acknowledgement.
// The message id lets JetStream drop duplicates of the same event.
func (p *Publisher) Publish(ctx context.Context, event domain.AssetEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	msgID := fmt.Sprintf("%s:%s:%d", event.Type, event.PublicID, event.OccurredAt.UnixNano())
	ack, err := p.js.Publish(ctx, Subject(p.config.SubjectPrefix, event.Type), data, jetstream.WithMsgID(msgID))
	if err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event.Type, err)
	}

	p.logger.DebugContext(ctx, "asset event published", "type", event.Type, "public_id", event.PublicID, "seq", ack.Sequence)
	return nil
}

// Close drains pending messages and closes the connection
func (p *Publisher) Close() error {
	if p.conn == nil {
		return nil
	}
	return p.conn.Drain()
}
