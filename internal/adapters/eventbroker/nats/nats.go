package nats

import (
	"cloudinary-assets/internal/config"
	"cloudinary-assets/internal/core/domain"
	"cloudinary-assets/internal/core/port"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

var _ port.EventConsumer = (*Consumer)(nil)

// Consumer delivers asset events from JetStream to a MessageService
type Consumer struct {
	logger *slog.Logger
	conn   *nats.Conn
	js     jetstream.JetStream
	config config.NATSConfig
	iter   jetstream.MessagesContext
	wg     sync.WaitGroup
}

func connect(cfg config.NATSConfig, name string, logger *slog.Logger) (*nats.Conn, jetstream.JetStream, error) {
	opts := []nats.Option{
		nats.Name(name),
		nats.ReconnectWait(2 * time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Warn("NATS disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", "url", nc.ConnectedUrl())
		}),
	}
	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("failed to connect to JetStream: %w", err)
	}
	return conn, js, nil
}

// ensureStream creates the asset event stream, or updates it to cover every asset subject
func ensureStream(ctx context.Context, js jetstream.JetStream, cfg config.NATSConfig) error {
	_, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     cfg.StreamName,
		Subjects: []string{cfg.SubjectPrefix + ".>"},
	})
	if err != nil {
		return fmt.Errorf("failed to ensure stream %s: %w", cfg.StreamName, err)
	}
	return nil
}

// NewNATSConsumer creates a new consumer
func NewNATSConsumer(ctx context.Context, cfg config.NATSConfig, logger *slog.Logger) (*Consumer, error) {
	conn, js, err := connect(cfg, cfg.ConsumerName, logger)
	if err != nil {
		return nil, err
	}
	if err := ensureStream(ctx, js, cfg); err != nil {
		conn.Close()
		return nil, err
	}

	return &Consumer{
		conn:   conn,
		js:     js,
		config: cfg,
		logger: logger,
	}, nil
}

// Subscribe starts a durable consumer on every asset subject and feeds handler until ctx is done or Close is called.
// Malformed events are terminated, any other handler error is redelivered up to MaxDeliver times.
func (n *Consumer) Subscribe(ctx context.Context, handler port.MessageService) error {
	consumerCfg := jetstream.ConsumerConfig{
		Durable:       n.config.ConsumerName,
		AckPolicy:     jetstream.AckExplicitPolicy,
		FilterSubject: n.config.SubjectPrefix + ".>",
		AckWait:       n.config.AckWait,
		DeliverGroup:  n.config.DeliverGroup,
		MaxDeliver:    n.config.MaxDeliver,
	}

	cons, err := n.js.CreateOrUpdateConsumer(ctx, n.config.StreamName, consumerCfg)
	if err != nil {
		return fmt.Errorf("failed to create consumer %s: %w", n.config.ConsumerName, err)
	}

	iter, err := cons.Messages()
	if err != nil {
		return fmt.Errorf("failed to open message iterator: %w", err)
	}
	n.iter = iter

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		n.consume(ctx, iter, handler)
	}()
	return nil
}

// messageSource is the part of jetstream.MessagesContext the consume loop needs
type messageSource interface {
	Next() (jetstream.Msg, error)
}

// receivePause spaces out retries after a transient receive error
const receivePause = 500 * time.Millisecond

// consume hands every message to dispatch. It stops when the iterator is closed,
// the connection is closed or ctx is done. Other receive errors, such as missed heartbeats, are logged and retried.
func (n *Consumer) consume(ctx context.Context, iter messageSource, handler port.MessageService) {
	n.logger.Info("NATS subscription started", "stream", n.config.StreamName, "consumer", n.config.ConsumerName)
	defer n.logger.Info("NATS subscription stopped")

	for ctx.Err() == nil {
		msg, err := iter.Next()
		if err != nil {
			if errors.Is(err, jetstream.ErrMsgIteratorClosed) || errors.Is(err, nats.ErrConnectionClosed) {
				return
			}
			n.logger.Warn("failed to receive message, retrying", "error", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(receivePause):
			}
			continue
		}
		n.dispatch(ctx, msg, handler)
	}
}

func (n *Consumer) dispatch(ctx context.Context, msg jetstream.Msg, handler port.MessageService) {
	logger := n.logger.With("subject", msg.Subject())
	if meta, err := msg.Metadata(); err == nil {
		logger = logger.With("stream_seq", meta.Sequence.Stream, "delivered", meta.NumDelivered)
	}

	handleErr := handler.HandleMessage(ctx, msg.Data())
	switch {
	case handleErr == nil:
		if err := msg.Ack(); err != nil {
			logger.Error("failed to ack message", "error", err)
		}
	case errors.Is(handleErr, domain.ErrMalformedEvent):
		logger.Error("dropping malformed asset event", "error", handleErr)
		if err := msg.Term(); err != nil {
			logger.Error("failed to term message", "error", err)
		}
	default:
		logger.Warn("failed to handle asset event", "error", handleErr)
		if err := msg.Nak(); err != nil {
			logger.Error("failed to nak message", "error", err)
		}
	}
}

// Close graceful shutdown
func (n *Consumer) Close() error {
	if n.iter != nil {
		n.iter.Stop()
	}

	n.wg.Wait()

	if n.conn != nil {
		n.conn.Close()
	}
	return nil
}
