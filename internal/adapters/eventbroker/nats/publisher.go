package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/JunyuZhan/lawfirm-archive/internal/config"
	"github.com/JunyuZhan/lawfirm-archive/internal/core/domain"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// Publisher writes archive events to JetStream, one subject per event type
type Publisher struct {
	conn   *nats.Conn
	js     jetstream.JetStream
	prefix string
	logger *slog.Logger
}

// NewNATSPublisher connects and makes sure the archive stream exists
func NewNATSPublisher(ctx context.Context, cfg config.NATSConfig, logger *slog.Logger) (*Publisher, error) {
	conn, js, err := connect(cfg, "archive-api", logger)
	if err != nil {
		return nil, err
	}
	if err := ensureStream(ctx, js, cfg); err != nil {
		conn.Close()
		return nil, err
	}
	return &Publisher{conn: conn, js: js, prefix: cfg.SubjectPrefix, logger: logger}, nil
}

// Subject returns the subject an event type is published on
func Subject(prefix string, eventType domain.EventType) string {
	return prefix + "." + string(eventType)
}

// Publish sends event; the event id deduplicates retries on the server
func (p *Publisher) Publish(ctx context.Context, event domain.ArchiveEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	subject := Subject(p.prefix, event.Type)
	if _, err := p.js.Publish(ctx, subject, data, jetstream.WithMsgID(event.ID.String())); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", subject, err)
	}
	p.logger.Debug("event published", "subject", subject, "event_id", event.ID)
	return nil
}

// Close drains the connection
func (p *Publisher) Close() error {
	if p.conn != nil {
		return p.conn.Drain()
	}
	return nil
}
