package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/JunyuZhan/lawfirm-archive/internal/config"
	"github.com/JunyuZhan/lawfirm-archive/internal/core/domain"
	"github.com/JunyuZhan/lawfirm-archive/internal/core/port"
	"github.com/segmentio/kafka-go"
)

const headerEventType = "event-type"

// maxFetchBackoff caps the pause between failed fetches
const maxFetchBackoff = 5 * time.Second

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes archive events to a single topic keyed by event id
type Publisher struct {
	writer messageWriter
	logger *slog.Logger
}

// NewKafkaPublisher creates a publisher for cfg.Topic
func NewKafkaPublisher(cfg config.KafkaConfig, logger *slog.Logger) *Publisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.LeastBytes{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Publisher{writer: writer, logger: logger}
}

func encode(event domain.ArchiveEvent) (kafka.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to encode event: %w", err)
	}
	return kafka.Message{
		Key:   []byte(event.ID.String()),
		Value: data,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: headerEventType, Value: []byte(event.Type)},
		},
	}, nil
}

// Publish writes event and waits for all in-sync replicas
func (p *Publisher) Publish(ctx context.Context, event domain.ArchiveEvent) error {
	msg, err := encode(event)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", event.ID, err)
	}
	p.logger.Debug("event published", "type", event.Type, "event_id", event.ID)
	return nil
}

// Close flushes pending writes
func (p *Publisher) Close() error {
	return p.writer.Close()
}

// Consumer reads the archive topic as part of a consumer group
type Consumer struct {
	reader      messageReader
	maxAttempts int
	backoff     time.Duration
	logger      *slog.Logger
	wg          sync.WaitGroup
	cancel      context.CancelFunc
}

// NewKafkaConsumer joins cfg.GroupID on cfg.Topic
func NewKafkaConsumer(cfg config.KafkaConfig, logger *slog.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: cfg.Brokers,
		GroupID: cfg.GroupID,
		Topic:   cfg.Topic,
	})
	return newConsumer(reader, cfg.MaxAttempts, 200*time.Millisecond, logger)
}

func newConsumer(reader messageReader, maxAttempts int, backoff time.Duration, logger *slog.Logger) *Consumer {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Consumer{reader: reader, maxAttempts: maxAttempts, backoff: backoff, logger: logger}
}

// Subscribe starts the fetch loop. A message is committed once handled,
// or after maxAttempts failed deliveries.
func (c *Consumer) Subscribe(ctx context.Context, handler port.MessageService) error {
	ctx, c.cancel = context.WithCancel(ctx)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.logger.Info("kafka subscription started")
		failures := 0
		for {
			msg, err := c.reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil || errors.Is(err, context.Canceled) {
					c.logger.Info("kafka subscription stopped")
					return
				}
				failures++
				c.logger.Error("failed to fetch message", "error", err, "failures", failures)
				if !c.pause(ctx, c.fetchDelay(failures)) {
					c.logger.Info("kafka subscription stopped")
					return
				}
				continue
			}
			failures = 0

			c.handle(ctx, handler, msg)

			if err := c.reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
				c.logger.Error("failed to commit message", "error", err, "offset", msg.Offset)
			}
		}
	}()
	return nil
}

func (c *Consumer) handle(ctx context.Context, handler port.MessageService, msg kafka.Message) {
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		err := handler.HandleMessage(ctx, msg.Value)
		if err == nil {
			return
		}
		c.logger.Warn("failed to handle message", "error", err, "attempt", attempt, "offset", msg.Offset)
		if attempt == c.maxAttempts {
			c.logger.Error("giving up on message", "offset", msg.Offset, "key", string(msg.Key))
			return
		}
		if !c.pause(ctx, c.backoff*time.Duration(attempt)) {
			return
		}
	}
}

func (c *Consumer) fetchDelay(failures int) time.Duration {
	delay := c.backoff * time.Duration(failures)
	if delay > maxFetchBackoff {
		return maxFetchBackoff
	}
	return delay
}

// pause waits for d and reports false when ctx ends first
func (c *Consumer) pause(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

// Close stops the fetch loop and leaves the group
func (c *Consumer) Close() error {
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
	return c.reader.Close()
}
