package nats

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/JunyuZhan/lawfirm-archive/internal/config"
	"github.com/JunyuZhan/lawfirm-archive/internal/core/port"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// Consumer reads archive events from a durable JetStream consumer
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

// ensureStream creates the archive stream covering every subject under the prefix
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
func NewNATSConsumer(cfg config.NATSConfig, logger *slog.Logger) (*Consumer, error) {
	conn, js, err := connect(cfg, cfg.ConsumerName, logger)
	if err != nil {
		return nil, err
	}

	return &Consumer{
		conn:   conn,
		js:     js,
		config: cfg,
		logger: logger,
	}, nil
}

func consumerConfig(cfg config.NATSConfig) jetstream.ConsumerConfig {
	ackWait, maxDeliver := cfg.AckWait, cfg.MaxDeliver
	if ackWait <= 0 {
		ackWait = 10 * time.Second
	}
	if maxDeliver <= 0 {
		maxDeliver = 5
	}
	return jetstream.ConsumerConfig{
		Durable:       cfg.ConsumerName,
		AckPolicy:     jetstream.AckExplicitPolicy,
		FilterSubject: cfg.Subject,
		AckWait:       ackWait,
		MaxDeliver:    maxDeliver,
		BackOff:       []time.Duration{100 * time.Millisecond, 200 * time.Millisecond},
	}
}

// Subscribe binds the durable consumer and handles messages until ctx is done
// or Close is called. A handler error naks the message for redelivery.
func (n *Consumer) Subscribe(ctx context.Context, handler port.MessageService) error {
	if err := ensureStream(ctx, n.js, n.config); err != nil {
		return err
	}

	cons, err := n.js.CreateOrUpdateConsumer(ctx, n.config.StreamName, consumerConfig(n.config))
	if err != nil {
		return fmt.Errorf("failed to create consumer %s: %w", n.config.ConsumerName, err)
	}

	iter, err := cons.Messages()
	if err != nil {
		return fmt.Errorf("failed to open message iterator: %w", err)
	}
	n.iter = iter

	// Next blocks, so ctx cancellation stops the iterator from outside
	stopOnDone := context.AfterFunc(ctx, iter.Stop)

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		defer stopOnDone()
		n.logger.Info("NATS subscription started", "subject", n.config.Subject, "consumer", n.config.ConsumerName)
		for {
			msg, err := iter.Next()
			if err != nil {
				if ctx.Err() != nil || errors.Is(err, jetstream.ErrMsgIteratorClosed) {
					n.logger.Info("NATS subscription stopped")
					return
				}
				n.logger.Error("failed to receive message", "error", err)
				continue
			}
			n.handle(ctx, handler, msg)
		}
	}()
	return nil
}

func (n *Consumer) handle(ctx context.Context, handler port.MessageService, msg jetstream.Msg) {
	if err := handler.HandleMessage(ctx, msg.Data()); err != nil {
		attempt := uint64(0)
		if meta, metaErr := msg.Metadata(); metaErr == nil {
			attempt = meta.NumDelivered
		}
		n.logger.Warn("failed to handle message", "subject", msg.Subject(), "attempt", attempt, "error", err)
		if nakErr := msg.Nak(); nakErr != nil {
			n.logger.Error("failed to nak message", "error", nakErr)
		}
		return
	}
	if ackErr := msg.Ack(); ackErr != nil {
		n.logger.Error("failed to ack message", "error", ackErr)
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
