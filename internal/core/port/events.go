package port

import (
	"context"

	"github.com/JunyuZhan/lawfirm-archive/internal/core/domain"
)

// EventConsumer is an interface to define an event consumer (kafka, nats, ...)
type EventConsumer interface {
	Subscribe(ctx context.Context, handler MessageService) error
	Close() error
}

// MessageService is an interface to define message handling
type MessageService interface {
	HandleMessage(ctx context.Context, data []byte) error
}

// EventPublisher publishes archive events to a broker
type EventPublisher interface {
	Publish(ctx context.Context, event domain.ArchiveEvent) error
	Close() error
}
