package discard

import (
	"context"
	"log/slog"

	"github.com/JunyuZhan/lawfirm-archive/internal/core/domain"
)

// Publisher drops every event. Used when no broker is configured.
type Publisher struct {
	logger *slog.Logger
}

func NewPublisher(logger *slog.Logger) *Publisher {
	return &Publisher{logger: logger}
}

func (p *Publisher) Publish(_ context.Context, event domain.ArchiveEvent) error {
	p.logger.Debug("event discarded", "type", event.Type, "event_id", event.ID, "documents", len(event.Documents))
	return nil
}

func (p *Publisher) Close() error {
	return nil
}
