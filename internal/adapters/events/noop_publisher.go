package events

import (
	"context"

	"github.com/bizbook/bizbook_backend/internal/core/domain"
	portssvc "github.com/bizbook/bizbook_backend/internal/core/ports/services"
)

// NoopPublisher discards every event. Used when no Redis URL is configured.
type NoopPublisher struct{}

var _ portssvc.EventPublisher = (*NoopPublisher)(nil)

func NewNoopPublisher() *NoopPublisher {
	return &NoopPublisher{}
}

func (p *NoopPublisher) Publish(ctx context.Context, event domain.Event) error {
	return nil
}

func (p *NoopPublisher) Close() error {
	return nil
}
