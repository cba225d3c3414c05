package services

import (
	"context"

	"github.com/bizbook/bizbook_backend/internal/core/domain"
)

// EventPublisher is the pub/sub collaborator. Publication happens strictly
// after the settlement transaction commits and is fire-and-forget: failures
// are logged by the caller, never propagated into the business result.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
	Close() error
}
