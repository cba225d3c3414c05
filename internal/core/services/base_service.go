package services

import (
	"context"
	"log/slog"

	"github.com/bizbook/bizbook_backend/internal/core/domain"
	portssvc "github.com/bizbook/bizbook_backend/internal/core/ports/services"
	"github.com/bizbook/bizbook_backend/internal/middleware"
)

// publishEvent emits an event after a successful commit. Publishing is
// fire-and-forget: a failure is logged and swallowed, because a committed
// financial transaction must never be failed by a downstream notification.
func publishEvent(ctx context.Context, publisher portssvc.EventPublisher, event domain.Event) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, event); err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to publish event",
			slog.String("event_type", string(event.Type)),
			slog.String("key", event.Key),
			slog.String("error", err.Error()),
		)
	}
}

// publishStockAlerts evaluates the alert thresholds for each updated item and
// publishes at most one alert per item, the most severe.
func publishStockAlerts(ctx context.Context, publisher portssvc.EventPublisher, items []domain.InventoryItem) {
	for _, item := range items {
		level := domain.EvaluateStockAlert(item)
		eventType, ok := domain.AlertEventType(level)
		if !ok {
			continue
		}
		publishEvent(ctx, publisher, domain.Event{
			Type:       eventType,
			OwnerID:    item.OwnerID,
			Key:        item.ItemID,
			OccurredAt: item.LastUpdatedAt,
			Payload: domain.StockAlertPayload{
				ItemID:       item.ItemID,
				Name:         item.Name,
				CurrentStock: item.CurrentStock,
				MinimumStock: item.MinimumStock,
				ReorderLevel: item.ReorderLevel,
				Level:        level,
			},
		})
	}
}
