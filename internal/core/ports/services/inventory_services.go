package services

import (
	"context"

	"github.com/bizbook/bizbook_backend/internal/core/domain"
	"github.com/bizbook/bizbook_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// InventoryItemSvc covers item master data.
type InventoryItemSvc interface {
	CreateItem(ctx context.Context, ownerID string, req dto.CreateItemRequest, userID string) (*domain.InventoryItem, error)
	UpdateItem(ctx context.Context, ownerID, itemID string, req dto.UpdateItemRequest, userID string) (*domain.InventoryItem, error)
	GetItem(ctx context.Context, ownerID, itemID string) (*domain.InventoryItem, error)
	ListItems(ctx context.Context, ownerID string, limit int, nextToken *string) ([]domain.InventoryItem, *string, error)
}

// StockLedgerSvc covers the append-only stock movement log.
type StockLedgerSvc interface {
	// AddStock increments stock with an IN movement and updates last-purchase
	// metadata when a unit price is given.
	AddStock(ctx context.Context, ownerID, itemID string, req dto.StockOperationRequest, userID string) (*domain.StockMovement, error)

	// ReduceStock decrements stock with an OUT movement. Fails with
	// ErrInsufficientStock when the quantity exceeds current stock.
	ReduceStock(ctx context.Context, ownerID, itemID string, req dto.StockOperationRequest, userID string) (*domain.StockMovement, error)

	// AdjustStock applies a signed manual correction as an ADJUST movement.
	AdjustStock(ctx context.Context, ownerID, itemID string, quantity decimal.Decimal, reference, notes, userID string) (*domain.StockMovement, error)

	// RestoreStock puts stock back after a cancellation or customer return.
	RestoreStock(ctx context.Context, ownerID, itemID string, quantity decimal.Decimal, reference string, reason domain.RestoreReason, userID string) (*domain.StockMovement, error)

	// CheckAvailability is the advisory read-only pre-check. The
	// authoritative check runs inside the settlement transaction.
	CheckAvailability(ctx context.Context, ownerID string, req dto.CheckAvailabilityRequest) (*domain.AvailabilityResult, error)

	ListMovements(ctx context.Context, ownerID, itemID string, limit int, nextToken *string) ([]domain.StockMovement, *string, error)
}

// InventorySvcFacade combines item master data and the stock ledger.
type InventorySvcFacade interface {
	InventoryItemSvc
	StockLedgerSvc
}
