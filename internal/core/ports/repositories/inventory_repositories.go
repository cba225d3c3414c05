package repositories

import (
	"context"

	"github.com/bizbook/bizbook_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// StockChange describes one stock mutation to apply atomically. Quantity is
// always positive; Type carries the direction.
type StockChange struct {
	ItemID    string
	Type      domain.MovementType
	Quantity  decimal.Decimal
	UnitPrice *decimal.Decimal // Set for purchase IN movements
	Reference string
	Notes     string
}

// InventoryReader defines read operations for items and movements.
type InventoryReader interface {
	FindItemByID(ctx context.Context, ownerID, itemID string) (*domain.InventoryItem, error)
	FindItemsByIDs(ctx context.Context, ownerID string, itemIDs []string) (map[string]domain.InventoryItem, error)
	ListItems(ctx context.Context, ownerID string, limit int, nextToken *string) ([]domain.InventoryItem, *string, error)
	ListMovementsByItem(ctx context.Context, ownerID, itemID string, limit int, nextToken *string) ([]domain.StockMovement, *string, error)
}

// InventoryWriter defines write operations for items and the stock ledger.
type InventoryWriter interface {
	CreateItem(ctx context.Context, item domain.InventoryItem) error
	UpdateItem(ctx context.Context, item domain.InventoryItem) error

	// ApplyStockChange applies a single change in its own transaction.
	// It locks the item row, re-validates OUT quantities against current
	// stock, updates the item and appends the movement. Returns the movement
	// and the updated item snapshot.
	ApplyStockChange(ctx context.Context, ownerID string, change StockChange, userID string) (*domain.StockMovement, *domain.InventoryItem, error)

	// ApplyStockChangeInTx is ApplyStockChange composed into the caller's
	// transaction. This is the authoritative stock check: it fails the whole
	// transaction on shortfall, closing the pre-check race.
	ApplyStockChangeInTx(ctx context.Context, tx pgx.Tx, ownerID string, change StockChange, userID string) (*domain.StockMovement, *domain.InventoryItem, error)
}

// InventoryRepositoryFacade combines all inventory repository interfaces.
type InventoryRepositoryFacade interface {
	InventoryReader
	InventoryWriter
}
