package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType classifies a stock movement.
type MovementType string

const (
	MovementIn     MovementType = "IN"
	MovementOut    MovementType = "OUT"
	MovementAdjust MovementType = "ADJUST"
	MovementReturn MovementType = "RETURN"
)

// RestoreReason says why stock is being put back.
type RestoreReason string

const (
	RestoreCancelled RestoreReason = "CANCELLED"
	RestoreReturned  RestoreReason = "RETURNED"
)

// InventoryItem is a stocked product. CurrentStock is only ever mutated by
// applying a StockMovement.
type InventoryItem struct {
	ItemID            string          `json:"itemID"` // Primary key (UUID)
	OwnerID           string          `json:"ownerID"`
	Name              string          `json:"name"`
	SKU               string          `json:"sku"` // Nullable
	Unit              string          `json:"unit"`
	SalePrice         decimal.Decimal `json:"salePrice"`
	PurchasePrice     decimal.Decimal `json:"purchasePrice"`
	CurrentStock      decimal.Decimal `json:"currentStock"`
	MinimumStock      decimal.Decimal `json:"minimumStock"`
	ReorderLevel      decimal.Decimal `json:"reorderLevel"`
	LastPurchasePrice decimal.Decimal `json:"lastPurchasePrice"`
	LastPurchaseDate  *time.Time      `json:"lastPurchaseDate"`
	IsActive          bool            `json:"isActive"`
	AuditFields
}

// StockMovement is one immutable row of the append-only stock ledger.
type StockMovement struct {
	MovementID    string           `json:"movementID"` // Primary key (UUID)
	OwnerID       string           `json:"ownerID"`
	ItemID        string           `json:"itemID"`
	Type          MovementType     `json:"type"`
	Quantity      decimal.Decimal  `json:"quantity"` // Always positive; Type carries the direction
	PreviousStock decimal.Decimal  `json:"previousStock"`
	NewStock      decimal.Decimal  `json:"newStock"`
	Reference     string           `json:"reference"` // Voucher number of the causing document
	UnitPrice     *decimal.Decimal `json:"unitPrice"` // Purchase price for IN movements
	Notes         string           `json:"notes"`
	CreatedAt     time.Time        `json:"createdAt"`
	CreatedBy     string           `json:"createdBy"`
}

// StockAlertLevel grades how urgent an item's stock situation is.
type StockAlertLevel string

const (
	AlertNone       StockAlertLevel = ""
	AlertReorder    StockAlertLevel = "REORDER"
	AlertLowStock   StockAlertLevel = "LOW_STOCK"
	AlertOutOfStock StockAlertLevel = "OUT_OF_STOCK"
)

// EvaluateStockAlert returns the single most severe alert for the item's
// current stock, or AlertNone. At most one alert fires per evaluation.
func EvaluateStockAlert(item InventoryItem) StockAlertLevel {
	switch {
	case item.CurrentStock.LessThanOrEqual(decimal.Zero):
		return AlertOutOfStock
	case item.CurrentStock.LessThanOrEqual(item.MinimumStock):
		return AlertLowStock
	case item.ReorderLevel.GreaterThan(decimal.Zero) && item.CurrentStock.LessThanOrEqual(item.ReorderLevel):
		return AlertReorder
	default:
		return AlertNone
	}
}

// Shortfall describes one unavailable line from an availability pre-check.
type Shortfall struct {
	ItemID    string          `json:"itemID"`
	Name      string          `json:"name"`
	Requested decimal.Decimal `json:"requested"`
	Available decimal.Decimal `json:"available"`
}

// AvailabilityResult is the outcome of a read-only stock pre-check. It is
// advisory only: the authoritative check re-runs inside the settlement
// transaction with the item rows locked.
type AvailabilityResult struct {
	Available  bool        `json:"available"`
	Shortfalls []Shortfall `json:"shortfalls"`
}
