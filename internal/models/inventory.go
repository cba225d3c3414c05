package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItem represents a row of the inventory_items table.
type InventoryItem struct {
	ItemID            string          `json:"itemID"` // Primary Key (UUID)
	OwnerID           string          `json:"ownerID"`
	Name              string          `json:"name"`
	SKU               string          `json:"sku"`
	Unit              string          `json:"unit"`
	SalePrice         decimal.Decimal `json:"salePrice"`
	PurchasePrice     decimal.Decimal `json:"purchasePrice"`
	CurrentStock      decimal.Decimal `json:"currentStock"`
	MinimumStock      decimal.Decimal `json:"minimumStock"`
	ReorderLevel      decimal.Decimal `json:"reorderLevel"`
	LastPurchasePrice decimal.Decimal `json:"lastPurchasePrice"`
	LastPurchaseDate  *time.Time      `json:"lastPurchaseDate"` // Nullable
	IsActive          bool            `json:"isActive"`
	AuditFields
}

// StockMovement represents a row of the stock_movements table.
type StockMovement struct {
	MovementID    string           `json:"movementID"` // Primary Key (UUID)
	OwnerID       string           `json:"ownerID"`
	ItemID        string           `json:"itemID"`
	Type          string           `json:"type"`
	Quantity      decimal.Decimal  `json:"quantity"`
	PreviousStock decimal.Decimal  `json:"previousStock"`
	NewStock      decimal.Decimal  `json:"newStock"`
	Reference     string           `json:"reference"`
	UnitPrice     *decimal.Decimal `json:"unitPrice"` // Nullable
	Notes         string           `json:"notes"`
	CreatedAt     time.Time        `json:"createdAt"`
	CreatedBy     string           `json:"createdBy"`
}
