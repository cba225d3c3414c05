package dto

import "github.com/shopspring/decimal"

// CreateItemRequest carries the fields for a new inventory item.
type CreateItemRequest struct {
	Name          string          `json:"name" binding:"required"`
	SKU           string          `json:"sku"`
	Unit          string          `json:"unit"`
	SalePrice     decimal.Decimal `json:"salePrice"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	OpeningStock  decimal.Decimal `json:"openingStock"`
	MinimumStock  decimal.Decimal `json:"minimumStock"`
	ReorderLevel  decimal.Decimal `json:"reorderLevel"`
}

// UpdateItemRequest carries optional item field updates. Stock is not
// updatable here; it only moves through stock operations.
type UpdateItemRequest struct {
	Name          *string          `json:"name"`
	SKU           *string          `json:"sku"`
	Unit          *string          `json:"unit"`
	SalePrice     *decimal.Decimal `json:"salePrice"`
	PurchasePrice *decimal.Decimal `json:"purchasePrice"`
	MinimumStock  *decimal.Decimal `json:"minimumStock"`
	ReorderLevel  *decimal.Decimal `json:"reorderLevel"`
}

// StockOperationRequest adds, reduces or adjusts stock manually.
type StockOperationRequest struct {
	Quantity  decimal.Decimal  `json:"quantity" binding:"required"`
	UnitPrice *decimal.Decimal `json:"unitPrice"` // Purchase price for additions
	Reference string           `json:"reference"`
	Notes     string           `json:"notes"`
}

// RestoreStockRequest puts stock back after a cancellation or customer return.
type RestoreStockRequest struct {
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	Reference string          `json:"reference"`
	Reason    string          `json:"reason" binding:"required,oneof=CANCELLED RETURNED"`
}

// AvailabilityLineRequest is one line of an availability pre-check.
type AvailabilityLineRequest struct {
	ItemID   string          `json:"itemID" binding:"required"`
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
}

// CheckAvailabilityRequest asks whether the listed quantities are in stock.
type CheckAvailabilityRequest struct {
	Items []AvailabilityLineRequest `json:"items" binding:"required,min=1,dive"`
}
