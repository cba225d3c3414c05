package mapping

import (
	"github.com/bizbook/bizbook_backend/internal/core/domain"
	"github.com/bizbook/bizbook_backend/internal/models"
)

// ToModelInventoryItem converts a domain InventoryItem to a model InventoryItem
func ToModelInventoryItem(d domain.InventoryItem) models.InventoryItem {
	return models.InventoryItem{
		ItemID:            d.ItemID,
		OwnerID:           d.OwnerID,
		Name:              d.Name,
		SKU:               d.SKU,
		Unit:              d.Unit,
		SalePrice:         d.SalePrice,
		PurchasePrice:     d.PurchasePrice,
		CurrentStock:      d.CurrentStock,
		MinimumStock:      d.MinimumStock,
		ReorderLevel:      d.ReorderLevel,
		LastPurchasePrice: d.LastPurchasePrice,
		LastPurchaseDate:  d.LastPurchaseDate,
		IsActive:          d.IsActive,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainInventoryItem converts a model InventoryItem to a domain InventoryItem
func ToDomainInventoryItem(m models.InventoryItem) domain.InventoryItem {
	return domain.InventoryItem{
		ItemID:            m.ItemID,
		OwnerID:           m.OwnerID,
		Name:              m.Name,
		SKU:               m.SKU,
		Unit:              m.Unit,
		SalePrice:         m.SalePrice,
		PurchasePrice:     m.PurchasePrice,
		CurrentStock:      m.CurrentStock,
		MinimumStock:      m.MinimumStock,
		ReorderLevel:      m.ReorderLevel,
		LastPurchasePrice: m.LastPurchasePrice,
		LastPurchaseDate:  m.LastPurchaseDate,
		IsActive:          m.IsActive,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelStockMovement converts a domain StockMovement to a model StockMovement
func ToModelStockMovement(d domain.StockMovement) models.StockMovement {
	return models.StockMovement{
		MovementID:    d.MovementID,
		OwnerID:       d.OwnerID,
		ItemID:        d.ItemID,
		Type:          string(d.Type),
		Quantity:      d.Quantity,
		PreviousStock: d.PreviousStock,
		NewStock:      d.NewStock,
		Reference:     d.Reference,
		UnitPrice:     d.UnitPrice,
		Notes:         d.Notes,
		CreatedAt:     d.CreatedAt,
		CreatedBy:     d.CreatedBy,
	}
}

// ToDomainStockMovement converts a model StockMovement to a domain StockMovement
func ToDomainStockMovement(m models.StockMovement) domain.StockMovement {
	return domain.StockMovement{
		MovementID:    m.MovementID,
		OwnerID:       m.OwnerID,
		ItemID:        m.ItemID,
		Type:          domain.MovementType(m.Type),
		Quantity:      m.Quantity,
		PreviousStock: m.PreviousStock,
		NewStock:      m.NewStock,
		Reference:     m.Reference,
		UnitPrice:     m.UnitPrice,
		Notes:         m.Notes,
		CreatedAt:     m.CreatedAt,
		CreatedBy:     m.CreatedBy,
	}
}

// ToDomainStockMovementSlice converts a slice of model StockMovements to domain StockMovements
func ToDomainStockMovementSlice(ms []models.StockMovement) []domain.StockMovement {
	ds := make([]domain.StockMovement, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainStockMovement(m)
	}
	return ds
}
