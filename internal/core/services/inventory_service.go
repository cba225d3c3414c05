package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bizbook/bizbook_backend/internal/apperrors"
	"github.com/bizbook/bizbook_backend/internal/core/domain"
	portsrepo "github.com/bizbook/bizbook_backend/internal/core/ports/repositories"
	portssvc "github.com/bizbook/bizbook_backend/internal/core/ports/services"
	"github.com/bizbook/bizbook_backend/internal/dto"
)

const openingStockReference = "OPENING_STOCK"

// inventoryService maintains item master data and the append-only stock
// movement ledger.
type inventoryService struct {
	inventoryRepo portsrepo.InventoryRepositoryFacade
	publisher     portssvc.EventPublisher
}

// NewInventoryService creates a new InventoryService.
func NewInventoryService(inventoryRepo portsrepo.InventoryRepositoryFacade, publisher portssvc.EventPublisher) portssvc.InventorySvcFacade {
	return &inventoryService{
		inventoryRepo: inventoryRepo,
		publisher:     publisher,
	}
}

var _ portssvc.InventorySvcFacade = (*inventoryService)(nil)

func (s *inventoryService) CreateItem(ctx context.Context, ownerID string, req dto.CreateItemRequest, userID string) (*domain.InventoryItem, error) {
	if req.OpeningStock.IsNegative() || req.MinimumStock.IsNegative() || req.ReorderLevel.IsNegative() {
		return nil, fmt.Errorf("%w: stock thresholds cannot be negative", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	item := domain.InventoryItem{
		ItemID:        uuid.NewString(),
		OwnerID:       ownerID,
		Name:          req.Name,
		SKU:           req.SKU,
		Unit:          req.Unit,
		SalePrice:     req.SalePrice,
		PurchasePrice: req.PurchasePrice,
		CurrentStock:  decimal.Zero,
		MinimumStock:  req.MinimumStock,
		ReorderLevel:  req.ReorderLevel,
		IsActive:      true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.inventoryRepo.CreateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create inventory item: %w", err)
	}

	// Opening stock enters through the movement ledger like any other
	// addition, so the movement log is complete from the first unit.
	if req.OpeningStock.GreaterThan(decimal.Zero) {
		change := portsrepo.StockChange{
			ItemID:    item.ItemID,
			Type:      domain.MovementIn,
			Quantity:  req.OpeningStock,
			Reference: openingStockReference,
		}
		_, updated, err := s.inventoryRepo.ApplyStockChange(ctx, ownerID, change, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to record opening stock: %w", err)
		}
		item = *updated
	}

	return &item, nil
}

func (s *inventoryService) UpdateItem(ctx context.Context, ownerID, itemID string, req dto.UpdateItemRequest, userID string) (*domain.InventoryItem, error) {
	item, err := s.inventoryRepo.FindItemByID(ctx, ownerID, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to find item %s: %w", itemID, err)
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.SKU != nil {
		item.SKU = *req.SKU
	}
	if req.Unit != nil {
		item.Unit = *req.Unit
	}
	if req.SalePrice != nil {
		item.SalePrice = *req.SalePrice
	}
	if req.PurchasePrice != nil {
		item.PurchasePrice = *req.PurchasePrice
	}
	if req.MinimumStock != nil {
		if req.MinimumStock.IsNegative() {
			return nil, fmt.Errorf("%w: minimum stock cannot be negative", apperrors.ErrValidation)
		}
		item.MinimumStock = *req.MinimumStock
	}
	if req.ReorderLevel != nil {
		if req.ReorderLevel.IsNegative() {
			return nil, fmt.Errorf("%w: reorder level cannot be negative", apperrors.ErrValidation)
		}
		item.ReorderLevel = *req.ReorderLevel
	}

	now := time.Now().UTC()
	item.LastUpdatedAt = now
	item.LastUpdatedBy = userID

	if err := s.inventoryRepo.UpdateItem(ctx, *item); err != nil {
		return nil, fmt.Errorf("failed to update item %s: %w", itemID, err)
	}
	return item, nil
}

func (s *inventoryService) GetItem(ctx context.Context, ownerID, itemID string) (*domain.InventoryItem, error) {
	return s.inventoryRepo.FindItemByID(ctx, ownerID, itemID)
}

func (s *inventoryService) ListItems(ctx context.Context, ownerID string, limit int, nextToken *string) ([]domain.InventoryItem, *string, error) {
	if limit <= 0 || limit > 100 {
		limit = 25
	}
	return s.inventoryRepo.ListItems(ctx, ownerID, limit, nextToken)
}

// AddStock increments stock with an IN movement. A unit price updates the
// item's last-purchase metadata inside the same transaction.
func (s *inventoryService) AddStock(ctx context.Context, ownerID, itemID string, req dto.StockOperationRequest, userID string) (*domain.StockMovement, error) {
	if req.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: quantity must be positive", apperrors.ErrValidation)
	}

	change := portsrepo.StockChange{
		ItemID:    itemID,
		Type:      domain.MovementIn,
		Quantity:  req.Quantity,
		UnitPrice: req.UnitPrice,
		Reference: req.Reference,
		Notes:     req.Notes,
	}
	movement, _, err := s.inventoryRepo.ApplyStockChange(ctx, ownerID, change, userID)
	if err != nil {
		return nil, err
	}
	return movement, nil
}

// ReduceStock decrements stock with an OUT movement. The repository locks the
// item row and validates the quantity against current stock, so a concurrent
// reduction cannot drive stock negative. At most one alert fires per call.
func (s *inventoryService) ReduceStock(ctx context.Context, ownerID, itemID string, req dto.StockOperationRequest, userID string) (*domain.StockMovement, error) {
	if req.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: quantity must be positive", apperrors.ErrValidation)
	}

	change := portsrepo.StockChange{
		ItemID:    itemID,
		Type:      domain.MovementOut,
		Quantity:  req.Quantity,
		Reference: req.Reference,
		Notes:     req.Notes,
	}
	movement, item, err := s.inventoryRepo.ApplyStockChange(ctx, ownerID, change, userID)
	if err != nil {
		return nil, err
	}

	publishStockAlerts(ctx, s.publisher, []domain.InventoryItem{*item})
	return movement, nil
}

// AdjustStock applies a signed manual correction as an ADJUST movement.
func (s *inventoryService) AdjustStock(ctx context.Context, ownerID, itemID string, quantity decimal.Decimal, reference, notes, userID string) (*domain.StockMovement, error) {
	if quantity.IsZero() {
		return nil, fmt.Errorf("%w: adjustment quantity cannot be zero", apperrors.ErrValidation)
	}

	change := portsrepo.StockChange{
		ItemID:    itemID,
		Type:      domain.MovementAdjust,
		Quantity:  quantity,
		Reference: reference,
		Notes:     notes,
	}
	movement, item, err := s.inventoryRepo.ApplyStockChange(ctx, ownerID, change, userID)
	if err != nil {
		return nil, err
	}

	if quantity.IsNegative() {
		publishStockAlerts(ctx, s.publisher, []domain.InventoryItem{*item})
	}
	return movement, nil
}

// RestoreStock puts stock back after a cancellation (IN movement) or a
// customer return (RETURN movement).
func (s *inventoryService) RestoreStock(ctx context.Context, ownerID, itemID string, quantity decimal.Decimal, reference string, reason domain.RestoreReason, userID string) (*domain.StockMovement, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: quantity must be positive", apperrors.ErrValidation)
	}

	movementType := domain.MovementIn
	if reason == domain.RestoreReturned {
		movementType = domain.MovementReturn
	}

	change := portsrepo.StockChange{
		ItemID:    itemID,
		Type:      movementType,
		Quantity:  quantity,
		Reference: reference,
		Notes:     string(reason),
	}
	movement, _, err := s.inventoryRepo.ApplyStockChange(ctx, ownerID, change, userID)
	if err != nil {
		return nil, err
	}
	return movement, nil
}

// CheckAvailability is the advisory pre-check. It reads current stock without
// locks, so its answer can be stale by the time a sale commits; the
// settlement transaction re-validates with the rows locked and fails the
// whole settlement on shortfall.
func (s *inventoryService) CheckAvailability(ctx context.Context, ownerID string, req dto.CheckAvailabilityRequest) (*domain.AvailabilityResult, error) {
	itemIDs := make([]string, 0, len(req.Items))
	for _, line := range req.Items {
		if line.Quantity.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("%w: quantity must be positive for item %s", apperrors.ErrValidation, line.ItemID)
		}
		itemIDs = append(itemIDs, line.ItemID)
	}

	items, err := s.inventoryRepo.FindItemsByIDs(ctx, ownerID, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch items for availability check: %w", err)
	}

	result := &domain.AvailabilityResult{Available: true, Shortfalls: []domain.Shortfall{}}
	for _, line := range req.Items {
		item, ok := items[line.ItemID]
		if !ok {
			return nil, fmt.Errorf("%w: item %s", apperrors.ErrNotFound, line.ItemID)
		}
		if line.Quantity.GreaterThan(item.CurrentStock) {
			result.Available = false
			result.Shortfalls = append(result.Shortfalls, domain.Shortfall{
				ItemID:    item.ItemID,
				Name:      item.Name,
				Requested: line.Quantity,
				Available: item.CurrentStock,
			})
		}
	}
	return result, nil
}

func (s *inventoryService) ListMovements(ctx context.Context, ownerID, itemID string, limit int, nextToken *string) ([]domain.StockMovement, *string, error) {
	if limit <= 0 || limit > 100 {
		limit = 25
	}
	return s.inventoryRepo.ListMovementsByItem(ctx, ownerID, itemID, limit, nextToken)
}
