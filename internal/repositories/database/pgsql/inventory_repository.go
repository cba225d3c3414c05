package pgsql

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/bizbook/bizbook_backend/internal/apperrors"
	"github.com/bizbook/bizbook_backend/internal/core/domain"
	portsrepo "github.com/bizbook/bizbook_backend/internal/core/ports/repositories"
	"github.com/bizbook/bizbook_backend/internal/models"
	"github.com/bizbook/bizbook_backend/internal/utils/mapping"
	"github.com/bizbook/bizbook_backend/internal/utils/pagination"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const inventoryItemColumns = `item_id, owner_id, name, sku, unit, sale_price, purchase_price, current_stock, minimum_stock, reorder_level, last_purchase_price, last_purchase_date, is_active, created_at, created_by, last_updated_at, last_updated_by`

type PgxInventoryRepository struct {
	BaseRepository
}

// newPgxInventoryRepository creates a new repository for items and the stock ledger.
func newPgxInventoryRepository(pool *pgxpool.Pool) portsrepo.InventoryRepositoryFacade {
	return &PgxInventoryRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxInventoryRepository implements portsrepo.InventoryRepositoryFacade
var _ portsrepo.InventoryRepositoryFacade = (*PgxInventoryRepository)(nil)

func scanInventoryItem(row pgx.Row) (*models.InventoryItem, error) {
	var m models.InventoryItem
	err := row.Scan(
		&m.ItemID,
		&m.OwnerID,
		&m.Name,
		&m.SKU,
		&m.Unit,
		&m.SalePrice,
		&m.PurchasePrice,
		&m.CurrentStock,
		&m.MinimumStock,
		&m.ReorderLevel,
		&m.LastPurchasePrice,
		&m.LastPurchaseDate,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// CreateItem inserts a new inventory item.
func (r *PgxInventoryRepository) CreateItem(ctx context.Context, item domain.InventoryItem) error {
	m := mapping.ToModelInventoryItem(item)
	query := `
		INSERT INTO inventory_items (` + inventoryItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.ItemID,
		m.OwnerID,
		m.Name,
		m.SKU,
		m.Unit,
		m.SalePrice,
		m.PurchasePrice,
		m.CurrentStock,
		m.MinimumStock,
		m.ReorderLevel,
		m.LastPurchasePrice,
		m.LastPurchaseDate,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert inventory item "+m.ItemID, err)
	}
	return nil
}

// UpdateItem updates item master data. Stock fields are not touched here;
// current_stock only moves through ApplyStockChange.
func (r *PgxInventoryRepository) UpdateItem(ctx context.Context, item domain.InventoryItem) error {
	m := mapping.ToModelInventoryItem(item)
	query := `
		UPDATE inventory_items
		SET name = $3,
		    sku = $4,
		    unit = $5,
		    sale_price = $6,
		    purchase_price = $7,
		    minimum_stock = $8,
		    reorder_level = $9,
		    is_active = $10,
		    last_updated_at = $11,
		    last_updated_by = $12
		WHERE owner_id = $1 AND item_id = $2;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.OwnerID,
		m.ItemID,
		m.Name,
		m.SKU,
		m.Unit,
		m.SalePrice,
		m.PurchasePrice,
		m.MinimumStock,
		m.ReorderLevel,
		m.IsActive,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update inventory item "+m.ItemID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindItemByID retrieves a single item.
func (r *PgxInventoryRepository) FindItemByID(ctx context.Context, ownerID, itemID string) (*domain.InventoryItem, error) {
	query := `SELECT ` + inventoryItemColumns + ` FROM inventory_items WHERE owner_id = $1 AND item_id = $2;`

	m, err := scanInventoryItem(r.Pool.QueryRow(ctx, query, ownerID, itemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find inventory item "+itemID, err)
	}

	d := mapping.ToDomainInventoryItem(*m)
	return &d, nil
}

// FindItemsByIDs retrieves the given items keyed by ID. Missing IDs are simply
// absent from the map; callers decide whether that is an error.
func (r *PgxInventoryRepository) FindItemsByIDs(ctx context.Context, ownerID string, itemIDs []string) (map[string]domain.InventoryItem, error) {
	if len(itemIDs) == 0 {
		return map[string]domain.InventoryItem{}, nil
	}

	query := `SELECT ` + inventoryItemColumns + ` FROM inventory_items WHERE owner_id = $1 AND item_id = ANY($2);`
	rows, err := r.Pool.Query(ctx, query, ownerID, itemIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query inventory items by IDs", err)
	}
	defer rows.Close()

	items := make(map[string]domain.InventoryItem, len(itemIDs))
	for rows.Next() {
		m, err := scanInventoryItem(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan inventory item row", err)
		}
		items[m.ItemID] = mapping.ToDomainInventoryItem(*m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating inventory item rows", err)
	}

	return items, nil
}

// ListItems retrieves a paginated list of items, newest first.
func (r *PgxInventoryRepository) ListItems(ctx context.Context, ownerID string, limit int, nextToken *string) ([]domain.InventoryItem, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + inventoryItemColumns + ` FROM inventory_items WHERE owner_id = $1`
	orderByClause := `ORDER BY created_at DESC`
	args := []interface{}{ownerID}

	var query string
	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, decodeErr := pagination.DecodeDateBasedToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastCreatedAt)
		query = baseQuery + ` AND created_at < $2 ` + orderByClause + ` LIMIT $` + strconv.Itoa(len(args)+1) + `;`
	} else {
		query = baseQuery + ` ` + orderByClause + ` LIMIT $` + strconv.Itoa(len(args)+1) + `;`
	}
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query inventory items", err)
	}
	defer rows.Close()

	items := make([]models.InventoryItem, 0, fetchLimit)
	for rows.Next() {
		m, err := scanInventoryItem(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan inventory item row", err)
		}
		items = append(items, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating inventory item rows", err)
	}

	var nextTokenVal *string
	results := items
	if len(items) > limit {
		token := pagination.EncodeDateBasedToken(items[limit-1].CreatedAt)
		nextTokenVal = &token
		results = items[:limit]
	}

	domainItems := make([]domain.InventoryItem, len(results))
	for i, m := range results {
		domainItems[i] = mapping.ToDomainInventoryItem(m)
	}
	return domainItems, nextTokenVal, nil
}

// ListMovementsByItem retrieves a paginated slice of the item's movement
// ledger, newest first.
func (r *PgxInventoryRepository) ListMovementsByItem(ctx context.Context, ownerID, itemID string, limit int, nextToken *string) ([]domain.StockMovement, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `
		SELECT movement_id, owner_id, item_id, movement_type, quantity, previous_stock, new_stock, reference, unit_price, notes, created_at, created_by
		FROM stock_movements
		WHERE owner_id = $1 AND item_id = $2
	`
	orderByClause := `ORDER BY created_at DESC`
	args := []interface{}{ownerID, itemID}

	var query string
	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, decodeErr := pagination.DecodeDateBasedToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastCreatedAt)
		query = baseQuery + ` AND created_at < $3 ` + orderByClause + ` LIMIT $` + strconv.Itoa(len(args)+1) + `;`
	} else {
		query = baseQuery + ` ` + orderByClause + ` LIMIT $` + strconv.Itoa(len(args)+1) + `;`
	}
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query stock movements for item "+itemID, err)
	}
	defer rows.Close()

	movements := make([]models.StockMovement, 0, fetchLimit)
	for rows.Next() {
		var m models.StockMovement
		if err := rows.Scan(
			&m.MovementID,
			&m.OwnerID,
			&m.ItemID,
			&m.Type,
			&m.Quantity,
			&m.PreviousStock,
			&m.NewStock,
			&m.Reference,
			&m.UnitPrice,
			&m.Notes,
			&m.CreatedAt,
			&m.CreatedBy,
		); err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan stock movement row for item "+itemID, err)
		}
		movements = append(movements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating stock movement rows for item "+itemID, err)
	}

	var nextTokenVal *string
	results := movements
	if len(movements) > limit {
		token := pagination.EncodeDateBasedToken(movements[limit-1].CreatedAt)
		nextTokenVal = &token
		results = movements[:limit]
	}

	return mapping.ToDomainStockMovementSlice(results), nextTokenVal, nil
}

// ApplyStockChange applies a single change in its own short transaction.
func (r *PgxInventoryRepository) ApplyStockChange(ctx context.Context, ownerID string, change portsrepo.StockChange, userID string) (*domain.StockMovement, *domain.InventoryItem, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer r.Rollback(ctx, tx)

	movement, item, err := r.ApplyStockChangeInTx(ctx, tx, ownerID, change, userID)
	if err != nil {
		return nil, nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, nil, err
	}
	return movement, item, nil
}

// ApplyStockChangeInTx locks the item row, validates the change against the
// locked stock level, updates the item and appends the movement. This is the
// authoritative stock check: the advisory pre-check may have read stale data,
// so OUT shortfalls detected here fail the caller's whole transaction.
func (r *PgxInventoryRepository) ApplyStockChangeInTx(ctx context.Context, tx pgx.Tx, ownerID string, change portsrepo.StockChange, userID string) (*domain.StockMovement, *domain.InventoryItem, error) {
	lockQuery := `SELECT ` + inventoryItemColumns + ` FROM inventory_items WHERE owner_id = $1 AND item_id = $2 FOR UPDATE;`

	m, err := scanInventoryItem(tx.QueryRow(ctx, lockQuery, ownerID, change.ItemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.ErrNotFound
		}
		return nil, nil, apperrors.NewAppError(500, "failed to lock inventory item "+change.ItemID, err)
	}

	previousStock := m.CurrentStock
	var delta decimal.Decimal
	switch change.Type {
	case domain.MovementIn, domain.MovementReturn:
		delta = change.Quantity
	case domain.MovementOut:
		if change.Quantity.GreaterThan(previousStock) {
			return nil, nil, apperrors.ErrInsufficientStock
		}
		delta = change.Quantity.Neg()
	case domain.MovementAdjust:
		// Adjustments carry a signed quantity.
		delta = change.Quantity
		if previousStock.Add(delta).IsNegative() {
			return nil, nil, apperrors.ErrInsufficientStock
		}
	default:
		return nil, nil, apperrors.NewAppError(500, "unknown movement type "+string(change.Type), nil)
	}
	newStock := previousStock.Add(delta)

	now := time.Now().UTC()
	m.CurrentStock = newStock
	m.LastUpdatedAt = now
	m.LastUpdatedBy = userID
	if change.Type == domain.MovementIn && change.UnitPrice != nil {
		m.LastPurchasePrice = *change.UnitPrice
		m.LastPurchaseDate = &now
	}

	updateQuery := `
		UPDATE inventory_items
		SET current_stock = $3,
		    last_purchase_price = $4,
		    last_purchase_date = $5,
		    last_updated_at = $6,
		    last_updated_by = $7
		WHERE owner_id = $1 AND item_id = $2;
	`
	if _, err := tx.Exec(ctx, updateQuery,
		ownerID,
		change.ItemID,
		m.CurrentStock,
		m.LastPurchasePrice,
		m.LastPurchaseDate,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	); err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to update stock for item "+change.ItemID, err)
	}

	// The movement row stores the absolute quantity; previous/new stock carry
	// the direction for adjustments.
	movement := models.StockMovement{
		MovementID:    uuid.NewString(),
		OwnerID:       ownerID,
		ItemID:        change.ItemID,
		Type:          string(change.Type),
		Quantity:      change.Quantity.Abs(),
		PreviousStock: previousStock,
		NewStock:      newStock,
		Reference:     change.Reference,
		UnitPrice:     change.UnitPrice,
		Notes:         change.Notes,
		CreatedAt:     now,
		CreatedBy:     userID,
	}
	insertQuery := `
		INSERT INTO stock_movements (movement_id, owner_id, item_id, movement_type, quantity, previous_stock, new_stock, reference, unit_price, notes, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	if _, err := tx.Exec(ctx, insertQuery,
		movement.MovementID,
		movement.OwnerID,
		movement.ItemID,
		movement.Type,
		movement.Quantity,
		movement.PreviousStock,
		movement.NewStock,
		movement.Reference,
		movement.UnitPrice,
		movement.Notes,
		movement.CreatedAt,
		movement.CreatedBy,
	); err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to insert stock movement for item "+change.ItemID, err)
	}

	domainMovement := mapping.ToDomainStockMovement(movement)
	domainItem := mapping.ToDomainInventoryItem(*m)
	return &domainMovement, &domainItem, nil
}
