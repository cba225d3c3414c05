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
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const saleColumns = `sale_id, owner_id, customer_id, sale_number, sale_date, due_date, amount, paid_amount, remaining_amount, status, description, created_at, created_by, last_updated_at, last_updated_by`
const invoiceColumns = `invoice_id, owner_id, party_id, invoice_number, invoice_date, due_date, amount, paid_amount, remaining_amount, status, description, created_at, created_by, last_updated_at, last_updated_by`
const receiptColumns = `receipt_id, owner_id, customer_id, sale_id, receipt_number, amount, method, status, receipt_date, notes, created_at, created_by, last_updated_at, last_updated_by`
const paymentColumns = `payment_id, owner_id, party_id, invoice_id, payment_number, amount, method, clearance_date, payment_date, notes, created_at, created_by, last_updated_at, last_updated_by`

// PgxDocumentRepository persists sales, invoices and their payments. Its write
// methods compose the journal append and stock mutations into one database
// transaction via the injected ledger and inventory repositories.
type PgxDocumentRepository struct {
	BaseRepository
	ledgerRepo    portsrepo.LedgerRepositoryFacade
	inventoryRepo portsrepo.InventoryRepositoryFacade
}

// newPgxDocumentRepository creates a new repository for settlement documents.
func newPgxDocumentRepository(pool *pgxpool.Pool, ledgerRepo portsrepo.LedgerRepositoryFacade, inventoryRepo portsrepo.InventoryRepositoryFacade) portsrepo.DocumentRepositoryWithTx {
	return &PgxDocumentRepository{
		BaseRepository: BaseRepository{Pool: pool},
		ledgerRepo:     ledgerRepo,
		inventoryRepo:  inventoryRepo,
	}
}

// Ensure PgxDocumentRepository implements portsrepo.DocumentRepositoryWithTx
var _ portsrepo.DocumentRepositoryWithTx = (*PgxDocumentRepository)(nil)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// --- Scan helpers ---

func scanSale(row pgx.Row) (*models.Sale, error) {
	var m models.Sale
	err := row.Scan(
		&m.SaleID,
		&m.OwnerID,
		&m.CustomerID,
		&m.SaleNumber,
		&m.SaleDate,
		&m.DueDate,
		&m.Amount,
		&m.PaidAmount,
		&m.RemainingAmount,
		&m.Status,
		&m.Description,
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

func scanInvoice(row pgx.Row) (*models.Invoice, error) {
	var m models.Invoice
	err := row.Scan(
		&m.InvoiceID,
		&m.OwnerID,
		&m.PartyID,
		&m.InvoiceNumber,
		&m.InvoiceDate,
		&m.DueDate,
		&m.Amount,
		&m.PaidAmount,
		&m.RemainingAmount,
		&m.Status,
		&m.Description,
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

func scanReceipt(row pgx.Row) (*models.SaleReceipt, error) {
	var m models.SaleReceipt
	err := row.Scan(
		&m.ReceiptID,
		&m.OwnerID,
		&m.CustomerID,
		&m.SaleID,
		&m.ReceiptNumber,
		&m.Amount,
		&m.Method,
		&m.Status,
		&m.ReceiptDate,
		&m.Notes,
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

func scanPayment(row pgx.Row) (*models.InvoicePayment, error) {
	var m models.InvoicePayment
	err := row.Scan(
		&m.PaymentID,
		&m.OwnerID,
		&m.PartyID,
		&m.InvoiceID,
		&m.PaymentNumber,
		&m.Amount,
		&m.Method,
		&m.ClearanceDate,
		&m.PaymentDate,
		&m.Notes,
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

// applyStockChanges runs every change through the inventory repository inside
// the given transaction. Any shortfall fails the whole transaction.
func (r *PgxDocumentRepository) applyStockChanges(ctx context.Context, tx pgx.Tx, ownerID string, changes []portsrepo.StockChange, userID string) ([]domain.StockMovement, []domain.InventoryItem, error) {
	movements := make([]domain.StockMovement, 0, len(changes))
	items := make([]domain.InventoryItem, 0, len(changes))
	for _, change := range changes {
		movement, item, err := r.inventoryRepo.ApplyStockChangeInTx(ctx, tx, ownerID, change, userID)
		if err != nil {
			return nil, nil, err
		}
		movements = append(movements, *movement)
		items = append(items, *item)
	}
	return movements, items, nil
}

// --- Sale writes ---

const insertSaleQuery = `
	INSERT INTO sales (` + saleColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
`

const insertSaleItemQuery = `
	INSERT INTO sale_items (sale_item_id, sale_id, item_id, quantity, unit_price, total)
	VALUES ($1, $2, $3, $4, $5, $6);
`

// SaveSale inserts the sale with its items, appends the opening debit entry
// and applies the stock reductions, all in one transaction.
func (r *PgxDocumentRepository) SaveSale(ctx context.Context, sale domain.Sale, entry domain.LedgerEntry, changes []portsrepo.StockChange) ([]domain.StockMovement, []domain.InventoryItem, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelSale(sale)
	_, err = tx.Exec(ctx, insertSaleQuery,
		m.SaleID,
		m.OwnerID,
		m.CustomerID,
		m.SaleNumber,
		m.SaleDate,
		m.DueDate,
		m.Amount,
		m.PaidAmount,
		m.RemainingAmount,
		m.Status,
		m.Description,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, nil, apperrors.ErrDuplicate
		}
		return nil, nil, apperrors.NewAppError(500, "failed to insert sale "+m.SaleID, err)
	}

	batch := &pgx.Batch{}
	for _, item := range sale.Items {
		mi := mapping.ToModelSaleItem(item)
		batch.Queue(insertSaleItemQuery, mi.SaleItemID, mi.SaleID, mi.ItemID, mi.Quantity, mi.UnitPrice, mi.Total)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to insert sale items for sale "+m.SaleID, err)
		}
	}

	if err := r.ledgerRepo.AppendEntryInTx(ctx, tx, entry); err != nil {
		return nil, nil, err
	}

	movements, items, err := r.applyStockChanges(ctx, tx, sale.OwnerID, changes, sale.CreatedBy)
	if err != nil {
		return nil, nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, nil, err
	}
	return movements, items, nil
}

const updateSaleSettlementQuery = `
	UPDATE sales
	SET paid_amount = $3,
	    remaining_amount = $4,
	    status = $5,
	    last_updated_at = $6,
	    last_updated_by = $7
	WHERE owner_id = $1 AND sale_id = $2;
`

func updateSaleSettlementInTx(ctx context.Context, tx pgx.Tx, sale domain.Sale) error {
	m := mapping.ToModelSale(sale)
	cmdTag, err := tx.Exec(ctx, updateSaleSettlementQuery,
		m.OwnerID,
		m.SaleID,
		m.PaidAmount,
		m.RemainingAmount,
		m.Status,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update sale "+m.SaleID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ApplyReceipt inserts the receipt, appends the credit entry and updates the
// linked sale when present.
func (r *PgxDocumentRepository) ApplyReceipt(ctx context.Context, sale *domain.Sale, receipt domain.SaleReceipt, entry domain.LedgerEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelSaleReceipt(receipt)
	query := `
		INSERT INTO sale_receipts (` + receiptColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err = tx.Exec(ctx, query,
		m.ReceiptID,
		m.OwnerID,
		m.CustomerID,
		m.SaleID,
		m.ReceiptNumber,
		m.Amount,
		m.Method,
		m.Status,
		m.ReceiptDate,
		m.Notes,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert receipt "+m.ReceiptID, err)
	}

	if err := r.ledgerRepo.AppendEntryInTx(ctx, tx, entry); err != nil {
		return err
	}

	if sale != nil {
		if err := updateSaleSettlementInTx(ctx, tx, *sale); err != nil {
			return err
		}
	}

	return r.Commit(ctx, tx)
}

// CancelSale marks the sale CANCELLED, appends the offsetting entry and
// restores the stock its items consumed.
func (r *PgxDocumentRepository) CancelSale(ctx context.Context, sale domain.Sale, entry domain.LedgerEntry, changes []portsrepo.StockChange) ([]domain.StockMovement, []domain.InventoryItem, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer r.Rollback(ctx, tx)

	query := `
		UPDATE sales
		SET status = $3,
		    last_updated_at = $4,
		    last_updated_by = $5
		WHERE owner_id = $1 AND sale_id = $2 AND status != $3;
	`
	cmdTag, err := tx.Exec(ctx, query, sale.OwnerID, sale.SaleID, string(domain.StatusCancelled), sale.LastUpdatedAt, sale.LastUpdatedBy)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to cancel sale "+sale.SaleID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return nil, nil, apperrors.ErrNotFound
	}

	if err := r.ledgerRepo.AppendEntryInTx(ctx, tx, entry); err != nil {
		return nil, nil, err
	}

	movements, items, err := r.applyStockChanges(ctx, tx, sale.OwnerID, changes, sale.LastUpdatedBy)
	if err != nil {
		return nil, nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, nil, err
	}
	return movements, items, nil
}

// DeleteReceipt removes the receipt, appends the offsetting entry and rolls
// the linked sale back when present.
func (r *PgxDocumentRepository) DeleteReceipt(ctx context.Context, ownerID, receiptID string, sale *domain.Sale, entry domain.LedgerEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	cmdTag, err := tx.Exec(ctx, `DELETE FROM sale_receipts WHERE owner_id = $1 AND receipt_id = $2;`, ownerID, receiptID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete receipt "+receiptID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if err := r.ledgerRepo.AppendEntryInTx(ctx, tx, entry); err != nil {
		return err
	}

	if sale != nil {
		if err := updateSaleSettlementInTx(ctx, tx, *sale); err != nil {
			return err
		}
	}

	return r.Commit(ctx, tx)
}

// UpdateReceiptStatus records clearance of a receipt instrument.
func (r *PgxDocumentRepository) UpdateReceiptStatus(ctx context.Context, ownerID, receiptID string, status domain.ReceiptStatus, userID string, at time.Time) error {
	query := `
		UPDATE sale_receipts
		SET status = $3,
		    last_updated_at = $4,
		    last_updated_by = $5
		WHERE owner_id = $1 AND receipt_id = $2;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, ownerID, receiptID, string(status), at, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status of receipt "+receiptID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// --- Invoice writes ---

const insertInvoiceQuery = `
	INSERT INTO invoices (` + invoiceColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
`

const insertInvoiceItemQuery = `
	INSERT INTO invoice_items (invoice_item_id, invoice_id, item_id, quantity, unit_price, total)
	VALUES ($1, $2, $3, $4, $5, $6);
`

// SaveInvoice inserts the invoice with its items, appends the opening credit
// entry and applies the stock additions, all in one transaction.
func (r *PgxDocumentRepository) SaveInvoice(ctx context.Context, invoice domain.Invoice, entry domain.LedgerEntry, changes []portsrepo.StockChange) ([]domain.StockMovement, []domain.InventoryItem, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelInvoice(invoice)
	_, err = tx.Exec(ctx, insertInvoiceQuery,
		m.InvoiceID,
		m.OwnerID,
		m.PartyID,
		m.InvoiceNumber,
		m.InvoiceDate,
		m.DueDate,
		m.Amount,
		m.PaidAmount,
		m.RemainingAmount,
		m.Status,
		m.Description,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, nil, apperrors.ErrDuplicate
		}
		return nil, nil, apperrors.NewAppError(500, "failed to insert invoice "+m.InvoiceID, err)
	}

	batch := &pgx.Batch{}
	for _, item := range invoice.Items {
		mi := mapping.ToModelInvoiceItem(item)
		batch.Queue(insertInvoiceItemQuery, mi.InvoiceItemID, mi.InvoiceID, mi.ItemID, mi.Quantity, mi.UnitPrice, mi.Total)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to insert invoice items for invoice "+m.InvoiceID, err)
		}
	}

	if err := r.ledgerRepo.AppendEntryInTx(ctx, tx, entry); err != nil {
		return nil, nil, err
	}

	movements, items, err := r.applyStockChanges(ctx, tx, invoice.OwnerID, changes, invoice.CreatedBy)
	if err != nil {
		return nil, nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, nil, err
	}
	return movements, items, nil
}

const updateInvoiceSettlementQuery = `
	UPDATE invoices
	SET paid_amount = $3,
	    remaining_amount = $4,
	    status = $5,
	    last_updated_at = $6,
	    last_updated_by = $7
	WHERE owner_id = $1 AND invoice_id = $2;
`

func updateInvoiceSettlementInTx(ctx context.Context, tx pgx.Tx, invoice domain.Invoice) error {
	m := mapping.ToModelInvoice(invoice)
	cmdTag, err := tx.Exec(ctx, updateInvoiceSettlementQuery,
		m.OwnerID,
		m.InvoiceID,
		m.PaidAmount,
		m.RemainingAmount,
		m.Status,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update invoice "+m.InvoiceID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ApplyInvoicePayment inserts the payment, appends the debit entry and updates
// the linked invoice when present.
func (r *PgxDocumentRepository) ApplyInvoicePayment(ctx context.Context, invoice *domain.Invoice, payment domain.InvoicePayment, entry domain.LedgerEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelInvoicePayment(payment)
	query := `
		INSERT INTO invoice_payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err = tx.Exec(ctx, query,
		m.PaymentID,
		m.OwnerID,
		m.PartyID,
		m.InvoiceID,
		m.PaymentNumber,
		m.Amount,
		m.Method,
		m.ClearanceDate,
		m.PaymentDate,
		m.Notes,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert invoice payment "+m.PaymentID, err)
	}

	if err := r.ledgerRepo.AppendEntryInTx(ctx, tx, entry); err != nil {
		return err
	}

	if invoice != nil {
		if err := updateInvoiceSettlementInTx(ctx, tx, *invoice); err != nil {
			return err
		}
	}

	return r.Commit(ctx, tx)
}

// CancelInvoice marks the invoice CANCELLED, appends the offsetting entry and
// removes the stock its items added.
func (r *PgxDocumentRepository) CancelInvoice(ctx context.Context, invoice domain.Invoice, entry domain.LedgerEntry, changes []portsrepo.StockChange) ([]domain.StockMovement, []domain.InventoryItem, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer r.Rollback(ctx, tx)

	query := `
		UPDATE invoices
		SET status = $3,
		    last_updated_at = $4,
		    last_updated_by = $5
		WHERE owner_id = $1 AND invoice_id = $2 AND status != $3;
	`
	cmdTag, err := tx.Exec(ctx, query, invoice.OwnerID, invoice.InvoiceID, string(domain.StatusCancelled), invoice.LastUpdatedAt, invoice.LastUpdatedBy)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to cancel invoice "+invoice.InvoiceID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return nil, nil, apperrors.ErrNotFound
	}

	if err := r.ledgerRepo.AppendEntryInTx(ctx, tx, entry); err != nil {
		return nil, nil, err
	}

	movements, items, err := r.applyStockChanges(ctx, tx, invoice.OwnerID, changes, invoice.LastUpdatedBy)
	if err != nil {
		return nil, nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, nil, err
	}
	return movements, items, nil
}

// DeleteInvoicePayment removes the payment, appends the offsetting entry and
// rolls the linked invoice back when present.
func (r *PgxDocumentRepository) DeleteInvoicePayment(ctx context.Context, ownerID, paymentID string, invoice *domain.Invoice, entry domain.LedgerEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	cmdTag, err := tx.Exec(ctx, `DELETE FROM invoice_payments WHERE owner_id = $1 AND payment_id = $2;`, ownerID, paymentID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete invoice payment "+paymentID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if err := r.ledgerRepo.AppendEntryInTx(ctx, tx, entry); err != nil {
		return err
	}

	if invoice != nil {
		if err := updateInvoiceSettlementInTx(ctx, tx, *invoice); err != nil {
			return err
		}
	}

	return r.Commit(ctx, tx)
}

// SetPaymentClearance records the clearance date of an invoice payment.
func (r *PgxDocumentRepository) SetPaymentClearance(ctx context.Context, ownerID, paymentID string, clearedAt time.Time, userID string, at time.Time) error {
	query := `
		UPDATE invoice_payments
		SET clearance_date = $3,
		    last_updated_at = $4,
		    last_updated_by = $5
		WHERE owner_id = $1 AND payment_id = $2;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, ownerID, paymentID, clearedAt, at, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to set clearance of payment "+paymentID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// --- Sale reads ---

func (r *PgxDocumentRepository) findSaleItems(ctx context.Context, saleID string) ([]domain.SaleItem, error) {
	query := `
		SELECT sale_item_id, sale_id, item_id, quantity, unit_price, total
		FROM sale_items
		WHERE sale_id = $1
		ORDER BY sale_item_id;
	`
	rows, err := r.Pool.Query(ctx, query, saleID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query items for sale "+saleID, err)
	}
	defer rows.Close()

	items := []domain.SaleItem{}
	for rows.Next() {
		var m models.SaleItem
		if err := rows.Scan(&m.SaleItemID, &m.SaleID, &m.ItemID, &m.Quantity, &m.UnitPrice, &m.Total); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan sale item row for sale "+saleID, err)
		}
		items = append(items, mapping.ToDomainSaleItem(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating sale item rows for sale "+saleID, err)
	}
	return items, nil
}

// FindSaleByID retrieves a sale with its inventory lines.
func (r *PgxDocumentRepository) FindSaleByID(ctx context.Context, ownerID, saleID string) (*domain.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE owner_id = $1 AND sale_id = $2;`

	m, err := scanSale(r.Pool.QueryRow(ctx, query, ownerID, saleID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find sale "+saleID, err)
	}

	sale := mapping.ToDomainSale(*m)
	sale.Items, err = r.findSaleItems(ctx, saleID)
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

// FindSaleByNumber retrieves a sale by its business voucher number, without
// items. Used for uniqueness checks.
func (r *PgxDocumentRepository) FindSaleByNumber(ctx context.Context, ownerID, saleNumber string) (*domain.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE owner_id = $1 AND sale_number = $2;`

	m, err := scanSale(r.Pool.QueryRow(ctx, query, ownerID, saleNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find sale by number "+saleNumber, err)
	}

	sale := mapping.ToDomainSale(*m)
	return &sale, nil
}

// ListSales retrieves a paginated list of sales, newest first.
func (r *PgxDocumentRepository) ListSales(ctx context.Context, ownerID string, limit int, nextToken *string) ([]domain.Sale, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + saleColumns + ` FROM sales WHERE owner_id = $1`
	orderByClause := `ORDER BY sale_date DESC, created_at DESC`
	args := []interface{}{ownerID}

	var query string
	if nextToken != nil && *nextToken != "" {
		lastSaleDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastSaleDate, lastCreatedAt)
		query = baseQuery + ` AND (sale_date, created_at) < ($2, $3) ` + orderByClause + ` LIMIT $` + strconv.Itoa(len(args)+1) + `;`
	} else {
		query = baseQuery + ` ` + orderByClause + ` LIMIT $` + strconv.Itoa(len(args)+1) + `;`
	}
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query sales", err)
	}
	defer rows.Close()

	sales := make([]models.Sale, 0, fetchLimit)
	for rows.Next() {
		m, err := scanSale(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan sale row", err)
		}
		sales = append(sales, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating sale rows", err)
	}

	var nextTokenVal *string
	results := sales
	if len(sales) > limit {
		last := sales[limit-1]
		token := pagination.EncodeToken(last.SaleDate, last.CreatedAt)
		nextTokenVal = &token
		results = sales[:limit]
	}

	domainSales := make([]domain.Sale, len(results))
	for i, m := range results {
		domainSales[i] = mapping.ToDomainSale(m)
	}
	return domainSales, nextTokenVal, nil
}

// ListOverdueSales retrieves unpaid sales past their due date as of the given
// time. Overdue-ness is a query predicate, not a stored status.
func (r *PgxDocumentRepository) ListOverdueSales(ctx context.Context, ownerID string, asOf time.Time) ([]domain.Sale, error) {
	query := `
		SELECT ` + saleColumns + `
		FROM sales
		WHERE owner_id = $1
		  AND due_date IS NOT NULL
		  AND due_date < $2
		  AND status IN ('PENDING', 'PARTIALLY_PAID')
		ORDER BY due_date ASC;
	`
	rows, err := r.Pool.Query(ctx, query, ownerID, asOf)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query overdue sales", err)
	}
	defer rows.Close()

	sales := []domain.Sale{}
	for rows.Next() {
		m, err := scanSale(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan overdue sale row", err)
		}
		sales = append(sales, mapping.ToDomainSale(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating overdue sale rows", err)
	}
	return sales, nil
}

// FindReceiptByID retrieves a single receipt.
func (r *PgxDocumentRepository) FindReceiptByID(ctx context.Context, ownerID, receiptID string) (*domain.SaleReceipt, error) {
	query := `SELECT ` + receiptColumns + ` FROM sale_receipts WHERE owner_id = $1 AND receipt_id = $2;`

	m, err := scanReceipt(r.Pool.QueryRow(ctx, query, ownerID, receiptID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find receipt "+receiptID, err)
	}

	d := mapping.ToDomainSaleReceipt(*m)
	return &d, nil
}

// FindReceiptByNumber retrieves a receipt by its voucher number.
func (r *PgxDocumentRepository) FindReceiptByNumber(ctx context.Context, ownerID, receiptNumber string) (*domain.SaleReceipt, error) {
	query := `SELECT ` + receiptColumns + ` FROM sale_receipts WHERE owner_id = $1 AND receipt_number = $2;`

	m, err := scanReceipt(r.Pool.QueryRow(ctx, query, ownerID, receiptNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find receipt by number "+receiptNumber, err)
	}

	d := mapping.ToDomainSaleReceipt(*m)
	return &d, nil
}

// ListReceiptsBySale retrieves every receipt allocated to the sale.
func (r *PgxDocumentRepository) ListReceiptsBySale(ctx context.Context, ownerID, saleID string) ([]domain.SaleReceipt, error) {
	query := `SELECT ` + receiptColumns + ` FROM sale_receipts WHERE owner_id = $1 AND sale_id = $2 ORDER BY receipt_date ASC, created_at ASC;`

	rows, err := r.Pool.Query(ctx, query, ownerID, saleID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query receipts for sale "+saleID, err)
	}
	defer rows.Close()

	receipts := []domain.SaleReceipt{}
	for rows.Next() {
		m, err := scanReceipt(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan receipt row for sale "+saleID, err)
		}
		receipts = append(receipts, mapping.ToDomainSaleReceipt(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating receipt rows for sale "+saleID, err)
	}
	return receipts, nil
}

// --- Invoice reads ---

func (r *PgxDocumentRepository) findInvoiceItems(ctx context.Context, invoiceID string) ([]domain.InvoiceItem, error) {
	query := `
		SELECT invoice_item_id, invoice_id, item_id, quantity, unit_price, total
		FROM invoice_items
		WHERE invoice_id = $1
		ORDER BY invoice_item_id;
	`
	rows, err := r.Pool.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query items for invoice "+invoiceID, err)
	}
	defer rows.Close()

	items := []domain.InvoiceItem{}
	for rows.Next() {
		var m models.InvoiceItem
		if err := rows.Scan(&m.InvoiceItemID, &m.InvoiceID, &m.ItemID, &m.Quantity, &m.UnitPrice, &m.Total); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan invoice item row for invoice "+invoiceID, err)
		}
		items = append(items, mapping.ToDomainInvoiceItem(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating invoice item rows for invoice "+invoiceID, err)
	}
	return items, nil
}

// FindInvoiceByID retrieves an invoice with its inventory lines.
func (r *PgxDocumentRepository) FindInvoiceByID(ctx context.Context, ownerID, invoiceID string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE owner_id = $1 AND invoice_id = $2;`

	m, err := scanInvoice(r.Pool.QueryRow(ctx, query, ownerID, invoiceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find invoice "+invoiceID, err)
	}

	invoice := mapping.ToDomainInvoice(*m)
	invoice.Items, err = r.findInvoiceItems(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// FindInvoiceByNumber retrieves an invoice by its voucher number, without
// items. Used for uniqueness checks.
func (r *PgxDocumentRepository) FindInvoiceByNumber(ctx context.Context, ownerID, invoiceNumber string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE owner_id = $1 AND invoice_number = $2;`

	m, err := scanInvoice(r.Pool.QueryRow(ctx, query, ownerID, invoiceNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find invoice by number "+invoiceNumber, err)
	}

	invoice := mapping.ToDomainInvoice(*m)
	return &invoice, nil
}

// ListInvoices retrieves a paginated list of invoices, newest first.
func (r *PgxDocumentRepository) ListInvoices(ctx context.Context, ownerID string, limit int, nextToken *string) ([]domain.Invoice, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + invoiceColumns + ` FROM invoices WHERE owner_id = $1`
	orderByClause := `ORDER BY invoice_date DESC, created_at DESC`
	args := []interface{}{ownerID}

	var query string
	if nextToken != nil && *nextToken != "" {
		lastInvoiceDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastInvoiceDate, lastCreatedAt)
		query = baseQuery + ` AND (invoice_date, created_at) < ($2, $3) ` + orderByClause + ` LIMIT $` + strconv.Itoa(len(args)+1) + `;`
	} else {
		query = baseQuery + ` ` + orderByClause + ` LIMIT $` + strconv.Itoa(len(args)+1) + `;`
	}
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query invoices", err)
	}
	defer rows.Close()

	invoices := make([]models.Invoice, 0, fetchLimit)
	for rows.Next() {
		m, err := scanInvoice(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan invoice row", err)
		}
		invoices = append(invoices, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating invoice rows", err)
	}

	var nextTokenVal *string
	results := invoices
	if len(invoices) > limit {
		last := invoices[limit-1]
		token := pagination.EncodeToken(last.InvoiceDate, last.CreatedAt)
		nextTokenVal = &token
		results = invoices[:limit]
	}

	domainInvoices := make([]domain.Invoice, len(results))
	for i, m := range results {
		domainInvoices[i] = mapping.ToDomainInvoice(m)
	}
	return domainInvoices, nextTokenVal, nil
}

// ListOverdueInvoices retrieves unpaid invoices past their due date.
func (r *PgxDocumentRepository) ListOverdueInvoices(ctx context.Context, ownerID string, asOf time.Time) ([]domain.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE owner_id = $1
		  AND due_date IS NOT NULL
		  AND due_date < $2
		  AND status IN ('PENDING', 'PARTIALLY_PAID')
		ORDER BY due_date ASC;
	`
	rows, err := r.Pool.Query(ctx, query, ownerID, asOf)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query overdue invoices", err)
	}
	defer rows.Close()

	invoices := []domain.Invoice{}
	for rows.Next() {
		m, err := scanInvoice(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan overdue invoice row", err)
		}
		invoices = append(invoices, mapping.ToDomainInvoice(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating overdue invoice rows", err)
	}
	return invoices, nil
}

// FindInvoicePaymentByID retrieves a single payment.
func (r *PgxDocumentRepository) FindInvoicePaymentByID(ctx context.Context, ownerID, paymentID string) (*domain.InvoicePayment, error) {
	query := `SELECT ` + paymentColumns + ` FROM invoice_payments WHERE owner_id = $1 AND payment_id = $2;`

	m, err := scanPayment(r.Pool.QueryRow(ctx, query, ownerID, paymentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find invoice payment "+paymentID, err)
	}

	d := mapping.ToDomainInvoicePayment(*m)
	return &d, nil
}

// FindInvoicePaymentByNumber retrieves a payment by its voucher number.
func (r *PgxDocumentRepository) FindInvoicePaymentByNumber(ctx context.Context, ownerID, paymentNumber string) (*domain.InvoicePayment, error) {
	query := `SELECT ` + paymentColumns + ` FROM invoice_payments WHERE owner_id = $1 AND payment_number = $2;`

	m, err := scanPayment(r.Pool.QueryRow(ctx, query, ownerID, paymentNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find invoice payment by number "+paymentNumber, err)
	}

	d := mapping.ToDomainInvoicePayment(*m)
	return &d, nil
}

// ListPaymentsByInvoice retrieves every payment allocated to the invoice.
func (r *PgxDocumentRepository) ListPaymentsByInvoice(ctx context.Context, ownerID, invoiceID string) ([]domain.InvoicePayment, error) {
	query := `SELECT ` + paymentColumns + ` FROM invoice_payments WHERE owner_id = $1 AND invoice_id = $2 ORDER BY payment_date ASC, created_at ASC;`

	rows, err := r.Pool.Query(ctx, query, ownerID, invoiceID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query payments for invoice "+invoiceID, err)
	}
	defer rows.Close()

	payments := []domain.InvoicePayment{}
	for rows.Next() {
		m, err := scanPayment(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan payment row for invoice "+invoiceID, err)
		}
		payments = append(payments, mapping.ToDomainInvoicePayment(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating payment rows for invoice "+invoiceID, err)
	}
	return payments, nil
}
