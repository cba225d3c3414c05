package repositories

import (
	"context"
	"time"

	"github.com/bizbook/bizbook_backend/internal/core/domain"
)

// SaleReader defines read operations for sales and their receipts.
type SaleReader interface {
	FindSaleByID(ctx context.Context, ownerID, saleID string) (*domain.Sale, error)
	FindSaleByNumber(ctx context.Context, ownerID, saleNumber string) (*domain.Sale, error)
	ListSales(ctx context.Context, ownerID string, limit int, nextToken *string) ([]domain.Sale, *string, error)

	// ListOverdueSales derives overdue-ness at query time from the due date;
	// OVERDUE is never a stored status.
	ListOverdueSales(ctx context.Context, ownerID string, asOf time.Time) ([]domain.Sale, error)

	FindReceiptByID(ctx context.Context, ownerID, receiptID string) (*domain.SaleReceipt, error)
	FindReceiptByNumber(ctx context.Context, ownerID, receiptNumber string) (*domain.SaleReceipt, error)
	ListReceiptsBySale(ctx context.Context, ownerID, saleID string) ([]domain.SaleReceipt, error)
}

// InvoiceReader defines read operations for invoices and their payments.
type InvoiceReader interface {
	FindInvoiceByID(ctx context.Context, ownerID, invoiceID string) (*domain.Invoice, error)
	FindInvoiceByNumber(ctx context.Context, ownerID, invoiceNumber string) (*domain.Invoice, error)
	ListInvoices(ctx context.Context, ownerID string, limit int, nextToken *string) ([]domain.Invoice, *string, error)
	ListOverdueInvoices(ctx context.Context, ownerID string, asOf time.Time) ([]domain.Invoice, error)

	FindInvoicePaymentByID(ctx context.Context, ownerID, paymentID string) (*domain.InvoicePayment, error)
	FindInvoicePaymentByNumber(ctx context.Context, ownerID, paymentNumber string) (*domain.InvoicePayment, error)
	ListPaymentsByInvoice(ctx context.Context, ownerID, invoiceID string) ([]domain.InvoicePayment, error)
}

// SettlementWriter defines the atomic persistence operations of the
// settlement engine. Every method commits the document mutation, the ledger
// append and any stock movements in one database transaction, or none of it.
type SettlementWriter interface {
	// SaveSale inserts the sale with its items, appends the opening debit
	// entry and applies the stock reductions. Returns the applied movements
	// and updated item snapshots for post-commit alert evaluation.
	SaveSale(ctx context.Context, sale domain.Sale, entry domain.LedgerEntry, changes []StockChange) ([]domain.StockMovement, []domain.InventoryItem, error)

	// SaveInvoice inserts the invoice with its items, appends the opening
	// credit entry and applies the stock additions.
	SaveInvoice(ctx context.Context, invoice domain.Invoice, entry domain.LedgerEntry, changes []StockChange) ([]domain.StockMovement, []domain.InventoryItem, error)

	// ApplyReceipt inserts the receipt, appends the credit entry and, when
	// sale is non-nil, updates its amounts and status.
	ApplyReceipt(ctx context.Context, sale *domain.Sale, receipt domain.SaleReceipt, entry domain.LedgerEntry) error

	// ApplyInvoicePayment inserts the payment, appends the debit entry and,
	// when invoice is non-nil, updates its amounts and status.
	ApplyInvoicePayment(ctx context.Context, invoice *domain.Invoice, payment domain.InvoicePayment, entry domain.LedgerEntry) error

	// CancelSale marks the sale CANCELLED, appends the offsetting entry and
	// restores the stock consumed by its items.
	CancelSale(ctx context.Context, sale domain.Sale, entry domain.LedgerEntry, changes []StockChange) ([]domain.StockMovement, []domain.InventoryItem, error)

	// CancelInvoice marks the invoice CANCELLED, appends the offsetting entry
	// and removes the stock its items added.
	CancelInvoice(ctx context.Context, invoice domain.Invoice, entry domain.LedgerEntry, changes []StockChange) ([]domain.StockMovement, []domain.InventoryItem, error)

	// DeleteReceipt removes the receipt, appends the offsetting entry and,
	// when sale is non-nil, rolls its amounts and status back.
	DeleteReceipt(ctx context.Context, ownerID, receiptID string, sale *domain.Sale, entry domain.LedgerEntry) error

	// DeleteInvoicePayment removes the payment, appends the offsetting entry
	// and, when invoice is non-nil, rolls its amounts and status back.
	DeleteInvoicePayment(ctx context.Context, ownerID, paymentID string, invoice *domain.Invoice, entry domain.LedgerEntry) error

	// UpdateReceiptStatus records clearance of a receipt instrument.
	UpdateReceiptStatus(ctx context.Context, ownerID, receiptID string, status domain.ReceiptStatus, userID string, at time.Time) error

	// SetPaymentClearance records the clearance date of an invoice payment.
	SetPaymentClearance(ctx context.Context, ownerID, paymentID string, clearedAt time.Time, userID string, at time.Time) error
}

// DocumentRepositoryFacade combines all settlement repository interfaces.
type DocumentRepositoryFacade interface {
	SaleReader
	InvoiceReader
	SettlementWriter
}

// DocumentRepositoryWithTx extends DocumentRepositoryFacade with transaction
// capabilities.
type DocumentRepositoryWithTx interface {
	DocumentRepositoryFacade
	TransactionManager
}
