package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleLineRequest is one inventory line of a sale or invoice request.
type SaleLineRequest struct {
	ItemID    string          `json:"itemID" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice decimal.Decimal `json:"unitPrice" binding:"required"`
}

// CreateSaleRequest carries the fields for a new sale document. Amount may be
// omitted when Items are present; it is then derived from the line totals.
type CreateSaleRequest struct {
	CustomerID  string            `json:"customerID" binding:"required"`
	SaleNumber  string            `json:"saleNumber" binding:"required"`
	SaleDate    time.Time         `json:"saleDate"`
	DueDate     *time.Time        `json:"dueDate"`
	Amount      *decimal.Decimal  `json:"amount"`
	Description string            `json:"description"`
	Items       []SaleLineRequest `json:"items"`
}

// CreateReceiptRequest allocates a customer payment, optionally against a sale.
type CreateReceiptRequest struct {
	CustomerID    string          `json:"customerID" binding:"required"`
	SaleID        string          `json:"saleID"` // Empty for on-account receipts
	ReceiptNumber string          `json:"receiptNumber" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Method        string          `json:"method" binding:"required,oneof=CASH CHEQUE BANK_TRANSFER ONLINE"`
	ReceiptDate   time.Time       `json:"receiptDate"`
	Notes         string          `json:"notes"`
}

// CancelDocumentRequest carries the reason for a cancellation or reversal.
type CancelDocumentRequest struct {
	Reason string `json:"reason" binding:"required"`
}
