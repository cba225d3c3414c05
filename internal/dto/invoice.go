package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest carries the fields for a new purchase invoice. Amount
// may be omitted when Items are present; it is then derived from line totals.
type CreateInvoiceRequest struct {
	PartyID       string            `json:"partyID" binding:"required"`
	InvoiceNumber string            `json:"invoiceNumber" binding:"required"`
	InvoiceDate   time.Time         `json:"invoiceDate"`
	DueDate       *time.Time        `json:"dueDate"`
	Amount        *decimal.Decimal  `json:"amount"`
	Description   string            `json:"description"`
	Items         []SaleLineRequest `json:"items"`
}

// CreateInvoicePaymentRequest allocates a payment to a party, optionally
// against an invoice.
type CreateInvoicePaymentRequest struct {
	PartyID       string          `json:"partyID" binding:"required"`
	InvoiceID     string          `json:"invoiceID"` // Empty for on-account payments
	PaymentNumber string          `json:"paymentNumber" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Method        string          `json:"method" binding:"required,oneof=CASH CHEQUE BANK_TRANSFER ONLINE"`
	PaymentDate   time.Time       `json:"paymentDate"`
	Notes         string          `json:"notes"`
}

// ClearPaymentRequest records instrument clearance.
type ClearPaymentRequest struct {
	ClearedAt *time.Time `json:"clearedAt"`
}
