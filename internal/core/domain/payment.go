package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is the instrument a payment was made with.
type PaymentMethod string

const (
	MethodCash   PaymentMethod = "CASH"
	MethodCheque PaymentMethod = "CHEQUE"
	MethodBank   PaymentMethod = "BANK_TRANSFER"
	MethodOnline PaymentMethod = "ONLINE"
)

// ReceiptStatus tracks clearance of a sale receipt. Cheques start PENDING and
// move to COMPLETED once cleared; other methods are COMPLETED immediately.
type ReceiptStatus string

const (
	ReceiptPending   ReceiptStatus = "PENDING"
	ReceiptCompleted ReceiptStatus = "COMPLETED"
)

// SaleReceipt records money received from a customer. SaleID is optional: an
// unlinked receipt is an on-account credit that reduces the customer balance
// without settling a specific sale.
type SaleReceipt struct {
	ReceiptID     string          `json:"receiptID"` // Primary key (UUID)
	OwnerID       string          `json:"ownerID"`
	CustomerID    string          `json:"customerID"`
	SaleID        string          `json:"saleID"` // Empty for on-account receipts
	ReceiptNumber string          `json:"receiptNumber"`
	Amount        decimal.Decimal `json:"amount"`
	Method        PaymentMethod   `json:"method"`
	Status        ReceiptStatus   `json:"status"`
	ReceiptDate   time.Time       `json:"receiptDate"`
	Notes         string          `json:"notes"`
	AuditFields
}

// Cleared reports whether the receipt can no longer be reversed. Only cleared
// cheques block reversal; invoice payments use a different guard (see
// InvoicePayment.Cleared).
func (r SaleReceipt) Cleared() bool {
	return r.Status == ReceiptCompleted && r.Method == MethodCheque
}

// InvoicePayment records money paid to a party. InvoiceID is optional in the
// same way SaleReceipt.SaleID is.
type InvoicePayment struct {
	PaymentID     string          `json:"paymentID"` // Primary key (UUID)
	OwnerID       string          `json:"ownerID"`
	PartyID       string          `json:"partyID"`
	InvoiceID     string          `json:"invoiceID"` // Empty for on-account payments
	PaymentNumber string          `json:"paymentNumber"`
	Amount        decimal.Decimal `json:"amount"`
	Method        PaymentMethod   `json:"method"`
	ClearanceDate *time.Time      `json:"clearanceDate"` // Set when the instrument cleared
	PaymentDate   time.Time       `json:"paymentDate"`
	Notes         string          `json:"notes"`
	AuditFields
}

// Cleared reports whether the payment can no longer be reversed. An invoice
// payment is blocked once a clearance date is set, regardless of method.
func (p InvoicePayment) Cleared() bool {
	return p.ClearanceDate != nil
}
