package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleReceipt represents a row of the sale_receipts table.
type SaleReceipt struct {
	ReceiptID     string          `json:"receiptID"` // Primary Key (UUID)
	OwnerID       string          `json:"ownerID"`
	CustomerID    string          `json:"customerID"`
	SaleID        *string         `json:"saleID"` // Nullable for on-account receipts
	ReceiptNumber string          `json:"receiptNumber"`
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method"`
	Status        string          `json:"status"`
	ReceiptDate   time.Time       `json:"receiptDate"`
	Notes         string          `json:"notes"`
	AuditFields
}

// InvoicePayment represents a row of the invoice_payments table.
type InvoicePayment struct {
	PaymentID     string          `json:"paymentID"` // Primary Key (UUID)
	OwnerID       string          `json:"ownerID"`
	PartyID       string          `json:"partyID"`
	InvoiceID     *string         `json:"invoiceID"` // Nullable for on-account payments
	PaymentNumber string          `json:"paymentNumber"`
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method"`
	ClearanceDate *time.Time      `json:"clearanceDate"` // Nullable
	PaymentDate   time.Time       `json:"paymentDate"`
	Notes         string          `json:"notes"`
	AuditFields
}
