package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentKind distinguishes the two settlement document types.
type DocumentKind string

const (
	DocSale    DocumentKind = "SALE"    // Receivable: customer owes the business
	DocInvoice DocumentKind = "INVOICE" // Payable: business owes the party
)

// DocumentStatus is the payment allocation state of a sale or invoice.
// OVERDUE is deliberately not a status: overdue-ness is derived at read time
// from the due date so there is a single source of truth.
type DocumentStatus string

const (
	StatusPending       DocumentStatus = "PENDING"
	StatusPartiallyPaid DocumentStatus = "PARTIALLY_PAID"
	StatusPaid          DocumentStatus = "PAID"
	StatusCancelled     DocumentStatus = "CANCELLED"
)

// DeriveStatus computes the status from the three-way comparison of the
// remaining amount to zero and the document amount.
func DeriveStatus(amount, paid decimal.Decimal) DocumentStatus {
	remaining := amount.Sub(paid)
	switch {
	case remaining.LessThanOrEqual(decimal.Zero):
		return StatusPaid
	case paid.GreaterThan(decimal.Zero):
		return StatusPartiallyPaid
	default:
		return StatusPending
	}
}

// Sale is a receivable document. Amount, PaidAmount, RemainingAmount and
// Status are the mutable projection the settlement engine keeps consistent
// with the journal; remainingAmount == amount - paidAmount at all times.
type Sale struct {
	SaleID          string          `json:"saleID"` // Primary key (UUID)
	OwnerID         string          `json:"ownerID"`
	CustomerID      string          `json:"customerID"`
	SaleNumber      string          `json:"saleNumber"` // Business voucher number, unique per owner
	SaleDate        time.Time       `json:"saleDate"`
	DueDate         time.Time       `json:"dueDate"` // Zero when no due date agreed
	Amount          decimal.Decimal `json:"amount"`
	PaidAmount      decimal.Decimal `json:"paidAmount"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
	Status          DocumentStatus  `json:"status"`
	Description     string          `json:"description"`
	Items           []SaleItem      `json:"items,omitempty"`
	AuditFields
}

// IsOverdue reports whether the sale is past due and still carries a balance.
func (s Sale) IsOverdue(now time.Time) bool {
	if s.DueDate.IsZero() {
		return false
	}
	return (s.Status == StatusPending || s.Status == StatusPartiallyPaid) && s.DueDate.Before(now)
}

// SaleItem is one inventory line of a sale.
type SaleItem struct {
	SaleItemID string          `json:"saleItemID"`
	SaleID     string          `json:"saleID"`
	ItemID     string          `json:"itemID"` // FK -> inventory_items.item_id
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	Total      decimal.Decimal `json:"total"`
}

// Invoice is a payable document recording a credit purchase from a party.
type Invoice struct {
	InvoiceID       string          `json:"invoiceID"` // Primary key (UUID)
	OwnerID         string          `json:"ownerID"`
	PartyID         string          `json:"partyID"`
	InvoiceNumber   string          `json:"invoiceNumber"` // Business voucher number, unique per owner
	InvoiceDate     time.Time       `json:"invoiceDate"`
	DueDate         time.Time       `json:"dueDate"`
	Amount          decimal.Decimal `json:"amount"`
	PaidAmount      decimal.Decimal `json:"paidAmount"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
	Status          DocumentStatus  `json:"status"`
	Description     string          `json:"description"`
	Items           []InvoiceItem   `json:"items,omitempty"`
	AuditFields
}

// IsOverdue reports whether the invoice is past due and still carries a balance.
func (i Invoice) IsOverdue(now time.Time) bool {
	if i.DueDate.IsZero() {
		return false
	}
	return (i.Status == StatusPending || i.Status == StatusPartiallyPaid) && i.DueDate.Before(now)
}

// InvoiceItem is one inventory line of a purchase invoice.
type InvoiceItem struct {
	InvoiceItemID string          `json:"invoiceItemID"`
	InvoiceID     string          `json:"invoiceID"`
	ItemID        string          `json:"itemID"` // FK -> inventory_items.item_id
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	Total         decimal.Decimal `json:"total"`
}
