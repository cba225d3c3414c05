package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale represents a row of the sales table.
type Sale struct {
	SaleID          string          `json:"saleID"` // Primary Key (UUID)
	OwnerID         string          `json:"ownerID"`
	CustomerID      string          `json:"customerID"`
	SaleNumber      string          `json:"saleNumber"` // Unique per owner
	SaleDate        time.Time       `json:"saleDate"`
	DueDate         *time.Time      `json:"dueDate"` // Nullable
	Amount          decimal.Decimal `json:"amount"`
	PaidAmount      decimal.Decimal `json:"paidAmount"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
	Status          string          `json:"status"`
	Description     string          `json:"description"`
	AuditFields
}

// SaleItem represents a row of the sale_items table.
type SaleItem struct {
	SaleItemID string          `json:"saleItemID"` // Primary Key (UUID)
	SaleID     string          `json:"saleID"`
	ItemID     string          `json:"itemID"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	Total      decimal.Decimal `json:"total"`
}

// Invoice represents a row of the invoices table.
type Invoice struct {
	InvoiceID       string          `json:"invoiceID"` // Primary Key (UUID)
	OwnerID         string          `json:"ownerID"`
	PartyID         string          `json:"partyID"`
	InvoiceNumber   string          `json:"invoiceNumber"` // Unique per owner
	InvoiceDate     time.Time       `json:"invoiceDate"`
	DueDate         *time.Time      `json:"dueDate"` // Nullable
	Amount          decimal.Decimal `json:"amount"`
	PaidAmount      decimal.Decimal `json:"paidAmount"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
	Status          string          `json:"status"`
	Description     string          `json:"description"`
	AuditFields
}

// InvoiceItem represents a row of the invoice_items table.
type InvoiceItem struct {
	InvoiceItemID string          `json:"invoiceItemID"` // Primary Key (UUID)
	InvoiceID     string          `json:"invoiceID"`
	ItemID        string          `json:"itemID"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	Total         decimal.Decimal `json:"total"`
}
