package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry represents a row of the ledger_entries table. Exactly one of
// CustomerID / PartyID is set, enforced by a table CHECK constraint.
type LedgerEntry struct {
	EntryID          string          `json:"entryID"` // Primary Key (UUID)
	OwnerID          string          `json:"ownerID"`
	EntryDate        time.Time       `json:"entryDate"`
	Description      string          `json:"description"`
	Debit            decimal.Decimal `json:"debit"`
	Credit           decimal.Decimal `json:"credit"`
	EntryType        string          `json:"entryType"`
	Reference        string          `json:"reference"`
	CustomerID       *string         `json:"customerID"` // Nullable
	PartyID          *string         `json:"partyID"`    // Nullable
	LinkedDocumentID *string         `json:"linkedDocumentID"`
	AuditFields
}
