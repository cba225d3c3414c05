package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryType classifies a ledger entry by the business event that produced it.
type EntryType string

const (
	EntrySale           EntryType = "SALE"            // Debit against a customer account
	EntrySaleReceipt    EntryType = "SALE_RECEIPT"    // Credit against a customer account
	EntryInvoice        EntryType = "INVOICE"         // Credit against a party account
	EntryInvoicePayment EntryType = "INVOICE_PAYMENT" // Debit against a party account
	EntryAdjustment     EntryType = "ADJUSTMENT"      // Offsetting correction entry

	// EntryCreditLimitChange is an audit-only entry recording a credit limit
	// change. It carries zero on both sides; this is the documented exception
	// to the one-nonzero-side rule.
	EntryCreditLimitChange EntryType = "CREDIT_LIMIT_CHANGE"
)

// LedgerEntry is one immutable row of the append-only journal. Entries are
// never updated or deleted; corrections append an offsetting ADJUSTMENT entry.
type LedgerEntry struct {
	EntryID          string          `json:"entryID"` // Primary key (UUID)
	OwnerID          string          `json:"ownerID"` // FK -> users.user_id
	EntryDate        time.Time       `json:"entryDate"`
	Description      string          `json:"description"`
	Debit            decimal.Decimal `json:"debit"`
	Credit           decimal.Decimal `json:"credit"`
	EntryType        EntryType       `json:"entryType"`
	Reference        string          `json:"reference"` // Business document/voucher number
	Account          AccountRef      `json:"account"`
	LinkedDocumentID string          `json:"linkedDocumentID"` // Sale/Invoice ID, empty when unlinked
	AuditFields
}

// SignedAmount returns the entry's contribution to its account balance.
// Customer (receivable) accounts grow with debits; party (payable) accounts
// grow with credits.
func (e LedgerEntry) SignedAmount() decimal.Decimal {
	if e.Account.Kind == KindParty {
		return e.Credit.Sub(e.Debit)
	}
	return e.Debit.Sub(e.Credit)
}

// CreditCheck is the result of a credit limit evaluation. The check is
// advisory: Exceeds being true never blocks a settlement.
type CreditCheck struct {
	Exceeds          bool            `json:"exceeds"`
	ProjectedBalance decimal.Decimal `json:"projectedBalance"`
	CreditLimit      decimal.Decimal `json:"creditLimit"`
}
