package dto

import (
	"github.com/bizbook/bizbook_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAdjustmentRequest appends a correcting ADJUSTMENT entry to an account.
// Side says which side of the books the adjustment lands on.
type CreateAdjustmentRequest struct {
	Kind      string          `json:"kind" binding:"required,oneof=CUSTOMER PARTY"`
	PartyID   string          `json:"partyID" binding:"required"`
	Side      string          `json:"side" binding:"required,oneof=DEBIT CREDIT"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Reference string          `json:"reference"`
	Reason    string          `json:"reason" binding:"required"`
}

// StatementResponse is a paginated account statement with the derived balance.
type StatementResponse struct {
	Account   domain.AccountRef    `json:"account"`
	Balance   decimal.Decimal      `json:"balance"`
	Entries   []domain.LedgerEntry `json:"entries"`
	NextToken *string              `json:"nextToken,omitempty"`
}

// BalanceResponse is a single derived account balance.
type BalanceResponse struct {
	Account domain.AccountRef `json:"account"`
	Balance decimal.Decimal   `json:"balance"`
}

// AccountBalanceEntry is one row of a receivable/payable summary.
type AccountBalanceEntry struct {
	Account domain.AccountRef `json:"account"`
	Balance decimal.Decimal   `json:"balance"`
}

// SummaryResponse totals what customers owe and what the business owes.
type SummaryResponse struct {
	TotalReceivable decimal.Decimal       `json:"totalReceivable"`
	TotalPayable    decimal.Decimal       `json:"totalPayable"`
	Receivables     []AccountBalanceEntry `json:"receivables"`
	Payables        []AccountBalanceEntry `json:"payables"`
}
