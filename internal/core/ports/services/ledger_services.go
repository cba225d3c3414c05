package services

import (
	"context"
	"time"

	"github.com/bizbook/bizbook_backend/internal/core/domain"
	"github.com/bizbook/bizbook_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// LedgerReaderSvc exposes balance derivation and statements.
type LedgerReaderSvc interface {
	// CalculateBalance folds every journal entry of the account, optionally
	// bounded by an as-of date. The fold is recomputed on every call; no
	// balance is cached anywhere.
	CalculateBalance(ctx context.Context, ownerID string, ref domain.AccountRef, asOf *time.Time) (decimal.Decimal, error)

	// GetStatement returns a paginated statement plus the full derived balance.
	GetStatement(ctx context.Context, ownerID string, ref domain.AccountRef, limit int, nextToken *string) (*dto.StatementResponse, error)

	// GetSummary totals receivables and payables across all accounts.
	GetSummary(ctx context.Context, ownerID string) (*dto.SummaryResponse, error)
}

// LedgerWriterSvc exposes the only journal write available outside the
// settlement engine: appending a correcting adjustment.
type LedgerWriterSvc interface {
	RecordAdjustment(ctx context.Context, ownerID string, req dto.CreateAdjustmentRequest, userID string) (*domain.LedgerEntry, error)
}

// LedgerSvcFacade combines all ledger service interfaces.
type LedgerSvcFacade interface {
	LedgerReaderSvc
	LedgerWriterSvc
}
