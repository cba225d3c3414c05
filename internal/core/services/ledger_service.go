package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bizbook/bizbook_backend/internal/apperrors"
	"github.com/bizbook/bizbook_backend/internal/core/domain"
	portsrepo "github.com/bizbook/bizbook_backend/internal/core/ports/repositories"
	portssvc "github.com/bizbook/bizbook_backend/internal/core/ports/services"
	"github.com/bizbook/bizbook_backend/internal/dto"
)

// ledgerService provides the append-only journal surface and the balance fold.
type ledgerService struct {
	ledgerRepo portsrepo.LedgerRepositoryFacade
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(ledgerRepo portsrepo.LedgerRepositoryFacade) portssvc.LedgerSvcFacade {
	return &ledgerService{ledgerRepo: ledgerRepo}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// CalculateBalance folds every entry for the account. The fold is a sum of
// signed amounts, so entry order does not matter. There is no cached running
// balance anywhere; every read recomputes from the journal.
func (s *ledgerService) CalculateBalance(ctx context.Context, ownerID string, ref domain.AccountRef, asOf *time.Time) (decimal.Decimal, error) {
	if ref.IsZero() {
		return decimal.Zero, fmt.Errorf("%w: account reference is required", apperrors.ErrValidation)
	}

	entries, err := s.ledgerRepo.FindEntriesByAccount(ctx, ownerID, ref, asOf)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to fetch entries for account %s: %w", ref, err)
	}

	balance := decimal.Zero
	for _, entry := range entries {
		balance = balance.Add(entry.SignedAmount())
	}
	return balance, nil
}

// GetStatement returns one page of the account's entries, newest first, along
// with the full derived balance.
func (s *ledgerService) GetStatement(ctx context.Context, ownerID string, ref domain.AccountRef, limit int, nextToken *string) (*dto.StatementResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 25
	}

	entries, newToken, err := s.ledgerRepo.ListEntriesByAccount(ctx, ownerID, ref, limit, nextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries for account %s: %w", ref, err)
	}

	balance, err := s.CalculateBalance(ctx, ownerID, ref, nil)
	if err != nil {
		return nil, err
	}

	return &dto.StatementResponse{
		Account:   ref,
		Balance:   balance,
		Entries:   entries,
		NextToken: newToken,
	}, nil
}

// GetSummary totals receivables and payables across all accounts of the owner.
func (s *ledgerService) GetSummary(ctx context.Context, ownerID string) (*dto.SummaryResponse, error) {
	receivables, err := s.ledgerRepo.AccountBalances(ctx, ownerID, domain.KindCustomer)
	if err != nil {
		return nil, fmt.Errorf("failed to derive receivable balances: %w", err)
	}
	payables, err := s.ledgerRepo.AccountBalances(ctx, ownerID, domain.KindParty)
	if err != nil {
		return nil, fmt.Errorf("failed to derive payable balances: %w", err)
	}

	summary := &dto.SummaryResponse{
		TotalReceivable: decimal.Zero,
		TotalPayable:    decimal.Zero,
		Receivables:     make([]dto.AccountBalanceEntry, 0, len(receivables)),
		Payables:        make([]dto.AccountBalanceEntry, 0, len(payables)),
	}
	for _, ab := range receivables {
		summary.TotalReceivable = summary.TotalReceivable.Add(ab.Balance)
		summary.Receivables = append(summary.Receivables, dto.AccountBalanceEntry{Account: ab.Ref, Balance: ab.Balance})
	}
	for _, ab := range payables {
		summary.TotalPayable = summary.TotalPayable.Add(ab.Balance)
		summary.Payables = append(summary.Payables, dto.AccountBalanceEntry{Account: ab.Ref, Balance: ab.Balance})
	}
	return summary, nil
}

// RecordAdjustment appends a correcting ADJUSTMENT entry. This is the only
// journal write outside the settlement engine: entries are never updated or
// deleted, corrections always append.
func (s *ledgerService) RecordAdjustment(ctx context.Context, ownerID string, req dto.CreateAdjustmentRequest, userID string) (*domain.LedgerEntry, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: adjustment amount must be positive", apperrors.ErrValidation)
	}

	ref := domain.AccountRef{Kind: domain.PartyKind(req.Kind), PartyID: req.PartyID}
	now := time.Now().UTC()

	entry := domain.LedgerEntry{
		EntryID:     uuid.NewString(),
		OwnerID:     ownerID,
		EntryDate:   now,
		Description: req.Reason,
		EntryType:   domain.EntryAdjustment,
		Reference:   req.Reference,
		Account:     ref,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if req.Side == "DEBIT" {
		entry.Debit = req.Amount
		entry.Credit = decimal.Zero
	} else {
		entry.Debit = decimal.Zero
		entry.Credit = req.Amount
	}

	if err := s.ledgerRepo.AppendEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to append adjustment entry: %w", err)
	}
	return &entry, nil
}
