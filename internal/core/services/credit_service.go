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
)

// creditService is the advisory credit limit guard. Sales that push a
// customer past the limit are logged, never blocked.
type creditService struct {
	customerRepo portsrepo.CustomerRepositoryFacade
	ledgerRepo   portsrepo.LedgerRepositoryFacade
	ledgerSvc    portssvc.LedgerReaderSvc
}

// NewCreditService creates a new CreditService.
func NewCreditService(customerRepo portsrepo.CustomerRepositoryFacade, ledgerRepo portsrepo.LedgerRepositoryFacade, ledgerSvc portssvc.LedgerReaderSvc) portssvc.CreditSvcFacade {
	return &creditService{
		customerRepo: customerRepo,
		ledgerRepo:   ledgerRepo,
		ledgerSvc:    ledgerSvc,
	}
}

var _ portssvc.CreditSvcFacade = (*creditService)(nil)

// Evaluate projects the account balance after the proposed amount and compares
// it to the customer's configured limit. A zero limit means no limit is set.
// Credit limits only exist for customer accounts; party refs always pass.
func (s *creditService) Evaluate(ctx context.Context, ownerID string, ref domain.AccountRef, proposed decimal.Decimal) (*domain.CreditCheck, error) {
	if ref.Kind != domain.KindCustomer {
		return &domain.CreditCheck{Exceeds: false, ProjectedBalance: decimal.Zero, CreditLimit: decimal.Zero}, nil
	}

	customer, err := s.customerRepo.FindCustomerByID(ctx, ownerID, ref.PartyID)
	if err != nil {
		return nil, fmt.Errorf("failed to find customer %s: %w", ref.PartyID, err)
	}

	balance, err := s.ledgerSvc.CalculateBalance(ctx, ownerID, ref, nil)
	if err != nil {
		return nil, err
	}
	projected := balance.Add(proposed)

	check := &domain.CreditCheck{
		ProjectedBalance: projected,
		CreditLimit:      customer.CreditLimit,
	}
	if customer.CreditLimit.GreaterThan(decimal.Zero) && projected.GreaterThan(customer.CreditLimit) {
		check.Exceeds = true
	}
	return check, nil
}

// UpdateCreditLimit changes the customer's limit and appends an audit-only
// CREDIT_LIMIT_CHANGE entry with zero on both sides. This is the documented
// exception to the one-nonzero-side rule.
func (s *creditService) UpdateCreditLimit(ctx context.Context, ownerID, customerID string, limit decimal.Decimal, reason, userID string) (*domain.Customer, error) {
	if limit.IsNegative() {
		return nil, fmt.Errorf("%w: credit limit cannot be negative", apperrors.ErrValidation)
	}

	customer, err := s.customerRepo.FindCustomerByID(ctx, ownerID, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find customer %s: %w", customerID, err)
	}

	now := time.Now().UTC()
	if err := s.customerRepo.UpdateCreditLimit(ctx, ownerID, customerID, limit, userID, now); err != nil {
		return nil, fmt.Errorf("failed to update credit limit for customer %s: %w", customerID, err)
	}

	description := fmt.Sprintf("credit limit changed from %s to %s", customer.CreditLimit, limit)
	if reason != "" {
		description = fmt.Sprintf("%s: %s", description, reason)
	}
	entry := domain.LedgerEntry{
		EntryID:     uuid.NewString(),
		OwnerID:     ownerID,
		EntryDate:   now,
		Description: description,
		Debit:       decimal.Zero,
		Credit:      decimal.Zero,
		EntryType:   domain.EntryCreditLimitChange,
		Account:     domain.CustomerRef(customerID),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.ledgerRepo.AppendEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to append credit limit audit entry: %w", err)
	}

	customer.CreditLimit = limit
	customer.LastUpdatedAt = now
	customer.LastUpdatedBy = userID
	return customer, nil
}
