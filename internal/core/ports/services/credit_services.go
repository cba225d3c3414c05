package services

import (
	"context"

	"github.com/bizbook/bizbook_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreditSvcFacade is the advisory credit limit guard. Evaluate never blocks:
// the settlement engine logs an exceeded limit and proceeds.
type CreditSvcFacade interface {
	Evaluate(ctx context.Context, ownerID string, ref domain.AccountRef, proposed decimal.Decimal) (*domain.CreditCheck, error)

	// UpdateCreditLimit changes a customer's limit and appends the
	// audit-only CREDIT_LIMIT_CHANGE journal entry.
	UpdateCreditLimit(ctx context.Context, ownerID, customerID string, limit decimal.Decimal, reason, userID string) (*domain.Customer, error)
}
