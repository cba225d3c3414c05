package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/bizbook/bizbook_backend/internal/apperrors"
	"github.com/bizbook/bizbook_backend/internal/core/domain"
	portssvc "github.com/bizbook/bizbook_backend/internal/core/ports/services"
	"github.com/bizbook/bizbook_backend/internal/core/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type CreditServiceTestSuite struct {
	suite.Suite
	mockCustomerRepo *MockCustomerRepository
	mockLedgerRepo   *MockLedgerRepository
	service          portssvc.CreditSvcFacade
	ownerID          string
}

func (suite *CreditServiceTestSuite) SetupTest() {
	suite.mockCustomerRepo = new(MockCustomerRepository)
	suite.mockLedgerRepo = new(MockLedgerRepository)
	ledgerSvc := services.NewLedgerService(suite.mockLedgerRepo)
	suite.service = services.NewCreditService(suite.mockCustomerRepo, suite.mockLedgerRepo, ledgerSvc)
	suite.ownerID = uuid.NewString()
}

func (suite *CreditServiceTestSuite) TestEvaluate_WithinLimit() {
	ctx := context.Background()
	customerID := uuid.NewString()
	ref := domain.CustomerRef(customerID)
	customer := &domain.Customer{
		CustomerID:  customerID,
		CreditLimit: decimal.RequireFromString("5000"),
	}
	entries := []domain.LedgerEntry{
		{Debit: decimal.RequireFromString("1000"), Credit: decimal.Zero, Account: ref},
	}

	suite.mockCustomerRepo.On("FindCustomerByID", ctx, suite.ownerID, customerID).Return(customer, nil).Once()
	suite.mockLedgerRepo.On("FindEntriesByAccount", ctx, suite.ownerID, ref, (*time.Time)(nil)).Return(entries, nil).Once()

	check, err := suite.service.Evaluate(ctx, suite.ownerID, ref, decimal.RequireFromString("2000"))

	suite.Require().NoError(err)
	suite.False(check.Exceeds)
	suite.True(check.ProjectedBalance.Equal(decimal.RequireFromString("3000")))
	suite.True(check.CreditLimit.Equal(customer.CreditLimit))
	suite.mockCustomerRepo.AssertExpectations(suite.T())
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *CreditServiceTestSuite) TestEvaluate_ExceedsLimit() {
	ctx := context.Background()
	customerID := uuid.NewString()
	ref := domain.CustomerRef(customerID)
	customer := &domain.Customer{
		CustomerID:  customerID,
		CreditLimit: decimal.RequireFromString("1500"),
	}
	entries := []domain.LedgerEntry{
		{Debit: decimal.RequireFromString("1000"), Credit: decimal.Zero, Account: ref},
	}

	suite.mockCustomerRepo.On("FindCustomerByID", ctx, suite.ownerID, customerID).Return(customer, nil).Once()
	suite.mockLedgerRepo.On("FindEntriesByAccount", ctx, suite.ownerID, ref, (*time.Time)(nil)).Return(entries, nil).Once()

	check, err := suite.service.Evaluate(ctx, suite.ownerID, ref, decimal.RequireFromString("800"))

	suite.Require().NoError(err)
	suite.True(check.Exceeds)
	suite.True(check.ProjectedBalance.Equal(decimal.RequireFromString("1800")))
}

func (suite *CreditServiceTestSuite) TestEvaluate_ZeroLimitMeansNoLimit() {
	ctx := context.Background()
	customerID := uuid.NewString()
	ref := domain.CustomerRef(customerID)
	customer := &domain.Customer{CustomerID: customerID, CreditLimit: decimal.Zero}
	entries := []domain.LedgerEntry{
		{Debit: decimal.RequireFromString("999999"), Credit: decimal.Zero, Account: ref},
	}

	suite.mockCustomerRepo.On("FindCustomerByID", ctx, suite.ownerID, customerID).Return(customer, nil).Once()
	suite.mockLedgerRepo.On("FindEntriesByAccount", ctx, suite.ownerID, ref, (*time.Time)(nil)).Return(entries, nil).Once()

	check, err := suite.service.Evaluate(ctx, suite.ownerID, ref, decimal.RequireFromString("1000000"))

	suite.Require().NoError(err)
	suite.False(check.Exceeds)
}

func (suite *CreditServiceTestSuite) TestEvaluate_PartyRefAlwaysPasses() {
	ctx := context.Background()
	ref := domain.PartyRef(uuid.NewString())

	check, err := suite.service.Evaluate(ctx, suite.ownerID, ref, decimal.RequireFromString("100"))

	suite.Require().NoError(err)
	suite.False(check.Exceeds)
	suite.mockCustomerRepo.AssertNotCalled(suite.T(), "FindCustomerByID", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CreditServiceTestSuite) TestUpdateCreditLimit_AppendsAuditEntry() {
	ctx := context.Background()
	customerID := uuid.NewString()
	userID := uuid.NewString()
	customer := &domain.Customer{
		CustomerID:  customerID,
		OwnerID:     suite.ownerID,
		CreditLimit: decimal.RequireFromString("1000"),
	}
	newLimit := decimal.RequireFromString("2500")

	suite.mockCustomerRepo.On("FindCustomerByID", ctx, suite.ownerID, customerID).Return(customer, nil).Once()
	suite.mockCustomerRepo.On("UpdateCreditLimit", ctx, suite.ownerID, customerID, newLimit, userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	// The audit entry carries zero on both sides.
	suite.mockLedgerRepo.On("AppendEntry", ctx, mock.MatchedBy(func(e domain.LedgerEntry) bool {
		return e.EntryType == domain.EntryCreditLimitChange &&
			e.Debit.IsZero() && e.Credit.IsZero() &&
			e.Account == domain.CustomerRef(customerID)
	})).Return(nil).Once()

	updated, err := suite.service.UpdateCreditLimit(ctx, suite.ownerID, customerID, newLimit, "seasonal increase", userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(updated)
	suite.True(updated.CreditLimit.Equal(newLimit))
	suite.Equal(userID, updated.LastUpdatedBy)
	suite.mockCustomerRepo.AssertExpectations(suite.T())
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *CreditServiceTestSuite) TestUpdateCreditLimit_NegativeRejected() {
	ctx := context.Background()

	updated, err := suite.service.UpdateCreditLimit(ctx, suite.ownerID, uuid.NewString(), decimal.RequireFromString("-5"), "", uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockCustomerRepo.AssertNotCalled(suite.T(), "UpdateCreditLimit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CreditServiceTestSuite) TestUpdateCreditLimit_CustomerNotFound() {
	ctx := context.Background()
	customerID := uuid.NewString()

	suite.mockCustomerRepo.On("FindCustomerByID", ctx, suite.ownerID, customerID).Return(nil, apperrors.ErrNotFound).Once()

	updated, err := suite.service.UpdateCreditLimit(ctx, suite.ownerID, customerID, decimal.RequireFromString("100"), "", uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockCustomerRepo.AssertExpectations(suite.T())
}

func TestCreditService(t *testing.T) {
	suite.Run(t, new(CreditServiceTestSuite))
}
