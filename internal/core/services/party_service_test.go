package services_test

import (
	"context"
	"testing"

	"github.com/bizbook/bizbook_backend/internal/apperrors"
	"github.com/bizbook/bizbook_backend/internal/core/domain"
	portssvc "github.com/bizbook/bizbook_backend/internal/core/ports/services"
	"github.com/bizbook/bizbook_backend/internal/core/services"
	"github.com/bizbook/bizbook_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type PartyServiceTestSuite struct {
	suite.Suite
	mockCustomerRepo *MockCustomerRepository
	mockPartyRepo    *MockPartyRepository
	service          portssvc.PartySvcFacade
	ownerID          string
	userID           string
}

func (suite *PartyServiceTestSuite) SetupTest() {
	suite.mockCustomerRepo = new(MockCustomerRepository)
	suite.mockPartyRepo = new(MockPartyRepository)
	suite.service = services.NewPartyService(suite.mockCustomerRepo, suite.mockPartyRepo)
	suite.ownerID = uuid.NewString()
	suite.userID = uuid.NewString()
}

func (suite *PartyServiceTestSuite) TestCreateCustomer_WithCreditLimit() {
	ctx := context.Background()
	limit := decimal.RequireFromString("5000")
	req := dto.CreateCustomerRequest{
		Name:        "Sharma Traders",
		Phone:       "9876543210",
		CreditLimit: &limit,
	}

	suite.mockCustomerRepo.On("CreateCustomer", ctx, mock.MatchedBy(func(customer domain.Customer) bool {
		return customer.OwnerID == suite.ownerID &&
			customer.Name == req.Name &&
			customer.CreditLimit.Equal(limit) &&
			customer.IsActive &&
			customer.CreatedBy == suite.userID
	})).Return(nil).Once()

	customer, err := suite.service.CreateCustomer(ctx, suite.ownerID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(customer)
	suite.NotEmpty(customer.CustomerID)
	suite.True(customer.CreditLimit.Equal(limit))
	suite.mockCustomerRepo.AssertExpectations(suite.T())
}

func (suite *PartyServiceTestSuite) TestCreateCustomer_NoLimitDefaultsToZero() {
	ctx := context.Background()
	req := dto.CreateCustomerRequest{Name: "Walk-in Customer"}

	suite.mockCustomerRepo.On("CreateCustomer", ctx, mock.MatchedBy(func(customer domain.Customer) bool {
		return customer.CreditLimit.IsZero()
	})).Return(nil).Once()

	customer, err := suite.service.CreateCustomer(ctx, suite.ownerID, req, suite.userID)

	suite.Require().NoError(err)
	suite.True(customer.CreditLimit.IsZero())
	suite.mockCustomerRepo.AssertExpectations(suite.T())
}

func (suite *PartyServiceTestSuite) TestUpdateCustomer_PatchesOnlyGivenFields() {
	ctx := context.Background()
	customerID := uuid.NewString()
	existing := &domain.Customer{
		CustomerID:  customerID,
		OwnerID:     suite.ownerID,
		Name:        "Sharma Traders",
		Phone:       "9876543210",
		Email:       "old@example.com",
		CreditLimit: decimal.RequireFromString("5000"),
		IsActive:    true,
	}
	newPhone := "9123456789"
	req := dto.UpdateCustomerRequest{Phone: &newPhone}

	suite.mockCustomerRepo.On("FindCustomerByID", ctx, suite.ownerID, customerID).Return(existing, nil).Once()
	suite.mockCustomerRepo.On("UpdateCustomer", ctx, mock.MatchedBy(func(customer domain.Customer) bool {
		return customer.Phone == newPhone &&
			customer.Name == "Sharma Traders" &&
			customer.Email == "old@example.com" &&
			customer.CreditLimit.Equal(decimal.RequireFromString("5000")) &&
			customer.LastUpdatedBy == suite.userID
	})).Return(nil).Once()

	updated, err := suite.service.UpdateCustomer(ctx, suite.ownerID, customerID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(newPhone, updated.Phone)
	suite.mockCustomerRepo.AssertExpectations(suite.T())
}

func (suite *PartyServiceTestSuite) TestUpdateCustomer_NotFound() {
	ctx := context.Background()
	customerID := uuid.NewString()

	suite.mockCustomerRepo.On("FindCustomerByID", ctx, suite.ownerID, customerID).Return(nil, apperrors.ErrNotFound).Once()

	updated, err := suite.service.UpdateCustomer(ctx, suite.ownerID, customerID, dto.UpdateCustomerRequest{}, suite.userID)

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockCustomerRepo.AssertNotCalled(suite.T(), "UpdateCustomer", mock.Anything, mock.Anything)
}

func (suite *PartyServiceTestSuite) TestCreateParty_Success() {
	ctx := context.Background()
	req := dto.CreatePartyRequest{Name: "Gupta Suppliers", Email: "gupta@example.com"}

	suite.mockPartyRepo.On("CreateParty", ctx, mock.MatchedBy(func(party domain.Party) bool {
		return party.OwnerID == suite.ownerID &&
			party.Name == req.Name &&
			party.IsActive
	})).Return(nil).Once()

	party, err := suite.service.CreateParty(ctx, suite.ownerID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(party)
	suite.NotEmpty(party.PartyID)
	suite.mockPartyRepo.AssertExpectations(suite.T())
}

func (suite *PartyServiceTestSuite) TestListCustomers_ClampsLimit() {
	ctx := context.Background()

	suite.mockCustomerRepo.On("ListCustomers", ctx, suite.ownerID, 25, (*string)(nil)).Return([]domain.Customer{}, nil, nil).Once()

	_, _, err := suite.service.ListCustomers(ctx, suite.ownerID, 500, nil)

	suite.Require().NoError(err)
	suite.mockCustomerRepo.AssertExpectations(suite.T())
}

func (suite *PartyServiceTestSuite) TestUpdateParty_PatchesAddress() {
	ctx := context.Background()
	partyID := uuid.NewString()
	existing := &domain.Party{
		PartyID:  partyID,
		OwnerID:  suite.ownerID,
		Name:     "Gupta Suppliers",
		Address:  "12 Old Market Road",
		IsActive: true,
	}
	newAddress := "48 Industrial Estate"
	req := dto.UpdatePartyRequest{Address: &newAddress}

	suite.mockPartyRepo.On("FindPartyByID", ctx, suite.ownerID, partyID).Return(existing, nil).Once()
	suite.mockPartyRepo.On("UpdateParty", ctx, mock.MatchedBy(func(party domain.Party) bool {
		return party.Address == newAddress && party.Name == "Gupta Suppliers"
	})).Return(nil).Once()

	updated, err := suite.service.UpdateParty(ctx, suite.ownerID, partyID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(newAddress, updated.Address)
	suite.mockPartyRepo.AssertExpectations(suite.T())
}

func TestPartyService(t *testing.T) {
	suite.Run(t, new(PartyServiceTestSuite))
}
