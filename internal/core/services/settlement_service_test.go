package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/bizbook/bizbook_backend/internal/apperrors"
	"github.com/bizbook/bizbook_backend/internal/core/domain"
	portsrepo "github.com/bizbook/bizbook_backend/internal/core/ports/repositories"
	portssvc "github.com/bizbook/bizbook_backend/internal/core/ports/services"
	"github.com/bizbook/bizbook_backend/internal/core/services"
	"github.com/bizbook/bizbook_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type SettlementServiceTestSuite struct {
	suite.Suite
	mockDocRepo      *MockDocumentRepository
	mockCustomerRepo *MockCustomerRepository
	mockPartyRepo    *MockPartyRepository
	mockCreditSvc    *MockCreditService
	mockPublisher    *MockEventPublisher
	service          portssvc.SettlementSvcFacade
	ownerID          string
	userID           string
}

func (suite *SettlementServiceTestSuite) SetupTest() {
	suite.mockDocRepo = new(MockDocumentRepository)
	suite.mockCustomerRepo = new(MockCustomerRepository)
	suite.mockPartyRepo = new(MockPartyRepository)
	suite.mockCreditSvc = new(MockCreditService)
	suite.mockPublisher = new(MockEventPublisher)
	// The default service publishes nowhere; tests asserting events build
	// their own instance with the mock publisher.
	suite.service = services.NewSettlementService(
		suite.mockDocRepo, suite.mockCustomerRepo, suite.mockPartyRepo, suite.mockCreditSvc, nil,
	)
	suite.ownerID = uuid.NewString()
	suite.userID = uuid.NewString()
}

func (suite *SettlementServiceTestSuite) publishingService() portssvc.SettlementSvcFacade {
	return services.NewSettlementService(
		suite.mockDocRepo, suite.mockCustomerRepo, suite.mockPartyRepo, suite.mockCreditSvc, suite.mockPublisher,
	)
}

func (suite *SettlementServiceTestSuite) activeCustomer(customerID string) *domain.Customer {
	return &domain.Customer{
		CustomerID:  customerID,
		OwnerID:     suite.ownerID,
		Name:        "Sharma Traders",
		IsActive:    true,
		CreditLimit: decimal.Zero,
	}
}

func (suite *SettlementServiceTestSuite) noCreditBreach() {
	suite.mockCreditSvc.On("Evaluate", mock.Anything, suite.ownerID, mock.Anything, mock.Anything).
		Return(&domain.CreditCheck{Exceeds: false}, nil).Once()
}

// --- CreateSale ---

func (suite *SettlementServiceTestSuite) TestCreateSale_Success() {
	ctx := context.Background()
	customerID := uuid.NewString()
	itemID := uuid.NewString()
	req := dto.CreateSaleRequest{
		CustomerID: customerID,
		SaleNumber: "SALE-001",
		Items: []dto.SaleLineRequest{
			{ItemID: itemID, Quantity: decimal.RequireFromString("4"), UnitPrice: decimal.RequireFromString("250")},
		},
	}
	total := decimal.RequireFromString("1000")

	suite.mockCustomerRepo.On("FindCustomerByID", ctx, suite.ownerID, customerID).Return(suite.activeCustomer(customerID), nil).Once()
	suite.mockDocRepo.On("FindSaleByNumber", ctx, suite.ownerID, req.SaleNumber).Return(nil, apperrors.ErrNotFound).Once()
	suite.noCreditBreach()

	suite.mockDocRepo.On("SaveSale", ctx,
		mock.MatchedBy(func(sale domain.Sale) bool {
			return sale.Status == domain.StatusPending &&
				sale.Amount.Equal(total) &&
				sale.RemainingAmount.Equal(total) &&
				sale.PaidAmount.IsZero() &&
				len(sale.Items) == 1
		}),
		mock.MatchedBy(func(entry domain.LedgerEntry) bool {
			return entry.EntryType == domain.EntrySale &&
				entry.Debit.Equal(total) &&
				entry.Credit.IsZero() &&
				entry.Account == domain.CustomerRef(customerID)
		}),
		mock.MatchedBy(func(changes []portsrepo.StockChange) bool {
			return len(changes) == 1 &&
				changes[0].Type == domain.MovementOut &&
				changes[0].Quantity.Equal(decimal.RequireFromString("4"))
		}),
	).Return([]domain.StockMovement{}, []domain.InventoryItem{}, nil).Once()

	sale, err := suite.service.CreateSale(ctx, suite.ownerID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(sale)
	suite.True(sale.Amount.Equal(total))
	suite.Equal(domain.StatusPending, sale.Status)
	suite.mockDocRepo.AssertExpectations(suite.T())
	suite.mockCreditSvc.AssertExpectations(suite.T())
}

func (suite *SettlementServiceTestSuite) TestCreateSale_DuplicateNumber() {
	ctx := context.Background()
	customerID := uuid.NewString()
	amount := decimal.RequireFromString("500")
	req := dto.CreateSaleRequest{CustomerID: customerID, SaleNumber: "SALE-002", Amount: &amount}

	suite.mockCustomerRepo.On("FindCustomerByID", ctx, suite.ownerID, customerID).Return(suite.activeCustomer(customerID), nil).Once()
	suite.mockDocRepo.On("FindSaleByNumber", ctx, suite.ownerID, req.SaleNumber).Return(&domain.Sale{SaleNumber: req.SaleNumber}, nil).Once()

	sale, err := suite.service.CreateSale(ctx, suite.ownerID, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(sale)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockDocRepo.AssertNotCalled(suite.T(), "SaveSale", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SettlementServiceTestSuite) TestCreateSale_InactiveCustomer() {
	ctx := context.Background()
	customerID := uuid.NewString()
	amount := decimal.RequireFromString("500")
	req := dto.CreateSaleRequest{CustomerID: customerID, SaleNumber: "SALE-003", Amount: &amount}
	customer := suite.activeCustomer(customerID)
	customer.IsActive = false

	suite.mockCustomerRepo.On("FindCustomerByID", ctx, suite.ownerID, customerID).Return(customer, nil).Once()

	sale, err := suite.service.CreateSale(ctx, suite.ownerID, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(sale)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *SettlementServiceTestSuite) TestCreateSale_NonPositiveAmount() {
	ctx := context.Background()
	amount := decimal.Zero
	req := dto.CreateSaleRequest{CustomerID: uuid.NewString(), SaleNumber: "SALE-004", Amount: &amount}

	sale, err := suite.service.CreateSale(ctx, suite.ownerID, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(sale)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockCustomerRepo.AssertNotCalled(suite.T(), "FindCustomerByID", mock.Anything, mock.Anything, mock.Anything)
}

// A breached credit limit logs a warning and the sale still commits.
func (suite *SettlementServiceTestSuite) TestCreateSale_CreditExceededStillProceeds() {
	ctx := context.Background()
	customerID := uuid.NewString()
	amount := decimal.RequireFromString("9000")
	req := dto.CreateSaleRequest{CustomerID: customerID, SaleNumber: "SALE-005", Amount: &amount}

	suite.mockCustomerRepo.On("FindCustomerByID", ctx, suite.ownerID, customerID).Return(suite.activeCustomer(customerID), nil).Once()
	suite.mockDocRepo.On("FindSaleByNumber", ctx, suite.ownerID, req.SaleNumber).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockCreditSvc.On("Evaluate", ctx, suite.ownerID, domain.CustomerRef(customerID), amount).Return(&domain.CreditCheck{
		Exceeds:          true,
		ProjectedBalance: decimal.RequireFromString("12000"),
		CreditLimit:      decimal.RequireFromString("10000"),
	}, nil).Once()
	suite.mockDocRepo.On("SaveSale", ctx, mock.Anything, mock.Anything, mock.Anything).
		Return([]domain.StockMovement{}, []domain.InventoryItem{}, nil).Once()

	sale, err := suite.service.CreateSale(ctx, suite.ownerID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(sale)
	suite.mockDocRepo.AssertExpectations(suite.T())
}

// --- AllocateReceipt ---

func (suite *SettlementServiceTestSuite) pendingSale(saleID, customerID, amount string) *domain.Sale {
	a := decimal.RequireFromString(amount)
	return &domain.Sale{
		SaleID:          saleID,
		OwnerID:         suite.ownerID,
		CustomerID:      customerID,
		SaleNumber:      "SALE-100",
		Amount:          a,
		PaidAmount:      decimal.Zero,
		RemainingAmount: a,
		Status:          domain.StatusPending,
	}
}

func (suite *SettlementServiceTestSuite) TestAllocateReceipt_PartialPayment() {
	ctx := context.Background()
	customerID := uuid.NewString()
	saleID := uuid.NewString()
	req := dto.CreateReceiptRequest{
		CustomerID:    customerID,
		SaleID:        saleID,
		ReceiptNumber: "RCPT-001",
		Amount:        decimal.RequireFromString("400"),
		Method:        "CASH",
	}

	suite.mockCustomerRepo.On("FindCustomerByID", ctx, suite.ownerID, customerID).Return(suite.activeCustomer(customerID), nil).Once()
	suite.mockDocRepo.On("FindReceiptByNumber", ctx, suite.ownerID, req.ReceiptNumber).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockDocRepo.On("FindSaleByID", ctx, suite.ownerID, saleID).Return(suite.pendingSale(saleID, customerID, "1000"), nil).Once()

	suite.mockDocRepo.On("ApplyReceipt", ctx,
		mock.MatchedBy(func(sale *domain.Sale) bool {
			return sale.Status == domain.StatusPartiallyPaid &&
				sale.PaidAmount.Equal(req.Amount) &&
				sale.RemainingAmount.Equal(decimal.RequireFromString("600"))
		}),
		mock.MatchedBy(func(receipt domain.SaleReceipt) bool {
			return receipt.Status == domain.ReceiptCompleted && receipt.Amount.Equal(req.Amount)
		}),
		mock.MatchedBy(func(entry domain.LedgerEntry) bool {
			return entry.EntryType == domain.EntrySaleReceipt &&
				entry.Credit.Equal(req.Amount) &&
				entry.Debit.IsZero()
		}),
	).Return(nil).Once()

	receipt, sale, err := suite.service.AllocateReceipt(ctx, suite.ownerID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(receipt)
	suite.Require().NotNil(sale)
	suite.Equal(domain.StatusPartiallyPaid, sale.Status)
	suite.mockDocRepo.AssertExpectations(suite.T())
}

func (suite *SettlementServiceTestSuite) TestAllocateReceipt_FullPaymentPublishesSalePaid() {
	ctx := context.Background()
	customerID := uuid.NewString()
	saleID := uuid.NewString()
	req := dto.CreateReceiptRequest{
		CustomerID:    customerID,
		SaleID:        saleID,
		ReceiptNumber: "RCPT-002",
		Amount:        decimal.RequireFromString("1000"),
		Method:        "BANK_TRANSFER",
	}

	suite.mockCustomerRepo.On("FindCustomerByID", ctx, suite.ownerID, customerID).Return(suite.activeCustomer(customerID), nil).Once()
	suite.mockDocRepo.On("FindReceiptByNumber", ctx, suite.ownerID, req.ReceiptNumber).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockDocRepo.On("FindSaleByID", ctx, suite.ownerID, saleID).Return(suite.pendingSale(saleID, customerID, "1000"), nil).Once()
	suite.mockDocRepo.On("ApplyReceipt", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	suite.mockPublisher.On("Publish", ctx, mock.MatchedBy(func(event domain.Event) bool {
		return event.Type == domain.EventPaymentCreated
	})).Return(nil).Once()
	suite.mockPublisher.On("Publish", ctx, mock.MatchedBy(func(event domain.Event) bool {
		payload, ok := event.Payload.(domain.DocumentEventPayload)
		return ok && event.Type == domain.EventSalePaid &&
			payload.Status == domain.StatusPaid &&
			payload.PreviousStatus == domain.StatusPending
	})).Return(nil).Once()

	receipt, sale, err := suite.publishingService().AllocateReceipt(ctx, suite.ownerID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(receipt)
	suite.Require().NotNil(sale)
	suite.Equal(domain.StatusPaid, sale.Status)
	suite.True(sale.RemainingAmount.IsZero())
	suite.mockPublisher.AssertExpectations(suite.T())
}

// Cheque receipts wait for clearance; everything else completes immediately.
func (suite *SettlementServiceTestSuite) TestAllocateReceipt_ChequeStartsPending() {
	ctx := context.Background()
	customerID := uuid.NewString()
	req := dto.CreateReceiptRequest{
		CustomerID:    customerID,
		ReceiptNumber: "RCPT-003",
		Amount:        decimal.RequireFromString("250"),
		Method:        "CHEQUE",
	}

	suite.mockCustomerRepo.On("FindCustomerByID", ctx, suite.ownerID, customerID).Return(suite.activeCustomer(customerID), nil).Once()
	suite.mockDocRepo.On("FindReceiptByNumber", ctx, suite.ownerID, req.ReceiptNumber).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockDocRepo.On("ApplyReceipt", ctx, (*domain.Sale)(nil), mock.MatchedBy(func(receipt domain.SaleReceipt) bool {
		return receipt.Status == domain.ReceiptPending && receipt.SaleID == ""
	}), mock.Anything).Return(nil).Once()

	receipt, sale, err := suite.service.AllocateReceipt(ctx, suite.ownerID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(receipt)
	suite.Nil(sale)
	suite.Equal(domain.ReceiptPending, receipt.Status)
	suite.mockDocRepo.AssertExpectations(suite.T())
}

func (suite *SettlementServiceTestSuite) TestAllocateReceipt_OnPaidSale() {
	ctx := context.Background()
	customerID := uuid.NewString()
	saleID := uuid.NewString()
	req := dto.CreateReceiptRequest{
		CustomerID:    customerID,
		SaleID:        saleID,
		ReceiptNumber: "RCPT-004",
		Amount:        decimal.RequireFromString("100"),
		Method:        "CASH",
	}
	paidSale := suite.pendingSale(saleID, customerID, "1000")
	paidSale.PaidAmount = paidSale.Amount
	paidSale.RemainingAmount = decimal.Zero
	paidSale.Status = domain.StatusPaid

	suite.mockCustomerRepo.On("FindCustomerByID", ctx, suite.ownerID, customerID).Return(suite.activeCustomer(customerID), nil).Once()
	suite.mockDocRepo.On("FindReceiptByNumber", ctx, suite.ownerID, req.ReceiptNumber).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockDocRepo.On("FindSaleByID", ctx, suite.ownerID, saleID).Return(paidSale, nil).Once()

	receipt, sale, err := suite.service.AllocateReceipt(ctx, suite.ownerID, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(receipt)
	suite.Nil(sale)
	suite.ErrorIs(err, apperrors.ErrInvalidStateTransition)
	suite.mockDocRepo.AssertNotCalled(suite.T(), "ApplyReceipt", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SettlementServiceTestSuite) TestAllocateReceipt_OverAllocation() {
	ctx := context.Background()
	customerID := uuid.NewString()
	saleID := uuid.NewString()
	req := dto.CreateReceiptRequest{
		CustomerID:    customerID,
		SaleID:        saleID,
		ReceiptNumber: "RCPT-005",
		Amount:        decimal.RequireFromString("1500"),
		Method:        "CASH",
	}

	suite.mockCustomerRepo.On("FindCustomerByID", ctx, suite.ownerID, customerID).Return(suite.activeCustomer(customerID), nil).Once()
	suite.mockDocRepo.On("FindReceiptByNumber", ctx, suite.ownerID, req.ReceiptNumber).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockDocRepo.On("FindSaleByID", ctx, suite.ownerID, saleID).Return(suite.pendingSale(saleID, customerID, "1000"), nil).Once()

	receipt, sale, err := suite.service.AllocateReceipt(ctx, suite.ownerID, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(receipt)
	suite.Nil(sale)
	suite.ErrorIs(err, apperrors.ErrInsufficientBalance)
	suite.mockDocRepo.AssertNotCalled(suite.T(), "ApplyReceipt", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SettlementServiceTestSuite) TestAllocateReceipt_WrongCustomer() {
	ctx := context.Background()
	customerID := uuid.NewString()
	saleID := uuid.NewString()
	req := dto.CreateReceiptRequest{
		CustomerID:    customerID,
		SaleID:        saleID,
		ReceiptNumber: "RCPT-006",
		Amount:        decimal.RequireFromString("100"),
		Method:        "CASH",
	}

	suite.mockCustomerRepo.On("FindCustomerByID", ctx, suite.ownerID, customerID).Return(suite.activeCustomer(customerID), nil).Once()
	suite.mockDocRepo.On("FindReceiptByNumber", ctx, suite.ownerID, req.ReceiptNumber).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockDocRepo.On("FindSaleByID", ctx, suite.ownerID, saleID).Return(suite.pendingSale(saleID, uuid.NewString(), "1000"), nil).Once()

	receipt, sale, err := suite.service.AllocateReceipt(ctx, suite.ownerID, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(receipt)
	suite.Nil(sale)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

// --- CancelSale ---

func (suite *SettlementServiceTestSuite) TestCancelSale_WithPaymentsRejected() {
	ctx := context.Background()
	saleID := uuid.NewString()
	sale := suite.pendingSale(saleID, uuid.NewString(), "1000")
	sale.PaidAmount = decimal.RequireFromString("200")
	sale.RemainingAmount = decimal.RequireFromString("800")
	sale.Status = domain.StatusPartiallyPaid

	suite.mockDocRepo.On("FindSaleByID", ctx, suite.ownerID, saleID).Return(sale, nil).Once()

	cancelled, err := suite.service.CancelSale(ctx, suite.ownerID, saleID, "entered twice", suite.userID)

	suite.Require().Error(err)
	suite.Nil(cancelled)
	suite.ErrorIs(err, apperrors.ErrInvalidStateTransition)
	suite.mockDocRepo.AssertNotCalled(suite.T(), "CancelSale", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SettlementServiceTestSuite) TestCancelSale_RestoresStockAndOffsetsEntry() {
	ctx := context.Background()
	saleID := uuid.NewString()
	customerID := uuid.NewString()
	itemID := uuid.NewString()
	sale := suite.pendingSale(saleID, customerID, "1000")
	sale.Items = []domain.SaleItem{
		{SaleItemID: uuid.NewString(), SaleID: saleID, ItemID: itemID, Quantity: decimal.RequireFromString("4")},
	}

	suite.mockDocRepo.On("FindSaleByID", ctx, suite.ownerID, saleID).Return(sale, nil).Once()
	suite.mockDocRepo.On("CancelSale", ctx,
		mock.MatchedBy(func(cancelled domain.Sale) bool {
			return cancelled.Status == domain.StatusCancelled
		}),
		mock.MatchedBy(func(entry domain.LedgerEntry) bool {
			return entry.EntryType == domain.EntryAdjustment &&
				entry.Credit.Equal(sale.Amount) &&
				entry.Debit.IsZero()
		}),
		mock.MatchedBy(func(changes []portsrepo.StockChange) bool {
			return len(changes) == 1 &&
				changes[0].Type == domain.MovementIn &&
				changes[0].ItemID == itemID &&
				changes[0].Notes == string(domain.RestoreCancelled)
		}),
	).Return([]domain.StockMovement{}, []domain.InventoryItem{}, nil).Once()

	cancelled, err := suite.service.CancelSale(ctx, suite.ownerID, saleID, "customer backed out", suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(cancelled)
	suite.Equal(domain.StatusCancelled, cancelled.Status)
	suite.mockDocRepo.AssertExpectations(suite.T())
}

// --- DeleteReceipt / ClearReceipt ---

func (suite *SettlementServiceTestSuite) TestDeleteReceipt_ClearedChequeRejected() {
	ctx := context.Background()
	receiptID := uuid.NewString()
	receipt := &domain.SaleReceipt{
		ReceiptID: receiptID,
		OwnerID:   suite.ownerID,
		Method:    domain.MethodCheque,
		Status:    domain.ReceiptCompleted,
		Amount:    decimal.RequireFromString("300"),
	}

	suite.mockDocRepo.On("FindReceiptByID", ctx, suite.ownerID, receiptID).Return(receipt, nil).Once()

	sale, err := suite.service.DeleteReceipt(ctx, suite.ownerID, receiptID, "bounced", suite.userID)

	suite.Require().Error(err)
	suite.Nil(sale)
	suite.ErrorIs(err, apperrors.ErrInvalidStateTransition)
	suite.mockDocRepo.AssertNotCalled(suite.T(), "DeleteReceipt", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SettlementServiceTestSuite) TestDeleteReceipt_RollsBackSale() {
	ctx := context.Background()
	receiptID := uuid.NewString()
	saleID := uuid.NewString()
	customerID := uuid.NewString()
	receipt := &domain.SaleReceipt{
		ReceiptID:     receiptID,
		OwnerID:       suite.ownerID,
		CustomerID:    customerID,
		SaleID:        saleID,
		ReceiptNumber: "RCPT-010",
		Method:        domain.MethodCash,
		Status:        domain.ReceiptCompleted,
		Amount:        decimal.RequireFromString("400"),
	}
	sale := suite.pendingSale(saleID, customerID, "1000")
	sale.PaidAmount = decimal.RequireFromString("400")
	sale.RemainingAmount = decimal.RequireFromString("600")
	sale.Status = domain.StatusPartiallyPaid

	suite.mockDocRepo.On("FindReceiptByID", ctx, suite.ownerID, receiptID).Return(receipt, nil).Once()
	suite.mockDocRepo.On("FindSaleByID", ctx, suite.ownerID, saleID).Return(sale, nil).Once()
	suite.mockDocRepo.On("DeleteReceipt", ctx, suite.ownerID, receiptID,
		mock.MatchedBy(func(rolled *domain.Sale) bool {
			return rolled.PaidAmount.IsZero() &&
				rolled.RemainingAmount.Equal(rolled.Amount) &&
				rolled.Status == domain.StatusPending
		}),
		mock.MatchedBy(func(entry domain.LedgerEntry) bool {
			return entry.EntryType == domain.EntryAdjustment &&
				entry.Debit.Equal(receipt.Amount) &&
				entry.Credit.IsZero()
		}),
	).Return(nil).Once()

	rolled, err := suite.service.DeleteReceipt(ctx, suite.ownerID, receiptID, "entered against wrong sale", suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(rolled)
	suite.Equal(domain.StatusPending, rolled.Status)
	suite.mockDocRepo.AssertExpectations(suite.T())
}

func (suite *SettlementServiceTestSuite) TestClearReceipt_PendingCheque() {
	ctx := context.Background()
	receiptID := uuid.NewString()
	receipt := &domain.SaleReceipt{
		ReceiptID: receiptID,
		OwnerID:   suite.ownerID,
		Method:    domain.MethodCheque,
		Status:    domain.ReceiptPending,
	}

	suite.mockDocRepo.On("FindReceiptByID", ctx, suite.ownerID, receiptID).Return(receipt, nil).Once()
	suite.mockDocRepo.On("UpdateReceiptStatus", ctx, suite.ownerID, receiptID, domain.ReceiptCompleted, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.ClearReceipt(ctx, suite.ownerID, receiptID, suite.userID)

	suite.Require().NoError(err)
	suite.mockDocRepo.AssertExpectations(suite.T())
}

func (suite *SettlementServiceTestSuite) TestClearReceipt_NotPending() {
	ctx := context.Background()
	receiptID := uuid.NewString()
	receipt := &domain.SaleReceipt{
		ReceiptID: receiptID,
		OwnerID:   suite.ownerID,
		Method:    domain.MethodCash,
		Status:    domain.ReceiptCompleted,
	}

	suite.mockDocRepo.On("FindReceiptByID", ctx, suite.ownerID, receiptID).Return(receipt, nil).Once()

	err := suite.service.ClearReceipt(ctx, suite.ownerID, receiptID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidStateTransition)
	suite.mockDocRepo.AssertNotCalled(suite.T(), "UpdateReceiptStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- Invoices ---

func (suite *SettlementServiceTestSuite) activeParty(partyID string) *domain.Party {
	return &domain.Party{PartyID: partyID, OwnerID: suite.ownerID, Name: "Gupta Suppliers", IsActive: true}
}

func (suite *SettlementServiceTestSuite) TestCreateInvoice_StockComesIn() {
	ctx := context.Background()
	partyID := uuid.NewString()
	itemID := uuid.NewString()
	req := dto.CreateInvoiceRequest{
		PartyID:       partyID,
		InvoiceNumber: "INV-001",
		Items: []dto.SaleLineRequest{
			{ItemID: itemID, Quantity: decimal.RequireFromString("10"), UnitPrice: decimal.RequireFromString("80")},
		},
	}
	total := decimal.RequireFromString("800")

	suite.mockPartyRepo.On("FindPartyByID", ctx, suite.ownerID, partyID).Return(suite.activeParty(partyID), nil).Once()
	suite.mockDocRepo.On("FindInvoiceByNumber", ctx, suite.ownerID, req.InvoiceNumber).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockDocRepo.On("SaveInvoice", ctx,
		mock.MatchedBy(func(invoice domain.Invoice) bool {
			return invoice.Status == domain.StatusPending && invoice.Amount.Equal(total)
		}),
		mock.MatchedBy(func(entry domain.LedgerEntry) bool {
			return entry.EntryType == domain.EntryInvoice &&
				entry.Credit.Equal(total) &&
				entry.Debit.IsZero() &&
				entry.Account == domain.PartyRef(partyID)
		}),
		mock.MatchedBy(func(changes []portsrepo.StockChange) bool {
			return len(changes) == 1 &&
				changes[0].Type == domain.MovementIn &&
				changes[0].UnitPrice != nil &&
				changes[0].UnitPrice.Equal(decimal.RequireFromString("80"))
		}),
	).Return([]domain.StockMovement{}, []domain.InventoryItem{}, nil).Once()

	invoice, err := suite.service.CreateInvoice(ctx, suite.ownerID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(invoice)
	suite.True(invoice.Amount.Equal(total))
	suite.mockDocRepo.AssertExpectations(suite.T())
	// Invoices never trigger the credit check; it is a receivable-side guard.
	suite.mockCreditSvc.AssertNotCalled(suite.T(), "Evaluate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SettlementServiceTestSuite) TestAllocateInvoicePayment_FullPublishesInvoicePaid() {
	ctx := context.Background()
	partyID := uuid.NewString()
	invoiceID := uuid.NewString()
	amount := decimal.RequireFromString("800")
	req := dto.CreateInvoicePaymentRequest{
		PartyID:       partyID,
		InvoiceID:     invoiceID,
		PaymentNumber: "PAY-001",
		Amount:        amount,
		Method:        "BANK_TRANSFER",
	}
	invoice := &domain.Invoice{
		InvoiceID:       invoiceID,
		OwnerID:         suite.ownerID,
		PartyID:         partyID,
		InvoiceNumber:   "INV-001",
		Amount:          amount,
		PaidAmount:      decimal.Zero,
		RemainingAmount: amount,
		Status:          domain.StatusPending,
	}

	suite.mockPartyRepo.On("FindPartyByID", ctx, suite.ownerID, partyID).Return(suite.activeParty(partyID), nil).Once()
	suite.mockDocRepo.On("FindInvoicePaymentByNumber", ctx, suite.ownerID, req.PaymentNumber).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockDocRepo.On("FindInvoiceByID", ctx, suite.ownerID, invoiceID).Return(invoice, nil).Once()
	suite.mockDocRepo.On("ApplyInvoicePayment", ctx,
		mock.MatchedBy(func(updated *domain.Invoice) bool {
			return updated.Status == domain.StatusPaid && updated.RemainingAmount.IsZero()
		}),
		mock.MatchedBy(func(payment domain.InvoicePayment) bool {
			return payment.ClearanceDate == nil && payment.Amount.Equal(amount)
		}),
		mock.MatchedBy(func(entry domain.LedgerEntry) bool {
			return entry.EntryType == domain.EntryInvoicePayment &&
				entry.Debit.Equal(amount) &&
				entry.Credit.IsZero()
		}),
	).Return(nil).Once()

	suite.mockPublisher.On("Publish", ctx, mock.MatchedBy(func(event domain.Event) bool {
		return event.Type == domain.EventPaymentCreated
	})).Return(nil).Once()
	suite.mockPublisher.On("Publish", ctx, mock.MatchedBy(func(event domain.Event) bool {
		return event.Type == domain.EventInvoicePaid
	})).Return(nil).Once()

	payment, updated, err := suite.publishingService().AllocateInvoicePayment(ctx, suite.ownerID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(payment)
	suite.Require().NotNil(updated)
	suite.Equal(domain.StatusPaid, updated.Status)
	suite.mockPublisher.AssertExpectations(suite.T())
}

func (suite *SettlementServiceTestSuite) TestDeleteInvoicePayment_ClearedRejected() {
	ctx := context.Background()
	paymentID := uuid.NewString()
	clearedAt := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	payment := &domain.InvoicePayment{
		PaymentID:     paymentID,
		OwnerID:       suite.ownerID,
		Method:        domain.MethodCash,
		ClearanceDate: &clearedAt,
		Amount:        decimal.RequireFromString("100"),
	}

	suite.mockDocRepo.On("FindInvoicePaymentByID", ctx, suite.ownerID, paymentID).Return(payment, nil).Once()

	invoice, err := suite.service.DeleteInvoicePayment(ctx, suite.ownerID, paymentID, "duplicate entry", suite.userID)

	suite.Require().Error(err)
	suite.Nil(invoice)
	suite.ErrorIs(err, apperrors.ErrInvalidStateTransition)
	suite.mockDocRepo.AssertNotCalled(suite.T(), "DeleteInvoicePayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SettlementServiceTestSuite) TestClearInvoicePayment_SetsClearanceDate() {
	ctx := context.Background()
	paymentID := uuid.NewString()
	clearedAt := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)
	payment := &domain.InvoicePayment{
		PaymentID: paymentID,
		OwnerID:   suite.ownerID,
		Method:    domain.MethodCheque,
	}

	suite.mockDocRepo.On("FindInvoicePaymentByID", ctx, suite.ownerID, paymentID).Return(payment, nil).Once()
	suite.mockDocRepo.On("SetPaymentClearance", ctx, suite.ownerID, paymentID, clearedAt, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.ClearInvoicePayment(ctx, suite.ownerID, paymentID, dto.ClearPaymentRequest{ClearedAt: &clearedAt}, suite.userID)

	suite.Require().NoError(err)
	suite.mockDocRepo.AssertExpectations(suite.T())
}

func (suite *SettlementServiceTestSuite) TestCancelInvoice_RemovesPurchasedStock() {
	ctx := context.Background()
	invoiceID := uuid.NewString()
	partyID := uuid.NewString()
	itemID := uuid.NewString()
	invoice := &domain.Invoice{
		InvoiceID:       invoiceID,
		OwnerID:         suite.ownerID,
		PartyID:         partyID,
		InvoiceNumber:   "INV-002",
		Amount:          decimal.RequireFromString("800"),
		PaidAmount:      decimal.Zero,
		RemainingAmount: decimal.RequireFromString("800"),
		Status:          domain.StatusPending,
		Items: []domain.InvoiceItem{
			{InvoiceItemID: uuid.NewString(), InvoiceID: invoiceID, ItemID: itemID, Quantity: decimal.RequireFromString("10")},
		},
	}

	suite.mockDocRepo.On("FindInvoiceByID", ctx, suite.ownerID, invoiceID).Return(invoice, nil).Once()
	suite.mockDocRepo.On("CancelInvoice", ctx,
		mock.MatchedBy(func(cancelled domain.Invoice) bool {
			return cancelled.Status == domain.StatusCancelled
		}),
		mock.MatchedBy(func(entry domain.LedgerEntry) bool {
			return entry.EntryType == domain.EntryAdjustment &&
				entry.Debit.Equal(invoice.Amount) &&
				entry.Credit.IsZero()
		}),
		mock.MatchedBy(func(changes []portsrepo.StockChange) bool {
			return len(changes) == 1 && changes[0].Type == domain.MovementOut
		}),
	).Return([]domain.StockMovement{}, []domain.InventoryItem{}, nil).Once()

	cancelled, err := suite.service.CancelInvoice(ctx, suite.ownerID, invoiceID, "wrong supplier", suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(cancelled)
	suite.Equal(domain.StatusCancelled, cancelled.Status)
	suite.mockDocRepo.AssertExpectations(suite.T())
}

func TestSettlementService(t *testing.T) {
	suite.Run(t, new(SettlementServiceTestSuite))
}
