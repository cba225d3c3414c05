package services_test

import (
	"context"
	"testing"

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

type InventoryServiceTestSuite struct {
	suite.Suite
	mockRepo      *MockInventoryRepository
	mockPublisher *MockEventPublisher
	service       portssvc.InventorySvcFacade
	ownerID       string
	userID        string
}

func (suite *InventoryServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockInventoryRepository)
	suite.mockPublisher = new(MockEventPublisher)
	suite.service = services.NewInventoryService(suite.mockRepo, suite.mockPublisher)
	suite.ownerID = uuid.NewString()
	suite.userID = uuid.NewString()
}

func (suite *InventoryServiceTestSuite) TestCreateItem_WithOpeningStock() {
	ctx := context.Background()
	req := dto.CreateItemRequest{
		Name:         "Steel Rod 12mm",
		Unit:         "kg",
		OpeningStock: decimal.RequireFromString("50"),
		MinimumStock: decimal.RequireFromString("10"),
	}

	suite.mockRepo.On("CreateItem", ctx, mock.MatchedBy(func(item domain.InventoryItem) bool {
		return item.Name == req.Name && item.CurrentStock.IsZero() && item.IsActive
	})).Return(nil).Once()

	// Opening stock enters through the movement ledger as an IN movement.
	suite.mockRepo.On("ApplyStockChange", ctx, suite.ownerID, mock.MatchedBy(func(change portsrepo.StockChange) bool {
		return change.Type == domain.MovementIn &&
			change.Quantity.Equal(req.OpeningStock) &&
			change.Reference == "OPENING_STOCK"
	}), suite.userID).Return(
		&domain.StockMovement{MovementID: uuid.NewString()},
		&domain.InventoryItem{Name: req.Name, CurrentStock: req.OpeningStock, MinimumStock: req.MinimumStock},
		nil,
	).Once()

	item, err := suite.service.CreateItem(ctx, suite.ownerID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(item)
	suite.True(item.CurrentStock.Equal(req.OpeningStock))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *InventoryServiceTestSuite) TestCreateItem_NoOpeningStock() {
	ctx := context.Background()
	req := dto.CreateItemRequest{Name: "Cement Bag"}

	suite.mockRepo.On("CreateItem", ctx, mock.AnythingOfType("domain.InventoryItem")).Return(nil).Once()

	item, err := suite.service.CreateItem(ctx, suite.ownerID, req, suite.userID)

	suite.Require().NoError(err)
	suite.True(item.CurrentStock.IsZero())
	suite.mockRepo.AssertNotCalled(suite.T(), "ApplyStockChange", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InventoryServiceTestSuite) TestCreateItem_NegativeThreshold() {
	ctx := context.Background()
	req := dto.CreateItemRequest{
		Name:         "Bad Item",
		MinimumStock: decimal.RequireFromString("-1"),
	}

	item, err := suite.service.CreateItem(ctx, suite.ownerID, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(item)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "CreateItem", mock.Anything, mock.Anything)
}

func (suite *InventoryServiceTestSuite) TestAddStock_Success() {
	ctx := context.Background()
	itemID := uuid.NewString()
	unitPrice := decimal.RequireFromString("45.50")
	req := dto.StockOperationRequest{
		Quantity:  decimal.RequireFromString("20"),
		UnitPrice: &unitPrice,
		Reference: "PO-001",
	}

	suite.mockRepo.On("ApplyStockChange", ctx, suite.ownerID, mock.MatchedBy(func(change portsrepo.StockChange) bool {
		return change.ItemID == itemID &&
			change.Type == domain.MovementIn &&
			change.Quantity.Equal(req.Quantity) &&
			change.UnitPrice != nil && change.UnitPrice.Equal(unitPrice)
	}), suite.userID).Return(
		&domain.StockMovement{MovementID: uuid.NewString(), Type: domain.MovementIn},
		&domain.InventoryItem{ItemID: itemID, CurrentStock: decimal.RequireFromString("120")},
		nil,
	).Once()

	movement, err := suite.service.AddStock(ctx, suite.ownerID, itemID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(movement)
	suite.Equal(domain.MovementIn, movement.Type)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *InventoryServiceTestSuite) TestAddStock_NonPositiveQuantity() {
	ctx := context.Background()
	req := dto.StockOperationRequest{Quantity: decimal.Zero}

	movement, err := suite.service.AddStock(ctx, suite.ownerID, uuid.NewString(), req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(movement)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *InventoryServiceTestSuite) TestReduceStock_PublishesAlertWhenLow() {
	ctx := context.Background()
	itemID := uuid.NewString()
	req := dto.StockOperationRequest{Quantity: decimal.RequireFromString("8")}

	// Stock drops to 2 with a minimum of 5: LOW_STOCK fires as StockCritical.
	updatedItem := &domain.InventoryItem{
		ItemID:       itemID,
		OwnerID:      suite.ownerID,
		Name:         "Steel Rod 12mm",
		CurrentStock: decimal.RequireFromString("2"),
		MinimumStock: decimal.RequireFromString("5"),
	}

	suite.mockRepo.On("ApplyStockChange", ctx, suite.ownerID, mock.MatchedBy(func(change portsrepo.StockChange) bool {
		return change.Type == domain.MovementOut && change.Quantity.Equal(req.Quantity)
	}), suite.userID).Return(
		&domain.StockMovement{MovementID: uuid.NewString(), Type: domain.MovementOut},
		updatedItem,
		nil,
	).Once()

	suite.mockPublisher.On("Publish", ctx, mock.MatchedBy(func(event domain.Event) bool {
		payload, ok := event.Payload.(domain.StockAlertPayload)
		return ok && event.Type == domain.EventStockCritical && payload.Level == domain.AlertLowStock
	})).Return(nil).Once()

	movement, err := suite.service.ReduceStock(ctx, suite.ownerID, itemID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(movement)
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockPublisher.AssertExpectations(suite.T())
}

func (suite *InventoryServiceTestSuite) TestReduceStock_OutOfStockAlertWins() {
	ctx := context.Background()
	itemID := uuid.NewString()
	req := dto.StockOperationRequest{Quantity: decimal.RequireFromString("10")}

	// Stock hits zero while the minimum is 5; only the most severe alert fires.
	updatedItem := &domain.InventoryItem{
		ItemID:       itemID,
		OwnerID:      suite.ownerID,
		CurrentStock: decimal.Zero,
		MinimumStock: decimal.RequireFromString("5"),
		ReorderLevel: decimal.RequireFromString("10"),
	}

	suite.mockRepo.On("ApplyStockChange", ctx, suite.ownerID, mock.Anything, suite.userID).Return(
		&domain.StockMovement{MovementID: uuid.NewString()},
		updatedItem,
		nil,
	).Once()

	suite.mockPublisher.On("Publish", ctx, mock.MatchedBy(func(event domain.Event) bool {
		return event.Type == domain.EventStockOut
	})).Return(nil).Once()

	_, err := suite.service.ReduceStock(ctx, suite.ownerID, itemID, req, suite.userID)

	suite.Require().NoError(err)
	suite.mockPublisher.AssertExpectations(suite.T())
	suite.mockPublisher.AssertNumberOfCalls(suite.T(), "Publish", 1)
}

func (suite *InventoryServiceTestSuite) TestReduceStock_Insufficient() {
	ctx := context.Background()
	req := dto.StockOperationRequest{Quantity: decimal.RequireFromString("100")}

	suite.mockRepo.On("ApplyStockChange", ctx, suite.ownerID, mock.Anything, suite.userID).Return(nil, nil, apperrors.ErrInsufficientStock).Once()

	movement, err := suite.service.ReduceStock(ctx, suite.ownerID, uuid.NewString(), req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(movement)
	suite.ErrorIs(err, apperrors.ErrInsufficientStock)
	suite.mockPublisher.AssertNotCalled(suite.T(), "Publish", mock.Anything, mock.Anything)
}

func (suite *InventoryServiceTestSuite) TestAdjustStock_ZeroRejected() {
	ctx := context.Background()

	movement, err := suite.service.AdjustStock(ctx, suite.ownerID, uuid.NewString(), decimal.Zero, "", "", suite.userID)

	suite.Require().Error(err)
	suite.Nil(movement)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *InventoryServiceTestSuite) TestAdjustStock_NegativeCarriesSignedQuantity() {
	ctx := context.Background()
	itemID := uuid.NewString()
	quantity := decimal.RequireFromString("-3")

	suite.mockRepo.On("ApplyStockChange", ctx, suite.ownerID, mock.MatchedBy(func(change portsrepo.StockChange) bool {
		return change.Type == domain.MovementAdjust && change.Quantity.Equal(quantity)
	}), suite.userID).Return(
		&domain.StockMovement{MovementID: uuid.NewString(), Type: domain.MovementAdjust},
		&domain.InventoryItem{ItemID: itemID, CurrentStock: decimal.RequireFromString("97")},
		nil,
	).Once()

	movement, err := suite.service.AdjustStock(ctx, suite.ownerID, itemID, quantity, "STOCKTAKE-7", "damaged units", suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(movement)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *InventoryServiceTestSuite) TestRestoreStock_ReturnUsesReturnMovement() {
	ctx := context.Background()
	itemID := uuid.NewString()
	quantity := decimal.RequireFromString("2")

	suite.mockRepo.On("ApplyStockChange", ctx, suite.ownerID, mock.MatchedBy(func(change portsrepo.StockChange) bool {
		return change.Type == domain.MovementReturn && change.Notes == string(domain.RestoreReturned)
	}), suite.userID).Return(
		&domain.StockMovement{MovementID: uuid.NewString(), Type: domain.MovementReturn},
		&domain.InventoryItem{ItemID: itemID},
		nil,
	).Once()

	movement, err := suite.service.RestoreStock(ctx, suite.ownerID, itemID, quantity, "SALE-9", domain.RestoreReturned, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(movement)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *InventoryServiceTestSuite) TestCheckAvailability_Shortfall() {
	ctx := context.Background()
	itemA := uuid.NewString()
	itemB := uuid.NewString()
	req := dto.CheckAvailabilityRequest{
		Items: []dto.AvailabilityLineRequest{
			{ItemID: itemA, Quantity: decimal.RequireFromString("5")},
			{ItemID: itemB, Quantity: decimal.RequireFromString("30")},
		},
	}
	items := map[string]domain.InventoryItem{
		itemA: {ItemID: itemA, Name: "A", CurrentStock: decimal.RequireFromString("10")},
		itemB: {ItemID: itemB, Name: "B", CurrentStock: decimal.RequireFromString("12")},
	}

	suite.mockRepo.On("FindItemsByIDs", ctx, suite.ownerID, []string{itemA, itemB}).Return(items, nil).Once()

	result, err := suite.service.CheckAvailability(ctx, suite.ownerID, req)

	suite.Require().NoError(err)
	suite.False(result.Available)
	suite.Require().Len(result.Shortfalls, 1)
	suite.Equal(itemB, result.Shortfalls[0].ItemID)
	suite.True(result.Shortfalls[0].Available.Equal(decimal.RequireFromString("12")))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *InventoryServiceTestSuite) TestCheckAvailability_UnknownItem() {
	ctx := context.Background()
	itemID := uuid.NewString()
	req := dto.CheckAvailabilityRequest{
		Items: []dto.AvailabilityLineRequest{{ItemID: itemID, Quantity: decimal.RequireFromString("1")}},
	}

	suite.mockRepo.On("FindItemsByIDs", ctx, suite.ownerID, []string{itemID}).Return(map[string]domain.InventoryItem{}, nil).Once()

	result, err := suite.service.CheckAvailability(ctx, suite.ownerID, req)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestInventoryService(t *testing.T) {
	suite.Run(t, new(InventoryServiceTestSuite))
}
