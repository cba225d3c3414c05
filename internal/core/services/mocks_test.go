package services_test

import (
	"context"
	"time"

	"github.com/bizbook/bizbook_backend/internal/core/domain"
	portsrepo "github.com/bizbook/bizbook_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock repositories shared by the service test suites ---

// MockLedgerRepository is a mock type for the LedgerRepositoryFacade interface
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) FindEntryByID(ctx context.Context, ownerID, entryID string) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, ownerID, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) FindEntriesByAccount(ctx context.Context, ownerID string, ref domain.AccountRef, asOf *time.Time) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, ownerID, ref, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) ListEntriesByAccount(ctx context.Context, ownerID string, ref domain.AccountRef, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	args := m.Called(ctx, ownerID, ref, limit, nextToken)
	var entries []domain.LedgerEntry
	if args.Get(0) != nil {
		entries = args.Get(0).([]domain.LedgerEntry)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return entries, token, args.Error(2)
}

func (m *MockLedgerRepository) AccountBalances(ctx context.Context, ownerID string, kind domain.PartyKind) ([]portsrepo.AccountBalance, error) {
	args := m.Called(ctx, ownerID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]portsrepo.AccountBalance), args.Error(1)
}

func (m *MockLedgerRepository) AppendEntry(ctx context.Context, entry domain.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerRepository) AppendEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.LedgerEntry) error {
	args := m.Called(ctx, tx, entry)
	return args.Error(0)
}

// MockCustomerRepository is a mock type for the CustomerRepositoryFacade interface
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) CreateCustomer(ctx context.Context, customer domain.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) FindCustomerByID(ctx context.Context, ownerID, customerID string) (*domain.Customer, error) {
	args := m.Called(ctx, ownerID, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *MockCustomerRepository) ListCustomers(ctx context.Context, ownerID string, limit int, nextToken *string) ([]domain.Customer, *string, error) {
	args := m.Called(ctx, ownerID, limit, nextToken)
	var customers []domain.Customer
	if args.Get(0) != nil {
		customers = args.Get(0).([]domain.Customer)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return customers, token, args.Error(2)
}

func (m *MockCustomerRepository) UpdateCustomer(ctx context.Context, customer domain.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) UpdateCreditLimit(ctx context.Context, ownerID, customerID string, limit decimal.Decimal, userID string, at time.Time) error {
	args := m.Called(ctx, ownerID, customerID, limit, userID, at)
	return args.Error(0)
}

// MockPartyRepository is a mock type for the PartyRepositoryFacade interface
type MockPartyRepository struct {
	mock.Mock
}

func (m *MockPartyRepository) CreateParty(ctx context.Context, party domain.Party) error {
	args := m.Called(ctx, party)
	return args.Error(0)
}

func (m *MockPartyRepository) FindPartyByID(ctx context.Context, ownerID, partyID string) (*domain.Party, error) {
	args := m.Called(ctx, ownerID, partyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Party), args.Error(1)
}

func (m *MockPartyRepository) ListParties(ctx context.Context, ownerID string, limit int, nextToken *string) ([]domain.Party, *string, error) {
	args := m.Called(ctx, ownerID, limit, nextToken)
	var parties []domain.Party
	if args.Get(0) != nil {
		parties = args.Get(0).([]domain.Party)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return parties, token, args.Error(2)
}

func (m *MockPartyRepository) UpdateParty(ctx context.Context, party domain.Party) error {
	args := m.Called(ctx, party)
	return args.Error(0)
}

// MockUserRepository is a mock type for the UserRepositoryFacade interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockInventoryRepository is a mock type for the InventoryRepositoryFacade interface
type MockInventoryRepository struct {
	mock.Mock
}

func (m *MockInventoryRepository) FindItemByID(ctx context.Context, ownerID, itemID string) (*domain.InventoryItem, error) {
	args := m.Called(ctx, ownerID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InventoryItem), args.Error(1)
}

func (m *MockInventoryRepository) FindItemsByIDs(ctx context.Context, ownerID string, itemIDs []string) (map[string]domain.InventoryItem, error) {
	args := m.Called(ctx, ownerID, itemIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.InventoryItem), args.Error(1)
}

func (m *MockInventoryRepository) ListItems(ctx context.Context, ownerID string, limit int, nextToken *string) ([]domain.InventoryItem, *string, error) {
	args := m.Called(ctx, ownerID, limit, nextToken)
	var items []domain.InventoryItem
	if args.Get(0) != nil {
		items = args.Get(0).([]domain.InventoryItem)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return items, token, args.Error(2)
}

func (m *MockInventoryRepository) ListMovementsByItem(ctx context.Context, ownerID, itemID string, limit int, nextToken *string) ([]domain.StockMovement, *string, error) {
	args := m.Called(ctx, ownerID, itemID, limit, nextToken)
	var movements []domain.StockMovement
	if args.Get(0) != nil {
		movements = args.Get(0).([]domain.StockMovement)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return movements, token, args.Error(2)
}

func (m *MockInventoryRepository) CreateItem(ctx context.Context, item domain.InventoryItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockInventoryRepository) UpdateItem(ctx context.Context, item domain.InventoryItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockInventoryRepository) ApplyStockChange(ctx context.Context, ownerID string, change portsrepo.StockChange, userID string) (*domain.StockMovement, *domain.InventoryItem, error) {
	args := m.Called(ctx, ownerID, change, userID)
	var movement *domain.StockMovement
	if args.Get(0) != nil {
		movement = args.Get(0).(*domain.StockMovement)
	}
	var item *domain.InventoryItem
	if args.Get(1) != nil {
		item = args.Get(1).(*domain.InventoryItem)
	}
	return movement, item, args.Error(2)
}

func (m *MockInventoryRepository) ApplyStockChangeInTx(ctx context.Context, tx pgx.Tx, ownerID string, change portsrepo.StockChange, userID string) (*domain.StockMovement, *domain.InventoryItem, error) {
	args := m.Called(ctx, tx, ownerID, change, userID)
	var movement *domain.StockMovement
	if args.Get(0) != nil {
		movement = args.Get(0).(*domain.StockMovement)
	}
	var item *domain.InventoryItem
	if args.Get(1) != nil {
		item = args.Get(1).(*domain.InventoryItem)
	}
	return movement, item, args.Error(2)
}

// MockDocumentRepository is a mock type for the DocumentRepositoryFacade interface
type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) FindSaleByID(ctx context.Context, ownerID, saleID string) (*domain.Sale, error) {
	args := m.Called(ctx, ownerID, saleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Sale), args.Error(1)
}

func (m *MockDocumentRepository) FindSaleByNumber(ctx context.Context, ownerID, saleNumber string) (*domain.Sale, error) {
	args := m.Called(ctx, ownerID, saleNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Sale), args.Error(1)
}

func (m *MockDocumentRepository) ListSales(ctx context.Context, ownerID string, limit int, nextToken *string) ([]domain.Sale, *string, error) {
	args := m.Called(ctx, ownerID, limit, nextToken)
	var sales []domain.Sale
	if args.Get(0) != nil {
		sales = args.Get(0).([]domain.Sale)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return sales, token, args.Error(2)
}

func (m *MockDocumentRepository) ListOverdueSales(ctx context.Context, ownerID string, asOf time.Time) ([]domain.Sale, error) {
	args := m.Called(ctx, ownerID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Sale), args.Error(1)
}

func (m *MockDocumentRepository) FindReceiptByID(ctx context.Context, ownerID, receiptID string) (*domain.SaleReceipt, error) {
	args := m.Called(ctx, ownerID, receiptID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SaleReceipt), args.Error(1)
}

func (m *MockDocumentRepository) FindReceiptByNumber(ctx context.Context, ownerID, receiptNumber string) (*domain.SaleReceipt, error) {
	args := m.Called(ctx, ownerID, receiptNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SaleReceipt), args.Error(1)
}

func (m *MockDocumentRepository) ListReceiptsBySale(ctx context.Context, ownerID, saleID string) ([]domain.SaleReceipt, error) {
	args := m.Called(ctx, ownerID, saleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SaleReceipt), args.Error(1)
}

func (m *MockDocumentRepository) FindInvoiceByID(ctx context.Context, ownerID, invoiceID string) (*domain.Invoice, error) {
	args := m.Called(ctx, ownerID, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockDocumentRepository) FindInvoiceByNumber(ctx context.Context, ownerID, invoiceNumber string) (*domain.Invoice, error) {
	args := m.Called(ctx, ownerID, invoiceNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockDocumentRepository) ListInvoices(ctx context.Context, ownerID string, limit int, nextToken *string) ([]domain.Invoice, *string, error) {
	args := m.Called(ctx, ownerID, limit, nextToken)
	var invoices []domain.Invoice
	if args.Get(0) != nil {
		invoices = args.Get(0).([]domain.Invoice)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return invoices, token, args.Error(2)
}

func (m *MockDocumentRepository) ListOverdueInvoices(ctx context.Context, ownerID string, asOf time.Time) ([]domain.Invoice, error) {
	args := m.Called(ctx, ownerID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invoice), args.Error(1)
}

func (m *MockDocumentRepository) FindInvoicePaymentByID(ctx context.Context, ownerID, paymentID string) (*domain.InvoicePayment, error) {
	args := m.Called(ctx, ownerID, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InvoicePayment), args.Error(1)
}

func (m *MockDocumentRepository) FindInvoicePaymentByNumber(ctx context.Context, ownerID, paymentNumber string) (*domain.InvoicePayment, error) {
	args := m.Called(ctx, ownerID, paymentNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InvoicePayment), args.Error(1)
}

func (m *MockDocumentRepository) ListPaymentsByInvoice(ctx context.Context, ownerID, invoiceID string) ([]domain.InvoicePayment, error) {
	args := m.Called(ctx, ownerID, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InvoicePayment), args.Error(1)
}

func (m *MockDocumentRepository) SaveSale(ctx context.Context, sale domain.Sale, entry domain.LedgerEntry, changes []portsrepo.StockChange) ([]domain.StockMovement, []domain.InventoryItem, error) {
	args := m.Called(ctx, sale, entry, changes)
	var movements []domain.StockMovement
	if args.Get(0) != nil {
		movements = args.Get(0).([]domain.StockMovement)
	}
	var items []domain.InventoryItem
	if args.Get(1) != nil {
		items = args.Get(1).([]domain.InventoryItem)
	}
	return movements, items, args.Error(2)
}

func (m *MockDocumentRepository) SaveInvoice(ctx context.Context, invoice domain.Invoice, entry domain.LedgerEntry, changes []portsrepo.StockChange) ([]domain.StockMovement, []domain.InventoryItem, error) {
	args := m.Called(ctx, invoice, entry, changes)
	var movements []domain.StockMovement
	if args.Get(0) != nil {
		movements = args.Get(0).([]domain.StockMovement)
	}
	var items []domain.InventoryItem
	if args.Get(1) != nil {
		items = args.Get(1).([]domain.InventoryItem)
	}
	return movements, items, args.Error(2)
}

func (m *MockDocumentRepository) ApplyReceipt(ctx context.Context, sale *domain.Sale, receipt domain.SaleReceipt, entry domain.LedgerEntry) error {
	args := m.Called(ctx, sale, receipt, entry)
	return args.Error(0)
}

func (m *MockDocumentRepository) ApplyInvoicePayment(ctx context.Context, invoice *domain.Invoice, payment domain.InvoicePayment, entry domain.LedgerEntry) error {
	args := m.Called(ctx, invoice, payment, entry)
	return args.Error(0)
}

func (m *MockDocumentRepository) CancelSale(ctx context.Context, sale domain.Sale, entry domain.LedgerEntry, changes []portsrepo.StockChange) ([]domain.StockMovement, []domain.InventoryItem, error) {
	args := m.Called(ctx, sale, entry, changes)
	var movements []domain.StockMovement
	if args.Get(0) != nil {
		movements = args.Get(0).([]domain.StockMovement)
	}
	var items []domain.InventoryItem
	if args.Get(1) != nil {
		items = args.Get(1).([]domain.InventoryItem)
	}
	return movements, items, args.Error(2)
}

func (m *MockDocumentRepository) CancelInvoice(ctx context.Context, invoice domain.Invoice, entry domain.LedgerEntry, changes []portsrepo.StockChange) ([]domain.StockMovement, []domain.InventoryItem, error) {
	args := m.Called(ctx, invoice, entry, changes)
	var movements []domain.StockMovement
	if args.Get(0) != nil {
		movements = args.Get(0).([]domain.StockMovement)
	}
	var items []domain.InventoryItem
	if args.Get(1) != nil {
		items = args.Get(1).([]domain.InventoryItem)
	}
	return movements, items, args.Error(2)
}

func (m *MockDocumentRepository) DeleteReceipt(ctx context.Context, ownerID, receiptID string, sale *domain.Sale, entry domain.LedgerEntry) error {
	args := m.Called(ctx, ownerID, receiptID, sale, entry)
	return args.Error(0)
}

func (m *MockDocumentRepository) DeleteInvoicePayment(ctx context.Context, ownerID, paymentID string, invoice *domain.Invoice, entry domain.LedgerEntry) error {
	args := m.Called(ctx, ownerID, paymentID, invoice, entry)
	return args.Error(0)
}

func (m *MockDocumentRepository) UpdateReceiptStatus(ctx context.Context, ownerID, receiptID string, status domain.ReceiptStatus, userID string, at time.Time) error {
	args := m.Called(ctx, ownerID, receiptID, status, userID, at)
	return args.Error(0)
}

func (m *MockDocumentRepository) SetPaymentClearance(ctx context.Context, ownerID, paymentID string, clearedAt time.Time, userID string, at time.Time) error {
	args := m.Called(ctx, ownerID, paymentID, clearedAt, userID, at)
	return args.Error(0)
}

// MockCreditService is a mock type for the CreditSvcFacade interface
type MockCreditService struct {
	mock.Mock
}

func (m *MockCreditService) Evaluate(ctx context.Context, ownerID string, ref domain.AccountRef, proposed decimal.Decimal) (*domain.CreditCheck, error) {
	args := m.Called(ctx, ownerID, ref, proposed)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CreditCheck), args.Error(1)
}

func (m *MockCreditService) UpdateCreditLimit(ctx context.Context, ownerID, customerID string, limit decimal.Decimal, reason, userID string) (*domain.Customer, error) {
	args := m.Called(ctx, ownerID, customerID, limit, reason, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

// MockEventPublisher is a mock type for the EventPublisher interface
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, event domain.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}
