package repositories

import (
	"context"
	"time"

	"github.com/bizbook/bizbook_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CustomerRepositoryFacade defines persistence for customers.
type CustomerRepositoryFacade interface {
	CreateCustomer(ctx context.Context, customer domain.Customer) error
	FindCustomerByID(ctx context.Context, ownerID, customerID string) (*domain.Customer, error)
	ListCustomers(ctx context.Context, ownerID string, limit int, nextToken *string) ([]domain.Customer, *string, error)
	UpdateCustomer(ctx context.Context, customer domain.Customer) error
	UpdateCreditLimit(ctx context.Context, ownerID, customerID string, limit decimal.Decimal, userID string, at time.Time) error
}

// PartyRepositoryFacade defines persistence for parties (suppliers).
type PartyRepositoryFacade interface {
	CreateParty(ctx context.Context, party domain.Party) error
	FindPartyByID(ctx context.Context, ownerID, partyID string) (*domain.Party, error)
	ListParties(ctx context.Context, ownerID string, limit int, nextToken *string) ([]domain.Party, *string, error)
	UpdateParty(ctx context.Context, party domain.Party) error
}
