package services

import (
	"context"

	"github.com/bizbook/bizbook_backend/internal/core/domain"
	"github.com/bizbook/bizbook_backend/internal/dto"
)

// CustomerSvc covers the customer registry.
type CustomerSvc interface {
	CreateCustomer(ctx context.Context, ownerID string, req dto.CreateCustomerRequest, userID string) (*domain.Customer, error)
	GetCustomer(ctx context.Context, ownerID, customerID string) (*domain.Customer, error)
	ListCustomers(ctx context.Context, ownerID string, limit int, nextToken *string) ([]domain.Customer, *string, error)
	UpdateCustomer(ctx context.Context, ownerID, customerID string, req dto.UpdateCustomerRequest, userID string) (*domain.Customer, error)
}

// SupplierSvc covers the party (supplier) registry.
type SupplierSvc interface {
	CreateParty(ctx context.Context, ownerID string, req dto.CreatePartyRequest, userID string) (*domain.Party, error)
	GetParty(ctx context.Context, ownerID, partyID string) (*domain.Party, error)
	ListParties(ctx context.Context, ownerID string, limit int, nextToken *string) ([]domain.Party, *string, error)
	UpdateParty(ctx context.Context, ownerID, partyID string, req dto.UpdatePartyRequest, userID string) (*domain.Party, error)
}

// PartySvcFacade combines both registries.
type PartySvcFacade interface {
	CustomerSvc
	SupplierSvc
}
