package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bizbook/bizbook_backend/internal/core/domain"
	portsrepo "github.com/bizbook/bizbook_backend/internal/core/ports/repositories"
	portssvc "github.com/bizbook/bizbook_backend/internal/core/ports/services"
	"github.com/bizbook/bizbook_backend/internal/dto"
)

// partyService maintains the customer and supplier registries.
type partyService struct {
	customerRepo portsrepo.CustomerRepositoryFacade
	partyRepo    portsrepo.PartyRepositoryFacade
}

// NewPartyService creates a new PartyService.
func NewPartyService(customerRepo portsrepo.CustomerRepositoryFacade, partyRepo portsrepo.PartyRepositoryFacade) portssvc.PartySvcFacade {
	return &partyService{
		customerRepo: customerRepo,
		partyRepo:    partyRepo,
	}
}

var _ portssvc.PartySvcFacade = (*partyService)(nil)

func (s *partyService) CreateCustomer(ctx context.Context, ownerID string, req dto.CreateCustomerRequest, userID string) (*domain.Customer, error) {
	now := time.Now().UTC()
	customer := domain.Customer{
		CustomerID:  uuid.NewString(),
		OwnerID:     ownerID,
		Name:        req.Name,
		Phone:       req.Phone,
		Email:       req.Email,
		Address:     req.Address,
		CreditLimit: decimal.Zero,
		IsActive:    true,
		AuditFields: newAuditFields(now, userID),
	}
	if req.CreditLimit != nil {
		customer.CreditLimit = *req.CreditLimit
	}

	if err := s.customerRepo.CreateCustomer(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return &customer, nil
}

func (s *partyService) GetCustomer(ctx context.Context, ownerID, customerID string) (*domain.Customer, error) {
	return s.customerRepo.FindCustomerByID(ctx, ownerID, customerID)
}

func (s *partyService) ListCustomers(ctx context.Context, ownerID string, limit int, nextToken *string) ([]domain.Customer, *string, error) {
	if limit <= 0 || limit > 100 {
		limit = 25
	}
	return s.customerRepo.ListCustomers(ctx, ownerID, limit, nextToken)
}

// UpdateCustomer patches contact fields. The credit limit is not touched here;
// it changes only through the credit service so the audit entry is never
// skipped.
func (s *partyService) UpdateCustomer(ctx context.Context, ownerID, customerID string, req dto.UpdateCustomerRequest, userID string) (*domain.Customer, error) {
	customer, err := s.customerRepo.FindCustomerByID(ctx, ownerID, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find customer %s: %w", customerID, err)
	}

	if req.Name != nil {
		customer.Name = *req.Name
	}
	if req.Phone != nil {
		customer.Phone = *req.Phone
	}
	if req.Email != nil {
		customer.Email = *req.Email
	}
	if req.Address != nil {
		customer.Address = *req.Address
	}
	customer.LastUpdatedAt = time.Now().UTC()
	customer.LastUpdatedBy = userID

	if err := s.customerRepo.UpdateCustomer(ctx, *customer); err != nil {
		return nil, fmt.Errorf("failed to update customer %s: %w", customerID, err)
	}
	return customer, nil
}

func (s *partyService) CreateParty(ctx context.Context, ownerID string, req dto.CreatePartyRequest, userID string) (*domain.Party, error) {
	now := time.Now().UTC()
	party := domain.Party{
		PartyID:     uuid.NewString(),
		OwnerID:     ownerID,
		Name:        req.Name,
		Phone:       req.Phone,
		Email:       req.Email,
		Address:     req.Address,
		IsActive:    true,
		AuditFields: newAuditFields(now, userID),
	}

	if err := s.partyRepo.CreateParty(ctx, party); err != nil {
		return nil, fmt.Errorf("failed to create party: %w", err)
	}
	return &party, nil
}

func (s *partyService) GetParty(ctx context.Context, ownerID, partyID string) (*domain.Party, error) {
	return s.partyRepo.FindPartyByID(ctx, ownerID, partyID)
}

func (s *partyService) ListParties(ctx context.Context, ownerID string, limit int, nextToken *string) ([]domain.Party, *string, error) {
	if limit <= 0 || limit > 100 {
		limit = 25
	}
	return s.partyRepo.ListParties(ctx, ownerID, limit, nextToken)
}

func (s *partyService) UpdateParty(ctx context.Context, ownerID, partyID string, req dto.UpdatePartyRequest, userID string) (*domain.Party, error) {
	party, err := s.partyRepo.FindPartyByID(ctx, ownerID, partyID)
	if err != nil {
		return nil, fmt.Errorf("failed to find party %s: %w", partyID, err)
	}

	if req.Name != nil {
		party.Name = *req.Name
	}
	if req.Phone != nil {
		party.Phone = *req.Phone
	}
	if req.Email != nil {
		party.Email = *req.Email
	}
	if req.Address != nil {
		party.Address = *req.Address
	}
	party.LastUpdatedAt = time.Now().UTC()
	party.LastUpdatedBy = userID

	if err := s.partyRepo.UpdateParty(ctx, *party); err != nil {
		return nil, fmt.Errorf("failed to update party %s: %w", partyID, err)
	}
	return party, nil
}
