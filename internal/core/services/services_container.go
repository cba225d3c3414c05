package services

import (
	portsrepo "github.com/bizbook/bizbook_backend/internal/core/ports/repositories"
	portssvc "github.com/bizbook/bizbook_backend/internal/core/ports/services"
)

// NewServiceContainer wires every service from the repository provider.
// The credit service is shared: the settlement engine consults the same
// instance the credit endpoints use.
func NewServiceContainer(repos portsrepo.RepositoryProvider, publisher portssvc.EventPublisher) *portssvc.ServiceContainer {
	ledgerSvc := NewLedgerService(repos.LedgerRepo)
	creditSvc := NewCreditService(repos.CustomerRepo, repos.LedgerRepo, ledgerSvc)

	return &portssvc.ServiceContainer{
		User:       NewUserService(repos.UserRepo),
		Party:      NewPartyService(repos.CustomerRepo, repos.PartyRepo),
		Ledger:     ledgerSvc,
		Inventory:  NewInventoryService(repos.InventoryRepo, publisher),
		Credit:     creditSvc,
		Settlement: NewSettlementService(repos.DocumentRepo, repos.CustomerRepo, repos.PartyRepo, creditSvc, publisher),
	}
}
