package pgsql

import (
	portsrepo "github.com/bizbook/bizbook_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	ledgerRepo := newPgxLedgerRepository(dbPool)
	inventoryRepo := newPgxInventoryRepository(dbPool)
	customerRepo := newPgxCustomerRepository(dbPool)
	partyRepo := newPgxPartyRepository(dbPool)
	userRepo := newPgxUserRepository(dbPool)
	documentRepo := newPgxDocumentRepository(dbPool, ledgerRepo, inventoryRepo)

	return portsrepo.RepositoryProvider{
		LedgerRepo:    ledgerRepo,
		DocumentRepo:  documentRepo,
		InventoryRepo: inventoryRepo,
		CustomerRepo:  customerRepo,
		PartyRepo:     partyRepo,
		UserRepo:      userRepo,
	}
}
