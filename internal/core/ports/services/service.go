package services

// ServiceContainer holds all service facades for handler wiring.
type ServiceContainer struct {
	User       UserSvcFacade
	Party      PartySvcFacade
	Ledger     LedgerSvcFacade
	Inventory  InventorySvcFacade
	Credit     CreditSvcFacade
	Settlement SettlementSvcFacade
}
