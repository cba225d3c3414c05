package models

import "github.com/shopspring/decimal"

// Customer represents a row of the customers table.
type Customer struct {
	CustomerID  string          `json:"customerID"` // Primary Key (UUID)
	OwnerID     string          `json:"ownerID"`
	Name        string          `json:"name"`
	Phone       string          `json:"phone"`
	Email       string          `json:"email"`
	Address     string          `json:"address"`
	CreditLimit decimal.Decimal `json:"creditLimit"` // 0 means no limit
	IsActive    bool            `json:"isActive"`
	AuditFields
}

// Party represents a row of the parties table.
type Party struct {
	PartyID  string `json:"partyID"` // Primary Key (UUID)
	OwnerID  string `json:"ownerID"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Address  string `json:"address"`
	IsActive bool   `json:"isActive"`
	AuditFields
}
