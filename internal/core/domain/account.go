package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PartyKind distinguishes the two sides of the books: customers owe the
// business (receivable accounts), parties are owed by the business (payable
// accounts).
type PartyKind string

const (
	KindCustomer PartyKind = "CUSTOMER"
	KindParty    PartyKind = "PARTY"
)

// AccountRef identifies a ledger account. It is a lookup key into the journal,
// not a stored row: the pair (kind, partyID) replaces the nullable dual foreign
// keys customer_id/party_id so that "exactly one is set" holds structurally.
type AccountRef struct {
	Kind    PartyKind `json:"kind"`
	PartyID string    `json:"partyID"`
}

// CustomerRef builds an AccountRef for a customer (receivable) account.
func CustomerRef(customerID string) AccountRef {
	return AccountRef{Kind: KindCustomer, PartyID: customerID}
}

// PartyRef builds an AccountRef for a party (payable) account.
func PartyRef(partyID string) AccountRef {
	return AccountRef{Kind: KindParty, PartyID: partyID}
}

// IsZero reports whether the reference is unset.
func (r AccountRef) IsZero() bool {
	return r.Kind == "" && r.PartyID == ""
}

func (r AccountRef) String() string {
	return fmt.Sprintf("%s/%s", r.Kind, r.PartyID)
}

// Customer represents a buyer the business extends credit to.
type Customer struct {
	CustomerID  string          `json:"customerID"` // Primary key (UUID)
	OwnerID     string          `json:"ownerID"`    // FK -> users.user_id
	Name        string          `json:"name"`
	Phone       string          `json:"phone"`   // Nullable
	Email       string          `json:"email"`   // Nullable
	Address     string          `json:"address"` // Nullable
	CreditLimit decimal.Decimal `json:"creditLimit"` // Zero means no limit configured
	IsActive    bool            `json:"isActive"`
	AuditFields
}

// Party represents a supplier the business buys from on credit.
type Party struct {
	PartyID  string `json:"partyID"` // Primary key (UUID)
	OwnerID  string `json:"ownerID"` // FK -> users.user_id
	Name     string `json:"name"`
	Phone    string `json:"phone"`   // Nullable
	Email    string `json:"email"`   // Nullable
	Address  string `json:"address"` // Nullable
	IsActive bool   `json:"isActive"`
	AuditFields
}
