package dto

import "github.com/shopspring/decimal"

// CreateCustomerRequest carries the fields for a new customer.
type CreateCustomerRequest struct {
	Name        string           `json:"name" binding:"required"`
	Phone       string           `json:"phone"`
	Email       string           `json:"email" binding:"omitempty,email"`
	Address     string           `json:"address"`
	CreditLimit *decimal.Decimal `json:"creditLimit"` // Nil or zero means no limit
}

// UpdateCustomerRequest carries optional customer field updates.
type UpdateCustomerRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Address *string `json:"address"`
}

// UpdateCreditLimitRequest changes a customer's credit limit. The change is
// recorded in the journal as an audit-only entry.
type UpdateCreditLimitRequest struct {
	CreditLimit decimal.Decimal `json:"creditLimit" binding:"required"`
	Reason      string          `json:"reason"`
}

// CreatePartyRequest carries the fields for a new party (supplier).
type CreatePartyRequest struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone"`
	Email   string `json:"email" binding:"omitempty,email"`
	Address string `json:"address"`
}

// UpdatePartyRequest carries optional party field updates.
type UpdatePartyRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Address *string `json:"address"`
}
