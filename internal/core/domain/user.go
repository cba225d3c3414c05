package domain

// User is a business owner account. All business rows are scoped by the
// owning user's ID.
type User struct {
	UserID       string `json:"userID"` // Primary key (UUID)
	Name         string `json:"name"`
	Email        string `json:"email"` // Unique login identifier
	PasswordHash string `json:"-"`
	IsActive     bool   `json:"isActive"`
	AuditFields
}
