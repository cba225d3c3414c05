package dto

// RegisterUserRequest carries the fields needed to create an owner account.
type RegisterUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest carries login credentials.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse returns the issued access token.
type LoginResponse struct {
	UserID      string `json:"userID"`
	Name        string `json:"name"`
	AccessToken string `json:"accessToken"`
}
