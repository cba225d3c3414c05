package services

import (
	"context"

	"github.com/bizbook/bizbook_backend/internal/core/domain"
	"github.com/bizbook/bizbook_backend/internal/dto"
)

// UserSvcFacade covers owner account registration and authentication.
type UserSvcFacade interface {
	Register(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error)

	// Authenticate verifies credentials and returns the user on success.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)

	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
}
