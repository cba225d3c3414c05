package repositories

import (
	"context"

	"github.com/bizbook/bizbook_backend/internal/core/domain"
)

// UserRepositoryFacade defines persistence for owner accounts.
type UserRepositoryFacade interface {
	CreateUser(ctx context.Context, user domain.User) error
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
}
