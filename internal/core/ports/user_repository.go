package ports

import (
	"context"

	"github.com/identitylab/identity-service/internal/core/domain"
)

// UserRepository defines the interface for user credential persistence.
// Implementations must treat username uniqueness as a hard constraint.
type UserRepository interface {
	// FindByUsername retrieves a user by username.
	// Returns domain.ErrUserNotFound when no record exists.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// Create inserts a new user and returns the stored record.
	// Returns domain.ErrUserExists when the username is already taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
