package ports

import (
	"context"

	"github.com/identitylab/identity-service/internal/core/domain"
)

type AuthService interface {
	// SignUp registers a new user. The returned record never carries the
	// password hash in its JSON projection.
	SignUp(ctx context.Context, username, password, role string) (*domain.User, error)
	// Authenticate verifies credentials and returns the resulting identity.
	// Unknown username and wrong password are indistinguishable to the caller:
	// both return domain.ErrInvalidCredentials.
	Authenticate(ctx context.Context, username, password string) (*domain.Identity, error)
	// Login authenticates and issues a signed token for the identity.
	Login(ctx context.Context, username, password string) (string, *domain.Identity, error)
}
