package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/identitylab/identity-service/internal/core/domain"
	"github.com/identitylab/identity-service/internal/core/ports"
)

// AuthService implements signup and credential authentication.
type AuthService struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
	tokens ports.TokenService

	// dummyHash is verified against when the username does not exist, so
	// that lookup misses cost the same as a wrong password and the login
	// endpoint cannot be used to enumerate accounts.
	dummyHash string
}

func NewAuthService(ctx context.Context, repo ports.UserRepository, hasher ports.PasswordHasher, tokens ports.TokenService) (*AuthService, error) {
	dummy, err := hasher.Hash(ctx, uuid.NewString())
	if err != nil {
		return nil, err
	}
	return &AuthService{repo: repo, hasher: hasher, tokens: tokens, dummyHash: dummy}, nil
}

// SignUp registers a new user with a hashed password.
func (s *AuthService) SignUp(ctx context.Context, username, password, role string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if !domain.ValidRole(role) {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(ctx, password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Authenticate verifies username/password and returns the identity on success.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*domain.Identity, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Burn a comparable amount of bcrypt work before rejecting.
			s.hasher.Verify(ctx, password, s.dummyHash)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(ctx, password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	return &domain.Identity{Username: user.Username, Role: user.Role}, nil
}

// Login authenticates and issues a signed token for the identity.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.Identity, error) {
	identity, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return "", nil, err
	}

	token, err := s.tokens.Issue(identity.Username)
	if err != nil {
		return "", nil, err
	}
	return token, identity, nil
}
