package auth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/anitrack/anitrack/internal/shared"
)

// Service wraps the credential issue side of authentication: password
// sign-in and account registration. Verification lives in Verifier.
type Service struct {
	users  UserStore
	issuer *Issuer
}

// NewService constructs a new Service.
func NewService(users UserStore, issuer *Issuer) *Service {
	return &Service{users: users, issuer: issuer}
}

// SignIn validates email/password credentials and mints a bearer token.
func (s *Service) SignIn(ctx context.Context, email, password string) (Identity, string, error) {
	creds, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return Identity{}, "", shared.ErrInvalidCredentials
		}
		return Identity{}, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(password)); err != nil {
		return Identity{}, "", shared.ErrInvalidCredentials
	}
	token, err := s.issuer.Issue(creds.Identity)
	if err != nil {
		return Identity{}, "", err
	}
	return creds.Identity, token, nil
}

// SignUp registers a new user and signs them in.
func (s *Service) SignUp(ctx context.Context, email, displayName, password string) (Identity, string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Identity{}, "", err
	}
	identity, err := s.users.Create(ctx, CreateUserParams{
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: string(hash),
	})
	if err != nil {
		return Identity{}, "", err
	}
	token, err := s.issuer.Issue(identity)
	if err != nil {
		return Identity{}, "", err
	}
	return identity, token, nil
}
