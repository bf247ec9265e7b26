package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lshigami/placementai/internal/auth"
	"github.com/lshigami/placementai/internal/model"
	"github.com/lshigami/placementai/internal/repository"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Signup(ctx context.Context, email, password string) error
	Authenticate(ctx context.Context, email, password string) (*model.Account, error)
	EnsureAdmin(ctx context.Context, email, password string) error
}

type authService struct {
	accounts repository.AccountRepository
}

func NewAuthService(accounts repository.AccountRepository) AuthService {
	return &authService{accounts: accounts}
}

// Signup creates a non-admin account. Emails are compared exactly.
func (s *authService) Signup(ctx context.Context, email, password string) error {
	email, password = strings.TrimSpace(email), strings.TrimSpace(password)
	if email == "" || password == "" {
		return ErrMissingCredentials
	}
	return s.create(ctx, email, password, false)
}

func (s *authService) Authenticate(ctx context.Context, email, password string) (*model.Account, error) {
	email, password = strings.TrimSpace(email), strings.TrimSpace(password)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	account, err := s.accounts.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrAccountNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find account: %w", err)
	}
	if !auth.CheckPasswordHash(password, account.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if !auth.IsHashed(account.PasswordHash) {
		log.Warn().Str("email", email).Msg("Account still stores a plaintext password")
	}
	return account, nil
}

// EnsureAdmin seeds the built-in admin account when its email is absent.
func (s *authService) EnsureAdmin(ctx context.Context, email, password string) error {
	_, err := s.accounts.FindByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrAccountNotFound) {
		return fmt.Errorf("look up admin account: %w", err)
	}
	err = s.create(ctx, email, password, true)
	if errors.Is(err, ErrAccountExists) {
		return nil
	}
	if err == nil {
		log.Info().Str("email", email).Msg("Seeded admin account")
	}
	return err
}

func (s *authService) create(ctx context.Context, email, password string, isAdmin bool) error {
	hash, err := auth.HashPassword(password)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return ErrPasswordTooLong
	}
	if err != nil {
		return err
	}
	err = s.accounts.Create(ctx, &model.Account{Email: email, PasswordHash: hash, IsAdmin: isAdmin})
	if errors.Is(err, repository.ErrAccountExists) {
		return ErrAccountExists
	}
	if err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}
