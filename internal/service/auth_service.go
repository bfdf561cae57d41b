package service

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/yourusername/agroscan-api/internal/domain/entity"
	"github.com/yourusername/agroscan-api/internal/domain/repository"
	apperrors "github.com/yourusername/agroscan-api/internal/pkg/errors"
	"github.com/yourusername/agroscan-api/pkg/auth"
)

// AuthService authenticates logins against Active accounts. It performs no
// state transition of its own: a pass/fail check plus token issue.
type AuthService struct {
	accounts   repository.AccountRepository
	jwtService *auth.JWTService
}

func NewAuthService(accounts repository.AccountRepository, jwtService *auth.JWTService) (*AuthService, error) {
	if accounts == nil {
		return nil, fmt.Errorf("account repository is required")
	}
	if jwtService == nil {
		return nil, fmt.Errorf("jwt service is required")
	}
	return &AuthService{accounts: accounts, jwtService: jwtService}, nil
}

// AuthResponse carries the authenticated account and its access token.
type AuthResponse struct {
	Account     *entity.Account `json:"account"`
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type"`
	ExpiresIn   int             `json:"expires_in"`
}

// Login authenticates by username or email. A Pending or missing account is
// not found; only a wrong password on an Active account is an invalid
// credential.
func (s *AuthService) Login(identifier, password string) (*AuthResponse, error) {
	identifier = strings.TrimSpace(identifier)
	if strings.Contains(identifier, "@") {
		identifier = strings.ToLower(identifier)
	}
	if identifier == "" || password == "" {
		return nil, fmt.Errorf("%w: identifier and password are required", apperrors.ErrValidation)
	}

	account, err := s.accounts.GetByIdentifier(identifier)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	if !account.IsActive() {
		return nil, apperrors.ErrNotFound
	}

	if !account.CheckPassword(password) {
		log.Printf("[AuthService] invalid password for account ID=%d", account.ID)
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}

	token, err := s.jwtService.GenerateToken(account.ID, account.Username)
	if err != nil {
		log.Printf("[AuthService] token generation failed for account ID=%d: %v", account.ID, err)
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	log.Printf("[AuthService] account ID=%d (%s) logged in", account.ID, account.Email)
	return &AuthResponse{
		Account:     account,
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.jwtService.Expiry().Seconds()),
	}, nil
}

// GetAccountByID returns the account for an authenticated request context.
func (s *AuthService) GetAccountByID(id uint) (*entity.Account, error) {
	return s.accounts.GetByID(id)
}
