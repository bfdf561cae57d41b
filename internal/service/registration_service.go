package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/yourusername/agroscan-api/internal/domain/entity"
	"github.com/yourusername/agroscan-api/internal/domain/repository"
	apperrors "github.com/yourusername/agroscan-api/internal/pkg/errors"
)

// RegistrationService drives the Pending→Active account state machine. All
// guarded transitions go through single conditional updates on the account
// repository; this service never does read-validate-write on a code.
type RegistrationService struct {
	accounts        repository.AccountRepository
	dispatcher      NotificationDispatcher
	codeTTL         time.Duration
	dispatchTimeout time.Duration
}

func NewRegistrationService(
	accounts repository.AccountRepository,
	dispatcher NotificationDispatcher,
	codeTTL time.Duration,
) (*RegistrationService, error) {
	if accounts == nil {
		return nil, fmt.Errorf("account repository is required")
	}
	if dispatcher == nil {
		return nil, fmt.Errorf("notification dispatcher is required")
	}
	if codeTTL <= 0 {
		codeTTL = 15 * time.Minute
	}
	return &RegistrationService{
		accounts:        accounts,
		dispatcher:      dispatcher,
		codeTTL:         codeTTL,
		dispatchTimeout: 10 * time.Second,
	}, nil
}

// StartRegistration creates a Pending account holding a fresh verification
// code and sends the code to the user. Delivery is best-effort: the account
// stays Pending either way and the user can request a new code.
func (s *RegistrationService) StartRegistration(ctx context.Context, username, email, password string) (*entity.Account, error) {
	username = strings.TrimSpace(username)
	email = normalizeEmail(email)
	if username == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", apperrors.ErrValidation)
	}

	_, err := s.accounts.GetByEmail(email)
	if err == nil {
		return nil, fmt.Errorf("%w: email already registered", apperrors.ErrConflict)
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}

	_, err = s.accounts.GetByUsername(username)
	if err == nil {
		return nil, fmt.Errorf("%w: username already taken", apperrors.ErrConflict)
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username existence: %w", err)
	}

	code, err := generateCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate verification code: %w", err)
	}
	expiresAt := time.Now().Add(s.codeTTL)

	account := &entity.Account{
		Username:            username,
		Email:               email,
		Password:            password,
		Status:              entity.AccountStatusPending,
		VerifyCode:          code,
		VerifyCodeExpiresAt: &expiresAt,
	}
	if err := s.accounts.Create(account); err != nil {
		return nil, err
	}

	log.Printf("[RegistrationService] account ID=%d (%s) registered, pending confirmation", account.ID, account.Email)
	s.deliver(email, code, PurposeRegistration)
	return account, nil
}

// ResendCode issues a fresh verification code for a Pending account. The new
// code overwrites the previous one, so only the latest issued code is valid.
func (s *RegistrationService) ResendCode(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return fmt.Errorf("%w: email is required", apperrors.ErrValidation)
	}

	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("failed to generate verification code: %w", err)
	}

	ok, err := s.accounts.SetVerificationCode(email, code, time.Now().Add(s.codeTTL))
	if err != nil {
		return err
	}
	if !ok {
		account, err := s.accounts.GetByEmail(email)
		if err != nil {
			return apperrors.ErrNotFound
		}
		if account.IsActive() {
			return ErrAlreadyActive
		}
		return apperrors.ErrNotFound
	}

	s.deliver(email, code, PurposeRegistration)
	return nil
}

// ConfirmRegistration consumes a verification code. The Pending→Active flip
// and the code clear happen in one conditional update; when the update
// reports no modified row, the account is re-read once only to pick the
// right client error.
func (s *RegistrationService) ConfirmRegistration(ctx context.Context, email, code string) error {
	email = normalizeEmail(email)
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return fmt.Errorf("%w: email and code are required", apperrors.ErrValidation)
	}

	ok, err := s.accounts.ActivateWithCode(email, code, time.Now())
	if err != nil {
		return err
	}
	if ok {
		log.Printf("[RegistrationService] account confirmed for email=%s", email)
		return nil
	}

	// Not modified: absent, already active, or the code is no longer good
	// (wrong, expired, or consumed by a concurrent confirm).
	account, err := s.accounts.GetByEmail(email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		}
		return err
	}
	if account.IsActive() {
		return ErrAlreadyActive
	}
	return ErrInvalidOrExpiredCode
}

func (s *RegistrationService) deliver(email, code string, purpose DeliveryPurpose) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.dispatchTimeout)
		defer cancel()
		if err := s.dispatcher.Deliver(ctx, email, code, purpose); err != nil {
			log.Printf("[RegistrationService] code delivery failed for email=%s: %v", email, err)
		}
	}()
}

// normalizeEmail lowercases and trims an email address.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
