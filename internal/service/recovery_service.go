package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/yourusername/agroscan-api/internal/domain/repository"
	apperrors "github.com/yourusername/agroscan-api/internal/pkg/errors"
)

// RecoveryService drives password recovery on Active accounts: opening a
// reset (issuing a code) and consuming it to install a new credential.
// Re-calling RequestReset is the resend mechanism; each issuance overwrites
// the previous code in place.
type RecoveryService struct {
	accounts        repository.AccountRepository
	dispatcher      NotificationDispatcher
	codeTTL         time.Duration
	dispatchTimeout time.Duration
}

func NewRecoveryService(
	accounts repository.AccountRepository,
	dispatcher NotificationDispatcher,
	codeTTL time.Duration,
) (*RecoveryService, error) {
	if accounts == nil {
		return nil, fmt.Errorf("account repository is required")
	}
	if dispatcher == nil {
		return nil, fmt.Errorf("notification dispatcher is required")
	}
	if codeTTL <= 0 {
		codeTTL = 15 * time.Minute
	}
	return &RecoveryService{
		accounts:        accounts,
		dispatcher:      dispatcher,
		codeTTL:         codeTTL,
		dispatchTimeout: 10 * time.Second,
	}, nil
}

// RequestReset opens a recovery on an Active account and sends the code.
// Pending accounts are reported as not found: they have no credential worth
// recovering yet.
func (s *RecoveryService) RequestReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return fmt.Errorf("%w: email is required", apperrors.ErrValidation)
	}

	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("failed to generate reset code: %w", err)
	}

	ok, err := s.accounts.SetResetCode(email, code, time.Now().Add(s.codeTTL))
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrNotFound
	}

	log.Printf("[RecoveryService] reset opened for email=%s", email)
	s.deliver(email, code)
	return nil
}

// ConfirmReset consumes a reset code and installs the new password. Hash
// swap and code clear are one conditional update; a no-row result means the
// code is no longer good, whatever the reason.
func (s *RecoveryService) ConfirmReset(ctx context.Context, email, code, newPassword string) error {
	email = normalizeEmail(email)
	code = strings.TrimSpace(code)
	if email == "" || code == "" || newPassword == "" {
		return fmt.Errorf("%w: email, code and password are required", apperrors.ErrValidation)
	}
	if len(newPassword) < 6 {
		return fmt.Errorf("%w: password must be at least 6 characters", apperrors.ErrValidation)
	}

	ok, err := s.accounts.ConsumeResetCode(email, code, newPassword, time.Now())
	if err != nil {
		return err
	}
	if ok {
		log.Printf("[RecoveryService] password reset completed for email=%s", email)
		return nil
	}

	if _, err := s.accounts.GetByEmail(email); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		}
		return err
	}
	return ErrInvalidOrExpiredCode
}

func (s *RecoveryService) deliver(email, code string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.dispatchTimeout)
		defer cancel()
		if err := s.dispatcher.Deliver(ctx, email, code, PurposePasswordReset); err != nil {
			log.Printf("[RecoveryService] code delivery failed for email=%s: %v", email, err)
		}
	}()
}
