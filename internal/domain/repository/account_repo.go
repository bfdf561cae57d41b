package repository

import (
	"time"

	"github.com/yourusername/agroscan-api/internal/domain/entity"
)

// AccountRepository persists identity records. Every check-then-mutate on a
// verification or reset code is a single conditional update; the boolean
// result reports whether the guarded row was actually modified. Callers must
// treat that result as the only success signal: a separate read followed by
// a write is unsound under concurrent duplicate requests.
type AccountRepository interface {
	Create(account *entity.Account) error
	GetByID(id uint) (*entity.Account, error)
	GetByEmail(email string) (*entity.Account, error)
	GetByUsername(username string) (*entity.Account, error)
	// GetByIdentifier resolves a login identifier that may be either a
	// username or an email address.
	GetByIdentifier(identifier string) (*entity.Account, error)

	// SetVerificationCode stores a fresh verification code on a Pending
	// account, overwriting any previous one. Returns false when no Pending
	// account with that email exists.
	SetVerificationCode(email, code string, expiresAt time.Time) (bool, error)

	// ActivateWithCode flips a Pending account to Active and clears the
	// verification code, guarded on "status is pending AND stored code equals
	// code AND now is before expiry" in one statement.
	ActivateWithCode(email, code string, now time.Time) (bool, error)

	// SetResetCode stores a fresh reset code on an Active account,
	// overwriting any open one. Returns false when no Active account with
	// that email exists.
	SetResetCode(email, code string, expiresAt time.Time) (bool, error)

	// ConsumeResetCode replaces the password hash and clears the reset code,
	// guarded on "stored code equals code AND now is before expiry" in one
	// statement. The new password is hashed before the update runs.
	ConsumeResetCode(email, code, newPassword string, now time.Time) (bool, error)
}
