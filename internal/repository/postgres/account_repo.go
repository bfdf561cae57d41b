package postgres

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yourusername/agroscan-api/internal/domain/entity"
	apperrors "github.com/yourusername/agroscan-api/internal/pkg/errors"
)

// AccountRepo implements repository.AccountRepository on PostgreSQL.
type AccountRepo struct {
	db *gorm.DB
}

func NewAccountRepo(db *gorm.DB) *AccountRepo {
	return &AccountRepo{db: db}
}

// Create inserts a new account. Unique violations on username or email are
// mapped to ErrConflict so the service-level pre-check has a race-free
// backstop at the store.
func (r *AccountRepo) Create(account *entity.Account) error {
	err := r.db.Create(account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "duplicate key value") {
			return fmt.Errorf("%w: username or email already taken", apperrors.ErrConflict)
		}
		return err
	}
	return nil
}

func (r *AccountRepo) GetByID(id uint) (*entity.Account, error) {
	var account entity.Account
	err := r.db.First(&account, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r *AccountRepo) GetByEmail(email string) (*entity.Account, error) {
	var account entity.Account
	err := r.db.Where("email = ?", email).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r *AccountRepo) GetByUsername(username string) (*entity.Account, error) {
	var account entity.Account
	err := r.db.Where("username = ?", username).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r *AccountRepo) GetByIdentifier(identifier string) (*entity.Account, error) {
	var account entity.Account
	err := r.db.Where("email = ? OR username = ?", identifier, identifier).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

// SetVerificationCode overwrites the verification code of a Pending account.
// The status guard keeps re-issue from touching accounts that already
// activated.
func (r *AccountRepo) SetVerificationCode(email, code string, expiresAt time.Time) (bool, error) {
	result := r.db.Model(&entity.Account{}).
		Where("email = ? AND status = ?", email, entity.AccountStatusPending).
		Updates(map[string]interface{}{
			"verify_code":            code,
			"verify_code_expires_at": expiresAt,
			"updated_at":             time.Now(),
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to set verification code: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// ActivateWithCode performs the Pending→Active transition as one guarded
// UPDATE. The row is modified only when the account is still Pending, the
// stored code matches and the expiry has not passed; RowsAffected is the sole
// success signal, so two concurrent confirms can never both win.
func (r *AccountRepo) ActivateWithCode(email, code string, now time.Time) (bool, error) {
	result := r.db.Model(&entity.Account{}).
		Where("email = ? AND status = ? AND verify_code = ? AND verify_code <> '' AND verify_code_expires_at > ?",
			email, entity.AccountStatusPending, code, now).
		Updates(map[string]interface{}{
			"status":                 entity.AccountStatusActive,
			"verify_code":            "",
			"verify_code_expires_at": nil,
			"updated_at":             now,
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to activate account: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// SetResetCode opens (or refreshes) a password recovery on an Active account.
func (r *AccountRepo) SetResetCode(email, code string, expiresAt time.Time) (bool, error) {
	result := r.db.Model(&entity.Account{}).
		Where("email = ? AND status = ?", email, entity.AccountStatusActive).
		Updates(map[string]interface{}{
			"reset_code":            code,
			"reset_code_expires_at": expiresAt,
			"updated_at":            time.Now(),
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to set reset code: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// ConsumeResetCode swaps in the new password hash and clears the reset code
// in one guarded UPDATE, closing the same race window as ActivateWithCode.
// Hashing happens here, before the statement runs, so the BeforeSave hook is
// never involved and the transition stays a single write.
func (r *AccountRepo) ConsumeResetCode(email, code, newPassword string, now time.Time) (bool, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("[AccountRepo.ConsumeResetCode] failed to hash password for email=%s: %v", email, err)
		return false, err
	}

	result := r.db.Model(&entity.Account{}).
		Where("email = ? AND reset_code = ? AND reset_code <> '' AND reset_code_expires_at > ?",
			email, code, now).
		Updates(map[string]interface{}{
			"password":              string(hashed),
			"reset_code":            "",
			"reset_code_expires_at": nil,
			"updated_at":            now,
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to consume reset code: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
