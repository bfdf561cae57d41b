package entity

import (
	"log"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Account statuses. An account is created Pending and becomes Active exactly
// once, when the registration code is confirmed.
const (
	AccountStatusPending = "pending"
	AccountStatusActive  = "active"
)

// Account is the persistent identity record. The verification code is only
// present while the account is Pending; the reset code only while a password
// recovery is open on an Active account. The two are never set at the same
// time.
type Account struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `gorm:"size:50;not null;uniqueIndex" json:"username"`
	Email    string `gorm:"size:100;not null;uniqueIndex" json:"email"`
	Password string `gorm:"size:100;not null" json:"-"`
	Status   string `gorm:"size:20;not null;default:'pending';index" json:"status"`

	VerifyCode          string     `gorm:"size:12;not null;default:''" json:"-"`
	VerifyCodeExpiresAt *time.Time `gorm:"type:timestamp" json:"-"`
	ResetCode           string     `gorm:"size:12;not null;default:''" json:"-"`
	ResetCodeExpiresAt  *time.Time `gorm:"type:timestamp" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName sets the table name for GORM.
func (Account) TableName() string {
	return "accounts"
}

// IsActive reports whether the account has completed registration.
func (a *Account) IsActive() bool {
	return a.Status == AccountStatusActive
}

// BeforeSave hashes the password unless it is already a bcrypt hash.
func (a *Account) BeforeSave(tx *gorm.DB) error {
	if len(a.Password) > 0 && !strings.HasPrefix(a.Password, "$2a$") &&
		!strings.HasPrefix(a.Password, "$2b$") && !strings.HasPrefix(a.Password, "$2y$") {
		hashed, err := bcrypt.GenerateFromPassword([]byte(a.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("[Account.BeforeSave] failed to hash password for email=%s: %v", a.Email, err)
			return err
		}
		a.Password = string(hashed)
	}
	return nil
}

// CheckPassword reports whether the plaintext password matches the stored hash.
func (a *Account) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(a.Password), []byte(password))
	return err == nil
}
