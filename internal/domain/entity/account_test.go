package entity

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccount_BeforeSave_HashesPlaintextPassword(t *testing.T) {
	// Arrange
	account := &Account{
		Username: "farmer1",
		Email:    "farmer1@example.com",
		Password: "plaintext-password",
	}

	// Act
	err := account.BeforeSave(nil)

	// Assert
	require.NoError(t, err)
	assert.NotEqual(t, "plaintext-password", account.Password, "password must not stay plaintext")
	assert.True(t, strings.HasPrefix(account.Password, "$2a$") || strings.HasPrefix(account.Password, "$2b$"),
		"password should be a bcrypt hash, got %q", account.Password)
	assert.True(t, account.CheckPassword("plaintext-password"))
	assert.False(t, account.CheckPassword("wrong-password"))
}

func TestAccount_BeforeSave_KeepsExistingHash(t *testing.T) {
	// Arrange
	account := &Account{Password: "secret123"}
	require.NoError(t, account.BeforeSave(nil))
	hashed := account.Password

	// Act: a second save must not re-hash the hash
	err := account.BeforeSave(nil)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, hashed, account.Password)
	assert.True(t, account.CheckPassword("secret123"))
}

func TestAccount_IsActive(t *testing.T) {
	expiry := time.Now().Add(15 * time.Minute)

	pending := &Account{Status: AccountStatusPending, VerifyCode: "ABC234", VerifyCodeExpiresAt: &expiry}
	active := &Account{Status: AccountStatusActive}

	assert.False(t, pending.IsActive())
	assert.True(t, active.IsActive())
}
