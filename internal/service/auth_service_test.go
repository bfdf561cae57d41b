package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/yourusername/agroscan-api/internal/pkg/errors"
	"github.com/yourusername/agroscan-api/pkg/auth"
)

func newTestAuthService(t *testing.T, store *fakeAccountStore) *AuthService {
	t.Helper()
	jwtService, err := auth.NewJWTService("test-secret-at-least-long-enough", time.Hour)
	require.NoError(t, err)
	svc, err := NewAuthService(store, jwtService)
	require.NoError(t, err)
	return svc
}

func TestAuthService_Login_ByEmailAndUsername(t *testing.T) {
	// Arrange
	store := newFakeAccountStore()
	activeTestAccount(t, store, "farmer@example.com", "secret123")
	svc := newTestAuthService(t, store)

	// Act / Assert: email, with odd casing
	resp, err := svc.Login("FARMER@example.com", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, int(time.Hour.Seconds()), resp.ExpiresIn)
	assert.Equal(t, "farmer@example.com", resp.Account.Email)

	// Act / Assert: username
	resp, err = svc.Login("recovery-user", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	// Arrange
	store := newFakeAccountStore()
	activeTestAccount(t, store, "farmer@example.com", "secret123")
	svc := newTestAuthService(t, store)

	// Act
	resp, err := svc.Login("farmer@example.com", "wrong-password")

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.Nil(t, resp)
}

func TestAuthService_Login_PendingAccountIsNotFound(t *testing.T) {
	// Arrange: registered, never confirmed
	store := newFakeAccountStore()
	regSvc, dispatcher := newTestRegistrationService(t, store)
	_, err := regSvc.StartRegistration(context.Background(), "pending-user", "pending@example.com", "secret123")
	require.NoError(t, err)
	dispatcher.waitForCode(t)

	svc := newTestAuthService(t, store)

	// Act: even with the correct password
	resp, err := svc.Login("pending@example.com", "secret123")

	// Assert: indistinguishable from a missing account
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Nil(t, resp)
}

func TestAuthService_Login_UnknownIdentifier(t *testing.T) {
	store := newFakeAccountStore()
	svc := newTestAuthService(t, store)

	resp, err := svc.Login("nobody@example.com", "whatever1")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Nil(t, resp)
}

func TestAuthService_Login_TokenCarriesAccountClaims(t *testing.T) {
	// Arrange
	store := newFakeAccountStore()
	activeTestAccount(t, store, "farmer@example.com", "secret123")
	jwtService, err := auth.NewJWTService("test-secret-at-least-long-enough", time.Hour)
	require.NoError(t, err)
	svc, err := NewAuthService(store, jwtService)
	require.NoError(t, err)

	// Act
	resp, err := svc.Login("farmer@example.com", "secret123")
	require.NoError(t, err)

	claims, err := jwtService.ParseToken(resp.AccessToken)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, resp.Account.ID, claims.AccountID)
	assert.Equal(t, resp.Account.Username, claims.Username)
}

func TestAuthService_GetAccountByID(t *testing.T) {
	// Arrange
	store := newFakeAccountStore()
	activeTestAccount(t, store, "farmer@example.com", "secret123")
	svc := newTestAuthService(t, store)

	seeded, err := store.GetByEmail("farmer@example.com")
	require.NoError(t, err)

	// Act
	account, err := svc.GetAccountByID(seeded.ID)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, seeded.Email, account.Email)

	_, err = svc.GetAccountByID(9999)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
