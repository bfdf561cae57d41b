package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/yourusername/agroscan-api/internal/pkg/errors"
	"github.com/yourusername/agroscan-api/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestContext(method, path, body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func TestAuthHandler_HandleAuthError_Mapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{"already active", service.ErrAlreadyActive, http.StatusConflict, "already_active"},
		{"invalid or expired code", service.ErrInvalidOrExpiredCode, http.StatusBadRequest, "invalid_or_expired_code"},
		{"duplicate identity", fmt.Errorf("%w: email already registered", apperrors.ErrConflict), http.StatusConflict, "duplicate_identity"},
		{"not found", apperrors.ErrNotFound, http.StatusNotFound, "not_found"},
		{"invalid credentials", fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized), http.StatusUnauthorized, "invalid_credentials"},
		{"validation", fmt.Errorf("%w: email is required", apperrors.ErrValidation), http.StatusBadRequest, "validation_error"},
		{"unknown", fmt.Errorf("connection refused"), http.StatusInternalServerError, "internal_server_error"},
	}

	h := &AuthHandler{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext(http.MethodPost, "/auth/register", "{}")

			h.handleAuthError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), fmt.Sprintf("%q", tt.wantType))
		})
	}
}

func TestAuthHandler_Register_BindingValidation(t *testing.T) {
	// Malformed bodies must be rejected at binding, before any service call;
	// a handler without services proves no service is reached.
	h := &AuthHandler{}

	tests := []struct {
		name string
		body string
	}{
		{"empty body", `{}`},
		{"short username", `{"username":"ab","email":"a@b.com","password":"secret123"}`},
		{"bad email", `{"username":"farmer1","email":"not-an-email","password":"secret123"}`},
		{"short password", `{"username":"farmer1","email":"a@b.com","password":"12345"}`},
		{"not json", `username=farmer1`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext(http.MethodPost, "/auth/register", tt.body)

			h.Register(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestAuthHandler_ConfirmRegistration_BindingValidation(t *testing.T) {
	h := &AuthHandler{}

	tests := []struct {
		name string
		body string
	}{
		{"missing code", `{"email":"a@b.com"}`},
		{"code too short", `{"email":"a@b.com","code":"ABC"}`},
		{"code too long", `{"email":"a@b.com","code":"ABCDEFGH"}`},
		{"missing email", `{"code":"ABC234"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext(http.MethodPost, "/auth/register/confirm", tt.body)

			h.ConfirmRegistration(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestAuthHandler_Login_BindingValidation(t *testing.T) {
	h := &AuthHandler{}

	c, w := newTestContext(http.MethodPost, "/auth/login", `{"emailOrUsername":"farmer1"}`)

	h.Login(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
