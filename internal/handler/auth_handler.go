package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/agroscan-api/internal/middleware"
	apperrors "github.com/yourusername/agroscan-api/internal/pkg/errors"
	"github.com/yourusername/agroscan-api/internal/service"
)

// AuthHandler serves the registration, login and password recovery endpoints.
type AuthHandler struct {
	registration *service.RegistrationService
	recovery     *service.RecoveryService
	authService  *service.AuthService
}

func NewAuthHandler(
	registration *service.RegistrationService,
	recovery *service.RecoveryService,
	authService *service.AuthService,
) *AuthHandler {
	return &AuthHandler{
		registration: registration,
		recovery:     recovery,
		authService:  authService,
	}
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=50"`
}

// ConfirmRequest is the body of POST /auth/register/confirm.
type ConfirmRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6"`
}

// ResendRequest is the body of POST /auth/register/resend and /auth/forgot.
type ResendRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// LoginRequest is the body of POST /auth/login. The identifier may be a
// username or an email address.
type LoginRequest struct {
	EmailOrUsername string `json:"emailOrUsername" binding:"required"`
	Password        string `json:"password" binding:"required"`
}

// ResetConfirmRequest is the body of POST /auth/forgot/confirm.
type ResetConfirmRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Code     string `json:"code" binding:"required,len=6"`
	Password string `json:"password" binding:"required,min=6,max=50"`
}

// Register starts a registration and returns the pending account.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	account, err := h.registration.StartRegistration(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"account": account,
		"status":  account.Status,
	})
}

// ConfirmRegistration consumes a verification code and activates the account.
func (h *AuthHandler) ConfirmRegistration(c *gin.Context) {
	var req ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	if err := h.registration.ConfirmRegistration(c.Request.Context(), req.Email, req.Code); err != nil {
		h.handleAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "active"})
}

// ResendCode issues a fresh verification code for a pending account.
func (h *AuthHandler) ResendCode(c *gin.Context) {
	var req ResendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	if err := h.registration.ResendCode(c.Request.Context(), req.Email); err != nil {
		h.handleAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "code_sent"})
}

// Login authenticates an active account and returns an access token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	resp, err := h.authService.Login(req.EmailOrUsername, req.Password)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Forgot opens a password recovery for an active account.
func (h *AuthHandler) Forgot(c *gin.Context) {
	var req ResendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	if err := h.recovery.RequestReset(c.Request.Context(), req.Email); err != nil {
		h.handleAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "code_sent"})
}

// ForgotConfirm consumes a reset code and installs the new password.
func (h *AuthHandler) ForgotConfirm(c *gin.Context) {
	var req ResetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	if err := h.recovery.ConfirmReset(c.Request.Context(), req.Email, req.Code, req.Password); err != nil {
		h.handleAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "password_reset"})
}

// Me returns the authenticated account.
func (h *AuthHandler) Me(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "error_type": "unauthorized"})
		return
	}

	account, err := h.authService.GetAccountByID(accountID)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, account)
}

// handleAuthError maps service errors to HTTP statuses and stable error_type
// strings.
func (h *AuthHandler) handleAuthError(c *gin.Context, err error) {
	log.Printf("[AuthHandler] auth error: %v", err)

	switch {
	case errors.Is(err, service.ErrAlreadyActive):
		c.JSON(http.StatusConflict, gin.H{"error": "Account is already active", "error_type": "already_active"})
	case errors.Is(err, service.ErrInvalidOrExpiredCode):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Code is invalid or expired", "error_type": "invalid_or_expired_code"})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Username or email is already registered", "error_type": "duplicate_identity"})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found", "error_type": "not_found"})
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials", "error_type": "invalid_credentials"})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "error_type": "validation_error", "details": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error", "error_type": "internal_server_error"})
	}
}
