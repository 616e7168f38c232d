// internal/interfaces/http/handlers/auth.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/domain/user"
	"github.com/your-org/storefront/internal/interfaces/http/middleware"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	userService *user.Service
	logger      logrus.FieldLogger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(userService *user.Service, logger logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		logger:      logger,
	}
}

// LoginRequest is the login form
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request data", err.Error())
		return
	}

	if problems := user.ValidateCredentials(req.Email, req.Password); len(problems) > 0 {
		badRequest(c, "Validation failed", problems)
		return
	}

	identity, err := h.userService.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		h.logger.WithError(err).Error("Failed to authenticate user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log in"})
		return
	}

	auth := middleware.GetBrowser(c).Auth()
	auth.Login(c.Request.Context(), *identity, req.Remember)

	current, _ := auth.CurrentIdentity()
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"data":    current,
	})
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	middleware.GetBrowser(c).Auth().Logout(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{
		"message": "Logout successful",
	})
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": identity,
	})
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req user.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request data", err.Error())
		return
	}

	u, err := h.userService.Register(c.Request.Context(), req)
	if err != nil {
		switch {
		case user.IsValidationError(err):
			badRequest(c, err.Error(), nil)
		case errors.Is(err, user.ErrEmailTaken):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			h.logger.WithError(err).Error("Failed to register user")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register user"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"data":    u,
	})
}

// RecoverRequest asks for a password recovery email
type RecoverRequest struct {
	Email string `json:"email" binding:"required"`
}

// Recover handles POST /auth/recover
func (h *AuthHandler) Recover(c *gin.Context) {
	var req RecoverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request data", err.Error())
		return
	}

	message, err := h.userService.RecoverPassword(c.Request.Context(), req.Email)
	if err != nil {
		switch {
		case user.IsValidationError(err):
			badRequest(c, err.Error(), nil)
		case errors.Is(err, user.ErrUserInactive):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			h.logger.WithError(err).Error("Failed to start password recovery")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send recovery email"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": message,
	})
}

// ResetPasswordRequest sets a new password with a recovery token
type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ResetPassword handles POST /auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request data", err.Error())
		return
	}

	if err := h.userService.UpdatePassword(c.Request.Context(), req.Token, req.Password); err != nil {
		switch {
		case user.IsValidationError(err), errors.Is(err, user.ErrInvalidToken):
			badRequest(c, err.Error(), nil)
		default:
			h.logger.WithError(err).Error("Failed to reset password")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset password"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Password updated successfully",
	})
}
