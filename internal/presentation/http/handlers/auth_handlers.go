package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/AtRiskMedia/praxis/internal/application/services"
	"github.com/AtRiskMedia/praxis/internal/domain/user"
	"github.com/AtRiskMedia/praxis/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/praxis/internal/presentation/http/middleware"
	"github.com/gin-gonic/gin"
)

// AuthHandlers contains all authentication-related HTTP handlers
type AuthHandlers struct {
	authService  *services.AuthService
	logger       *logging.ChanneledLogger
	cookieSecure bool
}

// NewAuthHandlers creates auth handlers with injected dependencies
func NewAuthHandlers(authService *services.AuthService, logger *logging.ChanneledLogger, cookieSecure bool) *AuthHandlers {
	return &AuthHandlers{authService: authService, logger: logger, cookieSecure: cookieSecure}
}

type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// PostLogin handles POST /api/v1/auth/login
func (h *AuthHandlers) PostLogin(c *gin.Context) {
	start := time.Now()
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	token, id, err := h.authService.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": user.ErrInvalidCredentials.Error()})
			return
		}
		h.logger.Auth().Error("Login failed", "error", err.Error(), "duration", time.Since(start))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sign-in is temporarily unavailable"})
		return
	}

	setAuthCookie(c, token, h.authService.TokenTTL(), h.cookieSecure)
	c.JSON(http.StatusOK, gin.H{"user": id})
}

// PostLogout handles POST /api/v1/auth/logout
func (h *AuthHandlers) PostLogout(c *gin.Context) {
	h.authService.SignOut(middleware.CurrentUser(c))
	clearAuthCookie(c, h.cookieSecure)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetStatus handles GET /api/v1/auth/status
func (h *AuthHandlers) GetStatus(c *gin.Context) {
	id := middleware.CurrentUser(c)
	c.JSON(http.StatusOK, gin.H{"authenticated": id != nil, "user": id})
}
