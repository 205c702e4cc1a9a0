package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/openroom/openroom-server/internal/auth"
)

// AdminHandlers provides the REST endpoint that exchanges the admin
// password for a session token.
type AdminHandlers struct {
	authService *auth.Service
	limiter     *rateLimiter
	log         *zerolog.Logger
}

// NewAdminHandlers creates a new admin handlers instance.
func NewAdminHandlers(authService *auth.Service, loginLimit int, logger *zerolog.Logger) *AdminHandlers {
	return &AdminHandlers{
		authService: authService,
		limiter:     newRateLimiter(loginLimit),
		log:         logger,
	}
}

// AdminLoginRequest represents the admin login request body.
type AdminLoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// AdminLoginResponse represents the admin login response body.
type AdminLoginResponse struct {
	Token string `json:"token"`
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Login handles admin login.
// POST /api/admin/login
func (h *AdminHandlers) Login(c *gin.Context) {
	if !h.limiter.allow() {
		c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: "too many attempts"})
		return
	}

	var req AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid admin login request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	token, err := h.authService.Login(req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) || errors.Is(err, auth.ErrNotConfigured) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid credentials"})
			return
		}
		h.log.Error().Err(err).Msg("admin login failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	h.log.Info().Msg("admin logged in")
	c.JSON(http.StatusOK, AdminLoginResponse{Token: token})
}
