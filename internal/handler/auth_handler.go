package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adilzhan-dev/tulpar-backend/internal/dto"
	"github.com/adilzhan-dev/tulpar-backend/internal/service"
)

// The cookie must reach both the refresh and the logout endpoint.
const refreshCookiePath = "/api/v1/auth"

// AuthHandler handles authentication requests
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register handles account registration
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Message: err.Error(),
		})
		return
	}

	result, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDuplicateEmail):
			c.JSON(http.StatusConflict, dto.ErrorResponse{
				Error:   "Conflict",
				Message: err.Error(),
			})
		case errors.Is(err, service.ErrValidation):
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error:   "Validation failed",
				Message: err.Error(),
			})
		default:
			internalError(c)
		}
		return
	}

	h.setRefreshCookie(c, result)
	c.JSON(http.StatusCreated, result.AuthResponse)
}

// Login handles account login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Message: err.Error(),
		})
		return
	}

	result, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrAccountInactive):
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error:   "Unauthorized",
				Message: err.Error(),
			})
		default:
			internalError(c)
		}
		return
	}

	h.setRefreshCookie(c, result)
	c.JSON(http.StatusOK, result.AuthResponse)
}

// Refresh handles rotation-token refresh. The presented token is carried in
// an httpOnly cookie.
func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie("refresh_token")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Bad request",
			Message: "Refresh token not found in cookie",
		})
		return
	}

	result, err := h.authService.RefreshToken(c.Request.Context(), refreshToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidToken),
			errors.Is(err, service.ErrTokenInactive),
			errors.Is(err, service.ErrAccountInactive):
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error:   "Unauthorized",
				Message: err.Error(),
			})
		default:
			internalError(c)
		}
		return
	}

	h.setRefreshCookie(c, result)
	c.JSON(http.StatusOK, result.AuthResponse)
}

// Logout revokes the presented rotation token and clears the cookie
func (h *AuthHandler) Logout(c *gin.Context) {
	refreshToken, err := c.Cookie("refresh_token")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Bad request",
			Message: "Refresh token not found in cookie",
		})
		return
	}

	if err := h.authService.RevokeToken(c.Request.Context(), refreshToken); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidToken), errors.Is(err, service.ErrTokenInactive):
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error:   "Unauthorized",
				Message: err.Error(),
			})
		default:
			internalError(c)
		}
		return
	}

	c.SetCookie("refresh_token", "", -1, refreshCookiePath, "", true, true)

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: "Logged out successfully",
	})
}

// GetMe returns the authenticated account's profile
func (h *AuthHandler) GetMe(c *gin.Context) {
	accountID, exists := c.Get(ctxAccountID)
	if !exists {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error:   "Unauthorized",
			Message: "Account ID not found in context",
		})
		return
	}

	account, err := h.authService.GetAccount(c.Request.Context(), accountID.(string))
	if err != nil {
		internalError(c)
		return
	}

	c.JSON(http.StatusOK, account)
}

// Deactivate turns the authenticated account off. Its access tokens stay
// valid until expiry; its rotation tokens become unusable immediately.
func (h *AuthHandler) Deactivate(c *gin.Context) {
	accountID, exists := c.Get(ctxAccountID)
	if !exists {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error:   "Unauthorized",
			Message: "Account ID not found in context",
		})
		return
	}

	if err := h.authService.DeactivateAccount(c.Request.Context(), accountID.(string)); err != nil {
		switch {
		case errors.Is(err, service.ErrAccountInactive):
			c.JSON(http.StatusConflict, dto.ErrorResponse{
				Error:   "Conflict",
				Message: err.Error(),
			})
		default:
			internalError(c)
		}
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: "Account deactivated",
	})
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, result *service.AuthResult) {
	c.SetCookie("refresh_token", result.RefreshToken, result.ExpiresIn, refreshCookiePath, "", true, true)
}

// internalError answers an unexpected fault with an opaque response,
// never surfacing internal detail.
func internalError(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error:   "Internal server error",
		Message: "Something went wrong",
	})
}
