package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/adilzhan-dev/tulpar-backend/internal/dto"
	"github.com/adilzhan-dev/tulpar-backend/internal/service"
)

// Context keys set by AuthMiddleware for downstream handlers.
const (
	ctxAccountID = "account_id"
	ctxEmail     = "email"
	ctxRole      = "role"
)

// AuthMiddleware validates the bearer access token and stores identity
// claims on the request context.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error:   "Unauthorized",
				Message: "Authorization header is required",
			})
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error:   "Unauthorized",
				Message: "Invalid authorization header format",
			})
			c.Abort()
			return
		}

		claims, err := authService.ValidateToken(c.Request.Context(), parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error:   "Unauthorized",
				Message: "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set(ctxAccountID, claims.Subject)
		c.Set(ctxEmail, claims.Email)
		c.Set(ctxRole, string(claims.Role))

		c.Next()
	}
}
