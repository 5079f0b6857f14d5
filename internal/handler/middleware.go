package handler

import (
	"errors"
	"net/http"
	"strings"

	"story-server/internal/models"

	"github.com/gin-gonic/gin"
)

const claimsContextKey = "authClaims"

// AuthMiddleware validates the Bearer access token and stores the parsed
// claims in the request context.
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			tokenVerificationsTotal.WithLabelValues("failure").Inc()
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
				Code:    models.ErrCodeUnauthorized,
				Message: "authorization header is missing",
			})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			tokenVerificationsTotal.WithLabelValues("failure").Inc()
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
				Code:    models.ErrCodeTokenInvalid,
				Message: "authorization header must be in 'Bearer <token>' format",
			})
			return
		}

		claims, err := h.authService.VerifyAccessToken(c.Request.Context(), parts[1])
		if err != nil {
			tokenVerificationsTotal.WithLabelValues("failure").Inc()
			code := models.ErrCodeTokenInvalid
			if errors.Is(err, models.ErrTokenExpired) {
				code = models.ErrCodeTokenExpired
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
				Code:    code,
				Message: "invalid or expired access token",
			})
			return
		}

		tokenVerificationsTotal.WithLabelValues("success").Inc()
		c.Set(claimsContextKey, claims)
		c.Next()
	}
}

// RequireAdminRole allows the request through only for admin users. Must be
// placed after AuthMiddleware.
func (h *Handler) RequireAdminRole() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := claimsFromContext(c)
		if !ok || claims.Role != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, models.ErrorResponse{
				Code:    models.ErrCodeForbidden,
				Message: "admin role required",
			})
			return
		}
		c.Next()
	}
}

func claimsFromContext(c *gin.Context) (*models.Claims, bool) {
	value, exists := c.Get(claimsContextKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*models.Claims)
	return claims, ok
}
